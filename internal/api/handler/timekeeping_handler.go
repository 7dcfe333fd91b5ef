package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/przemobski1986/hvacquotepro/internal/dto"
	"github.com/przemobski1986/hvacquotepro/internal/service"
	"github.com/przemobski1986/hvacquotepro/pkg/response"
)

// TimekeepingHandler 工时基础数据（人员/车辆/工地）HTTP 处理器
type TimekeepingHandler struct {
	tkSvc service.TimekeepingService
}

// NewTimekeepingHandler 创建 TimekeepingHandler
func NewTimekeepingHandler(tkSvc service.TimekeepingService) *TimekeepingHandler {
	return &TimekeepingHandler{tkSvc: tkSvc}
}

// ────────────────────── 人员 ──────────────────────

// CreateEmployee 创建员工
// POST /api/v1/employees
func (h *TimekeepingHandler) CreateEmployee(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.tkSvc.CreateEmployee(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, codeBaseTimekeeping, err)
		return
	}
	response.Created(c, result)
}

// ListEmployees 员工列表
// GET /api/v1/employees
func (h *TimekeepingHandler) ListEmployees(c *gin.Context) {
	result, err := h.tkSvc.ListEmployees(c.Request.Context())
	if err != nil {
		handleServiceError(c, codeBaseTimekeeping, err)
		return
	}
	response.OK(c, result)
}

// DeactivateEmployee 停用员工
// DELETE /api/v1/employees/:id
func (h *TimekeepingHandler) DeactivateEmployee(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.tkSvc.DeactivateEmployee(c.Request.Context(), id); err != nil {
		handleServiceError(c, codeBaseTimekeeping, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 车辆 ──────────────────────

// CreateVehicle 创建车辆
// POST /api/v1/vehicles
func (h *TimekeepingHandler) CreateVehicle(c *gin.Context) {
	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.tkSvc.CreateVehicle(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, codeBaseTimekeeping, err)
		return
	}
	response.Created(c, result)
}

// ListVehicles 车辆列表
// GET /api/v1/vehicles
func (h *TimekeepingHandler) ListVehicles(c *gin.Context) {
	result, err := h.tkSvc.ListVehicles(c.Request.Context())
	if err != nil {
		handleServiceError(c, codeBaseTimekeeping, err)
		return
	}
	response.OK(c, result)
}

// DeactivateVehicle 停用车辆
// DELETE /api/v1/vehicles/:id
func (h *TimekeepingHandler) DeactivateVehicle(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.tkSvc.DeactivateVehicle(c.Request.Context(), id); err != nil {
		handleServiceError(c, codeBaseTimekeeping, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 工地 ──────────────────────

// CreateAdHocSite 外勤现场快速建工地（必须带坐标）
// POST /api/v1/sites/ad-hoc
func (h *TimekeepingHandler) CreateAdHocSite(c *gin.Context) {
	var req dto.CreateAdHocSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	employeeID, ok := parseUintQuery(c, "employee_id")
	if !ok {
		return
	}

	result, err := h.tkSvc.CreateAdHocSite(c.Request.Context(), employeeID, &req)
	if err != nil {
		handleServiceError(c, codeBaseTimekeeping, err)
		return
	}
	response.Created(c, result)
}

// ListSites 工地列表
// GET /api/v1/sites
func (h *TimekeepingHandler) ListSites(c *gin.Context) {
	result, err := h.tkSvc.ListSites(c.Request.Context())
	if err != nil {
		handleServiceError(c, codeBaseTimekeeping, err)
		return
	}
	response.OK(c, result)
}
