package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/przemobski1986/hvacquotepro/internal/dto"
	"github.com/przemobski1986/hvacquotepro/internal/service"
	"github.com/przemobski1986/hvacquotepro/pkg/response"
)

// AdminHandler 租户管理模块 HTTP 处理器（仅 admin 角色可达）
type AdminHandler struct {
	adminSvc service.AdminService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// GetSettings 读取租户配置
// GET /api/v1/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.adminSvc.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		handleServiceError(c, codeBaseAuth, err)
		return
	}
	response.OK(c, result)
}

// UpdateSettings 更新租户配置
// PUT /api/v1/admin/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.UpdateTenantSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.adminSvc.UpdateSettings(c.Request.Context(), tenantID, &req)
	if err != nil {
		handleServiceError(c, codeBaseAuth, err)
		return
	}
	response.OK(c, result)
}

// ListUsers 用户列表
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.adminSvc.ListUsers(c.Request.Context(), tenantID)
	if err != nil {
		handleServiceError(c, codeBaseAuth, err)
		return
	}
	response.OK(c, result)
}

// CreateUser 创建用户
// POST /api/v1/admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.adminSvc.CreateUser(c.Request.Context(), tenantID, &req)
	if err != nil {
		handleServiceError(c, codeBaseAuth, err)
		return
	}
	response.Created(c, result)
}

// DeactivateUser 停用用户
// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.adminSvc.DeactivateUser(c.Request.Context(), tenantID, c.Param("id")); err != nil {
		handleServiceError(c, codeBaseAuth, err)
		return
	}
	response.OK(c, nil)
}
