package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/przemobski1986/hvacquotepro/internal/service"
	"github.com/przemobski1986/hvacquotepro/pkg/response"
)

// ReportHandler 工时报表 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Daily 日报表
// GET /api/v1/reports/daily?date=&vehicle_id=&employee_id=
func (h *ReportHandler) Daily(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, 10001, "缺少 date 参数")
		return
	}
	vehicleID, ok := parseUintQuery(c, "vehicle_id")
	if !ok {
		return
	}
	employeeID, ok := parseUintQuery(c, "employee_id")
	if !ok {
		return
	}

	result, err := h.reportSvc.AggregateDay(c.Request.Context(), date, vehicleID, employeeID)
	if err != nil {
		handleServiceError(c, codeBaseReport, err)
		return
	}
	response.OK(c, result)
}

// Range 区间报表
// GET /api/v1/reports/range?date_from=&date_to=&vehicle_id=&employee_id=
func (h *ReportHandler) Range(c *gin.Context) {
	dateFrom, dateTo := c.Query("date_from"), c.Query("date_to")
	if dateFrom == "" || dateTo == "" {
		response.BadRequest(c, 10001, "缺少 date_from/date_to 参数")
		return
	}
	vehicleID, ok := parseUintQuery(c, "vehicle_id")
	if !ok {
		return
	}
	employeeID, ok := parseUintQuery(c, "employee_id")
	if !ok {
		return
	}

	result, err := h.reportSvc.AggregateRange(c.Request.Context(), dateFrom, dateTo, vehicleID, employeeID)
	if err != nil {
		handleServiceError(c, codeBaseReport, err)
		return
	}
	response.OK(c, result)
}

// Weekly 周报表：start_date 起 7 天
// GET /api/v1/reports/weekly?start_date=&vehicle_id=&employee_id=
func (h *ReportHandler) Weekly(c *gin.Context) {
	startDate := c.Query("start_date")
	if startDate == "" {
		response.BadRequest(c, 10001, "缺少 start_date 参数")
		return
	}
	vehicleID, ok := parseUintQuery(c, "vehicle_id")
	if !ok {
		return
	}
	employeeID, ok := parseUintQuery(c, "employee_id")
	if !ok {
		return
	}

	result, err := h.reportSvc.WeeklyReport(c.Request.Context(), startDate, vehicleID, employeeID)
	if err != nil {
		handleServiceError(c, codeBaseReport, err)
		return
	}
	response.OK(c, result)
}

// Monthly 月报表：month 形如 2026-03
// GET /api/v1/reports/monthly?month=&vehicle_id=&employee_id=
func (h *ReportHandler) Monthly(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		response.BadRequest(c, 10001, "缺少 month 参数")
		return
	}
	vehicleID, ok := parseUintQuery(c, "vehicle_id")
	if !ok {
		return
	}
	employeeID, ok := parseUintQuery(c, "employee_id")
	if !ok {
		return
	}

	result, err := h.reportSvc.MonthlyReport(c.Request.Context(), month, vehicleID, employeeID)
	if err != nil {
		handleServiceError(c, codeBaseReport, err)
		return
	}
	response.OK(c, result)
}

// Day 日总览：逐班组行 + 主工地
// GET /api/v1/reports/day?date=
func (h *ReportHandler) Day(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, 10001, "缺少 date 参数")
		return
	}

	result, err := h.reportSvc.DayOverview(c.Request.Context(), date)
	if err != nil {
		handleServiceError(c, codeBaseReport, err)
		return
	}
	response.OK(c, result)
}

// Employee 单人区间报表
// GET /api/v1/reports/employee?employee_id=&date_from=&date_to=
func (h *ReportHandler) Employee(c *gin.Context) {
	employeeID, ok := parseUintQuery(c, "employee_id")
	if !ok {
		return
	}
	if employeeID == nil {
		response.BadRequest(c, 10001, "缺少 employee_id 参数")
		return
	}
	dateFrom, dateTo := c.Query("date_from"), c.Query("date_to")
	if dateFrom == "" || dateTo == "" {
		response.BadRequest(c, 10001, "缺少 date_from/date_to 参数")
		return
	}

	result, err := h.reportSvc.EmployeeReport(c.Request.Context(), *employeeID, dateFrom, dateTo)
	if err != nil {
		handleServiceError(c, codeBaseReport, err)
		return
	}
	response.OK(c, result)
}
