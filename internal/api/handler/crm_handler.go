package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/przemobski1986/hvacquotepro/internal/dto"
	"github.com/przemobski1986/hvacquotepro/internal/service"
	"github.com/przemobski1986/hvacquotepro/pkg/response"
)

// CRMHandler 客户管理模块 HTTP 处理器
type CRMHandler struct {
	crmSvc service.CRMService
}

// NewCRMHandler 创建 CRMHandler
func NewCRMHandler(crmSvc service.CRMService) *CRMHandler {
	return &CRMHandler{crmSvc: crmSvc}
}

// CreateClient 创建客户
// POST /api/v1/clients
func (h *CRMHandler) CreateClient(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.crmSvc.CreateClient(c.Request.Context(), tenantID, &req)
	if err != nil {
		handleServiceError(c, codeBaseCRM, err)
		return
	}
	response.Created(c, result)
}

// GetClient 客户详情
// GET /api/v1/clients/:id
func (h *CRMHandler) GetClient(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.crmSvc.GetClient(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, codeBaseCRM, err)
		return
	}
	response.OK(c, result)
}

// ListClients 客户列表
// GET /api/v1/clients
func (h *CRMHandler) ListClients(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	result, err := h.crmSvc.ListClients(c.Request.Context(), tenantID)
	if err != nil {
		handleServiceError(c, codeBaseCRM, err)
		return
	}
	response.OK(c, result)
}

// UpdateClient 局部更新客户
// PATCH /api/v1/clients/:id
func (h *CRMHandler) UpdateClient(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.crmSvc.UpdateClient(c.Request.Context(), tenantID, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, codeBaseCRM, err)
		return
	}
	response.OK(c, result)
}

// CreateClientSite 创建客户安装地址
// POST /api/v1/client-sites
func (h *CRMHandler) CreateClientSite(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var req dto.CreateClientSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.crmSvc.CreateClientSite(c.Request.Context(), tenantID, &req)
	if err != nil {
		handleServiceError(c, codeBaseCRM, err)
		return
	}
	response.Created(c, result)
}

// ListClientSites 安装地址列表，可按客户过滤
// GET /api/v1/client-sites?client_id=
func (h *CRMHandler) ListClientSites(c *gin.Context) {
	tenantID, ok := MustGetTenantID(c)
	if !ok {
		return
	}

	var clientID *string
	if v := c.Query("client_id"); v != "" {
		clientID = &v
	}

	result, err := h.crmSvc.ListClientSites(c.Request.Context(), tenantID, clientID)
	if err != nil {
		handleServiceError(c, codeBaseCRM, err)
		return
	}
	response.OK(c, result)
}
