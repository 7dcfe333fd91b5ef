package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/przemobski1986/hvacquotepro/pkg/errors"
	"github.com/przemobski1986/hvacquotepro/pkg/i18n"
	"github.com/przemobski1986/hvacquotepro/pkg/response"
)

// 各模块错误码基数，具体码 = 基数 + 种类偏移
const (
	codeBaseAuth        = 11000
	codeBaseCRM         = 12000
	codeBaseQuoting     = 13000
	codeBaseTimekeeping = 14000
	codeBaseReport      = 15000
	codeBaseExport      = 16000
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// JWT 中间件未正确注入时写入 401 并返回 false，调用方应直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, "user_id")
}

// MustGetTenantID 从 Gin 上下文中安全提取 tenant_id。
func MustGetTenantID(c *gin.Context) (string, bool) {
	return mustGetString(c, "tenant_id")
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// handleServiceError 按错误种类映射 HTTP 响应，消息直接透出业务层文案
func handleServiceError(c *gin.Context, codeBase int, err error) {
	switch pkgerrors.KindOf(err) {
	case pkgerrors.KindNotFound:
		response.NotFound(c, codeBase+1, err.Error())
	case pkgerrors.KindConflict:
		response.Conflict(c, codeBase+2, err.Error())
	case pkgerrors.KindUnprocessable:
		response.Unprocessable(c, codeBase+3, err.Error())
	default:
		response.InternalError(c)
	}
}

// parseUintParam 解析路径参数为 uint，失败时写入 400
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "路径参数 "+name+" 非法")
		return 0, false
	}
	return uint(v), true
}

// parseUintQuery 解析可选 uint 查询参数，缺省返回 nil
func parseUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "查询参数 "+name+" 非法")
		return nil, false
	}
	u := uint(v)
	return &u, true
}

// requestLang 从 Accept-Language 协商语言，交由 i18n 匹配器处理
func requestLang(c *gin.Context) string {
	return i18n.Lang(c.GetHeader("Accept-Language"))
}
