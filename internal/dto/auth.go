package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"` // 非 Cookie 模式时使用
}

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"` // Cookie 模式下可不返回
	ExpiresIn    int          `json:"expires_in"`              // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// ── 管理模块 DTO ──

// CreateUserRequest 创建用户请求（admin）
type CreateUserRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"required,oneof=admin sales manager"`
}

// UpdateTenantSettingsRequest 更新租户配置请求，全部字段可选
type UpdateTenantSettingsRequest struct {
	MinMarginPct        *float64 `json:"min_margin_pct"         binding:"omitempty,min=0,max=1"`
	BlockBelowMinMargin *bool    `json:"block_below_min_margin"`
	DefaultVATRate      *float64 `json:"default_vat_rate"       binding:"omitempty,min=0,max=1"`
	QuotePrefix         *string  `json:"quote_prefix"           binding:"omitempty,min=1,max=20"`
	LogoURL             *string  `json:"logo_url"`
	CompanyName         *string  `json:"company_name"`
	CompanyAddress      *string  `json:"company_address"`
	CompanyNIP          *string  `json:"company_nip"`
}

// TenantSettingsResponse 租户配置响应
type TenantSettingsResponse struct {
	TenantID            string  `json:"tenant_id"`
	MinMarginPct        float64 `json:"min_margin_pct"`
	BlockBelowMinMargin bool    `json:"block_below_min_margin"`
	DefaultVATRate      float64 `json:"default_vat_rate"`
	QuotePrefix         string  `json:"quote_prefix"`
	LogoURL             *string `json:"logo_url,omitempty"`
	CompanyName         *string `json:"company_name,omitempty"`
	CompanyAddress      *string `json:"company_address,omitempty"`
	CompanyNIP          *string `json:"company_nip,omitempty"`
}
