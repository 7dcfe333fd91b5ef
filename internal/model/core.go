package model

import "time"

// Tenant 租户表 — 对应 tenants
type Tenant struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"       json:"id"`
	Name      string    `gorm:"type:varchar(200);not null"        json:"name"`
	NIP       *string   `gorm:"type:varchar(20)"                  json:"nip,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Tenant) TableName() string { return "tenants" }

// User 用户表 — 对应 users
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"        json:"id"`
	TenantID     string    `gorm:"type:varchar(36);not null;index"    json:"tenant_id"`
	Email        string    `gorm:"type:varchar(255);not null"         json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"         json:"-"`
	Role         string    `gorm:"type:varchar(20);not null"          json:"role"` // admin | sales | manager
	IsActive     bool      `gorm:"not null;default:true"              json:"is_active"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// 用户角色常量
const (
	RoleAdmin   = "admin"
	RoleSales   = "sales"
	RoleManager = "manager"
)

// TenantSettings 租户配置表 — 对应 tenant_settings，每租户一行
type TenantSettings struct {
	TenantID            string  `gorm:"type:varchar(36);primaryKey"       json:"tenant_id"`
	MinMarginPct        float64 `gorm:"type:numeric(6,4);not null;default:0.15" json:"min_margin_pct"`
	BlockBelowMinMargin bool    `gorm:"not null;default:false"            json:"block_below_min_margin"`
	DefaultVATRate      float64 `gorm:"type:numeric(5,4);not null;default:0.23" json:"default_vat_rate"`
	QuotePrefix         string  `gorm:"type:varchar(20);not null;default:'Q'" json:"quote_prefix"`
	LogoURL             *string `gorm:"type:text"                         json:"logo_url,omitempty"`
	CompanyName         *string `gorm:"type:text"                         json:"company_name,omitempty"`
	CompanyAddress      *string `gorm:"type:text"                         json:"company_address,omitempty"`
	CompanyNIP          *string `gorm:"type:text"                         json:"company_nip,omitempty"`
}

// TableName 指定表名
func (TenantSettings) TableName() string { return "tenant_settings" }
