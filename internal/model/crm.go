package model

import "time"

// Client 客户表 — 对应 clients
type Client struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"        json:"id"`
	TenantID  string    `gorm:"type:varchar(36);not null;index"    json:"tenant_id"`
	Type      string    `gorm:"type:varchar(20);not null"          json:"type"` // company | person
	Name      string    `gorm:"type:varchar(255);not null"         json:"name"`
	NIP       *string   `gorm:"type:varchar(20)"                   json:"nip,omitempty"`
	Email     *string   `gorm:"type:varchar(255)"                  json:"email,omitempty"`
	Phone     *string   `gorm:"type:varchar(50)"                   json:"phone,omitempty"`
	Notes     *string   `gorm:"type:text"                          json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Client) TableName() string { return "clients" }

// ClientSite 客户工地表 — 对应 client_sites
type ClientSite struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"        json:"id"`
	TenantID    string    `gorm:"type:varchar(36);not null;index"    json:"tenant_id"`
	ClientID    string    `gorm:"type:varchar(36);not null;index"    json:"client_id"`
	Name        string    `gorm:"type:varchar(255);not null"         json:"name"`
	AddressLine *string   `gorm:"type:varchar(255)"                  json:"address_line,omitempty"`
	City        *string   `gorm:"type:varchar(100)"                  json:"city,omitempty"`
	PostalCode  *string   `gorm:"type:varchar(20)"                   json:"postal_code,omitempty"`
	Country     *string   `gorm:"type:varchar(50)"                   json:"country,omitempty"`
	Notes       *string   `gorm:"type:text"                          json:"notes,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// TableName 指定表名
func (ClientSite) TableName() string { return "client_sites" }
