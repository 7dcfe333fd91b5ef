package dto

// ── CRM 模块 DTO ──

// CreateClientRequest 创建客户请求
type CreateClientRequest struct {
	Type  string  `json:"type"  binding:"required,oneof=company person"`
	Name  string  `json:"name"  binding:"required,min=2,max=255"`
	NIP   *string `json:"nip"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

// UpdateClientRequest 更新客户请求，全部字段可选
type UpdateClientRequest struct {
	Type  *string `json:"type"  binding:"omitempty,oneof=company person"`
	Name  *string `json:"name"  binding:"omitempty,min=2,max=255"`
	NIP   *string `json:"nip"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

// ClientResponse 客户信息响应
type ClientResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	NIP       *string `json:"nip,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// CreateClientSiteRequest 创建客户工地请求
type CreateClientSiteRequest struct {
	ClientID    string  `json:"client_id"    binding:"required,uuid"`
	Name        string  `json:"name"         binding:"required,min=2,max=255"`
	AddressLine *string `json:"address_line"`
	City        *string `json:"city"`
	PostalCode  *string `json:"postal_code"`
	Country     *string `json:"country"`
	Notes       *string `json:"notes"`
}

// ClientSiteResponse 客户工地响应
type ClientSiteResponse struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"client_id"`
	Name        string  `json:"name"`
	AddressLine *string `json:"address_line,omitempty"`
	City        *string `json:"city,omitempty"`
	PostalCode  *string `json:"postal_code,omitempty"`
	Country     *string `json:"country,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
