package model

import "time"

// 商机状态常量
const (
	DealStatusNew        = "new"
	DealStatusEstimating = "estimating"
	DealStatusSent       = "sent"
	DealStatusWon        = "won"
	DealStatusLost       = "lost"
)

// Deal 商机表 — 对应 deals
type Deal struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"        json:"id"`
	TenantID    string    `gorm:"type:varchar(36);not null;index"    json:"tenant_id"`
	SiteID      string    `gorm:"type:varchar(36);not null;index"    json:"site_id"`
	OwnerUserID *string   `gorm:"type:varchar(36)"                   json:"owner_user_id,omitempty"`
	Title       string    `gorm:"type:varchar(255);not null"         json:"title"`
	Status      string    `gorm:"type:varchar(30);not null;default:'new'" json:"status"`
	Source      *string   `gorm:"type:varchar(100)"                  json:"source,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (Deal) TableName() string { return "deals" }

// Quote 报价单表 — 对应 quotes
type Quote struct {
	ID              string    `gorm:"type:varchar(36);primaryKey"        json:"id"`
	TenantID        string    `gorm:"type:varchar(36);not null;index"    json:"tenant_id"`
	DealID          string    `gorm:"type:varchar(36);not null;index"    json:"deal_id"`
	QuoteNo         string    `gorm:"type:varchar(50);not null;index"    json:"quote_no"`
	Scenario        string    `gorm:"type:varchar(20);not null"          json:"scenario"` // split | vrf | vent
	Currency        string    `gorm:"type:varchar(10);not null;default:'PLN'" json:"currency"`
	VATRate         float64   `gorm:"type:numeric(5,4);not null;default:0.23" json:"vat_rate"`
	PricingVersion  int       `gorm:"not null;default:1"                 json:"pricing_version"`
	NotesInternal   *string   `gorm:"type:text"                          json:"notes_internal,omitempty"`
	NotesCustomer   *string   `gorm:"type:text"                          json:"notes_customer,omitempty"`
	CreatedByUserID *string   `gorm:"type:varchar(36)"                   json:"created_by_user_id,omitempty"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (Quote) TableName() string { return "quotes" }

// QuoteParam 报价参数表 — 对应 quote_params，key/value 形式
type QuoteParam struct {
	ID        string   `gorm:"type:varchar(36);primaryKey"     json:"id"`
	TenantID  string   `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	QuoteID   string   `gorm:"type:varchar(36);not null;index" json:"quote_id"`
	Key       string   `gorm:"type:varchar(100);not null"      json:"key"`
	ValueNum  *float64 `gorm:"type:numeric(14,4)"              json:"value_num,omitempty"`
	ValueText *string  `gorm:"type:varchar(255)"               json:"value_text,omitempty"`
}

// TableName 指定表名
func (QuoteParam) TableName() string { return "quote_params" }

// QuoteLine 报价明细表 — 对应 quote_lines
type QuoteLine struct {
	ID               string  `gorm:"type:varchar(36);primaryKey"        json:"id"`
	TenantID         string  `gorm:"type:varchar(36);not null;index"    json:"tenant_id"`
	QuoteID          string  `gorm:"type:varchar(36);not null;index"    json:"quote_id"`
	LineType         string  `gorm:"type:varchar(20);not null"          json:"line_type"` // equipment | material | labor | service | other
	RefID            *string `gorm:"type:varchar(36)"                   json:"ref_id,omitempty"`
	Name             string  `gorm:"type:varchar(255);not null"         json:"name"`
	Unit             string  `gorm:"type:varchar(20);not null;default:'szt'" json:"unit"`
	Qty              float64 `gorm:"type:numeric(14,4);not null;default:1"   json:"qty"`
	PurchasePriceNet float64 `gorm:"type:numeric(14,4);not null;default:0"   json:"purchase_price_net"`
	MarkupPct        float64 `gorm:"type:numeric(6,4);not null;default:0.2"  json:"markup_pct"`
	SellPriceNetUnit float64 `gorm:"type:numeric(14,4);not null;default:0"   json:"sell_price_net_unit"`
	SellPriceNetTotal float64 `gorm:"type:numeric(14,4);not null;default:0"  json:"sell_price_net_total"`
	Source           string  `gorm:"type:varchar(20);not null;default:'manual'" json:"source"` // manual | rule
	SortOrder        int     `gorm:"not null;default:0"                 json:"sort_order"`
}

// TableName 指定表名
func (QuoteLine) TableName() string { return "quote_lines" }

// QuoteOverhead 报价管理费表 — 对应 quote_overheads
type QuoteOverhead struct {
	ID           string  `gorm:"type:varchar(36);primaryKey"     json:"id"`
	TenantID     string  `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	QuoteID      string  `gorm:"type:varchar(36);not null;index" json:"quote_id"`
	OverheadType string  `gorm:"type:varchar(20);not null"       json:"overhead_type"` // indirect | logistics | risk | other
	Pct          float64 `gorm:"type:numeric(6,4);not null;default:0" json:"pct"`
	Note         *string `gorm:"type:text"                       json:"note,omitempty"`
}

// TableName 指定表名
func (QuoteOverhead) TableName() string { return "quote_overheads" }

// QuoteTotals 报价汇总表 — 对应 quote_totals，每报价一行
type QuoteTotals struct {
	QuoteID   string    `gorm:"type:varchar(36);primaryKey"        json:"quote_id"`
	TenantID  string    `gorm:"type:varchar(36);not null;index"    json:"tenant_id"`
	CostNet   float64   `gorm:"type:numeric(14,4);not null;default:0" json:"cost_net"`
	SellNet   float64   `gorm:"type:numeric(14,4);not null;default:0" json:"sell_net"`
	VATAmount float64   `gorm:"type:numeric(14,4);not null;default:0" json:"vat_amount"`
	SellGross float64   `gorm:"type:numeric(14,4);not null;default:0" json:"sell_gross"`
	MarginNet float64   `gorm:"type:numeric(14,4);not null;default:0" json:"margin_net"`
	MarginPct float64   `gorm:"type:numeric(8,6);not null;default:0"  json:"margin_pct"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (QuoteTotals) TableName() string { return "quote_totals" }

// [自证通过] internal/model/quoting.go
