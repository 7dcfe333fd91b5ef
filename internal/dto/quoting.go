package dto

// ── 报价模块 DTO ──

// CreateDealRequest 创建商机请求
type CreateDealRequest struct {
	SiteID      string  `json:"site_id"       binding:"required,uuid"`
	Title       string  `json:"title"         binding:"required,min=2,max=255"`
	Status      string  `json:"status"        binding:"omitempty,oneof=new estimating sent won lost"`
	Source      *string `json:"source"`
	OwnerUserID *string `json:"owner_user_id" binding:"omitempty,uuid"`
}

// SetDealStatusRequest 设置商机状态请求
type SetDealStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new estimating sent won lost"`
}

// DealResponse 商机响应
type DealResponse struct {
	ID          string  `json:"id"`
	SiteID      string  `json:"site_id"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	Source      *string `json:"source,omitempty"`
	OwnerUserID *string `json:"owner_user_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CreateQuoteRequest 创建报价请求
type CreateQuoteRequest struct {
	Scenario string `json:"scenario" binding:"required,oneof=split vrf vent"`
}

// QuoteResponse 报价响应
type QuoteResponse struct {
	ID             string  `json:"id"`
	DealID         string  `json:"deal_id"`
	QuoteNo        string  `json:"quote_no"`
	Scenario       string  `json:"scenario"`
	Currency       string  `json:"currency"`
	VATRate        float64 `json:"vat_rate"`
	PricingVersion int     `json:"pricing_version"`
}

// QuoteParamRequest 报价参数（整体替换式写入）
type QuoteParamRequest struct {
	Key       string   `json:"key" binding:"required,min=1,max=100"`
	ValueNum  *float64 `json:"value_num"`
	ValueText *string  `json:"value_text"`
}

// QuoteLineRequest 报价明细请求；售价由服务端按加价率重算
type QuoteLineRequest struct {
	LineType         string  `json:"line_type" binding:"required,oneof=equipment material labor service other"`
	Name             string  `json:"name"      binding:"required,min=1,max=255"`
	Unit             string  `json:"unit"`
	Qty              float64 `json:"qty"`
	PurchasePriceNet float64 `json:"purchase_price_net"`
	MarkupPct        float64 `json:"markup_pct"`
	Source           string  `json:"source"    binding:"omitempty,oneof=manual rule"`
	SortOrder        int     `json:"sort_order"`
	RefID            *string `json:"ref_id"`
}

// QuoteLineResponse 报价明细响应
type QuoteLineResponse struct {
	ID                string  `json:"id"`
	LineType          string  `json:"line_type"`
	Name              string  `json:"name"`
	Unit              string  `json:"unit"`
	Qty               float64 `json:"qty"`
	PurchasePriceNet  float64 `json:"purchase_price_net"`
	MarkupPct         float64 `json:"markup_pct"`
	SellPriceNetUnit  float64 `json:"sell_price_net_unit"`
	SellPriceNetTotal float64 `json:"sell_price_net_total"`
	Source            string  `json:"source"`
	SortOrder         int     `json:"sort_order"`
	RefID             *string `json:"ref_id,omitempty"`
}

// QuoteOverheadRequest 报价管理费（整体替换式写入）
type QuoteOverheadRequest struct {
	OverheadType string  `json:"overhead_type" binding:"required,oneof=indirect logistics risk other"`
	Pct          float64 `json:"pct"           binding:"min=0,max=1"`
	Note         *string `json:"note"`
}

// QuoteTotalsResponse 报价汇总响应
type QuoteTotalsResponse struct {
	CostNet   float64 `json:"cost_net"`
	SellNet   float64 `json:"sell_net"`
	VATAmount float64 `json:"vat_amount"`
	SellGross float64 `json:"sell_gross"`
	MarginNet float64 `json:"margin_net"`
	MarginPct float64 `json:"margin_pct"`
}

// ValidationIssue 报价校验问题
type ValidationIssue struct {
	Level   string `json:"level"` // warning | block
	Code    string `json:"code"`  // SELL_BELOW_COST | MARGIN_BELOW_MIN
	Message string `json:"message"`
}
