package dto

// ── 工时模块 DTO ──

// CreateEmployeeRequest 创建现场人员请求
type CreateEmployeeRequest struct {
	FullName string  `json:"full_name" binding:"required,min=2,max=200"`
	UserID   *string `json:"user_id"   binding:"omitempty,uuid"`
}

// EmployeeResponse 现场人员响应
type EmployeeResponse struct {
	ID       uint    `json:"id"`
	FullName string  `json:"full_name"`
	UserID   *string `json:"user_id,omitempty"`
	IsActive bool    `json:"is_active"`
}

// CreateVehicleRequest 创建车辆请求
type CreateVehicleRequest struct {
	Plate              string  `json:"plate"                binding:"required,min=2,max=32"`
	MakeModel          *string `json:"make_model"`
	TelematicsDeviceID *string `json:"telematics_device_id"`
}

// VehicleResponse 车辆响应
type VehicleResponse struct {
	ID                 uint    `json:"id"`
	Plate              string  `json:"plate"`
	MakeModel          *string `json:"make_model,omitempty"`
	TelematicsDeviceID *string `json:"telematics_device_id,omitempty"`
	IsActive           bool    `json:"is_active"`
}

// CreateAdHocSiteRequest 现场补登工地请求，坐标必填
type CreateAdHocSiteRequest struct {
	Name    string  `json:"name"     binding:"required,min=2,max=200"`
	Lat     float64 `json:"lat"      binding:"required"`
	Lng     float64 `json:"lng"      binding:"required"`
	RadiusM int     `json:"radius_m"`
}

// WorkSiteResponse 作业工地响应
type WorkSiteResponse struct {
	ID      uint     `json:"id"`
	Name    string   `json:"name"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	RadiusM *int     `json:"radius_m,omitempty"`
	IsAdHoc bool     `json:"is_ad_hoc"`
}

// CreateCrewLogRequest 创建班组日志请求
type CreateCrewLogRequest struct {
	WorkDate            string `json:"work_date"              binding:"required"` // "2026-08-31"
	VehicleID           uint   `json:"vehicle_id"             binding:"required"`
	CreatedByEmployeeID uint   `json:"created_by_employee_id" binding:"required"`
}

// CrewLogResponse 班组日志响应
type CrewLogResponse struct {
	ID                  uint   `json:"id"`
	WorkDate            string `json:"work_date"`
	VehicleID           uint   `json:"vehicle_id"`
	CreatedByEmployeeID uint   `json:"created_by_employee_id"`
	Status              string `json:"status"`
}

// AddCrewMemberRequest 添加班组成员请求
type AddCrewMemberRequest struct {
	EmployeeID uint `json:"employee_id" binding:"required"`
}

// CrewMemberResponse 班组成员响应
type CrewMemberResponse struct {
	ID         uint `json:"id"`
	CrewLogID  uint `json:"crew_log_id"`
	EmployeeID uint `json:"employee_id"`
}

// AddSegmentRequest 补录工段请求；EndAt 为空表示开启进行中工段
type AddSegmentRequest struct {
	SiteID  uint    `json:"site_id"      binding:"required"`
	Kind    string  `json:"segment_type" binding:"omitempty,oneof=work travel"`
	StartAt string  `json:"start_at"     binding:"required"` // RFC3339
	EndAt   *string `json:"end_at"`
}

// StartSegmentRequest 快捷开始工段请求（start = 当前时间）
type StartSegmentRequest struct {
	SiteID uint `json:"site_id" binding:"required"`
}

// CloseSegmentRequest 关闭工段请求；EndAt 为空取当前时间，距离仅 travel 生效
type CloseSegmentRequest struct {
	EndAt      *string  `json:"end_at"`
	DistanceKm *float64 `json:"distance_km"`
}

// SegmentResponse 工段响应
type SegmentResponse struct {
	ID         uint     `json:"id"`
	CrewLogID  uint     `json:"crew_log_id"`
	SiteID     uint     `json:"site_id"`
	Kind       string   `json:"segment_type"`
	StartAt    string   `json:"start_at"`
	EndAt      *string  `json:"end_at,omitempty"`
	StartLat   float64  `json:"start_lat"`
	StartLng   float64  `json:"start_lng"`
	EndLat     *float64 `json:"end_lat,omitempty"`
	EndLng     *float64 `json:"end_lng,omitempty"`
	DistanceKm float64  `json:"distance_km"`
}

// CrewLogSummaryResponse 单日志汇总响应
type CrewLogSummaryResponse struct {
	CrewLogID         uint          `json:"crew_log_id"`
	WorkDate          string        `json:"work_date"`
	VehicleID         uint          `json:"vehicle_id"`
	TotalMinutes      int           `json:"total_minutes"`
	BySiteMinutes     map[uint]int  `json:"by_site_minutes"`
	ByEmployeeMinutes map[uint]int  `json:"by_employee_minutes"`
}
