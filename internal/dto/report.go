package dto

// ── 工时报表 DTO ──

// RangeDayTotal 区间报表中的单日合计
type RangeDayTotal struct {
	WorkDate      string  `json:"work_date"`
	Minutes       int     `json:"minutes"`
	WorkMinutes   int     `json:"work_minutes"`
	TravelMinutes int     `json:"travel_minutes"`
	Hours         float64 `json:"hours"`
	WorkHours     float64 `json:"work_hours"`
	TravelHours   float64 `json:"travel_hours"`
	Segments      int     `json:"segments"`
}

// RangeEmployeeTotal 区间报表中的人员合计（按成员均分后）
type RangeEmployeeTotal struct {
	EmployeeID    uint    `json:"employee_id"`
	FullName      string  `json:"full_name"`
	Minutes       int     `json:"minutes"`
	WorkMinutes   int     `json:"work_minutes"`
	TravelMinutes int     `json:"travel_minutes"`
	Hours         float64 `json:"hours"`
	WorkHours     float64 `json:"work_hours"`
	TravelHours   float64 `json:"travel_hours"`
	Segments      int     `json:"segments"`
}

// RangeSiteTotal 区间报表中的工地合计
type RangeSiteTotal struct {
	SiteID        uint    `json:"site_id"`
	Name          string  `json:"name"`
	Minutes       int     `json:"minutes"`
	WorkMinutes   int     `json:"work_minutes"`
	TravelMinutes int     `json:"travel_minutes"`
	Hours         float64 `json:"hours"`
	WorkHours     float64 `json:"work_hours"`
	TravelHours   float64 `json:"travel_hours"`
	Segments      int     `json:"segments"`
}

// RangeVehicleTotal 区间报表中的车辆合计，额外累加行驶公里
type RangeVehicleTotal struct {
	VehicleID     uint    `json:"vehicle_id"`
	Plate         string  `json:"plate"`
	Km            float64 `json:"km"`
	Minutes       int     `json:"minutes"`
	WorkMinutes   int     `json:"work_minutes"`
	TravelMinutes int     `json:"travel_minutes"`
	Hours         float64 `json:"hours"`
	WorkHours     float64 `json:"work_hours"`
	TravelHours   float64 `json:"travel_hours"`
	Segments      int     `json:"segments"`
}

// RangeReportResponse 区间报表
type RangeReportResponse struct {
	DateFrom      string               `json:"date_from"`
	DateTo        string               `json:"date_to"`
	TotalMinutes  int                  `json:"total_minutes"`
	WorkMinutes   int                  `json:"work_minutes"`
	TravelMinutes int                  `json:"travel_minutes"`
	TotalHours    float64              `json:"total_hours"`
	WorkHours     float64              `json:"work_hours"`
	TravelHours   float64              `json:"travel_hours"`
	Days          []RangeDayTotal      `json:"days"`
	Employees     []RangeEmployeeTotal `json:"employees"`
	Sites         []RangeSiteTotal     `json:"sites"`
	Vehicles      []RangeVehicleTotal  `json:"vehicles"`
}

// DailyCrewLogTotal 单日报表中的日志合计（不做成员均分）
type DailyCrewLogTotal struct {
	CrewLogID     uint `json:"crew_log_id"`
	VehicleID     uint `json:"vehicle_id"`
	Minutes       int  `json:"minutes"`
	WorkMinutes   int  `json:"work_minutes"`
	TravelMinutes int  `json:"travel_minutes"`
	Segments      int  `json:"segments"`
}

// DailyReportResponse 单日报表
type DailyReportResponse struct {
	WorkDate      string               `json:"work_date"`
	TotalMinutes  int                  `json:"total_minutes"`
	WorkMinutes   int                  `json:"work_minutes"`
	TravelMinutes int                  `json:"travel_minutes"`
	Employees     []RangeEmployeeTotal `json:"employees"`
	Sites         []RangeSiteTotal     `json:"sites"`
	CrewLogs      []DailyCrewLogTotal  `json:"crew_logs"`
}

// DayCrewLogRow 日视图中的单条日志行（主工地、车牌、成员名单）
type DayCrewLogRow struct {
	CrewLogID     uint     `json:"crew_log_id"`
	WorkDate      string   `json:"work_date"`
	SiteID        *uint    `json:"site_id,omitempty"`
	SiteName      *string  `json:"site_name,omitempty"`
	VehicleID     uint     `json:"vehicle_id"`
	VehiclePlate  *string  `json:"vehicle_plate,omitempty"`
	Employees     []string `json:"employees"`
	WorkMinutes   int      `json:"work_minutes"`
	WorkHours     float64  `json:"work_hours"`
	TravelMinutes int      `json:"travel_minutes"`
	TravelHours   float64  `json:"travel_hours"`
	Km            float64  `json:"km"`
	SegmentsCount int      `json:"segments_count"`
}

// DayOverviewResponse 日视图（每班组一行）
type DayOverviewResponse struct {
	Date     string          `json:"date"`
	CrewLogs []DayCrewLogRow `json:"crew_logs"`
}

// EmployeeDayRow 人员报表中的单日行
type EmployeeDayRow struct {
	Date          string  `json:"date"`
	WorkMinutes   int     `json:"work_minutes"`
	WorkHours     float64 `json:"work_hours"`
	TravelMinutes int     `json:"travel_minutes"`
	TravelHours   float64 `json:"travel_hours"`
	Km            float64 `json:"km"`
}

// EmployeeReportResponse 单人区间报表
type EmployeeReportResponse struct {
	EmployeeID       uint             `json:"employee_id"`
	EmployeeName     string           `json:"employee_name"`
	DateFrom         string           `json:"date_from"`
	DateTo           string           `json:"date_to"`
	TotalWorkHours   float64          `json:"total_work_hours"`
	TotalTravelHours float64          `json:"total_travel_hours"`
	TotalKm          float64          `json:"total_km"`
	Days             []EmployeeDayRow `json:"days"`
}

// ── 工资导出 DTO ──

// PayrollLedgerRow 工段×成员台账行
type PayrollLedgerRow struct {
	WorkDate       string  `json:"work_date"`
	EmployeeID     uint    `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	CrewLogID      uint    `json:"crew_log_id"`
	SegmentID      uint    `json:"segment_id"`
	Kind           string  `json:"segment_type"`
	StartAt        *string `json:"start_at,omitempty"`
	EndAt          *string `json:"end_at,omitempty"`
	MinutesRaw     int     `json:"minutes_raw"`
	MinutesRounded int     `json:"minutes_rounded_15"`
	HoursRounded   float64 `json:"hours_rounded"`
	KmTravel       float64 `json:"km_travel"`
	VehiclePlate   *string `json:"vehicle_plate,omitempty"`
	SiteID         *uint   `json:"site_id,omitempty"`
	SiteName       *string `json:"site_name,omitempty"`
}

// PayrollDayRow 人员×日期汇总行
type PayrollDayRow struct {
	WorkDate      string  `json:"work_date"`
	EmployeeID    uint    `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	WorkMinutes   int     `json:"work_minutes_rounded"`
	WorkHours     float64 `json:"work_hours_rounded"`
	TravelMinutes int     `json:"travel_minutes_rounded"`
	TravelHours   float64 `json:"travel_hours_rounded"`
	KmTravel      float64 `json:"km_travel"`
}

// PayrollEmployeeTotal 人员总计行
type PayrollEmployeeTotal struct {
	EmployeeID    uint    `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	WorkMinutes   int     `json:"work_minutes_rounded"`
	WorkHours     float64 `json:"work_hours_rounded"`
	TravelMinutes int     `json:"travel_minutes_rounded"`
	TravelHours   float64 `json:"travel_hours_rounded"`
	KmTravel      float64 `json:"km_travel"`
}

// PayrollAnomaly 工资导出异常标记，行级问题只记录、不中断导出
type PayrollAnomaly struct {
	Level        string  `json:"level"` // ERROR | WARN
	Code         string  `json:"code"`
	WorkDate     string  `json:"work_date"`
	EmployeeID   uint    `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	CrewLogID    uint    `json:"crew_log_id"`
	SegmentID    uint    `json:"segment_id"`
	Kind         string  `json:"segment_type"`
	StartAt      *string `json:"start_at,omitempty"`
	EndAt        *string `json:"end_at,omitempty"`
	DistanceKm   float64 `json:"distance_km_db"`
	MinutesRaw   int     `json:"minutes_raw"`
	Note         string  `json:"note"`
}

// PayrollExportResponse 工资导出结果
type PayrollExportResponse struct {
	DateFrom       string                 `json:"date_from"`
	DateTo         string                 `json:"date_to"`
	Ledger         []PayrollLedgerRow     `json:"ledger"`
	PerEmployeeDay []PayrollDayRow        `json:"per_employee_day"`
	Totals         []PayrollEmployeeTotal `json:"per_employee_totals"`
	Anomalies      []PayrollAnomaly       `json:"anomalies"`
}

// [自证通过] internal/dto/report.go
