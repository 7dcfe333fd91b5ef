package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/przemobski1986/hvacquotepro/internal/model"
)

// CrewLogRepository 班组日志数据访问接口
type CrewLogRepository interface {
	Create(ctx context.Context, log *model.CrewLog) error
	GetByID(ctx context.Context, id uint) (*model.CrewLog, error)
	// GetForUpdate 加行锁读取日志，工段开启/关闭的不变量检查依赖该锁串行化
	GetForUpdate(ctx context.Context, id uint) (*model.CrewLog, error)
	FindByDateVehicle(ctx context.Context, workDate time.Time, vehicleID uint) (*model.CrewLog, error)
	List(ctx context.Context, workDate *time.Time, vehicleID *uint) ([]model.CrewLog, error)
	// ListRangeDetailed 取日期区间内全部日志并预载车辆、成员（含人员）与工段（含工地），
	// 报表引擎在内存中完成聚合
	ListRangeDetailed(ctx context.Context, dateFrom, dateTo time.Time, vehicleID *uint) ([]model.CrewLog, error)

	AddMember(ctx context.Context, member *model.CrewLogMember) error
	FindMember(ctx context.Context, crewLogID, employeeID uint) (*model.CrewLogMember, error)
	ListMembers(ctx context.Context, crewLogID uint) ([]model.CrewLogMember, error)
}

type crewLogRepo struct {
	db *gorm.DB
}

// NewCrewLogRepo 创建 CrewLogRepository 实例
func NewCrewLogRepo(db *gorm.DB) CrewLogRepository {
	return &crewLogRepo{db: db}
}

func (r *crewLogRepo) Create(ctx context.Context, log *model.CrewLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *crewLogRepo) GetByID(ctx context.Context, id uint) (*model.CrewLog, error) {
	var log model.CrewLog
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *crewLogRepo) GetForUpdate(ctx context.Context, id uint) (*model.CrewLog, error) {
	var log model.CrewLog
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *crewLogRepo) FindByDateVehicle(ctx context.Context, workDate time.Time, vehicleID uint) (*model.CrewLog, error) {
	var log model.CrewLog
	err := r.db.WithContext(ctx).
		Where("work_date = ? AND vehicle_id = ?", workDate, vehicleID).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *crewLogRepo) List(ctx context.Context, workDate *time.Time, vehicleID *uint) ([]model.CrewLog, error) {
	q := r.db.WithContext(ctx)
	if workDate != nil {
		q = q.Where("work_date = ?", *workDate)
	}
	if vehicleID != nil {
		q = q.Where("vehicle_id = ?", *vehicleID)
	}
	var logs []model.CrewLog
	err := q.Order("id DESC").Find(&logs).Error
	return logs, err
}

func (r *crewLogRepo) ListRangeDetailed(ctx context.Context, dateFrom, dateTo time.Time, vehicleID *uint) ([]model.CrewLog, error) {
	q := r.db.WithContext(ctx).
		Where("work_date >= ? AND work_date <= ?", dateFrom, dateTo).
		Preload("Vehicle").
		Preload("Members").
		Preload("Members.Employee").
		Preload("Segments").
		Preload("Segments.Site")
	if vehicleID != nil {
		q = q.Where("vehicle_id = ?", *vehicleID)
	}
	var logs []model.CrewLog
	err := q.Order("id ASC").Find(&logs).Error
	return logs, err
}

func (r *crewLogRepo) AddMember(ctx context.Context, member *model.CrewLogMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *crewLogRepo) FindMember(ctx context.Context, crewLogID, employeeID uint) (*model.CrewLogMember, error) {
	var member model.CrewLogMember
	err := r.db.WithContext(ctx).
		Where("crew_log_id = ? AND employee_id = ?", crewLogID, employeeID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *crewLogRepo) ListMembers(ctx context.Context, crewLogID uint) ([]model.CrewLogMember, error) {
	var members []model.CrewLogMember
	err := r.db.WithContext(ctx).
		Where("crew_log_id = ?", crewLogID).
		Order("id ASC").
		Find(&members).Error
	return members, err
}
