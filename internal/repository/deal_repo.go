package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/przemobski1986/hvacquotepro/internal/model"
)

// DealRepository 商机数据访问接口
type DealRepository interface {
	Create(ctx context.Context, deal *model.Deal) error
	GetByID(ctx context.Context, tenantID, id string) (*model.Deal, error)
	List(ctx context.Context, tenantID string, status *string) ([]model.Deal, error)
	Update(ctx context.Context, deal *model.Deal) error
}

type dealRepo struct {
	db *gorm.DB
}

// NewDealRepo 创建 DealRepository 实例
func NewDealRepo(db *gorm.DB) DealRepository {
	return &dealRepo{db: db}
}

func (r *dealRepo) Create(ctx context.Context, deal *model.Deal) error {
	return r.db.WithContext(ctx).Create(deal).Error
}

func (r *dealRepo) GetByID(ctx context.Context, tenantID, id string) (*model.Deal, error) {
	var deal model.Deal
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&deal).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepo) List(ctx context.Context, tenantID string, status *string) ([]model.Deal, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var deals []model.Deal
	err := q.Order("updated_at DESC").Find(&deals).Error
	return deals, err
}

func (r *dealRepo) Update(ctx context.Context, deal *model.Deal) error {
	return r.db.WithContext(ctx).Save(deal).Error
}
