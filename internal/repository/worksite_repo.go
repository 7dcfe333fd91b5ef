package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/przemobski1986/hvacquotepro/internal/model"
)

// WorkSiteRepository 作业工地数据访问接口
type WorkSiteRepository interface {
	Create(ctx context.Context, site *model.WorkSite) error
	GetByID(ctx context.Context, id uint) (*model.WorkSite, error)
	List(ctx context.Context) ([]model.WorkSite, error)
}

type workSiteRepo struct {
	db *gorm.DB
}

// NewWorkSiteRepo 创建 WorkSiteRepository 实例
func NewWorkSiteRepo(db *gorm.DB) WorkSiteRepository {
	return &workSiteRepo{db: db}
}

func (r *workSiteRepo) Create(ctx context.Context, site *model.WorkSite) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *workSiteRepo) GetByID(ctx context.Context, id uint) (*model.WorkSite, error) {
	var site model.WorkSite
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&site).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *workSiteRepo) List(ctx context.Context) ([]model.WorkSite, error) {
	var sites []model.WorkSite
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&sites).Error
	return sites, err
}
