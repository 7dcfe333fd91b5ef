package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/przemobski1986/hvacquotepro/internal/model"
)

// TenantSettingsRepository 租户配置数据访问接口
type TenantSettingsRepository interface {
	Get(ctx context.Context, tenantID string) (*model.TenantSettings, error)
	Save(ctx context.Context, settings *model.TenantSettings) error
}

type tenantSettingsRepo struct {
	db *gorm.DB
}

// NewTenantSettingsRepo 创建 TenantSettingsRepository 实例
func NewTenantSettingsRepo(db *gorm.DB) TenantSettingsRepository {
	return &tenantSettingsRepo{db: db}
}

func (r *tenantSettingsRepo) Get(ctx context.Context, tenantID string) (*model.TenantSettings, error) {
	var settings model.TenantSettings
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *tenantSettingsRepo) Save(ctx context.Context, settings *model.TenantSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
