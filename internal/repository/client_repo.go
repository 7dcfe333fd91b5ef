package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/przemobski1986/hvacquotepro/internal/model"
)

// ClientRepository 客户数据访问接口
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, tenantID, id string) (*model.Client, error)
	List(ctx context.Context, tenantID string) ([]model.Client, error)
	Update(ctx context.Context, client *model.Client) error
}

type clientRepo struct {
	db *gorm.DB
}

// NewClientRepo 创建 ClientRepository 实例
func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepo) GetByID(ctx context.Context, tenantID, id string) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) List(ctx context.Context, tenantID string) ([]model.Client, error) {
	var clients []model.Client
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&clients).Error
	return clients, err
}

func (r *clientRepo) Update(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// ClientSiteRepository 客户工地数据访问接口
type ClientSiteRepository interface {
	Create(ctx context.Context, site *model.ClientSite) error
	GetByID(ctx context.Context, tenantID, id string) (*model.ClientSite, error)
	List(ctx context.Context, tenantID string, clientID *string) ([]model.ClientSite, error)
}

type clientSiteRepo struct {
	db *gorm.DB
}

// NewClientSiteRepo 创建 ClientSiteRepository 实例
func NewClientSiteRepo(db *gorm.DB) ClientSiteRepository {
	return &clientSiteRepo{db: db}
}

func (r *clientSiteRepo) Create(ctx context.Context, site *model.ClientSite) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *clientSiteRepo) GetByID(ctx context.Context, tenantID, id string) (*model.ClientSite, error) {
	var site model.ClientSite
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&site).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *clientSiteRepo) List(ctx context.Context, tenantID string, clientID *string) ([]model.ClientSite, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}
	var sites []model.ClientSite
	err := q.Order("created_at DESC").Find(&sites).Error
	return sites, err
}
