package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/przemobski1986/hvacquotepro/internal/model"
)

// QuoteRepository 报价数据访问接口，覆盖报价单、参数、明细、管理费与汇总
type QuoteRepository interface {
	Create(ctx context.Context, quote *model.Quote) error
	GetByID(ctx context.Context, tenantID, id string) (*model.Quote, error)
	CountByTenant(ctx context.Context, tenantID string) (int64, error)

	ReplaceParams(ctx context.Context, tenantID, quoteID string, params []model.QuoteParam) error

	CreateLine(ctx context.Context, line *model.QuoteLine) error
	GetLine(ctx context.Context, tenantID, quoteID, lineID string) (*model.QuoteLine, error)
	ListLines(ctx context.Context, tenantID, quoteID string) ([]model.QuoteLine, error)
	UpdateLine(ctx context.Context, line *model.QuoteLine) error
	DeleteLine(ctx context.Context, tenantID, quoteID, lineID string) error

	ReplaceOverheads(ctx context.Context, tenantID, quoteID string, overheads []model.QuoteOverhead) error
	ListOverheads(ctx context.Context, tenantID, quoteID string) ([]model.QuoteOverhead, error)

	GetTotals(ctx context.Context, tenantID, quoteID string) (*model.QuoteTotals, error)
	SaveTotals(ctx context.Context, totals *model.QuoteTotals) error
}

type quoteRepo struct {
	db *gorm.DB
}

// NewQuoteRepo 创建 QuoteRepository 实例
func NewQuoteRepo(db *gorm.DB) QuoteRepository {
	return &quoteRepo{db: db}
}

func (r *quoteRepo) Create(ctx context.Context, quote *model.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *quoteRepo) GetByID(ctx context.Context, tenantID, id string) (*model.Quote, error) {
	var quote model.Quote
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *quoteRepo) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Quote{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

// ReplaceParams 整体替换报价参数，在事务内先删后插
func (r *quoteRepo) ReplaceParams(ctx context.Context, tenantID, quoteID string, params []model.QuoteParam) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND quote_id = ?", tenantID, quoteID).
			Delete(&model.QuoteParam{}).Error; err != nil {
			return err
		}
		if len(params) == 0 {
			return nil
		}
		return tx.Create(&params).Error
	})
}

func (r *quoteRepo) CreateLine(ctx context.Context, line *model.QuoteLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *quoteRepo) GetLine(ctx context.Context, tenantID, quoteID, lineID string) (*model.QuoteLine, error) {
	var line model.QuoteLine
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND quote_id = ? AND id = ?", tenantID, quoteID, lineID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *quoteRepo) ListLines(ctx context.Context, tenantID, quoteID string) ([]model.QuoteLine, error) {
	var lines []model.QuoteLine
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND quote_id = ?", tenantID, quoteID).
		Order("sort_order ASC").
		Find(&lines).Error
	return lines, err
}

func (r *quoteRepo) UpdateLine(ctx context.Context, line *model.QuoteLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

func (r *quoteRepo) DeleteLine(ctx context.Context, tenantID, quoteID, lineID string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND quote_id = ? AND id = ?", tenantID, quoteID, lineID).
		Delete(&model.QuoteLine{}).Error
}

// ReplaceOverheads 整体替换管理费，在事务内先删后插
func (r *quoteRepo) ReplaceOverheads(ctx context.Context, tenantID, quoteID string, overheads []model.QuoteOverhead) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND quote_id = ?", tenantID, quoteID).
			Delete(&model.QuoteOverhead{}).Error; err != nil {
			return err
		}
		if len(overheads) == 0 {
			return nil
		}
		return tx.Create(&overheads).Error
	})
}

func (r *quoteRepo) ListOverheads(ctx context.Context, tenantID, quoteID string) ([]model.QuoteOverhead, error) {
	var overheads []model.QuoteOverhead
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND quote_id = ?", tenantID, quoteID).
		Find(&overheads).Error
	return overheads, err
}

func (r *quoteRepo) GetTotals(ctx context.Context, tenantID, quoteID string) (*model.QuoteTotals, error) {
	var totals model.QuoteTotals
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND quote_id = ?", tenantID, quoteID).
		First(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *quoteRepo) SaveTotals(ctx context.Context, totals *model.QuoteTotals) error {
	return r.db.WithContext(ctx).Save(totals).Error
}
