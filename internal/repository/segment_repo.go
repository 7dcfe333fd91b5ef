package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/przemobski1986/hvacquotepro/internal/model"
)

// SegmentRepository 工段数据访问接口
type SegmentRepository interface {
	Create(ctx context.Context, seg *model.WorkSegment) error
	GetByLogAndID(ctx context.Context, crewLogID, segmentID uint) (*model.WorkSegment, error)
	// FindOpen 返回日志上唯一的进行中工段，无则 gorm.ErrRecordNotFound
	FindOpen(ctx context.Context, crewLogID uint) (*model.WorkSegment, error)
	// FindOpenLatest 按 id 倒序取进行中工段（stop 语义）
	FindOpenLatest(ctx context.Context, crewLogID uint) (*model.WorkSegment, error)
	// LastClosed 按结束时间倒序取最近关闭的工段，行程补推依赖它
	LastClosed(ctx context.Context, crewLogID uint) (*model.WorkSegment, error)
	ListByLog(ctx context.Context, crewLogID uint) ([]model.WorkSegment, error)
	Update(ctx context.Context, seg *model.WorkSegment) error
}

type segmentRepo struct {
	db *gorm.DB
}

// NewSegmentRepo 创建 SegmentRepository 实例
func NewSegmentRepo(db *gorm.DB) SegmentRepository {
	return &segmentRepo{db: db}
}

func (r *segmentRepo) Create(ctx context.Context, seg *model.WorkSegment) error {
	return r.db.WithContext(ctx).Create(seg).Error
}

func (r *segmentRepo) GetByLogAndID(ctx context.Context, crewLogID, segmentID uint) (*model.WorkSegment, error) {
	var seg model.WorkSegment
	err := r.db.WithContext(ctx).
		Where("crew_log_id = ? AND id = ?", crewLogID, segmentID).
		First(&seg).Error
	if err != nil {
		return nil, err
	}
	return &seg, nil
}

func (r *segmentRepo) FindOpen(ctx context.Context, crewLogID uint) (*model.WorkSegment, error) {
	var seg model.WorkSegment
	err := r.db.WithContext(ctx).
		Where("crew_log_id = ? AND end_at IS NULL", crewLogID).
		First(&seg).Error
	if err != nil {
		return nil, err
	}
	return &seg, nil
}

func (r *segmentRepo) FindOpenLatest(ctx context.Context, crewLogID uint) (*model.WorkSegment, error) {
	var seg model.WorkSegment
	err := r.db.WithContext(ctx).
		Where("crew_log_id = ? AND end_at IS NULL", crewLogID).
		Order("id DESC").
		First(&seg).Error
	if err != nil {
		return nil, err
	}
	return &seg, nil
}

func (r *segmentRepo) LastClosed(ctx context.Context, crewLogID uint) (*model.WorkSegment, error) {
	var seg model.WorkSegment
	err := r.db.WithContext(ctx).
		Where("crew_log_id = ? AND end_at IS NOT NULL", crewLogID).
		Order("end_at DESC").
		First(&seg).Error
	if err != nil {
		return nil, err
	}
	return &seg, nil
}

func (r *segmentRepo) ListByLog(ctx context.Context, crewLogID uint) ([]model.WorkSegment, error) {
	var segs []model.WorkSegment
	err := r.db.WithContext(ctx).
		Where("crew_log_id = ?", crewLogID).
		Order("id ASC").
		Find(&segs).Error
	return segs, err
}

func (r *segmentRepo) Update(ctx context.Context, seg *model.WorkSegment) error {
	return r.db.WithContext(ctx).Save(seg).Error
}
