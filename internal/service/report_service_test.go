package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/przemobski1986/hvacquotepro/internal/model"
	"github.com/przemobski1986/hvacquotepro/internal/repository"
	pkgerrors "github.com/przemobski1986/hvacquotepro/pkg/errors"
)

type reportFixture struct {
	repo  *repository.Repository
	store *memStore
	svc   ReportService
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	repo, store := newTestRepo()
	return &reportFixture{repo: repo, store: store, svc: NewReportService(repo, zap.NewNop())}
}

func (f *reportFixture) seedLog(t *testing.T, workDate string, plate string, memberNames []string) (*model.CrewLog, []*model.Employee, *model.WorkSite) {
	t.Helper()
	ctx := context.Background()

	vehicle := &model.Vehicle{Plate: plate, IsActive: true}
	if err := f.repo.Vehicle.Create(ctx, vehicle); err != nil {
		t.Fatal(err)
	}
	site := &model.WorkSite{Name: "Plac " + plate, Lat: ptrF(52.0), Lng: ptrF(21.0)}
	if err := f.repo.WorkSite.Create(ctx, site); err != nil {
		t.Fatal(err)
	}

	d, err := time.Parse(workDateLayout, workDate)
	if err != nil {
		t.Fatal(err)
	}
	log := &model.CrewLog{WorkDate: d, VehicleID: vehicle.ID, CreatedByEmployeeID: 1, Status: model.CrewLogStatusDraft}
	if err := f.repo.CrewLog.Create(ctx, log); err != nil {
		t.Fatal(err)
	}

	var emps []*model.Employee
	for _, name := range memberNames {
		emp := &model.Employee{FullName: name, IsActive: true}
		if err := f.repo.Employee.Create(ctx, emp); err != nil {
			t.Fatal(err)
		}
		if err := f.repo.CrewLog.AddMember(ctx, &model.CrewLogMember{CrewLogID: log.ID, EmployeeID: emp.ID}); err != nil {
			t.Fatal(err)
		}
		emps = append(emps, emp)
	}
	return log, emps, site
}

func (f *reportFixture) seedSegment(t *testing.T, log *model.CrewLog, site *model.WorkSite, kind, start, end string, km float64) {
	t.Helper()
	s, _ := time.Parse(time.RFC3339, start)
	e, _ := time.Parse(time.RFC3339, end)
	seg := &model.WorkSegment{
		CrewLogID: log.ID, SiteID: site.ID, Kind: kind,
		StartAt: s, EndAt: &e,
		StartLat: *site.Lat, StartLng: *site.Lng,
		DistanceKm: km,
	}
	if err := f.repo.Segment.Create(context.Background(), seg); err != nil {
		t.Fatal(err)
	}
}

func TestAggregateRangeInvalidOrder(t *testing.T) {
	f := newReportFixture(t)
	_, err := f.svc.AggregateRange(context.Background(), "2026-03-05", "2026-03-01", nil, nil)
	if !pkgerrors.IsUnprocessable(err) {
		t.Fatalf("倒置区间应返回 Unprocessable，got %v", err)
	}
}

func TestAggregateRangePerSegmentRounding(t *testing.T) {
	f := newReportFixture(t)
	log, _, site := f.seedLog(t, "2026-03-02", "WGM1111", []string{"Jan Kowalski"})

	// 两段各 50 分钟：逐段取整 60+60=120，而非先加总再取整的 105
	f.seedSegment(t, log, site, model.SegmentKindWork, "2026-03-02T08:00:00Z", "2026-03-02T08:50:00Z", 0)
	f.seedSegment(t, log, site, model.SegmentKindWork, "2026-03-02T09:00:00Z", "2026-03-02T09:50:00Z", 0)

	report, err := f.svc.AggregateRange(context.Background(), "2026-03-02", "2026-03-02", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalMinutes != 120 {
		t.Fatalf("逐段取整后应为 120 分钟，got %d", report.TotalMinutes)
	}
	if report.WorkMinutes != 120 || report.TravelMinutes != 0 {
		t.Fatalf("work/travel 拆分错误: %d/%d", report.WorkMinutes, report.TravelMinutes)
	}
}

func TestAggregateRangeEvenSplit(t *testing.T) {
	f := newReportFixture(t)
	log, emps, site := f.seedLog(t, "2026-03-02", "WGM2222", []string{"A", "B", "C"})

	// 100 分钟取整为 105，三人均分各 35，余数舍弃
	f.seedSegment(t, log, site, model.SegmentKindWork, "2026-03-02T08:00:00Z", "2026-03-02T09:40:00Z", 0)

	report, err := f.svc.AggregateRange(context.Background(), "2026-03-02", "2026-03-02", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Employees) != 3 {
		t.Fatalf("应有 3 个人员合计，got %d", len(report.Employees))
	}
	for _, e := range report.Employees {
		if e.Minutes != 35 {
			t.Fatalf("人员 %d 应分得 35 分钟，got %d", e.EmployeeID, e.Minutes)
		}
	}

	// 按单人过滤：只收敛该人份额，分母仍为 3
	empID := emps[0].ID
	filtered, err := f.svc.AggregateRange(context.Background(), "2026-03-02", "2026-03-02", nil, &empID)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered.Employees) != 1 || filtered.Employees[0].Minutes != 35 {
		t.Fatalf("过滤后应仅该人 35 分钟，got %+v", filtered.Employees)
	}
}

func TestAggregateRangeEqualsSumOfDays(t *testing.T) {
	f := newReportFixture(t)
	log1, _, site1 := f.seedLog(t, "2026-03-02", "WGM3333", []string{"Jan"})
	log2, _, site2 := f.seedLog(t, "2026-03-03", "WGM4444", []string{"Piotr"})

	f.seedSegment(t, log1, site1, model.SegmentKindWork, "2026-03-02T08:00:00Z", "2026-03-02T11:07:00Z", 0)
	f.seedSegment(t, log1, site1, model.SegmentKindTravel, "2026-03-02T11:07:00Z", "2026-03-02T11:29:00Z", 18)
	f.seedSegment(t, log2, site2, model.SegmentKindWork, "2026-03-03T07:45:00Z", "2026-03-03T12:02:00Z", 0)

	report, err := f.svc.AggregateRange(context.Background(), "2026-03-01", "2026-03-07", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	sum := 0
	for _, d := range report.Days {
		sum += d.Minutes
	}
	if report.TotalMinutes != sum {
		t.Fatalf("区间合计 %d 应等于各日之和 %d", report.TotalMinutes, sum)
	}
	if len(report.Days) != 2 || report.Days[0].WorkDate != "2026-03-02" {
		t.Fatalf("日合计应按日期升序，got %+v", report.Days)
	}

	// 车辆公里只来自 travel 段
	foundKm := false
	for _, v := range report.Vehicles {
		if v.Plate == "WGM3333" {
			foundKm = true
			if v.Km != 18 {
				t.Fatalf("车辆公里应为 18，got %v", v.Km)
			}
		}
	}
	if !foundKm {
		t.Fatal("缺少车辆合计")
	}
}

func TestWeeklyAndMonthlyBounds(t *testing.T) {
	f := newReportFixture(t)
	log, _, site := f.seedLog(t, "2026-03-08", "WGM5555", []string{"Jan"})
	f.seedSegment(t, log, site, model.SegmentKindWork, "2026-03-08T08:00:00Z", "2026-03-08T09:00:00Z", 0)

	weekly, err := f.svc.WeeklyReport(context.Background(), "2026-03-02", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if weekly.DateTo != "2026-03-08" {
		t.Fatalf("周报截止应为起始加 6 天，got %s", weekly.DateTo)
	}
	if weekly.TotalMinutes != 60 {
		t.Fatalf("周报应包含 03-08 的 60 分钟，got %d", weekly.TotalMinutes)
	}

	monthly, err := f.svc.MonthlyReport(context.Background(), "2026-02", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if monthly.DateFrom != "2026-02-01" || monthly.DateTo != "2026-02-28" {
		t.Fatalf("月报应覆盖整个自然月，got %s – %s", monthly.DateFrom, monthly.DateTo)
	}
}

func TestDayOverviewDominantSite(t *testing.T) {
	f := newReportFixture(t)
	log, _, site := f.seedLog(t, "2026-03-02", "WGM6666", []string{"Zofia", "Adam"})

	site2 := &model.WorkSite{Name: "Magazyn", Lat: ptrF(52.1), Lng: ptrF(21.1)}
	if err := f.repo.WorkSite.Create(context.Background(), site2); err != nil {
		t.Fatal(err)
	}
	// site 上 3 小时、site2 上 1 小时：主工地应为 site
	f.seedSegment(t, log, site, model.SegmentKindWork, "2026-03-02T08:00:00Z", "2026-03-02T11:00:00Z", 0)
	f.seedSegment(t, log, site2, model.SegmentKindWork, "2026-03-02T12:00:00Z", "2026-03-02T13:00:00Z", 0)

	overview, err := f.svc.DayOverview(context.Background(), "2026-03-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(overview.CrewLogs) != 1 {
		t.Fatalf("应有 1 行日志，got %d", len(overview.CrewLogs))
	}
	row := overview.CrewLogs[0]
	if row.SiteID == nil || *row.SiteID != site.ID {
		t.Fatalf("主工地应为占用最多的 %d，got %v", site.ID, row.SiteID)
	}
	if row.WorkMinutes != 240 {
		t.Fatalf("工作分钟应为 240，got %d", row.WorkMinutes)
	}
	if len(row.Employees) != 2 || row.Employees[0] != "Adam" {
		t.Fatalf("成员名单应按字母序，got %v", row.Employees)
	}
}

func TestEmployeeReportFullMinutesSkipsEmptyDays(t *testing.T) {
	f := newReportFixture(t)
	log, emps, site := f.seedLog(t, "2026-03-02", "WGM7777", []string{"Jan", "Piotr"})

	f.seedSegment(t, log, site, model.SegmentKindWork, "2026-03-02T08:00:00Z", "2026-03-02T10:00:00Z", 0)
	f.seedSegment(t, log, site, model.SegmentKindTravel, "2026-03-02T10:00:00Z", "2026-03-02T10:30:00Z", 25)

	report, err := f.svc.EmployeeReport(context.Background(), emps[0].ID, "2026-03-01", "2026-03-07")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Days) != 1 {
		t.Fatalf("空日应跳过，只剩 1 天，got %d", len(report.Days))
	}
	day := report.Days[0]
	// 单人报表记全量分钟，不做两人均分
	if day.WorkMinutes != 120 || day.TravelMinutes != 30 {
		t.Fatalf("应为 120/30 全量分钟，got %d/%d", day.WorkMinutes, day.TravelMinutes)
	}
	if day.Km != 25 {
		t.Fatalf("公里应为 25，got %v", day.Km)
	}
	if report.TotalWorkHours != 2 || report.TotalTravelHours != 0.5 {
		t.Fatalf("合计小时错误: %v/%v", report.TotalWorkHours, report.TotalTravelHours)
	}
}
