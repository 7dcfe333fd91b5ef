package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/przemobski1986/hvacquotepro/internal/dto"
	"github.com/przemobski1986/hvacquotepro/internal/model"
	"github.com/przemobski1986/hvacquotepro/internal/repository"
	pkgerrors "github.com/przemobski1986/hvacquotepro/pkg/errors"
)

func ptrF(v float64) *float64 { return &v }
func ptrS(v string) *string   { return &v }

type crewLogFixture struct {
	repo    *repository.Repository
	store   *memStore
	svc     *crewLogService
	vehicle *model.Vehicle
	site    *model.WorkSite
	log     *model.CrewLog
}

func newCrewLogFixture(t *testing.T) *crewLogFixture {
	t.Helper()
	repo, store := newTestRepo()
	svc := &crewLogService{
		repo:   repo,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) },
	}

	vehicle := &model.Vehicle{Plate: "WGM1234", IsActive: true}
	if err := repo.Vehicle.Create(context.Background(), vehicle); err != nil {
		t.Fatalf("创建车辆失败: %v", err)
	}
	site := &model.WorkSite{Name: "Biurowiec A", Lat: ptrF(52.23), Lng: ptrF(21.01)}
	if err := repo.WorkSite.Create(context.Background(), site); err != nil {
		t.Fatalf("创建工地失败: %v", err)
	}
	log := &model.CrewLog{
		WorkDate:            time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		VehicleID:           vehicle.ID,
		CreatedByEmployeeID: 1,
		Status:              model.CrewLogStatusDraft,
	}
	if err := repo.CrewLog.Create(context.Background(), log); err != nil {
		t.Fatalf("创建班组日志失败: %v", err)
	}

	return &crewLogFixture{repo: repo, store: store, svc: svc, vehicle: vehicle, site: site, log: log}
}

func TestCreateCrewLogDuplicateVehicleDate(t *testing.T) {
	f := newCrewLogFixture(t)

	_, err := f.svc.CreateCrewLog(context.Background(), &dto.CreateCrewLogRequest{
		WorkDate:            "2026-03-02",
		VehicleID:           f.vehicle.ID,
		CreatedByEmployeeID: 1,
	})
	if !pkgerrors.IsConflict(err) {
		t.Fatalf("重复日志应返回 Conflict，got %v", err)
	}
}

func TestCreateCrewLogVehicleNotFound(t *testing.T) {
	f := newCrewLogFixture(t)

	_, err := f.svc.CreateCrewLog(context.Background(), &dto.CreateCrewLogRequest{
		WorkDate:            "2026-03-03",
		VehicleID:           999,
		CreatedByEmployeeID: 1,
	})
	if !pkgerrors.IsNotFound(err) {
		t.Fatalf("车辆不存在应返回 NotFound，got %v", err)
	}
}

func TestAddMemberIdempotent(t *testing.T) {
	f := newCrewLogFixture(t)
	emp := &model.Employee{FullName: "Jan Kowalski", IsActive: true}
	if err := f.repo.Employee.Create(context.Background(), emp); err != nil {
		t.Fatal(err)
	}

	first, err := f.svc.AddMember(context.Background(), f.log.ID, &dto.AddCrewMemberRequest{EmployeeID: emp.ID})
	if err != nil {
		t.Fatalf("首次添加成员: %v", err)
	}
	second, err := f.svc.AddMember(context.Background(), f.log.ID, &dto.AddCrewMemberRequest{EmployeeID: emp.ID})
	if err != nil {
		t.Fatalf("重复添加成员应幂等: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("重复添加应返回同一条记录: %d vs %d", first.ID, second.ID)
	}

	members, _ := f.svc.ListMembers(context.Background(), f.log.ID)
	if len(members) != 1 {
		t.Fatalf("成员应恰好 1 条，got %d", len(members))
	}
}

func TestAddSegmentOpenConflict(t *testing.T) {
	f := newCrewLogFixture(t)

	_, err := f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  f.site.ID,
		StartAt: "2026-03-02T08:00:00Z",
	})
	if err != nil {
		t.Fatalf("开启第一段: %v", err)
	}

	_, err = f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  f.site.ID,
		StartAt: "2026-03-02T09:00:00Z",
	})
	if !pkgerrors.IsConflict(err) {
		t.Fatalf("已有进行中工段应返回 Conflict，got %v", err)
	}
}

func TestAddSegmentSiteWithoutCoords(t *testing.T) {
	f := newCrewLogFixture(t)
	bare := &model.WorkSite{Name: "Bez GPS"}
	if err := f.repo.WorkSite.Create(context.Background(), bare); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  bare.ID,
		StartAt: "2026-03-02T08:00:00Z",
	})
	if !pkgerrors.IsUnprocessable(err) {
		t.Fatalf("无坐标工地应返回 Unprocessable，got %v", err)
	}
}

func TestAddSegmentInfersTravelGap(t *testing.T) {
	f := newCrewLogFixture(t)

	// 先补录一段已关闭的 work 段 08:00–10:00
	_, err := f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  f.site.ID,
		StartAt: "2026-03-02T08:00:00Z",
		EndAt:   ptrS("2026-03-02T10:00:00Z"),
	})
	if err != nil {
		t.Fatal(err)
	}

	// 新工地 10:30 开始：10:00–10:30 应补一条 travel 段
	site2 := &model.WorkSite{Name: "Hala B", Lat: ptrF(52.30), Lng: ptrF(21.10)}
	if err := f.repo.WorkSite.Create(context.Background(), site2); err != nil {
		t.Fatal(err)
	}
	_, err = f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  site2.ID,
		StartAt: "2026-03-02T10:30:00Z",
		EndAt:   ptrS("2026-03-02T12:00:00Z"),
	})
	if err != nil {
		t.Fatal(err)
	}

	segs, _ := f.svc.ListSegments(context.Background(), f.log.ID)
	if len(segs) != 3 {
		t.Fatalf("应有 3 段（含补推的 travel），got %d", len(segs))
	}
	travel := segs[1]
	if travel.Kind != model.SegmentKindTravel {
		t.Fatalf("中间段应为 travel，got %s", travel.Kind)
	}
	if travel.StartAt != "2026-03-02T10:00:00Z" || travel.EndAt == nil || *travel.EndAt != "2026-03-02T10:30:00Z" {
		t.Fatalf("travel 段起止错误: %s – %v", travel.StartAt, travel.EndAt)
	}
	if travel.SiteID != site2.ID {
		t.Fatalf("travel 段应归属新工地 %d，got %d", site2.ID, travel.SiteID)
	}
	if travel.StartLat != 52.30 || travel.StartLng != 21.10 {
		t.Fatalf("travel 段坐标应取新工地坐标，got (%v, %v)", travel.StartLat, travel.StartLng)
	}
}

func TestAddSegmentZeroGapNoTravel(t *testing.T) {
	f := newCrewLogFixture(t)

	_, err := f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  f.site.ID,
		StartAt: "2026-03-02T08:00:00Z",
		EndAt:   ptrS("2026-03-02T10:00:00Z"),
	})
	if err != nil {
		t.Fatal(err)
	}

	// 无缝衔接：不应生成 travel 段
	_, err = f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  f.site.ID,
		StartAt: "2026-03-02T10:00:00Z",
		EndAt:   ptrS("2026-03-02T11:00:00Z"),
	})
	if err != nil {
		t.Fatal(err)
	}

	segs, _ := f.svc.ListSegments(context.Background(), f.log.ID)
	if len(segs) != 2 {
		t.Fatalf("零间隔不应补 travel，got %d 段", len(segs))
	}
}

func TestStartSegmentTriggersInference(t *testing.T) {
	f := newCrewLogFixture(t)

	// 最近一段 10:00 结束，now 固定 12:00，应补两小时 travel
	_, err := f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  f.site.ID,
		StartAt: "2026-03-02T08:00:00Z",
		EndAt:   ptrS("2026-03-02T10:00:00Z"),
	})
	if err != nil {
		t.Fatal(err)
	}

	seg, err := f.svc.StartSegment(context.Background(), f.log.ID, &dto.StartSegmentRequest{SiteID: f.site.ID})
	if err != nil {
		t.Fatal(err)
	}
	if seg.EndAt != nil {
		t.Fatal("快捷开始的段应为进行中")
	}

	segs, _ := f.svc.ListSegments(context.Background(), f.log.ID)
	if len(segs) != 3 {
		t.Fatalf("快捷开始也应触发行程补推，got %d 段", len(segs))
	}
	if segs[1].Kind != model.SegmentKindTravel {
		t.Fatalf("补推段应为 travel，got %s", segs[1].Kind)
	}
}

func TestCloseSegmentAlreadyClosed(t *testing.T) {
	f := newCrewLogFixture(t)

	seg, err := f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  f.site.ID,
		StartAt: "2026-03-02T08:00:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.CloseSegment(context.Background(), f.log.ID, seg.ID, &dto.CloseSegmentRequest{
		EndAt: ptrS("2026-03-02T09:00:00Z"),
	}); err != nil {
		t.Fatalf("首次关闭: %v", err)
	}

	_, err = f.svc.CloseSegment(context.Background(), f.log.ID, seg.ID, &dto.CloseSegmentRequest{
		EndAt: ptrS("2026-03-02T10:00:00Z"),
	})
	if !pkgerrors.IsConflict(err) {
		t.Fatalf("重复关闭应返回 Conflict，got %v", err)
	}
}

func TestCloseSegmentDistanceOnlyForTravel(t *testing.T) {
	f := newCrewLogFixture(t)

	work, err := f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  f.site.ID,
		StartAt: "2026-03-02T08:00:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}
	closed, err := f.svc.CloseSegment(context.Background(), f.log.ID, work.ID, &dto.CloseSegmentRequest{
		EndAt:      ptrS("2026-03-02T09:00:00Z"),
		DistanceKm: ptrF(12.5),
	})
	if err != nil {
		t.Fatal(err)
	}
	if closed.DistanceKm != 0 {
		t.Fatalf("work 段公里数应强制为 0，got %v", closed.DistanceKm)
	}

	travel, err := f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  f.site.ID,
		Kind:    model.SegmentKindTravel,
		StartAt: "2026-03-02T09:00:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}
	closed, err = f.svc.CloseSegment(context.Background(), f.log.ID, travel.ID, &dto.CloseSegmentRequest{
		EndAt:      ptrS("2026-03-02T09:30:00Z"),
		DistanceKm: ptrF(12.5),
	})
	if err != nil {
		t.Fatal(err)
	}
	if closed.DistanceKm != 12.5 {
		t.Fatalf("travel 段应记录公里数，got %v", closed.DistanceKm)
	}
	if closed.EndLat == nil || *closed.EndLat != 52.23 {
		t.Fatalf("结束坐标应取工地坐标，got %v", closed.EndLat)
	}
}

func TestStopSegment(t *testing.T) {
	f := newCrewLogFixture(t)

	_, err := f.svc.StopSegment(context.Background(), f.log.ID)
	if !pkgerrors.IsNotFound(err) {
		t.Fatalf("无进行中工段应返回 NotFound，got %v", err)
	}

	if _, err := f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  f.site.ID,
		StartAt: "2026-03-02T11:00:00Z",
	}); err != nil {
		t.Fatal(err)
	}

	closed, err := f.svc.StopSegment(context.Background(), f.log.ID)
	if err != nil {
		t.Fatal(err)
	}
	if closed.EndAt == nil || *closed.EndAt != "2026-03-02T12:00:00Z" {
		t.Fatalf("结束时间应为固定 now，got %v", closed.EndAt)
	}
}

func TestCrewLogSummary(t *testing.T) {
	f := newCrewLogFixture(t)
	emp := &model.Employee{FullName: "Adam Nowak", IsActive: true}
	if err := f.repo.Employee.Create(context.Background(), emp); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.AddMember(context.Background(), f.log.ID, &dto.AddCrewMemberRequest{EmployeeID: emp.ID}); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.AddSegment(context.Background(), f.log.ID, &dto.AddSegmentRequest{
		SiteID:  f.site.ID,
		StartAt: "2026-03-02T08:00:00Z",
		EndAt:   ptrS("2026-03-02T09:30:00Z"),
	}); err != nil {
		t.Fatal(err)
	}

	summary, err := f.svc.Summary(context.Background(), f.log.ID)
	if err != nil {
		t.Fatal(err)
	}
	if summary.TotalMinutes != 90 {
		t.Fatalf("合计分钟应为 90，got %d", summary.TotalMinutes)
	}
	if summary.BySiteMinutes[f.site.ID] != 90 {
		t.Fatalf("工地分钟应为 90，got %d", summary.BySiteMinutes[f.site.ID])
	}
	if summary.ByEmployeeMinutes[emp.ID] != 90 {
		t.Fatalf("成员分钟应为 90，got %d", summary.ByEmployeeMinutes[emp.ID])
	}
}
