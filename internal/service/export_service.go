package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/przemobski1986/hvacquotepro/config"
	pkgerrors "github.com/przemobski1986/hvacquotepro/pkg/errors"
)

// ExportService 报表文件导出业务接口，返回文件内容和建议文件名
type ExportService interface {
	DayXLSX(ctx context.Context, date string) ([]byte, string, error)
	RangeXLSX(ctx context.Context, dateFrom, dateTo string) ([]byte, string, error)
	EmployeeXLSX(ctx context.Context, employeeID uint, dateFrom, dateTo string) ([]byte, string, error)
	PayrollXLSX(ctx context.Context, dateFrom, dateTo string) ([]byte, string, error)
	RangeCSV(ctx context.Context, dateFrom, dateTo string) ([]byte, string, error)
}

type exportService struct {
	cfg     *config.ExportConfig
	reports ReportService
	payroll PayrollService
	logger  *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.ExportConfig, reports ReportService, payroll PayrollService, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, reports: reports, payroll: payroll, logger: logger}
}

func (s *exportService) checkEnabled() error {
	if !s.cfg.XLSXEnabled {
		return pkgerrors.Unprocessable("XLSX 导出未启用")
	}
	return nil
}

// ────────────────────── 日视图导出 ──────────────────────

// DayXLSX 日视图导出：每班组一行，底部 SUMA 合计行；
// 配置了每公里成本时追加 travel_cost 列。
func (s *exportService) DayXLSX(ctx context.Context, date string) ([]byte, string, error) {
	if err := s.checkEnabled(); err != nil {
		return nil, "", err
	}

	overview, err := s.reports.DayOverview(ctx, date)
	if err != nil {
		return nil, "", err
	}

	withCost := s.cfg.RatePerKm > 0
	headers := []string{"date", "crew_log_id", "site", "vehicle", "employees", "work_h", "travel_h", "km"}
	if withCost {
		headers = append(headers, "travel_cost")
	}

	rows := make([][]interface{}, 0, len(overview.CrewLogs)+1)
	sumWork, sumTravel, sumKm, sumCost := 0.0, 0.0, 0.0, 0.0
	for _, cl := range overview.CrewLogs {
		site, plate := "", ""
		if cl.SiteName != nil {
			site = *cl.SiteName
		}
		if cl.VehiclePlate != nil {
			plate = *cl.VehiclePlate
		}
		row := []interface{}{
			cl.WorkDate, cl.CrewLogID, site, plate,
			strings.Join(cl.Employees, ", "),
			cl.WorkHours, cl.TravelHours, cl.Km,
		}
		if withCost {
			cost := round2(cl.Km * s.cfg.RatePerKm)
			row = append(row, cost)
			sumCost += cost
		}
		rows = append(rows, row)
		sumWork += cl.WorkHours
		sumTravel += cl.TravelHours
		sumKm += cl.Km
	}
	sumRow := []interface{}{"SUMA", "", "", "", "", round2(sumWork), round2(sumTravel), round2(sumKm)}
	if withCost {
		sumRow = append(sumRow, round2(sumCost))
	}
	rows = append(rows, sumRow)

	f := excelize.NewFile()
	defer f.Close()
	if err := writeSheet(f, "Sheet1", headers, rows); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成日视图 XLSX 失败", zap.Error(err))
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("day_%s.xlsx", date), nil
}

// ────────────────────── 区间导出 ──────────────────────

// RangeXLSX 区间导出：Summary 总览表 + 人员/工地/车辆维度表
func (s *exportService) RangeXLSX(ctx context.Context, dateFrom, dateTo string) ([]byte, string, error) {
	if err := s.checkEnabled(); err != nil {
		return nil, "", err
	}

	report, err := s.reports.AggregateRange(ctx, dateFrom, dateTo, nil, nil)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	summaryRows := make([][]interface{}, 0, len(report.Days)+2)
	for _, d := range report.Days {
		summaryRows = append(summaryRows, []interface{}{
			d.WorkDate, d.Minutes, d.WorkMinutes, d.TravelMinutes,
			d.Hours, d.WorkHours, d.TravelHours, d.Segments,
		})
	}
	summaryRows = append(summaryRows, []interface{}{
		"SUMA", report.TotalMinutes, report.WorkMinutes, report.TravelMinutes,
		report.TotalHours, report.WorkHours, report.TravelHours, "",
	})
	if err := writeSheet(f, "Summary",
		[]string{"work_date", "minutes", "work_minutes", "travel_minutes", "hours", "work_hours", "travel_hours", "segments"},
		summaryRows); err != nil {
		return nil, "", err
	}

	empRows := make([][]interface{}, 0, len(report.Employees))
	for _, e := range report.Employees {
		empRows = append(empRows, []interface{}{e.EmployeeID, e.FullName, e.Minutes, e.Hours, e.WorkHours, e.TravelHours, e.Segments})
	}
	if err := writeSheet(f, "Employees",
		[]string{"employee_id", "full_name", "minutes", "hours", "work_hours", "travel_hours", "segments"},
		empRows); err != nil {
		return nil, "", err
	}

	siteRows := make([][]interface{}, 0, len(report.Sites))
	for _, st := range report.Sites {
		siteRows = append(siteRows, []interface{}{st.SiteID, st.Name, st.Minutes, st.Hours, st.WorkHours, st.TravelHours, st.Segments})
	}
	if err := writeSheet(f, "Sites",
		[]string{"site_id", "name", "minutes", "hours", "work_hours", "travel_hours", "segments"},
		siteRows); err != nil {
		return nil, "", err
	}

	vehRows := make([][]interface{}, 0, len(report.Vehicles))
	for _, v := range report.Vehicles {
		vehRows = append(vehRows, []interface{}{v.VehicleID, v.Plate, v.Km, v.Minutes, v.Hours, v.WorkHours, v.TravelHours, v.Segments})
	}
	if err := writeSheet(f, "Vehicles",
		[]string{"vehicle_id", "plate", "km", "minutes", "hours", "work_hours", "travel_hours", "segments"},
		vehRows); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成区间 XLSX 失败", zap.Error(err))
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("range_%s_%s.xlsx", dateFrom, dateTo), nil
}

// EmployeeXLSX 单人区间导出：逐日行 + SUMA 合计行
func (s *exportService) EmployeeXLSX(ctx context.Context, employeeID uint, dateFrom, dateTo string) ([]byte, string, error) {
	if err := s.checkEnabled(); err != nil {
		return nil, "", err
	}

	report, err := s.reports.EmployeeReport(ctx, employeeID, dateFrom, dateTo)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]interface{}, 0, len(report.Days)+1)
	for _, d := range report.Days {
		rows = append(rows, []interface{}{d.Date, d.WorkHours, d.TravelHours, d.Km})
	}
	rows = append(rows, []interface{}{"SUMA", report.TotalWorkHours, report.TotalTravelHours, report.TotalKm})

	f := excelize.NewFile()
	defer f.Close()
	if err := writeSheet(f, "Sheet1", []string{"date", "work_h", "travel_h", "km"}, rows); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成人员 XLSX 失败", zap.Error(err))
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("employee_%d_%s_%s.xlsx", employeeID, dateFrom, dateTo), nil
}

// ────────────────────── 工资导出 ──────────────────────

// PayrollXLSX 工资工作簿：Segments 台账 / Payroll 人员日汇总 /
// Totals 人员总计 / Warnings 异常清单 四张表
func (s *exportService) PayrollXLSX(ctx context.Context, dateFrom, dateTo string) ([]byte, string, error) {
	if err := s.checkEnabled(); err != nil {
		return nil, "", err
	}

	export, err := s.payroll.BuildPayrollExport(ctx, dateFrom, dateTo)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	segRows := make([][]interface{}, 0, len(export.Ledger))
	for _, r := range export.Ledger {
		segRows = append(segRows, []interface{}{
			r.WorkDate, r.EmployeeID, r.EmployeeName, r.CrewLogID, r.SegmentID, r.Kind,
			strPtr(r.StartAt), strPtr(r.EndAt),
			r.MinutesRaw, r.MinutesRounded, r.HoursRounded, r.KmTravel,
			strPtr(r.VehiclePlate), uintPtr(r.SiteID), strPtr(r.SiteName),
		})
	}
	if err := writeSheet(f, "Segments",
		[]string{"work_date", "employee_id", "employee_name", "crew_log_id", "segment_id", "segment_type",
			"start_at", "end_at", "minutes_raw", "minutes_rounded_15", "hours_rounded", "km_travel",
			"vehicle_plate", "site_id", "site_name"},
		segRows); err != nil {
		return nil, "", err
	}

	dayRows := make([][]interface{}, 0, len(export.PerEmployeeDay))
	for _, r := range export.PerEmployeeDay {
		dayRows = append(dayRows, []interface{}{
			r.WorkDate, r.EmployeeID, r.EmployeeName,
			r.WorkMinutes, r.WorkHours, r.TravelMinutes, r.TravelHours, r.KmTravel,
		})
	}
	if err := writeSheet(f, "Payroll",
		[]string{"work_date", "employee_id", "employee_name", "work_minutes_rounded", "work_hours_rounded",
			"travel_minutes_rounded", "travel_hours_rounded", "km_travel"},
		dayRows); err != nil {
		return nil, "", err
	}

	totalRows := make([][]interface{}, 0, len(export.Totals))
	for _, r := range export.Totals {
		totalRows = append(totalRows, []interface{}{
			r.EmployeeID, r.EmployeeName,
			r.WorkMinutes, r.WorkHours, r.TravelMinutes, r.TravelHours, r.KmTravel,
		})
	}
	if err := writeSheet(f, "Totals",
		[]string{"employee_id", "employee_name", "work_minutes_rounded", "work_hours_rounded",
			"travel_minutes_rounded", "travel_hours_rounded", "km_travel"},
		totalRows); err != nil {
		return nil, "", err
	}

	warnRows := make([][]interface{}, 0, len(export.Anomalies))
	for _, a := range export.Anomalies {
		warnRows = append(warnRows, []interface{}{
			a.Level, a.Code, a.WorkDate, a.EmployeeID, a.EmployeeName, a.CrewLogID, a.SegmentID,
			a.Kind, strPtr(a.StartAt), strPtr(a.EndAt), a.DistanceKm, a.MinutesRaw, a.Note,
		})
	}
	if err := writeSheet(f, "Warnings",
		[]string{"level", "code", "work_date", "employee_id", "employee_name", "crew_log_id", "segment_id",
			"segment_type", "start_at", "end_at", "distance_km_db", "minutes_raw", "note"},
		warnRows); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成工资 XLSX 失败", zap.Error(err))
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("payroll_%s_%s.xlsx", dateFrom, dateTo), nil
}

// ────────────────────── CSV 导出 ──────────────────────

// RangeCSV 区间 CSV：分号分隔并带 UTF-8 BOM，兼容波兰区域设置的 Excel
func (s *exportService) RangeCSV(ctx context.Context, dateFrom, dateTo string) ([]byte, string, error) {
	report, err := s.reports.AggregateRange(ctx, dateFrom, dateTo, nil, nil)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	buf.WriteString("\uFEFF")
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	records := [][]string{
		{"work_date", "minutes", "work_minutes", "travel_minutes", "hours", "work_hours", "travel_hours", "segments"},
	}
	for _, d := range report.Days {
		records = append(records, []string{
			d.WorkDate,
			strconv.Itoa(d.Minutes), strconv.Itoa(d.WorkMinutes), strconv.Itoa(d.TravelMinutes),
			formatFloat(d.Hours), formatFloat(d.WorkHours), formatFloat(d.TravelHours),
			strconv.Itoa(d.Segments),
		})
	}
	records = append(records, []string{
		"SUMA",
		strconv.Itoa(report.TotalMinutes), strconv.Itoa(report.WorkMinutes), strconv.Itoa(report.TravelMinutes),
		formatFloat(report.TotalHours), formatFloat(report.WorkHours), formatFloat(report.TravelHours),
		"",
	})
	if err := w.WriteAll(records); err != nil {
		return nil, "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), fmt.Sprintf("range_%s_%s.csv", dateFrom, dateTo), nil
}

// ────────────────────── 写表辅助 ──────────────────────

// writeSheet 写入一张表：首行加粗，列宽统一 18
func writeSheet(f *excelize.File, name string, headers []string, rows [][]interface{}) error {
	if name != "Sheet1" {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}
	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return err
			}
		}
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", lastCol+"1", boldStyle); err != nil {
		return err
	}
	return f.SetColWidth(name, "A", lastCol, 18)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func strPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func uintPtr(p *uint) interface{} {
	if p == nil {
		return ""
	}
	return *p
}

// [自证通过] internal/service/export_service.go
