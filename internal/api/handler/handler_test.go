package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/przemobski1986/hvacquotepro/config"
	"github.com/przemobski1986/hvacquotepro/internal/dto"
	"github.com/przemobski1986/hvacquotepro/internal/service"
	pkgerrors "github.com/przemobski1986/hvacquotepro/pkg/errors"
	"github.com/przemobski1986/hvacquotepro/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	c.Request = httptest.NewRequest(method, target, reader)
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	return resp
}

// ────────────────────── 错误映射 ──────────────────────

func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"not_found", pkgerrors.NotFound("客户不存在"), http.StatusNotFound, codeBaseCRM + 1},
		{"conflict", pkgerrors.Conflict("车牌已存在(id=%d)", 7), http.StatusConflict, codeBaseCRM + 2},
		{"unprocessable", pkgerrors.Unprocessable("工地缺少坐标"), http.StatusUnprocessableEntity, codeBaseCRM + 3},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError, 50000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/x", "")
			handleServiceError(c, codeBaseCRM, tc.err)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			resp := decodeResponse(t, w)
			if resp.Code != tc.wantCode {
				t.Errorf("code = %d, want %d", resp.Code, tc.wantCode)
			}
		})
	}
}

// ────────────────────── 上下文提取 ──────────────────────

func TestMustGetTenantID(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/x", "")
	if _, ok := MustGetTenantID(c); ok {
		t.Fatal("缺失 tenant_id 时应返回 false")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}

	c2, _ := newTestContext(http.MethodGet, "/x", "")
	c2.Set("tenant_id", "tenant-1")
	got, ok := MustGetTenantID(c2)
	if !ok || got != "tenant-1" {
		t.Errorf("MustGetTenantID = (%q, %v), want (tenant-1, true)", got, ok)
	}
}

func TestParseUintQuery(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/x?vehicle_id=12", "")
	v, ok := parseUintQuery(c, "vehicle_id")
	if !ok || v == nil || *v != 12 {
		t.Fatalf("parseUintQuery = (%v, %v)", v, ok)
	}

	c2, _ := newTestContext(http.MethodGet, "/x", "")
	v2, ok2 := parseUintQuery(c2, "vehicle_id")
	if !ok2 || v2 != nil {
		t.Fatalf("缺省参数应返回 (nil, true)，得到 (%v, %v)", v2, ok2)
	}

	c3, w3 := newTestContext(http.MethodGet, "/x?vehicle_id=abc", "")
	if _, ok3 := parseUintQuery(c3, "vehicle_id"); ok3 {
		t.Fatal("非法参数应返回 false")
	}
	if w3.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w3.Code)
	}
}

func TestRequestLang(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/x", "")
	c.Request.Header.Set("Accept-Language", "pl-PL,pl;q=0.9")
	if got := requestLang(c); got != "pl" {
		t.Errorf("requestLang = %q, want pl", got)
	}

	c2, _ := newTestContext(http.MethodGet, "/x", "")
	if got := requestLang(c2); got != "en" {
		t.Errorf("无 Accept-Language 时 requestLang = %q, want en", got)
	}
}

// ────────────────────── 认证 ──────────────────────

// stubAuthService 按场景返回固定结果
type stubAuthService struct {
	loginResult *dto.TokenResponse
	loginErr    error
}

func (s *stubAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	out := *s.loginResult
	return &out, nil
}

func (s *stubAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return nil, pkgerrors.NotFound("未实现")
}

func (s *stubAuthService) Logout(_ context.Context, _ string) error { return nil }

func (s *stubAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: "user-1", TenantID: "tenant-1", Email: "szef@example.com"}, nil
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Cookie:          config.CookieConfig{SameSite: "lax"},
	}
}

func TestLoginSetsRefreshCookie(t *testing.T) {
	svc := &stubAuthService{loginResult: &dto.TokenResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresIn:    900,
	}}
	h := NewAuthHandler(testAuthConfig(), svc)

	c, w := newTestContext(http.MethodPost, "/api/v1/auth/login",
		`{"email":"szef@example.com","password":"secret"}`)
	h.Login(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var found *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == refreshCookieName {
			found = ck
		}
	}
	if found == nil {
		t.Fatal("响应缺少 refresh_token Cookie")
	}
	if found.Value != "refresh-token" || !found.HttpOnly {
		t.Errorf("Cookie = %+v, want HttpOnly refresh-token", found)
	}

	// 响应体不应再携带刷新令牌
	if strings.Contains(w.Body.String(), "refresh-token") {
		t.Error("刷新令牌不应出现在响应体中")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := NewAuthHandler(testAuthConfig(), &stubAuthService{loginErr: service.ErrInvalidCredentials})

	c, w := newTestContext(http.MethodPost, "/api/v1/auth/login",
		`{"email":"szef@example.com","password":"wrong"}`)
	h.Login(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Code != codeBaseAuth+1 {
		t.Errorf("code = %d, want %d", resp.Code, codeBaseAuth+1)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	h := NewAuthHandler(testAuthConfig(), &stubAuthService{loginErr: service.ErrUserInactive})

	c, w := newTestContext(http.MethodPost, "/api/v1/auth/login",
		`{"email":"szef@example.com","password":"secret"}`)
	h.Login(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestLoginBadBody(t *testing.T) {
	h := NewAuthHandler(testAuthConfig(), &stubAuthService{})

	c, w := newTestContext(http.MethodPost, "/api/v1/auth/login", `{not json`)
	h.Login(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

// ────────────────────── 导出 ──────────────────────

type stubExportService struct {
	content  []byte
	filename string
	err      error
}

func (s *stubExportService) DayXLSX(_ context.Context, _ string) ([]byte, string, error) {
	return s.content, s.filename, s.err
}

func (s *stubExportService) RangeXLSX(_ context.Context, _, _ string) ([]byte, string, error) {
	return s.content, s.filename, s.err
}

func (s *stubExportService) EmployeeXLSX(_ context.Context, _ uint, _, _ string) ([]byte, string, error) {
	return s.content, s.filename, s.err
}

func (s *stubExportService) PayrollXLSX(_ context.Context, _, _ string) ([]byte, string, error) {
	return s.content, s.filename, s.err
}

func (s *stubExportService) RangeCSV(_ context.Context, _, _ string) ([]byte, string, error) {
	return s.content, s.filename, s.err
}

func TestDayXLSXDownload(t *testing.T) {
	h := NewExportHandler(&stubExportService{content: []byte("xlsx-bytes"), filename: "day_2026-03-02.xlsx"})

	c, w := newTestContext(http.MethodGet, "/api/v1/exports/day.xlsx?date=2026-03-02", "")
	h.DayXLSX(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "day_2026-03-02.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestDayXLSXMissingDate(t *testing.T) {
	h := NewExportHandler(&stubExportService{})

	c, w := newTestContext(http.MethodGet, "/api/v1/exports/day.xlsx", "")
	h.DayXLSX(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPayrollXLSXDisabled(t *testing.T) {
	h := NewExportHandler(&stubExportService{err: pkgerrors.Unprocessable("XLSX 导出未启用")})

	c, w := newTestContext(http.MethodGet, "/api/v1/exports/payroll.xlsx?date_from=2026-03-01&date_to=2026-03-31", "")
	h.PayrollXLSX(c)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	resp := decodeResponse(t, w)
	if resp.Code != codeBaseExport+3 {
		t.Errorf("code = %d, want %d", resp.Code, codeBaseExport+3)
	}
}

// ────────────────────── 报表参数 ──────────────────────

type stubReportService struct {
	lastDate string
}

func (s *stubReportService) AggregateRange(_ context.Context, dateFrom, _ string, _, _ *uint) (*dto.RangeReportResponse, error) {
	s.lastDate = dateFrom
	return &dto.RangeReportResponse{}, nil
}

func (s *stubReportService) AggregateDay(_ context.Context, workDate string, _, _ *uint) (*dto.DailyReportResponse, error) {
	s.lastDate = workDate
	return &dto.DailyReportResponse{}, nil
}

func (s *stubReportService) WeeklyReport(_ context.Context, startDate string, _, _ *uint) (*dto.RangeReportResponse, error) {
	s.lastDate = startDate
	return &dto.RangeReportResponse{}, nil
}

func (s *stubReportService) MonthlyReport(_ context.Context, month string, _, _ *uint) (*dto.RangeReportResponse, error) {
	s.lastDate = month
	return &dto.RangeReportResponse{}, nil
}

func (s *stubReportService) DayOverview(_ context.Context, date string) (*dto.DayOverviewResponse, error) {
	s.lastDate = date
	return &dto.DayOverviewResponse{}, nil
}

func (s *stubReportService) EmployeeReport(_ context.Context, _ uint, dateFrom, _ string) (*dto.EmployeeReportResponse, error) {
	s.lastDate = dateFrom
	return &dto.EmployeeReportResponse{}, nil
}

func TestReportDailyRequiresDate(t *testing.T) {
	h := NewReportHandler(&stubReportService{})

	c, w := newTestContext(http.MethodGet, "/api/v1/reports/daily", "")
	h.Daily(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestReportDailyPassesThrough(t *testing.T) {
	stub := &stubReportService{}
	h := NewReportHandler(stub)

	c, w := newTestContext(http.MethodGet, "/api/v1/reports/daily?date=2026-03-02&vehicle_id=5", "")
	h.Daily(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if stub.lastDate != "2026-03-02" {
		t.Errorf("传入日期 = %q", stub.lastDate)
	}
}

func TestReportEmployeeRequiresID(t *testing.T) {
	h := NewReportHandler(&stubReportService{})

	c, w := newTestContext(http.MethodGet, "/api/v1/reports/employee?date_from=2026-03-01&date_to=2026-03-31", "")
	h.Employee(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
