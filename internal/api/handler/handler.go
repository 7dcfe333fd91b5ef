package handler

import (
	"github.com/przemobski1986/hvacquotepro/config"
	"github.com/przemobski1986/hvacquotepro/internal/service"
)

// Handler HTTP 处理器聚合，按业务模块拆分
type Handler struct {
	Auth        *AuthHandler
	Admin       *AdminHandler
	CRM         *CRMHandler
	Quoting     *QuotingHandler
	Timekeeping *TimekeepingHandler
	CrewLog     *CrewLogHandler
	Report      *ReportHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(&cfg.Auth, svc.Auth),
		Admin:       NewAdminHandler(svc.Admin),
		CRM:         NewCRMHandler(svc.CRM),
		Quoting:     NewQuotingHandler(svc.Quoting),
		Timekeeping: NewTimekeepingHandler(svc.Timekeeping),
		CrewLog:     NewCrewLogHandler(svc.CrewLog),
		Report:      NewReportHandler(svc.Report),
		Export:      NewExportHandler(svc.Export),
	}
}
