package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/przemobski1986/hvacquotepro/internal/dto"
	"github.com/przemobski1986/hvacquotepro/internal/model"
	"github.com/przemobski1986/hvacquotepro/internal/repository"
	pkgerrors "github.com/przemobski1986/hvacquotepro/pkg/errors"
)

// TimekeepingService 工时主数据业务接口：人员、车辆、工地
type TimekeepingService interface {
	CreateEmployee(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error)
	DeactivateEmployee(ctx context.Context, id uint) error

	CreateVehicle(ctx context.Context, req *dto.CreateVehicleRequest) (*dto.VehicleResponse, error)
	ListVehicles(ctx context.Context) ([]dto.VehicleResponse, error)
	DeactivateVehicle(ctx context.Context, id uint) error

	CreateAdHocSite(ctx context.Context, employeeID *uint, req *dto.CreateAdHocSiteRequest) (*dto.WorkSiteResponse, error)
	ListSites(ctx context.Context) ([]dto.WorkSiteResponse, error)
}

type timekeepingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimekeepingService 创建 TimekeepingService 实例
func NewTimekeepingService(repo *repository.Repository, logger *zap.Logger) TimekeepingService {
	return &timekeepingService{repo: repo, logger: logger}
}

// ────────────────────── 人员 ──────────────────────

func (s *timekeepingService) CreateEmployee(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	emp := &model.Employee{
		FullName: req.FullName,
		UserID:   req.UserID,
		IsActive: true,
	}
	if err := s.repo.Employee.Create(ctx, emp); err != nil {
		s.logger.Error("创建人员失败", zap.Error(err))
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

func (s *timekeepingService) ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error) {
	emps, err := s.repo.Employee.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.EmployeeResponse, 0, len(emps))
	for i := range emps {
		result = append(result, *toEmployeeResponse(&emps[i]))
	}
	return result, nil
}

// DeactivateEmployee 软删：仅置 is_active=false，历史工段归属不变
func (s *timekeepingService) DeactivateEmployee(ctx context.Context, id uint) error {
	if _, err := s.repo.Employee.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NotFound("人员不存在")
		}
		return err
	}
	return s.repo.Employee.Deactivate(ctx, id)
}

// ────────────────────── 车辆 ──────────────────────

func (s *timekeepingService) CreateVehicle(ctx context.Context, req *dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	if existing, err := s.repo.Vehicle.GetByPlate(ctx, req.Plate); err == nil {
		return nil, pkgerrors.Conflict("车牌已存在(id=%d)", existing.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	vehicle := &model.Vehicle{
		Plate:              req.Plate,
		MakeModel:          req.MakeModel,
		TelematicsDeviceID: req.TelematicsDeviceID,
		IsActive:           true,
	}
	if err := s.repo.Vehicle.Create(ctx, vehicle); err != nil {
		s.logger.Error("创建车辆失败", zap.String("plate", req.Plate), zap.Error(err))
		return nil, err
	}
	return toVehicleResponse(vehicle), nil
}

func (s *timekeepingService) ListVehicles(ctx context.Context) ([]dto.VehicleResponse, error) {
	vehicles, err := s.repo.Vehicle.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		result = append(result, *toVehicleResponse(&vehicles[i]))
	}
	return result, nil
}

func (s *timekeepingService) DeactivateVehicle(ctx context.Context, id uint) error {
	if _, err := s.repo.Vehicle.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NotFound("车辆不存在")
		}
		return err
	}
	return s.repo.Vehicle.Deactivate(ctx, id)
}

// ────────────────────── 工地 ──────────────────────

// CreateAdHocSite 现场补登工地，坐标必填，记录登记人
func (s *timekeepingService) CreateAdHocSite(ctx context.Context, employeeID *uint, req *dto.CreateAdHocSiteRequest) (*dto.WorkSiteResponse, error) {
	site := &model.WorkSite{
		Name:                req.Name,
		Lat:                 &req.Lat,
		Lng:                 &req.Lng,
		IsAdHoc:             true,
		CreatedByEmployeeID: employeeID,
	}
	if req.RadiusM > 0 {
		site.RadiusM = &req.RadiusM
	}
	if err := s.repo.WorkSite.Create(ctx, site); err != nil {
		s.logger.Error("创建补登工地失败", zap.Error(err))
		return nil, err
	}
	return toWorkSiteResponse(site), nil
}

func (s *timekeepingService) ListSites(ctx context.Context) ([]dto.WorkSiteResponse, error) {
	sites, err := s.repo.WorkSite.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.WorkSiteResponse, 0, len(sites))
	for i := range sites {
		result = append(result, *toWorkSiteResponse(&sites[i]))
	}
	return result, nil
}

// ────────────────────── 转换 ──────────────────────

func toEmployeeResponse(emp *model.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:       emp.ID,
		FullName: emp.FullName,
		UserID:   emp.UserID,
		IsActive: emp.IsActive,
	}
}

func toVehicleResponse(v *model.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:                 v.ID,
		Plate:              v.Plate,
		MakeModel:          v.MakeModel,
		TelematicsDeviceID: v.TelematicsDeviceID,
		IsActive:           v.IsActive,
	}
}

func toWorkSiteResponse(site *model.WorkSite) *dto.WorkSiteResponse {
	return &dto.WorkSiteResponse{
		ID:      site.ID,
		Name:    site.Name,
		Lat:     site.Lat,
		Lng:     site.Lng,
		RadiusM: site.RadiusM,
		IsAdHoc: site.IsAdHoc,
	}
}
