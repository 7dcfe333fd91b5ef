package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/przemobski1986/hvacquotepro/internal/dto"
	"github.com/przemobski1986/hvacquotepro/internal/model"
	"github.com/przemobski1986/hvacquotepro/internal/repository"
	pkgerrors "github.com/przemobski1986/hvacquotepro/pkg/errors"
)

// AdminService 租户管理业务接口：租户配置与用户管理
type AdminService interface {
	GetSettings(ctx context.Context, tenantID string) (*dto.TenantSettingsResponse, error)
	UpdateSettings(ctx context.Context, tenantID string, req *dto.UpdateTenantSettingsRequest) (*dto.TenantSettingsResponse, error)

	ListUsers(ctx context.Context, tenantID string) ([]dto.UserResponse, error)
	CreateUser(ctx context.Context, tenantID string, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, tenantID, userID string) error
}

type adminService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, logger: logger}
}

// ────────────────────── 租户配置 ──────────────────────

// GetSettings 读取租户配置，首次访问自动落默认值
func (s *adminService) GetSettings(ctx context.Context, tenantID string) (*dto.TenantSettingsResponse, error) {
	settings, err := s.ensureSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func (s *adminService) UpdateSettings(ctx context.Context, tenantID string, req *dto.UpdateTenantSettingsRequest) (*dto.TenantSettingsResponse, error) {
	settings, err := s.ensureSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.MinMarginPct != nil {
		settings.MinMarginPct = *req.MinMarginPct
	}
	if req.BlockBelowMinMargin != nil {
		settings.BlockBelowMinMargin = *req.BlockBelowMinMargin
	}
	if req.DefaultVATRate != nil {
		settings.DefaultVATRate = *req.DefaultVATRate
	}
	if req.QuotePrefix != nil {
		settings.QuotePrefix = *req.QuotePrefix
	}
	if req.LogoURL != nil {
		settings.LogoURL = req.LogoURL
	}
	if req.CompanyName != nil {
		settings.CompanyName = req.CompanyName
	}
	if req.CompanyAddress != nil {
		settings.CompanyAddress = req.CompanyAddress
	}
	if req.CompanyNIP != nil {
		settings.CompanyNIP = req.CompanyNIP
	}

	if err := s.repo.TenantSettings.Save(ctx, settings); err != nil {
		s.logger.Error("保存租户配置失败", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func (s *adminService) ensureSettings(ctx context.Context, tenantID string) (*model.TenantSettings, error) {
	settings, err := s.repo.TenantSettings.Get(ctx, tenantID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = &model.TenantSettings{
		TenantID:            tenantID,
		MinMarginPct:        0.15,
		BlockBelowMinMargin: false,
		DefaultVATRate:      0.23,
		QuotePrefix:         "Q",
	}
	if err := s.repo.TenantSettings.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ────────────────────── 用户管理 ──────────────────────

func (s *adminService) ListUsers(ctx context.Context, tenantID string) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, nil
}

func (s *adminService) CreateUser(ctx context.Context, tenantID string, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := s.repo.User.GetByEmail(ctx, tenantID, req.Email); err == nil {
		return nil, pkgerrors.Conflict("邮箱已被使用")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// DeactivateUser 软删用户，跨租户访问按不存在处理
func (s *adminService) DeactivateUser(ctx context.Context, tenantID, userID string) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NotFound("用户不存在")
		}
		return err
	}
	if user.TenantID != tenantID {
		return pkgerrors.NotFound("用户不存在")
	}

	user.IsActive = false
	return s.repo.User.Update(ctx, user)
}

// ────────────────────── 转换 ──────────────────────

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:       user.ID,
		TenantID: user.TenantID,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
	}
}

func toSettingsResponse(s *model.TenantSettings) *dto.TenantSettingsResponse {
	return &dto.TenantSettingsResponse{
		TenantID:            s.TenantID,
		MinMarginPct:        s.MinMarginPct,
		BlockBelowMinMargin: s.BlockBelowMinMargin,
		DefaultVATRate:      s.DefaultVATRate,
		QuotePrefix:         s.QuotePrefix,
		LogoURL:             s.LogoURL,
		CompanyName:         s.CompanyName,
		CompanyAddress:      s.CompanyAddress,
		CompanyNIP:          s.CompanyNIP,
	}
}
