package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/przemobski1986/hvacquotepro/internal/dto"
	"github.com/przemobski1986/hvacquotepro/internal/model"
	"github.com/przemobski1986/hvacquotepro/internal/repository"
	pkgerrors "github.com/przemobski1986/hvacquotepro/pkg/errors"
)

// CRMService 客户与客户工地业务接口，所有操作按租户隔离
type CRMService interface {
	CreateClient(ctx context.Context, tenantID string, req *dto.CreateClientRequest) (*dto.ClientResponse, error)
	GetClient(ctx context.Context, tenantID, id string) (*dto.ClientResponse, error)
	ListClients(ctx context.Context, tenantID string) ([]dto.ClientResponse, error)
	UpdateClient(ctx context.Context, tenantID, id string, req *dto.UpdateClientRequest) (*dto.ClientResponse, error)

	CreateClientSite(ctx context.Context, tenantID string, req *dto.CreateClientSiteRequest) (*dto.ClientSiteResponse, error)
	ListClientSites(ctx context.Context, tenantID string, clientID *string) ([]dto.ClientSiteResponse, error)
}

type crmService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCRMService 创建 CRMService 实例
func NewCRMService(repo *repository.Repository, logger *zap.Logger) CRMService {
	return &crmService{repo: repo, logger: logger}
}

// ────────────────────── 客户 ──────────────────────

func (s *crmService) CreateClient(ctx context.Context, tenantID string, req *dto.CreateClientRequest) (*dto.ClientResponse, error) {
	client := &model.Client{
		ID:       uuid.New().String(),
		TenantID: tenantID,
		Type:     req.Type,
		Name:     req.Name,
		NIP:      req.NIP,
		Email:    req.Email,
		Phone:    req.Phone,
		Notes:    req.Notes,
	}
	if err := s.repo.Client.Create(ctx, client); err != nil {
		s.logger.Error("创建客户失败", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}
	return toClientResponse(client), nil
}

func (s *crmService) GetClient(ctx context.Context, tenantID, id string) (*dto.ClientResponse, error) {
	client, err := s.repo.Client.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("客户不存在")
		}
		return nil, err
	}
	return toClientResponse(client), nil
}

func (s *crmService) ListClients(ctx context.Context, tenantID string) ([]dto.ClientResponse, error) {
	clients, err := s.repo.Client.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		result = append(result, *toClientResponse(&clients[i]))
	}
	return result, nil
}

func (s *crmService) UpdateClient(ctx context.Context, tenantID, id string, req *dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := s.repo.Client.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("客户不存在")
		}
		return nil, err
	}

	if req.Type != nil {
		client.Type = *req.Type
	}
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.NIP != nil {
		client.NIP = req.NIP
	}
	if req.Email != nil {
		client.Email = req.Email
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}

	if err := s.repo.Client.Update(ctx, client); err != nil {
		s.logger.Error("更新客户失败", zap.String("client_id", id), zap.Error(err))
		return nil, err
	}
	return toClientResponse(client), nil
}

// ────────────────────── 客户工地 ──────────────────────

func (s *crmService) CreateClientSite(ctx context.Context, tenantID string, req *dto.CreateClientSiteRequest) (*dto.ClientSiteResponse, error) {
	// 客户必须属于当前租户
	if _, err := s.repo.Client.GetByID(ctx, tenantID, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound("客户不存在")
		}
		return nil, err
	}

	site := &model.ClientSite{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		ClientID:    req.ClientID,
		Name:        req.Name,
		AddressLine: req.AddressLine,
		City:        req.City,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		Notes:       req.Notes,
	}
	if err := s.repo.ClientSite.Create(ctx, site); err != nil {
		s.logger.Error("创建客户工地失败", zap.String("client_id", req.ClientID), zap.Error(err))
		return nil, err
	}
	return toClientSiteResponse(site), nil
}

func (s *crmService) ListClientSites(ctx context.Context, tenantID string, clientID *string) ([]dto.ClientSiteResponse, error) {
	sites, err := s.repo.ClientSite.List(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ClientSiteResponse, 0, len(sites))
	for i := range sites {
		result = append(result, *toClientSiteResponse(&sites[i]))
	}
	return result, nil
}

// ────────────────────── 转换 ──────────────────────

func toClientResponse(c *model.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Type:      c.Type,
		Name:      c.Name,
		NIP:       c.NIP,
		Email:     c.Email,
		Phone:     c.Phone,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func toClientSiteResponse(s *model.ClientSite) *dto.ClientSiteResponse {
	return &dto.ClientSiteResponse{
		ID:          s.ID,
		ClientID:    s.ClientID,
		Name:        s.Name,
		AddressLine: s.AddressLine,
		City:        s.City,
		PostalCode:  s.PostalCode,
		Country:     s.Country,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}
