package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

var (
	ErrSlugTaken = pkgerrors.Kind(pkgerrors.ErrConflict, "slug is already in use")

	slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,63}$`)
)

// ModuleService the public accreditation entry points.
type ModuleService interface {
	ListPublic(ctx context.Context) ([]dto.ModuleResponse, error)
	List(ctx context.Context, actor authz.Actor) ([]dto.ModuleResponse, error)
	Create(ctx context.Context, actor authz.Actor, req *dto.CreateModuleRequest) (*dto.ModuleResponse, error)
	Update(ctx context.Context, actor authz.Actor, id string, req *dto.UpdateModuleRequest) (*dto.ModuleResponse, error)
}

type moduleService struct {
	repo   *repository.Repository
	policy *authz.Policy
	audit  AuditService
	logger *zap.Logger
}

// NewModuleService creates a ModuleService.
func NewModuleService(repo *repository.Repository, policy *authz.Policy, audit AuditService, logger *zap.Logger) ModuleService {
	return &moduleService{repo: repo, policy: policy, audit: audit, logger: logger}
}

func (s *moduleService) ListPublic(ctx context.Context) ([]dto.ModuleResponse, error) {
	return s.list(ctx, true)
}

func (s *moduleService) List(ctx context.Context, actor authz.Actor) ([]dto.ModuleResponse, error) {
	if !canViewAny(s.policy, actor) {
		return nil, s.policy.Authorize(actor, authz.ActionView, "")
	}
	return s.list(ctx, false)
}

func (s *moduleService) list(ctx context.Context, publicOnly bool) ([]dto.ModuleResponse, error) {
	modules, err := s.repo.Module.List(ctx, publicOnly)
	if err != nil {
		s.logger.Error("list accreditation modules failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ModuleResponse, 0, len(modules))
	for i := range modules {
		result = append(result, *toModuleResponse(&modules[i]))
	}
	return result, nil
}

func (s *moduleService) Create(ctx context.Context, actor authz.Actor, req *dto.CreateModuleRequest) (*dto.ModuleResponse, error) {
	if err := s.policy.Authorize(actor, authz.ActionManageConfig, ""); err != nil {
		return nil, err
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	verr := pkgerrors.NewValidationError()
	if !model.ModuleType(req.ModuleType).IsValid() {
		verr.Add("module_type", "unknown module type")
	}
	if !slugPattern.MatchString(slug) {
		verr.Add("slug", "must be lower-case letters, digits and '-'")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.repo.Module.GetBySlug(ctx, slug); err == nil {
		return nil, ErrSlugTaken
	} else if !isNotFound(err) {
		s.logger.Error("load accreditation module failed", zap.Error(err))
		return nil, err
	}

	m := &model.AccreditationModule{
		ModuleType:  model.ModuleType(req.ModuleType),
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		IsActive:    true,
		IsPublic:    req.IsPublic == nil || *req.IsPublic,
	}
	if err := s.repo.Module.Create(ctx, m); err != nil {
		if isDuplicate(err) {
			return nil, ErrSlugTaken
		}
		s.logger.Error("create accreditation module failed", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, actor, model.AuditSaveModule, model.EntityModule, m.ModuleID, "slug="+m.Slug)
	return toModuleResponse(m), nil
}

func (s *moduleService) Update(ctx context.Context, actor authz.Actor, id string, req *dto.UpdateModuleRequest) (*dto.ModuleResponse, error) {
	if err := s.policy.Authorize(actor, authz.ActionManageConfig, ""); err != nil {
		return nil, err
	}
	m, err := s.repo.Module.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrModuleNotFound
		}
		s.logger.Error("load accreditation module failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if req.IsPublic != nil {
		m.IsPublic = *req.IsPublic
	}

	if err := s.repo.Module.Update(ctx, m); err != nil {
		s.logger.Error("update accreditation module failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	s.audit.Record(ctx, actor, model.AuditSaveModule, model.EntityModule, id, "slug="+m.Slug)
	return toModuleResponse(m), nil
}

func toModuleResponse(m *model.AccreditationModule) *dto.ModuleResponse {
	return &dto.ModuleResponse{
		ID:          m.ModuleID,
		ModuleType:  string(m.ModuleType),
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		IsActive:    m.IsActive,
		IsPublic:    m.IsPublic,
	}
}
