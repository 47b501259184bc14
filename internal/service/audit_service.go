package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

const (
	auditWriteTimeout = 5 * time.Second
	auditMaxLimit     = 500
)

// AuditService appends and queries the audit log.
type AuditService interface {
	// Record appends an entry after the primary mutation has committed. It
	// never fails the caller: write errors are logged and dropped.
	Record(ctx context.Context, actor authz.Actor, action, entityType, entityID, details string)
	Query(ctx context.Context, actor authz.Actor, req *dto.AuditQueryRequest) ([]dto.AuditLogResponse, error)
}

type auditService struct {
	repo   *repository.Repository
	policy *authz.Policy
	logger *zap.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(repo *repository.Repository, policy *authz.Policy, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, policy: policy, logger: logger}
}

// ────────────────────── Record ──────────────────────

func (s *auditService) Record(ctx context.Context, actor authz.Actor, action, entityType, entityID, details string) {
	// detached from the request so a client disconnect does not drop the entry
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	entry := &model.AuditLog{
		ActorID:    actor.ID,
		ActorRole:  string(actor.Role),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if err := s.repo.AuditLog.Create(ctx, entry); err != nil {
		s.logger.Error("write audit log failed",
			zap.String("actor_id", actor.ID),
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

// ────────────────────── Query ──────────────────────

func (s *auditService) Query(ctx context.Context, actor authz.Actor, req *dto.AuditQueryRequest) ([]dto.AuditLogResponse, error) {
	if err := s.policy.Authorize(actor, authz.ActionView, ""); err != nil {
		return nil, err
	}

	filter := repository.AuditFilter{
		ActorID:    req.ActorID,
		Action:     req.Action,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
	}
	verr := pkgerrors.NewValidationError()
	if req.Since != "" {
		t, err := time.Parse(time.RFC3339, req.Since)
		if err != nil {
			verr.Add("since", "must be an RFC3339 timestamp")
		} else {
			filter.Since = &t
		}
	}
	if req.Until != "" {
		t, err := time.Parse(time.RFC3339, req.Until)
		if err != nil {
			verr.Add("until", "must be an RFC3339 timestamp")
		} else {
			filter.Until = &t
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	limit := req.GetLimit()
	if limit > auditMaxLimit {
		limit = auditMaxLimit
	}

	entries, err := s.repo.AuditLog.List(ctx, filter, limit)
	if err != nil {
		s.logger.Error("query audit log failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, dto.AuditLogResponse{
			ID:         e.LogID,
			Timestamp:  formatTime(e.CreatedAt),
			ActorID:    e.ActorID,
			ActorRole:  e.ActorRole,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Details:    e.Details,
		})
	}
	return result, nil
}
