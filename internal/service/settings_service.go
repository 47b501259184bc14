package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

// SettingsService tournament-wide settings.
type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, actor authz.Actor, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	repo   *repository.Repository
	policy *authz.Policy
	audit  AuditService
	logger *zap.Logger
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(repo *repository.Repository, policy *authz.Policy, audit AuditService, logger *zap.Logger) SettingsService {
	return &settingsService{repo: repo, policy: policy, audit: audit, logger: logger}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.repo.Settings.Get(ctx)
	if err != nil {
		s.logger.Error("load settings failed", zap.Error(err))
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func (s *settingsService) Update(ctx context.Context, actor authz.Actor, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	if err := s.policy.Authorize(actor, authz.ActionManageConfig, ""); err != nil {
		return nil, err
	}
	settings, err := s.repo.Settings.Get(ctx)
	if err != nil {
		s.logger.Error("load settings failed", zap.Error(err))
		return nil, err
	}

	var changed []string
	if req.RegistrationOpen != nil {
		settings.RegistrationOpen = *req.RegistrationOpen
		changed = append(changed, "registration_open")
	}
	if req.ProAmMaxParticipants != nil {
		settings.ProAmMaxParticipants = *req.ProAmMaxParticipants
		changed = append(changed, "proam_max_participants")
	}
	if req.DefaultSlotCapacity != nil {
		settings.DefaultSlotCapacity = *req.DefaultSlotCapacity
		changed = append(changed, "default_slot_capacity")
	}
	if req.VolunteerMarshalMinimum != nil {
		settings.VolunteerMarshalMinimum = *req.VolunteerMarshalMinimum
		changed = append(changed, "volunteer_marshal_minimum")
	}
	if req.VolunteerScorerMaximum != nil {
		settings.VolunteerScorerMaximum = *req.VolunteerScorerMaximum
		changed = append(changed, "volunteer_scorer_maximum")
	}
	if req.TournamentDate != nil {
		d, err := parseDate(*req.TournamentDate)
		if err != nil {
			verr := pkgerrors.NewValidationError()
			verr.Add("tournament_date", "must be YYYY-MM-DD")
			return nil, verr
		}
		settings.TournamentDate = d
		changed = append(changed, "tournament_date")
	}
	if len(changed) == 0 {
		return toSettingsResponse(settings), nil
	}

	if err := s.repo.Settings.Upsert(ctx, settings); err != nil {
		s.logger.Error("save settings failed", zap.Error(err))
		return nil, err
	}
	s.audit.Record(ctx, actor, model.AuditUpdateSettings, model.EntitySettings, "tournament", strings.Join(changed, ","))
	return toSettingsResponse(settings), nil
}

func toSettingsResponse(t *model.TournamentSettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		RegistrationOpen:        t.RegistrationOpen,
		ProAmMaxParticipants:    t.ProAmMaxParticipants,
		DefaultSlotCapacity:     t.DefaultSlotCapacity,
		VolunteerMarshalMinimum: t.VolunteerMarshalMinimum,
		VolunteerScorerMaximum:  t.VolunteerScorerMaximum,
		TournamentDate:          formatDate(t.TournamentDate),
		UpdatedAt:               formatTime(t.UpdatedAt),
	}
}
