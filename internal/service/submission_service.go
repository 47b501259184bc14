package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/t3ch-N/mAGICAL-clone-sub001/config"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/event"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

// ── submission errors ──

var (
	ErrSubmissionNotFound = pkgerrors.Kind(pkgerrors.ErrNotFound, "submission not found")
	ErrModuleNotFound     = pkgerrors.Kind(pkgerrors.ErrNotFound, "accreditation module not found")
	ErrRegistrationClosed = pkgerrors.Kind(pkgerrors.ErrInvalidState, "registration is closed")
	ErrProAmFieldFull     = pkgerrors.Kind(pkgerrors.ErrInvalidState, "the Pro-Am field is full")
)

const iterateBatchSize = 100

// SubmissionService is the submission store and status transition engine.
type SubmissionService interface {
	Create(ctx context.Context, req *dto.CreateSubmissionRequest) (*dto.CreateSubmissionResponse, error)
	Apply(ctx context.Context, slug string, req *dto.ApplyRequest) (*dto.CreateSubmissionResponse, error)
	RegisterVolunteer(ctx context.Context, req *dto.ApplyRequest) (*dto.CreateSubmissionResponse, error)

	Get(ctx context.Context, actor authz.Actor, id string) (*dto.SubmissionResponse, error)
	List(ctx context.Context, actor authz.Actor, req *dto.SubmissionListRequest) ([]dto.SubmissionSummary, int64, error)
	// Iterate walks matching submissions newest first in keyset batches. Each
	// range over the returned sequence starts again from the newest.
	Iterate(ctx context.Context, actor authz.Actor, filter repository.SubmissionFilter) iter.Seq2[model.Submission, error]
	UpdateFields(ctx context.Context, actor authz.Actor, id string, req *dto.UpdateSubmissionRequest) (*dto.SubmissionResponse, error)

	Transition(ctx context.Context, actor authz.Actor, id string, req *dto.TransitionRequest) (*dto.SubmissionResponse, error)
	TransitionMany(ctx context.Context, actor authz.Actor, req *dto.BulkTransitionRequest) []BulkOutcome

	Stats(ctx context.Context, actor authz.Actor, moduleType string) (*dto.SubmissionStatsResponse, error)
	VolunteerStats(ctx context.Context) (*dto.VolunteerStatsResponse, error)
}

type submissionService struct {
	cfg       *config.Config
	repo      *repository.Repository
	policy    *authz.Policy
	audit     AuditService
	forms     *FormValidator
	publisher event.Publisher
	logger    *zap.Logger
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(
	cfg *config.Config,
	repo *repository.Repository,
	policy *authz.Policy,
	audit AuditService,
	publisher event.Publisher,
	logger *zap.Logger,
) SubmissionService {
	return &submissionService{
		cfg:       cfg,
		repo:      repo,
		policy:    policy,
		audit:     audit,
		forms:     NewFormValidator(),
		publisher: publisher,
		logger:    logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *submissionService) Create(ctx context.Context, req *dto.CreateSubmissionRequest) (*dto.CreateSubmissionResponse, error) {
	module := model.ModuleType(req.ModuleType)
	if !module.IsValid() {
		verr := pkgerrors.NewValidationError()
		verr.Add("module_type", "unknown module type")
		return nil, verr
	}
	return s.create(ctx, module, "Application", req.FormData, req.Attachments)
}

func (s *submissionService) Apply(ctx context.Context, slug string, req *dto.ApplyRequest) (*dto.CreateSubmissionResponse, error) {
	module, err := s.repo.Module.GetBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrModuleNotFound
		}
		s.logger.Error("load accreditation module failed", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	if !module.IsActive {
		return nil, ErrModuleNotFound
	}
	if module.ModuleType == model.ModuleVolunteers {
		verr := pkgerrors.NewValidationError()
		verr.Add("slug", "volunteers register through POST /api/v1/volunteers/register")
		return nil, verr
	}
	return s.create(ctx, module.ModuleType, module.Name, req.FormData, req.Attachments)
}

func (s *submissionService) RegisterVolunteer(ctx context.Context, req *dto.ApplyRequest) (*dto.CreateSubmissionResponse, error) {
	return s.create(ctx, model.ModuleVolunteers, "Volunteer registration", req.FormData, req.Attachments)
}

func (s *submissionService) create(ctx context.Context, module model.ModuleType, title string, form model.FormData, attachments []string) (*dto.CreateSubmissionResponse, error) {
	// 1. registration window
	settings, err := s.repo.Settings.Get(ctx)
	if err != nil {
		s.logger.Error("load settings failed", zap.Error(err))
		return nil, err
	}
	if !settings.RegistrationOpen {
		return nil, ErrRegistrationClosed
	}

	// 2. per-module form rules
	if err := s.forms.Validate(module, form); err != nil {
		return nil, err
	}

	// 3. Pro-Am field size
	if module == model.ModuleProAm && settings.ProAmMaxParticipants > 0 {
		counts, err := s.repo.Submission.CountByStatus(ctx, model.ModuleProAm)
		if err != nil {
			s.logger.Error("count pro-am submissions failed", zap.Error(err))
			return nil, err
		}
		var live int64
		for st, n := range counts {
			if st != model.StatusRejected && st != model.StatusCancelled {
				live += n
			}
		}
		if live >= int64(settings.ProAmMaxParticipants) {
			return nil, ErrProAmFieldFull
		}
	}

	// 4. persist with the initial history entry
	now := time.Now().UTC()
	sub := &model.Submission{
		ModuleType:  module,
		FormData:    form,
		Attachments: model.StringArray(attachments),
		Status:      model.StatusSubmitted,
		StatusHistory: []model.StatusHistoryEntry{{
			Seq:       1,
			Status:    model.StatusSubmitted,
			ChangedAt: now,
			ChangedBy: model.ActorPublic,
		}},
	}
	sub.Version = 1

	if err := s.repo.Submission.Create(ctx, sub); err != nil {
		s.logger.Error("create submission failed", zap.String("module_type", string(module)), zap.Error(err))
		return nil, err
	}

	// 5. audit + event, after commit
	s.audit.Record(ctx, authz.PublicActor, model.AuditCreateSubmission, model.EntitySubmission, sub.SubmissionID, string(module))
	s.publisher.Publish(ctx, event.New(event.TypeCreated, sub, "", model.ActorPublic))

	return &dto.CreateSubmissionResponse{
		Success:      true,
		SubmissionID: sub.SubmissionID,
		Status:       string(sub.Status),
		Message:      title + " submitted",
	}, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *submissionService) load(ctx context.Context, id string) (*model.Submission, error) {
	sub, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("load submission failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sub, nil
}

func (s *submissionService) Get(ctx context.Context, actor authz.Actor, id string) (*dto.SubmissionResponse, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, authz.ActionView, sub.ModuleType); err != nil {
		return nil, err
	}
	return toSubmissionResponse(s.policy, actor, sub), nil
}

// filterFor resolves the modules actor may see, narrowed by the requested module.
func (s *submissionService) filterFor(actor authz.Actor, moduleType, status string) (repository.SubmissionFilter, error) {
	var f repository.SubmissionFilter
	verr := pkgerrors.NewValidationError()
	if moduleType != "" && !model.ModuleType(moduleType).IsValid() {
		verr.Add("module_type", "unknown module type")
	}
	if status != "" && !model.SubmissionStatus(status).IsValid() {
		verr.Add("status", "unknown status")
	}
	if err := verr.OrNil(); err != nil {
		return f, err
	}

	f.Status = model.SubmissionStatus(status)
	if moduleType != "" {
		f.ModuleType = model.ModuleType(moduleType)
		if err := s.policy.Authorize(actor, authz.ActionView, f.ModuleType); err != nil {
			return f, err
		}
		return f, nil
	}

	f.Modules = s.policy.VisibleModules(actor)
	if len(f.Modules) == 0 {
		return f, s.policy.Authorize(actor, authz.ActionView, "")
	}
	return f, nil
}

func (s *submissionService) List(ctx context.Context, actor authz.Actor, req *dto.SubmissionListRequest) ([]dto.SubmissionSummary, int64, error) {
	f, err := s.filterFor(actor, req.ModuleType, req.Status)
	if err != nil {
		return nil, 0, err
	}

	subs, total, err := s.repo.Submission.List(ctx, f, req.GetOffset(), pageSize(&req.PaginationRequest, s.cfg.Accreditation.MaxPageSize))
	if err != nil {
		s.logger.Error("list submissions failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.SubmissionSummary, 0, len(subs))
	for i := range subs {
		result = append(result, dto.SubmissionSummary{
			ID:             subs[i].SubmissionID,
			ModuleType:     string(subs[i].ModuleType),
			FormData:       subs[i].FormData,
			Status:         string(subs[i].Status),
			AssignedSlotID: subs[i].AssignedSlotID,
			CreatedAt:      formatTime(subs[i].CreatedAt),
		})
	}
	return result, total, nil
}

func (s *submissionService) Iterate(ctx context.Context, actor authz.Actor, filter repository.SubmissionFilter) iter.Seq2[model.Submission, error] {
	f, err := s.filterFor(actor, string(filter.ModuleType), string(filter.Status))
	if err != nil {
		return func(yield func(model.Submission, error) bool) {
			yield(model.Submission{}, err)
		}
	}
	return s.iterate(ctx, f)
}

func (s *submissionService) iterate(ctx context.Context, f repository.SubmissionFilter) iter.Seq2[model.Submission, error] {
	return iterateSubmissions(ctx, s.repo.Submission, f)
}

// iterateSubmissions walks every match in keyset batches, newest first.
func iterateSubmissions(ctx context.Context, repo repository.SubmissionRepository, f repository.SubmissionFilter) iter.Seq2[model.Submission, error] {
	return func(yield func(model.Submission, error) bool) {
		var after *repository.Cursor
		for {
			batch, err := repo.ListAfter(ctx, f, after, iterateBatchSize)
			if err != nil {
				yield(model.Submission{}, err)
				return
			}
			for _, sub := range batch {
				if !yield(sub, nil) {
					return
				}
			}
			if len(batch) < iterateBatchSize {
				return
			}
			last := batch[len(batch)-1]
			after = &repository.Cursor{CreatedAt: last.CreatedAt, ID: last.SubmissionID}
		}
	}
}

// ────────────────────── UpdateFields ──────────────────────

func (s *submissionService) UpdateFields(ctx context.Context, actor authz.Actor, id string, req *dto.UpdateSubmissionRequest) (*dto.SubmissionResponse, error) {
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, authz.ActionAnnotate, sub.ModuleType); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{}, 3)
	if req.ReviewerNotes != nil {
		fields["reviewer_notes"] = *req.ReviewerNotes
	}
	if req.Attachments != nil {
		fields["attachments"] = model.StringArray(*req.Attachments)
	}
	if req.FormData != nil {
		if err := s.forms.Validate(sub.ModuleType, req.FormData); err != nil {
			return nil, err
		}
		fields["form_data"] = req.FormData
	}
	if len(fields) == 0 {
		return toSubmissionResponse(s.policy, actor, sub), nil
	}

	if err := s.repo.Submission.UpdateFields(ctx, id, sub.Version, fields); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("update submission failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	s.audit.Record(ctx, actor, model.AuditUpdateSubmission, model.EntitySubmission, id, strings.Join(names, ","))

	return s.Get(ctx, actor, id)
}

// ────────────────────── Transition ──────────────────────

func (s *submissionService) Transition(ctx context.Context, actor authz.Actor, id string, req *dto.TransitionRequest) (*dto.SubmissionResponse, error) {
	sub, err := s.transition(ctx, actor, id, model.SubmissionStatus(req.Status), req.Notes)
	if err != nil {
		return nil, err
	}
	return toSubmissionResponse(s.policy, actor, sub), nil
}

func (s *submissionService) TransitionMany(ctx context.Context, actor authz.Actor, req *dto.BulkTransitionRequest) []BulkOutcome {
	out := make([]BulkOutcome, 0, len(req.SubmissionIDs))
	for _, id := range req.SubmissionIDs {
		o := BulkOutcome{SubmissionID: id}
		sub, err := s.transition(ctx, actor, id, model.SubmissionStatus(req.Status), req.Notes)
		if err != nil {
			o.Err = err
		} else {
			o.Status = sub.Status
		}
		out = append(out, o)
	}
	return out
}

func (s *submissionService) transition(ctx context.Context, actor authz.Actor, id string, target model.SubmissionStatus, notes *string) (*model.Submission, error) {
	// 1. target must be a known status
	if !target.IsValid() {
		verr := pkgerrors.NewValidationError()
		verr.Add("status", "unknown status")
		return nil, verr
	}

	// 2. load + authorise
	sub, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, authz.TransitionTo(target), sub.ModuleType); err != nil {
		return nil, err
	}

	// 3. already there: no-op, no new history entry
	if sub.Status == target {
		return sub, nil
	}

	// 4. edge check
	from := sub.Status
	if target == model.StatusAssigned {
		return nil, &pkgerrors.TransitionError{From: string(from), To: string(target), Reason: "only through slot assignment"}
	}
	if !from.CanTransitionTo(target) {
		return nil, &pkgerrors.TransitionError{From: string(from), To: string(target)}
	}

	// 5. apply; cancelling an assigned submission frees its seat in the same transaction
	entry := &model.StatusHistoryEntry{
		Status:    target,
		ChangedAt: time.Now().UTC(),
		ChangedBy: actor.ID,
	}
	fields := make(map[string]interface{}, 2)
	if notes != nil {
		entry.Notes = *notes
		fields["reviewer_notes"] = *notes
	}

	var releasedSlot string
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if from == model.StatusAssigned && target == model.StatusCancelled {
			slotID, err := releaseSeat(ctx, tx, id)
			if err != nil {
				return err
			}
			releasedSlot = slotID
			fields["assigned_slot_id"] = nil
		}
		return tx.Submission.UpdateStatus(ctx, sub, entry, fields)
	})
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("transition submission failed",
				zap.String("id", id), zap.String("from", string(from)), zap.String("to", string(target)), zap.Error(err))
		}
		return nil, err
	}
	if notes != nil {
		sub.ReviewerNotes = *notes
	}
	if releasedSlot != "" {
		sub.AssignedSlotID = nil
	}

	// 6. audit + event, after commit
	details := fmt.Sprintf("%s -> %s", from, target)
	if releasedSlot != "" {
		details += " (released slot " + releasedSlot + ")"
	}
	s.audit.Record(ctx, actor, model.TransitionAuditAction(target), model.EntitySubmission, id, details)

	e := event.New(event.TypeTransitioned, sub, from, actor.ID)
	e.SlotID = releasedSlot
	s.publisher.Publish(ctx, e)

	return sub, nil
}

// releaseSeat removes the submission's slot assignment, if any, and frees the seat.
func releaseSeat(ctx context.Context, tx *repository.Repository, submissionID string) (string, error) {
	a, err := tx.Slot.GetAssignmentBySubmission(ctx, submissionID)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}
	if _, err := tx.Slot.DeleteAssignment(ctx, a.SlotID, submissionID); err != nil {
		return "", err
	}
	if err := tx.Slot.Release(ctx, a.SlotID); err != nil {
		return "", err
	}
	return a.SlotID, nil
}

// ────────────────────── Stats ──────────────────────

func (s *submissionService) Stats(ctx context.Context, actor authz.Actor, moduleType string) (*dto.SubmissionStatsResponse, error) {
	modules := model.ModuleTypes
	if moduleType != "" {
		m := model.ModuleType(moduleType)
		if !m.IsValid() {
			verr := pkgerrors.NewValidationError()
			verr.Add("module_type", "unknown module type")
			return nil, verr
		}
		if err := s.policy.Authorize(actor, authz.ActionView, m); err != nil {
			return nil, err
		}
		modules = []model.ModuleType{m}
	} else {
		modules = s.policy.VisibleModules(actor)
		if len(modules) == 0 {
			return nil, s.policy.Authorize(actor, authz.ActionView, "")
		}
	}

	resp := &dto.SubmissionStatsResponse{
		ByStatus: make(map[string]int64),
		ByModule: make(map[string]int64),
	}
	for _, m := range modules {
		counts, err := s.repo.Submission.CountByStatus(ctx, m)
		if err != nil {
			s.logger.Error("count submissions failed", zap.String("module_type", string(m)), zap.Error(err))
			return nil, err
		}
		for st, n := range counts {
			resp.ByStatus[string(st)] += n
			resp.ByModule[string(m)] += n
			resp.Total += n
			switch st {
			case model.StatusSubmitted, model.StatusUnderReview:
				resp.Pending += n
			case model.StatusApproved:
				resp.Approved += n
			case model.StatusRejected:
				resp.Rejected += n
			}
		}
	}
	return resp, nil
}

func (s *submissionService) VolunteerStats(ctx context.Context) (*dto.VolunteerStatsResponse, error) {
	settings, err := s.repo.Settings.Get(ctx)
	if err != nil {
		s.logger.Error("load settings failed", zap.Error(err))
		return nil, err
	}

	resp := &dto.VolunteerStatsResponse{
		Marshals: dto.VolunteerRoleCount{Minimum: settings.VolunteerMarshalMinimum},
		Scorers:  dto.VolunteerRoleCount{Maximum: settings.VolunteerScorerMaximum},
	}
	for sub, err := range s.iterate(ctx, repository.SubmissionFilter{ModuleType: model.ModuleVolunteers}) {
		if err != nil {
			s.logger.Error("iterate volunteer submissions failed", zap.Error(err))
			return nil, err
		}
		if sub.Status == model.StatusRejected || sub.Status == model.StatusCancelled {
			continue
		}
		resp.Total++
		switch role := strings.ToLower(sub.FormData.String("role")); {
		case strings.Contains(role, "marshal"):
			resp.Marshals.Current++
		case strings.Contains(role, "scorer"):
			resp.Scorers.Current++
		}
	}
	return resp, nil
}

// ── response mapping ──

func toSubmissionResponse(p *authz.Policy, actor authz.Actor, sub *model.Submission) *dto.SubmissionResponse {
	allowed := make([]string, 0, 4)
	for _, next := range sub.Status.NextStatuses() {
		// assigned is reached through the slot engine, never a direct transition
		if next == model.StatusAssigned {
			continue
		}
		if p.Can(actor, authz.TransitionTo(next), sub.ModuleType) {
			allowed = append(allowed, string(next))
		}
	}

	history := make([]dto.StatusHistoryResponse, 0, len(sub.StatusHistory))
	for _, h := range sub.StatusHistory {
		history = append(history, dto.StatusHistoryResponse{
			Status:    string(h.Status),
			ChangedAt: formatTime(h.ChangedAt),
			ChangedBy: h.ChangedBy,
			Notes:     h.Notes,
		})
	}

	attachments := []string(sub.Attachments)
	if attachments == nil {
		attachments = []string{}
	}

	return &dto.SubmissionResponse{
		ID:                    sub.SubmissionID,
		ModuleType:            string(sub.ModuleType),
		FormData:              sub.FormData,
		Attachments:           attachments,
		Status:                string(sub.Status),
		AllowedTransitions:    allowed,
		AssignedLocationID:    sub.AssignedLocationID,
		AssignedAccessLevelID: sub.AssignedAccessLevelID,
		AssignedSlotID:        sub.AssignedSlotID,
		ReviewerNotes:         sub.ReviewerNotes,
		Version:               sub.Version,
		StatusHistory:         history,
		CreatedAt:             formatTime(sub.CreatedAt),
		UpdatedAt:             formatTime(sub.UpdatedAt),
	}
}
