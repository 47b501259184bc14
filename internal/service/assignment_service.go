package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/now"
	"go.uber.org/zap"

	"github.com/t3ch-N/mAGICAL-clone-sub001/config"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/event"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

// ── assignment errors ──

var (
	ErrSlotNotFound        = pkgerrors.Kind(pkgerrors.ErrNotFound, "slot not found")
	ErrLocationNotFound    = pkgerrors.Kind(pkgerrors.ErrNotFound, "location not found")
	ErrAccessLevelNotFound = pkgerrors.Kind(pkgerrors.ErrNotFound, "access level not found")
	ErrSlotOccupied        = pkgerrors.Kind(pkgerrors.ErrReferenced, "slot still has assigned submissions")
	ErrCapacityBelowUsage  = pkgerrors.Kind(pkgerrors.ErrConflict, "capacity cannot be lower than the number of assigned submissions")
)

// resourceStatuses may carry location / access level references.
var resourceStatuses = map[model.SubmissionStatus]bool{
	model.StatusApproved: true,
	model.StatusAssigned: true,
	model.StatusActive:   true,
}

// AssignmentService administers slots and binds approved submissions to them.
type AssignmentService interface {
	CreateSlot(ctx context.Context, actor authz.Actor, req *dto.CreateSlotRequest) (*dto.SlotResponse, error)
	GetSlot(ctx context.Context, actor authz.Actor, id string) (*dto.SlotResponse, error)
	ListSlots(ctx context.Context, actor authz.Actor, req *dto.SlotListRequest) ([]dto.SlotResponse, error)
	UpdateSlot(ctx context.Context, actor authz.Actor, id string, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error)
	DeleteSlot(ctx context.Context, actor authz.Actor, id string) error

	Assign(ctx context.Context, actor authz.Actor, slotID, submissionID string) (*dto.SlotResponse, error)
	Unassign(ctx context.Context, actor authz.Actor, slotID, submissionID string) (*dto.SlotResponse, error)
	PublicTeeTimes(ctx context.Context, date string) ([]dto.PublicTeeTimeResponse, error)

	AssignResources(ctx context.Context, actor authz.Actor, id string, req *dto.AssignResourcesRequest) (*dto.SubmissionResponse, error)
	AssignResourcesMany(ctx context.Context, actor authz.Actor, req *dto.BulkAssignResourcesRequest) []BulkOutcome
}

type assignmentService struct {
	cfg       *config.Config
	repo      *repository.Repository
	policy    *authz.Policy
	audit     AuditService
	publisher event.Publisher
	logger    *zap.Logger
}

// NewAssignmentService creates an AssignmentService.
func NewAssignmentService(
	cfg *config.Config,
	repo *repository.Repository,
	policy *authz.Policy,
	audit AuditService,
	publisher event.Publisher,
	logger *zap.Logger,
) AssignmentService {
	return &assignmentService{
		cfg:       cfg,
		repo:      repo,
		policy:    policy,
		audit:     audit,
		publisher: publisher,
		logger:    logger,
	}
}

// ────────────────────── Slot CRUD ──────────────────────

func (s *assignmentService) CreateSlot(ctx context.Context, actor authz.Actor, req *dto.CreateSlotRequest) (*dto.SlotResponse, error) {
	module := model.ModuleType(req.ModuleType)
	verr := pkgerrors.NewValidationError()
	if module != "" && !module.IsValid() {
		verr.Add("module_type", "unknown module type")
	}
	teeDate, err := parseDate(req.TeeDate)
	if err != nil {
		verr.Add("tee_date", "must be YYYY-MM-DD")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, authz.ActionManageConfig, module); err != nil {
		return nil, err
	}

	capacity := req.Capacity
	if capacity <= 0 {
		capacity = s.defaultCapacity(ctx)
	}
	teeNumber := req.TeeNumber
	if teeNumber <= 0 {
		teeNumber = 1
	}

	slot := &model.Slot{
		ModuleType:  module,
		ResourceTag: req.ResourceTag,
		TeeDate:     teeDate,
		TeeTime:     req.TeeTime,
		TeeNumber:   teeNumber,
		Wave:        req.Wave,
		Capacity:    capacity,
	}
	slot.Version = 1

	if err := s.repo.Slot.Create(ctx, slot); err != nil {
		s.logger.Error("create slot failed", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, actor, model.AuditCreateSlot, model.EntitySlot, slot.SlotID,
		fmt.Sprintf("capacity=%d tag=%s", slot.Capacity, slot.ResourceTag))
	return toSlotResponse(slot), nil
}

func (s *assignmentService) defaultCapacity(ctx context.Context) int {
	settings, err := s.repo.Settings.Get(ctx)
	if err == nil && settings.DefaultSlotCapacity > 0 {
		return settings.DefaultSlotCapacity
	}
	if err != nil {
		s.logger.Warn("load settings failed, using configured slot capacity", zap.Error(err))
	}
	return s.cfg.Accreditation.DefaultSlotCapacity
}

func (s *assignmentService) loadSlot(ctx context.Context, id string) (*model.Slot, error) {
	slot, err := s.repo.Slot.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("load slot failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return slot, nil
}

func (s *assignmentService) GetSlot(ctx context.Context, actor authz.Actor, id string) (*dto.SlotResponse, error) {
	slot, err := s.loadSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, authz.ActionView, slot.ModuleType); err != nil {
		return nil, err
	}
	return toSlotResponse(slot), nil
}

func (s *assignmentService) ListSlots(ctx context.Context, actor authz.Actor, req *dto.SlotListRequest) ([]dto.SlotResponse, error) {
	f, err := slotFilter(req.ModuleType, req.Date)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, authz.ActionView, f.ModuleType); err != nil {
		return nil, err
	}

	slots, err := s.repo.Slot.List(ctx, f)
	if err != nil {
		s.logger.Error("list slots failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *toSlotResponse(&slots[i]))
	}
	return result, nil
}

// slotFilter builds a filter for one tee-sheet day.
func slotFilter(moduleType, date string) (repository.SlotFilter, error) {
	var f repository.SlotFilter
	verr := pkgerrors.NewValidationError()
	if moduleType != "" && !model.ModuleType(moduleType).IsValid() {
		verr.Add("module_type", "unknown module type")
	}
	day, err := parseDate(date)
	if err != nil {
		verr.Add("date", "must be YYYY-MM-DD")
	}
	if err := verr.OrNil(); err != nil {
		return f, err
	}

	f.ModuleType = model.ModuleType(moduleType)
	if day != nil {
		from := now.With(*day).BeginningOfDay()
		to := from.AddDate(0, 0, 1)
		f.From, f.To = &from, &to
	}
	return f, nil
}

func (s *assignmentService) UpdateSlot(ctx context.Context, actor authz.Actor, id string, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error) {
	slot, err := s.loadSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, authz.ActionManageConfig, slot.ModuleType); err != nil {
		return nil, err
	}

	verr := pkgerrors.NewValidationError()
	if req.ModuleType != nil {
		module := model.ModuleType(*req.ModuleType)
		if module != "" && !module.IsValid() {
			verr.Add("module_type", "unknown module type")
		} else if module != slot.ModuleType {
			if len(slot.Assignments) > 0 {
				return nil, pkgerrors.Kind(pkgerrors.ErrConflict, "cannot change the module of an occupied slot")
			}
			if err := s.policy.Authorize(actor, authz.ActionManageConfig, module); err != nil {
				return nil, err
			}
			slot.ModuleType = module
		}
	}
	if req.TeeDate != nil {
		d, err := parseDate(*req.TeeDate)
		if err != nil {
			verr.Add("tee_date", "must be YYYY-MM-DD")
		}
		slot.TeeDate = d
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if req.ResourceTag != nil {
		slot.ResourceTag = *req.ResourceTag
	}
	if req.TeeTime != nil {
		slot.TeeTime = *req.TeeTime
	}
	if req.TeeNumber != nil {
		slot.TeeNumber = *req.TeeNumber
	}
	if req.Wave != nil {
		slot.Wave = *req.Wave
	}
	if req.Capacity != nil {
		if *req.Capacity < slot.Occupied {
			return nil, ErrCapacityBelowUsage
		}
		slot.Capacity = *req.Capacity
	}

	if err := s.repo.Slot.Update(ctx, slot); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("update slot failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, actor, model.AuditUpdateSlot, model.EntitySlot, id, fmt.Sprintf("capacity=%d", slot.Capacity))
	return s.GetSlot(ctx, actor, id)
}

func (s *assignmentService) DeleteSlot(ctx context.Context, actor authz.Actor, id string) error {
	slot, err := s.loadSlot(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.Authorize(actor, authz.ActionManageConfig, slot.ModuleType); err != nil {
		return err
	}
	if slot.Occupied > 0 {
		return ErrSlotOccupied
	}

	deleted, err := s.repo.Slot.DeleteIfEmpty(ctx, id)
	if err != nil {
		s.logger.Error("delete slot failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if !deleted {
		// filled between the read and the delete
		return ErrSlotOccupied
	}

	s.audit.Record(ctx, actor, model.AuditDeleteSlot, model.EntitySlot, id, "")
	return nil
}

// ────────────────────── Assign ──────────────────────

// Assign binds an approved submission to a slot. The seat reservation, the
// assignment row and the approved → assigned status change commit together.
func (s *assignmentService) Assign(ctx context.Context, actor authz.Actor, slotID, submissionID string) (*dto.SlotResponse, error) {
	// 1. both ends must exist
	sub, err := s.repo.Submission.GetByID(ctx, submissionID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("load submission failed", zap.String("id", submissionID), zap.Error(err))
		return nil, err
	}
	slot, err := s.loadSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	// 2. authorise against the submission's module
	if err := s.policy.Authorize(actor, authz.ActionAssign, sub.ModuleType); err != nil {
		return nil, err
	}

	// 3. preconditions
	existing, err := s.repo.Slot.GetAssignmentBySubmission(ctx, submissionID)
	if err == nil {
		return nil, pkgerrors.Kind(pkgerrors.ErrAlreadyAssigned,
			fmt.Sprintf("submission %s already holds a seat in slot %s", submissionID, existing.SlotID))
	}
	if !isNotFound(err) {
		s.logger.Error("load slot assignment failed", zap.String("submission_id", submissionID), zap.Error(err))
		return nil, err
	}
	if sub.Status != model.StatusApproved {
		return nil, pkgerrors.Kind(pkgerrors.ErrInvalidState,
			fmt.Sprintf("submission is %s; only approved submissions can be assigned", sub.Status))
	}
	if slot.ModuleType != "" && slot.ModuleType != sub.ModuleType {
		return nil, pkgerrors.Kind(pkgerrors.ErrInvalidState,
			fmt.Sprintf("slot is reserved for %s, submission is %s", slot.ModuleType, sub.ModuleType))
	}

	// 4. reserve + bind + transition, all or nothing
	at := time.Now().UTC()
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		ok, err := tx.Slot.Reserve(ctx, slotID)
		if err != nil {
			return err
		}
		if !ok {
			return &pkgerrors.SlotFullError{SlotID: slotID, Capacity: slot.Capacity}
		}

		if err := tx.Slot.CreateAssignment(ctx, &model.SlotAssignment{
			SlotID:       slotID,
			SubmissionID: submissionID,
			AssignedBy:   actor.ID,
			AssignedAt:   at,
		}); err != nil {
			if isDuplicate(err) {
				return pkgerrors.Kind(pkgerrors.ErrAlreadyAssigned, "submission already holds a seat")
			}
			return err
		}

		entry := &model.StatusHistoryEntry{Status: model.StatusAssigned, ChangedAt: at, ChangedBy: actor.ID}
		return tx.Submission.UpdateStatus(ctx, sub, entry, map[string]interface{}{"assigned_slot_id": slotID})
	})
	if err != nil {
		if !isAssignmentConflict(err) {
			s.logger.Error("assign slot failed",
				zap.String("slot_id", slotID), zap.String("submission_id", submissionID), zap.Error(err))
		}
		return nil, err
	}
	sub.AssignedSlotID = &slotID

	// 5. audit + event, after commit
	s.audit.Record(ctx, actor, model.AuditAssignSlot, model.EntitySubmission, submissionID, "slot="+slotID)
	s.publisher.Publish(ctx, event.New(event.TypeAssigned, sub, model.StatusApproved, actor.ID))

	return s.slotResponse(ctx, slotID)
}

// ────────────────────── Unassign ──────────────────────

// Unassign frees the submission's seat and reverts it to approved.
func (s *assignmentService) Unassign(ctx context.Context, actor authz.Actor, slotID, submissionID string) (*dto.SlotResponse, error) {
	sub, err := s.repo.Submission.GetByID(ctx, submissionID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("load submission failed", zap.String("id", submissionID), zap.Error(err))
		return nil, err
	}
	if _, err := s.loadSlot(ctx, slotID); err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, authz.ActionAssign, sub.ModuleType); err != nil {
		return nil, err
	}

	notAssigned := pkgerrors.Kind(pkgerrors.ErrNotAssigned,
		fmt.Sprintf("submission %s is not assigned to slot %s", submissionID, slotID))
	a, err := s.repo.Slot.GetAssignmentBySubmission(ctx, submissionID)
	if err != nil {
		if isNotFound(err) {
			return nil, notAssigned
		}
		s.logger.Error("load slot assignment failed", zap.String("submission_id", submissionID), zap.Error(err))
		return nil, err
	}
	if a.SlotID != slotID {
		return nil, notAssigned
	}
	if sub.Status != model.StatusAssigned {
		return nil, pkgerrors.Kind(pkgerrors.ErrInvalidState,
			fmt.Sprintf("submission is %s; only assigned submissions can be unassigned", sub.Status))
	}

	at := time.Now().UTC()
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		removed, err := tx.Slot.DeleteAssignment(ctx, slotID, submissionID)
		if err != nil {
			return err
		}
		if !removed {
			return notAssigned
		}
		if err := tx.Slot.Release(ctx, slotID); err != nil {
			return err
		}
		entry := &model.StatusHistoryEntry{Status: model.StatusApproved, ChangedAt: at, ChangedBy: actor.ID, Notes: "unassigned from slot"}
		return tx.Submission.UpdateStatus(ctx, sub, entry, map[string]interface{}{"assigned_slot_id": nil})
	})
	if err != nil {
		if !isAssignmentConflict(err) {
			s.logger.Error("unassign slot failed",
				zap.String("slot_id", slotID), zap.String("submission_id", submissionID), zap.Error(err))
		}
		return nil, err
	}
	sub.AssignedSlotID = nil

	s.audit.Record(ctx, actor, model.AuditUnassignSlot, model.EntitySubmission, submissionID, "slot="+slotID)
	e := event.New(event.TypeUnassigned, sub, model.StatusAssigned, actor.ID)
	e.SlotID = slotID
	s.publisher.Publish(ctx, e)

	return s.slotResponse(ctx, slotID)
}

func (s *assignmentService) slotResponse(ctx context.Context, id string) (*dto.SlotResponse, error) {
	slot, err := s.loadSlot(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSlotResponse(slot), nil
}

func isAssignmentConflict(err error) bool {
	return errors.Is(err, pkgerrors.ErrSlotFull) ||
		errors.Is(err, pkgerrors.ErrAlreadyAssigned) ||
		errors.Is(err, pkgerrors.ErrNotAssigned) ||
		errors.Is(err, pkgerrors.ErrOptimisticLock)
}

// ────────────────────── Public tee sheet ──────────────────────

func (s *assignmentService) PublicTeeTimes(ctx context.Context, date string) ([]dto.PublicTeeTimeResponse, error) {
	f, err := slotFilter(string(model.ModuleProAm), date)
	if err != nil {
		return nil, err
	}
	slots, err := s.repo.Slot.List(ctx, f)
	if err != nil {
		s.logger.Error("list tee times failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PublicTeeTimeResponse, 0, len(slots))
	for i := range slots {
		result = append(result, dto.PublicTeeTimeResponse{
			ID:             slots[i].SlotID,
			TeeDate:        formatDate(slots[i].TeeDate),
			TeeTime:        slots[i].TeeTime,
			TeeNumber:      slots[i].TeeNumber,
			Professional:   slots[i].ResourceTag,
			AvailableSpots: slots[i].Available(),
			BookedSpots:    slots[i].Occupied,
		})
	}
	return result, nil
}

// ────────────────────── Resources ──────────────────────

func (s *assignmentService) AssignResources(ctx context.Context, actor authz.Actor, id string, req *dto.AssignResourcesRequest) (*dto.SubmissionResponse, error) {
	sub, err := s.assignResources(ctx, actor, id, req)
	if err != nil {
		return nil, err
	}
	return toSubmissionResponse(s.policy, actor, sub), nil
}

func (s *assignmentService) AssignResourcesMany(ctx context.Context, actor authz.Actor, req *dto.BulkAssignResourcesRequest) []BulkOutcome {
	out := make([]BulkOutcome, 0, len(req.SubmissionIDs))
	for _, id := range req.SubmissionIDs {
		o := BulkOutcome{SubmissionID: id}
		sub, err := s.assignResources(ctx, actor, id, &req.AssignResourcesRequest)
		if err != nil {
			o.Err = err
		} else {
			o.Status = sub.Status
		}
		out = append(out, o)
	}
	return out
}

// assignResources sets or clears (empty string) the location and access level references.
func (s *assignmentService) assignResources(ctx context.Context, actor authz.Actor, id string, req *dto.AssignResourcesRequest) (*model.Submission, error) {
	if req.LocationID == nil && req.AccessLevelID == nil {
		verr := pkgerrors.NewValidationError()
		verr.Add("location_id", "location_id or access_level_id is required")
		return nil, verr
	}

	sub, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("load submission failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if err := s.policy.Authorize(actor, authz.ActionAssign, sub.ModuleType); err != nil {
		return nil, err
	}
	if !resourceStatuses[sub.Status] {
		return nil, pkgerrors.Kind(pkgerrors.ErrInvalidState,
			fmt.Sprintf("submission is %s; resources can be assigned once approved", sub.Status))
	}

	fields := make(map[string]interface{}, 2)
	if req.LocationID != nil {
		ref, err := s.resolveRef(ctx, *req.LocationID, func(ctx context.Context, id string) error {
			_, err := s.repo.Location.GetByID(ctx, id)
			return err
		}, ErrLocationNotFound)
		if err != nil {
			return nil, err
		}
		fields["assigned_location_id"] = ref
		sub.AssignedLocationID = ref
	}
	if req.AccessLevelID != nil {
		ref, err := s.resolveRef(ctx, *req.AccessLevelID, func(ctx context.Context, id string) error {
			_, err := s.repo.AccessLevel.GetByID(ctx, id)
			return err
		}, ErrAccessLevelNotFound)
		if err != nil {
			return nil, err
		}
		fields["assigned_access_level_id"] = ref
		sub.AssignedAccessLevelID = ref
	}

	if err := s.repo.Submission.UpdateFields(ctx, id, sub.Version, fields); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("assign resources failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	sub.Version++

	s.audit.Record(ctx, actor, model.AuditAssignResources, model.EntitySubmission, id,
		fmt.Sprintf("location=%s access_level=%s", deref(sub.AssignedLocationID), deref(sub.AssignedAccessLevelID)))
	return sub, nil
}

// resolveRef returns nil for "" (clear) or the id after checking it exists.
func (s *assignmentService) resolveRef(ctx context.Context, id string, get func(context.Context, string) error, notFound error) (*string, error) {
	if id == "" {
		return nil, nil
	}
	if err := get(ctx, id); err != nil {
		if isNotFound(err) {
			return nil, notFound
		}
		return nil, err
	}
	return &id, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ── response mapping ──

func toSlotResponse(slot *model.Slot) *dto.SlotResponse {
	return &dto.SlotResponse{
		ID:          slot.SlotID,
		ModuleType:  string(slot.ModuleType),
		ResourceTag: slot.ResourceTag,
		TeeDate:     formatDate(slot.TeeDate),
		TeeTime:     slot.TeeTime,
		TeeNumber:   slot.TeeNumber,
		Wave:        slot.Wave,
		Capacity:    slot.Capacity,
		Occupied:    slot.Occupied,
		Available:   slot.Available(),
		OccupantIDs: slot.OccupantIDs(),
		Version:     slot.Version,
	}
}
