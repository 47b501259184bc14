package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

// ErrNotVolunteer attendance was marked on a non-volunteer submission.
var ErrNotVolunteer = pkgerrors.Kind(pkgerrors.ErrInvalidState, "attendance is only tracked for volunteers")

// rosterStatuses are the volunteer statuses expected on site.
var rosterStatuses = []model.SubmissionStatus{model.StatusApproved, model.StatusAssigned, model.StatusActive}

// AttendanceService tracks volunteer turnout per tournament day.
type AttendanceService interface {
	Mark(ctx context.Context, actor authz.Actor, req *dto.MarkAttendanceRequest) (*dto.AttendanceResponse, error)
	Roster(ctx context.Context, actor authz.Actor, date string) ([]dto.AttendanceRosterEntry, error)
}

type attendanceService struct {
	repo   *repository.Repository
	policy *authz.Policy
	audit  AuditService
	logger *zap.Logger
}

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(repo *repository.Repository, policy *authz.Policy, audit AuditService, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, policy: policy, audit: audit, logger: logger}
}

// Mark records present / late / absent for one volunteer on one day. Marking
// the same day again overwrites the earlier record.
func (s *attendanceService) Mark(ctx context.Context, actor authz.Actor, req *dto.MarkAttendanceRequest) (*dto.AttendanceResponse, error) {
	status := model.AttendanceStatus(req.Status)
	day, err := attendanceDay(req.Date)
	verr := pkgerrors.NewValidationError()
	if err != nil {
		verr.Add("date", "must be YYYY-MM-DD")
	}
	if !status.IsValid() {
		verr.Add("status", "must be present, late or absent")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	sub, err := s.repo.Submission.GetByID(ctx, req.SubmissionID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("load submission failed", zap.String("id", req.SubmissionID), zap.Error(err))
		return nil, err
	}
	if err := s.policy.Authorize(actor, authz.ActionAnnotate, sub.ModuleType); err != nil {
		return nil, err
	}
	if sub.ModuleType != model.ModuleVolunteers {
		return nil, ErrNotVolunteer
	}
	if !onRoster(sub.Status) {
		return nil, pkgerrors.Kind(pkgerrors.ErrInvalidState,
			fmt.Sprintf("submission is %s; attendance is recorded for approved, assigned or active volunteers", sub.Status))
	}

	rec := &model.AttendanceRecord{
		SubmissionID: sub.SubmissionID,
		Day:          day,
		Status:       status,
		Notes:        strings.TrimSpace(req.Notes),
		RecordedBy:   actor.ID,
	}
	if err := s.repo.Attendance.Upsert(ctx, rec); err != nil {
		s.logger.Error("mark attendance failed", zap.String("submission_id", sub.SubmissionID), zap.Error(err))
		return nil, err
	}
	stored, err := s.repo.Attendance.Get(ctx, sub.SubmissionID, day)
	if err != nil {
		s.logger.Error("reload attendance failed", zap.String("submission_id", sub.SubmissionID), zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, actor, model.AuditMarkAttendance, model.EntitySubmission, sub.SubmissionID,
		fmt.Sprintf("date=%s status=%s", day, status))
	return toAttendanceResponse(stored), nil
}

// Roster lists every volunteer expected on site with their mark for date,
// oldest registration first. Unmarked volunteers have an empty status.
func (s *attendanceService) Roster(ctx context.Context, actor authz.Actor, date string) ([]dto.AttendanceRosterEntry, error) {
	day, err := attendanceDay(date)
	if err != nil {
		verr := pkgerrors.NewValidationError()
		verr.Add("date", "must be YYYY-MM-DD")
		return nil, verr
	}
	if err := s.policy.Authorize(actor, authz.ActionView, model.ModuleVolunteers); err != nil {
		return nil, err
	}

	records, err := s.repo.Attendance.ListByDay(ctx, day)
	if err != nil {
		s.logger.Error("list attendance failed", zap.String("date", day), zap.Error(err))
		return nil, err
	}
	marks := make(map[string]*model.AttendanceRecord, len(records))
	for i := range records {
		marks[records[i].SubmissionID] = &records[i]
	}

	locations, err := s.locationNames(ctx)
	if err != nil {
		return nil, err
	}

	f := repository.SubmissionFilter{ModuleType: model.ModuleVolunteers, Statuses: rosterStatuses}
	roster := []dto.AttendanceRosterEntry{}
	for sub, err := range iterateSubmissions(ctx, s.repo.Submission, f) {
		if err != nil {
			s.logger.Error("list roster failed", zap.String("date", day), zap.Error(err))
			return nil, err
		}
		entry := dto.AttendanceRosterEntry{
			SubmissionID:     sub.SubmissionID,
			Name:             volunteerName(sub.FormData),
			Role:             sub.FormData.String("role"),
			SubmissionStatus: string(sub.Status),
			AssignedLocation: locations[deref(sub.AssignedLocationID)],
		}
		if rec := marks[sub.SubmissionID]; rec != nil {
			entry.Status = string(rec.Status)
			entry.Notes = rec.Notes
			entry.RecordedBy = rec.RecordedBy
		}
		roster = append(roster, entry)
	}

	slices.Reverse(roster)
	return roster, nil
}

func (s *attendanceService) locationNames(ctx context.Context) (map[string]string, error) {
	locs, err := s.repo.Location.List(ctx)
	if err != nil {
		s.logger.Error("list locations failed", zap.Error(err))
		return nil, err
	}
	names := make(map[string]string, len(locs))
	for _, l := range locs {
		names[l.LocationID] = l.Name
	}
	return names, nil
}

func onRoster(status model.SubmissionStatus) bool {
	return slices.Contains(rosterStatuses, status)
}

// attendanceDay normalises an ISO date.
func attendanceDay(s string) (string, error) {
	if s == "" {
		return "", errors.New("date is required")
	}
	t, err := parseDate(s)
	if err != nil {
		return "", err
	}
	return formatDate(t), nil
}

func volunteerName(form model.FormData) string {
	if name := form.String("full_name"); name != "" {
		return name
	}
	return strings.TrimSpace(form.String("first_name") + " " + form.String("last_name"))
}

func toAttendanceResponse(rec *model.AttendanceRecord) *dto.AttendanceResponse {
	return &dto.AttendanceResponse{
		ID:           rec.AttendanceID,
		SubmissionID: rec.SubmissionID,
		Date:         rec.Day,
		Status:       string(rec.Status),
		Notes:        rec.Notes,
		RecordedBy:   rec.RecordedBy,
		UpdatedAt:    formatTime(rec.UpdatedAt),
	}
}
