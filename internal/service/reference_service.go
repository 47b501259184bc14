package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

// ReferenceKind names one of the reference tables.
type ReferenceKind string

const (
	KindLocation    ReferenceKind = "location"
	KindZone        ReferenceKind = "zone"
	KindAccessLevel ReferenceKind = "access_level"
)

// ── reference data errors ──

var (
	ErrZoneNotFound = pkgerrors.Kind(pkgerrors.ErrNotFound, "zone not found")
	ErrCodeTaken    = pkgerrors.Kind(pkgerrors.ErrConflict, "code is already in use")
)

var codePattern = regexp.MustCompile(`^[A-Z0-9_-]{2,20}$`)

// ReferenceService manages zones, locations and access levels.
type ReferenceService interface {
	Create(ctx context.Context, actor authz.Actor, kind ReferenceKind, req *dto.CreateReferenceRequest) (*dto.ReferenceResponse, error)
	List(ctx context.Context, actor authz.Actor, kind ReferenceKind) ([]dto.ReferenceResponse, error)
	Update(ctx context.Context, actor authz.Actor, kind ReferenceKind, id string, req *dto.UpdateReferenceRequest) (*dto.ReferenceResponse, error)
	// Delete is rejected while anything still points at the entity.
	Delete(ctx context.Context, actor authz.Actor, kind ReferenceKind, id string) error
}

type referenceService struct {
	repo   *repository.Repository
	policy *authz.Policy
	audit  AuditService
	logger *zap.Logger
}

// NewReferenceService creates a ReferenceService.
func NewReferenceService(repo *repository.Repository, policy *authz.Policy, audit AuditService, logger *zap.Logger) ReferenceService {
	return &referenceService{
		repo:   repo,
		policy: policy,
		audit:  audit,
		logger: logger,
	}
}

// normalizeCode upper-cases and validates a reference code.
func normalizeCode(code string) (string, error) {
	c := cases.Upper(language.Und).String(strings.TrimSpace(code))
	if !codePattern.MatchString(c) {
		verr := pkgerrors.NewValidationError()
		verr.Add("code", "must be 2-20 characters of A-Z, 0-9, '_' or '-'")
		return "", verr
	}
	return c, nil
}

func unknownKind(kind ReferenceKind) error {
	return pkgerrors.Kind(pkgerrors.ErrNotFound, fmt.Sprintf("unknown reference kind %q", kind))
}

func entityType(kind ReferenceKind) string {
	switch kind {
	case KindLocation:
		return model.EntityLocation
	case KindZone:
		return model.EntityZone
	default:
		return model.EntityAccessLevel
	}
}

func notFoundFor(kind ReferenceKind) error {
	switch kind {
	case KindLocation:
		return ErrLocationNotFound
	case KindZone:
		return ErrZoneNotFound
	default:
		return ErrAccessLevelNotFound
	}
}

// ────────────────────── Create ──────────────────────

func (s *referenceService) Create(ctx context.Context, actor authz.Actor, kind ReferenceKind, req *dto.CreateReferenceRequest) (*dto.ReferenceResponse, error) {
	if err := s.policy.Authorize(actor, authz.ActionManageConfig, ""); err != nil {
		return nil, err
	}
	code, err := normalizeCode(req.Code)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	var resp *dto.ReferenceResponse
	switch kind {
	case KindZone:
		z := &model.Zone{Code: code, Name: name, ZoneType: req.Type}
		if err := createRef(ctx, s.repo.Zone, z, code); err != nil {
			return nil, s.wrap(err, "create zone")
		}
		resp = zoneResponse(z)
	case KindLocation:
		if err := s.checkZone(ctx, req.ZoneID); err != nil {
			return nil, err
		}
		l := &model.Location{Code: code, Name: name, LocationType: req.Type, ZoneID: emptyToNil(req.ZoneID)}
		if err := createRef(ctx, s.repo.Location, l, code); err != nil {
			return nil, s.wrap(err, "create location")
		}
		resp = locationResponse(l)
	case KindAccessLevel:
		a := &model.AccessLevel{Code: code, Name: name, Tier: req.Type}
		if err := createRef(ctx, s.repo.AccessLevel, a, code); err != nil {
			return nil, s.wrap(err, "create access level")
		}
		resp = accessLevelResponse(a)
	default:
		return nil, unknownKind(kind)
	}

	s.audit.Record(ctx, actor, model.AuditCreateReference, entityType(kind), resp.ID, resp.Code)
	return resp, nil
}

func createRef[T any](ctx context.Context, repo repository.ReferenceRepository[T], entity *T, code string) error {
	if _, err := repo.GetByCode(ctx, code); err == nil {
		return ErrCodeTaken
	} else if !isNotFound(err) {
		return err
	}
	if err := repo.Create(ctx, entity); err != nil {
		if isDuplicate(err) {
			return ErrCodeTaken
		}
		return err
	}
	return nil
}

// codeFree reports ErrCodeTaken when code belongs to an entity other than id.
func codeFree[T any](ctx context.Context, repo repository.ReferenceRepository[T], code string, owner func(*T) string, id string) error {
	existing, err := repo.GetByCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if owner(existing) != id {
		return ErrCodeTaken
	}
	return nil
}

func (s *referenceService) checkZone(ctx context.Context, zoneID *string) error {
	if zoneID == nil || *zoneID == "" {
		return nil
	}
	if _, err := s.repo.Zone.GetByID(ctx, *zoneID); err != nil {
		if isNotFound(err) {
			return ErrZoneNotFound
		}
		return err
	}
	return nil
}

func (s *referenceService) wrap(err error, op string) error {
	if isDuplicate(err) {
		return ErrCodeTaken
	}
	if !errors.Is(err, pkgerrors.ErrConflict) && !errors.Is(err, pkgerrors.ErrNotFound) {
		s.logger.Error(op+" failed", zap.Error(err))
	}
	return err
}

// ────────────────────── List ──────────────────────

func (s *referenceService) List(ctx context.Context, actor authz.Actor, kind ReferenceKind) ([]dto.ReferenceResponse, error) {
	if !canViewAny(s.policy, actor) {
		return nil, s.policy.Authorize(actor, authz.ActionView, "")
	}

	var result []dto.ReferenceResponse
	switch kind {
	case KindZone:
		zones, err := s.repo.Zone.List(ctx)
		if err != nil {
			return nil, s.wrap(err, "list zones")
		}
		result = make([]dto.ReferenceResponse, 0, len(zones))
		for i := range zones {
			result = append(result, *zoneResponse(&zones[i]))
		}
	case KindLocation:
		locs, err := s.repo.Location.List(ctx)
		if err != nil {
			return nil, s.wrap(err, "list locations")
		}
		result = make([]dto.ReferenceResponse, 0, len(locs))
		for i := range locs {
			result = append(result, *locationResponse(&locs[i]))
		}
	case KindAccessLevel:
		levels, err := s.repo.AccessLevel.List(ctx)
		if err != nil {
			return nil, s.wrap(err, "list access levels")
		}
		result = make([]dto.ReferenceResponse, 0, len(levels))
		for i := range levels {
			result = append(result, *accessLevelResponse(&levels[i]))
		}
	default:
		return nil, unknownKind(kind)
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *referenceService) Update(ctx context.Context, actor authz.Actor, kind ReferenceKind, id string, req *dto.UpdateReferenceRequest) (*dto.ReferenceResponse, error) {
	if err := s.policy.Authorize(actor, authz.ActionManageConfig, ""); err != nil {
		return nil, err
	}
	var code string
	if req.Code != nil {
		c, err := normalizeCode(*req.Code)
		if err != nil {
			return nil, err
		}
		code = c
	}

	var resp *dto.ReferenceResponse
	switch kind {
	case KindZone:
		z, err := s.repo.Zone.GetByID(ctx, id)
		if err != nil {
			return nil, s.notFoundOr(err, kind)
		}
		if code != "" {
			if err := codeFree(ctx, s.repo.Zone, code, func(z *model.Zone) string { return z.ZoneID }, id); err != nil {
				return nil, err
			}
			z.Code = code
		}
		if req.Name != nil {
			z.Name = strings.TrimSpace(*req.Name)
		}
		if req.Type != nil {
			z.ZoneType = *req.Type
		}
		if err := s.repo.Zone.Update(ctx, z); err != nil {
			return nil, s.wrap(err, "update zone")
		}
		resp = zoneResponse(z)
	case KindLocation:
		l, err := s.repo.Location.GetByID(ctx, id)
		if err != nil {
			return nil, s.notFoundOr(err, kind)
		}
		if code != "" {
			if err := codeFree(ctx, s.repo.Location, code, func(l *model.Location) string { return l.LocationID }, id); err != nil {
				return nil, err
			}
			l.Code = code
		}
		if req.Name != nil {
			l.Name = strings.TrimSpace(*req.Name)
		}
		if req.Type != nil {
			l.LocationType = *req.Type
		}
		if req.ZoneID != nil {
			if err := s.checkZone(ctx, req.ZoneID); err != nil {
				return nil, err
			}
			l.ZoneID = emptyToNil(req.ZoneID)
			l.Zone = nil
		}
		if err := s.repo.Location.Update(ctx, l); err != nil {
			return nil, s.wrap(err, "update location")
		}
		resp = locationResponse(l)
	case KindAccessLevel:
		a, err := s.repo.AccessLevel.GetByID(ctx, id)
		if err != nil {
			return nil, s.notFoundOr(err, kind)
		}
		if code != "" {
			if err := codeFree(ctx, s.repo.AccessLevel, code, func(a *model.AccessLevel) string { return a.AccessLevelID }, id); err != nil {
				return nil, err
			}
			a.Code = code
		}
		if req.Name != nil {
			a.Name = strings.TrimSpace(*req.Name)
		}
		if req.Type != nil {
			a.Tier = *req.Type
		}
		if err := s.repo.AccessLevel.Update(ctx, a); err != nil {
			return nil, s.wrap(err, "update access level")
		}
		resp = accessLevelResponse(a)
	default:
		return nil, unknownKind(kind)
	}

	s.audit.Record(ctx, actor, model.AuditUpdateReference, entityType(kind), id, resp.Code)
	return resp, nil
}

func (s *referenceService) notFoundOr(err error, kind ReferenceKind) error {
	if isNotFound(err) {
		return notFoundFor(kind)
	}
	s.logger.Error("load reference failed", zap.String("kind", string(kind)), zap.Error(err))
	return err
}

// ────────────────────── Delete ──────────────────────

func (s *referenceService) Delete(ctx context.Context, actor authz.Actor, kind ReferenceKind, id string) error {
	if err := s.policy.Authorize(actor, authz.ActionManageConfig, ""); err != nil {
		return err
	}

	var (
		refs  int64
		err   error
		label string
	)
	switch kind {
	case KindZone:
		if _, err := s.repo.Zone.GetByID(ctx, id); err != nil {
			return s.notFoundOr(err, kind)
		}
		refs, err = s.repo.Location.Count(ctx, "zone_id = ?", id)
		label = "locations"
	case KindLocation:
		if _, err := s.repo.Location.GetByID(ctx, id); err != nil {
			return s.notFoundOr(err, kind)
		}
		refs, err = s.repo.Submission.CountReferencing(ctx, "assigned_location_id", id)
		label = "submissions"
	case KindAccessLevel:
		if _, err := s.repo.AccessLevel.GetByID(ctx, id); err != nil {
			return s.notFoundOr(err, kind)
		}
		refs, err = s.repo.Submission.CountReferencing(ctx, "assigned_access_level_id", id)
		label = "submissions"
	default:
		return unknownKind(kind)
	}
	if err != nil {
		s.logger.Error("count references failed", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		return err
	}
	if refs > 0 {
		return pkgerrors.Kind(pkgerrors.ErrReferenced, fmt.Sprintf("%s is still referenced by %d %s", kind, refs, label))
	}

	switch kind {
	case KindZone:
		err = s.repo.Zone.Delete(ctx, id)
	case KindLocation:
		err = s.repo.Location.Delete(ctx, id)
	case KindAccessLevel:
		err = s.repo.AccessLevel.Delete(ctx, id)
	}
	if err != nil {
		return s.notFoundOr(err, kind)
	}

	s.audit.Record(ctx, actor, model.AuditDeleteReference, entityType(kind), id, "")
	return nil
}

// ── response mapping ──

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func zoneResponse(z *model.Zone) *dto.ReferenceResponse {
	return &dto.ReferenceResponse{
		ID:        z.ZoneID,
		Kind:      string(KindZone),
		Code:      z.Code,
		Name:      z.Name,
		Type:      z.ZoneType,
		CreatedAt: formatTime(z.CreatedAt),
		UpdatedAt: formatTime(z.UpdatedAt),
	}
}

func locationResponse(l *model.Location) *dto.ReferenceResponse {
	return &dto.ReferenceResponse{
		ID:        l.LocationID,
		Kind:      string(KindLocation),
		Code:      l.Code,
		Name:      l.Name,
		Type:      l.LocationType,
		ZoneID:    l.ZoneID,
		CreatedAt: formatTime(l.CreatedAt),
		UpdatedAt: formatTime(l.UpdatedAt),
	}
}

func accessLevelResponse(a *model.AccessLevel) *dto.ReferenceResponse {
	return &dto.ReferenceResponse{
		ID:        a.AccessLevelID,
		Kind:      string(KindAccessLevel),
		Code:      a.Code,
		Name:      a.Name,
		Type:      a.Tier,
		CreatedAt: formatTime(a.CreatedAt),
		UpdatedAt: formatTime(a.UpdatedAt),
	}
}
