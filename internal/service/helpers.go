package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
)

// BulkOutcome is the per-item result of a bulk operation. Err is nil on success.
type BulkOutcome struct {
	SubmissionID string
	Status       model.SubmissionStatus
	Err          error
}

// systemActor records actions taken by the operator CLI.
var systemActor = authz.Actor{ID: "system", Role: authz.RoleAdmin, Status: authz.StatusApproved}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func pageSize(req *dto.PaginationRequest, max int) int {
	n := req.GetPageSize()
	if max > 0 && n > max {
		return max
	}
	return n
}

// canViewAny reports whether actor may read at least one module.
func canViewAny(p *authz.Policy, actor authz.Actor) bool {
	return p.Can(actor, authz.ActionView, "") || len(p.VisibleModules(actor)) > 0
}
