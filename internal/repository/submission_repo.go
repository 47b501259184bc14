package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

// SubmissionFilter narrows listings. Empty fields match everything; Modules,
// when non-nil, restricts results to the listed modules. Statuses, when
// non-empty, matches any of the listed statuses.
type SubmissionFilter struct {
	ModuleType model.ModuleType
	Status     model.SubmissionStatus
	Statuses   []model.SubmissionStatus
	Modules    []model.ModuleType
}

// Cursor is a keyset position in the (created_at DESC, submission_id DESC) order.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// SubmissionRepository submission data access.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	List(ctx context.Context, filter SubmissionFilter, offset, limit int) ([]model.Submission, int64, error)
	ListAfter(ctx context.Context, filter SubmissionFilter, after *Cursor, limit int) ([]model.Submission, error)
	UpdateFields(ctx context.Context, id string, version int, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, sub *model.Submission, entry *model.StatusHistoryEntry, fields map[string]interface{}) error
	CountByStatus(ctx context.Context, moduleType model.ModuleType) (map[model.SubmissionStatus]int64, error)
	CountReferencing(ctx context.Context, column, id string) (int64, error)
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo creates a SubmissionRepository.
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

// Create inserts the submission together with its initial history rows.
func (r *submissionRepo) Create(ctx context.Context, sub *model.Submission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission
	err := r.db.WithContext(ctx).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Where("submission_id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) filtered(ctx context.Context, f SubmissionFilter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Submission{})
	if f.ModuleType != "" {
		db = db.Where("module_type = ?", f.ModuleType)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if len(f.Statuses) > 0 {
		db = db.Where("status IN ?", statusStrings(f.Statuses))
	}
	if f.Modules != nil {
		db = db.Where("module_type IN ?", moduleStrings(f.Modules))
	}
	return db
}

func (r *submissionRepo) List(ctx context.Context, f SubmissionFilter, offset, limit int) ([]model.Submission, int64, error) {
	var subs []model.Submission
	var total int64

	if f.Modules != nil && len(f.Modules) == 0 {
		return subs, 0, nil
	}
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.filtered(ctx, f).
		Order("created_at DESC, submission_id DESC").
		Offset(offset).Limit(limit).
		Find(&subs).Error
	return subs, total, err
}

func (r *submissionRepo) ListAfter(ctx context.Context, f SubmissionFilter, after *Cursor, limit int) ([]model.Submission, error) {
	var subs []model.Submission
	if f.Modules != nil && len(f.Modules) == 0 {
		return subs, nil
	}
	db := r.filtered(ctx, f)
	if after != nil {
		db = db.Where("created_at < ? OR (created_at = ? AND submission_id < ?)",
			after.CreatedAt, after.CreatedAt, after.ID)
	}
	err := db.Order("created_at DESC, submission_id DESC").Limit(limit).Find(&subs).Error
	return subs, err
}

// UpdateFields applies a non-status patch guarded by the version column.
func (r *submissionRepo) UpdateFields(ctx context.Context, id string, version int, fields map[string]interface{}) error {
	updates := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		updates[k] = v
	}
	updates["version"] = version + 1
	updates["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("submission_id = ? AND version = ?", id, version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

// UpdateStatus moves sub to entry.Status with a compare-and-swap on
// (status, version), then appends entry. fields carries extra columns that
// change with the status (e.g. assigned_slot_id, reviewer_notes). Run inside
// a transaction so the history row and the status change commit together.
func (r *submissionRepo) UpdateStatus(ctx context.Context, sub *model.Submission, entry *model.StatusHistoryEntry, fields map[string]interface{}) error {
	updates := map[string]interface{}{
		"status":     entry.Status,
		"version":    sub.Version + 1,
		"updated_at": entry.ChangedAt,
	}
	for k, v := range fields {
		updates[k] = v
	}

	result := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("submission_id = ? AND status = ? AND version = ?", sub.SubmissionID, sub.Status, sub.Version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}

	entry.SubmissionID = sub.SubmissionID
	entry.Seq = len(sub.StatusHistory) + 1
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}

	sub.Status = entry.Status
	sub.Version++
	sub.UpdatedAt = entry.ChangedAt
	sub.StatusHistory = append(sub.StatusHistory, *entry)
	return nil
}

func (r *submissionRepo) CountByStatus(ctx context.Context, moduleType model.ModuleType) (map[model.SubmissionStatus]int64, error) {
	var rows []struct {
		Status model.SubmissionStatus
		Count  int64
	}
	db := r.db.WithContext(ctx).Model(&model.Submission{}).Select("status, COUNT(*) AS count")
	if moduleType != "" {
		db = db.Where("module_type = ?", moduleType)
	}
	if err := db.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[model.SubmissionStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// CountReferencing counts submissions whose column equals id.
// column must be one of the assigned_* reference columns.
func (r *submissionRepo) CountReferencing(ctx context.Context, column, id string) (int64, error) {
	switch column {
	case "assigned_location_id", "assigned_access_level_id", "assigned_slot_id":
	default:
		return 0, pkgerrors.Kind(pkgerrors.ErrValidation, "unknown reference column "+column)
	}
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where(column+" = ?", id).
		Count(&n).Error
	return n, err
}

func moduleStrings(ms []model.ModuleType) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = string(m)
	}
	return out
}

func statusStrings(ss []model.SubmissionStatus) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}
