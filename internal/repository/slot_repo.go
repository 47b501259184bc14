package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

// SlotFilter narrows slot listings. From/To bound tee_date as [From, To).
type SlotFilter struct {
	ModuleType model.ModuleType
	From       *time.Time
	To         *time.Time
}

// SlotRepository slot and slot-assignment data access.
type SlotRepository interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id string) (*model.Slot, error)
	List(ctx context.Context, filter SlotFilter) ([]model.Slot, error)
	Update(ctx context.Context, slot *model.Slot) error
	DeleteIfEmpty(ctx context.Context, id string) (bool, error)

	// Reserve takes one seat if one is free; false means the slot is full or missing.
	Reserve(ctx context.Context, slotID string) (bool, error)
	Release(ctx context.Context, slotID string) error

	CreateAssignment(ctx context.Context, a *model.SlotAssignment) error
	GetAssignmentBySubmission(ctx context.Context, submissionID string) (*model.SlotAssignment, error)
	DeleteAssignment(ctx context.Context, slotID, submissionID string) (bool, error)
}

type slotRepo struct {
	db *gorm.DB
}

// NewSlotRepo creates a SlotRepository.
func NewSlotRepo(db *gorm.DB) SlotRepository {
	return &slotRepo{db: db}
}

func (r *slotRepo) Create(ctx context.Context, slot *model.Slot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *slotRepo) GetByID(ctx context.Context, id string) (*model.Slot, error) {
	var slot model.Slot
	err := r.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("assigned_at ASC, assignment_id ASC") }).
		Where("slot_id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepo) List(ctx context.Context, f SlotFilter) ([]model.Slot, error) {
	var slots []model.Slot
	db := r.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("assigned_at ASC, assignment_id ASC") })

	if f.ModuleType != "" {
		db = db.Where("module_type = ?", f.ModuleType)
	}
	if f.From != nil {
		db = db.Where("tee_date >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("tee_date < ?", *f.To)
	}

	err := db.Order("tee_date ASC, tee_time ASC, tee_number ASC, slot_id ASC").Find(&slots).Error
	return slots, err
}

// Update writes the editable columns guarded by the version column. Capacity
// may not drop below the live occupied count.
func (r *slotRepo) Update(ctx context.Context, slot *model.Slot) error {
	oldVersion := slot.Version
	result := r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("slot_id = ? AND version = ? AND occupied <= ?", slot.SlotID, oldVersion, slot.Capacity).
		Updates(map[string]interface{}{
			"module_type":  slot.ModuleType,
			"resource_tag": slot.ResourceTag,
			"tee_date":     slot.TeeDate,
			"tee_time":     slot.TeeTime,
			"tee_number":   slot.TeeNumber,
			"wave":         slot.Wave,
			"capacity":     slot.Capacity,
			"version":      oldVersion + 1,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	slot.Version = oldVersion + 1
	return nil
}

// DeleteIfEmpty removes an unoccupied slot. It reports false when the slot
// still has occupants or does not exist.
func (r *slotRepo) DeleteIfEmpty(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("slot_id = ? AND occupied = 0", id).
		Delete(&model.Slot{})
	return result.RowsAffected == 1, result.Error
}

// Reserve is a conditional increment: concurrent callers serialise on the row
// and the first to commit wins the last seat.
func (r *slotRepo) Reserve(ctx context.Context, slotID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("slot_id = ? AND occupied < capacity", slotID).
		Updates(map[string]interface{}{
			"occupied":   gorm.Expr("occupied + 1"),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *slotRepo) Release(ctx context.Context, slotID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Slot{}).
		Where("slot_id = ? AND occupied > 0", slotID).
		Updates(map[string]interface{}{
			"occupied":   gorm.Expr("occupied - 1"),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *slotRepo) CreateAssignment(ctx context.Context, a *model.SlotAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *slotRepo) GetAssignmentBySubmission(ctx context.Context, submissionID string) (*model.SlotAssignment, error) {
	var a model.SlotAssignment
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *slotRepo) DeleteAssignment(ctx context.Context, slotID, submissionID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("slot_id = ? AND submission_id = ?", slotID, submissionID).
		Delete(&model.SlotAssignment{})
	return result.RowsAffected == 1, result.Error
}
