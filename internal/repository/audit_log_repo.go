package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
)

// AuditFilter narrows audit queries. Empty fields match everything.
type AuditFilter struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Since      *time.Time
	Until      *time.Time
}

// AuditLogRepository is append-only: there is no update or delete.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter, limit int) ([]model.AuditLog, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

// NewAuditLogRepo creates an AuditLogRepository.
func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns entries newest first. log_id is a UUIDv7 and breaks timestamp ties.
func (r *auditLogRepo) List(ctx context.Context, f AuditFilter, limit int) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	db := r.db.WithContext(ctx)

	if f.ActorID != "" {
		db = db.Where("actor_id = ?", f.ActorID)
	}
	if f.Action != "" {
		db = db.Where("action = ?", f.Action)
	}
	if f.EntityType != "" {
		db = db.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		db = db.Where("entity_id = ?", f.EntityID)
	}
	if f.Since != nil {
		db = db.Where("created_at >= ?", *f.Since)
	}
	if f.Until != nil {
		db = db.Where("created_at < ?", *f.Until)
	}

	err := db.Order("created_at DESC, log_id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
