package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
)

// Repository aggregates every repository over one gorm handle.
type Repository struct {
	db *gorm.DB

	Submission  SubmissionRepository
	Slot        SlotRepository
	Location    ReferenceRepository[model.Location]
	Zone        ReferenceRepository[model.Zone]
	AccessLevel ReferenceRepository[model.AccessLevel]
	User        UserRepository
	AuditLog    AuditLogRepository
	Module      ModuleRepository
	Settings    SettingsRepository
	Attendance  AttendanceRepository
}

// NewRepository builds the aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		Submission:  NewSubmissionRepo(db),
		Slot:        NewSlotRepo(db),
		Location:    NewReferenceRepo[model.Location](db, "location_id"),
		Zone:        NewReferenceRepo[model.Zone](db, "zone_id"),
		AccessLevel: NewReferenceRepo[model.AccessLevel](db, "access_level_id"),
		User:        NewUserRepo(db),
		AuditLog:    NewAuditLogRepo(db),
		Module:      NewModuleRepo(db),
		Settings:    NewSettingsRepo(db),
		Attendance:  NewAttendanceRepo(db),
	}
}

// Transaction runs fn against a Repository bound to one database transaction.
// Returning an error from fn rolls everything back.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Models lists every table model, in dependency order.
func Models() []any {
	return []any{
		&model.User{},
		&model.Zone{},
		&model.Location{},
		&model.AccessLevel{},
		&model.Slot{},
		&model.Submission{},
		&model.StatusHistoryEntry{},
		&model.SlotAssignment{},
		&model.AuditLog{},
		&model.AccreditationModule{},
		&model.TournamentSettings{},
		&model.AttendanceRecord{},
	}
}

// AutoMigrate creates the schema from the models. Used for the sqlite driver
// and tests; postgres uses the embedded SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
