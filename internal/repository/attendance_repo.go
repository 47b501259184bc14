package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
)

// AttendanceRepository volunteer attendance data access.
type AttendanceRepository interface {
	// Upsert inserts the record or overwrites the one for the same submission and day.
	Upsert(ctx context.Context, rec *model.AttendanceRecord) error
	Get(ctx context.Context, submissionID, day string) (*model.AttendanceRecord, error)
	ListByDay(ctx context.Context, day string) ([]model.AttendanceRecord, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository.
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Upsert(ctx context.Context, rec *model.AttendanceRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "recorded_by", "updated_at"}),
		}).
		Create(rec).Error
}

func (r *attendanceRepo) Get(ctx context.Context, submissionID, day string) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("submission_id = ? AND day = ?", submissionID, day).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *attendanceRepo) ListByDay(ctx context.Context, day string) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("day = ?", day).
		Order("submission_id ASC").
		Find(&out).Error
	return out, err
}
