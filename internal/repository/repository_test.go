package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/testutil"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

func newSubmission(module model.ModuleType, createdAt time.Time) *model.Submission {
	return &model.Submission{
		ModuleType: module,
		FormData:   model.FormData{{Name: "full_name", Value: "J. Doe"}},
		Status:     model.StatusSubmitted,
		StatusHistory: []model.StatusHistoryEntry{
			{Seq: 1, Status: model.StatusSubmitted, ChangedAt: createdAt, ChangedBy: model.ActorPublic},
		},
		VersionedModel: model.VersionedModel{
			BaseModel: model.BaseModel{CreatedAt: createdAt, UpdatedAt: createdAt},
			Version:   1,
		},
	}
}

func TestSubmissionRepo_CreateAndGet(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()

	sub := newSubmission(model.ModuleProAm, time.Now().UTC())
	require.NoError(t, repo.Submission.Create(ctx, sub))
	require.NotEmpty(t, sub.SubmissionID)

	got, err := repo.Submission.GetByID(ctx, sub.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, got.Status)
	assert.Equal(t, "J. Doe", got.FormData.String("full_name"))
	require.Len(t, got.StatusHistory, 1)
	assert.Equal(t, model.ActorPublic, got.StatusHistory[0].ChangedBy)

	_, err = repo.Submission.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSubmissionRepo_UpdateStatusCompareAndSwap(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()

	sub := newSubmission(model.ModuleMedia, time.Now().UTC())
	require.NoError(t, repo.Submission.Create(ctx, sub))

	stale := *sub
	stale.StatusHistory = append([]model.StatusHistoryEntry(nil), sub.StatusHistory...)

	entry := &model.StatusHistoryEntry{Status: model.StatusUnderReview, ChangedAt: time.Now().UTC(), ChangedBy: "u1"}
	require.NoError(t, repo.Submission.UpdateStatus(ctx, sub, entry, nil))
	assert.Equal(t, 2, sub.Version)
	assert.Equal(t, 2, entry.Seq)

	again := &model.StatusHistoryEntry{Status: model.StatusApproved, ChangedAt: time.Now().UTC(), ChangedBy: "u2"}
	err := repo.Submission.UpdateStatus(ctx, &stale, again, nil)
	assert.ErrorIs(t, err, pkgerrors.ErrOptimisticLock)

	got, err := repo.Submission.GetByID(ctx, sub.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnderReview, got.Status)
	assert.Len(t, got.StatusHistory, 2)
	assert.Equal(t, got.Status, got.StatusHistory[len(got.StatusHistory)-1].Status)
}

func TestSubmissionRepo_KeysetOrderIsStable(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 7; i++ {
		// pairs share a timestamp so the id tie-break is exercised
		sub := newSubmission(model.ModuleVolunteers, base.Add(time.Duration(i/2)*time.Minute))
		require.NoError(t, repo.Submission.Create(ctx, sub))
		ids = append(ids, sub.SubmissionID)
	}

	var seen []string
	var cursor *repository.Cursor
	for {
		page, err := repo.Submission.ListAfter(ctx, repository.SubmissionFilter{}, cursor, 3)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, s := range page {
			seen = append(seen, s.SubmissionID)
		}
		last := page[len(page)-1]
		cursor = &repository.Cursor{CreatedAt: last.CreatedAt, ID: last.SubmissionID}
	}
	require.Len(t, seen, 7)

	all, total, err := repo.Submission.List(ctx, repository.SubmissionFilter{}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	for i := range all {
		assert.Equal(t, all[i].SubmissionID, seen[i])
	}
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}
}

func TestSubmissionRepo_Filters(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Submission.Create(ctx, newSubmission(model.ModuleMedia, now)))
	require.NoError(t, repo.Submission.Create(ctx, newSubmission(model.ModuleProAm, now)))
	require.NoError(t, repo.Submission.Create(ctx, newSubmission(model.ModuleProAm, now)))

	_, total, err := repo.Submission.List(ctx, repository.SubmissionFilter{ModuleType: model.ModuleProAm}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, total, err = repo.Submission.List(ctx, repository.SubmissionFilter{Modules: []model.ModuleType{model.ModuleMedia}}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	subs, total, err := repo.Submission.List(ctx, repository.SubmissionFilter{Modules: []model.ModuleType{}}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, subs)

	counts, err := repo.Submission.CountByStatus(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts[model.StatusSubmitted])
}

func TestSlotRepo_ReserveNeverExceedsCapacity(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()

	slot := &model.Slot{ModuleType: model.ModuleProAm, TeeTime: "07:30", TeeNumber: 1, Capacity: 2,
		VersionedModel: model.VersionedModel{Version: 1}}
	require.NoError(t, repo.Slot.Create(ctx, slot))

	for i, want := range []bool{true, true, false} {
		ok, err := repo.Slot.Reserve(ctx, slot.SlotID)
		require.NoError(t, err)
		assert.Equalf(t, want, ok, "reserve #%d", i+1)
	}

	got, err := repo.Slot.GetByID(ctx, slot.SlotID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Occupied)

	deleted, err := repo.Slot.DeleteIfEmpty(ctx, slot.SlotID)
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, repo.Slot.Release(ctx, slot.SlotID))
	require.NoError(t, repo.Slot.Release(ctx, slot.SlotID))
	assert.ErrorIs(t, repo.Slot.Release(ctx, slot.SlotID), pkgerrors.ErrOptimisticLock)

	deleted, err = repo.Slot.DeleteIfEmpty(ctx, slot.SlotID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestSlotRepo_AssignmentUniquePerSubmission(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()

	sub := newSubmission(model.ModuleProAm, time.Now().UTC())
	require.NoError(t, repo.Submission.Create(ctx, sub))
	a := &model.Slot{Capacity: 3, VersionedModel: model.VersionedModel{Version: 1}}
	b := &model.Slot{Capacity: 3, VersionedModel: model.VersionedModel{Version: 1}}
	require.NoError(t, repo.Slot.Create(ctx, a))
	require.NoError(t, repo.Slot.Create(ctx, b))

	require.NoError(t, repo.Slot.CreateAssignment(ctx, &model.SlotAssignment{SlotID: a.SlotID, SubmissionID: sub.SubmissionID, AssignedBy: "u1"}))
	err := repo.Slot.CreateAssignment(ctx, &model.SlotAssignment{SlotID: b.SlotID, SubmissionID: sub.SubmissionID, AssignedBy: "u1"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	removed, err := repo.Slot.DeleteAssignment(ctx, b.SlotID, sub.SubmissionID)
	require.NoError(t, err)
	assert.False(t, removed)
	removed, err = repo.Slot.DeleteAssignment(ctx, a.SlotID, sub.SubmissionID)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestSlotRepo_UpdateRefusesCapacityBelowOccupied(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()

	slot := &model.Slot{Capacity: 3, VersionedModel: model.VersionedModel{Version: 1}}
	require.NoError(t, repo.Slot.Create(ctx, slot))
	_, _ = repo.Slot.Reserve(ctx, slot.SlotID)
	_, _ = repo.Slot.Reserve(ctx, slot.SlotID)

	fresh, err := repo.Slot.GetByID(ctx, slot.SlotID)
	require.NoError(t, err)
	fresh.Capacity = 1
	assert.ErrorIs(t, repo.Slot.Update(ctx, fresh), pkgerrors.ErrOptimisticLock)

	fresh.Capacity = 4
	require.NoError(t, repo.Slot.Update(ctx, fresh))
}

func TestTransactionRollsBack(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()

	slot := &model.Slot{Capacity: 1, VersionedModel: model.VersionedModel{Version: 1}}
	require.NoError(t, repo.Slot.Create(ctx, slot))

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		ok, err := tx.Slot.Reserve(ctx, slot.SlotID)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.Slot.GetByID(ctx, slot.SlotID)
	require.NoError(t, err)
	assert.Zero(t, got.Occupied)
}

func TestReferenceRepo(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()

	zone := &model.Zone{Code: "NORTH", Name: "North course"}
	require.NoError(t, repo.Zone.Create(ctx, zone))
	zoneID := zone.ZoneID
	loc := &model.Location{Code: "H01", Name: "Hole 1", ZoneID: &zoneID}
	require.NoError(t, repo.Location.Create(ctx, loc))

	n, err := repo.Location.Count(ctx, "zone_id = ?", zone.ZoneID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.Location.GetByCode(ctx, "H01")
	require.NoError(t, err)
	assert.Equal(t, loc.LocationID, got.LocationID)

	require.NoError(t, repo.Location.Delete(ctx, loc.LocationID))
	assert.ErrorIs(t, repo.Location.Delete(ctx, loc.LocationID), gorm.ErrRecordNotFound)
}

func TestSchema_LocationReferencesZone(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewRepository(db)
	ctx := context.Background()

	ddl := func(table string) string {
		var sql string
		require.NoError(t, db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&sql).Error)
		require.NotEmpty(t, sql, table)
		return sql
	}
	assert.NotContains(t, ddl("zones"), "FOREIGN KEY")
	assert.Contains(t, ddl("locations"), "REFERENCES `zones`")

	zone := &model.Zone{Code: "SOUTH", Name: "South course"}
	require.NoError(t, repo.Zone.Create(ctx, zone))
	require.NoError(t, repo.Zone.Create(ctx, &model.Zone{Code: "WEST", Name: "West course"}))

	missing := model.NewID()
	assert.Error(t, repo.Location.Create(ctx, &model.Location{Code: "H99", Name: "Nowhere", ZoneID: &missing}))
	assert.NoError(t, repo.Location.Create(ctx, &model.Location{Code: "H02", Name: "Hole 2"}))
}

func TestAttendanceRepo_UpsertPerDay(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()

	sub := newSubmission(model.ModuleVolunteers, time.Now().UTC())
	require.NoError(t, repo.Submission.Create(ctx, sub))

	first := &model.AttendanceRecord{SubmissionID: sub.SubmissionID, Day: "2026-02-19", Status: model.AttendancePresent, RecordedBy: "u1"}
	require.NoError(t, repo.Attendance.Upsert(ctx, first))
	require.NoError(t, repo.Attendance.Upsert(ctx, &model.AttendanceRecord{
		SubmissionID: sub.SubmissionID, Day: "2026-02-19", Status: model.AttendanceAbsent, Notes: "no show", RecordedBy: "u2",
	}))
	require.NoError(t, repo.Attendance.Upsert(ctx, &model.AttendanceRecord{
		SubmissionID: sub.SubmissionID, Day: "2026-02-20", Status: model.AttendanceLate, RecordedBy: "u1",
	}))

	got, err := repo.Attendance.Get(ctx, sub.SubmissionID, "2026-02-19")
	require.NoError(t, err)
	assert.Equal(t, first.AttendanceID, got.AttendanceID)
	assert.Equal(t, model.AttendanceAbsent, got.Status)
	assert.Equal(t, "no show", got.Notes)
	assert.Equal(t, "u2", got.RecordedBy)

	day, err := repo.Attendance.ListByDay(ctx, "2026-02-19")
	require.NoError(t, err)
	assert.Len(t, day, 1)

	_, err = repo.Attendance.Get(ctx, sub.SubmissionID, "2026-02-21")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSubmissionRepo_FilterByStatuses(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()

	ts := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i, status := range []model.SubmissionStatus{model.StatusSubmitted, model.StatusApproved, model.StatusActive} {
		sub := newSubmission(model.ModuleVolunteers, ts.Add(time.Duration(i)*time.Minute))
		sub.Status = status
		require.NoError(t, repo.Submission.Create(ctx, sub))
	}

	subs, total, err := repo.Submission.List(ctx, repository.SubmissionFilter{
		Statuses: []model.SubmissionStatus{model.StatusApproved, model.StatusActive},
	}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, subs, 2)
	assert.Equal(t, model.StatusActive, subs[0].Status)
	assert.Equal(t, model.StatusApproved, subs[1].Status)
}

func TestAuditLogRepo_NewestFirst(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()

	ts := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i, action := range []string{"a", "b", "c"} {
		require.NoError(t, repo.AuditLog.Create(ctx, &model.AuditLog{
			CreatedAt: ts.Add(time.Duration(i) * time.Second), ActorID: "u1",
			Action: action, EntityType: model.EntitySubmission, EntityID: "s1",
		}))
	}
	require.NoError(t, repo.AuditLog.Create(ctx, &model.AuditLog{
		CreatedAt: ts, ActorID: "u2", Action: "d", EntityType: model.EntitySlot, EntityID: "x",
	}))

	entries, err := repo.AuditLog.List(ctx, repository.AuditFilter{ActorID: "u1"}, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Action)
	assert.Equal(t, "b", entries[1].Action)

	entries, err = repo.AuditLog.List(ctx, repository.AuditFilter{EntityType: model.EntitySlot}, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "d", entries[0].Action)
}

func TestSettingsRepo_DefaultsAndZeroValues(t *testing.T) {
	repo := repository.NewRepository(testutil.NewDB(t))
	ctx := context.Background()

	s, err := repo.Settings.Get(ctx)
	require.NoError(t, err)
	assert.True(t, s.RegistrationOpen)
	assert.Equal(t, 3, s.DefaultSlotCapacity)

	s.RegistrationOpen = false
	require.NoError(t, repo.Settings.Upsert(ctx, s))

	s, err = repo.Settings.Get(ctx)
	require.NoError(t, err)
	assert.False(t, s.RegistrationOpen)
}
