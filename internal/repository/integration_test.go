//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/database"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

// Run with:
//
//	TEST_DATABASE_DSN="host=localhost user=postgres dbname=mko_test sslmode=disable" \
//	  go test -tags integration ./internal/repository/...
var pgDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "TEST_DATABASE_DSN not set, skipping integration tests")
		os.Exit(0)
	}

	var err error
	pgDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect test database: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := pgDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "get sql.DB: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "run migrations: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func cleanupSlot(t *testing.T, slotID string) {
	t.Helper()
	t.Cleanup(func() {
		pgDB.Where("slot_id = ?", slotID).Delete(&model.SlotAssignment{})
		pgDB.Where("slot_id = ?", slotID).Delete(&model.Slot{})
	})
}

func cleanupSubmission(t *testing.T, id string) {
	t.Helper()
	t.Cleanup(func() {
		pgDB.Where("submission_id = ?", id).Delete(&model.SlotAssignment{})
		pgDB.Where("submission_id = ?", id).Delete(&model.StatusHistoryEntry{})
		pgDB.Where("submission_id = ?", id).Delete(&model.Submission{})
	})
}

// ═══════════════════════════════════════════════════════════
// Concurrent reservations
// ═══════════════════════════════════════════════════════════

func TestPostgres_ConcurrentReserveStopsAtCapacity(t *testing.T) {
	repo := repository.NewRepository(pgDB)
	ctx := context.Background()

	slot := &model.Slot{ModuleType: model.ModuleProAm, TeeTime: "07:30", TeeNumber: 1, Capacity: 3,
		VersionedModel: model.VersionedModel{Version: 1}}
	require.NoError(t, repo.Slot.Create(ctx, slot))
	cleanupSlot(t, slot.SlotID)

	const workers = 20
	var won atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Slot.Reserve(ctx, slot.SlotID)
			if err == nil && ok {
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 3, won.Load())

	got, err := repo.Slot.GetByID(ctx, slot.SlotID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Occupied)
}

func TestPostgres_ConcurrentAssignOneWinnerPerSubmission(t *testing.T) {
	repo := repository.NewRepository(pgDB)
	ctx := context.Background()

	now := time.Now().UTC()
	sub := newSubmission(model.ModuleProAm, now)
	require.NoError(t, repo.Submission.Create(ctx, sub))
	cleanupSubmission(t, sub.SubmissionID)

	slots := make([]*model.Slot, 4)
	for i := range slots {
		slots[i] = &model.Slot{ModuleType: model.ModuleProAm, Capacity: 3,
			VersionedModel: model.VersionedModel{Version: 1}}
		require.NoError(t, repo.Slot.Create(ctx, slots[i]))
		cleanupSlot(t, slots[i].SlotID)
	}

	var wg sync.WaitGroup
	var won atomic.Int32
	for _, s := range slots {
		wg.Add(1)
		go func(slotID string) {
			defer wg.Done()
			err := repo.Transaction(ctx, func(tx *repository.Repository) error {
				ok, err := tx.Slot.Reserve(ctx, slotID)
				if err != nil {
					return err
				}
				if !ok {
					return pkgerrors.ErrSlotFull
				}
				return tx.Slot.CreateAssignment(ctx, &model.SlotAssignment{
					SlotID: slotID, SubmissionID: sub.SubmissionID, AssignedBy: "u1",
				})
			})
			if err == nil {
				won.Add(1)
			}
		}(s.SlotID)
	}
	wg.Wait()

	assert.EqualValues(t, 1, won.Load())

	var total int
	for _, s := range slots {
		got, err := repo.Slot.GetByID(ctx, s.SlotID)
		require.NoError(t, err)
		total += got.Occupied
	}
	assert.Equal(t, 1, total, "losing transactions must roll their reservation back")
}

// ═══════════════════════════════════════════════════════════
// Status compare-and-swap
// ═══════════════════════════════════════════════════════════

func TestPostgres_ConcurrentStatusChangeSingleWinner(t *testing.T) {
	repo := repository.NewRepository(pgDB)
	ctx := context.Background()

	sub := newSubmission(model.ModuleMedia, time.Now().UTC())
	require.NoError(t, repo.Submission.Create(ctx, sub))
	cleanupSubmission(t, sub.SubmissionID)

	const workers = 8
	var won, locked atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			local := *sub
			local.StatusHistory = append([]model.StatusHistoryEntry(nil), sub.StatusHistory...)
			err := repo.Transaction(ctx, func(tx *repository.Repository) error {
				entry := &model.StatusHistoryEntry{
					Status:    model.StatusUnderReview,
					ChangedAt: time.Now().UTC(),
					ChangedBy: fmt.Sprintf("reviewer-%d", n),
				}
				return tx.Submission.UpdateStatus(ctx, &local, entry, nil)
			})
			switch {
			case err == nil:
				won.Add(1)
			case errors.Is(err, pkgerrors.ErrOptimisticLock):
				locked.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, won.Load())
	assert.EqualValues(t, workers-1, locked.Load())

	got, err := repo.Submission.GetByID(ctx, sub.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnderReview, got.Status)
	assert.Equal(t, 2, got.Version)
	require.Len(t, got.StatusHistory, 2)
	assert.Equal(t, 2, got.StatusHistory[1].Seq)
}
