package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

func TestSettingsService_DefaultsAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.svc.Settings.Get(ctx)
	require.NoError(t, err)
	assert.True(t, got.RegistrationOpen)
	assert.Equal(t, 3, got.DefaultSlotCapacity)

	updated, err := f.svc.Settings.Update(ctx, webmaster, &dto.UpdateSettingsRequest{
		DefaultSlotCapacity: intPtr(4),
		TournamentDate:      strPtr("2026-02-19"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.DefaultSlotCapacity)
	assert.Equal(t, "2026-02-19", updated.TournamentDate)

	got, err = f.svc.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, got.DefaultSlotCapacity)

	_, err = f.svc.Settings.Update(ctx, mediaOff, &dto.UpdateSettingsRequest{RegistrationOpen: boolPtr(false)})
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)

	_, err = f.svc.Settings.Update(ctx, admin, &dto.UpdateSettingsRequest{TournamentDate: strPtr("19 Feb")})
	assert.ErrorIs(t, err, pkgerrors.ErrValidation)

	assert.Equal(t, []string{model.AuditUpdateSettings}, f.auditActions(t, "tournament"))
}

func TestModuleService_PublicAndStaffListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Module.Create(ctx, admin, &dto.CreateModuleRequest{
		ModuleType: string(model.ModuleJobs), Name: "Careers", Slug: "Careers",
	})
	require.NoError(t, err)
	hidden, err := f.svc.Module.Create(ctx, webmaster, &dto.CreateModuleRequest{
		ModuleType: string(model.ModuleVendors), Name: "Vendor village", Slug: "vendors", IsPublic: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, hidden.IsPublic)

	_, err = f.svc.Module.Create(ctx, admin, &dto.CreateModuleRequest{
		ModuleType: string(model.ModuleJobs), Name: "Careers again", Slug: "careers",
	})
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = f.svc.Module.Create(ctx, admin, &dto.CreateModuleRequest{
		ModuleType: "catering", Name: "Food", Slug: "a b",
	})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "module_type")
	assert.Contains(t, fields, "slug")

	public, err := f.svc.Module.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "careers", public[0].Slug)

	all, err := f.svc.Module.List(ctx, viewer)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.Module.Update(ctx, mediaOff, hidden.ID, &dto.UpdateModuleRequest{IsPublic: boolPtr(true)})
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)
}
