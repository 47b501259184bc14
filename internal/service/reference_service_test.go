package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/dto"
	pkgerrors "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/errors"
)

func TestReferenceService_CreateNormalisesAndRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	zone, err := f.svc.Reference.Create(ctx, webmaster, KindZone, &dto.CreateReferenceRequest{
		Code: " back-9 ", Name: "Back nine", Type: "course",
	})
	require.NoError(t, err)
	assert.Equal(t, "BACK-9", zone.Code)
	assert.Equal(t, string(KindZone), zone.Kind)

	_, err = f.svc.Reference.Create(ctx, webmaster, KindZone, &dto.CreateReferenceRequest{Code: "back-9", Name: "Again"})
	assert.ErrorIs(t, err, ErrCodeTaken)
	assert.ErrorIs(t, err, pkgerrors.ErrConflict)

	_, err = f.svc.Reference.Create(ctx, webmaster, KindZone, &dto.CreateReferenceRequest{Code: "bad code!", Name: "Nope"})
	assert.ErrorIs(t, err, pkgerrors.ErrValidation)

	_, err = f.svc.Reference.Create(ctx, webmaster, KindLocation, &dto.CreateReferenceRequest{
		Code: "H10", Name: "Hole 10", ZoneID: strPtr("00000000-0000-0000-0000-000000000000"),
	})
	assert.ErrorIs(t, err, ErrZoneNotFound)

	_, err = f.svc.Reference.Create(ctx, webmaster, ReferenceKind("gate"), &dto.CreateReferenceRequest{Code: "G1", Name: "Gate"})
	assert.ErrorIs(t, err, pkgerrors.ErrNotFound)
}

func TestReferenceService_RequiresGlobalConfig(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Reference.Create(ctx, proAmCoor, KindZone, &dto.CreateReferenceRequest{Code: "Z1", Name: "Zone 1"})
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)

	_, err = f.svc.Reference.Create(ctx, admin, KindZone, &dto.CreateReferenceRequest{Code: "Z1", Name: "Zone 1"})
	require.NoError(t, err)

	list, err := f.svc.Reference.List(ctx, mediaOff, KindZone)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReferenceService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	zone, err := f.svc.Reference.Create(ctx, admin, KindZone, &dto.CreateReferenceRequest{Code: "FRONT", Name: "Front nine"})
	require.NoError(t, err)
	other, err := f.svc.Reference.Create(ctx, admin, KindLocation, &dto.CreateReferenceRequest{Code: "H1", Name: "Hole 1"})
	require.NoError(t, err)
	loc, err := f.svc.Reference.Create(ctx, admin, KindLocation, &dto.CreateReferenceRequest{Code: "H2", Name: "Hole 2"})
	require.NoError(t, err)

	updated, err := f.svc.Reference.Update(ctx, admin, KindLocation, loc.ID, &dto.UpdateReferenceRequest{
		Name: strPtr("Hole 2 green"), ZoneID: &zone.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hole 2 green", updated.Name)
	require.NotNil(t, updated.ZoneID)
	assert.Equal(t, zone.ID, *updated.ZoneID)

	_, err = f.svc.Reference.Update(ctx, admin, KindLocation, loc.ID, &dto.UpdateReferenceRequest{Code: strPtr(other.Code)})
	assert.ErrorIs(t, err, ErrCodeTaken)

	// the zone is referenced by a location
	err = f.svc.Reference.Delete(ctx, admin, KindZone, zone.ID)
	assert.ErrorIs(t, err, pkgerrors.ErrReferenced)

	require.NoError(t, f.svc.Reference.Delete(ctx, admin, KindLocation, loc.ID))
	require.NoError(t, f.svc.Reference.Delete(ctx, admin, KindZone, zone.ID))

	err = f.svc.Reference.Delete(ctx, admin, KindZone, zone.ID)
	assert.ErrorIs(t, err, ErrZoneNotFound)

	assert.Equal(t, []string{"create_reference", "update_reference", "delete_reference"}, f.auditActions(t, loc.ID))
}
