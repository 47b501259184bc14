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

func namedVolunteer(first, role string) model.FormData {
	form := volunteerForm(role)
	form.Set("first_name", first)
	return form
}

func TestAttendanceService_MarkOverwritesSameDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.approved(t, model.ModuleVolunteers, volunteerForm("marshal"))

	first, err := f.svc.Attendance.Mark(ctx, areaSup, &dto.MarkAttendanceRequest{
		SubmissionID: id, Date: "2026-02-19", Status: "present",
	})
	require.NoError(t, err)
	assert.Equal(t, "present", first.Status)
	assert.Equal(t, "2026-02-19", first.Date)
	assert.Equal(t, areaSup.ID, first.RecordedBy)

	second, err := f.svc.Attendance.Mark(ctx, admin, &dto.MarkAttendanceRequest{
		SubmissionID: id, Date: "2026-02-19", Status: "late", Notes: " gate 3 queue ",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "late", second.Status)
	assert.Equal(t, "gate 3 queue", second.Notes)
	assert.Equal(t, admin.ID, second.RecordedBy)

	_, err = f.svc.Attendance.Mark(ctx, admin, &dto.MarkAttendanceRequest{
		SubmissionID: id, Date: "2026-02-20", Status: "absent",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		model.AuditCreateSubmission, model.AuditApproveSubmission,
		model.AuditMarkAttendance, model.AuditMarkAttendance, model.AuditMarkAttendance,
	}, f.auditActions(t, id))
}

func TestAttendanceService_MarkRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	volunteer := f.approved(t, model.ModuleVolunteers, volunteerForm("marshal"))
	pending := f.submit(t, model.ModuleVolunteers, volunteerForm("scorer"))
	media := f.approved(t, model.ModuleMedia, mediaForm("P. Writer"))

	_, err := f.svc.Attendance.Mark(ctx, admin, &dto.MarkAttendanceRequest{SubmissionID: volunteer, Date: "19/02/2026", Status: "present"})
	assert.ErrorIs(t, err, pkgerrors.ErrValidation)

	_, err = f.svc.Attendance.Mark(ctx, admin, &dto.MarkAttendanceRequest{SubmissionID: volunteer, Date: "2026-02-19", Status: "sick"})
	assert.ErrorIs(t, err, pkgerrors.ErrValidation)

	_, err = f.svc.Attendance.Mark(ctx, admin, &dto.MarkAttendanceRequest{SubmissionID: model.NewID(), Date: "2026-02-19", Status: "present"})
	assert.ErrorIs(t, err, ErrSubmissionNotFound)

	_, err = f.svc.Attendance.Mark(ctx, viewer, &dto.MarkAttendanceRequest{SubmissionID: volunteer, Date: "2026-02-19", Status: "present"})
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)

	_, err = f.svc.Attendance.Mark(ctx, admin, &dto.MarkAttendanceRequest{SubmissionID: pending, Date: "2026-02-19", Status: "present"})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidState)

	_, err = f.svc.Attendance.Mark(ctx, admin, &dto.MarkAttendanceRequest{SubmissionID: media, Date: "2026-02-19", Status: "present"})
	assert.ErrorIs(t, err, ErrNotVolunteer)

	roster, err := f.svc.Attendance.Roster(ctx, admin, "2026-02-19")
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Empty(t, roster[0].Status)
}

func TestAttendanceService_Roster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	loc, err := f.svc.Reference.Create(ctx, admin, KindLocation, &dto.CreateReferenceRequest{Code: "h18", Name: "Hole 18"})
	require.NoError(t, err)

	amani := f.approved(t, model.ModuleVolunteers, namedVolunteer("Amani", "marshal"))
	wanjiru := f.approved(t, model.ModuleVolunteers, namedVolunteer("Wanjiru", "scorer"))
	f.submit(t, model.ModuleVolunteers, namedVolunteer("Pending", "marshal"))
	f.approved(t, model.ModuleMedia, mediaForm("P. Writer"))

	_, err = f.svc.Assignment.AssignResources(ctx, admin, wanjiru, &dto.AssignResourcesRequest{LocationID: &loc.ID})
	require.NoError(t, err)
	_, err = f.svc.Attendance.Mark(ctx, admin, &dto.MarkAttendanceRequest{SubmissionID: wanjiru, Date: "2026-02-19", Status: "late"})
	require.NoError(t, err)

	roster, err := f.svc.Attendance.Roster(ctx, areaSup, "2026-02-19")
	require.NoError(t, err)
	require.Len(t, roster, 2)

	assert.Equal(t, amani, roster[0].SubmissionID)
	assert.Equal(t, "Amani Otieno", roster[0].Name)
	assert.Equal(t, "marshal", roster[0].Role)
	assert.Empty(t, roster[0].Status)

	assert.Equal(t, wanjiru, roster[1].SubmissionID)
	assert.Equal(t, "Wanjiru Otieno", roster[1].Name)
	assert.Equal(t, "Hole 18", roster[1].AssignedLocation)
	assert.Equal(t, "late", roster[1].Status)
	assert.Equal(t, admin.ID, roster[1].RecordedBy)

	other, err := f.svc.Attendance.Roster(ctx, viewer, "2026-02-20")
	require.NoError(t, err)
	require.Len(t, other, 2)
	assert.Empty(t, other[1].Status)

	_, err = f.svc.Attendance.Roster(ctx, areaSup, "tomorrow")
	assert.ErrorIs(t, err, pkgerrors.ErrValidation)

	_, err = f.svc.Attendance.Roster(ctx, mediaOff, "2026-02-19")
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)
}
