package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/models"
)

func TestSlotAdd(t *testing.T) {
	f := newFixture(t)
	id, _ := f.dentist(models.DentistApproved)

	slot, err := f.svc.Slots.Add(f.ctx, id, "2025-06-01", "9:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", slot.SlotTime)
	assert.True(t, slot.IsAvailable)

	_, err = f.svc.Slots.Add(f.ctx, id, "2025-06-01", "09:30")
	assertKind(t, err, apperr.KindConflict, "This slot already exists")

	other, _ := f.dentist(models.DentistApproved)
	_, err = f.svc.Slots.Add(f.ctx, other, "2025-06-01", "09:30")
	assert.NoError(t, err, "another dentist may hold the same time")

	_, err = f.svc.Slots.Add(f.ctx, id, "2025-04-30", "09:30")
	assertKind(t, err, apperr.KindValidation, "Cannot add slots in the past")

	_, err = f.svc.Slots.Add(f.ctx, id, "2025-05-01", "08:00")
	assert.NoError(t, err, "today is not in the past")

	_, err = f.svc.Slots.Add(f.ctx, id, "", "09:30")
	assertKind(t, err, apperr.KindValidation, "slot_date and slot_time are required")

	_, err = f.svc.Slots.Add(f.ctx, id, "01/06/2025", "09:30")
	assertKind(t, err, apperr.KindValidation, "")

	_, err = f.svc.Slots.Add(f.ctx, f.user(models.RoleDentist, "No Profile"), "2025-06-01", "09:30")
	assertKind(t, err, apperr.KindNotFound, "Dentist profile not found")
}

func TestSlotListing(t *testing.T) {
	f := newFixture(t)
	id, d := f.dentist(models.DentistApproved)
	patient := f.user(models.RolePatient, "Pat")

	f.slot(d.ID, "2025-04-01", "10:00") // past
	late := f.slot(d.ID, "2025-06-02", "09:00")
	early := f.slot(d.ID, "2025-06-01", "11:00")
	booked := f.slot(d.ID, "2025-06-01", "10:00")

	_, err := f.svc.Appointments.Book(f.ctx, patient, BookInput{DentistID: d.ID, Date: "2025-06-01", Time: "10:00", SlotID: &booked.ID})
	require.NoError(t, err)

	available, err := f.svc.Slots.ListAvailable(f.ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, early.ID, available[0].ID)
	assert.Equal(t, late.ID, available[1].ID)

	mine, err := f.svc.Slots.ListMine(f.ctx, id)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, booked.ID, mine[0].ID)
	assert.False(t, mine[0].IsAvailable)
	require.NotNil(t, mine[0].PatientName)
	assert.Equal(t, "Pat", *mine[0].PatientName)
	assert.Nil(t, mine[1].AppointmentID)

	_, err = f.svc.Slots.ListMine(f.ctx, patient)
	assertKind(t, err, apperr.KindNotFound, "Dentist profile not found")
}

func TestSlotDelete(t *testing.T) {
	f := newFixture(t)
	id, d := f.dentist(models.DentistApproved)
	otherID, _ := f.dentist(models.DentistApproved)
	patient := f.user(models.RolePatient, "Pat")

	free := f.slot(d.ID, "2025-06-01", "09:00")
	booked := f.slot(d.ID, "2025-06-01", "10:00")
	appt, err := f.svc.Appointments.Book(f.ctx, patient, BookInput{DentistID: d.ID, Date: "2025-06-01", Time: "10:00", SlotID: &booked.ID})
	require.NoError(t, err)

	err = f.svc.Slots.Delete(f.ctx, otherID, free.ID)
	assertKind(t, err, apperr.KindNotFound, "Slot not found")

	err = f.svc.Slots.Delete(f.ctx, id, booked.ID)
	assertKind(t, err, apperr.KindValidation, "Cannot delete a booked slot")

	require.NoError(t, f.svc.Slots.Delete(f.ctx, id, free.ID))

	require.NoError(t, f.svc.Appointments.Cancel(f.ctx, patient, appt.ID))
	assert.NoError(t, f.svc.Slots.Delete(f.ctx, id, booked.ID), "cancelled booking frees the slot")
}
