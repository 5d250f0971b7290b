package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/dentist-platform/internal/models"
)

// testBookingConstraints checks the uniqueness, locking and cascade rules
// every supported database must enforce.
func testBookingConstraints(t *testing.T, s *GormStore) {
	t.Helper()
	ctx := context.Background()

	du := &models.User{Name: "Dr A", Email: "dr@example.com", Password: "x", Role: models.RoleDentist}
	require.NoError(t, s.CreateUser(ctx, du))
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Name: "Dup", Email: "dr@example.com", Password: "x", Role: models.RolePatient}), ErrDuplicate)

	d := &models.Dentist{
		UserID: du.ID, Qualification: "DDS", Experience: 5, ClinicName: "Smile", ClinicAddress: "1 Main St",
		Fees: 50, Specialization: "General", Status: models.DentistApproved,
		ServicesOffered: []models.ServiceItem{{Category: "Cleaning", ServiceName: "Scaling", Fee: 30}},
	}
	require.NoError(t, s.CreateDentist(ctx, d))

	view, err := s.DentistView(ctx, d.ID, &d.Status)
	require.NoError(t, err)
	assert.Equal(t, "Dr A", view.Name)
	require.Len(t, view.ServicesOffered, 1)
	assert.Equal(t, "Scaling", view.ServicesOffered[0].ServiceName)

	pu := &models.User{Name: "Pat", Email: "pat@example.com", Password: "x", Role: models.RolePatient}
	require.NoError(t, s.CreateUser(ctx, pu))

	slot := &models.TimeSlot{DentistID: d.ID, SlotDate: "2099-01-01", SlotTime: "09:00", IsAvailable: true}
	require.NoError(t, s.CreateSlot(ctx, slot))
	dupSlot := *slot
	dupSlot.ID = 0
	assert.ErrorIs(t, s.CreateSlot(ctx, &dupSlot), ErrDuplicate)

	appt := &models.Appointment{PatientID: pu.ID, DentistID: d.ID, AppointmentDate: "2099-01-01", AppointmentTime: "09:00", Status: models.AppointmentPending}
	err = s.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.LockDentist(ctx, d.ID); err != nil {
			return err
		}
		if err := tx.CreateAppointment(ctx, appt); err != nil {
			return err
		}
		return tx.MarkSlotBooked(ctx, slot.ID, d.ID, slot.SlotDate, slot.SlotTime)
	})
	require.NoError(t, err)

	again := &models.Appointment{PatientID: pu.ID, DentistID: d.ID, AppointmentDate: "2099-01-01", AppointmentTime: "09:00", Status: models.AppointmentPending}
	assert.ErrorIs(t, s.CreateAppointment(ctx, again), ErrDuplicate)

	views, err := s.ListSlotViews(ctx, d.ID, "2000-01-01")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].IsAvailable)
	require.NotNil(t, views[0].PatientEmail)
	assert.Equal(t, "pat@example.com", *views[0].PatientEmail)

	require.NoError(t, s.UpdateAppointmentStatus(ctx, appt.ID, models.AppointmentCancelled))
	again.ID = 0
	assert.NoError(t, s.CreateAppointment(ctx, again))

	require.NoError(t, s.DeleteUser(ctx, du.ID))
	_, err = s.DentistByID(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	n, err := s.CountAppointments(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
