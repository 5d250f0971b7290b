package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/dentist-platform/internal/apperr"
	"github.com/harentsoaR/dentist-platform/internal/models"
	"github.com/harentsoaR/dentist-platform/internal/store"
)

// AppointmentService is the booking ledger. Every write that touches both an
// appointment and a slot runs in one store transaction.
type AppointmentService struct {
	deps Deps
	log  *logrus.Entry
}

type BookInput struct {
	DentistID uint
	Date      string
	Time      string
	SlotID    *uint
	Notes     *string
}

var errSlotTaken = apperr.Conflict("This time slot is already booked")

func (s *AppointmentService) Book(ctx context.Context, id models.Identity, in BookInput) (*models.Appointment, error) {
	if in.DentistID == 0 || in.Date == "" || in.Time == "" {
		return nil, apperr.BadRequest("dentist_id, appointment_date, and appointment_time are required")
	}
	date, clock, ok := normalizeSchedule(in.Date, in.Time)
	if !ok {
		return nil, apperr.BadRequest("appointment_date must be YYYY-MM-DD and appointment_time HH:MM")
	}

	appt := &models.Appointment{
		PatientID:       id.ID,
		DentistID:       in.DentistID,
		AppointmentDate: date,
		AppointmentTime: clock,
		Status:          models.AppointmentPending,
		Notes:           trimmed(in.Notes),
	}

	err := s.deps.Repo.Transaction(ctx, func(tx store.Repository) error {
		d, err := tx.LockDentist(ctx, in.DentistID)
		if errors.Is(err, store.ErrNotFound) || (err == nil && d.Status != models.DentistApproved) {
			return apperr.NotFound("Dentist not found or not approved")
		}
		if err != nil {
			return err
		}

		taken, err := tx.HasActiveAppointment(ctx, d.ID, date, clock, 0)
		if err != nil {
			return err
		}
		if taken {
			return errSlotTaken
		}

		if err := tx.CreateAppointment(ctx, appt); err != nil {
			return err
		}
		if in.SlotID != nil {
			return tx.MarkSlotBooked(ctx, *in.SlotID, d.ID, date, clock)
		}
		return nil
	})
	if err != nil {
		return nil, ledgerError(err)
	}

	s.deps.Metrics.RecordBooking()
	s.log.WithFields(logrus.Fields{
		"appointment_id": appt.ID,
		"patient_id":     appt.PatientID,
		"dentist_id":     appt.DentistID,
		"date":           appt.AppointmentDate,
		"time":           appt.AppointmentTime,
	}).Info("Appointment booked")
	return appt, nil
}

// Cancel is the patient cancelling their own appointment. The matching slot
// becomes bookable again.
func (s *AppointmentService) Cancel(ctx context.Context, id models.Identity, appointmentID uint) error {
	var from models.AppointmentStatus
	err := s.deps.Repo.Transaction(ctx, func(tx store.Repository) error {
		appt, err := tx.AppointmentForPatient(ctx, appointmentID, id.ID)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Appointment not found")
		}
		if err != nil {
			return err
		}

		switch appt.Status {
		case models.AppointmentCancelled:
			return apperr.BadRequest("Appointment is already cancelled")
		case models.AppointmentCompleted:
			return apperr.BadRequest("Cannot cancel a completed appointment")
		}

		from = appt.Status
		if err := tx.UpdateAppointmentStatus(ctx, appt.ID, models.AppointmentCancelled); err != nil {
			return err
		}
		return tx.SetSlotAvailability(ctx, appt.DentistID, appt.AppointmentDate, appt.AppointmentTime, true)
	})
	if err != nil {
		return ledgerError(err)
	}

	s.transitioned(appointmentID, from, models.AppointmentCancelled, "patient")
	return nil
}

// Reschedule moves a PENDING appointment to a new date and time, releasing
// the old slot and taking the new one.
func (s *AppointmentService) Reschedule(ctx context.Context, id models.Identity, appointmentID uint, newDate, newTime string) error {
	if newDate == "" || newTime == "" {
		return apperr.BadRequest("appointment_date and appointment_time are required")
	}
	date, clock, ok := normalizeSchedule(newDate, newTime)
	if !ok {
		return apperr.BadRequest("appointment_date must be YYYY-MM-DD and appointment_time HH:MM")
	}

	err := s.deps.Repo.Transaction(ctx, func(tx store.Repository) error {
		appt, err := tx.AppointmentForPatient(ctx, appointmentID, id.ID)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Appointment not found")
		}
		if err != nil {
			return err
		}
		if appt.Status != models.AppointmentPending {
			return apperr.BadRequest("Only PENDING appointments can be rescheduled")
		}

		taken, err := tx.HasActiveAppointment(ctx, appt.DentistID, date, clock, appt.ID)
		if err != nil {
			return err
		}
		if taken {
			return errSlotTaken
		}

		if err := tx.UpdateAppointmentSchedule(ctx, appt.ID, date, clock); err != nil {
			return err
		}
		if err := tx.SetSlotAvailability(ctx, appt.DentistID, appt.AppointmentDate, appt.AppointmentTime, true); err != nil {
			return err
		}
		return tx.SetSlotAvailability(ctx, appt.DentistID, date, clock, false)
	})
	if err != nil {
		return ledgerError(err)
	}

	s.log.WithFields(logrus.Fields{"appointment_id": appointmentID, "date": date, "time": clock}).Info("Appointment rescheduled")
	return nil
}

func (s *AppointmentService) ListMine(ctx context.Context, id models.Identity) ([]models.PatientAppointmentView, error) {
	out, err := s.deps.Repo.ListPatientAppointments(ctx, id.ID)
	if err != nil {
		return nil, internal(err)
	}
	return out, nil
}

func (s *AppointmentService) Get(ctx context.Context, id models.Identity, appointmentID uint) (*models.PatientAppointmentView, error) {
	v, err := s.deps.Repo.PatientAppointment(ctx, appointmentID, id.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Appointment not found")
	}
	if err != nil {
		return nil, internal(err)
	}
	return v, nil
}

func (s *AppointmentService) ListForDentist(ctx context.Context, id models.Identity) ([]models.DentistAppointmentView, error) {
	d, err := ownProfile(ctx, s.deps.Repo, id)
	if err != nil {
		return nil, err
	}
	out, err := s.deps.Repo.ListDentistAppointments(ctx, d.ID)
	if err != nil {
		return nil, internal(err)
	}
	return out, nil
}

// UpdateStatus is the dentist moving one of their appointments forward.
// CANCELLED and COMPLETED accept no further changes.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id models.Identity, appointmentID uint, status models.AppointmentStatus) error {
	status = models.AppointmentStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.DentistSettable() {
		return apperr.BadRequest("Status must be one of: CONFIRMED, COMPLETED, CANCELLED")
	}

	var from models.AppointmentStatus
	err := s.deps.Repo.Transaction(ctx, func(tx store.Repository) error {
		d, err := tx.DentistByUserID(ctx, id.ID)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Forbidden("Dentist profile not found")
		}
		if err != nil {
			return err
		}

		appt, err := tx.AppointmentForDentist(ctx, appointmentID, d.ID)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Appointment not found")
		}
		if err != nil {
			return err
		}
		if appt.Status.Terminal() {
			return apperr.BadRequest(fmt.Sprintf("Cannot update a %s appointment", appt.Status))
		}

		from = appt.Status
		if err := tx.UpdateAppointmentStatus(ctx, appt.ID, status); err != nil {
			return err
		}
		if status == models.AppointmentCancelled {
			return tx.SetSlotAvailability(ctx, appt.DentistID, appt.AppointmentDate, appt.AppointmentTime, true)
		}
		return nil
	})
	if err != nil {
		return ledgerError(err)
	}

	s.transitioned(appointmentID, from, status, "dentist")
	return nil
}

func (s *AppointmentService) transitioned(appointmentID uint, from, to models.AppointmentStatus, actor string) {
	s.deps.Metrics.RecordTransition(string(from), string(to), actor)
	s.log.WithFields(logrus.Fields{
		"appointment_id": appointmentID,
		"from":           from,
		"to":             to,
		"actor":          actor,
	}).Info("Appointment status changed")
}

// ledgerError maps a transaction failure. The active-slot unique index
// surfaces as the same conflict as the explicit check.
func ledgerError(err error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return errSlotTaken
	}
	return internal(err)
}
