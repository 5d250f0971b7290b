// Package store persists the marketplace in a relational database.
package store

import (
	"context"
	"errors"

	"github.com/harentsoaR/dentist-platform/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// DentistFilter narrows ListDentistViews.
type DentistFilter struct {
	Status *models.DentistStatus
	// NewestFirst orders by id descending instead of ascending.
	NewestFirst bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id uint, name, phone *string) error
	UpdateUserPassword(ctx context.Context, id uint, hash string) error
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id uint) error
	CountUsers(ctx context.Context, excludeRole models.Role) (int64, error)
}

type DentistRepository interface {
	CreateDentist(ctx context.Context, d *models.Dentist) error
	DentistByID(ctx context.Context, id uint) (*models.Dentist, error)
	DentistByUserID(ctx context.Context, userID uint) (*models.Dentist, error)
	// LockDentist reads the profile and holds a row lock until the
	// surrounding transaction ends.
	LockDentist(ctx context.Context, id uint) (*models.Dentist, error)
	DentistView(ctx context.Context, id uint, status *models.DentistStatus) (*models.DentistView, error)
	DentistViewByUserID(ctx context.Context, userID uint) (*models.DentistView, error)
	ListDentistViews(ctx context.Context, filter DentistFilter) ([]models.DentistView, error)
	// SaveDentist writes every mutable profile field except the status.
	SaveDentist(ctx context.Context, d *models.Dentist) error
	UpdateDentistStatus(ctx context.Context, id uint, status models.DentistStatus) error
	DeleteDentist(ctx context.Context, id uint) error
	CountDentists(ctx context.Context, status *models.DentistStatus) (int64, error)
}

type MediaRepository interface {
	ListClinicImages(ctx context.Context, dentistID uint) ([]models.ClinicImage, error)
	CreateClinicImage(ctx context.Context, img *models.ClinicImage) error
	ClinicImageForOwner(ctx context.Context, imageID, ownerUserID uint) (*models.ClinicImage, error)
	DeleteClinicImage(ctx context.Context, id uint) error

	ListTestimonials(ctx context.Context, dentistID uint) ([]models.Testimonial, error)
	CreateTestimonial(ctx context.Context, t *models.Testimonial) error
	TestimonialForOwner(ctx context.Context, testimonialID, ownerUserID uint) (*models.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id uint) error

	ListReviews(ctx context.Context, dentistID uint) ([]models.ReviewView, error)
	ReviewExists(ctx context.Context, dentistID, userID uint) (bool, error)
	CreateReview(ctx context.Context, r *models.Review) error
	ReviewByID(ctx context.Context, id uint) (*models.Review, error)
	DeleteReview(ctx context.Context, id uint) error
}

type SlotRepository interface {
	ListSlots(ctx context.Context, dentistID uint, fromDate string, onlyAvailable bool) ([]models.TimeSlot, error)
	ListSlotViews(ctx context.Context, dentistID uint, fromDate string) ([]models.SlotView, error)
	SlotExists(ctx context.Context, dentistID uint, date, time string) (bool, error)
	CreateSlot(ctx context.Context, s *models.TimeSlot) error
	SlotForDentist(ctx context.Context, slotID, dentistID uint) (*models.TimeSlot, error)
	DeleteSlot(ctx context.Context, id uint) error
	// MarkSlotBooked flags a slot unavailable when it belongs to the dentist
	// and sits at the given date and time.
	MarkSlotBooked(ctx context.Context, slotID, dentistID uint, date, time string) error
	// SetSlotAvailability flips the slot matching dentist/date/time, if any.
	SetSlotAvailability(ctx context.Context, dentistID uint, date, time string, available bool) error
}

type AppointmentRepository interface {
	// HasActiveAppointment reports whether a non-cancelled appointment other
	// than excludeID occupies the dentist/date/time.
	HasActiveAppointment(ctx context.Context, dentistID uint, date, time string, excludeID uint) (bool, error)
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	AppointmentForPatient(ctx context.Context, id, patientID uint) (*models.Appointment, error)
	AppointmentForDentist(ctx context.Context, id, dentistID uint) (*models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uint, status models.AppointmentStatus) error
	UpdateAppointmentSchedule(ctx context.Context, id uint, date, time string) error
	ListPatientAppointments(ctx context.Context, patientID uint) ([]models.PatientAppointmentView, error)
	PatientAppointment(ctx context.Context, id, patientID uint) (*models.PatientAppointmentView, error)
	ListDentistAppointments(ctx context.Context, dentistID uint) ([]models.DentistAppointmentView, error)
	CountAppointments(ctx context.Context) (int64, error)
}

// Repository is the full persistence surface used by the services.
type Repository interface {
	UserRepository
	DentistRepository
	MediaRepository
	SlotRepository
	AppointmentRepository

	// Transaction runs fn against a repository bound to one transaction.
	// Returning an error rolls it back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	Ping(ctx context.Context) error
}
