package models

import (
	"time"

	"github.com/samber/lo"
)

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "PENDING"
	AppointmentConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
)

// DentistSettableStatuses are the targets a dentist may move an appointment to.
var DentistSettableStatuses = []AppointmentStatus{AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled}

// Terminal reports whether no further transitions are accepted.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentCancelled || s == AppointmentCompleted
}

// Active reports whether the appointment occupies its dentist/date/time.
func (s AppointmentStatus) Active() bool {
	return s != AppointmentCancelled
}

// DentistSettable reports whether s is a valid target for a dentist status update.
func (s AppointmentStatus) DentistSettable() bool {
	return lo.Contains(DentistSettableStatuses, s)
}

// Appointment links a patient to a dentist at a date and time. At most one
// active appointment exists per (dentist, date, time); the store enforces this
// with a partial unique index.
type Appointment struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	PatientID       uint              `gorm:"not null;index" json:"patient_id"`
	Patient         *User             `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
	DentistID       uint              `gorm:"not null;index" json:"dentist_id"`
	Dentist         *Dentist          `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AppointmentDate string            `gorm:"size:10;not null" json:"appointment_date"`
	AppointmentTime string            `gorm:"size:5;not null" json:"appointment_time"`
	Status          AppointmentStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Notes           *string           `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time         `json:"created_at"`
}

// PatientAppointmentView is what a patient sees for one of their bookings.
type PatientAppointmentView struct {
	ID              uint              `json:"id"`
	DentistID       uint              `json:"dentist_id"`
	AppointmentDate string            `json:"appointment_date"`
	AppointmentTime string            `json:"appointment_time"`
	Status          AppointmentStatus `json:"status"`
	Notes           *string           `json:"notes"`
	ClinicName      string            `json:"clinic_name"`
	ClinicAddress   string            `json:"clinic_address"`
	Fees            float64           `json:"fees"`
	Specialization  string            `json:"specialization"`
	DentistName     string            `json:"dentist_name"`
	DentistPhone    *string           `json:"dentist_phone"`
	DentistEmail    string            `json:"dentist_email"`
}

// DentistAppointmentView is what a dentist sees for a booking on their profile.
type DentistAppointmentView struct {
	ID              uint              `json:"id"`
	PatientID       uint              `json:"patient_id"`
	AppointmentDate string            `json:"appointment_date"`
	AppointmentTime string            `json:"appointment_time"`
	Status          AppointmentStatus `json:"status"`
	Notes           *string           `json:"notes"`
	PatientName     string            `json:"patient_name"`
	PatientPhone    *string           `json:"patient_phone"`
	PatientEmail    string            `json:"patient_email"`
}
