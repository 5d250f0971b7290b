package models

// TimeSlot is a bookable (date, time) declared by a dentist. Dates are
// YYYY-MM-DD and times HH:MM so that ordering and "not in the past" checks are
// plain string comparisons.
type TimeSlot struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	DentistID   uint     `gorm:"not null;uniqueIndex:idx_time_slots_unique" json:"dentist_id"`
	Dentist     *Dentist `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SlotDate    string   `gorm:"size:10;not null;uniqueIndex:idx_time_slots_unique" json:"slot_date"`
	SlotTime    string   `gorm:"size:5;not null;uniqueIndex:idx_time_slots_unique" json:"slot_time"`
	IsAvailable bool     `gorm:"not null;default:true" json:"is_available"`
}

// SlotView is a slot with its active booking, if any.
type SlotView struct {
	ID                uint               `json:"id"`
	SlotDate          string             `json:"slot_date"`
	SlotTime          string             `json:"slot_time"`
	IsAvailable       bool               `json:"is_available"`
	AppointmentID     *uint              `json:"appointment_id,omitempty"`
	AppointmentStatus *AppointmentStatus `json:"appointment_status,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
	PatientName       *string            `json:"patient_name,omitempty"`
	PatientEmail      *string            `json:"patient_email,omitempty"`
	PatientPhone      *string            `json:"patient_phone,omitempty"`
}
