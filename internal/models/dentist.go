package models

import (
	"time"

	"gorm.io/datatypes"
)

type DentistStatus string

const (
	DentistPending  DentistStatus = "PENDING"
	DentistApproved DentistStatus = "APPROVED"
	DentistRejected DentistStatus = "REJECTED"
)

var DentistStatuses = []DentistStatus{DentistPending, DentistApproved, DentistRejected}

// ServiceItem is one entry of a dentist's fee catalogue. A fee of 0 means the
// service is not offered.
type ServiceItem struct {
	Category    string  `json:"category"`
	ServiceName string  `json:"service_name"`
	Fee         float64 `json:"fee"`
}

type Dentist struct {
	ID              uint                             `gorm:"primaryKey" json:"id"`
	UserID          uint                             `gorm:"not null;uniqueIndex" json:"user_id"`
	User            *User                            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Qualification   string                           `gorm:"size:255;not null" json:"qualification"`
	Experience      int                              `gorm:"not null" json:"experience"`
	ClinicName      string                           `gorm:"size:255;not null" json:"clinic_name"`
	ClinicAddress   string                           `gorm:"size:500;not null" json:"clinic_address"`
	Fees            float64                          `gorm:"not null" json:"fees"`
	Specialization  string                           `gorm:"size:255;not null" json:"specialization"`
	Latitude        float64                          `gorm:"not null;default:0" json:"latitude"`
	Longitude       float64                          `gorm:"not null;default:0" json:"longitude"`
	Status          DentistStatus                    `gorm:"type:varchar(16);not null;index" json:"status"`
	ProfilePhoto    *string                          `gorm:"size:255" json:"profile_photo"`
	ServicesOffered datatypes.JSONSlice[ServiceItem] `json:"services_offered"`
	CreatedAt       time.Time                        `json:"created_at"`
}

// DentistView is a profile joined with its owner's contact details.
type DentistView struct {
	ID              uint                             `json:"id"`
	UserID          uint                             `json:"user_id"`
	Name            string                           `json:"name"`
	Email           string                           `json:"email"`
	Phone           *string                          `json:"phone"`
	Qualification   string                           `json:"qualification"`
	Experience      int                              `json:"experience"`
	ClinicName      string                           `json:"clinic_name"`
	ClinicAddress   string                           `json:"clinic_address"`
	Fees            float64                          `json:"fees"`
	Specialization  string                           `json:"specialization"`
	Latitude        float64                          `json:"latitude"`
	Longitude       float64                          `json:"longitude"`
	Status          DentistStatus                    `json:"status"`
	ProfilePhoto    *string                          `json:"profile_photo"`
	ServicesOffered datatypes.JSONSlice[ServiceItem] `json:"services_offered"`
}
