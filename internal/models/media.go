package models

import "time"

type ClinicImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DentistID uint      `gorm:"not null;index" json:"dentist_id"`
	Dentist   *Dentist  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ImageURL  string    `gorm:"size:255;not null" json:"image_url"`
	Caption   *string   `gorm:"size:255" json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

type Testimonial struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DentistID    uint      `gorm:"not null;index" json:"dentist_id"`
	Dentist      *Dentist  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	VideoURL     string    `gorm:"size:255;not null" json:"video_url"`
	PatientName  string    `gorm:"size:120;not null" json:"patient_name"`
	ThumbnailURL *string   `gorm:"size:255" json:"thumbnail_url"`
	Description  *string   `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// Review is unique per (dentist, author).
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DentistID uint      `gorm:"not null;uniqueIndex:idx_reviews_dentist_user" json:"dentist_id"`
	Dentist   *Dentist  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_dentist_user" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewView struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	PatientName string    `json:"patient_name"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReviewSummary struct {
	Reviews       []ReviewView `json:"reviews"`
	AverageRating float64      `json:"average_rating"`
}
