package models

import "time"

type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDentist Role = "DENTIST"
	RoleAdmin   Role = "ADMIN"
)

// RegistrableRoles are the roles a caller may pick at sign-up.
var RegistrableRoles = []Role{RolePatient, RoleDentist}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone     *string   `gorm:"size:30" json:"phone"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Role      Role      `gorm:"type:varchar(16);not null;index" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the caller decoded from a bearer credential. It is attached to each
// request by the auth middleware and passed explicitly to services.
type Identity struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Authenticated reports whether the identity came from a valid credential.
func (i Identity) Authenticated() bool {
	return i.ID != 0
}
