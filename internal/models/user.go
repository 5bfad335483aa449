package models

import (
	"time"
)

type UserRole string

const (
	RolePatient UserRole = "patient"
	RoleDoctor  UserRole = "doctor"
	RoleAsha    UserRole = "asha"
	RoleAdmin   UserRole = "admin"
)

// AllRoles is the closed role enumeration. A user's role is fixed at
// registration and never changes afterwards.
var AllRoles = []UserRole{RolePatient, RoleDoctor, RoleAsha, RoleAdmin}

// RegistrableRoles are the roles selectable through the public registration
// surface. Admin accounts are provisioned out of band.
var RegistrableRoles = []UserRole{RolePatient, RoleDoctor, RoleAsha}

// IsValid reports whether the role is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAsha, RoleAdmin:
		return true
	}
	return false
}

// DisplayName returns the human-facing label for the role.
func (r UserRole) DisplayName() string {
	switch r {
	case RolePatient:
		return "Patient"
	case RoleDoctor:
		return "Doctor"
	case RoleAsha:
		return "ASHA Worker"
	case RoleAdmin:
		return "Administrator"
	}
	return "Unknown"
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"not null;size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Username     *string  `json:"username" gorm:"uniqueIndex;size:100"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index"`

	// Doctor-only profile fields
	Specialty *string `json:"specialty,omitempty" gorm:"size:100"`
	Hospital  *string `json:"hospital,omitempty" gorm:"size:200"`

	// Optional demographics
	Age         *int    `json:"age,omitempty"`
	Gender      *string `json:"gender,omitempty" gorm:"size:20"`
	PhoneNumber *string `json:"phone_number,omitempty" gorm:"size:20"`
	AbhaID      *string `json:"abha_id,omitempty" gorm:"size:30"`

	ProfilePhotoFilename *string `json:"profile_photo_filename,omitempty" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// DoctorSummary is the patient-facing directory entry for a doctor.
type DoctorSummary struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Specialty *string `json:"specialty"`
	Hospital  *string `json:"hospital"`
}
