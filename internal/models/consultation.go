package models

import (
	"time"
)

type ConsultationStatus string

const (
	StatusPending     ConsultationStatus = "Pending"
	StatusUnderReview ConsultationStatus = "Under Review"
	StatusReviewed    ConsultationStatus = "Reviewed"
)

// CanTransitionTo reports whether the status may move to next. Transitions
// are monotonic: Pending -> Under Review -> Reviewed, nothing else.
func (s ConsultationStatus) CanTransitionTo(next ConsultationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusUnderReview
	case StatusUnderReview:
		return next == StatusReviewed
	}
	return false
}

// Consultation is one patient-submitted symptom report tracked through the
// review workflow. DoctorID stays nil until a doctor claims the case; a case
// that is not Pending always has a doctor assigned.
type Consultation struct {
	ID        uint  `json:"id" gorm:"primaryKey"`
	PatientID uint  `json:"patient_id" gorm:"not null;index"`
	DoctorID  *uint `json:"doctor_id" gorm:"index"`

	// Snapshot of patient details at submission time
	PatientName   string  `json:"patient_name" gorm:"not null;size:100"`
	PatientAge    *int    `json:"patient_age"`
	PatientGender *string `json:"patient_gender" gorm:"size:20"`

	Symptoms      string  `json:"symptoms" gorm:"not null;type:text"`
	PhotoFilename *string `json:"photo_filename" gorm:"size:255"`

	Status ConsultationStatus `json:"status" gorm:"not null;default:Pending;index;size:20"`

	DoctorResponse    *string `json:"doctor_response" gorm:"type:text"`
	AudioNoteFilename *string `json:"audio_note_filename" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Patient User  `json:"-" gorm:"foreignKey:PatientID"`
	Doctor  *User `json:"-" gorm:"foreignKey:DoctorID"`

	// Computed (not stored)
	DoctorName string `json:"doctor_name,omitempty" gorm:"-"`
}

func (Consultation) TableName() string {
	return "consultations"
}
