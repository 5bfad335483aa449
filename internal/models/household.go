package models

import (
	"time"
)

// Household belongs to exactly one ASHA worker. All reads and writes are
// scoped to the owning worker; there is no cross-worker visibility.
type Household struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	AshaID uint `json:"asha_id" gorm:"not null;index"`

	Name         string `json:"household_name" gorm:"not null;size:200"`
	Address      string `json:"address" gorm:"size:300"`
	MembersCount int    `json:"members_count"`
	IsVerified   bool   `json:"is_verified" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Asha User `json:"-" gorm:"foreignKey:AshaID"`
}

func (Household) TableName() string {
	return "households"
}

// MCHRecord is one maternal/child-health log entry owned by an ASHA worker
// and tagged to a patient. Records are append-only.
type MCHRecord struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	AshaID    uint `json:"asha_id" gorm:"not null;index"`
	PatientID uint `json:"patient_id" gorm:"not null;index"`

	// Free-text record type, e.g. "pregnancy", "immunization", "growth"
	RecordType    string `json:"record_type" gorm:"not null;size:50;index"`
	RecordDetails string `json:"record_details" gorm:"type:text"`

	RecordDate time.Time `json:"record_date" gorm:"autoCreateTime"`

	Asha    User `json:"-" gorm:"foreignKey:AshaID"`
	Patient User `json:"-" gorm:"foreignKey:PatientID"`
}

func (MCHRecord) TableName() string {
	return "mch_records"
}
