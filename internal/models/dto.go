package models

import (
	"time"
)

// ===== AUTH DTOs =====

type RegisterRequest struct {
	Name     string   `json:"name" form:"name" validate:"required,min=1,max=100"`
	Email    string   `json:"email" form:"email" validate:"required,email,max=255"`
	Username *string  `json:"username" form:"username" validate:"omitempty,min=3,max=100"`
	Password string   `json:"password" form:"password" validate:"required,min=6,max=128"`
	Role     UserRole `json:"role" form:"role" validate:"required,oneof=patient doctor asha"`

	Specialty   *string `json:"specialty" form:"specialty" validate:"omitempty,max=100"`
	Hospital    *string `json:"hospital" form:"hospital" validate:"omitempty,max=200"`
	Age         *int    `json:"age" form:"age" validate:"omitempty,min=0,max=130"`
	Gender      *string `json:"gender" form:"gender" validate:"omitempty,max=20"`
	PhoneNumber *string `json:"phone_number" form:"phone_number" validate:"omitempty,max=20"`
	AbhaID      *string `json:"abha_id" form:"abha_id" validate:"omitempty,max=30"`
}

type LoginRequest struct {
	// Identifier is an email when it contains '@', otherwise a username.
	Identifier string `json:"identifier" form:"identifier" validate:"required,max=255"`
	Password   string `json:"password" form:"password" validate:"required"`
}

// ===== CONSULTATION DTOs =====

type SubmitConsultationRequest struct {
	PatientName   string  `json:"patient_name" form:"name" validate:"required,max=100"`
	PatientAge    *int    `json:"patient_age" form:"age" validate:"omitempty,min=0,max=130"`
	PatientGender *string `json:"patient_gender" form:"gender" validate:"omitempty,max=20"`
	Symptoms      string  `json:"symptoms" form:"symptoms" validate:"required"`
}

type RespondConsultationRequest struct {
	Response string `json:"response" form:"response" validate:"required"`
}

// ===== CHAT DTOs =====

type OpenThreadRequest struct {
	// CounterpartID is the doctor (for patients) or patient (for doctors)
	// on the other side of the thread.
	CounterpartID uint `json:"counterpart_id" form:"counterpart_id" validate:"required"`
}

type SendMessageRequest struct {
	Text *string `json:"text" form:"message_text" validate:"omitempty,max=5000"`
}

// ===== HOUSEHOLD / MCH DTOs =====

type HouseholdRequest struct {
	Name         string `json:"household_name" form:"household_name" validate:"required,min=1,max=200"`
	Address      string `json:"address" form:"address" validate:"omitempty,max=300"`
	MembersCount int    `json:"members_count" form:"members_count" validate:"min=0,max=100"`
}

type MCHRecordRequest struct {
	PatientID     uint   `json:"patient_id" form:"patient_id" validate:"required"`
	RecordType    string `json:"record_type" form:"record_type" validate:"required,max=50"`
	RecordDetails string `json:"record_details" form:"record_details" validate:"omitempty,max=5000"`
}

// ===== DASHBOARD DTOs =====

type AdminStats struct {
	UsersByRole           map[UserRole]int64           `json:"users_by_role"`
	ConsultationsByStatus map[ConsultationStatus]int64 `json:"consultations_by_status"`
	TotalHouseholds       int64                        `json:"total_households"`
	VerifiedHouseholds    int64                        `json:"verified_households"`
	TotalMCHRecords       int64                        `json:"total_mch_records"`
	TotalChatThreads      int64                        `json:"total_chat_threads"`
	TotalChatMessages     int64                        `json:"total_chat_messages"`
}

type MCHSummary struct {
	RecordsByType map[string]int64 `json:"records_by_type"`
	Total         int64            `json:"total"`
}

// ===== GENERIC RESPONSES =====

type SuccessResponse struct {
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
