package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChatThread is the conversation container for exactly one (patient, doctor)
// pair. The composite unique index makes find-or-create safe against
// concurrent first contacts.
type ChatThread struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	PatientID uint `json:"patient_id" gorm:"not null;uniqueIndex:idx_thread_pair"`
	DoctorID  uint `json:"doctor_id" gorm:"not null;uniqueIndex:idx_thread_pair"`

	CreatedAt time.Time `json:"created_at"`

	Patient User `json:"-" gorm:"foreignKey:PatientID"`
	Doctor  User `json:"-" gorm:"foreignKey:DoctorID"`
}

func (ChatThread) TableName() string {
	return "chat_threads"
}

// IsParticipant reports whether the user is one of the thread's two parties.
func (t *ChatThread) IsParticipant(userID uint) bool {
	return userID == t.PatientID || userID == t.DoctorID
}

// ChatMessage is one append-only entry in a thread. At least one of Text and
// FilePath is always present; timestamps are server-assigned.
type ChatMessage struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	ThreadID uint `json:"thread_id" gorm:"not null;index"`
	SenderID uint `json:"sender_id" gorm:"not null"`

	Text     *string `json:"text" gorm:"type:text"`
	FilePath *string `json:"file_path" gorm:"size:255"`

	// Upload metadata for the attachment (original name, size, content type)
	FileMeta datatypes.JSON `json:"file_meta,omitempty"`

	SentAt time.Time `json:"sent_at" gorm:"autoCreateTime;index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ThreadSummary is a thread listing entry with the counterpart's name.
type ThreadSummary struct {
	ID          uint      `json:"id"`
	PatientID   uint      `json:"patient_id"`
	DoctorID    uint      `json:"doctor_id"`
	PatientName string    `json:"patient_name,omitempty"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
