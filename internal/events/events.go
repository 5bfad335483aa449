package events

import (
	"context"
	"time"
)

// Event types published by the service.
const (
	ConsultationSubmitted = "consultation.submitted"
	ConsultationClaimed   = "consultation.claimed"
	ConsultationReviewed  = "consultation.reviewed"
	ChatMessageSent       = "chat.message_sent"
	UserRegistered        = "user.registered"
)

// Event is the envelope every published message uses.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// EventPublisher sends domain events to the message broker. Publishing is
// best effort; callers log failures and continue.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
	Close() error
}

// ConsultationEvent is the payload for consultation lifecycle events.
type ConsultationEvent struct {
	ConsultationID uint   `json:"consultation_id"`
	PatientID      uint   `json:"patient_id"`
	DoctorID       *uint  `json:"doctor_id,omitempty"`
	Status         string `json:"status"`
}

// ChatMessageEvent is the payload for chat message events.
type ChatMessageEvent struct {
	ThreadID  uint `json:"thread_id"`
	MessageID uint `json:"message_id"`
	SenderID  uint `json:"sender_id"`
	HasFile   bool `json:"has_file"`
}

// UserRegisteredEvent is the payload for registration events.
type UserRegisteredEvent struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}
