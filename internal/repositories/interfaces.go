package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ConsultationFilters struct {
	Status   *models.ConsultationStatus `json:"status"`
	DateFrom *time.Time                 `json:"date_from"`
	DateTo   *time.Time                 `json:"date_to"`
	Limit    int                        `json:"limit"`
	Offset   int                        `json:"offset"`
}

type HouseholdFilters struct {
	Verified *bool  `json:"verified"`
	Query    string `json:"query"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

type MCHFilters struct {
	RecordType *string    `json:"record_type"`
	PatientID  *uint      `json:"patient_id"`
	DateFrom   *time.Time `json:"date_from"`
	DateTo     *time.Time `json:"date_to"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	ListDoctors(ctx context.Context, tx *gorm.DB) ([]*models.DoctorSummary, error)
	CountByRole(ctx context.Context, tx *gorm.DB) (map[models.UserRole]int64, error)
}

type ConsultationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, consultation *models.Consultation) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Consultation, error)

	// ListPending returns all unclaimed consultations, oldest first.
	ListPending(ctx context.Context, tx *gorm.DB) ([]*models.Consultation, error)
	ListByPatient(ctx context.Context, tx *gorm.DB, patientID uint, filters ConsultationFilters) ([]*models.Consultation, int64, error)
	ListByDoctor(ctx context.Context, tx *gorm.DB, doctorID uint, filters ConsultationFilters) ([]*models.Consultation, int64, error)

	// Claim atomically assigns a pending consultation to the doctor.
	// Returns ErrNotFound if the consultation does not exist and
	// ErrAlreadyClaimed if it is no longer pending.
	Claim(ctx context.Context, tx *gorm.DB, id, doctorID uint) error

	// Respond atomically records the doctor's answer and closes the case.
	// Returns ErrNotFound if the consultation does not exist and
	// ErrNotAssigned if it is not under review by this doctor.
	Respond(ctx context.Context, tx *gorm.DB, id, doctorID uint, response string, audioFilename *string) error

	CountByStatus(ctx context.Context, tx *gorm.DB) (map[models.ConsultationStatus]int64, error)
}

type ChatRepository interface {
	// FindOrCreateThread returns the unique thread for the pair, creating
	// it when absent. Safe under concurrent first contact.
	FindOrCreateThread(ctx context.Context, tx *gorm.DB, patientID, doctorID uint) (*models.ChatThread, error)
	GetThread(ctx context.Context, tx *gorm.DB, id uint) (*models.ChatThread, error)
	ListThreadsByUser(ctx context.Context, tx *gorm.DB, userID uint, role models.UserRole) ([]*models.ThreadSummary, error)

	CreateMessage(ctx context.Context, tx *gorm.DB, message *models.ChatMessage) error
	ListMessages(ctx context.Context, tx *gorm.DB, threadID uint) ([]*models.ChatMessage, error)

	CountThreads(ctx context.Context, tx *gorm.DB) (int64, error)
	CountMessages(ctx context.Context, tx *gorm.DB) (int64, error)
}

type HouseholdRepository interface {
	Create(ctx context.Context, tx *gorm.DB, household *models.Household) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Household, error)
	Update(ctx context.Context, tx *gorm.DB, household *models.Household) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// ListByWorker returns the worker's households, optionally filtered by
	// a name-or-id search query.
	ListByWorker(ctx context.Context, tx *gorm.DB, ashaID uint, filters HouseholdFilters) ([]*models.Household, int64, error)
	Count(ctx context.Context, tx *gorm.DB) (total int64, verified int64, err error)
}

// MCHRepository is append-only: records are never updated or deleted.
type MCHRepository interface {
	Create(ctx context.Context, tx *gorm.DB, record *models.MCHRecord) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.MCHRecord, error)
	ListByWorker(ctx context.Context, tx *gorm.DB, ashaID uint, filters MCHFilters) ([]*models.MCHRecord, int64, error)
	SummaryByWorker(ctx context.Context, tx *gorm.DB, ashaID uint) (*models.MCHSummary, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type DashboardRepository interface {
	GetAdminStats(ctx context.Context) (*models.AdminStats, error)
}
