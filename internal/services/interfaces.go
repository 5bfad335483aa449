package services

import (
	"context"
	"io"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
)

// FileUpload is an incoming multipart file handed down from a handler.
type FileUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}

// ===== AUTH =====

type AuthService interface {
	// Register creates an account for one of the public roles.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)

	// Login authenticates by email or username and opens a session,
	// returning the user and the signed session token.
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error)

	// Logout revokes the session referenced by the token.
	Logout(ctx context.Context, token string) error

	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfilePhoto(ctx context.Context, identity auth.Identity, photo *FileUpload) (*models.User, error)
}

// ===== USERS =====

type UserService interface {
	// ListDoctors returns the patient-facing doctor directory.
	ListDoctors(ctx context.Context) ([]*models.DoctorSummary, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// ===== CONSULTATIONS =====

type ConsultationService interface {
	// Submit files a new symptom case for the calling patient.
	Submit(ctx context.Context, identity auth.Identity, req *models.SubmitConsultationRequest, photo *FileUpload) (*models.Consultation, error)

	// ListPending returns unclaimed cases, oldest first, for any doctor.
	ListPending(ctx context.Context, identity auth.Identity) ([]*models.Consultation, error)

	// Claim atomically assigns a pending case to the calling doctor.
	Claim(ctx context.Context, identity auth.Identity, id uint) (*models.Consultation, error)

	// Respond records the calling doctor's answer and closes the case.
	Respond(ctx context.Context, identity auth.Identity, id uint, req *models.RespondConsultationRequest, audioNote *FileUpload) (*models.Consultation, error)

	// GetByID returns a case visible to the caller: its patient, its
	// assigned doctor, or an admin.
	GetByID(ctx context.Context, identity auth.Identity, id uint) (*models.Consultation, error)

	ListMine(ctx context.Context, identity auth.Identity, filters repositories.ConsultationFilters) ([]*models.Consultation, int64, error)
	ListAssigned(ctx context.Context, identity auth.Identity, filters repositories.ConsultationFilters) ([]*models.Consultation, int64, error)
}

// ===== CHAT =====

type ChatService interface {
	// OpenThread finds or creates the unique thread between the calling
	// patient and a doctor (or the calling doctor and a patient).
	OpenThread(ctx context.Context, identity auth.Identity, counterpartID uint) (*models.ChatThread, error)

	// SendMessage appends a message to a thread the caller participates in.
	SendMessage(ctx context.Context, identity auth.Identity, threadID uint, req *models.SendMessageRequest, attachment *FileUpload) (*models.ChatMessage, error)

	// ListMessages returns a thread's messages, oldest first,
	// participants only.
	ListMessages(ctx context.Context, identity auth.Identity, threadID uint) ([]*models.ChatMessage, error)

	ListThreads(ctx context.Context, identity auth.Identity) ([]*models.ThreadSummary, error)
}

// ===== HOUSEHOLDS / MCH =====

type HouseholdService interface {
	Create(ctx context.Context, identity auth.Identity, req *models.HouseholdRequest) (*models.Household, error)
	Get(ctx context.Context, identity auth.Identity, id uint) (*models.Household, error)
	Update(ctx context.Context, identity auth.Identity, id uint, req *models.HouseholdRequest) (*models.Household, error)
	Delete(ctx context.Context, identity auth.Identity, id uint) error
	List(ctx context.Context, identity auth.Identity, filters repositories.HouseholdFilters) ([]*models.Household, int64, error)
	Verify(ctx context.Context, identity auth.Identity, id uint) (*models.Household, error)

	// MCH records are append-only: create and read, no update or delete.
	CreateRecord(ctx context.Context, identity auth.Identity, req *models.MCHRecordRequest) (*models.MCHRecord, error)
	GetRecord(ctx context.Context, identity auth.Identity, id uint) (*models.MCHRecord, error)
	ListRecords(ctx context.Context, identity auth.Identity, filters repositories.MCHFilters) ([]*models.MCHRecord, int64, error)
	RecordSummary(ctx context.Context, identity auth.Identity) (*models.MCHSummary, error)
}

// ===== DASHBOARD =====

type DashboardService interface {
	GetAdminStats(ctx context.Context) (*models.AdminStats, error)
}

// ===== REPORTS =====

type ReportService interface {
	// HouseholdRegister renders the caller's households as an xlsx workbook.
	HouseholdRegister(ctx context.Context, identity auth.Identity) ([]byte, error)

	// MCHRegister renders the caller's MCH records as an xlsx workbook.
	MCHRegister(ctx context.Context, identity auth.Identity) ([]byte, error)

	// AdminOverview renders platform-wide stats as an xlsx workbook.
	AdminOverview(ctx context.Context) ([]byte, error)
}

// ===== SERVICE MANAGER =====

// ServiceManager wires and owns all service instances.
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Consultation() ConsultationService
	Chat() ChatService
	Household() HouseholdService
	Dashboard() DashboardService
	Report() ReportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
