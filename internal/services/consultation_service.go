package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/cache"
	"github.com/swasthsathi/telehealth-service/internal/events"
	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
	"github.com/swasthsathi/telehealth-service/internal/storage"
	"github.com/swasthsathi/telehealth-service/internal/validator"
)

type consultationService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	cache     *cache.CacheManager
	files     storage.FileStore
}

func NewConsultationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, cacheManager *cache.CacheManager, files storage.FileStore) ConsultationService {
	return &consultationService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		cache:     cacheManager,
		files:     files,
	}
}

func (s *consultationService) Submit(ctx context.Context, identity auth.Identity, req *models.SubmitConsultationRequest, photo *FileUpload) (*models.Consultation, error) {
	s.logger.Info("Submitting consultation", "patient_id", identity.UserID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	consultation := &models.Consultation{
		PatientID:     identity.UserID,
		PatientName:   req.PatientName,
		PatientAge:    req.PatientAge,
		PatientGender: req.PatientGender,
		Symptoms:      req.Symptoms,
		Status:        models.StatusPending,
	}

	if photo != nil {
		storedName, err := s.files.Save(ctx, photo.Filename, photo.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to store symptom photo: %w", err)
		}
		consultation.PhotoFilename = &storedName
	}

	if err := s.repo.Consultation().Create(ctx, nil, consultation); err != nil {
		return nil, fmt.Errorf("failed to submit consultation: %w", err)
	}

	s.publishEvent(ctx, events.ConsultationSubmitted, consultation)
	s.cache.InvalidateStats(ctx)

	s.logger.Info("Consultation submitted", "consultation_id", consultation.ID, "patient_id", identity.UserID)
	return consultation, nil
}

func (s *consultationService) ListPending(ctx context.Context, identity auth.Identity) ([]*models.Consultation, error) {
	if identity.Role != models.RoleDoctor {
		return nil, NewPermissionError(identity.UserID, 0, "consultation", "list_pending", "doctor role required")
	}
	return s.repo.Consultation().ListPending(ctx, nil)
}

// Claim assigns the case to the calling doctor. Exactly one of any number
// of concurrent claimants wins; the rest get ErrAlreadyClaimed.
func (s *consultationService) Claim(ctx context.Context, identity auth.Identity, id uint) (*models.Consultation, error) {
	if identity.Role != models.RoleDoctor {
		return nil, NewPermissionError(identity.UserID, id, "consultation", "claim", "doctor role required")
	}

	err := s.repo.Consultation().Claim(ctx, nil, id, identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrConsultationNotFound
		case errors.Is(err, repositories.ErrAlreadyClaimed):
			return nil, ErrAlreadyClaimed
		}
		return nil, fmt.Errorf("failed to claim consultation: %w", err)
	}

	consultation, err := s.repo.Consultation().GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload consultation: %w", err)
	}

	s.publishEvent(ctx, events.ConsultationClaimed, consultation)
	s.cache.InvalidateStats(ctx)

	s.logger.Info("Consultation claimed", "consultation_id", id, "doctor_id", identity.UserID)
	return consultation, nil
}

func (s *consultationService) Respond(ctx context.Context, identity auth.Identity, id uint, req *models.RespondConsultationRequest, audioNote *FileUpload) (*models.Consultation, error) {
	if identity.Role != models.RoleDoctor {
		return nil, NewPermissionError(identity.UserID, id, "consultation", "respond", "doctor role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var audioFilename *string
	if audioNote != nil {
		storedName, err := s.files.Save(ctx, audioNote.Filename, audioNote.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to store audio note: %w", err)
		}
		audioFilename = &storedName
	}

	err := s.repo.Consultation().Respond(ctx, nil, id, identity.UserID, req.Response, audioFilename)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrConsultationNotFound
		case errors.Is(err, repositories.ErrNotAssigned):
			return nil, ErrNotAssigned
		}
		return nil, fmt.Errorf("failed to respond to consultation: %w", err)
	}

	consultation, err := s.repo.Consultation().GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload consultation: %w", err)
	}

	s.publishEvent(ctx, events.ConsultationReviewed, consultation)
	s.cache.InvalidateStats(ctx)

	s.logger.Info("Consultation reviewed", "consultation_id", id, "doctor_id", identity.UserID)
	return consultation, nil
}

func (s *consultationService) GetByID(ctx context.Context, identity auth.Identity, id uint) (*models.Consultation, error) {
	consultation, err := s.repo.Consultation().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrConsultationNotFound
		}
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}

	if !s.canView(identity, consultation) {
		return nil, NewPermissionError(identity.UserID, id, "consultation", "read", "not a participant")
	}
	return consultation, nil
}

func (s *consultationService) ListMine(ctx context.Context, identity auth.Identity, filters repositories.ConsultationFilters) ([]*models.Consultation, int64, error) {
	return s.repo.Consultation().ListByPatient(ctx, nil, identity.UserID, filters)
}

func (s *consultationService) ListAssigned(ctx context.Context, identity auth.Identity, filters repositories.ConsultationFilters) ([]*models.Consultation, int64, error) {
	if identity.Role != models.RoleDoctor {
		return nil, 0, NewPermissionError(identity.UserID, 0, "consultation", "list_assigned", "doctor role required")
	}
	return s.repo.Consultation().ListByDoctor(ctx, nil, identity.UserID, filters)
}

func (s *consultationService) canView(identity auth.Identity, c *models.Consultation) bool {
	switch identity.Role {
	case models.RoleAdmin:
		return true
	case models.RolePatient:
		return c.PatientID == identity.UserID
	case models.RoleDoctor:
		return c.DoctorID != nil && *c.DoctorID == identity.UserID
	}
	return false
}

func (s *consultationService) publishEvent(ctx context.Context, eventType string, c *models.Consultation) {
	err := s.publisher.Publish(ctx, eventType, events.ConsultationEvent{
		ConsultationID: c.ID,
		PatientID:      c.PatientID,
		DoctorID:       c.DoctorID,
		Status:         string(c.Status),
	})
	if err != nil {
		s.logger.Warn("Failed to publish consultation event", "error", err, "event_type", eventType, "consultation_id", c.ID)
	}
}
