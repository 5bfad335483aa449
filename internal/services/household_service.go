package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/cache"
	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
	"github.com/swasthsathi/telehealth-service/internal/validator"
)

type householdService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager
}

func NewHouseholdService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, cacheManager *cache.CacheManager) HouseholdService {
	return &householdService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		cache:     cacheManager,
	}
}

// ===== HOUSEHOLDS =====

func (s *householdService) Create(ctx context.Context, identity auth.Identity, req *models.HouseholdRequest) (*models.Household, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	household := &models.Household{
		AshaID:       identity.UserID,
		Name:         req.Name,
		Address:      req.Address,
		MembersCount: req.MembersCount,
	}
	if err := s.repo.Household().Create(ctx, nil, household); err != nil {
		return nil, fmt.Errorf("failed to create household: %w", err)
	}

	s.cache.InvalidateStats(ctx)
	s.logger.Info("Household created", "household_id", household.ID, "asha_id", identity.UserID)
	return household, nil
}

func (s *householdService) Get(ctx context.Context, identity auth.Identity, id uint) (*models.Household, error) {
	return s.getOwnedHousehold(ctx, identity, id, "read")
}

func (s *householdService) Update(ctx context.Context, identity auth.Identity, id uint, req *models.HouseholdRequest) (*models.Household, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	household, err := s.getOwnedHousehold(ctx, identity, id, "update")
	if err != nil {
		return nil, err
	}

	household.Name = req.Name
	household.Address = req.Address
	household.MembersCount = req.MembersCount
	if err := s.repo.Household().Update(ctx, nil, household); err != nil {
		return nil, fmt.Errorf("failed to update household: %w", err)
	}
	return household, nil
}

func (s *householdService) Delete(ctx context.Context, identity auth.Identity, id uint) error {
	if _, err := s.getOwnedHousehold(ctx, identity, id, "delete"); err != nil {
		return err
	}

	if err := s.repo.Household().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrHouseholdNotFound
		}
		return fmt.Errorf("failed to delete household: %w", err)
	}

	s.cache.InvalidateStats(ctx)
	s.logger.Info("Household deleted", "household_id", id, "asha_id", identity.UserID)
	return nil
}

func (s *householdService) List(ctx context.Context, identity auth.Identity, filters repositories.HouseholdFilters) ([]*models.Household, int64, error) {
	return s.repo.Household().ListByWorker(ctx, nil, identity.UserID, filters)
}

func (s *householdService) Verify(ctx context.Context, identity auth.Identity, id uint) (*models.Household, error) {
	household, err := s.getOwnedHousehold(ctx, identity, id, "verify")
	if err != nil {
		return nil, err
	}

	household.IsVerified = true
	if err := s.repo.Household().Update(ctx, nil, household); err != nil {
		return nil, fmt.Errorf("failed to verify household: %w", err)
	}

	s.cache.InvalidateStats(ctx)
	return household, nil
}

func (s *householdService) getOwnedHousehold(ctx context.Context, identity auth.Identity, id uint, action string) (*models.Household, error) {
	household, err := s.repo.Household().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrHouseholdNotFound
		}
		return nil, fmt.Errorf("failed to get household: %w", err)
	}
	if household.AshaID != identity.UserID {
		return nil, NewPermissionError(identity.UserID, id, "household", action, "owned by another worker")
	}
	return household, nil
}

// ===== MCH RECORDS =====

func (s *householdService) CreateRecord(ctx context.Context, identity auth.Identity, req *models.MCHRecordRequest) (*models.MCHRecord, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	record := &models.MCHRecord{
		AshaID:        identity.UserID,
		PatientID:     req.PatientID,
		RecordType:    req.RecordType,
		RecordDetails: req.RecordDetails,
	}
	if err := s.repo.MCH().Create(ctx, nil, record); err != nil {
		return nil, fmt.Errorf("failed to create mch record: %w", err)
	}

	s.cache.InvalidateStats(ctx)
	s.logger.Info("MCH record created", "record_id", record.ID, "asha_id", identity.UserID)
	return record, nil
}

func (s *householdService) GetRecord(ctx context.Context, identity auth.Identity, id uint) (*models.MCHRecord, error) {
	return s.getOwnedRecord(ctx, identity, id, "read")
}

func (s *householdService) ListRecords(ctx context.Context, identity auth.Identity, filters repositories.MCHFilters) ([]*models.MCHRecord, int64, error) {
	return s.repo.MCH().ListByWorker(ctx, nil, identity.UserID, filters)
}

func (s *householdService) RecordSummary(ctx context.Context, identity auth.Identity) (*models.MCHSummary, error) {
	return s.repo.MCH().SummaryByWorker(ctx, nil, identity.UserID)
}

func (s *householdService) getOwnedRecord(ctx context.Context, identity auth.Identity, id uint, action string) (*models.MCHRecord, error) {
	record, err := s.repo.MCH().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrMCHRecordNotFound
		}
		return nil, fmt.Errorf("failed to get mch record: %w", err)
	}
	if record.AshaID != identity.UserID {
		return nil, NewPermissionError(identity.UserID, id, "mch_record", action, "owned by another worker")
	}
	return record, nil
}
