package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/cache"
	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
)

type userService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
	cache  *cache.CacheManager
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, cacheManager *cache.CacheManager) UserService {
	return &userService{
		repo:   repo,
		db:     db,
		logger: logger,
		cache:  cacheManager,
	}
}

func (s *userService) ListDoctors(ctx context.Context) ([]*models.DoctorSummary, error) {
	var doctors []*models.DoctorSummary
	err := s.cache.Doctors.CacheOrExecute(ctx, "list", &doctors, cache.DoctorsCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.User().ListDoctors(ctx, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
