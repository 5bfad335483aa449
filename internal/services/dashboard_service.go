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

type dashboardService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
	cache  *cache.CacheManager
}

func NewDashboardService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, cacheManager *cache.CacheManager) DashboardService {
	return &dashboardService{
		repo:   repo,
		db:     db,
		logger: logger,
		cache:  cacheManager,
	}
}

func (s *dashboardService) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	err := s.cache.Stats.CacheOrExecute(ctx, "admin", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.Dashboard().GetAdminStats(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load admin stats: %w", err)
	}
	return &stats, nil
}
