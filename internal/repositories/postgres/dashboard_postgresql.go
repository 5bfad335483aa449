package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db           *gorm.DB
	users        repositories.UserRepository
	consultation repositories.ConsultationRepository
	chat         repositories.ChatRepository
	household    repositories.HouseholdRepository
	mch          repositories.MCHRepository
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &DashboardPostgreSQL{
		db:           db,
		users:        NewUserPostgreSQL(db),
		consultation: NewConsultationPostgreSQL(db),
		chat:         NewChatPostgreSQL(db),
		household:    NewHouseholdPostgreSQL(db),
		mch:          NewMCHPostgreSQL(db),
	}
}

func (r *DashboardPostgreSQL) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{}

	usersByRole, err := r.users.CountByRole(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	stats.UsersByRole = usersByRole

	consultationsByStatus, err := r.consultation.CountByStatus(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load consultation stats: %w", err)
	}
	stats.ConsultationsByStatus = consultationsByStatus

	stats.TotalHouseholds, stats.VerifiedHouseholds, err = r.household.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load household stats: %w", err)
	}

	stats.TotalMCHRecords, err = r.mch.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load mch stats: %w", err)
	}

	stats.TotalChatThreads, err = r.chat.CountThreads(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat thread stats: %w", err)
	}
	stats.TotalChatMessages, err = r.chat.CountMessages(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat message stats: %w", err)
	}

	return stats, nil
}
