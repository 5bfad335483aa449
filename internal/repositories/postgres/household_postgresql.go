package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
)

type HouseholdPostgreSQL struct {
	db *gorm.DB
}

func NewHouseholdPostgreSQL(db *gorm.DB) repositories.HouseholdRepository {
	return &HouseholdPostgreSQL{db: db}
}

func (r *HouseholdPostgreSQL) Create(ctx context.Context, tx *gorm.DB, household *models.Household) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(household).Error; err != nil {
		return fmt.Errorf("failed to create household: %w", err)
	}
	return nil
}

func (r *HouseholdPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Household, error) {
	db := getDB(r.db, tx)
	var household models.Household
	if err := db.WithContext(ctx).First(&household, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &household, nil
}

func (r *HouseholdPostgreSQL) Update(ctx context.Context, tx *gorm.DB, household *models.Household) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(household).Error; err != nil {
		return fmt.Errorf("failed to update household: %w", err)
	}
	return nil
}

func (r *HouseholdPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).Delete(&models.Household{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete household: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *HouseholdPostgreSQL) ListByWorker(ctx context.Context, tx *gorm.DB, ashaID uint, filters repositories.HouseholdFilters) ([]*models.Household, int64, error) {
	db := getDB(r.db, tx)
	var households []*models.Household
	var total int64

	query := db.WithContext(ctx).Model(&models.Household{}).Where("asha_id = ?", ashaID)
	if filters.Verified != nil {
		query = query.Where("is_verified = ?", *filters.Verified)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR CAST(id AS TEXT) LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query.Order("name ASC"), filters.Limit, filters.Offset)
	if err := query.Find(&households).Error; err != nil {
		return nil, 0, err
	}
	return households, total, nil
}

func (r *HouseholdPostgreSQL) Count(ctx context.Context, tx *gorm.DB) (int64, int64, error) {
	db := getDB(r.db, tx)

	var total, verified int64
	if err := db.WithContext(ctx).Model(&models.Household{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count households: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Household{}).Where("is_verified = ?", true).Count(&verified).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count verified households: %w", err)
	}
	return total, verified, nil
}
