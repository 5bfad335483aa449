package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (r *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translateError(err))
	}
	return nil
}

func (r *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	db := getDB(r.db, tx)
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	db := getDB(r.db, tx)
	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserPostgreSQL) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	db := getDB(r.db, tx)
	var user models.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *UserPostgreSQL) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", translateError(err))
	}
	return nil
}

func (r *UserPostgreSQL) ListDoctors(ctx context.Context, tx *gorm.DB) ([]*models.DoctorSummary, error) {
	db := getDB(r.db, tx)
	var doctors []*models.DoctorSummary
	err := db.WithContext(ctx).
		Model(&models.User{}).
		Select("id, name, specialty, hospital").
		Where("role = ?", models.RoleDoctor).
		Order("name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *UserPostgreSQL) CountByRole(ctx context.Context, tx *gorm.DB) (map[models.UserRole]int64, error) {
	db := getDB(r.db, tx)

	var rows []struct {
		Role  models.UserRole
		Count int64
	}
	err := db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}

	counts := make(map[models.UserRole]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}
