package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
)

type MCHPostgreSQL struct {
	db *gorm.DB
}

func NewMCHPostgreSQL(db *gorm.DB) repositories.MCHRepository {
	return &MCHPostgreSQL{db: db}
}

func (r *MCHPostgreSQL) Create(ctx context.Context, tx *gorm.DB, record *models.MCHRecord) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create mch record: %w", err)
	}
	return nil
}

func (r *MCHPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.MCHRecord, error) {
	db := getDB(r.db, tx)
	var record models.MCHRecord
	if err := db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &record, nil
}

func (r *MCHPostgreSQL) ListByWorker(ctx context.Context, tx *gorm.DB, ashaID uint, filters repositories.MCHFilters) ([]*models.MCHRecord, int64, error) {
	db := getDB(r.db, tx)
	var records []*models.MCHRecord
	var total int64

	query := db.WithContext(ctx).Model(&models.MCHRecord{}).Where("asha_id = ?", ashaID)
	if filters.RecordType != nil {
		query = query.Where("record_type = ?", *filters.RecordType)
	}
	if filters.PatientID != nil {
		query = query.Where("patient_id = ?", *filters.PatientID)
	}
	if filters.DateFrom != nil {
		query = query.Where("record_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("record_date <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query.Order("record_date DESC"), filters.Limit, filters.Offset)
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *MCHPostgreSQL) SummaryByWorker(ctx context.Context, tx *gorm.DB, ashaID uint) (*models.MCHSummary, error) {
	db := getDB(r.db, tx)

	var rows []struct {
		RecordType string
		Count      int64
	}
	err := db.WithContext(ctx).
		Model(&models.MCHRecord{}).
		Select("record_type, COUNT(*) as count").
		Where("asha_id = ?", ashaID).
		Group("record_type").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize mch records: %w", err)
	}

	summary := &models.MCHSummary{RecordsByType: make(map[string]int64, len(rows))}
	for _, row := range rows {
		summary.RecordsByType[row.RecordType] = row.Count
		summary.Total += row.Count
	}
	return summary, nil
}

func (r *MCHPostgreSQL) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := getDB(r.db, tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.MCHRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count mch records: %w", err)
	}
	return count, nil
}
