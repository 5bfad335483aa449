package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
)

type ConsultationPostgreSQL struct {
	db *gorm.DB
}

func NewConsultationPostgreSQL(db *gorm.DB) repositories.ConsultationRepository {
	return &ConsultationPostgreSQL{db: db}
}

func (r *ConsultationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, consultation *models.Consultation) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(consultation).Error; err != nil {
		return fmt.Errorf("failed to create consultation: %w", err)
	}
	return nil
}

func (r *ConsultationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Consultation, error) {
	db := getDB(r.db, tx)
	var consultation models.Consultation
	if err := db.WithContext(ctx).Preload("Doctor").First(&consultation, id).Error; err != nil {
		return nil, translateError(err)
	}
	fillDoctorName(&consultation)
	return &consultation, nil
}

func (r *ConsultationPostgreSQL) ListPending(ctx context.Context, tx *gorm.DB) ([]*models.Consultation, error) {
	db := getDB(r.db, tx)
	var consultations []*models.Consultation
	err := db.WithContext(ctx).
		Where("status = ?", models.StatusPending).
		Order("created_at ASC").
		Find(&consultations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending consultations: %w", err)
	}
	return consultations, nil
}

func (r *ConsultationPostgreSQL) ListByPatient(ctx context.Context, tx *gorm.DB, patientID uint, filters repositories.ConsultationFilters) ([]*models.Consultation, int64, error) {
	return r.list(ctx, tx, "patient_id = ?", patientID, filters)
}

func (r *ConsultationPostgreSQL) ListByDoctor(ctx context.Context, tx *gorm.DB, doctorID uint, filters repositories.ConsultationFilters) ([]*models.Consultation, int64, error) {
	return r.list(ctx, tx, "doctor_id = ?", doctorID, filters)
}

func (r *ConsultationPostgreSQL) list(ctx context.Context, tx *gorm.DB, cond string, id uint, filters repositories.ConsultationFilters) ([]*models.Consultation, int64, error) {
	db := getDB(r.db, tx)
	var consultations []*models.Consultation
	var total int64

	query := db.WithContext(ctx).Model(&models.Consultation{}).Where(cond, id)
	query = applyConsultationFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query.Order("created_at DESC"), filters.Limit, filters.Offset)
	if err := query.Preload("Doctor").Find(&consultations).Error; err != nil {
		return nil, 0, err
	}

	for _, c := range consultations {
		fillDoctorName(c)
	}
	return consultations, total, nil
}

// Claim moves a pending consultation to Under Review for exactly one doctor.
// The status guard in the WHERE clause makes concurrent claims race on the
// row update; every loser sees zero affected rows.
func (r *ConsultationPostgreSQL) Claim(ctx context.Context, tx *gorm.DB, id, doctorID uint) error {
	db := getDB(r.db, tx)

	result := db.WithContext(ctx).
		Model(&models.Consultation{}).
		Where("id = ? AND status = ? AND doctor_id IS NULL", id, models.StatusPending).
		Updates(map[string]interface{}{
			"doctor_id": doctorID,
			"status":    models.StatusUnderReview,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to claim consultation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Consultation{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check consultation: %w", err)
		}
		if count == 0 {
			return repositories.ErrNotFound
		}
		return repositories.ErrAlreadyClaimed
	}
	return nil
}

// Respond closes an Under Review consultation owned by the doctor. The
// doctor_id guard keeps one doctor from answering another doctor's case.
func (r *ConsultationPostgreSQL) Respond(ctx context.Context, tx *gorm.DB, id, doctorID uint, response string, audioFilename *string) error {
	db := getDB(r.db, tx)

	updates := map[string]interface{}{
		"doctor_response": response,
		"status":          models.StatusReviewed,
	}
	if audioFilename != nil {
		updates["audio_note_filename"] = *audioFilename
	}

	result := db.WithContext(ctx).
		Model(&models.Consultation{}).
		Where("id = ? AND doctor_id = ? AND status = ?", id, doctorID, models.StatusUnderReview).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to respond to consultation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Consultation{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check consultation: %w", err)
		}
		if count == 0 {
			return repositories.ErrNotFound
		}
		return repositories.ErrNotAssigned
	}
	return nil
}

func (r *ConsultationPostgreSQL) CountByStatus(ctx context.Context, tx *gorm.DB) (map[models.ConsultationStatus]int64, error) {
	db := getDB(r.db, tx)

	var rows []struct {
		Status models.ConsultationStatus
		Count  int64
	}
	err := db.WithContext(ctx).
		Model(&models.Consultation{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count consultations by status: %w", err)
	}

	counts := make(map[models.ConsultationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func applyConsultationFilters(query *gorm.DB, filters repositories.ConsultationFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func fillDoctorName(c *models.Consultation) {
	if c.Doctor != nil {
		c.DoctorName = c.Doctor.Name
	}
}
