package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
)

type ChatPostgreSQL struct {
	db *gorm.DB
}

func NewChatPostgreSQL(db *gorm.DB) repositories.ChatRepository {
	return &ChatPostgreSQL{db: db}
}

// FindOrCreateThread inserts the pair row with ON CONFLICT DO NOTHING, then
// reads back whichever row won. The unique index on (patient_id, doctor_id)
// guarantees at most one thread per pair under concurrent first messages.
func (r *ChatPostgreSQL) FindOrCreateThread(ctx context.Context, tx *gorm.DB, patientID, doctorID uint) (*models.ChatThread, error) {
	db := getDB(r.db, tx)

	thread := models.ChatThread{PatientID: patientID, DoctorID: doctorID}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&thread).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create chat thread: %w", err)
	}

	if thread.ID == 0 {
		// Conflict path: another request created the thread first.
		err = db.WithContext(ctx).
			Where("patient_id = ? AND doctor_id = ?", patientID, doctorID).
			First(&thread).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load chat thread: %w", translateError(err))
		}
	}
	return &thread, nil
}

func (r *ChatPostgreSQL) GetThread(ctx context.Context, tx *gorm.DB, id uint) (*models.ChatThread, error) {
	db := getDB(r.db, tx)
	var thread models.ChatThread
	if err := db.WithContext(ctx).First(&thread, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &thread, nil
}

func (r *ChatPostgreSQL) ListThreadsByUser(ctx context.Context, tx *gorm.DB, userID uint, role models.UserRole) ([]*models.ThreadSummary, error) {
	db := getDB(r.db, tx)

	var threads []*models.ChatThread
	query := db.WithContext(ctx).Preload("Patient").Preload("Doctor").Order("created_at DESC")
	switch role {
	case models.RoleDoctor:
		query = query.Where("doctor_id = ?", userID)
	default:
		query = query.Where("patient_id = ?", userID)
	}
	if err := query.Find(&threads).Error; err != nil {
		return nil, fmt.Errorf("failed to list chat threads: %w", err)
	}

	summaries := make([]*models.ThreadSummary, 0, len(threads))
	for _, t := range threads {
		summaries = append(summaries, &models.ThreadSummary{
			ID:          t.ID,
			PatientID:   t.PatientID,
			DoctorID:    t.DoctorID,
			PatientName: t.Patient.Name,
			DoctorName:  t.Doctor.Name,
			CreatedAt:   t.CreatedAt,
		})
	}
	return summaries, nil
}

func (r *ChatPostgreSQL) CreateMessage(ctx context.Context, tx *gorm.DB, message *models.ChatMessage) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

func (r *ChatPostgreSQL) ListMessages(ctx context.Context, tx *gorm.DB, threadID uint) ([]*models.ChatMessage, error) {
	db := getDB(r.db, tx)
	var messages []*models.ChatMessage
	err := db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("sent_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}

func (r *ChatPostgreSQL) CountThreads(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := getDB(r.db, tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.ChatThread{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count chat threads: %w", err)
	}
	return count, nil
}

func (r *ChatPostgreSQL) CountMessages(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := getDB(r.db, tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.ChatMessage{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count chat messages: %w", err)
	}
	return count, nil
}
