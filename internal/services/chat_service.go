package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/events"
	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
	"github.com/swasthsathi/telehealth-service/internal/storage"
	"github.com/swasthsathi/telehealth-service/internal/validator"
)

type chatService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	files     storage.FileStore
}

func NewChatService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, files storage.FileStore) ChatService {
	return &chatService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		files:     files,
	}
}

// OpenThread resolves the (patient, doctor) pair from the caller's role and
// returns the pair's single thread, creating it on first contact.
func (s *chatService) OpenThread(ctx context.Context, identity auth.Identity, counterpartID uint) (*models.ChatThread, error) {
	if counterpartID == identity.UserID {
		return nil, ErrSelfThread
	}

	counterpart, err := s.repo.User().GetByID(ctx, nil, counterpartID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up counterpart: %w", err)
	}

	var patientID, doctorID uint
	switch identity.Role {
	case models.RolePatient:
		if counterpart.Role != models.RoleDoctor {
			return nil, ErrNotADoctor
		}
		patientID, doctorID = identity.UserID, counterpartID
	case models.RoleDoctor:
		if counterpart.Role != models.RolePatient {
			return nil, NewPermissionError(identity.UserID, counterpartID, "chat_thread", "open", "doctors chat with patients only")
		}
		patientID, doctorID = counterpartID, identity.UserID
	default:
		return nil, NewPermissionError(identity.UserID, counterpartID, "chat_thread", "open", "patient or doctor role required")
	}

	thread, err := s.repo.Chat().FindOrCreateThread(ctx, nil, patientID, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat thread: %w", err)
	}
	return thread, nil
}

func (s *chatService) SendMessage(ctx context.Context, identity auth.Identity, threadID uint, req *models.SendMessageRequest, attachment *FileUpload) (*models.ChatMessage, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hasText := req.Text != nil && *req.Text != ""
	if !hasText && attachment == nil {
		return nil, ErrEmptyMessage
	}

	thread, err := s.getThreadForParticipant(ctx, identity, threadID, "send")
	if err != nil {
		return nil, err
	}

	message := &models.ChatMessage{
		ThreadID: thread.ID,
		SenderID: identity.UserID,
	}
	if hasText {
		message.Text = req.Text
	}

	if attachment != nil {
		storedName, err := s.files.Save(ctx, attachment.Filename, attachment.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		message.FilePath = &storedName

		meta, err := json.Marshal(map[string]interface{}{
			"original_name": attachment.Filename,
			"size":          attachment.Size,
			"content_type":  attachment.ContentType,
		})
		if err == nil {
			message.FileMeta = meta
		}
	}

	if err := s.repo.Chat().CreateMessage(ctx, nil, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.ChatMessageSent, events.ChatMessageEvent{
		ThreadID:  thread.ID,
		MessageID: message.ID,
		SenderID:  identity.UserID,
		HasFile:   message.FilePath != nil,
	}); err != nil {
		s.logger.Warn("Failed to publish chat event", "error", err, "thread_id", thread.ID)
	}

	return message, nil
}

func (s *chatService) ListMessages(ctx context.Context, identity auth.Identity, threadID uint) ([]*models.ChatMessage, error) {
	if _, err := s.getThreadForParticipant(ctx, identity, threadID, "read"); err != nil {
		return nil, err
	}
	return s.repo.Chat().ListMessages(ctx, nil, threadID)
}

func (s *chatService) ListThreads(ctx context.Context, identity auth.Identity) ([]*models.ThreadSummary, error) {
	if identity.Role != models.RolePatient && identity.Role != models.RoleDoctor {
		return nil, NewPermissionError(identity.UserID, 0, "chat_thread", "list", "patient or doctor role required")
	}
	return s.repo.Chat().ListThreadsByUser(ctx, nil, identity.UserID, identity.Role)
}

func (s *chatService) getThreadForParticipant(ctx context.Context, identity auth.Identity, threadID uint, action string) (*models.ChatThread, error) {
	thread, err := s.repo.Chat().GetThread(ctx, nil, threadID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to get chat thread: %w", err)
	}
	if !thread.IsParticipant(identity.UserID) {
		return nil, NewPermissionError(identity.UserID, threadID, "chat_thread", action, "not a participant")
	}
	return thread, nil
}
