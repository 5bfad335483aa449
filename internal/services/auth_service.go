package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/cache"
	"github.com/swasthsathi/telehealth-service/internal/events"
	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
	"github.com/swasthsathi/telehealth-service/internal/storage"
	"github.com/swasthsathi/telehealth-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	sessions  *auth.SessionManager
	publisher events.EventPublisher
	cache     *cache.CacheManager
	files     storage.FileStore
}

func NewAuthService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, sessions *auth.SessionManager, publisher events.EventPublisher, cacheManager *cache.CacheManager, files storage.FileStore) AuthService {
	return &authService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		sessions:  sessions,
		publisher: publisher,
		cache:     cacheManager,
		files:     files,
	}
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	s.logger.Info("Registering user", "email", req.Email, "role", req.Role)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		Specialty:    req.Specialty,
		Hospital:     req.Hospital,
		Age:          req.Age,
		Gender:       req.Gender,
		PhoneNumber:  req.PhoneNumber,
		AbhaID:       req.AbhaID,
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.UserRegistered, events.UserRegisteredEvent{
		UserID: user.ID,
		Role:   string(user.Role),
	}); err != nil {
		s.logger.Warn("Failed to publish registration event", "error", err, "user_id", user.ID)
	}

	if user.Role == models.RoleDoctor {
		s.cache.InvalidateDoctors(ctx)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, "", err
	}

	user, err := s.lookupByIdentifier(ctx, req.Identifier)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, auth.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to open session: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// lookupByIdentifier treats identifiers containing '@' as emails and
// everything else as usernames.
func (s *authService) lookupByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return s.repo.User().GetByEmail(ctx, nil, strings.ToLower(identifier))
	}
	return s.repo.User().GetByUsername(ctx, nil, identifier)
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

func (s *authService) UpdateProfilePhoto(ctx context.Context, identity auth.Identity, photo *FileUpload) (*models.User, error) {
	if photo == nil {
		return nil, ErrFileRequired
	}

	user, err := s.repo.User().GetByID(ctx, nil, identity.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	storedName, err := s.files.Save(ctx, photo.Filename, photo.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store profile photo: %w", err)
	}

	previous := user.ProfilePhotoFilename
	user.ProfilePhotoFilename = &storedName
	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to update profile photo: %w", err)
	}

	if previous != nil {
		if err := s.files.Delete(ctx, *previous); err != nil {
			s.logger.Warn("Failed to delete previous profile photo", "error", err, "filename", *previous)
		}
	}
	return user, nil
}
