package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/cache"
	"github.com/swasthsathi/telehealth-service/internal/events"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
	"github.com/swasthsathi/telehealth-service/internal/storage"
	"github.com/swasthsathi/telehealth-service/internal/validator"
)

// Dependencies are the shared infrastructure handed to every service.
type Dependencies struct {
	Sessions  *auth.SessionManager
	Publisher events.EventPublisher
	Cache     *cache.CacheManager
	Files     storage.FileStore
}

// ServiceManagerConfig holds tuning knobs for the service layer.
type ServiceManagerConfig struct {
	EnableDebugLogging bool
	LogLevel           slog.Level
	DefaultTimeout     time.Duration
}

type serviceManager struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	deps      Dependencies
	config    ServiceManagerConfig

	authService         AuthService
	userService         UserService
	consultationService ConsultationService
	chatService         ChatService
	householdService    HouseholdService
	dashboardService    DashboardService
	reportService       ReportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, deps Dependencies, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		deps:      deps,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration.
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, deps Dependencies) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging: false,
		LogLevel:           slog.LevelInfo,
		DefaultTimeout:     30 * time.Second,
	}
	return NewServiceManager(db, repo, logger, validator, deps, config)
}

// Initialize builds all service instances.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.deps.Sessions == nil {
		return fmt.Errorf("session manager is required")
	}
	if sm.deps.Publisher == nil {
		return fmt.Errorf("event publisher is required")
	}
	if sm.deps.Files == nil {
		return fmt.Errorf("file store is required")
	}
	if sm.deps.Cache == nil {
		sm.deps.Cache = cache.NewCacheManager(nil)
	}

	sm.authService = NewAuthService(sm.repo, sm.db, sm.logger, sm.validator, sm.deps.Sessions, sm.deps.Publisher, sm.deps.Cache, sm.deps.Files)
	sm.userService = NewUserService(sm.repo, sm.db, sm.logger, sm.deps.Cache)
	sm.consultationService = NewConsultationService(sm.repo, sm.db, sm.logger, sm.validator, sm.deps.Publisher, sm.deps.Cache, sm.deps.Files)
	sm.chatService = NewChatService(sm.repo, sm.db, sm.logger, sm.validator, sm.deps.Publisher, sm.deps.Files)
	sm.householdService = NewHouseholdService(sm.repo, sm.db, sm.logger, sm.validator, sm.deps.Cache)
	sm.dashboardService = NewDashboardService(sm.repo, sm.db, sm.logger, sm.deps.Cache)
	sm.reportService = NewReportService(sm.repo, sm.logger, sm.dashboardService)

	sm.initialized = true
	sm.logger.Info("Service manager initialized")
	return nil
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.userService
}

func (sm *serviceManager) Consultation() ConsultationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.consultationService
}

func (sm *serviceManager) Chat() ChatService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.chatService
}

func (sm *serviceManager) Household() HouseholdService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.householdService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.dashboardService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.reportService
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}
	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.deps.Publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down")
	return nil
}

// WithTimeout creates a context with the default timeout.
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}
