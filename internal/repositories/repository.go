package repositories

import "context"

// Repository aggregates all domain repositories.
type Repository interface {
	User() UserRepository
	Consultation() ConsultationRepository
	Chat() ChatRepository
	Household() HouseholdRepository
	MCH() MCHRepository
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
