package repositories

import "context"

// Repository aggregates all repository interfaces
type Repository interface {
	User() UserRepository
	Job() JobRepository
	Application() ApplicationRepository
	Note() NoteRepository
	Analytics() AnalyticsRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize verifies connectivity and prepares the schema
	Initialize(ctx context.Context) error

	GetRepository() Repository

	HealthCheck(ctx context.Context) error

	Shutdown(ctx context.Context) error
}
