package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// AvailabilityFilter selects postings that are still open on Today.
// Today is a calendar date at UTC midnight.
type AvailabilityFilter struct {
	Today time.Time
}

// ===== REPOSITORY INTERFACES =====

// UserRepository reads user records. Users are provisioned outside the app.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Upsert by email, used by the demo seeder
	EnsureUser(ctx context.Context, user *models.User) error
}

// JobRepository manages postings. Deleted postings are archived, not removed.
type JobRepository interface {
	Create(ctx context.Context, job *models.JobPosting) error
	Update(ctx context.Context, job *models.JobPosting) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.JobPosting, error)

	ListWithApplicationCounts(ctx context.Context) ([]models.JobPostingSummary, error)
	ListAvailableForStudent(ctx context.Context, studentID uint, filter AvailabilityFilter) ([]models.AvailableJob, error)
	CountAvailable(ctx context.Context, filter AvailabilityFilter) (int64, error)
}

// ApplicationRepository manages the (student, job) status rows.
type ApplicationRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	// Locks the row until the surrounding transaction ends
	GetForUpdate(ctx context.Context, studentID, jobID uint) (*models.Application, error)
	// Insert reports false when a row for the pair already exists
	Insert(ctx context.Context, app *models.Application) (bool, error)
	UpdateStatus(ctx context.Context, app *models.Application) error

	ListUpcoming(ctx context.Context, studentID uint, filter AvailabilityFilter) ([]models.UpcomingDeadline, error)
	CountByStatusForStudent(ctx context.Context, studentID uint) ([]models.StatusCount, error)
}

type NoteRepository interface {
	// Returns the named folder, creating it on first use
	EnsureFolder(ctx context.Context, studentID uint, name string) (*models.NoteFolder, error)
	Create(ctx context.Context, note *models.Note) error
	ListByApplication(ctx context.Context, applicationID uint) ([]models.Note, error)
}

// AnalyticsRepository aggregates application data across all students.
type AnalyticsRepository interface {
	ApplicationsByCompany(ctx context.Context, limit int) ([]models.CompanyApplications, error)
	ApplicationsByStatus(ctx context.Context) ([]models.StatusCount, error)
	ApplicationsByMonth(ctx context.Context) ([]models.MonthlyApplications, error)
}
