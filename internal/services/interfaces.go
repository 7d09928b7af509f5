package services

import (
	"context"
	"io"
	"time"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/session"
	"github.com/SAP-F-2025/internship-tracker/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

type JobPostingRequest = validator.JobPostingRequest

// StudentDashboard is everything the student page renders in one request.
type StudentDashboard struct {
	Today    time.Time                 `json:"today"`
	Stats    *models.StudentStats      `json:"stats"`
	Jobs     []models.AvailableJob     `json:"jobs"`
	Upcoming []models.UpcomingDeadline `json:"upcoming"`
}

// ApplicationNotes is the full note history of one application, newest first.
// Job is nil once the posting has been archived.
type ApplicationNotes struct {
	Application *models.Application `json:"application"`
	Job         *models.JobPosting  `json:"job,omitempty"`
	Notes       []models.Note       `json:"notes"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, sessionID string) (*session.Session, error)
}

type StudentService interface {
	ListAvailableJobs(ctx context.Context, studentID uint) ([]models.AvailableJob, error)
	ListUpcomingDeadlines(ctx context.Context, studentID uint) ([]models.UpcomingDeadline, error)
	GetStudentStats(ctx context.Context, studentID uint) (*models.StudentStats, error)
	GetDashboard(ctx context.Context, studentID uint) (*StudentDashboard, error)

	// Status transitions, all idempotent
	Apply(ctx context.Context, studentID, jobID uint) (*models.Application, error)
	Ignore(ctx context.Context, studentID, jobID uint) (*models.Application, error)
	MarkDone(ctx context.Context, studentID, jobID uint) (*models.Application, error)
	SaveForLater(ctx context.Context, studentID, jobID uint) (*models.Application, error)

	AddNote(ctx context.Context, applicationID, studentID uint, text string) (*models.Note, error)
	ListNotes(ctx context.Context, applicationID, studentID uint) (*ApplicationNotes, error)
}

type JobService interface {
	ListAllJobs(ctx context.Context) ([]models.JobPostingSummary, error)
	GetJob(ctx context.Context, jobID uint) (*models.JobPosting, error)
	CreateJob(ctx context.Context, req *JobPostingRequest, postedBy uint) (*models.JobPosting, error)
	UpdateJob(ctx context.Context, jobID uint, req *JobPostingRequest, actorID uint) (*models.JobPosting, error)
	DeleteJob(ctx context.Context, jobID uint, actorID uint) error
}

type AnalyticsService interface {
	GetAnalytics(ctx context.Context) (*models.AnalyticsReport, error)
	ExportXLSX(ctx context.Context, w io.Writer) error
}

// ===== SERVICE MANAGER INTERFACE =====

type ServiceManager interface {
	Auth() AuthService
	Student() StudentService
	Job() JobService
	Analytics() AnalyticsService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
