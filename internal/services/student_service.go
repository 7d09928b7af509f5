package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/internship-tracker/internal/cache"
	"github.com/SAP-F-2025/internship-tracker/internal/events"
	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/repositories"
	"github.com/SAP-F-2025/internship-tracker/internal/validator"
)

// ===== SERVICE IMPLEMENTATION =====

type studentService struct {
	repo      repositories.Repository
	cache     *cache.CacheHelper
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	now       Clock
}

func NewStudentService(repo repositories.Repository, reportCache *cache.CacheHelper, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, now Clock) StudentService {
	if now == nil {
		now = time.Now
	}
	return &studentService{
		repo:      repo,
		cache:     reportCache,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		now:       now,
	}
}

func (s *studentService) today() repositories.AvailabilityFilter {
	return repositories.AvailabilityFilter{Today: dateOf(s.now())}
}

// ListAvailableJobs returns open postings with the student's own status and latest note.
func (s *studentService) ListAvailableJobs(ctx context.Context, studentID uint) ([]models.AvailableJob, error) {
	jobs, err := s.repo.Job().ListAvailableForStudent(ctx, studentID, s.today())
	if err != nil {
		return nil, fmt.Errorf("failed to list available jobs: %w", err)
	}
	return jobs, nil
}

// ListUpcomingDeadlines returns the student's active applications ordered by
// deadline, banded by how soon the deadline is.
func (s *studentService) ListUpcomingDeadlines(ctx context.Context, studentID uint) ([]models.UpcomingDeadline, error) {
	filter := s.today()

	upcoming, err := s.repo.Application().ListUpcoming(ctx, studentID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming deadlines: %w", err)
	}

	for i := range upcoming {
		days := daysBetween(filter.Today, upcoming[i].DeadlineDate)
		upcoming[i].DaysUntil = days
		upcoming[i].Urgency = models.UrgencyFor(days)
	}
	return upcoming, nil
}

func (s *studentService) GetStudentStats(ctx context.Context, studentID uint) (*models.StudentStats, error) {
	total, err := s.repo.Job().CountAvailable(ctx, s.today())
	if err != nil {
		return nil, fmt.Errorf("failed to count available jobs: %w", err)
	}

	counts, err := s.repo.Application().CountByStatusForStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	stats := &models.StudentStats{TotalJobs: total}
	for _, c := range counts {
		switch c.Status {
		case models.ApplicationApplied:
			stats.Applied = c.Count
		case models.ApplicationDone:
			stats.Done = c.Count
		case models.ApplicationToApply:
			stats.ToApply = c.Count
		case models.ApplicationIgnored:
			stats.Ignored = c.Count
		}
	}
	return stats, nil
}

func (s *studentService) GetDashboard(ctx context.Context, studentID uint) (*StudentDashboard, error) {
	stats, err := s.GetStudentStats(ctx, studentID)
	if err != nil {
		return nil, err
	}

	jobs, err := s.ListAvailableJobs(ctx, studentID)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.ListUpcomingDeadlines(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &StudentDashboard{
		Today:    dateOf(s.now()),
		Stats:    stats,
		Jobs:     jobs,
		Upcoming: upcoming,
	}, nil
}

// ===== STATUS TRANSITIONS =====

func (s *studentService) Apply(ctx context.Context, studentID, jobID uint) (*models.Application, error) {
	return s.setStatus(ctx, studentID, jobID, models.ApplicationApplied)
}

func (s *studentService) Ignore(ctx context.Context, studentID, jobID uint) (*models.Application, error) {
	return s.setStatus(ctx, studentID, jobID, models.ApplicationIgnored)
}

func (s *studentService) MarkDone(ctx context.Context, studentID, jobID uint) (*models.Application, error) {
	return s.setStatus(ctx, studentID, jobID, models.ApplicationDone)
}

func (s *studentService) SaveForLater(ctx context.Context, studentID, jobID uint) (*models.Application, error) {
	return s.setStatus(ctx, studentID, jobID, models.ApplicationToApply)
}

// setStatus upserts the (student, job) row under a row lock. A lost insert race
// falls through to the update path against the winner's row.
func (s *studentService) setStatus(ctx context.Context, studentID, jobID uint, status models.ApplicationStatus) (*models.Application, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidationFailed, status)
	}

	now := s.now().UTC()
	var (
		result   *models.Application
		previous models.ApplicationStatus
		changed  bool
	)

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Job().GetByID(ctx, jobID); err != nil {
			return fmt.Errorf("failed to get job: %w", err)
		}

		current, err := tx.Application().GetForUpdate(ctx, studentID, jobID)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			fresh := &models.Application{StudentID: studentID, JobID: jobID}
			transition(fresh, status, now)

			inserted, err := tx.Application().Insert(ctx, fresh)
			if err != nil {
				return fmt.Errorf("failed to insert application: %w", err)
			}
			if inserted {
				result, changed = fresh, true
				return nil
			}

			current, err = tx.Application().GetForUpdate(ctx, studentID, jobID)
			if err != nil {
				return fmt.Errorf("failed to reload application: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to lock application: %w", err)
		}

		previous = current.Status
		if previous == status {
			result = current
			return nil
		}

		transition(current, status, now)
		if err := tx.Application().UpdateStatus(ctx, current); err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}
		result, changed = current, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("Application status changed",
			"application_id", result.ID,
			"student_id", studentID,
			"job_id", jobID,
			"previous_status", previous,
			"status", status)

		cache.InvalidateAnalytics(ctx, s.cache)
		s.publish(ctx, events.NewEvent(events.ApplicationStatusChanged, events.ApplicationStatusChangedData{
			ApplicationID:  result.ID,
			StudentID:      studentID,
			JobID:          jobID,
			PreviousStatus: string(previous),
			Status:         string(status),
			AppliedOn:      result.AppliedOn,
		}))
	}
	return result, nil
}

// transition moves app to next. applied_on is stamped only on entry into applied.
func transition(app *models.Application, next models.ApplicationStatus, now time.Time) {
	if next == models.ApplicationApplied && app.Status != models.ApplicationApplied {
		appliedOn := now
		app.AppliedOn = &appliedOn
	}
	app.Status = next
}

// ===== NOTES =====

func (s *studentService) AddNote(ctx context.Context, applicationID, studentID uint, text string) (*models.Note, error) {
	req := &validator.NoteRequest{NoteText: text}
	if verrs := s.validator.Business().ValidateNote(req); len(verrs) > 0 {
		return nil, validationFailed(verrs)
	}

	if _, err := s.ownedApplication(ctx, applicationID, studentID); err != nil {
		return nil, err
	}

	var note *models.Note
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		folder, err := tx.Note().EnsureFolder(ctx, studentID, models.DefaultNoteFolder)
		if err != nil {
			return fmt.Errorf("failed to ensure note folder: %w", err)
		}

		note = &models.Note{
			ApplicationID: applicationID,
			StudentID:     studentID,
			FolderID:      folder.ID,
			NoteText:      req.NoteText,
		}
		if err := tx.Note().Create(ctx, note); err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Note added", "note_id", note.ID, "application_id", applicationID, "student_id", studentID)
	s.publish(ctx, events.NewEvent(events.NoteAdded, events.NoteAddedData{
		NoteID:        note.ID,
		ApplicationID: applicationID,
		StudentID:     studentID,
		FolderID:      note.FolderID,
	}))
	return note, nil
}

// ListNotes returns every note of one of the student's applications.
func (s *studentService) ListNotes(ctx context.Context, applicationID, studentID uint) (*ApplicationNotes, error) {
	app, err := s.ownedApplication(ctx, applicationID, studentID)
	if err != nil {
		return nil, err
	}

	notes, err := s.repo.Note().ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	history := &ApplicationNotes{Application: app, Notes: notes}
	job, err := s.repo.Job().GetByID(ctx, app.JobID)
	switch {
	case err == nil:
		history.Job = job
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return history, nil
}

func (s *studentService) ownedApplication(ctx context.Context, applicationID, studentID uint) (*models.Application, error) {
	app, err := s.repo.Application().GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app.StudentID != studentID {
		return nil, fmt.Errorf("%w: application %d belongs to another student", ErrForbidden, applicationID)
	}
	return app, nil
}

func (s *studentService) publish(ctx context.Context, event *events.Event) {
	publishEvent(ctx, s.publisher, s.logger, event)
}
