package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/internship-tracker/internal/cache"
	"github.com/SAP-F-2025/internship-tracker/internal/events"
	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/repositories"
	"github.com/SAP-F-2025/internship-tracker/internal/validator"
)

type jobService struct {
	repo      repositories.Repository
	cache     *cache.CacheHelper
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewJobService(repo repositories.Repository, reportCache *cache.CacheHelper, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) JobService {
	return &jobService{
		repo:      repo,
		cache:     reportCache,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *jobService) ListAllJobs(ctx context.Context) ([]models.JobPostingSummary, error) {
	jobs, err := s.repo.Job().ListWithApplicationCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (s *jobService) GetJob(ctx context.Context, jobID uint) (*models.JobPosting, error) {
	job, err := s.repo.Job().GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// CreateJob validates the form before touching the store.
func (s *jobService) CreateJob(ctx context.Context, req *JobPostingRequest, postedBy uint) (*models.JobPosting, error) {
	s.logger.Info("Creating job posting", "company", req.CompanyName, "posted_by", postedBy)

	if verrs := s.validator.Business().ValidateJobPosting(req); len(verrs) > 0 {
		return nil, validationFailed(verrs)
	}

	job := &models.JobPosting{PostedBy: postedBy}
	req.ApplyTo(job)

	if err := s.repo.Job().Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Info("Job posting created", "job_id", job.ID, "company", job.CompanyName)
	cache.InvalidateAnalytics(ctx, s.cache)
	publishEvent(ctx, s.publisher, s.logger, events.NewEvent(events.JobCreated, jobEventData(job, postedBy)))
	return job, nil
}

// UpdateJob replaces every editable field. Concurrent edits are last-write-wins.
func (s *jobService) UpdateJob(ctx context.Context, jobID uint, req *JobPostingRequest, actorID uint) (*models.JobPosting, error) {
	if verrs := s.validator.Business().ValidateJobPosting(req); len(verrs) > 0 {
		return nil, validationFailed(verrs)
	}

	job, err := s.repo.Job().GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	req.ApplyTo(job)
	if err := s.repo.Job().Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	s.logger.Info("Job posting updated", "job_id", job.ID, "actor_id", actorID)
	cache.InvalidateAnalytics(ctx, s.cache)
	publishEvent(ctx, s.publisher, s.logger, events.NewEvent(events.JobUpdated, jobEventData(job, actorID)))
	return job, nil
}

// DeleteJob archives the posting. Its applications and notes are kept for analytics.
func (s *jobService) DeleteJob(ctx context.Context, jobID uint, actorID uint) error {
	if err := s.repo.Job().Delete(ctx, jobID); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	s.logger.Info("Job posting deleted", "job_id", jobID, "actor_id", actorID)
	cache.InvalidateAnalytics(ctx, s.cache)
	publishEvent(ctx, s.publisher, s.logger, events.NewEvent(events.JobDeleted, events.JobData{JobID: jobID, ActorID: actorID}))
	return nil
}

func jobEventData(job *models.JobPosting, actorID uint) events.JobData {
	return events.JobData{
		JobID:       job.ID,
		CompanyName: job.CompanyName,
		Role:        job.Role,
		ActorID:     actorID,
	}
}
