package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/repositories"
)

const createJobPostingProcedure = "create_job_posting"

type jobPostgreSQL struct {
	db    *gorm.DB
	store *Store
}

func NewJobPostgreSQL(db *gorm.DB) repositories.JobRepository {
	return &jobPostgreSQL{db: db, store: NewStore(db)}
}

// Create inserts through the create_job_posting procedure and fills job.ID.
func (r *jobPostgreSQL) Create(ctx context.Context, job *models.JobPosting) error {
	var out struct {
		JobID uint `gorm:"column:p_job_id"`
	}

	err := r.store.CallProcedureInto(ctx, &out, createJobPostingProcedure,
		job.CompanyName,
		job.Role,
		job.Description,
		job.JDLink,
		job.DeadlineDate,
		job.OADate,
		job.InterviewDate,
		job.PostedBy,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to create job posting: %w", err)
	}
	if out.JobID == 0 {
		return fmt.Errorf("failed to create job posting: %w", repositories.ErrQuery)
	}

	job.ID = out.JobID
	return nil
}

// Update replaces every editable field. Last write wins.
func (r *jobPostgreSQL) Update(ctx context.Context, job *models.JobPosting) error {
	affected, err := r.store.Exec(ctx, `
		UPDATE job_postings
		SET company_name = ?, role = ?, description = ?, jd_link = ?,
		    deadline_date = ?, oa_date = ?, interview_date = ?, updated_at = NOW()
		WHERE job_id = ? AND deleted_at IS NULL`,
		job.CompanyName, job.Role, job.Description, job.JDLink,
		job.DeadlineDate, job.OADate, job.InterviewDate, job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job posting: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("job posting %d: %w", job.ID, repositories.ErrNotFound)
	}
	return nil
}

// Delete archives the posting. Its applications and notes are kept.
func (r *jobPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.JobPosting{}, "job_id = ?", id)
	if result.Error != nil {
		return wrap("delete job posting", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job posting %d: %w", id, repositories.ErrNotFound)
	}
	return nil
}

func (r *jobPostgreSQL) GetByID(ctx context.Context, id uint) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := r.db.WithContext(ctx).First(&job, "job_id = ?", id).Error; err != nil {
		return nil, wrap("get job posting", err)
	}
	return &job, nil
}

func (r *jobPostgreSQL) ListWithApplicationCounts(ctx context.Context) ([]models.JobPostingSummary, error) {
	var jobs []models.JobPostingSummary

	err := r.db.WithContext(ctx).
		Table("job_postings AS j").
		Select(`j.job_id, j.company_name, j.role, j.description, j.jd_link,
			j.deadline_date, j.oa_date, j.interview_date, j.posted_by,
			u.name AS posted_by_name,
			COUNT(a.application_id) AS application_count`).
		Joins("LEFT JOIN users u ON u.user_id = j.posted_by").
		Joins("LEFT JOIN applications a ON a.job_id = j.job_id").
		Where("j.deleted_at IS NULL").
		Group("j.job_id, u.name").
		Order("j.deadline_date DESC, j.job_id DESC").
		Scan(&jobs).Error
	if err != nil {
		return nil, wrap("list job postings", err)
	}

	return jobs, nil
}

func (r *jobPostgreSQL) ListAvailableForStudent(ctx context.Context, studentID uint, filter repositories.AvailabilityFilter) ([]models.AvailableJob, error) {
	var jobs []models.AvailableJob

	err := r.store.Query(ctx, &jobs, `
		SELECT j.job_id, j.company_name, j.role, j.description, j.jd_link,
		       j.deadline_date, j.oa_date, j.interview_date,
		       a.application_id, a.status, a.applied_on,
		       n.note_text AS latest_note, n.created_at AS latest_note_at
		FROM job_postings j
		LEFT JOIN applications a ON a.job_id = j.job_id AND a.student_id = ?
		LEFT JOIN LATERAL (
		    SELECT note_text, created_at
		    FROM notes
		    WHERE notes.application_id = a.application_id
		    ORDER BY created_at DESC, note_id DESC
		    LIMIT 1
		) n ON TRUE
		WHERE j.deleted_at IS NULL AND j.deadline_date >= ?
		ORDER BY j.deadline_date ASC, j.job_id ASC`,
		studentID, dateParam(filter.Today),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list available jobs: %w", err)
	}

	return jobs, nil
}

func (r *jobPostgreSQL) CountAvailable(ctx context.Context, filter repositories.AvailabilityFilter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.JobPosting{}).
		Where("deadline_date >= ?", dateParam(filter.Today)).
		Count(&count).Error
	if err != nil {
		return 0, wrap("count available jobs", err)
	}
	return count, nil
}

func dateParam(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
