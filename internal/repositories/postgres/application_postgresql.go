package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/repositories"
)

type applicationPostgreSQL struct {
	db    *gorm.DB
	store *Store
}

func NewApplicationPostgreSQL(db *gorm.DB) repositories.ApplicationRepository {
	return &applicationPostgreSQL{db: db, store: NewStore(db)}
}

func (r *applicationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).First(&app, "application_id = ?", id).Error; err != nil {
		return nil, wrap("get application", err)
	}
	return &app, nil
}

func (r *applicationPostgreSQL) GetForUpdate(ctx context.Context, studentID, jobID uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ? AND job_id = ?", studentID, jobID).
		First(&app).Error
	if err != nil {
		return nil, wrap("get application for update", err)
	}
	return &app, nil
}

// Insert relies on the (student_id, job_id) unique index. A concurrent insert
// of the same pair makes this a no-op that reports false.
func (r *applicationPostgreSQL) Insert(ctx context.Context, app *models.Application) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "job_id"}},
			DoNothing: true,
		}).
		Create(app)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return false, fmt.Errorf("job posting %d: %w", app.JobID, repositories.ErrNotFound)
		}
		return false, wrap("insert application", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *applicationPostgreSQL) UpdateStatus(ctx context.Context, app *models.Application) error {
	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("application_id = ?", app.ID).
		Updates(map[string]interface{}{
			"status":     app.Status,
			"applied_on": app.AppliedOn,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return wrap("update application status", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("application %d: %w", app.ID, repositories.ErrNotFound)
	}
	return nil
}

func (r *applicationPostgreSQL) ListUpcoming(ctx context.Context, studentID uint, filter repositories.AvailabilityFilter) ([]models.UpcomingDeadline, error) {
	var rows []models.UpcomingDeadline

	err := r.store.Query(ctx, &rows, `
		SELECT a.application_id, j.job_id, j.company_name, j.role,
		       j.deadline_date, j.oa_date, j.interview_date, a.status
		FROM applications a
		JOIN job_postings j ON j.job_id = a.job_id
		WHERE a.student_id = ?
		  AND a.status IN (?, ?)
		  AND j.deadline_date >= ?
		  AND j.deleted_at IS NULL
		ORDER BY j.deadline_date ASC, a.application_id ASC`,
		studentID, models.ApplicationApplied, models.ApplicationToApply, dateParam(filter.Today),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming deadlines: %w", err)
	}

	return rows, nil
}

func (r *applicationPostgreSQL) CountByStatusForStudent(ctx context.Context, studentID uint) ([]models.StatusCount, error) {
	var counts []models.StatusCount

	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Where("student_id = ?", studentID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, wrap("count applications by status", err)
	}

	return counts, nil
}
