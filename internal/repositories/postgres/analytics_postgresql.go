package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/repositories"
)

type analyticsRepository struct {
	db    *gorm.DB
	store *Store
}

func NewAnalyticsRepository(db *gorm.DB) repositories.AnalyticsRepository {
	return &analyticsRepository{db: db, store: NewStore(db)}
}

// ApplicationsByCompany includes companies whose postings have no applications.
// Archived postings are left out.
func (r *analyticsRepository) ApplicationsByCompany(ctx context.Context, limit int) ([]models.CompanyApplications, error) {
	var rows []models.CompanyApplications

	err := r.store.Query(ctx, &rows, `
		SELECT j.company_name, COUNT(a.application_id) AS application_count
		FROM job_postings j
		LEFT JOIN applications a ON a.job_id = j.job_id
		WHERE j.deleted_at IS NULL
		GROUP BY j.company_name
		ORDER BY application_count DESC, j.company_name ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get applications by company: %w", err)
	}

	return rows, nil
}

// ApplicationsByStatus counts every application, including those of archived postings.
func (r *analyticsRepository) ApplicationsByStatus(ctx context.Context) ([]models.StatusCount, error) {
	var rows []models.StatusCount

	if err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error; err != nil {
		return nil, wrap("get applications by status", err)
	}

	return rows, nil
}

func (r *analyticsRepository) ApplicationsByMonth(ctx context.Context) ([]models.MonthlyApplications, error) {
	var rows []models.MonthlyApplications

	err := r.store.Query(ctx, &rows, `
		SELECT TO_CHAR(applied_on, 'YYYY-MM') AS month, COUNT(*) AS count
		FROM applications
		WHERE applied_on IS NOT NULL
		GROUP BY TO_CHAR(applied_on, 'YYYY-MM')
		ORDER BY month ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get application timeline: %w", err)
	}

	return rows, nil
}
