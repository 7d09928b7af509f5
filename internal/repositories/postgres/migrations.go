package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
)

const setApplicationStatusProcedure = "set_application_status"

// setApplicationStatusSQL mirrors the Go-side status transition for writers
// outside the service, the demo seeder among them.
const setApplicationStatusSQL = `
CREATE OR REPLACE PROCEDURE set_application_status(
    p_student_id BIGINT,
    p_job_id     BIGINT,
    p_status     VARCHAR
)
LANGUAGE plpgsql
AS $$
BEGIN
    INSERT INTO applications (student_id, job_id, status, applied_on, created_at, updated_at)
    VALUES (
        p_student_id, p_job_id, p_status,
        CASE WHEN p_status = 'applied' THEN NOW() END,
        NOW(), NOW()
    )
    ON CONFLICT (student_id, job_id) DO UPDATE
    SET status = EXCLUDED.status,
        applied_on = CASE
            WHEN EXCLUDED.status = 'applied' AND applications.status <> 'applied' THEN NOW()
            ELSE applications.applied_on
        END,
        updated_at = NOW();
END;
$$`

const createJobPostingSQL = `
CREATE OR REPLACE PROCEDURE create_job_posting(
    p_company_name   VARCHAR,
    p_role           VARCHAR,
    p_description    TEXT,
    p_jd_link        VARCHAR,
    p_deadline_date  DATE,
    p_oa_date        DATE,
    p_interview_date DATE,
    p_posted_by      BIGINT,
    INOUT p_job_id   BIGINT DEFAULT NULL
)
LANGUAGE plpgsql
AS $$
BEGIN
    INSERT INTO job_postings (
        company_name, role, description, jd_link,
        deadline_date, oa_date, interview_date, posted_by,
        created_at, updated_at
    )
    VALUES (
        p_company_name, p_role, p_description, p_jd_link,
        p_deadline_date, p_oa_date, p_interview_date, p_posted_by,
        NOW(), NOW()
    )
    RETURNING job_id INTO p_job_id;
END;
$$`

var procedures = []struct {
	name string
	sql  string
}{
	{name: setApplicationStatusProcedure, sql: setApplicationStatusSQL},
	{name: createJobPostingProcedure, sql: createJobPostingSQL},
}

// Migrate creates or updates the tables and installs the stored procedures.
func Migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.JobPosting{},
		&models.Application{},
		&models.NoteFolder{},
		&models.Note{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate tables: %w", classifyError(err))
	}

	for _, p := range procedures {
		if err := db.WithContext(ctx).Exec(p.sql).Error; err != nil {
			return fmt.Errorf("failed to install procedure %s: %w", p.name, classifyError(err))
		}
	}

	return nil
}
