package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/utils"
)

type demoUser struct {
	name     string
	email    string
	password string
	role     models.UserRole
}

var demoUsers = []demoUser{
	{name: "Asha Sharma", email: "asha.sharma@student.college.edu", password: "STUDENT1", role: models.RoleStudent},
	{name: "Prof. Mehta", email: "mehta.faculty@college.edu", password: "FACULTY123", role: models.RoleFaculty},
	{name: "Placement Admin", email: "admin@college.edu", password: "ADMIN123", role: models.RoleAdmin},
}

type demoJob struct {
	company     string
	role        string
	description string
	link        string
	deadlineIn  int
	oaIn        int
	interviewIn int
	// Demo student's status, empty for untouched postings
	status models.ApplicationStatus
}

var demoJobs = []demoJob{
	{"Infosys", "Software Engineering Intern", "Summer internship on the digital platforms team.", "https://www.infosys.com/careers", 2, 5, 12, models.ApplicationApplied},
	{"TCS", "Data Analyst Intern", "Analyse delivery metrics and build dashboards.", "", 6, 9, 16, models.ApplicationToApply},
	{"Zoho", "Backend Developer Intern", "Work on service APIs for the CRM suite.", "https://careers.zohocorp.com", 14, 18, 25, ""},
	{"Flipkart", "SDE Intern", "Six month internship with the supply chain group.", "https://www.flipkartcareers.com", 21, 24, 30, ""},
}

// SeedDemoData installs the demo accounts and, when the board is empty, a few
// open postings with statuses for the demo student. Existing demo accounts
// get their password reset.
func SeedDemoData(ctx context.Context, db *gorm.DB, now time.Time, logger *slog.Logger) error {
	users := NewUserPostgreSQL(db)

	var facultyID, studentID uint
	for _, du := range demoUsers {
		hash, err := utils.HashPassword(du.password)
		if err != nil {
			return fmt.Errorf("failed to hash demo password: %w", err)
		}

		user := &models.User{Name: du.name, Email: du.email, PasswordHash: hash, Role: du.role}
		if err := users.EnsureUser(ctx, user); err != nil {
			return err
		}
		stored, err := users.GetByEmail(ctx, du.email)
		if err != nil {
			return err
		}
		switch du.role {
		case models.RoleFaculty:
			facultyID = stored.ID
		case models.RoleStudent:
			studentID = stored.ID
		}
	}

	var existing int64
	if err := db.WithContext(ctx).Model(&models.JobPosting{}).Count(&existing).Error; err != nil {
		return wrap("count job postings", err)
	}
	if existing > 0 {
		logger.Info("Demo accounts seeded, postings already present", "users", len(demoUsers))
		return nil
	}

	jobs := NewJobPostgreSQL(db)
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	store := NewStore(db)
	for _, dj := range demoJobs {
		job := &models.JobPosting{
			CompanyName:   dj.company,
			Role:          dj.role,
			Description:   dj.description,
			DeadlineDate:  datatypes.Date(today.AddDate(0, 0, dj.deadlineIn)),
			OADate:        datatypes.Date(today.AddDate(0, 0, dj.oaIn)),
			InterviewDate: datatypes.Date(today.AddDate(0, 0, dj.interviewIn)),
			PostedBy:      facultyID,
		}
		if dj.link != "" {
			link := dj.link
			job.JDLink = &link
		}
		if err := jobs.Create(ctx, job); err != nil {
			return err
		}
		if dj.status == "" {
			continue
		}
		if err := store.CallProcedure(ctx, setApplicationStatusProcedure, studentID, job.ID, string(dj.status)); err != nil {
			return fmt.Errorf("failed to seed demo application: %w", err)
		}
	}

	logger.Info("Demo data seeded", "users", len(demoUsers), "jobs", len(demoJobs))
	return nil
}
