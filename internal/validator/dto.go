package validator

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
)

const MaxNoteLength = 2000

// LoginRequest is the posted login form
type LoginRequest struct {
	Email    string `form:"email" validate:"required,not_blank,max=255"`
	Password string `form:"password" validate:"required,max=72"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// JobPostingRequest is the create and edit form for a posting. Dates use the
// YYYY-MM-DD layout of HTML date inputs.
type JobPostingRequest struct {
	CompanyName   string `form:"company_name" validate:"required,not_blank,max=255"`
	Role          string `form:"role" validate:"required,not_blank,max=255"`
	Description   string `form:"description" validate:"required,not_blank,max=5000"`
	JDLink        string `form:"jd_link" validate:"omitempty,url,max=500"`
	DeadlineDate  string `form:"deadline_date" validate:"required,job_date"`
	OADate        string `form:"oa_date" validate:"required,job_date"`
	InterviewDate string `form:"interview_date" validate:"required,job_date"`
}

func (r *JobPostingRequest) Normalize() {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.Role = strings.TrimSpace(r.Role)
	r.Description = strings.TrimSpace(r.Description)
	r.JDLink = strings.TrimSpace(r.JDLink)
	r.DeadlineDate = strings.TrimSpace(r.DeadlineDate)
	r.OADate = strings.TrimSpace(r.OADate)
	r.InterviewDate = strings.TrimSpace(r.InterviewDate)
}

// ApplyTo copies the validated form onto job. Call only after validation passed.
func (r *JobPostingRequest) ApplyTo(job *models.JobPosting) {
	job.CompanyName = r.CompanyName
	job.Role = r.Role
	job.Description = r.Description
	job.JDLink = nil
	if r.JDLink != "" {
		link := r.JDLink
		job.JDLink = &link
	}
	job.DeadlineDate = mustDate(r.DeadlineDate)
	job.OADate = mustDate(r.OADate)
	job.InterviewDate = mustDate(r.InterviewDate)
}

// JobPostingFormFrom fills the edit form from a stored posting.
func JobPostingFormFrom(job *models.JobPosting) JobPostingRequest {
	form := JobPostingRequest{
		CompanyName:   job.CompanyName,
		Role:          job.Role,
		Description:   job.Description,
		DeadlineDate:  time.Time(job.DeadlineDate).Format(models.DateLayout),
		OADate:        time.Time(job.OADate).Format(models.DateLayout),
		InterviewDate: time.Time(job.InterviewDate).Format(models.DateLayout),
	}
	if job.JDLink != nil {
		form.JDLink = *job.JDLink
	}
	return form
}

// NoteRequest is the note form attached to an application
type NoteRequest struct {
	NoteText string `form:"note_text" validate:"note_text"`
}

func (r *NoteRequest) Normalize() {
	r.NoteText = strings.TrimSpace(r.NoteText)
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, s, time.UTC)
}

func mustDate(s string) datatypes.Date {
	t, err := parseDate(s)
	if err != nil {
		return datatypes.Date{}
	}
	return datatypes.Date(t)
}
