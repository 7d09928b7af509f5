package models

import (
	"time"
)

type ApplicationStatus string

const (
	ApplicationToApply ApplicationStatus = "to_apply"
	ApplicationApplied ApplicationStatus = "applied"
	ApplicationDone    ApplicationStatus = "done"
	ApplicationIgnored ApplicationStatus = "ignored"
)

// AllApplicationStatuses lists statuses in display order.
var AllApplicationStatuses = []ApplicationStatus{
	ApplicationToApply,
	ApplicationApplied,
	ApplicationDone,
	ApplicationIgnored,
}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationToApply, ApplicationApplied, ApplicationDone, ApplicationIgnored:
		return true
	}
	return false
}

func (s ApplicationStatus) Label() string {
	switch s {
	case ApplicationToApply:
		return "To apply"
	case ApplicationApplied:
		return "Applied"
	case ApplicationDone:
		return "Done"
	case ApplicationIgnored:
		return "Ignored"
	}
	return string(s)
}

// Application is the single status record of a student for a posting.
// (student_id, job_id) is unique.
type Application struct {
	ID        uint              `json:"application_id" gorm:"column:application_id;primaryKey"`
	StudentID uint              `json:"student_id" gorm:"not null;uniqueIndex:idx_applications_student_job,priority:1"`
	JobID     uint              `json:"job_id" gorm:"not null;uniqueIndex:idx_applications_student_job,priority:2;index"`
	Status    ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	AppliedOn *time.Time        `json:"applied_on"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	Student *User       `json:"-" gorm:"foreignKey:StudentID;references:ID"`
	Job     *JobPosting `json:"-" gorm:"foreignKey:JobID;references:ID"`
}

func (Application) TableName() string {
	return "applications"
}

type DeadlineUrgency string

const (
	UrgencyUrgent  DeadlineUrgency = "urgent"
	UrgencyWarning DeadlineUrgency = "warning"
	UrgencyNormal  DeadlineUrgency = "normal"
)

// UrgencyFor bands the number of days left before a deadline.
func UrgencyFor(daysUntil int) DeadlineUrgency {
	switch {
	case daysUntil <= 3:
		return UrgencyUrgent
	case daysUntil <= 7:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// UpcomingDeadline is an active application of a student whose posting is still open.
type UpcomingDeadline struct {
	ApplicationID uint              `json:"application_id"`
	JobID         uint              `json:"job_id"`
	CompanyName   string            `json:"company_name"`
	Role          string            `json:"role"`
	DeadlineDate  time.Time         `json:"deadline_date"`
	OADate        time.Time         `json:"oa_date" gorm:"column:oa_date"`
	InterviewDate time.Time         `json:"interview_date"`
	Status        ApplicationStatus `json:"status"`
	DaysUntil     int               `json:"days_until" gorm:"-"`
	Urgency       DeadlineUrgency   `json:"urgency" gorm:"-"`
}

// StatusCount is one row of a grouped count over applications.
type StatusCount struct {
	Status ApplicationStatus `json:"status"`
	Count  int64             `json:"count"`
}
