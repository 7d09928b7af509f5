package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DateLayout is the form and display layout for posting dates.
const DateLayout = "2006-01-02"

type JobPosting struct {
	ID            uint           `json:"job_id" gorm:"column:job_id;primaryKey"`
	CompanyName   string         `json:"company_name" gorm:"not null;size:255;index"`
	Role          string         `json:"role" gorm:"not null;size:255"`
	Description   string         `json:"description" gorm:"type:text;not null"`
	JDLink        *string        `json:"jd_link" gorm:"column:jd_link;size:500"`
	DeadlineDate  datatypes.Date `json:"deadline_date" gorm:"not null;index"`
	OADate        datatypes.Date `json:"oa_date" gorm:"column:oa_date;not null"`
	InterviewDate datatypes.Date `json:"interview_date" gorm:"not null"`
	PostedBy      uint           `json:"posted_by" gorm:"not null;index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Poster *User `json:"poster,omitempty" gorm:"foreignKey:PostedBy;references:ID"`
}

func (JobPosting) TableName() string {
	return "job_postings"
}

// JobPostingSummary is a posting as listed on the faculty dashboard.
type JobPostingSummary struct {
	JobID            uint      `json:"job_id"`
	CompanyName      string    `json:"company_name"`
	Role             string    `json:"role"`
	Description      string    `json:"description"`
	JDLink           *string   `json:"jd_link" gorm:"column:jd_link"`
	DeadlineDate     time.Time `json:"deadline_date"`
	OADate           time.Time `json:"oa_date" gorm:"column:oa_date"`
	InterviewDate    time.Time `json:"interview_date"`
	PostedBy         uint      `json:"posted_by"`
	PostedByName     *string   `json:"posted_by_name"`
	ApplicationCount int64     `json:"application_count"`
}

// AvailableJob is an open posting joined with the viewing student's own
// application and that application's most recent note, if any.
type AvailableJob struct {
	JobID         uint               `json:"job_id"`
	CompanyName   string             `json:"company_name"`
	Role          string             `json:"role"`
	Description   string             `json:"description"`
	JDLink        *string            `json:"jd_link" gorm:"column:jd_link"`
	DeadlineDate  time.Time          `json:"deadline_date"`
	OADate        time.Time          `json:"oa_date" gorm:"column:oa_date"`
	InterviewDate time.Time          `json:"interview_date"`
	ApplicationID *uint              `json:"application_id"`
	Status        *ApplicationStatus `json:"status"`
	AppliedOn     *time.Time         `json:"applied_on"`
	LatestNote    *string            `json:"latest_note"`
	LatestNoteAt  *time.Time         `json:"latest_note_at"`
}

func (j AvailableJob) HasApplication() bool {
	return j.ApplicationID != nil
}

// CurrentStatus returns the student's status for the posting, empty when untouched.
func (j AvailableJob) CurrentStatus() ApplicationStatus {
	if j.Status == nil {
		return ""
	}
	return *j.Status
}
