package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleFaculty UserRole = "faculty"
	RoleAdmin   UserRole = "admin"
)

// Portal is the dashboard a user lands on after login. It is chosen once per session.
type Portal string

const (
	PortalStudent Portal = "student"
	PortalFaculty Portal = "faculty"
)

type User struct {
	ID           uint      `json:"user_id" gorm:"column:user_id;primaryKey"`
	Name         string    `json:"name" gorm:"not null;size:100"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null;size:255"`
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;index"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// CanManageJobs reports whether the role may post, edit and delete jobs and view analytics.
func (r UserRole) CanManageJobs() bool {
	return r == RoleFaculty || r == RoleAdmin
}

// PortalFor maps a role to its dashboard. Unknown roles get no portal.
func PortalFor(role UserRole) (Portal, bool) {
	switch role {
	case RoleStudent:
		return PortalStudent, true
	case RoleFaculty, RoleAdmin:
		return PortalFaculty, true
	}
	return "", false
}

// HomePath returns the landing route of the portal.
func (p Portal) HomePath() string {
	switch p {
	case PortalStudent:
		return "/student"
	case PortalFaculty:
		return "/faculty/jobs"
	}
	return "/login"
}
