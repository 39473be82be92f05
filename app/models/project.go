package models

import "time"

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "Active"
	ProjectCompleted ProjectStatus = "Completed"
	ProjectOnHold    ProjectStatus = "On Hold"
	ProjectCancelled ProjectStatus = "Cancelled"
)

func ParseProjectStatus(s string) (ProjectStatus, bool) {
	switch ProjectStatus(s) {
	case ProjectActive, ProjectCompleted, ProjectOnHold, ProjectCancelled:
		return ProjectStatus(s), true
	}
	return "", false
}

type Project struct {
	ID        string        `json:"id" validate:"required,uuid"`
	Name      string        `json:"name" validate:"required"`
	Category  string        `json:"category,omitempty"`
	StartDate *time.Time    `json:"start_date,omitempty"`
	EndDate   *time.Time    `json:"end_date,omitempty"`
	Status    ProjectStatus `json:"status"`
	CreatedBy string        `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
