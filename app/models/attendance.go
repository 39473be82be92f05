package models

import "time"

type AttendanceStatus string

const (
	Present AttendanceStatus = "Present"
	Absent  AttendanceStatus = "Absent"
	Late    AttendanceStatus = "Late"
	HalfDay AttendanceStatus = "Half Day"
)

func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch AttendanceStatus(s) {
	case Present, Absent, Late, HalfDay:
		return AttendanceStatus(s), true
	}
	return "", false
}

// AttendanceRecord is one day's presence fact for a worker on a project.
// The (worker, project, date) tuple is unique.
type AttendanceRecord struct {
	ID        string           `json:"id" validate:"required,uuid"`
	WorkerID  string           `json:"worker_id" validate:"required,uuid"`
	ProjectID string           `json:"project_id" validate:"required,uuid"`
	Date      time.Time        `json:"date" validate:"required"`
	Status    AttendanceStatus `json:"status" validate:"required"`
	CheckIn   *string          `json:"check_in,omitempty"`  // "HH:MM"
	CheckOut  *string          `json:"check_out,omitempty"` // "HH:MM"
	Rating    *int             `json:"rating,omitempty"`    // 1..5, supervisor applied
	Comments  *string          `json:"comments,omitempty"`
	CreatedBy string           `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Enriched display fields (list queries only)
	WorkerName     string `json:"worker_name,omitempty"`
	WorkerPosition string `json:"worker_position,omitempty"`
	ProjectName    string `json:"project_name,omitempty"`
	OwnerName      string `json:"owner_name,omitempty"`
}

// AttendanceUpdate carries the fields Update may amend. Nil means unchanged.
type AttendanceUpdate struct {
	Status   *AttendanceStatus
	CheckIn  *string
	CheckOut *string
	Rating   *int
	Comments *string
}

// AttendanceFilters scope list queries and aggregates alike.
type AttendanceFilters struct {
	OwnerID   string
	WorkerID  string
	ProjectID string
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
