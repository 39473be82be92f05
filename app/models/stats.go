package models

// AttendanceStats are read-only aggregates over attendance records.
type AttendanceStats struct {
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Late           int     `json:"late"`
	HalfDay        int     `json:"half_day"`
	AttendanceRate float64 `json:"attendance_rate"` // (present+late)/total*100, 0 when total is 0
	AverageRating  float64 `json:"average_rating"`  // over non-null ratings, 0 when none
}

// PaymentStats are read-only aggregates over payment requests.
type PaymentStats struct {
	Total           int     `json:"total"`
	Pending         int     `json:"pending"`
	Approved        int     `json:"approved"`
	Rejected        int     `json:"rejected"`
	Processed       int     `json:"processed"`
	CommittedAmount float64 `json:"committed_amount"` // sum over Approved + Processed
}

// DashboardStats combines the aggregates for the dashboard endpoint.
type DashboardStats struct {
	TotalWorkers  int              `json:"total_workers"`
	TotalProjects int              `json:"total_projects"`
	Attendance    *AttendanceStats `json:"attendance"`
	Payments      *PaymentStats    `json:"payments"`
}
