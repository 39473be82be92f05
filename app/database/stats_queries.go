package database

import (
	"database/sql"
	"workpay/app/models"
)

// GetAttendanceStats aggregates attendance counts, the attendance rate and
// the average rating under the same filters QueryAttendance uses, so the
// numbers always agree with what a listing would show.
func GetAttendanceStats(db *sql.DB, f *models.AttendanceFilters) (*models.AttendanceStats, error) {
	whereClause, args := attendanceWhere(f)

	query := `SELECT COUNT(*),
			  COUNT(*) FILTER (WHERE a.status = 'Present'),
			  COUNT(*) FILTER (WHERE a.status = 'Absent'),
			  COUNT(*) FILTER (WHERE a.status = 'Late'),
			  COUNT(*) FILTER (WHERE a.status = 'Half Day'),
			  COALESCE(AVG(a.rating), 0)
			  FROM attendance_records a WHERE ` + whereClause

	stats := &models.AttendanceStats{}
	err := db.QueryRow(query, args...).Scan(
		&stats.Total, &stats.Present, &stats.Absent, &stats.Late, &stats.HalfDay, &stats.AverageRating,
	)
	if err != nil {
		return nil, err
	}

	if stats.Total > 0 {
		stats.AttendanceRate = models.Round2(float64(stats.Present+stats.Late) / float64(stats.Total) * 100)
	}
	stats.AverageRating = models.Round2(stats.AverageRating)
	return stats, nil
}

// GetPaymentStats aggregates per-status counts and the committed amount
// (money already approved or disbursed) under the same filters
// ListPaymentRequests uses.
func GetPaymentStats(db *sql.DB, f *models.PaymentFilters) (*models.PaymentStats, error) {
	whereClause, args := paymentWhere(f)

	query := `SELECT COUNT(*),
			  COUNT(*) FILTER (WHERE pr.status = 'Pending'),
			  COUNT(*) FILTER (WHERE pr.status = 'Approved'),
			  COUNT(*) FILTER (WHERE pr.status = 'Rejected'),
			  COUNT(*) FILTER (WHERE pr.status = 'Processed'),
			  COALESCE(SUM(pr.total_amount) FILTER (WHERE pr.status IN ('Approved', 'Processed')), 0)
			  FROM payment_requests pr WHERE ` + whereClause

	stats := &models.PaymentStats{}
	err := db.QueryRow(query, args...).Scan(
		&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected, &stats.Processed, &stats.CommittedAmount,
	)
	if err != nil {
		return nil, err
	}
	stats.CommittedAmount = models.Round2(stats.CommittedAmount)
	return stats, nil
}

// GetDashboardStats returns the combined aggregates for one account.
func GetDashboardStats(db *sql.DB, ownerID string) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	err := db.QueryRow(`SELECT COUNT(*) FROM workers WHERE created_by = $1 AND is_active = true`, ownerID).
		Scan(&stats.TotalWorkers)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow(`SELECT COUNT(*) FROM projects WHERE created_by = $1`, ownerID).
		Scan(&stats.TotalProjects)
	if err != nil {
		return nil, err
	}

	stats.Attendance, err = GetAttendanceStats(db, &models.AttendanceFilters{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	stats.Payments, err = GetPaymentStats(db, &models.PaymentFilters{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
