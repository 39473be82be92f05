package database

import (
	"testing"
	"workpay/app/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGetAttendanceStats(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM attendance_records a").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "present", "absent", "late", "half_day", "avg_rating"}).
			AddRow(7, 4, 1, 1, 1, 4.333333333333333))

	stats, err := GetAttendanceStats(db, &models.AttendanceFilters{OwnerID: "user-1"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	// 4 present + 1 late out of 7 days
	if stats.AttendanceRate != 71.43 {
		t.Errorf("expected rate 71.43, got %v", stats.AttendanceRate)
	}
	if stats.AverageRating != 4.33 {
		t.Errorf("expected average rating 4.33, got %v", stats.AverageRating)
	}
}

func TestGetAttendanceStats_NoRecords(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM attendance_records a").
		WillReturnRows(sqlmock.NewRows([]string{"total", "present", "absent", "late", "half_day", "avg_rating"}).
			AddRow(0, 0, 0, 0, 0, 0.0))

	stats, err := GetAttendanceStats(db, &models.AttendanceFilters{OwnerID: "user-1"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if stats.AttendanceRate != 0 || stats.AverageRating != 0 {
		t.Errorf("expected zero stats for empty ledger, got rate=%v avg=%v", stats.AttendanceRate, stats.AverageRating)
	}
}

func TestGetPaymentStats(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM payment_requests pr").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "approved", "rejected", "processed", "committed"}).
			AddRow(5, 2, 1, 1, 1, 5260.504))

	stats, err := GetPaymentStats(db, &models.PaymentFilters{OwnerID: "user-1"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if stats.Pending != 2 || stats.Approved != 1 || stats.Rejected != 1 || stats.Processed != 1 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.CommittedAmount != 5260.5 {
		t.Errorf("expected committed amount 5260.5, got %v", stats.CommittedAmount)
	}
}

func TestGetDashboardStats(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM workers").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("FROM projects").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("FROM attendance_records a").
		WillReturnRows(sqlmock.NewRows([]string{"total", "present", "absent", "late", "half_day", "avg_rating"}).
			AddRow(10, 10, 0, 0, 0, 5.0))
	mock.ExpectQuery("FROM payment_requests pr").
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "approved", "rejected", "processed", "committed"}).
			AddRow(1, 1, 0, 0, 0, 0.0))

	stats, err := GetDashboardStats(db, "user-1")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if stats.TotalWorkers != 12 || stats.TotalProjects != 3 {
		t.Errorf("unexpected totals: workers=%d projects=%d", stats.TotalWorkers, stats.TotalProjects)
	}
	if stats.Attendance.AttendanceRate != 100 {
		t.Errorf("expected attendance rate 100, got %v", stats.Attendance.AttendanceRate)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
