package database

import (
	"database/sql"
	"testing"
	"time"
	"workpay/app/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

var paymentColumns = []string{
	"id", "request_id", "project_id", "request_date", "total_amount", "status", "notes",
	"decided_by", "decided_at", "rejection_reason", "version", "created_by", "created_at", "updated_at",
}

func paymentRow(id, requestID string, status models.PaymentStatus, version int, total float64, createdBy string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(paymentColumns).
		AddRow(id, requestID, "proj-1", now, total, string(status), nil, nil, nil, nil, version, createdBy, now, now)
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	return db, mock
}

func TestCreatePaymentRequest_Atomic(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	requestDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	request := &models.PaymentRequest{
		RequestID:   "PAY-1",
		ProjectID:   "proj-1",
		RequestDate: requestDate,
		CreatedBy:   "user-1",
		Lines: []*models.PaymentRequestLine{
			{WorkerID: "w1", DaysWorked: 20, AllowancePerDay: 150.00},
			{WorkerID: "w2", DaysWorked: 18, AllowancePerDay: 120.00},
		},
	}

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO payment_requests").
		WithArgs("PAY-1", "proj-1", requestDate, 5160.00, "Pending", nil, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).
			AddRow("pr-1", 1, now, now))
	mock.ExpectQuery("INSERT INTO payment_request_lines").
		WithArgs("pr-1", "w1", 20, 150.00, 3000.00).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("line-1", now))
	mock.ExpectQuery("INSERT INTO payment_request_lines").
		WithArgs("pr-1", "w2", 18, 120.00, 2160.00).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("line-2", now))
	mock.ExpectCommit()

	if err := CreatePaymentRequest(db, request); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if request.TotalAmount != 5160.00 {
		t.Errorf("expected total 5160.00, got %v", request.TotalAmount)
	}
	if request.Status != models.PaymentPending {
		t.Errorf("expected status Pending, got %s", request.Status)
	}
	if request.Lines[0].LineTotal != 3000.00 || request.Lines[1].LineTotal != 2160.00 {
		t.Errorf("unexpected line totals: %v, %v", request.Lines[0].LineTotal, request.Lines[1].LineTotal)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreatePaymentRequest_DuplicateRequestID(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	request := &models.PaymentRequest{
		RequestID: "PAY-1",
		ProjectID: "proj-1",
		CreatedBy: "user-1",
		Lines:     []*models.PaymentRequestLine{{WorkerID: "w1", DaysWorked: 1, AllowancePerDay: 10}},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO payment_requests").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	if err := CreatePaymentRequest(db, request); err != models.ErrConflict {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreatePaymentRequest_LineFailureRollsBack(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	request := &models.PaymentRequest{
		RequestID: "PAY-1",
		ProjectID: "proj-1",
		CreatedBy: "user-1",
		Lines:     []*models.PaymentRequestLine{{WorkerID: "w1", DaysWorked: 1, AllowancePerDay: 10}},
	}

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO payment_requests").
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).
			AddRow("pr-1", 1, now, now))
	mock.ExpectQuery("INSERT INTO payment_request_lines").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	if err := CreatePaymentRequest(db, request); err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApprovePaymentRequest(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WithArgs("PAY-1", "user-1").
		WillReturnRows(paymentRow("pr-1", "PAY-1", models.PaymentPending, 3, 5160.00, "user-1"))
	mock.ExpectQuery("UPDATE payment_requests").
		WithArgs("Approved", "user-1", nil, "pr-1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"decided_at", "rejection_reason", "version", "updated_at"}).
			AddRow(now, nil, 4, now))

	request, err := ApprovePaymentRequest(db, "PAY-1", "user-1", "user-1")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if request.Status != models.PaymentApproved {
		t.Errorf("expected status Approved, got %s", request.Status)
	}
	if request.DecidedBy == nil || *request.DecidedBy != "user-1" {
		t.Errorf("expected decided_by user-1, got %v", request.DecidedBy)
	}
	if request.Version != 4 {
		t.Errorf("expected version 4, got %d", request.Version)
	}
	if request.TotalAmount != 5160.00 {
		t.Errorf("approval must not touch the total, got %v", request.TotalAmount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApprovePaymentRequest_NotFound(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WillReturnRows(sqlmock.NewRows(paymentColumns))

	if _, err := ApprovePaymentRequest(db, "PAY-404", "user-1", "user-1"); err != models.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestApprovePaymentRequest_AlreadyDecided(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WillReturnRows(paymentRow("pr-1", "PAY-1", models.PaymentApproved, 4, 5160.00, "user-1"))

	if _, err := ApprovePaymentRequest(db, "PAY-1", "user-1", "user-1"); err != models.ErrInvalidState {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no update must run for a decided request: %v", err)
	}
}

func TestApprovePaymentRequest_VersionConflict(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WillReturnRows(paymentRow("pr-1", "PAY-1", models.PaymentPending, 1, 5160.00, "user-1"))
	mock.ExpectQuery("UPDATE payment_requests").
		WillReturnRows(sqlmock.NewRows([]string{"decided_at", "rejection_reason", "version", "updated_at"}))

	if _, err := ApprovePaymentRequest(db, "PAY-1", "user-1", "user-1"); err != models.ErrConflict {
		t.Errorf("expected ErrConflict when the version check loses, got %v", err)
	}
}

func TestRejectPaymentRequest(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WillReturnRows(paymentRow("pr-1", "PAY-1", models.PaymentPending, 1, 2160.00, "user-1"))
	mock.ExpectQuery("UPDATE payment_requests").
		WithArgs("Rejected", "user-1", "rates disputed", "pr-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"decided_at", "rejection_reason", "version", "updated_at"}).
			AddRow(now, "rates disputed", 2, now))

	request, err := RejectPaymentRequest(db, "PAY-1", "user-1", "user-1", "rates disputed")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if request.Status != models.PaymentRejected {
		t.Errorf("expected status Rejected, got %s", request.Status)
	}
	if request.RejectionReason == nil || *request.RejectionReason != "rates disputed" {
		t.Errorf("expected rejection reason to be recorded, got %v", request.RejectionReason)
	}
	// The decision actor is recorded for rejections too.
	if request.DecidedBy == nil || *request.DecidedBy != "user-1" {
		t.Errorf("expected decided_by user-1, got %v", request.DecidedBy)
	}
}

func TestProcessPaymentRequests(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WithArgs("PAY-1").
		WillReturnRows(paymentRow("pr-1", "PAY-1", models.PaymentApproved, 2, 5160.00, "user-1"))
	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WithArgs("PAY-2").
		WillReturnRows(paymentRow("pr-2", "PAY-2", models.PaymentApproved, 5, 100.50, "user-1"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payment_requests").
		WithArgs("Processed", "pr-1", 2, "Approved").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE payment_requests").
		WithArgs("Processed", "pr-2", 5, "Approved").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	processed, total, err := ProcessPaymentRequests(db, "user-1", []string{"PAY-1", "PAY-2"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(processed) != 2 {
		t.Fatalf("expected 2 processed requests, got %d", len(processed))
	}
	if total != 5260.50 {
		t.Errorf("expected total 5260.50, got %v", total)
	}
	for _, r := range processed {
		if r.Status != models.PaymentProcessed {
			t.Errorf("expected %s to be Processed, got %s", r.RequestID, r.Status)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestProcessPaymentRequests_AllOrNothing(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	// PAY-1 is valid but PAY-2 is still Pending: nothing may be mutated.
	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WithArgs("PAY-1").
		WillReturnRows(paymentRow("pr-1", "PAY-1", models.PaymentApproved, 2, 5160.00, "user-1"))
	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WithArgs("PAY-2").
		WillReturnRows(paymentRow("pr-2", "PAY-2", models.PaymentPending, 1, 100.00, "user-1"))

	if _, _, err := ProcessPaymentRequests(db, "user-1", []string{"PAY-1", "PAY-2"}); err != models.ErrInvalidState {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no transaction must start when validation fails: %v", err)
	}
}

func TestProcessPaymentRequests_Forbidden(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WillReturnRows(paymentRow("pr-1", "PAY-1", models.PaymentApproved, 2, 5160.00, "someone-else"))

	if _, _, err := ProcessPaymentRequests(db, "user-1", []string{"PAY-1"}); err != models.ErrForbidden {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestProcessPaymentRequests_NotFound(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WillReturnRows(sqlmock.NewRows(paymentColumns))

	if _, _, err := ProcessPaymentRequests(db, "user-1", []string{"PAY-404"}); err != models.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProcessPaymentRequests_EmptyBatch(t *testing.T) {
	db, _ := newMock(t)
	defer db.Close()

	if _, _, err := ProcessPaymentRequests(db, "user-1", nil); err != models.ErrValidation {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestProcessPaymentRequests_ConcurrentConflict(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WillReturnRows(paymentRow("pr-1", "PAY-1", models.PaymentApproved, 2, 5160.00, "user-1"))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payment_requests").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if _, _, err := ProcessPaymentRequests(db, "user-1", []string{"PAY-1"}); err != models.ErrConflict {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeletePaymentRequest_Pending(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WillReturnRows(paymentRow("pr-1", "PAY-1", models.PaymentPending, 1, 500.00, "user-1"))
	mock.ExpectExec("DELETE FROM payment_requests").
		WithArgs("pr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := DeletePaymentRequest(db, "PAY-1", "user-1"); err != nil {
		t.Errorf("expected success, got %v", err)
	}
}

func TestDeletePaymentRequest_NonPending(t *testing.T) {
	db, mock := newMock(t)
	defer db.Close()

	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WillReturnRows(paymentRow("pr-1", "PAY-1", models.PaymentProcessed, 3, 500.00, "user-1"))

	if err := DeletePaymentRequest(db, "PAY-1", "user-1"); err != models.ErrInvalidState {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no delete must run for a processed request: %v", err)
	}
}
