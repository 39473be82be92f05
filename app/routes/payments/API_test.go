package payments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"workpay/app/config"
	"workpay/app/models"
	"workpay/app/routes/auth"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

func newTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock, string) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	config.AppConfig = &config.Config{DB: db}

	app := fiber.New()
	SetupPaymentsRoutes(app)

	token, err := auth.GenerateJWT("user-1", "owner@example.com", "Owner", "One", models.RoleOwner)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return app, mock, token
}

func doJSON(t *testing.T, app *fiber.App, token, method, path string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func projectRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "category", "start_date", "end_date", "status", "created_by", "created_at", "updated_at"}).
		AddRow("proj-1", "Site A", "Construction", nil, nil, "Active", "user-1", now, now)
}

func workerRow(id, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "position", "salary", "phone", "card_number", "is_active", "created_by", "created_at", "updated_at"}).
		AddRow(id, name, "Mason", 150.00, "", "", true, "user-1", now, now)
}

func requestRow(status models.PaymentStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "request_id", "project_id", "request_date", "total_amount", "status", "notes",
		"decided_by", "decided_at", "rejection_reason", "version", "created_by", "created_at", "updated_at",
	}).AddRow("pr-1", "PAY-1", "proj-1", now, 5160.00, string(status), nil, nil, nil, nil, 1, "user-1", now, now)
}

func TestCreatePaymentRequestAPI(t *testing.T) {
	app, mock, token := newTestApp(t)

	now := time.Now()
	mock.ExpectQuery("FROM projects").WillReturnRows(projectRow())
	mock.ExpectQuery("FROM workers").WillReturnRows(workerRow("w1", "Jane Doe"))
	mock.ExpectQuery("FROM workers").WillReturnRows(workerRow("w2", "John Roe"))
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO payment_requests").
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).
			AddRow("pr-1", 1, now, now))
	mock.ExpectQuery("INSERT INTO payment_request_lines").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("line-1", now))
	mock.ExpectQuery("INSERT INTO payment_request_lines").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("line-2", now))
	mock.ExpectCommit()

	resp := doJSON(t, app, token, "POST", "/api/payments/", fiber.Map{
		"request_id":   "PAY-1",
		"project_id":   "proj-1",
		"request_date": "2025-01-15",
		"lines": []fiber.Map{
			{"worker_id": "w1", "days_worked": 20, "allowance_per_day": 150.00},
			{"worker_id": "w2", "days_worked": 18, "allowance_per_day": 120.00},
		},
	})
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body struct {
		Request models.PaymentRequest `json:"request"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Request.TotalAmount != 5160.00 {
		t.Errorf("expected total 5160.00, got %v", body.Request.TotalAmount)
	}
	if len(body.Request.Lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(body.Request.Lines))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreatePaymentRequestAPI_NoLines(t *testing.T) {
	app, _, token := newTestApp(t)

	resp := doJSON(t, app, token, "POST", "/api/payments/", fiber.Map{
		"request_id": "PAY-1",
		"project_id": "proj-1",
		"lines":      []fiber.Map{},
	})
	if resp.StatusCode != 400 {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreatePaymentRequestAPI_DuplicateRequestID(t *testing.T) {
	app, mock, token := newTestApp(t)

	mock.ExpectQuery("FROM projects").WillReturnRows(projectRow())
	mock.ExpectQuery("FROM workers").WillReturnRows(workerRow("w1", "Jane Doe"))
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO payment_requests").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	resp := doJSON(t, app, token, "POST", "/api/payments/", fiber.Map{
		"request_id": "PAY-1",
		"project_id": "proj-1",
		"lines": []fiber.Map{
			{"worker_id": "w1", "days_worked": 20, "allowance_per_day": 150.00},
		},
	})
	if resp.StatusCode != 409 {
		t.Errorf("expected 409, got %d", resp.StatusCode)
	}
}

func TestApprovePaymentRequestAPI_NonPending(t *testing.T) {
	app, mock, token := newTestApp(t)

	mock.ExpectQuery("FROM payment_requests WHERE request_id").
		WillReturnRows(requestRow(models.PaymentApproved))

	resp := doJSON(t, app, token, "POST", "/api/payments/PAY-1/approve", nil)
	if resp.StatusCode != 422 {
		t.Errorf("expected 422, got %d", resp.StatusCode)
	}
}

func TestRejectPaymentRequestAPI_MissingReason(t *testing.T) {
	app, _, token := newTestApp(t)

	resp := doJSON(t, app, token, "POST", "/api/payments/PAY-1/reject", fiber.Map{})
	if resp.StatusCode != 400 {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestProcessPaymentRequestsAPI_EmptyBatch(t *testing.T) {
	app, _, token := newTestApp(t)

	resp := doJSON(t, app, token, "POST", "/api/payments/process", fiber.Map{
		"request_ids": []string{},
	})
	if resp.StatusCode != 400 {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestProcessPaymentRequestsAPI_SupervisorForbidden(t *testing.T) {
	app, _, _ := newTestApp(t)

	token, err := auth.GenerateJWT("user-2", "sup@example.com", "Sup", "Visor", models.RoleSupervisor)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	resp := doJSON(t, app, token, "POST", "/api/payments/process", fiber.Map{
		"request_ids": []string{"PAY-1"},
	})
	if resp.StatusCode != 403 {
		t.Errorf("expected 403, got %d", resp.StatusCode)
	}
}

func TestPaymentsAPI_Unauthorized(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doJSON(t, app, "", "GET", "/api/payments/", nil)
	if resp.StatusCode != 401 {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}
