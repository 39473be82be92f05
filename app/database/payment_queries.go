package database

import (
	"database/sql"
	"fmt"
	"strings"
	"workpay/app/models"
)

// CreatePaymentRequest inserts the request header and all of its lines in a
// single transaction so a partial write can never corrupt the total-amount
// invariant. The total is computed here, once, and never recomputed.
// A reused request id returns models.ErrConflict.
func CreatePaymentRequest(db *sql.DB, request *models.PaymentRequest) error {
	request.TotalAmount = models.RequestTotal(request.Lines)
	request.Status = models.PaymentPending

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	queryRequest := `INSERT INTO payment_requests (request_id, project_id, request_date, total_amount, status, notes, created_by)
					 VALUES ($1, $2, $3, $4, $5, $6, $7)
					 RETURNING id, version, created_at, updated_at`
	err = tx.QueryRow(queryRequest,
		request.RequestID, request.ProjectID, request.RequestDate, request.TotalAmount,
		request.Status, request.Notes, request.CreatedBy,
	).Scan(&request.ID, &request.Version, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrConflict
		}
		return fmt.Errorf("failed to insert payment request: %v", err)
	}

	queryLine := `INSERT INTO payment_request_lines (payment_request_id, worker_id, days_worked, allowance_per_day, line_total)
				  VALUES ($1, $2, $3, $4, $5)
				  RETURNING id, created_at`
	for _, line := range request.Lines {
		line.PaymentRequest = request.ID
		err = tx.QueryRow(queryLine,
			request.ID, line.WorkerID, line.DaysWorked, line.AllowancePerDay, line.LineTotal,
		).Scan(&line.ID, &line.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert payment request line: %v", err)
		}
	}

	return tx.Commit()
}

const paymentRequestColumns = `id, request_id, project_id, request_date, total_amount, status, notes,
			  decided_by, decided_at, rejection_reason, version, created_by, created_at, updated_at`

func scanPaymentRequest(row *sql.Row) (*models.PaymentRequest, error) {
	r := &models.PaymentRequest{}
	err := row.Scan(
		&r.ID, &r.RequestID, &r.ProjectID, &r.RequestDate, &r.TotalAmount, &r.Status, &r.Notes,
		&r.DecidedBy, &r.DecidedAt, &r.RejectionReason, &r.Version, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetPaymentRequest loads by the caller-supplied request id regardless of
// owner. Returns (nil, nil) when absent.
func GetPaymentRequest(db *sql.DB, requestID string) (*models.PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + ` FROM payment_requests WHERE request_id = $1`
	return scanPaymentRequest(db.QueryRow(query, requestID))
}

// GetPaymentRequestForOwner loads by request id within the owner's scope.
// Returns (nil, nil) when absent or foreign, so ownership failures surface
// as not-found.
func GetPaymentRequestForOwner(db *sql.DB, requestID, ownerID string) (*models.PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + ` FROM payment_requests WHERE request_id = $1 AND created_by = $2`
	return scanPaymentRequest(db.QueryRow(query, requestID, ownerID))
}

// GetPaymentRequestWithLines returns the request plus its enriched line items.
func GetPaymentRequestWithLines(db *sql.DB, requestID, ownerID string) (*models.PaymentRequest, error) {
	request, err := GetPaymentRequestForOwner(db, requestID, ownerID)
	if err != nil || request == nil {
		return request, err
	}

	query := `SELECT l.id, l.payment_request_id, l.worker_id, l.days_worked, l.allowance_per_day, l.line_total, l.created_at,
			  w.name, w.position
			  FROM payment_request_lines l
			  JOIN workers w ON l.worker_id = w.id
			  WHERE l.payment_request_id = $1
			  ORDER BY l.created_at ASC, l.id ASC`

	rows, err := db.Query(query, request.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	request.Lines = make([]*models.PaymentRequestLine, 0)
	for rows.Next() {
		l := &models.PaymentRequestLine{}
		err := rows.Scan(
			&l.ID, &l.PaymentRequest, &l.WorkerID, &l.DaysWorked, &l.AllowancePerDay, &l.LineTotal, &l.CreatedAt,
			&l.WorkerName, &l.WorkerPosition,
		)
		if err != nil {
			return nil, err
		}
		request.Lines = append(request.Lines, l)
	}
	return request, rows.Err()
}

// decidePaymentRequest flips a Pending request to the given decision status.
// The update is conditioned on the version observed at read time; losing a
// race returns models.ErrConflict (retryable), while an already-decided
// request returns models.ErrInvalidState.
func decidePaymentRequest(db *sql.DB, requestID, ownerID, actorID string, status models.PaymentStatus, reason *string) (*models.PaymentRequest, error) {
	request, err := GetPaymentRequestForOwner(db, requestID, ownerID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, models.ErrNotFound
	}
	if !request.Status.CanDecide() {
		return nil, models.ErrInvalidState
	}

	query := `UPDATE payment_requests
			  SET status = $1, decided_by = $2, decided_at = NOW(), rejection_reason = $3, version = version + 1, updated_at = NOW()
			  WHERE id = $4 AND version = $5
			  RETURNING decided_at, rejection_reason, version, updated_at`
	err = db.QueryRow(query, status, actorID, reason, request.ID, request.Version).
		Scan(&request.DecidedAt, &request.RejectionReason, &request.Version, &request.UpdatedAt)
	if err == sql.ErrNoRows {
		// A concurrent decision committed first.
		return nil, models.ErrConflict
	}
	if err != nil {
		return nil, err
	}

	request.Status = status
	request.DecidedBy = &actorID
	return request, nil
}

// ApprovePaymentRequest moves Pending → Approved. The total amount is untouched.
func ApprovePaymentRequest(db *sql.DB, requestID, ownerID, actorID string) (*models.PaymentRequest, error) {
	return decidePaymentRequest(db, requestID, ownerID, actorID, models.PaymentApproved, nil)
}

// RejectPaymentRequest moves Pending → Rejected and records the reason. The
// decision actor fields are set the same way as for approvals.
func RejectPaymentRequest(db *sql.DB, requestID, ownerID, actorID, reason string) (*models.PaymentRequest, error) {
	return decidePaymentRequest(db, requestID, ownerID, actorID, models.PaymentRejected, &reason)
}

// ProcessPaymentRequests marks a batch of Approved requests as Processed.
// Every id is validated before anything is mutated, and the mutation phase
// runs in one transaction, so a batch is never partially processed. Returns
// the processed requests and the sum of their totals.
func ProcessPaymentRequests(db *sql.DB, ownerID string, requestIDs []string) ([]*models.PaymentRequest, float64, error) {
	if len(requestIDs) == 0 {
		return nil, 0, models.ErrValidation
	}

	requests := make([]*models.PaymentRequest, 0, len(requestIDs))
	for _, rid := range requestIDs {
		request, err := GetPaymentRequest(db, rid)
		if err != nil {
			return nil, 0, err
		}
		if request == nil {
			return nil, 0, models.ErrNotFound
		}
		if request.CreatedBy != ownerID {
			return nil, 0, models.ErrForbidden
		}
		if !request.Status.CanProcess() {
			return nil, 0, models.ErrInvalidState
		}
		requests = append(requests, request)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	query := `UPDATE payment_requests
			  SET status = $1, version = version + 1, updated_at = NOW()
			  WHERE id = $2 AND version = $3 AND status = $4`
	var total float64
	for _, request := range requests {
		res, err := tx.Exec(query, models.PaymentProcessed, request.ID, request.Version, models.PaymentApproved)
		if err != nil {
			return nil, 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, 0, err
		}
		if n == 0 {
			// A concurrent transition won; the whole batch rolls back.
			return nil, 0, models.ErrConflict
		}
		request.Status = models.PaymentProcessed
		request.Version++
		total += request.TotalAmount
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	return requests, models.Round2(total), nil
}

// DeletePaymentRequest removes a request and, by referential cascade, its
// lines. Allowed only while the request is still Pending.
func DeletePaymentRequest(db *sql.DB, requestID, ownerID string) error {
	request, err := GetPaymentRequestForOwner(db, requestID, ownerID)
	if err != nil {
		return err
	}
	if request == nil {
		return models.ErrNotFound
	}
	if !request.Status.CanDelete() {
		return models.ErrInvalidState
	}

	_, err = db.Exec(`DELETE FROM payment_requests WHERE id = $1`, request.ID)
	return err
}

func paymentWhere(f *models.PaymentFilters) (string, []interface{}) {
	where := []string{"pr.created_by = $1"}
	args := []interface{}{f.OwnerID}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.ProjectID != "" {
		add("pr.project_id = $%d", f.ProjectID)
	}
	if f.Status != "" {
		add("pr.status = $%d", f.Status)
	}
	if f.DateFrom != nil {
		add("pr.request_date >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("pr.request_date <= $%d", *f.DateTo)
	}

	return strings.Join(where, " AND "), args
}

// ListPaymentRequests returns a page of the owner's requests, newest first,
// plus the unpaged total count.
func ListPaymentRequests(db *sql.DB, f *models.PaymentFilters) ([]*models.PaymentRequest, int, error) {
	whereClause, args := paymentWhere(f)

	var total int
	countQuery := "SELECT COUNT(*) FROM payment_requests pr WHERE " + whereClause
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT pr.id, pr.request_id, pr.project_id, pr.request_date, pr.total_amount, pr.status, pr.notes,
			  pr.decided_by, pr.decided_at, pr.rejection_reason, pr.version, pr.created_by, pr.created_at, pr.updated_at,
			  p.name
			  FROM payment_requests pr
			  JOIN projects p ON pr.project_id = p.id
			  WHERE %s
			  ORDER BY pr.created_at DESC
			  LIMIT $%d OFFSET $%d`, whereClause, len(args)-1, len(args))

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]*models.PaymentRequest, 0)
	for rows.Next() {
		r := &models.PaymentRequest{}
		err := rows.Scan(
			&r.ID, &r.RequestID, &r.ProjectID, &r.RequestDate, &r.TotalAmount, &r.Status, &r.Notes,
			&r.DecidedBy, &r.DecidedAt, &r.RejectionReason, &r.Version, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
			&r.ProjectName,
		)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, r)
	}
	return requests, total, rows.Err()
}
