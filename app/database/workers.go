package database

import (
	"database/sql"
	"fmt"
	"strings"
	"workpay/app/models"
)

// CreateWorker inserts a worker owned by the creating account. A duplicate
// card number within the same account returns models.ErrConflict.
func CreateWorker(db *sql.DB, worker *models.Worker) error {
	query := `INSERT INTO workers (name, position, salary, phone, card_number, is_active, created_by)
			  VALUES ($1, $2, $3, $4, NULLIF($5, ''), true, $6)
			  RETURNING id, created_at, updated_at`
	err := db.QueryRow(query,
		worker.Name, worker.Position, worker.Salary, worker.Phone, worker.CardNumber, worker.CreatedBy,
	).Scan(&worker.ID, &worker.CreatedAt, &worker.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrConflict
		}
		return err
	}
	worker.IsActive = true
	return nil
}

// GetWorkerForOwner is the existence+ownership lookup used by the attendance
// and payment flows. Returns (nil, nil) when the worker does not exist or
// belongs to a different account.
func GetWorkerForOwner(db *sql.DB, workerID, ownerID string) (*models.Worker, error) {
	worker := &models.Worker{}
	query := `SELECT id, name, position, salary, COALESCE(phone, ''), COALESCE(card_number, ''), is_active, created_by, created_at, updated_at
			  FROM workers WHERE id = $1 AND created_by = $2 AND is_active = true`

	err := db.QueryRow(query, workerID, ownerID).Scan(
		&worker.ID, &worker.Name, &worker.Position, &worker.Salary, &worker.Phone,
		&worker.CardNumber, &worker.IsActive, &worker.CreatedBy, &worker.CreatedAt, &worker.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return worker, nil
}

func UpdateWorker(db *sql.DB, workerID, ownerID string, worker *models.Worker) error {
	query := `UPDATE workers SET name = $1, position = $2, salary = $3, phone = $4, card_number = NULLIF($5, ''), updated_at = NOW()
			  WHERE id = $6 AND created_by = $7`
	res, err := db.Exec(query, worker.Name, worker.Position, worker.Salary, worker.Phone, worker.CardNumber, workerID, ownerID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeactivateWorker soft-deletes a worker so attendance and payment history
// stays intact.
func DeactivateWorker(db *sql.DB, workerID, ownerID string) error {
	res, err := db.Exec(`UPDATE workers SET is_active = false, updated_at = NOW() WHERE id = $1 AND created_by = $2`, workerID, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListWorkers returns a page of the account's active workers plus the total
// count for pagination.
func ListWorkers(db *sql.DB, ownerID, search string, limit, offset int) ([]*models.Worker, int, error) {
	where := []string{"created_by = $1", "is_active = true"}
	args := []interface{}{ownerID}

	if search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR position ILIKE $%d)", len(args), len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM workers WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT id, name, position, salary, COALESCE(phone, ''), COALESCE(card_number, ''), is_active, created_by, created_at, updated_at
			  FROM workers WHERE %s
			  ORDER BY name ASC
			  LIMIT $%d OFFSET $%d`, whereClause, len(args)-1, len(args))

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	workers := make([]*models.Worker, 0)
	for rows.Next() {
		w := &models.Worker{}
		err := rows.Scan(
			&w.ID, &w.Name, &w.Position, &w.Salary, &w.Phone,
			&w.CardNumber, &w.IsActive, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		workers = append(workers, w)
	}
	return workers, total, rows.Err()
}
