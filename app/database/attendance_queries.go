package database

import (
	"database/sql"
	"fmt"
	"strings"
	"workpay/app/models"
)

// CreateAttendance inserts one attendance record. A second record for the
// same (worker, project, date) tuple returns models.ErrConflict.
func CreateAttendance(db *sql.DB, record *models.AttendanceRecord) error {
	query := `INSERT INTO attendance_records (worker_id, project_id, date, status, check_in, check_out, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, created_at, updated_at`
	err := db.QueryRow(query,
		record.WorkerID, record.ProjectID, record.Date, record.Status,
		record.CheckIn, record.CheckOut, record.CreatedBy,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrConflict
		}
		return err
	}
	return nil
}

// UpsertAttendanceRating saves a supervisor rating for the tuple. An existing
// record is updated in place (check-in/check-out preserved); otherwise a new
// record carrying the rating is created.
func UpsertAttendanceRating(db *sql.DB, record *models.AttendanceRecord) error {
	query := `INSERT INTO attendance_records (worker_id, project_id, date, status, rating, comments, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (worker_id, project_id, date)
			  DO UPDATE SET status = EXCLUDED.status, rating = EXCLUDED.rating, comments = EXCLUDED.comments, updated_at = NOW()
			  RETURNING id, check_in, check_out, created_by, created_at, updated_at`
	return db.QueryRow(query,
		record.WorkerID, record.ProjectID, record.Date, record.Status,
		record.Rating, record.Comments, record.CreatedBy,
	).Scan(&record.ID, &record.CheckIn, &record.CheckOut, &record.CreatedBy, &record.CreatedAt, &record.UpdatedAt)
}

// GetAttendanceByID returns (nil, nil) when no record exists.
func GetAttendanceByID(db *sql.DB, id string) (*models.AttendanceRecord, error) {
	record := &models.AttendanceRecord{}
	query := `SELECT id, worker_id, project_id, date, status, check_in, check_out, rating, comments, created_by, created_at, updated_at
			  FROM attendance_records WHERE id = $1`

	err := db.QueryRow(query, id).Scan(
		&record.ID, &record.WorkerID, &record.ProjectID, &record.Date, &record.Status,
		&record.CheckIn, &record.CheckOut, &record.Rating, &record.Comments,
		&record.CreatedBy, &record.CreatedAt, &record.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateAttendance amends the given fields of one record. Ownership is
// checked by the caller.
func UpdateAttendance(db *sql.DB, id string, upd *models.AttendanceUpdate) error {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Status != nil {
		addSet("status", *upd.Status)
	}
	if upd.CheckIn != nil {
		addSet("check_in", *upd.CheckIn)
	}
	if upd.CheckOut != nil {
		addSet("check_out", *upd.CheckOut)
	}
	if upd.Rating != nil {
		addSet("rating", *upd.Rating)
	}
	if upd.Comments != nil {
		addSet("comments", *upd.Comments)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE attendance_records SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	res, err := db.Exec(query, args...)
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

func DeleteAttendance(db *sql.DB, id string) error {
	res, err := db.Exec(`DELETE FROM attendance_records WHERE id = $1`, id)
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

func attendanceWhere(f *models.AttendanceFilters) (string, []interface{}) {
	where := []string{"a.created_by = $1"}
	args := []interface{}{f.OwnerID}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.WorkerID != "" {
		add("a.worker_id = $%d", f.WorkerID)
	}
	if f.ProjectID != "" {
		add("a.project_id = $%d", f.ProjectID)
	}
	if f.Status != "" {
		add("a.status = $%d", f.Status)
	}
	if f.DateFrom != nil {
		add("a.date >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("a.date <= $%d", *f.DateTo)
	}

	return strings.Join(where, " AND "), args
}

// QueryAttendance returns a page of records enriched with worker, project and
// owner display names, newest date first, plus the unpaged total count.
func QueryAttendance(db *sql.DB, f *models.AttendanceFilters) ([]*models.AttendanceRecord, int, error) {
	whereClause, args := attendanceWhere(f)

	var total int
	countQuery := "SELECT COUNT(*) FROM attendance_records a WHERE " + whereClause
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT a.id, a.worker_id, a.project_id, a.date, a.status, a.check_in, a.check_out, a.rating, a.comments,
			  a.created_by, a.created_at, a.updated_at,
			  w.name, w.position, p.name, u.first_name || ' ' || u.last_name
			  FROM attendance_records a
			  JOIN workers w ON a.worker_id = w.id
			  JOIN projects p ON a.project_id = p.id
			  JOIN users u ON a.created_by = u.id
			  WHERE %s
			  ORDER BY a.date DESC, a.created_at DESC
			  LIMIT $%d OFFSET $%d`, whereClause, len(args)-1, len(args))

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]*models.AttendanceRecord, 0)
	for rows.Next() {
		r := &models.AttendanceRecord{}
		err := rows.Scan(
			&r.ID, &r.WorkerID, &r.ProjectID, &r.Date, &r.Status, &r.CheckIn, &r.CheckOut, &r.Rating, &r.Comments,
			&r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
			&r.WorkerName, &r.WorkerPosition, &r.ProjectName, &r.OwnerName,
		)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, r)
	}
	return records, total, rows.Err()
}
