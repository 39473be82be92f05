package database

import (
	"database/sql"
	"fmt"
	"strings"
	"workpay/app/models"
)

func CreateProject(db *sql.DB, project *models.Project) error {
	query := `INSERT INTO projects (name, category, start_date, end_date, status, created_by)
			  VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query,
		project.Name, project.Category, project.StartDate, project.EndDate, project.Status, project.CreatedBy,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

// GetProjectForOwner is the existence+ownership lookup used by the attendance
// and payment flows. Returns (nil, nil) when the project does not exist or
// belongs to a different account.
func GetProjectForOwner(db *sql.DB, projectID, ownerID string) (*models.Project, error) {
	project := &models.Project{}
	query := `SELECT id, name, COALESCE(category, ''), start_date, end_date, status, created_by, created_at, updated_at
			  FROM projects WHERE id = $1 AND created_by = $2`

	err := db.QueryRow(query, projectID, ownerID).Scan(
		&project.ID, &project.Name, &project.Category, &project.StartDate, &project.EndDate,
		&project.Status, &project.CreatedBy, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

func UpdateProject(db *sql.DB, projectID, ownerID string, project *models.Project) error {
	query := `UPDATE projects SET name = $1, category = NULLIF($2, ''), start_date = $3, end_date = $4, status = $5, updated_at = NOW()
			  WHERE id = $6 AND created_by = $7`
	res, err := db.Exec(query, project.Name, project.Category, project.StartDate, project.EndDate, project.Status, projectID, ownerID)
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

func DeleteProject(db *sql.DB, projectID, ownerID string) error {
	res, err := db.Exec(`DELETE FROM projects WHERE id = $1 AND created_by = $2`, projectID, ownerID)
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

func ListProjects(db *sql.DB, ownerID, status string, limit, offset int) ([]*models.Project, int, error) {
	where := []string{"created_by = $1"}
	args := []interface{}{ownerID}

	if status != "" {
		args = append(args, status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM projects WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT id, name, COALESCE(category, ''), start_date, end_date, status, created_by, created_at, updated_at
			  FROM projects WHERE %s
			  ORDER BY created_at DESC
			  LIMIT $%d OFFSET $%d`, whereClause, len(args)-1, len(args))

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		p := &models.Project{}
		err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.StartDate, &p.EndDate,
			&p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}
