package attendance

import (
	"time"
	"workpay/app/config"
	"workpay/app/database"
	"workpay/app/models"

	"github.com/gofiber/fiber/v2"
)

// checkWorkerAndProject verifies that both references exist within the
// caller's ownership scope. Foreign records surface as not-found so
// existence is never leaked across accounts. Returns (0, "") when both pass.
func checkWorkerAndProject(workerID, projectID, ownerID string) (int, string) {
	worker, err := database.GetWorkerForOwner(config.GetDB(), workerID, ownerID)
	if err != nil {
		return 500, "Failed to verify worker"
	}
	if worker == nil {
		return 404, "Worker not found"
	}

	project, err := database.GetProjectForOwner(config.GetDB(), projectID, ownerID)
	if err != nil {
		return 500, "Failed to verify project"
	}
	if project == nil {
		return 404, "Project not found"
	}

	return 0, ""
}

func RecordAttendanceAPI(c *fiber.Ctx) error {
	type AttendanceRequest struct {
		WorkerID  string  `json:"worker_id"`
		ProjectID string  `json:"project_id"`
		Date      string  `json:"date"`
		Status    string  `json:"status"`
		CheckIn   *string `json:"check_in,omitempty"`
		CheckOut  *string `json:"check_out,omitempty"`
	}

	var req AttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.WorkerID == "" || req.ProjectID == "" || req.Date == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Worker ID, project ID and date are required"})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	status, ok := models.ParseAttendanceStatus(req.Status)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid status. Must be Present, Absent, Late or Half Day"})
	}

	user := c.Locals("user").(*models.User)

	if code, msg := checkWorkerAndProject(req.WorkerID, req.ProjectID, user.ID); code != 0 {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}

	record := &models.AttendanceRecord{
		WorkerID:  req.WorkerID,
		ProjectID: req.ProjectID,
		Date:      date,
		Status:    status,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		CreatedBy: user.ID,
	}

	if err := database.CreateAttendance(config.GetDB(), record); err != nil {
		if err == models.ErrConflict {
			return c.Status(409).JSON(fiber.Map{"error": "Attendance already recorded for this worker, project and date"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save attendance record"})
	}

	return c.Status(201).JSON(fiber.Map{
		"message":    "Attendance recorded successfully",
		"attendance": record,
	})
}

func MarkAttendanceRatingAPI(c *fiber.Ctx) error {
	type RatingRequest struct {
		WorkerID  string  `json:"worker_id"`
		ProjectID string  `json:"project_id"`
		Date      string  `json:"date"`
		Status    string  `json:"status"`
		Rating    int     `json:"rating"`
		Comments  *string `json:"comments,omitempty"`
	}

	var req RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.WorkerID == "" || req.ProjectID == "" || req.Date == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Worker ID, project ID and date are required"})
	}
	if !models.ValidRating(req.Rating) {
		return c.Status(400).JSON(fiber.Map{"error": "Rating must be between 1 and 5"})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}

	status, ok := models.ParseAttendanceStatus(req.Status)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid status. Must be Present, Absent, Late or Half Day"})
	}

	user := c.Locals("user").(*models.User)

	if code, msg := checkWorkerAndProject(req.WorkerID, req.ProjectID, user.ID); code != 0 {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}

	record := &models.AttendanceRecord{
		WorkerID:  req.WorkerID,
		ProjectID: req.ProjectID,
		Date:      date,
		Status:    status,
		Rating:    &req.Rating,
		Comments:  req.Comments,
		CreatedBy: user.ID,
	}

	if err := database.UpsertAttendanceRating(config.GetDB(), record); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save attendance rating"})
	}

	return c.JSON(fiber.Map{
		"message":    "Attendance rating saved successfully",
		"attendance": record,
	})
}

// loadOwnedAttendance fetches a record and enforces the creator-ownership
// rule shared by Update and Delete. Unlike the other paths these report a
// distinct access-denied case. Returns (0, "") when the caller owns the record.
func loadOwnedAttendance(id, callerID string) (int, string) {
	record, err := database.GetAttendanceByID(config.GetDB(), id)
	if err != nil {
		return 500, "Failed to fetch attendance record"
	}
	if record == nil {
		return 404, "Attendance record not found"
	}
	if record.CreatedBy != callerID {
		return 403, "Access denied"
	}
	return 0, ""
}

func UpdateAttendanceAPI(c *fiber.Ctx) error {
	type UpdateRequest struct {
		Status   *string `json:"status,omitempty"`
		CheckIn  *string `json:"check_in,omitempty"`
		CheckOut *string `json:"check_out,omitempty"`
		Rating   *int    `json:"rating,omitempty"`
		Comments *string `json:"comments,omitempty"`
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user := c.Locals("user").(*models.User)
	if code, msg := loadOwnedAttendance(c.Params("id"), user.ID); code != 0 {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}

	upd := &models.AttendanceUpdate{
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Rating:   req.Rating,
		Comments: req.Comments,
	}

	if req.Status != nil {
		status, ok := models.ParseAttendanceStatus(*req.Status)
		if !ok {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid status. Must be Present, Absent, Late or Half Day"})
		}
		upd.Status = &status
	}
	if req.Rating != nil && !models.ValidRating(*req.Rating) {
		return c.Status(400).JSON(fiber.Map{"error": "Rating must be between 1 and 5"})
	}

	if err := database.UpdateAttendance(config.GetDB(), c.Params("id"), upd); err != nil {
		if err == models.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Attendance record not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update attendance record"})
	}

	return c.JSON(fiber.Map{"message": "Attendance record updated successfully"})
}

func DeleteAttendanceAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	if code, msg := loadOwnedAttendance(c.Params("id"), user.ID); code != 0 {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}

	if err := database.DeleteAttendance(config.GetDB(), c.Params("id")); err != nil {
		if err == models.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Attendance record not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete attendance record"})
	}

	return c.JSON(fiber.Map{"message": "Attendance record deleted successfully"})
}

// parseFilters builds the shared filter set (worker, project, status, date
// range) used by both the listing and the stats endpoints.
func parseFilters(c *fiber.Ctx, ownerID string) (*models.AttendanceFilters, string) {
	f := &models.AttendanceFilters{
		OwnerID:   ownerID,
		WorkerID:  c.Query("worker_id"),
		ProjectID: c.Query("project_id"),
	}

	if status := c.Query("status"); status != "" {
		if _, ok := models.ParseAttendanceStatus(status); !ok {
			return nil, "Invalid status filter"
		}
		f.Status = status
	}

	if from := c.Query("from"); from != "" {
		d, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, "Invalid from date. Use YYYY-MM-DD"
		}
		f.DateFrom = &d
	}
	if to := c.Query("to"); to != "" {
		d, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, "Invalid to date. Use YYYY-MM-DD"
		}
		f.DateTo = &d
	}

	return f, ""
}

func ListAttendanceAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	f, msg := parseFilters(c, user.ID)
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit

	records, total, err := database.QueryAttendance(config.GetDB(), f)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance records"})
	}

	return c.JSON(fiber.Map{
		"attendance": records,
		"count":      len(records),
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}

func AttendanceStatsAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	f, msg := parseFilters(c, user.ID)
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	stats, err := database.GetAttendanceStats(config.GetDB(), f)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance stats"})
	}

	return c.JSON(fiber.Map{"stats": stats})
}
