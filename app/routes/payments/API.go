package payments

import (
	"time"
	"workpay/app/config"
	"workpay/app/database"
	"workpay/app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func CreatePaymentRequestAPI(c *fiber.Ctx) error {
	type LineRequest struct {
		WorkerID        string  `json:"worker_id"`
		DaysWorked      int     `json:"days_worked"`
		AllowancePerDay float64 `json:"allowance_per_day"`
	}
	type PaymentRequestBody struct {
		RequestID   string        `json:"request_id"`
		ProjectID   string        `json:"project_id"`
		RequestDate string        `json:"request_date"`
		Notes       *string       `json:"notes,omitempty"`
		Lines       []LineRequest `json:"lines"`
	}

	var req PaymentRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ProjectID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Project ID is required"})
	}
	if req.RequestID == "" {
		req.RequestID = "PAY-" + uuid.New().String()
	}
	if len(req.Lines) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "At least one line item is required"})
	}

	requestDate := time.Now()
	if req.RequestDate != "" {
		d, err := time.Parse("2006-01-02", req.RequestDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid request date format. Use YYYY-MM-DD"})
		}
		requestDate = d
	}

	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	project, err := database.GetProjectForOwner(db, req.ProjectID, user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to verify project"})
	}
	if project == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
	}

	lines := make([]*models.PaymentRequestLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		if l.WorkerID == "" {
			return c.Status(400).JSON(fiber.Map{"error": "Every line must reference a worker"})
		}
		if l.DaysWorked <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "Days worked must be positive"})
		}
		if l.AllowancePerDay <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "Allowance per day must be positive"})
		}

		worker, err := database.GetWorkerForOwner(db, l.WorkerID, user.ID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to verify worker"})
		}
		if worker == nil {
			return c.Status(404).JSON(fiber.Map{"error": "Worker not found"})
		}

		lines = append(lines, &models.PaymentRequestLine{
			WorkerID:        l.WorkerID,
			DaysWorked:      l.DaysWorked,
			AllowancePerDay: models.Round2(l.AllowancePerDay),
			WorkerName:      worker.Name,
			WorkerPosition:  worker.Position,
		})
	}

	request := &models.PaymentRequest{
		RequestID:   req.RequestID,
		ProjectID:   req.ProjectID,
		RequestDate: requestDate,
		Notes:       req.Notes,
		CreatedBy:   user.ID,
		Lines:       lines,
	}

	if err := database.CreatePaymentRequest(db, request); err != nil {
		if err == models.ErrConflict {
			return c.Status(409).JSON(fiber.Map{"error": "Request ID is already used"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create payment request"})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Payment request created successfully",
		"request": request,
	})
}

func GetPaymentRequestAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	request, err := database.GetPaymentRequestWithLines(config.GetDB(), c.Params("requestId"), user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch payment request"})
	}
	if request == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Payment request not found"})
	}

	return c.JSON(fiber.Map{"request": request})
}

func ApprovePaymentRequestAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	request, err := database.ApprovePaymentRequest(config.GetDB(), c.Params("requestId"), user.ID, user.ID)
	if err != nil {
		switch err {
		case models.ErrNotFound:
			return c.Status(404).JSON(fiber.Map{"error": "Payment request not found"})
		case models.ErrInvalidState:
			return c.Status(422).JSON(fiber.Map{"error": "Only pending requests can be approved"})
		case models.ErrConflict:
			return c.Status(409).JSON(fiber.Map{"error": "Request was modified concurrently, retry"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to approve payment request"})
	}

	return c.JSON(fiber.Map{
		"message": "Payment request approved",
		"request": request,
	})
}

func RejectPaymentRequestAPI(c *fiber.Ctx) error {
	type RejectRequest struct {
		Reason string `json:"reason"`
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Reason == "" {
		return c.Status(400).JSON(fiber.Map{"error": "A rejection reason is required"})
	}

	user := c.Locals("user").(*models.User)

	request, err := database.RejectPaymentRequest(config.GetDB(), c.Params("requestId"), user.ID, user.ID, req.Reason)
	if err != nil {
		switch err {
		case models.ErrNotFound:
			return c.Status(404).JSON(fiber.Map{"error": "Payment request not found"})
		case models.ErrInvalidState:
			return c.Status(422).JSON(fiber.Map{"error": "Only pending requests can be rejected"})
		case models.ErrConflict:
			return c.Status(409).JSON(fiber.Map{"error": "Request was modified concurrently, retry"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to reject payment request"})
	}

	return c.JSON(fiber.Map{
		"message": "Payment request rejected",
		"request": request,
	})
}

func ProcessPaymentRequestsAPI(c *fiber.Ctx) error {
	type ProcessRequest struct {
		RequestIDs []string `json:"request_ids"`
	}

	var req ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user := c.Locals("user").(*models.User)

	processed, total, err := database.ProcessPaymentRequests(config.GetDB(), user.ID, req.RequestIDs)
	if err != nil {
		switch err {
		case models.ErrValidation:
			return c.Status(400).JSON(fiber.Map{"error": "At least one request ID is required"})
		case models.ErrNotFound:
			return c.Status(404).JSON(fiber.Map{"error": "Payment request not found"})
		case models.ErrForbidden:
			return c.Status(403).JSON(fiber.Map{"error": "Access denied"})
		case models.ErrInvalidState:
			return c.Status(422).JSON(fiber.Map{"error": "Only approved requests can be processed"})
		case models.ErrConflict:
			return c.Status(409).JSON(fiber.Map{"error": "A request was modified concurrently, retry"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to process payment requests"})
	}

	return c.JSON(fiber.Map{
		"message":      "Payment requests processed",
		"requests":     processed,
		"count":        len(processed),
		"total_amount": total,
	})
}

func DeletePaymentRequestAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	err := database.DeletePaymentRequest(config.GetDB(), c.Params("requestId"), user.ID)
	if err != nil {
		switch err {
		case models.ErrNotFound:
			return c.Status(404).JSON(fiber.Map{"error": "Payment request not found"})
		case models.ErrInvalidState:
			return c.Status(422).JSON(fiber.Map{"error": "Only pending requests can be deleted"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete payment request"})
	}

	return c.JSON(fiber.Map{"message": "Payment request deleted successfully"})
}

// parseFilters builds the shared filter set used by both the listing and the
// stats endpoints.
func parseFilters(c *fiber.Ctx, ownerID string) (*models.PaymentFilters, string) {
	f := &models.PaymentFilters{
		OwnerID:   ownerID,
		ProjectID: c.Query("project_id"),
	}

	if status := c.Query("status"); status != "" {
		if _, ok := models.ParsePaymentStatus(status); !ok {
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

func ListPaymentRequestsAPI(c *fiber.Ctx) error {
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

	requests, total, err := database.ListPaymentRequests(config.GetDB(), f)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch payment requests"})
	}

	return c.JSON(fiber.Map{
		"requests": requests,
		"count":    len(requests),
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func PaymentStatsAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	f, msg := parseFilters(c, user.ID)
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	stats, err := database.GetPaymentStats(config.GetDB(), f)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch payment stats"})
	}

	return c.JSON(fiber.Map{"stats": stats})
}
