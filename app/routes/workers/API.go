package workers

import (
	"workpay/app/config"
	"workpay/app/database"
	"workpay/app/models"

	"github.com/gofiber/fiber/v2"
)

func CreateWorkerAPI(c *fiber.Ctx) error {
	type WorkerRequest struct {
		Name       string  `json:"name"`
		Position   string  `json:"position"`
		Salary     float64 `json:"salary"`
		Phone      string  `json:"phone"`
		CardNumber string  `json:"card_number"`
	}

	var req WorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Name is required"})
	}
	if req.Salary < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Salary cannot be negative"})
	}

	user := c.Locals("user").(*models.User)

	worker := &models.Worker{
		Name:       req.Name,
		Position:   req.Position,
		Salary:     models.Round2(req.Salary),
		Phone:      req.Phone,
		CardNumber: req.CardNumber,
		CreatedBy:  user.ID,
	}

	if err := database.CreateWorker(config.GetDB(), worker); err != nil {
		if err == models.ErrConflict {
			return c.Status(409).JSON(fiber.Map{"error": "A worker with this card number already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create worker"})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Worker created successfully",
		"worker":  worker,
	})
}

func GetWorkerAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	worker, err := database.GetWorkerForOwner(config.GetDB(), c.Params("id"), user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch worker"})
	}
	if worker == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Worker not found"})
	}

	return c.JSON(fiber.Map{"worker": worker})
}

func UpdateWorkerAPI(c *fiber.Ctx) error {
	type WorkerRequest struct {
		Name       string  `json:"name"`
		Position   string  `json:"position"`
		Salary     float64 `json:"salary"`
		Phone      string  `json:"phone"`
		CardNumber string  `json:"card_number"`
	}

	var req WorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Name is required"})
	}

	user := c.Locals("user").(*models.User)

	worker := &models.Worker{
		Name:       req.Name,
		Position:   req.Position,
		Salary:     models.Round2(req.Salary),
		Phone:      req.Phone,
		CardNumber: req.CardNumber,
	}

	err := database.UpdateWorker(config.GetDB(), c.Params("id"), user.ID, worker)
	if err == models.ErrNotFound {
		return c.Status(404).JSON(fiber.Map{"error": "Worker not found"})
	}
	if err == models.ErrConflict {
		return c.Status(409).JSON(fiber.Map{"error": "A worker with this card number already exists"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update worker"})
	}

	return c.JSON(fiber.Map{"message": "Worker updated successfully"})
}

func DeleteWorkerAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	err := database.DeactivateWorker(config.GetDB(), c.Params("id"), user.ID)
	if err == models.ErrNotFound {
		return c.Status(404).JSON(fiber.Map{"error": "Worker not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete worker"})
	}

	return c.JSON(fiber.Map{"message": "Worker removed successfully"})
}

func ListWorkersAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	workers, total, err := database.ListWorkers(config.GetDB(), user.ID, c.Query("search"), limit, (page-1)*limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch workers"})
	}

	return c.JSON(fiber.Map{
		"workers": workers,
		"count":   len(workers),
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}
