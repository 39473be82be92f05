package projects

import (
	"time"
	"workpay/app/config"
	"workpay/app/database"
	"workpay/app/models"

	"github.com/gofiber/fiber/v2"
)

type projectRequest struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

func (req *projectRequest) toModel() (*models.Project, string) {
	if req.Name == "" {
		return nil, "Name is required"
	}

	project := &models.Project{
		Name:     req.Name,
		Category: req.Category,
		Status:   models.ProjectActive,
	}

	if req.Status != "" {
		status, ok := models.ParseProjectStatus(req.Status)
		if !ok {
			return nil, "Invalid status. Must be Active, Completed, On Hold or Cancelled"
		}
		project.Status = status
	}

	if req.StartDate != "" {
		d, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, "Invalid start date format. Use YYYY-MM-DD"
		}
		project.StartDate = &d
	}
	if req.EndDate != "" {
		d, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, "Invalid end date format. Use YYYY-MM-DD"
		}
		project.EndDate = &d
	}

	return project, ""
}

func CreateProjectAPI(c *fiber.Ctx) error {
	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	project, msg := req.toModel()
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	user := c.Locals("user").(*models.User)
	project.CreatedBy = user.ID

	if err := database.CreateProject(config.GetDB(), project); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create project"})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Project created successfully",
		"project": project,
	})
}

func GetProjectAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	project, err := database.GetProjectForOwner(config.GetDB(), c.Params("id"), user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch project"})
	}
	if project == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
	}

	return c.JSON(fiber.Map{"project": project})
}

func UpdateProjectAPI(c *fiber.Ctx) error {
	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	project, msg := req.toModel()
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	user := c.Locals("user").(*models.User)

	err := database.UpdateProject(config.GetDB(), c.Params("id"), user.ID, project)
	if err == models.ErrNotFound {
		return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update project"})
	}

	return c.JSON(fiber.Map{"message": "Project updated successfully"})
}

func DeleteProjectAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	err := database.DeleteProject(config.GetDB(), c.Params("id"), user.ID)
	if err == models.ErrNotFound {
		return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete project"})
	}

	return c.JSON(fiber.Map{"message": "Project deleted successfully"})
}

func ListProjectsAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	status := c.Query("status")
	if status != "" {
		if _, ok := models.ParseProjectStatus(status); !ok {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid status filter"})
		}
	}

	projects, total, err := database.ListProjects(config.GetDB(), user.ID, status, limit, (page-1)*limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch projects"})
	}

	return c.JSON(fiber.Map{
		"projects": projects,
		"count":    len(projects),
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}
