package projects

import (
	"workpay/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupProjectsRoutes(app *fiber.App) {
	api := app.Group("/api/projects", auth.AuthMiddleware)

	api.Post("/", CreateProjectAPI)
	api.Get("/", ListProjectsAPI)
	api.Get("/:id", GetProjectAPI)
	api.Put("/:id", UpdateProjectAPI)
	api.Delete("/:id", DeleteProjectAPI)
}
