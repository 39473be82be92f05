package workers

import (
	"workpay/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupWorkersRoutes(app *fiber.App) {
	api := app.Group("/api/workers", auth.AuthMiddleware)

	api.Post("/", CreateWorkerAPI)
	api.Get("/", ListWorkersAPI)
	api.Get("/:id", GetWorkerAPI)
	api.Put("/:id", UpdateWorkerAPI)
	api.Delete("/:id", DeleteWorkerAPI)
}
