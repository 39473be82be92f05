package dashboard

import (
	"workpay/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App) {
	app.Get("/api/dashboard", auth.AuthMiddleware, GetDashboardStatsAPI)
}
