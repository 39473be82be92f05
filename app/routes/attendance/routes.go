package attendance

import (
	"workpay/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAttendanceRoutes(app *fiber.App) {
	api := app.Group("/api/attendance", auth.AuthMiddleware)

	api.Post("/", RecordAttendanceAPI)
	api.Post("/rating", MarkAttendanceRatingAPI)
	api.Get("/", ListAttendanceAPI)
	api.Get("/stats", AttendanceStatsAPI)
	api.Put("/:id", UpdateAttendanceAPI)
	api.Delete("/:id", DeleteAttendanceAPI)
}
