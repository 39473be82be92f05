package payments

import (
	"workpay/app/models"
	"workpay/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentsRoutes(app *fiber.App) {
	api := app.Group("/api/payments", auth.AuthMiddleware)

	api.Post("/", CreatePaymentRequestAPI)
	api.Get("/", ListPaymentRequestsAPI)
	api.Get("/stats", PaymentStatsAPI)
	// Disbursement moves money; supervisors may create and decide requests
	// but only owner/admin accounts can process them.
	api.Post("/process", auth.RoleMiddleware(models.RoleOwner, models.RoleAdmin), ProcessPaymentRequestsAPI)
	api.Get("/:requestId", GetPaymentRequestAPI)
	api.Post("/:requestId/approve", ApprovePaymentRequestAPI)
	api.Post("/:requestId/reject", RejectPaymentRequestAPI)
	api.Delete("/:requestId", DeletePaymentRequestAPI)
}
