package dashboard

import (
	"workpay/app/config"
	"workpay/app/database"
	"workpay/app/models"

	"github.com/gofiber/fiber/v2"
)

func GetDashboardStatsAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	stats, err := database.GetDashboardStats(config.GetDB(), user.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(fiber.Map{"stats": stats})
}
