package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/lawbridge-api/controllers/consumer"
	"github.com/lawbridge/lawbridge-api/middleware"
)

// SetupConsumerRoutes configures the public lawyer directory and search routes
func SetupConsumerRoutes(app *fiber.App) {
	lawyersGroup := app.Group("/lawyers", middleware.Protected())
	lawyersGroup.Get("/", consumer.GetAllLawyers)
	lawyersGroup.Get("/available", consumer.FindAvailableLawyers)
	lawyersGroup.Get("/:id", consumer.GetLawyerDetails)
}
