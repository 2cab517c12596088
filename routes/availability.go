package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/lawbridge-api/controllers"
	"github.com/lawbridge/lawbridge-api/middleware"
	"github.com/lawbridge/lawbridge-api/models"
)

// SetupAvailabilityRoutes configures the lawyer schedule management routes
func SetupAvailabilityRoutes(app *fiber.App) {
	availability := app.Group("/availability", middleware.Protected(), middleware.RequireRole(models.RoleLawyer))
	availability.Get("/", controllers.GetMyAvailability)
	availability.Post("/", controllers.CreateAvailabilityRule)
	availability.Put("/recurring", controllers.ReplaceRecurringSchedule)
	availability.Delete("/:id", controllers.DeleteAvailabilityRule)

	// Clients read a lawyer's schedule when planning a booking
	app.Get("/lawyers/:id/availability", middleware.Protected(), controllers.GetLawyerAvailability)
}
