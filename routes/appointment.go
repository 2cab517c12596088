package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/lawbridge-api/controllers"
	"github.com/lawbridge/lawbridge-api/middleware"
	"github.com/lawbridge/lawbridge-api/models"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/appointments", middleware.Protected())
	appointment.Post("/", middleware.RequireRole(models.RoleClient), controllers.CreateAppointment)
	appointment.Get("/", controllers.ListMyAppointments)
	appointment.Get("/:id", controllers.GetAppointment)
	appointment.Patch("/:id/status", middleware.RequireRole(models.RoleLawyer), controllers.UpdateAppointmentStatus)
	appointment.Patch("/:id/cancel", controllers.CancelAppointment)
}
