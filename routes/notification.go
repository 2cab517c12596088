package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/lawbridge-api/controllers"
	"github.com/lawbridge/lawbridge-api/middleware"
)

// SetupNotificationRoutes configures the in-app notification routes
func SetupNotificationRoutes(app *fiber.App) {
	notification := app.Group("/notifications", middleware.Protected())
	notification.Get("/", controllers.GetNotifications)
	notification.Get("/next", controllers.NextNotification)
	notification.Patch("/read-all", controllers.MarkAllNotificationsRead)
	notification.Patch("/:id/read", controllers.MarkNotificationRead)
}
