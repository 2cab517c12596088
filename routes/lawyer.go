package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/lawbridge-api/controllers"
	"github.com/lawbridge/lawbridge-api/middleware"
	"github.com/lawbridge/lawbridge-api/models"
)

// SetupLawyerRoutes configures lawyer profile management routes
func SetupLawyerRoutes(app *fiber.App) {
	lawyer := app.Group("/lawyer", middleware.Protected(), middleware.RequireRole(models.RoleLawyer))
	lawyer.Get("/profile", controllers.GetMyProfile)
	lawyer.Patch("/profile", controllers.UpdateMyProfile)
	lawyer.Post("/profile/document", controllers.UploadVerificationDocument)

	admin := app.Group("/admin", middleware.Protected(), middleware.RequireRole(models.RoleAdmin))
	admin.Post("/lawyers/:id/verify", controllers.VerifyLawyer)
}
