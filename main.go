package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/lawbridge/lawbridge-api/booking"
	"github.com/lawbridge/lawbridge-api/controllers"
	"github.com/lawbridge/lawbridge-api/controllers/consumer"
	"github.com/lawbridge/lawbridge-api/cron"
	"github.com/lawbridge/lawbridge-api/db"
	"github.com/lawbridge/lawbridge-api/notify"
	"github.com/lawbridge/lawbridge-api/redis"
	"github.com/lawbridge/lawbridge-api/repository"
	"github.com/lawbridge/lawbridge-api/routes"
	"github.com/lawbridge/lawbridge-api/utils"
)

func main() {
	app := fiber.New()
	db.Init()
	db.Migrate()
	redis.InitRedis()

	availabilityRepo := repository.NewAvailabilityRepository(db.GetDB())
	appointmentRepo := repository.NewAppointmentRepository(db.GetDB())
	lawyerRepo := repository.NewLawyerRepository(db.GetDB())

	registry := notify.NewRegistry()
	dispatcher := notify.NewDispatcher(db.GetDB(), registry, utils.SendEmail)

	engine := booking.NewEngine(availabilityRepo, appointmentRepo, lawyerRepo, dispatcher)
	store := booking.NewStore(availabilityRepo, lawyerRepo)
	search := booking.NewSearch(lawyerRepo, engine.Resolver(), engine.ConflictChecker())

	controllers.Init(engine, store, registry, appointmentRepo, availabilityRepo, lawyerRepo)
	consumer.Init(search)

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.SetupAuthRoutes(app)
	routes.SetupAvailabilityRoutes(app)
	routes.SetupAppointmentRoutes(app)
	routes.SetupLawyerRoutes(app)
	routes.SetupConsumerRoutes(app)
	routes.SetupNotificationRoutes(app)

	cron.StartCronJobs()

	log.Fatal(app.Listen(":8000"))
}
