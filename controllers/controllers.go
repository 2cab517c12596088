package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/lawbridge-api/booking"
	"github.com/lawbridge/lawbridge-api/notify"
	"github.com/lawbridge/lawbridge-api/repository"
)

var (
	engine       *booking.Engine
	store        *booking.Store
	registry     *notify.Registry
	appointments *repository.AppointmentRepository
	availability *repository.AvailabilityRepository
	lawyers      *repository.LawyerRepository
)

// Init wires the booking core into the HTTP layer. Called once from main.
func Init(
	bookingEngine *booking.Engine,
	availabilityStore *booking.Store,
	notifyRegistry *notify.Registry,
	appointmentRepo *repository.AppointmentRepository,
	availabilityRepo *repository.AvailabilityRepository,
	lawyerRepo *repository.LawyerRepository,
) {
	engine = bookingEngine
	store = availabilityStore
	registry = notifyRegistry
	appointments = appointmentRepo
	availability = availabilityRepo
	lawyers = lawyerRepo
}

// currentUser pulls the identity the JWT middleware stashed in locals.
func currentUser(c *fiber.Ctx) (uint, string, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return 0, "", false
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return 0, "", false
	}
	return userID, role, true
}
