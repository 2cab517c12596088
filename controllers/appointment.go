package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/lawbridge-api/booking"
	"github.com/lawbridge/lawbridge-api/models"
	"github.com/lawbridge/lawbridge-api/utils"
	"github.com/lawbridge/lawbridge-api/validation"
)

type createAppointmentRequest struct {
	LawyerID     uint   `json:"lawyer_id" validate:"required"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=2000"`
	PracticeArea string `json:"practice_area" validate:"max=100"`
	MeetingType  string `json:"meeting_type" validate:"omitempty,oneof=VIRTUAL IN_PERSON"`
}

// CreateAppointment books a consultation for the logged-in client.
func CreateAppointment(c *fiber.Ctx) error {
	clientID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	req := new(createAppointmentRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if err := validation.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment request",
			Error:   err.Error(),
		})
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid start time, expected RFC3339",
			Error:   err.Error(),
		})
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid end time, expected RFC3339",
			Error:   err.Error(),
		})
	}

	meetingType := models.MeetingVirtual
	if req.MeetingType != "" {
		meetingType = models.MeetingType(req.MeetingType)
	}

	appointment, err := engine.CreateAppointment(c.Context(), booking.CreateAppointmentInput{
		ClientID:     clientID,
		LawyerID:     req.LawyerID,
		StartTime:    startTime,
		EndTime:      endTime,
		Title:        req.Title,
		Description:  req.Description,
		PracticeArea: req.PracticeArea,
		MeetingType:  meetingType,
	})
	if err != nil {
		return utils.RespondError(c, "Failed to book appointment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// GetAppointment returns one appointment. Only the two parties can see it.
func GetAppointment(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment ID",
		})
	}

	appointment, err := appointments.FindByID(c.Context(), uint(id))
	if err != nil {
		return utils.RespondError(c, "Appointment not found", err)
	}
	if role != models.RoleAdmin && appointment.ClientID != userID && appointment.LawyerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not a party to this appointment",
		})
	}
	return c.JSON(appointment)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING SCHEDULED CONFIRMED COMPLETED CANCELLED NO_SHOW"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// UpdateAppointmentStatus moves an appointment through its lifecycle on
// behalf of the lawyer.
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment ID",
		})
	}

	req := new(updateStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if err := validation.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid status update",
			Error:   err.Error(),
		})
	}

	appointment, err := engine.TransitionStatus(c.Context(), uint(id), userID, role, models.AppointmentStatus(req.Status), req.Notes)
	if err != nil {
		return utils.RespondError(c, "Failed to update appointment status", err)
	}
	return c.JSON(appointment)
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

// CancelAppointment lets the client back out of a booking.
func CancelAppointment(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid appointment ID",
		})
	}

	// body is optional for cancellation
	req := new(cancelRequest)
	_ = c.BodyParser(req)

	appointment, err := engine.TransitionStatus(c.Context(), uint(id), userID, role, models.StatusCancelled, req.Reason)
	if err != nil {
		return utils.RespondError(c, "Failed to cancel appointment", err)
	}
	return c.JSON(appointment)
}

// ListMyAppointments returns the caller's appointments, newest first.
// Lawyers can narrow by ?status= and ?date=YYYY-MM-DD, clients by status.
func ListMyAppointments(c *fiber.Ctx) error {
	userID, role, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	var status models.AppointmentStatus
	if statusStr := c.Query("status"); statusStr != "" {
		status = models.AppointmentStatus(statusStr)
		if !status.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown appointment status",
			})
		}
	}

	if role == models.RoleLawyer {
		var day *time.Time
		if dayStr := c.Query("date"); dayStr != "" {
			parsed, err := time.Parse("2006-01-02", dayStr)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid date, expected YYYY-MM-DD",
				})
			}
			day = &parsed
		}
		list, err := appointments.ListForLawyer(c.Context(), userID, status, day)
		if err != nil {
			return utils.RespondError(c, "Failed to fetch appointments", err)
		}
		return c.JSON(fiber.Map{"appointments": list})
	}

	list, err := appointments.ListForClient(c.Context(), userID, status)
	if err != nil {
		return utils.RespondError(c, "Failed to fetch appointments", err)
	}
	return c.JSON(fiber.Map{"appointments": list})
}
