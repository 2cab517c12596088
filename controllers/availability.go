package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/lawbridge-api/models"
	"github.com/lawbridge/lawbridge-api/utils"
	"github.com/lawbridge/lawbridge-api/validation"
)

type availabilityRuleRequest struct {
	DayOfWeek    *int   `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	SpecificDate string `json:"specific_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime    string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime      string `json:"end_time" validate:"required,datetime=15:04"`
	Active       *bool  `json:"active"`
}

func (r *availabilityRuleRequest) toModel(lawyerID uint) (*models.AvailabilityRule, error) {
	rule := &models.AvailabilityRule{
		LawyerID:  lawyerID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Active:    true,
	}
	if r.Active != nil {
		rule.Active = *r.Active
	}
	if r.DayOfWeek != nil {
		day := models.DayOfWeek(*r.DayOfWeek)
		rule.DayOfWeek = &day
	}
	if r.SpecificDate != "" {
		date, err := time.Parse("2006-01-02", r.SpecificDate)
		if err != nil {
			return nil, err
		}
		rule.SpecificDate = &date
	}
	return rule, nil
}

// CreateAvailabilityRule adds one recurring or override window for the
// logged-in lawyer.
func CreateAvailabilityRule(c *fiber.Ctx) error {
	lawyerID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	req := new(availabilityRuleRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if err := validation.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid availability rule",
			Error:   err.Error(),
		})
	}

	rule, err := req.toModel(lawyerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid specific date",
			Error:   err.Error(),
		})
	}

	if err := store.AddRule(c.Context(), rule); err != nil {
		return utils.RespondError(c, "Failed to create availability rule", err)
	}
	return c.Status(fiber.StatusCreated).JSON(rule)
}

// GetMyAvailability lists the logged-in lawyer's rules, with overrides
// optionally narrowed by ?from=YYYY-MM-DD&to=YYYY-MM-DD.
func GetMyAvailability(c *fiber.Ctx) error {
	lawyerID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}
	return listAvailability(c, lawyerID)
}

// GetLawyerAvailability lists a lawyer's rules for clients planning a
// booking.
func GetLawyerAvailability(c *fiber.Ctx) error {
	lawyerID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lawyer ID",
		})
	}
	return listAvailability(c, uint(lawyerID))
}

func listAvailability(c *fiber.Ctx, lawyerID uint) error {
	var from, to *time.Time
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid from date, expected YYYY-MM-DD",
			})
		}
		from = &parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid to date, expected YYYY-MM-DD",
			})
		}
		to = &parsed
	}

	rules, err := store.ListRules(c.Context(), lawyerID, from, to)
	if err != nil {
		return utils.RespondError(c, "Failed to fetch availability", err)
	}
	return c.JSON(fiber.Map{
		"lawyer_id": lawyerID,
		"rules":     rules,
	})
}

// DeleteAvailabilityRule removes one rule owned by the logged-in lawyer.
func DeleteAvailabilityRule(c *fiber.Ctx) error {
	lawyerID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	ruleID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule ID",
		})
	}

	rule, err := availability.FindByID(c.Context(), uint(ruleID))
	if err != nil {
		return utils.RespondError(c, "Availability rule not found", err)
	}
	if rule.LawyerID != lawyerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only remove your own availability rules",
		})
	}

	if err := store.RemoveRule(c.Context(), uint(ruleID)); err != nil {
		return utils.RespondError(c, "Failed to remove availability rule", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type replaceScheduleRequest struct {
	Rules []availabilityRuleRequest `json:"rules" validate:"required,dive"`
}

// ReplaceRecurringSchedule swaps the lawyer's whole weekly schedule in one
// atomic write.
func ReplaceRecurringSchedule(c *fiber.Ctx) error {
	lawyerID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	req := new(replaceScheduleRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if err := validation.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid schedule",
			Error:   err.Error(),
		})
	}

	rules := make([]models.AvailabilityRule, 0, len(req.Rules))
	for _, ruleReq := range req.Rules {
		rule, err := ruleReq.toModel(lawyerID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid specific date",
				Error:   err.Error(),
			})
		}
		rules = append(rules, *rule)
	}

	if err := store.ReplaceRecurring(c.Context(), lawyerID, rules); err != nil {
		return utils.RespondError(c, "Failed to replace schedule", err)
	}

	updated, err := store.ListRules(c.Context(), lawyerID, nil, nil)
	if err != nil {
		return utils.RespondError(c, "Failed to fetch schedule", err)
	}
	return c.JSON(fiber.Map{
		"lawyer_id": lawyerID,
		"rules":     updated,
	})
}
