package consumer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/lawbridge-api/booking"
	"github.com/lawbridge/lawbridge-api/db"
	"github.com/lawbridge/lawbridge-api/models"
	"github.com/lawbridge/lawbridge-api/redis"
	"github.com/lawbridge/lawbridge-api/utils"
)

var search *booking.Search

// Init hands the consumer-facing endpoints their search service. Called
// once from main.
func Init(searchService *booking.Search) {
	search = searchService
}

// searchCacheTTL keeps availability results fresh enough that a booking
// made elsewhere disappears from search within seconds.
const searchCacheTTL = 30 * time.Second

var allowedSearchParams = map[string]bool{
	"date":          true,
	"time":          true,
	"practice_area": true,
	"duration":      true,
}

// FindAvailableLawyers lists the verified lawyers free at the requested
// date and time. Unknown query parameters are rejected so a misspelled
// filter fails loudly instead of silently widening the search.
func FindAvailableLawyers(c *fiber.Ctx) error {
	for key := range c.Queries() {
		if !allowedSearchParams[key] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Unknown query parameter: %s", key),
			})
		}
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date is required, expected YYYY-MM-DD",
		})
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	timeOfDay := booking.TimeOfDay(0)
	if timeStr := c.Query("time"); timeStr != "" {
		timeOfDay, err = booking.ParseTimeOfDay(timeStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid time, expected HH:MM",
			})
		}
	}

	duration := booking.DefaultSlotDuration
	if durationStr := c.Query("duration"); durationStr != "" {
		minutes, err := strconv.Atoi(durationStr)
		if err != nil || minutes <= 0 || minutes > 480 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid duration, expected minutes between 1 and 480",
			})
		}
		duration = time.Duration(minutes) * time.Minute
	}

	filter := booking.SearchFilter{
		Date:         date,
		Time:         timeOfDay,
		PracticeArea: c.Query("practice_area"),
		SlotDuration: duration,
	}

	cacheKey := fmt.Sprintf("search:%s:%s:%s:%d", dateStr, timeOfDay, filter.PracticeArea, int(duration.Minutes()))
	if cached, err := redis.Client.Get(c.Context(), cacheKey).Result(); err == nil {
		c.Set("X-Cache", "HIT")
		c.Set("Content-Type", "application/json")
		return c.SendString(cached)
	}

	lawyers, err := search.FindAvailableLawyers(c.Context(), filter)
	if err != nil {
		return utils.RespondError(c, "Failed to search availability", err)
	}

	payload, err := json.Marshal(fiber.Map{
		"date":    dateStr,
		"time":    timeOfDay.String(),
		"lawyers": lawyers,
		"count":   len(lawyers),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to encode search results",
		})
	}
	redis.Client.Set(c.Context(), cacheKey, payload, searchCacheTTL)

	c.Set("Content-Type", "application/json")
	return c.Send(payload)
}

// GetAllLawyers returns the public lawyer directory, paginated.
func GetAllLawyers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := db.DB.WithContext(c.Context()).
		Preload("User").
		Where("verified = ?", true)
	if area := c.Query("practice_area"); area != "" {
		query = query.Where("practice_areas ILIKE ?", "%"+area+"%")
	}

	var profiles []models.LawyerProfile
	if err := query.
		Order("user_id ASC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch lawyers",
		})
	}

	var count int64
	db.DB.WithContext(c.Context()).
		Model(&models.LawyerProfile{}).
		Where("verified = ?", true).
		Count(&count)

	for i := range profiles {
		if profiles[i].User != nil {
			profiles[i].User.Password = ""
		}
	}

	return c.JSON(fiber.Map{
		"lawyers": profiles,
		"total":   count,
		"page":    page,
		"limit":   limit,
		"pages":   (int(count) + limit - 1) / limit,
	})
}

// GetLawyerDetails returns one lawyer's public profile with upcoming
// availability rules.
func GetLawyerDetails(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lawyer ID",
		})
	}

	var profile models.LawyerProfile
	if err := db.DB.WithContext(c.Context()).
		Preload("User").
		Where("user_id = ?", id).
		First(&profile).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lawyer not found",
		})
	}
	if profile.User != nil {
		profile.User.Password = ""
	}

	var rules []models.AvailabilityRule
	db.DB.WithContext(c.Context()).
		Where("lawyer_id = ? AND active = ?", profile.UserID, true).
		Order("day_of_week ASC, specific_date ASC, start_time ASC").
		Find(&rules)

	return c.JSON(fiber.Map{
		"lawyer":       profile,
		"availability": rules,
	})
}
