package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/lawbridge-api/db"
	"github.com/lawbridge/lawbridge-api/models"
	"github.com/lawbridge/lawbridge-api/utils"
)

const notificationPageSize = 50

// GetNotifications lists the caller's notifications, newest first.
// ?unread_only=true narrows to unread ones.
func GetNotifications(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	query := db.DB.WithContext(c.Context()).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(notificationPageSize)
	if c.Query("unread_only") == "true" {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch notifications",
			Error:   err.Error(),
		})
	}

	var unread int64
	db.DB.WithContext(c.Context()).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread)

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	result := db.DB.WithContext(c.Context()).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update notification",
			Error:   result.Error.Error(),
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead clears the caller's unread set.
func MarkAllNotificationsRead(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	if err := db.DB.WithContext(c.Context()).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update notifications",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}

// NextNotification long-polls for the caller's next in-app notification.
// Responds 204 when nothing arrives within the wait window.
func NextNotification(c *fiber.Ctx) error {
	userID, _, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User ID not found in context",
		})
	}

	ch, disconnect := registry.Connect(userID)
	defer disconnect()

	timer := time.NewTimer(25 * time.Second)
	defer timer.Stop()

	select {
	case notification, open := <-ch:
		if !open {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.JSON(notification)
	case <-timer.C:
		return c.SendStatus(fiber.StatusNoContent)
	}
}
