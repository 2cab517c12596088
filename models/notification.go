package models

import (
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationAppointmentRequest   NotificationType = "APPOINTMENT_REQUEST"
	NotificationAppointmentConfirmed NotificationType = "APPOINTMENT_CONFIRMED"
	NotificationAppointmentCancelled NotificationType = "APPOINTMENT_CANCELLED"
	NotificationAppointmentUpdated   NotificationType = "APPOINTMENT_UPDATED"
	NotificationAppointmentReminder  NotificationType = "APPOINTMENT_REMINDER"
)

// Notification is a fire-and-forget record of a state change relevant to a
// user. Delivery is best effort; the booking engine never fails because a
// notification could not be written or mailed.
type Notification struct {
	gorm.Model
	UserID  uint             `json:"user_id" gorm:"index;not null"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type" gorm:"type:varchar(40)"`
	Data    string           `json:"data,omitempty" gorm:"type:text"` // JSON string of context data
	Read    bool             `json:"read" gorm:"default:false;index"`
}
