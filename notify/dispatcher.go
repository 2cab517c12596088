package notify

import (
	"context"
	"encoding/json"
	"log"

	"gorm.io/gorm"

	"github.com/lawbridge/lawbridge-api/models"
)

// Dispatcher is the notification sink consumed by the booking engine. It
// persists a Notification row, pushes it to the user's live channels and
// falls back to a best-effort email. Every failure is logged and swallowed:
// a booking or status transition never fails because of its notification.
type Dispatcher struct {
	db       *gorm.DB
	registry *Registry
	// sendMail is best effort; nil disables email delivery.
	sendMail func(to, subject, body string) error
}

func NewDispatcher(db *gorm.DB, registry *Registry, sendMail func(to, subject, body string) error) *Dispatcher {
	return &Dispatcher{db: db, registry: registry, sendMail: sendMail}
}

func (d *Dispatcher) Notify(ctx context.Context, userID uint, title, message string, kind models.NotificationType, data map[string]any) {
	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
	}
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			log.Printf("notify: could not encode context data for user %d: %v", userID, err)
		} else {
			notification.Data = string(encoded)
		}
	}

	if err := d.db.WithContext(ctx).Create(&notification).Error; err != nil {
		log.Printf("notify: could not store notification for user %d: %v", userID, err)
		return
	}

	if d.registry.Push(userID, notification) {
		return
	}

	if d.sendMail == nil {
		return
	}
	// The user is offline; email them in the background.
	go func() {
		var user models.User
		if err := d.db.First(&user, userID).Error; err != nil {
			log.Printf("notify: could not load user %d for email: %v", userID, err)
			return
		}
		body := "<p>Dear " + user.FullName() + ",</p><p>" + message + "</p>"
		if err := d.sendMail(user.Email, title, body); err != nil {
			log.Printf("notify: could not email user %d: %v", userID, err)
		}
	}()
}
