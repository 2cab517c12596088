package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lawbridge/lawbridge-api/db"
	"github.com/lawbridge/lawbridge-api/models"
	"github.com/lawbridge/lawbridge-api/utils"
)

// StartCronJobs initializes and starts the cron scheduler for consultation reminders
func StartCronJobs() {
	c := cron.New()
	// Run every minute to check for consultations in the next hour
	_, err := c.AddFunc("* * * * *", sendConsultationReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for consultation reminders")
}

// sendConsultationReminders emails both parties of confirmed consultations
// starting in roughly one hour
func sendConsultationReminders() {
	var appointments []models.Appointment
	now := time.Now()
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	err := db.DB.Preload("Client").Preload("Lawyer").
		Where("status = ? AND start_time BETWEEN ? AND ?", models.StatusConfirmed, startWindow, endWindow).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		if appointment.Client == nil || appointment.Lawyer == nil {
			continue
		}
		if err := sendReminderEmail(&appointment, appointment.Client, appointment.Lawyer); err != nil {
			log.Printf("Failed to send client reminder for appointment %d: %v", appointment.ID, err)
		}
		if err := sendReminderEmail(&appointment, appointment.Lawyer, appointment.Client); err != nil {
			log.Printf("Failed to send lawyer reminder for appointment %d: %v", appointment.ID, err)
		}
	}
}

// sendReminderEmail constructs and sends the reminder email to recipient,
// naming the other party of the consultation
func sendReminderEmail(appointment *models.Appointment, recipient, counterparty *models.User) error {
	subject := fmt.Sprintf("Reminder: Upcoming Consultation - %s", appointment.Title)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming consultation scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>With:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
			<li><strong>Meeting Type:</strong> %s</li>
		</ul>
		<p>If you need to reschedule or cancel, please do so as soon as possible.</p>
		<p>Best regards,</p>
		<p>The LawBridge Team</p>
	`, recipient.FullName(), counterparty.FullName(),
		appointment.StartTime.Format("2006-01-02 15:04:05"),
		appointment.EndTime.Format("2006-01-02 15:04:05"),
		appointment.MeetingType)

	return utils.SendEmail(recipient.Email, subject, body)
}
