package utils

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/gomail.v2"
)

// SendEmail delivers one HTML mail through the configured SMTP relay.
// EMAIL_FROM may differ from the authenticating EMAIL_USER; it falls back
// to the user when unset.
func SendEmail(to, subject, body string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = os.Getenv("EMAIL_USER")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", from, "LawBridge")
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASS"),
	)

	return d.DialAndSend(m)
}
