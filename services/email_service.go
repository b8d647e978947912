package services

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/gomail.v2"
)

// EmailService sends transactional emails over SMTP
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	appURL   string
}

// NewEmailService creates a new email service instance
func NewEmailService() *EmailService {
	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		fmt.Sscanf(p, "%d", &port)
	}

	return &EmailService{
		host:     getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     getEnvOrDefault("SMTP_FROM", "noreply@scholarhub.app"),
		appURL:   getEnvOrDefault("APP_URL", "http://localhost:3000"),
	}
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

func (e *EmailService) send(to, subject, htmlBody string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured, skipping email to %s: %s", to, subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(e.host, e.port, e.username, e.password)
	return d.DialAndSend(m)
}

// SendUniversityVerifiedEmail notifies a university that an admin verified it
func (e *EmailService) SendUniversityVerifiedEmail(toEmail, universityName string) error {
	subject := "Your university has been verified"
	body := fmt.Sprintf(`
		<h2>Congratulations, %s!</h2>
		<p>Your university account has been verified. You can now publish scholarship listings.</p>
		<p><a href="%s/university/dashboard">Go to your dashboard</a></p>
	`, universityName, e.appURL)
	return e.send(toEmail, subject, body)
}

// SendListingRemovedEmail notifies a provider that an admin removed a listing
func (e *EmailService) SendListingRemovedEmail(toEmail, listingTitle, reason string) error {
	subject := "A scholarship listing was removed"
	if reason == "" {
		reason = "No reason was provided."
	}
	body := fmt.Sprintf(`
		<h2>Listing removed</h2>
		<p>Your listing <strong>%s</strong> was removed by a moderator.</p>
		<p>Reason: %s</p>
	`, listingTitle, reason)
	return e.send(toEmail, subject, body)
}
