package emailsender

import (
	"fmt"
	"html"
	"os"

	"gopkg.in/gomail.v2"

	"notifier/config"
)

type EmailSender struct {
	SmtpServer *gomail.Dialer
	fromEmail  string
}

// New dials the server once so a bad configuration fails at startup. The
// password comes from SMTP_PASSWORD.
func New(cfg config.SMTPConfig) (*EmailSender, error) {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, os.Getenv("SMTP_PASSWORD"))

	conn, err := d.Dial()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server %s:%d for user %s: %w", cfg.Host, cfg.Port, cfg.Username, err)
	}
	defer conn.Close()

	return &EmailSender{SmtpServer: d, fromEmail: cfg.Username}, nil
}

func (e *EmailSender) SendStreakRecap(recipientEmail, name string, streak int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.fromEmail)
	m.SetHeader("To", recipientEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your week: %d-day streak 🔥", streak))
	m.SetBody("text/html", RecapBody(name, streak))

	if err := e.SmtpServer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send recap email to %s: %w", recipientEmail, err)
	}
	return nil
}

func RecapBody(name string, streak int) string {
	greeting := "Hi there,"
	if name != "" {
		greeting = fmt.Sprintf("Hi %s,", html.EscapeString(name))
	}
	days := "days"
	if streak == 1 {
		days = "day"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Your weekly recap</title>
    <style>
        body { font-family: sans-serif; background-color: #f4f4f4; margin: 0; padding: 20px; color: #333; }
        .container { max-width: 600px; margin: auto; background: white; padding: 20px; border-radius: 8px; }
        .streak { font-size: 40px; font-weight: 700; text-align: center; color: #e67e22; }
    </style>
</head>
<body>
    <div class="container">
        <p>%s</p>
        <p class="streak">🔥 %d %s</p>
        <p>That is your current streak. Keep showing up this week!</p>
    </div>
</body>
</html>`, greeting, streak, days)
}
