package utils

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// Mailer sends order-confirmation emails over SMTP. Sending is best-effort:
// callers log failures and never propagate them to the ordering user.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// MailerFromEnv builds a Mailer from SMTP_HOST, SMTP_PORT, SMTP_USER,
// SMTP_PASS and SMTP_FROM. Returns nil when no host is configured so callers
// can skip sending entirely.
func MailerFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	return &Mailer{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASS"),
		From:     from,
	}
}

// SendOrderConfirmation emails the purchaser that their order was placed.
func (m *Mailer) SendOrderConfirmation(toEmail, orderID, status string) error {
	if m == nil {
		return nil
	}
	subject := "Order Confirmation - Your Food is on the Way!"
	body := fmt.Sprintf(
		"Your order has been placed.\r\n\r\nOrder ID: %s\r\nStatus: %s\r\n\r\nWe'll notify you when your food is on the move.\r\n\r\nThanks for ordering with us!\r\nFoodie Team\r\n",
		orderID, status,
	)

	var msg strings.Builder
	msg.WriteString("From: " + m.From + "\r\n")
	msg.WriteString("To: " + toEmail + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := m.Host + ":" + m.Port
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	return smtp.SendMail(addr, auth, m.From, []string{toEmail}, []byte(msg.String()))
}
