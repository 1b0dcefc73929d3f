package email

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/config"
)

// Sender delivers a plain-text notification. Sending is best-effort: callers
// persist state first and surface send failures without rolling back.
type Sender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// SMTPSender implements Sender using Go's net/smtp package.
type SMTPSender struct {
	cfg  *config.Config
	auth smtp.Auth
	addr string
}

// NewSMTPSender creates a new SMTPSender. When no SMTP host is configured it
// falls back to a logging sender so development environments work unattended.
func NewSMTPSender(cfg *config.Config) Sender {
	if cfg.SmtpHost == "" {
		log.Println("SMTP host not configured, using logging email sender.")
		return &LoggingSender{cfg: cfg}
	}

	auth := smtp.PlainAuth("", cfg.SmtpUsername, cfg.SmtpPassword, cfg.SmtpHost)
	addr := fmt.Sprintf("%s:%d", cfg.SmtpHost, cfg.SmtpPort)

	return &SMTPSender{cfg: cfg, auth: auth, addr: addr}
}

// Send composes the message headers around body and submits it via SMTP.
func (s *SMTPSender) Send(ctx context.Context, to []string, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.SmtpFromAddress)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(s.addr, s.auth, s.cfg.SmtpFromAddress, to, []byte(msg.String())); err != nil {
		log.Printf("Failed to send email via SMTP to %v: %v", to, err)
		return fmt.Errorf("smtp error: %w", err)
	}
	log.Printf("Email sent successfully via SMTP to %v (Subject: %s)", to, subject)
	return nil
}

// LoggingSender is a mock implementation that just logs email details.
// Useful for development or when SMTP isn't configured.
type LoggingSender struct {
	cfg *config.Config
}

// Send logs the email details instead of sending.
func (s *LoggingSender) Send(ctx context.Context, to []string, subject, body string) error {
	log.Printf("--- Sending Email (Logged) ---")
	log.Printf("To: %v", to)
	log.Printf("From: %s", s.cfg.SmtpFromAddress)
	log.Printf("Subject: %s", subject)
	log.Println(body)
	log.Println("--- End Email ---")
	return nil
}
