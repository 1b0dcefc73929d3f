package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/config"
)

// Message kinds stored by the mock sender, derived from the subject line.
// Integration tests fetch them back via the service API's getTestEmail.
const (
	KindBookingConfirmation = "booking"
	KindHRNotice            = "hr-notice"
	KindInvitation          = "invitation"
	KindOfferResponse       = "offer-response"
	KindOffer               = "offer"
	KindUnknown             = "unknown"
)

// RedisSender implements Sender by storing emails in Redis instead of
// delivering them. Enabled with MOCK_SERVICES=true.
type RedisSender struct {
	client *redis.Client
	cfg    *config.Config
}

// NewRedisSender creates a new RedisSender.
func NewRedisSender(client *redis.Client, cfg *config.Config) Sender {
	return &RedisSender{client: client, cfg: cfg}
}

// kindFromSubject classifies a message by its subject line so tests can
// address the exact email they expect.
func kindFromSubject(subject string) string {
	switch {
	case strings.Contains(subject, "Collection Slot Confirmed"):
		return KindBookingConfirmation
	case strings.Contains(subject, "Slot Booked"):
		return KindHRNotice
	case strings.Contains(subject, "Book Your Offer Letter"):
		return KindInvitation
	case strings.Contains(subject, "Your Offer Has Been"):
		return KindOfferResponse
	case strings.Contains(subject, "Offer"):
		return KindOffer
	default:
		return KindUnknown
	}
}

// Send stores a JSON representation of the email under
// mockemail:<recipient>:<kind> with a short TTL.
func (s *RedisSender) Send(ctx context.Context, to []string, subject, body string) error {
	kind := kindFromSubject(subject)

	primaryTo := ""
	if len(to) > 0 {
		primaryTo = to[0]
	}

	payload := map[string]interface{}{
		"to":      strings.Join(to, ", "),
		"from":    s.cfg.SmtpFromAddress,
		"subject": subject,
		"body":    body,
		"sent_at": time.Now().UTC().Format(time.RFC3339Nano),
		"kind":    kind,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email data: %w", err)
	}

	key := fmt.Sprintf("mockemail:%s:%s", primaryTo, kind)
	ttl := 5 * time.Minute

	if err := s.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store email in Redis key '%s': %w", key, err)
	}

	log.Printf("Mock email stored in Redis key '%s' (TTL: %v, Subject: %s)", key, ttl, subject)
	return nil
}
