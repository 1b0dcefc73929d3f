package email

import (
	"context"
	"fmt"
	"strings"
)

// CompositeEmailSender fans a message out to multiple Senders. Used to pair
// the primary (SMTP or mock) sender with the optional file logger.
type CompositeEmailSender struct {
	senders []Sender
}

// NewCompositeEmailSender creates a new CompositeEmailSender. Returns the
// concrete type so AddSender can be called during wiring.
func NewCompositeEmailSender(senders ...Sender) *CompositeEmailSender {
	return &CompositeEmailSender{senders: senders}
}

// AddSender adds a sender to the composite sender's list.
func (cs *CompositeEmailSender) AddSender(sender Sender) {
	if sender != nil {
		cs.senders = append(cs.senders, sender)
	}
}

// Send delivers through every registered sender and reports all failures as
// a single error.
func (cs *CompositeEmailSender) Send(ctx context.Context, to []string, subject, body string) error {
	if len(cs.senders) == 0 {
		return fmt.Errorf("no senders configured in CompositeEmailSender")
	}

	var failures []string
	for _, sender := range cs.senders {
		if err := sender.Send(ctx, to, subject, body); err != nil {
			failures = append(failures, err.Error())
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("composite email send failed: [ %s ]", strings.Join(failures, "; "))
	}
	return nil
}
