package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/slots"
)

// EmailType marks which notification variant was sent for an appointment.
// Informational only.
const (
	EmailTypeBooking      = "booking"
	EmailTypeConfirmation = "confirmation"
)

// Appointment is a booked offer-letter collection slot. At most one active
// appointment exists per email; capacity per (date, slot) is unlimited.
type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CandidateID     primitive.ObjectID `bson:"candidateId" json:"candidateId"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone" json:"phone"`
	Position        string             `bson:"position" json:"position"`
	Date            string             `bson:"date" json:"date"` // YYYY-MM-DD
	Slot            slots.Slot         `bson:"slot" json:"slot"`
	LetterCollected bool               `bson:"letterCollected" json:"letterCollected"`
	CollectedAt     *time.Time         `bson:"collectedAt,omitempty" json:"collectedAt,omitempty"`
	EmailType       string             `bson:"emailType" json:"emailType"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
