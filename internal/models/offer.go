package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OfferStatus is the offer state machine:
// pending -> accepted | declined | expired, all three terminal.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferDeclined OfferStatus = "declined"
	OfferExpired  OfferStatus = "expired"
)

// Terminal reports whether no further transition may leave s.
func (s OfferStatus) Terminal() bool {
	return s == OfferAccepted || s == OfferDeclined || s == OfferExpired
}

// Offer is a time-boxed proposal requiring accept/decline before ExpiresAt.
// At most one offer exists per candidate (enforced by the workflow).
type Offer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CandidateID primitive.ObjectID `bson:"candidateId" json:"candidateId"`
	Email       string             `bson:"email" json:"email"`
	Status      OfferStatus        `bson:"status" json:"status"`
	RespondedAt *time.Time         `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	SentAt      time.Time          `bson:"sentAt" json:"sentAt"`
	ExpiresAt   time.Time          `bson:"expiresAt" json:"expiresAt"`
}
