package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/config"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/email"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/models"
)

// Offer response actions accepted over the wire.
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
)

// IOfferService defines the offer lifecycle workflow.
type IOfferService interface {
	Create(ctx context.Context, candidateID primitive.ObjectID, emailAddr string) (*models.Offer, error)
	SendOffer(ctx context.Context, candidateID primitive.ObjectID, to, subject, body string) (*models.Offer, error)
	Respond(ctx context.Context, offerID primitive.ObjectID, action string) (*models.Offer, error)
	RespondByEmail(ctx context.Context, emailAddr, action string) (*models.Offer, error)
	StatusByCandidate(ctx context.Context, candidateID primitive.ObjectID) (*models.Offer, error)
	StatusByEmail(ctx context.Context, emailAddr string) (*models.Offer, error)
	ExpireOverdue(ctx context.Context) (int64, error)
}

const offersCollection = "offers"

type offerService struct {
	db         *mongo.Database
	cfg        *config.Config
	candidates ICandidateService
	sender     email.Sender
	locks      *keyedLock
	now        func() time.Time
}

// NewOfferService creates a new OfferService.
func NewOfferService(database *mongo.Database, cfg *config.Config, candidates ICandidateService, sender email.Sender) IOfferService {
	return &offerService{
		db:         database,
		cfg:        cfg,
		candidates: candidates,
		sender:     sender,
		locks:      newKeyedLock(),
		now:        time.Now,
	}
}

// Create persists a pending offer for the candidate with the configured
// response window. At most one offer per candidate.
func (s *offerService) Create(ctx context.Context, candidateID primitive.ObjectID, emailAddr string) (*models.Offer, error) {
	if _, err := s.candidates.FindByID(ctx, candidateID); err != nil {
		return nil, err
	}

	count, err := s.db.Collection(offersCollection).CountDocuments(ctx, bson.M{"candidateId": candidateID})
	if err != nil {
		return nil, &StorageError{Op: "offer duplicate check", Err: err}
	}
	if count > 0 {
		return nil, ErrDuplicateOffer
	}

	now := s.now().UTC()
	offer := &models.Offer{
		ID:          primitive.NewObjectID(),
		CandidateID: candidateID,
		Email:       emailAddr,
		Status:      models.OfferPending,
		SentAt:      now,
		ExpiresAt:   now.Add(s.cfg.OfferResponseTTL),
	}

	if _, err := s.db.Collection(offersCollection).InsertOne(ctx, offer); err != nil {
		return nil, &StorageError{Op: "offer insert", Err: err}
	}
	return offer, nil
}

// SendOffer creates the offer record and delivers the offer email. The
// record is committed before the send, so a delivery failure surfaces as a
// NotificationError with the offer already persisted.
func (s *offerService) SendOffer(ctx context.Context, candidateID primitive.ObjectID, to, subject, body string) (*models.Offer, error) {
	offer, err := s.Create(ctx, candidateID, to)
	if err != nil {
		return nil, err
	}
	if err := s.sender.Send(ctx, []string{to}, subject, body); err != nil {
		return offer, &NotificationError{Err: err}
	}
	return offer, nil
}

// Respond applies an accept/decline to the offer addressed by id.
func (s *offerService) Respond(ctx context.Context, offerID primitive.ObjectID, action string) (*models.Offer, error) {
	return s.respond(ctx, offerID, action, false)
}

// RespondByEmail resolves the candidate's most recent pending offer and
// applies the response. Unlike the by-id entry point, a decline also stamps
// the candidate record.
func (s *offerService) RespondByEmail(ctx context.Context, emailAddr, action string) (*models.Offer, error) {
	candidate, err := s.candidates.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}

	var offer models.Offer
	opts := options.FindOne().SetSort(bson.D{{Key: "sentAt", Value: -1}})
	err = s.db.Collection(offersCollection).FindOne(ctx,
		bson.M{"candidateId": candidate.ID, "status": models.OfferPending}, opts).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOfferNotFound
		}
		return nil, &StorageError{Op: "pending offer lookup", Err: err}
	}

	return s.respond(ctx, offer.ID, action, true)
}

// respond holds the per-offer lock across the read-check-write sequence.
// The state is re-read under the lock so concurrent responders cannot both
// pass the pending check.
func (s *offerService) respond(ctx context.Context, offerID primitive.ObjectID, action string, stampDecline bool) (*models.Offer, error) {
	if action != ActionAccept && action != ActionDecline {
		verr := &ValidationError{}
		verr.add("action", "Invalid action. Must be accept or decline")
		return nil, verr
	}

	unlock := s.locks.Lock("offer:" + offerID.Hex())
	defer unlock()

	var offer models.Offer
	err := s.db.Collection(offersCollection).FindOne(ctx, bson.M{"_id": offerID}).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOfferNotFound
		}
		return nil, &StorageError{Op: "offer lookup", Err: err}
	}

	if offer.Status != models.OfferPending {
		return nil, ErrAlreadyProcessed
	}

	now := s.now().UTC()
	if now.After(offer.ExpiresAt) {
		// Lazy expiry: the transition is persisted even though the response
		// attempt itself is rejected.
		if err := s.setStatus(ctx, offer.ID, models.OfferExpired, nil); err != nil {
			return nil, err
		}
		return nil, ErrOfferExpired
	}

	status := models.OfferAccepted
	if action == ActionDecline {
		status = models.OfferDeclined
	}
	if err := s.setStatus(ctx, offer.ID, status, &now); err != nil {
		return nil, err
	}
	offer.Status = status
	offer.RespondedAt = &now

	if status == models.OfferAccepted {
		if err := s.candidates.SetStatus(ctx, offer.CandidateID, models.CandidateStatusOfferAccepted); err != nil {
			return nil, err
		}
	} else if stampDecline {
		if err := s.candidates.SetStatus(ctx, offer.CandidateID, models.CandidateStatusOfferDeclined); err != nil {
			return nil, err
		}
	}

	name := ""
	if candidate, err := s.candidates.FindByID(ctx, offer.CandidateID); err == nil {
		name = candidate.FullName
	}
	subject, body := email.OfferResponseConfirmation(s.cfg, name, offer.Status)
	if err := s.sender.Send(ctx, []string{offer.Email}, subject, body); err != nil {
		return &offer, &NotificationError{Err: err}
	}

	return &offer, nil
}

func (s *offerService) setStatus(ctx context.Context, offerID primitive.ObjectID, status models.OfferStatus, respondedAt *time.Time) error {
	set := bson.M{"status": status}
	if respondedAt != nil {
		set["respondedAt"] = *respondedAt
	}
	if _, err := s.db.Collection(offersCollection).UpdateByID(ctx, offerID, bson.M{"$set": set}); err != nil {
		return &StorageError{Op: "offer status update", Err: err}
	}
	return nil
}

// StatusByCandidate returns the candidate's most recent offer, lazily
// expiring an overdue pending one. Terminal states are never touched.
func (s *offerService) StatusByCandidate(ctx context.Context, candidateID primitive.ObjectID) (*models.Offer, error) {
	return s.latestWithLazyExpiry(ctx, bson.M{"candidateId": candidateID})
}

// StatusByEmail is StatusByCandidate keyed by the candidate's email.
func (s *offerService) StatusByEmail(ctx context.Context, emailAddr string) (*models.Offer, error) {
	candidate, err := s.candidates.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	return s.latestWithLazyExpiry(ctx, bson.M{"candidateId": candidate.ID})
}

func (s *offerService) latestWithLazyExpiry(ctx context.Context, filter bson.M) (*models.Offer, error) {
	var offer models.Offer
	opts := options.FindOne().SetSort(bson.D{{Key: "sentAt", Value: -1}})
	err := s.db.Collection(offersCollection).FindOne(ctx, filter, opts).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOfferNotFound
		}
		return nil, &StorageError{Op: "offer lookup", Err: err}
	}

	if offer.Status == models.OfferPending && s.now().UTC().After(offer.ExpiresAt) {
		unlock := s.locks.Lock("offer:" + offer.ID.Hex())
		defer unlock()

		// Re-read under the lock; a concurrent responder may have won.
		if err := s.db.Collection(offersCollection).FindOne(ctx, bson.M{"_id": offer.ID}).Decode(&offer); err != nil {
			return nil, &StorageError{Op: "offer re-read", Err: err}
		}
		if offer.Status == models.OfferPending {
			if err := s.setStatus(ctx, offer.ID, models.OfferExpired, nil); err != nil {
				return nil, err
			}
			offer.Status = models.OfferExpired
		}
	}

	return &offer, nil
}

// ExpireOverdue flips every overdue pending offer to expired in one write.
// Runs from the periodic background sweep; lazy expiry on the read paths
// remains the authoritative mechanism.
func (s *offerService) ExpireOverdue(ctx context.Context) (int64, error) {
	res, err := s.db.Collection(offersCollection).UpdateMany(ctx,
		bson.M{"status": models.OfferPending, "expiresAt": bson.M{"$lt": s.now().UTC()}},
		bson.M{"$set": bson.M{"status": models.OfferExpired}})
	if err != nil {
		return 0, &StorageError{Op: "offer expiry sweep", Err: err}
	}
	return res.ModifiedCount, nil
}
