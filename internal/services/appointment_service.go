package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/config"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/db"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/email"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/models"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/slots"
)

// BookingRequest carries the raw booking input before validation.
type BookingRequest struct {
	CandidateID string
	Name        string
	Email       string
	Phone       string
	Position    string
	Date        string
	Slot        slots.Slot
}

// IAppointmentService defines the appointment booking workflow.
type IAppointmentService interface {
	Book(ctx context.Context, req BookingRequest) (*models.Appointment, error)
	List(ctx context.Context) ([]models.Appointment, error)
	MarkLetterCollected(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	SendBookingInvitation(ctx context.Context, name, emailAddr, position, candidateID string) error
	CountByDateSlot(ctx context.Context, date string) (map[slots.Slot]int, error)
}

const appointmentsCollection = "appointments"

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidEmail reports whether addr passes the basic address shape check used
// across the booking and offer endpoints.
func ValidEmail(addr string) bool {
	return emailRe.MatchString(addr)
}

type appointmentService struct {
	db         *mongo.Database
	cfg        *config.Config
	candidates ICandidateService
	sender     email.Sender
	locks      *keyedLock
	now        func() time.Time
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(database *mongo.Database, cfg *config.Config, candidates ICandidateService, sender email.Sender) IAppointmentService {
	return &appointmentService{
		db:         database,
		cfg:        cfg,
		candidates: candidates,
		sender:     sender,
		locks:      newKeyedLock(),
		now:        time.Now,
	}
}

// validateBooking collects every violation instead of failing on the first.
func validateBooking(req BookingRequest) (primitive.ObjectID, error) {
	verr := &ValidationError{}
	var candidateID primitive.ObjectID

	if req.CandidateID == "" {
		verr.add("candidateId", "Candidate ID is required")
	} else {
		var err error
		candidateID, err = primitive.ObjectIDFromHex(req.CandidateID)
		if err != nil {
			verr.add("candidateId", "Candidate ID must be a valid id")
		}
	}
	if req.Name == "" {
		verr.add("name", "Name is required")
	}
	if !ValidEmail(req.Email) {
		verr.add("email", "Valid email is required")
	}
	if req.Phone == "" {
		verr.add("phone", "Phone number is required")
	}
	if req.Position == "" {
		verr.add("position", "Position is required")
	}
	if _, _, _, err := slots.ParseDate(req.Date); err != nil {
		verr.add("date", "Date must be in YYYY-MM-DD format")
	}
	if !slots.Valid(req.Slot) {
		verr.add("slot", "Slot must be either 2-3 or 3-4")
	}

	return candidateID, verr.orNil()
}

// Book validates the request, resolves duplicate bookings for the email and
// persists the appointment before triggering the candidate and HR
// notifications. A notification failure is reported to the caller but the
// appointment stays committed.
func (s *appointmentService) Book(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	candidateID, err := validateBooking(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.candidates.FindByID(ctx, candidateID); err != nil {
		return nil, err
	}

	// Bookings are serialized per email: the duplicate check below and the
	// replace-on-rebook write must not interleave across requests.
	unlock := s.locks.Lock("appointment:" + req.Email)
	defer unlock()

	apptID := primitive.NewObjectID()
	var existing models.Appointment
	err = s.db.Collection(appointmentsCollection).FindOne(ctx, bson.M{"email": req.Email}).Decode(&existing)
	switch {
	case err == nil:
		if existing.Date == req.Date && existing.Slot == req.Slot {
			return nil, ErrDuplicateBooking
		}
		// Different date/slot: the prior appointment is replaced atomically
		// by the upsert below once the new booking passes validation. The
		// replacement keeps the matched document's _id since Mongo rejects a
		// replaceOne that alters it.
		apptID = existing.ID
	case errors.Is(err, mongo.ErrNoDocuments):
		// First booking for this email
	default:
		return nil, &StorageError{Op: "appointment lookup", Err: err}
	}

	now := s.now()
	if err := slots.CheckDate(req.Date, now); err != nil {
		return nil, err
	}
	if slots.IsToday(req.Date, now) && !slots.IsBookable(req.Slot, now) {
		return nil, ErrCutoffPassed
	}

	appt := &models.Appointment{
		ID:          apptID,
		CandidateID: candidateID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Position:    req.Position,
		Date:        req.Date,
		Slot:        req.Slot,
		EmailType:   models.EmailTypeBooking,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}

	// Single upsert keyed by email: rebooking replaces the old appointment
	// without a window where the email has none.
	err = db.Try(func() error {
		_, replaceErr := s.db.Collection(appointmentsCollection).ReplaceOne(
			ctx, bson.M{"email": req.Email}, appt, options.Replace().SetUpsert(true))
		return replaceErr
	})
	if err != nil {
		return nil, &StorageError{Op: "appointment insert", Err: err}
	}

	// Re-fetch for notification enrichment. The appointment is committed, so
	// a candidate that vanished in the meantime degrades the HR email rather
	// than failing the booking.
	candidate, _ := s.candidates.FindByID(ctx, candidateID)

	if err := s.sendBookingNotifications(ctx, appt, candidate); err != nil {
		return appt, &NotificationError{Err: err}
	}
	return appt, nil
}

func formatDateLabel(date string) string {
	t, err := time.Parse(slots.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

func (s *appointmentService) sendBookingNotifications(ctx context.Context, appt *models.Appointment, candidate *models.Candidate) error {
	dateLabel := formatDateLabel(appt.Date)
	slotLabel := slots.Label(appt.Slot)

	subject, body := email.BookingConfirmation(s.cfg, appt.Name, dateLabel, slotLabel)
	if err := s.sender.Send(ctx, []string{appt.Email}, subject, body); err != nil {
		return fmt.Errorf("candidate confirmation: %w", err)
	}

	subject, body = email.HRBookingNotice(s.cfg, appt, candidate, dateLabel, slotLabel)
	if err := s.sender.Send(ctx, []string{s.cfg.HRNotifyEmail}, subject, body); err != nil {
		return fmt.Errorf("hr notification: %w", err)
	}
	return nil
}

// List returns all appointments sorted by date then slot.
func (s *appointmentService) List(ctx context.Context) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "slot", Value: 1}})
	cursor, err := s.db.Collection(appointmentsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, &StorageError{Op: "appointment list", Err: err}
	}
	defer cursor.Close(ctx)

	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, &StorageError{Op: "appointment list decode", Err: err}
	}
	return appointments, nil
}

// MarkLetterCollected flags the appointment's letter as collected. Repeat
// invocations simply re-stamp collectedAt.
func (s *appointmentService) MarkLetterCollected(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	now := s.now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"letterCollected": true, "collectedAt": now, "updatedAt": now}}

	var appt models.Appointment
	err := s.db.Collection(appointmentsCollection).FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&appt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAppointmentNotFound
		}
		return nil, &StorageError{Op: "appointment collect update", Err: err}
	}
	return &appt, nil
}

// SendBookingInvitation emails a candidate the frontend link for picking a
// collection slot. Pure notification trigger, nothing is persisted.
func (s *appointmentService) SendBookingInvitation(ctx context.Context, name, emailAddr, position, candidateID string) error {
	verr := &ValidationError{}
	if name == "" {
		verr.add("name", "Name is required")
	}
	if emailAddr == "" {
		verr.add("email", "Email is required")
	}
	if candidateID == "" {
		verr.add("candidateId", "Candidate ID is required")
	}
	if err := verr.orNil(); err != nil {
		return err
	}

	link := email.BookingLink(s.cfg, name, emailAddr, position, candidateID)
	subject, body := email.BookingInvitation(s.cfg, name, position, link)
	if err := s.sender.Send(ctx, []string{emailAddr}, subject, body); err != nil {
		return &NotificationError{Err: err}
	}
	return nil
}

// CountByDateSlot returns the current booking count per slot for a date.
func (s *appointmentService) CountByDateSlot(ctx context.Context, date string) (map[slots.Slot]int, error) {
	counts := make(map[slots.Slot]int, 2)
	for _, slot := range slots.All() {
		n, err := s.db.Collection(appointmentsCollection).CountDocuments(ctx, bson.M{"date": date, "slot": slot})
		if err != nil {
			return nil, &StorageError{Op: "appointment count", Err: err}
		}
		counts[slot] = int(n)
	}
	return counts, nil
}
