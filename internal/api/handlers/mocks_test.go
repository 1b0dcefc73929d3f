package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/models"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/services"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/slots"
)

// --- Mocks ---

// MockAppointmentService
type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) Book(ctx context.Context, req services.BookingRequest) (*models.Appointment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockAppointmentService) List(ctx context.Context) ([]models.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockAppointmentService) MarkLetterCollected(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockAppointmentService) SendBookingInvitation(ctx context.Context, name, emailAddr, position, candidateID string) error {
	args := m.Called(ctx, name, emailAddr, position, candidateID)
	return args.Error(0)
}

func (m *MockAppointmentService) CountByDateSlot(ctx context.Context, date string) (map[slots.Slot]int, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[slots.Slot]int), args.Error(1)
}

// MockOfferService
type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) Create(ctx context.Context, candidateID primitive.ObjectID, emailAddr string) (*models.Offer, error) {
	args := m.Called(ctx, candidateID, emailAddr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockOfferService) SendOffer(ctx context.Context, candidateID primitive.ObjectID, to, subject, body string) (*models.Offer, error) {
	args := m.Called(ctx, candidateID, to, subject, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockOfferService) Respond(ctx context.Context, offerID primitive.ObjectID, action string) (*models.Offer, error) {
	args := m.Called(ctx, offerID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockOfferService) RespondByEmail(ctx context.Context, emailAddr, action string) (*models.Offer, error) {
	args := m.Called(ctx, emailAddr, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockOfferService) StatusByCandidate(ctx context.Context, candidateID primitive.ObjectID) (*models.Offer, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockOfferService) StatusByEmail(ctx context.Context, emailAddr string) (*models.Offer, error) {
	args := m.Called(ctx, emailAddr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockOfferService) ExpireOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
