package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/config"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/models"
)

func msgConfig() *config.Config {
	return &config.Config{
		CompanyName:   "Sandevex",
		OfficeAddress: "Sandevex | SandHut India Private Limited, Bangalore",
		FrontendURL:   "https://careers.sandevex.com",
	}
}

func TestBookingConfirmation(t *testing.T) {
	subject, body := BookingConfirmation(msgConfig(), "Rashmi B R", "Sunday, June 15, 2025", "2:00 PM - 3:00 PM")
	assert.Equal(t, SubjectBookingConfirmation, subject)
	assert.Contains(t, body, "Dear Rashmi B R")
	assert.Contains(t, body, "Sunday, June 15, 2025")
	assert.Contains(t, body, "2:00 PM - 3:00 PM")
	assert.Contains(t, body, "Sandevex | SandHut India Private Limited, Bangalore")
	assert.Contains(t, body, "Aadhar Card and PAN Card")
}

func TestHRBookingNotice(t *testing.T) {
	appt := &models.Appointment{
		Name:     "Rashmi B R",
		Email:    "rashmi@example.com",
		Phone:    "9876543210",
		Position: "Backend Intern",
	}
	candidate := &models.Candidate{
		FullName:        "Rashmi B R",
		Email:           "rashmi@example.com",
		CollegeName:     "RV College of Engineering",
		TechnicalSkills: []string{"Go", "MongoDB"},
	}

	subject, body := HRBookingNotice(msgConfig(), appt, candidate, "Sunday, June 15, 2025", "2:00 PM - 3:00 PM")
	assert.Equal(t, SubjectHRNotice, subject)
	assert.Contains(t, body, "College: RV College of Engineering")
	assert.Contains(t, body, "Technical Skills: Go, MongoDB")
	assert.Contains(t, body, "Portfolio: Not provided")
}

func TestHRBookingNotice_NilCandidate(t *testing.T) {
	appt := &models.Appointment{Name: "Ghost", Email: "ghost@example.com"}
	_, body := HRBookingNotice(msgConfig(), appt, nil, "Monday, June 16, 2025", "3:00 PM - 4:00 PM")
	assert.Contains(t, body, "Candidate data not available")
	assert.Contains(t, body, "Candidate: Ghost")
}

func TestBookingLink(t *testing.T) {
	candidateID := primitive.NewObjectID().Hex()
	link := BookingLink(msgConfig(), "Rashmi B R", "rashmi@example.com", "Backend Intern", candidateID)
	assert.Contains(t, link, "https://careers.sandevex.com/candidate/book-slot?")
	assert.Contains(t, link, "candidateId="+candidateID)
	assert.Contains(t, link, "name=Rashmi+B+R")
	assert.Contains(t, link, "email=rashmi%40example.com")
}

func TestBookingInvitation(t *testing.T) {
	subject, body := BookingInvitation(msgConfig(), "Rashmi B R", "Backend Intern", "https://example.com/book")
	assert.Equal(t, SubjectInvitation, subject)
	assert.Contains(t, body, "Backend Intern role at Sandevex")
	assert.Contains(t, body, "https://example.com/book")
	assert.Contains(t, body, "booking closes at 11:00 AM")
	assert.Contains(t, body, "booking closes at 12:00 PM")
}

func TestOfferResponseConfirmation(t *testing.T) {
	subject, body := OfferResponseConfirmation(msgConfig(), "Rashmi B R", models.OfferAccepted)
	assert.Equal(t, "Your Offer Has Been accepted", subject)
	assert.Contains(t, body, "Hello Rashmi B R")
	assert.Contains(t, body, "Your offer has been accepted.")

	subject, body = OfferResponseConfirmation(msgConfig(), "", models.OfferDeclined)
	assert.Equal(t, "Your Offer Has Been declined", subject)
	assert.Contains(t, body, "Hello Candidate")
}

func TestKindFromSubject(t *testing.T) {
	assert.Equal(t, "booking", kindFromSubject(SubjectBookingConfirmation))
	assert.Equal(t, "hr-notice", kindFromSubject(SubjectHRNotice))
	assert.Equal(t, "invitation", kindFromSubject(SubjectInvitation))
	assert.Equal(t, "offer-response", kindFromSubject("Your Offer Has Been accepted"))
	assert.Equal(t, "offer", kindFromSubject("Offer of Internship at Sandevex"))
	assert.Equal(t, "unknown", kindFromSubject("Something else entirely"))
}
