package email

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/config"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/models"
)

// Subject lines. The Redis mock sender classifies messages by these, so they
// are constants rather than inline strings.
const (
	SubjectBookingConfirmation = "Offer Letter Collection Slot Confirmed"
	SubjectHRNotice            = "New Offer Letter Slot Booked"
	SubjectInvitation          = "Book Your Offer Letter Collection Slot"
)

// BookingConfirmation builds the candidate-facing confirmation for a booked
// collection slot. dateLabel and slotLabel are the human-readable forms.
func BookingConfirmation(cfg *config.Config, name, dateLabel, slotLabel string) (subject, body string) {
	body = fmt.Sprintf(`Dear %s,

Your offer letter collection slot has been confirmed!

Date: %s
Time: %s
Location: %s

Kindly carry a copy of your Aadhar Card and PAN Card for verification purposes.

Best regards,
%s Hiring Team
`, name, dateLabel, slotLabel, cfg.OfficeAddress, cfg.CompanyName)
	return SubjectBookingConfirmation, body
}

// HRBookingNotice builds the HR-facing notification for a booked slot,
// including the full candidate profile dump. A nil candidate degrades to a
// placeholder line rather than failing the notification.
func HRBookingNotice(cfg *config.Config, appt *models.Appointment, candidate *models.Candidate, dateLabel, slotLabel string) (subject, body string) {
	profile := "Candidate data not available"
	if candidate != nil {
		lines := []string{
			"Full Name: " + candidate.FullName,
			"Email: " + candidate.Email,
			"Mobile: " + candidate.Mobile,
			"City: " + candidate.CityState,
			"Address: " + candidate.Address,
			"College: " + candidate.CollegeName,
			"Degree: " + candidate.Degree,
			"Branch: " + candidate.Branch,
			"Year of Study: " + candidate.YearOfStudy,
			"Preferred Domain: " + candidate.PreferredDomain,
			"Technical Skills: " + orNone(strings.Join(candidate.TechnicalSkills, ", ")),
			"Prior Experience: " + candidate.PriorExperience,
			"Portfolio: " + orNotProvided(candidate.PortfolioURL),
			"Motivation: " + candidate.Motivation,
			"Declaration: " + candidate.Declaration,
		}
		profile = strings.Join(lines, "\n")
	}

	body = fmt.Sprintf(`New appointment booked:

Candidate: %s
Email: %s
Phone: %s
Position: %s
Date: %s
Time: %s

Complete Candidate Data:
%s

Best regards,
%s Hiring Team
`, appt.Name, appt.Email, appt.Phone, appt.Position, dateLabel, slotLabel, profile, cfg.CompanyName)
	return SubjectHRNotice, body
}

// BookingLink builds the frontend URL a candidate follows to pick a slot.
func BookingLink(cfg *config.Config, name, emailAddr, position, candidateID string) string {
	q := url.Values{}
	q.Set("name", name)
	q.Set("email", emailAddr)
	q.Set("position", position)
	q.Set("candidateId", candidateID)
	return fmt.Sprintf("%s/candidate/book-slot?%s", cfg.FrontendURL, q.Encode())
}

// BookingInvitation builds the invitation asking a candidate to book a
// collection slot via the frontend link.
func BookingInvitation(cfg *config.Config, name, position, bookingLink string) (subject, body string) {
	body = fmt.Sprintf(`Dear %s,

Congratulations on accepting the offer for the %s role at %s.

Please select a convenient time slot to collect your official offer letter from our office.

Office Location: %s

Book your slot here: %s

Available dates: until the 21st of the current month
Available timings:
- 2:00 PM - 3:00 PM (booking closes at 11:00 AM)
- 3:00 PM - 4:00 PM (booking closes at 12:00 PM)

Note: slots must be booked at least 3 hours before the scheduled time.

Best regards,
%s Hiring Team
`, name, position, cfg.CompanyName, cfg.OfficeAddress, bookingLink, cfg.CompanyName)
	return SubjectInvitation, body
}

// OfferResponseConfirmation builds the confirmation sent after an offer is
// accepted or declined.
func OfferResponseConfirmation(cfg *config.Config, name string, status models.OfferStatus) (subject, body string) {
	if name == "" {
		name = "Candidate"
	}
	subject = fmt.Sprintf("Your Offer Has Been %s", status)
	body = fmt.Sprintf(`Hello %s,

Your offer has been %s.

Thank you for your response.

Best regards,
%s Hiring Team
`, name, status, cfg.CompanyName)
	return subject, body
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func orNotProvided(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}
