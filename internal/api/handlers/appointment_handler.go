package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/models"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/services"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/slots"
)

// AppointmentHandler handles the appointment booking endpoints.
type AppointmentHandler struct {
	appointments services.IAppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointments services.IAppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

type bookAppointmentRequest struct {
	CandidateID string `json:"candidateId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Position    string `json:"position"`
	Date        string `json:"date"`
	Slot        string `json:"slot"`
}

// Book handles POST /appointments.
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req bookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	appt, err := h.appointments.Book(c.Request.Context(), services.BookingRequest{
		CandidateID: req.CandidateID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Position:    req.Position,
		Date:        req.Date,
		Slot:        slots.Slot(req.Slot),
	})
	if err != nil {
		var nerr *services.NotificationError
		if errors.As(err, &nerr) && appt != nil {
			// The appointment is committed; the caller must notify the
			// parties out-of-band.
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message":     "Appointment booked but notification delivery failed",
				"appointment": appointmentSummary(appt),
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Appointment booked successfully",
		"appointment": appointmentSummary(appt),
	})
}

func appointmentSummary(appt *models.Appointment) gin.H {
	return gin.H{
		"id":        appt.ID.Hex(),
		"name":      appt.Name,
		"email":     appt.Email,
		"date":      appt.Date,
		"slot":      appt.Slot,
		"createdAt": appt.CreatedAt,
	}
}

// List handles GET /appointments.
func (h *AppointmentHandler) List(c *gin.Context) {
	appointments, err := h.appointments.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// MarkCollected handles PATCH /appointments/:id/collected.
func (h *AppointmentHandler) MarkCollected(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid appointment ID format"})
		return
	}

	appt, err := h.appointments.MarkLetterCollected(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Letter marked as collected",
		"appointment": gin.H{
			"id":              appt.ID.Hex(),
			"letterCollected": appt.LetterCollected,
			"collectedAt":     appt.CollectedAt,
		},
	})
}

type bookingEmailRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Position    string `json:"position"`
	CandidateID string `json:"candidateId"`
}

// SendBookingEmail handles POST /appointments/send-booking-email.
func (h *AppointmentHandler) SendBookingEmail(c *gin.Context) {
	var req bookingEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	if err := h.appointments.SendBookingInvitation(c.Request.Context(), req.Name, req.Email, req.Position, req.CandidateID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking email sent successfully"})
}
