package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/services"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/slots"
)

// SlotHandler handles the slot availability endpoints.
type SlotHandler struct {
	appointments services.IAppointmentService
	now          func() time.Time
}

// NewSlotHandler creates a new SlotHandler. A nil now falls back to
// time.Now; tests pass a fixed clock.
func NewSlotHandler(appointments services.IAppointmentService, now func() time.Time) *SlotHandler {
	if now == nil {
		now = time.Now
	}
	return &SlotHandler{appointments: appointments, now: now}
}

// Dates handles GET /slots/dates.
func (h *SlotHandler) Dates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"dates": slots.AvailableDates(h.now())})
}

// Availability handles GET /slots?date=YYYY-MM-DD.
func (h *SlotHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	if _, _, _, err := slots.ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Date must be in YYYY-MM-DD format"})
		return
	}

	counts, err := h.appointments.CountByDateSlot(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}

	availability, err := slots.Availability(date, h.now(), counts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}
