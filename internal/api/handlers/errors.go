package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/services"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/slots"
)

// respondError maps the workflow error taxonomy onto HTTP responses.
// Validation and conflict/window errors are user-fixable 400s, missing
// references are 404s, everything else is a 500.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
		return
	}

	switch {
	case errors.Is(err, services.ErrCandidateNotFound),
		errors.Is(err, services.ErrOfferNotFound),
		errors.Is(err, services.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrDuplicateBooking),
		errors.Is(err, services.ErrDuplicateOffer),
		errors.Is(err, services.ErrAlreadyProcessed),
		errors.Is(err, services.ErrOfferExpired),
		errors.Is(err, services.ErrCutoffPassed),
		errors.Is(err, slots.ErrPastDate),
		errors.Is(err, slots.ErrWindowExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
