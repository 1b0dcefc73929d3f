package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/models"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/services"
)

// OfferHandler handles the offer lifecycle endpoints.
type OfferHandler struct {
	offers services.IOfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(offers services.IOfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

type createOfferRequest struct {
	CandidateID string `json:"candidateId"`
	Email       string `json:"email"`
}

// parseCreateOffer validates the shared create/send input shape.
func parseCreateOffer(c *gin.Context, candidateIDHex, emailAddr string) (primitive.ObjectID, bool) {
	var fields []services.FieldError
	var candidateID primitive.ObjectID

	if candidateIDHex == "" {
		fields = append(fields, services.FieldError{Field: "candidateId", Message: "Candidate ID is required"})
	} else {
		var err error
		candidateID, err = primitive.ObjectIDFromHex(candidateIDHex)
		if err != nil {
			fields = append(fields, services.FieldError{Field: "candidateId", Message: "Candidate ID must be a valid id"})
		}
	}
	if !services.ValidEmail(emailAddr) {
		fields = append(fields, services.FieldError{Field: "email", Message: "Valid email is required"})
	}

	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
		return primitive.ObjectID{}, false
	}
	return candidateID, true
}

func offerBlock(offer *models.Offer) gin.H {
	return gin.H{
		"id":          offer.ID.Hex(),
		"candidateId": offer.CandidateID.Hex(),
		"email":       offer.Email,
		"status":      offer.Status,
		"sentAt":      offer.SentAt,
		"expiresAt":   offer.ExpiresAt,
	}
}

// CreateRecord handles POST /offers/create-record.
func (h *OfferHandler) CreateRecord(c *gin.Context) {
	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	candidateID, ok := parseCreateOffer(c, req.CandidateID, req.Email)
	if !ok {
		return
	}

	offer, err := h.offers.Create(c.Request.Context(), candidateID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Offer record created successfully",
		"offer":   offerBlock(offer),
	})
}

type sendOfferRequest struct {
	CandidateID string `json:"candidateId"`
	EmailData   struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	} `json:"emailData"`
}

// SendOffer handles POST /offers/send-offer.
func (h *OfferHandler) SendOffer(c *gin.Context) {
	var req sendOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}

	candidateID, ok := parseCreateOffer(c, req.CandidateID, req.EmailData.To)
	if !ok {
		return
	}

	offer, err := h.offers.SendOffer(c.Request.Context(), candidateID, req.EmailData.To, req.EmailData.Subject, req.EmailData.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Offer sent successfully",
		"offer":         offerBlock(offer),
		"emailResponse": gin.H{"success": true},
	})
}

// Respond handles POST /offers/:offerId/:action (accept|decline).
func (h *OfferHandler) Respond(c *gin.Context) {
	action := c.Param("action")
	if action != services.ActionAccept && action != services.ActionDecline {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid action. Must be accept or decline"})
		return
	}

	offerID, err := primitive.ObjectIDFromHex(c.Param("offerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid offer ID format"})
		return
	}

	offer, err := h.offers.Respond(c.Request.Context(), offerID, action)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Offer %s successfully", offer.Status),
		"status":  offer.Status,
	})
}

type respondByEmailRequest struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

// RespondByEmail handles POST /offers/respond.
func (h *OfferHandler) RespondByEmail(c *gin.Context) {
	var req respondByEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request format"})
		return
	}
	if !services.ValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []services.FieldError{{Field: "email", Message: "Valid email is required"}}})
		return
	}

	offer, err := h.offers.RespondByEmail(c.Request.Context(), req.Email, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Offer declined successfully. Thank you for your response."
	if offer.Status == models.OfferAccepted {
		message = "Offer accepted successfully! Welcome aboard!"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  offer.Status,
		"message": message,
	})
}

// Status handles GET /offers/:candidateId/status.
func (h *OfferHandler) Status(c *gin.Context) {
	candidateID, err := primitive.ObjectIDFromHex(c.Param("candidateId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid candidate ID format"})
		return
	}

	offer, err := h.offers.StatusByCandidate(c.Request.Context(), candidateID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      offer.Status,
		"sentAt":      offer.SentAt,
		"respondedAt": offer.RespondedAt,
		"expiresAt":   offer.ExpiresAt,
	})
}

// CheckStatus handles GET /offers/check-status?email=.
func (h *OfferHandler) CheckStatus(c *gin.Context) {
	emailAddr := c.Query("email")
	if !services.ValidEmail(emailAddr) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []services.FieldError{{Field: "email", Message: "Valid email is required"}}})
		return
	}

	offer, err := h.offers.StatusByEmail(c.Request.Context(), emailAddr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"offer": gin.H{
			"id":          offer.ID.Hex(),
			"status":      offer.Status,
			"sentAt":      offer.SentAt,
			"expiresAt":   offer.ExpiresAt,
			"respondedAt": offer.RespondedAt,
		},
	})
}
