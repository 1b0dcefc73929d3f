package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/api/handlers"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/api/middleware"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/config"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/email"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/services"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, sender email.Sender) *gin.Engine {
	// Initialize services needed by API handlers
	candidateService := services.NewCandidateService(db)
	appointmentService := services.NewAppointmentService(db, cfg, candidateService, sender)
	offerService := services.NewOfferService(db, cfg, candidateService, sender)

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	slotHandler := handlers.NewSlotHandler(appointmentService, nil)
	offerHandler := handlers.NewOfferHandler(offerService)

	appointments := r.Group("/appointments")
	{
		appointments.POST("", appointmentHandler.Book)
		appointments.GET("", appointmentHandler.List)
		appointments.PATCH("/:id/collected", appointmentHandler.MarkCollected)
		appointments.POST("/send-booking-email", appointmentHandler.SendBookingEmail)
	}

	slotRoutes := r.Group("/slots")
	{
		slotRoutes.GET("", slotHandler.Availability)
		slotRoutes.GET("/dates", slotHandler.Dates)
	}

	offers := r.Group("/offers")
	{
		offers.POST("/create-record", offerHandler.CreateRecord)
		offers.POST("/send-offer", offerHandler.SendOffer)
		offers.POST("/respond", offerHandler.RespondByEmail)
		offers.GET("/check-status", offerHandler.CheckStatus)
		offers.POST("/:offerId/:action", offerHandler.Respond)
		offers.GET("/:candidateId/status", offerHandler.Status)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	return r
}

// SetupServiceRouter configures and returns the service Gin engine used for
// operational commands and integration-test support.
func SetupServiceRouter(cfg *config.Config, rdb *redis.Client, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			fmt.Println("Received shutdown command via Service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
			default:
				fmt.Println("Shutdown channel already signaled or blocked.")
			}
		case "getTestEmail":
			var args []string // Expect ["kind", "email"]
			if err := json.Unmarshal(req.Arguments, &args); err != nil || len(args) != 2 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [kind, email]"})
				return
			}
			kind := args[0]
			emailAddr := args[1]
			redisKey := fmt.Sprintf("mockemail:%s:%s", emailAddr, kind)

			// Poll Redis briefly for the key; the mock sender may lag the
			// request that triggered the email.
			var emailJSON string
			found := false
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()
			for i := 0; i < 10; i++ {
				var getErr error
				emailJSON, getErr = rdb.Get(ctx, redisKey).Result()
				if getErr == nil {
					found = true
					rdb.Del(ctx, redisKey)
					break
				}
				if getErr != redis.Nil {
					log.Printf("Service API: Error getting key %s from Redis: %v", redisKey, getErr)
					c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Redis error"})
					return
				}
				time.Sleep(200 * time.Millisecond)
			}

			if !found {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Test email not found in Redis for key %s", redisKey)})
				return
			}

			var emailData map[string]interface{}
			if err := json.Unmarshal([]byte(emailJSON), &emailData); err != nil {
				log.Printf("Service API: Error unmarshalling email data from key %s: %v", redisKey, err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to parse stored email data"})
				return
			}

			c.JSON(http.StatusOK, gin.H{"success": true, "data": emailData})

		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}
