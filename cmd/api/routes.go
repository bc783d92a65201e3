package main

import (
	"time"

	"calldesk/internal/auth"
	"calldesk/internal/config"
	"calldesk/internal/httpapi"
	"calldesk/internal/reservations"
	"calldesk/internal/routing"
	"calldesk/internal/telephony"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, cfg config.Config, authManager *auth.Manager, resService *reservations.Service, rdb *redis.Client) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Provider webhooks (public).
	// NOTE: These endpoints should be protected by provider signature
	// validation in production.
	{
		voice := telephony.VoiceHandler{
			Router: routing.NewRouter(cfg.Twilio.VerifiedCallerID, cfg.Twilio.StatusCallbackURL),
			Status: telephony.NewStatusCache(rdb, 24*time.Hour),
		}
		r.POST("/webhooks/voice", voice.HandleVoice)
		r.POST("/webhooks/voice/status", voice.HandleStatusCallback)
	}

	h := httpapi.Handlers{
		Auth:         authManager,
		Reservations: resService,
	}

	v1 := r.Group("/v1")
	{
		// Token issuance stays public; everything else requires a token.
		v1.POST("/auth/token", h.IssueToken)

		protected := v1.Group("")
		protected.Use(auth.RequireAccessToken(authManager))
		{
			protected.POST("/reservations", h.CreateReservation)
			protected.GET("/reservations/:id", h.GetReservation)
			protected.PATCH("/reservations/:id", h.UpdateReservation)
			protected.POST("/reservations/sweep", h.SweepExpired)
			protected.GET("/users/:username/reservations", h.ListReservationsByUser)
		}
	}
}
