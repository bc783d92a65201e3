package httpapi

import (
	"net/http"
	"time"

	"calldesk/internal/auth"
	"calldesk/internal/reservations"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth         *auth.Manager
	Reservations *reservations.Service
}

// --- Auth ---

type tokenRequest struct {
	Username string `json:"username"`
}

// IssueToken mints an access token for a username.
//
// NOTE: This is demo-grade issuance; real systems must validate
// credentials before handing out tokens.
func (h Handlers) IssueToken(c *gin.Context) {
	if h.Auth == nil {
		respondError(c, http.StatusInternalServerError, "auth not configured")
		return
	}
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Username == "" {
		respondError(c, http.StatusBadRequest, "username required")
		return
	}
	tok, err := h.Auth.Issue(time.Now(), req.Username)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "token issuance failed")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"access_token": tok})
}

// --- Reservations ---

func (h Handlers) CreateReservation(c *gin.Context) {
	var req reservations.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.Reservations.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, res)
}

func (h Handlers) ListReservationsByUser(c *gin.Context) {
	username := c.Param("username")
	list, err := h.Reservations.ListByUser(c.Request.Context(), username)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if list == nil {
		list = []reservations.CallReservation{}
	}
	respondOK(c, http.StatusOK, list)
}

func (h Handlers) GetReservation(c *gin.Context) {
	id, err := reservations.ParseID(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	res, err := h.Reservations.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

type updateReservationRequest struct {
	Username        *string              `json:"username"`
	ReservationDate *string              `json:"reservation_date"`
	StartTime       *string              `json:"start_time"`
	EndTime         *string              `json:"end_time"`
	Status          *reservations.Status `json:"status"`
	PhoneNumber     *string              `json:"phone_number"`
	CallSid         *string              `json:"call_sid"`
	CallDuration    *int                 `json:"call_duration"`
}

func (h Handlers) UpdateReservation(c *gin.Context) {
	id, err := reservations.ParseID(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.Reservations.Update(c.Request.Context(), id, reservations.UpdatePatch{
		Username:        req.Username,
		ReservationDate: req.ReservationDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          req.Status,
		PhoneNumber:     req.PhoneNumber,
		CallSid:         req.CallSid,
		CallDuration:    req.CallDuration,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

func (h Handlers) SweepExpired(c *gin.Context) {
	result, err := h.Reservations.SweepExpired(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}
