package httpapi

import (
	"errors"
	"net/http"

	"calldesk/internal/reservations"
	"calldesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Response is the uniform envelope for all reservation API endpoints.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: msg})
}

// respondServiceError maps reservation errors onto HTTP statuses:
// validation and malformed ids are the caller's fault, missing records
// are 404, and anything else is a storage-level failure reported
// generically with the cause kept in the logs.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reservations.ErrValidation), errors.Is(err, reservations.ErrInvalidID):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, reservations.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		logger.FromGin(c).Error("reservation operation failed", "err", err)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
