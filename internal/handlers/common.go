package handlers

import (
	"errors"
	"net/http"

	"academykit-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// respondError maps domain error kinds to HTTP statuses. Anything unmatched
// is reported as a plain bad request.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrAttemptExceeded), errors.Is(err, services.ErrWindowClosed):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrAlreadySubmitted):
		status = http.StatusConflict
	case errors.Is(err, services.ErrAttemptExpired):
		status = http.StatusGone
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
