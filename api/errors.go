package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/airoffice/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps domain sentinels to HTTP statuses and falls back to the
// given status for everything else (400 on write paths, 500 on read paths).
func respondError(c *gin.Context, err error, fallback int) {
	status := fallback
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrHasBookings),
		errors.Is(err, domain.ErrHasFlights),
		errors.Is(err, domain.ErrNoSeats),
		errors.Is(err, domain.ErrInsufficientMiles),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrCancelled):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
