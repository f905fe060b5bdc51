package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"collectible-mint-service/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrSagaNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrSagaConflict),
		errors.Is(err, domain.ErrUserRejected):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrEmptyPrompt),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Auth errors
	case errors.Is(err, domain.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	// Payment errors
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})

	// Upstream unavailable errors
	case errors.Is(err, domain.ErrGeneratorUnavailable),
		errors.Is(err, domain.ErrGeneratorTimeout),
		errors.Is(err, domain.ErrUploadFailed),
		errors.Is(err, domain.ErrContentStoreUnavailable),
		errors.Is(err, domain.ErrLedgerNetwork):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
