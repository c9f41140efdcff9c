package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"fixed-asset-api/internal/verification"

	"github.com/gin-gonic/gin"
)

// маппинг ошибок ядра на HTTP-коды; наружу уходит только detail
func abortError(c *gin.Context, err error) {
	var te *verification.TransitionError

	switch {
	case errors.Is(err, verification.ErrCycleNotFound),
		errors.Is(err, verification.ErrAssetNotFound),
		errors.Is(err, verification.ErrVerificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})

	case errors.Is(err, verification.ErrCycleLocked),
		errors.Is(err, verification.ErrDuplicateTag),
		errors.Is(err, verification.ErrAssetExists):
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})

	case errors.As(err, &te):
		c.JSON(http.StatusConflict, gin.H{"detail": te.Error()})

	case errors.Is(err, verification.ErrInvariant):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})

	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
