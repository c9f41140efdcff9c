package handlers

import (
	"net/http"

	"fixed-asset-api/internal/database"
	"fixed-asset-api/internal/middleware"
	"fixed-asset-api/internal/models"
	"fixed-asset-api/internal/verification"

	"github.com/gin-gonic/gin"
)

// КОРРЕКТИРОВКА СВЕРКИ

type overrideRequest struct {
	Status      models.VerificationStatus `json:"status"`
	Condition   *models.AssetCondition    `json:"condition"`
	LocationLat *float64                  `json:"location_lat"`
	LocationLng *float64                  `json:"location_lng"`
	Photos      []string                  `json:"photos"`
	Notes       string                    `json:"notes"`
	Reason      string                    `json:"reason"`
}

func CreateOverride(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	verificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	record, err := verification.CreateOverride(database.DB, verificationID, verification.OverrideInput{
		PerformedBy: user.Email,
		Status:      req.Status,
		Condition:   req.Condition,
		LocationLat: req.LocationLat,
		LocationLng: req.LocationLng,
		Photos:      req.Photos,
		Notes:       req.Notes,
		Reason:      req.Reason,
	})
	if err != nil {
		abortError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "verification", record.ID, "override",
		"Корректировка сверки: "+req.Reason, middleware.GetRequestID(c))

	c.JSON(http.StatusCreated, record)
}
