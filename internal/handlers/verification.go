package handlers

import (
	"net/http"
	"strconv"

	"fixed-asset-api/internal/database"
	"fixed-asset-api/internal/middleware"
	"fixed-asset-api/internal/models"
	"fixed-asset-api/internal/verification"

	"github.com/gin-gonic/gin"
)

// ПОИСК И СВЕРКА АКТИВОВ

func LookupAsset(c *gin.Context) {
	assetCode := c.Query("asset_code")
	if assetCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "asset_code is required"})
		return
	}
	cycleID, err := strconv.ParseUint(c.Query("cycle_id"), 10, 32)
	if err != nil || cycleID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid cycle_id"})
		return
	}

	res, lerr := verification.Lookup(database.DB, assetCode, uint(cycleID))
	if lerr != nil {
		abortError(c, lerr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"not_found":              res.Asset == nil,
		"asset":                  res.Asset,
		"effective_verification": res.Effective,
		"already_verified":       res.AlreadyVerified,
	})
}

func SearchAssets(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "q is required"})
		return
	}

	assets, err := verification.SearchAssets(database.DB, q)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": assets})
}

type verifyRequest struct {
	CycleID        uint                       `json:"cycle_id"`
	Source         models.VerificationSource  `json:"source"`
	Status         models.VerificationStatus  `json:"status"`
	Condition      *models.AssetCondition     `json:"condition"`
	LocationLat    *float64                   `json:"location_lat"`
	LocationLng    *float64                   `json:"location_lng"`
	Photos         []string                   `json:"photos"`
	Notes          string                     `json:"notes"`
	AllowDuplicate bool                       `json:"allow_duplicate"`
}

func VerifyAsset(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	assetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	// владелец отмечает только свои активы; админ и аудитор — любые
	if !user.CanVerifyAnyAsset() {
		var asset models.Asset
		if err := database.DB.First(&asset, assetID).Error; err != nil {
			abortError(c, verification.ErrAssetNotFound)
			return
		}
		if asset.OwnerID == nil || *asset.OwnerID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"detail": "not enough permissions"})
			return
		}
	}

	source := req.Source
	if source == "" {
		if user.CanVerifyAnyAsset() {
			source = models.SourceAuditor
		} else {
			source = models.SourceSelf
		}
	}

	res, err := verification.CreateVerification(database.DB, assetID, req.CycleID, verification.VerificationInput{
		PerformedBy: user.Email,
		Source:      source,
		Status:      req.Status,
		Condition:   req.Condition,
		LocationLat: req.LocationLat,
		LocationLng: req.LocationLng,
		Photos:      req.Photos,
		Notes:       req.Notes,
	}, req.AllowDuplicate)
	if err != nil {
		abortError(c, err)
		return
	}

	if res.Duplicate {
		// не ошибка: по активу уже отметились, клиент решает, повторять ли
		c.JSON(http.StatusOK, gin.H{
			"duplicate": true,
			"existing":  res.Existing,
		})
		return
	}

	database.CreateAuditLog(user.ID, "verification", res.Created.ID, "create",
		"Сверка актива в цикле", middleware.GetRequestID(c))

	c.JSON(http.StatusCreated, gin.H{
		"duplicate":    false,
		"verification": res.Created,
	})
}

func AssetCycleDetail(c *gin.Context) {
	assetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	cycleID, ok := parseIDParam(c, "cycle_id")
	if !ok {
		return
	}

	detail, err := verification.GetAssetCycleDetail(database.DB, assetID, cycleID)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"effective": detail.Effective,
		"history":   detail.History,
	})
}

func PendingAssets(c *gin.Context) {
	cycleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	assets, err := verification.PendingAssets(database.DB, cycleID)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": assets})
}
