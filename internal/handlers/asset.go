package handlers

import (
	"net/http"
	"strings"

	"fixed-asset-api/internal/database"
	"fixed-asset-api/internal/middleware"
	"fixed-asset-api/internal/models"
	"fixed-asset-api/internal/verification"

	"github.com/gin-gonic/gin"
)

// ОНБОРДИНГ НОВОГО АКТИВА

type newAssetRequest struct {
	AssetCode   string                    `json:"asset_code"`
	Name        string                    `json:"name"`
	CycleID     uint                      `json:"cycle_id"`
	Source      models.VerificationSource `json:"source"`
	Status      models.VerificationStatus `json:"status"`
	Condition   *models.AssetCondition    `json:"condition"`
	LocationLat *float64                  `json:"location_lat"`
	LocationLng *float64                  `json:"location_lng"`
	Photos      []string                  `json:"photos"`
	Notes       string                    `json:"notes"`
}

func CreateAsset(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req newAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	res, err := verification.CreateAssetWithVerification(database.DB, req.AssetCode, req.Name, req.CycleID,
		verification.VerificationInput{
			PerformedBy: user.Email,
			Source:      req.Source,
			Status:      req.Status,
			Condition:   req.Condition,
			LocationLat: req.LocationLat,
			LocationLng: req.LocationLng,
			Photos:      req.Photos,
			Notes:       req.Notes,
		})
	if err != nil {
		abortError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "asset", res.Asset.ID, "create",
		"Заведён актив "+res.Asset.AssetCode, middleware.GetRequestID(c))

	c.JSON(http.StatusCreated, gin.H{
		"asset":        res.Asset,
		"verification": res.Verification,
	})
}

// РЕДАКТИРОВАНИЕ АКТИВА (только админ)

type assetUpdateRequest struct {
	Name     *string `json:"name"`
	OwnerID  *uint   `json:"owner_id"`
	IsActive *bool   `json:"is_active"`
}

func UpdateAsset(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var asset models.Asset
	if err := database.DB.First(&asset, id).Error; err != nil {
		abortError(c, verification.ErrAssetNotFound)
		return
	}

	var req assetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "name must not be empty"})
			return
		}
		updates["name"] = name
	}
	if req.OwnerID != nil {
		updates["owner_id"] = *req.OwnerID
	}
	if req.IsActive != nil {
		// физически не удаляем: is_active=false сохраняет историю сверок
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&asset).Updates(updates).Error; err != nil {
			abortError(c, err)
			return
		}
	}

	database.CreateAuditLog(user.ID, "asset", asset.ID, "update",
		"Изменён актив "+asset.AssetCode, middleware.GetRequestID(c))

	c.JSON(http.StatusOK, asset)
}
