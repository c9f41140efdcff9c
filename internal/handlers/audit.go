package handlers

import (
	"net/http"

	"fixed-asset-api/internal/database"
	"fixed-asset-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ЖУРНАЛ АУДИТА

func ListAuditLogs(c *gin.Context) {
	var logs []models.AuditLog
	if err := database.DB.
		Preload("User").
		Order("created_at desc").
		Limit(200).
		Find(&logs).Error; err != nil {
		abortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": logs})
}
