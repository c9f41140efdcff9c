package handlers

import (
	"net/http"

	"fixed-asset-api/internal/database"
	"fixed-asset-api/internal/verification"

	"github.com/gin-gonic/gin"
)

// ДАШБОРД

func DashboardOverview(c *gin.Context) {
	overview, err := verification.GetOverview(database.DB)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func DashboardCycleSummary(c *gin.Context) {
	cycleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := verification.GetCycleSummary(database.DB, cycleID)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
