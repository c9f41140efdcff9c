package handlers

import (
	"net/http"

	"fixed-asset-api/internal/database"
	"fixed-asset-api/internal/middleware"
	"fixed-asset-api/internal/models"
	"fixed-asset-api/internal/verification"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type cycleCreateRequest struct {
	Tag    string             `json:"tag"`
	Status models.CycleStatus `json:"status"`
}

func CreateCycle(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req cycleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	cycle, err := verification.CreateCycle(database.DB, req.Tag, req.Status)
	if err != nil {
		abortError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "cycle", cycle.ID, "create",
		"Создан цикл сверки "+cycle.Tag, middleware.GetRequestID(c))

	c.JSON(http.StatusCreated, cycle)
}

func ListCycles(c *gin.Context) {
	cycles, err := verification.ListCycles(database.DB)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": cycles})
}

func GetActiveCycle(c *gin.Context) {
	cycle, err := verification.ActiveCycle(database.DB)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, cycle)
}

func GetCycle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	cycle, err := verification.GetCycle(database.DB, id)
	if err != nil {
		abortError(c, err)
		return
	}
	c.JSON(http.StatusOK, cycle)
}

func ActivateCycle(c *gin.Context) {
	changeCycleStatus(c, "activate", verification.ActivateCycle)
}

func LockCycle(c *gin.Context) {
	changeCycleStatus(c, "lock", verification.LockCycle)
}

func UnlockCycle(c *gin.Context) {
	changeCycleStatus(c, "unlock", verification.UnlockCycle)
}

func changeCycleStatus(c *gin.Context, action string, fn func(db *gorm.DB, id uint) (*models.VerificationCycle, error)) {
	user, _ := middleware.CurrentUser(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cycle, err := fn(database.DB, id)
	if err != nil {
		abortError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "cycle", cycle.ID, action,
		"Цикл "+cycle.Tag+": статус "+string(cycle.Status), middleware.GetRequestID(c))

	c.JSON(http.StatusOK, cycle)
}
