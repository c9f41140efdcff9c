package database

import "fixed-asset-api/internal/models"

// helper для записи в журнал аудита
func CreateAuditLog(userID uint, entity string, entityID uint, action, details, requestID string) {
	if DB == nil {
		return
	}
	record := models.AuditLog{
		UserID:    userID,
		Entity:    entity,
		EntityID:  entityID,
		Action:    action,
		Details:   details,
		RequestID: requestID,
	}
	_ = DB.Create(&record).Error
}
