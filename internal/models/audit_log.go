package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint `json:"user_id"`
	User   User `json:"-"`

	Entity    string `gorm:"size:50;not null" json:"entity"` // "cycle", "asset", "verification", "user"
	EntityID  uint   `json:"entity_id"`
	Action    string `gorm:"size:50;not null" json:"action"` // "create", "lock", "override" и т.п.
	Details   string `gorm:"type:text" json:"details"`
	RequestID string `gorm:"size:36;index" json:"request_id"`
}
