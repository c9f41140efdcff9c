package models

import "time"

type CycleStatus string

const (
	CycleDraft  CycleStatus = "DRAFT"
	CycleActive CycleStatus = "ACTIVE"
	CycleLocked CycleStatus = "LOCKED"
)

type VerificationCycle struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Tag       string      `gorm:"size:100;uniqueIndex;not null" json:"tag"`
	Status    CycleStatus `gorm:"type:varchar(20);not null;default:ACTIVE" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	LockedAt  *time.Time  `json:"locked_at"`

	Verifications []AssetVerification `gorm:"foreignKey:CycleID;constraint:OnDelete:CASCADE" json:"-"`
}
