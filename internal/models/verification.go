package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type VerificationSource string
type VerificationStatus string
type AssetCondition string

const (
	SourceSelf       VerificationSource = "SELF"
	SourceAuditor    VerificationSource = "AUDITOR"
	SourceOverridden VerificationSource = "OVERRIDDEN"

	StatusVerified    VerificationStatus = "VERIFIED"
	StatusDiscrepancy VerificationStatus = "DISCREPANCY"
	StatusNotFound    VerificationStatus = "NOT_FOUND"
	StatusNewAsset    VerificationStatus = "NEW_ASSET"

	ConditionGood        AssetCondition = "GOOD"
	ConditionDamaged     AssetCondition = "DAMAGED"
	ConditionNeedsRepair AssetCondition = "NEEDS_REPAIR"
)

// запись сверки неизменяемая: исправления — только новые строки,
// «текущее состояние» всегда вычисляется по истории
type AssetVerification struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	AssetID uint `gorm:"not null;index;index:ix_asset_cycle,priority:1" json:"asset_id"`
	CycleID uint `gorm:"not null;index;index:ix_asset_cycle,priority:2" json:"cycle_id"`

	PerformedBy string             `gorm:"size:100" json:"performed_by"`
	Source      VerificationSource `gorm:"type:varchar(20);not null" json:"source"`
	Status      VerificationStatus `gorm:"type:varchar(20);not null" json:"status"`
	Condition   *AssetCondition    `gorm:"type:varchar(20)" json:"condition"`

	LocationLat *float64   `json:"location_lat"`
	LocationLng *float64   `json:"location_lng"`
	Photos      StringList `gorm:"type:text" json:"photos"`
	Notes       string     `gorm:"type:text" json:"notes"`

	OverrideOfVerificationID *uint  `json:"override_of_verification_id"`
	OverrideReason           string `gorm:"type:text" json:"override_reason"`

	CreatedAt  time.Time  `json:"created_at"`
	VerifiedAt *time.Time `json:"verified_at"`

	Asset      Asset              `json:"-"`
	Cycle      VerificationCycle  `json:"-"`
	OverrideOf *AssetVerification `gorm:"foreignKey:OverrideOfVerificationID;constraint:OnDelete:SET NULL" json:"-"`
}

// StringList — список ключей фото, хранится одной text-колонкой как JSON.
type StringList []string

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, l)
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
