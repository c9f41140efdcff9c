package verification

import (
	"errors"
	"strings"
	"time"

	"fixed-asset-api/internal/models"

	"gorm.io/gorm"
)

// OverrideInput — поля корректирующей записи.
type OverrideInput struct {
	PerformedBy string
	Status      models.VerificationStatus
	Condition   *models.AssetCondition
	LocationLat *float64
	LocationLng *float64
	Photos      []string
	Notes       string
	Reason      string
}

// CreateOverride добавляет корректирующую запись поверх существующей
// сверки. Оригинал не трогаем: цепочка всегда в один переход
// (override -> оригинал), история сохраняется целиком.
func CreateOverride(db *gorm.DB, verificationID uint, in OverrideInput) (*models.AssetVerification, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, ErrOverrideReason
	}
	if err := validateStatus(in.Status); err != nil {
		return nil, err
	}
	if err := validateCondition(in.Condition); err != nil {
		return nil, err
	}

	var created *models.AssetVerification
	err := db.Transaction(func(tx *gorm.DB) error {
		var original models.AssetVerification
		if err := tx.First(&original, verificationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVerificationNotFound
			}
			return err
		}

		if _, err := AssertWritable(tx, original.CycleID); err != nil {
			return err
		}

		now := time.Now().UTC()
		record := models.AssetVerification{
			AssetID:                  original.AssetID,
			CycleID:                  original.CycleID,
			PerformedBy:              in.PerformedBy,
			Source:                   models.SourceOverridden,
			Status:                   in.Status,
			Condition:                in.Condition,
			LocationLat:              in.LocationLat,
			LocationLng:              in.LocationLng,
			Photos:                   in.Photos,
			Notes:                    in.Notes,
			OverrideOfVerificationID: &original.ID,
			OverrideReason:           in.Reason,
			VerifiedAt:               &now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if _, err := AssertWritable(tx, original.CycleID); err != nil {
			return err
		}

		created = &record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AssetCycleDetail — действующая запись плюс полная история.
type AssetCycleDetail struct {
	Effective *models.AssetVerification
	History   []models.AssetVerification
}

// GetAssetCycleDetail возвращает каноничное состояние актива в цикле.
// Правило действующей записи то же, что и в Lookup: самый свежий
// override, иначе самая свежая строка.
func GetAssetCycleDetail(db *gorm.DB, assetID, cycleID uint) (*AssetCycleDetail, error) {
	var asset models.Asset
	if err := db.First(&asset, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	if _, err := GetCycle(db, cycleID); err != nil {
		return nil, err
	}

	history, err := historyFor(db, assetID, cycleID)
	if err != nil {
		return nil, err
	}

	return &AssetCycleDetail{
		Effective: effectiveOf(history),
		History:   history,
	}, nil
}
