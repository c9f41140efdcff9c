package verification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fixed-asset-api/internal/models"

	"gorm.io/gorm"
)

// OnboardingResult — новый актив и его первая запись сверки.
type OnboardingResult struct {
	Asset        *models.Asset
	Verification *models.AssetVerification
}

// CreateAssetWithVerification заводит найденный «в поле» актив и сразу
// фиксирует по нему первую сверку. Обе строки коммитятся одной
// транзакцией: актив без записи сверки снаружи не виден никогда.
func CreateAssetWithVerification(db *gorm.DB, assetCode, name string, cycleID uint, in VerificationInput) (*OnboardingResult, error) {
	assetCode = strings.TrimSpace(assetCode)
	name = strings.TrimSpace(name)
	if assetCode == "" {
		return nil, fmt.Errorf("%w: asset_code is required", ErrInvariant)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvariant)
	}
	if in.Source == "" {
		in.Source = models.SourceAuditor
	}
	if in.Status == "" {
		in.Status = models.StatusNewAsset
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var res OnboardingResult
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := AssertWritable(tx, cycleID); err != nil {
			return err
		}

		// оптимистичная проверка кода; при гонке двух онбордингов
		// дубль всё равно поймает уникальный индекс на вставке
		var existing models.Asset
		err := tx.Where("asset_code = ?", assetCode).First(&existing).Error
		if err == nil {
			return ErrAssetExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		asset := models.Asset{AssetCode: assetCode, Name: name, IsActive: true}
		if err := tx.Create(&asset).Error; err != nil {
			if isDuplicateErr(err) {
				return ErrAssetExists
			}
			return err
		}

		now := time.Now().UTC()
		record := models.AssetVerification{
			AssetID:     asset.ID,
			CycleID:     cycleID,
			PerformedBy: in.PerformedBy,
			Source:      in.Source,
			Status:      in.Status,
			Condition:   in.Condition,
			LocationLat: in.LocationLat,
			LocationLng: in.LocationLng,
			Photos:      in.Photos,
			Notes:       in.Notes,
			VerifiedAt:  &now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if _, err := AssertWritable(tx, cycleID); err != nil {
			return err
		}

		res = OnboardingResult{Asset: &asset, Verification: &record}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
