package verification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fixed-asset-api/internal/models"

	"gorm.io/gorm"
)

const searchLimit = 50

// VerificationInput — поля новой записи сверки.
type VerificationInput struct {
	PerformedBy string
	Source      models.VerificationSource
	Status      models.VerificationStatus
	Condition   *models.AssetCondition
	LocationLat *float64
	LocationLng *float64
	Photos      []string
	Notes       string
}

func (in *VerificationInput) validate() error {
	switch in.Source {
	case models.SourceSelf, models.SourceAuditor:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvariant, in.Source)
	}
	if err := validateStatus(in.Status); err != nil {
		return err
	}
	return validateCondition(in.Condition)
}

func validateStatus(s models.VerificationStatus) error {
	switch s {
	case models.StatusVerified, models.StatusDiscrepancy, models.StatusNotFound, models.StatusNewAsset:
		return nil
	}
	return fmt.Errorf("%w: unknown status %q", ErrInvariant, s)
}

func validateCondition(c *models.AssetCondition) error {
	if c == nil {
		return nil
	}
	switch *c {
	case models.ConditionGood, models.ConditionDamaged, models.ConditionNeedsRepair:
		return nil
	}
	return fmt.Errorf("%w: unknown condition %q", ErrInvariant, *c)
}

// LookupResult — результат поиска актива по коду в рамках цикла.
type LookupResult struct {
	Asset           *models.Asset
	Effective       *models.AssetVerification
	AlreadyVerified bool
}

// Lookup ищет актив по коду и возвращает его действующую запись сверки
// в указанном цикле. Неизвестный код — не ошибка: возвращается пустой
// результат, фронт предлагает завести новый актив.
func Lookup(db *gorm.DB, assetCode string, cycleID uint) (*LookupResult, error) {
	if _, err := GetCycle(db, cycleID); err != nil {
		return nil, err
	}

	var asset models.Asset
	err := db.Where("asset_code = ?", assetCode).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &LookupResult{}, nil
		}
		return nil, err
	}

	history, err := historyFor(db, asset.ID, cycleID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return &LookupResult{Asset: &asset}, nil
	}

	return &LookupResult{
		Asset:           &asset,
		Effective:       effectiveOf(history),
		AlreadyVerified: true,
	}, nil
}

// история сверок актива в цикле, новые сверху
func historyFor(db *gorm.DB, assetID, cycleID uint) ([]models.AssetVerification, error) {
	var list []models.AssetVerification
	err := db.Where("asset_id = ? AND cycle_id = ?", assetID, cycleID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// действующая запись: самый свежий override, иначе самая свежая строка
func effectiveOf(history []models.AssetVerification) *models.AssetVerification {
	for i := range history {
		if history[i].Source == models.SourceOverridden {
			return &history[i]
		}
	}
	if len(history) == 0 {
		return nil
	}
	return &history[0]
}

// CreateResult — итог попытки создать запись сверки. Duplicate — не ошибка,
// а сигнал «по активу уже отметились»: решение о повторе за вызывающим.
type CreateResult struct {
	Created   *models.AssetVerification
	Existing  *models.AssetVerification
	Duplicate bool
}

func CreateVerification(db *gorm.DB, assetID, cycleID uint, in VerificationInput, allowDuplicate bool) (*CreateResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var res CreateResult
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := AssertWritable(tx, cycleID); err != nil {
			return err
		}

		var asset models.Asset
		if err := tx.First(&asset, assetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssetNotFound
			}
			return err
		}

		history, err := historyFor(tx, assetID, cycleID)
		if err != nil {
			return err
		}
		if len(history) > 0 && !allowDuplicate {
			res.Existing = &history[0]
			res.Duplicate = true
			return nil
		}

		now := time.Now().UTC()
		record := models.AssetVerification{
			AssetID:     assetID,
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

		// перед коммитом перечитываем статус: цикл могли заблокировать
		// параллельно, тогда всю транзакцию откатываем
		if _, err := AssertWritable(tx, cycleID); err != nil {
			return err
		}

		res.Created = &record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// SearchAssets — ручной поиск по подстроке кода или названия,
// без учёта регистра, не больше searchLimit результатов.
func SearchAssets(db *gorm.DB, text string) ([]models.Asset, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(text)) + "%"
	var assets []models.Asset
	err := db.Where("LOWER(asset_code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern).
		Order("asset_code ASC").
		Limit(searchLimit).
		Find(&assets).Error
	return assets, err
}

// PendingAssets — активные активы без единой записи сверки в цикле.
func PendingAssets(db *gorm.DB, cycleID uint) ([]models.Asset, error) {
	if _, err := GetCycle(db, cycleID); err != nil {
		return nil, err
	}

	verified := db.Model(&models.AssetVerification{}).
		Select("asset_id").
		Where("cycle_id = ?", cycleID)

	var assets []models.Asset
	err := db.Where("is_active = ?", true).
		Where("id NOT IN (?)", verified).
		Order("asset_code ASC").
		Find(&assets).Error
	return assets, err
}
