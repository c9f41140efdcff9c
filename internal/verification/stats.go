package verification

import (
	"math"
	"time"

	"fixed-asset-api/internal/models"

	"gorm.io/gorm"
)

// Overview — сводка по всей системе для дашборда.
type Overview struct {
	TotalAssets    int64                      `json:"total_assets"`
	ActiveAssets   int64                      `json:"active_assets"`
	InactiveAssets int64                      `json:"inactive_assets"`
	TotalCycles    int64                      `json:"total_cycles"`
	ActiveCycle    *models.VerificationCycle  `json:"active_cycle"`
	RecentCycles   []models.VerificationCycle `json:"recent_cycles"`
}

func GetOverview(db *gorm.DB) (*Overview, error) {
	var o Overview

	if err := db.Model(&models.Asset{}).Count(&o.TotalAssets).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Asset{}).Where("is_active = ?", true).Count(&o.ActiveAssets).Error; err != nil {
		return nil, err
	}
	o.InactiveAssets = o.TotalAssets - o.ActiveAssets

	if err := db.Model(&models.VerificationCycle{}).Count(&o.TotalCycles).Error; err != nil {
		return nil, err
	}

	active, err := ActiveCycle(db)
	if err != nil {
		return nil, err
	}
	o.ActiveCycle = active

	if err := db.Order("created_at DESC, id DESC").Limit(5).Find(&o.RecentCycles).Error; err != nil {
		return nil, err
	}

	return &o, nil
}

// CycleSummary — статистика одного цикла: прогресс и разбивки.
type CycleSummary struct {
	CycleID   uint               `json:"cycle_id"`
	Tag       string             `json:"tag"`
	Status    models.CycleStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	LockedAt  *time.Time         `json:"locked_at"`

	TotalAssets          int64   `json:"total_assets"`
	VerifiedCount        int64   `json:"verified_count"`
	PendingCount         int64   `json:"pending_count"`
	CompletionPercentage float64 `json:"completion_percentage"`

	StatusBreakdown    map[string]int64 `json:"status_breakdown"`
	ConditionBreakdown map[string]int64 `json:"condition_breakdown"`
	SourceBreakdown    map[string]int64 `json:"source_breakdown"`
}

func GetCycleSummary(db *gorm.DB, cycleID uint) (*CycleSummary, error) {
	cycle, err := GetCycle(db, cycleID)
	if err != nil {
		return nil, err
	}

	s := CycleSummary{
		CycleID:   cycle.ID,
		Tag:       cycle.Tag,
		Status:    cycle.Status,
		CreatedAt: cycle.CreatedAt,
		LockedAt:  cycle.LockedAt,
	}

	if err := db.Model(&models.Asset{}).Where("is_active = ?", true).Count(&s.TotalAssets).Error; err != nil {
		return nil, err
	}

	// считаем активы, а не строки: по одному активу строк может быть много
	if err := db.Model(&models.AssetVerification{}).
		Where("cycle_id = ?", cycleID).
		Distinct("asset_id").
		Count(&s.VerifiedCount).Error; err != nil {
		return nil, err
	}

	verified := db.Model(&models.AssetVerification{}).
		Select("asset_id").
		Where("cycle_id = ?", cycleID)
	if err := db.Model(&models.Asset{}).
		Where("is_active = ?", true).
		Where("id NOT IN (?)", verified).
		Count(&s.PendingCount).Error; err != nil {
		return nil, err
	}

	if s.TotalAssets > 0 {
		s.CompletionPercentage = math.Round(float64(s.VerifiedCount)/float64(s.TotalAssets)*100*100) / 100
	}

	s.StatusBreakdown, err = breakdown(db, cycleID, "status")
	if err != nil {
		return nil, err
	}
	s.ConditionBreakdown, err = breakdown(db, cycleID, "condition")
	if err != nil {
		return nil, err
	}
	s.SourceBreakdown, err = breakdown(db, cycleID, "source")
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func breakdown(db *gorm.DB, cycleID uint, column string) (map[string]int64, error) {
	var rows []struct {
		Key *string
		N   int64
	}
	err := db.Model(&models.AssetVerification{}).
		Select(column+" AS key, COUNT(*) AS n").
		Where("cycle_id = ?", cycleID).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		key := "NOT_SPECIFIED"
		if r.Key != nil && *r.Key != "" {
			key = *r.Key
		}
		out[key] = r.N
	}
	return out, nil
}
