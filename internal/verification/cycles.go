package verification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fixed-asset-api/internal/models"

	"gorm.io/gorm"
)

func GetCycle(db *gorm.DB, cycleID uint) (*models.VerificationCycle, error) {
	var cycle models.VerificationCycle
	if err := db.First(&cycle, cycleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}
	return &cycle, nil
}

// CreateCycle создаёт цикл сверки с уникальным тегом.
// Начальный статус — только DRAFT или ACTIVE.
func CreateCycle(db *gorm.DB, tag string, status models.CycleStatus) (*models.VerificationCycle, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("%w: tag is required", ErrInvariant)
	}
	if status == "" {
		status = models.CycleActive
	}
	if status != models.CycleDraft && status != models.CycleActive {
		return nil, fmt.Errorf("%w: initial status must be DRAFT or ACTIVE", ErrInvariant)
	}

	var existing models.VerificationCycle
	err := db.Where("tag = ?", tag).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateTag
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cycle := models.VerificationCycle{Tag: tag, Status: status}
	if err := db.Create(&cycle).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateTag
		}
		return nil, err
	}
	return &cycle, nil
}

func ListCycles(db *gorm.DB) ([]models.VerificationCycle, error) {
	var cycles []models.VerificationCycle
	err := db.Order("created_at DESC, id DESC").Find(&cycles).Error
	return cycles, err
}

// ActiveCycle возвращает самый свежий ACTIVE цикл, nil — если такого нет.
// Каждый раз ходим в БД, а не кэшируем: параллельные активации
// рассинхронизировали бы кэш.
func ActiveCycle(db *gorm.DB) (*models.VerificationCycle, error) {
	var cycle models.VerificationCycle
	err := db.Where("status = ?", models.CycleActive).
		Order("created_at DESC, id DESC").
		First(&cycle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cycle, nil
}

// ActivateCycle переводит DRAFT -> ACTIVE.
// Одновременно активных циклов может оказаться несколько — это
// соглашение, а не ограничение схемы; «текущим» считается самый свежий.
func ActivateCycle(db *gorm.DB, cycleID uint) (*models.VerificationCycle, error) {
	return transition(db, cycleID, models.CycleDraft, models.CycleActive, nil)
}

// LockCycle переводит ACTIVE -> LOCKED и запрещает дальнейшие записи.
func LockCycle(db *gorm.DB, cycleID uint) (*models.VerificationCycle, error) {
	return transition(db, cycleID, models.CycleActive, models.CycleLocked,
		func(c *models.VerificationCycle) {
			now := time.Now().UTC()
			c.LockedAt = &now
		})
}

// UnlockCycle переводит LOCKED -> ACTIVE, locked_at сбрасывается.
func UnlockCycle(db *gorm.DB, cycleID uint) (*models.VerificationCycle, error) {
	return transition(db, cycleID, models.CycleLocked, models.CycleActive,
		func(c *models.VerificationCycle) {
			c.LockedAt = nil
		})
}

func transition(db *gorm.DB, cycleID uint, from, to models.CycleStatus, mutate func(*models.VerificationCycle)) (*models.VerificationCycle, error) {
	var result *models.VerificationCycle
	err := db.Transaction(func(tx *gorm.DB) error {
		cycle, err := GetCycle(tx, cycleID)
		if err != nil {
			return err
		}
		if cycle.Status != from {
			return &TransitionError{CycleID: cycleID, From: cycle.Status, To: to}
		}
		cycle.Status = to
		if mutate != nil {
			mutate(cycle)
		}
		if err := tx.Model(cycle).Select("status", "locked_at").Updates(map[string]any{
			"status":    cycle.Status,
			"locked_at": cycle.LockedAt,
		}).Error; err != nil {
			return err
		}
		result = cycle
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AssertWritable проверяет, что в цикл можно писать. Каждая мутирующая
// операция вызывает её первой, внутри той же транзакции, что и вставка —
// иначе между проверкой и записью цикл могут успеть заблокировать.
func AssertWritable(tx *gorm.DB, cycleID uint) (*models.VerificationCycle, error) {
	cycle, err := GetCycle(tx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.Status == models.CycleLocked {
		return nil, ErrCycleLocked
	}
	return cycle, nil
}
