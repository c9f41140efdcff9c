package verification

import (
	"errors"
	"fmt"
	"strings"

	"fixed-asset-api/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCycleNotFound        = errors.New("cycle not found")
	ErrAssetNotFound        = errors.New("asset not found")
	ErrVerificationNotFound = errors.New("verification not found")

	ErrCycleLocked  = errors.New("cycle is locked")
	ErrDuplicateTag = errors.New("cycle tag already exists")
	ErrAssetExists  = errors.New("asset code already exists")

	// ErrInvariant — некорректные входные данные (неизвестный enum и т.п.).
	ErrInvariant = errors.New("invalid input")

	ErrOverrideReason = fmt.Errorf("%w: override reason is required", ErrInvariant)
)

// TransitionError — недопустимая смена статуса цикла.
type TransitionError struct {
	CycleID uint
	From    models.CycleStatus
	To      models.CycleStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cycle %d: cannot go from %s to %s", e.CycleID, e.From, e.To)
}

// уникальный индекс — окончательный арбитр при гонке двух вставок;
// текстовые варианты нужны для диалектов без трансляции ошибок
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "duplicate key")
}
