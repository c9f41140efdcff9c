package verification

import (
	"testing"

	"fixed-asset-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOverview(t *testing.T) {
	db := newTestDB(t)

	empty, err := GetOverview(db)
	require.NoError(t, err)
	assert.EqualValues(t, 0, empty.TotalAssets)
	assert.Nil(t, empty.ActiveCycle)
	assert.Empty(t, empty.RecentCycles)

	mustAsset(t, db, "AST001", "Ноутбук Dell")
	mustAsset(t, db, "AST002", "Монитор LG")
	retired := mustAsset(t, db, "AST003", "Списанный сервер")
	require.NoError(t, db.Model(retired).Update("is_active", false).Error)

	mustCycle(t, db, "Q1-2025", "")
	current := mustCycle(t, db, "Q2-2025", "")

	o, err := GetOverview(db)
	require.NoError(t, err)
	assert.EqualValues(t, 3, o.TotalAssets)
	assert.EqualValues(t, 2, o.ActiveAssets)
	assert.EqualValues(t, 1, o.InactiveAssets)
	assert.EqualValues(t, 2, o.TotalCycles)
	require.NotNil(t, o.ActiveCycle)
	assert.Equal(t, current.ID, o.ActiveCycle.ID)
	require.Len(t, o.RecentCycles, 2)
	assert.Equal(t, current.ID, o.RecentCycles[0].ID)
}

func TestGetCycleSummary(t *testing.T) {
	db := newTestDB(t)
	cycle := mustCycle(t, db, "Q2-2025", "")

	a1 := mustAsset(t, db, "AST001", "Ноутбук Dell")
	a2 := mustAsset(t, db, "AST002", "Монитор LG")
	mustAsset(t, db, "AST003", "Принтер HP")
	mustAsset(t, db, "AST004", "Сканер Canon")

	cond := models.ConditionDamaged
	in1 := auditorInput(models.StatusVerified)
	in1.Condition = &cond
	_, err := CreateVerification(db, a1.ID, cycle.ID, in1, false)
	require.NoError(t, err)

	in2 := VerificationInput{
		PerformedBy: "owner@assets.local",
		Source:      models.SourceSelf,
		Status:      models.StatusDiscrepancy,
	}
	_, err = CreateVerification(db, a2.ID, cycle.ID, in2, false)
	require.NoError(t, err)

	// повторная запись по a1 не должна удваивать счётчик сверенных
	_, err = CreateVerification(db, a1.ID, cycle.ID, auditorInput(models.StatusVerified), true)
	require.NoError(t, err)

	s, err := GetCycleSummary(db, cycle.ID)
	require.NoError(t, err)
	assert.Equal(t, cycle.ID, s.CycleID)
	assert.Equal(t, "Q2-2025", s.Tag)
	assert.EqualValues(t, 4, s.TotalAssets)
	assert.EqualValues(t, 2, s.VerifiedCount)
	assert.EqualValues(t, 2, s.PendingCount)
	assert.InDelta(t, 50.0, s.CompletionPercentage, 0.01)

	assert.EqualValues(t, 2, s.StatusBreakdown[string(models.StatusVerified)])
	assert.EqualValues(t, 1, s.StatusBreakdown[string(models.StatusDiscrepancy)])

	assert.EqualValues(t, 1, s.ConditionBreakdown[string(models.ConditionDamaged)])
	assert.EqualValues(t, 2, s.ConditionBreakdown["NOT_SPECIFIED"])

	assert.EqualValues(t, 2, s.SourceBreakdown[string(models.SourceAuditor)])
	assert.EqualValues(t, 1, s.SourceBreakdown[string(models.SourceSelf)])
}

func TestGetCycleSummaryEmpty(t *testing.T) {
	db := newTestDB(t)
	cycle := mustCycle(t, db, "Q2-2025", "")

	s, err := GetCycleSummary(db, cycle.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, s.TotalAssets)
	assert.EqualValues(t, 0, s.VerifiedCount)
	assert.Zero(t, s.CompletionPercentage)
	assert.Empty(t, s.StatusBreakdown)
}

func TestGetCycleSummaryUnknownCycle(t *testing.T) {
	db := newTestDB(t)

	_, err := GetCycleSummary(db, 42)
	assert.ErrorIs(t, err, ErrCycleNotFound)
}
