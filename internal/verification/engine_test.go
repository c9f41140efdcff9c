package verification

import (
	"testing"

	"fixed-asset-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupUnknownCycle(t *testing.T) {
	db := newTestDB(t)

	_, err := Lookup(db, "AST001", 42)
	assert.ErrorIs(t, err, ErrCycleNotFound)
}

func TestLookupUnknownAsset(t *testing.T) {
	db := newTestDB(t)
	cycle := mustCycle(t, db, "Q2-2025", "")

	res, err := Lookup(db, "NOPE", cycle.ID)
	require.NoError(t, err)
	assert.Nil(t, res.Asset)
	assert.Nil(t, res.Effective)
	assert.False(t, res.AlreadyVerified)
}

func TestLookupBeforeAndAfterVerification(t *testing.T) {
	db := newTestDB(t)
	cycle := mustCycle(t, db, "Q2-2025", "")
	asset := mustAsset(t, db, "AST001", "Ноутбук Dell")

	res, err := Lookup(db, "AST001", cycle.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Asset)
	assert.Equal(t, asset.ID, res.Asset.ID)
	assert.False(t, res.AlreadyVerified)
	assert.Nil(t, res.Effective)

	created, err := CreateVerification(db, asset.ID, cycle.ID, auditorInput(models.StatusVerified), false)
	require.NoError(t, err)
	require.False(t, created.Duplicate)

	res, err = Lookup(db, "AST001", cycle.ID)
	require.NoError(t, err)
	assert.True(t, res.AlreadyVerified)
	require.NotNil(t, res.Effective)
	assert.Equal(t, created.Created.ID, res.Effective.ID)
}

func TestCreateVerification(t *testing.T) {
	db := newTestDB(t)
	cycle := mustCycle(t, db, "Q2-2025", "")
	asset := mustAsset(t, db, "AST001", "Ноутбук Dell")

	cond := models.ConditionGood
	lat, lng := 55.7558, 37.6173
	in := VerificationInput{
		PerformedBy: "auditor@assets.local",
		Source:      models.SourceAuditor,
		Status:      models.StatusVerified,
		Condition:   &cond,
		LocationLat: &lat,
		LocationLng: &lng,
		Photos:      []string{"photos/ast001-front.jpg", "photos/ast001-back.jpg"},
		Notes:       "на месте",
	}

	res, err := CreateVerification(db, asset.ID, cycle.ID, in, false)
	require.NoError(t, err)
	require.NotNil(t, res.Created)
	assert.False(t, res.Duplicate)
	assert.NotNil(t, res.Created.VerifiedAt)

	// перечитываем из базы, включая JSON-поле с фото
	var got models.AssetVerification
	require.NoError(t, db.First(&got, res.Created.ID).Error)
	assert.Equal(t, models.SourceAuditor, got.Source)
	assert.Equal(t, models.StatusVerified, got.Status)
	require.NotNil(t, got.Condition)
	assert.Equal(t, models.ConditionGood, *got.Condition)
	assert.Equal(t, models.StringList{"photos/ast001-front.jpg", "photos/ast001-back.jpg"}, got.Photos)
}

func TestCreateVerificationValidation(t *testing.T) {
	db := newTestDB(t)
	cycle := mustCycle(t, db, "Q2-2025", "")
	asset := mustAsset(t, db, "AST001", "Ноутбук Dell")

	tests := []struct {
		name string
		in   VerificationInput
	}{
		{"bad source", VerificationInput{Source: "ROBOT", Status: models.StatusVerified}},
		{"overridden source from outside", VerificationInput{Source: models.SourceOverridden, Status: models.StatusVerified}},
		{"bad status", VerificationInput{Source: models.SourceAuditor, Status: "MAYBE"}},
		{"bad condition", func() VerificationInput {
			c := models.AssetCondition("BROKEN")
			in := auditorInput(models.StatusVerified)
			in.Condition = &c
			return in
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateVerification(db, asset.ID, cycle.ID, tt.in, false)
			assert.ErrorIs(t, err, ErrInvariant)
		})
	}
}

func TestCreateVerificationMissingAsset(t *testing.T) {
	db := newTestDB(t)
	cycle := mustCycle(t, db, "Q2-2025", "")

	_, err := CreateVerification(db, 42, cycle.ID, auditorInput(models.StatusVerified), false)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestCreateVerificationLockedCycle(t *testing.T) {
	db := newTestDB(t)
	cycle := mustCycle(t, db, "Q2-2025", "")
	asset := mustAsset(t, db, "AST001", "Ноутбук Dell")

	_, err := LockCycle(db, cycle.ID)
	require.NoError(t, err)

	_, err = CreateVerification(db, asset.ID, cycle.ID, auditorInput(models.StatusVerified), false)
	assert.ErrorIs(t, err, ErrCycleLocked)

	// после разблокировки запись проходит
	_, err = UnlockCycle(db, cycle.ID)
	require.NoError(t, err)

	res, err := CreateVerification(db, asset.ID, cycle.ID, auditorInput(models.StatusVerified), false)
	require.NoError(t, err)
	assert.NotNil(t, res.Created)
}

func TestCreateVerificationDuplicateSignal(t *testing.T) {
	db := newTestDB(t)
	cycle := mustCycle(t, db, "Q2-2025", "")
	asset := mustAsset(t, db, "AST001", "Ноутбук Dell")

	first, err := CreateVerification(db, asset.ID, cycle.ID, auditorInput(models.StatusVerified), false)
	require.NoError(t, err)

	// повтор без allowDuplicate — не ошибка, а сигнал с уже существующей записью
	for i := 0; i < 3; i++ {
		res, err := CreateVerification(db, asset.ID, cycle.ID, auditorInput(models.StatusDiscrepancy), false)
		require.NoError(t, err)
		assert.True(t, res.Duplicate)
		assert.Nil(t, res.Created)
		require.NotNil(t, res.Existing)
		assert.Equal(t, first.Created.ID, res.Existing.ID)
	}

	var count int64
	require.NoError(t, db.Model(&models.AssetVerification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateVerificationAllowDuplicate(t *testing.T) {
	db := newTestDB(t)
	cycle := mustCycle(t, db, "Q2-2025", "")
	asset := mustAsset(t, db, "AST001", "Ноутбук Dell")

	first, err := CreateVerification(db, asset.ID, cycle.ID, auditorInput(models.StatusVerified), false)
	require.NoError(t, err)

	second, err := CreateVerification(db, asset.ID, cycle.ID, auditorInput(models.StatusDiscrepancy), true)
	require.NoError(t, err)
	require.NotNil(t, second.Created)
	assert.False(t, second.Duplicate)

	// действующей становится самая свежая запись
	res, err := Lookup(db, "AST001", cycle.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Effective)
	assert.Equal(t, second.Created.ID, res.Effective.ID)
	assert.NotEqual(t, first.Created.ID, res.Effective.ID)
}

func TestVerificationsIndependentAcrossCycles(t *testing.T) {
	db := newTestDB(t)
	q2 := mustCycle(t, db, "Q2-2025", "")
	q3 := mustCycle(t, db, "Q3-2025", "")
	asset := mustAsset(t, db, "AST001", "Ноутбук Dell")

	_, err := CreateVerification(db, asset.ID, q2.ID, auditorInput(models.StatusVerified), false)
	require.NoError(t, err)

	// в другом цикле актив всё ещё не сверен
	res, err := Lookup(db, "AST001", q3.ID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyVerified)

	created, err := CreateVerification(db, asset.ID, q3.ID, auditorInput(models.StatusNotFound), false)
	require.NoError(t, err)
	assert.False(t, created.Duplicate)
}

func TestSearchAssets(t *testing.T) {
	db := newTestDB(t)
	mustAsset(t, db, "AST002", "Монитор LG")
	mustAsset(t, db, "AST001", "Ноутбук Dell")
	mustAsset(t, db, "PRN001", "Принтер HP")

	found, err := SearchAssets(db, "ast")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "AST001", found[0].AssetCode)
	assert.Equal(t, "AST002", found[1].AssetCode)

	found, err = SearchAssets(db, "hp")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "PRN001", found[0].AssetCode)

	found, err = SearchAssets(db, "xyz")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestPendingAssets(t *testing.T) {
	db := newTestDB(t)
	cycle := mustCycle(t, db, "Q2-2025", "")
	a1 := mustAsset(t, db, "AST001", "Ноутбук Dell")
	a2 := mustAsset(t, db, "AST002", "Монитор LG")
	a3 := mustAsset(t, db, "AST003", "Принтер HP")

	inactive := mustAsset(t, db, "AST004", "Списанный сервер")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	pending, err := PendingAssets(db, cycle.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	_, err = CreateVerification(db, a2.ID, cycle.ID, auditorInput(models.StatusVerified), false)
	require.NoError(t, err)

	pending, err = PendingAssets(db, cycle.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	// сверенные и несверенные активы не пересекаются и вместе
	// покрывают все действующие активы
	codes := map[string]bool{}
	for _, a := range pending {
		codes[a.AssetCode] = true
	}
	assert.True(t, codes[a1.AssetCode])
	assert.True(t, codes[a3.AssetCode])
	assert.False(t, codes[a2.AssetCode])
	assert.False(t, codes[inactive.AssetCode])
}

func TestPendingAssetsUnknownCycle(t *testing.T) {
	db := newTestDB(t)

	_, err := PendingAssets(db, 42)
	assert.ErrorIs(t, err, ErrCycleNotFound)
}
