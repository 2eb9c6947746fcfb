package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/internal/modules/tips"
	"notifier/internal/testutil"
)

func TestTipsDatabase_SaveTipsUpserts(t *testing.T) {
	db := testutil.NewTestDB(t, &tips.DailyTips{})
	repo := NewTipsDatabase(db, testutil.DiscardLogger())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	_, err := repo.GetTips(ctx, "2026-03-10")
	assert.ErrorIs(t, err, tips.ErrTipsNotFound)

	require.NoError(t, repo.SaveTips(ctx, &tips.DailyTips{DateKey: "2026-03-10", TipOne: "a", TipTwo: "b", TipThree: "c", GeneratedAt: now}))
	require.NoError(t, repo.SaveTips(ctx, &tips.DailyTips{DateKey: "2026-03-10", TipOne: "x", TipTwo: "y", TipThree: "z", GeneratedAt: now}))

	got, err := repo.GetTips(ctx, "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, "x", got.Tip(tips.SlotMorning))
	assert.Equal(t, "y", got.Tip(tips.SlotAfternoon))
	assert.Equal(t, "z", got.Tip(tips.SlotEvening))

	var count int64
	require.NoError(t, db.Model(&tips.DailyTips{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
