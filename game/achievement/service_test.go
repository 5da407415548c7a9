package achievement

import (
	"context"
	"testing"

	"github.com/chatrpg/engine/config"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/model"
	"github.com/chatrpg/engine/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *player.Service, *gorm.DB, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	players := player.NewService(db, testutil.SetupTestCache(t), config.Default().Game, zap.NewNop())
	return NewService(db, players, zap.NewNop()), players, db, context.Background()
}

func TestCheckAllUnlocksFirstKill(t *testing.T) {
	svc, players, db, ctx := newTestService(t)
	p := testutil.SeedPlayer(t, db, "u1", "Alice")

	unlocks, err := svc.CheckAll(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, unlocks)

	require.NoError(t, players.IncrStats(ctx, p, player.StatDeltas{Kills: 1}))
	unlocks, err = svc.CheckAll(ctx, p)
	require.NoError(t, err)
	require.Len(t, unlocks, 1)
	assert.Equal(t, "first_kill", unlocks[0].Achievement.ID)

	// Reward paid out.
	assert.Equal(t, int64(200), p.Gold)
	assert.Equal(t, int64(5), p.Gems)
}

func TestCheckAllPaysOnce(t *testing.T) {
	svc, players, db, ctx := newTestService(t)
	p := testutil.SeedPlayer(t, db, "u1", "Alice")
	require.NoError(t, players.IncrStats(ctx, p, player.StatDeltas{Kills: 1}))

	_, err := svc.CheckAll(ctx, p)
	require.NoError(t, err)
	goldAfter := p.Gold

	unlocks, err := svc.CheckAll(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, unlocks)
	assert.Equal(t, goldAfter, p.Gold)
}

func TestCheckAllUnlocksMultipleTiers(t *testing.T) {
	svc, players, db, ctx := newTestService(t)
	p := testutil.SeedPlayer(t, db, "u1", "Alice")
	require.NoError(t, players.IncrStats(ctx, p, player.StatDeltas{Kills: 120}))

	unlocks, err := svc.CheckAll(ctx, p)
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, u := range unlocks {
		ids[u.Achievement.ID] = true
	}
	assert.True(t, ids["first_kill"])
	assert.True(t, ids["monster_hunter"])
	assert.False(t, ids["monster_slayer"])
}

func TestLevelAchievement(t *testing.T) {
	svc, players, db, ctx := newTestService(t)
	p := testutil.SeedPlayer(t, db, "u1", "Alice")

	// 1000 XP clears levels up to 5.
	_, err := players.AddXP(ctx, p, 1000)
	require.NoError(t, err)
	require.GreaterOrEqual(t, p.Level, 5)

	unlocks, err := svc.CheckAll(ctx, p)
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, u := range unlocks {
		ids[u.Achievement.ID] = true
	}
	assert.True(t, ids["level_5"])
}

func TestGoldEarnedAchievement(t *testing.T) {
	svc, players, db, ctx := newTestService(t)
	p := testutil.SeedPlayer(t, db, "u1", "Alice")

	require.NoError(t, players.AddGold(ctx, p, 1200))
	unlocks, err := svc.CheckAll(ctx, p)
	require.NoError(t, err)
	require.NotEmpty(t, unlocks)
	assert.Equal(t, "rich_1k", unlocks[0].Achievement.ID)
}

func TestListShowsClampedProgress(t *testing.T) {
	svc, players, db, ctx := newTestService(t)
	p := testutil.SeedPlayer(t, db, "u1", "Alice")
	require.NoError(t, players.IncrStats(ctx, p, player.StatDeltas{Kills: 3}))
	_, err := svc.CheckAll(ctx, p)
	require.NoError(t, err)

	list, err := svc.List(ctx, p)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	byID := map[string]Progress{}
	for _, pr := range list {
		byID[pr.Achievement.ID] = pr
	}
	assert.True(t, byID["first_kill"].Unlocked)
	// Progress clamps at the requirement for display.
	assert.Equal(t, int64(1), byID["first_kill"].Current)
	assert.Equal(t, int64(3), byID["monster_hunter"].Current)
	assert.False(t, byID["monster_hunter"].Unlocked)
}

func TestUniqueIndexBlocksDoubleInsert(t *testing.T) {
	_, _, db, ctx := newTestService(t)
	p := testutil.SeedPlayer(t, db, "u1", "Alice")

	require.NoError(t, db.WithContext(ctx).Create(&model.PlayerAchievement{
		PlayerID: p.ID, AchievementID: "first_kill",
	}).Error)
	err := db.WithContext(ctx).Create(&model.PlayerAchievement{
		PlayerID: p.ID, AchievementID: "first_kill",
	}).Error
	require.Error(t, err)
	assert.True(t, isDuplicate(err))
}
