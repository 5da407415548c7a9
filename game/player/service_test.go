package player

import (
	"context"
	"testing"
	"time"

	"github.com/chatrpg/engine/config"
	"github.com/chatrpg/engine/model"
	"github.com/chatrpg/engine/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	svc := NewService(db, c, config.Default().Game, zap.NewNop())
	return svc, context.Background()
}

func TestGetOrCreate(t *testing.T) {
	svc, ctx := newTestService(t)

	p, err := svc.GetOrCreate(ctx, "u1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, int64(100), p.Gold)
	assert.Equal(t, model.StarterWeapon, p.Weapon)
	assert.Equal(t, model.StarterArmor, p.Armor)

	again, err := svc.GetOrCreate(ctx, "u1", "ignored")
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, "Alice", again.Name)
}

func TestGetByExternalID_NotFound(t *testing.T) {
	svc, ctx := newTestService(t)
	_, err := svc.GetByExternalID(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddXP_SingleLevelUp(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")
	p.HP = 40
	require.NoError(t, svc.db.Model(p).Update("hp", 40).Error)

	res, err := svc.AddXP(ctx, p, 120)
	require.NoError(t, err)
	require.Len(t, res.LevelUps, 1)
	assert.Equal(t, LevelUp{From: 1, To: 2}, res.LevelUps[0])
	assert.Equal(t, 2, res.NewLevel)

	// XP is not reset on level-up.
	assert.Equal(t, int64(120), p.XP)
	// Stat growth and the one-time full heal.
	assert.Equal(t, 110, p.MaxHP)
	assert.Equal(t, 110, p.HP)
	assert.Equal(t, 12, p.Attack)
	assert.Equal(t, 6, p.Defense)

	fresh, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Level)
	assert.Equal(t, int64(120), fresh.XP)
	assert.Equal(t, 110, fresh.HP)
}

func TestAddXP_CascadeLevels(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")

	// 100 + 200 + 300 = 600 to reach level 4; 650 clears three thresholds.
	res, err := svc.AddXP(ctx, p, 650)
	require.NoError(t, err)
	require.Len(t, res.LevelUps, 3)
	assert.Equal(t, 4, p.Level)
	assert.Equal(t, int64(650), p.XP)
	assert.Equal(t, 130, p.MaxHP)
}

func TestAddXP_NoLevelUpKeepsHP(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")
	p.HP = 30
	require.NoError(t, svc.db.Model(p).Update("hp", 30).Error)

	res, err := svc.AddXP(ctx, p, 50)
	require.NoError(t, err)
	assert.Empty(t, res.LevelUps)
	assert.Equal(t, 30, p.HP)
}

func TestSpendGold(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")

	require.NoError(t, svc.SpendGold(ctx, p, 60))
	assert.Equal(t, int64(40), p.Gold)

	err := svc.SpendGold(ctx, p, 100)
	assert.ErrorIs(t, err, ErrInsufficientGold)
	assert.Equal(t, int64(40), p.Gold)
}

func TestAddGoldTracksEarned(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")

	require.NoError(t, svc.AddGold(ctx, p, 250))
	require.NoError(t, svc.SpendGold(ctx, p, 300))
	require.NoError(t, svc.AddGold(ctx, p, 50))

	fresh, _ := svc.GetByID(ctx, p.ID)
	assert.Equal(t, int64(100), fresh.Gold)
	// Spending never reduces lifetime earnings.
	assert.Equal(t, int64(300), fresh.GoldEarned)
}

func TestGems(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")

	require.NoError(t, svc.AddGems(ctx, p, 10))
	require.NoError(t, svc.SpendGems(ctx, p, 4))
	assert.Equal(t, int64(6), p.Gems)
	assert.ErrorIs(t, svc.SpendGems(ctx, p, 7), ErrInsufficientGems)
}

func TestDamageFloorsAtZero(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")

	dealt, down, err := svc.Damage(ctx, p, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, dealt)
	assert.False(t, down)

	dealt, down, err = svc.Damage(ctx, p, 999)
	require.NoError(t, err)
	assert.Equal(t, 70, dealt)
	assert.True(t, down)
	assert.Equal(t, 0, p.HP)
}

func TestHealCapsAtMax(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")
	_, _, _ = svc.Damage(ctx, p, 50)

	healed, err := svc.Heal(ctx, p, 200)
	require.NoError(t, err)
	assert.Equal(t, 50, healed)
	assert.Equal(t, p.MaxHP, p.HP)
}

func TestIncrStats(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")

	require.NoError(t, svc.IncrStats(ctx, p, StatDeltas{Hunts: 1, Kills: 3}))
	require.NoError(t, svc.IncrStats(ctx, p, StatDeltas{Hunts: 1, Bosses: 1}))

	fresh, _ := svc.GetByID(ctx, p.ID)
	assert.Equal(t, int64(2), fresh.TotalHunts)
	assert.Equal(t, int64(3), fresh.MonstersKilled)
	assert.Equal(t, int64(1), fresh.BossesKilled)
}

func TestCooldownStamps(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")

	at := time.Now().Truncate(time.Second)
	require.NoError(t, svc.SetCooldown(ctx, p, "hunt", at))
	require.NotNil(t, p.LastHunt)

	fresh, _ := svc.GetByID(ctx, p.ID)
	require.NotNil(t, fresh.LastHunt)
	assert.WithinDuration(t, at, *fresh.LastHunt, time.Second)

	assert.Error(t, svc.SetCooldown(ctx, p, "teleport", at))
}

func TestReduceCooldowns(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")

	now := time.Now()
	require.NoError(t, svc.SetCooldown(ctx, p, "hunt", now))
	require.NoError(t, svc.SetCooldown(ctx, p, "daily", now))

	require.NoError(t, svc.ReduceCooldowns(ctx, p, 30*time.Minute))

	fresh, _ := svc.GetByID(ctx, p.ID)
	require.NotNil(t, fresh.LastHunt)
	assert.WithinDuration(t, now.Add(-30*time.Minute), *fresh.LastHunt, time.Second)
	// The daily stamp is calendar-based and must not move.
	require.NotNil(t, fresh.LastDaily)
	assert.WithinDuration(t, now, *fresh.LastDaily, time.Second)
}

func TestResetCooldowns(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")

	require.NoError(t, svc.SetCooldown(ctx, p, "hunt", time.Now()))
	require.NoError(t, svc.SetCooldown(ctx, p, "work", time.Now()))
	require.NoError(t, svc.ResetCooldowns(ctx, p))

	fresh, _ := svc.GetByID(ctx, p.ID)
	assert.Nil(t, fresh.LastHunt)
	assert.Nil(t, fresh.LastWork)
}

func TestBuffsExpireAndStack(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")
	now := time.Now()

	require.NoError(t, svc.AddBuff(ctx, p, model.Buff{
		Kind: "attack_bonus", Value: 5, ExpiresAt: now.Add(time.Hour), Source: "Strength Elixir",
	}))
	require.NoError(t, svc.AddBuff(ctx, p, model.Buff{
		Kind: "attack_mult", Value: 1.5, ExpiresAt: now.Add(-time.Minute), Source: "stale",
	}))

	atk, def := svc.EffectiveStats(ctx, p, now)
	// Expired multiplier pruned; flat bonus applies.
	assert.Equal(t, 15, atk)
	assert.Equal(t, 5, def)

	active := svc.ActiveBuffs(ctx, p, now)
	require.Len(t, active, 1)
	assert.Equal(t, "attack_bonus", active[0].Kind)
}

func TestXPAndLuckMultipliers(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")
	now := time.Now()

	require.NoError(t, svc.AddBuff(ctx, p, model.Buff{
		Kind: "xp_mult", Value: 2, ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, svc.AddBuff(ctx, p, model.Buff{
		Kind: "luck_mult", Value: 1.5, ExpiresAt: now.Add(time.Hour),
	}))

	assert.InDelta(t, 2.0, svc.XPMultiplier(ctx, p, now), 0.001)
	assert.InDelta(t, 1.5, svc.LuckMultiplier(ctx, p, now), 0.001)

	require.NoError(t, svc.ClearBuffs(ctx, p))
	assert.InDelta(t, 1.0, svc.XPMultiplier(ctx, p, now), 0.001)
}

func TestLeaderboardTop(t *testing.T) {
	svc, ctx := newTestService(t)

	a, _ := svc.GetOrCreate(ctx, "u1", "Alice")
	b, _ := svc.GetOrCreate(ctx, "u2", "Bob")
	c, _ := svc.GetOrCreate(ctx, "u3", "Cara")

	_, err := svc.AddXP(ctx, a, 500)
	require.NoError(t, err)
	_, err = svc.AddXP(ctx, b, 900)
	require.NoError(t, err)
	_, err = svc.AddXP(ctx, c, 120)
	require.NoError(t, err)

	top, err := svc.Top(ctx, BoardXP, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "u2", top[0].ExternalID)
	assert.Equal(t, int64(900), top[0].Score)
	assert.Equal(t, "u1", top[1].ExternalID)
}

func TestLeaderboardGoldBoard(t *testing.T) {
	svc, ctx := newTestService(t)

	a, _ := svc.GetOrCreate(ctx, "u1", "Alice")
	b, _ := svc.GetOrCreate(ctx, "u2", "Bob")
	require.NoError(t, svc.AddGold(ctx, a, 1000))
	require.NoError(t, svc.AddGold(ctx, b, 50))

	top, err := svc.Top(ctx, BoardGold, 10)
	require.NoError(t, err)
	require.NotEmpty(t, top)
	assert.Equal(t, "u1", top[0].ExternalID)
	assert.Equal(t, int64(1100), top[0].Score)
}

func TestLeaderboardDBFallback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db, nil, config.Default().Game, zap.NewNop())
	ctx := context.Background()

	a, _ := svc.GetOrCreate(ctx, "u1", "Alice")
	_, err := svc.AddXP(ctx, a, 300)
	require.NoError(t, err)
	_, _ = svc.GetOrCreate(ctx, "u2", "Bob")

	top, err := svc.Top(ctx, BoardXP, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "u1", top[0].ExternalID)
}

func TestRefreshBoards(t *testing.T) {
	svc, ctx := newTestService(t)
	p, _ := svc.GetOrCreate(ctx, "u1", "Alice")
	_, err := svc.AddXP(ctx, p, 777)
	require.NoError(t, err)

	require.NoError(t, svc.RefreshBoards(ctx))
	rank := svc.Rank(ctx, BoardXP, "u1")
	assert.Equal(t, int64(0), rank)
}
