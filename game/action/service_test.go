package action

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/chatrpg/engine/config"
	"github.com/chatrpg/engine/game/achievement"
	"github.com/chatrpg/engine/game/combat"
	"github.com/chatrpg/engine/game/consumable"
	"github.com/chatrpg/engine/game/daily"
	"github.com/chatrpg/engine/game/guild"
	"github.com/chatrpg/engine/game/inventory"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/game/quest"
	"github.com/chatrpg/engine/model"
	"github.com/chatrpg/engine/plugin/hook"
	"github.com/chatrpg/engine/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	svc     *Service
	players *player.Service
	bags    *inventory.Service
	db      *gorm.DB
	ctx     context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	cfg := config.Default().Game
	log := zap.NewNop()

	players := player.NewService(db, c, cfg, log)
	bags := inventory.NewService(db, players, log)
	cbt := combat.NewService(cfg, rand.New(rand.NewSource(7)), log)
	quests := quest.NewService(db, players, bags, log)
	achievements := achievement.NewService(db, players, log)
	guilds := guild.NewService(db, players, cfg, log)
	dailies := daily.NewService(db, players, bags, cfg, rand.New(rand.NewSource(7)), log)
	consumables := consumable.NewService(players, bags, c, log)

	svc := NewService(players, bags, cbt, quests, achievements, guilds, dailies, consumables, cfg, log)
	return &testEnv{svc: svc, players: players, bags: bags, db: db, ctx: context.Background()}
}

func (env *testEnv) seed(t *testing.T) *model.Player {
	t.Helper()
	return testutil.SeedPlayer(t, env.db, "u1", "Alice")
}

// pump sets the listed columns and mirrors them on the struct.
func (env *testEnv) pump(t *testing.T, p *model.Player, cols map[string]interface{}) {
	t.Helper()
	require.NoError(t, env.db.Model(p).Updates(cols).Error)
	require.NoError(t, env.db.First(p, p.ID).Error)
}

func TestHuntVictory(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"attack": 1000, "defense": 1000})
	now := time.Now()

	out, err := env.svc.Hunt(env.ctx, p, now)
	require.NoError(t, err)
	assert.True(t, out.Outcome.Victory)
	assert.Greater(t, out.Gold, int64(0))
	assert.Greater(t, out.XP, 0)

	// One-round kills take no damage.
	assert.Equal(t, 100, p.HP)
	assert.Equal(t, int64(1), p.TotalHunts)
	assert.Equal(t, int64(1), p.MonstersKilled)
	assert.Equal(t, int64(100)+out.Gold, p.Gold)
	require.NotNil(t, p.LastHunt)

	// The starter kill quest is auto-trackable once accepted.
	assert.NotNil(t, out.Followups)
}

func TestHuntOnCooldown(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"attack": 1000, "defense": 1000})
	now := time.Now()

	_, err := env.svc.Hunt(env.ctx, p, now)
	require.NoError(t, err)

	_, err = env.svc.Hunt(env.ctx, p, now.Add(time.Minute))
	require.ErrorIs(t, err, ErrOnCooldown)

	var cdErr *CooldownError
	require.ErrorAs(t, err, &cdErr)
	assert.Equal(t, "hunt", cdErr.Action)
	assert.Equal(t, 4, cdErr.Minutes)

	// The window elapses.
	window := time.Duration(config.Default().Game.HuntCooldownMin) * time.Minute
	_, err = env.svc.Hunt(env.ctx, p, now.Add(window))
	assert.NoError(t, err)
}

func TestHuntDoubleTapStampsOnce(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"attack": 1000, "defense": 1000})
	now := time.Now()

	// Two handlers load the same player before either hunts. The copy's
	// in-memory gate still reads open, so only the database stamp can
	// refuse the second run.
	stale := *p
	_, err := env.svc.Hunt(env.ctx, p, now)
	require.NoError(t, err)

	_, err = env.svc.Hunt(env.ctx, &stale, now)
	require.ErrorIs(t, err, ErrOnCooldown)
	assert.Equal(t, int64(1), stale.TotalHunts)
}

func TestHuntDefeatPaysNothing(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"attack": 1, "defense": 0, "hp": 1})

	out, err := env.svc.Hunt(env.ctx, p, time.Now())
	require.NoError(t, err)
	assert.False(t, out.Outcome.Victory)
	assert.Zero(t, out.Gold)
	assert.Zero(t, p.HP)
	assert.Equal(t, int64(100), p.Gold)
	assert.Zero(t, p.TotalHunts)

	// Defeat still burns the cooldown.
	assert.NotNil(t, p.LastHunt)
}

func TestHuntAutoRevivesWithFeather(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"attack": 1, "defense": 0, "hp": 1})
	require.NoError(t, env.bags.Add(env.ctx, p.ID, "Phoenix Feather", 1))

	out, err := env.svc.Hunt(env.ctx, p, time.Now())
	require.NoError(t, err)
	assert.False(t, out.Outcome.Victory)
	assert.Equal(t, "Phoenix Feather", out.Followups.Revived)
	assert.Equal(t, p.MaxHP, p.HP)

	n, _ := env.bags.Count(env.ctx, p.ID, "Phoenix Feather")
	assert.Zero(t, n)
}

func TestWorkPaysGold(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	now := time.Now()

	out, err := env.svc.Work(env.ctx, p, now)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, out.Gold, out.Job.GoldMin)
	assert.Equal(t, int64(100)+out.Gold, p.Gold)
	require.NotNil(t, p.LastWork)

	for mat, qty := range out.Materials {
		n, _ := env.bags.Count(env.ctx, p.ID, mat)
		assert.Equal(t, qty, n)
	}

	_, err = env.svc.Work(env.ctx, p, now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrOnCooldown)
}

func TestAdventureBranches(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"max_hp": 10000, "hp": 10000})
	now := time.Now()
	window := time.Duration(config.Default().Game.AdventureCooldownMin) * time.Minute

	var successes, failures int
	for i := 0; i < 20; i++ {
		out, err := env.svc.Adventure(env.ctx, p, now.Add(time.Duration(i)*window))
		require.NoError(t, err)
		if out.Success {
			successes++
			assert.GreaterOrEqual(t, out.XP, out.Site.XPMin)
			assert.Zero(t, out.Damage)
		} else {
			failures++
			assert.GreaterOrEqual(t, out.Damage, 5)
			assert.LessOrEqual(t, out.Damage, 15)
		}
	}
	assert.Positive(t, successes)
	assert.Positive(t, failures)
	assert.Equal(t, int64(successes), p.TotalAdventures)
}

func TestDungeonGates(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	now := time.Now()

	_, err := env.svc.Dungeon(env.ctx, p, "nowhere", now)
	assert.ErrorIs(t, err, ErrUnknownDungeon)

	// Goblin Cave wants level 3.
	_, err = env.svc.Dungeon(env.ctx, p, "goblin_cave", now)
	assert.ErrorIs(t, err, ErrLevelTooLow)

	env.pump(t, p, map[string]interface{}{"level": 3, "hp": 40})
	_, err = env.svc.Dungeon(env.ctx, p, "goblin_cave", now)
	assert.ErrorIs(t, err, ErrTooWounded)
}

func TestDungeonCleared(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"level": 5, "attack": 1000, "defense": 1000})
	now := time.Now()

	out, err := env.svc.Dungeon(env.ctx, p, "goblin_cave", now)
	require.NoError(t, err)
	assert.True(t, out.Cleared)
	assert.Len(t, out.Floors, 3)
	assert.True(t, out.Floors[2].Boss)
	assert.Greater(t, out.Gold, int64(0))

	assert.Equal(t, int64(1), p.TotalDungeons)
	assert.Equal(t, int64(3), p.MonstersKilled)
	assert.Equal(t, int64(1), p.BossesKilled)
	require.NotNil(t, p.LastDungeon)

	_, err = env.svc.Dungeon(env.ctx, p, "goblin_cave", now.Add(time.Minute))
	assert.ErrorIs(t, err, ErrOnCooldown)
}

func TestDungeonFailureCostsGold(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"level": 3, "attack": 1, "defense": 0, "gold": 500})

	out, err := env.svc.Dungeon(env.ctx, p, "goblin_cave", time.Now())
	require.NoError(t, err)
	assert.False(t, out.Cleared)
	assert.Equal(t, int64(50), out.GoldLost)
	assert.Equal(t, int64(450), p.Gold)
	assert.Zero(t, p.TotalDungeons)
	assert.Zero(t, p.HP)
}

func TestDuelAppliesSwing(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"attack": 1000, "defense": 1000})

	out, err := env.svc.Duel(env.ctx, p, time.Now())
	require.NoError(t, err)
	assert.True(t, out.Outcome.Victory)
	assert.Positive(t, out.GoldDelta)
	assert.Equal(t, int64(100)+out.GoldDelta, p.Gold)
	assert.Equal(t, int64(1), p.TotalDuels)
}

func TestDuelLossTakesGold(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"attack": 1, "defense": 0, "level": 10, "max_hp": 10, "hp": 10})

	out, err := env.svc.Duel(env.ctx, p, time.Now())
	require.NoError(t, err)
	assert.False(t, out.Outcome.Victory)
	assert.Negative(t, out.GoldDelta)
	assert.Equal(t, int64(100)+out.GoldDelta, p.Gold)
	assert.Equal(t, int64(1), p.TotalDuels)
}

func TestDailyDelegatesToClaim(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	out, err := env.svc.Daily(env.ctx, p, now)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Claim.Streak)

	_, err = env.svc.Daily(env.ctx, p, now.Add(time.Hour))
	assert.ErrorIs(t, err, daily.ErrAlreadyClaimed)
}

func TestHuntAdvancesKillQuest(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"attack": 1000, "defense": 1000})
	quests := quest.NewService(env.db, env.players, env.bags, zap.NewNop())
	now := time.Now()
	require.NoError(t, quests.Accept(env.ctx, p, "first_hunt", now))

	out, err := env.svc.Hunt(env.ctx, p, now)
	require.NoError(t, err)
	assert.Contains(t, out.Followups.QuestsReady, "first_hunt")
}

func TestHuntUnlocksFirstKill(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"attack": 1000, "defense": 1000})

	out, err := env.svc.Hunt(env.ctx, p, time.Now())
	require.NoError(t, err)

	var ids []string
	for _, u := range out.Followups.Unlocks {
		ids = append(ids, u.Achievement.ID)
	}
	assert.Contains(t, ids, "first_kill")
}

func TestGuildPerksScaleHuntRewards(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"attack": 1000, "defense": 1000, "level": 5, "gold": 5000})

	cfg := config.Default().Game
	guilds := guild.NewService(env.db, env.players, cfg, zap.NewNop())
	_, err := guilds.Create(env.ctx, p, "Dragons", "DRG", "")
	require.NoError(t, err)
	// Enough contribution for guild level 2: +5% gold.
	_, err = guilds.Contribute(env.ctx, p, 1000, "")
	require.NoError(t, err)
	require.NoError(t, env.db.First(p, p.ID).Error)

	out, err := env.svc.Hunt(env.ctx, p, time.Now())
	require.NoError(t, err)
	require.True(t, out.Outcome.Victory)
	// Monster base gold tops out well below 100, so a perked payout
	// never lands on a raw roll boundary check; assert the multiplier
	// against the recorded monster range instead.
	assert.LessOrEqual(t, out.Gold, int64(float64(out.Monster.GoldMax)*1.05)+1)
}

func TestCooldownsReport(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	now := time.Now()

	report := env.svc.Cooldowns(p, now)
	for action, mins := range report {
		assert.Zero(t, mins, action)
	}

	require.NoError(t, env.players.SetCooldown(env.ctx, p, "hunt", now))
	report = env.svc.Cooldowns(p, now.Add(time.Minute))
	assert.Equal(t, 4, report["hunt"])
	assert.Zero(t, report["work"])
}

func TestHuntFiresHooks(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"attack": 1000, "defense": 1000})

	hc := hook.NewHookCenter()
	var seen []string
	hc.Register(hook.AfterHunt, 0, "test", func(_ context.Context, event string, data interface{}) (interface{}, error) {
		seen = append(seen, event)
		_, ok := data.(*HuntOutcome)
		assert.True(t, ok)
		return data, nil
	})
	hc.Register(hook.OnQuestReady, 0, "test", func(_ context.Context, event string, data interface{}) (interface{}, error) {
		seen = append(seen, event)
		return data, nil
	})
	env.svc.UseHooks(hc)

	require.NoError(t, env.svc.quests.Accept(env.ctx, p, "first_hunt", time.Now()))

	_, err := env.svc.Hunt(env.ctx, p, time.Now())
	require.NoError(t, err)
	assert.Contains(t, seen, hook.OnQuestReady)
	assert.Contains(t, seen, hook.AfterHunt)
	// Quest hook fires first: finish runs before the action event.
	assert.Equal(t, hook.AfterHunt, seen[len(seen)-1])
}

func TestHuntWhileDownedRefused(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"hp": 0})

	_, err := env.svc.Hunt(env.ctx, p, time.Now())
	require.ErrorIs(t, err, ErrTooWounded)
	// The refusal never burns the cooldown.
	assert.Nil(t, p.LastHunt)
}

func TestDuelWhileDownedRefused(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	env.pump(t, p, map[string]interface{}{"hp": 0, "gold": 100})

	_, err := env.svc.Duel(env.ctx, p, time.Now())
	require.ErrorIs(t, err, ErrTooWounded)
	assert.EqualValues(t, 100, p.Gold)
}
