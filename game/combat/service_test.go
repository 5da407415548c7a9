package combat

import (
	"math/rand"
	"testing"

	"github.com/chatrpg/engine/config"
	"github.com/chatrpg/engine/refdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(seed int64) *Service {
	return NewService(config.Default().Game, rand.New(rand.NewSource(seed)), zap.NewNop())
}

func TestDamageFloor(t *testing.T) {
	svc := newTestService(1)
	// Defense far above attack still deals at least 1.
	for i := 0; i < 50; i++ {
		dmg, _ := svc.Damage(5, 100, 0)
		assert.Equal(t, 1, dmg)
	}
}

func TestDamageVarianceBand(t *testing.T) {
	svc := newTestService(2)
	for i := 0; i < 200; i++ {
		dmg, crit := svc.Damage(20, 10, 0)
		require.False(t, crit)
		// 10 +/- variance 2, no crit possible with luck 0.
		assert.GreaterOrEqual(t, dmg, 8)
		assert.LessOrEqual(t, dmg, 12)
	}
}

func TestDamageCritAlways(t *testing.T) {
	cfg := config.Default().Game
	cfg.CombatCritChance = 1.0
	svc := NewService(cfg, rand.New(rand.NewSource(3)), zap.NewNop())

	dmg, crit := svc.Damage(20, 10, 1.0)
	assert.True(t, crit)
	// Crit multiplies the rolled base by 1.5.
	assert.GreaterOrEqual(t, dmg, 12)
	assert.LessOrEqual(t, dmg, 18)
}

func TestSimulateStrongPlayerWins(t *testing.T) {
	svc := newTestService(4)
	out := svc.Simulate(Stats{HP: 500, Attack: 100, Defense: 50}, refdata.Monsters["Goblin"], 1.0)
	assert.True(t, out.Victory)
	assert.Equal(t, 500-out.DamageTaken, out.RemainingHP)
	assert.GreaterOrEqual(t, out.Rounds, 1)
}

func TestSimulateWeakPlayerLoses(t *testing.T) {
	svc := newTestService(5)
	out := svc.Simulate(Stats{HP: 10, Attack: 1, Defense: 0}, refdata.Monsters["Titan"], 1.0)
	assert.False(t, out.Victory)
	assert.Equal(t, 0, out.RemainingHP)
	assert.Equal(t, 10, out.DamageTaken)
}

func TestSimulateLogsEveryStrike(t *testing.T) {
	svc := newTestService(6)
	out := svc.Simulate(Stats{HP: 500, Attack: 30, Defense: 5}, refdata.Monsters["Orc"], 1.0)
	require.True(t, out.Victory)

	// Player opens each round and lands the killing blow, so a won
	// fight logs one fewer monster strike than rounds.
	require.Len(t, out.Log, 2*out.Rounds-1)
	assert.Equal(t, "player", out.Log[0].Side)
	last := out.Log[len(out.Log)-1]
	assert.Equal(t, "player", last.Side)
	assert.Equal(t, 0, last.RemainingHP)

	taken := 0
	for _, s := range out.Log {
		assert.GreaterOrEqual(t, s.Damage, 1)
		if s.Side == "monster" {
			taken += s.Damage
		}
	}
	assert.Equal(t, out.DamageTaken, taken)
}

func TestSimulateMonsterCritsAtBaseRate(t *testing.T) {
	svc := newTestService(7)
	monsterCrits := 0
	for i := 0; i < 50; i++ {
		out := svc.Simulate(Stats{HP: 5000, Attack: 20, Defense: 0}, refdata.Monsters["Orc"], 0)
		for _, s := range out.Log {
			if s.Side == "player" {
				require.False(t, s.Crit)
			} else if s.Crit {
				monsterCrits++
			}
		}
	}
	// Luck 0 silences the player's crits; the defender still rolls at
	// the base rate.
	assert.Greater(t, monsterCrits, 0)
}

func TestRollGoldWithinRange(t *testing.T) {
	svc := newTestService(6)
	for i := 0; i < 100; i++ {
		g := svc.RollGold(5, 15)
		assert.GreaterOrEqual(t, g, int64(5))
		assert.LessOrEqual(t, g, int64(15))
	}
	assert.Equal(t, int64(7), svc.RollGold(7, 7))
}

func TestRollDropsLuckZeroAndCertain(t *testing.T) {
	svc := newTestService(7)
	drops := []refdata.Drop{{Item: "Wood", Chance: 0.5}, {Item: "Apple", Chance: 0.9}}

	assert.Empty(t, svc.RollDrops(drops, 0))

	got := svc.RollDrops([]refdata.Drop{{Item: "Wood", Chance: 1.0}}, 1.0)
	assert.Equal(t, []string{"Wood"}, got)
}

func TestHuntVictoryPaysOut(t *testing.T) {
	svc := newTestService(8)
	res := svc.Hunt(Stats{HP: 1000, Attack: 200, Defense: 100}, 1, 1.0)

	require.True(t, res.Outcome.Victory)
	assert.NotEmpty(t, res.Name)
	m := res.Monster
	assert.GreaterOrEqual(t, res.Gold, m.GoldMin)
	assert.LessOrEqual(t, res.Gold, m.GoldMax)
	assert.Equal(t, m.XP, res.XP)
}

func TestHuntDefeatPaysNothing(t *testing.T) {
	svc := newTestService(9)
	res := svc.Hunt(Stats{HP: 1, Attack: 1, Defense: 0}, 30, 1.0)

	require.False(t, res.Outcome.Victory)
	assert.Zero(t, res.Gold)
	assert.Zero(t, res.XP)
	assert.Empty(t, res.Drops)
}

func TestHuntPicksLevelBandMonster(t *testing.T) {
	svc := newTestService(10)
	for i := 0; i < 50; i++ {
		m := svc.PickMonster(5)
		assert.GreaterOrEqual(t, m.Level, 2)
		assert.LessOrEqual(t, m.Level, 7)
	}
}

func TestRunDungeonCleared(t *testing.T) {
	svc := newTestService(11)
	d := refdata.Dungeons["Goblin Cave"]
	res := svc.RunDungeon(d, Stats{HP: 2000, Attack: 300, Defense: 100}, 1.0)

	require.True(t, res.Cleared)
	require.Len(t, res.Floors, d.Floors)
	assert.True(t, res.Floors[d.Floors-1].Boss)
	assert.Equal(t, d.Reward.XP, res.XP)
	assert.GreaterOrEqual(t, res.Gold, d.Reward.GoldMin)
	assert.LessOrEqual(t, res.Gold, d.Reward.GoldMax)
}

func TestRunDungeonFailsEarly(t *testing.T) {
	svc := newTestService(12)
	d := refdata.Dungeons["Demon Realm"]
	res := svc.RunDungeon(d, Stats{HP: 20, Attack: 5, Defense: 0}, 1.0)

	require.False(t, res.Cleared)
	assert.Less(t, len(res.Floors), d.Floors+1)
	assert.Zero(t, res.Gold)
	assert.Zero(t, res.XP)
	// The losing floor drains the rest of the HP.
	assert.Equal(t, 20, res.DamageTaken)
}

func TestRunDungeonDamageCarriesBetweenFloors(t *testing.T) {
	svc := newTestService(13)
	d := refdata.Dungeons["Goblin Cave"]
	res := svc.RunDungeon(d, Stats{HP: 400, Attack: 60, Defense: 5}, 1.0)

	total := 0
	for _, f := range res.Floors {
		total += f.Outcome.DamageTaken
	}
	assert.Equal(t, total, res.DamageTaken)
}

func TestDuelVictoryRewards(t *testing.T) {
	svc := newTestService(14)
	res := svc.Duel(Stats{HP: 5000, Attack: 500, Defense: 200}, 10, 1000)

	require.True(t, res.Outcome.Victory)
	assert.GreaterOrEqual(t, res.GoldDelta, int64(10))
	assert.GreaterOrEqual(t, res.XP, 5)
	assert.Equal(t, res.Outcome.DamageTaken/2, res.DamageToApply)
	assert.GreaterOrEqual(t, res.BotLevel, 8)
	assert.LessOrEqual(t, res.BotLevel, 12)
}

func TestDuelLossCappedByPurse(t *testing.T) {
	svc := newTestService(15)
	res := svc.Duel(Stats{HP: 5, Attack: 1, Defense: 0}, 20, 7)

	require.False(t, res.Outcome.Victory)
	// Loss would be 3*level but the purse only holds 7.
	assert.Equal(t, int64(-7), res.GoldDelta)
	assert.Zero(t, res.XP)
	assert.Equal(t, res.Outcome.DamageTaken, res.DamageToApply)
}
