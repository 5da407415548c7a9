// Package combat runs the battle simulations behind hunts, dungeons
// and duels. Everything here is pure computation over stats and
// bestiary entries; persistence stays with the callers.
package combat

import (
	"math/rand"
	"sync"

	"github.com/chatrpg/engine/config"
	"github.com/chatrpg/engine/refdata"
	"go.uber.org/zap"
)

// Stats is the attacker-side view of a combatant.
type Stats struct {
	HP      int
	Attack  int
	Defense int
}

// Strike is one swing in the combat log.
type Strike struct {
	Side        string `json:"side"` // "player" or "monster"
	Damage      int    `json:"damage"`
	Crit        bool   `json:"crit"`
	RemainingHP int    `json:"remaining_hp"` // defender's HP after the hit
}

// Outcome is the result of one simulated fight. Log holds every strike
// in order; Crits counts the player's only.
type Outcome struct {
	Victory     bool     `json:"victory"`
	Rounds      int      `json:"rounds"`
	DamageTaken int      `json:"damage_taken"`
	RemainingHP int      `json:"remaining_hp"`
	Crits       int      `json:"crits"`
	Log         []Strike `json:"log"`
}

// Service simulates combat. The RNG is injected so tests can seed it;
// all rolls go through the mutex since gin handlers share one Service.
type Service struct {
	cfg    config.GameConfig
	mu     sync.Mutex
	rng    *rand.Rand
	logger *zap.Logger
}

// NewService creates a combat Service around the given RNG.
func NewService(cfg config.GameConfig, rng *rand.Rand, logger *zap.Logger) *Service {
	return &Service{cfg: cfg, rng: rng, logger: logger}
}

// Damage computes one attack: attack minus defense with a small
// uniform variance, floored at 1, with a crit roll scaled by luck.
func (svc *Service) Damage(attack, defense int, luck float64) (dmg int, crit bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.damageLocked(attack, defense, luck)
}

func (svc *Service) damageLocked(attack, defense int, luck float64) (int, bool) {
	v := svc.cfg.CombatVariance
	dmg := attack - defense + svc.rng.Intn(2*v+1) - v
	if dmg < 1 {
		dmg = 1
	}
	if svc.rng.Float64() < svc.cfg.CombatCritChance*luck {
		return int(float64(dmg) * svc.cfg.CombatCritMultiplier), true
	}
	return dmg, false
}

// Simulate fights the player against a monster, player striking first
// each round, until one side drops.
func (svc *Service) Simulate(p Stats, m refdata.Monster, luck float64) Outcome {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	out := Outcome{RemainingHP: p.HP}
	monsterHP := m.HP
	for {
		out.Rounds++
		dmg, crit := svc.damageLocked(p.Attack, m.Defense, luck)
		if crit {
			out.Crits++
		}
		monsterHP -= dmg
		if monsterHP < 0 {
			monsterHP = 0
		}
		out.Log = append(out.Log, Strike{Side: "player", Damage: dmg, Crit: crit, RemainingHP: monsterHP})
		if monsterHP <= 0 {
			out.Victory = true
			break
		}
		// Monsters crit at the base rate; luck only sways the player.
		dmg, crit = svc.damageLocked(m.Attack, p.Defense, 1.0)
		out.RemainingHP -= dmg
		if out.RemainingHP < 0 {
			out.RemainingHP = 0
		}
		out.Log = append(out.Log, Strike{Side: "monster", Damage: dmg, Crit: crit, RemainingHP: out.RemainingHP})
		if out.RemainingHP <= 0 {
			break
		}
	}
	out.DamageTaken = p.HP - out.RemainingHP
	return out
}

// RollGold draws uniformly from [min, max].
func (svc *Service) RollGold(min, max int64) int64 {
	if max <= min {
		return min
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return min + svc.rng.Int63n(max-min+1)
}

// RollDrops rolls each drop independently, chance scaled by luck.
func (svc *Service) RollDrops(drops []refdata.Drop, luck float64) []string {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	var got []string
	for _, d := range drops {
		if svc.rng.Float64() < d.Chance*luck {
			got = append(got, d.Item)
		}
	}
	return got
}

// Chance rolls a single probability.
func (svc *Service) Chance(p float64) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.rng.Float64() < p
}

// IntBetween draws uniformly from [low, high].
func (svc *Service) IntBetween(low, high int) int {
	if high <= low {
		return low
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return low + svc.rng.Intn(high-low+1)
}

// PickMonster selects a level-appropriate hunt target.
func (svc *Service) PickMonster(playerLevel int) refdata.Monster {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return refdata.RandomMonsterFor(svc.rng, playerLevel)
}

// HuntResult is one resolved hunt encounter. Gold, XP and Drops are
// only set on victory.
type HuntResult struct {
	Monster refdata.Monster `json:"-"`
	Name    string          `json:"monster"`
	Outcome Outcome         `json:"outcome"`
	Gold    int64           `json:"gold"`
	XP      int             `json:"xp"`
	Drops   []string        `json:"drops,omitempty"`
}

// Hunt picks a monster for the player's level, fights it and rolls the
// spoils.
func (svc *Service) Hunt(p Stats, playerLevel int, luck float64) HuntResult {
	m := svc.PickMonster(playerLevel)
	res := HuntResult{Monster: m, Name: m.Name}
	res.Outcome = svc.Simulate(p, m, luck)
	if res.Outcome.Victory {
		res.Gold = svc.RollGold(m.GoldMin, m.GoldMax)
		res.XP = m.XP
		res.Drops = svc.RollDrops(m.Drops, luck)
	}
	return res
}

// FloorResult is one dungeon floor.
type FloorResult struct {
	Floor   int     `json:"floor"`
	Monster string  `json:"monster"`
	Boss    bool    `json:"boss,omitempty"`
	Outcome Outcome `json:"outcome"`
}

// DungeonResult is a full dungeon run. Damage accumulates across
// floors; rewards are only set when every floor was cleared.
type DungeonResult struct {
	Dungeon     string        `json:"dungeon"`
	Floors      []FloorResult `json:"floors"`
	Cleared     bool          `json:"cleared"`
	DamageTaken int           `json:"damage_taken"`
	Gold        int64         `json:"gold"`
	XP          int           `json:"xp"`
	Drops       []string      `json:"drops,omitempty"`
}

// RunDungeon fights through Floors-1 monsters drawn from the dungeon
// pool and the boss on the final floor. HP carries between floors; the
// run fails on the first lost floor.
func (svc *Service) RunDungeon(d refdata.Dungeon, p Stats, luck float64) DungeonResult {
	res := DungeonResult{Dungeon: d.Name}
	hp := p.HP
	for floor := 1; floor <= d.Floors; floor++ {
		var m refdata.Monster
		boss := floor == d.Floors
		if boss {
			m = d.BossMonster()
		} else {
			svc.mu.Lock()
			m = refdata.Monsters[d.Monsters[svc.rng.Intn(len(d.Monsters))]]
			svc.mu.Unlock()
		}
		out := svc.Simulate(Stats{HP: hp, Attack: p.Attack, Defense: p.Defense}, m, luck)
		res.Floors = append(res.Floors, FloorResult{Floor: floor, Monster: m.Name, Boss: boss, Outcome: out})
		res.DamageTaken += out.DamageTaken
		hp = out.RemainingHP
		if !out.Victory {
			return res
		}
	}
	res.Cleared = true
	res.Gold = svc.RollGold(d.Reward.GoldMin, d.Reward.GoldMax)
	res.XP = d.Reward.XP
	res.Drops = svc.RollDrops(d.Reward.Drops, luck)
	return res
}

// DuelResult is a resolved duel against a generated rival. GoldDelta
// is positive on victory and negative on defeat, already capped by the
// player's purse. DamageToApply is halved on victory.
type DuelResult struct {
	BotName       string  `json:"opponent"`
	BotLevel      int     `json:"opponent_level"`
	Bot           Stats   `json:"-"`
	Outcome       Outcome `json:"outcome"`
	GoldDelta     int64   `json:"gold_delta"`
	XP            int     `json:"xp"`
	DamageToApply int     `json:"damage"`
}

var rivalNames = []string{
	"Wandering Knight", "Masked Duelist", "Sellsword", "Arena Veteran",
	"Rogue Challenger", "Iron Gladiator",
}

// Duel generates a rival near the player's level and fights it. The
// rival is treated like a monster for simulation purposes.
func (svc *Service) Duel(p Stats, playerLevel int, playerGold int64) DuelResult {
	svc.mu.Lock()
	lvl := playerLevel + svc.rng.Intn(5) - 2
	if lvl < 1 {
		lvl = 1
	}
	bot := Stats{
		HP:      lvl*50 + svc.rng.Intn(41) - 20,
		Attack:  lvl*8 + svc.rng.Intn(11) - 5,
		Defense: lvl*3 + svc.rng.Intn(5) - 2,
	}
	name := rivalNames[svc.rng.Intn(len(rivalNames))]
	svc.mu.Unlock()

	if bot.HP < 1 {
		bot.HP = 1
	}
	res := DuelResult{BotName: name, BotLevel: lvl, Bot: bot}
	res.Outcome = svc.Simulate(p, refdata.Monster{
		Name: name, HP: bot.HP, Attack: bot.Attack, Defense: bot.Defense, Level: lvl,
	}, 1.0)

	if res.Outcome.Victory {
		res.GoldDelta = int64(lvl * 5)
		if res.GoldDelta < 10 {
			res.GoldDelta = 10
		}
		res.XP = lvl * 3
		if res.XP < 5 {
			res.XP = 5
		}
		res.DamageToApply = res.Outcome.DamageTaken / 2
	} else {
		loss := int64(lvl * 3)
		if loss < 5 {
			loss = 5
		}
		if loss > playerGold {
			loss = playerGold
		}
		res.GoldDelta = -loss
		res.DamageToApply = res.Outcome.DamageTaken
	}
	return res
}
