// Package action orchestrates the timed chat actions: hunt, work,
// adventure, daily and dungeon runs, plus duels. It owns the cooldown
// gates and fans each outcome out to quests, challenges and
// achievements.
package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatrpg/engine/config"
	"github.com/chatrpg/engine/cooldown"
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
	"github.com/chatrpg/engine/refdata"
	"go.uber.org/zap"
)

var (
	ErrOnCooldown     = errors.New("action: on cooldown")
	ErrLevelTooLow    = errors.New("action: level too low")
	ErrTooWounded     = errors.New("action: HP too low")
	ErrUnknownDungeon = errors.New("action: unknown dungeon")
)

// CooldownError wraps ErrOnCooldown with the remaining wait.
type CooldownError struct {
	Action    string
	Remaining time.Duration
	Minutes   int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("action: %s on cooldown for %dm", e.Action, e.Minutes)
}

func (e *CooldownError) Unwrap() error { return ErrOnCooldown }

// Service runs the timed actions.
type Service struct {
	players      *player.Service
	bags         *inventory.Service
	combat       *combat.Service
	quests       *quest.Service
	achievements *achievement.Service
	guilds       *guild.Service
	dailies      *daily.Service
	consumables  *consumable.Service
	cfg          config.GameConfig
	logger       *zap.Logger
	hooks        *hook.HookCenter
}

// NewService wires the action Service.
func NewService(
	players *player.Service,
	bags *inventory.Service,
	cbt *combat.Service,
	quests *quest.Service,
	achievements *achievement.Service,
	guilds *guild.Service,
	dailies *daily.Service,
	consumables *consumable.Service,
	cfg config.GameConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		players:      players,
		bags:         bags,
		combat:       cbt,
		quests:       quests,
		achievements: achievements,
		guilds:       guilds,
		dailies:      dailies,
		consumables:  consumables,
		cfg:          cfg,
		logger:       logger,
	}
}

// UseHooks attaches a hook center. Actions then fire the hook.After*
// events with their outcome struct; a nil center keeps hooks off.
func (svc *Service) UseHooks(hc *hook.HookCenter) { svc.hooks = hc }

func (svc *Service) emit(ctx context.Context, event string, data interface{}) {
	if svc.hooks == nil {
		return
	}
	if _, err := svc.hooks.Trigger(ctx, event, data); errors.Is(err, hook.ErrInterrupt) {
		svc.logger.Debug("hook interrupted", zap.String("event", event))
	}
}

// Followups collects everything an action triggered beyond its own
// outcome.
type Followups struct {
	LevelUps    []player.LevelUp     `json:"level_ups,omitempty"`
	QuestsReady []string             `json:"quests_ready,omitempty"`
	Unlocks     []achievement.Unlock `json:"achievements,omitempty"`
	Revived     string               `json:"revived_by,omitempty"`
	Survived    bool                 `json:"close_call,omitempty"`
}

// Cooldowns reports every action gate for the player.
func (svc *Service) Cooldowns(p *model.Player, now time.Time) map[string]int {
	out := make(map[string]int, 5)
	for action, last := range map[string]*time.Time{
		"hunt":      p.LastHunt,
		"adventure": p.LastAdventure,
		"work":      p.LastWork,
		"daily":     p.LastDaily,
		"dungeon":   p.LastDungeon,
	} {
		out[action] = cooldown.Gate(last, svc.window(action), now).RemainingMinutes()
	}
	return out
}

func (svc *Service) window(action string) time.Duration {
	minutes := 0
	switch action {
	case "hunt":
		minutes = svc.cfg.HuntCooldownMin
	case "adventure":
		minutes = svc.cfg.AdventureCooldownMin
	case "work":
		minutes = svc.cfg.WorkCooldownMin
	case "daily":
		minutes = svc.cfg.DailyCooldownMin
	case "dungeon":
		minutes = svc.cfg.DungeonCooldownMin
	}
	return time.Duration(minutes) * time.Minute
}

func (svc *Service) gate(ctx context.Context, p *model.Player, action string, last *time.Time, now time.Time) error {
	window := svc.window(action)
	check := cooldown.Gate(last, window, now)
	if !check.Ready {
		return &CooldownError{Action: action, Remaining: check.Remaining, Minutes: check.RemainingMinutes()}
	}
	// The stamp write re-validates the window in the database, so a
	// stale in-memory player cannot slip a second run past the gate.
	ok, err := svc.players.ClaimCooldown(ctx, p, action, now, window)
	if err != nil {
		return err
	}
	if !ok {
		if fresh, ferr := svc.players.GetByID(ctx, p.ID); ferr == nil {
			*p = *fresh
		}
		check = cooldown.Gate(stampFor(p, action), window, now)
		return &CooldownError{Action: action, Remaining: check.Remaining, Minutes: check.RemainingMinutes()}
	}
	return nil
}

func stampFor(p *model.Player, action string) *time.Time {
	switch action {
	case "hunt":
		return p.LastHunt
	case "adventure":
		return p.LastAdventure
	case "work":
		return p.LastWork
	case "daily":
		return p.LastDaily
	case "dungeon":
		return p.LastDungeon
	}
	return nil
}

// HuntOutcome is one hunt action.
type HuntOutcome struct {
	combat.HuntResult
	GuildXP   int       `json:"-"`
	Followups Followups `json:"followups"`
}

// Hunt fights one level-appropriate monster. Victory pays gold, XP and
// drops, scaled by guild perks; defeat just deals the damage taken.
func (svc *Service) Hunt(ctx context.Context, p *model.Player, now time.Time) (*HuntOutcome, error) {
	if p.HP <= 0 {
		return nil, ErrTooWounded
	}
	if err := svc.gate(ctx, p, "hunt", p.LastHunt, now); err != nil {
		return nil, err
	}

	atk, def := svc.players.EffectiveStats(ctx, p, now)
	luck := svc.players.LuckMultiplier(ctx, p, now)
	res := svc.combat.Hunt(combat.Stats{HP: p.HP, Attack: atk, Defense: def}, p.Level, luck)
	out := &HuntOutcome{HuntResult: res}

	if _, _, err := svc.players.Damage(ctx, p, res.Outcome.DamageTaken); err != nil {
		return nil, err
	}

	if !res.Outcome.Victory {
		if err := svc.afterDefeat(ctx, p, now, &out.Followups); err != nil {
			return nil, err
		}
		svc.emit(ctx, hook.AfterHunt, out)
		return out, nil
	}

	xp, gold := svc.scaleReward(ctx, p, now, res.XP, res.Gold)
	out.XP, out.Gold = xp, gold
	if err := svc.players.AddGold(ctx, p, gold); err != nil {
		return nil, err
	}
	for _, item := range res.Drops {
		if err := svc.bags.Add(ctx, p.ID, item, 1); err != nil {
			return nil, err
		}
	}
	prog, err := svc.players.AddXP(ctx, p, xp)
	if err != nil {
		return nil, err
	}
	out.Followups.LevelUps = prog.LevelUps

	if err := svc.players.IncrStats(ctx, p, player.StatDeltas{
		Hunts: 1, Kills: 1, LowHPSurvivals: survivalDelta(p),
	}); err != nil {
		return nil, err
	}
	out.Followups.Survived = closeCall(p)

	events := []quest.Event{
		{Kind: quest.EventMonsterKilled, Monster: res.Name},
		{Kind: quest.EventGoldEarned, Amount: int(p.GoldEarned)},
		{Kind: quest.EventLevelReached, Amount: p.Level},
	}
	for _, item := range res.Drops {
		events = append(events, quest.Event{Kind: quest.EventItemGained, Item: item})
	}
	if err := svc.dailies.Record(ctx, p, refdata.ChallengeHunt, 1, now); err != nil {
		return nil, err
	}
	if err := svc.dailies.Record(ctx, p, refdata.ChallengeGold, int(gold), now); err != nil {
		return nil, err
	}
	if err := svc.finish(ctx, p, events, &out.Followups); err != nil {
		return nil, err
	}
	svc.emit(ctx, hook.AfterHunt, out)
	return out, nil
}

// WorkOutcome is one work shift.
type WorkOutcome struct {
	Job       refdata.WorkJob `json:"job"`
	Gold      int64           `json:"gold"`
	Materials map[string]int  `json:"materials,omitempty"`
	Followups Followups       `json:"followups"`
}

// Work runs a random shift: guaranteed gold plus a chance of materials.
func (svc *Service) Work(ctx context.Context, p *model.Player, now time.Time) (*WorkOutcome, error) {
	if err := svc.gate(ctx, p, "work", p.LastWork, now); err != nil {
		return nil, err
	}

	job := refdata.WorkJobs[svc.combat.IntBetween(0, len(refdata.WorkJobs)-1)]
	gold := svc.combat.RollGold(job.GoldMin, job.GoldMax)
	_, gold = svc.scaleReward(ctx, p, now, 0, gold)

	out := &WorkOutcome{Job: job, Gold: gold, Materials: map[string]int{}}
	if err := svc.players.AddGold(ctx, p, gold); err != nil {
		return nil, err
	}

	events := []quest.Event{
		{Kind: quest.EventWorkDone},
		{Kind: quest.EventGoldEarned, Amount: int(p.GoldEarned)},
	}
	for _, mat := range job.Materials {
		if !svc.combat.Chance(refdata.WorkMaterialChance) {
			continue
		}
		qty := svc.combat.IntBetween(refdata.WorkMaterialMinQty, refdata.WorkMaterialMaxQty)
		if err := svc.bags.Add(ctx, p.ID, mat, qty); err != nil {
			return nil, err
		}
		out.Materials[mat] = qty
		events = append(events, quest.Event{Kind: quest.EventItemGained, Item: mat, Amount: qty})
	}

	if err := svc.dailies.Record(ctx, p, refdata.ChallengeGold, int(gold), now); err != nil {
		return nil, err
	}
	if err := svc.finish(ctx, p, events, &out.Followups); err != nil {
		return nil, err
	}
	svc.emit(ctx, hook.AfterWork, out)
	return out, nil
}

// AdventureOutcome is one adventure.
type AdventureOutcome struct {
	Site      refdata.AdventureSite `json:"site"`
	Success   bool                  `json:"success"`
	XP        int                   `json:"xp"`
	Gold      int64                 `json:"gold"`
	Damage    int                   `json:"damage,omitempty"`
	Followups Followups             `json:"followups"`
}

// Adventure explores a random site. The site's risk decides between a
// payout and a small injury.
func (svc *Service) Adventure(ctx context.Context, p *model.Player, now time.Time) (*AdventureOutcome, error) {
	if err := svc.gate(ctx, p, "adventure", p.LastAdventure, now); err != nil {
		return nil, err
	}

	site := refdata.AdventureSites[svc.combat.IntBetween(0, len(refdata.AdventureSites)-1)]
	out := &AdventureOutcome{Site: site}

	if svc.combat.Chance(site.Risk) {
		dmg := svc.combat.IntBetween(refdata.AdventureFailDmgMin, refdata.AdventureFailDmgMax)
		out.Damage = dmg
		if _, _, err := svc.players.Damage(ctx, p, dmg); err != nil {
			return nil, err
		}
		if err := svc.afterDefeat(ctx, p, now, &out.Followups); err != nil {
			return nil, err
		}
		svc.emit(ctx, hook.AfterAdventure, out)
		return out, nil
	}

	out.Success = true
	xp := svc.combat.IntBetween(site.XPMin, site.XPMax)
	gold := svc.combat.RollGold(site.GoldMin, site.GoldMax)
	xp, gold = svc.scaleReward(ctx, p, now, xp, gold)
	out.XP, out.Gold = xp, gold

	if err := svc.players.AddGold(ctx, p, gold); err != nil {
		return nil, err
	}
	prog, err := svc.players.AddXP(ctx, p, xp)
	if err != nil {
		return nil, err
	}
	out.Followups.LevelUps = prog.LevelUps
	if err := svc.players.IncrStats(ctx, p, player.StatDeltas{Adventures: 1}); err != nil {
		return nil, err
	}

	if err := svc.dailies.Record(ctx, p, refdata.ChallengeAdventure, 1, now); err != nil {
		return nil, err
	}
	if err := svc.dailies.Record(ctx, p, refdata.ChallengeGold, int(gold), now); err != nil {
		return nil, err
	}
	events := []quest.Event{
		{Kind: quest.EventAdventureDone},
		{Kind: quest.EventGoldEarned, Amount: int(p.GoldEarned)},
		{Kind: quest.EventLevelReached, Amount: p.Level},
	}
	if err := svc.finish(ctx, p, events, &out.Followups); err != nil {
		return nil, err
	}
	svc.emit(ctx, hook.AfterAdventure, out)
	return out, nil
}

// DailyOutcome is one daily claim.
type DailyOutcome struct {
	Claim     *daily.ClaimResult `json:"claim"`
	Followups Followups          `json:"followups"`
}

// Daily claims the streak reward. The calendar-day rule lives in the
// daily service; no minute-based gate applies.
func (svc *Service) Daily(ctx context.Context, p *model.Player, now time.Time) (*DailyOutcome, error) {
	claim, err := svc.dailies.Claim(ctx, p, now)
	if err != nil {
		return nil, err
	}
	out := &DailyOutcome{Claim: claim}
	out.Followups.LevelUps = claim.LevelUps

	events := []quest.Event{
		{Kind: quest.EventGoldEarned, Amount: int(p.GoldEarned)},
		{Kind: quest.EventLevelReached, Amount: p.Level},
	}
	if err := svc.finish(ctx, p, events, &out.Followups); err != nil {
		return nil, err
	}
	svc.emit(ctx, hook.AfterDaily, out)
	return out, nil
}

// DungeonOutcome is one dungeon run.
type DungeonOutcome struct {
	combat.DungeonResult
	GoldLost  int64     `json:"gold_lost,omitempty"`
	Followups Followups `json:"followups"`
}

// Dungeon runs a multi-floor dungeon. Entry needs the dungeon's level
// and at least half HP. A failed run still deals the accumulated
// damage and costs a tenth of the carried gold.
func (svc *Service) Dungeon(ctx context.Context, p *model.Player, dungeonName string, now time.Time) (*DungeonOutcome, error) {
	d, ok := refdata.Dungeons[dungeonName]
	if !ok {
		return nil, ErrUnknownDungeon
	}
	if p.Level < d.MinLevel {
		return nil, ErrLevelTooLow
	}
	if p.HP < p.MaxHP/2 {
		return nil, ErrTooWounded
	}
	if err := svc.gate(ctx, p, "dungeon", p.LastDungeon, now); err != nil {
		return nil, err
	}

	atk, def := svc.players.EffectiveStats(ctx, p, now)
	luck := svc.players.LuckMultiplier(ctx, p, now)
	res := svc.combat.RunDungeon(d, combat.Stats{HP: p.HP, Attack: atk, Defense: def}, luck)
	out := &DungeonOutcome{DungeonResult: res}

	if !res.Cleared {
		if _, _, err := svc.players.Damage(ctx, p, res.DamageTaken); err != nil {
			return nil, err
		}
		penalty := p.Gold / 10
		if penalty > 0 {
			if err := svc.players.SpendGold(ctx, p, penalty); err == nil {
				out.GoldLost = penalty
			}
		}
		if err := svc.afterDefeat(ctx, p, now, &out.Followups); err != nil {
			return nil, err
		}
		svc.emit(ctx, hook.AfterDungeon, out)
		return out, nil
	}

	xp, gold := svc.scaleReward(ctx, p, now, res.XP, res.Gold)
	out.XP, out.Gold = xp, gold
	if err := svc.players.AddGold(ctx, p, gold); err != nil {
		return nil, err
	}
	for _, item := range res.Drops {
		if err := svc.bags.Add(ctx, p.ID, item, 1); err != nil {
			return nil, err
		}
	}
	prog, err := svc.players.AddXP(ctx, p, xp)
	if err != nil {
		return nil, err
	}
	out.Followups.LevelUps = prog.LevelUps

	// Rewards land before the wounds are counted.
	if _, _, err := svc.players.Damage(ctx, p, res.DamageTaken); err != nil {
		return nil, err
	}
	if err := svc.players.IncrStats(ctx, p, player.StatDeltas{
		Dungeons: 1, Kills: int64(d.Floors), Bosses: 1, LowHPSurvivals: survivalDelta(p),
	}); err != nil {
		return nil, err
	}
	out.Followups.Survived = closeCall(p)

	events := []quest.Event{
		{Kind: quest.EventDungeonCleared},
		{Kind: quest.EventBossKilled},
		{Kind: quest.EventGoldEarned, Amount: int(p.GoldEarned)},
		{Kind: quest.EventLevelReached, Amount: p.Level},
	}
	for _, f := range res.Floors {
		events = append(events, quest.Event{Kind: quest.EventMonsterKilled, Monster: f.Monster})
	}
	for _, item := range res.Drops {
		events = append(events, quest.Event{Kind: quest.EventItemGained, Item: item})
	}
	if err := svc.dailies.Record(ctx, p, refdata.ChallengeGold, int(gold), now); err != nil {
		return nil, err
	}
	if err := svc.finish(ctx, p, events, &out.Followups); err != nil {
		return nil, err
	}
	svc.emit(ctx, hook.AfterDungeon, out)
	return out, nil
}

// DuelOutcome is one duel.
type DuelOutcome struct {
	combat.DuelResult
	Followups Followups `json:"followups"`
}

// Duel pits the player against a generated rival. There is no cooldown
// on duels; the gold swing and the damage keep them honest.
func (svc *Service) Duel(ctx context.Context, p *model.Player, now time.Time) (*DuelOutcome, error) {
	if p.HP <= 0 {
		return nil, ErrTooWounded
	}
	atk, def := svc.players.EffectiveStats(ctx, p, now)
	res := svc.combat.Duel(combat.Stats{HP: p.HP, Attack: atk, Defense: def}, p.Level, p.Gold)
	out := &DuelOutcome{DuelResult: res}

	if _, _, err := svc.players.Damage(ctx, p, res.DamageToApply); err != nil {
		return nil, err
	}

	if res.Outcome.Victory {
		if err := svc.players.AddGold(ctx, p, res.GoldDelta); err != nil {
			return nil, err
		}
		prog, err := svc.players.AddXP(ctx, p, res.XP)
		if err != nil {
			return nil, err
		}
		out.Followups.LevelUps = prog.LevelUps
	} else if res.GoldDelta < 0 {
		if err := svc.players.SpendGold(ctx, p, -res.GoldDelta); err != nil &&
			!errors.Is(err, player.ErrInsufficientGold) {
			return nil, err
		}
	}

	if err := svc.players.IncrStats(ctx, p, player.StatDeltas{
		Duels: 1, LowHPSurvivals: survivalDelta(p),
	}); err != nil {
		return nil, err
	}
	out.Followups.Survived = closeCall(p)

	events := []quest.Event{
		{Kind: quest.EventGoldEarned, Amount: int(p.GoldEarned)},
		{Kind: quest.EventLevelReached, Amount: p.Level},
	}
	if err := svc.finish(ctx, p, events, &out.Followups); err != nil {
		return nil, err
	}
	svc.emit(ctx, hook.AfterDuel, out)
	return out, nil
}

// scaleReward applies guild perks to a base reward.
func (svc *Service) scaleReward(ctx context.Context, p *model.Player, now time.Time, xp int, gold int64) (int, int64) {
	xp, gold = svc.guilds.ApplyReward(ctx, p, xp, gold)
	xpMult := svc.players.XPMultiplier(ctx, p, now)
	return int(float64(xp) * xpMult), gold
}

// finish fans an action's events out to quests and achievements, and
// burns an auto-revive item when the action left the player down.
func (svc *Service) finish(ctx context.Context, p *model.Player, events []quest.Event, f *Followups) error {
	ready, err := svc.quests.Record(ctx, p, events...)
	if err != nil {
		return err
	}
	f.QuestsReady = ready

	unlocks, err := svc.achievements.CheckAll(ctx, p)
	if err != nil {
		return err
	}
	f.Unlocks = unlocks

	if len(f.LevelUps) > 0 {
		svc.emit(ctx, hook.OnPlayerLevelUp, f.LevelUps)
	}
	if len(f.QuestsReady) > 0 {
		svc.emit(ctx, hook.OnQuestReady, f.QuestsReady)
	}
	if len(f.Unlocks) > 0 {
		svc.emit(ctx, hook.OnAchievement, f.Unlocks)
	}
	return nil
}

// afterDefeat handles the down state shared by every losing branch.
func (svc *Service) afterDefeat(ctx context.Context, p *model.Player, now time.Time, f *Followups) error {
	if p.HP > 0 {
		return nil
	}
	item, err := svc.consumables.AutoRevive(ctx, p, now)
	if err != nil {
		return err
	}
	f.Revived = item
	if item != "" {
		svc.emit(ctx, hook.OnPlayerRevived, item)
	}
	return nil
}

// survivalDelta counts a finished battle that left the player standing
// below a tenth of max HP.
func survivalDelta(p *model.Player) int64 {
	if closeCall(p) {
		return 1
	}
	return 0
}

func closeCall(p *model.Player) bool {
	return p.HP > 0 && p.HP*10 <= p.MaxHP
}
