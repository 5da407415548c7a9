// Package player owns the player aggregate: creation, progression,
// currencies, vitals and the leaderboards derived from them.
package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chatrpg/engine/cache"
	"github.com/chatrpg/engine/config"
	"github.com/chatrpg/engine/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("player: not found")
	ErrInsufficientGold = errors.New("player: not enough gold")
	ErrInsufficientGems = errors.New("player: not enough gems")
)

// Leaderboard keys.
const (
	BoardXP   = "lb:xp"
	BoardGold = "lb:gold"
)

// XPNeeded is the XP threshold to leave the given level. XP is never
// subtracted on level-up, so the thresholds are absolute.
func XPNeeded(level int) int64 {
	return int64(level) * 100
}

// LevelUp records one level gained during an XP award.
type LevelUp struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ProgressResult is the outcome of an XP award.
type ProgressResult struct {
	XPGained int       `json:"xp_gained"`
	LevelUps []LevelUp `json:"level_ups,omitempty"`
	NewLevel int       `json:"new_level"`
}

// StatDeltas increments lifetime counters. Zero fields are skipped.
type StatDeltas struct {
	Hunts          int64
	Adventures     int64
	Dungeons       int64
	Duels          int64
	Kills          int64
	Bosses         int64
	Crafted        int64
	Quests         int64
	LowHPSurvivals int64
}

// Service handles player state.
type Service struct {
	db     *gorm.DB
	cache  cache.Cache
	cfg    config.GameConfig
	logger *zap.Logger
}

// NewService creates a player Service.
func NewService(db *gorm.DB, c cache.Cache, cfg config.GameConfig, logger *zap.Logger) *Service {
	return &Service{db: db, cache: c, cfg: cfg, logger: logger}
}

// GetByExternalID loads a player by the chat-layer identifier.
func (svc *Service) GetByExternalID(ctx context.Context, externalID string) (*model.Player, error) {
	var p model.Player
	err := svc.db.WithContext(ctx).Where("external_id = ?", externalID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &p, err
}

// GetByAccountID loads the player linked to a login account.
func (svc *Service) GetByAccountID(ctx context.Context, accountID int64) (*model.Player, error) {
	var p model.Player
	err := svc.db.WithContext(ctx).Where("account_id = ?", accountID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &p, err
}

// GetByID loads a player by primary key.
func (svc *Service) GetByID(ctx context.Context, id int64) (*model.Player, error) {
	var p model.Player
	err := svc.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &p, err
}

// Create makes a fresh level-1 player with starter gear.
func (svc *Service) Create(ctx context.Context, externalID, name string) (*model.Player, error) {
	p := &model.Player{
		ExternalID: externalID,
		Name:       name,
		Level:      1,
		HP:         100, MaxHP: 100,
		Attack: 10, Defense: 5,
		Gold:   100,
		Weapon: model.StarterWeapon,
		Armor:  model.StarterArmor,
	}
	if err := svc.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	svc.syncBoards(ctx, p)
	return p, nil
}

// GetOrCreate loads the player or registers them on first contact.
func (svc *Service) GetOrCreate(ctx context.Context, externalID, name string) (*model.Player, error) {
	p, err := svc.GetByExternalID(ctx, externalID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return svc.Create(ctx, externalID, name)
}

// LinkAccount binds a player to a login account.
func (svc *Service) LinkAccount(ctx context.Context, p *model.Player, accountID int64) error {
	if err := svc.db.WithContext(ctx).Model(p).Update("account_id", accountID).Error; err != nil {
		return err
	}
	p.AccountID = &accountID
	return nil
}

// AddXP credits XP, cascades any level-ups and persists the result.
// XP is kept whole across level-ups; stats grow per level and HP is
// restored to the new maximum once when at least one level was gained.
func (svc *Service) AddXP(ctx context.Context, p *model.Player, amount int) (*ProgressResult, error) {
	if amount < 0 {
		amount = 0
	}
	p.XP += int64(amount)

	res := &ProgressResult{XPGained: amount}
	for p.XP >= XPNeeded(p.Level) {
		from := p.Level
		p.Level++
		p.MaxHP += svc.cfg.LevelUpHPBonus
		p.Attack += svc.cfg.LevelUpAttackBonus
		p.Defense += svc.cfg.LevelUpDefenseBonus
		res.LevelUps = append(res.LevelUps, LevelUp{From: from, To: p.Level})
	}
	if len(res.LevelUps) > 0 {
		p.HP = p.MaxHP
	}
	res.NewLevel = p.Level

	err := svc.db.WithContext(ctx).Model(p).Updates(map[string]interface{}{
		"xp":      p.XP,
		"level":   p.Level,
		"hp":      p.HP,
		"max_hp":  p.MaxHP,
		"attack":  p.Attack,
		"defense": p.Defense,
	}).Error
	if err != nil {
		return nil, err
	}
	svc.syncBoards(ctx, p)
	return res, nil
}

// AddGold credits gold and the lifetime earned counter atomically.
func (svc *Service) AddGold(ctx context.Context, p *model.Player, amount int64) error {
	if amount <= 0 {
		return nil
	}
	err := svc.db.WithContext(ctx).Model(&model.Player{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"gold":        gorm.Expr("gold + ?", amount),
			"gold_earned": gorm.Expr("gold_earned + ?", amount),
		}).Error
	if err != nil {
		return err
	}
	p.Gold += amount
	p.GoldEarned += amount
	svc.syncBoards(ctx, p)
	return nil
}

// SpendGold debits gold with a conditional update so concurrent spends
// cannot push the balance negative.
func (svc *Service) SpendGold(ctx context.Context, p *model.Player, amount int64) error {
	if amount <= 0 {
		return nil
	}
	res := svc.db.WithContext(ctx).Model(&model.Player{}).
		Where("id = ? AND gold >= ?", p.ID, amount).
		Update("gold", gorm.Expr("gold - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientGold
	}
	p.Gold -= amount
	svc.syncBoards(ctx, p)
	return nil
}

// AddGems credits premium currency.
func (svc *Service) AddGems(ctx context.Context, p *model.Player, amount int64) error {
	if amount <= 0 {
		return nil
	}
	err := svc.db.WithContext(ctx).Model(&model.Player{}).Where("id = ?", p.ID).
		Update("gems", gorm.Expr("gems + ?", amount)).Error
	if err != nil {
		return err
	}
	p.Gems += amount
	return nil
}

// SpendGems debits premium currency with the same conditional guard
// as gold.
func (svc *Service) SpendGems(ctx context.Context, p *model.Player, amount int64) error {
	if amount <= 0 {
		return nil
	}
	res := svc.db.WithContext(ctx).Model(&model.Player{}).
		Where("id = ? AND gems >= ?", p.ID, amount).
		Update("gems", gorm.Expr("gems - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientGems
	}
	p.Gems -= amount
	return nil
}

// Damage applies damage, flooring HP at zero. Returns the actual
// damage dealt and whether the player is down.
func (svc *Service) Damage(ctx context.Context, p *model.Player, amount int) (int, bool, error) {
	if amount < 0 {
		amount = 0
	}
	oldHP := p.HP
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
	err := svc.db.WithContext(ctx).Model(p).Update("hp", p.HP).Error
	return oldHP - p.HP, p.HP == 0, err
}

// Heal restores HP up to the maximum and returns the amount actually
// healed.
func (svc *Service) Heal(ctx context.Context, p *model.Player, amount int) (int, error) {
	if amount < 0 {
		amount = 0
	}
	oldHP := p.HP
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	err := svc.db.WithContext(ctx).Model(p).Update("hp", p.HP).Error
	return p.HP - oldHP, err
}

// FullHeal restores the player to maximum HP.
func (svc *Service) FullHeal(ctx context.Context, p *model.Player) error {
	p.HP = p.MaxHP
	return svc.db.WithContext(ctx).Model(p).Update("hp", p.HP).Error
}

// IncrStats bumps lifetime counters atomically.
func (svc *Service) IncrStats(ctx context.Context, p *model.Player, d StatDeltas) error {
	updates := map[string]interface{}{}
	apply := func(col string, v int64, local *int64) {
		if v != 0 {
			updates[col] = gorm.Expr(col+" + ?", v)
			*local += v
		}
	}
	apply("total_hunts", d.Hunts, &p.TotalHunts)
	apply("total_adventures", d.Adventures, &p.TotalAdventures)
	apply("total_dungeons", d.Dungeons, &p.TotalDungeons)
	apply("total_duels", d.Duels, &p.TotalDuels)
	apply("monsters_killed", d.Kills, &p.MonstersKilled)
	apply("bosses_killed", d.Bosses, &p.BossesKilled)
	apply("items_crafted", d.Crafted, &p.ItemsCrafted)
	apply("quests_completed", d.Quests, &p.QuestsCompleted)
	apply("low_hp_survivals", d.LowHPSurvivals, &p.LowHPSurvivals)
	if len(updates) == 0 {
		return nil
	}
	return svc.db.WithContext(ctx).Model(&model.Player{}).Where("id = ?", p.ID).
		Updates(updates).Error
}

// SetCooldown stamps the named action's last-run time.
func (svc *Service) SetCooldown(ctx context.Context, p *model.Player, action string, at time.Time) error {
	col, field := cooldownColumn(p, action)
	if col == "" {
		return fmt.Errorf("player: unknown cooldown action %q", action)
	}
	*field = &at
	return svc.db.WithContext(ctx).Model(p).Update(col, at).Error
}

// ClaimCooldown stamps the named action's last-run time only if the
// window has elapsed in the database, so two handlers racing on the
// same player cannot both pass the gate. Returns false when another
// write already holds the window.
func (svc *Service) ClaimCooldown(ctx context.Context, p *model.Player, action string, at time.Time, window time.Duration) (bool, error) {
	col, field := cooldownColumn(p, action)
	if col == "" {
		return false, fmt.Errorf("player: unknown cooldown action %q", action)
	}
	res := svc.db.WithContext(ctx).Model(&model.Player{}).
		Where("id = ?", p.ID).
		Where(fmt.Sprintf("%s IS NULL OR %s <= ?", col, col), at.Add(-window)).
		Update(col, at)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	*field = &at
	return true, nil
}

// ResetCooldowns clears every action cooldown.
func (svc *Service) ResetCooldowns(ctx context.Context, p *model.Player) error {
	p.LastHunt, p.LastAdventure, p.LastWork, p.LastDungeon = nil, nil, nil, nil
	return svc.db.WithContext(ctx).Model(p).Updates(map[string]interface{}{
		"last_hunt":      nil,
		"last_adventure": nil,
		"last_work":      nil,
		"last_dungeon":   nil,
	}).Error
}

// ReduceCooldowns shifts every running action cooldown back by d. The
// daily claim stamp is left alone so the calendar-day rule holds.
func (svc *Service) ReduceCooldowns(ctx context.Context, p *model.Player, d time.Duration) error {
	shift := func(t *time.Time) interface{} {
		if t == nil {
			return nil
		}
		return t.Add(-d)
	}
	updates := map[string]interface{}{
		"last_hunt":      shift(p.LastHunt),
		"last_adventure": shift(p.LastAdventure),
		"last_work":      shift(p.LastWork),
		"last_dungeon":   shift(p.LastDungeon),
	}
	if err := svc.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		return err
	}
	for _, t := range []**time.Time{&p.LastHunt, &p.LastAdventure, &p.LastWork, &p.LastDungeon} {
		if *t != nil {
			shifted := (**t).Add(-d)
			*t = &shifted
		}
	}
	return nil
}

func cooldownColumn(p *model.Player, action string) (string, **time.Time) {
	switch action {
	case "hunt":
		return "last_hunt", &p.LastHunt
	case "adventure":
		return "last_adventure", &p.LastAdventure
	case "work":
		return "last_work", &p.LastWork
	case "daily":
		return "last_daily", &p.LastDaily
	case "dungeon":
		return "last_dungeon", &p.LastDungeon
	}
	return "", nil
}

// ---- buffs ----

// ActiveBuffs decodes the buff list, drops expired entries and writes
// the pruned list back when anything changed.
func (svc *Service) ActiveBuffs(ctx context.Context, p *model.Player, now time.Time) []model.Buff {
	var all []model.Buff
	if len(p.Buffs) > 0 {
		_ = json.Unmarshal(p.Buffs, &all)
	}
	active := all[:0]
	for _, b := range all {
		if b.ExpiresAt.After(now) {
			active = append(active, b)
		}
	}
	if len(active) != len(all) {
		svc.saveBuffs(ctx, p, active)
	}
	return active
}

// AddBuff appends a timed buff.
func (svc *Service) AddBuff(ctx context.Context, p *model.Player, b model.Buff) error {
	active := svc.ActiveBuffs(ctx, p, time.Now())
	active = append(active, b)
	return svc.saveBuffs(ctx, p, active)
}

// ClearBuffs removes every timed buff, including negative ones.
func (svc *Service) ClearBuffs(ctx context.Context, p *model.Player) error {
	return svc.saveBuffs(ctx, p, nil)
}

// ReplaceBuffs overwrites the buff list wholesale. Used by cures that
// strip a filtered subset.
func (svc *Service) ReplaceBuffs(ctx context.Context, p *model.Player, buffs []model.Buff) error {
	return svc.saveBuffs(ctx, p, buffs)
}

func (svc *Service) saveBuffs(ctx context.Context, p *model.Player, buffs []model.Buff) error {
	raw, _ := json.Marshal(buffs)
	p.Buffs = datatypes.JSON(raw)
	return svc.db.WithContext(ctx).Model(p).Update("buffs", p.Buffs).Error
}

// EffectiveStats applies active flat bonuses and multipliers to the
// stored attack and defense values.
func (svc *Service) EffectiveStats(ctx context.Context, p *model.Player, now time.Time) (attack, defense int) {
	attack, defense = p.Attack, p.Defense
	atkMult, defMult := 1.0, 1.0
	for _, b := range svc.ActiveBuffs(ctx, p, now) {
		switch b.Kind {
		case "attack_bonus":
			attack += int(b.Value)
		case "defense_bonus":
			defense += int(b.Value)
		case "attack_mult":
			atkMult *= b.Value
		case "defense_mult":
			defMult *= b.Value
		}
	}
	return int(float64(attack) * atkMult), int(float64(defense) * defMult)
}

// XPMultiplier is the product of active xp buffs.
func (svc *Service) XPMultiplier(ctx context.Context, p *model.Player, now time.Time) float64 {
	m := 1.0
	for _, b := range svc.ActiveBuffs(ctx, p, now) {
		if b.Kind == "xp_mult" {
			m *= b.Value
		}
	}
	return m
}

// LuckMultiplier is the product of active luck buffs, scaling drop and
// crit chances.
func (svc *Service) LuckMultiplier(ctx context.Context, p *model.Player, now time.Time) float64 {
	m := 1.0
	for _, b := range svc.ActiveBuffs(ctx, p, now) {
		if b.Kind == "luck_mult" {
			m *= b.Value
		}
	}
	return m
}

// ---- leaderboards ----

// BoardEntry is one leaderboard row.
type BoardEntry struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Score      int64  `json:"score"`
}

func (svc *Service) syncBoards(ctx context.Context, p *model.Player) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.ZAdd(ctx, BoardXP, float64(p.XP), p.ExternalID); err != nil {
		svc.logger.Warn("leaderboard sync failed", zap.String("board", BoardXP), zap.Error(err))
	}
	if err := svc.cache.ZAdd(ctx, BoardGold, float64(p.Gold), p.ExternalID); err != nil {
		svc.logger.Warn("leaderboard sync failed", zap.String("board", BoardGold), zap.Error(err))
	}
}

// Top returns the highest-ranked players on a board, reading the
// cached ZSET first and falling back to the database when it is empty.
func (svc *Service) Top(ctx context.Context, board string, limit int) ([]BoardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if svc.cache != nil {
		members, scores, err := svc.cache.ZRevRangeWithScores(ctx, board, 0, int64(limit-1))
		if err == nil && len(members) > 0 {
			entries := make([]BoardEntry, 0, len(members))
			for i, extID := range members {
				var p model.Player
				if err := svc.db.WithContext(ctx).Select("name", "level").
					Where("external_id = ?", extID).First(&p).Error; err != nil {
					continue
				}
				entries = append(entries, BoardEntry{
					ExternalID: extID,
					Name:       p.Name,
					Level:      p.Level,
					Score:      int64(scores[i]),
				})
			}
			return entries, nil
		}
	}
	return svc.topFromDB(ctx, board, limit)
}

func (svc *Service) topFromDB(ctx context.Context, board string, limit int) ([]BoardEntry, error) {
	order := "xp DESC"
	if board == BoardGold {
		order = "gold DESC"
	}
	var players []model.Player
	if err := svc.db.WithContext(ctx).Order(order).Limit(limit).Find(&players).Error; err != nil {
		return nil, err
	}
	entries := make([]BoardEntry, 0, len(players))
	for _, p := range players {
		score := p.XP
		if board == BoardGold {
			score = p.Gold
		}
		entries = append(entries, BoardEntry{
			ExternalID: p.ExternalID, Name: p.Name, Level: p.Level, Score: score,
		})
		svc.syncBoards(ctx, &p)
	}
	return entries, nil
}

// Rank returns the zero-based board position of a player, or -1 when
// unranked.
func (svc *Service) Rank(ctx context.Context, board, externalID string) int64 {
	if svc.cache == nil {
		return -1
	}
	rank, err := svc.cache.ZRevRank(ctx, board, externalID)
	if err != nil {
		return -1
	}
	return rank
}

// RefreshBoards rebuilds the cached leaderboards from the database,
// run periodically by the scheduler.
func (svc *Service) RefreshBoards(ctx context.Context) error {
	if svc.cache == nil {
		return nil
	}
	var players []model.Player
	if err := svc.db.WithContext(ctx).Select("external_id", "xp", "gold").
		Find(&players).Error; err != nil {
		return err
	}
	for _, p := range players {
		_ = svc.cache.ZAdd(ctx, BoardXP, float64(p.XP), p.ExternalID)
		_ = svc.cache.ZAdd(ctx, BoardGold, float64(p.Gold), p.ExternalID)
	}
	svc.logger.Info("leaderboards refreshed", zap.Int("players", len(players)))
	return nil
}

// DistinctItemCount reports how many different item stacks the player
// holds, used by collection achievements.
func (svc *Service) DistinctItemCount(ctx context.Context, playerID int64) (int64, error) {
	var count int64
	err := svc.db.WithContext(ctx).Model(&model.InventoryItem{}).
		Where("player_id = ?", playerID).Count(&count).Error
	return count, err
}
