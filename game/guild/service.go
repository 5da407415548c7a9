// Package guild manages player guilds: membership, ranks, the
// treasury and the perk curve fed by contributions.
package guild

import (
	"context"
	"errors"

	"github.com/chatrpg/engine/config"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAlreadyInGuild = errors.New("guild: already in a guild")
	ErrNotInGuild     = errors.New("guild: not in a guild")
	ErrNotFound       = errors.New("guild: not found")
	ErrNameTaken      = errors.New("guild: name or tag taken")
	ErrLevelTooLow    = errors.New("guild: level too low")
	ErrGuildFull      = errors.New("guild: no free slots")
	ErrNoPermission   = errors.New("guild: insufficient rank")
	ErrNotMember      = errors.New("guild: target is not a member")
	ErrBadAmount      = errors.New("guild: bad contribution amount")
)

// Per guild level gained: extra member slots and perk growth.
const (
	slotsPerLevel        = 5
	xpBonusPerLevel      = 0.05
	goldBonusPerLevel    = 0.05
	shopDiscountPerLevel = 0.02
)

// XPNeeded is the cumulative guild XP threshold to leave a level.
func XPNeeded(level int) int64 {
	return int64(level) * 1000
}

// Service handles guild state.
type Service struct {
	db      *gorm.DB
	players *player.Service
	cfg     config.GameConfig
	logger  *zap.Logger
}

// NewService creates a guild Service.
func NewService(db *gorm.DB, players *player.Service, cfg config.GameConfig, logger *zap.Logger) *Service {
	return &Service{db: db, players: players, cfg: cfg, logger: logger}
}

// Create founds a guild. The founder pays the creation fee, must meet
// the level gate and becomes leader.
func (svc *Service) Create(ctx context.Context, p *model.Player, name, tag, description string) (*model.Guild, error) {
	if p.GuildID != nil {
		return nil, ErrAlreadyInGuild
	}
	if p.Level < svc.cfg.GuildCreationLevel {
		return nil, ErrLevelTooLow
	}

	var count int64
	if err := svc.db.WithContext(ctx).Model(&model.Guild{}).
		Where("name = ? OR tag = ?", name, tag).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameTaken
	}

	if err := svc.players.SpendGold(ctx, p, svc.cfg.GuildCreationFee); err != nil {
		return nil, err
	}

	g := &model.Guild{
		Name:        name,
		Tag:         tag,
		Description: description,
		Level:       1,
		MaxMembers:  20,
		MinLevel:    1,
		LeaderID:    p.ID,
	}
	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.GuildMember{
			GuildID: g.ID, PlayerID: p.ID, Rank: model.GuildRankLeader,
		}).Error; err != nil {
			return err
		}
		return tx.Model(p).Updates(map[string]interface{}{
			"guild_id":   g.ID,
			"guild_rank": model.GuildRankLeader,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	p.GuildID = &g.ID
	p.GuildRank = model.GuildRankLeader

	svc.logger.Info("guild founded",
		zap.String("name", name), zap.Int64("leader", p.ID))
	return g, nil
}

// Get loads a guild by ID.
func (svc *Service) Get(ctx context.Context, id int64) (*model.Guild, error) {
	var g model.Guild
	err := svc.db.WithContext(ctx).First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &g, err
}

// GetByName loads a guild by its unique name.
func (svc *Service) GetByName(ctx context.Context, name string) (*model.Guild, error) {
	var g model.Guild
	err := svc.db.WithContext(ctx).Where("name = ?", name).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &g, err
}

// List returns guilds ordered by level then XP.
func (svc *Service) List(ctx context.Context, limit int) ([]model.Guild, error) {
	if limit <= 0 {
		limit = 20
	}
	var guilds []model.Guild
	err := svc.db.WithContext(ctx).Order("level DESC, xp DESC").Limit(limit).Find(&guilds).Error
	return guilds, err
}

// Members returns the roster, leader first.
func (svc *Service) Members(ctx context.Context, guildID int64) ([]model.GuildMember, error) {
	var members []model.GuildMember
	err := svc.db.WithContext(ctx).Where("guild_id = ?", guildID).
		Order("rank DESC, joined_at ASC").Find(&members).Error
	return members, err
}

// Join adds the player to a guild as a regular member.
func (svc *Service) Join(ctx context.Context, p *model.Player, guildID int64) error {
	if p.GuildID != nil {
		return ErrAlreadyInGuild
	}
	g, err := svc.Get(ctx, guildID)
	if err != nil {
		return err
	}
	if p.Level < g.MinLevel {
		return ErrLevelTooLow
	}
	var count int64
	if err := svc.db.WithContext(ctx).Model(&model.GuildMember{}).
		Where("guild_id = ?", guildID).Count(&count).Error; err != nil {
		return err
	}
	if count >= int64(g.MaxMembers) {
		return ErrGuildFull
	}

	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.GuildMember{
			GuildID: guildID, PlayerID: p.ID, Rank: model.GuildRankMember,
		}).Error; err != nil {
			return err
		}
		return tx.Model(p).Updates(map[string]interface{}{
			"guild_id":   guildID,
			"guild_rank": model.GuildRankMember,
		}).Error
	})
	if err != nil {
		return err
	}
	p.GuildID = &guildID
	p.GuildRank = model.GuildRankMember
	return nil
}

// Leave removes the player from their guild. A departing leader hands
// off to the highest-ranked longest-serving member; when the last
// member leaves the guild disbands.
func (svc *Service) Leave(ctx context.Context, p *model.Player) error {
	if p.GuildID == nil {
		return ErrNotInGuild
	}
	guildID := *p.GuildID

	err := svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guild_id = ? AND player_id = ?", guildID, p.ID).
			Delete(&model.GuildMember{}).Error; err != nil {
			return err
		}
		if err := tx.Model(p).Updates(map[string]interface{}{
			"guild_id":   nil,
			"guild_rank": 0,
		}).Error; err != nil {
			return err
		}

		var rest []model.GuildMember
		if err := tx.Where("guild_id = ?", guildID).
			Order("rank DESC, joined_at ASC").Find(&rest).Error; err != nil {
			return err
		}
		if len(rest) == 0 {
			return tx.Delete(&model.Guild{}, guildID).Error
		}
		if p.GuildRank != model.GuildRankLeader {
			return nil
		}

		heir := rest[0]
		if err := tx.Model(&model.GuildMember{}).
			Where("guild_id = ? AND player_id = ?", guildID, heir.PlayerID).
			Update("rank", model.GuildRankLeader).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Player{}).Where("id = ?", heir.PlayerID).
			Update("guild_rank", model.GuildRankLeader).Error; err != nil {
			return err
		}
		return tx.Model(&model.Guild{}).Where("id = ?", guildID).
			Update("leader_id", heir.PlayerID).Error
	})
	if err != nil {
		return err
	}
	p.GuildID = nil
	p.GuildRank = 0
	return nil
}

// Kick removes a member. The actor's rank must strictly dominate the
// target's.
func (svc *Service) Kick(ctx context.Context, actor *model.Player, targetPlayerID int64) error {
	if actor.GuildID == nil {
		return ErrNotInGuild
	}
	if actor.GuildRank < model.GuildRankOfficer {
		return ErrNoPermission
	}
	guildID := *actor.GuildID

	var target model.GuildMember
	err := svc.db.WithContext(ctx).Where("guild_id = ? AND player_id = ?", guildID, targetPlayerID).
		First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotMember
	}
	if err != nil {
		return err
	}
	if actor.GuildRank <= target.Rank {
		return ErrNoPermission
	}

	return svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&target).Error; err != nil {
			return err
		}
		return tx.Model(&model.Player{}).Where("id = ?", targetPlayerID).
			Updates(map[string]interface{}{
				"guild_id":   nil,
				"guild_rank": 0,
			}).Error
	})
}

// SetRank promotes or demotes a member. Only the leader may change
// ranks, and the leader rank itself is not assignable this way.
func (svc *Service) SetRank(ctx context.Context, actor *model.Player, targetPlayerID int64, rank model.GuildRank) error {
	if actor.GuildID == nil {
		return ErrNotInGuild
	}
	if actor.GuildRank != model.GuildRankLeader {
		return ErrNoPermission
	}
	if rank != model.GuildRankMember && rank != model.GuildRankOfficer {
		return ErrNoPermission
	}
	if targetPlayerID == actor.ID {
		return ErrNoPermission
	}
	guildID := *actor.GuildID

	res := svc.db.WithContext(ctx).Model(&model.GuildMember{}).
		Where("guild_id = ? AND player_id = ?", guildID, targetPlayerID).
		Update("rank", rank)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotMember
	}
	return svc.db.WithContext(ctx).Model(&model.Player{}).
		Where("id = ?", targetPlayerID).Update("guild_rank", rank).Error
}

// ContributeResult is one treasury contribution.
type ContributeResult struct {
	ReceiptID string `json:"receipt_id"`
	Amount    int64  `json:"amount"`
	GuildXP   int64  `json:"guild_xp"`
	NewLevel  int    `json:"new_level"`
	LeveledUp bool   `json:"leveled_up"`
}

// Contribute moves gold from the player into the guild treasury and
// feeds guild XP one for one. The receipt makes retries idempotent:
// replaying a credited receipt returns the stored outcome without
// touching the treasury again. Pass "" to mint a fresh receipt.
func (svc *Service) Contribute(ctx context.Context, p *model.Player, amount int64, receiptID string) (*ContributeResult, error) {
	if p.GuildID == nil {
		return nil, ErrNotInGuild
	}
	if amount <= 0 {
		return nil, ErrBadAmount
	}
	guildID := *p.GuildID
	if receiptID == "" {
		receiptID = uuid.NewString()
	}

	var receipt model.ContributionReceipt
	err := svc.db.WithContext(ctx).Where("id = ?", receiptID).First(&receipt).Error
	switch {
	case err == nil && receipt.Credited:
		g, err := svc.Get(ctx, guildID)
		if err != nil {
			return nil, err
		}
		return &ContributeResult{ReceiptID: receiptID, Amount: receipt.Amount, NewLevel: g.Level}, nil
	case err == nil:
		// Debited but never credited; finish the credit below.
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := svc.players.SpendGold(ctx, p, amount); err != nil {
			return nil, err
		}
		receipt = model.ContributionReceipt{
			ID: receiptID, GuildID: guildID, PlayerID: p.ID, Amount: amount,
		}
		if err := svc.db.WithContext(ctx).Create(&receipt).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	res := &ContributeResult{ReceiptID: receiptID, Amount: receipt.Amount, GuildXP: receipt.Amount}
	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g model.Guild
		if err := tx.First(&g, guildID).Error; err != nil {
			return err
		}
		g.Treasury += receipt.Amount
		g.XP += receipt.Amount
		for g.XP >= XPNeeded(g.Level) {
			g.Level++
			g.MaxMembers += slotsPerLevel
			g.XPBonus += xpBonusPerLevel
			g.GoldBonus += goldBonusPerLevel
			g.ShopDiscount += shopDiscountPerLevel
			res.LeveledUp = true
		}
		res.NewLevel = g.Level

		if err := tx.Model(&g).Updates(map[string]interface{}{
			"treasury":      g.Treasury,
			"xp":            g.XP,
			"level":         g.Level,
			"max_members":   g.MaxMembers,
			"xp_bonus":      g.XPBonus,
			"gold_bonus":    g.GoldBonus,
			"shop_discount": g.ShopDiscount,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.GuildMember{}).
			Where("guild_id = ? AND player_id = ?", guildID, p.ID).
			Update("contribution", gorm.Expr("contribution + ?", receipt.Amount)).Error; err != nil {
			return err
		}
		return tx.Model(&receipt).Update("credited", true).Error
	})
	if err != nil {
		return nil, err
	}

	if res.LeveledUp {
		svc.logger.Info("guild leveled up",
			zap.Int64("guild", guildID), zap.Int("level", res.NewLevel))
	}
	return res, nil
}

// Perks returns the reward multipliers granted by the player's guild.
// Players without a guild get neutral multipliers.
func (svc *Service) Perks(ctx context.Context, p *model.Player) (xpMult, goldMult, discount float64) {
	xpMult, goldMult, discount = 1.0, 1.0, 0
	if p.GuildID == nil {
		return
	}
	g, err := svc.Get(ctx, *p.GuildID)
	if err != nil {
		return
	}
	return 1.0 + g.XPBonus, 1.0 + g.GoldBonus, g.ShopDiscount
}

// ApplyReward scales a base reward by the guild perks.
func (svc *Service) ApplyReward(ctx context.Context, p *model.Player, xp int, gold int64) (int, int64) {
	xpMult, goldMult, _ := svc.Perks(ctx, p)
	return int(float64(xp) * xpMult), int64(float64(gold) * goldMult)
}

// SetMinLevel updates the guild's join requirement. Officer or above.
func (svc *Service) SetMinLevel(ctx context.Context, actor *model.Player, minLevel int) error {
	if actor.GuildID == nil {
		return ErrNotInGuild
	}
	if actor.GuildRank < model.GuildRankOfficer {
		return ErrNoPermission
	}
	if minLevel < 1 {
		minLevel = 1
	}
	return svc.db.WithContext(ctx).Model(&model.Guild{}).
		Where("id = ?", *actor.GuildID).Update("min_level", minLevel).Error
}
