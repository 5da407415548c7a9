// Package achievement watches the lifetime counters and unlocks
// achievements as they cross their thresholds.
package achievement

import (
	"context"
	"errors"
	"strings"

	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/model"
	"github.com/chatrpg/engine/refdata"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles achievement unlocks.
type Service struct {
	db      *gorm.DB
	players *player.Service
	logger  *zap.Logger
}

// NewService creates an achievement Service.
func NewService(db *gorm.DB, players *player.Service, logger *zap.Logger) *Service {
	return &Service{db: db, players: players, logger: logger}
}

// Unlock is one freshly unlocked achievement with its payout.
type Unlock struct {
	Achievement refdata.Achievement `json:"achievement"`
	Gold        int64               `json:"gold"`
	Gems        int64               `json:"gems"`
}

// CheckAll compares every achievement against the player's current
// counters and unlocks the ones newly crossed. Rewards are paid here;
// the unique index keeps each unlock append-once under races.
func (svc *Service) CheckAll(ctx context.Context, p *model.Player) ([]Unlock, error) {
	unlocked, err := svc.unlockedIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	var out []Unlock
	for _, a := range refdata.Achievements {
		if unlocked[a.ID] {
			continue
		}
		value, err := svc.counterFor(ctx, p, a.Type)
		if err != nil {
			return nil, err
		}
		if value < a.Requirement {
			continue
		}

		err = svc.db.WithContext(ctx).Create(&model.PlayerAchievement{
			PlayerID: p.ID, AchievementID: a.ID,
		}).Error
		if err != nil {
			// A concurrent unlock already claimed it.
			if isDuplicate(err) {
				continue
			}
			return nil, err
		}
		if a.Gold > 0 {
			if err := svc.players.AddGold(ctx, p, a.Gold); err != nil {
				return nil, err
			}
		}
		if a.Gems > 0 {
			if err := svc.players.AddGems(ctx, p, a.Gems); err != nil {
				return nil, err
			}
		}
		out = append(out, Unlock{Achievement: a, Gold: a.Gold, Gems: a.Gems})
		svc.logger.Info("achievement unlocked",
			zap.Int64("player", p.ID), zap.String("achievement", a.ID))
	}
	return out, nil
}

// Progress is one achievement with the player's current standing.
type Progress struct {
	Achievement refdata.Achievement `json:"achievement"`
	Current     int64               `json:"current"`
	Unlocked    bool                `json:"unlocked"`
}

// List returns every achievement in display order with progress.
func (svc *Service) List(ctx context.Context, p *model.Player) ([]Progress, error) {
	unlocked, err := svc.unlockedIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := make([]Progress, 0, len(refdata.Achievements))
	for _, a := range refdata.Achievements {
		value, err := svc.counterFor(ctx, p, a.Type)
		if err != nil {
			return nil, err
		}
		if value > a.Requirement {
			value = a.Requirement
		}
		out = append(out, Progress{Achievement: a, Current: value, Unlocked: unlocked[a.ID]})
	}
	return out, nil
}

func (svc *Service) unlockedIDs(ctx context.Context, playerID int64) (map[string]bool, error) {
	var rows []model.PlayerAchievement
	if err := svc.db.WithContext(ctx).Where("player_id = ?", playerID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[r.AchievementID] = true
	}
	return out, nil
}

func (svc *Service) counterFor(ctx context.Context, p *model.Player, t refdata.AchievementType) (int64, error) {
	switch t {
	case refdata.AchLevel:
		return int64(p.Level), nil
	case refdata.AchKills:
		return p.MonstersKilled, nil
	case refdata.AchBosses:
		return p.BossesKilled, nil
	case refdata.AchGoldEarned:
		return p.GoldEarned, nil
	case refdata.AchCrafted:
		return p.ItemsCrafted, nil
	case refdata.AchHunts:
		return p.TotalHunts, nil
	case refdata.AchQuests:
		return p.QuestsCompleted, nil
	case refdata.AchDungeons:
		return p.TotalDungeons, nil
	case refdata.AchCollection:
		return svc.players.DistinctItemCount(ctx, p.ID)
	case refdata.AchSurvival:
		return p.LowHPSurvivals, nil
	}
	return 0, errors.New("achievement: unknown counter " + t)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "Duplicate entry")
}
