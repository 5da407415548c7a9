// Package consumable applies usable items: heals, cooldown items,
// timed buffs, cures and revives.
package consumable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatrpg/engine/cache"
	"github.com/chatrpg/engine/game/inventory"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/model"
	"github.com/chatrpg/engine/refdata"
	"go.uber.org/zap"
)

var (
	ErrNotConsumable = errors.New("consumable: item is not usable")
	ErrOnCooldown    = errors.New("consumable: item is on cooldown")
	ErrNotDown       = errors.New("consumable: player is not down")
)

// Service applies consumable effects.
type Service struct {
	players *player.Service
	bags    *inventory.Service
	cache   cache.Cache
	logger  *zap.Logger
}

// NewService creates a consumable Service. The cache tracks per-item
// use cooldowns.
func NewService(players *player.Service, bags *inventory.Service, c cache.Cache, logger *zap.Logger) *Service {
	return &Service{players: players, bags: bags, cache: c, logger: logger}
}

// UseResult describes what using an item did.
type UseResult struct {
	Item           string       `json:"item"`
	Healed         int          `json:"healed,omitempty"`
	CooldownsCut   string       `json:"cooldowns_cut,omitempty"`
	CooldownsReset bool         `json:"cooldowns_reset,omitempty"`
	BuffsApplied   []model.Buff `json:"buffs_applied,omitempty"`
	Cured          bool         `json:"cured,omitempty"`
	Revived        bool         `json:"revived,omitempty"`
}

// Use consumes one of the named item and applies its effects in order.
// The item leaves the bag even when an effect is a no-op (healing at
// full HP still drinks the potion).
func (svc *Service) Use(ctx context.Context, p *model.Player, itemName string, now time.Time) (*UseResult, error) {
	c, ok := refdata.Consumables[itemName]
	if !ok {
		return nil, ErrNotConsumable
	}

	key := useKey(p.ID, itemName)
	if c.UseCooldown > 0 && svc.cache != nil {
		exists, err := svc.cache.Exists(ctx, key)
		if err == nil && exists {
			return nil, ErrOnCooldown
		}
	}

	// Revives are only meaningful when down; refuse before consuming.
	for _, e := range c.Effects {
		if e.Kind == refdata.EffectRevive && p.HP > 0 {
			return nil, ErrNotDown
		}
	}

	if err := svc.bags.Remove(ctx, p.ID, itemName, 1); err != nil {
		return nil, err
	}

	res := &UseResult{Item: itemName}
	if err := svc.apply(ctx, p, c, now, res); err != nil {
		return nil, err
	}

	if c.UseCooldown > 0 && svc.cache != nil {
		_ = svc.cache.Set(ctx, key, "1", c.UseCooldown)
	}
	return res, nil
}

func (svc *Service) apply(ctx context.Context, p *model.Player, c refdata.Consumable, now time.Time, res *UseResult) error {
	for _, e := range c.Effects {
		switch e.Kind {
		case refdata.EffectHeal:
			if e.Full {
				healed := p.MaxHP - p.HP
				if err := svc.players.FullHeal(ctx, p); err != nil {
					return err
				}
				res.Healed += healed
				continue
			}
			healed, err := svc.players.Heal(ctx, p, e.Amount)
			if err != nil {
				return err
			}
			res.Healed += healed

		case refdata.EffectReduceCooldown:
			if err := svc.players.ReduceCooldowns(ctx, p, e.Duration); err != nil {
				return err
			}
			res.CooldownsCut = e.Duration.String()

		case refdata.EffectResetCooldowns:
			if err := svc.players.ResetCooldowns(ctx, p); err != nil {
				return err
			}
			res.CooldownsReset = true

		case refdata.EffectStatBonus:
			b := model.Buff{
				Kind:      e.Stat + "_bonus",
				Value:     float64(e.Amount),
				ExpiresAt: now.Add(e.Duration),
				Source:    c.Name,
			}
			if err := svc.players.AddBuff(ctx, p, b); err != nil {
				return err
			}
			res.BuffsApplied = append(res.BuffsApplied, b)

		case refdata.EffectStatMultiplier:
			b := model.Buff{
				Kind:      e.Stat + "_mult",
				Value:     e.Factor,
				ExpiresAt: now.Add(e.Duration),
				Source:    c.Name,
			}
			if err := svc.players.AddBuff(ctx, p, b); err != nil {
				return err
			}
			res.BuffsApplied = append(res.BuffsApplied, b)

		case refdata.EffectCure:
			if err := svc.cure(ctx, p, now); err != nil {
				return err
			}
			res.Cured = true

		case refdata.EffectRevive:
			if err := svc.players.FullHeal(ctx, p); err != nil {
				return err
			}
			res.Revived = true

		default:
			return fmt.Errorf("consumable: unhandled effect kind %d", e.Kind)
		}
	}
	return nil
}

// cure strips negative buffs: flat penalties and multipliers below 1.
func (svc *Service) cure(ctx context.Context, p *model.Player, now time.Time) error {
	active := svc.players.ActiveBuffs(ctx, p, now)
	kept := active[:0]
	for _, b := range active {
		negative := b.Value < 0 || (isMult(b.Kind) && b.Value < 1)
		if !negative {
			kept = append(kept, b)
		}
	}
	return svc.players.ReplaceBuffs(ctx, p, kept)
}

// AutoRevive consumes a self-reviving item from the bag when the
// player is down. Returns the item used, or "" when none was found.
func (svc *Service) AutoRevive(ctx context.Context, p *model.Player, now time.Time) (string, error) {
	if p.HP > 0 {
		return "", nil
	}
	for name, c := range refdata.Consumables {
		if !c.AutoRevive {
			continue
		}
		n, err := svc.bags.Count(ctx, p.ID, name)
		if err != nil {
			return "", err
		}
		if n == 0 {
			continue
		}
		if err := svc.bags.Remove(ctx, p.ID, name, 1); err != nil {
			return "", err
		}
		if err := svc.players.FullHeal(ctx, p); err != nil {
			return "", err
		}
		svc.logger.Info("auto revive",
			zap.Int64("player", p.ID), zap.String("item", name))
		return name, nil
	}
	return "", nil
}

func isMult(kind string) bool {
	switch kind {
	case "attack_mult", "defense_mult", "luck_mult", "xp_mult":
		return true
	}
	return false
}

func useKey(playerID int64, item string) string {
	return fmt.Sprintf("usecd:%d:%s", playerID, item)
}
