// Package craft turns materials and gold into items through the
// recipe book.
package craft

import (
	"context"
	"errors"
	"sort"

	"github.com/chatrpg/engine/game/combat"
	"github.com/chatrpg/engine/game/inventory"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/model"
	"github.com/chatrpg/engine/refdata"
	"go.uber.org/zap"
)

var (
	ErrUnknownRecipe = errors.New("craft: unknown recipe")
	ErrLevelTooLow   = errors.New("craft: level too low")
	ErrNotEnoughGold = errors.New("craft: not enough gold")
	ErrMissingMats   = errors.New("craft: missing materials")
)

// Service handles crafting.
type Service struct {
	players *player.Service
	bags    *inventory.Service
	combat  *combat.Service
	logger  *zap.Logger
}

// NewService creates a craft Service. The combat Service supplies the
// shared RNG for success rolls.
func NewService(players *player.Service, bags *inventory.Service, cbt *combat.Service, logger *zap.Logger) *Service {
	return &Service{players: players, bags: bags, combat: cbt, logger: logger}
}

// Result is one craft attempt. Gold and materials are spent whether or
// not the roll succeeds.
type Result struct {
	RecipeID  string           `json:"recipe_id"`
	Success   bool             `json:"success"`
	Item      string           `json:"item,omitempty"`
	XP        int              `json:"xp"`
	GoldSpent int64            `json:"gold_spent"`
	LevelUps  []player.LevelUp `json:"level_ups,omitempty"`
}

// Craft attempts a recipe. Requirements are checked in order: level,
// then gold, then materials. The costs are consumed before the success
// roll and a failed roll refunds nothing.
func (svc *Service) Craft(ctx context.Context, p *model.Player, recipeID string) (*Result, error) {
	r, ok := refdata.Recipes[recipeID]
	if !ok {
		return nil, ErrUnknownRecipe
	}
	if p.Level < r.Level {
		return nil, ErrLevelTooLow
	}
	if p.Gold < r.Gold {
		return nil, ErrNotEnoughGold
	}
	enough, err := svc.bags.HasAll(ctx, p.ID, r.Materials)
	if err != nil {
		return nil, err
	}
	if !enough {
		return nil, ErrMissingMats
	}

	if err := svc.players.SpendGold(ctx, p, r.Gold); err != nil {
		return nil, err
	}
	if err := svc.bags.ConsumeAll(ctx, p.ID, r.Materials); err != nil {
		return nil, err
	}

	res := &Result{RecipeID: recipeID, GoldSpent: r.Gold}
	if !svc.combat.Chance(r.SuccessRate) {
		svc.logger.Debug("craft failed",
			zap.Int64("player", p.ID), zap.String("recipe", recipeID))
		return res, nil
	}

	res.Success = true
	res.Item = r.Result
	res.XP = r.XP
	if err := svc.bags.Add(ctx, p.ID, r.Result, 1); err != nil {
		return nil, err
	}
	prog, err := svc.players.AddXP(ctx, p, r.XP)
	if err != nil {
		return nil, err
	}
	res.LevelUps = prog.LevelUps
	if err := svc.players.IncrStats(ctx, p, player.StatDeltas{Crafted: 1}); err != nil {
		return nil, err
	}
	return res, nil
}

// RecipeView is one recipe with the player's eligibility resolved.
type RecipeView struct {
	refdata.Recipe
	CanLevel bool `json:"can_level"`
	CanGold  bool `json:"can_gold"`
	CanMats  bool `json:"can_mats"`
}

// Book lists every recipe sorted by level with the player's current
// eligibility per requirement.
func (svc *Service) Book(ctx context.Context, p *model.Player) ([]RecipeView, error) {
	views := make([]RecipeView, 0, len(refdata.Recipes))
	for _, r := range refdata.Recipes {
		enough, err := svc.bags.HasAll(ctx, p.ID, r.Materials)
		if err != nil {
			return nil, err
		}
		views = append(views, RecipeView{
			Recipe:   r,
			CanLevel: p.Level >= r.Level,
			CanGold:  p.Gold >= r.Gold,
			CanMats:  enough,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Level != views[j].Level {
			return views[i].Level < views[j].Level
		}
		return views[i].ID < views[j].ID
	})
	return views, nil
}
