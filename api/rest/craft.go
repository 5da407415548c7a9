package rest

import (
	"net/http"
	"time"

	"github.com/chatrpg/engine/game/achievement"
	"github.com/chatrpg/engine/game/craft"
	"github.com/chatrpg/engine/game/daily"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/game/quest"
	"github.com/chatrpg/engine/refdata"
	"github.com/gin-gonic/gin"
)

// CraftHandler handles crafting REST endpoints.
type CraftHandler struct {
	players      *player.Service
	crafts       *craft.Service
	quests       *quest.Service
	dailies      *daily.Service
	achievements *achievement.Service
}

// NewCraftHandler creates a CraftHandler.
func NewCraftHandler(players *player.Service, crafts *craft.Service, quests *quest.Service, dailies *daily.Service, achievements *achievement.Service) *CraftHandler {
	return &CraftHandler{players: players, crafts: crafts, quests: quests, dailies: dailies, achievements: achievements}
}

// Book handles GET /api/craft/recipes.
func (h *CraftHandler) Book(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	book, err := h.crafts.Book(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": book})
}

type craftRequest struct {
	RecipeID string `json:"recipe_id" binding:"required"`
}

// Craft handles POST /api/craft.
func (h *CraftHandler) Craft(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req craftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	res, err := h.crafts.Craft(ctx, p, req.RecipeID)
	if err != nil {
		fail(c, err)
		return
	}

	var ready []string
	var unlocks []achievement.Unlock
	if res.Success {
		equipment := false
		if it, ok := refdata.ItemByName(res.Item); ok {
			equipment = it.Equippable()
		}
		ready, err = h.quests.Record(ctx, p,
			quest.Event{Kind: quest.EventItemCrafted, Item: res.Item, Equipment: equipment},
			quest.Event{Kind: quest.EventItemGained, Item: res.Item},
		)
		if err != nil {
			fail(c, err)
			return
		}
		if err := h.dailies.Record(ctx, p, refdata.ChallengeCraft, 1, time.Now()); err != nil {
			fail(c, err)
			return
		}
		unlocks, err = h.achievements.CheckAll(ctx, p)
		if err != nil {
			fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "quests_ready": ready, "achievements": unlocks, "player": p})
}
