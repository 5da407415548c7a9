package rest

import (
	"net/http"
	"time"

	"github.com/chatrpg/engine/game/action"
	"github.com/chatrpg/engine/game/guild"
	"github.com/chatrpg/engine/game/player"
	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the player's own sheet.
type ProfileHandler struct {
	players *player.Service
	actions *action.Service
	guilds  *guild.Service
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(players *player.Service, actions *action.Service, guilds *guild.Service) *ProfileHandler {
	return &ProfileHandler{players: players, actions: actions, guilds: guilds}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	ctx := c.Request.Context()
	now := time.Now()

	atk, def := h.players.EffectiveStats(ctx, p, now)
	body := gin.H{
		"player":            p,
		"effective_attack":  atk,
		"effective_defense": def,
		"xp_needed":         player.XPNeeded(p.Level),
		"buffs":             h.players.ActiveBuffs(ctx, p, now),
		"cooldowns":         h.actions.Cooldowns(p, now),
	}
	if p.GuildID != nil {
		if g, err := h.guilds.Get(ctx, *p.GuildID); err == nil {
			body["guild"] = g
		}
	}
	c.JSON(http.StatusOK, body)
}
