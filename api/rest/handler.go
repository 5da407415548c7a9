// Package rest exposes the engine over HTTP. Handlers are thin: bind,
// call a service, map the error, render JSON. All game rules live in
// the game packages.
package rest

import (
	"errors"
	"net/http"

	"github.com/chatrpg/engine/game/action"
	"github.com/chatrpg/engine/game/consumable"
	"github.com/chatrpg/engine/game/craft"
	"github.com/chatrpg/engine/game/daily"
	"github.com/chatrpg/engine/game/guild"
	"github.com/chatrpg/engine/game/inventory"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/game/quest"
	mw "github.com/chatrpg/engine/middleware"
	"github.com/chatrpg/engine/model"
	"github.com/gin-gonic/gin"
)

// httpStatus maps service sentinels onto HTTP codes. Anything not in
// the expected taxonomy is a 500.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, player.ErrNotFound),
		errors.Is(err, guild.ErrNotFound),
		errors.Is(err, guild.ErrNotMember),
		errors.Is(err, quest.ErrUnknownQuest),
		errors.Is(err, craft.ErrUnknownRecipe),
		errors.Is(err, daily.ErrUnknownChallenge),
		errors.Is(err, action.ErrUnknownDungeon),
		errors.Is(err, inventory.ErrUnknownItem):
		return http.StatusNotFound

	case errors.Is(err, action.ErrOnCooldown),
		errors.Is(err, consumable.ErrOnCooldown):
		return http.StatusTooManyRequests

	case errors.Is(err, daily.ErrAlreadyClaimed),
		errors.Is(err, daily.ErrChallengeClaimed),
		errors.Is(err, quest.ErrAlreadyActive),
		errors.Is(err, guild.ErrNameTaken),
		errors.Is(err, guild.ErrAlreadyInGuild):
		return http.StatusConflict

	case errors.Is(err, guild.ErrNoPermission):
		return http.StatusForbidden

	case errors.Is(err, player.ErrInsufficientGold),
		errors.Is(err, player.ErrInsufficientGems),
		errors.Is(err, inventory.ErrNotEnough),
		errors.Is(err, inventory.ErrNotEquippable),
		errors.Is(err, inventory.ErrSlotEmpty),
		errors.Is(err, inventory.ErrBadSlot),
		errors.Is(err, craft.ErrLevelTooLow),
		errors.Is(err, craft.ErrNotEnoughGold),
		errors.Is(err, craft.ErrMissingMats),
		errors.Is(err, quest.ErrNotAvailable),
		errors.Is(err, quest.ErrNotActive),
		errors.Is(err, quest.ErrNotComplete),
		errors.Is(err, guild.ErrLevelTooLow),
		errors.Is(err, guild.ErrGuildFull),
		errors.Is(err, guild.ErrNotInGuild),
		errors.Is(err, guild.ErrBadAmount),
		errors.Is(err, daily.ErrChallengeNotMet),
		errors.Is(err, action.ErrLevelTooLow),
		errors.Is(err, action.ErrTooWounded),
		errors.Is(err, consumable.ErrNotConsumable),
		errors.Is(err, consumable.ErrNotDown):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail renders a service error. Internal faults are masked.
func fail(c *gin.Context, err error) {
	code := httpStatus(err)
	if code == http.StatusInternalServerError {
		c.JSON(code, gin.H{"error": "internal error"})
		return
	}
	body := gin.H{"error": err.Error()}
	var cd *action.CooldownError
	if errors.As(err, &cd) {
		body["action"] = cd.Action
		body["retry_after_min"] = cd.Minutes
	}
	c.JSON(code, body)
}

// currentPlayer resolves the authenticated account's player. Writes the
// response itself on failure.
func currentPlayer(c *gin.Context, players *player.Service) *model.Player {
	accountID := mw.GetAccountID(c)
	if accountID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	p, err := players.GetByAccountID(c.Request.Context(), accountID)
	if err != nil {
		fail(c, err)
		return nil
	}
	return p
}
