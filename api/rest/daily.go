package rest

import (
	"net/http"
	"time"

	"github.com/chatrpg/engine/game/daily"
	"github.com/chatrpg/engine/game/player"
	"github.com/gin-gonic/gin"
)

// DailyHandler handles the daily challenge endpoints. The streak claim
// itself lives with the other timed actions.
type DailyHandler struct {
	players *player.Service
	dailies *daily.Service
}

// NewDailyHandler creates a DailyHandler.
func NewDailyHandler(players *player.Service, dailies *daily.Service) *DailyHandler {
	return &DailyHandler{players: players, dailies: dailies}
}

// Challenges handles GET /api/daily/challenges.
func (h *DailyHandler) Challenges(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	set, err := h.dailies.Challenges(c.Request.Context(), p, time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenges": set})
}

// ClaimChallenge handles POST /api/daily/challenges/:id/claim.
func (h *DailyHandler) ClaimChallenge(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	res, err := h.dailies.ClaimChallenge(c.Request.Context(), p, c.Param("id"), time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "player": p})
}
