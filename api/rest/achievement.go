package rest

import (
	"net/http"

	"github.com/chatrpg/engine/game/achievement"
	"github.com/chatrpg/engine/game/player"
	"github.com/gin-gonic/gin"
)

// AchievementHandler handles achievement REST endpoints.
type AchievementHandler struct {
	players      *player.Service
	achievements *achievement.Service
}

// NewAchievementHandler creates an AchievementHandler.
func NewAchievementHandler(players *player.Service, achievements *achievement.Service) *AchievementHandler {
	return &AchievementHandler{players: players, achievements: achievements}
}

// List handles GET /api/achievements.
func (h *AchievementHandler) List(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	progress, err := h.achievements.List(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": progress})
}
