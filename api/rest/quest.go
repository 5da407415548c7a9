package rest

import (
	"net/http"
	"time"

	"github.com/chatrpg/engine/game/achievement"
	"github.com/chatrpg/engine/game/daily"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/game/quest"
	"github.com/chatrpg/engine/refdata"
	"github.com/gin-gonic/gin"
)

// QuestHandler handles quest REST endpoints.
type QuestHandler struct {
	players      *player.Service
	quests       *quest.Service
	dailies      *daily.Service
	achievements *achievement.Service
}

// NewQuestHandler creates a QuestHandler.
func NewQuestHandler(players *player.Service, quests *quest.Service, dailies *daily.Service, achievements *achievement.Service) *QuestHandler {
	return &QuestHandler{players: players, quests: quests, dailies: dailies, achievements: achievements}
}

// Available handles GET /api/quests/available.
func (h *QuestHandler) Available(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	quests, err := h.quests.Available(c.Request.Context(), p, time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

// Active handles GET /api/quests/active.
func (h *QuestHandler) Active(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	active, err := h.quests.Active(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quests": active})
}

type questRequest struct {
	QuestID string `json:"quest_id" binding:"required"`
}

// Accept handles POST /api/quests/accept.
func (h *QuestHandler) Accept(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req questRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.quests.Accept(c.Request.Context(), p, req.QuestID, time.Now()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": req.QuestID})
}

// Complete handles POST /api/quests/complete.
func (h *QuestHandler) Complete(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req questRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	now := time.Now()
	res, err := h.quests.Complete(ctx, p, req.QuestID, now)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.dailies.Record(ctx, p, refdata.ChallengeQuest, 1, now); err != nil {
		fail(c, err)
		return
	}
	unlocks, err := h.achievements.CheckAll(ctx, p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "achievements": unlocks, "player": p})
}
