package rest

import (
	"net/http"
	"strconv"

	"github.com/chatrpg/engine/game/guild"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/game/quest"
	"github.com/chatrpg/engine/model"
	"github.com/gin-gonic/gin"
)

// GuildHandler handles guild REST endpoints.
type GuildHandler struct {
	players *player.Service
	guilds  *guild.Service
	quests  *quest.Service
}

// NewGuildHandler creates a GuildHandler.
func NewGuildHandler(players *player.Service, guilds *guild.Service, quests *quest.Service) *GuildHandler {
	return &GuildHandler{players: players, guilds: guilds, quests: quests}
}

type createGuildRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=32"`
	Tag         string `json:"tag" binding:"required,min=2,max=5"`
	Description string `json:"description" binding:"max=200"`
}

// Create handles POST /api/guilds.
func (h *GuildHandler) Create(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req createGuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	g, err := h.guilds.Create(ctx, p, req.Name, req.Tag, req.Description)
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := h.quests.Record(ctx, p, quest.Event{Kind: quest.EventGuildJoined}); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"guild": g})
}

// List handles GET /api/guilds.
func (h *GuildHandler) List(c *gin.Context) {
	limit := 20
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	guilds, err := h.guilds.List(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guilds": guilds})
}

// Detail handles GET /api/guilds/:id.
func (h *GuildHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ctx := c.Request.Context()
	g, err := h.guilds.Get(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	members, err := h.guilds.Members(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guild": g, "members": members})
}

// Join handles POST /api/guilds/:id/join.
func (h *GuildHandler) Join(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ctx := c.Request.Context()
	if err := h.guilds.Join(ctx, p, id); err != nil {
		fail(c, err)
		return
	}
	if _, err := h.quests.Record(ctx, p, quest.Event{Kind: quest.EventGuildJoined}); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"joined": id})
}

// Leave handles POST /api/guilds/leave.
func (h *GuildHandler) Leave(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	if err := h.guilds.Leave(c.Request.Context(), p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"left": true})
}

type memberRequest struct {
	PlayerID int64 `json:"player_id" binding:"required"`
}

// Kick handles POST /api/guilds/kick.
func (h *GuildHandler) Kick(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.guilds.Kick(c.Request.Context(), p, req.PlayerID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kicked": req.PlayerID})
}

type rankRequest struct {
	PlayerID int64 `json:"player_id" binding:"required"`
	Rank     int   `json:"rank"`
}

// SetRank handles POST /api/guilds/rank.
func (h *GuildHandler) SetRank(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req rankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.guilds.SetRank(c.Request.Context(), p, req.PlayerID, model.GuildRank(req.Rank)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player_id": req.PlayerID, "rank": req.Rank})
}

type contributeRequest struct {
	Amount    int64  `json:"amount" binding:"required"`
	ReceiptID string `json:"receipt_id"`
}

// Contribute handles POST /api/guilds/contribute.
func (h *GuildHandler) Contribute(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req contributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.guilds.Contribute(c.Request.Context(), p, req.Amount, req.ReceiptID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "player": p})
}

type minLevelRequest struct {
	MinLevel int `json:"min_level"`
}

// SetMinLevel handles POST /api/guilds/minlevel.
func (h *GuildHandler) SetMinLevel(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req minLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.guilds.SetMinLevel(c.Request.Context(), p, req.MinLevel); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"min_level": req.MinLevel})
}
