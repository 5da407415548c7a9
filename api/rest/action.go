package rest

import (
	"net/http"
	"time"

	"github.com/chatrpg/engine/audit"
	"github.com/chatrpg/engine/game/action"
	"github.com/chatrpg/engine/game/player"
	mw "github.com/chatrpg/engine/middleware"
	"github.com/chatrpg/engine/model"
	"github.com/gin-gonic/gin"
)

// ActionHandler exposes the timed actions.
type ActionHandler struct {
	players *player.Service
	actions *action.Service
	audits  *audit.Service
}

// NewActionHandler creates an ActionHandler.
func NewActionHandler(players *player.Service, actions *action.Service, audits *audit.Service) *ActionHandler {
	return &ActionHandler{players: players, actions: actions, audits: audits}
}

// record pushes the action onto the async audit log.
func (h *ActionHandler) record(c *gin.Context, p *model.Player, name string, started time.Time, out interface{}, err error) {
	if h.audits == nil {
		return
	}
	entry := audit.Entry{
		TraceID:    mw.GetTraceID(c),
		PlayerID:   &p.ID,
		Action:     name,
		Response:   out,
		DurationMs: int(time.Since(started).Milliseconds()),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	h.audits.Log(entry)
}

// Cooldowns handles GET /api/actions/cooldowns.
func (h *ActionHandler) Cooldowns(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"cooldowns": h.actions.Cooldowns(p, time.Now())})
}

// Hunt handles POST /api/actions/hunt.
func (h *ActionHandler) Hunt(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	started := time.Now()
	out, err := h.actions.Hunt(c.Request.Context(), p, started)
	h.record(c, p, "hunt", started, out, err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out, "player": p})
}

// Work handles POST /api/actions/work.
func (h *ActionHandler) Work(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	started := time.Now()
	out, err := h.actions.Work(c.Request.Context(), p, started)
	h.record(c, p, "work", started, out, err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out, "player": p})
}

// Adventure handles POST /api/actions/adventure.
func (h *ActionHandler) Adventure(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	started := time.Now()
	out, err := h.actions.Adventure(c.Request.Context(), p, started)
	h.record(c, p, "adventure", started, out, err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out, "player": p})
}

// Daily handles POST /api/actions/daily.
func (h *ActionHandler) Daily(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	started := time.Now()
	out, err := h.actions.Daily(c.Request.Context(), p, started)
	h.record(c, p, "daily", started, out, err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out, "player": p})
}

type dungeonRequest struct {
	Dungeon string `json:"dungeon" binding:"required"`
}

// Dungeon handles POST /api/actions/dungeon.
func (h *ActionHandler) Dungeon(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req dungeonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	started := time.Now()
	out, err := h.actions.Dungeon(c.Request.Context(), p, req.Dungeon, started)
	h.record(c, p, "dungeon", started, out, err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out, "player": p})
}

// Duel handles POST /api/actions/duel.
func (h *ActionHandler) Duel(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	started := time.Now()
	out, err := h.actions.Duel(c.Request.Context(), p, started)
	h.record(c, p, "duel", started, out, err)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": out, "player": p})
}
