package rest

import (
	"net/http"
	"strconv"

	"github.com/chatrpg/engine/game/inventory"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/model"
	"github.com/chatrpg/engine/scheduler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminHandler handles operator-only REST endpoints.
// Routes must sit behind the AdminKey middleware.
type AdminHandler struct {
	db      *gorm.DB
	players *player.Service
	bags    *inventory.Service
	sched   *scheduler.Scheduler
	logger  *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *gorm.DB, players *player.Service, bags *inventory.Service, sched *scheduler.Scheduler, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{db: db, players: players, bags: bags, sched: sched, logger: logger}
}

// Metrics handles GET /api/admin/metrics.
func (h *AdminHandler) Metrics(c *gin.Context) {
	var playerCount, guildCount int64
	h.db.Model(&model.Player{}).Count(&playerCount)
	h.db.Model(&model.Guild{}).Count(&guildCount)
	c.JSON(http.StatusOK, gin.H{
		"players":         playerCount,
		"guilds":          guildCount,
		"scheduler_tasks": h.sched.ListTickers(),
	})
}

// GetPlayer handles GET /api/admin/players/:id.
func (h *AdminHandler) GetPlayer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := h.players.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": p})
}

type grantRequest struct {
	Gold int64  `json:"gold"`
	Gems int64  `json:"gems"`
	XP   int    `json:"xp"`
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

// Grant handles POST /api/admin/players/:id/grant. Used for support
// compensation and events.
func (h *AdminHandler) Grant(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	p, err := h.players.GetByID(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}

	if req.Gold > 0 {
		if err := h.players.AddGold(ctx, p, req.Gold); err != nil {
			fail(c, err)
			return
		}
	}
	if req.Gems > 0 {
		if err := h.players.AddGems(ctx, p, req.Gems); err != nil {
			fail(c, err)
			return
		}
	}
	if req.XP > 0 {
		if _, err := h.players.AddXP(ctx, p, req.XP); err != nil {
			fail(c, err)
			return
		}
	}
	if req.Item != "" {
		qty := req.Qty
		if qty <= 0 {
			qty = 1
		}
		if err := h.bags.Add(ctx, p.ID, req.Item, qty); err != nil {
			fail(c, err)
			return
		}
	}

	h.logger.Info("admin grant",
		zap.Int64("player", p.ID),
		zap.Int64("gold", req.Gold),
		zap.Int64("gems", req.Gems),
		zap.Int("xp", req.XP),
		zap.String("item", req.Item))
	c.JSON(http.StatusOK, gin.H{"player": p})
}

// ResetCooldowns handles POST /api/admin/players/:id/reset-cooldowns.
func (h *AdminHandler) ResetCooldowns(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ctx := c.Request.Context()
	p, err := h.players.GetByID(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.players.ResetCooldowns(ctx, p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": p})
}

// RefreshBoards handles POST /api/admin/boards/refresh.
func (h *AdminHandler) RefreshBoards(c *gin.Context) {
	if err := h.players.RefreshBoards(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": true})
}

// BanAccount handles POST /api/admin/accounts/:id/ban.
func (h *AdminHandler) BanAccount(c *gin.Context) {
	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Ban bool `json:"ban"`
	}
	_ = c.ShouldBindJSON(&req)

	status := 1
	if req.Ban {
		status = 0
	}
	result := h.db.Model(&model.Account{}).Where("id = ?", accountID).Update("status", status)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": status})
}

// Logs handles GET /api/admin/logs?player=&limit=. Reads the async
// action audit trail.
func (h *AdminHandler) Logs(c *gin.Context) {
	limit := 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 500 {
		limit = l
	}
	q := h.db.WithContext(c.Request.Context()).Order("id DESC").Limit(limit)
	if pid, err := strconv.ParseInt(c.Query("player"), 10, 64); err == nil {
		q = q.Where("player_id = ?", pid)
	}
	var logs []model.ActionLog
	if err := q.Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// ListSchedulerTasks handles GET /api/admin/scheduler.
func (h *AdminHandler) ListSchedulerTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": h.sched.ListTickers()})
}
