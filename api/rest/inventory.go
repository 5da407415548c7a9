package rest

import (
	"net/http"
	"time"

	"github.com/chatrpg/engine/game/consumable"
	"github.com/chatrpg/engine/game/inventory"
	"github.com/chatrpg/engine/game/player"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles bag and equipment REST endpoints.
type InventoryHandler struct {
	players     *player.Service
	bags        *inventory.Service
	consumables *consumable.Service
}

// NewInventoryHandler creates an InventoryHandler.
func NewInventoryHandler(players *player.Service, bags *inventory.Service, consumables *consumable.Service) *InventoryHandler {
	return &InventoryHandler{players: players, bags: bags, consumables: consumables}
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	items, err := h.bags.List(c.Request.Context(), p.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"equipment": gin.H{
			"weapon":    p.Weapon,
			"armor":     p.Armor,
			"accessory": p.Accessory,
			"pet":       p.Pet,
		},
	})
}

type itemRequest struct {
	Item string `json:"item" binding:"required"`
}

// Equip handles POST /api/inventory/equip.
func (h *InventoryHandler) Equip(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.bags.Equip(c.Request.Context(), p, req.Item)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "player": p})
}

type slotRequest struct {
	Slot string `json:"slot" binding:"required"`
}

// Unequip handles POST /api/inventory/unequip.
func (h *InventoryHandler) Unequip(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.bags.Unequip(c.Request.Context(), p, req.Slot); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"player": p})
}

type sellRequest struct {
	Item string `json:"item" binding:"required"`
	Qty  int    `json:"qty"`
}

// Sell handles POST /api/inventory/sell.
func (h *InventoryHandler) Sell(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req sellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Qty <= 0 {
		req.Qty = 1
	}
	gold, err := h.bags.Sell(c.Request.Context(), p, req.Item, req.Qty)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gold_received": gold, "player": p})
}

// Use handles POST /api/inventory/use.
func (h *InventoryHandler) Use(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.consumables.Use(c.Request.Context(), p, req.Item, time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "player": p})
}
