package rest

import (
	"net/http"
	"strconv"

	"github.com/chatrpg/engine/game/guild"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RankingHandler handles leaderboard REST endpoints.
type RankingHandler struct {
	db      *gorm.DB
	players *player.Service
	guilds  *guild.Service
}

// NewRankingHandler creates a RankingHandler.
func NewRankingHandler(db *gorm.DB, players *player.Service, guilds *guild.Service) *RankingHandler {
	return &RankingHandler{db: db, players: players, guilds: guilds}
}

const rankingTop = 100

func limitParam(c *gin.Context) int {
	limit := 20
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= rankingTop {
		limit = l
	}
	return limit
}

// Top handles GET /api/leaderboard/:board (xp | gold | kills).
func (h *RankingHandler) Top(c *gin.Context) {
	board := c.Param("board")
	limit := limitParam(c)
	ctx := c.Request.Context()

	switch board {
	case "xp", "gold":
		entries, err := h.players.Top(ctx, "lb:"+board, limit)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"board": board, "entries": entries})

	case "kills":
		// Kill counts change rarely enough that the DB ordering serves
		// directly, without a sorted-set mirror.
		var rows []model.Player
		err := h.db.WithContext(ctx).
			Select("external_id, name, level, monsters_killed").
			Order("monsters_killed DESC").
			Limit(limit).
			Find(&rows).Error
		if err != nil {
			fail(c, err)
			return
		}
		entries := make([]player.BoardEntry, len(rows))
		for i, r := range rows {
			entries[i] = player.BoardEntry{
				ExternalID: r.ExternalID,
				Name:       r.Name,
				Level:      r.Level,
				Score:      r.MonstersKilled,
			}
		}
		c.JSON(http.StatusOK, gin.H{"board": board, "entries": entries})

	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown board"})
	}
}

// Me handles GET /api/leaderboard/:board/me.
func (h *RankingHandler) Me(c *gin.Context) {
	p := currentPlayer(c, h.players)
	if p == nil {
		return
	}
	board := c.Param("board")
	if board != "xp" && board != "gold" {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown board"})
		return
	}
	rank := h.players.Rank(c.Request.Context(), "lb:"+board, p.ExternalID)
	c.JSON(http.StatusOK, gin.H{"board": board, "rank": rank})
}

// Guilds handles GET /api/leaderboard/guilds.
func (h *RankingHandler) Guilds(c *gin.Context) {
	guilds, err := h.guilds.List(c.Request.Context(), limitParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guilds": guilds})
}
