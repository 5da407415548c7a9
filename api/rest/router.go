package rest

import (
	"github.com/chatrpg/engine/audit"
	"github.com/chatrpg/engine/cache"
	"github.com/chatrpg/engine/config"
	"github.com/chatrpg/engine/game/achievement"
	"github.com/chatrpg/engine/game/action"
	"github.com/chatrpg/engine/game/consumable"
	"github.com/chatrpg/engine/game/craft"
	"github.com/chatrpg/engine/game/daily"
	"github.com/chatrpg/engine/game/guild"
	"github.com/chatrpg/engine/game/inventory"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/game/quest"
	mw "github.com/chatrpg/engine/middleware"
	"github.com/chatrpg/engine/scheduler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Deps bundles everything the REST surface needs.
type Deps struct {
	DB           *gorm.DB
	Cache        cache.Cache
	Cfg          *config.Config
	Players      *player.Service
	Bags         *inventory.Service
	Actions      *action.Service
	Crafts       *craft.Service
	Quests       *quest.Service
	Achievements *achievement.Service
	Guilds       *guild.Service
	Dailies      *daily.Service
	Consumables  *consumable.Service
	Audits       *audit.Service
	Sched        *scheduler.Scheduler
	Logger       *zap.Logger
}

// NewRouter builds the gin engine with the full middleware chain and
// every API group mounted.
func NewRouter(d Deps) *gin.Engine {
	if !d.Cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(d.Logger), mw.Recovery(d.Logger))
	r.Use(mw.RateLimit(rate.Limit(d.Cfg.Security.RateLimitRPS), d.Cfg.Security.RateLimitBurst))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authH := NewAuthHandler(d.DB, d.Cache, d.Players, d.Cfg.Security)
	profileH := NewProfileHandler(d.Players, d.Actions, d.Guilds)
	actionH := NewActionHandler(d.Players, d.Actions, d.Audits)
	invH := NewInventoryHandler(d.Players, d.Bags, d.Consumables)
	craftH := NewCraftHandler(d.Players, d.Crafts, d.Quests, d.Dailies, d.Achievements)
	questH := NewQuestHandler(d.Players, d.Quests, d.Dailies, d.Achievements)
	guildH := NewGuildHandler(d.Players, d.Guilds, d.Quests)
	dailyH := NewDailyHandler(d.Players, d.Dailies)
	rankH := NewRankingHandler(d.DB, d.Players, d.Guilds)
	achH := NewAchievementHandler(d.Players, d.Achievements)
	adminH := NewAdminHandler(d.DB, d.Players, d.Bags, d.Sched, d.Logger)

	authMW := mw.Auth(d.Cfg.Security, d.Cache)

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/login", authH.Login)
		authG.POST("/logout", authMW, authH.Logout)
		authG.POST("/refresh", authMW, authH.Refresh)

		api.GET("/profile", authMW, profileH.Get)

		actionsG := api.Group("/actions")
		actionsG.Use(authMW)
		actionsG.GET("/cooldowns", actionH.Cooldowns)
		actionsG.POST("/hunt", actionH.Hunt)
		actionsG.POST("/work", actionH.Work)
		actionsG.POST("/adventure", actionH.Adventure)
		actionsG.POST("/daily", actionH.Daily)
		actionsG.POST("/dungeon", actionH.Dungeon)
		actionsG.POST("/duel", actionH.Duel)

		invG := api.Group("/inventory")
		invG.Use(authMW)
		invG.GET("", invH.List)
		invG.POST("/equip", invH.Equip)
		invG.POST("/unequip", invH.Unequip)
		invG.POST("/sell", invH.Sell)
		invG.POST("/use", invH.Use)

		craftG := api.Group("/craft")
		craftG.Use(authMW)
		craftG.GET("/recipes", craftH.Book)
		craftG.POST("", craftH.Craft)

		questsG := api.Group("/quests")
		questsG.Use(authMW)
		questsG.GET("/available", questH.Available)
		questsG.GET("/active", questH.Active)
		questsG.POST("/accept", questH.Accept)
		questsG.POST("/complete", questH.Complete)

		guildsG := api.Group("/guilds")
		guildsG.Use(authMW)
		guildsG.POST("", guildH.Create)
		guildsG.GET("", guildH.List)
		guildsG.GET("/:id", guildH.Detail)
		guildsG.POST("/:id/join", guildH.Join)
		guildsG.POST("/leave", guildH.Leave)
		guildsG.POST("/kick", guildH.Kick)
		guildsG.POST("/rank", guildH.SetRank)
		guildsG.POST("/contribute", guildH.Contribute)
		guildsG.POST("/minlevel", guildH.SetMinLevel)

		dailyG := api.Group("/daily")
		dailyG.Use(authMW)
		dailyG.GET("/challenges", dailyH.Challenges)
		dailyG.POST("/challenges/:id/claim", dailyH.ClaimChallenge)

		lbG := api.Group("/leaderboard")
		lbG.GET("/guilds", rankH.Guilds)
		lbG.GET("/:board", rankH.Top)
		lbG.GET("/:board/me", authMW, rankH.Me)

		api.GET("/achievements", authMW, achH.List)

		adminG := api.Group("/admin")
		adminG.Use(mw.IPWhitelist(d.Cfg.Server.AdminIPs), mw.AdminKey(d.Cfg.Server.AdminKey))
		adminG.GET("/metrics", adminH.Metrics)
		adminG.GET("/players/:id", adminH.GetPlayer)
		adminG.POST("/players/:id/grant", adminH.Grant)
		adminG.POST("/players/:id/reset-cooldowns", adminH.ResetCooldowns)
		adminG.POST("/boards/refresh", adminH.RefreshBoards)
		adminG.POST("/accounts/:id/ban", adminH.BanAccount)
		adminG.GET("/logs", adminH.Logs)
		adminG.GET("/scheduler", adminH.ListSchedulerTasks)
	}

	return r
}
