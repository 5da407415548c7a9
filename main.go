package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/chatrpg/engine/api/rest"
	"github.com/chatrpg/engine/audit"
	"github.com/chatrpg/engine/cache"
	"github.com/chatrpg/engine/config"
	dbadapter "github.com/chatrpg/engine/db"
	"github.com/chatrpg/engine/game/achievement"
	"github.com/chatrpg/engine/game/action"
	"github.com/chatrpg/engine/game/combat"
	"github.com/chatrpg/engine/game/consumable"
	"github.com/chatrpg/engine/game/craft"
	"github.com/chatrpg/engine/game/daily"
	"github.com/chatrpg/engine/game/guild"
	"github.com/chatrpg/engine/game/inventory"
	"github.com/chatrpg/engine/game/player"
	"github.com/chatrpg/engine/game/quest"
	"github.com/chatrpg/engine/model"
	"github.com/chatrpg/engine/plugin/hook"
	"github.com/chatrpg/engine/scheduler"
	"go.uber.org/zap"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(nil)

	// ---- Cache ----
	c, err := cache.NewCache(cache.CacheConfig{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Game Services ----
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	players := player.NewService(db, c, cfg.Game, logger)
	bags := inventory.NewService(db, players, logger)
	cbt := combat.NewService(cfg.Game, rng, logger)
	quests := quest.NewService(db, players, bags, logger)
	achievements := achievement.NewService(db, players, logger)
	guilds := guild.NewService(db, players, cfg.Game, logger)
	dailies := daily.NewService(db, players, bags, cfg.Game, rng, logger)
	consumables := consumable.NewService(players, bags, c, logger)
	crafts := craft.NewService(players, bags, cbt, logger)
	actions := action.NewService(players, bags, cbt, quests, achievements, guilds, dailies, consumables, cfg.Game, logger)

	hooks := hook.NewHookCenter()
	hooks.Register(hook.OnPlayerLevelUp, 0, "core.log", func(_ context.Context, _ string, data interface{}) (interface{}, error) {
		logger.Info("player leveled up", zap.Any("levels", data))
		return data, nil
	})
	hooks.Register(hook.OnAchievement, 0, "core.log", func(_ context.Context, _ string, data interface{}) (interface{}, error) {
		logger.Info("achievement unlocked", zap.Any("unlocks", data))
		return data, nil
	})
	actions.UseHooks(hooks)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	sched.AddTicker("leaderboard_refresh", 5*time.Minute, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := players.RefreshBoards(ctx); err != nil {
			logger.Warn("leaderboard refresh failed", zap.Error(err))
		}
	})

	// ---- HTTP ----
	r := rest.NewRouter(rest.Deps{
		DB:           db,
		Cache:        c,
		Cfg:          cfg,
		Players:      players,
		Bags:         bags,
		Actions:      actions,
		Crafts:       crafts,
		Quests:       quests,
		Achievements: achievements,
		Guilds:       guilds,
		Dailies:      dailies,
		Consumables:  consumables,
		Audits:       auditSvc,
		Sched:        sched,
		Logger:       logger,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
