// Package integration spins up the full engine behind a real HTTP
// server and drives it the way a chat frontend would.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chatrpg/engine/api/rest"
	"github.com/chatrpg/engine/config"
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
	"github.com/chatrpg/engine/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminKey is the key the harness wires into the admin endpoints.
const AdminKey = "integration-admin-key"

// TestServer wraps a real HTTP server with the whole engine wired
// together the same way main.go does it.
type TestServer struct {
	DB      *gorm.DB
	Players *player.Service
	Bags    *inventory.Service
	Hooks   *hook.HookCenter
	Server  *httptest.Server
	URL     string
}

// NewTestServer creates a fully wired engine for integration testing.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	cfg := config.Default()
	cfg.Server.Debug = true
	cfg.Server.AdminKey = AdminKey
	cfg.Security.JWTSecret = "integration-test-secret"
	cfg.Security.JWTTTLH = 72 * time.Hour
	cfg.Security.RateLimitRPS = 1000
	cfg.Security.RateLimitBurst = 2000

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
	actions.UseHooks(hooks)

	sched := scheduler.New(logger)
	t.Cleanup(sched.Stop)

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
		Audits:       nil,
		Sched:        sched,
		Logger:       logger,
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &TestServer{
		DB:      db,
		Players: players,
		Bags:    bags,
		Hooks:   hooks,
		Server:  server,
		URL:     server.URL,
	}
}

// --- HTTP helpers ---

// PostJSON sends a POST request with a JSON body and optional Bearer
// token. Extra headers come as key/value pairs.
func (ts *TestServer) PostJSON(t *testing.T, path string, body interface{}, token string, headers ...string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// Get sends a GET request with an optional Bearer token.
func (ts *TestServer) Get(t *testing.T, path string, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// ReadJSON reads and decodes a JSON response body into target.
func ReadJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target), "body: %s", string(data))
}

// Drain closes a response body whose content the test does not need.
func Drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// --- Auth helpers ---

// Login logs in (auto-registers on first call) and returns the token
// and the player auto-created for the account.
func (ts *TestServer) Login(t *testing.T, username, password string) (token string, playerID int64) {
	t.Helper()
	resp := ts.PostJSON(t, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result map[string]interface{}
	ReadJSON(t, resp, &result)
	return result["token"].(string), int64(result["player_id"].(float64))
}

// PlayerOf reloads the player record behind a username.
func (ts *TestServer) PlayerOf(t *testing.T, username string) *model.Player {
	t.Helper()
	p, err := ts.Players.GetByExternalID(context.Background(), username)
	require.NoError(t, err)
	return p
}

// Pump force-sets player columns, bypassing the services.
func (ts *TestServer) Pump(t *testing.T, p *model.Player, cols map[string]interface{}) {
	t.Helper()
	require.NoError(t, ts.DB.Model(p).Updates(cols).Error)
	require.NoError(t, ts.DB.First(p, p.ID).Error)
}

// ResetCooldowns clears every action gate through the admin API.
func (ts *TestServer) ResetCooldowns(t *testing.T, playerID int64) {
	t.Helper()
	resp := ts.PostJSON(t, fmt.Sprintf("/api/admin/players/%d/reset-cooldowns", playerID),
		nil, "", "X-Admin-Key", AdminKey)
	defer Drain(resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// UniqueID returns a short unique string suitable for usernames.
var testCounter uint64

func UniqueID(prefix string) string {
	n := atomic.AddUint64(&testCounter, 1)
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano()%100000, n)
}
