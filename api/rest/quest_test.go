package rest_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", "pass1234")
	p := ts.playerOf(t, "alice")
	ts.pump(t, p, map[string]interface{}{"attack": 1000, "defense": 1000})

	w := ts.do(http.MethodGet, "/api/quests/available", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["quests"])

	w = ts.do(http.MethodPost, "/api/quests/accept", token,
		map[string]string{"quest_id": "first_hunt"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Accepting again conflicts.
	w = ts.do(http.MethodPost, "/api/quests/accept", token,
		map[string]string{"quest_id": "first_hunt"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Not complete yet.
	w = ts.do(http.MethodPost, "/api/quests/complete", token,
		map[string]string{"quest_id": "first_hunt"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// One hunt victory satisfies the objective.
	w = ts.do(http.MethodPost, "/api/actions/hunt", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(http.MethodGet, "/api/quests/active", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	active := decode(t, w)["quests"].([]interface{})
	require.Len(t, active, 1)
	assert.Equal(t, true, active[0].(map[string]interface{})["done"])

	w = ts.do(http.MethodPost, "/api/quests/complete", token,
		map[string]string{"quest_id": "first_hunt"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	result := body["result"].(map[string]interface{})
	assert.Equal(t, "goblin_slayer", result["next_quest"])

	// The turn-in itself sweeps achievements, so the first completed
	// quest unlocks without waiting for the next timed action.
	var unlocked []string
	for _, u := range body["achievements"].([]interface{}) {
		ach := u.(map[string]interface{})["achievement"].(map[string]interface{})
		unlocked = append(unlocked, ach["ID"].(string))
	}
	assert.Contains(t, unlocked, "first_quest")
}

func TestQuestUnknown(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", "pass1234")

	w := ts.do(http.MethodPost, "/api/quests/accept", token,
		map[string]string{"quest_id": "no_such_quest"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAchievementsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", "pass1234")

	w := ts.do(http.MethodGet, "/api/achievements", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["achievements"])
}

func TestDailyChallengesEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "alice", "pass1234")

	w := ts.do(http.MethodGet, "/api/daily/challenges", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	set := decode(t, w)["challenges"].([]interface{})
	assert.Len(t, set, ts.cfg.Game.DailyChallengeSize)

	// Unmet claims are rejected.
	first := set[0].(map[string]interface{})["challenge"].(map[string]interface{})
	id := first["ID"].(string)
	w = ts.do(http.MethodPost, "/api/daily/challenges/"+id+"/claim", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
