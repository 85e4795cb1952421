package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/docstore"
	"github.com/kasyap600/AlgoPath/backend/keycodec"
	"github.com/kasyap600/AlgoPath/backend/models"
	"github.com/kasyap600/AlgoPath/backend/profile"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/kasyap600/AlgoPath/backend/stats"
	"github.com/kasyap600/AlgoPath/backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type testEnv struct {
	app      *fiber.App
	cat      *catalog.Catalog
	sessions *progress.Sessions
	token    string
}

func newTestEnv(t *testing.T, store docstore.Store) *testEnv {
	t.Helper()
	cfg := &config.Config{JWTSecret: "test-secret", DefaultTimezone: "UTC"}
	cat, err := catalog.Default()
	require.NoError(t, err)
	sessions := progress.NewSessions(store, time.Hour)
	t.Cleanup(func() { _ = sessions.Close(context.Background()) })

	app := fiber.New()
	SetupRoutes(app, cat, sessions, profile.NewService(store), cfg)
	token, err := utils.GenerateJWTToken("alice", cfg)
	require.NoError(t, err)
	return &testEnv{app: app, cat: cat, sessions: sessions, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != fiber.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func (e *testEnv) flush(t *testing.T) {
	t.Helper()
	s, ok := e.sessions.Get("alice")
	require.True(t, ok)
	require.NoError(t, s.Flush(context.Background()))
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestRequiresToken(t *testing.T) {
	e := newTestEnv(t, docstore.NewMemory())

	resp, err := e.app.Test(httptest.NewRequest("GET", "/api/topics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = e.app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTopics(t *testing.T) {
	e := newTestEnv(t, docstore.NewMemory())

	status, env := e.do(t, "GET", "/api/topics", nil)
	require.Equal(t, fiber.StatusOK, status)
	topics := decode[[]models.TopicSummary](t, env)
	require.Len(t, topics, len(e.cat.Topics))
	assert.Equal(t, "Arrays", topics[0].Name)
	assert.Zero(t, topics[0].Solved)

	status, env = e.do(t, "POST", "/api/topics/Arrays/toggle", map[string]string{"title": "Two Sum"})
	require.Equal(t, fiber.StatusOK, status)
	toggled := decode[models.ToggleResult](t, env)
	assert.True(t, toggled.Solved)
	assert.Equal(t, keycodec.TopicKey("Arrays", "Two Sum"), toggled.Key)
	e.flush(t)

	status, env = e.do(t, "GET", "/api/topics/Arrays", nil)
	require.Equal(t, fiber.StatusOK, status)
	detail := decode[models.TopicDetail](t, env)
	assert.Equal(t, 1, detail.Solved)
	assert.True(t, detail.Problems[0].Solved)
	assert.Equal(t, "saved", detail.Problems[0].State)
	assert.False(t, detail.Problems[1].Solved)

	status, _ = e.do(t, "GET", "/api/topics/Nope", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = e.do(t, "POST", "/api/topics/Arrays/toggle", map[string]string{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, env = e.do(t, "POST", "/api/topics/Arrays/toggle", map[string]string{"title": "Not A Problem"})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestPlans(t *testing.T) {
	e := newTestEnv(t, docstore.NewMemory())
	thirty, _ := e.cat.Plan("30-days")
	first := thirty.Schedule[0].Problems[0].Title

	status, env := e.do(t, "GET", "/api/plans", nil)
	require.Equal(t, fiber.StatusOK, status)
	plans := decode[[]models.PlanSummary](t, env)
	assert.Len(t, plans, len(e.cat.Plans()))

	day := 0
	status, env = e.do(t, "POST", "/api/plans/30-days/toggle", map[string]any{"title": first, "day": day})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, keycodec.DayKey("30-days", 0, first), decode[models.ToggleResult](t, env).Key)

	status, _ = e.do(t, "POST", "/api/plans/30-days/toggle", map[string]any{"title": first})
	assert.Equal(t, fiber.StatusBadRequest, status, "challenge plans need a day")
	status, _ = e.do(t, "POST", "/api/plans/beginner-to-advance/toggle", map[string]any{"title": "Two Sum"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = e.do(t, "PUT", "/api/plans/30-days/days/1", map[string]bool{"solved": true})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, len(thirty.Schedule[1].Problems), decode[models.DayUpdateResult](t, env).Keys)
	e.flush(t)

	status, env = e.do(t, "GET", "/api/plans/30-days", nil)
	require.Equal(t, fiber.StatusOK, status)
	detail := decode[models.PlanDetail](t, env)
	require.Len(t, detail.Schedule, 30)
	assert.Equal(t, 1, detail.Schedule[0].Solved)
	assert.True(t, detail.Schedule[1].Complete)
	assert.Equal(t, thirty.Schedule[1].Number, detail.Schedule[1].Day)
	assert.Equal(t, 1+len(thirty.Schedule[1].Problems), detail.Solved)

	status, env = e.do(t, "GET", "/api/plans/150-must-solve", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[models.PlanDetail](t, env).List, 120)

	status, _ = e.do(t, "PUT", "/api/plans/30-days/days/99", map[string]bool{"solved": true})
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = e.do(t, "PUT", "/api/plans/30-days/days/x", map[string]bool{"solved": true})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = e.do(t, "PUT", "/api/plans/150-must-solve/days/0", map[string]bool{"solved": true})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = e.do(t, "GET", "/api/plans/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestSetDayRequiresSolved(t *testing.T) {
	e := newTestEnv(t, docstore.NewMemory())
	thirty, _ := e.cat.Plan("30-days")

	status, _ := e.do(t, "PUT", "/api/plans/30-days/days/0", map[string]bool{"solved": true})
	require.Equal(t, fiber.StatusOK, status)
	e.flush(t)

	status, env := e.do(t, "PUT", "/api/plans/30-days/days/0", map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Request body must contain solved", env.Message)

	_, env = e.do(t, "GET", "/api/plans/30-days", nil)
	assert.Equal(t, len(thirty.Schedule[0].Problems), decode[models.PlanDetail](t, env).Schedule[0].Solved,
		"an empty body leaves the day untouched")
}

func TestSetTopicAndList(t *testing.T) {
	e := newTestEnv(t, docstore.NewMemory())
	arrays, _ := e.cat.Problems("Arrays")
	must, _ := e.cat.Plan("150-must-solve")

	status, env := e.do(t, "PUT", "/api/topics/Arrays", map[string]bool{"solved": true})
	require.Equal(t, fiber.StatusOK, status)
	result := decode[models.ScopeUpdateResult](t, env)
	assert.Equal(t, keycodec.TopicScope("Arrays"), result.Scope)
	assert.Equal(t, len(arrays), result.Keys)

	status, env = e.do(t, "PUT", "/api/plans/150-must-solve/list", map[string]bool{"solved": true})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, len(must.List), decode[models.ScopeUpdateResult](t, env).Keys)
	e.flush(t)

	_, env = e.do(t, "GET", "/api/topics/Arrays", nil)
	assert.Equal(t, len(arrays), decode[models.TopicDetail](t, env).Solved)
	_, env = e.do(t, "GET", "/api/plans/150-must-solve", nil)
	assert.Equal(t, len(must.List), decode[models.PlanDetail](t, env).Solved)

	status, _ = e.do(t, "PUT", "/api/topics/Arrays", map[string]bool{"solved": false})
	require.Equal(t, fiber.StatusOK, status)
	e.flush(t)
	_, env = e.do(t, "GET", "/api/topics/Arrays", nil)
	assert.Zero(t, decode[models.TopicDetail](t, env).Solved)
	_, env = e.do(t, "GET", "/api/plans/150-must-solve", nil)
	assert.Equal(t, len(must.List), decode[models.PlanDetail](t, env).Solved, "resetting a topic leaves the list alone")

	status, _ = e.do(t, "PUT", "/api/topics/Nope", map[string]bool{"solved": true})
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = e.do(t, "PUT", "/api/topics/Arrays", map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = e.do(t, "PUT", "/api/plans/30-days/list", map[string]bool{"solved": true})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestProgressByKey(t *testing.T) {
	e := newTestEnv(t, docstore.NewMemory())
	key := keycodec.PlanKey("150-must-solve", "Two Sum")

	status, _ := e.do(t, "POST", "/api/progress/toggle", map[string]string{"key": "Arrays::Two Sum"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = e.do(t, "POST", "/api/progress/toggle", map[string]string{"key": keycodec.TopicKey("Arrays", "Nope")})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = e.do(t, "POST", "/api/progress/toggle", map[string]string{"key": key})
	require.Equal(t, fiber.StatusOK, status)
	e.flush(t)

	status, env := e.do(t, "GET", "/api/progress", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]bool{key: true}, decode[map[string]bool](t, env))

	status, env = e.do(t, "GET", "/api/progress/status", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, models.ProgressStatus{Pending: []string{}, Failed: []string{}}, decode[models.ProgressStatus](t, env))
}

type brokenStore struct{ *docstore.Memory }

func (brokenStore) Set(context.Context, string, docstore.Document) error {
	return errors.New("store offline")
}

func TestFailedWriteIsReported(t *testing.T) {
	e := newTestEnv(t, brokenStore{docstore.NewMemory()})
	key := keycodec.TopicKey("Arrays", "Two Sum")

	status, env := e.do(t, "POST", "/api/topics/Arrays/toggle", map[string]string{"title": "Two Sum"})
	require.Equal(t, fiber.StatusOK, status, "write failures are not request failures")
	assert.True(t, decode[models.ToggleResult](t, env).Solved)
	e.flush(t)

	_, env = e.do(t, "GET", "/api/progress/status", nil)
	assert.Equal(t, []string{key}, decode[models.ProgressStatus](t, env).Failed)
	_, env = e.do(t, "GET", "/api/progress", nil)
	assert.Empty(t, decode[map[string]bool](t, env))
	_, env = e.do(t, "GET", "/api/topics/Arrays", nil)
	assert.Equal(t, "failed", decode[models.TopicDetail](t, env).Problems[0].State)
}

func TestStatsAndStreak(t *testing.T) {
	e := newTestEnv(t, docstore.NewMemory())
	e.do(t, "POST", "/api/topics/Arrays/toggle", map[string]string{"title": "Two Sum"})

	status, env := e.do(t, "POST", "/api/streak/today", map[string]string{"date": "2024-01-02"})
	require.Equal(t, fiber.StatusOK, status)
	view := decode[models.StreakView](t, env)
	assert.True(t, view.Added)
	assert.Equal(t, []string{"2024-01-02"}, view.Days)
	assert.Equal(t, 1, view.Longest)

	status, env = e.do(t, "POST", "/api/streak/today", nil, "X-Timezone", "Asia/Kolkata")
	require.Equal(t, fiber.StatusOK, status)
	view = decode[models.StreakView](t, env)
	assert.Equal(t, 1, view.Current)
	assert.Contains(t, view.Days, view.Today)
	assert.NotNil(t, view.LastSolveAt)

	status, _ = e.do(t, "POST", "/api/streak/today", map[string]string{"date": "01/02/2024"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = e.do(t, "GET", "/api/streak", nil, "X-Timezone", "Nowhere/Special")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = e.do(t, "GET", "/api/stats", nil, "X-Timezone", "Asia/Kolkata")
	require.Equal(t, fiber.StatusOK, status)
	snap := decode[stats.Snapshot](t, env)
	assert.Equal(t, 1, snap.Overall.Solved)
	assert.Equal(t, 204, snap.Overall.Total)
	assert.Equal(t, 1, snap.Difficulty.Easy.Solved)
	assert.Equal(t, 1, snap.CurrentStreak)
	assert.Equal(t, 2, snap.SolvedDays)
}

func TestNotesAndSessionEnd(t *testing.T) {
	store := docstore.NewMemory()
	e := newTestEnv(t, store)
	key := keycodec.TopicKey("Arrays", "Two Sum")

	status, _ := e.do(t, "PUT", "/api/notes", models.Note{Key: key, Text: "one pass with a map"})
	require.Equal(t, fiber.StatusOK, status)
	status, _ = e.do(t, "PUT", "/api/notes", models.Note{Key: "bad", Text: "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env := e.do(t, "GET", "/api/notes", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []models.Note{{Key: key, Text: "one pass with a map"}}, decode[[]models.Note](t, env))

	_, env = e.do(t, "GET", "/api/topics/Arrays", nil)
	assert.True(t, decode[models.TopicDetail](t, env).Problems[0].HasNote)

	status, _ = e.do(t, "DELETE", "/api/session", nil)
	assert.Equal(t, http.StatusNoContent, status)
	_, ok := e.sessions.Get("alice")
	assert.False(t, ok)

	doc, ok, err := store.Get(context.Background(), "users/alice/notes/problems")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "one pass with a map", doc.Strings()[key])
}

func TestPrefsActivityAndExport(t *testing.T) {
	e := newTestEnv(t, docstore.NewMemory())

	status, env := e.do(t, "GET", "/api/prefs", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, profile.Prefs{}, decode[profile.Prefs](t, env))

	status, env = e.do(t, "PATCH", "/api/prefs", map[string]any{"display_name": "Alice", "public_profile": true})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, profile.Prefs{DisplayName: "Alice", PublicProfile: true}, decode[profile.Prefs](t, env))
	status, _ = e.do(t, "PATCH", "/api/prefs", map[string]any{"display_name": string(bytes.Repeat([]byte("x"), profile.MaxDisplayName+1))})
	assert.Equal(t, fiber.StatusBadRequest, status)

	e.do(t, "POST", "/api/topics/Arrays/toggle", map[string]string{"title": "Two Sum"})
	e.do(t, "POST", "/api/topics/Arrays/toggle", map[string]string{"title": "3Sum"})
	e.flush(t)

	status, env = e.do(t, "GET", "/api/activity", nil)
	require.Equal(t, fiber.StatusOK, status)
	recent := decode[[]profile.RecentSolve](t, env)
	require.Len(t, recent, 2)
	assert.NotNil(t, recent[0].SolvedAt)

	req := httptest.NewRequest("GET", "/api/export", nil)
	req.Header.Set("Authorization", "Bearer "+e.token)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "algopath-profile-alice.json")
	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	export := decode[profile.Export](t, out)
	assert.Equal(t, "Alice", export.Prefs.DisplayName)
	assert.Equal(t, 2, export.Stats.Overall.Solved)
	assert.Len(t, export.Progress, 2)
}

func TestPublicProfile(t *testing.T) {
	e := newTestEnv(t, docstore.NewMemory())
	e.do(t, "POST", "/api/topics/Arrays/toggle", map[string]string{"title": "Two Sum"})
	e.flush(t)

	get := func(id string) int {
		resp, err := e.app.Test(httptest.NewRequest("GET", "/public/users/"+id, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	assert.Equal(t, fiber.StatusNotFound, get("alice"), "profiles are private until shared")
	assert.Equal(t, fiber.StatusNotFound, get("nobody"))

	e.do(t, "PATCH", "/api/prefs", map[string]any{"public_profile": true})
	status, env := e.do(t, "GET", "/public/users/alice", nil)
	require.Equal(t, fiber.StatusOK, status)
	pub := decode[profile.Public](t, env)
	assert.Equal(t, 1, pub.Solved)
	assert.Equal(t, 204, pub.Total)
}

func TestProblemLogRoutes(t *testing.T) {
	e := newTestEnv(t, docstore.NewMemory())

	status, _ := e.do(t, "POST", "/api/problems", map[string]string{"title": "Div2 C"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env := e.do(t, "POST", "/api/problems", map[string]string{
		"title": "Div2 C", "platform": "Codeforces", "date": "2024-02-10", "difficulty": "Hard",
	})
	require.Equal(t, fiber.StatusCreated, status)
	entry := decode[profile.Entry](t, env)
	assert.Equal(t, profile.StatusUnsolved, entry.Status)

	status, env = e.do(t, "PATCH", "/api/problems/"+entry.ID, map[string]string{"platform": "AtCoder"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "AtCoder", decode[profile.Entry](t, env).Platform)

	status, env = e.do(t, "POST", "/api/problems/"+entry.ID+"/status", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, profile.StatusInProgress, decode[profile.Entry](t, env).Status)

	status, env = e.do(t, "GET", "/api/problems", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]profile.Entry](t, env), 1)

	status, _ = e.do(t, "DELETE", "/api/problems/"+entry.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = e.do(t, "DELETE", "/api/problems/"+entry.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = e.do(t, "PATCH", "/api/problems/not-an-id", map[string]string{"title": "x"})
	assert.Equal(t, fiber.StatusNotFound, status)
}
