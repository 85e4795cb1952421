package controllers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/docstore"
	"github.com/kasyap600/AlgoPath/backend/models"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreakUsesCallerTimezone(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	require.NoError(t, store.Set(ctx, "users/u1/meta/metaDoc", docstore.Document{
		"solvedDates": []string{"2024-03-09", "2024-03-10"},
	}))
	cat, err := catalog.Default()
	require.NoError(t, err)
	sessions := progress.NewSessions(store, time.Hour)
	defer sessions.Close(ctx)

	sc := NewStatsController(cat, sessions, &config.Config{DefaultTimezone: "UTC"})
	// 2024-03-11 02:00 UTC is still 2024-03-10 in New York
	sc.Now = func() time.Time { return time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC) }

	app := fiber.New()
	app.Get("/streak", func(c *fiber.Ctx) error {
		c.Locals("user_id", "u1")
		return c.Next()
	}, sc.GetStreak)

	get := func(tz string) models.StreakView {
		req := httptest.NewRequest("GET", "/streak", nil)
		if tz != "" {
			req.Header.Set(HeaderTimezone, tz)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var body struct {
			Data models.StreakView `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body.Data
	}

	utc := get("")
	assert.Equal(t, "2024-03-11", utc.Today)
	assert.Equal(t, 2, utc.Current, "yesterday still counts")

	ny := get("America/New_York")
	assert.Equal(t, "2024-03-10", ny.Today)
	assert.Equal(t, 2, ny.Current)
	assert.Equal(t, 2, ny.Longest)
	// 2024-03-10 is a Sunday
	assert.Equal(t, [7]int{0, 0, 0, 0, 0, 1, 1}, ny.Weekly)
}
