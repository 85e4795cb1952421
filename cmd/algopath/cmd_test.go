package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kasyap600/AlgoPath/backend/config"
	"github.com/kasyap600/AlgoPath/backend/docstore"
	"github.com/kasyap600/AlgoPath/backend/keycodec"
	"github.com/kasyap600/AlgoPath/backend/profile"
	"github.com/kasyap600/AlgoPath/backend/stats"
	"github.com/kasyap600/AlgoPath/backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "algopath.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", dbPath)
	t.Setenv("JWT_SECRET", "cli-test-secret")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DEFAULT_TIMEZONE", "UTC")
	return dbPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	e := &env{}
	cmd := newRootCmd(e)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if cerr := e.close(); err == nil {
		err = cerr
	}
	return out.String(), err
}

func readDoc(t *testing.T, path string) docstore.Document {
	t.Helper()
	store, err := docstore.NewSQLite(context.Background(), os.Getenv("SQLITE_PATH"))
	require.NoError(t, err)
	defer store.Close()
	doc, ok, err := store.Get(context.Background(), path)
	require.NoError(t, err)
	require.True(t, ok)
	return doc
}

func TestCatalogCheck(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "catalog", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Problems: 204")
	assert.Contains(t, out, "30-days")
	assert.Contains(t, out, "OK")
}

func TestCatalogCheckReportsInvalidDir(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "problems.yaml"), []byte(`
topics:
  - name: Arrays
    problems:
      - {title: Two Sum, link: "#", difficulty: Easy}
      - {title: Two Sum, link: "#", difficulty: Easy}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plans.yaml"), []byte("plans: []\n"), 0o644))

	_, err := run(t, "catalog", "check", "--dir", dir)
	assert.ErrorContains(t, err, "duplicate title")
}

func TestTokenRoundTrip(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "token", "user-42")
	require.NoError(t, err)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	id, err := utils.ParseUserID(strings.TrimSpace(out), cfg)
	require.NoError(t, err)
	assert.Equal(t, "user-42", id)
}

func TestMarkThenStats(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "mark", "u1", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "marked 2024-03-01")

	out, err = run(t, "mark", "u1", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "already marked")

	_, err = run(t, "mark", "u1", "2024-03-02")
	require.NoError(t, err)

	path, err := docstore.MetaPath("u1")
	require.NoError(t, err)
	doc := readDoc(t, path)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02"}, doc.StringSlice("solvedDates"))

	out, err = run(t, "stats", "u1", "--today", "2024-03-02", "--json")
	require.NoError(t, err)
	var snap stats.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, 2, snap.CurrentStreak)
	assert.Equal(t, 2, snap.LongestStreak)
	assert.Equal(t, 204, snap.Overall.Total)
}

func TestExport(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "mark", "u1", "2024-03-01")
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "u1.json")
	_, err = run(t, "export", "u1", "-o", file)
	require.NoError(t, err)
	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	var doc profile.Export
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "u1", doc.UserID)
	assert.Equal(t, []string{"2024-03-01"}, doc.SolvedDates)
	assert.Equal(t, 204, doc.Stats.Overall.Total)
}

func TestMarkRejectsBadDate(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "mark", "u1", "yesterday")
	assert.Error(t, err)
}

func TestMigrateLegacy(t *testing.T) {
	setupEnv(t)
	file := filepath.Join(t.TempDir(), "legacy.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
  "Arrays::Two Sum": true,
  "Arrays-Two Sum": false,
  "150-must-solve::Two Sum": true,
  "Arrays::Not A Problem": true
}`), 0o644))

	out, err := run(t, "migrate-legacy", "u1", file, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated: 2")
	assert.Contains(t, out, "Arrays::Not A Problem")

	_, err = run(t, "migrate-legacy", "u1", file)
	require.NoError(t, err)

	path, err := docstore.ProgressPath("u1")
	require.NoError(t, err)
	got := readDoc(t, path).Bools()
	assert.True(t, got[keycodec.TopicKey("Arrays", "Two Sum")])
	assert.True(t, got[keycodec.PlanKey("150-must-solve", "Two Sum")])
	assert.Len(t, got, 2)

	out, err = run(t, "stats", "u1", "--today", "2024-03-02")
	require.NoError(t, err)
	assert.Contains(t, out, "Solved:         1/204")
}
