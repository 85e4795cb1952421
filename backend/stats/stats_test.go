package stats

import (
	"testing"
	"time"

	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/keycodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func days(t *testing.T, ss ...string) []Day {
	t.Helper()
	out := make([]Day, len(ss))
	for i, s := range ss {
		d, err := ParseDay(s)
		require.NoError(t, err)
		out[i] = d
	}
	return out
}

func day(t *testing.T, s string) Day {
	t.Helper()
	return days(t, s)[0]
}

func TestStreaks(t *testing.T) {
	cases := []struct {
		name             string
		solved           []string
		today            string
		current, longest int
	}{
		{"empty", nil, "2024-01-03", 0, 0},
		{"three in a row", []string{"2024-01-01", "2024-01-02", "2024-01-03"}, "2024-01-03", 3, 3},
		{"gap", []string{"2024-01-01", "2024-01-03"}, "2024-01-03", 1, 1},
		{"lapsed", []string{"2024-01-01", "2024-01-02"}, "2024-01-04", 0, 2},
		{"yesterday still counts", []string{"2024-01-01", "2024-01-02"}, "2024-01-03", 2, 2},
		{"duplicates and timestamps", []string{"2024-01-02T23:10:00Z", "2024-01-02", "2024-01-03T08:00:00+05:30"}, "2024-01-03", 2, 2},
		{"month boundary", []string{"2024-02-28", "2024-02-29", "2024-03-01"}, "2024-03-01", 3, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ds := days(t, tc.solved...)
			assert.Equal(t, tc.current, CurrentStreak(ds, day(t, tc.today)))
			assert.Equal(t, tc.longest, LongestStreak(ds))
		})
	}
}

func TestDayParsing(t *testing.T) {
	d := day(t, "2024-01-03")
	assert.Equal(t, "2024-01-03", d.String())
	assert.Equal(t, d, DayOf(time.Date(2024, 1, 3, 23, 59, 0, 0, time.FixedZone("x", -8*3600))))
	assert.Equal(t, Day(0), day(t, "1970-01-01"))

	for _, bad := range []string{"", "2024-1-3", "2024-13-01", "yesterday"} {
		_, err := ParseDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestWeeklyCounts(t *testing.T) {
	// 2024-01-03 is a Wednesday
	ds := days(t, "2023-12-27", "2023-12-28", "2024-01-01", "2024-01-03", "2024-01-03", "2024-01-04")
	got := WeeklyCounts(ds, day(t, "2024-01-03"))
	assert.Equal(t, [7]int{1, 0, 1, 1, 0, 0, 0}, got)
}

func TestPercentComplete(t *testing.T) {
	assert.Equal(t, 0, PercentComplete(0, 0))
	assert.Equal(t, 100, PercentComplete(5, 5))
	assert.Equal(t, 33, PercentComplete(1, 3))
	assert.Equal(t, 67, PercentComplete(2, 3))
	assert.Equal(t, 50, PercentComplete(1, 2))
	assert.Equal(t, 100, PercentComplete(7, 5))
	assert.Equal(t, 0, PercentComplete(-1, 5))
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(`
topics:
  - name: Arrays
    problems:
      - {title: Two Sum, link: "#", difficulty: Easy}
      - {title: 3Sum, link: "#", difficulty: Medium}
  - name: Graphs
    problems:
      - {title: Clone Graph, link: "#", difficulty: Medium}
      - {title: Word Ladder, link: "#", difficulty: Hard}
      - {title: Graph Theory, link: "#", difficulty: Concept}
  - name: Empty
    problems: []
`), []byte(`
plans:
  - id: sprint
    type: challenge
    schedule:
      - day: 1
        problems:
          - {title: Two Sum, link: "#", difficulty: Easy}
      - day: 2
        problems:
          - {title: Clone Graph, link: "#", difficulty: Medium}
          - {title: Word Ladder, link: "#", difficulty: Hard}
  - id: picks
    type: custom
    select: [{topic: Graphs, count: 2}]
  - id: explorer
    type: topic
`))
	require.NoError(t, err)
	return c
}

func TestTopicAndDifficultyTotalsAgree(t *testing.T) {
	c := testCatalog(t)
	progress := map[string]bool{
		keycodec.TopicKey("Arrays", "Two Sum"):      true,
		keycodec.TopicKey("Graphs", "Graph Theory"): true,
		keycodec.TopicKey("Graphs", "Word Ladder"):  false,
		keycodec.DayKey("sprint", 1, "Word Ladder"): true,
	}

	total, solved := 0, 0
	for _, name := range c.TopicNames() {
		counts := TopicStats(c, progress, name)
		total += counts.Total
		solved += counts.Solved
	}
	diff := GlobalDifficultyStats(c, progress)
	assert.Equal(t, total, diff.Easy.Total+diff.Medium.Total+diff.Hard.Total+diff.Unclassified)
	assert.Equal(t, 1, diff.Unclassified)
	assert.Equal(t, Counts{Solved: 1, Total: 1}, diff.Easy)
	assert.Equal(t, Counts{Solved: 0, Total: 1}, diff.Hard, "day keys do not count toward topics")
	assert.Equal(t, 2, solved)

	assert.Equal(t, Counts{}, TopicStats(c, progress, "Empty"))
	assert.Equal(t, Counts{}, TopicStats(c, progress, "Missing"))
}

func TestRecommendNextTopic(t *testing.T) {
	c := testCatalog(t)
	next, ok := RecommendNextTopic(c, nil)
	require.True(t, ok)
	assert.Equal(t, "Arrays", next, "first topic wins ties")

	progress := map[string]bool{keycodec.TopicKey("Graphs", "Clone Graph"): true}
	next, _ = RecommendNextTopic(c, progress)
	assert.Equal(t, "Arrays", next)

	progress[keycodec.TopicKey("Arrays", "Two Sum")] = true
	progress[keycodec.TopicKey("Arrays", "3Sum")] = true
	next, _ = RecommendNextTopic(c, progress)
	assert.Equal(t, "Empty", next, "empty topics rank as zero")

	_, ok = RecommendNextTopic(&catalog.Catalog{}, nil)
	assert.False(t, ok)
}

func TestPlanAndDayStats(t *testing.T) {
	c := testCatalog(t)
	progress := map[string]bool{
		keycodec.DayKey("sprint", 1, "Word Ladder"): true,
		keycodec.PlanKey("picks", "Clone Graph"):    true,
		keycodec.TopicKey("Arrays", "Two Sum"):      true,
	}
	sprint, _ := c.Plan("sprint")
	assert.Equal(t, Counts{Solved: 1, Total: 3}, PlanStats(sprint, c, progress))
	assert.Equal(t, Counts{Solved: 0, Total: 1}, DayStats(sprint, 0, progress))
	assert.Equal(t, Counts{Solved: 1, Total: 2}, DayStats(sprint, 1, progress))
	assert.Equal(t, Counts{}, DayStats(sprint, 5, progress))

	picks, _ := c.Plan("picks")
	assert.Equal(t, Counts{Solved: 1, Total: 2}, PlanStats(picks, c, progress))

	explorer, _ := c.Plan("explorer")
	assert.Equal(t, Counts{Solved: 1, Total: 5}, PlanStats(explorer, c, progress))
}

func TestBadges(t *testing.T) {
	assert.Empty(t, Badges(9, 6))
	got := Badges(100, 7)
	ids := make([]string, len(got))
	for i, b := range got {
		ids[i] = b.ID
	}
	assert.Equal(t, []string{"10", "50", "100", "7streak"}, ids)
}

func TestCompute(t *testing.T) {
	c := testCatalog(t)
	progress := map[string]bool{keycodec.TopicKey("Arrays", "Two Sum"): true}
	ds := days(t, "2024-01-02", "2024-01-03")
	s := Compute(c, progress, ds, day(t, "2024-01-03"))

	assert.Equal(t, Counts{Solved: 1, Total: 5}, s.Overall)
	assert.Equal(t, 20, s.Percent)
	require.Len(t, s.Topics, 3)
	assert.Equal(t, Summary{Name: "Arrays", Solved: 1, Total: 2, Percent: 50}, s.Topics[0])
	require.Len(t, s.Plans, 3)
	assert.Equal(t, "sprint", s.Plans[0].Name)
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 2, s.LongestStreak)
	assert.Equal(t, "Graphs", s.NextTopic)
	assert.Equal(t, 2, s.SolvedDays)
	assert.Empty(t, s.Badges)
}
