// Package stats folds a progress snapshot, the catalog and the solve days
// into the numbers shown on topic, plan and profile pages. Every function
// is pure; callers pass copies.
package stats

import (
	"math"

	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/keycodec"
)

type Counts struct {
	Solved int `json:"solved"`
	Total  int `json:"total"`
}

func (c Counts) Percent() int { return PercentComplete(c.Solved, c.Total) }

func (c *Counts) add(solved bool) {
	c.Total++
	if solved {
		c.Solved++
	}
}

// DifficultyCounts buckets problems by graded difficulty. Problems with any
// other label are counted in Unclassified only.
type DifficultyCounts struct {
	Easy         Counts `json:"easy"`
	Medium       Counts `json:"medium"`
	Hard         Counts `json:"hard"`
	Unclassified int    `json:"unclassified"`
}

func (d *DifficultyCounts) add(diff catalog.Difficulty, solved bool) {
	switch diff {
	case catalog.Easy:
		d.Easy.add(solved)
	case catalog.Medium:
		d.Medium.add(solved)
	case catalog.Hard:
		d.Hard.add(solved)
	default:
		d.Unclassified++
	}
}

func PercentComplete(solved, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Floor(float64(solved)/float64(total)*100 + 0.5))
	return min(max(p, 0), 100)
}

func TopicStats(c *catalog.Catalog, progress map[string]bool, topic string) Counts {
	var out Counts
	problems, _ := c.Problems(topic)
	for _, p := range problems {
		out.add(progress[keycodec.TopicKey(topic, p.Title)])
	}
	return out
}

// GlobalDifficultyStats visits every topic problem once.
func GlobalDifficultyStats(c *catalog.Catalog, progress map[string]bool) DifficultyCounts {
	var out DifficultyCounts
	for _, t := range c.Topics {
		for _, p := range t.Problems {
			out.add(p.Difficulty, progress[keycodec.TopicKey(t.Name, p.Title)])
		}
	}
	return out
}

// RecommendNextTopic picks the topic with the lowest solved ratio. Empty
// topics rank as 0 and the first topic wins ties.
func RecommendNextTopic(c *catalog.Catalog, progress map[string]bool) (string, bool) {
	best, bestRatio := "", math.Inf(1)
	for _, t := range c.Topics {
		counts := TopicStats(c, progress, t.Name)
		ratio := 0.0
		if counts.Total > 0 {
			ratio = float64(counts.Solved) / float64(counts.Total)
		}
		if ratio < bestRatio {
			best, bestRatio = t.Name, ratio
		}
	}
	return best, len(c.Topics) > 0
}

// PlanStats counts a plan's own keys. Topic plans count every topic problem.
func PlanStats(p catalog.Plan, c *catalog.Catalog, progress map[string]bool) Counts {
	var out Counts
	if p.Type == catalog.PlanTopic {
		for _, t := range c.Topics {
			tc := TopicStats(c, progress, t.Name)
			out.Solved += tc.Solved
			out.Total += tc.Total
		}
		return out
	}
	for _, key := range p.Keys() {
		out.add(progress[key])
	}
	return out
}

// DayStats counts one day of a challenge plan by 0-based index.
func DayStats(p catalog.Plan, day int, progress map[string]bool) Counts {
	var out Counts
	for _, key := range p.DayKeys(day) {
		out.add(progress[key])
	}
	return out
}

type Badge struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func Badges(solved, currentStreak int) []Badge {
	var out []Badge
	if solved >= 10 {
		out = append(out, Badge{"10", "Solver 10"})
	}
	if solved >= 50 {
		out = append(out, Badge{"50", "50 Solves"})
	}
	if solved >= 100 {
		out = append(out, Badge{"100", "100 Problems"})
	}
	if currentStreak >= 7 {
		out = append(out, Badge{"7streak", "7-day Streak"})
	}
	return out
}

type Summary struct {
	Name    string `json:"name"`
	Solved  int    `json:"solved"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
}

func summarize(name string, c Counts) Summary {
	return Summary{Name: name, Solved: c.Solved, Total: c.Total, Percent: c.Percent()}
}

type Snapshot struct {
	Topics        []Summary        `json:"topics"`
	Difficulty    DifficultyCounts `json:"difficulty"`
	Overall       Counts           `json:"overall"`
	Percent       int              `json:"percent"`
	Plans         []Summary        `json:"plans"`
	CurrentStreak int              `json:"current_streak"`
	LongestStreak int              `json:"longest_streak"`
	NextTopic     string           `json:"next_topic,omitempty"`
	Weekly        [7]int           `json:"weekly"`
	Badges        []Badge          `json:"badges"`
	SolvedDays    int              `json:"solved_days"`
}

// Compute builds the full profile snapshot. Overall counts cover the topic
// catalog; plan keys are reported per plan only.
func Compute(c *catalog.Catalog, progress map[string]bool, days []Day, today Day) Snapshot {
	s := Snapshot{
		Topics:     make([]Summary, 0, len(c.Topics)),
		Difficulty: GlobalDifficultyStats(c, progress),
	}
	for _, t := range c.Topics {
		counts := TopicStats(c, progress, t.Name)
		s.Topics = append(s.Topics, summarize(t.Name, counts))
		s.Overall.Solved += counts.Solved
		s.Overall.Total += counts.Total
	}
	s.Percent = s.Overall.Percent()
	for _, p := range c.Plans() {
		s.Plans = append(s.Plans, summarize(p.ID, PlanStats(p, c, progress)))
	}
	s.NextTopic, _ = RecommendNextTopic(c, progress)
	s.CurrentStreak = CurrentStreak(days, today)
	s.LongestStreak = LongestStreak(days)
	s.Weekly = WeeklyCounts(days, today)
	s.Badges = Badges(s.Overall.Solved, s.CurrentStreak)
	s.SolvedDays = len(distinct(days))
	return s
}
