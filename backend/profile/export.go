package profile

import (
	"context"
	"time"

	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/progress"
	"github.com/kasyap600/AlgoPath/backend/stats"
)

// RecentLimit is how many solves the activity feed shows.
const RecentLimit = 8

type RecentSolve struct {
	Key        string     `json:"key"`
	Title      string     `json:"title"`
	Link       string     `json:"link"`
	Difficulty string     `json:"difficulty"`
	Topic      string     `json:"topic,omitempty"`
	SolvedAt   *time.Time `json:"solved_at"`
}

// Recent lists the user's latest solves, newest first. Keys the catalog no
// longer knows keep their key with the title left empty.
func Recent(cat *catalog.Catalog, s *progress.Session, n int) []RecentSolve {
	entries := s.Activity.Recent(s.Progress.Snapshot(), n)
	out := make([]RecentSolve, 0, len(entries))
	for _, e := range entries {
		r := RecentSolve{Key: e.Key}
		if p, ok := cat.Lookup(e.Key); ok {
			r.Title, r.Link, r.Difficulty, r.Topic = p.Title, p.Link, string(p.Difficulty), p.Topic
		}
		if !e.At.IsZero() {
			at := e.At
			r.SolvedAt = &at
		}
		out = append(out, r)
	}
	return out
}

// Export is everything stored for a user, in one document.
type Export struct {
	UserID      string            `json:"user_id"`
	Prefs       Prefs             `json:"prefs"`
	Stats       stats.Snapshot    `json:"stats"`
	SolvedDates []string          `json:"solved_dates"`
	LastSolveAt *time.Time        `json:"last_solve_at,omitempty"`
	Recent      []RecentSolve     `json:"recent"`
	Progress    map[string]bool   `json:"progress"`
	Notes       map[string]string `json:"notes"`
	Problems    []Entry           `json:"problems"`
	GeneratedAt time.Time         `json:"generated_at"`
}

func (svc *Service) Export(ctx context.Context, cat *catalog.Catalog, s *progress.Session, today stats.Day, now time.Time) (Export, error) {
	prefs, err := svc.Prefs(ctx, s.UserID)
	if err != nil {
		return Export{}, err
	}
	problems, err := svc.Problems(ctx, s.UserID)
	if err != nil {
		return Export{}, err
	}
	snapshot := s.Progress.Snapshot()
	days := s.Dates.Days()

	out := Export{
		UserID:      s.UserID,
		Prefs:       prefs,
		Stats:       stats.Compute(cat, snapshot, days, today),
		SolvedDates: make([]string, len(days)),
		Recent:      Recent(cat, s, RecentLimit),
		Progress:    snapshot,
		Notes:       s.Notes.All(),
		Problems:    problems,
		GeneratedAt: now.UTC(),
	}
	for i, d := range days {
		out.SolvedDates[i] = d.String()
	}
	if last := s.Dates.LastSolveAt(); !last.IsZero() {
		out.LastSolveAt = &last
	}
	return out, nil
}

// Public is what a shared profile link shows when the user opted in.
type Public struct {
	UserID        string        `json:"user_id"`
	DisplayName   string        `json:"display_name"`
	Solved        int           `json:"solved"`
	Total         int           `json:"total"`
	Percent       int           `json:"percent"`
	CurrentStreak int           `json:"current_streak"`
	LongestStreak int           `json:"longest_streak"`
	Badges        []stats.Badge `json:"badges"`
}

// PublicOf builds the shared profile from prefs and a stats snapshot.
// Callers must check prefs.PublicProfile first.
func PublicOf(userID string, prefs Prefs, snap stats.Snapshot) Public {
	return Public{
		UserID:        userID,
		DisplayName:   prefs.DisplayName,
		Solved:        snap.Overall.Solved,
		Total:         snap.Overall.Total,
		Percent:       snap.Percent,
		CurrentStreak: snap.CurrentStreak,
		LongestStreak: snap.LongestStreak,
		Badges:        snap.Badges,
	}
}
