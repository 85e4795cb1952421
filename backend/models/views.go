package models

import "time"

// ProblemView is one catalog problem as seen by a user.
type ProblemView struct {
	Title      string `json:"title"`
	Link       string `json:"link"`
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic,omitempty"`
	Key        string `json:"key"`
	Solved     bool   `json:"solved"`
	State      string `json:"state"`
	HasNote    bool   `json:"has_note"`
}

type TopicSummary struct {
	Name    string `json:"name"`
	Solved  int    `json:"solved"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
}

type TopicDetail struct {
	TopicSummary
	Problems []ProblemView `json:"problems"`
}

type PlanSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Tag         string `json:"tag,omitempty"`
	Days        int    `json:"days,omitempty"`
	Solved      int    `json:"solved"`
	Total       int    `json:"total"`
	Percent     int    `json:"percent"`
}

// DayView is one day of a challenge plan. Index is 0-based, Day the label.
type DayView struct {
	Index    int           `json:"index"`
	Day      int           `json:"day"`
	Solved   int           `json:"solved"`
	Total    int           `json:"total"`
	Percent  int           `json:"percent"`
	Complete bool          `json:"complete"`
	Problems []ProblemView `json:"problems"`
}

type PlanDetail struct {
	PlanSummary
	Schedule []DayView      `json:"schedule,omitempty"`
	List     []ProblemView  `json:"list,omitempty"`
	Topics   []TopicSummary `json:"topics,omitempty"`
}

type ToggleResult struct {
	Key    string `json:"key"`
	Solved bool   `json:"solved"`
	State  string `json:"state"`
}

type DayUpdateResult struct {
	PlanID string `json:"plan_id"`
	Index  int    `json:"index"`
	Solved bool   `json:"solved"`
	Keys   int    `json:"keys"`
}

// ScopeUpdateResult reports a bulk write over a topic or a custom list.
type ScopeUpdateResult struct {
	Scope  string `json:"scope"`
	Solved bool   `json:"solved"`
	Keys   int    `json:"keys"`
}

type ProgressStatus struct {
	Pending []string `json:"pending"`
	Failed  []string `json:"failed"`
}

type StreakView struct {
	Today       string     `json:"today"`
	Days        []string   `json:"days"`
	Current     int        `json:"current"`
	Longest     int        `json:"longest"`
	Weekly      [7]int     `json:"weekly"`
	LastSolveAt *time.Time `json:"last_solve_at,omitempty"`
	Added       bool       `json:"added,omitempty"`
}

type Note struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}
