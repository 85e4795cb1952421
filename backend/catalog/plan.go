package catalog

import (
	"math/rand/v2"

	"github.com/kasyap600/AlgoPath/backend/keycodec"
)

type PlanType string

const (
	PlanTopic     PlanType = "topic"
	PlanCustom    PlanType = "custom"
	PlanChallenge PlanType = "challenge"
)

type Selection struct {
	Topic string `yaml:"topic" json:"topic"`
	Count int    `yaml:"count" json:"count"`
}

// Day is one day of a challenge plan. Number is the 1-based label shown to
// users; keys use the 0-based position in Plan.Schedule.
type Day struct {
	Number   int       `yaml:"day" json:"day"`
	Problems []Problem `yaml:"problems" json:"problems"`
}

type Plan struct {
	ID          string      `yaml:"id" json:"id"`
	Title       string      `yaml:"title" json:"title"`
	Description string      `yaml:"description" json:"description"`
	Type        PlanType    `yaml:"type" json:"type"`
	Tag         string      `yaml:"tag,omitempty" json:"tag,omitempty"`
	Days        int         `yaml:"days,omitempty" json:"days,omitempty"`
	Limit       int         `yaml:"limit,omitempty" json:"limit,omitempty"`
	Select      []Selection `yaml:"select,omitempty" json:"-"`
	List        []Problem   `yaml:"list,omitempty" json:"list,omitempty"`
	Schedule    []Day       `yaml:"schedule,omitempty" json:"schedule,omitempty"`
}

// Scope is the key scope holding the plan's progress. Topic plans have no
// scope of their own; they read the topic-scoped keys.
func (p Plan) Scope() string {
	switch p.Type {
	case PlanCustom:
		return keycodec.ListScope(p.ID)
	case PlanChallenge:
		return keycodec.PlanScope(p.ID)
	}
	return ""
}

// Keys lists every progress key of the plan in display order.
func (p Plan) Keys() []string {
	var keys []string
	switch p.Type {
	case PlanCustom:
		for _, pr := range p.List {
			keys = append(keys, keycodec.PlanKey(p.ID, pr.Title))
		}
	case PlanChallenge:
		for i := range p.Schedule {
			keys = append(keys, p.DayKeys(i)...)
		}
	}
	return keys
}

// DayKeys lists the keys of the day at 0-based index day.
func (p Plan) DayKeys(day int) []string {
	if day < 0 || day >= len(p.Schedule) {
		return nil
	}
	problems := p.Schedule[day].Problems
	keys := make([]string, len(problems))
	for i, pr := range problems {
		keys[i] = keycodec.DayKey(p.ID, day, pr.Title)
	}
	return keys
}

// Problems flattens the plan's problems in display order.
func (p Plan) Problems() []Problem {
	if p.Type == PlanCustom {
		return p.List
	}
	var out []Problem
	for _, d := range p.Schedule {
		out = append(out, d.Problems...)
	}
	return out
}

// GenerateSchedule shuffles problems with a PRNG seeded by seed and deals
// them round-robin into days. Titles repeated across topics are kept once
// so a title never appears twice in a day. total limits the number of
// problems scheduled; 0 means all.
func GenerateSchedule(problems []Problem, days, total int, seed uint64) []Day {
	if days <= 0 {
		return nil
	}
	seen := make(map[string]bool, len(problems))
	pool := make([]Problem, 0, len(problems))
	for _, p := range problems {
		if seen[p.Title] {
			continue
		}
		seen[p.Title] = true
		pool = append(pool, p)
	}

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if total > 0 && total < len(pool) {
		pool = pool[:total]
	}

	schedule := make([]Day, days)
	for i := range schedule {
		schedule[i].Number = i + 1
	}
	for i, p := range pool {
		d := &schedule[i%days]
		d.Problems = append(d.Problems, p)
	}
	return schedule
}
