// Package catalog holds the static problem catalog and study plans.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/kasyap600/AlgoPath/backend/keycodec"
	"gopkg.in/yaml.v3"
)

//go:embed data/problems.yaml data/plans.yaml
var builtin embed.FS

const (
	problemsFile = "problems.yaml"
	plansFile    = "plans.yaml"
)

var (
	ErrUnknownTopic = errors.New("unknown topic")
	ErrUnknownPlan  = errors.New("unknown plan")
)

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Known reports whether d is one of the three graded difficulties. The
// dataset also carries labels such as "Easy/Medium" or "Concept".
func (d Difficulty) Known() bool {
	return d == Easy || d == Medium || d == Hard
}

type Problem struct {
	Title      string     `yaml:"title" json:"title"`
	Link       string     `yaml:"link" json:"link"`
	Difficulty Difficulty `yaml:"difficulty" json:"difficulty"`
	Topic      string     `yaml:"topic,omitempty" json:"topic,omitempty"`
}

type Topic struct {
	Name     string    `yaml:"name" json:"name"`
	Problems []Problem `yaml:"problems" json:"problems"`
}

type Catalog struct {
	Topics []Topic
	plans  []Plan
	topics map[string]int
	byID   map[string]int
}

type topicsFile struct {
	Topics []Topic `yaml:"topics"`
}

type plansDoc struct {
	Plans []Plan `yaml:"plans"`
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	problems, err := builtin.ReadFile("data/" + problemsFile)
	if err != nil {
		return nil, err
	}
	plans, err := builtin.ReadFile("data/" + plansFile)
	if err != nil {
		return nil, err
	}
	return Parse(problems, plans)
}

// LoadDir reads problems.yaml and plans.yaml from dir.
func LoadDir(dir string) (*Catalog, error) {
	problems, err := os.ReadFile(filepath.Join(dir, problemsFile))
	if err != nil {
		return nil, err
	}
	plans, err := os.ReadFile(filepath.Join(dir, plansFile))
	if err != nil {
		return nil, err
	}
	return Parse(problems, plans)
}

// Parse builds and validates a catalog. Generated and custom plans are
// resolved against the topics here, so Plan.Problems and Plan.Schedule are
// always populated afterwards.
func Parse(problemsYAML, plansYAML []byte) (*Catalog, error) {
	var tf topicsFile
	if err := yaml.Unmarshal(problemsYAML, &tf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", problemsFile, err)
	}
	var pd plansDoc
	if len(plansYAML) > 0 {
		if err := yaml.Unmarshal(plansYAML, &pd); err != nil {
			return nil, fmt.Errorf("parse %s: %w", plansFile, err)
		}
	}
	c := &Catalog{Topics: tf.Topics}
	c.topics = make(map[string]int, len(c.Topics))
	for i, t := range c.Topics {
		if _, dup := c.topics[t.Name]; !dup {
			c.topics[t.Name] = i
		}
	}
	if err := c.setPlans(pd.Plans); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) setPlans(plans []Plan) error {
	c.byID = make(map[string]int, len(plans))
	for i := range plans {
		p := &plans[i]
		if err := c.resolve(p); err != nil {
			return fmt.Errorf("plan %q: %w", p.ID, err)
		}
		if _, dup := c.byID[p.ID]; !dup {
			c.byID[p.ID] = i
		}
	}
	c.plans = plans
	return nil
}

func (c *Catalog) resolve(p *Plan) error {
	switch p.Type {
	case PlanCustom:
		if len(p.List) > 0 {
			return nil
		}
		for _, sel := range p.Select {
			problems, ok := c.Problems(sel.Topic)
			if !ok {
				return fmt.Errorf("%w %q", ErrUnknownTopic, sel.Topic)
			}
			n := min(sel.Count, len(problems))
			for _, pr := range problems[:n] {
				pr.Topic = sel.Topic
				p.List = append(p.List, pr)
			}
		}
		if p.Limit > 0 && len(p.List) > p.Limit {
			p.List = p.List[:p.Limit]
		}
	case PlanChallenge:
		if len(p.Schedule) > 0 {
			if p.Days == 0 {
				p.Days = len(p.Schedule)
			}
			return nil
		}
		if p.Days <= 0 {
			return errors.New("challenge plan needs days or a schedule")
		}
		p.Schedule = GenerateSchedule(c.All(), p.Days, p.Limit, seedFor(p.ID))
	}
	return nil
}

func seedFor(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

func (c *Catalog) TopicNames() []string {
	names := make([]string, len(c.Topics))
	for i, t := range c.Topics {
		names[i] = t.Name
	}
	return names
}

func (c *Catalog) Topic(name string) (Topic, bool) {
	i, ok := c.topics[name]
	if !ok {
		return Topic{}, false
	}
	return c.Topics[i], true
}

func (c *Catalog) Problems(topic string) ([]Problem, bool) {
	t, ok := c.Topic(topic)
	return t.Problems, ok
}

// All flattens every topic in catalog order, tagging each problem with its topic.
func (c *Catalog) All() []Problem {
	var out []Problem
	for _, t := range c.Topics {
		for _, p := range t.Problems {
			p.Topic = t.Name
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) Plans() []Plan {
	return c.plans
}

func (c *Catalog) Plan(id string) (Plan, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Plan{}, false
	}
	return c.plans[i], true
}

// Contains reports whether key addresses a problem the catalog knows about.
func (c *Catalog) Contains(key string) bool {
	_, ok := c.Lookup(key)
	return ok
}

// Lookup returns the problem key addresses. Topic is set for topic keys.
func (c *Catalog) Lookup(key string) (Problem, bool) {
	k, err := keycodec.Decode(key)
	if err != nil {
		return Problem{}, false
	}
	var problems []Problem
	switch k.Kind {
	case keycodec.KindTopic:
		t, ok := c.Topic(k.Topic)
		if !ok {
			return Problem{}, false
		}
		p, ok := findTitle(t.Problems, k.Title)
		p.Topic = t.Name
		return p, ok
	case keycodec.KindDay:
		p, ok := c.Plan(k.PlanID)
		if !ok || p.Type != PlanChallenge || k.Day >= len(p.Schedule) {
			return Problem{}, false
		}
		problems = p.Schedule[k.Day].Problems
	case keycodec.KindPlan:
		p, ok := c.Plan(k.PlanID)
		if !ok || p.Type != PlanCustom {
			return Problem{}, false
		}
		problems = p.List
	}
	return findTitle(problems, k.Title)
}

func findTitle(problems []Problem, title string) (Problem, bool) {
	for _, p := range problems {
		if p.Title == title {
			return p, true
		}
	}
	return Problem{}, false
}

func hasTitle(problems []Problem, title string) bool {
	_, ok := findTitle(problems, title)
	return ok
}
