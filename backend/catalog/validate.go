package catalog

import (
	"errors"
	"fmt"

	"github.com/kasyap600/AlgoPath/backend/keycodec"
)

// Validate checks the naming rules keys rely on: unique non-empty
// names per scope and that every key the catalog can produce falls in
// exactly one scope.
func (c *Catalog) Validate() error {
	var errs []error
	topics := map[string]bool{}
	for _, t := range c.Topics {
		if t.Name == "" {
			errs = append(errs, errors.New("topic with empty name"))
			continue
		}
		if topics[t.Name] {
			errs = append(errs, fmt.Errorf("duplicate topic %q", t.Name))
		}
		topics[t.Name] = true
		if err := uniqueTitles(t.Problems); err != nil {
			errs = append(errs, fmt.Errorf("topic %q: %w", t.Name, err))
		}
	}

	plans := map[string]bool{}
	for _, p := range c.plans {
		if p.ID == "" {
			errs = append(errs, errors.New("plan with empty id"))
			continue
		}
		if plans[p.ID] {
			errs = append(errs, fmt.Errorf("duplicate plan %q", p.ID))
		}
		plans[p.ID] = true
		switch p.Type {
		case PlanTopic:
		case PlanCustom:
			if err := uniqueTitles(p.List); err != nil {
				errs = append(errs, fmt.Errorf("plan %q: %w", p.ID, err))
			}
		case PlanChallenge:
			for i, d := range p.Schedule {
				if err := uniqueTitles(d.Problems); err != nil {
					errs = append(errs, fmt.Errorf("plan %q day %d: %w", p.ID, i+1, err))
				}
			}
		default:
			errs = append(errs, fmt.Errorf("plan %q: unknown type %q", p.ID, p.Type))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return c.checkScopes()
}

func (c *Catalog) checkScopes() error {
	var scopes []string
	type owned struct{ key, scope string }
	var keys []owned
	for _, t := range c.Topics {
		scope := keycodec.TopicScope(t.Name)
		scopes = append(scopes, scope)
		for _, p := range t.Problems {
			keys = append(keys, owned{keycodec.TopicKey(t.Name, p.Title), scope})
		}
	}
	for _, p := range c.plans {
		switch p.Type {
		case PlanCustom:
			scope := keycodec.ListScope(p.ID)
			scopes = append(scopes, scope)
			for _, key := range p.Keys() {
				keys = append(keys, owned{key, scope})
			}
		case PlanChallenge:
			for i := range p.Schedule {
				scope := keycodec.DayScope(p.ID, i)
				scopes = append(scopes, scope)
				for _, key := range p.DayKeys(i) {
					keys = append(keys, owned{key, scope})
				}
			}
		}
	}
	for _, k := range keys {
		got, err := keycodec.ResolveScope(k.key, scopes)
		if err != nil {
			return err
		}
		if got != k.scope {
			return fmt.Errorf("%w: %q resolved to %q, want %q", keycodec.ErrInvalidScopeBoundary, k.key, got, k.scope)
		}
	}
	return nil
}

func uniqueTitles(problems []Problem) error {
	seen := make(map[string]bool, len(problems))
	for _, p := range problems {
		if p.Title == "" {
			return errors.New("problem with empty title")
		}
		if seen[p.Title] {
			return fmt.Errorf("duplicate title %q", p.Title)
		}
		seen[p.Title] = true
	}
	return nil
}
