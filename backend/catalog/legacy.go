package catalog

import (
	"strconv"
	"strings"

	"github.com/kasyap600/AlgoPath/backend/keycodec"
)

// MigrateLegacyKey maps a key written by the old web client to its keycodec
// form. The old client joined raw names with "::" (and in one list view with
// "-"), so the catalog is needed to tell the shapes apart. Keys that already
// decode are returned unchanged.
func (c *Catalog) MigrateLegacyKey(raw string) (string, bool) {
	if _, err := keycodec.Decode(raw); err == nil {
		return raw, c.Contains(raw)
	}

	parts := strings.Split(raw, "::")
	switch len(parts) {
	case 2:
		if problems, ok := c.Problems(parts[0]); ok && hasTitle(problems, parts[1]) {
			return keycodec.TopicKey(parts[0], parts[1]), true
		}
		if p, ok := c.Plan(parts[0]); ok && p.Type == PlanCustom && hasTitle(p.List, parts[1]) {
			return keycodec.PlanKey(p.ID, parts[1]), true
		}
	case 3:
		p, ok := c.Plan(parts[0])
		if !ok || p.Type != PlanChallenge {
			return "", false
		}
		day, err := strconv.Atoi(parts[1])
		if err != nil || day < 0 || day >= len(p.Schedule) {
			return "", false
		}
		if hasTitle(p.Schedule[day].Problems, parts[2]) {
			return keycodec.DayKey(p.ID, day, parts[2]), true
		}
	case 1:
		for _, t := range c.Topics {
			title, ok := strings.CutPrefix(raw, t.Name+"-")
			if ok && hasTitle(t.Problems, title) {
				return keycodec.TopicKey(t.Name, title), true
			}
		}
	}
	return "", false
}
