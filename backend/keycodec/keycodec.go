// Package keycodec builds and parses progress keys. Every key that reaches
// the progress document is produced here; nothing else concatenates keys.
package keycodec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates key segments. It never occurs inside an escaped segment.
const Delimiter = "::"

type Kind string

const (
	KindTopic Kind = "topic"
	KindDay   Kind = "day"
	KindPlan  Kind = "plan"
)

var (
	ErrMalformedKey         = errors.New("malformed progress key")
	ErrInvalidScopeBoundary = errors.New("key matches more than one scope")
	ErrNoScope              = errors.New("key matches no scope")
)

// Key is a decoded progress key. Topic is set for KindTopic, PlanID and Day
// for KindDay, PlanID for KindPlan.
type Key struct {
	Kind   Kind   `json:"kind"`
	Topic  string `json:"topic,omitempty"`
	PlanID string `json:"plan_id,omitempty"`
	Day    int    `json:"day"`
	Title  string `json:"title"`
}

func TopicKey(topic, title string) string {
	return join(string(KindTopic), escape(topic), escape(title))
}

// DayKey encodes a problem inside one day of a challenge plan. day is the
// 0-based day index and must not be negative.
func DayKey(planID string, day int, title string) string {
	if day < 0 {
		panic("keycodec: negative day index")
	}
	return join(string(KindDay), escape(planID), strconv.Itoa(day), escape(title))
}

// PlanKey encodes a problem of a flat (non-daily) plan list.
func PlanKey(planID, title string) string {
	return join(string(KindPlan), escape(planID), escape(title))
}

func TopicScope(topic string) string {
	return join(string(KindTopic), escape(topic)) + Delimiter
}

// PlanScope covers every day of a challenge plan.
func PlanScope(planID string) string {
	return join(string(KindDay), escape(planID)) + Delimiter
}

func DayScope(planID string, day int) string {
	if day < 0 {
		panic("keycodec: negative day index")
	}
	return join(string(KindDay), escape(planID), strconv.Itoa(day)) + Delimiter
}

func ListScope(planID string) string {
	return join(string(KindPlan), escape(planID)) + Delimiter
}

// HasScope reports whether key belongs to scope. Scopes always end with the
// delimiter and segments never contain it, so a plain prefix test cannot
// match a sibling scope such as "30-days-extended" for "30-days".
func HasScope(key, scope string) bool {
	if !strings.HasSuffix(scope, Delimiter) {
		return false
	}
	return len(key) > len(scope) && strings.HasPrefix(key, scope)
}

// ResolveScope returns the one scope among mutually exclusive candidates that
// contains key.
func ResolveScope(key string, scopes []string) (string, error) {
	found := ""
	for _, scope := range scopes {
		if !HasScope(key, scope) {
			continue
		}
		if found != "" {
			return "", fmt.Errorf("%w: %q in %q and %q", ErrInvalidScopeBoundary, key, found, scope)
		}
		found = scope
	}
	if found == "" {
		return "", fmt.Errorf("%w: %q", ErrNoScope, key)
	}
	return found, nil
}

func Decode(key string) (Key, error) {
	parts := strings.Split(key, Delimiter)
	if len(parts) < 3 {
		return Key{}, malformed(key, "too few segments")
	}
	segs := make([]string, len(parts)-1)
	for i, p := range parts[1:] {
		s, err := unescape(p)
		if err != nil {
			return Key{}, malformed(key, err.Error())
		}
		segs[i] = s
	}

	switch Kind(parts[0]) {
	case KindTopic:
		if len(segs) != 2 {
			return Key{}, malformed(key, "topic key needs 2 segments")
		}
		return Key{Kind: KindTopic, Topic: segs[0], Title: segs[1]}, nil
	case KindPlan:
		if len(segs) != 2 {
			return Key{}, malformed(key, "plan key needs 2 segments")
		}
		return Key{Kind: KindPlan, PlanID: segs[0], Title: segs[1]}, nil
	case KindDay:
		if len(segs) != 3 {
			return Key{}, malformed(key, "day key needs 3 segments")
		}
		day, err := parseDay(parts[2])
		if err != nil {
			return Key{}, malformed(key, err.Error())
		}
		return Key{Kind: KindDay, PlanID: segs[0], Day: day, Title: segs[2]}, nil
	default:
		return Key{}, malformed(key, "unknown kind "+strconv.Quote(parts[0]))
	}
}

// String re-encodes the key.
func (k Key) String() string {
	switch k.Kind {
	case KindTopic:
		return TopicKey(k.Topic, k.Title)
	case KindDay:
		return DayKey(k.PlanID, k.Day, k.Title)
	case KindPlan:
		return PlanKey(k.PlanID, k.Title)
	}
	return ""
}

// Scope returns the narrowest scope holding the key.
func (k Key) Scope() string {
	switch k.Kind {
	case KindTopic:
		return TopicScope(k.Topic)
	case KindDay:
		return DayScope(k.PlanID, k.Day)
	case KindPlan:
		return ListScope(k.PlanID)
	}
	return ""
}

func join(segs ...string) string {
	return strings.Join(segs, Delimiter)
}

func malformed(key, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrMalformedKey, key, reason)
}

// canonical decimal only: "5" is valid, "05", "+5" and "-1" are not
func parseDay(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || strconv.Itoa(n) != s {
		return 0, fmt.Errorf("bad day index %q", s)
	}
	return n, nil
}

func escape(s string) string {
	if !strings.ContainsAny(s, "%:") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%':
			b.WriteString("%25")
		case ':':
			b.WriteString("%3A")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func unescape(s string) (string, error) {
	if strings.Contains(s, ":") {
		return "", errors.New("stray ':' in segment")
	}
	if !strings.Contains(s, "%") {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+3 > len(s) {
			return "", errors.New("truncated escape")
		}
		switch s[i+1 : i+3] {
		case "25":
			b.WriteByte('%')
		case "3A":
			b.WriteByte(':')
		default:
			return "", fmt.Errorf("bad escape %q", s[i:i+3])
		}
		i += 2
	}
	return b.String(), nil
}
