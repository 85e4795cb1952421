// Package docstore is the document persistence layer behind user progress.
// A document is a flat JSON object addressed by a slash path; every write
// merges the given fields into the stored document.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"
)

var ErrInvalidUserID = errors.New("invalid user id")

type Document map[string]any

// Store is implemented by every backend.
type Store interface {
	// Get returns the document at path, or ok=false when it does not exist.
	Get(ctx context.Context, path string) (doc Document, ok bool, err error)
	// Set merges fields into the document at path, creating it if needed.
	// Fields not named in fields are left untouched.
	Set(ctx context.Context, path string, fields Document) error
	// Union merges fields like Set and adds values to the string array at
	// field. Elements already stored stay; the stored array ends up sorted
	// and distinct.
	Union(ctx context.Context, path, field string, values []string, fields Document) error
	// List returns every document whose path starts with prefix, keyed by
	// full path.
	List(ctx context.Context, prefix string) (map[string]Document, error)
	// Delete removes the document at path. Deleting a missing path is not an
	// error.
	Delete(ctx context.Context, path string) error
	Close() error
}

func ProgressPath(userID string) (string, error) { return userPath(userID, "progress/problems") }
func MetaPath(userID string) (string, error)     { return userPath(userID, "meta/metaDoc") }
func NotesPath(userID string) (string, error)    { return userPath(userID, "notes/problems") }
func PrefsPath(userID string) (string, error)    { return userPath(userID, "prefs/meta") }
func ActivityPath(userID string) (string, error) { return userPath(userID, "meta/activity") }

// ProblemLogPrefix is the collection of a user's own logged problems; one
// document per entry.
func ProblemLogPrefix(userID string) (string, error) { return userPath(userID, "problems/") }

func userPath(userID, rest string) (string, error) {
	if userID == "" || strings.ContainsAny(userID, "/\x00") {
		return "", ErrInvalidUserID
	}
	return "users/" + userID + "/" + rest, nil
}

// Bools reads a document of boolean fields. Non-boolean fields are skipped.
func (d Document) Bools() map[string]bool {
	out := make(map[string]bool, len(d))
	for k, v := range d {
		if b, ok := v.(bool); ok {
			out[k] = b
		}
	}
	return out
}

// Strings reads a document of string fields. Non-string fields are skipped.
func (d Document) Strings() map[string]string {
	out := make(map[string]string, len(d))
	for k, v := range d {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// StringSlice reads field as a list of strings, skipping other element types.
func (d Document) StringSlice(field string) []string {
	switch v := d[field].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// unionFields is fields with field set to values, sorted and distinct.
func unionFields(fields Document, field string, values []string) Document {
	out := maps.Clone(fields)
	if out == nil {
		out = Document{}
	}
	out[field] = union(nil, values)
	return out
}

func union(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)
	return slices.Compact(out)
}

func decode(raw []byte) (Document, error) {
	doc := Document{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
