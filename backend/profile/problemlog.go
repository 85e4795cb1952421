package profile

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kasyap600/AlgoPath/backend/catalog"
	"github.com/kasyap600/AlgoPath/backend/docstore"
	"github.com/kasyap600/AlgoPath/backend/stats"
)

type Status string

const (
	StatusUnsolved   Status = "Unsolved"
	StatusInProgress Status = "In Progress"
	StatusSolved     Status = "Solved"
)

func (s Status) Valid() bool {
	return s == StatusUnsolved || s == StatusInProgress || s == StatusSolved
}

// Next is the status a single click moves to: Unsolved, In Progress,
// Solved, then back to Unsolved.
func (s Status) Next() Status {
	switch s {
	case StatusSolved:
		return StatusUnsolved
	case StatusUnsolved:
		return StatusInProgress
	default:
		return StatusSolved
	}
}

// Entry is a problem the user logged themselves, outside the catalog.
type Entry struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Platform   string             `json:"platform"`
	Difficulty catalog.Difficulty `json:"difficulty"`
	Date       string             `json:"date"`
	Status     Status             `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
}

// EntryInput creates an entry, or with nil fields left alone, updates one.
type EntryInput struct {
	Title      *string `json:"title,omitempty"`
	Platform   *string `json:"platform,omitempty"`
	Difficulty *string `json:"difficulty,omitempty"`
	Date       *string `json:"date,omitempty"`
	Status     *string `json:"status,omitempty"`
}

// fields validates the set fields of in and returns them in stored form.
func (in EntryInput) fields() (docstore.Document, error) {
	out := docstore.Document{}
	if in.Title != nil {
		v := strings.TrimSpace(*in.Title)
		if v == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalid)
		}
		out["title"] = v
	}
	if in.Platform != nil {
		v := strings.TrimSpace(*in.Platform)
		if v == "" {
			return nil, fmt.Errorf("%w: platform is required", ErrInvalid)
		}
		out["platform"] = v
	}
	if in.Difficulty != nil {
		d := catalog.Difficulty(*in.Difficulty)
		if !d.Known() {
			return nil, fmt.Errorf("%w: difficulty must be Easy, Medium or Hard", ErrInvalid)
		}
		out["difficulty"] = string(d)
	}
	if in.Date != nil {
		day, err := stats.ParseDay(*in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalid)
		}
		out["date"] = day.String()
	}
	if in.Status != nil {
		st := Status(*in.Status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, *in.Status)
		}
		out["status"] = string(st)
	}
	return out, nil
}

func entryPath(userID, id string) (string, error) {
	prefix, err := docstore.ProblemLogPrefix(userID)
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrNotFound
	}
	return prefix + id, nil
}

func entryOf(id string, doc docstore.Document) Entry {
	f := doc.Strings()
	created, _ := time.Parse(time.RFC3339, f["createdAt"])
	return Entry{
		ID:         id,
		Title:      f["title"],
		Platform:   f["platform"],
		Difficulty: catalog.Difficulty(f["difficulty"]),
		Date:       f["date"],
		Status:     Status(f["status"]),
		CreatedAt:  created,
	}
}

// Problems lists the log, newest date first.
func (s *Service) Problems(ctx context.Context, userID string) ([]Entry, error) {
	prefix, err := docstore.ProblemLogPrefix(userID)
	if err != nil {
		return nil, err
	}
	docs, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(docs))
	for path, doc := range docs {
		out = append(out, entryOf(strings.TrimPrefix(path, prefix), doc))
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Service) Problem(ctx context.Context, userID, id string) (Entry, error) {
	path, err := entryPath(userID, id)
	if err != nil {
		return Entry{}, err
	}
	doc, ok, err := s.store.Get(ctx, path)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entryOf(id, doc), nil
}

// AddProblem logs a new problem. Title, platform and date are required;
// difficulty defaults to Easy and status to Unsolved.
func (s *Service) AddProblem(ctx context.Context, userID string, in EntryInput, now time.Time) (Entry, error) {
	if in.Title == nil || in.Platform == nil || in.Date == nil {
		return Entry{}, fmt.Errorf("%w: title, platform and date are required", ErrInvalid)
	}
	fields, err := in.fields()
	if err != nil {
		return Entry{}, err
	}
	if _, ok := fields["difficulty"]; !ok {
		fields["difficulty"] = string(catalog.Easy)
	}
	if _, ok := fields["status"]; !ok {
		fields["status"] = string(StatusUnsolved)
	}
	fields["createdAt"] = now.UTC().Format(time.RFC3339)

	id := uuid.NewString()
	path, err := entryPath(userID, id)
	if err != nil {
		return Entry{}, err
	}
	if err := s.store.Set(ctx, path, fields); err != nil {
		return Entry{}, err
	}
	return entryOf(id, fields), nil
}

// UpdateProblem changes the set fields of an existing entry.
func (s *Service) UpdateProblem(ctx context.Context, userID, id string, in EntryInput) (Entry, error) {
	fields, err := in.fields()
	if err != nil {
		return Entry{}, err
	}
	if _, err := s.Problem(ctx, userID, id); err != nil {
		return Entry{}, err
	}
	if len(fields) > 0 {
		path, _ := entryPath(userID, id)
		if err := s.store.Set(ctx, path, fields); err != nil {
			return Entry{}, err
		}
	}
	return s.Problem(ctx, userID, id)
}

// CycleStatus advances the entry to its next status.
func (s *Service) CycleStatus(ctx context.Context, userID, id string) (Entry, error) {
	e, err := s.Problem(ctx, userID, id)
	if err != nil {
		return Entry{}, err
	}
	next := string(e.Status.Next())
	return s.UpdateProblem(ctx, userID, id, EntryInput{Status: &next})
}

func (s *Service) DeleteProblem(ctx context.Context, userID, id string) error {
	if _, err := s.Problem(ctx, userID, id); err != nil {
		return err
	}
	path, _ := entryPath(userID, id)
	return s.store.Delete(ctx, path)
}
