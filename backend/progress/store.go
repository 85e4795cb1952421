// Package progress mirrors a user's persisted documents in memory. Reads
// never wait on the network: mutations apply locally at once and are written
// behind, in order, by a per-user Writer. A failed write reverts only the
// keys no later mutation has touched.
package progress

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/kasyap600/AlgoPath/backend/docstore"
	"github.com/kasyap600/AlgoPath/backend/keycodec"
)

type KeyState int

const (
	Saved KeyState = iota
	Pending
	Failed
)

func (s KeyState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Failed:
		return "failed"
	}
	return "saved"
}

func (s KeyState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type prior struct {
	value   bool
	present bool
	gen     uint64
}

// Store is the progress map of one user.
type Store struct {
	path   string
	w      *Writer
	log    *log.Logger
	onFail func(*PersistFailedError)

	mu      sync.RWMutex
	values  map[string]bool
	gen     map[string]uint64
	seq     uint64
	pending map[string]int
	failed  map[string]bool
}

func NewStore(path string, w *Writer, opts ...Option) *Store {
	o := newOptions(opts)
	return &Store{
		path:    path,
		w:       w,
		log:     o.logger,
		onFail:  o.onFail,
		values:  map[string]bool{},
		gen:     map[string]uint64{},
		pending: map[string]int{},
		failed:  map[string]bool{},
	}
}

func (s *Store) Get(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Toggle flips key and returns the new value. The write happens in the
// background; Toggle never refuses, even while an earlier write of the same
// key is pending.
func (s *Store) Toggle(key string) bool {
	s.mu.Lock()
	next := !s.values[key]
	undo := s.apply(map[string]bool{key: next})
	err := s.w.Enqueue(s.path, docstore.Document{key: next}, func(err error) { s.settle(undo, err) })
	s.mu.Unlock()
	if err != nil {
		s.settle(undo, err)
	}
	return next
}

// SetScope sets every key to value in one step and one write. All keys must
// belong to scope; otherwise nothing changes.
func (s *Store) SetScope(scope string, keys []string, value bool) error {
	fields := docstore.Document{}
	target := make(map[string]bool, len(keys))
	for _, key := range keys {
		if !keycodec.HasScope(key, scope) {
			return fmt.Errorf("%w: %q not in %q", ErrKeyOutsideScope, key, scope)
		}
		fields[key] = value
		target[key] = value
	}
	if len(target) == 0 {
		return nil
	}
	s.mu.Lock()
	undo := s.apply(target)
	err := s.w.Enqueue(s.path, fields, func(err error) { s.settle(undo, err) })
	s.mu.Unlock()
	if err != nil {
		s.settle(undo, err)
	}
	return nil
}

// apply must be called with mu held.
func (s *Store) apply(target map[string]bool) map[string]prior {
	s.seq++
	undo := make(map[string]prior, len(target))
	for key, v := range target {
		old, present := s.values[key]
		undo[key] = prior{value: old, present: present, gen: s.seq}
		s.values[key] = v
		s.gen[key] = s.seq
		s.pending[key]++
		delete(s.failed, key)
	}
	return undo
}

func (s *Store) settle(undo map[string]prior, err error) {
	s.mu.Lock()
	for key, p := range undo {
		if s.pending[key]--; s.pending[key] <= 0 {
			delete(s.pending, key)
		}
		if err == nil || s.gen[key] != p.gen {
			continue
		}
		if p.present {
			s.values[key] = p.value
		} else {
			delete(s.values, key)
		}
		s.failed[key] = true
	}
	s.mu.Unlock()
	if err != nil {
		perr := &PersistFailedError{Path: s.path, Keys: slices.Sorted(maps.Keys(undo)), Err: err}
		s.log.Error("progress write failed", "path", s.path, "keys", len(undo), "err", err)
		s.onFail(perr)
	}
}

// LoadSnapshot replaces the map with remote. Writes still in flight no
// longer roll back.
func (s *Store) LoadSnapshot(remote map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = maps.Clone(remote)
	if s.values == nil {
		s.values = map[string]bool{}
	}
	s.gen = map[string]uint64{}
	s.failed = map[string]bool{}
}

// Snapshot returns a copy safe to hand to stats.
func (s *Store) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

func (s *Store) State(key string) KeyState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked(key)
}

func (s *Store) stateLocked(key string) KeyState {
	if s.pending[key] > 0 {
		return Pending
	}
	if s.failed[key] {
		return Failed
	}
	return Saved
}

func (s *Store) Pending(key string) bool {
	return s.State(key) == Pending
}

// Unsaved lists keys that are pending or whose last write failed.
func (s *Store) Unsaved() map[string]KeyState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]KeyState, len(s.pending)+len(s.failed))
	for key := range s.pending {
		out[key] = Pending
	}
	for key := range s.failed {
		out[key] = s.stateLocked(key)
	}
	return out
}
