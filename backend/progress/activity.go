package progress

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kasyap600/AlgoPath/backend/docstore"
)

// ActivityEntry is one solved key. At is zero for keys solved before solve
// times were recorded.
type ActivityEntry struct {
	Key string
	At  time.Time
}

// Activity remembers when each key was last marked solved. Times are
// informational: a failed write is logged and reported, never rolled back.
type Activity struct {
	path   string
	w      *Writer
	log    *log.Logger
	onFail func(*PersistFailedError)

	mu sync.RWMutex
	at map[string]time.Time
}

func NewActivity(path string, w *Writer, opts ...Option) *Activity {
	o := newOptions(opts)
	return &Activity{
		path:   path,
		w:      w,
		log:    o.logger,
		onFail: o.onFail,
		at:     map[string]time.Time{},
	}
}

// Load replaces the recorded times. Values that are not RFC 3339 are dropped.
func (a *Activity) Load(remote map[string]string) {
	at := make(map[string]time.Time, len(remote))
	for k, v := range remote {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			continue
		}
		at[k] = t
	}
	a.mu.Lock()
	a.at = at
	a.mu.Unlock()
}

// Record stamps keys as solved at t in a single write.
func (a *Activity) Record(t time.Time, keys ...string) {
	if len(keys) == 0 {
		return
	}
	stamp := t.UTC().Format(time.RFC3339)
	fields := make(docstore.Document, len(keys))
	a.mu.Lock()
	for _, k := range keys {
		a.at[k] = t
		fields[k] = stamp
	}
	err := a.w.Enqueue(a.path, fields, func(err error) { a.settle(keys, err) })
	a.mu.Unlock()
	if err != nil {
		a.settle(keys, err)
	}
}

func (a *Activity) settle(keys []string, err error) {
	if err == nil {
		return
	}
	a.log.Warn("activity write failed", "path", a.path, "keys", len(keys), "err", err)
	a.onFail(&PersistFailedError{Path: a.path, Keys: keys, Err: err})
}

// Recent returns up to n of the solved keys, newest first. Keys without a
// recorded time follow in key order.
func (a *Activity) Recent(solved map[string]bool, n int) []ActivityEntry {
	a.mu.RLock()
	entries := make([]ActivityEntry, 0, len(solved))
	for k, ok := range solved {
		if ok {
			entries = append(entries, ActivityEntry{Key: k, At: a.at[k]})
		}
	}
	a.mu.RUnlock()

	slices.SortFunc(entries, func(x, y ActivityEntry) int {
		if c := y.At.Compare(x.At); c != 0 {
			return c
		}
		return cmp.Compare(x.Key, y.Key)
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
