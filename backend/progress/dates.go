package progress

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kasyap600/AlgoPath/backend/docstore"
	"github.com/kasyap600/AlgoPath/backend/stats"
)

const (
	FieldSolvedDates = "solvedDates"
	FieldLastSolveAt = "lastSolveAt"
)

// DateSet is the set of days with at least one solve. Writes add the one
// marked day to the stored array, so days recorded by other writers of the
// same document survive.
type DateSet struct {
	path   string
	w      *Writer
	log    *log.Logger
	onFail func(*PersistFailedError)

	mu        sync.RWMutex
	days      map[stats.Day]bool
	confirmed map[stats.Day]bool
	gen       map[stats.Day]uint64
	seq       uint64
	last      time.Time
}

func NewDateSet(path string, w *Writer, opts ...Option) *DateSet {
	o := newOptions(opts)
	return &DateSet{
		path:      path,
		w:         w,
		log:       o.logger,
		onFail:    o.onFail,
		days:      map[stats.Day]bool{},
		confirmed: map[stats.Day]bool{},
		gen:       map[stats.Day]uint64{},
	}
}

// Load replaces the set with stored values. Entries that do not start with
// a YYYY-MM-DD date are dropped; different spellings of one day collapse.
func (d *DateSet) Load(raw []string, lastSolveAt string) {
	days := make(map[stats.Day]bool, len(raw))
	for _, s := range raw {
		day, err := stats.ParseDay(s)
		if err != nil {
			d.log.Debug("skipping solve date", "path", d.path, "value", s)
			continue
		}
		days[day] = true
	}
	last, _ := time.Parse(time.RFC3339, lastSolveAt)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.days = days
	d.confirmed = maps.Clone(days)
	d.gen = map[stats.Day]uint64{}
	d.last = last
}

// Mark records a solve on day at time at. It reports whether day was new.
// The write is issued either way so lastSolveAt follows the latest solve.
func (d *DateSet) Mark(day stats.Day, at time.Time) bool {
	d.mu.Lock()
	added := !d.days[day]
	d.days[day] = true
	d.last = at
	d.seq++
	seq := d.seq
	d.gen[day] = seq
	fields := docstore.Document{FieldLastSolveAt: at.UTC().Format(time.RFC3339)}
	err := d.w.EnqueueUnion(d.path, FieldSolvedDates, []string{day.String()}, fields,
		func(err error) { d.settle(seq, day, err) })
	d.mu.Unlock()
	if err != nil {
		d.settle(seq, day, err)
	}
	return added
}

// settle drops a failed day unless it was already stored or a later mark of
// the same day is still on its way.
func (d *DateSet) settle(seq uint64, day stats.Day, err error) {
	d.mu.Lock()
	if err == nil {
		d.confirmed[day] = true
	} else if !d.confirmed[day] && d.gen[day] == seq {
		delete(d.days, day)
	}
	d.mu.Unlock()
	if err != nil {
		d.log.Error("solve date write failed", "path", d.path, "day", day, "err", err)
		d.onFail(&PersistFailedError{Path: d.path, Keys: []string{day.String()}, Err: err})
	}
}

// Days returns the distinct days in ascending order.
func (d *DateSet) Days() []stats.Day {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sortedDays(d.days)
}

func (d *DateSet) LastSolveAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.last
}

func sortedDays(set map[stats.Day]bool) []stats.Day {
	return slices.Sorted(maps.Keys(set))
}
