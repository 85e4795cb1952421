package progress

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kasyap600/AlgoPath/backend/docstore"
	"golang.org/x/sync/errgroup"
)

const DefaultIdleTimeout = 30 * time.Minute

// Session is the loaded state of one user. All mirrors share one
// Writer, so the user's writes reach the store in mutation order.
type Session struct {
	UserID   string
	Progress *Store
	Dates    *DateSet
	Notes    *Notes
	Activity *Activity
	Writer   *Writer

	lastSeen atomic.Int64
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

func (s *Session) Flush(ctx context.Context) error { return s.Writer.Flush(ctx) }

// Sessions keeps one Session per active user.
type Sessions struct {
	store docstore.Store
	idle  time.Duration
	opts  []Option
	log   *log.Logger
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	// closing holds users whose session is flushing; the channel is closed
	// once the flush is done.
	closing map[string]chan struct{}
}

// NewSessions creates the registry. opts are handed to every Writer and
// mirror it creates.
func NewSessions(store docstore.Store, idle time.Duration, opts ...Option) *Sessions {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Sessions{
		store:    store,
		idle:     idle,
		opts:     opts,
		log:      newOptions(opts).logger,
		now:      time.Now,
		sessions: map[string]*Session{},
		closing:  map[string]chan struct{}{},
	}
}

// Open returns the user's session, loading it from the store on first use.
// While an earlier session of the user is still flushing, Open waits for
// the flush so the load sees its writes.
func (r *Sessions) Open(ctx context.Context, userID string) (*Session, error) {
	for {
		r.mu.Lock()
		if s, ok := r.sessions[userID]; ok {
			s.touch(r.now())
			r.mu.Unlock()
			return s, nil
		}
		done, flushing := r.closing[userID]
		r.mu.Unlock()
		if flushing {
			select {
			case <-done:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		s, err := r.load(ctx, userID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if existing, ok := r.sessions[userID]; ok {
			r.mu.Unlock()
			s.Writer.Close()
			existing.touch(r.now())
			return existing, nil
		}
		if _, ok := r.closing[userID]; ok {
			// another session opened and ended during the load
			r.mu.Unlock()
			s.Writer.Close()
			continue
		}
		r.sessions[userID] = s
		r.mu.Unlock()
		r.log.Info("session opened", "user", userID, "progress", len(s.Progress.Snapshot()), "days", len(s.Dates.Days()))
		return s, nil
	}
}

func (r *Sessions) load(ctx context.Context, userID string) (*Session, error) {
	progressPath, err := docstore.ProgressPath(userID)
	if err != nil {
		return nil, err
	}
	metaPath, _ := docstore.MetaPath(userID)
	notesPath, _ := docstore.NotesPath(userID)
	activityPath, _ := docstore.ActivityPath(userID)

	var progressDoc, metaDoc, notesDoc, activityDoc docstore.Document
	g, gctx := errgroup.WithContext(ctx)
	for path, dst := range map[string]*docstore.Document{
		progressPath: &progressDoc,
		metaPath:     &metaDoc,
		notesPath:    &notesDoc,
		activityPath: &activityDoc,
	} {
		g.Go(func() error {
			doc, _, err := r.store.Get(gctx, path)
			*dst = doc
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	w := NewWriter(r.store, r.opts...)
	s := &Session{
		UserID:   userID,
		Writer:   w,
		Progress: NewStore(progressPath, w, r.opts...),
		Dates:    NewDateSet(metaPath, w, r.opts...),
		Notes:    NewNotes(notesPath, w, r.opts...),
		Activity: NewActivity(activityPath, w, r.opts...),
	}
	s.Progress.LoadSnapshot(progressDoc.Bools())
	s.Dates.Load(metaDoc.StringSlice(FieldSolvedDates), metaDoc.Strings()[FieldLastSolveAt])
	s.Notes.Load(notesDoc.Strings())
	s.Activity.Load(activityDoc.Strings())
	s.touch(r.now())
	return s, nil
}

// Get returns an already open session without loading.
func (r *Sessions) Get(userID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// End flushes the user's pending writes and drops the session. Ending a
// user without a session is a no-op.
func (r *Sessions) End(ctx context.Context, userID string) error {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	if ok {
		r.detach(s)
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return r.end(ctx, s)
}

// detach moves s from the open sessions to closing. mu must be held.
func (r *Sessions) detach(s *Session) {
	delete(r.sessions, s.UserID)
	r.closing[s.UserID] = make(chan struct{})
}

func (r *Sessions) end(ctx context.Context, s *Session) error {
	err := s.Flush(ctx)
	s.Writer.Close()
	r.mu.Lock()
	if done, ok := r.closing[s.UserID]; ok {
		close(done)
		delete(r.closing, s.UserID)
	}
	r.mu.Unlock()
	r.log.Info("session closed", "user", s.UserID)
	return err
}

// Sweep ends sessions idle for longer than the idle timeout and returns how
// many it ended.
func (r *Sessions) Sweep(ctx context.Context, now time.Time) int {
	r.mu.Lock()
	var stale []*Session
	for _, s := range r.sessions {
		if now.Sub(s.LastSeen()) > r.idle {
			stale = append(stale, s)
			r.detach(s)
		}
	}
	r.mu.Unlock()
	for _, s := range stale {
		if err := r.end(ctx, s); err != nil {
			r.log.Warn("flush on sweep failed", "user", s.UserID, "err", err)
		}
	}
	if len(stale) > 0 {
		r.log.Debug("swept idle sessions", "count", len(stale))
	}
	return len(stale)
}

// Run sweeps periodically until ctx is done.
func (r *Sessions) Run(ctx context.Context) {
	ticker := time.NewTicker(max(r.idle/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx, r.now())
		}
	}
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close ends every session.
func (r *Sessions) Close(ctx context.Context) error {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
		r.detach(s)
	}
	r.mu.Unlock()

	var errs []error
	for _, s := range all {
		if err := r.end(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
