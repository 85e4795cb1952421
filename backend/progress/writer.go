package progress

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kasyap600/AlgoPath/backend/docstore"
	"golang.org/x/time/rate"
)

// Persister is the write half of docstore.Store.
type Persister interface {
	Set(ctx context.Context, path string, fields docstore.Document) error
	Union(ctx context.Context, path, field string, values []string, fields docstore.Document) error
}

type job struct {
	path   string
	fields docstore.Document
	done   func(error)
	flush  chan struct{}

	// set for array union writes
	field  string
	values []string
}

// Writer drains writes for one user on a single goroutine, in the order
// they were enqueued. There are no retries.
type Writer struct {
	p       Persister
	timeout time.Duration
	limiter *rate.Limiter
	log     *log.Logger

	mu     sync.Mutex
	queue  []job
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

func NewWriter(p Persister, opts ...Option) *Writer {
	o := newOptions(opts)
	var limiter *rate.Limiter
	if o.limit > 0 {
		limiter = rate.NewLimiter(o.limit, o.burst)
	}
	w := &Writer{
		p:       p,
		timeout: o.timeout,
		limiter: limiter,
		log:     o.logger,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue schedules a merge write of fields at path. done, if set, is
// called with the outcome on the writer goroutine.
func (w *Writer) Enqueue(path string, fields docstore.Document, done func(error)) error {
	return w.push(job{path: path, fields: fields, done: done})
}

// EnqueueUnion schedules a write that merges fields and adds values to the
// array at field without replacing what is stored.
func (w *Writer) EnqueueUnion(path, field string, values []string, fields docstore.Document, done func(error)) error {
	return w.push(job{path: path, fields: fields, field: field, values: values, done: done})
}

// Flush blocks until every write enqueued before the call has finished.
func (w *Writer) Flush(ctx context.Context) error {
	ch := make(chan struct{})
	if err := w.push(job{flush: ch}); err != nil {
		return err
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting writes and waits for the queue to drain.
func (w *Writer) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		w.signal()
	}
	w.mu.Unlock()
	<-w.done
}

func (w *Writer) push(j job) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.queue = append(w.queue, j)
	w.signal()
	return nil
}

// signal must be called with mu held.
func (w *Writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Writer) next() (job, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.queue) == 0 {
		if w.closed {
			return job{}, false
		}
		w.mu.Unlock()
		<-w.wake
		w.mu.Lock()
	}
	j := w.queue[0]
	w.queue[0] = job{}
	w.queue = w.queue[1:]
	return j, true
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		j, ok := w.next()
		if !ok {
			return
		}
		if j.flush != nil {
			close(j.flush)
			continue
		}
		err := w.persist(j)
		if err != nil {
			w.log.Warn("persist failed", "path", j.path, "fields", len(j.fields), "err", err)
		}
		if j.done != nil {
			j.done(err)
		}
	}
}

func (w *Writer) persist(j job) error {
	if w.limiter != nil {
		if err := w.limiter.Wait(context.Background()); err != nil {
			return err
		}
	}
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if j.field != "" {
		return w.p.Union(ctx, j.path, j.field, j.values, j.fields)
	}
	return w.p.Set(ctx, j.path, j.fields)
}
