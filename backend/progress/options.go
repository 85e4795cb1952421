package progress

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const DefaultTimeout = 10 * time.Second

type options struct {
	logger  *log.Logger
	onFail  func(*PersistFailedError)
	timeout time.Duration
	limit   rate.Limit
	burst   int
}

type Option func(*options)

func newOptions(opts []Option) options {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.onFail == nil {
		o.onFail = func(*PersistFailedError) {}
	}
	return o
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFailureHandler is called once for every write that fails. It runs on
// the writer goroutine and must not block.
func WithFailureHandler(fn func(*PersistFailedError)) Option {
	return func(o *options) { o.onFail = fn }
}

// WithTimeout bounds each remote write. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRateLimit paces each Writer to r writes per second with the given
// burst. Every Writer gets its own limiter.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(o *options) { o.limit, o.burst = r, max(burst, 1) }
}
