// Package session manages the engine's process-wide working memory (the
// "tower"): one Init, any number of Invokes, one Cleanup.
//
// The tower is thread-local in libstarcode, so a Context locks the calling
// goroutine to its OS thread between Acquire and Release. Both must happen
// on the same goroutine. Only one Context exists per process at a time;
// further Acquires wait for the current one to be released.
package session

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/rs/xid"

	"starclust/internal/cluster"
	"starclust/internal/logging"
	"starclust/internal/metrics"
	"starclust/internal/native"
)

// gate admits one live Context per process.
var gate = make(chan struct{}, 1)

// Allocation counters; replaced in tests.
var (
	debugAllocs = native.DebugAllocs
	outstanding = native.Outstanding
)

type Option func(*Context)

func WithLogger(l *slog.Logger) Option { return func(c *Context) { c.log = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(c *Context) { c.metrics = m } }

// Context is a live engine session. It is not safe for concurrent Invokes;
// callers sharing one across goroutines must serialize them.
type Context struct {
	id       string
	backend  native.Backend
	log      *slog.Logger
	metrics  *metrics.Metrics
	baseline int64

	mu       sync.Mutex
	released bool
	once     sync.Once
}

// Acquire waits for the process-wide slot, then initializes the backend's
// tower. If ctx ends first, ctx.Err() is returned as is. A panicking Init
// gives the slot back before the panic propagates.
func Acquire(ctx context.Context, b native.Backend, opts ...Option) (*Context, error) {
	if b == nil {
		return nil, cluster.InvalidArgument("session.acquire", "nil backend")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case gate <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c := &Context{id: xid.New().String(), backend: b}
	for _, o := range opts {
		o(c)
	}
	c.log = logging.OrDiscard(c.log).With("session", c.id, "engine", b.Name())

	runtime.LockOSThread()
	ok := false
	defer func() {
		if !ok {
			runtime.UnlockOSThread()
			<-gate
		}
	}()
	c.baseline = outstanding()
	b.Init()
	ok = true

	c.metrics.SessionOpened()
	c.log.Debug("session acquired")
	return c, nil
}

func (c *Context) ID() string { return c.id }

// Backend returns the engine this session drives.
func (c *Context) Backend() native.Backend { return c.backend }

// Invoke runs one clustering job inside the session.
func (c *Context) Invoke(p native.Params) error {
	c.mu.Lock()
	released := c.released
	c.mu.Unlock()
	if released {
		return cluster.InvalidArgument("session.invoke", "session %s already released", c.id)
	}
	return native.Invoke(c.backend, p)
}

// Release tears the tower down and frees the slot, even if Cleanup panics.
// Calls after the first are no-ops. A leak found by debug builds is logged
// and counted, never returned.
func (c *Context) Release() error {
	c.once.Do(func() {
		c.mu.Lock()
		c.released = true
		c.mu.Unlock()

		defer func() {
			runtime.UnlockOSThread()
			<-gate
		}()

		c.backend.Cleanup()
		if debugAllocs() {
			if n := outstanding() - c.baseline; n != 0 {
				c.log.Warn("native buffers outstanding after release", "count", n)
				c.metrics.NativeLeak(n)
			}
		}
		c.log.Debug("session released")
	})
	return nil
}
