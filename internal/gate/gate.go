// Package gate decides, once per mount of the app shell, whether a device has a usable
// session. Devices without one are redirected to the login destination; devices with one
// get their session and role for the rest of the mount.
package gate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"adhi/internal/session"
)

// DefaultLoginDestination is where unauthenticated devices are sent
const DefaultLoginDestination = "/auth/login"

// Status is the state of a gate
type Status int

const (
	StatusPending Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "pending"
	}
}

// MarshalText encodes the status by name
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of a session resolution.
// Session is set only when Status is StatusAuthenticated.
type Result struct {
	Status  Status
	Session *session.Session
}

// Loader reads the stored session. session.Manager satisfies it.
type Loader interface {
	Load(ctx context.Context) (*session.Session, error)
}

// Navigator is the router the gate redirects through
type Navigator interface {
	Replace(destination string)
	Push(destination string)
}

// Resolve reads the session once and classifies it. Absent data, malformed data and store
// failures all yield StatusUnauthenticated; the cause is only logged. Resolve never writes
// to the store.
func Resolve(ctx context.Context, loader Loader, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.Default()
	}

	sess, err := loader.Load(ctx)
	switch {
	case err == nil && sess != nil:
		return Result{Status: StatusAuthenticated, Session: sess}
	case err == nil, errors.Is(err, session.ErrSessionNotFound):
		logger.Debug("No stored session")
	case errors.Is(err, session.ErrInvalidSession):
		logger.Warn("Malformed session data", "error", err)
	default:
		logger.Error("Session store read failed", "error", err)
	}

	return Result{Status: StatusUnauthenticated}
}

// Option configures a Gate
type Option func(*Gate)

// WithLoginDestination overrides DefaultLoginDestination
func WithLoginDestination(destination string) Option {
	return func(g *Gate) {
		g.loginDestination = destination
	}
}

// WithLogger sets the logger used for resolution diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// WithObserver registers a callback invoked with the settled status of every mount that
// is still live when resolution completes.
func WithObserver(observe func(Status)) Option {
	return func(g *Gate) {
		g.observe = observe
	}
}

// Gate is the session gate of one shell mount
type Gate struct {
	loader           Loader
	nav              Navigator
	loginDestination string
	logger           *slog.Logger
	observe          func(Status)

	mu       sync.Mutex
	result   Result
	mounted  bool
	disposed bool
	cancel   context.CancelFunc

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a gate in StatusPending
func New(loader Loader, nav Navigator, opts ...Option) *Gate {
	g := &Gate{
		loader:           loader,
		nav:              nav,
		loginDestination: DefaultLoginDestination,
		logger:           slog.Default(),
		done:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Mount starts session resolution. Only the first call on a gate does anything, so a
// gate never issues more than one redirect.
func (g *Gate) Mount(ctx context.Context) {
	g.mu.Lock()
	if g.mounted || g.disposed {
		g.mu.Unlock()
		return
	}
	g.mounted = true
	ctx, g.cancel = context.WithCancel(ctx)
	g.mu.Unlock()

	go g.resolve(ctx)
}

func (g *Gate) resolve(ctx context.Context) {
	res := Resolve(ctx, g.loader, g.logger)

	// The lock is held across the redirect so that Unmount cannot return while a
	// navigation is in flight. Navigators must not call back into the gate.
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.disposed {
		g.logger.Debug("Dropping session resolution after unmount", "status", res.Status.String())
		return
	}

	g.result = res
	if res.Status == StatusUnauthenticated {
		g.nav.Replace(g.loginDestination)
	}
	if g.observe != nil {
		g.observe(res.Status)
	}
	g.closeDone()
}

// Unmount disposes the gate. A resolution still running is cancelled and its outcome is
// discarded: no state change and no navigation happen after Unmount returns.
func (g *Gate) Unmount() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.disposed {
		return
	}
	g.disposed = true
	if g.cancel != nil {
		g.cancel()
	}
	g.closeDone()
}

func (g *Gate) closeDone() {
	g.doneOnce.Do(func() {
		close(g.done)
	})
}

// Done is closed when the gate leaves StatusPending or is unmounted
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// State returns the current result
func (g *Gate) State() Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result
}

// Wait blocks until the gate settles or ctx ends. If ctx ends first the gate is
// unmounted and the pending result is returned.
func (g *Gate) Wait(ctx context.Context) Result {
	select {
	case <-g.done:
	case <-ctx.Done():
		g.Unmount()
	}
	return g.State()
}
