package gate

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"adhi/internal/session"

	"golang.org/x/sync/singleflight"
)

// SessionManager is the part of session.Manager the provider needs
type SessionManager interface {
	Loader
	Save(ctx context.Context, s *session.Session) error
	Clear(ctx context.Context) error
}

// Provider resolves the session of one scope once and shares the result with every
// consumer in that scope. Sessions begin and end through it.
type Provider struct {
	manager          SessionManager
	loginDestination string
	logger           *slog.Logger

	group singleflight.Group

	mu         sync.Mutex
	result     Result
	resolved   bool
	generation uint64
}

// NewProvider creates a provider over manager
func NewProvider(manager SessionManager, loginDestination string, logger *slog.Logger) *Provider {
	if loginDestination == "" {
		loginDestination = DefaultLoginDestination
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		manager:          manager,
		loginDestination: loginDestination,
		logger:           logger,
	}
}

// Current returns the resolved session state, reading the store at most once until the
// next Invalidate. Concurrent first calls share one read.
func (p *Provider) Current(ctx context.Context) Result {
	p.mu.Lock()
	if p.resolved {
		res := p.result
		p.mu.Unlock()
		return res
	}
	gen := p.generation
	p.mu.Unlock()

	v, _, _ := p.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		p.mu.Lock()
		if p.resolved && p.generation == gen {
			res := p.result
			p.mu.Unlock()
			return res, nil
		}
		p.mu.Unlock()

		res := Resolve(ctx, p.manager, p.logger)

		p.mu.Lock()
		if p.generation == gen {
			p.result = res
			p.resolved = true
		}
		p.mu.Unlock()

		return res, nil
	})

	return v.(Result)
}

// Load adapts the provider to Loader so a Gate can share its resolution
func (p *Provider) Load(ctx context.Context) (*session.Session, error) {
	res := p.Current(ctx)
	if res.Status != StatusAuthenticated {
		return nil, session.ErrSessionNotFound
	}
	return res.Session, nil
}

// Invalidate drops the cached result so the next Current reads the store again
func (p *Provider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.result = Result{}
	p.resolved = false
	p.generation++
}

// Begin stores s as the session of this scope, e.g. after login or registration
func (p *Provider) Begin(ctx context.Context, s *session.Session) error {
	if err := p.manager.Save(ctx, s); err != nil {
		return err
	}
	p.Remember(s)
	return nil
}

// Remember caches an already known session without writing it
func (p *Provider) Remember(s *session.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.result = Result{Status: StatusAuthenticated, Session: s}
	p.resolved = true
	p.generation++
}

// Logout ends the session: the stored record is cleared, the cached result dropped and
// the navigator reset to the login destination. The redirect happens even if clearing
// the store fails; that error is returned.
func (p *Provider) Logout(ctx context.Context, nav Navigator) error {
	err := p.manager.Clear(ctx)
	if err != nil {
		p.logger.Error("Failed to clear session on logout", "error", err)
	}

	p.Invalidate()
	nav.Replace(p.loginDestination)

	return err
}

// LoginDestination returns where the provider sends unauthenticated devices
func (p *Provider) LoginDestination() string {
	return p.loginDestination
}

type providerKey struct{}

// NewContext returns a copy of ctx carrying p
func NewContext(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// FromContext returns the provider carried by ctx, if any
func FromContext(ctx context.Context) (*Provider, bool) {
	p, ok := ctx.Value(providerKey{}).(*Provider)
	return p, ok && p != nil
}
