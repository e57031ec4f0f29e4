package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/printcrm/internal/pricing"
	"github.com/angelmondragon/printcrm/pkg/config"
	pkgerrors "github.com/angelmondragon/printcrm/pkg/errors"
	"github.com/angelmondragon/printcrm/pkg/logger"
	"github.com/angelmondragon/printcrm/pkg/metrics"
)

type entry struct {
	session  *Session
	lastUsed time.Time
}

// Registry holds the open sessions of the HTTP server. Idle sessions expire.
type Registry struct {
	resolver  *Resolver
	submitter Submitter
	logg      *logger.Logger
	metrics   *metrics.Metrics
	idleTTL   time.Duration
	max       int
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry wires a registry whose sessions share resolver and submitter.
func NewRegistry(resolver *Resolver, submitter Submitter, cfg config.SessionConfig, logg *logger.Logger, m *metrics.Metrics) (*Registry, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver required")
	}
	if submitter == nil {
		return nil, fmt.Errorf("submitter required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Registry{
		resolver:  resolver,
		submitter: submitter,
		logg:      logg,
		metrics:   m,
		idleTTL:   cfg.IdleTTL,
		max:       cfg.MaxSessions,
		now:       time.Now,
		sessions:  map[string]*entry{},
	}, nil
}

// Create opens a new, empty session.
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	if r.max > 0 && len(r.sessions) >= r.max {
		return nil, pkgerrors.New(pkgerrors.CodeLimit, "too many open sessions")
	}
	s := newSession(uuid.NewString(), r.resolver, r.submitter, r.logg, r.metrics)
	r.sessions[s.id] = &entry{session: s, lastUsed: r.now()}
	r.metrics.SetActiveSessions(len(r.sessions))
	r.logg.Info(r.logg.WithSessionID(ctx, s.id), "session created")
	return s, nil
}

// Get returns the session and marks it used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || r.expiredLocked(e) {
		if ok {
			r.removeLocked(id)
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	e.lastUsed = r.now()
	return e.session, nil
}

// Delete discards the session and its cart.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	r.removeLocked(id)
	return nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked()
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logg.Debug(r.logg.WithField(ctx, "expired", n), "expired sessions swept")
			}
		}
	}
}

// Quote prices a one-off request without a session.
func (r *Registry) Quote(ctx context.Context, productName, specification string, in Inputs) (Resolved, pricing.Quote) {
	resolved := r.resolver.Resolve(ctx, productName, specification)
	r.metrics.IncQuote()
	return resolved, pricing.Compute(in.toPricing(resolved.Rate, resolved.Limits))
}

func (r *Registry) sweepLocked() int {
	removed := 0
	for id, e := range r.sessions {
		if r.expiredLocked(e) {
			r.removeLocked(id)
			removed++
		}
	}
	return removed
}

func (r *Registry) expiredLocked(e *entry) bool {
	return r.idleTTL > 0 && r.now().Sub(e.lastUsed) > r.idleTTL
}

func (r *Registry) removeLocked(id string) {
	delete(r.sessions, id)
	r.metrics.SetActiveSessions(len(r.sessions))
}
