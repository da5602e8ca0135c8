package console

import (
	"context"
	"sync"
	"time"

	"voucher-console/internal/domain/navigation"
	"voucher-console/internal/infra/metrics"
	"voucher-console/internal/pkg/clock"
	"voucher-console/internal/pkg/config"
	"voucher-console/internal/usecase/commands"
	"voucher-console/internal/usecase/queries"

	"github.com/google/uuid"
)

const minSweepInterval = time.Minute

// Session is the server-side state of one admin browser.
type Session struct {
	ID        uuid.UUID
	List      *List
	Generator *Generator

	lastSeen time.Time

	mu      sync.Mutex
	current navigation.View
}

// Enter records that a page of view is being rendered and reports whether the session arrived
// from a different view (or none). A repeated render of the same view is a refresh, not a visit.
func (s *Session) Enter(view navigation.View) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entered := s.current != view
	s.current = view
	return entered
}

// Registry keeps sessions in memory and evicts those idle for longer than the TTL.
type Registry struct {
	queries queries.VoucherQueries
	cmds    commands.VoucherCommands
	clock   clock.Clock
	ttl     time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry(cfg config.Config, clk clock.Clock, q queries.VoucherQueries, cmds commands.VoucherCommands) *Registry {
	return &Registry{
		queries:  q,
		cmds:     cmds,
		clock:    clk,
		ttl:      cfg.Session.TTL,
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (r *Registry) newSession(id uuid.UUID) *Session {
	return &Session{
		ID:        id,
		List:      NewList(r.queries, r.cmds),
		Generator: NewGenerator(r.cmds, r.clock),
		lastSeen:  r.clock.Now(),
	}
}

// Create starts a fresh session with a new id.
func (r *Registry) Create() *Session {
	return r.GetOrCreate(uuid.New())
}

// GetOrCreate returns the live session for id, or starts a new one under the same id
// (a valid cookie can outlive the process that issued it).
func (r *Registry) GetOrCreate(id uuid.UUID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if s, ok := r.sessions[id]; ok {
		s.lastSeen = now
		return s
	}
	s := r.newSession(id)
	r.sessions[id] = s
	metrics.SetSessions(len(r.sessions))
	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts idle sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.clock.Now().Add(-r.ttl)
	removed := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	metrics.SetSessions(len(r.sessions))
	return removed
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	interval := max(r.ttl/4, minSweepInterval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
