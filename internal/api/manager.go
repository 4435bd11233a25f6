package api

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/hutamy/go-invoice-frontend/internal/metrics"
)

// Manager pools one Client per browser session so the single-flight refresh
// state stays with the session that owns the tokens. Idle entries are
// evicted after the TTL; a later request simply recreates the client around
// the same token store.
type Manager struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*managedClient
	ttl     time.Duration
	clock   clockwork.Clock
	factory func(sessionID uuid.UUID) *Client
}

type managedClient struct {
	client   *Client
	lastSeen time.Time
}

// NewManager creates a client pool. The factory builds a Client bound to one
// session's token store.
func NewManager(ttl time.Duration, clock clockwork.Clock, factory func(sessionID uuid.UUID) *Client) *Manager {
	return &Manager{
		entries: make(map[uuid.UUID]*managedClient),
		ttl:     ttl,
		clock:   clock,
		factory: factory,
	}
}

// Get returns the session's client, creating it on first use, and marks the
// session as active.
func (m *Manager) Get(sessionID uuid.UUID) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[sessionID]
	if !ok {
		entry = &managedClient{client: m.factory(sessionID)}
		m.entries[sessionID] = entry
		metrics.ActiveAPIClients.Set(float64(len(m.entries)))
	}
	entry.lastSeen = m.clock.Now()
	return entry.client
}

// Drop removes the session's client, e.g. after logout.
func (m *Manager) Drop(sessionID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	metrics.ActiveAPIClients.Set(float64(len(m.entries)))
}

// Size returns the number of pooled clients.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// EvictIdle removes clients idle for longer than the TTL and returns the
// count evicted.
func (m *Manager) EvictIdle() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.clock.Now().Add(-m.ttl)
	evicted := 0
	for id, entry := range m.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(m.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.ActiveAPIClients.Set(float64(len(m.entries)))
	}
	return evicted
}

// StartEvictionTimer starts a background goroutine that periodically evicts
// idle clients. Returns a stop function.
func (m *Manager) StartEvictionTimer(interval time.Duration) func() {
	stop := make(chan struct{})
	ticker := m.clock.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				if evicted := m.EvictIdle(); evicted > 0 {
					slog.Debug("Evicted idle API clients", "count", evicted)
				}
			case <-stop:
				return
			}
		}
	}()

	return func() { close(stop) }
}
