// Package token stores the session's bearer credentials under fixed keys.
// The two token strings are the only client-owned mutable state; everything
// else is rendered straight from backend responses.
package token

import "sync"

// Storage field names, shared by every Store implementation.
const (
	KeyAccess  = "access_token"
	KeyRefresh = "refresh_token"
)

// Store persists an access/refresh token pair. Implementations must be safe
// for concurrent use: tokens are read on every outbound request and written
// only by the refresh path and at logout.
type Store interface {
	// Access returns the stored access token, or "" when none is stored.
	Access() (string, error)
	// Refresh returns the stored refresh token, or "" when none is stored.
	Refresh() (string, error)
	// Save stores both tokens, replacing any previous pair.
	Save(access, refresh string) error
	// SetAccess replaces only the access token, keeping the refresh token.
	SetAccess(access string) error
	// Clear removes both tokens unconditionally.
	Clear() error
}

// MemoryStore is an in-process Store. It backs the anonymous public client
// and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Access() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, nil
}

func (s *MemoryStore) Refresh() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh, nil
}

func (s *MemoryStore) Save(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

func (s *MemoryStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	return nil
}
