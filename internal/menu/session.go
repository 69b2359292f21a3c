package menu

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTable is used when a link carries no table identifier.
const DefaultTable = "1"

var ErrSessionNotFound = errors.New("session not found")

// Session is the state of one table's menu page: filters, kitchen request
// draft and cart. It is never persisted.
type Session struct {
	ID        string
	Table     string
	Category  string
	Search    string
	Request   string
	Cart      *Cart
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// TableFrom normalizes a table identifier. Any text is accepted.
func TableFrom(raw string) string {
	if t := strings.TrimSpace(raw); t != "" {
		return t
	}
	return DefaultTable
}

// SetFilter updates the active category and search term.
func (s *Session) SetFilter(category, search string) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = CategoryAll
	}
	s.Category = category
	s.Search = strings.TrimSpace(search)
}

// ClearAfterSubmit empties the cart and the request draft together.
func (s *Session) ClearAfterSubmit() {
	s.Cart.Reset()
	s.Request = ""
}

// Registry owns live sessions. Each session is mutated under its own lock.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session), now: time.Now}
}

func (r *Registry) Create(table string) *Session {
	now := r.now()
	s := &Session{
		ID:        uuid.NewString(),
		Table:     TableFrom(table),
		Category:  CategoryAll,
		Cart:      NewCart(),
		CreatedAt: now,
		lastSeen:  now,
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// With runs fn while holding the session's lock.
func (r *Registry) With(id string, fn func(*Session) error) error {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = r.now()
	return fn(s)
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many went.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
