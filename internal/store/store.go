// Package store keeps the named simulation results of a session.
package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/san-kum/odeview/internal/result"
)

var (
	ErrDuplicateName = errors.New("store: result name already exists")
	ErrInvalidName   = errors.New("store: result name is empty")
	ErrNotFound      = errors.New("store: result not found")
)

// Store is a named collection of results. Names are unique; insertion order
// is kept so that Names is stable between calls. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*result.Columnar
	order   []string
	axes    []string // cached union, nil when stale
	version uint64
}

func New() *Store {
	return &Store{entries: make(map[string]*result.Columnar)}
}

// Add inserts r under name. An existing entry is never overwritten.
func (s *Store) Add(name string, r *result.Columnar) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if r == nil {
		return fmt.Errorf("%w: nil result for %q", ErrInvalidName, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	s.entries[name] = r
	s.order = append(s.order, name)
	s.invalidate()
	return nil
}

// Remove deletes name and reports whether it was present.
func (s *Store) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; !ok {
		return false
	}

	delete(s.entries, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.invalidate()
	return true
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*result.Columnar)
	s.order = nil
	s.invalidate()
}

func (s *Store) Get(name string) (*result.Columnar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return r, nil
}

// Names returns all names in insertion order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Version increases on every mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Axes returns the union of axis names across all results, in first-seen
// order over Names.
func (s *Store) Axes() []string {
	s.mu.RLock()
	if s.axes != nil {
		out := append([]string(nil), s.axes...)
		s.mu.RUnlock()
		return out
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.axes == nil {
		seen := make(map[string]bool)
		union := make([]string, 0)
		for _, name := range s.order {
			for _, a := range s.entries[name].Axes() {
				if !seen[a] {
					seen[a] = true
					union = append(union, a)
				}
			}
		}
		s.axes = union
	}
	return append([]string(nil), s.axes...)
}

// AutoName numbers a title the way results are listed: "<n>. <title>". n
// starts at Count()+1 and moves up past names already taken.
func (s *Store) AutoName(title string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	title = strings.TrimSpace(title)
	for n := len(s.entries) + 1; ; n++ {
		name := fmt.Sprintf("%d. %s", n, title)
		if _, ok := s.entries[name]; !ok {
			return name
		}
	}
}

func (s *Store) invalidate() {
	s.axes = nil
	s.version++
}
