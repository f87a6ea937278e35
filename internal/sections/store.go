// Package sections tracks which résumé sections are collapsed.
package sections

import (
	"sync"

	"github.com/jonathan/resume-studio/internal/types"
)

// Section identifiers
const (
	Summary    = "summary"
	Skills     = "skills"
	Experience = "experience"
	Education  = "education"
	References = "references"
)

// All returns every tracked section id.
func All() []string {
	return []string{Summary, Skills, Experience, Education, References}
}

// VisibleSections returns the sections shown for tab.
func VisibleSections(tab types.Tab) []string {
	if tab == types.TabReferences {
		return []string{References}
	}
	return []string{Summary, Skills, Experience, Education}
}

// Snapshot is a copy of the collapse flags.
type Snapshot map[string]bool

// Store holds section collapse flags. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	collapsed map[string]bool
}

// NewStore creates a store with every section expanded, then applies defaults.
func NewStore(defaults map[string]bool) *Store {
	s := &Store{collapsed: make(map[string]bool)}
	for _, id := range All() {
		s.collapsed[id] = false
	}
	for id, v := range defaults {
		s.collapsed[id] = v
	}
	return s
}

// IsCollapsed reports the flag for id. Unknown ids are expanded.
func (s *Store) IsCollapsed(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collapsed[id]
}

// Toggle flips the flag for id and returns the new value.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collapsed[id] = !s.collapsed[id]
	return s.collapsed[id]
}

// AllCollapsed reports whether every visible section of tab is collapsed.
func (s *Store) AllCollapsed(tab types.Tab) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allCollapsedLocked(tab)
}

func (s *Store) allCollapsedLocked(tab types.Tab) bool {
	for _, id := range VisibleSections(tab) {
		if !s.collapsed[id] {
			return false
		}
	}
	return true
}

// ToggleAll collapses every visible section of tab, or expands them all when
// they are already collapsed. Sections outside the visible set are untouched.
func (s *Store) ToggleAll(tab types.Tab) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	collapse := !s.allCollapsedLocked(tab)
	for _, id := range VisibleSections(tab) {
		s.collapsed[id] = collapse
	}
	return collapse
}

// Snapshot copies the current flags.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(Snapshot, len(s.collapsed))
	for id, v := range s.collapsed {
		snap[id] = v
	}
	return snap
}

// ExpandAll sets every tracked flag to expanded.
func (s *Store) ExpandAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.collapsed {
		s.collapsed[id] = false
	}
}

// Restore replaces the flags with snap.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collapsed = make(map[string]bool, len(snap))
	for id, v := range snap {
		s.collapsed[id] = v
	}
}
