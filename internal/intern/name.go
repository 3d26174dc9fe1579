// Package intern hash-conses the two kinds of repeated data the rest of the
// middle end addresses by handle instead of by value: source identifiers
// (Name) and structural type shapes (TypeId). Grounded on the teacher's
// symbol-table-by-name and typesystem.Type sum type, flattened into arenas
// of interned data per spec.md Component A.
package intern

import "sync"

// Name is an interned string handle. The zero value, EMPTY, is reserved and
// never returned by Intern for a non-empty lookup.
type Name uint32

// EMPTY is the sentinel Name for "no identifier" (e.g. an anonymous field).
const EMPTY Name = 0

// Strings interns byte strings into Name handles. Concurrent reads are
// safe; writes (new interning) take an exclusive lock, matching spec.md
// §4.A's "concurrent readers, exclusive writers" contract.
type Strings struct {
	mu      sync.RWMutex
	byText  map[string]Name
	byName  []string // index 0 is the EMPTY sentinel, entry is ""
}

// NewStrings creates an empty string interner with the EMPTY sentinel
// pre-registered.
func NewStrings() *Strings {
	return &Strings{
		byText: make(map[string]Name),
		byName: []string{""},
	}
}

// Intern returns the Name for s, minting a fresh one on first sight. Equal
// byte strings always return the same Name (idempotent).
func (s *Strings) Intern(text string) Name {
	if text == "" {
		return EMPTY
	}

	s.mu.RLock()
	if n, ok := s.byText[text]; ok {
		s.mu.RUnlock()
		return n
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check under the write lock: another writer may have interned
	// the same text between our RUnlock and Lock.
	if n, ok := s.byText[text]; ok {
		return n
	}
	n := Name(len(s.byName))
	s.byName = append(s.byName, text)
	s.byText[text] = n
	return n
}

// Lookup returns the text for a previously interned Name. Total for any
// Name returned by Intern on this interner; panics on an out-of-range
// handle, which indicates a programmer error (a Name from a different
// interner), not a user-facing diagnostic.
func (s *Strings) Lookup(n Name) string {
	if n == EMPTY {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if int(n) >= len(s.byName) {
		panic("intern: Name out of range for this interner")
	}
	return s.byName[n]
}

// Len returns the number of distinct names interned so far, EMPTY included.
func (s *Strings) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}
