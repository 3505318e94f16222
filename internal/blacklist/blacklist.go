// Package blacklist implements the exact-match domain set described in
// spec §3: a fully-qualified domain is blocked only if it equals, after
// lowercasing, a configured entry — no suffix matching, no wildcards.
package blacklist

import "strings"

// Set is an immutable, case-normalized collection of blocked domain names.
// It is built once at startup (from config and/or a persisted store, see
// internal/store) and never mutated afterward, matching §3's "immutable
// after startup" configuration contract.
type Set struct {
	domains map[string]struct{}
}

// New builds a Set from a list of domain strings, lowercasing each one.
// Duplicate and empty entries are silently collapsed/ignored.
func New(domains []string) *Set {
	s := &Set{domains: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		d = normalize(d)
		if d == "" {
			continue
		}
		s.domains[d] = struct{}{}
	}
	return s
}

// Merge returns a new Set containing the union of all the given sets; nil
// sets are skipped. No input is mutated.
func Merge(sets ...*Set) *Set {
	merged := &Set{domains: make(map[string]struct{})}
	for _, s := range sets {
		if s == nil {
			continue
		}
		for d := range s.domains {
			merged.domains[d] = struct{}{}
		}
	}
	return merged
}

// Contains reports whether name, after lowercasing and trimming surrounding
// whitespace, is an exact member of the set.
func (s *Set) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.domains[normalize(name)]
	return ok
}

// Len returns the number of distinct entries in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.domains)
}

func normalize(d string) string {
	return strings.ToLower(strings.TrimSpace(d))
}
