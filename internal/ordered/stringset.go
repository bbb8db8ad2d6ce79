// Package ordered provides insertion-ordered set wrappers used for symbol
// sets and the coalescer's file obstruction set, mirroring the
// fastOrderedIntSet/selectionSet wrapper idiom in reposurgeon's
// surgeon/inner.go and surgeon/selection.go, which wrap
// github.com/emirpasic/gods rather than hand-rolling set logic.
package ordered

import (
	"sort"
	"strings"

	orderedset "github.com/emirpasic/gods/sets/linkedhashset"
)

// StringSet is an insertion-ordered set of strings.
type StringSet struct{ set *orderedset.Set }

// NewStringSet builds a StringSet from zero or more initial members.
func NewStringSet(items ...string) *StringSet {
	vals := make([]interface{}, len(items))
	for i, it := range items {
		vals[i] = it
	}
	return &StringSet{set: orderedset.New(vals...)}
}

// Add inserts item if absent.
func (s *StringSet) Add(item string) {
	s.set.Add(item)
}

// Contains reports set membership.
func (s *StringSet) Contains(item string) bool {
	return s.set.Contains(item)
}

// Remove deletes item if present.
func (s *StringSet) Remove(item string) {
	s.set.Remove(item)
}

// Len returns the number of members.
func (s *StringSet) Len() int {
	return s.set.Size()
}

// Values returns members in insertion order.
func (s *StringSet) Values() []string {
	raw := s.set.Values()
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = v.(string)
	}
	return out
}

// Sorted returns members in lexical order, for deterministic output.
func (s *StringSet) Sorted() []string {
	out := s.Values()
	sort.Strings(out)
	return out
}

// Union returns a new set containing every member of s and other.
func (s *StringSet) Union(other *StringSet) *StringSet {
	out := NewStringSet(s.Values()...)
	for _, v := range other.Values() {
		out.Add(v)
	}
	return out
}

// SubsetOf reports whether every member of s is also a member of other.
func (s *StringSet) SubsetOf(other *StringSet) bool {
	for _, v := range s.Values() {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// Comparable reports whether s and other are related by inclusion in
// either direction, the symbol-set admission rule in spec.md 4.G.
func (s *StringSet) Comparable(other *StringSet) bool {
	return s.SubsetOf(other) || other.SubsetOf(s)
}

// String renders the set for diagnostics, e.g. in a coalesce-conflict
// warning naming the disagreeing symbols.
func (s *StringSet) String() string {
	return "{" + strings.Join(s.Sorted(), ", ") + "}"
}
