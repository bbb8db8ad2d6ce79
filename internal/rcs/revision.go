package rcs

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"gitlab.com/esr/rcs-fast-export/internal/ordered"
)

// Revision is one historical version of an RcsFile (spec.md section 3).
type Revision struct {
	ID          string
	Author      string
	Date        time.Time
	State       string
	Log         []string
	Text        []string // reconstructed full text, filled in by the delta replayer
	Branches    []string // child branch-head revision ids, declared on this revision
	Next        string   // successor on the same line of descent
	DiffBase    string   // revision whose text+delta yields this one
	Branch      string   // branch label, empty iff this revision is on the trunk
	BranchPoint string   // trunk revision this branch sprouted from

	// BranchLabels holds branch ref names to reset at this revision beyond
	// the ones implied by Branches' child ids — populated by the
	// symbol-placeholder resolver (component E) when a magic-number branch
	// tag's nominal revision never received its own header block.
	BranchLabels []string

	Symbols *ordered.StringSet // symbolic names attached to this revision

	// diffOps is not assigned by the parser: materializeText passes each
	// revision's a/d script straight to the delta replayer.
	diffOps []string

	diffBaseSet bool // guards against spec.md 4.C's "re-assigning diff_base is an error"
}

func newRevision(id string) *Revision {
	return &Revision{ID: id, Symbols: ordered.NewStringSet()}
}

// IsHead reports whether this revision has no diff base, i.e. its text was
// stored verbatim rather than as a delta.
func (r *Revision) IsHead() bool {
	return r.DiffBase == ""
}

// OnTrunk reports whether this revision's id has exactly two dotted
// components (the trunk invariant from the glossary).
func OnTrunk(id string) bool {
	return strings.Count(id, ".") == 1
}

// BranchLabel derives a branch label from a revision id by dropping its
// last dotted component and appending ".x" (spec.md section 3).
func BranchLabel(id string) string {
	i := strings.LastIndexByte(id, '.')
	if i < 0 {
		return id + ".x"
	}
	return id[:i] + ".x"
}

// dottedComponents splits a dotted revision id into its integer
// components, for the component-wise comparison spec.md section 9
// recommends over a plain string sort (multi-digit components like
// "1.10" vs "1.2" sort incorrectly as strings).
func dottedComponents(id string) []int {
	parts := strings.Split(id, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			// Not a well-formed numeric id; fall back to 0 so callers
			// still get a total (if degenerate) order instead of a panic.
			n = 0
		}
		out[i] = n
	}
	return out
}

// compareIDs orders two dotted revision ids component-wise, returning a
// negative/zero/positive value the way strings.Compare does.
func compareIDs(a, b string) int {
	ca, cb := dottedComponents(a), dottedComponents(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		if ca[i] != cb[i] {
			return ca[i] - cb[i]
		}
	}
	return len(ca) - len(cb)
}

// RcsFile is one parsed ,v file (spec.md section 3).
type RcsFile struct {
	Filename   string // logical filename as exported, independent of on-disk path
	Executable bool
	Head       string
	Comment    string
	Desc       []string

	Revisions map[string]*Revision

	// encoding is not set by the parser or the driver; Transcode receives
	// the -encoding charset name as an argument instead.
	encoding string
}

func newRcsFile(filename string) *RcsFile {
	return &RcsFile{Filename: filename, Revisions: make(map[string]*Revision)}
}

// revision returns the existing Revision for id, creating a placeholder if
// this is the first time id has been mentioned (e.g. as a "branches" or
// "next" target before its own header block has been parsed).
func (f *RcsFile) revision(id string) *Revision {
	if rev, ok := f.Revisions[id]; ok {
		return rev
	}
	rev := newRevision(id)
	f.Revisions[id] = rev
	return rev
}

// SortedIDs returns every revision id in this file ordered component-wise
// (spec.md section 9's suggested improvement over a plain string sort).
func (f *RcsFile) SortedIDs() []string {
	ids := make([]string, 0, len(f.Revisions))
	for id := range f.Revisions {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return compareIDs(ids[i], ids[j]) < 0 })
}
