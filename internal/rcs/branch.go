package rcs

import (
	"strings"

	"gitlab.com/esr/rcs-fast-export/internal/rcslog"
)

// ResolveBranches implements component E: after parsing, some revision ids
// exist only because the admin "symbols" section named them (RCS's magic
// branch-number convention tags a branch as a whole using an id that never
// receives its own header/data block). Such a placeholder has no date, no
// author, and was never linked into the delta graph by any "next" or
// "branches" statement — it carries only the symbol names attached to it.
//
// For each placeholder P, find the highest-numbered (by dotted-id
// comparison) actually-dated revision R whose id begins with "P.ID.", move
// P's symbols onto R as branch labels, and discard P. If no dated
// descendant exists, that's spec.md section 7 kind 5, "complex branch
// structure" — fatal, per the Open Question decision in DESIGN.md.
func ResolveBranches(file *RcsFile) error {
	for _, id := range file.SortedIDs() {
		p, ok := file.Revisions[id]
		if !ok || !isPlaceholder(p) {
			continue
		}
		best, bestID := findHighestDatedDescendant(file, id)
		if best == nil {
			return rcslog.Throw("complex branch structure", file.Filename, 0,
				"symbol(s) %s on revision %s have no dated descendant", p.Symbols, id)
		}
		best.BranchLabels = append(best.BranchLabels, p.Symbols.Values()...)
		delete(file.Revisions, id)
	}
	return nil
}

func isPlaceholder(r *Revision) bool {
	return r.Date.IsZero() && r.Author == "" && r.Symbols.Len() > 0 && !r.diffBaseSet
}

func findHighestDatedDescendant(file *RcsFile, id string) (*Revision, string) {
	prefix := id + "."
	var best *Revision
	var bestID string
	for rid, r := range file.Revisions {
		if !strings.HasPrefix(rid, prefix) || r.Date.IsZero() {
			continue
		}
		if best == nil || compareIDs(rid, bestID) > 0 {
			best, bestID = r, rid
		}
	}
	return best, bestID
}
