package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"gitlab.com/esr/rcs-fast-export/internal/ordered"
	"gitlab.com/esr/rcs-fast-export/internal/rcs"
	"gitlab.com/esr/rcs-fast-export/internal/rcslog"
)

// CoalesceOptions configures the fuzzy-time commit grouping heuristic
// (component G).
type CoalesceOptions struct {
	Fuzz         time.Duration
	SymbolCheck  bool
	SkipBranches bool
}

// fileRevision is one entry of a Candidate's Tree: the file it belongs to
// (for the executable bit) paired with the chosen revision.
type fileRevision struct {
	File *rcs.RcsFile
	Rev  *rcs.Revision
}

// Candidate is a tentative commit, initially one file's single revision
// (spec.md section 4.G) and, after merging, possibly several.
type Candidate struct {
	MinDate time.Time
	Date    time.Time
	MaxDate time.Time
	Author  string
	Log     string
	Symbols *ordered.StringSet
	Tree    map[string]fileRevision // filename -> revision
	merged  bool
}

// BuildCandidates wraps every file's trunk revisions into tentative
// single-file commits. Revisions on a non-empty branch are dropped (with a
// warning) when SkipBranches is set, or cause a hard error otherwise —
// multi-file branch reconstruction is an explicit non-goal.
func BuildCandidates(files []*rcs.RcsFile, opts CoalesceOptions) ([]*Candidate, error) {
	var out []*Candidate
	for _, file := range files {
		for _, id := range file.SortedIDs() {
			rev := file.Revisions[id]
			if rev.Branch != "" {
				if !opts.SkipBranches {
					return nil, fmt.Errorf("%s: revision %s is on branch %s, multi-file export requires -skip-branches", file.Filename, id, rev.Branch)
				}
				rcslog.Warn("%s: dropping branched revision %s (%s) from multi-file export", file.Filename, id, rev.Branch)
				continue
			}
			out = append(out, &Candidate{
				MinDate: rev.Date,
				Date:    rev.Date,
				MaxDate: rev.Date,
				Author:  rev.Author,
				Log:     joinLog(rev.Log),
				Symbols: rev.Symbols,
				Tree:    map[string]fileRevision{file.Filename: {File: file, Rev: rev}},
			})
		}
	}
	return out, nil
}

func joinLog(lines []string) string {
	var b bytes.Buffer
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l)
	}
	if len(lines) > 0 {
		b.WriteByte('\n')
	}
	return b.String()
}

// Coalesce groups candidates into multi-file commits under the fuzzy-time
// heuristic, returning the survivors in ascending date order (component G).
func Coalesce(candidates []*Candidate, opts CoalesceOptions) []*Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].Date.Equal(candidates[j].Date) {
			return candidates[i].Date.Before(candidates[j].Date)
		}
		return candidates[i].Symbols.Len() < candidates[j].Symbols.Len()
	})

	for i := len(candidates) - 1; i >= 0; i-- {
		base := candidates[i]
		if base.merged {
			continue
		}
		ofiles := ordered.NewStringSet()
		var mergeable []*Candidate

		for j := i + 1; j < len(candidates); j++ {
			cand := candidates[j]
			if cand.merged {
				continue
			}
			if cand.MinDate.After(base.MaxDate.Add(opts.Fuzz)) {
				break
			}
			if treesIntersect(base.Tree, cand.Tree) {
				break // would reorder one of our files' history; stop looking further
			}
			if base.Author != cand.Author || base.Log != cand.Log {
				addFilesTo(ofiles, cand)
				continue
			}
			if opts.SymbolCheck && !base.Symbols.Comparable(cand.Symbols) {
				rcslog.Warn("coalesce: revisions at %s and %s disagree on symbols (%s vs %s), not merging",
					base.Date.Format(time.RFC3339), cand.Date.Format(time.RFC3339), base.Symbols, cand.Symbols)
				addFilesTo(ofiles, cand)
				continue
			}
			if treesIntersect(ofilesAsTree(ofiles), cand.Tree) {
				addFilesTo(ofiles, cand)
				continue
			}
			mergeable = append(mergeable, cand)
		}

		for _, cand := range mergeable {
			if !mergeCandidate(base, cand) {
				neededFuzz := cand.MinDate.Sub(base.MaxDate)
				rcslog.Warn("coalesce: commit at %s would need fuzz >= %s to merge with conflicting revision at %s; abandoning further merges",
					base.Date.Format(time.RFC3339), neededFuzz, cand.Date.Format(time.RFC3339))
				break
			}
			cand.merged = true
		}
	}

	survivors := make([]*Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.merged {
			survivors = append(survivors, c)
		}
	}
	return survivors
}

func treesIntersect(a, b map[string]fileRevision) bool {
	for name := range a {
		if _, ok := b[name]; ok {
			return true
		}
	}
	return false
}

func ofilesAsTree(names *ordered.StringSet) map[string]fileRevision {
	out := make(map[string]fileRevision, names.Len())
	for _, n := range names.Values() {
		out[n] = fileRevision{}
	}
	return out
}

func addFilesTo(set *ordered.StringSet, cand *Candidate) {
	for name := range cand.Tree {
		set.Add(name)
	}
}

// mergeCandidate folds cand into base: widening the date range, unioning
// symbols, and adding cand's files to base's Tree. Returns false (without
// partially applying cand) if cand collides with an existing file in base's
// Tree under differing text — fatal for this merge, not for the run.
func mergeCandidate(base, cand *Candidate) bool {
	for name, fr := range cand.Tree {
		if existing, ok := base.Tree[name]; ok {
			if !sameText(existing.Rev, fr.Rev) {
				return false
			}
			rcslog.Warn("coalesce: %s present in both merged revisions with identical text, keeping the earlier one", name)
			continue
		}
	}
	for name, fr := range cand.Tree {
		if _, ok := base.Tree[name]; !ok {
			base.Tree[name] = fr
		}
	}
	if cand.MinDate.Before(base.MinDate) {
		base.MinDate = cand.MinDate
	}
	if cand.MaxDate.After(base.MaxDate) {
		base.MaxDate = cand.MaxDate
	}
	base.Symbols = base.Symbols.Union(cand.Symbols)
	return true
}

func sameText(a, b *rcs.Revision) bool {
	if len(a.Text) != len(b.Text) {
		return false
	}
	for i := range a.Text {
		if a.Text[i] != b.Text[i] {
			return false
		}
	}
	return true
}
