package export

import (
	"fmt"
	"sort"

	"gitlab.com/esr/rcs-fast-export/internal/markset"
)

// ExportMulti emits one commit per coalesced Candidate, each keyed by its
// representative date, with no "from" line (multi-file branch support is a
// non-goal) and a manifest covering every file in its Tree (component H).
func ExportMulti(candidates []*Candidate, marks *markset.Registry, identities IdentityResolver, w *Writer) error {
	for i, cand := range candidates {
		mark := marks.Commit(fmt.Sprintf("coalesced#%d", i))
		author := identities.Resolve(cand.Author)

		commit := Commit{
			Mark:      mark,
			Branch:    "master",
			Author:    author,
			Committer: author,
			When:      cand.Date.Unix(),
			Log:       []byte(cand.Log),
			FileOps:   manifestOf(cand, marks),
		}
		if err := w.WriteCommit(commit); err != nil {
			return err
		}
		for _, name := range cand.Symbols.Values() {
			if err := w.WriteReset(Reset{Ref: "refs/tags/" + name, From: mark}); err != nil {
				return err
			}
		}
	}
	return nil
}

// manifestOf returns this commit's file operations sorted by path: Tree is
// a Go map, and the output stream must be byte-identical across runs on
// identical input (spec.md section 5, "Determinism").
func manifestOf(cand *Candidate, marks *markset.Registry) []FileOp {
	names := make([]string, 0, len(cand.Tree))
	for name := range cand.Tree {
		names = append(names, name)
	}
	sort.Strings(names)

	ops := make([]FileOp, 0, len(names))
	for _, name := range names {
		fr := cand.Tree[name]
		if fr.Rev.State == "dead" {
			ops = append(ops, FileOp{Delete: true, Path: name})
			continue
		}
		mode := "100644"
		if fr.File.Executable {
			mode = "100755"
		}
		ops = append(ops, FileOp{Mode: mode, BlobMark: marks.Blob(name, fr.Rev.ID), Path: name})
	}
	return ops
}
