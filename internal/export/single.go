package export

import (
	"fmt"
	"strings"

	"gitlab.com/esr/rcs-fast-export/internal/markset"
	"gitlab.com/esr/rcs-fast-export/internal/rcs"
)

// IdentityResolver maps an RCS username to a git identity. Its
// implementation (authors-map file, git config, environment fallback) is
// external glue, not part of this package — see internal/ident.
type IdentityResolver interface {
	Resolve(username string) Ident
}

// Options configures how a single file's revisions become commits.
type Options struct {
	TagEachRev        bool
	LogFilename       bool
	AuthorAsCommitter bool
	// HostCommitter is used as the committer identity when
	// AuthorAsCommitter is false (spec.md section 4.F, "obtained from the
	// host identity").
	HostCommitter Ident
}

// ExportSingle emits every revision of file as a commit, in an order that
// respects parent availability (component F). Blobs are assumed already
// written by the parser; this only re-derives their marks to reference them.
func ExportSingle(file *rcs.RcsFile, marks *markset.Registry, identities IdentityResolver, opts Options, w *Writer) error {
	remaining := file.SortedIDs()
	exported := make(map[string]bool, len(remaining))

	for len(remaining) > 0 {
		var next []string
		progressed := false

		for _, id := range remaining {
			rev := file.Revisions[id]
			parent, hasParent := parentOf(rev)
			if hasParent && !exported[parent] {
				next = append(next, id)
				continue
			}
			if err := emitRevisionCommit(file, rev, parent, hasParent, marks, identities, opts, w); err != nil {
				return err
			}
			exported[id] = true
			progressed = true
		}

		if !progressed && len(next) > 0 {
			// Every remaining id is waiting on a parent that will never
			// come; the revision graph built by the parser guarantees
			// this cannot happen (every diff_base/next target exists),
			// so this is a defensive backstop, not an expected path.
			return fmt.Errorf("%s: export stalled, %d revision(s) with unresolvable parents", file.Filename, len(next))
		}
		remaining = next
	}
	return nil
}

// parentOf computes a revision's parent in commit order: "next" on the
// trunk (since trunk revisions are stored newest-first with next chaining
// toward the root), "diff_base" on a branch (spec.md section 4.F).
func parentOf(rev *rcs.Revision) (string, bool) {
	if rcs.OnTrunk(rev.ID) {
		if rev.Next == "" {
			return "", false
		}
		return rev.Next, true
	}
	if rev.DiffBase == "" {
		return "", false
	}
	return rev.DiffBase, true
}

func emitRevisionCommit(file *rcs.RcsFile, rev *rcs.Revision, parentID string, hasParent bool, marks *markset.Registry, identities IdentityResolver, opts Options, w *Writer) error {
	mark := marks.Commit(commitKey(file.Filename, rev.ID))

	branch := rev.Branch
	if branch == "" {
		branch = "master"
	}

	author := identities.Resolve(rev.Author)
	committer := opts.HostCommitter
	if opts.AuthorAsCommitter {
		committer = author
	}

	commit := Commit{
		Mark:      mark,
		Branch:    branch,
		Author:    author,
		Committer: committer,
		When:      rev.Date.Unix(),
		Log:       revisionLog(file.Filename, rev, opts.LogFilename),
	}
	if hasParent {
		commit.From = marks.Commit(commitKey(file.Filename, parentID))
	}
	if rev.State == "dead" {
		commit.FileOps = []FileOp{{Delete: true, Path: file.Filename}}
	} else {
		mode := "100644"
		if file.Executable {
			mode = "100755"
		}
		commit.FileOps = []FileOp{{Mode: mode, BlobMark: marks.Blob(file.Filename, rev.ID), Path: file.Filename}}
	}
	if err := w.WriteCommit(commit); err != nil {
		return err
	}

	for _, childID := range rev.Branches {
		if err := w.WriteReset(Reset{Ref: "refs/heads/" + rcs.BranchLabel(childID), From: mark}); err != nil {
			return err
		}
	}
	for _, name := range rev.BranchLabels {
		if err := w.WriteReset(Reset{Ref: "refs/heads/" + name, From: mark}); err != nil {
			return err
		}
	}
	for _, name := range rev.Symbols.Values() {
		if err := w.WriteReset(Reset{Ref: "refs/tags/" + name, From: mark}); err != nil {
			return err
		}
	}
	if opts.TagEachRev {
		if err := w.WriteReset(Reset{Ref: "refs/tags/" + rev.ID, From: mark}); err != nil {
			return err
		}
	}
	return nil
}

func commitKey(filename, revision string) string {
	return filename + "#" + revision
}

func revisionLog(filename string, rev *rcs.Revision, prefixFilename bool) []byte {
	var b strings.Builder
	if prefixFilename {
		b.WriteString(filename)
		b.WriteString(": ")
	}
	for i, line := range rev.Log {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if len(rev.Log) > 0 {
		b.WriteByte('\n')
	}
	return []byte(b.String())
}
