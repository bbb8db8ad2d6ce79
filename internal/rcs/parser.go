package rcs

import (
	"fmt"
	"strings"

	"gitlab.com/esr/rcs-fast-export/internal/markset"
	"gitlab.com/esr/rcs-fast-export/internal/rcslog"
)

// BlobSink receives blob records as revision texts are reconstructed
// during parsing, so they reach the output stream ahead of any commit
// referring to them (spec.md section 4, "Blobs are emitted eagerly during
// parsing"). Any type with this method satisfies it, including
// internal/export's stream writer — no import from rcs to export is
// needed since Go interfaces are satisfied structurally.
type BlobSink interface {
	WriteBlob(mark int, data []byte) error
}

// Options configures the grammar parser (component C).
type Options struct {
	// ExpandKeywords delegates text reconstruction to an external
	// `co -q -p<rev>` invocation instead of replaying deltas (spec.md
	// section 4.C, 4.D supplemented feature). Left unset unless the
	// driver's -expand-keywords flag is on.
	ExpandKeywords bool
	// CheckoutFunc is injected so tests don't need a real `co` binary on
	// PATH; when it is nil (as the driver leaves it), defaultCheckout runs
	// the real `co` via os/exec. Only consulted when ExpandKeywords is true.
	CheckoutFunc func(rcsPath, revision string) ([]byte, error)
	// RCSPath is the on-disk path of the ,v file, needed by CheckoutFunc.
	RCSPath string
}

// parsePhase is the parser's single top-level state (there is no state
// stack): the admin section, the block of revision headers, or the block
// of revision-data bodies that follows "desc".
type parsePhase int

const (
	phaseAdmin parsePhase = iota
	phaseHeader
	phaseData
)

// Parse reads one ,v file's bytes into an RcsFile, replaying every delta to
// reconstruct full revision text, and emits each revision's blob to sink as
// soon as its text is known. filename is the logical name under which the
// file will be exported (independent of its on-disk RCS path).
func Parse(data []byte, filename string, opts Options, marks *markset.Registry, sink BlobSink) (file *RcsFile, err error) {
	defer func() {
		if pe := rcslog.Catch(recover()); pe != nil {
			err = pe
		}
	}()

	tz := newTokenizer(data, filename)
	file = newRcsFile(filename)
	phase := phaseAdmin
	var cur *Revision

	for {
		tok, ok := tz.next()
		if !ok {
			break
		}
		if tok.isLiteral {
			panic(tz.errf("unexpected literal at top level"))
		}

		if isRevisionID(tok.text) {
			if phase == phaseAdmin {
				phase = phaseHeader
			}
			cur = file.revision(tok.text)
			continue
		}

		switch tok.text {
		case "head":
			file.Head = requireValue(tz)
		case "branch":
			requireValue(tz) // default branch, not otherwise used by export
		case "access", "locks":
			skipToSemicolon(tz)
		case "symbols":
			parseSymbols(tz, file)
		case "comment":
			file.Comment = requireLiteralValue(tz)
		case "expand":
			requireValue(tz) // keyword-expansion mode string, informational only
		case "desc":
			file.Desc = splitLines(requireLiteralBare(tz))
			phase = phaseData
			cur = nil

		case "date":
			requirePhase(tz, phase, phaseHeader, "date")
			text := requireValue(tz)
			d, perr := parseRCSDate(text)
			if perr != nil {
				panic(tz.errf("%v", perr))
			}
			cur.Date = d
		case "author":
			requirePhase(tz, phase, phaseHeader, "author")
			cur.Author = requireValue(tz)
		case "state":
			requirePhase(tz, phase, phaseHeader, "state")
			cur.State = requireValue(tz)
		case "branches":
			requirePhase(tz, phase, phaseHeader, "branches")
			parseBranches(tz, file, cur)
		case "next":
			requirePhase(tz, phase, phaseHeader, "next")
			next := requireValue(tz)
			if next != "" {
				assignDiffBase(file, next, cur.ID, cur.Branch, tz)
				cur.Next = next
			}

		case "log":
			requirePhase(tz, phase, phaseData, "log")
			cur.Log = splitLines(requireLiteralBare(tz))
		case "text":
			requirePhase(tz, phase, phaseData, "text")
			literal := requireLiteralBare(tz)
			materializeText(tz, file, cur, literal, opts)
			emitBlob(file, cur, marks, sink)

		default:
			rcslog.Debugf("%s: unknown administrative keyword %q, skipped", filename, tok.text)
			skipToSemicolon(tz)
		}
	}
	return file, nil
}

func requirePhase(tz *tokenizer, have, want parsePhase, keyword string) {
	if have != want {
		panic(tz.errf("%q keyword seen outside its expected section", keyword))
	}
}

// requireValue reads one word token (or the empty string for an elided
// value like "next ;") and consumes the following ";".
func requireValue(tz *tokenizer) string {
	tok := requireToken(tz)
	if !tok.isLiteral && tok.text == ";" {
		return ""
	}
	expectSemicolon(tz)
	return tok.text
}

// requireLiteralValue reads a literal value and consumes a trailing ';'
// (used by "comment", which the grammar terminates with one).
func requireLiteralValue(tz *tokenizer) string {
	text := requireLiteralBare(tz)
	expectSemicolon(tz)
	return text
}

// requireLiteralBare reads a literal value with no trailing ';' to consume
// (used by "desc", "log", "text", which self-terminate).
func requireLiteralBare(tz *tokenizer) string {
	tok := requireToken(tz)
	if !tok.isLiteral {
		panic(tz.errf("expected a literal value, got %q", tok.text))
	}
	return tok.text
}

func requireToken(tz *tokenizer) token {
	tok, ok := tz.next()
	if !ok {
		panic(tz.errf("unexpected end of file"))
	}
	return tok
}

func expectSemicolon(tz *tokenizer) {
	tok := requireToken(tz)
	if tok.isLiteral || tok.text != ";" {
		panic(tz.errf("expected ';', got %q", tok.text))
	}
}

// skipToSemicolon discards tokens (words or literals) up to and including
// the next bare ';', for admin values this parser doesn't interpret
// (access lists, lock lists, unknown keywords).
func skipToSemicolon(tz *tokenizer) {
	for {
		tok := requireToken(tz)
		if !tok.isLiteral && tok.text == ";" {
			return
		}
	}
}

// parseSymbols reads the "name:rev" pairs of the admin "symbols" block
// (spec.md section 4.C) and attaches each name to the corresponding
// revision's symbol set, creating a placeholder Revision if the id hasn't
// been seen yet (it may be resolved later by the branch/tag resolver,
// component E).
func parseSymbols(tz *tokenizer, file *RcsFile) {
	for {
		tok := requireToken(tz)
		if !tok.isLiteral && tok.text == ";" {
			return
		}
		if tok.isLiteral {
			panic(tz.errf("symbols list may not contain a literal"))
		}
		name, rev, ok := splitSymbolPair(tok.text)
		if !ok {
			panic(tz.errf("malformed symbol pair %q", tok.text))
		}
		file.revision(rev).Symbols.Add(name)
	}
}

func splitSymbolPair(tok string) (name, rev string, ok bool) {
	i := strings.LastIndexByte(tok, ':')
	if i < 0 {
		return "", "", false
	}
	return tok[:i], tok[i+1:], true
}

func parseBranches(tz *tokenizer, file *RcsFile, rev *Revision) {
	for {
		tok := requireToken(tz)
		if !tok.isLiteral && tok.text == ";" {
			return
		}
		if tok.isLiteral {
			panic(tz.errf("branches list may not contain a literal"))
		}
		assignDiffBase(file, tok.text, rev.ID, BranchLabel(tok.text), tz)
		branchHead := file.revision(tok.text)
		branchHead.BranchPoint = rev.ID
		rev.Branches = append(rev.Branches, tok.text)
	}
}

// assignDiffBase sets child.DiffBase = parentID and child.Branch, erroring
// if it was already set by an earlier "next" or "branches" statement
// (spec.md section 7, kind 4: "Duplicate diff_base").
func assignDiffBase(file *RcsFile, childID, parentID, branch string, tz *tokenizer) {
	child := file.revision(childID)
	if child.diffBaseSet {
		panic(rcslog.Throw("duplicate diff_base", tz.filename, tz.line,
			"revision %s already has a diff base (%s), cannot reassign to %s", childID, child.DiffBase, parentID))
	}
	child.DiffBase = parentID
	child.diffBaseSet = true
	child.Branch = branch
}

func materializeText(tz *tokenizer, file *RcsFile, rev *Revision, literal string, opts Options) {
	if opts.ExpandKeywords {
		text, err := checkoutRevision(file, rev, opts)
		if err != nil {
			rcslog.Warn("%s: keyword expansion via external co failed for %s, falling back to delta replay: %v", file.Filename, rev.ID, err)
		} else {
			rev.Text = splitLines(string(text))
			return
		}
	}
	if rev.IsHead() {
		rev.Text = splitLines(literal)
		return
	}
	base, ok := file.Revisions[rev.DiffBase]
	if !ok || base.Text == nil {
		panic(rcslog.Throw("missing diff base", tz.filename, tz.line,
			"missing diff base %s for revision %s", rev.DiffBase, rev.ID))
	}
	script := splitLines(literal)
	text, err := replayDelta(base.Text, script, file.Filename)
	if err != nil {
		panic(err)
	}
	rev.Text = text
}

func emitBlob(file *RcsFile, rev *Revision, marks *markset.Registry, sink BlobSink) {
	mark := marks.Blob(file.Filename, rev.ID)
	data := joinLines(rev.Text)
	if err := sink.WriteBlob(mark, data); err != nil {
		panic(fmt.Errorf("%s: writing blob for revision %s: %w", file.Filename, rev.ID, err))
	}
}

// splitLines turns a decoded literal's text into individual lines, the
// way the source file's own newlines delimited them; a single trailing
// newline (the normal case for RCS text/log literals) does not produce a
// spurious trailing empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func joinLines(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}
