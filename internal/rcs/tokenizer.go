package rcs

import (
	"regexp"

	"gitlab.com/esr/rcs-fast-export/internal/rcslog"
)

// tokenizer is the low-level lexer for the ,v grammar: administrative
// keywords and revision ids are whitespace-separated words terminated by
// ';', while log/text/desc/comment values are @-quoted literals (component
// B). Grounded on the buffered-reader-plus-small-helpers shape of
// reposurgeon's StreamParser (surgeon/svnread.go's sdRequireHeader /
// sdReadBlob), adapted to RCS's token grammar rather than SVN's
// header-plus-length-prefixed-blob grammar.
type tokenizer struct {
	data     []byte
	pos      int
	line     int
	filename string
}

func newTokenizer(data []byte, filename string) *tokenizer {
	return &tokenizer{data: data, pos: 0, line: 1, filename: filename}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func (t *tokenizer) skipSpace() {
	for t.pos < len(t.data) && isSpace(t.data[t.pos]) {
		if t.data[t.pos] == '\n' {
			t.line++
		}
		t.pos++
	}
}

// token is one lexed unit: either a bare word/";' punctuation, or a
// decoded @-literal.
type token struct {
	text      string
	isLiteral bool
}

// next returns the next token, or ok=false at end of input.
func (t *tokenizer) next() (token, bool) {
	t.skipSpace()
	if t.pos >= len(t.data) {
		return token{}, false
	}
	if t.data[t.pos] == '@' {
		text, consumed, err := decodeLiteral(t.data[t.pos:])
		if err != nil {
			panic(t.errf("%v", err))
		}
		for _, b := range t.data[t.pos : t.pos+consumed] {
			if b == '\n' {
				t.line++
			}
		}
		t.pos += consumed
		return token{text: text, isLiteral: true}, true
	}
	if t.data[t.pos] == ';' {
		t.pos++
		return token{text: ";"}, true
	}
	start := t.pos
	for t.pos < len(t.data) && !isSpace(t.data[t.pos]) && t.data[t.pos] != ';' && t.data[t.pos] != '@' {
		t.pos++
	}
	return token{text: string(t.data[start:t.pos])}, true
}

var numericIDRE = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

func isRevisionID(tok string) bool {
	return numericIDRE.MatchString(tok)
}

func (t *tokenizer) errf(format string, args ...interface{}) *rcslog.ParseError {
	return rcslog.Throw("malformed literal", t.filename, t.line, format, args...)
}
