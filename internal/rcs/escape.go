package rcs

import "strings"

// decodeLiteral implements component B: the @-quoted string literal format
// of ,v files (spec.md section 4.B).
//
// Spec.md phrases the contract line-by-line: walk physical lines counting
// the trailing run of '@' at end-of-line, an odd run terminates the
// literal. Because a doubled "@@" escape can never straddle a line break
// (its two '@' are adjacent bytes, so no newline falls between them),
// pairing '@'s from the left within a line gives the same answer as
// counting the trailing run, and the per-line rule reduces to a single
// linear scan of the byte stream: an '@'
// immediately followed by another '@' is an escaped literal '@'; any other
// '@' ends the literal. This is the simpler, single-pass form used here.
//
// data must begin with '@'. It returns the decoded text (a single string,
// with any embedded newlines intact) and the number of bytes of data
// consumed, including the opening and closing '@'.
func decodeLiteral(data []byte) (string, int, error) {
	if len(data) == 0 || data[0] != '@' {
		return "", 0, errMalformedLiteral("literal does not begin with '@'")
	}
	var out strings.Builder
	i := 1
	for i < len(data) {
		if data[i] != '@' {
			out.WriteByte(data[i])
			i++
			continue
		}
		// data[i] == '@'
		if i+1 < len(data) && data[i+1] == '@' {
			out.WriteByte('@')
			i += 2
			continue
		}
		// Unpaired '@': terminator.
		return out.String(), i + 1, nil
	}
	return "", 0, errMalformedLiteral("unterminated literal (EOF before a closing '@')")
}

// encodeLiteral is the inverse of decodeLiteral: it produces the @-quoted,
// @@-escaped representation of text, required for the round-trip property
// (spec.md section 8) though not needed by export itself.
func encodeLiteral(text string) string {
	return "@" + strings.ReplaceAll(text, "@", "@@") + "@"
}

func errMalformedLiteral(msg string) error {
	return &literalError{msg}
}

type literalError struct{ msg string }

func (e *literalError) Error() string { return "malformed literal: " + e.msg }
