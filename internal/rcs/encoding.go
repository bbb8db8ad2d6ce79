package rcs

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
)

// Transcode re-encodes every log line and the file description to UTF-8,
// following the same approach as reposurgeon's interactive "transcode"
// command (surgeon/reposurgeon.go's DoTranscode), except applied
// automatically during export rather than as a DSL verb, since this tool
// has no interactive shell (SPEC_FULL.md, "comment encoding").
//
// name is an IANA charset name such as "ISO-8859-1"; if empty, lines that
// are already valid UTF-8 are left untouched and invalid ones are decoded
// as Latin-1, the RCS-era default.
func Transcode(file *RcsFile, name string) error {
	decode, err := transcoder(name)
	if err != nil {
		return err
	}
	file.Desc = transcodeLines(file.Desc, decode)
	for _, rev := range file.Revisions {
		rev.Log = transcodeLines(rev.Log, decode)
	}
	return nil
}

func transcoder(name string) (func([]byte) string, error) {
	if name == "" {
		latin1, err := ianaindex.IANA.Encoding("ISO-8859-1")
		if err != nil {
			return nil, err
		}
		decoder := latin1.NewDecoder()
		return func(b []byte) string {
			if utf8.Valid(b) {
				return string(b)
			}
			out, err := decoder.Bytes(b)
			if err != nil {
				return string(b)
			}
			return string(out)
		}, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	decoder := enc.NewDecoder()
	return func(b []byte) string {
		out, err := decoder.Bytes(b)
		if err != nil {
			return string(b)
		}
		return string(out)
	}, nil
}

func transcodeLines(lines []string, decode func([]byte) string) []string {
	if lines == nil {
		return nil
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = decode([]byte(l))
	}
	return out
}
