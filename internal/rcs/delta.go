package rcs

import (
	"regexp"
	"strconv"

	"gitlab.com/esr/rcs-fast-export/internal/rcslog"
)

// replayDelta implements component D (spec.md section 4.D): it
// reconstructs a revision's text by applying an a/d edit script against
// its diff base text.
//
// The slot model: base is materialized as one slot per line, 1-indexed.
// "d<line> <count>" clears count slots starting at line (making them
// empty, not removing them, so later "a" commands still see the original
// base coordinate system). "a<line> <count>" appends count payload lines
// after the contents of the slot at index line, i.e. after base line line
// (0 means the very front, since slot 0 holds no base line). After all
// commands run, flattening the non-empty slots in order yields the new
// text.
func replayDelta(base []string, script []string, filename string) ([]string, error) {
	slots := make([][]string, len(base)+1) // 1-indexed; slots[0] unused except as a0 target
	for i, line := range base {
		slots[i+1] = []string{line}
	}

	i := 0
	for i < len(script) {
		cmd := script[i]
		i++
		if cmd == "" {
			rcslog.Warn("%s: empty diff command line skipped", filename)
			continue
		}
		op, line, count, ok := parseDiffCommand(cmd)
		if !ok {
			return nil, errMalformedDiff(filename, "unrecognized diff command: %q", cmd)
		}
		switch op {
		case 'd':
			if line < 1 || count < 0 || line+count-1 > len(base) {
				return nil, errMalformedDiff(filename, "delete command out of range: %q", cmd)
			}
			for k := 0; k < count; k++ {
				slots[line+k] = nil
			}
		case 'a':
			if line < 0 || count < 0 {
				return nil, errMalformedDiff(filename, "negative index/count in append command: %q", cmd)
			}
			if i+count > len(script) {
				return nil, errMalformedDiff(filename, "append command %q wants %d lines, only %d remain", cmd, count, len(script)-i)
			}
			payload := script[i : i+count]
			i += count
			if line >= len(slots) {
				grown := make([][]string, line+1)
				copy(grown, slots)
				slots = grown
			}
			slots[line] = append(append([]string{}, slots[line]...), payload...)
		default:
			return nil, errMalformedDiff(filename, "unrecognized diff command: %q", cmd)
		}
	}

	out := make([]string, 0, len(base))
	for _, slot := range slots {
		out = append(out, slot...)
	}
	return out, nil
}

var diffCommandRE = regexp.MustCompile(`^([ad])(-?[0-9]+) (-?[0-9]+)$`)

func parseDiffCommand(cmd string) (op byte, line int, count int, ok bool) {
	m := diffCommandRE.FindStringSubmatch(cmd)
	if m == nil {
		return 0, 0, 0, false
	}
	line, _ = strconv.Atoi(m[2])
	count, _ = strconv.Atoi(m[3])
	return m[1][0], line, count, true
}

func errMalformedDiff(filename, format string, args ...interface{}) error {
	return rcslog.Throw("malformed diff command", filename, 0, format, args...)
}
