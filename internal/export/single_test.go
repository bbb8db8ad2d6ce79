package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/esr/rcs-fast-export/internal/markset"
	"gitlab.com/esr/rcs-fast-export/internal/ordered"
	"gitlab.com/esr/rcs-fast-export/internal/rcs"
)

type fakeIdentities struct{}

func (fakeIdentities) Resolve(username string) Ident {
	return Ident{Name: username, Email: username + "@example.com"}
}

func TestExportSingleRevisionNoParent(t *testing.T) {
	// spec.md section 8, scenario 1.
	file := &rcs.RcsFile{
		Filename: "m.c",
		Head:     "1.1",
		Revisions: map[string]*rcs.Revision{
			"1.1": {
				ID:      "1.1",
				Author:  "alice",
				Date:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
				State:   "Exp",
				Log:     []string{"initial"},
				Text:    []string{"hello"},
				Symbols: ordered.NewStringSet(),
			},
		},
	}
	marks := markset.New()
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, ExportSingle(file, marks, fakeIdentities{}, Options{}, w))

	out := buf.String()
	assert.Contains(t, out, "commit refs/heads/master\n")
	assert.NotContains(t, out, "from :")
	assert.Contains(t, out, "author alice <alice@example.com> 1704164645 +0000\n")
	assert.Contains(t, out, "M 100644 :")
}

func TestExportSingleTwoLinearRevisions(t *testing.T) {
	// spec.md section 8, scenario 2.
	head := &rcs.Revision{
		ID:      "1.2",
		Author:  "alice",
		Date:    time.Date(2024, 1, 2, 3, 5, 0, 0, time.UTC),
		State:   "Exp",
		Log:     []string{"second"},
		Text:    []string{"a", "b", "c"},
		Next:    "1.1",
		Symbols: ordered.NewStringSet(),
	}
	base := &rcs.Revision{
		ID:       "1.1",
		Author:   "alice",
		Date:     time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
		State:    "Exp",
		Log:      []string{"first"},
		Text:     []string{"a", "c"},
		DiffBase: "1.2",
		Symbols:  ordered.NewStringSet(),
	}
	file := &rcs.RcsFile{
		Filename:  "m.c",
		Head:      "1.2",
		Revisions: map[string]*rcs.Revision{"1.1": base, "1.2": head},
	}
	marks := markset.New()
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, ExportSingle(file, marks, fakeIdentities{}, Options{}, w))

	out := buf.String()
	firstIdx := indexOf(out, "mark :1\n")
	secondIdx := indexOf(out, "mark :3\n") // mark 2 is 1.1's blob
	require.GreaterOrEqual(t, firstIdx, 0)
	require.GreaterOrEqual(t, secondIdx, 0)
	assert.Less(t, firstIdx, secondIdx, "1.1 must be emitted before 1.2")
	assert.Contains(t, out, "from :1\n")
}

func TestExportSingleSymbolBecomesTagReset(t *testing.T) {
	// spec.md section 8, scenario 3.
	rev := &rcs.Revision{
		ID:      "1.3",
		Author:  "alice",
		Date:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		State:   "Exp",
		Log:     []string{"tagged"},
		Text:    []string{"hi"},
		Symbols: ordered.NewStringSet("v1"),
	}
	file := &rcs.RcsFile{
		Filename:  "m.c",
		Head:      "1.3",
		Revisions: map[string]*rcs.Revision{"1.3": rev},
	}
	marks := markset.New()
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, ExportSingle(file, marks, fakeIdentities{}, Options{}, w))

	out := buf.String()
	assert.Contains(t, out, "reset refs/tags/v1\nfrom :1\n")
}

func TestExportSingleDeadRevisionEmitsDelete(t *testing.T) {
	rev := &rcs.Revision{
		ID:      "1.1",
		Author:  "alice",
		Date:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		State:   "dead",
		Symbols: ordered.NewStringSet(),
	}
	file := &rcs.RcsFile{
		Filename:  "gone.c",
		Head:      "1.1",
		Revisions: map[string]*rcs.Revision{"1.1": rev},
	}
	marks := markset.New()
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, ExportSingle(file, marks, fakeIdentities{}, Options{}, w))
	assert.Contains(t, buf.String(), "D gone.c\n")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
