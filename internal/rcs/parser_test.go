package rcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/esr/rcs-fast-export/internal/markset"
)

type fakeSink struct {
	blobs map[int][]byte
	order []int
}

func newFakeSink() *fakeSink {
	return &fakeSink{blobs: make(map[int][]byte)}
}

func (s *fakeSink) WriteBlob(mark int, data []byte) error {
	s.blobs[mark] = data
	s.order = append(s.order, mark)
	return nil
}

const twoRevisionFixture = `head	1.2;
symbols
	v1:1.1;
comment	@# @;


1.2
date	2023.01.02.10.00.00;	author alice;	state Exp;
branches;
next	1.1;

1.1
date	2023.01.01.10.00.00;	author alice;	state Exp;
branches;
next	;

desc
@Initial file.
@


1.2
log
@Second revision.
@
text
@line one
line two
@


1.1
log
@Initial revision.
@
text
@d2 1
@
`

func TestParseTwoRevisionFile(t *testing.T) {
	sink := newFakeSink()
	marks := markset.New()
	file, err := Parse([]byte(twoRevisionFixture), "f.c", Options{}, marks, sink)
	require.NoError(t, err)

	assert.Equal(t, "1.2", file.Head)
	require.Len(t, file.Revisions, 2)

	head := file.Revisions["1.2"]
	require.NotNil(t, head)
	assert.Equal(t, "alice", head.Author)
	assert.Equal(t, "1.1", head.Next)
	assert.True(t, head.IsHead())
	assert.Equal(t, []string{"line one", "line two"}, head.Text)
	assert.Equal(t, []string{"Second revision."}, head.Log)

	base := file.Revisions["1.1"]
	require.NotNil(t, base)
	assert.False(t, base.IsHead())
	assert.Equal(t, "1.2", base.DiffBase)
	assert.Equal(t, []string{"line one"}, base.Text)
	assert.True(t, base.Symbols.Contains("v1"))

	assert.Equal(t, []string{"Initial file."}, file.Desc)
	assert.Equal(t, "# ", file.Comment)

	assert.Len(t, sink.order, 2)
	headMark := marks.Blob("f.c", "1.2")
	baseMark := marks.Blob("f.c", "1.1")
	assert.Equal(t, []byte("line one\nline two\n"), sink.blobs[headMark])
	assert.Equal(t, []byte("line one\n"), sink.blobs[baseMark])
}

func TestParseRejectsDuplicateDiffBase(t *testing.T) {
	bad := `head	1.1;
comment	@@;


1.1
date	2023.01.01.10.00.00;	author alice;	state Exp;
branches	1.1.1.1;
next	1.1.1.1;

1.1.1.1
date	2023.01.02.10.00.00;	author bob;	state Exp;
branches;
next	;

desc
@d
@


1.1
log
@l
@
text
@t
@

1.1.1.1
log
@l2
@
text
@t2
@
`
	_, err := Parse([]byte(bad), "f.c", Options{}, markset.New(), newFakeSink())
	assert.Error(t, err)
}
