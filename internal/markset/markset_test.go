package markset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlobAllocatesOncePerKey(t *testing.T) {
	r := New()
	a := r.Blob("f.c", "1.1")
	b := r.Blob("f.c", "1.1")
	c := r.Blob("f.c", "1.2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestBlobAndCommitNamespacesDontCollide(t *testing.T) {
	r := New()
	blob := r.Blob("x", "1.1")
	commit := r.Commit("x\x001.1")
	assert.NotEqual(t, blob, commit)
}

func TestMarksAreSequentialFromOne(t *testing.T) {
	r := New()
	assert.Equal(t, 1, r.Blob("a", "1.1"))
	assert.Equal(t, 2, r.Blob("b", "1.1"))
	assert.Equal(t, 2, r.Size())
}
