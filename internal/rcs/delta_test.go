package rcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayDeltaDeleteLine(t *testing.T) {
	base := []string{"one", "two", "three"}
	out, err := replayDelta(base, []string{"d2 1"}, "f.c")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "three"}, out)
}

func TestReplayDeltaAppendAtFront(t *testing.T) {
	base := []string{"one", "two"}
	out, err := replayDelta(base, []string{"a0 1", "zero"}, "f.c")
	require.NoError(t, err)
	assert.Equal(t, []string{"zero", "one", "two"}, out)
}

func TestReplayDeltaAppendAfterLine(t *testing.T) {
	base := []string{"one", "two"}
	out, err := replayDelta(base, []string{"a1 1", "one-point-five"}, "f.c")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "one-point-five", "two"}, out)
}

func TestReplayDeltaDeleteThenAppendCombined(t *testing.T) {
	base := []string{"a", "b", "c"}
	out, err := replayDelta(base, []string{"d2 1", "a1 1", "B"}, "f.c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "B", "c"}, out)
}

func TestReplayDeltaRejectsOutOfRangeDelete(t *testing.T) {
	_, err := replayDelta([]string{"only"}, []string{"d5 1"}, "f.c")
	assert.Error(t, err)
}

func TestReplayDeltaRejectsMalformedCommand(t *testing.T) {
	_, err := replayDelta([]string{"a"}, []string{"x1 1"}, "f.c")
	assert.Error(t, err)
}

func TestReplayDeltaRejectsTruncatedAppendPayload(t *testing.T) {
	_, err := replayDelta([]string{"a"}, []string{"a1 2", "only-one-line"}, "f.c")
	assert.Error(t, err)
}
