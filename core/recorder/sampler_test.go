package recorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/termreel/core/terminal"
	"github.com/yourusername/termreel/internal/logging"
)

func snapshotOf(text string) terminal.Snapshot {
	s := terminal.New(10, 2)
	_, _ = s.WriteString(text)
	return s.Snapshot()
}

func TestSampler_IdenticalSamplesCollapse(t *testing.T) {
	const interval = 40 * time.Millisecond
	tl := &timeline{}
	s := newSampler(&fakeRenderer{}, tl, interval, false, logging.NopLogger())

	const n = 7
	for i := 0; i < n; i++ {
		s.sample(snapshotOf("same"))
	}

	require.Equal(t, 1, tl.len())
	assert.Equal(t, n*interval, tl.frames[0].Duration)
	assert.Equal(t, 1, s.appended)
	assert.Equal(t, n, s.samples)
}

func TestSampler_ChangesAppendFrames(t *testing.T) {
	const interval = 100 * time.Millisecond
	tl := &timeline{}
	s := newSampler(&fakeRenderer{}, tl, interval, true, logging.NopLogger())

	for _, text := range []string{"a", "a", "ab", "ab", "ab", "a"} {
		s.sample(snapshotOf(text))
	}

	require.Equal(t, 3, tl.len())
	assert.Equal(t, []time.Duration{2 * interval, 3 * interval, interval},
		[]time.Duration{tl.frames[0].Duration, tl.frames[1].Duration, tl.frames[2].Duration})
	assert.Equal(t, "a\n", textOf(t, tl.frames[0]))
	assert.Equal(t, "ab\n", textOf(t, tl.frames[1]))
	assert.True(t, tl.frames[0].Image.(fakeImage).cursor)
}

func TestSampler_StyleOnlyChangeIsNotAFrame(t *testing.T) {
	tl := &timeline{}
	s := newSampler(&fakeRenderer{}, tl, time.Millisecond, false, logging.NopLogger())

	s.sample(snapshotOf("plain"))
	s.sample(snapshotOf("\x1b[1;31mplain"))
	assert.Equal(t, 1, tl.len())
}

func TestSampler_RenderFailureExtendsAndRetries(t *testing.T) {
	const interval = 10 * time.Millisecond
	failNext := false
	renderer := &fakeRenderer{fail: func(int, string) bool {
		f := failNext
		failNext = false
		return f
	}}
	tl := &timeline{}
	s := newSampler(renderer, tl, interval, false, logging.NopLogger())

	s.sample(snapshotOf("one"))
	failNext = true
	s.sample(snapshotOf("two"))
	require.Equal(t, 1, tl.len(), "failed render drops the frame")
	assert.Equal(t, 2*interval, tl.frames[0].Duration)
	assert.Equal(t, 1, s.failures)

	s.sample(snapshotOf("two"))
	require.Equal(t, 2, tl.len(), "the same content is rendered again on the next tick")
	assert.Equal(t, "two\n", textOf(t, tl.frames[1]))
}

func TestSampler_FailureWithoutPreviousFrame(t *testing.T) {
	renderer := &fakeRenderer{fail: func(int, string) bool { return true }}
	tl := &timeline{}
	s := newSampler(renderer, tl, time.Second, false, logging.NopLogger())

	s.sample(snapshotOf("x"))
	assert.Equal(t, 0, tl.len())
	assert.False(t, tl.extend(time.Second))
}
