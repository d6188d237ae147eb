package smart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/smartkeys/internal/endtoggle"
	"github.com/kobzarvs/smartkeys/internal/text"
)

func TestEndTogglesBetweenTrimmedAndFull(t *testing.T) {
	host, fb, h := newFixture(t, []string{"foo   "}, at(0, 0))

	want := []int{3, 6, 3, 6, 3}
	for i, col := range want {
		require.Equal(t, Handled, h.End(), "press %d", i+1)
		assert.Equal(t, []text.Position{at(0, col)}, host.cursors(), "press %d", i+1)
	}
	assert.Empty(t, fb.calls)
	assert.Zero(t, host.applies)
}

func TestEndTwoPressesFromTrimmedReturn(t *testing.T) {
	lines := []string{"a ", "\tif x {   ", "  value\t\t"}
	for i, line := range lines {
		trimmed := len(line)
		for trimmed > 0 && (line[trimmed-1] == ' ' || line[trimmed-1] == '\t') {
			trimmed--
		}
		host, _, h := newFixture(t, lines, at(i, trimmed))
		h.End()
		assert.Equal(t, at(i, len(line)), host.cursors()[0], "line %q", line)
		h.End()
		assert.Equal(t, at(i, trimmed), host.cursors()[0], "line %q", line)
	}
}

func TestEndStateDroppedOnManualMove(t *testing.T) {
	host, _, h := newFixture(t, []string{"foo   ", "bar"}, at(0, 0))
	h.End()
	_, ok := h.Tracker().Get("doc-1")
	require.True(t, ok)

	host.moveTo(at(0, 4))
	_, ok = h.Tracker().Get("doc-1")
	assert.True(t, ok, "one column of drift is tolerated")

	host.moveTo(at(1, 0))
	_, ok = h.Tracker().Get("doc-1")
	assert.False(t, ok)
}

func TestEndStateDroppedOnEdit(t *testing.T) {
	host, _, h := newFixture(t, []string{"foo   "}, at(0, 0))
	h.End()
	require.Equal(t, 1, h.Tracker().Len())

	require.NoError(t, host.Apply(text.Insert(at(0, 0), "x")))
	assert.Equal(t, 0, h.Tracker().Len())
}

func TestEndIndentsEmptyLine(t *testing.T) {
	host, _, h := newFixture(t, []string{"function f() {", ""}, at(1, 0))
	require.Equal(t, Handled, h.End())
	assert.Equal(t, text.Lines{"function f() {", "    "}, host.lines)
	assert.Equal(t, []text.Position{at(1, 4)}, host.cursors())

	state, ok := h.Tracker().Get("doc-1")
	require.True(t, ok, "state survives the handler's own edit")
	assert.Equal(t, endtoggle.State{Line: 1, Character: 4}, state)
}

func TestEndReindentsWhitespaceLine(t *testing.T) {
	host, _, h := newFixture(t, []string{"x", "  "}, at(1, 2))
	require.Equal(t, Handled, h.End())
	assert.Equal(t, text.Lines{"x", ""}, host.lines)
	assert.Equal(t, []text.Position{at(1, 0)}, host.cursors())
}

func TestEndDisabled(t *testing.T) {
	host, fb, h := newFixture(t, []string{"", "foo  "}, at(0, 0))
	s := h.Settings()
	s.IndentEmptyLine = false
	s.ToggleTrimmedEnd = false
	h.SetSettings(s)

	assert.Equal(t, Forwarded, h.End())
	host.moveTo(at(1, 0))
	assert.Equal(t, Forwarded, h.End())
	assert.Equal(t, []string{"end", "end"}, fb.calls)
}

func TestEndWithSelectionForwards(t *testing.T) {
	host, fb, h := newFixture(t, []string{"foo  "})
	host.sels = []text.Selection{{Anchor: at(0, 0), Active: at(0, 2)}}
	assert.Equal(t, Forwarded, h.End())
	assert.Equal(t, []string{"end"}, fb.calls)
}

func TestEndMultiCursor(t *testing.T) {
	host, fb, h := newFixture(t, []string{"x {", "", "y  "}, at(1, 0), at(2, 0))
	h.Tracker().Record("doc-1", endtoggle.State{Line: 2, Character: 1, AtTrimmedEnd: true})

	require.Equal(t, Handled, h.End())
	assert.Empty(t, fb.calls)
	assert.Equal(t, text.Lines{"x {", "    ", "y  "}, host.lines)
	assert.Equal(t, []text.Position{at(1, 4), at(2, 1)}, host.cursors())
	assert.Equal(t, 0, h.Tracker().Len(), "no toggle state with several cursors")

	require.Equal(t, Handled, h.End())
	assert.Equal(t, []text.Position{at(1, 4), at(2, 1)}, host.cursors(), "no toggling")
}

func TestEndApplyErrorForwards(t *testing.T) {
	host, fb, h := newFixture(t, []string{"a {", ""}, at(1, 0))
	host.applyErr = text.ErrOverlap
	assert.Equal(t, Forwarded, h.End())
	assert.Equal(t, []string{"end"}, fb.calls)
	assert.Equal(t, text.Lines{"a {", ""}, host.lines)
}
