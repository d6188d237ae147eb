package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(line, char int) Position {
	return Position{Line: line, Character: char}
}

func TestApplySingleLineReplace(t *testing.T) {
	lines := []string{"hello world"}
	out, err := Apply(lines, Replace(pos(0, 6), pos(0, 11), "gopher"))
	require.NoError(t, err)
	assert.Equal(t, []string{"hello gopher"}, out)
	assert.Equal(t, []string{"hello world"}, lines, "input must not be modified")
}

func TestApplyInsertsLines(t *testing.T) {
	out, err := Apply([]string{"a {}", "b"}, Replace(pos(0, 3), pos(0, 4), "\n    \n}"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a {", "    ", "}", "b"}, out)
}

func TestApplyDeletesAcrossLines(t *testing.T) {
	out, err := Apply([]string{"one", "", "two"}, Replace(pos(0, 3), pos(1, 0), ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, out)
}

func TestApplyBatchIsOrderIndependent(t *testing.T) {
	lines := []string{"x {}", "y {}"}
	first := Replace(pos(0, 3), pos(0, 4), "\n\n}")
	second := Replace(pos(1, 3), pos(1, 4), "\n\n}")

	a, err := Apply(lines, first, second)
	require.NoError(t, err)
	b, err := Apply(lines, second, first)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, []string{"x {", "", "}", "y {", "", "}"}, a)
}

func TestApplyRejectsInvalidBatches(t *testing.T) {
	lines := []string{"abc", "def"}
	cases := []struct {
		name  string
		edits []Edit
		want  error
	}{
		{"line past end", []Edit{Insert(pos(2, 0), "x")}, ErrOutOfRange},
		{"char past end", []Edit{Insert(pos(0, 4), "x")}, ErrOutOfRange},
		{"negative", []Edit{Insert(pos(-1, 0), "x")}, ErrOutOfRange},
		{"overlap", []Edit{Replace(pos(0, 0), pos(0, 2), ""), Replace(pos(0, 1), pos(0, 3), "")}, ErrOverlap},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Apply(lines, tt.edits...)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, out)
		})
	}
}

func TestApplyAllowsTouchingInsertions(t *testing.T) {
	out, err := Apply([]string{"ab"}, Insert(pos(0, 1), "1"), Replace(pos(0, 0), pos(0, 1), "A"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A1b"}, out)
}

func TestEditLineDelta(t *testing.T) {
	assert.Equal(t, 2, Replace(pos(0, 3), pos(0, 4), "\n  \n}").LineDelta())
	assert.Equal(t, -1, Replace(pos(0, 3), pos(1, 0), "").LineDelta())
	assert.Equal(t, 0, Insert(pos(0, 0), "x").LineDelta())
}

func TestEnd(t *testing.T) {
	assert.Equal(t, pos(0, 5), End(pos(0, 2), "abc"))
	assert.Equal(t, pos(2, 1), End(pos(0, 2), "\n    \n}"))
}

func TestSplitJoin(t *testing.T) {
	lines := Split("a\r\nb\n")
	assert.Equal(t, []string{"a", "b", ""}, lines)
	assert.Equal(t, "a\nb\n", Join(lines))
}

func TestSelection(t *testing.T) {
	s := Selection{Anchor: pos(2, 1), Active: pos(1, 4)}
	assert.False(t, s.Empty())
	assert.Equal(t, Range{Start: pos(1, 4), End: pos(2, 1)}, s.Range())
	assert.True(t, AllEmpty([]Selection{Caret(pos(0, 0)), Caret(pos(3, 1))}))
	assert.False(t, AllEmpty([]Selection{Caret(pos(0, 0)), s}))
}

func TestLinesOutOfRange(t *testing.T) {
	doc := Lines{"a"}
	assert.Equal(t, "", doc.Line(5))
	assert.Equal(t, "", doc.Line(-1))
	assert.Equal(t, []string{"a"}, Snapshot(doc))
}

func TestLinesApplyIsAtomic(t *testing.T) {
	doc := Lines{"a {", "}"}
	err := doc.Apply(Insert(pos(0, 3), "\n  x"), Insert(pos(9, 0), "y"))
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, Lines{"a {", "}"}, doc)

	require.NoError(t, doc.Apply(Insert(pos(0, 3), "\n  x")))
	assert.Equal(t, Lines{"a {", "  x", "}"}, doc)
}
