package smart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/smartkeys/internal/brace"
	"github.com/kobzarvs/smartkeys/internal/text"
)

func TestEnterExpandsBracePair(t *testing.T) {
	host, fb, h := newFixture(t, []string{"function test() {}"}, at(0, 17))
	require.Equal(t, Handled, h.Enter())
	assert.Empty(t, fb.calls)
	assert.Equal(t, text.Lines{"function test() {", "    ", "}"}, host.lines)
	assert.Equal(t, []text.Position{at(1, 4)}, host.cursors())
	assert.Equal(t, at(1, 4), host.revealed[len(host.revealed)-1])
}

func TestEnterExpansion(t *testing.T) {
	cases := []struct {
		name   string
		lines  []string
		cursor text.Position
		want   []string
		after  text.Position
	}{
		{
			name:   "suffix after closing brace kept",
			lines:  []string{"  call(function() {});"},
			cursor: at(0, 19),
			want:   []string{"  call(function() {", "      ", "  });"},
			after:  at(1, 6),
		},
		{
			name:   "whitespace before closing brace dropped",
			lines:  []string{"x {   }"},
			cursor: at(0, 3),
			want:   []string{"x {", "    ", "}"},
			after:  at(1, 4),
		},
		{
			name:   "unclosed brace at end of line",
			lines:  []string{"if (a) {", "  if (b) {", "  }"},
			cursor: at(1, 10),
			want:   []string{"if (a) {", "  if (b) {", "      ", "  }", "  }"},
			after:  at(2, 6),
		},
		{
			name:   "text after cursor moves inside",
			lines:  []string{"x {foo"},
			cursor: at(0, 3),
			want:   []string{"x {", "    foo", "}"},
			after:  at(1, 4),
		},
		{
			name:   "spaces between brace and cursor",
			lines:  []string{"\tobj = {  "},
			cursor: at(0, 10),
			want:   []string{"\tobj = {", "\t    ", "\t}"},
			after:  at(1, 5),
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			host, fb, h := newFixture(t, tt.lines, tt.cursor)
			require.Equal(t, Handled, h.Enter())
			assert.Empty(t, fb.calls)
			assert.Equal(t, text.Lines(tt.want), host.lines)
			assert.Equal(t, []text.Position{tt.after}, host.cursors())
		})
	}
}

func TestEnterExpansionKeepsBalance(t *testing.T) {
	cases := []struct {
		lines  []string
		cursor text.Position
	}{
		{[]string{"a {}"}, at(0, 3)},
		{[]string{"f() {", "  g() {}", "}"}, at(1, 7)},
		{[]string{"{ {}"}, at(0, 3)},
		{[]string{"x = {};"}, at(0, 5)},
	}
	for _, tt := range cases {
		host, _, h := newFixture(t, tt.lines, tt.cursor)
		before := brace.CountUnmatched(tt.lines)
		require.Equal(t, Handled, h.Enter(), "lines %q", tt.lines)
		assert.Equal(t, len(tt.lines)+2, host.lines.LineCount(), "lines %q", tt.lines)
		assert.Equal(t, before, brace.CountUnmatched(host.lines), "lines %q", tt.lines)
	}
}

func TestEnterForwardsNewline(t *testing.T) {
	cases := []struct {
		name   string
		lines  []string
		cursor text.Position
	}{
		{"no brace", []string{"return x"}, at(0, 8)},
		{"empty prefix", []string{"   {"}, at(0, 2)},
		{"brace already closed below", []string{"a {", "}"}, at(0, 3)},
		{"brace not last before cursor", []string{"a { b"}, at(0, 5)},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			host, fb, h := newFixture(t, tt.lines, tt.cursor)
			assert.Equal(t, Forwarded, h.Enter())
			assert.Equal(t, []string{"newline"}, fb.calls)
			assert.Equal(t, text.Lines(tt.lines), host.lines)
		})
	}
}

func TestEnterDisabled(t *testing.T) {
	_, fb, h := newFixture(t, []string{"a {}"}, at(0, 3))
	s := h.Settings()
	s.AutoInsertClosingBrace = false
	h.SetSettings(s)
	assert.Equal(t, Forwarded, h.Enter())
	assert.Equal(t, []string{"newline"}, fb.calls)
}

func TestEnterMultiCursor(t *testing.T) {
	host, fb, h := newFixture(t, []string{"a {}", "b {}"}, at(0, 3), at(1, 3))
	require.Equal(t, Handled, h.Enter())
	assert.Empty(t, fb.calls)
	assert.Equal(t, text.Lines{"a {", "    ", "}", "b {", "    ", "}"}, host.lines)
	assert.Equal(t, []text.Position{at(1, 4), at(4, 4)}, host.cursors())
	assert.Equal(t, 1, host.applies, "one atomic batch")
	assert.Equal(t, "b {", host.lines.Line(1+2), "second brace line shifted by the first block")
}

func TestEnterMultiCursorKeepsCursorOrder(t *testing.T) {
	host, _, h := newFixture(t, []string{"a {}", "", "  b {}"}, at(2, 5), at(0, 3))
	require.Equal(t, Handled, h.Enter())
	assert.Equal(t, text.Lines{"a {", "    ", "}", "", "  b {", "      ", "  }"}, host.lines)
	assert.Equal(t, []text.Position{at(5, 6), at(1, 4)}, host.cursors())
}

func TestEnterMultiCursorAllOrNothing(t *testing.T) {
	lines := []string{"a {}", "b"}
	host, fb, h := newFixture(t, lines, at(0, 3), at(1, 1))
	assert.Equal(t, Forwarded, h.Enter())
	assert.Equal(t, []string{"newline"}, fb.calls)
	assert.Equal(t, text.Lines(lines), host.lines)
}

func TestEnterMultiCursorSameLineForwards(t *testing.T) {
	lines := []string{"a {} b {}"}
	host, fb, h := newFixture(t, lines, at(0, 3), at(0, 8))
	assert.Equal(t, Forwarded, h.Enter())
	assert.Equal(t, []string{"newline"}, fb.calls)
	assert.Equal(t, text.Lines(lines), host.lines)
}

func TestEnterAddsTerminatorInJSON(t *testing.T) {
	host, fb, h := newFixture(t, []string{"{", `  "a": 1  `}, at(1, 10))
	host.lang = "json"
	assert.Equal(t, Handled, h.Enter())
	assert.Equal(t, text.Lines{"{", `  "a": 1,  `}, host.lines)
	assert.Equal(t, []text.Position{at(1, 11)}, host.cursors())
	assert.Equal(t, []string{"newline"}, fb.calls, "newline still follows")
}

func TestEnterTerminatorSkipped(t *testing.T) {
	cases := []struct {
		name   string
		lang   string
		line   string
		cursor int
	}{
		{"not structured", "javascript", `  "a": 1`, 8},
		{"cursor inside content", "json", `  "a": 123`, 8},
		{"already terminated", "json", `  "a": 1,`, 9},
		{"open value", "json", `  "a": [`, 8},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			host, fb, h := newFixture(t, []string{"{", tt.line}, at(1, tt.cursor))
			host.lang = tt.lang
			h.Enter()
			assert.Equal(t, text.Lines{"{", tt.line}, host.lines)
			assert.Equal(t, []string{"newline"}, fb.calls)
		})
	}
}

func TestEnterTerminatorDisabled(t *testing.T) {
	host, _, h := newFixture(t, []string{`"a": 1`}, at(0, 6))
	host.lang = "json"
	s := h.Settings()
	s.InsertTerminatorOnEnter = false
	h.SetSettings(s)
	assert.Equal(t, Forwarded, h.Enter())
	assert.Equal(t, text.Lines{`"a": 1`}, host.lines)
}

func TestEnterJSONObjectExpands(t *testing.T) {
	host, _, h := newFixture(t, []string{`  "server": {}`}, at(0, 13))
	host.lang = "json"
	require.Equal(t, Handled, h.Enter())
	assert.Equal(t, text.Lines{`  "server": {`, "      ", "  }"}, host.lines)
}
