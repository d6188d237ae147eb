package keyvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/smartkeys/internal/text"
)

func TestIsStructured(t *testing.T) {
	assert.True(t, IsStructured("json"))
	assert.True(t, IsStructured("JSONC"))
	assert.False(t, IsStructured("go"))
	assert.False(t, IsStructured(""))
}

func TestNeedsTerminator(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{`  "name": "smartkeys"`, true},
		{`"port": 8080`, true},
		{`"debug": true`, true},
		{`"debug": false  `, true},
		{`"parent": null`, true},
		{`"tags": ["a", "b"]`, true},
		{`"opts": {}`, true},
		{`"name": "x",`, false},
		{`"nested": {`, false},
		{`"list": [`, false},
		{`}`, false},
		{`"lonely string"`, false},
		{`"word": untrue`, false},
		{``, false},
		{`   `, false},
	}
	for _, tt := range cases {
		assert.Equal(t, tt.want, NeedsTerminator(tt.line), "line %q", tt.line)
	}
}

func TestTerminatorInsertColumn(t *testing.T) {
	assert.Equal(t, 10, TerminatorInsertColumn(`  "a": 123   `))
	assert.Equal(t, 0, TerminatorInsertColumn(""))
}

func TestFindPropertyToken(t *testing.T) {
	cases := []struct {
		prefix string
		want   Token
		ok     bool
	}{
		{"name", Token{Start: 0, End: 4, Name: "name"}, true},
		{"  name  ", Token{Start: 2, End: 6, Name: "name"}, true},
		{`  "name"`, Token{Start: 2, End: 8, Name: "name", Quoted: true}, true},
		{`{"a.b"`, Token{Start: 1, End: 6, Name: "a.b", Quoted: true}, true},
		{"{ $id", Token{Start: 2, End: 5, Name: "$id"}, true},
		{`"a": 1, server.port`, Token{Start: 8, End: 19, Name: "server.port"}, true},
		{`"a": "b"`, Token{}, false},
		{`"a": true`, Token{}, false},
		{"42", Token{}, false},
		{"1abc", Token{}, false},
		{"{", Token{}, false},
		{"", Token{}, false},
		{"   ", Token{}, false},
	}
	for _, tt := range cases {
		got, ok := FindPropertyToken(tt.prefix)
		assert.Equal(t, tt.ok, ok, "prefix %q", tt.prefix)
		if tt.ok {
			assert.Equal(t, tt.want, got, "prefix %q", tt.prefix)
		}
	}
}

func TestSeparatorFollows(t *testing.T) {
	assert.True(t, SeparatorFollows(": 1"))
	assert.True(t, SeparatorFollows("  :"))
	assert.False(t, SeparatorFollows(" 1"))
	assert.False(t, SeparatorFollows(""))
}

func TestBuildSeparatorEditQuotesBareKey(t *testing.T) {
	line := "name"
	at := text.Position{Line: 0, Character: 4}
	edit, cursor, ok := BuildSeparatorEdit(line, at, SeparatorOptions{AddQuotes: true, AddSpace: true})
	require.True(t, ok)

	out, err := text.Apply([]string{line}, edit)
	require.NoError(t, err)
	assert.Equal(t, []string{`"name": `}, out)
	assert.Equal(t, text.Position{Line: 0, Character: 8}, cursor)
}

func TestBuildSeparatorEditOptions(t *testing.T) {
	cases := []struct {
		name   string
		line   string
		col    int
		opts   SeparatorOptions
		want   string
		cursor int
	}{
		{"no quotes no space", "  key", 5, SeparatorOptions{}, "  key:", 6},
		{"quoted key kept", `  "key"`, 7, SeparatorOptions{AddQuotes: true}, `  "key":`, 8},
		{"whitespace before cursor dropped", `{"key"   `, 9, SeparatorOptions{AddSpace: true}, `{"key": `, 8},
		{"suffix kept", "  key}", 5, SeparatorOptions{AddQuotes: true, AddSpace: true}, `  "key": }`, 9},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			at := text.Position{Line: 3, Character: tt.col}
			edit, cursor, ok := BuildSeparatorEdit(tt.line, at, tt.opts)
			require.True(t, ok)
			assert.Equal(t, 3, edit.Range.Start.Line)

			edit.Range.Start.Line, edit.Range.End.Line = 0, 0
			out, err := text.Apply([]string{tt.line}, edit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out[0])
			assert.Equal(t, text.Position{Line: 3, Character: tt.cursor}, cursor)
		})
	}
}

func TestBuildSeparatorEditDeclines(t *testing.T) {
	opts := SeparatorOptions{AddQuotes: true, AddSpace: true}
	cases := []struct {
		line string
		col  int
	}{
		{`"key": 1`, 5},
		{`"key" : 1`, 5},
		{`"a": 12`, 7},
		{`{`, 1},
		{``, 0},
		{`key`, 9},
	}
	for _, tt := range cases {
		_, _, ok := BuildSeparatorEdit(tt.line, text.Position{Character: tt.col}, opts)
		assert.False(t, ok, "line %q col %d", tt.line, tt.col)
	}
}
