package smart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/smartkeys/internal/text"
)

func TestSeparatorQuotesPropertyName(t *testing.T) {
	host, fb, h := newFixture(t, []string{"name"}, at(0, 4))
	host.lang = "json"
	require.Equal(t, Handled, h.Separator())
	assert.Empty(t, fb.calls)
	assert.Equal(t, text.Lines{`"name": `}, host.lines)
	assert.Equal(t, []text.Position{at(0, 8)}, host.cursors())
}

func TestSeparatorSettings(t *testing.T) {
	host, _, h := newFixture(t, []string{"{", "  port  "}, at(1, 8))
	host.lang = "jsonc"
	s := h.Settings()
	s.AddWhitespaceAfterSeparator = false
	h.SetSettings(s)

	require.Equal(t, Handled, h.Separator())
	assert.Equal(t, text.Lines{"{", `  "port":`}, host.lines)
	assert.Equal(t, []text.Position{at(1, 9)}, host.cursors())
}

func TestSeparatorTypesLiteral(t *testing.T) {
	cases := []struct {
		name    string
		lang    string
		line    string
		cursors []text.Position
	}{
		{"not structured", "go", "name", []text.Position{at(0, 4)}},
		{"after a value", "json", `"a": 12`, []text.Position{at(0, 7)}},
		{"separator follows", "json", `"a" : 1`, []text.Position{at(0, 3)}},
		{"structural character", "json", "{", []text.Position{at(0, 1)}},
		{"blank", "json", "  ", []text.Position{at(0, 2)}},
		{"multi-cursor", "json", "a", []text.Position{at(0, 1), at(0, 0)}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			host, fb, h := newFixture(t, []string{tt.line}, tt.cursors...)
			host.lang = tt.lang
			assert.Equal(t, Forwarded, h.Separator())
			assert.Equal(t, []string{"type :"}, fb.calls)
			assert.Equal(t, text.Lines{tt.line}, host.lines)
		})
	}
}

func TestSeparatorAllOptionsOff(t *testing.T) {
	host, fb, h := newFixture(t, []string{"name"}, at(0, 4))
	host.lang = "json"
	s := h.Settings()
	s.AddQuotesToKeys = false
	s.AddWhitespaceAfterSeparator = false
	h.SetSettings(s)
	assert.Equal(t, Forwarded, h.Separator())
	assert.Equal(t, []string{"type :"}, fb.calls)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "handled", Handled.String())
	assert.Equal(t, "forwarded", Forwarded.String())
}
