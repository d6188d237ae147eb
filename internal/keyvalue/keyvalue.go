// Package keyvalue classifies lines of JSON-like documents so that Enter and
// ':' can add the punctuation the user would have typed next.
package keyvalue

import (
	"regexp"
	"strings"

	"github.com/kobzarvs/smartkeys/internal/indent"
	"github.com/kobzarvs/smartkeys/internal/text"
)

const (
	Terminator = ","
	Separator  = ":"
)

var structuredLanguages = map[string]bool{
	"json":  true,
	"jsonc": true,
}

// IsStructured reports whether documents of this language get the
// punctuation heuristics.
func IsStructured(languageID string) bool {
	return structuredLanguages[strings.ToLower(languageID)]
}

// valueEnd matches the tail of a finished value: a closing quote, brace or
// bracket, a digit, or one of the JSON keywords.
var valueEnd = regexp.MustCompile(`(?:["}\]0-9]|\btrue|\bfalse|\bnull)$`)

// NeedsTerminator reports whether a "key": value line is missing its trailing
// comma.
func NeedsTerminator(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasSuffix(trimmed, Terminator) {
		return false
	}
	if !strings.Contains(trimmed, Separator) {
		return false
	}
	return valueEnd.MatchString(trimmed)
}

// TerminatorInsertColumn is where the comma goes: right after the content,
// before any trailing whitespace.
func TerminatorInsertColumn(line string) int {
	return indent.TrimmedEnd(line)
}

// Token is a property name found before the cursor. Start and End are byte
// columns of the token as written, quotes included.
type Token struct {
	Start  int
	End    int
	Name   string
	Quoted bool
}

var (
	quotedKey = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"$`)
	bareKey   = regexp.MustCompile(`[A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*$`)
)

// FindPropertyToken looks for a property name at the end of prefix, ignoring
// trailing whitespace. The token must sit in key position: nothing but '{',
// ',' or indentation may precede it. Values, numbers and structural
// characters are not keys.
func FindPropertyToken(prefix string) (Token, bool) {
	p := strings.TrimRight(prefix, " \t")
	if p == "" {
		return Token{}, false
	}
	if m := quotedKey.FindStringSubmatchIndex(p); m != nil {
		tok := Token{Start: m[0], End: m[1], Name: p[m[2]:m[3]], Quoted: true}
		return tok, inKeyPosition(p[:tok.Start])
	}
	if m := bareKey.FindStringIndex(p); m != nil {
		tok := Token{Start: m[0], End: m[1], Name: p[m[0]:m[1]]}
		return tok, inKeyPosition(p[:tok.Start])
	}
	return Token{}, false
}

func inKeyPosition(before string) bool {
	before = strings.TrimSpace(before)
	if before == "" {
		return true
	}
	switch before[len(before)-1] {
	case '{', ',':
		return true
	}
	return false
}

// SeparatorFollows reports whether rest, the text after the cursor, already
// starts with a separator once leading whitespace is skipped.
func SeparatorFollows(rest string) bool {
	return strings.HasPrefix(strings.TrimLeft(rest, " \t"), Separator)
}

// SeparatorOptions are the user's punctuation preferences.
type SeparatorOptions struct {
	AddQuotes bool
	AddSpace  bool
}

// BuildSeparatorEdit plans the edit for typing the separator at at. The edit
// replaces the token and any whitespace up to the cursor with the (possibly
// quoted) name, the separator and an optional space. The returned position is
// where the cursor goes. ok is false when the literal separator should be
// typed instead.
func BuildSeparatorEdit(line string, at text.Position, opts SeparatorOptions) (text.Edit, text.Position, bool) {
	if at.Character < 0 || at.Character > len(line) {
		return text.Edit{}, text.Position{}, false
	}
	if SeparatorFollows(line[at.Character:]) {
		return text.Edit{}, text.Position{}, false
	}
	tok, ok := FindPropertyToken(line[:at.Character])
	if !ok {
		return text.Edit{}, text.Position{}, false
	}

	key := line[tok.Start:tok.End]
	if !tok.Quoted && opts.AddQuotes {
		key = `"` + tok.Name + `"`
	}
	repl := key + Separator
	if opts.AddSpace {
		repl += " "
	}
	start := text.Position{Line: at.Line, Character: tok.Start}
	edit := text.Replace(start, at, repl)
	return edit, text.End(start, repl), true
}
