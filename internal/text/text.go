// Package text holds the position, selection and edit types shared by the
// smart-key heuristics, plus a pure batch applier over a slice of lines.
package text

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrOutOfRange = errors.New("edit range outside document")
	ErrOverlap    = errors.New("overlapping edits in batch")
)

// Position is a line index and a byte offset into that line.
type Position struct {
	Line      int
	Character int
}

func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

// Range is half-open: [Start, End).
type Range struct {
	Start Position
	End   Position
}

// NewRange orders a and b.
func NewRange(a, b Position) Range {
	if b.Before(a) {
		return Range{Start: b, End: a}
	}
	return Range{Start: a, End: b}
}

func (r Range) Empty() bool {
	return r.Start == r.End
}

// Selection is an anchor/active pair. The active end is where the caret is.
type Selection struct {
	Anchor Position
	Active Position
}

// Caret returns an empty selection at p.
func Caret(p Position) Selection {
	return Selection{Anchor: p, Active: p}
}

func (s Selection) Empty() bool {
	return s.Anchor == s.Active
}

func (s Selection) Range() Range {
	return NewRange(s.Anchor, s.Active)
}

// AllEmpty reports whether every selection is a bare caret.
func AllEmpty(sels []Selection) bool {
	for _, s := range sels {
		if !s.Empty() {
			return false
		}
	}
	return true
}

// Edit replaces Range with Text. Text may contain newlines.
type Edit struct {
	Range Range
	Text  string
}

// Replace builds an edit over [start, end).
func Replace(start, end Position, s string) Edit {
	return Edit{Range: NewRange(start, end), Text: s}
}

// Insert builds an empty-range edit at p.
func Insert(p Position, s string) Edit {
	return Edit{Range: Range{Start: p, End: p}, Text: s}
}

// InsertedLines is the number of line breaks in the replacement text.
func (e Edit) InsertedLines() int {
	return strings.Count(e.Text, "\n")
}

// LineDelta is the change in document line count caused by the edit.
func (e Edit) LineDelta() int {
	return e.InsertedLines() - (e.Range.End.Line - e.Range.Start.Line)
}

// Document is the read-only line view the heuristics work against.
type Document interface {
	LineCount() int
	Line(i int) string
}

// Lines adapts a plain slice to Document.
type Lines []string

func (l Lines) LineCount() int {
	return len(l)
}

func (l Lines) Line(i int) string {
	if i < 0 || i >= len(l) {
		return ""
	}
	return l[i]
}

// Snapshot copies a document into a fresh slice.
func Snapshot(doc Document) []string {
	n := doc.LineCount()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = doc.Line(i)
	}
	return out
}

// Split breaks content into lines on "\n", dropping a trailing "\r" per line.
// The result always has at least one line.
func Split(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Join is the inverse of Split for "\n" documents.
func Join(lines []string) string {
	return strings.Join(lines, "\n")
}

// Apply applies a batch of edits expressed against lines and returns the new
// lines. The input slice is never modified. Edits are validated first; an
// invalid batch returns an error and nil.
func Apply(lines []string, edits ...Edit) ([]string, error) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	for _, e := range sorted {
		if !inBounds(lines, e.Range.Start) || !inBounds(lines, e.Range.End) || e.Range.End.Before(e.Range.Start) {
			return nil, ErrOutOfRange
		}
	}
	// Bottom-up so earlier ranges stay valid while later ones are rewritten.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Range.Start.Before(sorted[i].Range.Start)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Range.Start.Before(sorted[i].Range.End) {
			return nil, ErrOverlap
		}
	}

	out := make([]string, len(lines))
	copy(out, lines)
	for _, e := range sorted {
		out = replaceRange(out, e.Range, e.Text)
	}
	return out, nil
}

// Apply commits a batch to l atomically. On error l is left untouched.
func (l *Lines) Apply(edits ...Edit) error {
	out, err := Apply(*l, edits...)
	if err != nil {
		return err
	}
	*l = out
	return nil
}

// End returns the position just after s when s is inserted at start.
func End(start Position, s string) Position {
	n := strings.Count(s, "\n")
	if n == 0 {
		return Position{Line: start.Line, Character: start.Character + len(s)}
	}
	return Position{Line: start.Line + n, Character: len(s) - strings.LastIndexByte(s, '\n') - 1}
}

func inBounds(lines []string, p Position) bool {
	if p.Line < 0 || p.Line >= len(lines) {
		return false
	}
	return p.Character >= 0 && p.Character <= len(lines[p.Line])
}

func replaceRange(lines []string, r Range, s string) []string {
	prefix := lines[r.Start.Line][:r.Start.Character]
	suffix := lines[r.End.Line][r.End.Character:]
	middle := strings.Split(prefix+s+suffix, "\n")

	out := make([]string, 0, len(lines)-(r.End.Line-r.Start.Line)+len(middle)-1)
	out = append(out, lines[:r.Start.Line]...)
	out = append(out, middle...)
	out = append(out, lines[r.End.Line+1:]...)
	return out
}
