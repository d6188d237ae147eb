package editor

import (
	"unicode/utf8"

	"github.com/kobzarvs/smartkeys/internal/indent"
	"github.com/kobzarvs/smartkeys/internal/text"
)

// The plain key behaviors. Each runs once per selection, as one batch.

// TypeLiteral replaces every selection with s.
func (b *Buffer) TypeLiteral(s string) {
	edits := make([]text.Edit, len(b.sels))
	for i, sel := range b.sels {
		r := sel.Range()
		edits[i] = text.Replace(r.Start, r.End, s)
	}
	b.editSelections("type", edits)
}

// ForwardDefaultNewline splits the line at each selection and carries the
// line's leading whitespace onto the new line.
func (b *Buffer) ForwardDefaultNewline() {
	edits := make([]text.Edit, len(b.sels))
	for i, sel := range b.sels {
		r := sel.Range()
		ind := indent.IndentOf(b.lines.Line(r.Start.Line))
		if len(ind) > r.Start.Character {
			ind = ind[:r.Start.Character]
		}
		edits[i] = text.Replace(r.Start, r.End, "\n"+ind)
	}
	b.editSelections("newline", edits)
}

// ForwardDefaultDelete deletes each selection, or the character before each
// caret, joining with the previous line at column 0.
func (b *Buffer) ForwardDefaultDelete() {
	edits := make([]text.Edit, len(b.sels))
	for i, sel := range b.sels {
		if !sel.Empty() {
			r := sel.Range()
			edits[i] = text.Replace(r.Start, r.End, "")
			continue
		}
		p := sel.Active
		switch {
		case p.Character > 0:
			_, size := utf8.DecodeLastRuneInString(b.lines[p.Line][:p.Character])
			edits[i] = text.Replace(text.Position{Line: p.Line, Character: p.Character - size}, p, "")
		case p.Line > 0:
			prev := text.Position{Line: p.Line - 1, Character: len(b.lines[p.Line-1])}
			edits[i] = text.Replace(prev, p, "")
		default:
			edits[i] = text.Insert(p, "")
		}
	}
	b.editSelections("delete", edits)
}

// deleteForward removes the character after each caret, joining with the
// next line at the end of a line.
func (b *Buffer) deleteForward() {
	edits := make([]text.Edit, len(b.sels))
	for i, sel := range b.sels {
		if !sel.Empty() {
			r := sel.Range()
			edits[i] = text.Replace(r.Start, r.End, "")
			continue
		}
		p := sel.Active
		line := b.lines[p.Line]
		switch {
		case p.Character < len(line):
			_, size := utf8.DecodeRuneInString(line[p.Character:])
			edits[i] = text.Replace(p, text.Position{Line: p.Line, Character: p.Character + size}, "")
		case p.Line+1 < len(b.lines):
			edits[i] = text.Replace(p, text.Position{Line: p.Line + 1}, "")
		default:
			edits[i] = text.Insert(p, "")
		}
	}
	b.editSelections("delete forward", edits)
}

// ForwardDefaultEnd puts every caret at the full end of its line.
func (b *Buffer) ForwardDefaultEnd() {
	b.moveCarets(func(p text.Position) text.Position {
		return text.Position{Line: p.Line, Character: len(b.lines.Line(p.Line))}
	})
}

// insertIndentUnit types one indentation unit at each selection.
func (b *Buffer) insertIndentUnit() {
	b.TypeLiteral(b.opts.Unit())
}
