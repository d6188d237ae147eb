package smart

import (
	"strings"

	"github.com/kobzarvs/smartkeys/internal/brace"
	"github.com/kobzarvs/smartkeys/internal/indent"
	"github.com/kobzarvs/smartkeys/internal/keyvalue"
	"github.com/kobzarvs/smartkeys/internal/multiedit"
	"github.com/kobzarvs/smartkeys/internal/text"
)

// Enter expands "{|}" into an indented block. In structured documents it
// first completes a finished value with its terminator.
func (h *Handlers) Enter() Outcome {
	sels := h.host.Selections()
	if len(sels) == 0 || !text.AllEmpty(sels) {
		return h.forwardNewline(len(sels), "selection", Forwarded)
	}
	if len(sels) > 1 {
		return h.enterMulti(carets(sels))
	}

	cur := sels[0].Active
	terminated := false
	if h.settings.InsertTerminatorOnEnter && keyvalue.IsStructured(h.host.LanguageID()) {
		if p, ok := h.insertTerminator(cur); ok {
			cur, terminated = p, true
		}
	}
	partial := Forwarded
	if terminated {
		partial = Handled
	}

	if !h.settings.AutoInsertClosingBrace {
		return h.forwardNewline(1, "disabled", partial)
	}
	doc := h.host.Document()
	step, ok := planExpansion(doc, cur, h.host.FormattingOptions())
	if !ok {
		return h.forwardNewline(1, "no brace to expand", partial)
	}
	if !h.commit("enter", []multiedit.Step{step}) {
		return h.forwardNewline(1, "commit failed", partial)
	}
	return h.report("enter", 1, Handled, "brace expansion")
}

// forwardNewline runs the default newline. out is Handled when an earlier
// part of the same press already changed the document.
func (h *Handlers) forwardNewline(cursors int, reason string, out Outcome) Outcome {
	h.fallback.ForwardDefaultNewline()
	return h.report("enter", cursors, out, reason)
}

// insertTerminator adds the missing comma to a finished "key": value line
// when the cursor is past its content. It returns the cursor after the edit.
func (h *Handlers) insertTerminator(cur text.Position) (text.Position, bool) {
	line, ok := cursorLine(h.host.Document(), cur)
	if !ok || cur.Character < indent.TrimmedEnd(line) || !keyvalue.NeedsTerminator(line) {
		return cur, false
	}
	col := keyvalue.TerminatorInsertColumn(line)
	at := text.Position{Line: cur.Line, Character: col}
	step := multiedit.Step{
		Cursor:    cur,
		Edits:     []text.Edit{text.Insert(at, keyvalue.Terminator)},
		Character: cur.Character + len(keyvalue.Terminator),
	}
	if !h.commit("enter", []multiedit.Step{step}) {
		return cur, false
	}
	return text.Position{Line: cur.Line, Character: step.Character}, true
}

// planExpansion decides whether Enter at cur should open a block after the
// '{' before the cursor, and if so builds the edit.
func planExpansion(doc text.Document, cur text.Position, opts indent.Options) (multiedit.Step, bool) {
	line, ok := cursorLine(doc, cur)
	if !ok {
		return multiedit.Step{}, false
	}
	before := strings.TrimRight(line[:cur.Character], " \t")
	if before == "" || before[len(before)-1] != '{' {
		return multiedit.Step{}, false
	}
	open := len(before) - 1

	view := text.Snapshot(doc)
	view[cur.Line] = line[:open+1]
	if !brace.ShouldInsertClosing(view, cur.Line, open) {
		return multiedit.Step{}, false
	}

	base := indent.IndentOf(line)
	inner := base + opts.Unit()
	rest := line[open+1:]
	carry, suffix := "", ""
	if i := strings.IndexByte(rest, '}'); i >= 0 {
		suffix = rest[i+1:]
	} else {
		carry = strings.TrimLeft(rest, " \t")
	}

	return multiedit.Step{
		Cursor: cur,
		Edits: []text.Edit{text.Replace(
			text.Position{Line: cur.Line, Character: open + 1},
			text.Position{Line: cur.Line, Character: len(line)},
			"\n"+inner+carry+"\n"+base+"}"+suffix,
		)},
		LineOffset: 1,
		Character:  len(inner),
	}, true
}

// enterMulti expands every cursor's brace in one batch, or none of them.
func (h *Handlers) enterMulti(cursors []text.Position) Outcome {
	n := len(cursors)
	if !h.settings.AutoInsertClosingBrace {
		return h.forwardNewline(n, "disabled", Forwarded)
	}
	doc := h.host.Document()
	opts := h.host.FormattingOptions()
	steps := make([]multiedit.Step, 0, n)
	for _, cur := range cursors {
		step, ok := planExpansion(doc, cur, opts)
		if !ok {
			return h.forwardNewline(n, "not every cursor expands", Forwarded)
		}
		steps = append(steps, step)
	}
	if !h.commit("enter", steps) {
		return h.forwardNewline(n, "commit failed", Forwarded)
	}
	return h.report("enter", n, Handled, "multi-cursor brace expansion")
}
