package smart

import (
	"github.com/kobzarvs/smartkeys/internal/indent"
	"github.com/kobzarvs/smartkeys/internal/multiedit"
	"github.com/kobzarvs/smartkeys/internal/text"
)

// Backspace collapses empty lines and fixes indentation when the cursor sits
// in the leading whitespace. Anywhere else, and with more than one cursor or
// a selection, it is a plain delete.
func (h *Handlers) Backspace() Outcome {
	sels := h.host.Selections()
	if len(sels) != 1 || !sels[0].Empty() {
		return h.forwardDelete(len(sels), "multi-cursor or selection")
	}
	cur := sels[0].Active
	doc := h.host.Document()
	line, ok := cursorLine(doc, cur)
	if !ok {
		return h.forwardDelete(1, "out of range")
	}

	step, reason, ok := h.planBackspace(doc, cur, line)
	if !ok {
		return h.forwardDelete(1, reason)
	}
	if !h.commit("backspace", []multiedit.Step{step}) {
		return h.forwardDelete(1, "commit failed")
	}
	return h.report("backspace", 1, Handled, reason)
}

func (h *Handlers) forwardDelete(cursors int, reason string) Outcome {
	h.fallback.ForwardDefaultDelete()
	return h.report("backspace", cursors, Forwarded, reason)
}

func (h *Handlers) planBackspace(doc text.Document, cur text.Position, line string) (multiedit.Step, string, bool) {
	if indent.IsBlank(line) {
		if !h.settings.HandleEmptyLine {
			return multiedit.Step{}, "disabled", false
		}
		if cur.Line == 0 {
			return multiedit.Step{}, "first line", false
		}
		return h.collapseEmptyLine(doc, cur, line), "empty line", true
	}

	first := len(indent.IndentOf(line))
	if cur.Character > first {
		return multiedit.Step{}, "inside text", false
	}
	if !h.settings.HandleIndentZone {
		return multiedit.Step{}, "disabled", false
	}

	correct := h.host.FormattingOptions().Calculate(doc, cur.Line)
	if first > len(correct) {
		return multiedit.Step{
			Cursor: cur,
			Edits: []text.Edit{text.Replace(
				text.Position{Line: cur.Line},
				text.Position{Line: cur.Line, Character: first},
				correct,
			)},
			Character: len(correct),
		}, "reindent", true
	}
	if cur.Line == 0 {
		return multiedit.Step{}, "first line", false
	}

	prev := doc.Line(cur.Line - 1)
	if indent.IsBlank(prev) {
		return multiedit.Step{
			Cursor: cur,
			Edits: []text.Edit{text.Replace(
				text.Position{Line: cur.Line - 1},
				text.Position{Line: cur.Line},
				"",
			)},
			LineOffset: -1,
			Character:  first,
		}, "drop empty line above", true
	}

	join := indent.TrimmedEnd(prev)
	return multiedit.Step{
		Cursor: cur,
		Edits: []text.Edit{text.Replace(
			text.Position{Line: cur.Line - 1, Character: join},
			text.Position{Line: cur.Line, Character: first},
			"",
		)},
		LineOffset: -1,
		Character:  join,
	}, "join", true
}

// collapseEmptyLine handles Backspace on a blank line below another line.
func (h *Handlers) collapseEmptyLine(doc text.Document, cur text.Position, line string) multiedit.Step {
	prev := doc.Line(cur.Line - 1)
	end := text.Position{Line: cur.Line, Character: len(line)}

	if indent.IsBlank(prev) {
		// The current line moves up one and takes the indent of that spot.
		ind := h.host.FormattingOptions().Calculate(doc, cur.Line-1)
		return multiedit.Step{
			Cursor:     cur,
			Edits:      []text.Edit{text.Replace(text.Position{Line: cur.Line - 1}, end, ind)},
			LineOffset: -1,
			Character:  len(ind),
		}
	}

	join := indent.TrimmedEnd(prev)
	return multiedit.Step{
		Cursor:     cur,
		Edits:      []text.Edit{text.Replace(text.Position{Line: cur.Line - 1, Character: join}, end, "")},
		LineOffset: -1,
		Character:  join,
	}
}
