package smart

import (
	"github.com/kobzarvs/smartkeys/internal/endtoggle"
	"github.com/kobzarvs/smartkeys/internal/indent"
	"github.com/kobzarvs/smartkeys/internal/multiedit"
	"github.com/kobzarvs/smartkeys/internal/text"
)

// End moves to the trimmed line end, toggling to the full end on a repeated
// press, and fills an empty line with its inferred indentation.
func (h *Handlers) End() Outcome {
	sels := h.host.Selections()
	if len(sels) == 0 || !text.AllEmpty(sels) {
		return h.forwardEnd(len(sels), "selection")
	}
	if len(sels) > 1 {
		return h.endMulti(carets(sels))
	}
	return h.endSingle(sels[0].Active)
}

func (h *Handlers) forwardEnd(cursors int, reason string) Outcome {
	h.fallback.ForwardDefaultEnd()
	return h.report("end", cursors, Forwarded, reason)
}

func (h *Handlers) endSingle(cur text.Position) Outcome {
	doc := h.host.Document()
	line, ok := cursorLine(doc, cur)
	if !ok {
		return h.forwardEnd(1, "out of range")
	}
	id := h.docID()

	if indent.IsBlank(line) {
		if !h.settings.IndentEmptyLine {
			return h.forwardEnd(1, "disabled")
		}
		step := h.indentEmptyLine(doc, cur, line)
		if !h.commit("end", []multiedit.Step{step}) {
			return h.forwardEnd(1, "commit failed")
		}
		h.tracker.Record(id, endtoggle.State{Line: cur.Line, Character: step.Character})
		return h.report("end", 1, Handled, "indent empty line")
	}

	if !h.settings.ToggleTrimmedEnd {
		return h.forwardEnd(1, "disabled")
	}
	target, atTrimmed := toggleTarget(h.tracker, id, cur, line)
	if !h.commit("end", []multiedit.Step{{Cursor: cur, Character: target}}) {
		return h.forwardEnd(1, "commit failed")
	}
	// Recorded after the commit so the host's notifications for our own
	// cursor move cannot drop it.
	h.tracker.Record(id, endtoggle.State{Line: cur.Line, Character: target, AtTrimmedEnd: atTrimmed})
	return h.report("end", 1, Handled, "toggle")
}

// toggleTarget decides where End goes on a non-empty line and whether that
// spot is the trimmed end.
func toggleTarget(tr *endtoggle.Tracker, id endtoggle.DocumentID, cur text.Position, line string) (int, bool) {
	trimmed, full := indent.TrimmedEnd(line), len(line)
	state, ok := tr.Get(id)
	ok = ok && state.Line == cur.Line

	switch {
	case ok && state.AtTrimmedEnd && cur.Character == trimmed:
		return full, false
	case ok && !state.AtTrimmedEnd && cur.Character == full:
		return trimmed, true
	case cur.Character == trimmed && trimmed < full:
		return full, false
	default:
		return trimmed, true
	}
}

func (h *Handlers) indentEmptyLine(doc text.Document, cur text.Position, line string) multiedit.Step {
	ind := h.host.FormattingOptions().Calculate(doc, cur.Line)
	step := multiedit.Step{Cursor: cur, Character: len(ind)}
	if line != ind {
		step.Edits = []text.Edit{text.Replace(
			text.Position{Line: cur.Line},
			text.Position{Line: cur.Line, Character: len(line)},
			ind,
		)}
	}
	return step
}

// endMulti sends every cursor to its trimmed end, or fills its empty line,
// without any toggle state.
func (h *Handlers) endMulti(cursors []text.Position) Outcome {
	n := len(cursors)
	if !h.settings.IndentEmptyLine && !h.settings.ToggleTrimmedEnd {
		return h.forwardEnd(n, "disabled")
	}
	doc := h.host.Document()
	steps := make([]multiedit.Step, 0, n)
	for _, cur := range cursors {
		line, ok := cursorLine(doc, cur)
		if !ok {
			return h.forwardEnd(n, "out of range")
		}
		switch {
		case indent.IsBlank(line) && h.settings.IndentEmptyLine:
			steps = append(steps, h.indentEmptyLine(doc, cur, line))
		case h.settings.ToggleTrimmedEnd:
			steps = append(steps, multiedit.Step{Cursor: cur, Character: indent.TrimmedEnd(line)})
		default:
			steps = append(steps, multiedit.Step{Cursor: cur, Character: len(line)})
		}
	}
	if !h.commit("end", steps) {
		return h.forwardEnd(n, "commit failed")
	}
	h.tracker.Invalidate(h.docID())
	return h.report("end", n, Handled, "multi-cursor")
}
