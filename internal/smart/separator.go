package smart

import (
	"github.com/kobzarvs/smartkeys/internal/keyvalue"
	"github.com/kobzarvs/smartkeys/internal/multiedit"
	"github.com/kobzarvs/smartkeys/internal/text"
)

// Separator handles typing ':' after a property name in a structured
// document: the name is quoted and a space follows the separator.
func (h *Handlers) Separator() Outcome {
	sels := h.host.Selections()
	if len(sels) != 1 || !sels[0].Empty() {
		return h.typeSeparator(len(sels), "multi-cursor or selection")
	}
	if !keyvalue.IsStructured(h.host.LanguageID()) {
		return h.typeSeparator(1, "not structured")
	}
	opts := keyvalue.SeparatorOptions{
		AddQuotes: h.settings.AddQuotesToKeys,
		AddSpace:  h.settings.AddWhitespaceAfterSeparator,
	}
	if !opts.AddQuotes && !opts.AddSpace {
		return h.typeSeparator(1, "disabled")
	}

	cur := sels[0].Active
	line, ok := cursorLine(h.host.Document(), cur)
	if !ok {
		return h.typeSeparator(1, "out of range")
	}
	edit, after, ok := keyvalue.BuildSeparatorEdit(line, cur, opts)
	if !ok {
		return h.typeSeparator(1, "no property name")
	}
	step := multiedit.Step{Cursor: cur, Edits: []text.Edit{edit}, Character: after.Character}
	if !h.commit("separator", []multiedit.Step{step}) {
		return h.typeSeparator(1, "commit failed")
	}
	return h.report("separator", 1, Handled, "property name")
}

func (h *Handlers) typeSeparator(cursors int, reason string) Outcome {
	h.fallback.TypeLiteral(keyvalue.Separator)
	return h.report("separator", cursors, Forwarded, reason)
}
