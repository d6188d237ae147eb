package app

import (
	"github.com/kobzarvs/smartkeys/internal/editor"
	"github.com/kobzarvs/smartkeys/internal/treesitter"
)

// highlights keeps the editor's spans in step with its text and viewport.
type highlights struct {
	ts      *treesitter.Highlighter
	ed      *editor.Editor
	lang    string
	enabled bool

	docID     string
	lastTick  int
	lastStart int
	lastEnd   int
}

func newHighlights(ts *treesitter.Highlighter, ed *editor.Editor, lang string, enabled bool) *highlights {
	return &highlights{
		ts:        ts,
		ed:        ed,
		lang:      lang,
		enabled:   enabled && treesitter.Supports(lang),
		docID:     ed.Buffer().DocumentID(),
		lastTick:  -1,
		lastStart: -1,
		lastEnd:   -1,
	}
}

// refresh reparses after a change and recomputes spans when the text or the
// visible range moved.
func (h *highlights) refresh() {
	if !h.enabled {
		return
	}
	tick := h.ed.ChangeTick()
	changed := tick != h.lastTick
	if changed {
		h.lastTick = tick
		if !h.ts.Update(h.docID, h.lang, h.ed.Content()) {
			h.ed.SetHighlights(-1, -1, nil)
			return
		}
	}
	start, end := h.ed.VisibleRange()
	if !changed && start == h.lastStart && end == h.lastEnd {
		return
	}
	h.lastStart, h.lastEnd = start, end
	spans := h.ts.Highlights(h.docID, start, end)
	if spans == nil {
		h.ed.SetHighlights(-1, -1, nil)
		return
	}
	h.ed.SetHighlights(start, end, toEditorSpans(spans))
}

func (h *highlights) close() {
	h.ts.Forget(h.docID)
}

func toEditorSpans(spans map[int][]treesitter.Span) map[int][]editor.HighlightSpan {
	out := make(map[int][]editor.HighlightSpan, len(spans))
	for line, lineSpans := range spans {
		dst := make([]editor.HighlightSpan, len(lineSpans))
		for i, span := range lineSpans {
			dst[i] = editor.HighlightSpan{
				StartCol: span.StartCol,
				EndCol:   span.EndCol,
				Kind:     span.Kind,
			}
		}
		out[line] = dst
	}
	return out
}
