package editor

import (
	"slices"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kobzarvs/smartkeys/internal/endtoggle"
	"github.com/kobzarvs/smartkeys/internal/indent"
	"github.com/kobzarvs/smartkeys/internal/logger"
	"github.com/kobzarvs/smartkeys/internal/text"
)

// Buffer is one open document with its cursors. It is the smart.Host the key
// handlers act on and the smart.Fallback they forward to. Every change to
// the text or to the cursors goes through Apply or SetSelections so the end
// toggle tracker hears about it.
type Buffer struct {
	id      string
	lang    string
	lines   text.Lines
	sels    []text.Selection
	opts    indent.Options
	tracker *endtoggle.Tracker

	dirty      bool
	changeTick int
	reveal     text.Position
	revealed   bool
}

func NewBuffer(tracker *endtoggle.Tracker) *Buffer {
	if tracker == nil {
		tracker = endtoggle.NewTracker()
	}
	return &Buffer{
		id:      uuid.NewString(),
		lang:    "text",
		lines:   text.Lines{""},
		sels:    []text.Selection{text.Caret(text.Position{})},
		opts:    indent.DefaultOptions(),
		tracker: tracker,
	}
}

func (b *Buffer) DocumentID() string {
	return b.id
}

func (b *Buffer) Document() text.Document {
	return b.lines
}

func (b *Buffer) LanguageID() string {
	return b.lang
}

func (b *Buffer) SetLanguageID(lang string) {
	b.lang = lang
}

func (b *Buffer) FormattingOptions() indent.Options {
	return b.opts
}

func (b *Buffer) SetFormattingOptions(opts indent.Options) {
	b.opts = opts
}

func (b *Buffer) Selections() []text.Selection {
	return slices.Clone(b.sels)
}

// SetSelections replaces the cursors. Positions are clamped to the document
// and exact duplicates are dropped; order is kept so the first selection
// stays primary.
func (b *Buffer) SetSelections(sels []text.Selection) {
	if len(sels) == 0 {
		return
	}
	out := make([]text.Selection, 0, len(sels))
	for _, s := range sels {
		s = text.Selection{Anchor: b.clamp(s.Anchor), Active: b.clamp(s.Active)}
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	b.sels = out
	b.tracker.SelectionChanged(endtoggle.DocumentID(b.id), out[0].Active)
}

func (b *Buffer) Reveal(p text.Position) {
	b.reveal = p
	b.revealed = true
}

// consumeReveal returns the last position a handler asked to show.
func (b *Buffer) consumeReveal() (text.Position, bool) {
	p, ok := b.reveal, b.revealed
	b.revealed = false
	return p, ok
}

// Apply commits edits in pre-batch coordinates as one change.
func (b *Buffer) Apply(edits ...text.Edit) error {
	if err := b.lines.Apply(edits...); err != nil {
		return err
	}
	b.changed()
	return nil
}

// SetText replaces the whole document, as on open or reload. Cursors are
// clamped into the new text.
func (b *Buffer) SetText(content string) {
	b.lines = text.Split(content)
	b.changed()
	b.dirty = false
	b.SetSelections(b.sels)
}

func (b *Buffer) Text() string {
	return text.Join(b.lines)
}

func (b *Buffer) LineCount() int {
	return len(b.lines)
}

func (b *Buffer) Line(i int) string {
	return b.lines.Line(i)
}

func (b *Buffer) Dirty() bool {
	return b.dirty
}

func (b *Buffer) markSaved() {
	b.dirty = false
}

// ChangeTick increases on every change to the text.
func (b *Buffer) ChangeTick() int {
	return b.changeTick
}

func (b *Buffer) changed() {
	b.dirty = true
	b.changeTick++
	b.tracker.DocumentChanged(endtoggle.DocumentID(b.id))
}

func (b *Buffer) clamp(p text.Position) text.Position {
	if p.Line < 0 {
		return text.Position{}
	}
	if p.Line >= len(b.lines) {
		last := len(b.lines) - 1
		return text.Position{Line: last, Character: len(b.lines[last])}
	}
	line := b.lines[p.Line]
	if p.Character < 0 {
		p.Character = 0
	}
	if p.Character > len(line) {
		p.Character = len(line)
	}
	for p.Character > 0 && p.Character < len(line) && !utf8.RuneStart(line[p.Character]) {
		p.Character--
	}
	return p
}

// editSelections applies edits[i] for selection i as one batch and leaves
// caret i just after the text of edits[i].
func (b *Buffer) editSelections(action string, edits []text.Edit) {
	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(x, y int) int {
		ex, ey := edits[x].Range.Start, edits[y].Range.Start
		switch {
		case ey.Before(ex):
			return -1
		case ex.Before(ey):
			return 1
		}
		return 0
	})

	carets := make([]text.Position, len(edits))
	var batch []text.Edit
	for n, i := range order {
		e := edits[i]
		for _, done := range order[:n] {
			carets[done] = shiftAfter(carets[done], e)
		}
		carets[i] = text.End(e.Range.Start, e.Text)
		if !e.Range.Empty() || e.Text != "" {
			batch = append(batch, e)
		}
	}

	if len(batch) > 0 {
		if err := b.Apply(batch...); err != nil {
			logger.Warn("editor: default action failed", "action", action, "err", err)
			return
		}
	}
	sels := make([]text.Selection, len(carets))
	for i, c := range carets {
		sels[i] = text.Caret(c)
	}
	b.SetSelections(sels)
	b.Reveal(carets[0])
}

// shiftAfter maps q, which lies at or after e's range, through e.
func shiftAfter(q text.Position, e text.Edit) text.Position {
	if q.Line == e.Range.End.Line {
		end := text.End(e.Range.Start, e.Text)
		q.Character = end.Character + q.Character - e.Range.End.Character
	}
	q.Line += e.LineDelta()
	return q
}

// moveCarets collapses every selection to f of its caret.
func (b *Buffer) moveCarets(f func(p text.Position) text.Position) {
	sels := make([]text.Selection, len(b.sels))
	for i, s := range b.sels {
		sels[i] = text.Caret(f(s.Active))
	}
	b.SetSelections(sels)
	b.Reveal(b.sels[0].Active)
}
