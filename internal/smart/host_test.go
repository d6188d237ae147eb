package smart

import (
	"testing"

	"github.com/kobzarvs/smartkeys/internal/endtoggle"
	"github.com/kobzarvs/smartkeys/internal/indent"
	"github.com/kobzarvs/smartkeys/internal/text"
)

// fakeHost is an in-memory Host that delivers the same tracker notifications
// a real editor must.
type fakeHost struct {
	id       string
	lang     string
	lines    text.Lines
	sels     []text.Selection
	opts     indent.Options
	tracker  *endtoggle.Tracker
	applyErr error
	applies  int
	revealed []text.Position
}

func (f *fakeHost) DocumentID() string                { return f.id }
func (f *fakeHost) Document() text.Document           { return f.lines }
func (f *fakeHost) LanguageID() string                { return f.lang }
func (f *fakeHost) Selections() []text.Selection      { return f.sels }
func (f *fakeHost) FormattingOptions() indent.Options { return f.opts }
func (f *fakeHost) Reveal(p text.Position)            { f.revealed = append(f.revealed, p) }

func (f *fakeHost) SetSelections(sels []text.Selection) {
	f.sels = sels
	f.tracker.SelectionChanged(endtoggle.DocumentID(f.id), sels[0].Active)
}

func (f *fakeHost) Apply(edits ...text.Edit) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	if err := f.lines.Apply(edits...); err != nil {
		return err
	}
	f.applies++
	f.tracker.DocumentChanged(endtoggle.DocumentID(f.id))
	return nil
}

// moveTo simulates the user placing a single cursor.
func (f *fakeHost) moveTo(p text.Position) {
	f.SetSelections([]text.Selection{text.Caret(p)})
}

func (f *fakeHost) cursors() []text.Position {
	return carets(f.sels)
}

type fakeFallback struct {
	calls []string
}

func (f *fakeFallback) TypeLiteral(s string)   { f.calls = append(f.calls, "type "+s) }
func (f *fakeFallback) ForwardDefaultNewline() { f.calls = append(f.calls, "newline") }
func (f *fakeFallback) ForwardDefaultDelete()  { f.calls = append(f.calls, "delete") }
func (f *fakeFallback) ForwardDefaultEnd()     { f.calls = append(f.calls, "end") }

func newFixture(t *testing.T, lines []string, cursors ...text.Position) (*fakeHost, *fakeFallback, *Handlers) {
	t.Helper()
	tracker := endtoggle.NewTracker()
	host := &fakeHost{
		id:      "doc-1",
		lang:    "javascript",
		lines:   append(text.Lines(nil), lines...),
		opts:    indent.DefaultOptions(),
		tracker: tracker,
	}
	for _, c := range cursors {
		host.sels = append(host.sels, text.Caret(c))
	}
	fb := &fakeFallback{}
	return host, fb, New(host, fb, tracker, DefaultSettings())
}

func at(line, char int) text.Position {
	return text.Position{Line: line, Character: char}
}
