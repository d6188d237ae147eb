// Package smart implements the End, Backspace, Enter and ':' key handlers.
// Each handler inspects the document around the cursors, plans its edits as
// one batch and commits it through the Host, or hands the key back to the
// host's default behavior through Fallback.
package smart

import (
	"github.com/kobzarvs/smartkeys/internal/endtoggle"
	"github.com/kobzarvs/smartkeys/internal/indent"
	"github.com/kobzarvs/smartkeys/internal/logger"
	"github.com/kobzarvs/smartkeys/internal/multiedit"
	"github.com/kobzarvs/smartkeys/internal/text"
)

// Host is the editor the handlers act on.
type Host interface {
	DocumentID() string
	Document() text.Document
	LanguageID() string
	Selections() []text.Selection
	SetSelections(sels []text.Selection)
	Reveal(p text.Position)
	FormattingOptions() indent.Options
	// Apply commits edits, all in pre-batch coordinates, as one atomic change.
	Apply(edits ...text.Edit) error
}

// Fallback is the host's plain behavior for each key.
type Fallback interface {
	TypeLiteral(s string)
	ForwardDefaultNewline()
	ForwardDefaultDelete()
	ForwardDefaultEnd()
}

// Settings switch individual heuristics on and off.
type Settings struct {
	IndentEmptyLine             bool
	ToggleTrimmedEnd            bool
	HandleEmptyLine             bool
	HandleIndentZone            bool
	AutoInsertClosingBrace      bool
	InsertTerminatorOnEnter     bool
	AddWhitespaceAfterSeparator bool
	AddQuotesToKeys             bool
}

// DefaultSettings has everything enabled.
func DefaultSettings() Settings {
	return Settings{
		IndentEmptyLine:             true,
		ToggleTrimmedEnd:            true,
		HandleEmptyLine:             true,
		HandleIndentZone:            true,
		AutoInsertClosingBrace:      true,
		InsertTerminatorOnEnter:     true,
		AddWhitespaceAfterSeparator: true,
		AddQuotesToKeys:             true,
	}
}

// Outcome tells the caller which path a key press took.
type Outcome int

const (
	// Forwarded means the default behavior ran and nothing smart happened.
	Forwarded Outcome = iota
	// Handled means a heuristic changed the document or the cursors.
	Handled
)

func (o Outcome) String() string {
	if o == Handled {
		return "handled"
	}
	return "forwarded"
}

// Handlers binds the key handlers to one host.
type Handlers struct {
	host     Host
	fallback Fallback
	tracker  *endtoggle.Tracker
	settings Settings
}

func New(host Host, fallback Fallback, tracker *endtoggle.Tracker, settings Settings) *Handlers {
	if tracker == nil {
		tracker = endtoggle.NewTracker()
	}
	return &Handlers{host: host, fallback: fallback, tracker: tracker, settings: settings}
}

func (h *Handlers) Settings() Settings {
	return h.settings
}

func (h *Handlers) SetSettings(s Settings) {
	h.settings = s
}

func (h *Handlers) Tracker() *endtoggle.Tracker {
	return h.tracker
}

func (h *Handlers) docID() endtoggle.DocumentID {
	return endtoggle.DocumentID(h.host.DocumentID())
}

// commit builds and applies one batch, then places the cursors. It reports
// false when the batch could not be planned or the host rejected it, in which
// case nothing has changed.
func (h *Handlers) commit(handler string, steps []multiedit.Step) bool {
	plan, err := multiedit.Build(steps)
	if err != nil {
		logger.Debug("smart: plan rejected", "handler", handler, "err", err)
		return false
	}
	if len(plan.Edits) > 0 {
		if err := h.host.Apply(plan.Edits...); err != nil {
			logger.Warn("smart: apply failed", "handler", handler, "err", err)
			return false
		}
	}
	h.host.SetSelections(plan.Selections)
	h.host.Reveal(plan.Selections[0].Active)
	return true
}

func (h *Handlers) report(handler string, cursors int, out Outcome, reason string) Outcome {
	logger.Debug("smart key", "handler", handler, "outcome", out.String(), "cursors", cursors, "reason", reason)
	return out
}

// cursorLine returns the line under p, or false when p lies outside the
// document.
func cursorLine(doc text.Document, p text.Position) (string, bool) {
	if p.Line < 0 || p.Line >= doc.LineCount() {
		return "", false
	}
	line := doc.Line(p.Line)
	if p.Character < 0 || p.Character > len(line) {
		return "", false
	}
	return line, true
}

func carets(sels []text.Selection) []text.Position {
	out := make([]text.Position, len(sels))
	for i, s := range sels {
		out[i] = s.Active
	}
	return out
}
