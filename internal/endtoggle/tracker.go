// Package endtoggle remembers, per open document, where the last smart End
// press left the cursor so the next press can toggle between the trimmed and
// the full line end.
package endtoggle

import (
	"sync"

	"github.com/kobzarvs/smartkeys/internal/text"
)

// Tolerance is how far, in characters, the cursor may drift on the same line
// before a recorded state is considered stale. It lets the End action place
// its own cursor without invalidating what it just recorded.
const Tolerance = 1

// DocumentID is an opaque identity for an open document.
type DocumentID string

// State is what the last End press recorded.
type State struct {
	Line         int
	Character    int
	AtTrimmedEnd bool
}

// Position returns the recorded cursor position.
func (s State) Position() text.Position {
	return text.Position{Line: s.Line, Character: s.Character}
}

// Near reports whether p is still on the recorded line and within Tolerance
// characters of the recorded column.
func (s State) Near(p text.Position) bool {
	if p.Line != s.Line {
		return false
	}
	d := p.Character - s.Character
	if d < 0 {
		d = -d
	}
	return d <= Tolerance
}

// Tracker is the store of toggle states. It is written by the End handler and
// invalidated by the host's document-changed and selection-changed
// notifications.
type Tracker struct {
	mu     sync.Mutex
	states map[DocumentID]State
}

func NewTracker() *Tracker {
	return &Tracker{states: make(map[DocumentID]State)}
}

// Get returns the state for id, if any.
func (t *Tracker) Get(id DocumentID) (State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.states[id]
	return s, ok
}

// Record stores s for id, replacing any previous state.
func (t *Tracker) Record(id DocumentID, s State) {
	t.mu.Lock()
	t.states[id] = s
	t.mu.Unlock()
}

// Invalidate drops the state for id.
func (t *Tracker) Invalidate(id DocumentID) {
	t.mu.Lock()
	delete(t.states, id)
	t.mu.Unlock()
}

// Clear drops every state, e.g. when the host closes all documents.
func (t *Tracker) Clear() {
	t.mu.Lock()
	clear(t.states)
	t.mu.Unlock()
}

// Len is the number of documents with a recorded state.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.states)
}

// DocumentChanged must be called for every edit to the document, whoever
// made it.
func (t *Tracker) DocumentChanged(id DocumentID) {
	t.Invalidate(id)
}

// SelectionChanged must be called whenever the active cursor of the document
// moves. The state survives only if the cursor stayed near it.
func (t *Tracker) SelectionChanged(id DocumentID, active text.Position) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.states[id]
	if ok && !s.Near(active) {
		delete(t.states, id)
	}
}
