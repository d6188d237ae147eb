// Package multiedit turns independent per-cursor edits into one atomic batch
// and works out where every cursor ends up once the batch is applied.
package multiedit

import (
	"errors"
	"sort"

	"github.com/kobzarvs/smartkeys/internal/text"
)

var (
	ErrEmpty    = errors.New("no cursors to plan")
	ErrSameLine = errors.New("more than one editing cursor on a line")
	ErrOverlap  = errors.New("cursor edits overlap")
)

// Step is what one cursor contributes to a batch. Edits are expressed against
// the original document. The cursor's final place is given relative to its
// own line as it stands after its own edits: LineOffset lines below where
// Cursor's line lands, at column Character.
type Step struct {
	Cursor     text.Position
	Edits      []text.Edit
	LineOffset int
	Character  int
}

// Applied is the part of a committed edit that matters for line remapping.
type Applied struct {
	Range         text.Range
	InsertedLines int
}

// LineDelta is how many lines the edit added, negative when it removed some.
func (a Applied) LineDelta() int {
	return a.InsertedLines - (a.Range.End.Line - a.Range.Start.Line)
}

// AppliedOf summarizes edits for Remap.
func AppliedOf(edits []text.Edit) []Applied {
	out := make([]Applied, len(edits))
	for i, e := range edits {
		out[i] = Applied{Range: e.Range, InsertedLines: e.InsertedLines()}
	}
	return out
}

// Remap moves each position, given in pre-batch coordinates, to where its line
// sits after the batch. Only edits that end on a line strictly above the
// position shift it; an edit's own line and everything below it keep their
// index relative to that edit. Columns are left alone. The result is in the
// order of positions.
func Remap(positions []text.Position, applied []Applied) []text.Position {
	out := make([]text.Position, len(positions))
	for i, p := range positions {
		shift := 0
		for _, a := range applied {
			if a.Range.End.Line < p.Line {
				shift += a.LineDelta()
			}
		}
		out[i] = text.Position{Line: p.Line + shift, Character: p.Character}
	}
	return out
}

// Order returns the indices of steps bottom-to-top, then right-to-left: the
// order in which applying them never invalidates a later one's coordinates.
func Order(steps []Step) []int {
	idx := make([]int, len(steps))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return steps[idx[b]].Cursor.Before(steps[idx[a]].Cursor)
	})
	return idx
}

// Plan is a batch ready to commit.
type Plan struct {
	// Edits in application order.
	Edits []text.Edit
	// Selections in the order the steps were given.
	Selections []text.Selection
}

// Build orders the steps, checks that their edits can be applied together,
// and computes the final cursors. Steps that change text may not share a line
// with any other step, since remapping is per line.
func Build(steps []Step) (Plan, error) {
	if len(steps) == 0 {
		return Plan{}, ErrEmpty
	}
	order := Order(steps)

	lines := make(map[int]int, len(steps))
	for _, s := range steps {
		lines[s.Cursor.Line]++
	}
	for _, s := range steps {
		if len(s.Edits) > 0 && lines[s.Cursor.Line] > 1 {
			return Plan{}, ErrSameLine
		}
	}

	var plan Plan
	for _, i := range order {
		plan.Edits = append(plan.Edits, steps[i].Edits...)
	}
	if overlapping(plan.Edits) {
		return Plan{}, ErrOverlap
	}

	plan.Selections = make([]text.Selection, len(steps))
	for i, s := range steps {
		var others []Applied
		for j, o := range steps {
			if j != i {
				others = append(others, AppliedOf(o.Edits)...)
			}
		}
		p := Remap([]text.Position{s.Cursor}, others)[0]
		plan.Selections[i] = text.Caret(text.Position{Line: p.Line + s.LineOffset, Character: s.Character})
	}
	return plan, nil
}

func overlapping(edits []text.Edit) bool {
	sorted := make([]text.Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Before(sorted[j].Range.Start)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Range.Start.Before(sorted[i-1].Range.End) {
			return true
		}
	}
	return false
}
