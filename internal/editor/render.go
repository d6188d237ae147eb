package editor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/smartkeys/internal/text"
)

func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	statusY := h - 1
	viewHeight := h - 1
	if viewHeight < 0 {
		viewHeight = 0
	}
	e.viewHeight = viewHeight
	e.ensureCursorVisible(viewHeight)

	s.SetStyle(e.styleMain)
	s.Clear()

	gutterWidth := e.gutterWidth()
	for y := 0; y < viewHeight; y++ {
		lineIdx := e.scroll + y
		if lineIdx >= e.buf.LineCount() {
			clearLine(s, y, w, e.styleMain)
			continue
		}
		e.drawLineWithGutter(s, y, w, gutterWidth, lineIdx)
	}
	e.drawSecondaryCursors(s, w, viewHeight)
	e.renderStatusline(s, w, statusY)

	cx, cy := e.caretCell(e.buf.sels[0].Active)
	if cy < 0 || cy >= viewHeight {
		s.HideCursor()
		s.Show()
		return
	}
	if cx >= w {
		cx = w - 1
	}
	s.SetCursorStyle(tcell.CursorStyleSteadyBar)
	s.ShowCursor(cx, cy)
	s.Show()
}

// ensureCursorVisible scrolls to the last revealed position, or to the
// primary caret.
func (e *Editor) ensureCursorVisible(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	row := e.buf.sels[0].Active.Line
	if p, ok := e.buf.consumeReveal(); ok {
		row = p.Line
	}
	// Far outside the view: center it.
	if row < e.scroll-1 || row >= e.scroll+viewHeight+1 {
		e.scroll = row - viewHeight/2
		if e.scroll < 0 {
			e.scroll = 0
		}
		return
	}
	if row < e.scroll {
		e.scroll = row
		return
	}
	if row >= e.scroll+viewHeight {
		e.scroll = row - viewHeight + 1
	}
}

func (e *Editor) gutterWidth() int {
	if e.lineNumberMode == LineNumberOff {
		return 0
	}
	digits := len(strconv.Itoa(max(e.buf.LineCount(), 1)))
	if digits < 2 {
		digits = 2
	}
	// " " + digits + " "
	return 1 + digits + 1
}

func (e *Editor) drawLineWithGutter(s tcell.Screen, y, w, gutterWidth, lineIdx int) {
	row := e.buf.sels[0].Active.Line
	if gutterWidth > 0 {
		digits := gutterWidth - 2
		num := lineIdx + 1
		if e.lineNumberMode == LineNumberRelative && lineIdx != row {
			num = lineIdx - row
			if num < 0 {
				num = -num
			}
		}
		style := e.styleLineNumber
		if lineIdx == row {
			style = e.styleLineNumberActive
		}
		if w > 0 {
			s.SetContent(0, y, ' ', nil, e.styleMain)
		}
		for i, r := range fmt.Sprintf("%*d", digits, num) {
			x := 1 + i
			if x >= gutterWidth-1 || x >= w {
				break
			}
			s.SetContent(x, y, r, nil, style)
		}
		if gutterWidth-1 < w {
			s.SetContent(gutterWidth-1, y, ' ', nil, e.styleMain)
		}
	}
	if gutterWidth >= w {
		return
	}
	var spans []HighlightSpan
	if e.highlightStart >= 0 && lineIdx >= e.highlightStart && lineIdx <= e.highlightEnd {
		spans = e.highlights[lineIdx]
	}
	e.drawLine(s, y, w, gutterWidth, e.buf.Line(lineIdx), spans)
}

// drawLine draws one document line from column startX. Span columns are byte
// offsets.
func (e *Editor) drawLine(s tcell.Screen, y, w, startX int, line string, spans []HighlightSpan) {
	tabWidth := max(e.buf.opts.TabSize, 1)
	x := startX
	col := 0
	for idx, r := range line {
		if x >= w {
			break
		}
		style := e.styleMain
		if kind, ok := highlightKindAt(spans, idx); ok {
			style = e.styleForHighlight(kind)
		}
		if r == '\t' {
			spaces := tabWidth - (col % tabWidth)
			for i := 0; i < spaces && x < w; i++ {
				s.SetContent(x, y, ' ', nil, style)
				x++
				col++
			}
			continue
		}
		width := runewidth.RuneWidth(r)
		if width == 0 {
			continue
		}
		if x+width > w {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += width
		col += width
	}
	for x < w {
		s.SetContent(x, y, ' ', nil, e.styleMain)
		x++
	}
}

// drawSecondaryCursors paints every caret but the primary one, which is the
// terminal cursor.
func (e *Editor) drawSecondaryCursors(s tcell.Screen, w, viewHeight int) {
	for _, sel := range e.buf.sels[1:] {
		x, y := e.caretCell(sel.Active)
		if y < 0 || y >= viewHeight || x >= w {
			continue
		}
		r, _, _, _ := s.GetContent(x, y)
		s.SetContent(x, y, r, nil, e.styleCursor)
	}
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	name := e.filename
	if name == "" {
		name = "[No Name]"
	} else {
		name = filepath.Base(name)
	}
	dirty := ""
	if e.buf.Dirty() {
		dirty = "*"
	}
	status := fmt.Sprintf(" %s%s | %s ", name, dirty, e.buf.LanguageID())
	if n := len(e.buf.sels); n > 1 {
		status += fmt.Sprintf("| %d cursors ", n)
	}
	if e.statusMessage != "" {
		status += "| " + e.statusMessage + " "
	}

	p := e.buf.sels[0].Active
	col := visualCol(e.buf.Line(p.Line), p.Character, e.buf.opts.TabSize) + 1
	opts := e.buf.opts
	indentName := "tabs"
	if opts.InsertSpaces {
		indentName = "spaces"
	}
	right := fmt.Sprintf(" %s:%d | Ln %d, Col %d ", indentName, opts.TabSize, p.Line+1, col)

	line := composeStatusLine(status, right, w)
	for x, r := range line {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, e.styleStatus)
	}
}

func (e *Editor) styleForHighlight(kind string) tcell.Style {
	switch kind {
	case "keyword":
		return e.styleSyntaxKeyword
	case "string":
		return e.styleSyntaxString
	case "comment":
		return e.styleSyntaxComment
	case "type":
		return e.styleSyntaxType
	case "function":
		return e.styleSyntaxFunction
	case "number":
		return e.styleSyntaxNumber
	case "constant", "builtin":
		return e.styleSyntaxConstant
	case "field", "property":
		return e.styleSyntaxField
	case "punctuation", "operator":
		return e.styleSyntaxPunct
	default:
		return e.styleMain
	}
}

func highlightPriority(kind string) int {
	switch kind {
	case "comment":
		return 7
	case "string":
		return 6
	case "keyword":
		return 5
	case "constant", "builtin":
		return 4
	case "type", "function", "number":
		return 3
	case "field", "property":
		return 2
	case "operator", "punctuation":
		return 1
	default:
		return 0
	}
}

func highlightKindAt(spans []HighlightSpan, col int) (string, bool) {
	bestKind := ""
	bestPriority := 0
	for _, span := range spans {
		if col < span.StartCol || col >= span.EndCol {
			continue
		}
		if p := highlightPriority(span.Kind); p > bestPriority {
			bestPriority = p
			bestKind = span.Kind
		}
	}
	return bestKind, bestKind != ""
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := len(leftRunes) + len(rightRunes); i < width; i++ {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		v, err := strconv.ParseInt(name[1:], 16, 32)
		if err != nil {
			return fallback
		}
		return tcell.NewHexColor(int32(v))
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	if c := tcell.GetColor(name); c != tcell.ColorDefault {
		return c
	}
	return fallback
}

// visualCol is the screen column of byte offset byteCol, with tab stops and
// wide runes.
func visualCol(line string, byteCol int, tabWidth int) int {
	tabWidth = max(tabWidth, 1)
	byteCol = min(max(byteCol, 0), len(line))
	col := 0
	for _, r := range line[:byteCol] {
		if r == '\t' {
			col += tabWidth - (col % tabWidth)
			continue
		}
		col += runewidth.RuneWidth(r)
	}
	return col
}

// visualToLogicalCol is the byte offset of the rune covering screen column
// visualX, or the line length past the end.
func visualToLogicalCol(line string, visualX int, tabWidth int) int {
	tabWidth = max(tabWidth, 1)
	if visualX <= 0 {
		return 0
	}
	col := 0
	for i, r := range line {
		advance := runewidth.RuneWidth(r)
		if r == '\t' {
			advance = tabWidth - (col % tabWidth)
		}
		if col+advance > visualX {
			return i
		}
		col += advance
		if col >= visualX {
			_, size := utf8.DecodeRuneInString(line[i:])
			return i + size
		}
	}
	return len(line)
}

func parseLineNumberMode(value string) LineNumberMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "relative", "rel":
		return LineNumberRelative
	case "off", "none", "false":
		return LineNumberOff
	default:
		return LineNumberAbsolute
	}
}

// caretCell is the screen cell of p.
func (e *Editor) caretCell(p text.Position) (int, int) {
	return e.gutterWidth() + visualCol(e.buf.Line(p.Line), p.Character, e.buf.opts.TabSize), p.Line - e.scroll
}
