// Package editor is a small terminal editor that drives the smart key
// handlers: it owns the buffer and cursors, maps keys to actions and draws
// the document with tcell.
package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/smartkeys/internal/config"
	"github.com/kobzarvs/smartkeys/internal/endtoggle"
	"github.com/kobzarvs/smartkeys/internal/indent"
	"github.com/kobzarvs/smartkeys/internal/logger"
	"github.com/kobzarvs/smartkeys/internal/smart"
	"github.com/kobzarvs/smartkeys/internal/text"
)

type LineNumberMode int

const (
	LineNumberAbsolute LineNumberMode = iota
	LineNumberRelative
	LineNumberOff
)

// HighlightSpan colors bytes [StartCol, EndCol) of one line.
type HighlightSpan struct {
	StartCol int
	EndCol   int
	Kind     string
}

type Editor struct {
	buf      *Buffer
	handlers *smart.Handlers
	keymap   config.Keymap

	filename     string
	baseIndent   indent.Options
	detectIndent bool

	lineNumberMode LineNumberMode
	scroll         int
	viewHeight     int
	statusMessage  string

	highlights     map[int][]HighlightSpan
	highlightStart int
	highlightEnd   int

	styleMain             tcell.Style
	styleStatus           tcell.Style
	styleLineNumber       tcell.Style
	styleLineNumberActive tcell.Style
	styleCursor           tcell.Style
	styleSyntaxKeyword    tcell.Style
	styleSyntaxString     tcell.Style
	styleSyntaxComment    tcell.Style
	styleSyntaxType       tcell.Style
	styleSyntaxFunction   tcell.Style
	styleSyntaxNumber     tcell.Style
	styleSyntaxConstant   tcell.Style
	styleSyntaxField      tcell.Style
	styleSyntaxPunct      tcell.Style
}

func New(cfg config.Config) *Editor {
	theme := cfg.Theme
	fg := parseColor(theme.Foreground, tcell.ColorWhite)
	bg := parseColor(theme.Background, tcell.ColorBlack)
	main := tcell.StyleDefault.Foreground(fg).Background(bg)
	syntax := func(name string) tcell.Style {
		return main.Foreground(parseColor(name, fg))
	}

	tracker := endtoggle.NewTracker()
	buf := NewBuffer(tracker)
	buf.SetFormattingOptions(cfg.Indent())
	return &Editor{
		buf:            buf,
		handlers:       smart.New(buf, buf, tracker, cfg.Settings()),
		keymap:         cfg.Keymap,
		baseIndent:     cfg.Indent(),
		detectIndent:   cfg.Editor.DetectIndent,
		lineNumberMode: parseLineNumberMode(cfg.Editor.LineNumbers),
		highlightStart: -1,
		highlightEnd:   -1,

		styleMain: main,
		styleStatus: tcell.StyleDefault.
			Foreground(parseColor(theme.StatuslineForeground, fg)).
			Background(parseColor(theme.StatuslineBackground, bg)),
		styleLineNumber:       main.Foreground(parseColor(theme.LineNumberForeground, tcell.ColorGray)),
		styleLineNumberActive: main.Foreground(parseColor(theme.LineNumberActiveForeground, fg)),
		styleCursor: tcell.StyleDefault.
			Foreground(parseColor(theme.CursorForeground, bg)).
			Background(parseColor(theme.CursorBackground, fg)),
		styleSyntaxKeyword:  syntax(theme.SyntaxKeyword),
		styleSyntaxString:   syntax(theme.SyntaxString),
		styleSyntaxComment:  syntax(theme.SyntaxComment),
		styleSyntaxType:     syntax(theme.SyntaxType),
		styleSyntaxFunction: syntax(theme.SyntaxFunction),
		styleSyntaxNumber:   syntax(theme.SyntaxNumber),
		styleSyntaxConstant: syntax(theme.SyntaxConstant),
		styleSyntaxField:    syntax(theme.SyntaxField),
		styleSyntaxPunct:    syntax(theme.SyntaxPunctuation),
	}
}

// Buffer exposes the open document.
func (e *Editor) Buffer() *Buffer {
	return e.buf
}

func (e *Editor) Filename() string {
	return e.filename
}

func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	e.buf.SetText(string(data))
	e.buf.SetSelections([]text.Selection{text.Caret(text.Position{})})
	e.filename = path
	e.scroll = 0
	e.statusMessage = ""
	if err != nil {
		e.setStatus("new file")
	}
	e.SetHighlights(-1, -1, nil)
	return nil
}

// SetLanguage sets the language id and resolves the formatting options:
// configured defaults, then the language's own settings, then what the file
// itself uses when detection is on.
func (e *Editor) SetLanguage(id string, lang *config.Language) {
	e.buf.SetLanguageID(id)
	opts := e.baseIndent
	if lang != nil {
		if lang.TabWidth > 0 {
			opts.TabSize = lang.TabWidth
		}
		if lang.InsertSpaces != nil {
			opts.InsertSpaces = *lang.InsertSpaces
		}
	}
	if e.detectIndent {
		if detected, ok := indent.Detect(e.buf.lines); ok {
			opts = detected
		}
	}
	e.buf.SetFormattingOptions(opts)
	logger.Debug("editor: language", "lang", id, "tab", opts.TabSize, "spaces", opts.InsertSpaces)
}

// Reload replaces the text with content read from disk. A buffer with unsaved
// changes is left alone and false is returned.
func (e *Editor) Reload(content string) bool {
	if content == e.buf.Text() {
		return true
	}
	if e.buf.Dirty() {
		e.setStatus("file changed on disk")
		return false
	}
	e.buf.SetText(content)
	e.setStatus("reloaded")
	return true
}

func (e *Editor) Save(path string) error {
	if path == "" {
		if e.filename == "" {
			return errors.New("no file name")
		}
		path = e.filename
	}
	if err := os.WriteFile(path, []byte(e.buf.Text()), 0o644); err != nil {
		return err
	}
	e.filename = path
	e.buf.markSaved()
	return nil
}

func (e *Editor) Content() string {
	return e.buf.Text()
}

func (e *Editor) LineCount() int {
	return e.buf.LineCount()
}

func (e *Editor) ChangeTick() int {
	return e.buf.ChangeTick()
}

func (e *Editor) SetStatusMessage(msg string) {
	e.setStatus(msg)
}

func (e *Editor) setStatus(msg string) {
	e.statusMessage = msg
}

func (e *Editor) SetHighlights(startLine, endLine int, spans map[int][]HighlightSpan) {
	if spans == nil || startLine < 0 || endLine < startLine {
		e.highlights = nil
		e.highlightStart = -1
		e.highlightEnd = -1
		return
	}
	e.highlights = spans
	e.highlightStart = startLine
	e.highlightEnd = endLine
}

func (e *Editor) HasHighlights() bool {
	return e.highlights != nil && e.highlightStart >= 0 && e.highlightEnd >= e.highlightStart
}

// VisibleRange is the first and last document line on screen.
func (e *Editor) VisibleRange() (int, int) {
	start := e.scroll
	end := e.scroll + e.viewHeight - 1
	if last := e.buf.LineCount() - 1; end > last {
		end = last
	}
	if end < start {
		end = start
	}
	return start, end
}

// HandleKey runs the action bound to ev and reports whether the editor should
// quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	e.statusMessage = ""
	if action, ok := e.keymap[keyString(ev)]; ok {
		return e.execAction(action)
	}
	if ev.Key() == tcell.KeyRune {
		e.buf.TypeLiteral(string(ev.Rune()))
	}
	return false
}

func (e *Editor) execAction(action string) bool {
	switch action {
	case actionMoveLeft:
		e.buf.moveCarets(e.left)
	case actionMoveRight:
		e.buf.moveCarets(e.right)
	case actionMoveUp:
		e.buf.moveCarets(func(p text.Position) text.Position { return e.vertical(p, -1) })
	case actionMoveDown:
		e.buf.moveCarets(func(p text.Position) text.Position { return e.vertical(p, 1) })
	case actionPageUp:
		e.buf.moveCarets(func(p text.Position) text.Position { return e.vertical(p, -e.pageSize()) })
	case actionPageDown:
		e.buf.moveCarets(func(p text.Position) text.Position { return e.vertical(p, e.pageSize()) })
	case actionLineStart:
		e.buf.moveCarets(func(p text.Position) text.Position { return text.Position{Line: p.Line} })
	case actionLineEnd:
		e.buf.ForwardDefaultEnd()
	case actionFileStart:
		e.buf.SetSelections([]text.Selection{text.Caret(text.Position{})})
		e.buf.Reveal(text.Position{})
	case actionFileEnd:
		last := e.buf.LineCount() - 1
		p := text.Position{Line: last, Character: len(e.buf.Line(last))}
		e.buf.SetSelections([]text.Selection{text.Caret(p)})
		e.buf.Reveal(p)
	case actionSmartEnd:
		e.report(action, e.handlers.End())
	case actionSmartEnter:
		e.report(action, e.handlers.Enter())
	case actionSmartBackspace:
		e.report(action, e.handlers.Backspace())
	case actionSmartSeparator:
		e.report(action, e.handlers.Separator())
	case actionNewline:
		e.buf.ForwardDefaultNewline()
	case actionBackspace:
		e.buf.ForwardDefaultDelete()
	case actionDeleteChar:
		e.buf.deleteForward()
	case actionIndent:
		e.buf.insertIndentUnit()
	case actionAddCursorBelow:
		e.addCursor(1)
	case actionAddCursorAbove:
		e.addCursor(-1)
	case actionCollapseCursors:
		e.buf.SetSelections(e.buf.sels[:1])
	case actionToggleLineNumbers:
		e.toggleLineNumbers()
	case actionSave:
		if err := e.Save(""); err != nil {
			e.setStatus(err.Error())
		} else {
			e.setStatus("saved " + e.filename)
		}
	case actionQuit:
		return true
	default:
		logger.Debug("editor: unknown action", "action", action)
	}
	return false
}

func (e *Editor) report(action string, out smart.Outcome) {
	if out == smart.Handled {
		e.setStatus(action)
	}
}

func (e *Editor) left(p text.Position) text.Position {
	if p.Character > 0 {
		return e.buf.clamp(text.Position{Line: p.Line, Character: p.Character - 1})
	}
	if p.Line > 0 {
		return text.Position{Line: p.Line - 1, Character: len(e.buf.Line(p.Line - 1))}
	}
	return p
}

func (e *Editor) right(p text.Position) text.Position {
	line := e.buf.Line(p.Line)
	if p.Character < len(line) {
		next := p.Character + 1
		for next < len(line) && !utf8.RuneStart(line[next]) {
			next++
		}
		return text.Position{Line: p.Line, Character: next}
	}
	if p.Line+1 < e.buf.LineCount() {
		return text.Position{Line: p.Line + 1}
	}
	return p
}

// vertical moves p by delta lines, keeping its screen column.
func (e *Editor) vertical(p text.Position, delta int) text.Position {
	target := p.Line + delta
	if target < 0 {
		target = 0
	}
	if last := e.buf.LineCount() - 1; target > last {
		target = last
	}
	tab := e.buf.opts.TabSize
	col := visualCol(e.buf.Line(p.Line), p.Character, tab)
	return text.Position{Line: target, Character: visualToLogicalCol(e.buf.Line(target), col, tab)}
}

func (e *Editor) pageSize() int {
	if e.viewHeight > 1 {
		return e.viewHeight - 1
	}
	return 1
}

// addCursor adds a caret one line beyond the outermost caret in direction
// delta, at the primary caret's screen column.
func (e *Editor) addCursor(delta int) {
	sels := e.buf.Selections()
	edge := sels[0].Active
	for _, s := range sels[1:] {
		if (delta > 0 && s.Active.Line > edge.Line) || (delta < 0 && s.Active.Line < edge.Line) {
			edge = s.Active
		}
	}
	line := edge.Line + delta
	if line < 0 || line >= e.buf.LineCount() {
		return
	}
	tab := e.buf.opts.TabSize
	col := visualCol(e.buf.Line(sels[0].Active.Line), sels[0].Active.Character, tab)
	p := text.Position{Line: line, Character: visualToLogicalCol(e.buf.Line(line), col, tab)}
	e.buf.SetSelections(append(sels, text.Caret(p)))
	e.buf.Reveal(p)
	e.setStatus(fmt.Sprintf("%d cursors", len(e.buf.sels)))
}

func (e *Editor) toggleLineNumbers() {
	switch e.lineNumberMode {
	case LineNumberAbsolute:
		e.lineNumberMode = LineNumberRelative
		e.setStatus("line numbers relative")
	case LineNumberRelative:
		e.lineNumberMode = LineNumberOff
		e.setStatus("line numbers off")
	default:
		e.lineNumberMode = LineNumberAbsolute
		e.setStatus("line numbers absolute")
	}
}
