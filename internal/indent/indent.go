// Package indent infers the indentation of a new or re-indented line by
// looking backward through the document.
package indent

import (
	"regexp"
	"strings"

	"github.com/kobzarvs/smartkeys/internal/text"
)

const (
	DefaultTabSize      = 4
	DefaultInsertSpaces = true
)

// Options are the per-editor formatting settings.
type Options struct {
	TabSize      int
	InsertSpaces bool
}

func DefaultOptions() Options {
	return Options{TabSize: DefaultTabSize, InsertSpaces: DefaultInsertSpaces}
}

// Unit is one level of indentation for these options.
func (o Options) Unit() string {
	return Unit(o.TabSize, o.InsertSpaces)
}

// Unit returns tabSize spaces, or a single tab when insertSpaces is false.
func Unit(tabSize int, insertSpaces bool) string {
	if !insertSpaces {
		return "\t"
	}
	if tabSize < 1 {
		tabSize = 1
	}
	return strings.Repeat(" ", tabSize)
}

// IndentOf returns the leading run of spaces and tabs.
func IndentOf(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

// IsBlank reports whether the line has no non-whitespace content.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// TrimmedEnd is the column just after the last non-whitespace character.
func TrimmedEnd(line string) int {
	return len(strings.TrimRight(line, " \t\r\n\v\f"))
}

// FindPreviousNonEmptyLine scans the lines strictly before fromLine, nearest
// first, and returns the first one with content.
func FindPreviousNonEmptyLine(doc text.Document, fromLine int) (int, string, bool) {
	if n := doc.LineCount(); fromLine > n {
		fromLine = n
	}
	for i := fromLine - 1; i >= 0; i-- {
		line := doc.Line(i)
		if !IsBlank(line) {
			return i, line, true
		}
	}
	return -1, "", false
}

// increaseRules is checked in order against the trimmed line.
var increaseRules = []struct {
	name  string
	match func(trimmed string) bool
}{
	{"open-bracket", endsWithOpener},
	{"opening-tag", isOpeningTag},
}

// ShouldIncreaseIndent reports whether the line after this one is indented
// one level deeper.
func ShouldIncreaseIndent(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, rule := range increaseRules {
		if rule.match(trimmed) {
			return true
		}
	}
	return false
}

func endsWithOpener(trimmed string) bool {
	switch trimmed[len(trimmed)-1] {
	case '{', ':', '(', '[':
		return true
	}
	return false
}

var openingTag = regexp.MustCompile(`^<[A-Za-z_$][\w.:$-]*(?:\s+[^<]*)?>$`)

func isOpeningTag(trimmed string) bool {
	if !strings.HasPrefix(trimmed, "<") {
		return false
	}
	if strings.HasPrefix(trimmed, "</") || strings.HasPrefix(trimmed, "<!") || strings.HasPrefix(trimmed, "<?") {
		return false
	}
	if strings.HasSuffix(trimmed, "/>") {
		return false
	}
	if trimmed == "<>" {
		return true
	}
	return openingTag.MatchString(trimmed)
}

// Calculate returns the indent a line at index line should carry: the
// previous non-empty line's indent, plus one unit when that line opens a
// block. Line 0, and lines with nothing above them, get no indent.
func Calculate(doc text.Document, line, tabSize int, insertSpaces bool) string {
	if line <= 0 {
		return ""
	}
	_, prev, ok := FindPreviousNonEmptyLine(doc, line)
	if !ok {
		return ""
	}
	base := IndentOf(prev)
	if !ShouldIncreaseIndent(prev) {
		return base
	}
	return base + Unit(tabSize, insertSpaces)
}

// Calculate is the Options form of the package-level Calculate.
func (o Options) Calculate(doc text.Document, line int) string {
	return Calculate(doc, line, o.TabSize, o.InsertSpaces)
}
