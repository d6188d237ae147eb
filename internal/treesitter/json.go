package treesitter

import (
	"regexp"
	"strings"
)

var (
	jsonString  = regexp.MustCompile(`^"(?:[^"\\]|\\.)*"?`)
	jsonNumber  = regexp.MustCompile(`^-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`)
	jsonWord    = regexp.MustCompile(`^[A-Za-z_$][\w$]*`)
	jsonKeyword = map[string]bool{"true": true, "false": true, "null": true}
)

// highlightJSONLine tokenizes one line left to right. Strings followed by a
// colon are fields. With comments set, "//" starts a comment that runs to the
// end of the line.
func highlightJSONLine(line string, comments bool) []Span {
	var spans []Span
	add := func(start, end int, kind string) {
		spans = append(spans, Span{StartCol: start, EndCol: end, Kind: kind})
	}
	for i := 0; i < len(line); {
		rest := line[i:]
		switch c := line[i]; {
		case c == '"':
			n := len(jsonString.FindString(rest))
			kind := "string"
			if strings.HasPrefix(strings.TrimLeft(line[i+n:], " \t"), ":") {
				kind = "field"
			}
			add(i, i+n, kind)
			i += n
		case comments && strings.HasPrefix(rest, "//"):
			add(i, len(line), "comment")
			return spans
		case c == '-' || (c >= '0' && c <= '9'):
			n := len(jsonNumber.FindString(rest))
			if n == 0 {
				i++
				continue
			}
			add(i, i+n, "number")
			i += n
		case strings.ContainsRune("{}[],:", rune(c)):
			add(i, i+1, "punctuation")
			i++
		default:
			w := jsonWord.FindString(rest)
			if w == "" {
				i++
				continue
			}
			if jsonKeyword[w] {
				add(i, i+len(w), "constant")
			}
			i += len(w)
		}
	}
	return spans
}
