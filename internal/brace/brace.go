// Package brace decides whether curly braces in a line document are balanced.
//
// The scan is purely textual: it walks every line top to bottom and every byte
// left to right, pushing on '{' and popping on '}'. Braces inside string or
// comment text count the same as code braces.
//
// Matching is LIFO. A '}' always closes the most recently pushed brace that is
// still open, never the nearest one by distance, so a stray '}' below several
// nested unmatched braces closes the innermost (latest) of them and leaves the
// outer ones unmatched. A '}' with an empty stack is ignored.
package brace

// Entry is the position of an opening brace on the scan stack.
type Entry struct {
	Line int
	Char int
}

// Unmatched returns the opening braces left on the stack after a full scan,
// bottom of the stack first.
func Unmatched(lines []string) []Entry {
	var stack []Entry
	for i, line := range lines {
		for j := 0; j < len(line); j++ {
			switch line[j] {
			case '{':
				stack = append(stack, Entry{Line: i, Char: j})
			case '}':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
		}
	}
	return stack
}

// CountUnmatched is the final stack depth. It is never negative.
func CountUnmatched(lines []string) int {
	return len(Unmatched(lines))
}

// IsUnmatched reports whether the brace at (line, char) is still open after
// the scan. Out-of-range targets report false.
func IsUnmatched(lines []string, line, char int) bool {
	target := Entry{Line: line, Char: char}
	for _, e := range Unmatched(lines) {
		if e == target {
			return true
		}
	}
	return false
}

// ShouldInsertClosing decides whether pressing Enter after the '{' at
// (line, char) should synthesize a matching '}'.
//
// It is true when the brace is unmatched, or when removing it would lower the
// unmatched count: in that case the brace is absorbing a '}' that belongs to
// an earlier opening brace, and adding a closer here restores the outer
// balance.
func ShouldInsertClosing(lines []string, line, char int) bool {
	if line < 0 || line >= len(lines) {
		return false
	}
	text := lines[line]
	if char < 0 || char >= len(text) || text[char] != '{' {
		return false
	}
	if IsUnmatched(lines, line, char) {
		return true
	}

	without := make([]string, len(lines))
	copy(without, lines)
	without[line] = text[:char] + text[char+1:]
	return CountUnmatched(without) < CountUnmatched(lines)
}
