package indent

// minEvidence is how many indented lines must agree before Detect trusts a
// guess.
const minEvidence = 3

// Detect guesses the indentation style of existing content. It looks at the
// step between consecutive non-blank lines that indent deeper: tab steps vote
// for tabs, space steps of 2, 4 or 8 vote for that width. ok is false when
// there is not enough evidence and the caller should keep its own settings.
func Detect(lines []string) (opts Options, ok bool) {
	tabVotes := 0
	spaceVotes := make(map[int]int)
	prev := ""
	for _, line := range lines {
		if IsBlank(line) {
			continue
		}
		cur := IndentOf(line)
		if len(cur) > len(prev) && cur[:len(prev)] == prev {
			step := cur[len(prev):]
			switch {
			case step[0] == '\t':
				tabVotes++
			case isSpaces(step) && (len(step) == 2 || len(step) == 4 || len(step) == 8):
				spaceVotes[len(step)]++
			}
		}
		prev = cur
	}

	bestSize, bestCount := 0, 0
	for _, size := range []int{2, 4, 8} {
		if spaceVotes[size] > bestCount {
			bestSize, bestCount = size, spaceVotes[size]
		}
	}
	switch {
	case tabVotes >= minEvidence && tabVotes > bestCount:
		return Options{TabSize: DefaultTabSize, InsertSpaces: false}, true
	case bestCount >= minEvidence:
		return Options{TabSize: bestSize, InsertSpaces: true}, true
	}
	return DefaultOptions(), false
}

func isSpaces(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			return false
		}
	}
	return true
}
