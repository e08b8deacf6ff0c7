package lyrics

import "strings"

// RhymeLabel classifies a lyrics line for rhyme display.
type RhymeLabel string

const (
	LabelNone    RhymeLabel = ""        // blank line
	LabelSection RhymeLabel = "section" // [Verse 1], [Coro], ...
	LabelRhymes  RhymeLabel = "rhymes"
	LabelNoRhyme RhymeLabel = "no-rhyme"
)

type RhymeSpan struct {
	Text  string     `json:"text"`
	Label RhymeLabel `json:"label,omitempty"`
}

// CheckRhymes labels each line of the lyrics. A line rhymes when its last
// word shares its final two letters with one of the previous four line
// endings in the same section; identical words don't count. Section headers
// reset the comparison window.
func CheckRhymes(text string) []RhymeSpan {
	var result []RhymeSpan
	var recentEnds []string

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)

		if stripped == "" {
			result = append(result, RhymeSpan{Text: "\n"})
			continue
		}

		if strings.HasPrefix(stripped, "[") && strings.HasSuffix(stripped, "]") {
			result = append(result, RhymeSpan{Text: stripped + "\n", Label: LabelSection})
			recentEnds = nil
			continue
		}

		words := strings.Fields(stripped)
		last := strings.ToLower(words[len(words)-1])
		last = strings.TrimRight(last, ".,!?;:'\"")

		rhymes := false
		start := max(0, len(recentEnds)-4)
		for _, prev := range recentEnds[start:] {
			if len(last) >= 2 && len(prev) >= 2 && last[len(last)-2:] == prev[len(prev)-2:] && last != prev {
				rhymes = true
				break
			}
		}

		recentEnds = append(recentEnds, last)
		label := LabelNoRhyme
		if rhymes {
			label = LabelRhymes
		}
		result = append(result, RhymeSpan{Text: stripped + "\n", Label: label})
	}

	return result
}
