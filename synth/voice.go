package synth

import (
	"regexp"
	"strings"
)

// VoicePresets maps the UI voice names to Bark speaker presets. Bark ships
// exactly ten EN speakers, so several styles share a base speaker and rely
// on a stage-direction hint to shift the feel.
var VoicePresets = map[string]string{
	"neutral": "v2/en_speaker_0",

	"male":          "v2/en_speaker_6",
	"male – deep":   "v2/en_speaker_1",
	"male – warm":   "v2/en_speaker_2",
	"male – bright": "v2/en_speaker_3",
	"male – smooth": "v2/en_speaker_4",
	"male – raw":    "v2/en_speaker_1",
	"male – raspy":  "v2/en_speaker_3",

	"female":           "v2/en_speaker_9",
	"female – soft":    "v2/en_speaker_7",
	"female – strong":  "v2/en_speaker_8",
	"female – raw":     "v2/en_speaker_8",
	"female – breathy": "v2/en_speaker_7",

	"sad":                 "v2/en_speaker_4",
	"sad – female":        "v2/en_speaker_7",
	"painful":             "v2/en_speaker_0",
	"painful – female":    "v2/en_speaker_9",
	"vulnerable":          "v2/en_speaker_5",
	"vulnerable – female": "v2/en_speaker_7",
	"anguished":           "v2/en_speaker_2",
	"anguished – female":  "v2/en_speaker_8",

	"gothic":          "v2/en_speaker_1",
	"gothic – female": "v2/en_speaker_7",
	"dark":            "v2/en_speaker_1",
	"dark – female":   "v2/en_speaker_9",

	"whispery":       "v2/en_speaker_5",
	"powerful":       "v2/en_speaker_6",
	"spoken word":    "v2/en_speaker_6",
	"choir":          "v2/en_speaker_9",
	"trap – ad libs": "v2/en_speaker_2",
}

// styleHints are stage directions prepended to each section for voices
// whose character comes from delivery rather than the speaker itself.
var styleHints = map[string]string{
	"sad":                 "[sighing]",
	"sad – female":        "[sighing]",
	"painful":             "[crying]",
	"painful – female":    "[crying]",
	"vulnerable":          "[whispering]",
	"vulnerable – female": "[whispering]",
	"anguished":           "[gasps]",
	"anguished – female":  "[gasps]",
	"whispery":            "[whispering]",
}

var (
	sectionHeader = regexp.MustCompile(`(?m)^\[.*?\]\s*$`)
	inlineGuide   = regexp.MustCompile(`\[[^\]]+\]`)
	adLibParens   = regexp.MustCompile(`\(([^)]+)\)`)
)

// SplitSections cuts lyrics at section headers that sit alone on a line,
// like [Verse 1] or [Coro]. Inline guides embedded mid-line survive for
// FormatForBark to strip.
func SplitSections(lyrics string) []string {
	var out []string
	for _, part := range sectionHeader.Split(lyrics, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FormatForBark prepares one lyrics section for Bark: inline vocal guides
// like [raspy] are display-only and get stripped, ad-lib parentheses are
// unwrapped so Bark speaks them, and lines are joined with ♪ to nudge a
// sung rendering.
func FormatForBark(section, hint string) string {
	section = inlineGuide.ReplaceAllString(section, "")
	section = adLibParens.ReplaceAllString(section, "$1")

	var lines []string
	for _, ln := range strings.Split(section, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	joined := strings.Join(lines, " ♪ ") + " ♪"
	if hint != "" {
		return hint + " " + joined
	}
	return joined
}
