package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/secrethelper/secrethelper/api"
)

// placeholders are schema echo strings a model sometimes copies back instead
// of writing real content.
var placeholders = map[string]bool{
	"string":                    true,
	"short description of song": true,
	"song title":                true,
	"full lyrics here":          true,
	"describe the sound/beat":   true,
	"arrangement notes":         true,
	"mix notes":                 true,
}

var objectStart = regexp.MustCompile(`\{[\s\S]*`)

// parse turns raw model output into a draft, working down a ladder of
// repairs: direct parse, close truncated brackets, extract the first object,
// ask the model to fix its own output, and finally a clarification fallback.
// It never fails; garbage in means a draft asking the user to rephrase.
func (g *Generator) parse(ctx context.Context, raw string) *api.SongDraft {
	if draft, err := decodeDraft(raw); err == nil {
		return draft
	}

	if draft, err := decodeDraft(closeTruncatedJSON(raw)); err == nil {
		slog.Debug("co-writer output recovered by closing truncated JSON")
		return draft
	}

	if m := objectStart.FindString(raw); m != "" {
		for _, candidate := range []string{m, closeTruncatedJSON(m)} {
			if draft, err := decodeDraft(candidate); err == nil {
				return draft
			}
		}
	}

	repair := fmt.Sprintf(
		"Return ONLY valid JSON matching the schema. Here is the broken output to fix:\n%s\n\nFix it. Return ONLY corrected JSON.",
		raw,
	)
	if fixed, err := g.call(ctx, repair, ""); err == nil {
		if draft, err := decodeDraft(fixed); err == nil {
			slog.Debug("co-writer output recovered by repair call")
			return draft
		}
	}

	slog.Warn("co-writer output unusable, asking user to rephrase")
	return fallbackDraft()
}

func fallbackDraft() *api.SongDraft {
	return &api.SongDraft{
		Song: api.DraftSong{
			Voice: "neutral",
			Genre: "pop",
			BPM:   100,
		},
		Lyrics: api.DraftLyrics{
			Structure: []string{"Verse 1", "Chorus", "Verse 2", "Chorus", "Bridge", "Chorus"},
		},
		NeedClarification:  true,
		ClarifyingQuestion: "I had trouble formatting my response. Could you rephrase your request?",
	}
}

// decodeDraft parses into a generic map first and then decodes weakly typed,
// so a bpm sent as "120" or a numeric title still land in the right fields.
func decodeDraft(raw string) (*api.SongDraft, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}

	var draft api.SongDraft
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &draft,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(m); err != nil {
		return nil, err
	}
	return normalize(&draft), nil
}

// normalize fills missing fields with safe defaults and blanks out
// placeholder strings the model echoed from the schema.
func normalize(d *api.SongDraft) *api.SongDraft {
	clean := func(s string) string {
		s = strings.TrimSpace(s)
		if placeholders[strings.ToLower(s)] {
			return ""
		}
		return s
	}

	d.AssistantMessage = clean(d.AssistantMessage)
	d.Song.Title = clean(d.Song.Title)
	d.Song.SoundDescription = clean(d.Song.SoundDescription)
	d.Lyrics.Text = clean(d.Lyrics.Text)
	d.ProductionNotes.Arrangement = clean(d.ProductionNotes.Arrangement)
	d.ProductionNotes.MixNotes = clean(d.ProductionNotes.MixNotes)

	if d.Song.Voice == "" {
		d.Song.Voice = "neutral"
	}
	if d.Song.Genre == "" {
		d.Song.Genre = "pop"
	}
	if d.Song.BPM <= 0 {
		if bpm, ok := bpmDefaults[strings.ToLower(d.Song.Genre)]; ok {
			d.Song.BPM = bpm
		} else {
			d.Song.BPM = 100
		}
	}
	if len(d.Lyrics.Structure) == 0 {
		d.Lyrics.Structure = []string{"Verse 1", "Chorus", "Verse 2", "Chorus", "Bridge", "Chorus"}
	}
	return d
}

// closeTruncatedJSON appends the closing quotes and brackets a response cut
// off mid-object is missing, tracking string and escape state on the way.
func closeTruncatedJSON(raw string) string {
	s := strings.TrimRight(raw, " \t\r\n")
	if s == "" {
		return s
	}

	var (
		inString bool
		escape   bool
		stack    []byte
	)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{' || ch == '[':
			stack = append(stack, ch)
		case ch == '}' || ch == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(s)
	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}
