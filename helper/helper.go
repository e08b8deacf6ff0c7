// Package helper is the Secret Helper co-writer: one chat turn in, one
// structured song draft out, by way of a strict-JSON Ollama call with
// repair, normalization and a cliché lint pass.
package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/secrethelper/secrethelper/api"
	"github.com/secrethelper/secrethelper/envconfig"
	"github.com/secrethelper/secrethelper/ollama"
)

type Completer interface {
	Generate(ctx context.Context, req *ollama.GenerateRequest) (string, error)
}

type Generator struct {
	Model     string
	Completer Completer
}

func NewGenerator(c Completer) *Generator {
	return &Generator{Model: envconfig.OllamaModel, Completer: c}
}

var defaultStructure = []string{"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"}

// genreLanguage maps genres whose lyrics are not written in English.
var genreLanguage = map[string]string{
	"bachata":    "Spanish",
	"salsa":      "Spanish",
	"merengue":   "Spanish",
	"cumbia":     "Spanish",
	"reggaeton":  "Spanish",
	"latin pop":  "Spanish",
	"bossa nova": "Portuguese",
	"k-pop":      "Korean",
}

var bpmDefaults = map[string]int{
	"boom-bap": 90, "trap": 145, "drill": 145, "lo-fi": 80,
	"reggaeton": 92, "salsa": 180, "bachata": 126, "merengue": 158,
	"cumbia": 100, "latin pop": 110, "pop": 120, "rock": 130,
	"indie": 120, "punk": 168, "metal": 155, "alternative": 125,
	"electronic": 128, "house": 128, "techno": 138, "dubstep": 140,
	"drum & bass": 174, "synthwave": 110, "ambient": 70,
	"r&b": 90, "soul": 85, "funk": 110, "blues": 75,
	"gospel": 90, "jazz": 100, "classical": 80, "reggae": 76,
	"dancehall": 90, "afrobeats": 102, "bossa nova": 128, "folk": 90,
	"country": 100, "k-pop": 120, "disco": 120,
}

// Generate runs one co-writer turn. A transport failure is returned as an
// error; malformed model output is absorbed by the parse ladder instead.
func (g *Generator) Generate(ctx context.Context, message string, settings api.HelperSettings, current *api.SongDraft) (*api.SongDraft, error) {
	system := systemPrompt
	if settings.ModelSize == "small" {
		system = systemPromptSmall
	}

	raw, err := g.call(ctx, buildUserMessage(message, settings, current), system)
	if err != nil {
		return nil, err
	}
	slog.Debug("co-writer raw response", "length", len(raw))

	draft := g.parse(ctx, raw)
	if !draft.NeedClarification && !settings.Instrumental {
		draft = g.lint(ctx, draft)
	}
	return draft, nil
}

func (g *Generator) call(ctx context.Context, prompt, system string) (string, error) {
	return g.Completer.Generate(ctx, &ollama.GenerateRequest{
		Model:  g.Model,
		System: system,
		Prompt: prompt,
		Format: "json",
		Options: &ollama.Options{
			Temperature: 0.72,
			TopP:        0.9,
			NumPredict:  2500,
			NumCtx:      4096,
		},
	})
}

func buildUserMessage(message string, settings api.HelperSettings, current *api.SongDraft) string {
	orAuto := func(s string) string {
		if s == "" {
			return "auto"
		}
		return s
	}
	bpm := "auto"
	if settings.BPM > 0 {
		bpm = fmt.Sprint(settings.BPM)
	}
	size := settings.ModelSize
	if size == "" {
		size = "medium"
	}

	genre := strings.ToLower(settings.Genre)
	lang := genreLanguage[genre]
	if lang == "" {
		lang = "English"
	}
	structure, ok := genreStructures[genre]
	if !ok {
		structure = defaultStructure
	}

	// When the genre dropdown is on auto, a genre mentioned in the message
	// still drives the language and structure.
	if lang == "English" {
		lower := strings.ToLower(message)
		for _, kw := range []string{"bachata", "salsa", "merengue", "cumbia", "reggaeton", "latin pop", "bossa nova", "k-pop"} {
			if strings.Contains(lower, kw) {
				lang = genreLanguage[kw]
				if !ok {
					if s, found := genreStructures[kw]; found {
						structure = s
					}
				}
				break
			}
		}
	}

	if size == "small" {
		structure = trimStructure(structure)
	}

	lines := []string{
		"User request: " + message,
		"",
		"UI settings:",
		"- voice: " + orAuto(settings.Voice),
		"- genre: " + orAuto(settings.Genre),
		"- bpm: " + bpm,
		"- model_size: " + size,
		fmt.Sprintf("- instrumental_only: %t", settings.Instrumental),
		fmt.Sprintf("- lyrics_language: %s  ← MANDATORY — write ALL lyrics ONLY in %s. Not English unless %s is English.", lang, lang, lang),
		fmt.Sprintf("- song_structure: %s  ← use EXACTLY these section headers, each on its own line", strings.Join(structure, " → ")),
	}

	if current != nil {
		if draft, err := json.Marshal(current); err == nil {
			lines = append(lines, "", "Current song draft (JSON): "+string(draft))
		}
	}

	lines = append(lines,
		"",
		"Instructions:",
		"- Revise only what the user requested; keep everything else coherent.",
		"- For 'regenerate hook/verse/sound': update only that section.",
		"- Output VALID JSON only. No markdown fences.",
	)
	return strings.Join(lines, "\n")
}

// trimStructure drops the embellishment sections and caps the song at six
// sections; small models lose the plot on long structures.
func trimStructure(structure []string) []string {
	skip := map[string]bool{
		"[Pre-Chorus]": true, "[Pre-Coro]": true, "[Guitar Solo]": true,
		"[Rap Break]": true, "[Solo]": true, "[Part 3]": true,
	}

	var out []string
	for _, s := range structure {
		if !skip[s] {
			out = append(out, s)
		}
		if len(out) == 6 {
			break
		}
	}
	return out
}
