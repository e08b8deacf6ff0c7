// Package lyrics writes song lyrics. The primary backend asks Ollama for a
// full song; when that fails (or is disabled) a deterministic template
// backend takes over so lyrics generation always succeeds.
package lyrics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/secrethelper/secrethelper/envconfig"
	"github.com/secrethelper/secrethelper/ollama"
)

// Completer is the slice of the Ollama client the generator needs.
type Completer interface {
	Generate(ctx context.Context, req *ollama.GenerateRequest) (string, error)
}

type Generator struct {
	Backend   string // "ollama" or "template"
	Model     string
	Completer Completer
}

func NewGenerator(c Completer) *Generator {
	return &Generator{
		Backend:   envconfig.LyricsBackend,
		Model:     envconfig.OllamaModel,
		Completer: c,
	}
}

// Generate returns lyrics for the theme, falling back to the template
// backend when the model backend fails.
func (g *Generator) Generate(ctx context.Context, theme, genre, mood string) string {
	if g.Backend == "ollama" && g.Completer != nil {
		text, err := g.Completer.Generate(ctx, &ollama.GenerateRequest{
			Model:  g.Model,
			Prompt: songPrompt(theme, genre, mood),
		})
		if err == nil && text != "" {
			return text
		}
		slog.Warn("lyrics backend failed, using template", "backend", "ollama", "error", err)
	}

	return Template(theme, genre, mood)
}

func songPrompt(theme, genre, mood string) string {
	return fmt.Sprintf(`You are a professional songwriter. Write complete song lyrics.

STYLE: %s %s
THEME: %s

RULES:
- Sections: [Verse 1], [Chorus], [Verse 2], [Chorus], [Bridge], [Chorus]
- Each section: exactly 4 lines
- Lines rhyme in ABAB or AABB pattern
- Keep lines short (6-10 words)
- Mood must feel like: %s
- Return ONLY the lyrics — no explanations, no title, no notes

EXAMPLE FORMAT:
[Verse 1]
Walking through the city rain
Neon lights reflecting low
Wondering if we'd meet again
Watching all the people go

[Chorus]
This is what I'm reaching for
Something I can't explain
Every time I close the door
I find myself back again

Now write the full song about %q:`, mood, genre, theme, mood, theme)
}
