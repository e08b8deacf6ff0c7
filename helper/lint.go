package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/secrethelper/secrethelper/api"
)

// banned lists the cliché phrases the system prompt forbids; lyrics that
// slip one through get a rewrite pass.
var banned = []string{
	"sun sets", "broken heart", "tears fall", "ghosts of memories",
	"empty inside", "without you", "pain remains", "my world is cold",
}

// lint scans the lyrics for banned phrases and asks the model to rewrite
// the offending lines. The original draft is kept if the rewrite comes
// back without lyrics.
func (g *Generator) lint(ctx context.Context, draft *api.SongDraft) *api.SongDraft {
	text := strings.ToLower(draft.Lyrics.Text)

	var found []string
	for _, p := range banned {
		if strings.Contains(text, p) {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return draft
	}
	slog.Info("clichés detected in lyrics, rewriting", "phrases", found)

	current, err := json.Marshal(draft)
	if err != nil {
		return draft
	}
	fix := fmt.Sprintf(
		"Rewrite only the lines containing these clichés: %s.\n"+
			"Replace with concrete, specific imagery. Keep rhyme scheme and meaning.\n"+
			"Return the COMPLETE updated JSON (same schema). No markdown.\n\nCurrent JSON:\n%s",
		strings.Join(found, ", "), current,
	)

	raw, err := g.call(ctx, fix, "")
	if err != nil {
		return draft
	}
	fixed := g.parse(ctx, raw)
	if fixed.Lyrics.Text == "" {
		return draft
	}
	return fixed
}
