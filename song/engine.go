// Package song orchestrates the full pipeline: prompt parsing, lyrics,
// synthesis, mixdown and history, reporting progress along the way.
package song

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/secrethelper/secrethelper/api"
	"github.com/secrethelper/secrethelper/audio"
	"github.com/secrethelper/secrethelper/envconfig"
	"github.com/secrethelper/secrethelper/history"
	"github.com/secrethelper/secrethelper/mixer"
	"github.com/secrethelper/secrethelper/prompt"
	"github.com/secrethelper/secrethelper/synth"
)

// Lyricist produces lyrics for a theme. Satisfied by lyrics.Generator.
type Lyricist interface {
	Generate(ctx context.Context, theme, genre, mood string) string
}

// Engine runs one generation end to end.
type Engine struct {
	Lyrics    Lyricist
	Synth     synth.Synthesizer
	History   *history.Store
	OutputDir string

	// now is swapped in tests for stable filenames.
	now func() time.Time
}

func NewEngine(l Lyricist, s synth.Synthesizer, h *history.Store) *Engine {
	return &Engine{
		Lyrics:    l,
		Synth:     s,
		History:   h,
		OutputDir: envconfig.OutputDir,
		now:       time.Now,
	}
}

// ProgressFunc receives pipeline events. The final event has Done set and
// carries the song.
type ProgressFunc func(api.ProgressResponse)

// Generate runs the pipeline for one request. Progress callbacks arrive
// in order; fn must be safe to call from the synthesis goroutines.
func (e *Engine) Generate(ctx context.Context, req api.GenerateRequest, fn ProgressFunc) (*api.Song, error) {
	var mu sync.Mutex
	emit := func(p api.ProgressResponse) {
		mu.Lock()
		defer mu.Unlock()
		fn(p)
	}

	parsed := prompt.Parse(req.Prompt, prompt.Options{
		Genre:  req.Genre,
		Genre2: req.Genre2,
		Blend:  req.Blend,
		BPM:    req.BPM,
	})
	if req.Voice != "" && req.Voice != "auto" {
		parsed.Voice = req.Voice
	}
	title := Title(parsed.Theme)

	duration := time.Duration(req.Duration) * time.Second
	if duration <= 0 {
		duration = envconfig.DefaultDuration
	}

	lyricsText := strings.TrimSpace(req.Lyrics)
	if !req.Instrumental && lyricsText == "" {
		emit(api.ProgressResponse{Status: fmt.Sprintf("crafting lyrics for %q", title), Progress: 10})
		lyricsText = e.Lyrics.Generate(ctx, parsed.Theme, parsed.Genre, parsed.Mood)
	}

	emit(api.ProgressResponse{Status: "generating beat", Progress: 20})

	var instrumental, vocals *audio.Clip
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		clip, err := e.Synth.Music(gctx, parsed.MusicPrompt, duration, req.ModelSize)
		if err != nil {
			return fmt.Errorf("music synthesis: %w", err)
		}
		instrumental = clip
		return nil
	})
	if !req.Instrumental {
		g.Go(func() error {
			emit(api.ProgressResponse{Status: "recording vocals", Progress: 60})
			clip, err := e.Synth.Vocals(gctx, lyricsText, parsed.Voice)
			if err != nil {
				return fmt.Errorf("vocal synthesis: %w", err)
			}
			vocals = clip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return nil, err
	}
	meta := &mixer.Metadata{Title: title, Genre: parsed.Genre, Prompt: req.Prompt}

	var path string
	var err error
	if req.Instrumental {
		emit(api.ProgressResponse{Status: fmt.Sprintf("saving %s", title), Progress: 90})
		path, err = mixer.SaveInstrumental(instrumental, e.outputPath("instrumental", req.Format), meta)
	} else {
		emit(api.ProgressResponse{Status: fmt.Sprintf("mixing %s", title), Progress: 90})
		path, err = mixer.Mix(instrumental, vocals, e.outputPath("song", req.Format), meta)
	}
	if err != nil {
		return nil, err
	}

	song := &api.Song{
		Path:        path,
		Genre:       parsed.Genre,
		Mood:        parsed.Mood,
		BPM:         parsed.BPM,
		Voice:       parsed.Voice,
		Duration:    duration.Seconds(),
		Lyrics:      lyricsText,
		Narration:   Narration(parsed.Mood),
		Suggestions: Suggestions(parsed.Genre),
	}

	if e.History != nil {
		if _, err := e.History.Add(api.HistoryEntry{
			Prompt:   req.Prompt,
			Genre:    parsed.Genre,
			Mood:     parsed.Mood,
			Duration: int(duration.Seconds()),
			Voice:    parsed.Voice,
			Path:     path,
			Lyrics:   lyricsText,
		}); err != nil {
			slog.Warn("could not record song in history", "error", err)
		}
	}

	emit(api.ProgressResponse{Status: "done", Progress: 100, Done: true, Song: song})
	return song, nil
}

func (e *Engine) outputPath(kind, ext string) string {
	if ext != "mp3" {
		ext = "wav"
	}
	return filepath.Join(e.OutputDir, fmt.Sprintf("%s_%d.%s", kind, e.now().Unix(), ext))
}

// Title derives a display title from the theme, capped at 35 characters.
func Title(theme string) string {
	runes := []rune(theme)
	if len(runes) > 35 {
		runes = runes[:35]
	}

	words := strings.Fields(string(runes))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
