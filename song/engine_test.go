package song

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secrethelper/secrethelper/api"
	"github.com/secrethelper/secrethelper/audio"
	"github.com/secrethelper/secrethelper/history"
)

type fakeLyricist struct {
	text   string
	called bool
}

func (f *fakeLyricist) Generate(_ context.Context, theme, genre, mood string) string {
	f.called = true
	return f.text
}

type fakeSynth struct {
	musicPrompt string
	musicDur    time.Duration
	vocalLyrics string
	vocalVoice  string
	err         error
}

func (f *fakeSynth) Music(_ context.Context, prompt string, duration time.Duration, modelSize string) (*audio.Clip, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.musicPrompt = prompt
	f.musicDur = duration
	return audio.Silence(2, 32000), nil
}

func (f *fakeSynth) Vocals(_ context.Context, lyrics, voice string) (*audio.Clip, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.vocalLyrics = lyrics
	f.vocalVoice = voice
	return audio.Silence(3, 24000), nil
}

func testEngine(t *testing.T, l *fakeLyricist, s *fakeSynth) *Engine {
	t.Helper()
	e := NewEngine(l, s, history.NewStoreAt(filepath.Join(t.TempDir(), "history.json"), 10))
	e.OutputDir = t.TempDir()
	return e
}

func TestGenerate(t *testing.T) {
	lyr := &fakeLyricist{text: "[Verse 1]\nneon rain on the glass"}
	syn := &fakeSynth{}
	e := testEngine(t, lyr, syn)

	var events []api.ProgressResponse
	got, err := e.Generate(context.Background(), api.GenerateRequest{Prompt: "sad lo-fi song about the city at night"}, func(p api.ProgressResponse) {
		events = append(events, p)
	})
	require.NoError(t, err)

	assert.True(t, lyr.called)
	assert.Equal(t, "lo-fi", got.Genre)
	assert.Equal(t, "sad", got.Mood)
	assert.Contains(t, got.Path, "song_")
	assert.FileExists(t, got.Path)
	assert.Equal(t, lyr.text, syn.vocalLyrics)
	assert.Contains(t, syn.musicPrompt, "lo-fi sad music")
	assert.Equal(t, 30*time.Second, syn.musicDur)
	assert.Equal(t, Narration("sad"), got.Narration)
	assert.Equal(t, Suggestions("lo-fi"), got.Suggestions)

	require.NotEmpty(t, events)
	final := events[len(events)-1]
	assert.True(t, final.Done)
	assert.Equal(t, 100, final.Progress)
	require.NotNil(t, final.Song)
	assert.Equal(t, got.Path, final.Song.Path)

	var statuses []string
	for _, ev := range events {
		statuses = append(statuses, ev.Status)
	}
	assert.Contains(t, statuses[0], "crafting lyrics")
	assert.Contains(t, statuses, "generating beat")
	assert.Contains(t, statuses, "recording vocals")

	entries, err := e.History.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, got.Path, entries[0].Path)
	assert.Equal(t, "lo-fi", entries[0].Genre)
}

func TestGenerateInstrumental(t *testing.T) {
	lyr := &fakeLyricist{text: "should not appear"}
	syn := &fakeSynth{}
	e := testEngine(t, lyr, syn)

	got, err := e.Generate(context.Background(), api.GenerateRequest{
		Prompt:       "dark techno",
		Instrumental: true,
		Duration:     10,
	}, func(api.ProgressResponse) {})
	require.NoError(t, err)

	assert.False(t, lyr.called)
	assert.Empty(t, syn.vocalLyrics)
	assert.Empty(t, got.Lyrics)
	assert.Contains(t, got.Path, "instrumental_")
	assert.Equal(t, 10*time.Second, syn.musicDur)
	assert.Equal(t, 10.0, got.Duration)
}

func TestGenerateCustomLyrics(t *testing.T) {
	lyr := &fakeLyricist{text: "generated"}
	syn := &fakeSynth{}
	e := testEngine(t, lyr, syn)

	_, err := e.Generate(context.Background(), api.GenerateRequest{
		Prompt: "pop song",
		Lyrics: "[Chorus]\nmy own words",
		Voice:  "female",
	}, func(api.ProgressResponse) {})
	require.NoError(t, err)

	assert.False(t, lyr.called, "custom lyrics skip generation")
	assert.Equal(t, "[Chorus]\nmy own words", syn.vocalLyrics)
	assert.Equal(t, "female", syn.vocalVoice)
}

func TestGenerateSynthError(t *testing.T) {
	e := testEngine(t, &fakeLyricist{}, &fakeSynth{err: assert.AnError})

	_, err := e.Generate(context.Background(), api.GenerateRequest{Prompt: "x", Instrumental: true}, func(api.ProgressResponse) {})
	require.ErrorIs(t, err, assert.AnError)

	entries, loadErr := e.History.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, entries, "failed generations stay out of history")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "City At Night", Title("city at night"))
	long := Title("an extremely long theme that keeps going and going")
	assert.LessOrEqual(t, len([]rune(long)), 35)
}
