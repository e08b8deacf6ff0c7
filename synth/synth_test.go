package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secrethelper/secrethelper/audio"
)

func testRunner(t *testing.T, handler http.HandlerFunc) *Runner {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRunner(srv.URL)
}

func serveWAV(t *testing.T, w http.ResponseWriter, clip *audio.Clip) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, audio.EncodeWAV(&buf, clip))
	w.Header().Set("Content-Type", "audio/wav")
	w.Write(buf.Bytes())
}

func TestMusic(t *testing.T) {
	var got musicRequest
	r := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/api/music", req.URL.Path)
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		serveWAV(t, w, audio.Silence(1, 32000))
	})

	clip, err := r.Music(context.Background(), "trap dark music, 145 bpm", 30*time.Second, "medium")
	require.NoError(t, err)
	assert.Equal(t, 32000, clip.Rate)
	assert.Equal(t, "facebook/musicgen-medium", got.Model)
	assert.Equal(t, 30.0, got.Duration)
	assert.Equal(t, "trap dark music, 145 bpm", got.Prompt)
}

func TestMusicModelPassthrough(t *testing.T) {
	var got musicRequest
	r := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		json.NewDecoder(req.Body).Decode(&got)
		serveWAV(t, w, audio.Silence(1, 32000))
	})

	_, err := r.Music(context.Background(), "x", time.Second, "facebook/musicgen-stereo-small")
	require.NoError(t, err)
	assert.Equal(t, "facebook/musicgen-stereo-small", got.Model)
}

func TestMusicError(t *testing.T) {
	r := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "model load failed"})
	})

	_, err := r.Music(context.Background(), "x", time.Second, "small")
	require.ErrorContains(t, err, "model load failed")
}

func TestVocalsChunksSections(t *testing.T) {
	var texts []string
	var presets []string
	r := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/api/speak", req.URL.Path)
		var sr speakRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&sr))
		texts = append(texts, sr.Text)
		presets = append(presets, sr.Preset)
		serveWAV(t, w, audio.Silence(2, barkSampleRate))
	})

	lyrics := "[Verse 1]\nCold keys on the counter (yeah)\nStill smell your shampoo [raspy]\n\n[Chorus]\nLock the door twice"
	clip, err := r.Vocals(context.Background(), lyrics, "sad")
	require.NoError(t, err)

	require.Len(t, texts, 2)
	assert.Equal(t, "[sighing] Cold keys on the counter yeah ♪ Still smell your shampoo ♪", texts[0])
	assert.Equal(t, "[sighing] Lock the door twice ♪", texts[1])
	assert.Equal(t, []string{"v2/en_speaker_4", "v2/en_speaker_4"}, presets)

	// two 2s chunks plus two 0.35s gaps
	assert.InDelta(t, 4.7, clip.Duration(), 0.01)
}

func TestVocalsUnknownVoice(t *testing.T) {
	var preset string
	r := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		var sr speakRequest
		json.NewDecoder(req.Body).Decode(&sr)
		preset = sr.Preset
		serveWAV(t, w, audio.Silence(1, barkSampleRate))
	})

	_, err := r.Vocals(context.Background(), "la la la", "robot overlord")
	require.NoError(t, err)
	assert.Equal(t, "v2/en_speaker_0", preset)
}

func TestVocalsEmptyLyrics(t *testing.T) {
	r := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("runner should not be called for empty lyrics")
	})

	clip, err := r.Vocals(context.Background(), "  \n ", "neutral")
	require.NoError(t, err)
	assert.Equal(t, barkSampleRate, clip.Rate)
	assert.InDelta(t, 1.0, clip.Duration(), 0.001)
}

func TestPing(t *testing.T) {
	r := testRunner(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/health", req.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	ok, msg := r.Ping(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "model runner OK", msg)
}

func TestPingOffline(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()
	r := NewRunner(srv.URL)

	ok, msg := r.Ping(context.Background())
	assert.False(t, ok)
	assert.Contains(t, msg, "offline")
}

func TestSplitSections(t *testing.T) {
	got := SplitSections("[Intro]\nhum\n[Verse 1]\nline one\nline two\n\n[Outro]\nfade")
	assert.Equal(t, []string{"hum", "line one\nline two", "fade"}, got)
}

func TestFormatForBark(t *testing.T) {
	got := FormatForBark("I count the tiles (one, two) [whisper]\nThe coffee's cold", "")
	assert.Equal(t, "I count the tiles one, two ♪ The coffee's cold ♪", got)
}
