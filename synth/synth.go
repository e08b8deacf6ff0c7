// Package synth talks to the model runner, the Python sidecar that hosts
// MusicGen and Bark. The runner does nothing but run the models; prompt
// preparation, lyric chunking and audio assembly all happen here.
package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/secrethelper/secrethelper/audio"
	"github.com/secrethelper/secrethelper/envconfig"
)

// Bark renders at 24 kHz no matter what.
const barkSampleRate = 24000

// sectionGap is the silence inserted between rendered lyric sections,
// in seconds.
const sectionGap = 0.35

// Synthesizer produces raw audio from text. Runner is the real
// implementation; tests substitute their own.
type Synthesizer interface {
	Music(ctx context.Context, prompt string, duration time.Duration, modelSize string) (*audio.Clip, error)
	Vocals(ctx context.Context, lyrics, voice string) (*audio.Clip, error)
}

// musicModels maps the UI size label to the HuggingFace model ID.
var musicModels = map[string]string{
	"small":  "facebook/musicgen-small",
	"medium": "facebook/musicgen-medium",
	"large":  "facebook/musicgen-large",
}

// Runner is an HTTP client for the model runner process.
type Runner struct {
	base *url.URL
	http *http.Client
}

func NewRunner(hosts ...string) *Runner {
	host := envconfig.RunnerHost
	if len(hosts) > 0 && hosts[0] != "" {
		host = hosts[0]
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	base, err := url.Parse(host)
	if err != nil {
		base = &url.URL{Scheme: "http", Host: "127.0.0.1:7861"}
	}

	// Model inference on CPU is slow; a 30 second clip can take minutes.
	return &Runner{
		base: base,
		http: &http.Client{Timeout: 30 * time.Minute},
	}
}

type musicRequest struct {
	Prompt   string  `json:"prompt"`
	Duration float64 `json:"duration"`
	Model    string  `json:"model"`
}

type speakRequest struct {
	Text   string `json:"text"`
	Preset string `json:"preset"`
}

// Music renders an instrumental track for the prompt. The size label is
// resolved to a model ID here so the runner stays label-agnostic.
func (r *Runner) Music(ctx context.Context, prompt string, duration time.Duration, modelSize string) (*audio.Clip, error) {
	model := envconfig.MusicModel
	if id, ok := musicModels[modelSize]; ok {
		model = id
	} else if strings.HasPrefix(modelSize, "facebook/") {
		model = modelSize
	}

	return r.synthesize(ctx, "/api/music", musicRequest{
		Prompt:   prompt,
		Duration: duration.Seconds(),
		Model:    model,
	})
}

// Vocals renders sung lyrics with Bark. Sections are rendered one at a
// time because Bark loses coherence past a couple hundred words, then
// joined with short silence gaps. Empty lyrics yield one second of
// silence so the mixer always has something to work with.
func (r *Runner) Vocals(ctx context.Context, lyrics, voice string) (*audio.Clip, error) {
	preset := VoicePresets[voice]
	if preset == "" {
		preset = VoicePresets["neutral"]
	}
	hint := styleHints[voice]

	var clips []*audio.Clip
	for _, section := range SplitSections(lyrics) {
		chunk, err := r.synthesize(ctx, "/api/speak", speakRequest{
			Text:   FormatForBark(section, hint),
			Preset: preset,
		})
		if err != nil {
			return nil, err
		}
		clips = append(clips, chunk, audio.Silence(sectionGap, chunk.Rate))
	}

	if len(clips) == 0 {
		return audio.Silence(1, barkSampleRate), nil
	}
	return audio.Concat(clips...), nil
}

// Ping reports whether the runner is up, with a hint when it is not.
func (r *Runner) Ping(ctx context.Context) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base.JoinPath("/health").String(), nil)
	if err != nil {
		return false, err.Error()
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return false, "model runner offline — run: secrethelper setup && secrethelper serve"
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Sprintf("model runner returned status %d", resp.StatusCode)
	}
	return true, "model runner OK"
}

func (r *Runner) synthesize(ctx context.Context, path string, payload any) (*audio.Clip, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.base.JoinPath(path).String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model runner: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("model runner: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("model runner: status %d", resp.StatusCode)
	}

	clip, err := audio.DecodeWAV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("model runner: %w", err)
	}
	return clip, nil
}
