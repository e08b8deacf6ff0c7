// Package mixer combines the instrumental and vocal stems into a final
// track and writes it to disk, as WAV directly or as MP3 through ffmpeg.
package mixer

import (
	"bytes"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/secrethelper/secrethelper/audio"
	"github.com/secrethelper/secrethelper/envconfig"
)

// Metadata is stamped into MP3 tags on export.
type Metadata struct {
	Title  string
	Genre  string
	Prompt string
}

// Mix blends the two stems at the configured volumes and writes the result
// to path. The instrumental is looped to cover the full vocal length, both
// stems are resampled to the output rate, and the blend is peak normalized.
// Returns the actual output path, which may differ from the requested one
// when MP3 export falls back to WAV.
func Mix(instrumental, vocals *audio.Clip, path string, meta *Metadata) (string, error) {
	instr := prepare(instrumental)
	vox := prepare(vocals)

	instr = instr.LoopTo(len(vox.Samples))

	mixed := &audio.Clip{
		Samples: make([]float32, len(vox.Samples)),
		Rate:    envconfig.SampleRate,
	}
	for i := range vox.Samples {
		mixed.Samples[i] = instr.Samples[i]*float32(envconfig.MusicVolume) + vox.Samples[i]*float32(envconfig.VocalVolume)
	}

	return export(mixed.Normalize(0.95), path, meta)
}

// SaveInstrumental writes a prepared instrumental-only track.
func SaveInstrumental(instrumental *audio.Clip, path string, meta *Metadata) (string, error) {
	return export(prepare(instrumental), path, meta)
}

func prepare(c *audio.Clip) *audio.Clip {
	return c.Resample(envconfig.SampleRate).Normalize(0.95)
}

func export(c *audio.Clip, path string, meta *Metadata) (string, error) {
	if strings.HasSuffix(path, ".mp3") {
		return saveMP3(c, path, meta)
	}
	return path, audio.WriteWAV(path, c)
}

// saveMP3 encodes through ffmpeg. When ffmpeg is missing or fails the track
// is saved as WAV instead and the WAV path is returned.
func saveMP3(c *audio.Clip, path string, meta *Metadata) (string, error) {
	wavPath := strings.TrimSuffix(path, ".mp3") + ".wav"

	if _, err := exec.LookPath("ffmpeg"); err != nil {
		slog.Warn("ffmpeg not found, saving as WAV instead", "path", wavPath)
		return wavPath, audio.WriteWAV(wavPath, c)
	}

	tmp := strings.TrimSuffix(path, ".mp3") + "_tmp.wav"
	if err := audio.WriteWAV(tmp, c); err != nil {
		return "", err
	}
	defer os.Remove(tmp)

	args := []string{"-y", "-i", tmp, "-b:a", "192k"}
	if meta != nil {
		title := meta.Title
		if title == "" {
			title = "Secret Helper Song"
		}
		args = append(args,
			"-metadata", "title="+title,
			"-metadata", "artist=Secret Helper",
			"-metadata", "genre="+meta.Genre,
			"-metadata", "comment="+meta.Prompt,
		)
	}
	args = append(args, path)

	cmd := exec.Command("ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		slog.Warn("mp3 export failed, saving as WAV instead", "error", err, "detail", lastLine(stderr.String()))
		return wavPath, audio.WriteWAV(wavPath, c)
	}
	return path, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
