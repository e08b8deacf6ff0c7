package envconfig

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	// Set via SECRETHELPER_DEBUG in the environment
	Debug bool
	// Set via SECRETHELPER_DEVICE in the environment: "cpu", "cuda" or "mps"
	Device string
	// Set via SECRETHELPER_MUSIC_MODEL in the environment
	MusicModel string
	// Set via SECRETHELPER_VOCAL_MODEL in the environment
	VocalModel string
	// Set via SECRETHELPER_LYRICS_BACKEND in the environment: "ollama" or "template"
	LyricsBackend string
	// Set via OLLAMA_HOST in the environment
	OllamaHost string
	// Set via SECRETHELPER_OLLAMA_MODEL in the environment
	OllamaModel string
	// Set via SECRETHELPER_RUNNER_HOST in the environment
	RunnerHost string
	// Set via SECRETHELPER_SAMPLE_RATE in the environment
	SampleRate int
	// Set via SECRETHELPER_VOCAL_VOLUME in the environment
	VocalVolume float64
	// Set via SECRETHELPER_MUSIC_VOLUME in the environment
	MusicVolume float64
	// Set via SECRETHELPER_DURATION in the environment
	DefaultDuration time.Duration
	// Set via SECRETHELPER_OUTPUT in the environment
	OutputDir string
	// Set via SECRETHELPER_MAX_HISTORY in the environment
	MaxHistory int
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"SECRETHELPER_DEBUG":          {"SECRETHELPER_DEBUG", Debug, "Show additional debug information (e.g. SECRETHELPER_DEBUG=1)"},
		"SECRETHELPER_HOST":           {"SECRETHELPER_HOST", Host(), "IP address for the server (default 127.0.0.1:7860)"},
		"SECRETHELPER_DEVICE":         {"SECRETHELPER_DEVICE", Device, "Inference device: cpu, cuda or mps (default cpu)"},
		"SECRETHELPER_MUSIC_MODEL":    {"SECRETHELPER_MUSIC_MODEL", MusicModel, "MusicGen model id (default facebook/musicgen-small)"},
		"SECRETHELPER_VOCAL_MODEL":    {"SECRETHELPER_VOCAL_MODEL", VocalModel, "Bark model id (default suno/bark-small)"},
		"SECRETHELPER_LYRICS_BACKEND": {"SECRETHELPER_LYRICS_BACKEND", LyricsBackend, "Lyrics backend: ollama or template (default ollama)"},
		"OLLAMA_HOST":                 {"OLLAMA_HOST", OllamaHost, "Host of the Ollama server used for lyrics and the co-writer (default 127.0.0.1:11434)"},
		"SECRETHELPER_OLLAMA_MODEL":   {"SECRETHELPER_OLLAMA_MODEL", OllamaModel, "Ollama model used for lyrics and the co-writer (default qwen2.5:3b)"},
		"SECRETHELPER_RUNNER_HOST":    {"SECRETHELPER_RUNNER_HOST", RunnerHost, "Host of the synthesis runner (default 127.0.0.1:7861)"},
		"SECRETHELPER_SAMPLE_RATE":    {"SECRETHELPER_SAMPLE_RATE", SampleRate, "Output sample rate in Hz (default 44100)"},
		"SECRETHELPER_VOCAL_VOLUME":   {"SECRETHELPER_VOCAL_VOLUME", VocalVolume, "Default vocal level in the mix (default 0.75)"},
		"SECRETHELPER_MUSIC_VOLUME":   {"SECRETHELPER_MUSIC_VOLUME", MusicVolume, "Default music level in the mix (default 0.60)"},
		"SECRETHELPER_DURATION":       {"SECRETHELPER_DURATION", DefaultDuration, "Default instrumental duration (default 30s)"},
		"SECRETHELPER_OUTPUT":         {"SECRETHELPER_OUTPUT", OutputDir, "Directory for generated songs and history (default ./output)"},
		"SECRETHELPER_MAX_HISTORY":    {"SECRETHELPER_MAX_HISTORY", MaxHistory, "Number of songs kept in history (default 100)"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// Host returns the bind address for the server, normalizing a bare host or
// bare port set via SECRETHELPER_HOST.
func Host() string {
	host := clean("SECRETHELPER_HOST")
	if host == "" {
		return "127.0.0.1:7860"
	}

	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}

	if strings.HasPrefix(host, ":") {
		return "127.0.0.1" + host
	}

	return net.JoinHostPort(host, "7860")
}

// HistoryFile returns the path of the history file inside OutputDir.
func HistoryFile() string {
	return filepath.Join(OutputDir, "history.json")
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

func init() {
	LoadConfig()
}

func LoadConfig() {
	// default values
	Device = "cpu"
	MusicModel = "facebook/musicgen-small"
	VocalModel = "suno/bark-small"
	LyricsBackend = "ollama"
	OllamaHost = "127.0.0.1:11434"
	OllamaModel = "qwen2.5:3b"
	RunnerHost = "127.0.0.1:7861"
	SampleRate = 44100
	VocalVolume = 0.75
	MusicVolume = 0.60
	DefaultDuration = 30 * time.Second
	OutputDir = "output"
	MaxHistory = 100

	if debug := clean("SECRETHELPER_DEBUG"); debug != "" {
		d, err := strconv.ParseBool(debug)
		if err == nil {
			Debug = d
		} else {
			Debug = true
		}
	}

	if device := clean("SECRETHELPER_DEVICE"); device != "" {
		switch device {
		case "cpu", "cuda", "mps":
			Device = device
		default:
			slog.Error("invalid setting, ignoring", "SECRETHELPER_DEVICE", device)
		}
	}

	if model := clean("SECRETHELPER_MUSIC_MODEL"); model != "" {
		MusicModel = model
	}

	if model := clean("SECRETHELPER_VOCAL_MODEL"); model != "" {
		VocalModel = model
	}

	if backend := clean("SECRETHELPER_LYRICS_BACKEND"); backend != "" {
		switch backend {
		case "ollama", "template":
			LyricsBackend = backend
		default:
			slog.Error("invalid setting, ignoring", "SECRETHELPER_LYRICS_BACKEND", backend)
		}
	}

	if host := clean("OLLAMA_HOST"); host != "" {
		OllamaHost = host
	}

	if model := clean("SECRETHELPER_OLLAMA_MODEL"); model != "" {
		OllamaModel = model
	}

	if host := clean("SECRETHELPER_RUNNER_HOST"); host != "" {
		RunnerHost = host
	}

	if rate := clean("SECRETHELPER_SAMPLE_RATE"); rate != "" {
		r, err := strconv.Atoi(rate)
		if err != nil || r <= 0 {
			slog.Error("invalid setting must be greater than zero", "SECRETHELPER_SAMPLE_RATE", rate, "error", err)
		} else {
			SampleRate = r
		}
	}

	if vol := clean("SECRETHELPER_VOCAL_VOLUME"); vol != "" {
		v, err := strconv.ParseFloat(vol, 64)
		if err != nil || v < 0 || v > 1 {
			slog.Error("invalid setting must be between 0 and 1", "SECRETHELPER_VOCAL_VOLUME", vol, "error", err)
		} else {
			VocalVolume = v
		}
	}

	if vol := clean("SECRETHELPER_MUSIC_VOLUME"); vol != "" {
		v, err := strconv.ParseFloat(vol, 64)
		if err != nil || v < 0 || v > 1 {
			slog.Error("invalid setting must be between 0 and 1", "SECRETHELPER_MUSIC_VOLUME", vol, "error", err)
		} else {
			MusicVolume = v
		}
	}

	if dur := clean("SECRETHELPER_DURATION"); dur != "" {
		d, err := time.ParseDuration(dur)
		if err != nil {
			if secs, serr := strconv.Atoi(dur); serr == nil && secs > 0 {
				d, err = time.Duration(secs)*time.Second, nil
			}
		}
		if err != nil || d <= 0 {
			slog.Error("invalid setting", "SECRETHELPER_DURATION", dur, "error", err)
		} else {
			DefaultDuration = d
		}
	}

	if dir := clean("SECRETHELPER_OUTPUT"); dir != "" {
		OutputDir = dir
	}

	if max := clean("SECRETHELPER_MAX_HISTORY"); max != "" {
		m, err := strconv.Atoi(max)
		if err != nil || m <= 0 {
			slog.Error("invalid setting must be greater than zero", "SECRETHELPER_MAX_HISTORY", max, "error", err)
		} else {
			MaxHistory = m
		}
	}
}
