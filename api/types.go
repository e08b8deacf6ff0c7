package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Error struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %v", e.Code, strings.ToLower(http.StatusText(int(e.Code))))
	}
	return e.Message
}

// GenerateRequest asks the server to build a song from a free-text prompt.
type GenerateRequest struct {
	Prompt string `json:"prompt"`

	// UI overrides; zero values mean auto-detect.
	Voice  string `json:"voice,omitempty"`
	Genre  string `json:"genre,omitempty"`
	Genre2 string `json:"genre2,omitempty"`
	Blend  int    `json:"blend,omitempty"`
	BPM    int    `json:"bpm,omitempty"`

	// Duration of the instrumental in seconds. 0 uses the server default.
	Duration int `json:"duration,omitempty"`

	// ModelSize selects the MusicGen checkpoint: small, medium or large.
	ModelSize string `json:"model_size,omitempty"`

	// Instrumental skips lyrics and vocals entirely.
	Instrumental bool `json:"instrumental,omitempty"`

	// Lyrics, when set, are used verbatim instead of generated ones.
	Lyrics string `json:"lyrics,omitempty"`

	// Format of the output file: wav (default) or mp3.
	Format string `json:"format,omitempty"`
}

// ProgressResponse is one line of the NDJSON /api/generate stream.
type ProgressResponse struct {
	Status   string `json:"status"`
	Progress int    `json:"progress,omitempty"` // percent, 0-100
	Done     bool   `json:"done"`
	Song     *Song  `json:"song,omitempty"` // set on the final line
}

// Song describes a finished generation.
type Song struct {
	Path        string   `json:"path"`
	Genre       string   `json:"genre"`
	Mood        string   `json:"mood"`
	BPM         int      `json:"bpm"`
	Voice       string   `json:"voice"`
	Duration    float64  `json:"duration"`
	Lyrics      string   `json:"lyrics,omitempty"`
	Narration   string   `json:"narration,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// HelperRequest is one co-writer chat turn.
type HelperRequest struct {
	Message  string         `json:"message"`
	Settings HelperSettings `json:"settings"`
	Current  *SongDraft     `json:"current,omitempty"`
}

type HelperSettings struct {
	Voice        string `json:"voice,omitempty"`
	Genre        string `json:"genre,omitempty"`
	BPM          int    `json:"bpm,omitempty"`
	ModelSize    string `json:"model_size,omitempty"`
	Instrumental bool   `json:"instrumental,omitempty"`
}

// SongDraft is the co-writer's structured song concept.
type SongDraft struct {
	AssistantMessage   string          `json:"assistant_message"`
	Song               DraftSong       `json:"song"`
	Lyrics             DraftLyrics     `json:"lyrics"`
	ProductionNotes    ProductionNotes `json:"production_notes"`
	NeedClarification  bool            `json:"need_clarification"`
	ClarifyingQuestion string          `json:"clarifying_question"`
}

type DraftSong struct {
	Title            string   `json:"title"`
	Voice            string   `json:"voice"`
	Genre            string   `json:"genre"`
	BPM              int      `json:"bpm"`
	MoodTags         []string `json:"mood_tags"`
	SoundDescription string   `json:"sound_description"`
}

type DraftLyrics struct {
	Structure []string `json:"structure"`
	Text      string   `json:"text"`
}

type ProductionNotes struct {
	Arrangement string `json:"arrangement"`
	MixNotes    string `json:"mix_notes"`
}

// AIRequest proxies a raw prompt to the Ollama backend.
type AIRequest struct {
	Prompt string `json:"prompt"`
}

type AIResponse struct {
	Response string `json:"response"`
}

// HistoryEntry is one generated song in the persisted history.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Prompt    string    `json:"prompt"`
	Genre     string    `json:"genre"`
	Mood      string    `json:"mood"`
	Duration  int       `json:"duration"`
	Voice     string    `json:"voice"`
	Path      string    `json:"path"`
	Lyrics    string    `json:"lyrics,omitempty"`
}

type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

type StatusResponse struct {
	Version string        `json:"version"`
	Ollama  BackendStatus `json:"ollama"`
	Runner  BackendStatus `json:"runner"`
}

type BackendStatus struct {
	Online  bool   `json:"online"`
	Ready   bool   `json:"ready"`
	Message string `json:"message"`
}
