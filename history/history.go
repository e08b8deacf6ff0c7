// Package history persists generated songs to a JSON file, newest first.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/secrethelper/secrethelper/api"
	"github.com/secrethelper/secrethelper/envconfig"
	"github.com/secrethelper/secrethelper/format"
)

// Store reads and writes one history file. The zero value is not usable;
// call NewStore.
type Store struct {
	path string
	max  int
}

func NewStore() *Store {
	return &Store{path: envconfig.HistoryFile(), max: envconfig.MaxHistory}
}

// NewStoreAt is for tests and tools that point at a specific file.
func NewStoreAt(path string, max int) *Store {
	return &Store{path: path, max: max}
}

// Add prepends the entry, stamping its ID and timestamp, and trims the
// history to the configured cap.
func (s *Store) Add(entry api.HistoryEntry) (api.HistoryEntry, error) {
	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now()

	entries, err := s.Load()
	if err != nil {
		return entry, err
	}

	entries = append([]api.HistoryEntry{entry}, entries...)
	if len(entries) > s.max {
		entries = entries[:s.max]
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return entry, err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return entry, err
	}
	return entry, os.WriteFile(s.path, data, 0o644)
}

// Load returns all entries, newest first. A missing or corrupt file reads
// as empty history rather than an error; the next Add rewrites it.
func (s *Store) Load() ([]api.HistoryEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var entries []api.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil
	}
	return entries, nil
}

// Clear deletes the history file.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Row flattens an entry for tabular display.
func Row(e api.HistoryEntry) []string {
	filename := "—"
	if e.Path != "" {
		filename = filepath.Base(e.Path)
	}

	prompt := []rune(e.Prompt)
	display := e.Prompt
	if len(prompt) > 55 {
		display = string(prompt[:55]) + "…"
	}

	return []string{
		format.HumanTime(e.Timestamp, "—"),
		display,
		e.Genre,
		fmt.Sprintf("%ds", e.Duration),
		e.Voice,
		filename,
	}
}
