package progress

import (
	"fmt"
	"strings"
	"sync"
)

const stageBarWidth = 20

// Stage is a percent bar for one pipeline run, fed by the server's
// progress events.
type Stage struct {
	mu      sync.Mutex
	message string
	percent int
}

func NewStage(message string) *Stage {
	return &Stage{message: message}
}

// Set updates the bar from a progress event.
func (s *Stage) Set(percent int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}
	s.percent = percent
	if message != "" {
		s.message = message
	}
}

func (s *Stage) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	filled := s.percent * stageBarWidth / 100
	return fmt.Sprintf("%3d%% ▕%s%s▏ %s",
		s.percent,
		strings.Repeat("█", filled),
		strings.Repeat(" ", stageBarWidth-filled),
		s.message)
}
