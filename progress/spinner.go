package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/secrethelper/secrethelper/format"
)

// Spinner is a single animated status line whose message can change as the
// pipeline moves between stages.
type Spinner struct {
	mu      sync.Mutex
	message string

	parts []string
	value int

	ticker  *time.Ticker
	started time.Time
	stopped time.Time
}

func NewSpinner(message string) *Spinner {
	s := &Spinner{
		message: message,
		parts: []string{
			"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏",
		},
		started: time.Now(),
	}
	go s.start()
	return s
}

// SetMessage swaps the status text without restarting the animation.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

func (s *Spinner) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	if s.stopped.IsZero() {
		sb.WriteString(s.parts[s.value])
		sb.WriteString(" ")
	}
	if message := strings.TrimSpace(s.message); message != "" {
		sb.WriteString(message)
		sb.WriteString(" ")
	}

	elapsed := time.Since(s.started)
	if !s.stopped.IsZero() {
		elapsed = s.stopped.Sub(s.started)
	}
	fmt.Fprintf(&sb, "(%s)", format.HumanDuration(elapsed))

	return sb.String()
}

func (s *Spinner) start() {
	s.ticker = time.NewTicker(100 * time.Millisecond)
	for range s.ticker.C {
		s.mu.Lock()
		s.value = (s.value + 1) % len(s.parts)
		done := !s.stopped.IsZero()
		s.mu.Unlock()
		if done {
			return
		}
	}
}

func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped.IsZero() {
		s.stopped = time.Now()
	}
}
