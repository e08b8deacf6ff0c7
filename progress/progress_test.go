package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStage(t *testing.T) {
	s := NewStage("waiting")
	assert.Equal(t, "  0% ▕                    ▏ waiting", s.String())

	s.Set(60, "recording vocals")
	assert.Equal(t, " 60% ▕████████████        ▏ recording vocals", s.String())

	s.Set(100, "")
	got := s.String()
	assert.True(t, strings.HasPrefix(got, "100% ▕████████████████████▏"))
	assert.Contains(t, got, "recording vocals", "empty message keeps the last one")
}

func TestStageClamps(t *testing.T) {
	s := NewStage("x")
	s.Set(150, "x")
	assert.True(t, strings.HasPrefix(s.String(), "100%"))
	s.Set(-5, "x")
	assert.True(t, strings.HasPrefix(s.String(), "  0%"))
}

func TestSpinnerMessage(t *testing.T) {
	s := NewSpinner("crafting lyrics")
	defer s.Stop()

	assert.Contains(t, s.String(), "crafting lyrics")

	s.SetMessage("generating beat")
	assert.Contains(t, s.String(), "generating beat")
	assert.NotContains(t, s.String(), "crafting lyrics")
}

func TestSpinnerStopFreezesElapsed(t *testing.T) {
	s := NewSpinner("x")
	s.Stop()
	first := s.String()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, first, s.String())
}

func TestProgressStop(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)
	p.Add(NewStage("mixing"))

	time.Sleep(150 * time.Millisecond)
	assert.True(t, p.Stop())
	assert.False(t, p.Stop(), "second stop is a no-op")
	assert.Contains(t, buf.String(), "mixing")
}

func TestProgressStopAndClear(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)
	p.Add(NewStage("mixing"))

	time.Sleep(150 * time.Millisecond)
	assert.True(t, p.StopAndClear())
	assert.Contains(t, buf.String(), "\033[2K")
}
