package format

import (
	"testing"
	"time"
)

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{1000, "1.0 KB"},
		{1500, "1.5 KB"},
		{1000000, "1.0 MB"},
		{301000000, "301.0 MB"},
		{3300000000, "3.3 GB"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := HumanBytes(tc.input); got != tc.expected {
				t.Errorf("HumanBytes(%d) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{500 * time.Millisecond, "less than a second"},
		{3 * time.Second, "3s"},
		{90 * time.Second, "1m30s"},
		{2 * time.Hour, "2h0m"},
		{125 * time.Minute, "2h5m"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			if got := HumanDuration(tc.input); got != tc.expected {
				t.Errorf("HumanDuration(%v) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestHumanTime(t *testing.T) {
	if got := HumanTime(time.Time{}, "Never"); got != "Never" {
		t.Errorf("HumanTime(zero) = %q, want Never", got)
	}

	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	if got := HumanTime(ts, "Never"); got != "2025-03-14 09:26" {
		t.Errorf("HumanTime = %q", got)
	}
}
