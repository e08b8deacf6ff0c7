package format

import (
	"fmt"
	"time"
)

// HumanDuration returns a short human-readable rendering of a duration,
// limited to the two most significant units.
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		return "less than a second"
	}

	if d >= time.Hour {
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}

	if d >= time.Minute {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}

	return d.Round(time.Second).String()
}

// HumanTime renders a timestamp the way history rows display it, or
// zeroValue when the timestamp is unset.
func HumanTime(t time.Time, zeroValue string) string {
	if t.IsZero() {
		return zeroValue
	}
	return t.Format("2006-01-02 15:04")
}
