// Package audio holds the in-memory sample representation shared by the
// synthesis and mixing stages, plus the small amount of DSP the mixdown
// needs: downmixing, rational resampling, looping and peak normalization.
package audio

import "math"

// Clip is a mono audio buffer. Samples are float32 in [-1, 1].
type Clip struct {
	Samples []float32
	Rate    int
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.Rate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.Rate)
}

// Silence returns a clip of n seconds of silence at the given rate.
func Silence(seconds float64, rate int) *Clip {
	return &Clip{
		Samples: make([]float32, int(seconds*float64(rate))),
		Rate:    rate,
	}
}

// Concat joins clips end to end. The result takes the first clip's rate;
// callers are expected to pass clips that already agree on it.
func Concat(clips ...*Clip) *Clip {
	if len(clips) == 0 {
		return &Clip{}
	}
	var n int
	for _, c := range clips {
		n += len(c.Samples)
	}
	out := &Clip{Samples: make([]float32, 0, n), Rate: clips[0].Rate}
	for _, c := range clips {
		out.Samples = append(out.Samples, c.Samples...)
	}
	return out
}

// Downmix averages interleaved multi-channel samples into a mono buffer.
func Downmix(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		return interleaved
	}

	mono := make([]float32, len(interleaved)/channels)
	for i := range mono {
		var sum float32
		for ch := 0; ch < channels; ch++ {
			sum += interleaved[i*channels+ch]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}

// Resample converts the clip to the target rate using linear interpolation
// over the rational rate ratio. The receiver is returned unchanged when the
// rates already match.
func (c *Clip) Resample(rate int) *Clip {
	if c.Rate == rate || len(c.Samples) == 0 {
		return &Clip{Samples: c.Samples, Rate: rate}
	}

	g := gcd(c.Rate, rate)
	up, down := rate/g, c.Rate/g

	n := (len(c.Samples)*up + down - 1) / down
	out := make([]float32, n)
	for i := range out {
		// Source position for output sample i at the rational ratio.
		pos := float64(i) * float64(down) / float64(up)
		j := int(pos)
		if j >= len(c.Samples)-1 {
			out[i] = c.Samples[len(c.Samples)-1]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = c.Samples[j]*(1-frac) + c.Samples[j+1]*frac
	}

	return &Clip{Samples: out, Rate: rate}
}

// LoopTo tiles the clip until it covers at least n samples, then truncates
// to exactly n.
func (c *Clip) LoopTo(n int) *Clip {
	if len(c.Samples) == 0 || n <= 0 {
		return &Clip{Samples: make([]float32, max(n, 0)), Rate: c.Rate}
	}

	out := make([]float32, n)
	for i := range out {
		out[i] = c.Samples[i%len(c.Samples)]
	}
	return &Clip{Samples: out, Rate: c.Rate}
}

// Normalize peak-normalizes the clip to the target level. Silent clips are
// returned unchanged.
func (c *Clip) Normalize(target float32) *Clip {
	var peak float32
	for _, s := range c.Samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}

	if peak == 0 {
		return c
	}

	out := make([]float32, len(c.Samples))
	scale := target / peak
	for i, s := range c.Samples {
		out[i] = s * scale
	}
	return &Clip{Samples: out, Rate: c.Rate}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
