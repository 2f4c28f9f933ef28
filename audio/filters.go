package audio

import (
	"fmt"
	"math"
	"strings"
)

// PitchRatio converts semitones to a playback-rate multiplier.
func PitchRatio(semitones int) float64 {
	return math.Pow(2, float64(semitones)/12.0)
}

// PitchFilter builds the ffmpeg chain for a semitone shift: resample
// the stream faster or slower, then counter-adjust tempo so only the
// pitch moves.
func PitchFilter(sampleRate, semitones int) string {
	if semitones == 0 {
		return ""
	}
	ratio := PitchRatio(semitones)
	return fmt.Sprintf("asetrate=%d*%.6f,aresample=%d,atempo=%.6f",
		sampleRate, ratio, sampleRate, 1.0/ratio)
}

// TempoFilter builds an atempo chain for a stretch ratio. ffmpeg's
// atempo only accepts (0.5, 2.0], so ratios outside that are dropped.
func TempoFilter(ratio float64) string {
	if ratio == 1.0 || ratio <= 0.5 || ratio > 2.0 {
		return ""
	}
	return fmt.Sprintf("atempo=%.6f", ratio)
}

// VolumeFilter builds a volume filter from a percentage, 100 meaning
// unchanged.
func VolumeFilter(percent float64) string {
	if percent == 100 {
		return ""
	}
	return fmt.Sprintf("volume=%.6f", percent/100.0)
}

// ChainFilters joins non-empty filter fragments into one -af chain.
func ChainFilters(filters ...string) string {
	var parts []string
	for _, f := range filters {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, ",")
}
