package shell

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"mashsong/audio"
)

const defaultPreviewSeconds = 20.0

// handlePreview plays a stretch of one track's mash stem through
// ffplay, with the auto-match plus any manual adjustments baked into
// the filter chain.
func (s *Shell) handlePreview(args []string) {
	num, rest, err := parseTrackNum(args)
	if err != nil {
		fmt.Println("Usage: preview <1|2> [seconds]")
		return
	}
	seconds := defaultPreviewSeconds
	if len(rest) > 0 {
		if parsed, err := strconv.ParseFloat(rest[0], 64); err == nil && parsed > 0 {
			seconds = parsed
		}
	}

	t := s.trackByNum(num)
	stemPath, err := t.StemPath(s.roleByNum(num))
	if err != nil {
		fmt.Printf("No %s stem for track %d; run separate first\n", s.roleByNum(num), num)
		return
	}

	span := s.spanByNum(num)
	start, _, err := t.SectionRange(span.From, span.To)
	if err != nil {
		start = 0
	}

	shift1, ratio1, shift2, ratio2 := s.matchPlan()
	shift, ratio := shift1, ratio1
	pitch, tempo, volume := s.Pitch1, s.Tempo1, s.Volume1
	if num == 2 {
		shift, ratio = shift2, ratio2
		pitch, tempo, volume = s.Pitch2, s.Tempo2, s.Volume2
	}

	// The preview approximates the rubberband render with ffmpeg
	// filters: the matched ratio times the manual percent offset.
	filter := audio.ChainFilters(
		audio.TempoFilter(ratio*(1.0+tempo/100.0)),
		audio.PitchFilter(s.SampleRate, shift+pitch),
		audio.VolumeFilter(volume),
	)

	ffplayArgs := []string{
		"-autoexit",
		"-nodisp",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%.2f", start),
		"-t", fmt.Sprintf("%.2f", seconds),
	}
	if filter != "" {
		ffplayArgs = append(ffplayArgs, "-af", filter)
	}
	ffplayArgs = append(ffplayArgs, stemPath)

	fmt.Printf("Playing track %d from %.1fs for %.0fs (ctrl-c to stop)...\n", num, start, seconds)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(seconds+10)*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, s.FFplay, ffplayArgs...).Run(); err != nil {
		fmt.Printf("Playback error: %v\n", err)
	}
}
