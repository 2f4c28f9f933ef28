package shell

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"mashsong/mash"
	"mashsong/util"
)

// HandleCommand dispatches one shell line. Returns true when the shell
// should exit.
func (s *Shell) HandleCommand(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	command := parts[0]
	args := parts[1:]

	switch command {
	case "exit", "quit", "q":
		return true
	case "help", "h":
		s.printHelp()
	case "status", "s":
		s.ShowStatus()
	case "sections":
		s.handleSections(args)
	case "measures":
		s.handleMeasures(args)
	case "match", "m":
		s.handleMatch(args)
	case "pitch", "p":
		s.handlePitch(args)
	case "tempo", "t":
		s.handleTempo(args)
	case "volume", "v":
		s.handleVolume(args)
	case "range", "r":
		s.handleRange(args)
	case "roles":
		s.handleRoles(args)
	case "preview":
		s.handlePreview(args)
	case "mash":
		s.handleMash(args)
	case "reset":
		s.handleReset()
	default:
		fmt.Printf("Unknown command: %s (try 'help')\n", command)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  status, s                 show both tracks and match plan")
	fmt.Println("  sections [1|2]            list grid-synced sections")
	fmt.Println("  measures [1|2]            list measure boundaries")
	fmt.Println("  match [mode]              show or pin matching (auto, key1to2,")
	fmt.Println("                            key2to1, bpm1to2, bpm2to1)")
	fmt.Println("  pitch <1|2> <semitones>   preview pitch adjustment")
	fmt.Println("  tempo <1|2> <percent>     preview tempo adjustment")
	fmt.Println("  volume <1|2> <percent>    preview volume")
	fmt.Println("  range <1|2> <from:to>     pick the section span to render")
	fmt.Println("  roles [swap]              show or swap stem roles")
	fmt.Println("  preview <1|2> [seconds]   play a track's stem with adjustments")
	fmt.Println("  mash [output.wav]         render the mashup")
	fmt.Println("  reset                     clear adjustments and overrides")
	fmt.Println("  exit, quit, q             leave the shell")
}

func parseTrackNum(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("track number required")
	}
	num, err := strconv.Atoi(args[0])
	if err != nil || (num != 1 && num != 2) {
		return 0, nil, fmt.Errorf("track must be 1 or 2")
	}
	return num, args[1:], nil
}

// parseSpan parses "from:to" (or a single section number) into a span.
func parseSpan(arg string) (mash.SectionSpan, error) {
	parts := strings.SplitN(arg, ":", 2)
	from, err := strconv.Atoi(parts[0])
	if err != nil {
		return mash.SectionSpan{}, fmt.Errorf("bad section number %q", parts[0])
	}
	to := from
	if len(parts) == 2 {
		to, err = strconv.Atoi(parts[1])
		if err != nil {
			return mash.SectionSpan{}, fmt.Errorf("bad section number %q", parts[1])
		}
	}
	if from > to {
		return mash.SectionSpan{}, fmt.Errorf("range %d:%d is backwards", from, to)
	}
	return mash.SectionSpan{From: from, To: to}, nil
}

func (s *Shell) handleSections(args []string) {
	nums := []int{1, 2}
	if num, _, err := parseTrackNum(args); err == nil {
		nums = []int{num}
	}
	for _, num := range nums {
		t := s.trackByNum(num)
		fmt.Printf("[%d] %s sections:\n", num, t.Title)
		for _, sec := range t.Sections {
			fmt.Printf("  %2d: %7.2fs .. %7.2fs (%6.2fs)  %s  %.1f BPM\n",
				sec.Index, sec.Start, sec.End, sec.Duration,
				mash.KeyName(sec.Key, sec.Mode), sec.Tempo)
		}
	}
}

func (s *Shell) handleMeasures(args []string) {
	nums := []int{1, 2}
	if num, _, err := parseTrackNum(args); err == nil {
		nums = []int{num}
	}
	for _, num := range nums {
		t := s.trackByNum(num)
		fmt.Printf("[%d] %s: %d measures\n", num, t.Title, len(t.Measures))
		for i, m := range t.Measures {
			fmt.Printf("%8.2f", m)
			if (i+1)%8 == 0 {
				fmt.Println()
			}
		}
		fmt.Println()
	}
}

func (s *Shell) handlePitch(args []string) {
	num, rest, err := parseTrackNum(args)
	if err != nil || len(rest) == 0 {
		fmt.Println("Usage: pitch <1|2> <semitones>")
		return
	}
	semitones, err := strconv.Atoi(rest[0])
	if err != nil {
		fmt.Println("Usage: pitch <1|2> <semitones>")
		return
	}
	semitones = util.Clamp(semitones, -12, 12)
	if num == 1 {
		s.Pitch1 = semitones
	} else {
		s.Pitch2 = semitones
	}
	fmt.Printf("Track %d pitch %+d semitones\n", num, semitones)
}

func (s *Shell) handleTempo(args []string) {
	num, rest, err := parseTrackNum(args)
	if err != nil || len(rest) == 0 {
		fmt.Println("Usage: tempo <1|2> <percent>")
		return
	}
	percent, err := strconv.ParseFloat(rest[0], 64)
	if err != nil {
		fmt.Println("Usage: tempo <1|2> <percent>")
		return
	}
	percent = util.ClampFloat(percent, -50, 100)
	if num == 1 {
		s.Tempo1 = percent
	} else {
		s.Tempo2 = percent
	}
	fmt.Printf("Track %d tempo %+.0f%%\n", num, percent)
}

func (s *Shell) handleVolume(args []string) {
	num, rest, err := parseTrackNum(args)
	if err != nil || len(rest) == 0 {
		fmt.Println("Usage: volume <1|2> <percent>")
		return
	}
	percent, err := strconv.ParseFloat(rest[0], 64)
	if err != nil {
		fmt.Println("Usage: volume <1|2> <percent>")
		return
	}
	percent = util.ClampFloat(percent, 0, 200)
	if num == 1 {
		s.Volume1 = percent
	} else {
		s.Volume2 = percent
	}
	fmt.Printf("Track %d volume %.0f%%\n", num, percent)
}

func (s *Shell) handleRange(args []string) {
	num, rest, err := parseTrackNum(args)
	if err != nil || len(rest) == 0 {
		fmt.Println("Usage: range <1|2> <from:to>")
		return
	}
	span, err := parseSpan(rest[0])
	if err != nil {
		fmt.Println(err)
		return
	}
	t := s.trackByNum(num)
	if _, _, err := t.SectionRange(span.From, span.To); err != nil {
		fmt.Printf("Track %d has sections 0..%d\n", num, len(t.Sections)-1)
		return
	}
	if num == 1 {
		s.Span1 = span
	} else {
		s.Span2 = span
	}
	start, end, _ := t.SectionRange(span.From, span.To)
	fmt.Printf("Track %d renders sections %d..%d (%.1fs .. %.1fs)\n",
		num, span.From, span.To, start, end)
}

func (s *Shell) handleRoles(args []string) {
	if len(args) > 0 && args[0] == "swap" {
		s.swapRoles()
	}
	fmt.Printf("Track 1 contributes %s, track 2 contributes %s\n", s.Role1, s.Role2)
}

func (s *Shell) handleReset() {
	s.Pitch1, s.Pitch2 = 0, 0
	s.Tempo1, s.Tempo2 = 0, 0
	s.Volume1, s.Volume2 = 100, 100
	s.Shift1, s.Shift2 = nil, nil
	s.Ratio1, s.Ratio2 = nil, nil
	s.resetSpans()
	fmt.Println("Adjustments reset.")
}

func (s *Shell) handleMash(args []string) {
	output := ""
	if len(args) > 0 {
		output = args[0]
		if !filepath.IsAbs(output) {
			output = filepath.Join(s.DataDir, "mash", output)
		}
	}

	voc, acc := s.Track1, s.Track2
	vocSpan, accSpan := s.Span1, s.Span2
	vocShift, vocRatio, accShift, accRatio := s.Shift1, s.Ratio1, s.Shift2, s.Ratio2
	if s.Role1 != mash.StemVocals {
		voc, acc = s.Track2, s.Track1
		vocSpan, accSpan = s.Span2, s.Span1
		vocShift, accShift = s.Shift2, s.Shift1
		vocRatio, accRatio = s.Ratio2, s.Ratio1
	}

	fmt.Printf("Rendering %s vocals over %s...\n", voc.Title, acc.Title)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	started := time.Now()
	path, err := mash.Mash(ctx, s.Renderer, output, voc, acc, mash.Options{
		VocalSpan:   vocSpan,
		AccompSpan:  accSpan,
		VocalShift:  vocShift,
		AccompShift: accShift,
		VocalTempo:  vocRatio,
		AccompTempo: accRatio,
	})
	if err != nil {
		fmt.Printf("Mash failed: %v\n", err)
		return
	}
	s.log.Info("mash rendered",
		zap.String("output", path),
		zap.Duration("took", time.Since(started)))
	fmt.Printf("Wrote %s\n", path)
}
