package shell

import (
	"fmt"

	"mashsong/mash"
)

// matchPlan computes what the auto-match would do to each track
// without mutating either: key shifts toward each other and stretch
// ratios landing both on the mean of the matched BPMs.
func (s *Shell) matchPlan() (shift1 int, ratio1 float64, shift2 int, ratio2 float64) {
	t1, t2 := s.Track1, s.Track2

	shift1 = mash.ClosestKeyShift(t1.Key, t1.Mode, t2.Key, t2.Mode)
	shift2 = mash.ClosestKeyShift(t2.Key, t2.Mode, mash.ShiftedKey(t1.Key, shift1), t1.Mode)

	bpm1 := mash.ClosestBPM(t1.BPM, t2.BPM)
	mashBPM := (bpm1 + t2.BPM) / 2
	ratio1 = mashBPM / bpm1

	bpm2 := mash.ClosestBPM(t2.BPM, bpm1)
	ratio2 = ((bpm2 + bpm1) / 2) / bpm2

	if s.Shift1 != nil {
		shift1 = *s.Shift1
	}
	if s.Shift2 != nil {
		shift2 = *s.Shift2
	}
	if s.Ratio1 != nil {
		ratio1 = *s.Ratio1
	}
	if s.Ratio2 != nil {
		ratio2 = *s.Ratio2
	}
	return shift1, ratio1, shift2, ratio2
}

// handleMatch pins one side of the match (or clears all pins with
// "auto") so previews and the final mash use it.
func (s *Shell) handleMatch(args []string) {
	if len(args) == 0 {
		shift1, ratio1, shift2, ratio2 := s.matchPlan()
		fmt.Printf("track 1: %+d semitones, tempo x%.3f\n", shift1, ratio1)
		fmt.Printf("track 2: %+d semitones, tempo x%.3f\n", shift2, ratio2)
		return
	}

	switch args[0] {
	case "auto":
		s.Shift1, s.Shift2, s.Ratio1, s.Ratio2 = nil, nil, nil, nil
		fmt.Println("Match overrides cleared, auto-matching.")
	case "key1to2":
		shift := mash.ClosestKeyShift(s.Track1.Key, s.Track1.Mode, s.Track2.Key, s.Track2.Mode)
		zero := 0
		s.Shift1, s.Shift2 = &shift, &zero
		fmt.Printf("Track 1 shifts %+d semitones, track 2 stays.\n", shift)
	case "key2to1":
		shift := mash.ClosestKeyShift(s.Track2.Key, s.Track2.Mode, s.Track1.Key, s.Track1.Mode)
		zero := 0
		s.Shift2, s.Shift1 = &shift, &zero
		fmt.Printf("Track 2 shifts %+d semitones, track 1 stays.\n", shift)
	case "bpm1to2":
		bpm := mash.ClosestBPM(s.Track1.BPM, s.Track2.BPM)
		ratio := s.Track2.BPM / bpm
		one := 1.0
		s.Ratio1, s.Ratio2 = &ratio, &one
		fmt.Printf("Track 1 stretches x%.3f to %.1f BPM, track 2 stays.\n", ratio, s.Track2.BPM)
	case "bpm2to1":
		bpm := mash.ClosestBPM(s.Track2.BPM, s.Track1.BPM)
		ratio := s.Track1.BPM / bpm
		one := 1.0
		s.Ratio2, s.Ratio1 = &ratio, &one
		fmt.Printf("Track 2 stretches x%.3f to %.1f BPM, track 1 stays.\n", ratio, s.Track1.BPM)
	default:
		fmt.Println("Usage: match [auto|key1to2|key2to1|bpm1to2|bpm2to1]")
	}
}
