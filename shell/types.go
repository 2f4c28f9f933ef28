package shell

import (
	"go.uber.org/zap"

	"mashsong/mash"
)

// Deps are the external pieces the shell drives.
type Deps struct {
	Renderer   *mash.Renderer
	DataDir    string
	FFplay     string
	SampleRate int
}

// Shell is the interactive two-track mash session. Track 1 donates a
// stem and track 2 donates the other; which is which is held in the
// role fields and can be swapped.
type Shell struct {
	Deps

	Track1 *mash.Track
	Track2 *mash.Track

	// Role1/Role2 name the stem each track contributes to the mash.
	Role1 string
	Role2 string

	// Span1/Span2 are the inclusive section ranges rendered from each
	// track.
	Span1 mash.SectionSpan
	Span2 mash.SectionSpan

	// Preview adjustments, applied on top of the auto-match.
	Pitch1, Pitch2   int
	Tempo1, Tempo2   float64 // percent offset, 0 = unchanged
	Volume1, Volume2 float64 // percent, 100 = unchanged

	// Manual overrides for the mash render; nil means auto-match.
	Shift1, Shift2 *int
	Ratio1, Ratio2 *float64

	log *zap.Logger
}

func (s *Shell) trackByNum(num int) *mash.Track {
	if num == 1 {
		return s.Track1
	}
	return s.Track2
}

func (s *Shell) roleByNum(num int) string {
	if num == 1 {
		return s.Role1
	}
	return s.Role2
}

func (s *Shell) spanByNum(num int) mash.SectionSpan {
	if num == 1 {
		return s.Span1
	}
	return s.Span2
}
