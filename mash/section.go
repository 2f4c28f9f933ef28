package mash

import (
	"sort"

	"mashsong/analysis"
)

// Section is one structural span of a track, snapped onto the measure
// grid during track construction.
type Section struct {
	Index    int
	Start    float64
	Duration float64
	End      float64

	Confidence float64
	Loudness   float64

	Tempo           float64
	TempoConfidence float64
	Key             int
	KeyConfidence   float64
	Mode            int
	ModeConfidence  float64
	TimeSignature   int

	// Measures are the grid boundaries this section spans, filled in by
	// SyncToMeasures.
	Measures []float64
}

func newSection(s analysis.Section, index int) Section {
	return Section{
		Index:           index,
		Start:           s.Start,
		Duration:        s.Duration,
		End:             s.Start + s.Duration,
		Confidence:      s.Confidence,
		Loudness:        s.Loudness,
		Tempo:           s.Tempo,
		TempoConfidence: s.TempoConfidence,
		Key:             s.Key,
		KeyConfidence:   s.KeyConfidence,
		Mode:            s.Mode,
		ModeConfidence:  s.ModeConfidence,
		TimeSignature:   s.TimeSignature,
	}
}

// SyncToMeasures snaps the section onto a measure grid. The section's
// start becomes the first grid boundary; its end moves to whichever of
// the two adjacent boundaries is nearer its analysis end, clamped so at
// least one boundary remains for the next section. Returns the index
// of the chosen end boundary so the caller can hand the remaining grid
// to the section that follows.
func (s *Section) SyncToMeasures(measures []float64) int {
	if len(measures) < 2 {
		return 0
	}

	end := sort.SearchFloat64s(measures, s.End) - 1
	if end >= len(measures)-1 {
		end = len(measures) - 2
	}
	if end < 0 {
		end = 0
	}
	if s.End-measures[end] > measures[end+1]-s.End {
		end++
	}

	s.Start = measures[0]
	s.End = measures[end]
	s.Duration = s.End - s.Start
	s.Measures = measures[:end+1]
	return end
}

// sectionsByDuration returns the sections ordered longest first,
// ties broken by original position.
func sectionsByDuration(sections []Section) []*Section {
	out := make([]*Section, len(sections))
	for i := range sections {
		out[i] = &sections[i]
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Duration > out[b].Duration
	})
	return out
}
