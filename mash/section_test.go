package mash

import (
	"testing"

	"mashsong/analysis"
)

func TestSectionSyncToMeasures(t *testing.T) {
	tests := []struct {
		name      string
		end       float64
		measures  []float64
		wantEnd   float64
		wantIndex int
	}{
		{"rounds up to nearer measure", 5.1, []float64{0, 2, 4, 6, 8, 10}, 6, 3},
		{"rounds down to nearer measure", 4.6, []float64{0, 2, 4, 6, 8, 10}, 4, 2},
		{"exact boundary stays", 6.0, []float64{0, 2, 4, 6, 8, 10}, 6, 3},
		{"end past grid clamps to sentinel", 11.0, []float64{0, 2, 4, 6, 8, 10}, 10, 5},
		{"end before first boundary snaps forward", 0.3, []float64{0, 2, 4, 6, 8, 10}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Section{Start: 0, End: tt.end, Duration: tt.end}
			idx := s.SyncToMeasures(tt.measures)
			if idx != tt.wantIndex {
				t.Errorf("index = %d, want %d", idx, tt.wantIndex)
			}
			if s.End != tt.wantEnd {
				t.Errorf("end = %v, want %v", s.End, tt.wantEnd)
			}
			if s.Start != tt.measures[0] {
				t.Errorf("start = %v, want %v", s.Start, tt.measures[0])
			}
			if s.Duration != s.End-s.Start {
				t.Errorf("duration = %v, want %v", s.Duration, s.End-s.Start)
			}
		})
	}
}

func TestSectionSyncShortGrid(t *testing.T) {
	s := Section{Start: 1, End: 5, Duration: 4}
	if idx := s.SyncToMeasures([]float64{3}); idx != 0 {
		t.Errorf("index = %d, want 0 for a one-element grid", idx)
	}
	if s.End != 5 {
		t.Errorf("section mutated by degenerate grid: end = %v", s.End)
	}
}

func trackFixture() *Track {
	// Bars every 2s over 40s gives measures at 0, 8, 16, 24, 32, 40.
	data := &analysis.TrackData{
		Track: analysis.TrackSummary{
			Duration: 40,
			Tempo:    120,
			Key:      7,
			Mode:     ModeMajor,
		},
		Bars: markersEvery(2.0, 20),
		Sections: []analysis.Section{
			{Start: 0, Duration: 9.2},
			{Start: 9.2, Duration: 13.6},
			{Start: 22.8, Duration: 17.2},
		},
	}
	return NewTrack("tr1", "Fixture", "Nobody", data, map[string]string{
		StemVocals: "/tmp/tr1_Vocals.wav",
	})
}

func TestTrackSyncSectionsConsumeGrid(t *testing.T) {
	tr := trackFixture()

	// Section 0 ends at 9.2 -> snaps to 8. Section 1 then starts at 8
	// and its end (22.8) snaps to 24. Section 2 starts at 24 and ends
	// on the duration sentinel.
	wantStarts := []float64{0, 8, 24}
	wantEnds := []float64{8, 24, 40}
	for i, s := range tr.Sections {
		if s.Start != wantStarts[i] || s.End != wantEnds[i] {
			t.Errorf("section %d = [%v, %v], want [%v, %v]",
				i, s.Start, s.End, wantStarts[i], wantEnds[i])
		}
	}
}

func TestTrackSectionRange(t *testing.T) {
	tr := trackFixture()

	start, end, err := tr.SectionRange(1, 2)
	if err != nil {
		t.Fatalf("SectionRange: %v", err)
	}
	if start != 8 || end != 40 {
		t.Errorf("SectionRange(1,2) = [%v, %v], want [8, 40]", start, end)
	}

	if _, _, err := tr.SectionRange(2, 1); err == nil {
		t.Error("SectionRange(2,1) should fail")
	}
	if _, _, err := tr.SectionRange(0, 9); err == nil {
		t.Error("SectionRange(0,9) should fail")
	}
}

func TestTrackLongestSection(t *testing.T) {
	tr := trackFixture()

	longest, err := tr.LongestSection(0)
	if err != nil {
		t.Fatalf("LongestSection: %v", err)
	}
	if longest.Index != 1 {
		t.Errorf("longest section index = %d, want 1", longest.Index)
	}

	// Offsets past the end clamp to the shortest section.
	shortest, err := tr.LongestSection(99)
	if err != nil {
		t.Fatalf("LongestSection(99): %v", err)
	}
	if shortest.Duration > longest.Duration {
		t.Errorf("clamped offset returned a longer section")
	}
}

func TestTrackStemPath(t *testing.T) {
	tr := trackFixture()
	if _, err := tr.StemPath(StemVocals); err != nil {
		t.Errorf("StemPath(Vocals): %v", err)
	}
	if _, err := tr.StemPath(StemAccompaniment); err == nil {
		t.Error("StemPath(Accompaniment) should fail for missing stem")
	}
}
