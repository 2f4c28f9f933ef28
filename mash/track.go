package mash

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"mashsong/analysis"
	"mashsong/logger"
)

// Stem type names as they appear in stem filenames.
const (
	StemVocals        = "Vocals"
	StemAccompaniment = "Accompaniment"
)

var (
	ErrNoStem    = errors.New("stem not available")
	ErrNoSection = errors.New("section index out of range")
)

// Track is one song ready for mashing: analysis summary, measure grid,
// grid-synced sections, and the stem files discovered for it.
type Track struct {
	ID     string
	Title  string
	Artist string

	Key      int
	Mode     int
	BPM      float64
	Duration float64

	Sections []Section
	Measures []float64

	// Stems maps stem type (Vocals, Accompaniment) to a wav path.
	Stems map[string]string

	log *zap.Logger
}

// NewTrack builds a Track from an analysis document, constructs its
// measure grid from the bar markers, and syncs every section onto it.
func NewTrack(id, title, artist string, data *analysis.TrackData, stems map[string]string) *Track {
	t := &Track{
		ID:       id,
		Title:    title,
		Artist:   artist,
		Key:      data.Track.Key,
		Mode:     data.Track.Mode,
		BPM:      data.Track.Tempo,
		Duration: data.Track.Duration,
		Stems:    stems,
		log:      logger.Named("track").With(zap.String("id", id)),
	}
	if t.Stems == nil {
		t.Stems = make(map[string]string)
	}

	t.Sections = make([]Section, len(data.Sections))
	for i, s := range data.Sections {
		t.Sections[i] = newSection(s, i)
	}

	t.Measures = BarsToMeasures(data.Bars, data.Track.Duration)
	t.SyncSectionsToMeasures()
	return t
}

// SyncSectionsToMeasures walks the grid section by section. Each
// section consumes the measures it spans, so the next section starts
// on the boundary where the previous one ended.
func (t *Track) SyncSectionsToMeasures() {
	measures := t.Measures
	for i := range t.Sections {
		if len(measures) < 2 {
			break
		}
		end := t.Sections[i].SyncToMeasures(measures)
		measures = measures[end:]
	}
}

// KeyName returns the track key as a readable name.
func (t *Track) KeyName() string {
	return KeyName(t.Key, t.Mode)
}

// LongestSection returns the section ranked offset-th by duration
// (0 = longest). Offsets past the end clamp to the shortest section.
func (t *Track) LongestSection(offset int) (*Section, error) {
	if len(t.Sections) == 0 {
		return nil, fmt.Errorf("%w: track %s has no sections", ErrNoSection, t.ID)
	}
	sorted := sectionsByDuration(t.Sections)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(sorted) {
		offset = len(sorted) - 1
	}
	return sorted[offset], nil
}

// SectionRange returns the start and end times spanning sections
// [from, to] inclusive.
func (t *Track) SectionRange(from, to int) (float64, float64, error) {
	if from < 0 || to >= len(t.Sections) || from > to {
		return 0, 0, fmt.Errorf("%w: %d..%d of %d", ErrNoSection, from, to, len(t.Sections))
	}
	return t.Sections[from].Start, t.Sections[to].End, nil
}

// MeasureRange returns the start and end times spanning measures
// [from, to) on the grid.
func (t *Track) MeasureRange(from, to int) (float64, float64, error) {
	if from < 0 || to >= len(t.Measures) || from >= to {
		return 0, 0, fmt.Errorf("measure range %d..%d out of grid of %d", from, to, len(t.Measures))
	}
	return t.Measures[from], t.Measures[to], nil
}

// StemPath returns the path of a stem, or ErrNoStem.
func (t *Track) StemPath(stemType string) (string, error) {
	path, ok := t.Stems[stemType]
	if !ok || path == "" {
		return "", fmt.Errorf("%w: %s for %s", ErrNoStem, stemType, t.ID)
	}
	return path, nil
}
