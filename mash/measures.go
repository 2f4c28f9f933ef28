package mash

import (
	"math"

	"mashsong/analysis"
)

// BeatsPerMeasure is the grid unit used for section alignment: four
// bars of 4/4, which is the span pop arrangements move in.
const BeatsPerMeasure = 16

// BarsToMeasures builds a measure grid from bar markers, taking every
// fourth bar start and terminating the grid with the track duration.
func BarsToMeasures(bars []analysis.Marker, duration float64) []float64 {
	measures := make([]float64, 0, len(bars)/4+2)
	for i := 0; i < len(bars); i += 4 {
		measures = append(measures, bars[i].Start)
	}
	return append(measures, duration)
}

// BeatsToMeasures builds a measure grid from beat markers, taking every
// sixteenth beat start.
func BeatsToMeasures(beats []analysis.Marker, duration float64) []float64 {
	measures := make([]float64, 0, len(beats)/BeatsPerMeasure+2)
	for i := 0; i < len(beats); i += BeatsPerMeasure {
		measures = append(measures, beats[i].Start)
	}
	return append(measures, duration)
}

// MeasuresFromDownbeat anchors the grid on the loudest onset within the
// first measure's worth of beats, then takes every sixteenth beat from
// the first beat at or after it. Useful when the bar tracking misses
// the intro downbeat.
func MeasuresFromDownbeat(data *analysis.TrackData) []float64 {
	if len(data.Beats) == 0 || data.Track.Tempo <= 0 {
		return nil
	}

	beatLength := 60.0 / data.Track.Tempo
	searchEnd := beatLength * BeatsPerMeasure

	downbeat := 0.0
	loudest := math.Inf(-1)
	for _, seg := range data.Segments {
		if seg.Start >= searchEnd {
			break
		}
		if seg.LoudnessMax > loudest {
			loudest = seg.LoudnessMax
			downbeat = seg.Start
		}
	}

	first := 0
	for i, beat := range data.Beats {
		if beat.Start >= downbeat {
			first = i
			break
		}
	}

	measures := make([]float64, 0, (len(data.Beats)-first)/BeatsPerMeasure+2)
	for i := first; i < len(data.Beats); i += BeatsPerMeasure {
		measures = append(measures, data.Beats[i].Start)
	}
	return append(measures, data.Track.Duration)
}
