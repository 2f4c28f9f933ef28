package mash

import (
	"testing"

	"mashsong/analysis"
)

func markersEvery(interval float64, count int) []analysis.Marker {
	markers := make([]analysis.Marker, count)
	for i := range markers {
		markers[i] = analysis.Marker{Start: float64(i) * interval, Duration: interval}
	}
	return markers
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBarsToMeasures(t *testing.T) {
	// Bars every 2s over 20s: measures at every 4th bar plus the
	// duration sentinel.
	bars := markersEvery(2.0, 10)
	got := BarsToMeasures(bars, 20.0)
	want := []float64{0, 8, 16, 20}
	if !floatsEqual(got, want) {
		t.Errorf("BarsToMeasures = %v, want %v", got, want)
	}
}

func TestBarsToMeasuresEmpty(t *testing.T) {
	got := BarsToMeasures(nil, 30.0)
	if !floatsEqual(got, []float64{30.0}) {
		t.Errorf("BarsToMeasures(nil) = %v, want just the duration", got)
	}
}

func TestBeatsToMeasures(t *testing.T) {
	beats := markersEvery(0.5, 40)
	got := BeatsToMeasures(beats, 20.0)
	want := []float64{0, 8, 16, 20}
	if !floatsEqual(got, want) {
		t.Errorf("BeatsToMeasures = %v, want %v", got, want)
	}
}

func TestMeasuresFromDownbeat(t *testing.T) {
	// 120 BPM, beats every 0.5s offset by 0.25s. The loudest onset in
	// the first sixteen beats sits at 1.3s, so the grid anchors on the
	// first beat at or after it (1.75s) and steps sixteen beats.
	data := &analysis.TrackData{
		Track: analysis.TrackSummary{Tempo: 120, Duration: 30},
		Segments: []analysis.Segment{
			{Start: 0.2, LoudnessMax: -20},
			{Start: 1.3, LoudnessMax: -4},
			{Start: 3.0, LoudnessMax: -15},
			{Start: 9.5, LoudnessMax: -1}, // past the search window
		},
	}
	data.Beats = make([]analysis.Marker, 40)
	for i := range data.Beats {
		data.Beats[i] = analysis.Marker{Start: 0.25 + float64(i)*0.5}
	}

	got := MeasuresFromDownbeat(data)
	want := []float64{1.75, 9.75, 17.75, 30}
	if !floatsEqual(got, want) {
		t.Errorf("MeasuresFromDownbeat = %v, want %v", got, want)
	}
}

func TestMeasuresFromDownbeatNoBeats(t *testing.T) {
	data := &analysis.TrackData{Track: analysis.TrackSummary{Tempo: 120}}
	if got := MeasuresFromDownbeat(data); got != nil {
		t.Errorf("MeasuresFromDownbeat with no beats = %v, want nil", got)
	}
}
