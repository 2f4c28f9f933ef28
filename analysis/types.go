package analysis

// TrackData is the full audio-analysis document for one track. The JSON
// layout matches the Spotify audio-analysis schema, so documents cached
// on disk and documents fetched live decode identically.
type TrackData struct {
	Track    TrackSummary `json:"track"`
	Bars     []Marker     `json:"bars"`
	Beats    []Marker     `json:"beats"`
	Sections []Section    `json:"sections"`
	Segments []Segment    `json:"segments"`
}

// TrackSummary is the whole-track portion of an analysis document.
type TrackSummary struct {
	Duration        float64 `json:"duration"`
	Tempo           float64 `json:"tempo"`
	TempoConfidence float64 `json:"tempo_confidence"`
	Key             int     `json:"key"`
	KeyConfidence   float64 `json:"key_confidence"`
	Mode            int     `json:"mode"`
	ModeConfidence  float64 `json:"mode_confidence"`
	TimeSignature   int     `json:"time_signature"`
}

// Marker is a single bar, beat, or tatum interval.
type Marker struct {
	Start      float64 `json:"start"`
	Duration   float64 `json:"duration"`
	Confidence float64 `json:"confidence"`
}

// Section is one structural span (verse, chorus, bridge) with its own
// tempo and key estimates.
type Section struct {
	Start                   float64 `json:"start"`
	Duration                float64 `json:"duration"`
	Confidence              float64 `json:"confidence"`
	Loudness                float64 `json:"loudness"`
	Tempo                   float64 `json:"tempo"`
	TempoConfidence         float64 `json:"tempo_confidence"`
	Key                     int     `json:"key"`
	KeyConfidence           float64 `json:"key_confidence"`
	Mode                    int     `json:"mode"`
	ModeConfidence          float64 `json:"mode_confidence"`
	TimeSignature           int     `json:"time_signature"`
	TimeSignatureConfidence float64 `json:"time_signature_confidence"`
}

// Segment is a short onset-level interval. Only the loudness fields are
// used, for downbeat detection.
type Segment struct {
	Start           float64 `json:"start"`
	Duration        float64 `json:"duration"`
	LoudnessStart   float64 `json:"loudness_start"`
	LoudnessMax     float64 `json:"loudness_max"`
	LoudnessMaxTime float64 `json:"loudness_max_time"`
}
