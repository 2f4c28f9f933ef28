package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mashsong/analysis"
)

func testDB(t *testing.T) *Database {
	t.Helper()
	db, err := InitDatabase(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestSaveAndGetTrack(t *testing.T) {
	db := testDB(t)

	rec := &TrackRecord{
		ID:     "SongOneArtist",
		Title:  strPtr("Song One"),
		Artist: strPtr("Artist"),
		BPM:    floatPtr(120.5),
	}
	require.NoError(t, db.SaveTrack(rec))

	got, ok := db.GetTrack("SongOneArtist")
	require.True(t, ok)
	assert.Equal(t, "Song One", *got.Title)
	assert.Equal(t, "Artist", *got.Artist)
	assert.Equal(t, 120.5, *got.BPM)
	assert.Nil(t, got.Key)
	assert.False(t, got.Separated)
	assert.False(t, got.FetchedAt.IsZero())

	_, ok = db.GetTrack("missing")
	assert.False(t, ok)
}

func TestSaveTrackUpsert(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.SaveTrack(&TrackRecord{ID: "tr1", Title: strPtr("old")}))
	require.NoError(t, db.SaveTrack(&TrackRecord{ID: "tr1", Title: strPtr("new"), Separated: true}))

	got, ok := db.GetTrack("tr1")
	require.True(t, ok)
	assert.Equal(t, "new", *got.Title)
	assert.True(t, got.Separated)

	all, err := db.GetAllTracks()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindTracksByPattern(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.SaveTrack(&TrackRecord{ID: "SevenNationArmy", Title: strPtr("Seven Nation Army"), Artist: strPtr("The White Stripes")}))
	require.NoError(t, db.SaveTrack(&TrackRecord{ID: "BadGuy", Title: strPtr("bad guy"), Artist: strPtr("Billie Eilish")}))

	found, err := db.FindTracksByPattern("nation")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "SevenNationArmy", found[0].ID)

	found, err = db.FindTracksByPattern("billie")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "BadGuy", found[0].ID)

	found, err = db.FindTracksByPattern("nomatch")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestMarkSeparatedAndDelete(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.SaveTrack(&TrackRecord{ID: "tr1"}))
	require.NoError(t, db.MarkSeparated("tr1"))

	got, ok := db.GetTrack("tr1")
	require.True(t, ok)
	assert.True(t, got.Separated)

	require.NoError(t, db.DeleteTrack("tr1"))
	_, ok = db.GetTrack("tr1")
	assert.False(t, ok)
}

func TestAnalysisRoundTrip(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SaveTrack(&TrackRecord{ID: "tr1"}))

	data := &analysis.TrackData{
		Track: analysis.TrackSummary{Duration: 180, Tempo: 128, Key: 7, Mode: 1},
		Bars:  []analysis.Marker{{Start: 0, Duration: 1.875}},
	}
	require.NoError(t, db.SaveAnalysis("tr1", data))

	// Summary fields are lifted onto the row.
	rec, ok := db.GetTrack("tr1")
	require.True(t, ok)
	assert.Equal(t, 128.0, *rec.BPM)
	assert.Equal(t, 7, *rec.Key)
	assert.Equal(t, 1, *rec.Mode)
	assert.Equal(t, 180.0, *rec.Duration)

	got, err := db.GetAnalysis("tr1")
	require.NoError(t, err)
	assert.Equal(t, 128.0, got.Track.Tempo)
	require.Len(t, got.Bars, 1)
	assert.Equal(t, 1.875, got.Bars[0].Duration)

	// Second read is served from the LRU.
	again, err := db.GetAnalysis("tr1")
	require.NoError(t, err)
	assert.Same(t, got, again)
}

func TestGetAnalysisMissing(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SaveTrack(&TrackRecord{ID: "tr1"}))

	_, err := db.GetAnalysis("tr1")
	assert.ErrorIs(t, err, analysis.ErrNoAnalysis)

	_, err = db.GetAnalysis("never-saved")
	assert.ErrorIs(t, err, analysis.ErrNoAnalysis)
}
