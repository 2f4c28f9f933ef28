package util

import (
	"errors"
	"fmt"
	"path/filepath"

	"mashsong/analysis"
	"mashsong/mash"
	"mashsong/stems"
)

// LoadTrack assembles a mash.Track for a library ID: row from the
// database, analysis from the database (falling back to the info JSON
// cache), and whatever stems exist on disk.
func LoadTrack(db *Database, dataDir, id string) (*mash.Track, error) {
	rec, ok := db.GetTrack(id)
	if !ok {
		return nil, fmt.Errorf("track %s not in library", id)
	}

	data, err := db.GetAnalysis(id)
	if errors.Is(err, analysis.ErrNoAnalysis) {
		data, err = analysis.LoadAnalysis(infoDir(dataDir), id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading analysis for %s: %w", id, err)
	}

	title, artist := id, ""
	if rec.Title != nil {
		title = *rec.Title
	}
	if rec.Artist != nil {
		artist = *rec.Artist
	}
	return mash.NewTrack(id, title, artist, data, stems.Discover(dataDir, id)), nil
}

func infoDir(dataDir string) string {
	return filepath.Join(dataDir, "info")
}
