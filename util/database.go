package util

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"

	"mashsong/analysis"
)

// TrackRecord is the library row for one fetched track. Analysis
// fields are pointers so tracks fetched before analysis ran stay
// representable.
type TrackRecord struct {
	ID        string   `json:"id"`
	Title     *string  `json:"title"`
	Artist    *string  `json:"artist"`
	SpotifyID *string  `json:"spotify_id"`
	BPM       *float64 `json:"bpm"`
	Key       *int     `json:"key"`
	Mode      *int     `json:"mode"`
	Duration  *float64 `json:"duration"`
	Separated bool     `json:"separated"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Database wraps the library sqlite file with higher-level methods and
// keeps an LRU of decoded analysis documents in front of the JSON
// column.
type Database struct {
	db            *sql.DB
	analysisCache *lru.Cache[string, *analysis.TrackData]
}

const analysisCacheSize = 32

// InitDatabase opens (creating if needed) the library database under
// dataDir.
func InitDatabase(dataDir string) (*Database, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %v", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "mashsong.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		title TEXT,
		artist TEXT,
		spotify_id TEXT,
		bpm REAL,
		key INTEGER,
		mode INTEGER,
		duration REAL,
		separated BOOLEAN DEFAULT 0,
		fetched_at INTEGER NOT NULL,
		analysis TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_tracks_fetched_at ON tracks(fetched_at);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %v", err)
	}

	cache, err := lru.New[string, *analysis.TrackData](analysisCacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Database{db: db, analysisCache: cache}, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

const trackColumns = "id, title, artist, spotify_id, bpm, key, mode, duration, separated, fetched_at"

func scanTrack(row interface{ Scan(...any) error }) (*TrackRecord, error) {
	var rec TrackRecord
	var fetchedAt int64
	err := row.Scan(&rec.ID, &rec.Title, &rec.Artist, &rec.SpotifyID,
		&rec.BPM, &rec.Key, &rec.Mode, &rec.Duration, &rec.Separated, &fetchedAt)
	if err != nil {
		return nil, err
	}
	rec.FetchedAt = time.Unix(fetchedAt, 0)
	return &rec, nil
}

// SaveTrack upserts a track row.
func (d *Database) SaveTrack(rec *TrackRecord) error {
	if rec.FetchedAt.IsZero() {
		rec.FetchedAt = time.Now()
	}
	query := `INSERT INTO tracks (` + trackColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			spotify_id = excluded.spotify_id,
			bpm = excluded.bpm,
			key = excluded.key,
			mode = excluded.mode,
			duration = excluded.duration,
			separated = excluded.separated,
			fetched_at = excluded.fetched_at`
	_, err := d.db.Exec(query, rec.ID, rec.Title, rec.Artist, rec.SpotifyID,
		rec.BPM, rec.Key, rec.Mode, rec.Duration, rec.Separated, rec.FetchedAt.Unix())
	return err
}

// GetTrack retrieves a track by library ID.
func (d *Database) GetTrack(id string) (*TrackRecord, bool) {
	row := d.db.QueryRow(`SELECT `+trackColumns+` FROM tracks WHERE id = ?`, id)
	rec, err := scanTrack(row)
	if err != nil {
		return nil, false
	}
	return rec, true
}

// GetAllTracks returns every track, newest first.
func (d *Database) GetAllTracks() ([]TrackRecord, error) {
	return d.queryTracks(`SELECT ` + trackColumns + ` FROM tracks ORDER BY fetched_at DESC`)
}

// FindTracksByPattern returns tracks whose id, title, or artist
// contains the pattern, case-insensitively.
func (d *Database) FindTracksByPattern(pattern string) ([]TrackRecord, error) {
	search := "%" + strings.ToLower(pattern) + "%"
	return d.queryTracks(`SELECT `+trackColumns+` FROM tracks
		WHERE LOWER(id) LIKE ? OR LOWER(title) LIKE ? OR LOWER(artist) LIKE ?
		ORDER BY fetched_at DESC`, search, search, search)
}

func (d *Database) queryTracks(query string, args ...any) ([]TrackRecord, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []TrackRecord
	for rows.Next() {
		rec, err := scanTrack(rows)
		if err != nil {
			continue
		}
		results = append(results, *rec)
	}
	return results, rows.Err()
}

// DeleteTrack removes a track row and evicts its cached analysis.
func (d *Database) DeleteTrack(id string) error {
	d.analysisCache.Remove(id)
	_, err := d.db.Exec(`DELETE FROM tracks WHERE id = ?`, id)
	return err
}

// MarkSeparated flags a track's stems as rendered.
func (d *Database) MarkSeparated(id string) error {
	_, err := d.db.Exec(`UPDATE tracks SET separated = 1 WHERE id = ?`, id)
	return err
}

// SaveAnalysis stores the raw analysis document on the track row and
// lifts the summary fields (bpm, key, mode, duration) into their
// columns.
func (d *Database) SaveAnalysis(id string, data *analysis.TrackData) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`UPDATE tracks SET
			analysis = ?, bpm = ?, key = ?, mode = ?, duration = ?
		WHERE id = ?`,
		string(buf), data.Track.Tempo, data.Track.Key, data.Track.Mode, data.Track.Duration, id)
	if err != nil {
		return err
	}
	d.analysisCache.Add(id, data)
	return nil
}

// GetAnalysis returns the analysis document for a track, decoding the
// stored JSON on cache miss.
func (d *Database) GetAnalysis(id string) (*analysis.TrackData, error) {
	if data, ok := d.analysisCache.Get(id); ok {
		return data, nil
	}

	var raw sql.NullString
	err := d.db.QueryRow(`SELECT analysis FROM tracks WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows || (err == nil && !raw.Valid) {
		return nil, fmt.Errorf("%w: %s", analysis.ErrNoAnalysis, id)
	}
	if err != nil {
		return nil, err
	}

	var data analysis.TrackData
	if err := json.Unmarshal([]byte(raw.String), &data); err != nil {
		return nil, fmt.Errorf("decoding stored analysis for %s: %w", id, err)
	}
	d.analysisCache.Add(id, &data)
	return &data, nil
}
