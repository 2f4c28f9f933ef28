package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"mashsong/config"
	"mashsong/mash"
	"mashsong/stems"
	"mashsong/util"
)

func keyNameFor(key, mode int) string {
	return mash.KeyName(key, mode)
}

func loadTrackOrExit(cfg *config.Config, db *util.Database, id string) *mash.Track {
	track, err := util.LoadTrack(db, cfg.DataDir, id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return track
}

// handleAnalyzeCommand prints a track's analysis summary.
func handleAnalyzeCommand(cfg *config.Config, db *util.Database, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: mashsong analyze <id>")
		os.Exit(1)
	}
	track := loadTrackOrExit(cfg, db, args[0])

	fmt.Printf("%s - %s\n", track.Artist, track.Title)
	fmt.Printf("  key:      %s\n", track.KeyName())
	fmt.Printf("  tempo:    %.1f BPM\n", track.BPM)
	fmt.Printf("  duration: %.1fs\n", track.Duration)
	fmt.Printf("  sections: %d\n", len(track.Sections))
	fmt.Printf("  measures: %d\n", len(track.Measures))
	if len(track.Stems) == 0 {
		fmt.Println("  stems:    none (run separate)")
	}
	for stemType, path := range track.Stems {
		fmt.Printf("  stem %s: %s (%s)\n", stemType, path,
			humanize.Bytes(uint64(util.FileSize(path))))
	}
}

// handleSectionsCommand lists a track's grid-synced sections.
func handleSectionsCommand(cfg *config.Config, db *util.Database, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: mashsong sections <id>")
		os.Exit(1)
	}
	track := loadTrackOrExit(cfg, db, args[0])

	fmt.Printf("%s: %d sections\n", track.Title, len(track.Sections))
	for _, sec := range track.Sections {
		fmt.Printf("  %2d: %7.2fs .. %7.2fs (%6.2fs)  %-9s %6.1f BPM  conf %.2f\n",
			sec.Index, sec.Start, sec.End, sec.Duration,
			mash.KeyName(sec.Key, sec.Mode), sec.Tempo, sec.Confidence)
	}
}

// handleMeasuresCommand lists a track's measure boundaries.
func handleMeasuresCommand(cfg *config.Config, db *util.Database, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: mashsong measures <id>")
		os.Exit(1)
	}
	track := loadTrackOrExit(cfg, db, args[0])

	fmt.Printf("%s: %d measures\n", track.Title, len(track.Measures))
	for i, m := range track.Measures {
		fmt.Printf("%8.2f", m)
		if (i+1)%8 == 0 {
			fmt.Println()
		}
	}
	fmt.Println()
}

// handleLsCommand prints the library, optionally filtered by pattern.
func handleLsCommand(cfg *config.Config, db *util.Database, args []string) {
	var (
		tracks []util.TrackRecord
		err    error
	)
	if len(args) > 0 {
		tracks, err = db.FindTracksByPattern(args[0])
	} else {
		tracks, err = db.GetAllTracks()
	}
	if err != nil {
		fmt.Printf("Database error: %v\n", err)
		os.Exit(1)
	}
	if len(tracks) == 0 {
		fmt.Println("Library is empty (run fetch first)")
		return
	}

	fmt.Printf("%-32s %-24s %7s %-9s %6s %5s %-10s\n",
		"ID", "TITLE", "BPM", "KEY", "SIZE", "STEMS", "FETCHED")
	for _, rec := range tracks {
		title := ""
		if rec.Title != nil {
			title = *rec.Title
		}
		bpm := "-"
		if rec.BPM != nil {
			bpm = fmt.Sprintf("%.1f", *rec.BPM)
		}
		key := "-"
		if rec.Key != nil && rec.Mode != nil {
			key = mash.KeyName(*rec.Key, *rec.Mode)
		}
		srcSize := util.FileSize(filepath.Join(cfg.DataDir, "src", rec.ID+".wav"))
		size := "-"
		if srcSize > 0 {
			size = humanize.Bytes(uint64(srcSize))
		}
		stemCount := len(stems.Discover(cfg.DataDir, rec.ID))

		fmt.Printf("%-32s %-24s %7s %-9s %6s %5d %-10s\n",
			util.TruncateString(rec.ID, 32),
			util.TruncateString(title, 24),
			bpm, key, size, stemCount,
			humanize.Time(rec.FetchedAt))
	}
}
