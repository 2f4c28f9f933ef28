package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mashsong/analysis"
	"mashsong/audio"
	"mashsong/config"
	"mashsong/media"
	"mashsong/stems"
	"mashsong/util"
)

func newDownloader(cfg *config.Config) *media.Downloader {
	return media.NewDownloader(cfg.YtdlpBin, cfg.FFmpegBin, cfg.DataDir,
		cfg.SampleRate, uint64(cfg.MinFreeGB)<<30)
}

// handleFetchCommand runs the whole acquisition pipeline for one song:
// analysis lookup, audio download, wav conversion, and stem separation.
func handleFetchCommand(cfg *config.Config, db *util.Database, args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	artist := fs.String("artist", "", "artist name to narrow the search")
	noSeparate := fs.Bool("no-separate", false, "skip stem separation")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: mashsong fetch <title> [-artist name] [-no-separate]")
		fmt.Println("Example: mashsong fetch \"Seven Nation Army\" -artist \"The White Stripes\"")
		os.Exit(1)
	}
	title := strings.Join(fs.Args(), " ")

	if !cfg.HasSpotify() {
		fmt.Println("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set to fetch analysis")
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := analysis.NewClient(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret,
		filepath.Join(cfg.DataDir, "info"))
	if err != nil {
		fmt.Printf("Analysis client error: %v\n", err)
		os.Exit(1)
	}

	spotifyID, trackTitle, trackArtist, err := client.SearchTrack(ctx, title, *artist)
	if err != nil {
		fmt.Printf("Search error: %v\n", err)
		os.Exit(1)
	}
	id := media.TrackID(trackTitle, trackArtist)
	fmt.Printf("Matched: %s - %s (%s)\n", trackArtist, trackTitle, id)

	data, err := client.GetAnalysis(ctx, spotifyID)
	if err != nil {
		fmt.Printf("Analysis error: %v\n", err)
		os.Exit(1)
	}
	if err := client.SaveAnalysis(id, data); err != nil {
		fmt.Printf("Warning: could not cache analysis: %v\n", err)
	}

	rec := &util.TrackRecord{
		ID:        id,
		Title:     &trackTitle,
		Artist:    &trackArtist,
		SpotifyID: &spotifyID,
	}
	if err := db.SaveTrack(rec); err != nil {
		fmt.Printf("Database error: %v\n", err)
		os.Exit(1)
	}
	if err := db.SaveAnalysis(id, data); err != nil {
		fmt.Printf("Database error: %v\n", err)
		os.Exit(1)
	}

	wavPath, err := newDownloader(cfg).FetchTrackAudio(ctx,
		fmt.Sprintf("%s %s", trackTitle, trackArtist), id)
	if err != nil {
		fmt.Printf("Download error: %v\n", err)
		os.Exit(1)
	}
	printWavInfo(cfg, wavPath)

	if !*noSeparate {
		separateTrack(cfg, db, id)
	}
	fmt.Printf("Fetched %s (%.1f BPM, %s)\n", id, data.Track.Tempo,
		keyNameFor(data.Track.Key, data.Track.Mode))
}

// handleDlCommand downloads audio only. Accepts a library track ID, or
// a YouTube URL/video ID with an optional library ID to file it under.
func handleDlCommand(cfg *config.Config, db *util.Database, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: mashsong dl <id|youtube-url> [library-id]")
		os.Exit(1)
	}
	input := args[0]
	ctx := context.Background()
	dl := newDownloader(cfg)

	if videoID := media.ParseVideoInput(input); videoID != "" {
		trackID := videoID
		if len(args) > 1 {
			trackID = args[1]
		}
		downloadPath, err := dl.DownloadAudio(ctx, videoID)
		if err != nil {
			fmt.Printf("Download error: %v\n", err)
			os.Exit(1)
		}
		wavPath, err := dl.EnsureWav(ctx, downloadPath, trackID)
		if err != nil {
			fmt.Printf("Conversion error: %v\n", err)
			os.Exit(1)
		}
		printWavInfo(cfg, wavPath)
		return
	}

	rec, ok := db.GetTrack(input)
	if !ok {
		fmt.Printf("Track %s not in library (run fetch first)\n", input)
		os.Exit(1)
	}
	query := input
	if rec.Title != nil && rec.Artist != nil {
		query = fmt.Sprintf("%s %s", *rec.Title, *rec.Artist)
	}
	wavPath, err := dl.FetchTrackAudio(ctx, query, input)
	if err != nil {
		fmt.Printf("Download error: %v\n", err)
		os.Exit(1)
	}
	printWavInfo(cfg, wavPath)
}

func printWavInfo(cfg *config.Config, wavPath string) {
	if duration, err := audio.Duration(context.Background(), cfg.FFprobeBin, wavPath); err == nil {
		fmt.Printf("Source audio: %s (%.1fs)\n", wavPath, duration)
		return
	}
	fmt.Printf("Source audio: %s\n", wavPath)
}

// handleSeparateCommand splits a downloaded track into stems.
func handleSeparateCommand(cfg *config.Config, db *util.Database, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: mashsong separate <id>")
		os.Exit(1)
	}
	separateTrack(cfg, db, args[0])
}

func separateTrack(cfg *config.Config, db *util.Database, id string) {
	sep := stems.NewSeparator(cfg.SeparatorBin, cfg.DataDir)
	fmt.Printf("Separating %s (this can take a while)...\n", id)
	if err := sep.Separate(context.Background(), id); err != nil {
		fmt.Printf("Separation error: %v\n", err)
		os.Exit(1)
	}
	if err := db.MarkSeparated(id); err != nil {
		fmt.Printf("Warning: could not flag separation: %v\n", err)
	}
	for stemType, path := range stems.Discover(cfg.DataDir, id) {
		fmt.Printf("  %s: %s\n", stemType, path)
	}
}
