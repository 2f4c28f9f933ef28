package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"mashsong/logger"
	"mashsong/util"
)

var ErrNoResults = errors.New("no search results")

// SearchResult is the subset of yt-dlp metadata the pipeline needs.
type SearchResult struct {
	ID       string
	Title    string
	Duration float64
}

// Downloader fetches source audio with yt-dlp and normalizes it to wav
// with ffmpeg. Intermediates go to DataDir/download, finished source
// wavs to DataDir/src.
type Downloader struct {
	Ytdlp      string
	FFmpeg     string
	DataDir    string
	SampleRate int

	// MinFreeBytes aborts downloads when the data dir's filesystem has
	// less free space than this. Zero disables the check.
	MinFreeBytes uint64

	log *zap.Logger
}

// NewDownloader returns a downloader using the given tool binaries.
func NewDownloader(ytdlp, ffmpeg, dataDir string, sampleRate int, minFreeBytes uint64) *Downloader {
	return &Downloader{
		Ytdlp:        ytdlp,
		FFmpeg:       ffmpeg,
		DataDir:      dataDir,
		SampleRate:   sampleRate,
		MinFreeBytes: minFreeBytes,
		log:          logger.Named("media"),
	}
}

// SearchAudio runs a yt-dlp search and returns the top hit.
func (d *Downloader) SearchAudio(ctx context.Context, query string) (*SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.Ytdlp,
		"--dump-json",
		"--no-playlist",
		"--default-search", "ytsearch1",
		query)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp search %q: %w", query, err)
	}
	return parseSearchOutput(output)
}

func parseSearchOutput(output []byte) (*SearchResult, error) {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, ErrNoResults
	}

	var info struct {
		ID       string  `json:"id"`
		Title    string  `json:"title"`
		Duration float64 `json:"duration"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &info); err != nil {
		return nil, fmt.Errorf("parsing yt-dlp output: %w", err)
	}
	if info.ID == "" {
		return nil, ErrNoResults
	}
	return &SearchResult{ID: info.ID, Title: info.Title, Duration: info.Duration}, nil
}

// DownloadAudio fetches the best audio stream for a YouTube video ID
// into the download dir and returns the file path. Existing downloads
// are reused.
func (d *Downloader) DownloadAudio(ctx context.Context, videoID string) (string, error) {
	if err := d.checkFreeSpace(); err != nil {
		return "", err
	}

	downloadDir := filepath.Join(d.DataDir, "download")
	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		return "", err
	}
	outPath := filepath.Join(downloadDir, videoID+".m4a")
	if _, err := os.Stat(outPath); err == nil {
		d.log.Info("download exists, skipping", zap.String("path", outPath))
		return outPath, nil
	}

	cmd := exec.CommandContext(ctx, d.Ytdlp,
		"-f", "bestaudio[ext=m4a]/bestaudio",
		"--no-playlist",
		"-o", outPath,
		fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("yt-dlp download %s: %w", videoID, err)
	}
	return outPath, nil
}

// EnsureWav converts a downloaded audio file into the canonical source
// wav under DataDir/src, keyed by the library track ID. The
// intermediate download is removed after a successful conversion.
func (d *Downloader) EnsureWav(ctx context.Context, downloadPath, trackID string) (string, error) {
	srcDir := filepath.Join(d.DataDir, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		return "", err
	}
	wavPath := filepath.Join(srcDir, trackID+".wav")
	if _, err := os.Stat(wavPath); err == nil {
		d.log.Info("source wav exists, skipping", zap.String("path", wavPath))
		return wavPath, nil
	}

	cmd := exec.CommandContext(ctx, d.FFmpeg,
		"-y",
		"-i", downloadPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprintf("%d", d.SampleRate),
		"-ac", "2",
		wavPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("ffmpeg wav conversion: %w: %s", err, out)
	}

	if err := os.Remove(downloadPath); err != nil {
		d.log.Warn("could not remove intermediate download", zap.Error(err))
	}
	return wavPath, nil
}

// FetchTrackAudio searches, downloads, and converts in one step,
// returning the source wav path.
func (d *Downloader) FetchTrackAudio(ctx context.Context, query, trackID string) (string, error) {
	result, err := d.SearchAudio(ctx, query)
	if err != nil {
		return "", err
	}
	d.log.Info("found audio",
		zap.String("video_id", result.ID),
		zap.String("title", result.Title),
		zap.Float64("duration", result.Duration))

	downloadPath, err := d.DownloadAudio(ctx, result.ID)
	if err != nil {
		return "", err
	}
	return d.EnsureWav(ctx, downloadPath, trackID)
}

func (d *Downloader) checkFreeSpace() error {
	if d.MinFreeBytes == 0 {
		return nil
	}
	_, _, free, err := util.Usage(d.DataDir)
	if err != nil {
		// A stat failure should not block the download itself.
		d.log.Warn("disk usage check failed", zap.Error(err))
		return nil
	}
	if free < d.MinFreeBytes {
		return fmt.Errorf("only %s free under %s, need at least %s",
			util.Pretty(free), d.DataDir, util.Pretty(d.MinFreeBytes))
	}
	return nil
}
