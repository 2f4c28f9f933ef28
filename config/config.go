package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, loaded from environment
// variables (optionally via a .env file in the working directory).
type Config struct {
	Env string

	// Spotify client-credentials pair used for track analysis lookups.
	// Optional: tracks already cached under the info dir load without it.
	SpotifyClientID     string
	SpotifyClientSecret string

	// DataDir is the root of the on-disk library
	// (info/, download/, src/, stems/, mash/, export/).
	DataDir string

	// External tool binaries.
	YtdlpBin      string
	FFmpegBin     string
	FFprobeBin    string
	FFplayBin     string
	RubberbandBin string
	SeparatorBin  string

	SampleRate int
	Port       int

	// MinFreeGB is the download preflight threshold.
	MinFreeGB int
}

// Load reads configuration from the environment. A missing .env file
// is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                 getEnv("MASHSONG_ENV", "development"),
		SpotifyClientID:     getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getEnv("SPOTIFY_CLIENT_SECRET", ""),
		DataDir:             getEnv("MASHSONG_DATA_DIR", "./data"),
		YtdlpBin:            getEnv("YTDLP_BIN", "yt-dlp"),
		FFmpegBin:           getEnv("FFMPEG_BIN", "ffmpeg"),
		FFprobeBin:          getEnv("FFPROBE_BIN", "ffprobe"),
		FFplayBin:           getEnv("FFPLAY_BIN", "ffplay"),
		RubberbandBin:       getEnv("RUBBERBAND_BIN", "rubberband"),
		SeparatorBin:        getEnv("SEPARATOR_BIN", "demucs"),
		SampleRate:          getEnvInt("MASHSONG_SAMPLE_RATE", 44100),
		Port:                getEnvInt("MASHSONG_PORT", 3005),
		MinFreeGB:           getEnvInt("MASHSONG_MIN_FREE_GB", 2),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("MASHSONG_DATA_DIR cannot be empty")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("MASHSONG_SAMPLE_RATE must be positive, got %d", c.SampleRate)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("MASHSONG_PORT must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// HasSpotify reports whether API credentials are configured.
func (c *Config) HasSpotify() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
