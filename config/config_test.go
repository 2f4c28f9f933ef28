package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "yt-dlp", cfg.YtdlpBin)
	assert.Equal(t, "ffmpeg", cfg.FFmpegBin)
	assert.Equal(t, "rubberband", cfg.RubberbandBin)
	assert.Equal(t, "demucs", cfg.SeparatorBin)
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, 3005, cfg.Port)
	assert.False(t, cfg.HasSpotify())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MASHSONG_DATA_DIR", "/srv/mash")
	t.Setenv("MASHSONG_PORT", "8080")
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	t.Setenv("SEPARATOR_BIN", "audio-separator")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/mash", cfg.DataDir)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "audio-separator", cfg.SeparatorBin)
	assert.True(t, cfg.HasSpotify())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("MASHSONG_PORT", "99999")
	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("MASHSONG_SAMPLE_RATE", "not-a-number")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 44100, cfg.SampleRate)
}
