package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"mashsong/logger"
)

var (
	ErrTrackNotFound = errors.New("no track matched the search query")
	ErrNoAnalysis    = errors.New("no analysis available for track")
)

// Client fetches track metadata and audio-analysis documents from the
// Spotify Web API and caches them as JSON under the info directory.
type Client struct {
	api     *spotify.Client
	infoDir string
	log     *zap.Logger
}

// NewClient authenticates with the client-credentials flow and returns
// a ready client. The token is bound to ctx.
func NewClient(ctx context.Context, clientID, clientSecret, infoDir string) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("spotify credentials not configured")
	}

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := conf.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &Client{
		api:     spotify.New(httpClient),
		infoDir: infoDir,
		log:     logger.Named("analysis"),
	}, nil
}

// SearchTrack returns the Spotify ID, title, and primary artist of the
// top search result for a title/artist pair.
func (c *Client) SearchTrack(ctx context.Context, title, artist string) (string, string, string, error) {
	query := fmt.Sprintf("track:%s", title)
	if artist != "" {
		query += fmt.Sprintf(" artist:%s", artist)
	}

	res, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(1))
	if err != nil {
		return "", "", "", fmt.Errorf("spotify search: %w", err)
	}
	if res.Tracks == nil || len(res.Tracks.Tracks) == 0 {
		return "", "", "", fmt.Errorf("%w: %q", ErrTrackNotFound, query)
	}

	track := res.Tracks.Tracks[0]
	artistName := ""
	if len(track.Artists) > 0 {
		artistName = track.Artists[0].Name
	}
	c.log.Info("matched track",
		zap.String("id", string(track.ID)),
		zap.String("title", track.Name),
		zap.String("artist", artistName))
	return string(track.ID), track.Name, artistName, nil
}

// GetAnalysis fetches the audio analysis for a Spotify track ID. The
// result is round-tripped through JSON so the in-memory view carries
// exactly what a cached document would.
func (c *Client) GetAnalysis(ctx context.Context, spotifyID string) (*TrackData, error) {
	raw, err := c.api.GetAudioAnalysis(ctx, spotify.ID(spotifyID))
	if err != nil {
		return nil, fmt.Errorf("audio analysis for %s: %w", spotifyID, err)
	}

	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis for %s: %w", spotifyID, err)
	}
	var data TrackData
	if err := json.Unmarshal(buf, &data); err != nil {
		return nil, fmt.Errorf("decoding analysis for %s: %w", spotifyID, err)
	}
	if len(data.Beats) == 0 && len(data.Bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAnalysis, spotifyID)
	}
	return &data, nil
}

// SaveAnalysis writes an analysis document to the info directory under
// the library track ID.
func (c *Client) SaveAnalysis(trackID string, data *TrackData) error {
	if err := os.MkdirAll(c.infoDir, 0755); err != nil {
		return err
	}
	path := InfoPath(c.infoDir, trackID)
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	c.log.Info("cached analysis", zap.String("path", path))
	return nil
}

// InfoPath is the canonical cache path for a track's analysis JSON.
func InfoPath(infoDir, trackID string) string {
	return filepath.Join(infoDir, trackID+".json")
}

// LoadAnalysis reads a cached analysis document from the info directory.
func LoadAnalysis(infoDir, trackID string) (*TrackData, error) {
	path := InfoPath(infoDir, trackID)
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoAnalysis, trackID)
		}
		return nil, err
	}
	var data TrackData
	if err := json.Unmarshal(buf, &data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &data, nil
}
