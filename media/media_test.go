package media

import (
	"errors"
	"testing"
)

func TestParseSearchOutput(t *testing.T) {
	output := []byte(`{"id": "dQw4w9WgXcQ", "title": "Some Song (Official Video)", "duration": 213.0}`)
	result, err := parseSearchOutput(output)
	if err != nil {
		t.Fatalf("parseSearchOutput: %v", err)
	}
	if result.ID != "dQw4w9WgXcQ" {
		t.Errorf("id = %q, want dQw4w9WgXcQ", result.ID)
	}
	if result.Title != "Some Song (Official Video)" {
		t.Errorf("title = %q", result.Title)
	}
	if result.Duration != 213.0 {
		t.Errorf("duration = %v, want 213", result.Duration)
	}
}

func TestParseSearchOutputMultiline(t *testing.T) {
	// yt-dlp can emit one JSON object per line; only the first hit counts.
	output := []byte("{\"id\": \"aaaaaaaaaaa\", \"title\": \"First\"}\n{\"id\": \"bbbbbbbbbbb\", \"title\": \"Second\"}\n")
	result, err := parseSearchOutput(output)
	if err != nil {
		t.Fatalf("parseSearchOutput: %v", err)
	}
	if result.ID != "aaaaaaaaaaa" {
		t.Errorf("id = %q, want first line's id", result.ID)
	}
}

func TestParseSearchOutputEmpty(t *testing.T) {
	if _, err := parseSearchOutput([]byte("  \n")); !errors.Is(err, ErrNoResults) {
		t.Errorf("err = %v, want ErrNoResults", err)
	}
	if _, err := parseSearchOutput([]byte(`{"title": "no id"}`)); !errors.Is(err, ErrNoResults) {
		t.Errorf("err = %v, want ErrNoResults for missing id", err)
	}
}

func TestParseVideoInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"not a video", ""},
		{"tooshort", ""},
	}

	for _, tt := range tests {
		if got := ParseVideoInput(tt.input); got != tt.want {
			t.Errorf("ParseVideoInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTrackID(t *testing.T) {
	tests := []struct {
		title, artist, want string
	}{
		{"Seven Nation Army", "The White Stripes", "SevenNationArmyTheWhiteStripes"},
		{"bad guy", "Billie Eilish", "BadGuyBillieEilish"},
		{"Don't Stop Me Now!", "", "DontStopMeNow"},
	}

	for _, tt := range tests {
		if got := TrackID(tt.title, tt.artist); got != tt.want {
			t.Errorf("TrackID(%q, %q) = %q, want %q", tt.title, tt.artist, got, tt.want)
		}
	}
}
