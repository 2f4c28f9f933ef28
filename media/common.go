package media

import (
	"regexp"
	"strings"
)

var youtubeURLPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)
var youtubeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ParseVideoInput accepts a YouTube URL or raw 11-character video ID
// and returns the video ID, or "" when the input is neither.
func ParseVideoInput(input string) string {
	if match := youtubeURLPattern.FindStringSubmatch(input); match != nil {
		return match[1]
	}
	if youtubeIDPattern.MatchString(input) {
		return input
	}
	return ""
}

var trackIDStrip = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// TrackID builds the compact library ID for a title/artist pair:
// title-cased words with everything non-alphanumeric removed, e.g.
// "Seven Nation Army" / "The White Stripes" becomes
// "SevenNationArmyTheWhiteStripes".
func TrackID(title, artist string) string {
	return compactName(title) + compactName(artist)
}

func compactName(s string) string {
	var b strings.Builder
	for _, word := range strings.Fields(s) {
		word = trackIDStrip.ReplaceAllString(word, "")
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		if len(word) > 1 {
			b.WriteString(word[1:])
		}
	}
	return b.String()
}
