package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Track represents one entry of an album's declared track list
type Track struct {
	Number   int     `json:"number"` // 1-based position within the album
	Title    string  `json:"title"`
	Duration float64 `json:"duration"` // in seconds
	File     string  `json:"file"`
	Lyrics   string  `json:"lyrics,omitempty"` // lyrics document, empty when none declared
}

// HasLyrics reports whether the track declares a lyrics document
func (t Track) HasLyrics() bool {
	return t.Lyrics != ""
}

// UnmarshalJSON accepts the duration either as a number of seconds or as a
// "m:ss" string, since both forms appear in hand-written album documents.
func (t *Track) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title    string          `json:"title"`
		Duration json.RawMessage `json:"duration"`
		File     string          `json:"file"`
		Lyrics   string          `json:"lyrics"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.Title = raw.Title
	t.File = raw.File
	t.Lyrics = raw.Lyrics
	t.Duration = parseDuration(raw.Duration)
	return nil
}

// parseDuration decodes a raw JSON duration value; malformed values become 0.
func parseDuration(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var seconds float64
	if err := json.Unmarshal(raw, &seconds); err == nil {
		if seconds < 0 {
			return 0
		}
		return seconds
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0
	}

	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 {
		return 0
	}
	mins, err := strconv.Atoi(parts[0])
	if err != nil || mins < 0 {
		return 0
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil || secs < 0 || secs > 59 {
		return 0
	}
	return float64(mins*60 + secs)
}
