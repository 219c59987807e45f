package content

import (
	"encoding/json"
	"strings"

	"bandstand/pkg/models"
)

// Metadata is the key/value block parsed from the head of a content document.
// Keys that rendering relies on are reached through the typed accessors below;
// absent keys fall back to empty or zero values rather than failing.
type Metadata map[string]string

// Get returns the raw value for a key, or "" when absent
func (m Metadata) Get(key string) string {
	return m[key]
}

// Title returns the document title, or "" when absent
func (m Metadata) Title() string {
	return m["title"]
}

// ReleaseDate returns the release_date value, or "" when absent
func (m Metadata) ReleaseDate() string {
	return m["release_date"]
}

// Featured reports whether the document marks itself as featured
func (m Metadata) Featured() bool {
	switch strings.ToLower(strings.TrimSpace(m["featured"])) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// Tracks decodes the tracks value, a JSON array of track objects. A missing
// or malformed value yields an empty list. Track numbers follow list order.
func (m Metadata) Tracks() []models.Track {
	raw := m["tracks"]
	if raw == "" {
		return nil
	}

	var tracks []models.Track
	if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
		return nil
	}

	for i := range tracks {
		tracks[i].Number = i + 1
	}
	return tracks
}

// Document is the result of parsing a content document: the metadata block
// plus the converted markup of everything after it. Immutable once produced.
type Document struct {
	Metadata Metadata
	Content  string // converted markup, or the raw body if conversion failed
}
