package store

import (
	"path"

	"bandstand/internal/content"
	"bandstand/pkg/models"
)

// Fixed layout of the content tree. Every album lives in its own directory
// under albums/, named by the album identifier.
const (
	indexPath     = "albums/index.json"
	albumInfoFile = "info.md"
	coverFileName = "cover.jpg"
	tracksDirName = "tracks"
	lyricsDirName = "lyrics"
	staticDirName = "content"
)

// AlbumRecord is a parsed album document augmented with the three content
// paths derived from the album identifier. Records are never mutated after
// insertion into the store; a reload would replace them wholesale.
type AlbumRecord struct {
	ID         string
	Doc        *content.Document
	CoverPath  string
	TracksPath string
	LyricsPath string

	tracks []models.Track
}

// NewAlbumRecord derives the computed paths and resolves the track list once
func NewAlbumRecord(id string, doc *content.Document) *AlbumRecord {
	dir := path.Join("albums", id)
	return &AlbumRecord{
		ID:         id,
		Doc:        doc,
		CoverPath:  path.Join(dir, coverFileName),
		TracksPath: path.Join(dir, tracksDirName),
		LyricsPath: path.Join(dir, lyricsDirName),
		tracks:     doc.Metadata.Tracks(),
	}
}

// Title returns the album title, falling back to the identifier
func (a *AlbumRecord) Title() string {
	if t := a.Doc.Metadata.Title(); t != "" {
		return t
	}
	return a.ID
}

// ReleaseDate returns the declared release date, or "" when absent
func (a *AlbumRecord) ReleaseDate() string {
	return a.Doc.Metadata.ReleaseDate()
}

// Featured reports whether the album is marked as featured
func (a *AlbumRecord) Featured() bool {
	return a.Doc.Metadata.Featured()
}

// Tracks returns the album's track list in declared order
func (a *AlbumRecord) Tracks() []models.Track {
	return a.tracks
}

// TrackCount returns the number of declared tracks
func (a *AlbumRecord) TrackCount() int {
	return len(a.tracks)
}

// TrackPath returns the content path of a track's audio file
func (a *AlbumRecord) TrackPath(file string) string {
	return path.Join(a.TracksPath, file)
}

// LyricsDocPath returns the content path of a track's lyrics document
func (a *AlbumRecord) LyricsDocPath(file string) string {
	return path.Join(a.LyricsPath, file)
}
