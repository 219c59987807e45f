package models

// AlbumIndex is the JSON index document that drives album discovery
type AlbumIndex struct {
	AlbumDirectories []string `json:"albumDirectories"`
}
