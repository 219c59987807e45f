package media

import (
	"path/filepath"
	"strings"
)

// audioTypes maps supported audio extensions to their MIME types
var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
}

// ContentType returns the MIME type for an audio file path, or
// application/octet-stream for anything unrecognized.
func ContentType(path string) string {
	if ct, ok := audioTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// IsAudioFile reports whether the path has a supported audio extension
func IsAudioFile(path string) bool {
	_, ok := audioTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}
