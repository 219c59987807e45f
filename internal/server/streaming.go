package server

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bandstand/internal/content"
	"bandstand/internal/media"
)

const (
	// Buffer size for streaming (64KB)
	streamBufferSize = 64 * 1024
)

// handleMedia serves track audio and cover images referenced by the rendered
// page. With a local content root files are served directly (with Range
// support for audio seeking); with a remote content base the client is
// redirected to the upstream URL.
func (s *SiteServer) handleMedia(w http.ResponseWriter, r *http.Request) {
	mediaPath := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if !strings.HasPrefix(mediaPath, "albums/") {
		s.respondWithError(w, r, http.StatusNotFound, "Unknown media path", nil)
		return
	}

	switch f := s.fetcher.(type) {
	case *content.HTTPFetcher:
		http.Redirect(w, r, f.URL(mediaPath), http.StatusFound)

	case *content.DirFetcher:
		full, err := f.Resolve(mediaPath)
		if err != nil {
			s.respondWithError(w, r, http.StatusNotFound, "Unknown media path", err)
			return
		}
		if !media.IsAudioFile(full) {
			http.ServeFile(w, r, full)
			return
		}
		if r.URL.Query().Get("download") != "" {
			w.Header().Set("Content-Disposition",
				fmt.Sprintf("attachment; filename=%q", path.Base(mediaPath)))
		}
		if err := s.streamFile(w, r, full, media.ContentType(full)); err != nil {
			s.logger.WithError(err).WithField("path", mediaPath).Error("Error streaming media")
		}

	default:
		s.respondWithError(w, r, http.StatusInternalServerError, "Unsupported content backend", nil)
	}
}

// streamFile serves an audio file with caching headers, Range support for
// seeking, and buffered full-file streaming otherwise.
func (s *SiteServer) streamFile(w http.ResponseWriter, r *http.Request, filePath string, contentType string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		http.Error(w, "Media not found", http.StatusNotFound)
		return fmt.Errorf("error reading file info: %w", err)
	}

	fileSize := stat.Size()
	modTime := stat.ModTime().Unix()

	file, err := os.Open(filePath)
	if err != nil {
		http.Error(w, "Error opening media file", http.StatusInternalServerError)
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("ETag", fmt.Sprintf(`"%d-%d"`, modTime, fileSize))

	if match := r.Header.Get("If-None-Match"); match == fmt.Sprintf(`"%d-%d"`, modTime, fileSize) {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Accept-Ranges", "bytes")

	if rangeHeader := r.Header.Get("Range"); rangeHeader != "" {
		s.serveRange(w, file, fileSize, rangeHeader)
		return nil
	}

	w.Header().Set("Content-Length", strconv.FormatInt(fileSize, 10))

	bufferedReader := bufio.NewReaderSize(file, streamBufferSize)
	buffer := make([]byte, streamBufferSize)
	if _, err := io.CopyBuffer(w, bufferedReader, buffer); err != nil {
		return fmt.Errorf("error streaming file: %w", err)
	}
	return nil
}

// serveRange implements simple single-range byte serving for seeking
func (s *SiteServer) serveRange(w http.ResponseWriter, file *os.File, fileSize int64, rangeHeader string) {
	// Parse range header (e.g. "bytes=0-1023", or the suffix form
	// "bytes=-500" meaning the final 500 bytes)
	ranges := strings.TrimPrefix(rangeHeader, "bytes=")
	rangeParts := strings.Split(ranges, "-")

	var start int64
	end := fileSize - 1

	if rangeParts[0] == "" {
		var suffix int64
		if len(rangeParts) > 1 {
			suffix, _ = strconv.ParseInt(rangeParts[1], 10, 64)
		}
		if suffix <= 0 {
			w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", fileSize))
			http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
			return
		}
		if suffix > fileSize {
			suffix = fileSize
		}
		start = fileSize - suffix
	} else {
		parsed, err := strconv.ParseInt(rangeParts[0], 10, 64)
		if err != nil {
			parsed = 0
		}
		start = parsed
		if len(rangeParts) > 1 && rangeParts[1] != "" {
			if p, err := strconv.ParseInt(rangeParts[1], 10, 64); err == nil {
				end = p
			}
		}
	}

	if start < 0 || end >= fileSize || start > end {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", fileSize))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return
	}

	contentLength := end - start + 1
	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, fileSize))
	w.Header().Set("Content-Length", strconv.FormatInt(contentLength, 10))
	w.WriteHeader(http.StatusPartialContent)

	file.Seek(start, io.SeekStart)
	io.CopyN(w, file, contentLength)
}
