package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bandstand/internal/site"
)

// handlePage serves the full page shell with the first section pre-rendered
func (s *SiteServer) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.renderer.RenderPage(&buf); err != nil {
		s.respondWithError(w, r, http.StatusInternalServerError, "Error rendering page", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleSection renders one section fragment. Empty and unknown section
// identifiers render nothing and are answered with 204 rather than an error.
// Static section fragments are cached; widget-bearing fragments (the album
// grid) and lyrics are always rendered fresh.
func (s *SiteServer) handleSection(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	if body, ok := s.fragments.Get(section); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
		return
	}

	var buf bytes.Buffer
	if err := s.nav.Navigate(&buf, section); err != nil {
		s.respondWithError(w, r, http.StatusInternalServerError, "Error rendering section", err)
		return
	}

	if buf.Len() == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if s.isStaticSection(section) {
		s.fragments.Set(section, buf.Bytes())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// isStaticSection reports whether the identifier names a cached static
// document rather than the album catalogue.
func (s *SiteServer) isStaticSection(section string) bool {
	for _, name := range s.store.Sections() {
		if name == section {
			return true
		}
	}
	return false
}

// handleFeatured renders the featured-album fragment; an empty response
// means no album is marked featured.
func (s *SiteServer) handleFeatured(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.renderer.RenderFeatured(&buf); err != nil {
		s.respondWithError(w, r, http.StatusInternalServerError, "Error rendering featured album", err)
		return
	}

	if buf.Len() == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleAlbumDetail renders the album overlay fragment
func (s *SiteServer) handleAlbumDetail(w http.ResponseWriter, r *http.Request) {
	albumID := chi.URLParam(r, "album")

	var buf bytes.Buffer
	err := s.renderer.RenderAlbumDetail(&buf, albumID)
	if errors.Is(err, site.ErrAlbumNotFound) {
		s.respondWithError(w, r, http.StatusNotFound, "Album not found", err)
		return
	}
	if err != nil {
		s.respondWithError(w, r, http.StatusInternalServerError, "Error rendering album", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleLyrics fetches, parses and renders a lyrics overlay. Lyrics are
// fetched fresh on every request; the request context cancels the fetch if
// the client goes away.
func (s *SiteServer) handleLyrics(w http.ResponseWriter, r *http.Request) {
	albumID := chi.URLParam(r, "album")
	file := chi.URLParam(r, "file")

	var buf bytes.Buffer
	err := s.renderer.RenderLyrics(r.Context(), &buf, albumID, file)
	if errors.Is(err, site.ErrAlbumNotFound) {
		s.respondWithError(w, r, http.StatusNotFound, "Album not found", err)
		return
	}
	if err != nil {
		s.respondWithError(w, r, http.StatusNotFound, "Lyrics unavailable", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleSiteInfo exposes the navigable sections to the page script
func (s *SiteServer) handleSiteInfo(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, map[string]interface{}{
		"title":    s.config.Site.Title,
		"sections": s.renderer.NavSections(),
	})
}
