package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bandstand/internal/player"
)

// widgetRequest is the body shared by the widget mutation endpoints
type widgetRequest struct {
	Source  string  `json:"source,omitempty"`
	Elapsed float64 `json:"elapsed,omitempty"`
	Total   float64 `json:"total,omitempty"`
	Type    string  `json:"type,omitempty"` // buffering | ended | error
	Code    int     `json:"code,omitempty"` // media error code
}

// toggleResponse carries the post-toggle state plus any playback rejection
type toggleResponse struct {
	State    player.State `json:"state"`
	Rejected string       `json:"rejected,omitempty"`
}

// handleCreateWidget registers a new widget instance for a page surface
func (s *SiteServer) handleCreateWidget(w http.ResponseWriter, r *http.Request) {
	var req widgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	widget := s.widgets.Create(req.Source)
	s.logger.WithField("widget", widget.ID()).Debug("Widget created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	s.respondJSON(w, widget.Snapshot())
}

// handleWidgetState returns a widget's current state
func (s *SiteServer) handleWidgetState(w http.ResponseWriter, r *http.Request) {
	widget, ok := s.lookupWidget(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, widget.Snapshot())
}

// handleWidgetLoad loads a track into the widget, resetting its state
func (s *SiteServer) handleWidgetLoad(w http.ResponseWriter, r *http.Request) {
	widget, ok := s.lookupWidget(w, r)
	if !ok {
		return
	}

	var req widgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	widget.LoadTrack(req.Source)
	s.respondJSON(w, widget.Snapshot())
}

// handleWidgetToggle flips play/pause. A rejected playback start leaves the
// widget paused; the rejection is reported, not treated as a server error.
func (s *SiteServer) handleWidgetToggle(w http.ResponseWriter, r *http.Request) {
	widget, ok := s.lookupWidget(w, r)
	if !ok {
		return
	}

	resp := toggleResponse{}
	if _, err := widget.Toggle(); err != nil {
		resp.Rejected = err.Error()
	}
	resp.State = widget.Snapshot()
	s.respondJSON(w, resp)
}

// handleWidgetProgress records continuous playback progress
func (s *SiteServer) handleWidgetProgress(w http.ResponseWriter, r *http.Request) {
	widget, ok := s.lookupWidget(w, r)
	if !ok {
		return
	}

	var req widgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	widget.ReportProgress(req.Elapsed, req.Total)
	s.respondJSON(w, widget.Snapshot())
}

// handleWidgetEvent applies a media-level event: buffering, end of media, or
// a classified media error.
func (s *SiteServer) handleWidgetEvent(w http.ResponseWriter, r *http.Request) {
	widget, ok := s.lookupWidget(w, r)
	if !ok {
		return
	}

	var req widgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	switch req.Type {
	case "buffering":
		widget.Buffering()
	case "ended":
		widget.Finish()
	case "error":
		kind := player.ClassifyMediaError(req.Code)
		widget.Fail(kind)
		s.logger.WithFields(map[string]interface{}{
			"widget": widget.ID(),
			"kind":   kind,
		}).Warn("Widget playback error")
	default:
		s.respondWithError(w, r, http.StatusBadRequest, "Unknown event type", nil)
		return
	}

	s.respondJSON(w, widget.Snapshot())
}

// handleDeleteWidget tears down a widget instance when its surface goes away
func (s *SiteServer) handleDeleteWidget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.widgets.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

// lookupWidget resolves the widget named in the URL, answering 404 when the
// instance does not exist (e.g. already torn down).
func (s *SiteServer) lookupWidget(w http.ResponseWriter, r *http.Request) (*player.Widget, bool) {
	id := chi.URLParam(r, "id")
	widget, ok := s.widgets.Get(id)
	if !ok {
		s.respondWithError(w, r, http.StatusNotFound, "Unknown widget", nil)
		return nil, false
	}
	return widget, true
}
