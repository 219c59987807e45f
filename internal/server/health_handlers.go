package server

import (
	"net/http"
	"time"
)

// HealthStatus represents operational status for the /health endpoint.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Albums    int       `json:"albumCount"`
	Sections  int       `json:"cachedSections"`
	Widgets   int       `json:"liveWidgets"`
}

// handleHealthCheck returns basic liveness plus content-store population.
// An initialized store with an empty catalogue is still healthy; the index
// fetch failing would have stopped startup before this handler existed.
func (s *SiteServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	cached := 0
	for _, name := range s.store.Sections() {
		if _, ok := s.store.StaticDoc(name); ok {
			cached++
		}
	}

	s.respondJSON(w, &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Albums:    len(s.store.Albums()),
		Sections:  cached,
		Widgets:   s.widgets.Count(),
	})
}
