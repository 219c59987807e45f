package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"bandstand/internal/cache"
	"bandstand/internal/config"
	"bandstand/internal/content"
	"bandstand/internal/player"
	"bandstand/internal/site"
	"bandstand/internal/store"
)

// SiteServer serves the rendered promo site: the page shell, section and
// overlay fragments, the playback-widget API, and the media files the page
// references.
type SiteServer struct {
	config    *config.Config
	store     *store.Store
	renderer  *site.Renderer
	nav       *site.Controller
	widgets   *player.Manager
	fetcher   content.Fetcher
	fragments *cache.FragmentCache
	logger    *logrus.Logger

	httpServer *http.Server
}

// NewSiteServer wires the server over an initialized content store
func NewSiteServer(cfg *config.Config, st *store.Store, renderer *site.Renderer, nav *site.Controller, widgets *player.Manager, fetcher content.Fetcher, logger *logrus.Logger) *SiteServer {
	return &SiteServer{
		config:    cfg,
		store:     st,
		renderer:  renderer,
		nav:       nav,
		widgets:   widgets,
		fetcher:   fetcher,
		fragments: cache.NewFragmentCache(time.Hour),
		logger:    logger,
	}
}

// Routes builds the HTTP handler tree
func (s *SiteServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.panicRecoveryMiddleware)
	r.Use(s.requestLoggingMiddleware)
	r.Use(s.corsMiddleware)

	r.Get("/", s.handlePage)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.config.Server.StaticDir))))
	r.Get("/health", s.handleHealthCheck)
	r.Get("/api/site", s.handleSiteInfo)

	r.Get("/sections", s.handleSection)
	r.Get("/sections/{section}", s.handleSection)
	r.Get("/featured", s.handleFeatured)
	r.Get("/albums/{album}", s.handleAlbumDetail)
	r.Get("/albums/{album}/lyrics/{file}", s.handleLyrics)
	r.Get("/media/*", s.handleMedia)

	r.Route("/api/widgets", func(r chi.Router) {
		r.Post("/", s.handleCreateWidget)
		r.Get("/{id}", s.handleWidgetState)
		r.Post("/{id}/load", s.handleWidgetLoad)
		r.Post("/{id}/toggle", s.handleWidgetToggle)
		r.Post("/{id}/progress", s.handleWidgetProgress)
		r.Post("/{id}/event", s.handleWidgetEvent)
		r.Delete("/{id}", s.handleDeleteWidget)
	})

	return r
}

// Start runs the HTTP server until Shutdown is called
func (s *SiteServer) Start() error {
	s.httpServer = &http.Server{
		Addr:        s.config.GetAddress(),
		Handler:     s.Routes(),
		ReadTimeout: time.Duration(s.config.Server.ReadTimeout) * time.Second,
	}

	s.logger.WithFields(logrus.Fields{
		"address": s.config.GetAddress(),
		"albums":  len(s.store.Albums()),
	}).Info("Bandstand server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *SiteServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down site server")
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
