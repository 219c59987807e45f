package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"bandstand/internal/config"
	"bandstand/internal/content"
	"bandstand/internal/media"
	"bandstand/internal/player"
	"bandstand/internal/server"
	"bandstand/internal/site"
	"bandstand/internal/store"
)

func main() {
	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	configPath := os.Getenv("BANDSTAND_CONFIG")
	if configPath == "" {
		configPath = "./config.toml"
	}

	// Initialize basic logger for startup
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Error loading configuration")
	}

	configureLogger(logger, cfg)

	fetcher := content.NewFetcher(cfg.Content.Base, time.Duration(cfg.Content.FetchTimeout)*time.Second)
	parser := content.NewParser(logger)

	var prober store.Prober
	if cfg.Content.ProbeDurations && !content.IsRemote(cfg.Content.Base) {
		prober = media.NewProber(cfg.Content.Base, logger)
	}

	// Populate the content store; a failed album index is fatal, there is
	// no catalogue to serve without it.
	contentStore := store.New(fetcher, parser, prober, logger, cfg.Content.StaticSections)
	initCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := contentStore.Initialize(initCtx); err != nil {
		cancel()
		logger.WithError(err).Fatal("Error initializing content store")
	}
	cancel()

	widgets := player.NewManager(nil)
	renderer, err := site.NewRenderer(contentStore, widgets, parser, fetcher, logger, cfg.Site.Title)
	if err != nil {
		logger.WithError(err).Fatal("Error building site renderer")
	}
	nav := site.NewController(renderer, logger)

	if len(contentStore.Albums()) == 0 {
		logger.Warn("No albums discovered; the catalogue section will be empty")
	}

	siteServer := server.NewSiteServer(cfg, contentStore, renderer, nav, widgets, fetcher, logger)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := siteServer.Start(); err != nil {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	<-c

	logger.Info("Received shutdown signal")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := siteServer.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}

// configureLogger applies the logging configuration
func configureLogger(logger *logrus.Logger, cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logger.WithError(err).Warn("Could not open log file, logging to stderr")
			return
		}
		logger.SetOutput(f)
	}
}
