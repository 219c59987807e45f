package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"bandstand/internal/content"
	"bandstand/pkg/models"
)

// discoveryWorkers bounds how many album documents are fetched at once
const discoveryWorkers = 4

// ErrAlreadyInitialized is returned when Initialize is called twice
var ErrAlreadyInitialized = errors.New("store already initialized")

// Prober recovers track information from local audio files when the album
// document omits it. It is optional; a nil prober leaves missing durations
// at zero and missing titles empty.
type Prober interface {
	TrackDuration(path string) (float64, error)
	TrackTitle(path string) (string, error)
}

// Store owns the discovered albums and the cached static documents. Both
// collections are populated exactly once by Initialize and are read-only
// afterward; readers need no locking because all writes complete before the
// first render is triggered.
type Store struct {
	fetcher  content.Fetcher
	parser   *content.Parser
	prober   Prober
	logger   *logrus.Logger
	sections []string

	initialized atomic.Bool
	albums      map[string]*AlbumRecord
	order       []string
	statics     map[string]*content.Document
}

// New creates an empty store. sections names the static documents to cache
// (e.g. "home", "about", "news"); prober may be nil.
func New(fetcher content.Fetcher, parser *content.Parser, prober Prober, logger *logrus.Logger, sections []string) *Store {
	return &Store{
		fetcher:  fetcher,
		parser:   parser,
		prober:   prober,
		logger:   logger,
		sections: sections,
		albums:   make(map[string]*AlbumRecord),
		statics:  make(map[string]*content.Document),
	}
}

// Initialize performs album discovery and static content loading. Both
// phases run concurrently and must complete before the store is usable.
// Failure to fetch the album index is fatal; everything else is skipped with
// a logged warning.
func (s *Store) Initialize(ctx context.Context) error {
	if !s.initialized.CompareAndSwap(false, true) {
		return ErrAlreadyInitialized
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.discoverAlbums(gctx) })
	g.Go(func() error { return s.loadStaticContent(gctx) })
	return g.Wait()
}

// discoverAlbums fetches the album index, then fetches and parses each
// album's info document. Individual albums may fail without aborting
// discovery; insertion order always follows the index order regardless of
// fetch completion order.
func (s *Store) discoverAlbums(ctx context.Context) error {
	data, err := s.fetcher.Fetch(ctx, indexPath)
	if err != nil {
		return fmt.Errorf("fetching album index: %w", err)
	}

	var index models.AlbumIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("decoding album index: %w", err)
	}

	records := make([]*AlbumRecord, len(index.AlbumDirectories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(discoveryWorkers)
	for i, id := range index.AlbumDirectories {
		g.Go(func() error {
			rec, err := s.loadAlbum(gctx, id)
			if err != nil {
				s.logger.WithError(err).WithField("album", id).Warn("Skipping album")
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, rec := range records {
		if rec == nil {
			continue
		}
		s.order = append(s.order, index.AlbumDirectories[i])
		s.albums[rec.ID] = rec
	}

	s.logger.WithFields(logrus.Fields{
		"discovered": len(s.order),
		"indexed":    len(index.AlbumDirectories),
	}).Info("Album discovery complete")
	return nil
}

// loadAlbum fetches and parses one album's info document and derives its
// computed paths.
func (s *Store) loadAlbum(ctx context.Context, id string) (*AlbumRecord, error) {
	doc, err := s.parser.LoadFrom(ctx, s.fetcher, path.Join("albums", id, albumInfoFile))
	if err != nil {
		return nil, err
	}

	rec := NewAlbumRecord(id, doc)
	s.probeTracks(rec)
	return rec, nil
}

// probeTracks fills in track durations and titles the album document omits
func (s *Store) probeTracks(rec *AlbumRecord) {
	if s.prober == nil {
		return
	}
	for i, t := range rec.tracks {
		if t.File == "" {
			continue
		}
		if t.Duration == 0 {
			d, err := s.prober.TrackDuration(rec.TrackPath(t.File))
			if err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"album": rec.ID,
					"track": t.File,
				}).Debug("Could not probe track duration")
			} else {
				rec.tracks[i].Duration = d
			}
		}
		if t.Title == "" {
			title, err := s.prober.TrackTitle(rec.TrackPath(t.File))
			if err == nil {
				rec.tracks[i].Title = title
			}
		}
	}
}

// loadStaticContent fetches and parses the named static documents. A missing
// document leaves its section absent from the cache; never fatal.
func (s *Store) loadStaticContent(ctx context.Context) error {
	docs := make([]*content.Document, len(s.sections))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(discoveryWorkers)
	for i, name := range s.sections {
		g.Go(func() error {
			doc, err := s.parser.LoadFrom(gctx, s.fetcher, path.Join(staticDirName, name+".md"))
			if err != nil {
				s.logger.WithError(err).WithField("section", name).Warn("Static document unavailable")
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, doc := range docs {
		if doc != nil {
			s.statics[s.sections[i]] = doc
		}
	}
	return nil
}

// Albums returns the discovered albums in index order
func (s *Store) Albums() []*AlbumRecord {
	out := make([]*AlbumRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.albums[id])
	}
	return out
}

// Album looks up an album by identifier
func (s *Store) Album(id string) (*AlbumRecord, bool) {
	rec, ok := s.albums[id]
	return rec, ok
}

// StaticDoc looks up a cached static document by section name
func (s *Store) StaticDoc(name string) (*content.Document, bool) {
	doc, ok := s.statics[name]
	return doc, ok
}

// Featured returns the first album, in index order, marked as featured
func (s *Store) Featured() (*AlbumRecord, bool) {
	for _, id := range s.order {
		if s.albums[id].Featured() {
			return s.albums[id], true
		}
	}
	return nil, false
}

// Sections returns the static section names the store was built with
func (s *Store) Sections() []string {
	return s.sections
}
