package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/sirupsen/logrus"

	"bandstand/internal/content"
	"bandstand/internal/player"
	"bandstand/internal/store"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Errors distinguishing "nothing to render" from real render failures
var (
	ErrUnknownSection = errors.New("unknown section")
	ErrAlbumNotFound  = errors.New("album not found")
)

// Catalog is the read-only view of the content store the renderer consumes.
// The store satisfies it once initialization has completed.
type Catalog interface {
	Albums() []*store.AlbumRecord
	Album(id string) (*store.AlbumRecord, bool)
	StaticDoc(name string) (*content.Document, bool)
	Featured() (*store.AlbumRecord, bool)
	Sections() []string
}

// Renderer materializes page sections and overlays from the catalog
type Renderer struct {
	catalog   Catalog
	widgets   *player.Manager
	parser    *content.Parser
	fetcher   content.Fetcher
	logger    *logrus.Logger
	tmpl      *template.Template
	siteTitle string
}

// NewRenderer builds a renderer over an initialized catalog. parser and
// fetcher serve on-demand lyrics loading, which bypasses the store cache.
func NewRenderer(catalog Catalog, widgets *player.Manager, parser *content.Parser, fetcher content.Fetcher, logger *logrus.Logger, siteTitle string) (*Renderer, error) {
	tmpl, err := template.New("site").Funcs(template.FuncMap{
		"formatDuration": player.FormatDuration,
	}).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parsing site templates: %w", err)
	}

	return &Renderer{
		catalog:   catalog,
		widgets:   widgets,
		parser:    parser,
		fetcher:   fetcher,
		logger:    logger,
		tmpl:      tmpl,
		siteTitle: siteTitle,
	}, nil
}

// NavSections returns the navigable section identifiers in page order: the
// first static section, then the album catalogue, then the rest.
func (r *Renderer) NavSections() []string {
	statics := r.catalog.Sections()
	if len(statics) == 0 {
		return []string{musicSection}
	}

	nav := make([]string, 0, len(statics)+1)
	nav = append(nav, statics[0], musicSection)
	nav = append(nav, statics[1:]...)
	return nav
}

const musicSection = "music"

// RenderSection writes the fragment for a section identifier. Static
// sections inject their cached document; the music section renders the album
// grid. An unknown identifier yields ErrUnknownSection; a cached-but-absent
// static document renders nothing, leaving the page slot unchanged.
func (r *Renderer) RenderSection(w io.Writer, section string) error {
	if section == musicSection {
		return r.renderAlbumGrid(w)
	}

	known := false
	for _, name := range r.catalog.Sections() {
		if name == section {
			known = true
			break
		}
	}
	if !known {
		return ErrUnknownSection
	}

	doc, ok := r.catalog.StaticDoc(section)
	if !ok {
		r.logger.WithField("section", section).Info("No cached document for section, leaving it unchanged")
		return nil
	}

	return r.tmpl.ExecuteTemplate(w, "section.gohtml", sectionData{
		Section: section,
		Title:   doc.Metadata.Title(),
		Content: template.HTML(doc.Content),
	})
}

// renderAlbumGrid writes one card per album, in catalogue insertion order
func (r *Renderer) renderAlbumGrid(w io.Writer) error {
	albums := r.catalog.Albums()
	cards := make([]albumCard, 0, len(albums))
	for _, rec := range albums {
		cards = append(cards, albumCard{
			ID:          rec.ID,
			Title:       rec.Title(),
			ReleaseDate: rec.ReleaseDate(),
			TrackCount:  rec.TrackCount(),
			CoverURL:    mediaURL(rec.CoverPath),
			Widget:      r.newWidget(firstTrackURL(rec)),
		})
	}

	return r.tmpl.ExecuteTemplate(w, "albums.gohtml", albumGridData{Albums: cards})
}

// RenderAlbumDetail writes the album overlay: full prose, cover, and the
// ordered track list with per-track widgets, download and lyrics affordances.
func (r *Renderer) RenderAlbumDetail(w io.Writer, albumID string) error {
	rec, ok := r.catalog.Album(albumID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAlbumNotFound, albumID)
	}

	tracks := rec.Tracks()
	rows := make([]trackRow, 0, len(tracks))
	for _, t := range tracks {
		row := trackRow{
			Number:       t.Number,
			Title:        t.Title,
			DurationText: player.FormatDuration(t.Duration),
			DownloadURL:  mediaURL(rec.TrackPath(t.File)),
			Widget:       r.newWidget(mediaURL(rec.TrackPath(t.File))),
		}
		if t.HasLyrics() {
			row.LyricsURL = fmt.Sprintf("/albums/%s/lyrics/%s", rec.ID, t.Lyrics)
		}
		rows = append(rows, row)
	}

	return r.tmpl.ExecuteTemplate(w, "album_detail.gohtml", albumDetailData{
		ID:          rec.ID,
		Title:       rec.Title(),
		ReleaseDate: rec.ReleaseDate(),
		CoverURL:    mediaURL(rec.CoverPath),
		Content:     template.HTML(rec.Doc.Content),
		Tracks:      rows,
	})
}

// RenderLyrics fetches and parses the referenced lyrics document and writes
// the lyrics overlay. Lyrics are always freshly fetched, independent of the
// store cache; the request context cancels an abandoned fetch.
func (r *Renderer) RenderLyrics(ctx context.Context, w io.Writer, albumID, file string) error {
	rec, ok := r.catalog.Album(albumID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAlbumNotFound, albumID)
	}

	doc, err := r.parser.LoadFrom(ctx, r.fetcher, rec.LyricsDocPath(file))
	if err != nil {
		return fmt.Errorf("loading lyrics: %w", err)
	}

	title := doc.Metadata.Title()
	if title == "" {
		title = rec.Title()
	}
	return r.tmpl.ExecuteTemplate(w, "lyrics.gohtml", lyricsData{
		Title:   title,
		Content: template.HTML(doc.Content),
	})
}

// RenderFeatured writes the featured-album presentation. A catalogue without
// a featured album renders nothing.
func (r *Renderer) RenderFeatured(w io.Writer) error {
	rec, ok := r.catalog.Featured()
	if !ok {
		r.logger.Debug("No featured album, leaving the featured slot empty")
		return nil
	}

	return r.tmpl.ExecuteTemplate(w, "featured.gohtml", albumCard{
		ID:          rec.ID,
		Title:       rec.Title(),
		ReleaseDate: rec.ReleaseDate(),
		TrackCount:  rec.TrackCount(),
		CoverURL:    mediaURL(rec.CoverPath),
		Widget:      r.newWidget(firstTrackURL(rec)),
	})
}

// RenderPage writes the full page shell: navigation, the featured slot, and
// the section containers with the first section pre-rendered.
func (r *Renderer) RenderPage(w io.Writer) error {
	nav := r.NavSections()

	var featured bytes.Buffer
	if err := r.RenderFeatured(&featured); err != nil {
		return err
	}

	initial := ""
	var initialContent bytes.Buffer
	if len(nav) > 0 {
		initial = nav[0]
		if err := r.RenderSection(&initialContent, initial); err != nil {
			return err
		}
	}

	return r.tmpl.ExecuteTemplate(w, "page.gohtml", pageData{
		SiteTitle:      r.siteTitle,
		NavSections:    nav,
		Featured:       template.HTML(featured.String()),
		Initial:        initial,
		InitialContent: template.HTML(initialContent.String()),
	})
}

// newWidget registers a playback widget instance for a rendered surface
func (r *Renderer) newWidget(source string) widgetData {
	w := r.widgets.Create(source)
	return widgetData{ID: w.ID(), Source: source}
}

// firstTrackURL picks the audio source for an album-level widget
func firstTrackURL(rec *store.AlbumRecord) string {
	tracks := rec.Tracks()
	if len(tracks) == 0 || tracks[0].File == "" {
		return ""
	}
	return mediaURL(rec.TrackPath(tracks[0].File))
}

// mediaURL maps a content path to the server's media endpoint
func mediaURL(contentPath string) string {
	return "/media/" + contentPath
}
