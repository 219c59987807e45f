package site

import "html/template"

// Template data for the page shell and fragments. Converted markup is
// trusted: it comes from the site's own content files.

type pageData struct {
	SiteTitle      string
	NavSections    []string
	Featured       template.HTML
	Initial        string
	InitialContent template.HTML
}

type sectionData struct {
	Section string
	Title   string
	Content template.HTML
}

type albumGridData struct {
	Albums []albumCard
}

type albumCard struct {
	ID          string
	Title       string
	ReleaseDate string
	TrackCount  int
	CoverURL    string
	Widget      widgetData
}

type albumDetailData struct {
	ID          string
	Title       string
	ReleaseDate string
	CoverURL    string
	Content     template.HTML
	Tracks      []trackRow
}

type trackRow struct {
	Number       int
	Title        string
	DurationText string
	DownloadURL  string
	LyricsURL    string
	Widget       widgetData
}

type lyricsData struct {
	Title   string
	Content template.HTML
}

type widgetData struct {
	ID     string
	Source string
}
