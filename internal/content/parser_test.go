package content

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // Reduce noise in tests
	return logger
}

// identityParser parses without converting, so body assertions are exact
func identityParser() *Parser {
	return NewParserWith(testLogger(), func(src []byte) ([]byte, error) {
		return src, nil
	})
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMeta Metadata
		wantBody string
	}{
		{
			name:     "well-formed fenced block",
			input:    "---\ntitle: First Light\nrelease_date: 2023-04-01\n---\nSome prose.",
			wantMeta: Metadata{"title": "First Light", "release_date": "2023-04-01"},
			wantBody: "Some prose.",
		},
		{
			name:     "duplicate keys last write wins",
			input:    "---\ntitle: One\ntitle: Two\n---\nbody",
			wantMeta: Metadata{"title": "Two"},
			wantBody: "body",
		},
		{
			name:     "value keeps colons after the first",
			input:    "---\ntime: 12:30\n---\n",
			wantMeta: Metadata{"time": "12:30"},
			wantBody: "",
		},
		{
			name:     "malformed lines skipped without aborting",
			input:    "---\nno colon here\n: empty key\ntitle: Kept\n---\nbody",
			wantMeta: Metadata{"title": "Kept"},
			wantBody: "body",
		},
		{
			name:     "blank lines skipped",
			input:    "---\n\ntitle: Kept\n\n---\nbody",
			wantMeta: Metadata{"title": "Kept"},
			wantBody: "body",
		},
		{
			name:     "empty value allowed",
			input:    "---\nfeatured:\n---\nbody",
			wantMeta: Metadata{"featured": ""},
			wantBody: "body",
		},
		{
			name:     "no fence means no metadata",
			input:    "title: Not Metadata\nJust prose.",
			wantMeta: Metadata{},
			wantBody: "title: Not Metadata\nJust prose.",
		},
		{
			name:     "unclosed fence treated as body",
			input:    "---\ntitle: Lost\nnever closed",
			wantMeta: Metadata{},
			wantBody: "---\ntitle: Lost\nnever closed",
		},
		{
			name:     "fence not at start is body",
			input:    "intro\n---\ntitle: Nope\n---\n",
			wantMeta: Metadata{},
			wantBody: "intro\n---\ntitle: Nope\n---\n",
		},
		{
			name:     "empty input",
			input:    "",
			wantMeta: Metadata{},
			wantBody: "",
		},
		{
			name:     "crlf line endings",
			input:    "---\r\ntitle: Windows\r\n---\r\nbody",
			wantMeta: Metadata{"title": "Windows"},
			wantBody: "body",
		},
	}

	parser := identityParser()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := parser.Parse(tc.input)
			if !reflect.DeepEqual(doc.Metadata, tc.wantMeta) {
				t.Errorf("metadata: expected %v, got %v", tc.wantMeta, doc.Metadata)
			}
			if doc.Content != tc.wantBody {
				t.Errorf("body: expected %q, got %q", tc.wantBody, doc.Content)
			}
		})
	}
}

func TestParseConvertsMarkdown(t *testing.T) {
	parser := NewParser(testLogger())

	doc := parser.Parse("---\ntitle: Home\n---\n# Welcome\n\nSome *prose*.")
	if doc.Metadata.Title() != "Home" {
		t.Errorf("expected title Home, got %q", doc.Metadata.Title())
	}
	if !strings.Contains(doc.Content, "<h1") || !strings.Contains(doc.Content, "Welcome") {
		t.Errorf("expected converted heading, got %q", doc.Content)
	}
	if !strings.Contains(doc.Content, "<em>prose</em>") {
		t.Errorf("expected converted emphasis, got %q", doc.Content)
	}
}

func TestParseConverterFailureFallsBack(t *testing.T) {
	parser := NewParserWith(testLogger(), func(src []byte) ([]byte, error) {
		return nil, errors.New("converter broke")
	})

	doc := parser.Parse("---\ntitle: Degraded\n---\nraw body text")
	if doc.Metadata.Title() != "Degraded" {
		t.Errorf("metadata should survive converter failure, got %v", doc.Metadata)
	}
	if doc.Content != "raw body text" {
		t.Errorf("expected raw body fallback, got %q", doc.Content)
	}
}

func TestParseConverterPanicFallsBack(t *testing.T) {
	parser := NewParserWith(testLogger(), func(src []byte) ([]byte, error) {
		panic("converter panicked")
	})

	doc := parser.Parse("body only")
	if doc.Content != "body only" {
		t.Errorf("expected raw body fallback after panic, got %q", doc.Content)
	}
}
