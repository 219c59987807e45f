package content

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const metadataFence = "---"

// Converter turns raw prose text into renderable markup. It is consumed as a
// pure function; any failure makes the parser fall back to the raw text.
type Converter func(src []byte) ([]byte, error)

// Parser splits a content document into a key/value metadata block and a
// prose body, converting the body to markup.
type Parser struct {
	convert Converter
	logger  *logrus.Logger
}

// NewParser creates a parser backed by a goldmark markdown converter
func NewParser(logger *logrus.Logger) *Parser {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	return NewParserWith(logger, func(src []byte) ([]byte, error) {
		var buf bytes.Buffer
		if err := md.Convert(src, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

// NewParserWith creates a parser with an explicit converter
func NewParserWith(logger *logrus.Logger, convert Converter) *Parser {
	return &Parser{convert: convert, logger: logger}
}

// Parse splits rawText into metadata and converted body. It is total: empty
// input, malformed fences, malformed metadata lines and converter failures
// all yield a usable document rather than an error.
func (p *Parser) Parse(rawText string) *Document {
	metaLines, body := splitMetadataBlock(rawText)

	return &Document{
		Metadata: parseMetadataLines(metaLines),
		Content:  p.convertBody(body),
	}
}

// LoadFrom fetches path through f and parses the result. Fetch failures
// (network errors, non-success HTTP status) are returned as errors; parsing
// itself cannot fail.
func (p *Parser) LoadFrom(ctx context.Context, f Fetcher, path string) (*Document, error) {
	data, err := f.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	return p.Parse(string(data)), nil
}

// convertBody runs the converter, degrading to the unconverted body text on
// failure so the page renders prose instead of nothing.
func (p *Parser) convertBody(body string) (content string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithField("panic", r).Warn("Markup converter panicked, using raw text")
			content = body
		}
	}()

	converted, err := p.convert([]byte(body))
	if err != nil {
		p.logger.WithError(err).Warn("Markup conversion failed, using raw text")
		return body
	}
	return string(converted)
}

// splitMetadataBlock detects a fenced metadata block at the very start of the
// input. The fence is a line of exactly three hyphens; everything between the
// opening and closing fence is metadata, everything after the closing fence
// is the body. Without a complete fence pair the whole input is body.
func splitMetadataBlock(raw string) (metaLines []string, body string) {
	lines := strings.Split(raw, "\n")
	if len(lines) == 0 || !isFence(lines[0]) {
		return nil, raw
	}

	for i := 1; i < len(lines); i++ {
		if isFence(lines[i]) {
			return lines[1:i], strings.Join(lines[i+1:], "\n")
		}
	}

	// Opening fence without a closing one: no metadata block.
	return nil, raw
}

func isFence(line string) bool {
	return strings.TrimRight(line, "\r") == metadataFence
}

// parseMetadataLines parses "key: value" lines. Blank lines are skipped;
// lines without a colon or with an empty key are skipped without aborting;
// later duplicate keys overwrite earlier ones.
func parseMetadataLines(lines []string) Metadata {
	meta := make(Metadata)
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		if key == "" {
			continue
		}
		meta[key] = strings.TrimSpace(line[idx+1:])
	}
	return meta
}
