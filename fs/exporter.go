// Package fs writes knowledge graphs to the local file system.
package fs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fwojciec/tubechat"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Format selects the document an Exporter writes.
type Format string

// Supported export formats.
const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
)

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatMarkdown:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	default:
		return "", tubechat.Errorf(tubechat.EINVALID, "unsupported export format %q", s)
	}
}

// maxSlugLength bounds the file name derived from a video title.
const maxSlugLength = 80

// Ensure Exporter implements tubechat.GraphExporter at compile time.
var _ tubechat.GraphExporter = (*Exporter)(nil)

// Exporter writes knowledge graphs as standalone files in a directory.
type Exporter struct {
	dir    string
	format Format
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithFormat sets the export format. Defaults to FormatHTML.
func WithFormat(format Format) Option {
	return func(e *Exporter) {
		if format != "" {
			e.format = format
		}
	}
}

// NewExporter creates an Exporter that writes into dir.
func NewExporter(dir string, opts ...Option) *Exporter {
	e := &Exporter{dir: dir, format: FormatHTML}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes the graph and returns the path of the written file. An
// existing file with the same name is replaced. Readers never observe a
// partially written file.
func (e *Exporter) Export(ctx context.Context, video *tubechat.Video, graph *tubechat.KnowledgeGraph) (string, error) {
	if err := video.Validate(); err != nil {
		return "", err
	}
	if err := graph.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	switch e.format {
	case FormatHTML:
		if err := WriteHTML(&buf, video, graph); err != nil {
			return "", err
		}
	case FormatMarkdown:
		buf.WriteString(FormatGraph(video, graph))
	default:
		return "", tubechat.Errorf(tubechat.EINVALID, "unsupported export format %q", e.format)
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, FileName(video, graph)+"."+string(e.format))
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// FileName returns the base file name, without extension, for a graph.
// It is the slugified video title, falling back to the graph title and then
// the video ID.
func FileName(video *tubechat.Video, graph *tubechat.KnowledgeGraph) string {
	for _, s := range []string{video.Title, graph.Title} {
		if slug := Slugify(s); slug != "" {
			return slug
		}
	}
	return video.ID
}

// Slugify lowercases s, strips diacritics and joins its letters and digits
// with dashes.
// Example: "Café Concurrency: Patterns!" → cafe-concurrency-patterns
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	dash := false
	n := 0
	for _, r := range strings.ToLower(s) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			dash = true
			continue
		}
		sep := dash && b.Len() > 0
		if sep && n+2 > maxSlugLength || n+1 > maxSlugLength {
			break
		}
		if sep {
			b.WriteByte('-')
			n++
		}
		b.WriteRune(r)
		n++
		dash = false
	}
	return b.String()
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
