// Package source loads content for analysis from URLs and local files.
//
// HTML is kept as markup unless Options.StripHTML is set, in which case the
// page body is reduced to Markdown text. PDF files are reduced to their
// plain text.
package source

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Kind describes what a Document's Content holds.
type Kind int

const (
	KindText Kind = iota
	KindHTML
)

func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	default:
		return "text"
	}
}

var (
	// ErrFetch is returned when a remote document cannot be retrieved.
	ErrFetch = errors.New("source: fetch failed")

	// ErrUnreadable is returned when a document cannot be decoded.
	ErrUnreadable = errors.New("source: unreadable document")
)

// Document is content ready to be submitted for analysis.
type Document struct {
	Content string
	Kind    Kind
	Title   string
	// Source is the URL or path the document was loaded from.
	Source string
}

// Options control how documents are loaded.
type Options struct {
	// StripHTML converts HTML pages to text instead of submitting markup.
	StripHTML bool
}

const (
	mediaHTML  = "text/html"
	mediaXHTML = "application/xhtml+xml"
	mediaPDF   = "application/pdf"
)

// FromBytes decodes data according to its media type. An empty media type
// is sniffed from the content.
func FromBytes(data []byte, mediaType, src string, opts Options) (Document, error) {
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		parsed = strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
	}

	switch parsed {
	case mediaHTML, mediaXHTML:
		return parseHTML(data, src, opts)
	case mediaPDF:
		return parsePDF(data, src)
	default:
		return Document{Content: string(data), Kind: KindText, Source: src}, nil
	}
}

// FromFile loads a local file, choosing the decoder by extension.
func FromFile(path string, opts Options) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrapf(err, "reading %s", path)
	}

	mediaType := "text/plain"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		mediaType = mediaHTML
	case ".xhtml":
		mediaType = mediaXHTML
	case ".pdf":
		mediaType = mediaPDF
	}

	doc, err := FromBytes(data, mediaType, path, opts)
	if err != nil {
		return Document{}, err
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}
