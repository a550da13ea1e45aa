// Package input loads the text to analyze from files, stdin, HTML lyric
// pages and shareable links.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/refrain/internal/share"
)

// ErrNoInput is returned when no source of text was given
var ErrNoInput = errors.New("no input given")

// Source names where a text came from
type Source struct {
	Name string // File path, "stdin", "link" or "sample"
	Text string
}

// Load reads path. "-" reads stdin; .html and .htm files are reduced to
// their visible text.
func Load(path string) (Source, error) {
	if path == "" {
		return Source{}, ErrNoInput
	}

	if path == "-" {
		text, err := Read(os.Stdin, false)
		if err != nil {
			return Source{}, fmt.Errorf("read stdin: %w", err)
		}
		return Source{Name: "stdin", Text: text}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	text, err := Read(f, IsHTML(path))
	if err != nil {
		return Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Source{Name: path, Text: text}, nil
}

// Read consumes r as plain text, or as HTML when html is set
func Read(r io.Reader, html bool) (string, error) {
	if html {
		return ExtractText(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IsHTML reports whether path looks like an HTML page
func IsHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	default:
		return false
	}
}

// FromLink decodes a shareable link. A link that cannot be decoded falls
// back to fallback instead of failing; ok reports whether decoding worked.
func FromLink(link, fallback string) (src Source, ok bool) {
	text, ok := share.FromQuery(link)
	if !ok {
		return Source{Name: "sample", Text: fallback}, false
	}
	return Source{Name: "link", Text: text}, true
}

// Sample returns the built-in sample text
func Sample() Source {
	return Source{Name: "sample", Text: share.DefaultSample}
}
