// Package ingest turns source documents into plain text and segments the
// text into candidate test steps. Parsers are selected through a registry
// keyed by file extension.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrUnsupportedFormat reports a file extension with no registered parser.
// This is a configuration error surfaced to the caller, not swallowed.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Parser extracts the text content of one document format.
type Parser interface {
	Parse(path string) (string, error)
}

// Document is one parsed source document.
type Document struct {
	Path string
	Text string
}

// Registry maps file extensions to parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry returns a registry with all built-in parsers registered.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register(".txt", TextParser{})
	r.Register(".md", MarkdownParser{})
	r.Register(".markdown", MarkdownParser{})
	r.Register(".docx", DocxParser{})
	r.Register(".pdf", PDFParser{})
	return r
}

// Register adds or replaces the parser for an extension. The extension is
// normalized to lower case with a leading dot.
func (r *Registry) Register(ext string, p Parser) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.parsers[ext] = p
}

// Lookup returns the parser for the file's extension.
func (r *Registry) Lookup(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return p, nil
}

// Extensions returns the sorted list of registered extensions.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Parse extracts the text of a single document.
func (r *Registry) Parse(path string) (string, error) {
	p, err := r.Lookup(path)
	if err != nil {
		return "", err
	}
	text, err := p.Parse(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return text, nil
}

// ParseAll parses several documents concurrently, preserving input order.
// The first failure cancels the remaining work.
func (r *Registry) ParseAll(ctx context.Context, paths []string) ([]Document, error) {
	docs := make([]Document, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text, err := r.Parse(path)
			if err != nil {
				return err
			}
			docs[i] = Document{Path: path, Text: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return docs, nil
}
