// Package output handles file naming and writing for MailPipe exports.
// A single export is named after its source (e.g., welcome.html becomes
// welcome.txt). Batch exports mirror the source directory structure.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// stdinName names exports of content read from stdin.
const stdinName = "message"

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write writes a single export named after its source location.
func (w *Writer) Write(location string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, NameFor(location)+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WriteMirrored writes a batch export, mirroring the position of source
// below root.
// Example: <root>/news/may.html with ext ".txt" → <out>/news/may.txt
func (w *Writer) WriteMirrored(root, source string, data []byte, ext string) (string, error) {
	rel, err := filepath.Rel(root, source)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is not below %s", source, root)
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	fullPath := filepath.Join(w.OutputDir, rel+ext)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// NameFor converts a source location into a flat file name without an
// extension.
// Example: https://example.com/news/may.html → example_com_news_may
func NameFor(location string) string {
	if location == "" || location == "-" {
		return stdinName
	}

	if u, err := url.Parse(location); err == nil && u.Host != "" {
		parts := []string{sanitize(u.Host)}
		p := strings.Trim(u.Path, "/")
		p = strings.TrimSuffix(p, filepath.Ext(p))
		if p != "" {
			for _, seg := range strings.Split(p, "/") {
				parts = append(parts, sanitize(seg))
			}
		}
		return strings.Join(parts, "_")
	}

	base := filepath.Base(location)
	return sanitize(strings.TrimSuffix(base, filepath.Ext(base)))
}

// sanitize replaces characters other than letters, digits, '-' and '_'
// with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
