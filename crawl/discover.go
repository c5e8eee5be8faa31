// Package crawl provides source discovery for batch exports.
// It walks directories for HTML files, keeping discovery separate from
// the export pipeline.
package crawl

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// DiscoverFiles finds the HTML sources below root in lexical order.
// A root that is itself a file is returned as the only source.
func DiscoverFiles(root string) ([]string, error) {
	return Discover([]string{root})
}

// Discover expands inputs into source files. Directories are walked,
// files are taken as given. Each file appears once, and the result is
// sorted.
func Discover(inputs []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("discovering %s: %w", in, err)
		}
		if !info.IsDir() {
			add(in)
			continue
		}

		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != in && SkipDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSource(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", in, err)
		}
	}

	slices.Sort(files)
	return files, nil
}
