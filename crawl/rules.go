package crawl

import (
	"path/filepath"
	"strings"
)

// sourceExtensions are the file extensions treated as email sources.
var sourceExtensions = map[string]bool{
	".html": true, ".htm": true,
}

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	"node_modules": true, "vendor": true,
}

// IsSource reports whether path names an HTML source file.
func IsSource(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))] && !IsHidden(path)
}

// IsHidden reports whether the last element of path is a dot file.
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return len(base) > 1 && strings.HasPrefix(base, ".") && base != ".."
}

// SkipDir reports whether a directory should not be walked.
func SkipDir(path string) bool {
	return IsHidden(path) || skippedDirs[filepath.Base(path)]
}
