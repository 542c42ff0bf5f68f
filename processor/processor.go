// Package processor provides Scanner implementations that split source text
// into literal and comment spans.
package processor

import (
	"path/filepath"
	"strings"

	"github.com/ZaguanLabs/srctl"
)

// Scanner is an alias to the main package interface.
type Scanner = srctl.Scanner

// Span is an alias to the main package type.
type Span = srctl.Span

// ForPath picks a scanner from the file extension: Go files use GoScanner,
// HTML and XML files use MarkupScanner, everything else PatternScanner.
func ForPath(path string) Scanner {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return NewGoScanner()
	case ".html", ".htm", ".xhtml", ".xml", ".xaml", ".svg":
		return NewMarkupScanner()
	default:
		return NewPatternScanner()
	}
}

// ByName returns the scanner registered under name ("pattern", "state",
// "go" or "markup"), or nil.
func ByName(name string) Scanner {
	switch strings.ToLower(name) {
	case "pattern":
		return NewPatternScanner()
	case "state":
		return NewStateScanner()
	case "go":
		return NewGoScanner()
	case "markup":
		return NewMarkupScanner()
	default:
		return nil
	}
}
