// Package gridscan provides a fluent API for extracting tables from laid-out
// pages.
//
// Basic usage:
//
//	found, warnings, err := gridscan.Open("layout.json").Tables(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", gridscan.FormatWarnings(warnings))
//	}
//
// With options:
//
//	found, _, err := gridscan.Open("layout.json").
//	    Pages(1, 2).
//	    SplitText().
//	    Workers(4).
//	    Tables(ctx)
//
// For lower-level control the tables package is also available.
package gridscan

import (
	"io"

	"github.com/tsawler/gridscan/model"
)

// Open returns an Extractor reading a JSON layout document from filename.
// The file is read when a terminal operation such as Tables runs.
//
// Example:
//
//	found, warnings, err := gridscan.Open("layout.json").Tables(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader returns an Extractor reading a JSON layout document from r.
// The reader is consumed by the first terminal operation.
func FromReader(r io.Reader) *Extractor {
	return &Extractor{
		source:  r,
		options: defaultOptions(),
	}
}

// New returns an Extractor over pages that are already in memory. Pages
// without a number are numbered by position, starting at 1.
//
// Example:
//
//	page := model.NewPage(612, 792)
//	page.Text = fragments
//	found, _, err := gridscan.New(page).Tables(ctx)
func New(pages ...*model.Page) *Extractor {
	return &Extractor{
		pages:   numberPages(pages),
		loaded:  true,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := gridscan.Must(gridscan.Open("layout.json").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTables is a helper that wraps a call to Tables and panics if the
// error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	found := gridscan.MustTables(gridscan.Open("layout.json").Tables(ctx))
func MustTables[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
