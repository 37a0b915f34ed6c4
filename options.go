package gridscan

import (
	"runtime"

	"github.com/tsawler/gridscan/model"
	"github.com/tsawler/gridscan/tables"
)

// ExtractOptions holds configuration for table extraction.
type ExtractOptions struct {
	// Page selection (1-indexed)
	pages []int

	// Number of pages processed concurrently
	workers int

	// Detection and assignment settings
	config tables.Config

	// Collaborators
	diagnostics tables.Diagnostics
	images      tables.ImageProvider
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:   nil, // nil means all pages
		workers: runtime.NumCPU(),
		config:  tables.DefaultConfig(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := ExtractOptions{
		workers:     o.workers,
		config:      o.config,
		diagnostics: o.diagnostics,
		images:      o.images,
	}

	// Deep copy slices
	if o.pages != nil {
		newOpts.pages = append([]int(nil), o.pages...)
	}
	newOpts.config.ShiftText = cloneStrings(o.config.ShiftText)
	newOpts.config.CopyText = cloneStrings(o.config.CopyText)
	if o.config.TableAreas != nil {
		newOpts.config.TableAreas = append([]model.BBox(nil), o.config.TableAreas...)
	}

	return newOpts
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
