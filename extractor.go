package gridscan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/tsawler/gridscan/model"
	"github.com/tsawler/gridscan/tables"
	"golang.org/x/sync/errgroup"
)

// Extractor provides a fluent interface for extracting tables from a
// layout document. Each configuration method returns a new Extractor
// instance, making it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	source   io.Reader

	// Decoded pages
	pages  []*model.Page
	loaded bool

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		source:   e.source,
		pages:    e.pages,
		loaded:   e.loaded,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// ensureLayout reads and decodes the layout document if not already done.
func (e *Extractor) ensureLayout() error {
	if e.loaded {
		return nil
	}

	r := e.source
	if r == nil {
		if e.filename == "" {
			return fmt.Errorf("no filename specified")
		}
		f, err := os.Open(e.filename)
		if err != nil {
			return fmt.Errorf("failed to open layout: %w", err)
		}
		defer f.Close()
		r = f
	}

	pages, err := ReadLayout(r)
	if err != nil {
		return err
	}
	e.pages = pages
	e.loaded = true
	e.source = nil
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	found, _, err := gridscan.Open("layout.json").Pages(1, 3, 5).Tables(ctx)
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// Workers sets how many pages are processed concurrently.
func (e *Extractor) Workers(n int) *Extractor {
	newExt := e.clone()
	if n < 1 {
		newExt.err = fmt.Errorf("workers must be at least 1, got %d", n)
		return newExt
	}
	newExt.options.workers = n
	return newExt
}

// Config replaces the detection settings wholesale.
//
// Example:
//
//	config := tables.DefaultConfig()
//	config.MaxRowGap = 30
//	found, _, err := gridscan.Open("layout.json").Config(config).Tables(ctx)
func (e *Extractor) Config(config tables.Config) *Extractor {
	newExt := e.clone()
	newExt.options.config = config
	newExt.options = newExt.options.clone()
	return newExt
}

// SplitText splits fragments that straddle cell edges between the cells.
func (e *Extractor) SplitText() *Extractor {
	newExt := e.clone()
	newExt.options.config.SplitText = true
	return newExt
}

// FlagSize marks superscripts and subscripts with <s></s>.
func (e *Extractor) FlagSize() *Extractor {
	newExt := e.clone()
	newExt.options.config.FlagSize = true
	return newExt
}

// StripText trims the given characters from both ends of cell text.
func (e *Extractor) StripText(chars string) *Extractor {
	newExt := e.clone()
	newExt.options.config.StripText = chars
	return newExt
}

// ShiftText sets the directions ("l", "r", "t", "b") in which text inside
// a merged ruled cell moves to the owning cell.
func (e *Extractor) ShiftText(directions ...string) *Extractor {
	newExt := e.clone()
	newExt.options.config.ShiftText = cloneStrings(directions)
	return newExt
}

// CopyText sets the directions ("h", "v") in which text of a merged ruled
// cell is copied into the cells it spans.
func (e *Extractor) CopyText(directions ...string) *Extractor {
	newExt := e.clone()
	newExt.options.config.CopyText = cloneStrings(directions)
	return newExt
}

// TableAreas restricts text clustering to the given regions.
func (e *Extractor) TableAreas(areas ...model.BBox) *Extractor {
	newExt := e.clone()
	newExt.options.config.TableAreas = append(newExt.options.config.TableAreas, areas...)
	return newExt
}

// Diagnostics sets a sink receiving every detection event.
func (e *Extractor) Diagnostics(d tables.Diagnostics) *Extractor {
	newExt := e.clone()
	newExt.options.diagnostics = d
	return newExt
}

// Logger sends detection events to a structured logger.
func (e *Extractor) Logger(logger *slog.Logger) *Extractor {
	return e.Diagnostics(tables.NewSlogDiagnostics(logger))
}

// Images sets the provider of rendered page images, used to find ruling
// lines on pages whose layout carries none.
func (e *Extractor) Images(p tables.ImageProvider) *Extractor {
	newExt := e.clone()
	newExt.options.images = p
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// PageCount returns the number of pages in the layout document.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureLayout(); err != nil {
		return 0, err
	}
	return len(e.pages), nil
}

// Layout returns the decoded pages.
func (e *Extractor) Layout() ([]*model.Page, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.ensureLayout(); err != nil {
		return nil, err
	}
	return e.pages, nil
}

// Tables extracts the tables of every selected page, in page order and
// reading order within a page. Pages are processed concurrently.
//
// Returns the tables, any warnings encountered during processing, and an
// error if extraction failed. Empty pages and unsupported ruling layouts
// produce warnings, not errors.
//
// Example:
//
//	found, warnings, err := gridscan.Open("layout.json").Tables(ctx)
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", gridscan.FormatWarnings(warnings))
//	}
func (e *Extractor) Tables(ctx context.Context) ([]*model.Table, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if err := e.ensureLayout(); err != nil {
		return nil, nil, err
	}

	selected, err := e.resolvePages()
	if err != nil {
		return nil, nil, err
	}

	hybrid, err := tables.NewHybrid(e.options.config)
	if err != nil {
		return nil, nil, err
	}

	collector := &warningCollector{}
	sink := tables.Diagnostics(collector)
	if e.options.diagnostics != nil {
		sink = tables.MultiDiagnostics{collector, e.options.diagnostics}
	}

	results := make([][]*model.Table, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.options.workers)

	for i, page := range selected {
		i, page := i, page
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			pc := tables.NewPageContext(page)
			pc.Images = e.options.images
			pc.Diagnostics = sink

			found, err := hybrid.ExtractTables(pc)
			if errors.Is(err, tables.ErrUnsupportedConfiguration) || errors.Is(err, tables.ErrPageTooLarge) {
				// Reported through the diagnostics sink
				return nil
			}
			if err != nil {
				return err
			}
			results[i] = found
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, collector.sorted(), err
	}

	var out []*model.Table
	for _, found := range results {
		out = append(out, found...)
	}
	return out, collector.sorted(), nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// resolvePages returns the requested pages in document order. If no pages
// are specified, returns all pages.
func (e *Extractor) resolvePages() ([]*model.Page, error) {
	if len(e.options.pages) == 0 {
		return e.pages, nil
	}

	byNumber := make(map[int]*model.Page, len(e.pages))
	for _, p := range e.pages {
		byNumber[p.Number] = p
	}

	seen := make(map[int]bool)
	var numbers []int
	for _, n := range e.options.pages {
		if _, ok := byNumber[n]; !ok {
			return nil, fmt.Errorf("page %d out of range (1-%d)", n, len(e.pages))
		}
		if !seen[n] {
			seen[n] = true
			numbers = append(numbers, n)
		}
	}

	// Sort pages in order
	sort.Ints(numbers)
	selected := make([]*model.Page, len(numbers))
	for i, n := range numbers {
		selected[i] = byNumber[n]
	}
	return selected, nil
}

// warningCollector turns warning-level detection events into Warnings. It
// is shared by all page workers.
type warningCollector struct {
	mu       sync.Mutex
	warnings []Warning
}

func (c *warningCollector) Emit(ev tables.Event) {
	if ev.Level < slog.LevelWarn {
		return
	}

	w := Warning{Page: ev.Page, Message: ev.Message}
	switch ev.Kind {
	case tables.EventEmptyPage:
		w.Err = tables.ErrEmptyPage
	case tables.EventUnsupported:
		w.Err = tables.ErrUnsupportedConfiguration
	case tables.EventPageTooLarge:
		w.Err = tables.ErrPageTooLarge
	}

	c.mu.Lock()
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()
}

// sorted returns the warnings ordered by page.
func (c *warningCollector) sorted() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := append([]Warning(nil), c.warnings...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Page < out[j].Page })
	return out
}
