package tables

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tsawler/gridscan/model"
)

// Hybrid picks a strategy per page: tables ruled on both axes are built
// from their lines, everything else from text clustering, with horizontal
// rulings used as row hints.
type Hybrid struct {
	config Config

	ruling     Strategy
	clustering Strategy

	rulingAssigner     *Assigner
	clusteringAssigner *Assigner
}

// HybridOption customizes a Hybrid.
type HybridOption func(*Hybrid)

// WithRulingStrategy replaces the ruling-line strategy.
func WithRulingStrategy(s Strategy) HybridOption {
	return func(h *Hybrid) { h.ruling = s }
}

// WithClusteringStrategy replaces the text-clustering strategy.
func WithClusteringStrategy(s Strategy) HybridOption {
	return func(h *Hybrid) { h.clustering = s }
}

// NewHybrid validates config and creates a dispatcher using Lattice and
// Stream unless options say otherwise.
func NewHybrid(config Config, opts ...HybridOption) (*Hybrid, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	h := &Hybrid{
		config:     config,
		ruling:     NewLattice(config),
		clustering: NewStream(config),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.rulingAssigner = NewAssigner(config, h.ruling.Capabilities())
	h.clusteringAssigner = NewAssigner(config, h.clustering.Capabilities())
	return h, nil
}

// Config returns the configuration the dispatcher was built with.
func (h *Hybrid) Config() Config {
	return h.config
}

// ExtractTables finds and fills every table on the page, in reading order.
// A page without horizontal text yields no tables and an EventEmptyPage
// diagnostic. Vertical rulings without horizontal ones return an error
// wrapping ErrUnsupportedConfiguration, and pages too large for the text
// mask one wrapping ErrPageTooLarge, each with a warning diagnostic.
func (h *Hybrid) ExtractTables(pc *PageContext) ([]*model.Table, error) {
	if len(pc.Horizontal) == 0 {
		reason := ReasonNoText
		if len(pc.Page.Images) > 0 {
			reason = ReasonImageBased
		}
		pc.emit(EventEmptyPage, slog.LevelWarn, reason.String(),
			slog.String("reason", reason.String()))
		return nil, nil
	}

	ruled, err := h.ruling.DetectRegions(pc, Hints{})
	if err != nil {
		return nil, fmt.Errorf("page %d: detecting ruling lines: %w", pc.pageNumber(), err)
	}

	hasV := len(ruled.VerticalSegments) > 0
	hasH := len(ruled.HorizontalSegments) > 0

	if hasV && hasH {
		return h.build(pc, h.ruling, h.rulingAssigner, ruled)
	}

	if hasV {
		pc.emit(EventUnsupported, slog.LevelWarn, "vertical rulings without horizontal rulings are not supported",
			slog.Int("vertical_segments", len(ruled.VerticalSegments)))
		return nil, fmt.Errorf("page %d: %w", pc.pageNumber(), ErrUnsupportedConfiguration)
	}

	clustered, err := h.clustering.DetectRegions(pc, Hints{
		VerticalSegments:   ruled.VerticalSegments,
		HorizontalSegments: ruled.HorizontalSegments,
	})
	if errors.Is(err, ErrPageTooLarge) {
		pc.emit(EventPageTooLarge, slog.LevelWarn, err.Error(),
			slog.Float64("width", pc.Page.Width),
			slog.Float64("height", pc.Page.Height))
	}
	if err != nil {
		return nil, fmt.Errorf("page %d: detecting text regions: %w", pc.pageNumber(), err)
	}
	return h.build(pc, h.clustering, h.clusteringAssigner, clustered)
}

func (h *Hybrid) build(pc *PageContext, s Strategy, a *Assigner, rs *RegionSet) ([]*model.Table, error) {
	var tables []*model.Table
	for i, region := range rs.Sorted() {
		sel := Select(pc, region.BBox, rs.VerticalSegments, rs.HorizontalSegments)

		table, err := s.BuildTable(pc, region, sel)
		if err != nil {
			return nil, fmt.Errorf("page %d: building table %d: %w", pc.pageNumber(), i+1, err)
		}

		accuracy := a.Assign(pc, table, sel)

		text := make([]model.BBox, 0, len(sel.Horizontal)+len(sel.Vertical))
		for _, f := range sel.Horizontal {
			text = append(text, f.BBox)
		}
		for _, f := range sel.Vertical {
			text = append(text, f.BBox)
		}

		Finalize(table, TableInfo{
			Index:    i,
			Page:     pc.pageNumber(),
			Flavor:   s.Flavor(),
			Accuracy: accuracy,
			Regions:  rs,
			Text:     text,
		})
		table.BBox = region.BBox

		pc.emit(EventTable, slog.LevelDebug, "table extracted",
			slog.Int("order", table.Order),
			slog.String("flavor", table.Flavor.String()),
			slog.Any("shape", table.Shape),
			slog.Float64("accuracy", table.Accuracy),
			slog.Float64("whitespace", table.Whitespace),
		)
		tables = append(tables, table)
	}
	return tables, nil
}
