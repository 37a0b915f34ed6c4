package tables

import (
	"context"
	"log/slog"
)

// EventKind classifies a diagnostic event.
type EventKind int

const (
	// EventEmptyPage: the page has no horizontal text.
	EventEmptyPage EventKind = iota
	// EventUnsupported: the page's ruling segments cannot be handled.
	EventUnsupported
	// EventColumnMiss: a fragment lies in a row but outside every column.
	EventColumnMiss
	// EventRegions: candidate regions were proposed for a page.
	EventRegions
	// EventTable: a table was built.
	EventTable
	// EventPageTooLarge: the page exceeds the configured size limit.
	EventPageTooLarge
)

func (k EventKind) String() string {
	switch k {
	case EventEmptyPage:
		return "empty_page"
	case EventUnsupported:
		return "unsupported"
	case EventColumnMiss:
		return "column_miss"
	case EventRegions:
		return "regions"
	case EventTable:
		return "table"
	case EventPageTooLarge:
		return "page_too_large"
	default:
		return "unknown"
	}
}

// Event is a structured diagnostic emitted while processing a page.
type Event struct {
	Kind    EventKind
	Level   slog.Level
	Page    int
	Message string
	Attrs   []slog.Attr
}

// Diagnostics receives events from the detection core. Implementations
// must be safe for concurrent use when pages are processed in parallel.
type Diagnostics interface {
	Emit(Event)
}

// DiagnosticsFunc adapts a function to the Diagnostics interface.
type DiagnosticsFunc func(Event)

// Emit calls f(e).
func (f DiagnosticsFunc) Emit(e Event) { f(e) }

// NopDiagnostics discards every event.
type NopDiagnostics struct{}

// Emit does nothing.
func (NopDiagnostics) Emit(Event) {}

// SlogDiagnostics writes events to a structured logger.
type SlogDiagnostics struct {
	Logger *slog.Logger
}

// NewSlogDiagnostics returns a sink writing to logger, or to slog.Default
// when logger is nil.
func NewSlogDiagnostics(logger *slog.Logger) *SlogDiagnostics {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogDiagnostics{Logger: logger}
}

// Emit logs the event at its level.
func (d *SlogDiagnostics) Emit(e Event) {
	attrs := make([]slog.Attr, 0, len(e.Attrs)+2)
	attrs = append(attrs, slog.String("event", e.Kind.String()), slog.Int("page", e.Page))
	attrs = append(attrs, e.Attrs...)
	d.Logger.LogAttrs(context.Background(), e.Level, e.Message, attrs...)
}

// MultiDiagnostics fans events out to several sinks.
type MultiDiagnostics []Diagnostics

// Emit forwards e to every sink.
func (m MultiDiagnostics) Emit(e Event) {
	for _, d := range m {
		if d != nil {
			d.Emit(e)
		}
	}
}
