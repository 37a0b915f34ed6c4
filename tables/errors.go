package tables

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedConfiguration is returned when a page's ruling segments
	// form a combination no strategy handles: vertical rulings without any
	// horizontal ones.
	ErrUnsupportedConfiguration = errors.New("unsupported ruling configuration: not implemented")

	// ErrEmptyPage marks a page without horizontal text. It is reported as
	// a warning, never returned as an error.
	ErrEmptyPage = errors.New("empty page")

	// ErrInvalidConfig is wrapped by every ConfigError.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrPageTooLarge is returned when a page exceeds Config.MaxPageSize
	// and no text mask is built for it.
	ErrPageTooLarge = errors.New("page too large")

	// ErrNoImage is returned by an ImageProvider that has no image for a
	// page. The page is then treated as having no ruling lines.
	ErrNoImage = errors.New("image provider returned no image")
)

// ConfigError describes a malformed option in Config.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// EmptyPageReason tells why a page produced no text to analyze.
type EmptyPageReason int

const (
	// ReasonNoText means the page has neither text nor images.
	ReasonNoText EmptyPageReason = iota
	// ReasonImageBased means the page has images but no text, typically a
	// scanned page. OCR is not supported.
	ReasonImageBased
)

func (r EmptyPageReason) String() string {
	switch r {
	case ReasonImageBased:
		return "image-based page, only text-based pages are supported"
	default:
		return "no text found on page"
	}
}
