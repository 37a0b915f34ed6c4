package gridscan

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal issue found while extracting tables. The page is
// still processed and the other pages are unaffected.
type Warning struct {
	Page    int    // 1-indexed page the warning refers to
	Message string // Human-readable description

	// Err is the condition behind the warning, for errors.Is checks:
	// tables.ErrEmptyPage or tables.ErrUnsupportedConfiguration.
	Err error
}

func (w Warning) String() string {
	return fmt.Sprintf("page %d: %s", w.Page, w.Message)
}

// FormatWarnings joins warnings into a single line suitable for logging.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
