// Package tables detects tables on a laid-out page and fills them with the
// page's text.
//
// # Strategies
//
// Region detection and grid construction are performed by types
// implementing the [Strategy] interface:
//
//   - [Lattice] - builds grids from drawn ruling lines
//   - [Stream] - builds grids from the whitespace between text
//
// [Hybrid] dispatches between them per page. Pages ruled on both axes go
// to the ruling strategy; all other pages go to the clustering strategy,
// which uses any horizontal rulings as row boundaries.
//
//	pc := tables.NewPageContext(page)
//	h, err := tables.NewHybrid(tables.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	found, err := h.ExtractTables(pc)
//
// # Region Detection
//
// Without explicit table areas, [Stream] plots the page's text into a
// [PseudoImage] and scans it from top to bottom. Rows showing several text
// clusters open a candidate, narrow gaps and spanning headings extend it,
// and anything else closes it. A closed candidate is kept when it holds at
// least two rows of content.
//
// # Cell Assignment
//
// The [Assigner] places each fragment in the cell containing its vertical
// centre with the largest horizontal overlap, and scores the table:
//
//   - Accuracy - 100 minus the mean positional error of placed text
//   - Whitespace - share of cells left blank
//
// # Configuration
//
// Behavior is controlled by [Config]:
//
//	config := tables.DefaultConfig()
//	config.SplitText = true
//	config.CopyText = []string{"v"}
//	if err := config.Validate(); err != nil {
//		return err
//	}
//
// # Diagnostics
//
// The package holds no global logger. Events such as empty pages or text
// outside every column go to the [Diagnostics] sink on the [PageContext];
// [SlogDiagnostics] writes them to a log/slog logger.
package tables
