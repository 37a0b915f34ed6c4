// Package export writes extracted tables in common interchange formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/gridscan/model"
)

// Format identifies an output format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatXLSX     Format = "xlsx"
	FormatJSON     Format = "json"
)

// ParseFormat converts a user-supplied name into a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q", name)
	}
}

// Write renders tables to w in the given format. Text formats separate
// tables with a blank line.
func Write(w io.Writer, format Format, tables []*model.Table) error {
	switch format {
	case FormatXLSX:
		return XLSX(w, tables)
	case FormatJSON:
		return JSON(w, tables)
	case FormatCSV, FormatMarkdown:
		for i, t := range tables {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			var err error
			if format == FormatCSV {
				err = CSV(w, t)
			} else {
				err = Markdown(w, t)
			}
			if err != nil {
				return fmt.Errorf("table %d: %w", i+1, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Markdown writes the table as a GitHub-flavored markdown table.
func Markdown(w io.Writer, t *model.Table) error {
	_, err := io.WriteString(w, t.ToMarkdown())
	return err
}

type tableJSON struct {
	Page       int        `json:"page"`
	Order      int        `json:"order"`
	Flavor     string     `json:"flavor"`
	Shape      [2]int     `json:"shape"`
	Accuracy   float64    `json:"accuracy"`
	Whitespace float64    `json:"whitespace"`
	BBox       [4]float64 `json:"bbox"`
	Data       [][]string `json:"data"`
}

// JSON writes the tables with their metrics as a JSON array.
func JSON(w io.Writer, tables []*model.Table) error {
	out := make([]tableJSON, len(tables))
	for i, t := range tables {
		out[i] = tableJSON{
			Page:       t.Page,
			Order:      t.Order,
			Flavor:     t.Flavor.String(),
			Shape:      t.Shape,
			Accuracy:   t.Accuracy,
			Whitespace: t.Whitespace,
			BBox:       [4]float64{t.BBox.Left(), t.BBox.Bottom(), t.BBox.Right(), t.BBox.Top()},
			Data:       t.Data(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
