package export

import (
	"encoding/csv"
	"io"

	"github.com/tsawler/gridscan/model"
)

// CSV writes the table's trimmed cell text as RFC 4180 records, one per
// table row.
func CSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Data()); err != nil {
		return err
	}
	return cw.Error()
}
