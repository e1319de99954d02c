package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/actdiff/internal/unit"
)

// WriteCSV renders the comparison as delimited text: a header row followed
// by one row per record.
func WriteCSV(w io.Writer, records []unit.MatchRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
