package serviceImp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"agrimind/pkg/transfer/types"
)

func (s *transferService) ExportXLSX(ctx context.Context, w io.Writer) error {
	doc, err := s.assemble(ctx)
	if err != nil {
		return err
	}
	if err := writeWorkbook(doc, w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	s.metrics.IncExport("xlsx")
	return nil
}

// writeWorkbook renders one sheet per collection. The header row is the sorted
// union of entry keys; nested values are JSON text.
func writeWorkbook(doc *types.ExportDocument, w io.Writer) error {
	x := excelize.NewFile()
	defer x.Close()

	for i, key := range types.CollectionKeys {
		if i == 0 {
			if err := x.SetSheetName(x.GetSheetName(0), key); err != nil {
				return err
			}
		} else if _, err := x.NewSheet(key); err != nil {
			return err
		}

		entries := doc.Collections[key]
		cols := columns(entries)
		header := make([]any, len(cols))
		for c, col := range cols {
			header[c] = col
		}
		if err := x.SetSheetRow(key, "A1", &header); err != nil {
			return err
		}
		for r, e := range entries {
			row := make([]any, len(cols))
			for c, col := range cols {
				row[c] = cellValue(e[col])
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := x.SetSheetRow(key, cell, &row); err != nil {
				return err
			}
		}
	}

	if _, err := x.NewSheet("meta"); err != nil {
		return err
	}
	if err := x.SetSheetRow("meta", "A1", &[]any{"version", doc.Version}); err != nil {
		return err
	}
	if err := x.SetSheetRow("meta", "A2", &[]any{"exportDate", doc.ExportDate.Format(time.RFC3339)}); err != nil {
		return err
	}
	x.SetActiveSheet(0)
	return x.Write(w)
}

func columns(entries []types.Entry) []string {
	seen := map[string]bool{}
	var keys []string
	for _, e := range entries {
		for k := range e {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, bool, int, int64, float64:
		return t
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
