package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/suspensionlab/seedtools/internal/fileio"
	"github.com/suspensionlab/seedtools/internal/store"
	excelize "github.com/xuri/excelize/v2"
)

// Export collects Set payloads for a workbook with one row per document.
// Nested fields become dotted columns, e.g. "fork.brand".
type Export struct {
	rows    []map[string]interface{}
	columns map[string]struct{}
}

// NewExport returns an empty Export.
func NewExport() *Export {
	return &Export{columns: make(map[string]struct{})}
}

// Add records op if it is a Set. It has the signature batch.Tee expects.
func (e *Export) Add(op store.Op) {
	if op.Kind != store.Set {
		return
	}
	row := make(map[string]interface{})
	row["_id"] = op.ID
	flatten("", op.Payload, row)
	for k := range row {
		e.columns[k] = struct{}{}
	}
	e.rows = append(e.rows, row)
}

// Len is the number of documents collected.
func (e *Export) Len() int {
	return len(e.rows)
}

func flatten(prefix string, m map[string]interface{}, out map[string]interface{}) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch vv := v.(type) {
		case map[string]interface{}:
			flatten(key, vv, out)
		case nil:
		case []interface{}:
			out[key] = fmt.Sprint(vv...)
		default:
			if vv == store.ServerTimestamp {
				out[key] = "(server timestamp)"
				continue
			}
			out[key] = vv
		}
	}
}

// Columns returns the header row: "_id" first, then every field in lexical order.
func (e *Export) Columns() []string {
	cols := make([]string, 0, len(e.columns))
	for k := range e.columns {
		if k != "_id" {
			cols = append(cols, k)
		}
	}
	sort.Strings(cols)
	return append([]string{"_id"}, cols...)
}

// Workbook lays the collected documents out in a new workbook.
func (e *Export) Workbook() (*excelize.File, error) {
	xl := excelize.NewFile()
	sheetName := xl.GetSheetName(xl.GetActiveSheetIndex())

	cols := e.Columns()
	for icol, c := range cols {
		index, err := excelize.CoordinatesToCellName(icol+1, 1)
		if err != nil {
			return nil, err
		}
		xl.SetCellStr(sheetName, index, c)
	}

	for irow, row := range e.rows {
		for icol, c := range cols {
			v, ok := row[c]
			if !ok {
				continue
			}
			index, err := excelize.CoordinatesToCellName(icol+1, irow+2)
			if err != nil {
				return nil, err
			}
			if err := xl.SetCellValue(sheetName, index, v); err != nil {
				return nil, err
			}
		}
	}
	return xl, nil
}

// WriteFile writes the workbook to a local path or gs:// URL.
func (e *Export) WriteFile(ctx context.Context, f string) error {
	xl, err := e.Workbook()
	if err != nil {
		return fmt.Errorf("WriteFile: failed to make workbook: %w", err)
	}

	writer, err := fileio.OpenWriter(ctx, f)
	if err != nil {
		return fmt.Errorf("WriteFile: failed to open '%s': %w", f, err)
	}

	if _, err := xl.WriteTo(writer); err != nil {
		writer.Close()
		return fmt.Errorf("WriteFile: failed to write Excel file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("WriteFile: failed to close '%s': %w", f, err)
	}
	return nil
}
