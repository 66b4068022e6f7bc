// Package catalog reads suspension product catalogs from JSON or spreadsheet files.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/segmentio/fasthash/jody"
	log "github.com/sirupsen/logrus"
	"github.com/suspensionlab/seedtools/internal/fileio"
	"github.com/suspensionlab/seedtools/internal/store"
	"github.com/tealeg/xlsx"
)

// SourceError reports a catalog that cannot be seeded.
type SourceError struct {
	Path string
	// Index is the 0-based record at fault, or -1 if the file as a whole is bad.
	Index int
	Err   error
}

func (e *SourceError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("catalog %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("catalog %s: record %d: %v", e.Path, e.Index, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Catalog is a validated list of products and the bytes they were read from.
type Catalog struct {
	Path     string
	Products []Product

	raw []byte
}

// Load reads and validates the catalog at p, a local path or gs:// URL.
func Load(ctx context.Context, p string) (*Catalog, error) {
	r, err := fileio.OpenReader(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("Load: failed to open '%s': %w", p, err)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("Load: failed to read '%s': %w", p, err)
	}
	return Parse(p, raw)
}

// Parse decodes raw according to the extension of p and validates every record.
func Parse(p string, raw []byte) (*Catalog, error) {
	var records []map[string]interface{}
	var err error
	switch ext := strings.ToLower(path.Ext(p)); ext {
	case ".json", "":
		records, err = decodeJSON(p, raw)
	case ".xlsx":
		records, err = decodeXLSX(p, raw)
	default:
		err = &SourceError{Path: p, Index: -1, Err: fmt.Errorf("unrecognized file extension '%s'", ext)}
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, &SourceError{Path: p, Index: -1, Err: fmt.Errorf("no products")}
	}

	c := &Catalog{Path: p, Products: make([]Product, len(records)), raw: raw}
	seen := make(map[string]int)
	for i, rec := range records {
		prod, err := newProduct(rec)
		if err != nil {
			return nil, &SourceError{Path: p, Index: i, Err: err}
		}
		id := prod.ID()
		if j, ok := seen[id]; ok {
			log.Warnf("Records %d and %d share ID %s: record %d will overwrite record %d", j, i, id, i, j)
		}
		seen[id] = i
		c.Products[i] = prod
	}

	return c, nil
}

// Ops returns one Set per product, in file order, stamped with version.
func (c *Catalog) Ops(version int) []store.Op {
	ops := make([]store.Op, len(c.Products))
	for i, p := range c.Products {
		ops[i] = store.SetOp(PRODUCTS_COLLECTION, p.ID(), p.Fields(version))
	}
	return ops
}

// Checksum is a hex-encoded 64-bit hash of the catalog file contents.
func (c *Catalog) Checksum() string {
	return fmt.Sprintf("%016x", jody.HashBytes64(c.raw))
}

func decodeJSON(p string, raw []byte) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var items []interface{}
	if err := dec.Decode(&items); err != nil {
		return nil, &SourceError{Path: p, Index: -1, Err: err}
	}

	records := make([]map[string]interface{}, len(items))
	for i, item := range items {
		rec, ok := item.(map[string]interface{})
		if !ok {
			return nil, &SourceError{Path: p, Index: i, Err: fmt.Errorf("record is %T, not an object", item)}
		}
		records[i] = numbers(rec).(map[string]interface{})
	}
	return records, nil
}

// numbers replaces every json.Number in v with an int64, or a float64 if it is not integral.
func numbers(v interface{}) interface{} {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case map[string]interface{}:
		for k, e := range x {
			x[k] = numbers(e)
		}
		return x
	case []interface{}:
		for i, e := range x {
			x[i] = numbers(e)
		}
		return x
	}
	return v
}

func decodeXLSX(p string, raw []byte) ([]map[string]interface{}, error) {
	xl, err := xlsx.OpenBinary(raw)
	if err != nil {
		return nil, &SourceError{Path: p, Index: -1, Err: err}
	}
	if len(xl.Sheets) == 0 {
		return nil, &SourceError{Path: p, Index: -1, Err: fmt.Errorf("workbook has no sheets")}
	}

	sheet := xl.Sheets[0]
	log.Printf("Reading sheet name: %s", sheet.Name)
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(sheet.Rows[0].Cells))
	for i, cell := range sheet.Rows[0].Cells {
		header[i] = strings.TrimSpace(cell.Value)
	}

	records := make([]map[string]interface{}, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		if row == nil {
			continue
		}
		rec := make(map[string]interface{})
		for icol, cell := range row.Cells {
			if cell == nil || icol >= len(header) || header[icol] == "" || cell.Value == "" {
				continue
			}
			rec[header[icol]] = cellValue(cell)
		}
		if len(rec) == 0 {
			// trailing blank rows
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func cellValue(cell *xlsx.Cell) interface{} {
	switch cell.Type() {
	case xlsx.CellTypeNumeric:
		if i, err := strconv.ParseInt(cell.Value, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(cell.Value, 64); err == nil {
			return f
		}
	case xlsx.CellTypeBool:
		return cell.Value == "1"
	}
	return cell.Value
}
