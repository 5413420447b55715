package fetcher

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Table is a fully-read tabular export: a header row plus data rows.
type Table struct {
	Source string
	Header []string
	Rows   [][]string

	colIdx map[string]int
}

// TableOptions configures ReadTable.
type TableOptions struct {
	// Encoding is a WHATWG encoding label ("utf-8", "windows-1252", ...). Empty means utf-8.
	Encoding string
	// SheetIndex selects the worksheet for XLSX inputs.
	SheetIndex int
}

// NewTable builds a Table from a header and rows, indexing header names.
func NewTable(source string, header []string, rows [][]string) *Table {
	t := &Table{Source: source, Header: header, Rows: rows}
	t.colIdx = make(map[string]int, len(header))
	for i, col := range header {
		name := strings.TrimSpace(col)
		if _, dup := t.colIdx[name]; !dup {
			t.colIdx[name] = i
		}
	}
	return t
}

// Has reports whether the exact (trimmed) column name is present.
func (t *Table) Has(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// Index returns the column index for name, or -1.
func (t *Table) Index(name string) int {
	if idx, ok := t.colIdx[name]; ok {
		return idx
	}
	return -1
}

// Get returns the trimmed value at column name in row, or "" if absent.
func (t *Table) Get(row []string, name string) string {
	idx, ok := t.colIdx[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ReadTable reads a .csv or .xlsx file into a Table based on its extension.
func ReadTable(path string, opts TableOptions) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err := ReadXLSX(path, XLSXOptions{SheetIndex: opts.SheetIndex})
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, eris.Errorf("xlsx: %s has no header row", path)
		}
		return NewTable(path, rows[0], rows[1:]), nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "csv: open %s", path)
		}
		defer f.Close() //nolint:errcheck

		t, err := ReadCSV(f, opts.Encoding)
		if err != nil {
			return nil, eris.Wrapf(err, "csv: read %s", path)
		}
		t.Source = path
		return t, nil
	}
}

// ReadCSV reads a CSV stream into a Table. Malformed rows are skipped, invalid
// byte sequences are dropped, and a leading UTF-8 BOM is removed from the header.
func ReadCSV(r io.Reader, encoding string) (*Table, error) {
	decoded, err := DecodeReader(r, encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("csv: empty file")
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}
	header = sanitizeRecord(header)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	var skipped int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped++
				continue // skip malformed rows
			}
			return nil, eris.Wrap(err, "csv: read row")
		}
		rows = append(rows, sanitizeRecord(record))
	}

	if skipped > 0 {
		zap.L().Debug("csv: skipped malformed rows", zap.Int("skipped", skipped))
	}

	return NewTable("", header, rows), nil
}

func sanitizeRecord(record []string) []string {
	for i, field := range record {
		record[i] = strings.ToValidUTF8(field, "")
	}
	return record
}
