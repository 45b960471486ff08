// Package tabular parses delimited spreadsheet uploads into header keyed
// rows. CSV and XLSX are supported; both yield the same []Row so callers
// never care which format the tenant uploaded.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported_format")
	ErrMalformed         = errors.New("malformed_file")
)

// Row maps a header cell to the value in that column, both trimmed.
type Row map[string]string

// Parse reads a tabular file and returns one Row per data row. The first
// non-empty row is the header. Fully empty rows are skipped. A file that
// cannot be parsed structurally returns ErrMalformed with no partial rows.
func Parse(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(r)
	case ".xlsx":
		return parseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func parseCSV(r io.Reader) ([]Row, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	var header []string
	var rows []Row
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if emptyRecord(rec) {
			continue
		}
		if header == nil {
			header = trimAll(rec)
			continue
		}
		rows = append(rows, makeRow(header, rec))
	}
	if header == nil {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformed)
	}
	return rows, nil
}

func parseXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var header []string
	var rows []Row
	for _, rec := range records {
		if emptyRecord(rec) {
			continue
		}
		if header == nil {
			header = trimAll(rec)
			continue
		}
		rows = append(rows, makeRow(header, rec))
	}
	if header == nil {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformed)
	}
	return rows, nil
}

func makeRow(header, rec []string) Row {
	row := make(Row, len(header))
	for i, h := range header {
		if h == "" {
			continue
		}
		var v string
		if i < len(rec) {
			v = strings.TrimSpace(rec[i])
		}
		row[h] = v
	}
	return row
}

func emptyRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, c := range rec {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
