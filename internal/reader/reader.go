// Package reader loads tabular input files into normalized rows.
package reader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Row maps a normalized column header to the cell value for one data row.
type Row map[string]string

// Value returns the first non-empty value among the given column names.
// Several input columns have a long and a short spelling in the wild.
func (r Row) Value(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(r[key]); v != "" {
			return v
		}
	}
	return ""
}

var (
	// ErrUnsupportedFormat rejects extensions other than .csv/.xlsx.
	ErrUnsupportedFormat = errors.New("unsupported_input_format")
	// ErrNoHeader means the file had no usable header row.
	ErrNoHeader = errors.New("missing_header_row")
)

// ReadFile dispatches on the file extension.
func ReadFile(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path, "")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadCSV reads a CSV file, sniffing the separator (;, comma or tab) and
// falling back from UTF-8 to Latin-1 then Windows-1252 when the content is
// not valid UTF-8. Exports from French spreadsheet tools commonly use both.
func ReadCSV(path string) ([]Row, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	text, err := decodeText(raw)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffSeparator(text)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows []Row
	var header []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		if header == nil {
			header = normalizeHeader(record)
			continue
		}
		rows = append(rows, makeRow(header, record))
	}
	if header == nil {
		return nil, ErrNoHeader
	}
	return rows, nil
}

// ReadXLSX reads an Excel workbook. An empty sheet name selects the first
// sheet.
func ReadXLSX(path, sheet string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	header := normalizeHeader(records[0])
	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		if isEmptyRecord(record) {
			continue
		}
		rows = append(rows, makeRow(header, record))
	}
	return rows, nil
}

func decodeText(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	for _, cm := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252} {
		decoded, err := cm.NewDecoder().Bytes(raw)
		if err == nil && utf8.Valid(decoded) {
			return string(decoded), nil
		}
	}
	return "", errors.New("undecodable input content")
}

// sniffSeparator picks the candidate with the most hits on the header line.
// French CSV exports default to semicolons.
func sniffSeparator(text string) rune {
	line := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}

	best, bestCount := ',', strings.Count(line, ",")
	for _, candidate := range []rune{';', '\t'} {
		if count := strings.Count(line, string(candidate)); count > bestCount {
			best, bestCount = candidate, count
		}
	}
	return best
}

func normalizeHeader(record []string) []string {
	header := make([]string, len(record))
	for i, cell := range record {
		header[i] = strings.ToLower(strings.TrimSpace(cell))
	}
	return header
}

func makeRow(header, record []string) Row {
	row := make(Row, len(header))
	for i, key := range header {
		if key == "" {
			continue
		}
		value := ""
		if i < len(record) {
			value = strings.TrimSpace(record[i])
		}
		row[key] = value
	}
	return row
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
