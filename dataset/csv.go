// Package dataset reads and writes the pipeline's flat tables: streaming
// typed readers for the three raw CSV inputs (members, admissions, claims),
// CSV writers for the raw and processed tables, readers for the processed
// tables the dashboard consumes, and Parquet writers configured for
// analytical query engines. All validation that guards the analytics core
// happens here, at parse time, so the core can assume well-formed records.
package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// tableFile is the shared streaming plumbing under every typed CSV reader:
// a buffered reader with BOM handling and a normalized header index.
type tableFile struct {
	path    string
	file    *os.File
	csv     *csv.Reader
	rowNum  int64
	colIdx  map[string]int // normalized name → column index
	headers []string
}

func openTable(path string) (*tableFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	bufReader := bufio.NewReaderSize(file, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	t := &tableFile{
		path:   path,
		file:   file,
		csv:    reader,
		colIdx: make(map[string]int),
	}
	if err := t.readHeader(); err != nil {
		file.Close()
		return nil, err
	}
	return t, nil
}

func (t *tableFile) readHeader() error {
	headers, err := t.csv.Read()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", t.path, err)
	}
	t.rowNum++
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	for i, h := range headers {
		h = normalizeHeader(h)
		t.headers = append(t.headers, h)
		if _, dup := t.colIdx[h]; !dup {
			t.colIdx[h] = i
		}
	}
	return nil
}

// normalizeHeader lowercases and trims a column name so "Member_ID " and
// "member_id" index identically.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// column returns the index of the first matching name or alias, or -1.
func (t *tableFile) column(names ...string) int {
	for _, n := range names {
		if i, ok := t.colIdx[n]; ok {
			return i
		}
	}
	return -1
}

// next returns the next non-empty data row, or io.EOF at end of file.
func (t *tableFile) next() ([]string, error) {
	for {
		row, err := t.csv.Read()
		if err != nil {
			return nil, err
		}
		t.rowNum++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		return row, nil
	}
}

func (t *tableFile) Close() error {
	return t.file.Close()
}

// Field helpers. String values are sanitized to valid UTF-8; some exports
// arrive Windows-1252 encoded.

func valAt(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return strings.ToValidUTF8(strings.TrimSpace(row[i]), "�")
	}
	return ""
}

// parseMoney accepts plain decimals plus spreadsheet-style "$1,234.56".
func parseMoney(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	return strconv.ParseFloat(s, 64)
}

// parseInt tolerates integer cells exported as "4.0".
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

// parseFlag reads a 0/1 or true/false cell. Empty cells read as false: an
// absent label means the flag was not set upstream.
func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "f", "no", "n":
		return false, nil
	case "1", "true", "t", "yes", "y":
		return true, nil
	}
	return false, fmt.Errorf("unrecognized flag value %q", s)
}
