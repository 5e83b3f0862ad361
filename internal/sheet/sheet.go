// Package sheet reads and writes the spreadsheet files exchanged with users.
//
// Workbooks (.xlsx, .xlsm) are handled with excelize; only the first sheet is
// read and its first row is the header. CSV files are decoded from UTF-8
// (with or without BOM) or, when not valid UTF-8, from Windows-1252, which is
// what spreadsheet programs commonly export.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/AttrExtract/internal/core"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrEmptyFile         = errors.New("empty file")
)

// Format is a supported input file format.
type Format int

const (
	FormatExcel Format = iota + 1
	FormatCSV
)

// DetectFormat chooses a format from the file extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatExcel, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// Read parses r according to the extension of filename.
func Read(filename string, r io.Reader) (*core.Table, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	default:
		return ReadExcel(r)
	}
}

// ReadFile opens and parses the file at path.
func ReadFile(path string) (*core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	t, err := Read(path, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// buildTable turns a header and raw records into a table. kindOf reports the
// kind of the non-empty cell at (row, col); empty cells are always Null.
func buildTable(header []string, records [][]string, kindOf func(row, col int) core.Kind) *core.Table {
	columns := headerNames(header)
	t := core.NewTable(columns...)
	for i, rec := range records {
		if isEmptyRecord(rec) {
			continue
		}
		values := make([]core.Value, len(columns))
		for j := range columns {
			if j >= len(rec) || rec[j] == "" {
				continue
			}
			switch kindOf(i, j) {
			case core.KindText:
				values[j] = core.Text(rec[j])
			default:
				values[j] = core.Other(rec[j])
			}
		}
		t.Append(values...)
	}
	return t
}

// headerNames normalizes header cells, naming blank headers "Unnamed: N" and
// suffixing repeated names with ".1", ".2", ... so every column is addressable.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := core.NormalizeHeader(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

func isEmptyRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
