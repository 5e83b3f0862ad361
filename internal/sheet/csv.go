package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/AttrExtract/internal/core"
)

// ReadCSV parses a delimited text file. Every non-empty cell is text.
func ReadCSV(r io.Reader) (*core.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	data, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrEmptyFile
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	text := func(int, int) core.Kind { return core.KindText }
	return buildTable(records[0], records[1:], text), nil
}

// decodeText returns UTF-8 text. A UTF-8 or UTF-16 BOM selects the encoding;
// otherwise valid UTF-8 is kept and anything else is read as Windows-1252.
func decodeText(raw []byte) ([]byte, error) {
	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	if !utf8.Valid(raw) && !hasBOM(raw) {
		fallback = charmap.Windows1252.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), raw)
	return out, err
}

func hasBOM(b []byte) bool {
	return bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(b, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(b, []byte{0xFE, 0xFF})
}

// detectDelimiter picks ';' when the header line has more semicolons than
// commas, as produced by spreadsheet programs in comma-decimal locales.
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
