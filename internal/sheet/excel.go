package sheet

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/AttrExtract/internal/core"
)

// ReadExcel parses the first sheet of a workbook.
func ReadExcel(r io.Reader) (*core.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets: %w", ErrEmptyFile)
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, ErrEmptyFile)
	}

	kindOf := func(row, col int) core.Kind {
		// Data rows start on the second spreadsheet row.
		cell, err := excelize.CoordinatesToCellName(col+1, row+2)
		if err != nil {
			return core.KindOther
		}
		typ, err := f.GetCellType(sheetName, cell)
		if err != nil {
			slog.Debug("cell type lookup failed", "sheet", sheetName, "cell", cell, "error", err)
			return core.KindOther
		}
		return cellKind(typ)
	}

	return buildTable(rows[0], rows[1:], kindOf), nil
}

// cellKind maps the stored cell type to a value kind. Cells without a type
// attribute hold numbers in OOXML.
func cellKind(t excelize.CellType) core.Kind {
	switch t {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return core.KindText
	default:
		return core.KindOther
	}
}

// WriteExcel writes t as a single-sheet workbook. Null cells are left empty;
// non-text cells that parse as numbers or booleans are written typed.
func WriteExcel(w io.Writer, t *core.Table, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	for col, name := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheetName, cell, name); err != nil {
			return fmt.Errorf("write header %q: %w", name, err)
		}
	}

	for i, row := range t.Rows {
		for col, name := range t.Columns {
			v := row.Get(name)
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(v)); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cellValue(v core.Value) any {
	if v.Kind == core.KindText {
		return v.Raw
	}
	if n, err := strconv.ParseFloat(v.Raw, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(v.Raw); err == nil {
		return b
	}
	return v.Raw
}
