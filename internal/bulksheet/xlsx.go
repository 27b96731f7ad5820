package bulksheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/bidopt-cli/internal/utils"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// ReadXLSX loads one worksheet of an .xlsx bulksheet.
// Sheet selection: opt.SheetName (case-insensitive), then opt.SheetIndex (1-based),
// then the first sheet whose header has a Bid column, then the first sheet.
func ReadXLSX(path string, opt Options) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &ResourceError{Path: path, Err: err}
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return NewTable(filepath.Base(path), nil, nil), nil
	}
	sheet, err := pickSheet(f, sheets, opt)
	if err != nil {
		return nil, fmt.Errorf("%w (workbook %s)", err, filepath.Base(path))
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	var header []string
	var data [][]string
	for _, row := range rows {
		if header == nil {
			header = row
			continue
		}
		if len(row) == 0 {
			continue
		}
		data = append(data, row)
	}
	t := NewTable(filepath.Base(path), header, data)
	t.Sheet = sheet
	return t, nil
}

func pickSheet(f *excelize.File, sheets []string, opt Options) (string, error) {
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found; available sheets: %s", opt.SheetName, strings.Join(sheets, ", "))
	}
	if opt.SheetIndex > 0 {
		if opt.SheetIndex > len(sheets) {
			return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", opt.SheetIndex, len(sheets))
		}
		return sheets[opt.SheetIndex-1], nil
	}
	for _, s := range sheets {
		rows, err := f.Rows(s)
		if err != nil {
			continue
		}
		var header []string
		if rows.Next() {
			header, _ = rows.Columns()
		}
		_ = rows.Close()
		for _, h := range header {
			if strings.TrimSpace(h) == "Bid" {
				return s, nil
			}
		}
	}
	return sheets[0], nil
}

// WriteXLSX atomically writes the table to a single-sheet workbook. Columns
// flagged numeric are written as numbers when they parse as plain decimals.
func WriteXLSX(path string, t *Table, opt Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := opt.SheetName
	if sheet == "" {
		sheet = t.Sheet
	}
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	if err := writeRow(sw, 1, toCells(t.Header)); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
			if j < len(t.Header) && t.IsNumeric(t.Header[j]) {
				if d, ok := ParseNumber(v, Options{}); ok {
					cells[j] = d.InexactFloat64()
				}
			}
		}
		if err := writeRow(sw, i+2, cells); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode xlsx: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeRow(sw *excelize.StreamWriter, n int, cells []interface{}) error {
	ref, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := sw.SetRow(ref, cells); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}

func toCells(vals []string) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
