package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aanand-mishra/addressbook/internal/addressbook"
	"github.com/aanand-mishra/addressbook/internal/types"
)

// defaultSheet is the sheet excelize creates with a new workbook.
const defaultSheet = "Sheet1"

// maxSheetName is Excel's limit on sheet name length, in characters.
const maxSheetName = 31

// XLSX writes the catalog to an Excel workbook at path: one sheet per
// book, named after the book, with the CSV field titles as header row.
// A catalog without books produces a workbook with one empty sheet.
func XLSX(path string, c *addressbook.Catalog) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	used := make(map[string]bool)
	for name, b := range c.Books() {
		sheet := uniqueSheetName(sheetName(name), used)
		if first {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return fmt.Errorf("XLSX: rename sheet %q: %w", sheet, err)
			}
			first = false
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("XLSX: new sheet %q: %w", sheet, err)
		}

		header := make([]any, len(types.Fields))
		for i, fld := range types.Fields {
			header[i] = fld.Title()
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("XLSX: header %q: %w", sheet, err)
		}

		for i, contact := range b.Contacts() {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return fmt.Errorf("XLSX: %w", err)
			}
			values := contact.Values()
			row := make([]any, len(values))
			for j, v := range values {
				row[j] = v
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("XLSX: row %s: %w", contact.FullName(), err)
			}
		}
	}

	if err := ensureDir(path); err != nil {
		return fmt.Errorf("XLSX: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("XLSX: save %s: %w", path, err)
	}
	return nil
}

// uniqueSheetName returns base, or base with a " (n)" suffix when a sheet
// of that name already exists. Excel compares sheet names without regard
// to case. The chosen name is recorded in used.
func uniqueSheetName(base string, used map[string]bool) string {
	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := " (" + strconv.Itoa(n) + ")"
		r := []rune(base)
		if limit := maxSheetName - len(suffix); len(r) > limit {
			r = r[:limit]
		}
		name = string(r) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

// sheetName trims a book name to Excel's 31-character sheet name limit
// and replaces the characters Excel rejects.
func sheetName(name string) string {
	r := []rune(name)
	for i, ch := range r {
		switch ch {
		case ':', '\\', '/', '?', '*', '[', ']':
			r[i] = '_'
		}
	}
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	if len(r) == 0 {
		return "Book"
	}
	return string(r)
}
