package render

import (
	"fmt"
	"io"

	"github.com/dgallion1/rosterboard/internal/roster"
	"github.com/fumiama/go-docx"
	"github.com/xuri/excelize/v2"
)

// Headers are the column titles shared by every rendering.
var Headers = []string{"ល.រ", "ឈ្មោះ (Name)", "ID", "ភេទ (Sex)", "ក្រុម (Group)", "តួនាទី (Role)", "Telegram"}

const exportSheet = "Roster"

func (r Row) cells() []string {
	return []string{fmt.Sprint(r.Index), r.Name, r.ID, r.Gender, r.Group, r.Role, r.Telegram.Text}
}

// WriteXLSX writes rows and totals as a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []Row, s roster.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	line := 2
	for _, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, line)
		if r.Placeholder != "" {
			if err := f.SetCellValue(exportSheet, cell, r.Placeholder); err != nil {
				return fmt.Errorf("write placeholder: %w", err)
			}
			line++
			continue
		}
		values := []any{r.Index, r.Name, r.ID, r.Gender, r.Group, r.Role, r.Telegram.Text}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", r.Index, err)
		}
		if r.Telegram.Href != "" {
			link, _ := excelize.CoordinatesToCellName(len(Headers), line)
			if err := f.SetCellHyperLink(exportSheet, link, r.Telegram.Href, "External"); err != nil {
				return fmt.Errorf("link row %d: %w", r.Index, err)
			}
		}
		line++
	}

	line++
	for _, total := range []struct {
		label string
		value int
	}{{"Total", s.Total}, {"Male", s.Male}, {"Female", s.Female}} {
		cell, _ := excelize.CoordinatesToCellName(1, line)
		values := []any{total.label, total.value}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("write totals: %w", err)
		}
		line++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// WriteDOCX writes a printable document with a heading, the totals and the
// roster table.
func WriteDOCX(w io.Writer, title string, rows []Row, s roster.Summary) error {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText(title).Bold().Size("32")
	doc.AddParagraph().AddText(fmt.Sprintf("Total: %d   Male: %d   Female: %d", s.Total, s.Male, s.Female))

	tbl := doc.AddTable(len(rows)+1, len(Headers), 0, nil)
	for i, h := range Headers {
		tbl.TableRows[0].TableCells[i].AddParagraph().AddText(h).Bold()
	}
	for i, r := range rows {
		cells := tbl.TableRows[i+1].TableCells
		if r.Placeholder != "" {
			cells[0].AddParagraph().AddText(r.Placeholder)
			continue
		}
		for j, v := range r.cells() {
			cells[j].AddParagraph().AddText(v)
		}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
