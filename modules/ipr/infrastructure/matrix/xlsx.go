package matrix

import (
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/ipr/modules/ipr/domain/competency"
)

const SheetName = "Competencies"

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headerKeys = append([]string{
	"IPR.Matrix.Level",
	"IPR.Matrix.NextLevel",
	"IPR.Matrix.MinimumTenure",
	"IPR.Matrix.English",
	"IPR.Matrix.PrimarySkill",
}, competency.SoftSkillKeys...)

// ExportXLSX writes the table as a spreadsheet with one row per level.
// translate resolves header and level labels.
func ExportXLSX(w io.Writer, table *competency.Table, translate func(key string) string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errors.Wrap(err, "rename sheet")
	}

	header := make([]interface{}, len(headerKeys))
	for i, key := range headerKeys {
		header[i] = translate(key)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i, e := range table.Entries() {
		next := ""
		if l, ok := table.NextLevel(e.Level); ok {
			next = translate(l.LocaleKey())
		}
		var months interface{}
		if m, ok := table.MinimumTenureMonths(e.Level); ok {
			months = m
		}
		row := []interface{}{
			translate(e.Level.LocaleKey()),
			next,
			months,
			strings.TrimSpace(e.English),
			strings.TrimSpace(e.PrimarySkill),
		}
		for _, text := range e.SoftSkills.Ordered() {
			row = append(row, strings.TrimSpace(text))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return errors.Wrapf(err, "write level %s", e.Level)
		}
	}

	if err := styleSheet(f, len(table.Entries())+1); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func styleSheet(f *excelize.File, rows int) error {
	lastCol, err := excelize.ColumnNumberToName(len(headerKeys))
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E7EEF7"}},
	})
	if err != nil {
		return err
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if rows > 1 {
		if err := f.SetCellStyle(SheetName, "A2", lastCol+strconv.Itoa(rows), bodyStyle); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "C", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "D", lastCol, 40); err != nil {
		return err
	}
	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
