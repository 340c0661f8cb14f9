package report

import (
	"fmt"

	"github.com/pfrederiksen/venue-recon/internal/venue"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the results
const SheetName = "recon"

// XLSXColumns are the TSV columns followed by name and error
var XLSXColumns = append(append([]string{}, Columns...), "name", "error")

// WriteXLSX writes sorted results to a single-sheet workbook at path
func WriteXLSX(path string, results []venue.ProbeResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, len(XLSXColumns))
	for i, c := range XLSXColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range sorted(results) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := make([]interface{}, 0, len(XLSXColumns))
		for _, v := range Row(r) {
			row = append(row, v)
		}
		row = append(row, r.Name, r.Error)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
