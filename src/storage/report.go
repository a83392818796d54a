// report.go
package storage

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ReportWriter exports result tables into one XLSX workbook, one sheet per
// table, stamped with the run that produced it.
type ReportWriter struct {
	runID uuid.UUID
}

func NewReportWriter(runID uuid.UUID) *ReportWriter {
	return &ReportWriter{runID: runID}
}

// Table pairs a sheet name with the DataFrame to write.
type Table struct {
	Name string
	DF   dataframe.DataFrame
}

// Write saves the tables as a workbook at filePath.
func (w *ReportWriter) Write(filePath string, tables []Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		if i == 0 {
			// reuse the default sheet for the first table
			if err := f.SetSheetName("Sheet1", table.Name); err != nil {
				return fmt.Errorf("renaming sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(table.Name); err != nil {
				return fmt.Errorf("adding sheet %s: %w", table.Name, err)
			}
		}
		if err := writeSheet(f, table.Name, table.DF); err != nil {
			return err
		}
	}

	err := f.SetDocProps(&excelize.DocProperties{
		Creator:     "TitanicInsight",
		Identifier:  w.runID.String(),
		Created:     time.Now().Format(time.RFC3339),
		Description: "Titanic survival analysis tables",
	})
	if err != nil {
		return fmt.Errorf("setting workbook properties: %w", err)
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("saving report workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheetName string, df dataframe.DataFrame) error {
	colNames := df.Names()
	for i, name := range colNames {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", sheetName, err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("sheet %s: %w", sheetName, err)
		}
	}

	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx, colName := range colNames {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("sheet %s: %w", sheetName, err)
			}
			if err := f.SetCellValue(sheetName, cell, df.Col(colName).Val(rowIdx)); err != nil {
				return fmt.Errorf("sheet %s: %w", sheetName, err)
			}
		}
	}
	return nil
}
