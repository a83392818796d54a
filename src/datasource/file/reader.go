// reader.go
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/tealeg/xlsx"

	"TitanicInsight/src/processor"
)

// ReadDataset loads a local copy of the passenger dataset, dispatching on
// the file extension (.csv or .xlsx).
func ReadDataset(filePath, sheetName string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return ReadCSV(filePath)
	case ".xlsx":
		return ReadXLSX(filePath, sheetName)
	default:
		return dataframe.DataFrame{}, fmt.Errorf("unsupported dataset file type: %s", filePath)
	}
}

// ReadCSV loads a CSV dataset file into a schema-validated DataFrame.
func ReadCSV(filePath string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("opening csv file: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, processor.LoadOptions()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parsing %s: %w", filePath, df.Err)
	}

	if err := processor.ValidateSchema(df); err != nil {
		return dataframe.DataFrame{}, err
	}
	return df, nil
}

// ReadXLSX loads an XLSX dataset file. When sheetName is empty the first
// sheet is used.
func ReadXLSX(filePath, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("opening xlsx file: %w", err)
	}

	sheet, err := pickSheet(xlFile, sheetName)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df, err := convertSheetToDataFrame(sheet)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("converting %s: %w", filePath, err)
	}

	if err := processor.ValidateSchema(df); err != nil {
		return dataframe.DataFrame{}, err
	}
	return df, nil
}

func pickSheet(xlFile *xlsx.File, sheetName string) (*xlsx.Sheet, error) {
	if len(xlFile.Sheets) == 0 {
		return nil, fmt.Errorf("xlsx file has no sheets")
	}
	if sheetName == "" {
		return xlFile.Sheets[0], nil
	}
	sheet, ok := xlFile.Sheet[sheetName]
	if !ok {
		return nil, fmt.Errorf("xlsx file has no sheet named %q", sheetName)
	}
	return sheet, nil
}

// convertSheetToDataFrame turns an xlsx.Sheet into a DataFrame, taking the
// first row as the header.
func convertSheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) < 2 {
		return dataframe.DataFrame{}, fmt.Errorf("sheet has no data rows")
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, strings.TrimSpace(cell.Value))
	}

	records := make([][]string, 0, len(sheet.Rows))
	records = append(records, headers)
	for _, row := range sheet.Rows[1:] {
		record := make([]string, len(headers))
		for i, cell := range row.Cells {
			if i < len(headers) {
				record[i] = cell.Value
			}
		}
		records = append(records, record)
	}

	df := dataframe.LoadRecords(records, processor.LoadOptions()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}
