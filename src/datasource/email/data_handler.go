// data_handler.go
package email

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"github.com/tealeg/xlsx"

	"TitanicInsight/src/processor"
)

// DataFrameWrapper guards a passenger DataFrame for access from the cron
// refresh and the dashboard handlers.
type DataFrameWrapper struct {
	df dataframe.DataFrame
	mu sync.RWMutex
}

// GetDF returns the current DataFrame.
func (d *DataFrameWrapper) GetDF() dataframe.DataFrame {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.df
}

// SetDF replaces the current DataFrame.
func (d *DataFrameWrapper) SetDF(df dataframe.DataFrame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.df = df
}

// ReadCSV loads CSV bytes (a mail attachment) into the wrapper.
func (d *DataFrameWrapper) ReadCSV(data []byte) error {
	df := dataframe.ReadCSV(bytes.NewReader(data), processor.LoadOptions()...)
	if df.Err != nil {
		return fmt.Errorf("parsing csv attachment: %w", df.Err)
	}
	if err := processor.ValidateSchema(df); err != nil {
		return err
	}
	d.SetDF(df)
	return nil
}

// ReadXLSX loads XLSX bytes into the wrapper. An empty sheetName selects
// the first sheet.
func (d *DataFrameWrapper) ReadXLSX(data []byte, sheetName string) error {
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return fmt.Errorf("opening xlsx attachment: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return fmt.Errorf("xlsx attachment has no sheets")
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return fmt.Errorf("xlsx attachment has no sheet named %q", sheetName)
		}
		sheet = s
	}

	df, err := convertSheetToDataFrame(sheet)
	if err != nil {
		return fmt.Errorf("converting xlsx attachment: %w", err)
	}
	if err := processor.ValidateSchema(df); err != nil {
		return err
	}
	d.SetDF(df)
	return nil
}

// LoadAttachment loads the first usable dataset attachment of an email and
// returns its filename.
func (d *DataFrameWrapper) LoadAttachment(e *Email, sheetName string) (string, error) {
	if e == nil || len(e.Attachments) == 0 {
		return "", fmt.Errorf("mail has no attachments")
	}

	for _, att := range e.Attachments {
		switch strings.ToLower(filepath.Ext(att.Filename)) {
		case ".csv":
			return att.Filename, d.ReadCSV(att.Content)
		case ".xlsx":
			return att.Filename, d.ReadXLSX(att.Content, sheetName)
		}
	}
	return "", fmt.Errorf("no csv or xlsx attachment found")
}

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

// AttachmentSaver archives dataset attachments into the data directory so
// the file monitor and later runs can pick them up.
type AttachmentSaver struct {
	dataDir string
}

func NewAttachmentSaver(dataDir string) *AttachmentSaver {
	return &AttachmentSaver{dataDir: dataDir}
}

// Save writes every dataset attachment of the mail to disk and returns the
// written paths.
func (h *AttachmentSaver) Save(e *Email) ([]string, error) {
	if e == nil {
		return nil, nil
	}
	if err := os.MkdirAll(h.dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	var saved []string
	for _, att := range e.Attachments {
		ext := strings.ToLower(filepath.Ext(att.Filename))
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}
		path := filepath.Join(h.dataDir, filepath.Base(att.Filename))
		if err := os.WriteFile(path, att.Content, 0644); err != nil {
			return saved, fmt.Errorf("saving attachment %s: %w", att.Filename, err)
		}
		saved = append(saved, path)
	}
	return saved, nil
}
