// Package batchfile reads uploaded coach roster files (CSV or XLSX) into a typed batch.
package batchfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coach-video-admin/internal/models"
	"github.com/xuri/excelize/v2"
)

// Required header columns, matched case-insensitively
const (
	ColumnName  = "name"
	ColumnEmail = "email"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .csv nor .xlsx
	ErrUnsupportedFormat = errors.New("file must be .csv or .xlsx")
	// ErrEmptyFile is returned when the file has no header row
	ErrEmptyFile = errors.New("file is empty")
	// ErrTooManyRows is returned when the file exceeds ParseOptions.MaxRows
	ErrTooManyRows = errors.New("file has too many rows")
)

// SchemaError lists header problems in an uploaded file
type SchemaError struct {
	Missing    []string
	Unexpected []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ParseOptions limits what Parse accepts
type ParseOptions struct {
	MaxRows int // 0 means unlimited
}

// Parse detects the format from filename and reads the batch
func Parse(filename string, r io.Reader, opts ParseOptions) (models.UploadBatch, error) {
	var (
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(r)
	case ".xlsx":
		records, err = readXLSX(r)
	default:
		return models.UploadBatch{}, ErrUnsupportedFormat
	}
	if err != nil {
		return models.UploadBatch{}, err
	}

	batch, err := fromRecords(records, opts)
	if err != nil {
		return models.UploadBatch{}, err
	}
	batch.Filename = filename
	return batch, nil
}

// CheckHeader maps the header to column indexes.
// A SchemaError is returned only when a required column is missing.
func CheckHeader(header []string) (map[string]int, []string, error) {
	index := make(map[string]int, len(header))
	var unexpected []string
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if key == "" {
			continue
		}
		if key != ColumnName && key != ColumnEmail {
			unexpected = append(unexpected, key)
		}
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	sort.Strings(unexpected)

	var missing []string
	for _, col := range []string{ColumnName, ColumnEmail} {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, unexpected, &SchemaError{Missing: missing, Unexpected: unexpected}
	}
	return index, unexpected, nil
}

func fromRecords(records [][]string, opts ParseOptions) (models.UploadBatch, error) {
	if len(records) == 0 {
		return models.UploadBatch{}, ErrEmptyFile
	}

	index, _, err := CheckHeader(records[0])
	if err != nil {
		return models.UploadBatch{}, err
	}

	var batch models.UploadBatch
	for i, rec := range records[1:] {
		name := getField(rec, index, ColumnName)
		email := getField(rec, index, ColumnEmail)
		if name == "" && email == "" {
			continue // skip empty lines
		}
		if opts.MaxRows > 0 && len(batch.Rows) >= opts.MaxRows {
			return models.UploadBatch{}, ErrTooManyRows
		}
		batch.Rows = append(batch.Rows, models.UploadRow{
			Line:  i + 2, // 1-based, after the header
			Name:  name,
			Email: email,
		})
	}
	return batch, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow ragged rows
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return records, nil
}

// readXLSX reads the first sheet of a workbook
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func getField(record []string, headerMap map[string]int, field string) string {
	if idx, ok := headerMap[field]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
