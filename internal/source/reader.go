// =============================================================================
// Disperse Validator - Input Reader
// =============================================================================
//
// This module turns an uploaded file into the raw text buffer the engine
// validates. Supported inputs:
//   - .txt, .csv, no extension : read as text
//   - .xlsx                    : first sheet, one line per non-empty row
//   - "-"                      : standard input, read as text
//
// XLSX ROW LAYOUT:
//
//   | Column A   | Column B |
//   |------------|----------|
//   | 0xabc...   | 1.5      |   ->  "0xabc...=1.5"
//
//   Rows with any other number of non-empty cells are joined with "," so the
//   engine reports them as delimiter errors on the matching line.
//
// =============================================================================

package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for file extensions the reader
	// does not handle.
	ErrUnsupportedFormat = errors.New("unsupported input format")

	// ErrEmptySheet is returned when a workbook has no sheet or no rows.
	ErrEmptySheet = errors.New("workbook has no rows")
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// IsSupported reports whether the reader handles the file's extension.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".txt", ".csv", ".xlsx":
		return true
	}
	return false
}

// Read loads the file at path as a raw text buffer.
//
// PARAMETERS:
//   - path: The input file, or "-" for standard input.
//
// RETURNS:
//   - The buffer with CRLF line endings normalized and one trailing
//     newline removed.
//   - An error if the file cannot be read or its format is unsupported.
func Read(path string) (string, error) {
	if path == Stdin {
		return ReadText(os.Stdin)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".txt", ".csv":
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		return ReadText(f)
	case ".xlsx":
		return ReadWorkbook(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadText reads a plain-text buffer from r.
func ReadText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return normalize(string(data)), nil
}

// ReadWorkbook reads the first sheet of an XLSX file.
func ReadWorkbook(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return "", ErrEmptySheet
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to read rows: %w", err)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := nonEmptyCells(row)
		if len(cells) == 0 {
			continue
		}
		lines = append(lines, rowToLine(cells))
	}

	if len(lines) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptySheet, sheetName)
	}

	return strings.Join(lines, "\n"), nil
}

func rowToLine(cells []string) string {
	if len(cells) == 2 {
		return cells[0] + "=" + cells[1]
	}
	return strings.Join(cells, ",")
}

func nonEmptyCells(row []string) []string {
	cells := make([]string, 0, len(row))
	for _, cell := range row {
		if v := strings.TrimSpace(cell); v != "" {
			cells = append(cells, v)
		}
	}
	return cells
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSuffix(text, "\n")
}
