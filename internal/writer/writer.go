// =============================================================================
// Disperse Validator - Output Writer Module
// =============================================================================
//
// This module writes a resolved (canonical) entry list to disk in one of the
// supported output formats:
//
//   text  ->  0xabc...=1.5        (the engine's own serialized form)
//   csv   ->  0xabc...,1.5        (comma delimited, no header)
//   xlsx  ->  | 0xabc... | 1.5 |  (first sheet, column A and B)
//
// Every format can be read back by the input reader and validates clean.
//
// =============================================================================

package writer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/disperse-validator/internal/resolver"
	"github.com/ginjaninja78/disperse-validator/internal/types"
)

// ErrUnsupportedFormat is returned for unknown output format names.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a configuration value onto a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Extension returns the file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".txt"
	}
}

// SheetName is the worksheet used for XLSX output.
const SheetName = "Disperse"

// =============================================================================
// GENERATION FUNCTIONS
// =============================================================================

// Encode renders entries in a text-based format.
//
// PARAMETERS:
//   - entries: The canonical entries, in output order.
//   - format: FormatText or FormatCSV.
//
// RETURNS:
//   - The encoded document, newline terminated unless empty.
//   - An error if the format is not text-based.
func Encode(entries []types.CanonicalEntry, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		text := resolver.Serialize(entries)
		if text == "" {
			return nil, nil
		}
		return []byte(text + "\n"), nil

	case FormatCSV:
		var buffer bytes.Buffer
		w := csv.NewWriter(&buffer)
		for _, entry := range entries {
			if err := w.Write([]string{entry.Identifier, entry.Amount.String()}); err != nil {
				return nil, fmt.Errorf("failed to encode csv row: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("failed to encode csv: %w", err)
		}
		return buffer.Bytes(), nil

	default:
		return nil, fmt.Errorf("%w: %s is not a text format", ErrUnsupportedFormat, format)
	}
}

// Write saves entries to path in the given format.
func Write(path string, entries []types.CanonicalEntry, format Format) error {
	if format == FormatXLSX {
		return writeWorkbook(path, entries)
	}

	data, err := Encode(entries, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func writeWorkbook(path string, entries []types.CanonicalEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, entry := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		// Amounts are written as strings to keep full decimal precision.
		row := []interface{}{entry.Identifier, entry.Amount.String()}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
