package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/disperse-validator/internal/types"
)

// AddressIndex maps each identifier to the lines it appears on. Identifiers
// keep their first-seen order.
type AddressIndex struct {
	keys  []string
	lines map[string][]int
}

// NewAddressIndex returns an empty index.
func NewAddressIndex() *AddressIndex {
	return &AddressIndex{lines: make(map[string][]int)}
}

// Add records that identifier appears on lineNumber.
func (ix *AddressIndex) Add(identifier string, lineNumber int) {
	if _, seen := ix.lines[identifier]; !seen {
		ix.keys = append(ix.keys, identifier)
	}
	ix.lines[identifier] = append(ix.lines[identifier], lineNumber)
}

// orderedKeys returns a copy of the identifiers in first-seen order.
func (ix *AddressIndex) orderedKeys() []string {
	return append([]string(nil), ix.keys...)
}

// Lines returns the line numbers of identifier, in order.
func (ix *AddressIndex) Lines(identifier string) []int {
	return append([]int(nil), ix.lines[identifier]...)
}

// Len returns the number of distinct identifiers.
func (ix *AddressIndex) Len() int {
	return len(ix.keys)
}

// DuplicateReport is the outcome of a duplicate scan.
type DuplicateReport struct {
	// Index holds every format-valid identifier.
	Index *AddressIndex

	// Errors has one DuplicateAddress error per repeated identifier.
	Errors []*types.ValidationError

	// HasDuplicates gates the resolution flow.
	HasDuplicates bool
}

// DetectDuplicates scans all format-valid entries and groups repeated
// identifiers.
//
// Every entry is indexed regardless of whether its address or amount is
// valid, and regardless of errors on other lines.
func DetectDuplicates(entries []types.ParsedEntry) DuplicateReport {
	index := NewAddressIndex()
	for _, entry := range entries {
		index.Add(entry.Identifier, entry.LineNumber)
	}

	report := DuplicateReport{Index: index}

	for _, identifier := range index.orderedKeys() {
		lines := index.lines[identifier]
		if len(lines) < 2 {
			continue
		}

		report.HasDuplicates = true
		report.Errors = append(report.Errors, &types.ValidationError{
			LineNumber: lines[0],
			Kind:       types.DuplicateAddress,
			Message:    duplicateMessage(identifier, lines),
			Identifier: identifier,
			Lines:      append([]int(nil), lines...),
		})
	}

	return report
}

// duplicateMessage lists the already 1-based line numbers verbatim.
func duplicateMessage(identifier string, lines []int) string {
	numbers := make([]string, len(lines))
	for i, n := range lines {
		numbers[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("Address %s is duplicated in line(s): %s", identifier, strings.Join(numbers, ", "))
}
