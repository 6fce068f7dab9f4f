// =============================================================================
// Disperse Validator - Line Parser Module
// =============================================================================
//
// This module turns the raw text buffer into per-line parse results. It has
// two stages:
//   1. SplitLines: split the buffer on '\n' into RawLine values
//   2. ParseLine:  tokenize one line into an (identifier, amount) pair
//
// TOKENIZING RULES:
//   - The whole line is trimmed of leading/trailing whitespace first
//   - Every rune in the delimiter class is a split point:
//       * any Unicode whitespace
//       * comma (,)
//       * equals sign (=)
//   - Delimiters are NOT collapsed: "0xABC , 5" yields four tokens
//     ("0xABC", "", "", "5") and is therefore a format failure
//   - Exactly two tokens make a ParsedEntry, anything else a FormatFailure
//
// =============================================================================

package lineparser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ginjaninja78/disperse-validator/internal/types"
)

// =============================================================================
// LINE SPLITTER
// =============================================================================

// SplitLines splits the raw text buffer into ordered lines.
//
// No trimming and no filtering of blank lines is done: a blank line is a line
// and will fail format validation later. An empty buffer yields one empty
// line.
func SplitLines(text string) []types.RawLine {
	parts := strings.Split(text, "\n")

	lines := make([]types.RawLine, len(parts))
	for i, part := range parts {
		lines[i] = types.RawLine{Index: i, Text: part}
	}

	return lines
}

// =============================================================================
// ENTRY PARSER
// =============================================================================

// IsDelimiter reports whether r belongs to the delimiter class.
func IsDelimiter(r rune) bool {
	return r == ',' || r == '=' || unicode.IsSpace(r)
}

// Tokenize trims the line and splits it on every delimiter rune.
//
// Consecutive delimiters produce empty tokens, the same way a single
// regular-expression alternation split would.
func Tokenize(line string) []string {
	trimmed := strings.TrimSpace(line)

	var tokens []string
	start := 0
	for i, r := range trimmed {
		if IsDelimiter(r) {
			tokens = append(tokens, trimmed[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	tokens = append(tokens, trimmed[start:])

	return tokens
}

// ParseLine tokenizes a single line.
//
// PARAMETERS:
//   - line: The raw line to parse.
//
// RETURNS:
//   - A LineResult holding either the ParsedEntry (exactly two tokens) or a
//     FormatFailure (any other token count).
func ParseLine(line types.RawLine) types.LineResult {
	tokens := Tokenize(line.Text)

	if len(tokens) != 2 {
		return types.LineResult{
			Failure: &types.FormatFailure{
				LineNumber: line.LineNumber(),
				Text:       line.Text,
				Tokens:     len(tokens),
			},
		}
	}

	return types.LineResult{
		Entry: &types.ParsedEntry{
			LineNumber: line.LineNumber(),
			Identifier: tokens[0],
			AmountText: tokens[1],
		},
	}
}

// Parse splits and parses a whole buffer.
func Parse(text string) []types.LineResult {
	lines := SplitLines(text)

	results := make([]types.LineResult, len(lines))
	for i, line := range lines {
		results[i] = ParseLine(line)
	}

	return results
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// Entries returns the ParsedEntry of every format-valid result, in order.
func Entries(results []types.LineResult) []types.ParsedEntry {
	entries := make([]types.ParsedEntry, 0, len(results))
	for _, r := range results {
		if r.OK() {
			entries = append(entries, *r.Entry)
		}
	}
	return entries
}

// Failures returns every FormatFailure, in order.
func Failures(results []types.LineResult) []types.FormatFailure {
	var failures []types.FormatFailure
	for _, r := range results {
		if r.Failure != nil {
			failures = append(failures, *r.Failure)
		}
	}
	return failures
}
