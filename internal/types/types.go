// =============================================================================
// Disperse Validator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - lineparser
//   - validation
//   - resolver
//   - disperse
//   - writer
//
// =============================================================================

package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LINE TYPES
// =============================================================================

// RawLine is one line of the pasted input, in original order.
type RawLine struct {
	// Index is the 0-based position of the line in the buffer.
	Index int

	// Text is the untouched line content.
	Text string
}

// LineNumber returns the user-facing, 1-based line number.
func (l RawLine) LineNumber() int {
	return l.Index + 1
}

// ParsedEntry is a line that tokenized into exactly two tokens.
type ParsedEntry struct {
	// LineNumber is the 1-based position of the line in the original text.
	LineNumber int

	// Identifier is the destination address token.
	Identifier string

	// AmountText is the amount token, not yet parsed.
	AmountText string
}

// FormatFailure tags a line that did not split into exactly two tokens.
type FormatFailure struct {
	LineNumber int
	Text       string

	// Tokens is the number of tokens the line produced.
	Tokens int
}

// LineResult is the outcome of parsing one line. Exactly one of Entry and
// Failure is set.
type LineResult struct {
	Entry   *ParsedEntry
	Failure *FormatFailure
}

// OK reports whether the line produced a ParsedEntry.
func (r LineResult) OK() bool {
	return r.Entry != nil
}

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ErrorKind classifies a validation error.
type ErrorKind string

const (
	// BadDelimiter is emitted when a line does not split into exactly two tokens.
	BadDelimiter ErrorKind = "bad_delimiter"

	// InvalidAddressAndAmount is emitted when both fields fail their checks.
	InvalidAddressAndAmount ErrorKind = "invalid_address_and_amount"

	// InvalidAddress is emitted when only the identifier fails.
	InvalidAddress ErrorKind = "invalid_address"

	// InvalidAmount is emitted when only the amount fails.
	InvalidAmount ErrorKind = "invalid_amount"

	// DuplicateAddress is emitted once per identifier that appears on more
	// than one format-valid line.
	DuplicateAddress ErrorKind = "duplicate_address"
)

// String returns a short human-readable label for the kind.
func (k ErrorKind) String() string {
	switch k {
	case BadDelimiter:
		return "bad delimiter"
	case InvalidAddressAndAmount:
		return "invalid address and amount"
	case InvalidAddress:
		return "invalid address"
	case InvalidAmount:
		return "invalid amount"
	case DuplicateAddress:
		return "duplicate address"
	default:
		return string(k)
	}
}

// ValidationError represents a single user-facing validation problem.
// Validation errors are accumulated, never fatal.
type ValidationError struct {
	// LineNumber is the 1-based line the error refers to. For duplicate
	// errors it is the line of the first occurrence.
	LineNumber int

	// Kind is the error classification.
	Kind ErrorKind

	// Message is the text shown to the operator.
	Message string

	// Identifier is set for duplicate errors.
	Identifier string

	// Lines lists every line of a duplicated identifier.
	Lines []int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// =============================================================================
// RESOLUTION TYPES
// =============================================================================

// ResolutionStrategy selects how duplicate identifiers are collapsed.
type ResolutionStrategy int

const (
	// KeepFirst keeps the amount of the first occurrence.
	KeepFirst ResolutionStrategy = iota

	// Combine sums the amounts of every occurrence.
	Combine
)

// String returns the canonical flag spelling of the strategy.
func (s ResolutionStrategy) String() string {
	switch s {
	case KeepFirst:
		return "keep"
	case Combine:
		return "combine"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy converts a user-supplied name into a ResolutionStrategy.
//
// ACCEPTED VALUES:
//   - keep, keep-first, first  -> KeepFirst
//   - combine, sum             -> Combine
func ParseStrategy(name string) (ResolutionStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "keep", "keep-first", "keep_first", "first":
		return KeepFirst, nil
	case "combine", "sum":
		return Combine, nil
	default:
		return 0, fmt.Errorf("unknown resolution strategy %q (want keep or combine)", name)
	}
}

// CanonicalEntry is the single resolved (identifier, amount) pair.
type CanonicalEntry struct {
	Identifier string
	Amount     decimal.Decimal
}
