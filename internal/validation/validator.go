// =============================================================================
// Disperse Validator - Validation Engine
// =============================================================================
//
// This module validates parsed lines of a disperse list. Each line is checked
// independently:
//   - Format:  the line must have produced exactly two tokens
//   - Address: the identifier must have the configured length and prefix
//   - Amount:  the amount must be a number strictly greater than zero
//
// ERROR HANDLING:
//   - Errors are collected, not thrown
//   - At most one error is emitted per line (first match wins)
//   - Each error carries its 1-based line number and a display message
//
// Duplicate detection across lines lives in duplicates.go.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/disperse-validator/internal/types"
)

// =============================================================================
// VALIDATION OPTIONS
// =============================================================================

const (
	// DefaultAddressLength is the length of a 0x-prefixed 20-byte hex address.
	DefaultAddressLength = 42

	// DefaultAddressPrefix is the literal prefix every address must carry.
	DefaultAddressPrefix = "0x"

	// MaxAmountMagnitude and MinAmountMagnitude bound the power of ten of an
	// amount's leading digit to roughly the range of a float64.
	MaxAmountMagnitude = 308
	MinAmountMagnitude = -324
)

// Options contains options for validation.
type Options struct {
	// AddressLength is the exact identifier length accepted.
	// Default: 42
	AddressLength int

	// AddressPrefix is the literal identifier prefix accepted.
	// Default: "0x"
	AddressPrefix string
}

// DefaultOptions returns the default validation options.
func DefaultOptions() Options {
	return Options{
		AddressLength: DefaultAddressLength,
		AddressPrefix: DefaultAddressPrefix,
	}
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator applies the per-line format rules.
type Validator struct {
	options Options
}

// NewValidator creates a Validator with the default options.
func NewValidator() *Validator {
	return NewValidatorWithOptions(DefaultOptions())
}

// NewValidatorWithOptions creates a Validator with custom options. Zero
// fields fall back to their defaults.
func NewValidatorWithOptions(options Options) *Validator {
	if options.AddressLength <= 0 {
		options.AddressLength = DefaultAddressLength
	}
	if options.AddressPrefix == "" {
		options.AddressPrefix = DefaultAddressPrefix
	}
	return &Validator{options: options}
}

// Options returns the options in effect.
func (v *Validator) Options() Options {
	return v.options
}

// IsValidAddress reports whether the identifier has the configured length and
// prefix. No hex or checksum validation is performed.
func (v *Validator) IsValidAddress(identifier string) bool {
	return len(identifier) == v.options.AddressLength &&
		strings.HasPrefix(identifier, v.options.AddressPrefix)
}

// IsValidAmount reports whether the amount text is a number strictly greater
// than zero.
func IsValidAmount(amountText string) bool {
	_, err := ParseAmount(amountText)
	return err == nil
}

// ParseAmount parses an amount and requires it to be strictly positive and
// within the magnitude bounds.
//
// RETURNS:
//   - The parsed amount.
//   - An error if the text is not a number, is not greater than zero, or is
//     out of range.
func ParseAmount(amountText string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not a number: %w", amountText, err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount %q must be greater than zero", amountText)
	}

	// Exponent and NumDigits stay cheap for huge exponents; String, Add and
	// Float64 would expand the coefficient.
	magnitude := int64(amount.Exponent()) + int64(amount.NumDigits()) - 1
	if magnitude > MaxAmountMagnitude || magnitude < MinAmountMagnitude {
		return decimal.Zero, fmt.Errorf("amount %q is out of range", amountText)
	}
	return amount, nil
}

// ValidateEntry checks one format-valid line.
//
// PARAMETERS:
//   - entry: The parsed entry to check.
//
// RETURNS:
//   - The single error for the line, or nil if both fields are valid.
//
// EMISSION TABLE (first match wins):
//   | Address valid | Amount valid | Error                   |
//   |---------------|--------------|-------------------------|
//   | no            | no           | InvalidAddressAndAmount |
//   | no            | yes          | InvalidAddress          |
//   | yes           | no           | InvalidAmount           |
//   | yes           | yes          | (none)                  |
func (v *Validator) ValidateEntry(entry types.ParsedEntry) *types.ValidationError {
	addressValid := v.IsValidAddress(entry.Identifier)
	amountValid := IsValidAmount(entry.AmountText)

	var kind types.ErrorKind
	switch {
	case !addressValid && !amountValid:
		kind = types.InvalidAddressAndAmount
	case !addressValid:
		kind = types.InvalidAddress
	case !amountValid:
		kind = types.InvalidAmount
	default:
		return nil
	}

	return &types.ValidationError{
		LineNumber: entry.LineNumber,
		Kind:       kind,
		Message:    lineMessage(kind, entry.LineNumber),
	}
}

// ValidateFailure converts a format failure into its BadDelimiter error.
func (v *Validator) ValidateFailure(failure types.FormatFailure) *types.ValidationError {
	return &types.ValidationError{
		LineNumber: failure.LineNumber,
		Kind:       types.BadDelimiter,
		Message:    lineMessage(types.BadDelimiter, failure.LineNumber),
	}
}

// ValidateLine validates a single parse result.
func (v *Validator) ValidateLine(result types.LineResult) *types.ValidationError {
	if result.Failure != nil {
		return v.ValidateFailure(*result.Failure)
	}
	if result.Entry != nil {
		return v.ValidateEntry(*result.Entry)
	}
	return nil
}

// ValidateAll validates every line and returns the accumulated errors in line
// order. Duplicate detection is not part of this pass.
func (v *Validator) ValidateAll(results []types.LineResult) []*types.ValidationError {
	errors := make([]*types.ValidationError, 0)
	for _, result := range results {
		if err := v.ValidateLine(result); err != nil {
			errors = append(errors, err)
		}
	}
	return errors
}

// =============================================================================
// ERROR MESSAGES
// =============================================================================

// lineMessage returns the operator-facing message for a line-level error.
func lineMessage(kind types.ErrorKind, lineNumber int) string {
	switch kind {
	case types.BadDelimiter:
		return fmt.Sprintf("Line %d is invalid: The address and amount should be separated by the delimiter of space (' '), equals (=), or comma (,).", lineNumber)
	case types.InvalidAddressAndAmount:
		return fmt.Sprintf("Line %d invalid Ethereum address and wrong amount.", lineNumber)
	case types.InvalidAddress:
		return fmt.Sprintf("Line %d has an invalid Ethereum address", lineNumber)
	case types.InvalidAmount:
		return fmt.Sprintf("Line %d has an invalid amount", lineNumber)
	default:
		return fmt.Sprintf("Line %d: %s", lineNumber, kind)
	}
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*types.ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	fmt.Fprintf(&builder, "Validation completed with %d error(s):\n\n", len(errors))

	for i, err := range errors {
		fmt.Fprintf(&builder, "%d. [%s] %s\n", i+1, err.Kind, err.Message)
	}

	return builder.String()
}

// Messages returns just the display strings of errors, in order.
func Messages(errors []*types.ValidationError) []string {
	messages := make([]string, len(errors))
	for i, err := range errors {
		messages[i] = err.Message
	}
	return messages
}
