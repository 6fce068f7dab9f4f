// =============================================================================
// Disperse Validator - Duplicate Resolver
// =============================================================================
//
// This module collapses repeated identifiers into one canonical entry each.
//
// STRATEGIES:
//   - KeepFirst: keep the amount of the first occurrence, drop the rest
//   - Combine:   sum the amounts of every occurrence (exact decimal sum)
//
// Output order always follows the first-seen order of each identifier.
// Amounts that are not strictly positive numbers make resolution fail; they
// are never coerced to zero.
//
// =============================================================================

package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/disperse-validator/internal/types"
	"github.com/ginjaninja78/disperse-validator/internal/validation"
)

var (
	// ErrInvalidAmount is returned when an amount taking part in resolution is
	// not a strictly positive number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownStrategy is returned for a strategy value outside the enum.
	ErrUnknownStrategy = errors.New("unknown resolution strategy")
)

// Resolve collapses duplicate identifiers under the given strategy.
//
// PARAMETERS:
//   - entries: Format-valid entries in original line order.
//   - strategy: KeepFirst or Combine.
//
// RETURNS:
//   - One CanonicalEntry per distinct identifier, in first-seen order.
//   - ErrInvalidAmount (wrapped, naming the line) if an amount that takes part
//     in the result cannot be used; ErrUnknownStrategy for a bad strategy.
func Resolve(entries []types.ParsedEntry, strategy types.ResolutionStrategy) ([]types.CanonicalEntry, error) {
	switch strategy {
	case types.KeepFirst:
		return keepFirst(entries)
	case types.Combine:
		return combine(entries)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}
}

func keepFirst(entries []types.ParsedEntry) ([]types.CanonicalEntry, error) {
	seen := make(map[string]struct{}, len(entries))
	result := make([]types.CanonicalEntry, 0, len(entries))

	for _, entry := range entries {
		if _, exists := seen[entry.Identifier]; exists {
			continue
		}
		seen[entry.Identifier] = struct{}{}

		amount, err := parseAmount(entry)
		if err != nil {
			return nil, err
		}
		result = append(result, types.CanonicalEntry{Identifier: entry.Identifier, Amount: amount})
	}

	return result, nil
}

func combine(entries []types.ParsedEntry) ([]types.CanonicalEntry, error) {
	positions := make(map[string]int, len(entries))
	result := make([]types.CanonicalEntry, 0, len(entries))

	for _, entry := range entries {
		amount, err := parseAmount(entry)
		if err != nil {
			return nil, err
		}

		if i, exists := positions[entry.Identifier]; exists {
			result[i].Amount = result[i].Amount.Add(amount)
			continue
		}
		positions[entry.Identifier] = len(result)
		result = append(result, types.CanonicalEntry{Identifier: entry.Identifier, Amount: amount})
	}

	return result, nil
}

func parseAmount(entry types.ParsedEntry) (decimal.Decimal, error) {
	amount, err := validation.ParseAmount(entry.AmountText)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w on line %d: %v", ErrInvalidAmount, entry.LineNumber, err)
	}
	return amount, nil
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Serialize renders canonical entries as `identifier=amount` lines joined by
// '\n', without a trailing newline.
func Serialize(entries []types.CanonicalEntry) string {
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = entry.Identifier + "=" + entry.Amount.String()
	}
	return strings.Join(lines, "\n")
}
