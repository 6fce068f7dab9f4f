// =============================================================================
// Disperse Validator - Engine
// =============================================================================
//
// The engine is the only part of the system with decision logic. It exposes
// three operations to its callers (the CLI, the batch pipeline):
//
//   ParseAndValidate(text)          -> Result{Entries, Errors, HasDuplicates}
//   ResolveDuplicates(entries, s)   -> []CanonicalEntry
//   Serialize(entries)              -> text
//
// PIPELINE:
//   raw text -> SplitLines -> ParseLine -> Validator (line errors)
//            -> DetectDuplicates (duplicate errors + flag)
//
// Every call is a pure computation over its input. Nothing is cached between
// calls.
//
// =============================================================================

package disperse

import (
	"log/slog"

	"github.com/ginjaninja78/disperse-validator/internal/lineparser"
	"github.com/ginjaninja78/disperse-validator/internal/resolver"
	"github.com/ginjaninja78/disperse-validator/internal/types"
	"github.com/ginjaninja78/disperse-validator/internal/validation"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of one validation pass.
type Result struct {
	// Lines holds every parse result, one per input line.
	Lines []types.LineResult

	// Entries holds the format-valid lines in original order.
	Entries []types.ParsedEntry

	// Errors holds line-level errors in line order followed by duplicate
	// errors in first-seen identifier order.
	Errors []*types.ValidationError

	// HasDuplicates is raised when any identifier repeats.
	HasDuplicates bool

	// Index maps each identifier to its line numbers.
	Index *validation.AddressIndex
}

// Clean reports whether the pass found no errors at all.
func (r Result) Clean() bool {
	return len(r.Errors) == 0
}

// Messages returns the display strings of all errors.
func (r Result) Messages() []string {
	return validation.Messages(r.Errors)
}

// LineErrors returns the errors that are not duplicate reports.
func (r Result) LineErrors() []*types.ValidationError {
	var out []*types.ValidationError
	for _, err := range r.Errors {
		if err.Kind != types.DuplicateAddress {
			out = append(out, err)
		}
	}
	return out
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs validation and duplicate resolution.
type Engine struct {
	validator *validation.Validator
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithValidationOptions overrides the address rules.
func WithValidationOptions(options validation.Options) Option {
	return func(e *Engine) {
		e.validator = validation.NewValidatorWithOptions(options)
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		validator: validation.NewValidator(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ParseAndValidate runs the full validation pipeline over a text buffer.
//
// PARAMETERS:
//   - text: The raw buffer, newline separated.
//
// RETURNS:
//   - The Result. The engine never fails: every problem is reported as a
//     ValidationError inside the result.
func (e *Engine) ParseAndValidate(text string) Result {
	lines := lineparser.Parse(text)
	entries := lineparser.Entries(lines)

	errs := e.validator.ValidateAll(lines)
	report := validation.DetectDuplicates(entries)
	errs = append(errs, report.Errors...)

	e.logger.Debug("validated disperse list",
		"lines", len(lines),
		"entries", len(entries),
		"errors", len(errs),
		"duplicates", len(report.Errors),
	)

	return Result{
		Lines:         lines,
		Entries:       entries,
		Errors:        errs,
		HasDuplicates: report.HasDuplicates,
		Index:         report.Index,
	}
}

// ResolveDuplicates collapses duplicate identifiers under strategy.
func (e *Engine) ResolveDuplicates(entries []types.ParsedEntry, strategy types.ResolutionStrategy) ([]types.CanonicalEntry, error) {
	resolved, err := resolver.Resolve(entries, strategy)
	if err != nil {
		e.logger.Debug("duplicate resolution failed", "strategy", strategy.String(), "error", err)
		return nil, err
	}

	e.logger.Debug("resolved duplicates",
		"strategy", strategy.String(),
		"before", len(entries),
		"after", len(resolved),
	)
	return resolved, nil
}

// Serialize renders canonical entries as `identifier=amount` lines.
func (e *Engine) Serialize(entries []types.CanonicalEntry) string {
	return resolver.Serialize(entries)
}

// Canonical converts a clean result into canonical entries. It fails if the
// result still has line errors or duplicates.
func (e *Engine) Canonical(result Result) ([]types.CanonicalEntry, error) {
	if !result.Clean() {
		return nil, ErrNotClean
	}
	return resolver.Resolve(result.Entries, types.KeepFirst)
}
