// =============================================================================
// Disperse Validator - Processing Pipeline
// =============================================================================
//
// This module runs the disperse engine over a single input file in batch
// mode. It orchestrates reading, validation, duplicate resolution, output
// writing and archival.
//
// PROCESSING PIPELINE:
//   1. Read the input file into a raw text buffer
//   2. Parse and validate the buffer
//   3. Fail on line errors (the file stays in the input directory)
//   4. Resolve duplicates with the configured default strategy, if any
//   5. Re-validate the rewritten buffer
//   6. Write the canonical list in the configured output format
//   7. Archive the input and output files
//
// CONCURRENCY:
//   A Runner holds no per-file state; Run may be called from many goroutines.
//   RunAll processes a file list with bounded concurrency.
//
// =============================================================================

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/ginjaninja78/disperse-validator/internal/config"
	"github.com/ginjaninja78/disperse-validator/internal/disperse"
	"github.com/ginjaninja78/disperse-validator/internal/source"
	"github.com/ginjaninja78/disperse-validator/internal/types"
	"github.com/ginjaninja78/disperse-validator/internal/validation"
	"github.com/ginjaninja78/disperse-validator/internal/writer"
	"github.com/ginjaninja78/disperse-validator/pkg/utils"
)

var (
	// ErrInvalidList is returned when a list has line errors.
	ErrInvalidList = errors.New("list failed validation")

	// ErrDuplicatesPending is returned when a list has duplicates and no
	// default strategy is configured.
	ErrDuplicatesPending = errors.New("duplicates found and no default strategy configured")
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the input file that was processed.
	FilePath string

	// OutputFile is the written output. Empty if processing failed.
	OutputFile string

	Success bool
	Error   error

	// Errors holds the validation errors of the submitted list, if any.
	Errors []*types.ValidationError

	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	Lines            int
	Entries          int
	ValidationErrors int

	// Strategy is set when duplicates were resolved.
	Strategy string

	ProcessingTime time.Duration
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner processes disperse list files.
type Runner struct {
	engine      *disperse.Engine
	files       *utils.FileManager
	format      writer.Format
	nameFormat  string
	strategy    types.ResolutionStrategy
	hasStrategy bool
	logger      *slog.Logger
}

// NewRunner creates a Runner from the application configuration.
//
// PARAMETERS:
//   - cfg: The loaded configuration.
//   - logger: The structured logger. Nil uses slog.Default().
//
// RETURNS:
//   - A new Runner.
//   - An error if the output format is not supported.
func NewRunner(cfg *config.Config, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	format, err := writer.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	strategy, hasStrategy := cfg.Strategy()

	files := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
	files.UseTimestampSubdirs = cfg.UseTimestampSubdirs

	return &Runner{
		engine: disperse.New(
			disperse.WithLogger(logger),
			disperse.WithValidationOptions(cfg.ValidationOptions()),
		),
		files:       files,
		format:      format,
		nameFormat:  cfg.FileNameFormat,
		strategy:    strategy,
		hasStrategy: hasStrategy,
		logger:      logger,
	}, nil
}

// Discover lists the input files the runner can read.
func (r *Runner) Discover() ([]string, error) {
	return r.files.DiscoverInputFiles(source.IsSupported)
}

// Run executes the pipeline for one file.
func (r *Runner) Run(ctx context.Context, path string) (result Result) {
	start := time.Now()
	result = Result{FilePath: path}
	logger := r.logger.With("file", filepath.Base(path))

	defer func() {
		result.Stats.ProcessingTime = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	logger.Info("processing file")

	// =========================================================================
	// STEP 1: READ INPUT
	// =========================================================================

	text, err := source.Read(path)
	if err != nil {
		result.Error = fmt.Errorf("failed to read input: %w", err)
		return result
	}

	// =========================================================================
	// STEP 2: PARSE AND VALIDATE
	// =========================================================================

	validated := r.engine.ParseAndValidate(text)
	result.Stats.Lines = len(validated.Lines)
	result.Stats.ValidationErrors = len(validated.Errors)
	result.Errors = validated.Errors

	if lineErrors := validated.LineErrors(); len(lineErrors) > 0 {
		for _, ve := range lineErrors {
			logger.Warn("validation error", "line", ve.LineNumber, "kind", string(ve.Kind), "message", ve.Message)
		}
		logger.Debug("validation report", "report", validation.FormatErrors(validated.Errors))
		result.Error = fmt.Errorf("%w: %d line error(s)", ErrInvalidList, len(lineErrors))
		return result
	}

	// =========================================================================
	// STEP 3: RESOLVE DUPLICATES
	// =========================================================================

	var canonical []types.CanonicalEntry
	if validated.HasDuplicates {
		if !r.hasStrategy {
			result.Error = fmt.Errorf("%w: %d duplicated address(es)", ErrDuplicatesPending, len(validated.Errors))
			return result
		}

		canonical, err = r.resolve(validated)
		if err != nil {
			result.Error = err
			return result
		}
		result.Stats.Strategy = r.strategy.String()
		logger.Info("resolved duplicates", "strategy", r.strategy.String(), "entries", len(canonical))
	} else {
		canonical, err = r.engine.Canonical(validated)
		if err != nil {
			result.Error = err
			return result
		}
	}
	result.Stats.Entries = len(canonical)

	// =========================================================================
	// STEP 4: WRITE OUTPUT
	// =========================================================================

	outputName := utils.GenerateOutputFileName(r.nameFormat, path, r.format.Extension())
	outputPath := filepath.Join(r.files.OutputDir, outputName)

	if err := writer.Write(outputPath, canonical, r.format); err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}
	result.OutputFile = outputPath
	logger.Info("wrote output", "output", outputPath)

	// =========================================================================
	// STEP 5: ARCHIVE FILES
	// =========================================================================

	if _, err := r.files.ArchiveInputFile(path); err != nil {
		logger.Warn("failed to archive input", "error", err)
	}
	if _, err := r.files.ArchiveOutputFile(outputPath); err != nil {
		logger.Warn("failed to archive output", "error", err)
	}

	result.Success = true
	return result
}

// resolve applies the default strategy and runs the rewritten buffer
// through validation again.
func (r *Runner) resolve(validated disperse.Result) ([]types.CanonicalEntry, error) {
	resolved, err := r.engine.ResolveDuplicates(validated.Entries, r.strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve duplicates: %w", err)
	}

	again := r.engine.ParseAndValidate(r.engine.Serialize(resolved))
	if !again.Clean() {
		return nil, fmt.Errorf("%w after resolution: %d error(s)", ErrInvalidList, len(again.Errors))
	}

	return resolved, nil
}

// =============================================================================
// BATCH PROCESSING
// =============================================================================

// BatchOptions controls RunAll.
type BatchOptions struct {
	// MaxConcurrency bounds the number of files processed at once.
	MaxConcurrency int

	// StopOnError cancels files not yet started after the first failure.
	StopOnError bool
}

// RunAll processes files concurrently and returns one result per file in
// input order.
func (r *Runner) RunAll(ctx context.Context, paths []string, opts BatchOptions) []Result {
	limit := opts.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Result, len(paths))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = Result{FilePath: path, Error: ctx.Err()}
				return
			}

			results[i] = r.Run(ctx, path)
			if !results[i].Success && opts.StopOnError {
				cancel()
			}
		}(i, path)
	}

	wg.Wait()
	return results
}
