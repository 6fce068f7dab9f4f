// =============================================================================
// Disperse Validator - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs every list in the
// input directory through the validation pipeline.
//
// COMMAND USAGE:
//   disperse process [file...]
//
// PROCESSING PIPELINE:
//   1. Load configuration (done by the root command)
//   2. Discover .txt, .csv and .xlsx files in the input directory, or use
//      the files given as arguments
//   3. For each file (concurrently, up to max_concurrency):
//      a. Read and validate the list
//      b. Resolve duplicates with default_strategy, if configured
//      c. Write the canonical list in output_format
//      d. Archive the input and output
//   4. Write an error log for failed files
//   5. Write a processing summary
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/disperse-validator/internal/pipeline"
	"github.com/ginjaninja78/disperse-validator/pkg/utils"
)

// ErrProcessingFailed is returned when at least one file failed.
var ErrProcessingFailed = errors.New("processing failed")

var processCmd = &cobra.Command{
	Use:   "process [file...]",
	Short: "Validate and resolve every list in the input directory",
	Long: `The process command scans the input directory for disperse lists and runs
each one through validation. Files are processed concurrently.

On success:
  - The canonical list is written to the output directory
  - The input is moved to the input archive
  - The output is copied to the output archive

On error:
  - The input stays in the input directory
  - Every validation error is written to an error log in the output directory
  - Other files keep processing unless continue_on_error is false`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(ctx context.Context, out io.Writer, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	summary := utils.ProcessingSummary{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	runLogger := logger.With("run_id", summary.RunID)

	if err := appConfig.EnsureDirectories(); err != nil {
		return err
	}

	runner, err := pipeline.NewRunner(appConfig, runLogger)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	if len(files) == 0 {
		files, err = runner.Discover()
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(files) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No lists found in "+appConfig.InputDir))
		return nil
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Processing %d file(s)", len(files))))

	// =========================================================================
	// STEP 2: PROCESS FILES CONCURRENTLY
	// =========================================================================

	results := runner.RunAll(ctx, files, pipeline.BatchOptions{
		MaxConcurrency: appConfig.MaxConcurrency,
		StopOnError:    !appConfig.ShouldContinueOnError(),
	})

	// =========================================================================
	// STEP 3: COLLECT RESULTS
	// =========================================================================

	var errorLog []utils.ErrorLogEntry
	for _, result := range results {
		summary.TotalFiles++
		summary.TotalLines += result.Stats.Lines
		summary.ValidationErrors += result.Stats.ValidationErrors
		name := filepath.Base(result.FilePath)

		if result.Success {
			summary.SuccessfulFiles++
			summary.TotalEntries += result.Stats.Entries
			if result.Stats.Strategy != "" {
				summary.DuplicatesResolved++
			}
			summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
				InputFile:   result.FilePath,
				OutputFile:  result.OutputFile,
				Lines:       result.Stats.Lines,
				Entries:     result.Stats.Entries,
				Strategy:    result.Stats.Strategy,
				ProcessTime: result.Stats.ProcessingTime,
			})
			fmt.Fprintf(out, "  %s %s -> %s\n", okStyle.Render("✓"), name, result.OutputFile)
			continue
		}

		summary.FailedFiles++
		summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    result.FilePath,
			ErrorMessage: result.Error.Error(),
		})
		fmt.Fprintf(out, "  %s %s: %v\n", errorStyle.Render("✗"), name, result.Error)

		errorLog = append(errorLog, failureLogEntries(result)...)
	}

	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 4: WRITE LOGS AND PRINT SUMMARY
	// =========================================================================

	if logPath, err := utils.WriteErrorLog(errorLog, appConfig.OutputDir); err != nil {
		runLogger.Warn("failed to write error log", "error", err)
	} else if logPath != "" {
		fmt.Fprintln(out, mutedStyle.Render("Errors logged to "+logPath))
	}

	if summaryPath, err := utils.WriteSummaryLog(summary, appConfig.OutputDir); err != nil {
		runLogger.Warn("failed to write summary", "error", err)
	} else {
		fmt.Fprintln(out, mutedStyle.Render("Summary written to "+summaryPath))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("Processing Complete"))
	fmt.Fprintf(out, "Total files:  %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:   %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Failed:       %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Time elapsed: %s\n", summary.EndTime.Sub(summary.StartTime))

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrProcessingFailed, summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// failureLogEntries turns a failed result into error log entries: one per
// validation error, or one for the operational error when there are none.
func failureLogEntries(result pipeline.Result) []utils.ErrorLogEntry {
	now := time.Now()
	name := filepath.Base(result.FilePath)

	if len(result.Errors) == 0 {
		return []utils.ErrorLogEntry{{
			Timestamp: now,
			FileName:  name,
			ErrorType: "processing",
			Message:   result.Error.Error(),
		}}
	}

	entries := make([]utils.ErrorLogEntry, 0, len(result.Errors))
	for _, ve := range result.Errors {
		entries = append(entries, utils.ErrorLogEntry{
			Timestamp:  now,
			FileName:   name,
			ErrorType:  ve.Kind.String(),
			Message:    ve.Message,
			LineNumber: ve.LineNumber,
		})
	}
	return entries
}
