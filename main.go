// =============================================================================
// Disperse Validator - Main Entry Point
// =============================================================================
//
// USAGE:
//   disperse check [file|-]                       - Report every error in a list
//   disperse resolve [file|-] --strategy combine  - Merge duplicated addresses
//   disperse process                              - Process the input directory
//   disperse example                              - Print an example list
//   disperse version                              - Display the version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Validation engine, readers, writers and the batch pipeline
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/disperse-validator/cmd"
)

func main() {
	cmd.Execute()
}
