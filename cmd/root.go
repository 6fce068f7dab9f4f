// =============================================================================
// Disperse Validator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (disperse)
//   ├── checkCmd   (disperse check [file|-])
//   ├── resolveCmd (disperse resolve [file|-] --strategy keep|combine)
//   ├── processCmd (disperse process)
//   ├── exampleCmd (disperse example)
//   └── versionCmd (disperse version)
//
// CONFIGURATION:
//   The YAML file named by --config is loaded first. Flags and DISPERSE_*
//   environment variables are layered on top through viper, e.g.
//   DISPERSE_LOG_LEVEL=debug or DISPERSE_OUTPUT_FORMAT=xlsx.
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/disperse-validator/internal/config"
	"github.com/ginjaninja78/disperse-validator/internal/disperse"
)

// ErrValidationFailed is returned by commands whose input list has errors.
var ErrValidationFailed = errors.New("validation failed")

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig is the effective configuration, set by initConfig.
var appConfig = config.Default()

// logger is the configured structured logger, set by initConfig.
var logger = slog.Default()

// overlayKeys are the configuration keys that flags and environment
// variables may override.
var overlayKeys = []string{
	"log_level",
	"log_format",
	"output_format",
	"default_strategy",
	"max_concurrency",
	"input_dir",
	"output_dir",
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "disperse",
	Short: "Disperse Validator - validate and de-duplicate bulk transfer lists",
	Long: `Disperse Validator checks bulk transfer ("disperse") lists before they are
submitted. Each line holds a recipient address and an amount separated by a
space, a comma, or an equals sign:

  0x2b1F577230F4D72B3818895688b66abD9701B4dC=1.41421

Every malformed line is reported with its line number. Addresses listed more
than once can be merged by keeping the first amount or by summing them.

Example Usage:
  disperse check list.txt              # Report every error in a list
  disperse resolve list.txt -s combine # Merge duplicate addresses
  disperse process                     # Process every list in the input directory`,

	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "config.yaml", "Path to the configuration file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console, json)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log_format", flags.Lookup("log-format"))
}

// initConfig loads the YAML configuration, applies flag and environment
// overrides, and sets up logging.
func initConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	viper.SetEnvPrefix("DISPERSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := applyOverlay(cfg); err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := setupLogging(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	appConfig = cfg
	logger = l
	logger.Debug("configuration loaded", "config", cfgFile, "output_format", cfg.OutputFormat)
	return nil
}

// applyOverlay copies explicitly set viper values onto cfg.
func applyOverlay(cfg *config.Config) error {
	for _, key := range overlayKeys {
		if !viper.IsSet(key) {
			continue
		}
		switch key {
		case "log_level":
			cfg.LogLevel = viper.GetString(key)
		case "log_format":
			cfg.LogFormat = viper.GetString(key)
		case "output_format":
			cfg.OutputFormat = viper.GetString(key)
		case "default_strategy":
			cfg.DefaultStrategy = viper.GetString(key)
		case "max_concurrency":
			n := viper.GetInt(key)
			if n <= 0 {
				return fmt.Errorf("max_concurrency must be positive, got %q", viper.GetString(key))
			}
			cfg.MaxConcurrency = n
		case "input_dir":
			cfg.InputDir = viper.GetString(key)
		case "output_dir":
			cfg.OutputDir = viper.GetString(key)
		}
	}
	return nil
}

func setupLogging(level, format string) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}

	var handler slog.Handler
	switch format {
	case "console":
		handler = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l, nil
}

// newEngine builds an engine from the effective configuration.
func newEngine() *disperse.Engine {
	return disperse.New(
		disperse.WithLogger(logger),
		disperse.WithValidationOptions(appConfig.ValidationOptions()),
	)
}
