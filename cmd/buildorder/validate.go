package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/buildorder-validator/internal/batch"
	"github.com/jonathan/buildorder-validator/internal/config"
	"github.com/jonathan/buildorder-validator/internal/observability"
	"github.com/jonathan/buildorder-validator/internal/types"
	"github.com/spf13/cobra"
)

// validatorSpec describes one validation tool sharing the batch command shape
type validatorSpec struct {
	name         string
	headerLabel  string
	validMessage string
	passMessage  string
	// warningsFail makes warnings alone fail a file unless allow_warnings is set
	warningsFail bool
	// emptyBatchFails reports a directory without *.json files as a failure
	emptyBatchFails bool
	// newCheck builds the per-file check from the resolved configuration
	newCheck func(cfg config.Config) (batch.CheckFunc, string, error)
	// describe prints extra per-file details in verbose mode
	describe func(p *observability.Printer, file string)
}

// resolveConfig layers the config file, BUILDORDER_* env vars, and flags over the defaults
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Config{}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}
	if cmd.Flags().Lookup("schema") != nil && cmd.Flags().Changed("schema") {
		cfg.Schema, _ = cmd.Flags().GetString("schema")
	}
	if cmd.Flags().Lookup("allow-warnings") != nil && cmd.Flags().Changed("allow-warnings") {
		cfg.AllowWarnings, _ = cmd.Flags().GetBool("allow-warnings")
	}

	merged := cfg.MergeWithDefaults(config.Default())
	if err := merged.Validate(); err != nil {
		return config.Config{}, err
	}
	return merged, nil
}

// runValidation resolves the input files, validates each one, and prints the report
func runValidation(cmd *cobra.Command, args []string, spec validatorSpec) error {
	directory, _ := cmd.Flags().GetString("directory")
	if len(args) == 0 && !cmd.Flags().Changed("directory") {
		_ = cmd.Usage()
		return errUsage
	}
	if cmd.Flags().Changed("directory") && directory == "" {
		return fmt.Errorf("--directory requires a directory path")
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(cmd.ErrOrStderr(), fmt.Sprintf("[%s] ", spec.name), log.LstdFlags)
	}

	files, err := batch.ResolveFiles(args, directory)
	if err != nil {
		if !errors.Is(err, batch.ErrNoFiles) {
			return err
		}
		if spec.emptyBatchFails {
			_, _ = fmt.Fprintln(out, "No JSON files found to validate")
			return errValidationFailed
		}
		// an empty directory is a vacuous pass
		files = nil
	}

	check, schemaName, err := spec.newCheck(cfg)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer.PrintRunInfo(observability.RunInfo{
			RunID:     uuid.New().String(),
			Validator: spec.name,
			Files:     len(files),
			Workers:   cfg.Workers,
			Schema:    schemaName,
		})
	}

	start := time.Now()
	results, err := batch.Run(context.Background(), files, check, cfg.Workers)
	if err != nil {
		return fmt.Errorf("validation run failed: %w", err)
	}
	elapsed := time.Since(start)

	strict := spec.warningsFail && !cfg.AllowWarnings
	for _, result := range results {
		printer.PrintFileHeader(spec.headerLabel, filepath.Base(result.File))
		if cfg.Verbose && spec.describe != nil {
			spec.describe(printer, result.File)
		}
		printer.PrintResult(result, spec.validMessage)
		logger.Printf("%s: %d error(s), %d warning(s)", result.File, len(result.Errors), len(result.Warnings))
	}

	logger.Printf("checked %d file(s), %d invalid, in %v", len(results), failedCount(results), elapsed)

	allValid := batch.AllValid(results, strict)
	printer.PrintSummary(allValid, spec.passMessage)
	if !allValid {
		return errValidationFailed
	}
	return nil
}

// addBatchFlags registers the flags every validation command shares
func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("directory", "d", "", "Validate every *.json file directly inside this directory")
}

// failedCount counts results that did not validate
func failedCount(results []types.ValidationResult) int {
	n := 0
	for _, r := range results {
		if !r.Valid {
			n++
		}
	}
	return n
}
