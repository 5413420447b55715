package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tenjin25/ARRealignment/internal/config"
	"github.com/Tenjin25/ARRealignment/internal/pipeline"
	"github.com/Tenjin25/ARRealignment/internal/results"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the consolidated county results JSON",
	Long: `Walks the data directory for .csv/.xlsx election exports, detects each file's
layout, tallies presidential, U.S. Senate, governor, lieutenant governor and
statewide contests per county, and writes the merged document.

Files that cannot be dated, read or parsed are logged and skipped.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		opts, err := buildOptions(cmd, cfg)
		if err != nil {
			return err
		}

		zap.L().Info("starting build",
			zap.String("data_dir", opts.DataDir),
			zap.String("output", opts.OutputPath),
			zap.Strings("exclude", opts.ExcludeYearTokens),
			zap.Bool("metadata", opts.Document.IncludeMetadata),
			zap.Bool("dry_run", opts.DryRun),
		)

		report, err := pipeline.Build(ctx, opts)
		if err != nil {
			return eris.Wrap(err, "build")
		}

		printBuildReport(report, opts)
		return nil
	},
}

func init() {
	addBuildFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().String("data-dir", "", "root directory of election exports (default: from config)")
	cmd.Flags().String("output", "", "output JSON path (default: from config)")
	cmd.Flags().String("lookup", "", "Location ID to county lookup CSV (default: from config)")
	cmd.Flags().String("heuristics", "", "YAML file overriding party, title and office tables")
	cmd.Flags().String("exclude", "", "comma-separated filename tokens to skip, e.g. 2022,2024")
	cmd.Flags().Bool("no-metadata", false, "write only results_by_year")
	cmd.Flags().Bool("dry-run", false, "process files without writing output")
}

// buildOptions merges flags over config.
func buildOptions(cmd *cobra.Command, c *config.Config) (pipeline.Options, error) {
	if c == nil {
		return pipeline.Options{}, eris.New("build: config not loaded")
	}

	opts := pipeline.Options{
		DataDir:           c.Build.DataDir,
		Extensions:        c.Build.Extensions,
		YearTokens:        c.Build.YearTokens,
		ExcludeYearTokens: c.Build.ExcludeYearTokens,
		InputEncoding:     c.Build.InputEncoding,
		HeuristicsPath:    c.Build.HeuristicsPath,
		LookupPath:        c.Lookup.Path,
		OutputPath:        c.Output.Path,
		Document: results.DocumentOptions{
			IncludeMetadata:   c.Output.IncludeMetadata,
			State:             c.Output.State,
			StateAbbreviation: c.Output.StateAbbreviation,
			Source:            c.Output.Source,
		},
	}

	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		opts.DataDir = v
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		opts.OutputPath = v
	}
	if v, _ := cmd.Flags().GetString("lookup"); v != "" {
		opts.LookupPath = v
	}
	if v, _ := cmd.Flags().GetString("heuristics"); v != "" {
		opts.HeuristicsPath = v
	}
	if v, _ := cmd.Flags().GetString("exclude"); v != "" {
		opts.ExcludeYearTokens = splitAndTrim(v)
	}
	if v, _ := cmd.Flags().GetBool("no-metadata"); v {
		opts.Document.IncludeMetadata = false
	}
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")

	if opts.OutputPath == "" && !opts.DryRun {
		return opts, eris.New("build: output path is required")
	}
	return opts, nil
}

func printBuildReport(r *pipeline.Report, opts pipeline.Options) {
	fmt.Printf("Processed %d file(s), skipped %d\n", r.Processed, r.Skipped)
	for _, f := range r.Files {
		if f.Skipped() {
			fmt.Printf("  skipped %s: %v\n", f.Path, f.Err)
		}
	}

	if len(r.Summary) == 0 {
		fmt.Println("No contested results found")
	} else {
		fmt.Printf("%-6s %10s %10s %10s\n", "Year", "Categories", "Contests", "Counties")
		for _, s := range r.Summary {
			fmt.Printf("%-6s %10d %10d %10d\n", s.Year, len(s.Categories), s.Contests, s.Counties)
		}
	}

	if opts.DryRun {
		fmt.Println("Dry run: no output written")
		return
	}
	fmt.Printf("Wrote %s\n", opts.OutputPath)
}
