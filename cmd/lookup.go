package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tenjin25/ARRealignment/internal/lookup"
)

const topMatches = 10

var rebuildLookupCmd = &cobra.Command{
	Use:   "rebuild-lookup",
	Short: "Rebuild the Location ID to county lookup",
	Long: `Totals one contest per Location ID in a modern-layout export and one office per
county in a directory of per-county precinct files, then pairs the two lists by
descending vote total. FIPS codes are carried over from the current lookup when
the county is already known.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := lookup.RebuildOptions{
			ModernFile:    cfg.Lookup.Rebuild.ModernFile,
			Contest:       cfg.Lookup.Rebuild.Contest,
			CountyDir:     cfg.Lookup.Rebuild.CountyDir,
			OfficeKeyword: cfg.Lookup.Rebuild.OfficeKeyword,
			StateFIPS:     cfg.Lookup.StateFIPS,
			Encoding:      cfg.Build.InputEncoding,
		}
		if v, _ := cmd.Flags().GetString("modern-file"); v != "" {
			opts.ModernFile = v
		}
		if v, _ := cmd.Flags().GetString("county-dir"); v != "" {
			opts.CountyDir = v
		}
		if v, _ := cmd.Flags().GetString("contest"); v != "" {
			opts.Contest = v
		}
		output := cfg.Lookup.Rebuild.OutputPath
		if v, _ := cmd.Flags().GetString("output"); v != "" {
			output = v
		}

		log := zap.L().With(zap.String("command", "rebuild-lookup"))

		existing, err := loadExistingLookup(cfg.Lookup.Path)
		if err != nil {
			return err
		}

		entries, matches, err := lookup.Rebuild(opts, existing)
		if err != nil {
			return eris.Wrap(err, "rebuild-lookup")
		}

		for _, m := range matches[:min(topMatches, len(matches))] {
			log.Info("rank match",
				zap.Int("rank", m.Rank),
				zap.String("county", m.County),
				zap.Int64("county_votes", m.CountyVotes),
				zap.Int("location_id", m.LocationID),
				zap.Int64("location_votes", m.LocationVotes),
			)
		}

		if err := lookup.Write(output, entries); err != nil {
			return eris.Wrap(err, "rebuild-lookup")
		}

		fmt.Printf("Wrote %d lookup entries to %s\n", len(entries), output)
		fmt.Println("Review the rank matches before replacing", cfg.Lookup.Path)
		return nil
	},
}

func init() {
	rebuildLookupCmd.Flags().String("modern-file", "", "modern-layout export keyed by Location ID (default: from config)")
	rebuildLookupCmd.Flags().String("county-dir", "", "directory of per-county precinct files (default: from config)")
	rebuildLookupCmd.Flags().String("contest", "", "contest name to total in the modern file (default: from config)")
	rebuildLookupCmd.Flags().String("output", "", "path of the new lookup CSV (default: from config)")
	rootCmd.AddCommand(rebuildLookupCmd)
}

// loadExistingLookup returns nil when the current lookup is absent.
func loadExistingLookup(path string) (*lookup.Table, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		zap.L().Warn("no existing lookup; FIPS codes will be synthesized", zap.String("path", path))
		return nil, nil
	}
	t, err := lookup.Load(path)
	if err != nil {
		return nil, eris.Wrap(err, "rebuild-lookup: load existing lookup")
	}
	return t, nil
}
