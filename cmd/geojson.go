package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tenjin25/ARRealignment/internal/boundary"
)

var geojsonCmd = &cobra.Command{
	Use:   "geojson",
	Short: "Convert a county boundary shapefile to GeoJSON",
	Long: `Reads a county shapefile (by default the 2020 TIGER/Line Arkansas counties) and
writes a GeoJSON FeatureCollection with every attribute column as a property.
With --zip-url the TIGER/Line ZIP is downloaded and extracted first.

Only geographic (longitude/latitude) coordinate systems are accepted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		shpPath := cfg.Geo.ShapefilePath
		if v, _ := cmd.Flags().GetString("shapefile"); v != "" {
			shpPath = v
		}
		zipURL := cfg.Geo.ZipURL
		if v, _ := cmd.Flags().GetString("zip-url"); v != "" {
			zipURL = v
		}
		output := cfg.Geo.OutputPath
		if v, _ := cmd.Flags().GetString("output"); v != "" {
			output = v
		}

		log := zap.L().With(zap.String("command", "geojson"))

		if zipURL != "" {
			f := newFetcher(cfg)
			p, err := boundary.FetchShapefile(ctx, f, zipURL, cfg.Geo.TempDir)
			if err != nil {
				return eris.Wrap(err, "geojson")
			}
			shpPath = p
		}

		fc, stats, err := boundary.ReadShapefile(shpPath)
		if err != nil {
			return eris.Wrap(err, "geojson")
		}
		log.Info("read shapefile",
			zap.String("path", shpPath),
			zap.Int("features", stats.Features),
			zap.Int("skipped", stats.Skipped),
			zap.Strings("fields", stats.Fields),
		)

		if err := boundary.WriteGeoJSON(output, fc); err != nil {
			return eris.Wrap(err, "geojson")
		}

		fmt.Printf("Wrote %d features to %s\n", stats.Features, output)
		return nil
	},
}

func init() {
	geojsonCmd.Flags().String("shapefile", "", "input .shp path (default: from config)")
	geojsonCmd.Flags().String("zip-url", "", "download this TIGER/Line ZIP instead of reading a local file")
	geojsonCmd.Flags().String("output", "", "output .geojson path (default: from config)")
	rootCmd.AddCommand(geojsonCmd)
}
