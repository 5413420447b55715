package main

import (
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tenjin25/ARRealignment/internal/fetcher"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download raw county result files from a GitHub directory",
	Long: `Lists a GitHub repository contents endpoint (by default the OpenElections
Arkansas 2022 county directory) and downloads every .csv entry into the
destination directory. Files already present are kept unless --overwrite is set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		listing := cfg.Fetch.ListingURL
		if v, _ := cmd.Flags().GetString("url"); v != "" {
			listing = v
		}
		dest := cfg.Fetch.DestDir
		if v, _ := cmd.Flags().GetString("dest"); v != "" {
			dest = v
		}
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if concurrency == 0 {
			concurrency = cfg.Fetch.Concurrency
		}
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		log := zap.L().With(zap.String("command", "fetch"))

		f := newFetcher(cfg)

		entries, err := fetcher.ListContents(ctx, f, listing, ".csv")
		if err != nil {
			return eris.Wrap(err, "fetch")
		}
		if len(entries) == 0 {
			fmt.Println("No .csv files listed at", listing)
			return nil
		}
		log.Info("listed files", zap.String("url", listing), zap.Int("files", len(entries)))

		res, err := fetcher.DownloadAll(ctx, f, entries, fetcher.DownloadOptions{
			DestDir:     dest,
			Concurrency: concurrency,
			Overwrite:   overwrite,
		})
		if err != nil {
			return eris.Wrap(err, "fetch")
		}

		fmt.Printf("Downloaded %d file(s) (%d bytes), kept %d existing, %d failed\n",
			len(res.Downloaded), res.Bytes, len(res.Existing), len(res.Failed))
		failed := make([]string, 0, len(res.Failed))
		for name := range res.Failed {
			failed = append(failed, name)
		}
		sort.Strings(failed)
		for _, name := range failed {
			fmt.Printf("  failed %s: %v\n", name, res.Failed[name])
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("url", "", "GitHub contents API URL (default: from config)")
	fetchCmd.Flags().String("dest", "", "destination directory (default: from config)")
	fetchCmd.Flags().Int("concurrency", 0, "parallel downloads (default: from config or 1)")
	fetchCmd.Flags().Bool("overwrite", false, "re-download files that already exist")
	rootCmd.AddCommand(fetchCmd)
}
