package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DownloadOptions configures DownloadAll.
type DownloadOptions struct {
	DestDir     string
	Concurrency int
	// Overwrite re-downloads files that already exist with a non-zero size.
	Overwrite bool
}

// DownloadResult summarizes DownloadAll. Failed maps entry name to its error.
type DownloadResult struct {
	Downloaded []string
	Existing   []string
	Failed     map[string]error
	Bytes      int64
}

// DownloadAll saves every entry under DestDir using its Name. A failed entry is
// recorded and does not stop the others; only cancellation aborts the batch.
func DownloadAll(ctx context.Context, f Fetcher, entries []ContentEntry, opts DownloadOptions) (*DownloadResult, error) {
	if err := os.MkdirAll(opts.DestDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "fetcher: create %s", opts.DestDir)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	log := zap.L().With(zap.String("component", "fetcher.batch"), zap.String("dest", opts.DestDir))
	res := &DownloadResult{Failed: make(map[string]error)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dest := filepath.Join(opts.DestDir, filepath.Base(e.Name))

			if !opts.Overwrite {
				if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
					mu.Lock()
					res.Existing = append(res.Existing, e.Name)
					mu.Unlock()
					return nil
				}
			}

			n, err := f.DownloadToFile(gctx, e.DownloadURL, dest)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				res.Failed[e.Name] = err
				log.Warn("download failed", zap.String("file", e.Name), zap.Error(err))
				return nil
			}
			res.Downloaded = append(res.Downloaded, e.Name)
			res.Bytes += n
			log.Debug("downloaded", zap.String("file", e.Name), zap.Int64("bytes", n))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, eris.Wrap(err, "fetcher: download batch")
	}
	return res, nil
}
