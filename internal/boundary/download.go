package boundary

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Tenjin25/ARRealignment/internal/fetcher"
)

var shapefileExts = []string{".shp", ".shx", ".dbf", ".prj", ".cpg"}

// FetchShapefile downloads a TIGER/Line ZIP into destDir (reusing a previous
// non-empty download), extracts it and returns the path of the .shp file.
func FetchShapefile(ctx context.Context, f fetcher.Fetcher, zipURL, destDir string) (string, error) {
	log := zap.L().With(
		zap.String("component", "boundary.download"),
		zap.String("url", zipURL),
	)

	u, err := url.Parse(zipURL)
	if err != nil {
		return "", eris.Wrapf(err, "boundary: parse url %s", zipURL)
	}
	zipName := path.Base(u.Path)
	if zipName == "." || zipName == "/" || !strings.HasSuffix(strings.ToLower(zipName), ".zip") {
		return "", eris.Errorf("boundary: url %s does not name a .zip file", zipURL)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", eris.Wrap(err, "boundary: create dest dir")
	}
	zipPath := filepath.Join(destDir, zipName)

	if info, err := os.Stat(zipPath); err == nil && info.Size() > 0 {
		log.Debug("zip already exists, skipping download", zap.String("path", zipPath))
	} else {
		log.Info("downloading boundary shapefile")
		n, err := f.DownloadToFile(ctx, zipURL, zipPath)
		if err != nil {
			return "", eris.Wrap(err, "boundary: download shapefile")
		}
		log.Info("downloaded", zap.Int64("bytes", n))
	}

	extractDir := filepath.Join(destDir, strings.TrimSuffix(zipName, filepath.Ext(zipName)))
	files, err := fetcher.ExtractZIP(zipPath, extractDir, shapefileExts...)
	if err != nil {
		return "", eris.Wrap(err, "boundary: extract ZIP")
	}

	shpPath, err := fetcher.FindByExt(files, ".shp")
	if err != nil {
		return "", eris.Wrap(err, "boundary: find .shp file")
	}
	return shpPath, nil
}
