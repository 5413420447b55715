package fetcher

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// ContentEntry is one item of a GitHub repository contents listing.
type ContentEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// ListContents fetches a GitHub contents endpoint and returns the file entries
// whose names end in one of exts (case-insensitive). No exts means all files.
// Only the single page the endpoint returns is read.
func ListContents(ctx context.Context, f Fetcher, listingURL string, exts ...string) ([]ContentEntry, error) {
	body, err := f.Download(ctx, listingURL)
	if err != nil {
		return nil, eris.Wrap(err, "github: list contents")
	}
	defer body.Close() //nolint:errcheck

	entries, err := CollectJSONArray[ContentEntry](ctx, body)
	if err != nil {
		return nil, eris.Wrap(err, "github: decode listing")
	}

	var files []ContentEntry
	for _, e := range entries {
		if e.Type != "" && e.Type != "file" {
			continue
		}
		if e.DownloadURL == "" || !hasExt(e.Name, exts) {
			continue
		}
		files = append(files, e)
	}
	return files, nil
}

func hasExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
