package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractZIP extracts a ZIP archive into destDir and returns the extracted
// file paths. When exts is non-empty only entries with one of those
// extensions (case-insensitive) are written. An entry whose destination
// already exists with the same size is left in place.
func ExtractZIP(zipPath, destDir string, exts ...string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrapf(err, "zip: open %s", zipPath)
	}
	defer r.Close() //nolint:errcheck

	root := filepath.Clean(destDir)
	var extracted []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !matchesExt(f.Name, exts) {
			continue
		}

		dest := filepath.Join(root, f.Name)
		if !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
			return extracted, eris.Errorf("zip: entry %q escapes %s (zip slip)", f.Name, destDir)
		}

		if info, err := os.Stat(dest); err == nil && info.Size() == int64(f.UncompressedSize64) {
			extracted = append(extracted, dest)
			continue
		}
		if err := writeEntry(f, dest); err != nil {
			return extracted, err
		}
		extracted = append(extracted, dest)
	}
	return extracted, nil
}

func writeEntry(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return eris.Wrapf(err, "zip: open entry %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	err = WriteAtomic(dest, func(w io.Writer) error {
		_, cerr := io.Copy(w, rc)
		return cerr
	})
	if err != nil {
		return eris.Wrapf(err, "zip: extract %s", f.Name)
	}
	return nil
}

// FindByExt returns the first path in paths with the given extension (case-insensitive).
func FindByExt(paths []string, ext string) (string, error) {
	for _, p := range paths {
		if strings.EqualFold(filepath.Ext(p), ext) {
			return p, nil
		}
	}
	return "", eris.Errorf("zip: no %s file among %d extracted files", ext, len(paths))
}

func matchesExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
