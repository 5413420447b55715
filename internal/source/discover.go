// Package source finds election-result input files under a data directory.
package source

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrNoInputFiles is returned when discovery finds nothing to process.
var ErrNoInputFiles = eris.New("source: no input files found")

// Options controls which files Discover accepts.
type Options struct {
	// Extensions lists accepted file extensions (case-insensitive, with dot).
	Extensions []string
	// ExcludeTokens drops files whose base name contains any of these substrings.
	ExcludeTokens []string
}

// Discover walks root and returns every accepted file, sorted lexically.
// Lookup tables (any name containing "lookup") and zero-byte files are never returned.
func Discover(ctx context.Context, root string, opts Options) ([]string, error) {
	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}
	log := zap.L().With(zap.String("root", root))

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		if !exts[strings.ToLower(filepath.Ext(name))] {
			return nil
		}
		if strings.Contains(strings.ToLower(name), "lookup") {
			return nil
		}
		if tok := matchToken(name, opts.ExcludeTokens); tok != "" {
			log.Info("source: excluded by token", zap.String("file", name), zap.String("token", tok))
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return eris.Wrapf(err, "source: stat %s", path)
		}
		if info.Size() == 0 {
			log.Debug("source: skipping empty file", zap.String("file", name))
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "source: walk %s", root)
	}

	if len(files) == 0 {
		return nil, eris.Wrapf(ErrNoInputFiles, "source: %s", root)
	}

	sort.Strings(files)
	return files, nil
}

// ExtractYear derives an election year from a path relative to the data
// directory. A base name starting with a four-digit "20xx" prefix wins;
// otherwise the first of yearTokens found anywhere in relPath is used, so a
// year-named subdirectory counts. Returns "" when neither applies.
func ExtractYear(relPath string, yearTokens []string) string {
	name := filepath.Base(relPath)
	if len(name) >= 4 && strings.HasPrefix(name, "20") && isDigits(name[2:4]) {
		return name[:4]
	}
	return matchToken(filepath.ToSlash(relPath), yearTokens)
}

func matchToken(s string, tokens []string) string {
	for _, t := range tokens {
		if t != "" && strings.Contains(s, t) {
			return t
		}
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
