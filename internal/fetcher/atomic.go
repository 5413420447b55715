package fetcher

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// WriteAtomic stages write's output in a sibling temp file and renames it
// over path only when write and close both succeed. On failure path is left
// untouched.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return eris.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "write file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "close file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrap(err, "rename file")
	}
	return nil
}
