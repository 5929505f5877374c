package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/addressbook/internal/addressbook"
	"github.com/aanand-mishra/addressbook/internal/storage"
)

// WriterFunc is the signature shared by CSV, JSON and YAML.
type WriterFunc func(io.Writer, *addressbook.Catalog) error

// ToFile creates (or truncates) path and writes the catalog to it with
// write. Parent directories are created.
func ToFile(path string, c *addressbook.Catalog, write WriterFunc) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrIO, err)
	}
	if err := write(f, c); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", storage.ErrIO, path, err)
	}
	return nil
}

// ImporterFunc is the signature shared by ImportCSV and ImportJSON.
type ImporterFunc func(io.Reader, *addressbook.Catalog) (int, error)

// FromFile opens path and imports it into c with read.
func FromFile(path string, c *addressbook.Catalog, read ImporterFunc) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", storage.ErrIO, err)
	}
	defer f.Close()
	return read(f, c)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", storage.ErrIO, err)
	}
	return nil
}
