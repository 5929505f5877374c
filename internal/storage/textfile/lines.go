package textfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aanand-mishra/addressbook/internal/storage"
)

// LineStore is the raw file access the serializer needs. Every call opens,
// uses and closes its file; no handle is kept between calls.
type LineStore interface {
	// ReadLines returns the non-empty lines of path, trimmed.
	ReadLines(path string) ([]string, error)

	// WriteLines truncates path and writes lines, one per line.
	WriteLines(path string, lines []string) error

	// AppendLines appends lines to path, creating it if needed.
	AppendLines(path string, lines []string) error
}

// OSFiles implements LineStore on the local filesystem. Parent
// directories are created on write.
type OSFiles struct{}

func (OSFiles) ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrIO, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", storage.ErrIO, path, err)
	}
	return lines, nil
}

func (OSFiles) WriteLines(path string, lines []string) error {
	return writeLines(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, lines)
}

func (OSFiles) AppendLines(path string, lines []string) error {
	return writeLines(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, lines)
}

func writeLines(path string, flag int, lines []string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", storage.ErrIO, err)
		}
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrIO, err)
	}

	w := bufio.NewWriter(f)
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %w", storage.ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", storage.ErrIO, path, err)
	}
	return nil
}
