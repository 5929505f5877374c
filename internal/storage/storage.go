// Package storage defines the Storage interface: the contract any
// persistence backend must satisfy to load and save a catalog.
//
// Callers depend only on this interface, so the command binary can switch
// between the text file and SQLite backends from configuration, and tests
// can exercise the catalog without touching the filesystem.
package storage

import (
	"errors"

	"github.com/aanand-mishra/addressbook/internal/addressbook"
)

// ErrIO marks failures to open, read or write the storage medium.
// Backends wrap the underlying error with it, so both
// errors.Is(err, ErrIO) and errors.Is(err, fs.ErrNotExist) work.
var ErrIO = errors.New("storage I/O failure")

// Storage persists a whole catalog.
type Storage interface {
	// LoadCatalog reads the stored books into c. Contacts are inserted
	// through c.HandleAddContact so they are indexed. A failure part way
	// through leaves whatever was loaded so far in c.
	LoadCatalog(c *addressbook.Catalog) error

	// SaveCatalog replaces the stored state with the books in c.
	SaveCatalog(c *addressbook.Catalog) error
}
