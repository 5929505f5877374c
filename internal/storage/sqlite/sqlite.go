// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The whole catalog is stored as a snapshot in two tables: books (name
// and display position) and contacts (owning book, position within the
// book, and the eight contact fields). SaveCatalog replaces the snapshot
// inside one transaction, so a failed save leaves the previous one intact.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/addressbook/internal/addressbook"
	"github.com/aanand-mishra/addressbook/internal/config"
	"github.com/aanand-mishra/addressbook/internal/storage"
	"github.com/aanand-mishra/addressbook/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.Storage.Path, creates the tables
// if they do not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet; the first actual
	// connection happens on the first query.
	db, err := sql.Open("sqlite3", cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w: %w", storage.ErrIO, err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent, safe on every startup.
	//
	// Schema:
	//   books.position    : creation order of the book in the catalog
	//   contacts.position : display order of the contact inside its book
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS books (
			name     TEXT    PRIMARY KEY,
			position INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS contacts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			book       TEXT    NOT NULL REFERENCES books(name),
			position   INTEGER NOT NULL,
			first_name TEXT    NOT NULL,
			last_name  TEXT    NOT NULL,
			address    TEXT    NOT NULL,
			city       TEXT    NOT NULL,
			state      TEXT    NOT NULL,
			zip        TEXT    NOT NULL,
			phone      TEXT    NOT NULL,
			email      TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create tables: %w: %w", storage.ErrIO, err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// SaveCatalog replaces the stored snapshot with the books in c.
//
// Prepared statements keep contact data out of the SQL text; the values
// are sent separately and are never parsed as SQL.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) SaveCatalog(c *addressbook.Catalog) error {
	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("SaveCatalog: begin: %w: %w", storage.ErrIO, err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM contacts"); err != nil {
		return fmt.Errorf("SaveCatalog: clear contacts: %w: %w", storage.ErrIO, err)
	}
	if _, err := tx.Exec("DELETE FROM books"); err != nil {
		return fmt.Errorf("SaveCatalog: clear books: %w: %w", storage.ErrIO, err)
	}

	bookStmt, err := tx.Prepare("INSERT INTO books (name, position) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("SaveCatalog: prepare books: %w: %w", storage.ErrIO, err)
	}
	defer bookStmt.Close()

	contactStmt, err := tx.Prepare(`
		INSERT INTO contacts
			(book, position, first_name, last_name, address, city, state, zip, phone, email)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("SaveCatalog: prepare contacts: %w: %w", storage.ErrIO, err)
	}
	defer contactStmt.Close()

	bookPos := 0
	for name, b := range c.Books() {
		if _, err := bookStmt.Exec(name, bookPos); err != nil {
			return fmt.Errorf("SaveCatalog: insert book %q: %w: %w", name, storage.ErrIO, err)
		}
		bookPos++

		for i, contact := range b.Contacts() {
			// Argument order matches the column list above.
			_, err := contactStmt.Exec(name, i,
				contact.FirstName, contact.LastName, contact.Address, contact.City,
				contact.State, contact.Zip, contact.Phone, contact.Email)
			if err != nil {
				return fmt.Errorf("SaveCatalog: insert contact %s: %w: %w",
					contact.FullName(), storage.ErrIO, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("SaveCatalog: commit: %w: %w", storage.ErrIO, err)
	}

	slog.Debug("catalog saved to sqlite", slog.Int("books", bookPos))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// LoadCatalog rebuilds the stored books in c.
//
// Books are created first, in their saved order, so empty books survive a
// round trip. Contacts are then read book by book in display order and
// added through HandleAddContact, which indexes them.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) LoadCatalog(c *addressbook.Catalog) error {
	names, err := s.bookNames()
	if err != nil {
		return err
	}

	books := make(map[string]*addressbook.Book, len(names))
	for _, name := range names {
		b, err := c.GetBook(name)
		if err != nil {
			if b, err = c.AddBook(name); err != nil {
				return fmt.Errorf("LoadCatalog: %w", err)
			}
		}
		books[name] = b
	}

	rows, err := s.Db.Query(`
		SELECT c.book, c.first_name, c.last_name, c.address, c.city,
		       c.state, c.zip, c.phone, c.email
		FROM contacts c
		JOIN books b ON b.name = c.book
		ORDER BY b.position, c.position
	`)
	if err != nil {
		return fmt.Errorf("LoadCatalog: query: %w: %w", storage.ErrIO, err)
	}
	defer rows.Close() // must close rows to free the DB connection

	loaded := 0
	for rows.Next() {
		var book string
		var contact types.Contact

		// Scan order must match the SELECT column order.
		if err := rows.Scan(
			&book,
			&contact.FirstName,
			&contact.LastName,
			&contact.Address,
			&contact.City,
			&contact.State,
			&contact.Zip,
			&contact.Phone,
			&contact.Email,
		); err != nil {
			return fmt.Errorf("LoadCatalog: scan row: %w: %w", storage.ErrIO, err)
		}

		if _, err := c.HandleAddContact(books[book], contact); err != nil {
			return fmt.Errorf("LoadCatalog: %w", err)
		}
		loaded++
	}

	// rows.Err() captures any error that occurred during iteration.
	if err := rows.Err(); err != nil {
		return fmt.Errorf("LoadCatalog: rows iteration: %w: %w", storage.ErrIO, err)
	}

	slog.Info("address books loaded from sqlite",
		slog.Int("books", len(names)),
		slog.Int("contacts", loaded))
	return nil
}

func (s *SQLite) bookNames() ([]string, error) {
	rows, err := s.Db.Query("SELECT name FROM books ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("LoadCatalog: query books: %w: %w", storage.ErrIO, err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("LoadCatalog: scan book: %w: %w", storage.ErrIO, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("LoadCatalog: books iteration: %w: %w", storage.ErrIO, err)
	}
	return names, nil
}
