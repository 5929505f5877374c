// Package export writes a catalog to CSV, JSON, XLSX and YAML, and reads
// the CSV and JSON exports back in.
//
// All exports walk books in catalog order and contacts in display order.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/aanand-mishra/addressbook/internal/addressbook"
	"github.com/aanand-mishra/addressbook/internal/types"
)

// ErrBadHeader is returned by ImportCSV when the first row is not the
// export header.
var ErrBadHeader = errors.New("unexpected CSV header")

// BookColumn is the first CSV column, naming the contact's book.
const BookColumn = "AddressBook"

// CSVHeader returns the fixed export header:
// AddressBook, First Name, Last Name, Address, City, State, Zip, Phone, Email.
func CSVHeader() []string {
	header := make([]string, 0, len(types.Fields)+1)
	header = append(header, BookColumn)
	for _, f := range types.Fields {
		header = append(header, f.Title())
	}
	return header
}

// CSV writes the header and one row per contact.
func CSV(w io.Writer, c *addressbook.Catalog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader()); err != nil {
		return fmt.Errorf("CSV: header: %w", err)
	}
	for name, b := range c.Books() {
		for _, contact := range b.Contacts() {
			row := append([]string{name}, contact.Values()...)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("CSV: row %s: %w", contact.FullName(), err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("CSV: flush: %w", err)
	}
	return nil
}

// ImportCSV reads rows produced by CSV into c. Books named in the first
// column are created on demand. Contacts already present in their book
// are skipped and reported in the returned count of skipped rows.
func ImportCSV(r io.Reader, c *addressbook.Catalog) (skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(types.Fields) + 1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ImportCSV: header: %w", err)
	}
	if !slices.Equal(header, CSVHeader()) {
		return 0, fmt.Errorf("%w: %q", ErrBadHeader, header)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return skipped, fmt.Errorf("ImportCSV: %w", err)
		}

		var contact types.Contact
		for i, f := range types.Fields {
			contact.Set(f, row[i+1])
		}

		dup, err := addImported(c, row[0], contact)
		if err != nil {
			return skipped, fmt.Errorf("ImportCSV: %w", err)
		}
		if dup {
			skipped++
		}
	}
	return skipped, nil
}

// addImported adds contact to book, creating the book if needed.
// It reports true when the contact was a duplicate and was skipped.
func addImported(c *addressbook.Catalog, book string, contact types.Contact) (bool, error) {
	if _, err := c.GetBook(book); errors.Is(err, addressbook.ErrBookNotFound) {
		if _, err := c.AddBook(book); err != nil {
			return false, err
		}
	}

	_, err := c.AddContact(book, contact)
	if errors.Is(err, addressbook.ErrDuplicateContact) {
		slog.Warn("skipping duplicate contact",
			slog.String("book", book),
			slog.String("name", contact.FullName()))
		return true, nil
	}
	return false, err
}
