// Package textfile reads and writes catalogs in the address book text
// format:
//
//	AddressBook Name : Friends
//	===========================================
//	first name : Kandlagunta
//	last name : Subramanyam
//	address : Chitlapakkam
//	city : Chennai
//	state : TamilNadu
//	zip : 600064
//	phone : 7200920651
//	email : subramanyamk2003@gmail.com
//	===========================================
//
// One header per book, then one eight-line block per contact, each closed
// by a separator line, then a blank line. Field keys are the labels from
// types.Field and must match exactly.
package textfile

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aanand-mishra/addressbook/internal/addressbook"
	"github.com/aanand-mishra/addressbook/internal/types"
)

// ErrMalformedLine is returned when a line cannot be read as part of the
// format. Loading stops at the first such line.
var ErrMalformedLine = errors.New("malformed record line")

const (
	headerKey   = "AddressBook Name"
	headingWord = "Contact"
)

// Store is the text-file implementation of storage.Storage.
type Store struct {
	Path  string
	Files LineStore
}

// New returns a Store for path backed by the local filesystem.
func New(path string) *Store {
	return &Store{Path: path, Files: OSFiles{}}
}

// LoadCatalog parses the file into c. An empty file is no data, not an
// error. A missing file fails with an error matching both storage.ErrIO
// and fs.ErrNotExist.
func (s *Store) LoadCatalog(c *addressbook.Catalog) error {
	lines, err := s.Files.ReadLines(s.Path)
	if err != nil {
		return fmt.Errorf("LoadCatalog: %w", err)
	}
	if len(lines) == 0 {
		slog.Info("no address book data", slog.String("path", s.Path))
		return nil
	}
	if err := Parse(lines, c); err != nil {
		return fmt.Errorf("LoadCatalog: %s: %w", s.Path, err)
	}
	slog.Info("address books loaded",
		slog.String("path", s.Path),
		slog.Int("books", c.BookCount()))
	return nil
}

// SaveCatalog writes every book in c to the file, replacing its previous
// contents. The file is truncated once; books are then appended in
// catalog order, so a multi-book catalog reloads intact.
//
// Every book is checked before the file is touched: a value the format
// cannot hold fails with ErrMalformedLine and the old file is kept.
func (s *Store) SaveCatalog(c *addressbook.Catalog) error {
	for _, b := range c.Books() {
		if err := checkBook(b); err != nil {
			return fmt.Errorf("SaveCatalog: %w", err)
		}
	}
	if err := s.Files.WriteLines(s.Path, nil); err != nil {
		return fmt.Errorf("SaveCatalog: truncate: %w", err)
	}
	for name, b := range c.Books() {
		if err := s.Files.AppendLines(s.Path, Encode(b)); err != nil {
			return fmt.Errorf("SaveCatalog: book %q: %w", name, err)
		}
	}
	return nil
}

// SaveBook overwrites the file with a single book. Calling it once per
// book leaves only the last book in the file; use SaveCatalog to persist
// several books.
func (s *Store) SaveBook(b *addressbook.Book) error {
	if err := checkBook(b); err != nil {
		return fmt.Errorf("SaveBook: %w", err)
	}
	if err := s.Files.WriteLines(s.Path, Encode(b)); err != nil {
		return fmt.Errorf("SaveBook: %q: %w", b.Name(), err)
	}
	return nil
}

// checkBook rejects a book whose name or contact values contain a line
// break. Each value must stay on its own line to be read back.
func checkBook(b *addressbook.Book) error {
	if hasLineBreak(b.Name()) {
		return fmt.Errorf("%w: book name %q contains a line break", ErrMalformedLine, b.Name())
	}
	for _, c := range b.Contacts() {
		for _, f := range types.Fields {
			if hasLineBreak(c.Get(f)) {
				return fmt.Errorf("%w: book %q: contact %s: %s contains a line break",
					ErrMalformedLine, b.Name(), c.FullName(), f.Label())
			}
		}
	}
	return nil
}

func hasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}

// Encode renders one book: header, separator, a block per contact, and a
// trailing blank line.
func Encode(b *addressbook.Book) []string {
	lines := make([]string, 0, 3+b.Len()*(len(types.Fields)+1))
	lines = append(lines, headerKey+" : "+b.Name(), types.Separator)
	for _, c := range b.Contacts() {
		for _, f := range types.Fields {
			lines = append(lines, f.Label()+" : "+c.Get(f))
		}
		lines = append(lines, types.Separator)
	}
	return append(lines, "")
}

// Parse reads already-trimmed, non-empty lines into c.
//
// Rules, applied per line:
//   - a line containing "AddressBook Name :" opens the named book,
//     creating it unless the catalog already has it;
//   - separator lines and headings mentioning "Contact" are skipped;
//   - anything else must be "<field label> : <value>".
//
// Once eight distinct fields are collected the contact is added through
// Catalog.HandleAddContact. A field line with no open book, a heading
// that cuts a contact short, or input ending mid-contact is malformed.
func Parse(lines []string, c *addressbook.Catalog) error {
	var (
		book    *addressbook.Book
		pending = make(map[string]string, len(types.Fields))
		started int
	)

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		lineNo := i + 1

		switch {
		case line == "":
			continue

		case strings.Contains(line, headerKey+" :"):
			if len(pending) > 0 {
				return fmt.Errorf("%w: line %d: book header inside an incomplete contact (started line %d)",
					ErrMalformedLine, lineNo, started)
			}
			_, name, _ := splitField(line)
			b, err := openBook(c, name)
			if err != nil {
				return err
			}
			book = b
			slog.Debug("parsing address book", slog.String("book", name), slog.Int("line", lineNo))
			continue

		case isSeparator(line):
			continue
		}

		key, value, ok := splitField(line)
		f, ferr := types.ParseField(key)
		if !ok || ferr != nil {
			if strings.Contains(line, headingWord) {
				continue
			}
			return fmt.Errorf("%w: line %d: %q", ErrMalformedLine, lineNo, line)
		}

		if book == nil {
			return fmt.Errorf("%w: line %d: field before any %q header", ErrMalformedLine, lineNo, headerKey)
		}

		if len(pending) == 0 {
			started = lineNo
		}
		pending[f.Label()] = value

		if len(pending) == len(types.Fields) {
			contact, err := types.NewContact(pending)
			if err != nil {
				return fmt.Errorf("%w: line %d: %w", ErrMalformedLine, lineNo, err)
			}
			if _, err := c.HandleAddContact(book, contact); err != nil {
				return err
			}
			clear(pending)
		}
	}

	if len(pending) > 0 {
		return fmt.Errorf("%w: input ends inside a contact started on line %d (%d of %d fields)",
			ErrMalformedLine, started, len(pending), len(types.Fields))
	}
	return nil
}

// splitField splits "key : value" at the first " :". Trailing spaces were
// trimmed by the reader, so an empty value arrives as "key :".
func splitField(line string) (key, value string, ok bool) {
	i := strings.Index(line, " :")
	if i <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	value = strings.TrimPrefix(line[i+2:], " ")
	return key, value, key != ""
}

func isSeparator(line string) bool {
	return strings.Trim(line, "=") == "" && len(line) > 0
}

func openBook(c *addressbook.Catalog, name string) (*addressbook.Book, error) {
	if b, err := c.GetBook(name); err == nil {
		return b, nil
	}
	return c.AddBook(name)
}
