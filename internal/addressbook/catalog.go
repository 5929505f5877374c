package addressbook

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/aanand-mishra/addressbook/internal/types"
)

// IndexKind selects one of the catalog's secondary indices.
type IndexKind int

const (
	ByCity IndexKind = iota
	ByState
)

func (k IndexKind) String() string {
	switch k {
	case ByCity:
		return "city"
	case ByState:
		return "state"
	}
	return fmt.Sprintf("IndexKind(%d)", int(k))
}

// ParseIndexKind accepts "city" or "state" in any case.
func ParseIndexKind(s string) (IndexKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "city":
		return ByCity, nil
	case "state":
		return ByState, nil
	}
	return 0, fmt.Errorf("%w: %q is not an index (want city or state)", types.ErrUnknownField, s)
}

// ref locates an indexed contact: the owning book plus the contact's
// book-local ID. Indices hold refs rather than contacts so a lookup
// always reads the live record and never returns one that was deleted.
type ref struct {
	book string
	id   uint64
}

// Catalog owns every address book plus the city and state indices.
//
// Index buckets are filled when a contact is added through
// HandleAddContact, using the contact's city and state at that moment.
// Later edits do not move a contact to another bucket; call Reindex to
// rebuild the buckets from current contents.
type Catalog struct {
	books map[string]*Book
	order []string

	byCity  map[string][]ref
	byState map[string][]ref
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		books:   make(map[string]*Book),
		byCity:  make(map[string][]ref),
		byState: make(map[string][]ref),
	}
}

// AddBook creates an empty book called name.
func (c *Catalog) AddBook(name string) (*Book, error) {
	if _, ok := c.books[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateBook, name)
	}
	b := NewBook(name)
	c.books[name] = b
	c.order = append(c.order, name)
	slog.Debug("address book created", slog.String("book", name))
	return b, nil
}

// GetBook returns the book called name.
func (c *Catalog) GetBook(name string) (*Book, error) {
	b, ok := c.books[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBookNotFound, name)
	}
	return b, nil
}

// BookCount returns the number of books.
func (c *Catalog) BookCount() int { return len(c.books) }

// BookNames returns book names in creation order.
func (c *Catalog) BookNames() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Books iterates over the books in creation order.
func (c *Catalog) Books() iter.Seq2[string, *Book] {
	return func(yield func(string, *Book) bool) {
		for _, name := range c.order {
			if !yield(name, c.books[name]) {
				return
			}
		}
	}
}

// HandleAddContact stores contact in book and indexes it by its current
// city and state. This is the only insert path that keeps the indices
// consistent; the book must belong to this catalog.
//
// Uniqueness within the book is the caller's responsibility (see
// AddContact).
func (c *Catalog) HandleAddContact(book *Book, contact types.Contact) (*types.Contact, error) {
	if book == nil || c.books[book.name] != book {
		name := "<nil>"
		if book != nil {
			name = book.name
		}
		return nil, fmt.Errorf("%w: %q is not part of this catalog", ErrBookNotFound, name)
	}

	stored := book.AddContact(contact)
	c.index(book.name, stored)
	return stored, nil
}

// AddContact looks up bookName, rejects a contact whose first and last
// name already exist there, and then inserts through HandleAddContact.
func (c *Catalog) AddContact(bookName string, contact types.Contact) (*types.Contact, error) {
	book, err := c.GetBook(bookName)
	if err != nil {
		return nil, err
	}
	if book.Contains(contact.FirstName, contact.LastName) {
		return nil, fmt.Errorf("%w: %s in %q", ErrDuplicateContact, contact.FullName(), bookName)
	}
	return c.HandleAddContact(book, contact)
}

// SearchByCity returns the contacts indexed under city, in index order.
func (c *Catalog) SearchByCity(city string) ([]*types.Contact, error) {
	return c.search(ByCity, city)
}

// SearchByState returns the contacts indexed under state, in index order.
func (c *Catalog) SearchByState(state string) ([]*types.Contact, error) {
	return c.search(ByState, state)
}

// CountBy returns how many contacts are indexed under key. A key with no
// live contacts fails with ErrNoMatches, so callers can tell "none" from
// an empty result.
func (c *Catalog) CountBy(kind IndexKind, key string) (int, error) {
	found, err := c.search(kind, key)
	if err != nil {
		return 0, err
	}
	return len(found), nil
}

// Reindex discards both indices and rebuilds them from the books' current
// contents, so contacts whose city or state changed land in their new
// buckets and deleted contacts are dropped.
func (c *Catalog) Reindex() {
	c.byCity = make(map[string][]ref)
	c.byState = make(map[string][]ref)
	for name, b := range c.Books() {
		for _, contact := range b.contacts {
			c.index(name, contact)
		}
	}
}

func (c *Catalog) index(book string, contact *types.Contact) {
	r := ref{book: book, id: contact.ID}
	c.byCity[contact.City] = append(c.byCity[contact.City], r)
	c.byState[contact.State] = append(c.byState[contact.State], r)
}

func (c *Catalog) bucket(kind IndexKind, key string) ([]ref, bool) {
	var refs []ref
	var ok bool
	switch kind {
	case ByCity:
		refs, ok = c.byCity[key]
	case ByState:
		refs, ok = c.byState[key]
	}
	return refs, ok
}

func (c *Catalog) search(kind IndexKind, key string) ([]*types.Contact, error) {
	refs, ok := c.bucket(kind, key)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrNoMatches, kind, key)
	}

	out := make([]*types.Contact, 0, len(refs))
	for _, r := range refs {
		b, ok := c.books[r.book]
		if !ok {
			continue
		}
		if contact := b.byID(r.id); contact != nil {
			out = append(out, contact)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrNoMatches, kind, key)
	}
	return out, nil
}
