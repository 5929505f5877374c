// Package addressbook implements the in-memory contact store: named
// address books (Book) owned by a Catalog that also maintains city and
// state indices over the contacts added through it.
//
// The package is not safe for concurrent use. All mutation is expected to
// come from a single caller, one operation at a time.
package addressbook

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/aanand-mishra/addressbook/internal/types"
)

// EmptyBookMessage is yielded by ShowContacts for a book with no contacts.
const EmptyBookMessage = "No contacts in this address book."

// Book is a named, ordered collection of contacts.
//
// Contacts are stored as pointers so the values handed out by AddContact
// and by index lookups stay valid across sorts and deletions of other
// contacts. Insertion order is kept until SortBy reorders the book.
type Book struct {
	name string

	contacts []*types.Contact
	nextID   uint64
}

// NewBook returns an empty book. Books are normally created through
// Catalog.AddBook so that they are indexed.
func NewBook(name string) *Book {
	return &Book{name: name}
}

// Name returns the book's name. It is fixed at creation because the
// catalog and its indices key on it.
func (b *Book) Name() string { return b.name }

// AddContact appends c and returns the stored copy.
//
// Calling this directly bypasses the catalog's city/state indices; route
// inserts through Catalog.HandleAddContact to keep them consistent.
func (b *Book) AddContact(c types.Contact) *types.Contact {
	b.nextID++
	c.ID = b.nextID
	stored := &c
	b.contacts = append(b.contacts, stored)
	return stored
}

// Len returns the number of contacts in the book.
func (b *Book) Len() int { return len(b.contacts) }

// Contacts returns the contacts in display order. The slice is a copy;
// the contacts are shared.
func (b *Book) Contacts() []*types.Contact {
	return slices.Clone(b.contacts)
}

// ShowContacts lazily yields one formatted view per contact in display
// order. An empty book yields EmptyBookMessage once.
func (b *Book) ShowContacts() iter.Seq[string] {
	return func(yield func(string) bool) {
		if len(b.contacts) == 0 {
			yield(EmptyBookMessage)
			return
		}
		for _, c := range b.contacts {
			if !yield(c.String()) {
				return
			}
		}
	}
}

// EditContact sets field to value on the first contact named fullName
// ("first last").
//
// It reports whether a contact was edited. No match is not an error: the
// book is left unchanged and false is returned. The field name is checked
// before the lookup, so an unknown field fails even when nobody matches.
func (b *Book) EditContact(fullName, field, value string) (bool, error) {
	f, err := types.ParseField(field)
	if err != nil {
		return false, err
	}

	parts := strings.Fields(fullName)
	if len(parts) != 2 {
		return false, fmt.Errorf("%w: %q needs a first and a last name", ErrInvalidName, fullName)
	}

	if c := b.find(parts[0], parts[1]); c != nil {
		c.Set(f, value)
		return true, nil
	}
	return false, nil
}

// DeleteContact removes the first contact matching fullName.
//
// A single token matches on first name only. When several contacts share
// that first name the earliest one in display order is removed, so the
// outcome depends on order but is deterministic.
func (b *Book) DeleteContact(fullName string) error {
	parts := strings.Fields(fullName)

	var first, last string
	switch len(parts) {
	case 1:
		first = parts[0]
	case 2:
		first, last = parts[0], parts[1]
	default:
		return fmt.Errorf("%w: %q", ErrContactNotFound, fullName)
	}

	i := b.index(first, last)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrContactNotFound, fullName)
	}
	b.contacts = slices.Delete(b.contacts, i, i+1)
	return nil
}

// Contains reports whether a contact with the given names exists.
// An empty last name matches any last name.
func (b *Book) Contains(first, last string) bool {
	return b.index(first, last) >= 0
}

// SortBy stably reorders the book by "name" (first, then last), "city",
// "state" or "zip". Any other key leaves the book as it is.
func (b *Book) SortBy(field string) {
	var cmpFn func(a, c *types.Contact) int

	switch strings.ToLower(strings.TrimSpace(field)) {
	case "name":
		cmpFn = func(a, c *types.Contact) int {
			return cmp.Or(
				strings.Compare(a.FirstName, c.FirstName),
				strings.Compare(a.LastName, c.LastName),
			)
		}
	case "city":
		cmpFn = func(a, c *types.Contact) int { return strings.Compare(a.City, c.City) }
	case "state":
		cmpFn = func(a, c *types.Contact) int { return strings.Compare(a.State, c.State) }
	case "zip":
		cmpFn = func(a, c *types.Contact) int { return strings.Compare(a.Zip, c.Zip) }
	default:
		return
	}

	slices.SortStableFunc(b.contacts, cmpFn)
}

// byID resolves an index reference. Contacts deleted since they were
// indexed are not found.
func (b *Book) byID(id uint64) *types.Contact {
	for _, c := range b.contacts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (b *Book) find(first, last string) *types.Contact {
	if i := b.index(first, last); i >= 0 {
		return b.contacts[i]
	}
	return nil
}

func (b *Book) index(first, last string) int {
	return slices.IndexFunc(b.contacts, func(c *types.Contact) bool {
		return c.Matches(first, last)
	})
}
