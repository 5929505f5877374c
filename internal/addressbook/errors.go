package addressbook

import "errors"

// Lookup failures are ordinary results: an interactive caller reports them
// and prompts again. Compare with errors.Is.
var (
	// ErrDuplicateBook is returned by AddBook when the name is taken.
	ErrDuplicateBook = errors.New("address book already exists")

	// ErrBookNotFound is returned when no book has the requested name.
	ErrBookNotFound = errors.New("address book not found")

	// ErrContactNotFound is returned when no contact matches a name.
	ErrContactNotFound = errors.New("contact not found")

	// ErrDuplicateContact is returned by Catalog.AddContact when the book
	// already holds a contact with the same first and last name.
	ErrDuplicateContact = errors.New("contact already exists")

	// ErrInvalidName is returned when a full name does not have the number
	// of tokens an operation needs.
	ErrInvalidName = errors.New("invalid contact name")

	// ErrNoMatches is returned by index lookups when nothing is indexed
	// under the key.
	ErrNoMatches = errors.New("no contacts found")
)
