// Package types holds the shared data structures (models) used across the
// application. Keeping them in one place prevents import cycles: the
// address book core, the storage backends and the exporters can all import
// types without depending on each other.
package types

import (
	"fmt"
	"strings"
)

// Contact represents one person's record inside an address book.
//
// The struct has a fixed shape: every contact always carries all eight
// fields, so "field missing" can only happen while converting from an
// open key/value source (see NewContact).
//
// Struct tags:
//
//  1. json:"..." / yaml:"...": the keys used by the JSON and YAML exports.
//     They match the labels written to the text format ("first name", ...)
//     so every format names a field the same way.
//
//  2. ID is book-local bookkeeping and is never exported.
type Contact struct {
	ID        uint64 `json:"-"          yaml:"-"`
	FirstName string `json:"first name" yaml:"first name"`
	LastName  string `json:"last name"  yaml:"last name"`
	Address   string `json:"address"    yaml:"address"`
	City      string `json:"city"       yaml:"city"`
	State     string `json:"state"      yaml:"state"`
	Zip       string `json:"zip"        yaml:"zip"`
	Phone     string `json:"phone"      yaml:"phone"`
	Email     string `json:"email"      yaml:"email"`
}

// Field selects one of the eight contact fields at runtime.
// It replaces string-keyed access: code that edits or sorts by a
// user-supplied name parses it once with ParseField.
type Field int

const (
	FirstName Field = iota
	LastName
	Address
	City
	State
	Zip
	Phone
	Email
)

// Fields lists every field in persisted order. The text format, the CSV
// export and the field prompt all walk this slice.
var Fields = []Field{FirstName, LastName, Address, City, State, Zip, Phone, Email}

var fieldLabels = [...]string{
	FirstName: "first name",
	LastName:  "last name",
	Address:   "address",
	City:      "city",
	State:     "state",
	Zip:       "zip",
	Phone:     "phone",
	Email:     "email",
}

var fieldTitles = [...]string{
	FirstName: "First Name",
	LastName:  "Last Name",
	Address:   "Address",
	City:      "City",
	State:     "State",
	Zip:       "Zip",
	Phone:     "Phone",
	Email:     "Email",
}

// Label returns the lower-case key written to the text format and used as
// the JSON/YAML key, e.g. "first name".
func (f Field) Label() string {
	if f < 0 || int(f) >= len(fieldLabels) {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldLabels[f]
}

// Title returns the column header used by the CSV and XLSX exports.
func (f Field) Title() string {
	if f < 0 || int(f) >= len(fieldTitles) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldTitles[f]
}

func (f Field) String() string { return f.Label() }

// ParseField maps a user-supplied field name to a Field.
// Matching is case-insensitive and accepts "_" in place of the space,
// so "First_Name", "first name" and "FIRST NAME" all resolve to FirstName.
func ParseField(name string) (Field, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.ReplaceAll(norm, "_", " ")
	for _, f := range Fields {
		if fieldLabels[f] == norm {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Get returns the value stored for f.
func (c *Contact) Get(f Field) string {
	if p := c.ref(f); p != nil {
		return *p
	}
	return ""
}

// Set overwrites the value stored for f. Identity fields are not special:
// renaming a contact is allowed and changes how it is matched afterwards.
func (c *Contact) Set(f Field, value string) {
	if p := c.ref(f); p != nil {
		*p = value
	}
}

// Edit overwrites the field called fieldName.
// Unknown names fail with ErrUnknownField; the contact is left untouched.
func (c *Contact) Edit(fieldName, value string) error {
	f, err := ParseField(fieldName)
	if err != nil {
		return err
	}
	c.Set(f, value)
	return nil
}

// FullName returns "first last".
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Matches reports whether the contact has the given identity key.
// An empty last name is a wildcard.
func (c *Contact) Matches(first, last string) bool {
	if c.FirstName != first {
		return false
	}
	return last == "" || c.LastName == last
}

// Map returns the contact as label → value.
func (c *Contact) Map() map[string]string {
	m := make(map[string]string, len(Fields))
	for _, f := range Fields {
		m[f.Label()] = c.Get(f)
	}
	return m
}

// Values returns the field values in persisted order.
func (c *Contact) Values() []string {
	out := make([]string, len(Fields))
	for i, f := range Fields {
		out[i] = c.Get(f)
	}
	return out
}

// String renders the display block shown when listing a book.
func (c *Contact) String() string {
	var b strings.Builder
	b.WriteString(Separator)
	b.WriteByte('\n')
	for _, f := range Fields {
		fmt.Fprintf(&b, "%s: %s\n", f.Title(), c.Get(f))
	}
	b.WriteString(Separator)
	return b.String()
}

// Separator is the delimiter line shared by the display block and the
// text format.
const Separator = "==========================================="

func (c *Contact) ref(f Field) *string {
	switch f {
	case FirstName:
		return &c.FirstName
	case LastName:
		return &c.LastName
	case Address:
		return &c.Address
	case City:
		return &c.City
	case State:
		return &c.State
	case Zip:
		return &c.Zip
	case Phone:
		return &c.Phone
	case Email:
		return &c.Email
	}
	return nil
}
