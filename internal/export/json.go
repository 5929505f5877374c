package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/aanand-mishra/addressbook/internal/addressbook"
	"github.com/aanand-mishra/addressbook/internal/types"
)

// ErrInvalidDocument is returned by ImportJSON when the input does not
// match the export schema.
var ErrInvalidDocument = errors.New("invalid address book document")

// Document is the shape shared by the JSON and YAML exports: book name →
// contacts, each contact keyed by field label.
type Document map[string][]types.Contact

// NewDocument snapshots c. Empty books appear with an empty list.
func NewDocument(c *addressbook.Catalog) Document {
	doc := make(Document, c.BookCount())
	for name, b := range c.Books() {
		contacts := make([]types.Contact, 0, b.Len())
		for _, contact := range b.Contacts() {
			contacts = append(contacts, *contact)
		}
		doc[name] = contacts
	}
	return doc
}

// JSON writes the catalog as a pretty-printed object keyed by book name.
func JSON(w io.Writer, c *addressbook.Catalog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(NewDocument(c)); err != nil {
		return fmt.Errorf("JSON: encode: %w", err)
	}
	return nil
}

// documentSchema describes the JSON export. Every contact must carry all
// eight fields as strings and nothing else.
var documentSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"additionalProperties": {
		"type": "array",
		"items": {
			"type": "object",
			"additionalProperties": false,
			"required": ["first name", "last name", "address", "city", "state", "zip", "phone", "email"],
			"properties": {
				"first name": {"type": "string"},
				"last name":  {"type": "string"},
				"address":    {"type": "string"},
				"city":       {"type": "string"},
				"state":      {"type": "string"},
				"zip":        {"type": "string"},
				"phone":      {"type": "string"},
				"email":      {"type": "string"}
			}
		}
	}
}`)

// ImportJSON validates a JSON export against the export schema and adds
// its contacts to c. Books are created on demand; duplicates within a
// book are skipped and counted.
//
// Go maps have no order, so books missing from c are created in sorted
// name order.
func ImportJSON(r io.Reader, c *addressbook.Catalog) (skipped int, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("ImportJSON: read: %w", err)
	}

	result, err := gojsonschema.Validate(documentSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return 0, fmt.Errorf("ImportJSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return 0, fmt.Errorf("%w:\n- %s", ErrInvalidDocument, strings.Join(msgs, "\n- "))
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("ImportJSON: decode: %w", err)
	}

	for _, name := range slices.Sorted(maps.Keys(doc)) {
		// An empty list still creates the book.
		if _, err := c.GetBook(name); err != nil {
			if _, err := c.AddBook(name); err != nil {
				return skipped, fmt.Errorf("ImportJSON: %w", err)
			}
		}
		for _, contact := range doc[name] {
			dup, err := addImported(c, name, contact)
			if err != nil {
				return skipped, fmt.Errorf("ImportJSON: %w", err)
			}
			if dup {
				skipped++
			}
		}
	}
	return skipped, nil
}
