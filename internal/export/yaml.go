package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aanand-mishra/addressbook/internal/addressbook"
)

// YAML writes the catalog in the same shape as the JSON export.
func YAML(w io.Writer, c *addressbook.Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(c)); err != nil {
		return fmt.Errorf("YAML: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("YAML: close: %w", err)
	}
	return nil
}
