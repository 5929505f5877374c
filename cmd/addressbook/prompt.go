package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aanand-mishra/addressbook/internal/types"
)

// promptFields asks for each contact field in order and returns the
// answers keyed by field label. Input ending before the last field is an
// error; a blank answer is an empty value.
func promptFields(r *bufio.Reader, w io.Writer) (map[string]string, error) {
	fields := make(map[string]string, len(types.Fields))
	for _, f := range types.Fields {
		fmt.Fprintf(w, "Enter %s: ", f.Label())

		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return nil, fmt.Errorf("reading %s: %w", f.Label(), err)
		}
		fields[f.Label()] = strings.TrimSpace(line)
	}
	fmt.Fprintln(w)
	return fields, nil
}
