package textfile

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/addressbook/internal/addressbook"
	"github.com/aanand-mishra/addressbook/internal/export"
	"github.com/aanand-mishra/addressbook/internal/storage"
	"github.com/aanand-mishra/addressbook/internal/types"
)

// Compile-time check: Store satisfies storage.Storage.
var _ storage.Storage = (*Store)(nil)

func person(first, last, city, state string) types.Contact {
	return types.Contact{
		FirstName: first,
		LastName:  last,
		Address:   "12 Main Road",
		City:      city,
		State:     state,
		Zip:       "600064",
		Phone:     "7200920651",
		Email:     strings.ToLower(first) + "@example.com",
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "files", "contact_details.txt"))
}

func catalogWith(t *testing.T, books map[string][]types.Contact, order ...string) *addressbook.Catalog {
	t.Helper()
	c := addressbook.NewCatalog()
	for _, name := range order {
		b, err := c.AddBook(name)
		require.NoError(t, err)
		for _, p := range books[name] {
			_, err := c.HandleAddContact(b, p)
			require.NoError(t, err)
		}
	}
	return c
}

func values(b *addressbook.Book) [][]string {
	var out [][]string
	for _, c := range b.Contacts() {
		out = append(out, c.Values())
	}
	return out
}

const sampleFile = `AddressBook Name : Friends
===========================================
first name : Kandlagunta
last name : Subramanyam
address : Chitlapakkam
city : Chennai
state : TamilNadu
zip : 600064
phone : 7200920651
email : subramanyamk2003@gmail.com
===========================================

`

func TestEncode(t *testing.T) {
	c := addressbook.NewCatalog()
	b, err := c.AddBook("Friends")
	require.NoError(t, err)
	_, err = c.HandleAddContact(b, types.Contact{
		FirstName: "Kandlagunta",
		LastName:  "Subramanyam",
		Address:   "Chitlapakkam",
		City:      "Chennai",
		State:     "TamilNadu",
		Zip:       "600064",
		Phone:     "7200920651",
		Email:     "subramanyamk2003@gmail.com",
	})
	require.NoError(t, err)

	got := strings.Join(Encode(b), "\n") + "\n"
	assert.Equal(t, sampleFile, got)
}

func TestParse_SampleIsIndexed(t *testing.T) {
	c := addressbook.NewCatalog()
	lines := strings.Split(sampleFile, "\n")

	require.NoError(t, Parse(lines, c))

	b, err := c.GetBook("Friends")
	require.NoError(t, err)
	require.Equal(t, 1, b.Len())
	assert.Equal(t, "Subramanyam", b.Contacts()[0].LastName)

	n, err := c.CountBy(addressbook.ByCity, "Chennai")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRoundTrip_SingleBook(t *testing.T) {
	s := newStore(t)
	src := catalogWith(t, map[string][]types.Contact{
		"Friends": {
			person("Ravi", "Kumar", "Chennai", "TamilNadu"),
			person("Anu", "Rao", "Pune", "Maharashtra"),
			{FirstName: "Empty", LastName: "Fields"},
		},
	}, "Friends")

	require.NoError(t, s.SaveCatalog(src))

	dst := addressbook.NewCatalog()
	require.NoError(t, s.LoadCatalog(dst))

	want, err := src.GetBook("Friends")
	require.NoError(t, err)
	got, err := dst.GetBook("Friends")
	require.NoError(t, err)
	assert.Equal(t, values(want), values(got))
}

func TestRoundTrip_MultiBook(t *testing.T) {
	s := newStore(t)
	src := catalogWith(t, map[string][]types.Contact{
		"Friends": {person("Ravi", "Kumar", "Chennai", "TamilNadu")},
		"Family":  {person("Anu", "Rao", "Pune", "Maharashtra")},
		"Empty":   nil,
	}, "Friends", "Family", "Empty")

	require.NoError(t, s.SaveCatalog(src))

	dst := addressbook.NewCatalog()
	require.NoError(t, s.LoadCatalog(dst))

	assert.Equal(t, []string{"Friends", "Family", "Empty"}, dst.BookNames())
	for name, want := range src.Books() {
		got, err := dst.GetBook(name)
		require.NoError(t, err)
		assert.Equal(t, values(want), values(got), name)
	}
}

func TestSaveBook_LastBookWins(t *testing.T) {
	s := newStore(t)
	src := catalogWith(t, map[string][]types.Contact{
		"Friends": {person("Ravi", "Kumar", "Chennai", "TamilNadu")},
		"Family":  {person("Anu", "Rao", "Pune", "Maharashtra")},
	}, "Friends", "Family")

	// Writing book by book with the overwrite primitive keeps only the
	// last one written.
	for _, b := range src.Books() {
		require.NoError(t, s.SaveBook(b))
	}

	dst := addressbook.NewCatalog()
	require.NoError(t, s.LoadCatalog(dst))
	assert.Equal(t, []string{"Family"}, dst.BookNames())
}

func TestSaveCatalog_ReplacesPreviousContents(t *testing.T) {
	s := newStore(t)
	first := catalogWith(t, map[string][]types.Contact{
		"Old": {person("Ravi", "Kumar", "Chennai", "TamilNadu")},
	}, "Old")
	require.NoError(t, s.SaveCatalog(first))

	second := catalogWith(t, map[string][]types.Contact{
		"New": {person("Anu", "Rao", "Pune", "Maharashtra")},
	}, "New")
	require.NoError(t, s.SaveCatalog(second))

	dst := addressbook.NewCatalog()
	require.NoError(t, s.LoadCatalog(dst))
	assert.Equal(t, []string{"New"}, dst.BookNames())
}

func TestLoad_EmptyFile(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path), 0o755))
	require.NoError(t, os.WriteFile(s.Path, []byte("\n\n   \n"), 0o644))

	c := addressbook.NewCatalog()
	require.NoError(t, s.LoadCatalog(c))
	assert.Equal(t, 0, c.BookCount())
}

func TestLoad_MissingFile(t *testing.T) {
	s := newStore(t)

	err := s.LoadCatalog(addressbook.NewCatalog())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestParse_SkipsContactHeadings(t *testing.T) {
	lines := []string{
		"AddressBook Name : Friends",
		"===========================================",
		"Contact 1",
		"first name : Ravi",
		"last name : Kumar",
		"address : Contact Street",
		"city : Chennai",
		"state : TamilNadu",
		"zip :",
		"phone : 1",
		"email : ravi@example.com",
		"===========================================",
	}
	c := addressbook.NewCatalog()
	require.NoError(t, Parse(lines, c))

	b, err := c.GetBook("Friends")
	require.NoError(t, err)
	require.Equal(t, 1, b.Len())
	got := b.Contacts()[0]
	assert.Equal(t, "Contact Street", got.Address)
	assert.Equal(t, "", got.Zip)
}

func TestParse_ReopensExistingBook(t *testing.T) {
	c := catalogWith(t, map[string][]types.Contact{
		"Friends": {person("Ravi", "Kumar", "Chennai", "TamilNadu")},
	}, "Friends")

	b, err := c.GetBook("Friends")
	require.NoError(t, err)
	extra := catalogWith(t, map[string][]types.Contact{
		"Friends": {person("Anu", "Rao", "Pune", "Maharashtra")},
	}, "Friends")
	eb, err := extra.GetBook("Friends")
	require.NoError(t, err)

	require.NoError(t, Parse(Encode(eb), c))
	assert.Equal(t, 1, c.BookCount())
	assert.Equal(t, 2, b.Len())
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{
			name:  "no key value split",
			lines: []string{"AddressBook Name : Friends", "just some text"},
		},
		{
			name:  "unknown field label",
			lines: []string{"AddressBook Name : Friends", "nickname : Subbu"},
		},
		{
			name:  "field before header",
			lines: []string{"first name : Ravi"},
		},
		{
			name: "partial record at end of input",
			lines: []string{
				"AddressBook Name : Friends",
				"first name : Ravi",
				"last name : Kumar",
			},
		},
		{
			name: "partial record before next book",
			lines: []string{
				"AddressBook Name : Friends",
				"first name : Ravi",
				"AddressBook Name : Family",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Parse(tt.lines, addressbook.NewCatalog())
			assert.ErrorIs(t, err, ErrMalformedLine)
		})
	}
}

func TestLoad_MalformedKeepsEarlierBooks(t *testing.T) {
	s := newStore(t)
	content := sampleFile + "AddressBook Name : Family\nbroken line\n"
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path), 0o755))
	require.NoError(t, os.WriteFile(s.Path, []byte(content), 0o644))

	c := addressbook.NewCatalog()
	err := s.LoadCatalog(c)
	require.ErrorIs(t, err, ErrMalformedLine)

	// Loading stops at the bad line; what was read before it stays.
	b, gerr := c.GetBook("Friends")
	require.NoError(t, gerr)
	assert.Equal(t, 1, b.Len())
}

func TestOSFiles_ReadLinesSkipsBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.txt")
	require.NoError(t, os.WriteFile(path, []byte("  a  \n\n b\n   \nc"), 0o644))

	lines, err := OSFiles{}.ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestOSFiles_AppendAndWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "lines.txt")
	files := OSFiles{}

	require.NoError(t, files.AppendLines(path, []string{"one"}))
	require.NoError(t, files.AppendLines(path, []string{"two"}))
	lines, err := files.ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)

	require.NoError(t, files.WriteLines(path, []string{"three"}))
	lines, err = files.ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"three"}, lines)
}

// memFiles is an in-memory LineStore that records the calls made on it.
type memFiles struct {
	data  map[string][]string
	calls []string
}

func (m *memFiles) ReadLines(path string) ([]string, error) {
	m.calls = append(m.calls, "read")
	var out []string
	for _, l := range m.data[path] {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memFiles) WriteLines(path string, lines []string) error {
	m.calls = append(m.calls, "write")
	m.data[path] = append([]string(nil), lines...)
	return nil
}

func (m *memFiles) AppendLines(path string, lines []string) error {
	m.calls = append(m.calls, "append")
	m.data[path] = append(m.data[path], lines...)
	return nil
}

func TestSaveCatalog_TruncatesOnceThenAppends(t *testing.T) {
	files := &memFiles{data: map[string][]string{}}
	s := &Store{Path: "contacts.txt", Files: files}
	src := catalogWith(t, map[string][]types.Contact{
		"Friends": {person("Ravi", "Kumar", "Chennai", "TamilNadu")},
		"Family":  {person("Anu", "Rao", "Pune", "Maharashtra")},
	}, "Friends", "Family")

	require.NoError(t, s.SaveCatalog(src))
	assert.Equal(t, []string{"write", "append", "append"}, files.calls)

	dst := addressbook.NewCatalog()
	require.NoError(t, s.LoadCatalog(dst))
	assert.Equal(t, []string{"Friends", "Family"}, dst.BookNames())
}

func TestSave_RejectsLineBreaksFromImports(t *testing.T) {
	header := strings.Join(export.CSVHeader(), ",")
	tests := []struct {
		name   string
		load   func(*addressbook.Catalog) error
		detail string
	}{
		{
			name: "csv quoted newline",
			load: func(c *addressbook.Catalog) error {
				in := header + "\nFriends,Anu,Rao,\"12 Main\nRoad\",Pune,MH,411001,1,anu@example.com\n"
				_, err := export.ImportCSV(strings.NewReader(in), c)
				return err
			},
			detail: "contact Anu Rao: address",
		},
		{
			name: "json carriage return",
			load: func(c *addressbook.Catalog) error {
				in := `{"Friends": [{"first name": "Anu", "last name": "Rao", "address": "", "city": "Pune\r",
					"state": "", "zip": "", "phone": "", "email": ""}]}`
				_, err := export.ImportJSON(strings.NewReader(in), c)
				return err
			},
			detail: "contact Anu Rao: city",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			before := catalogWith(t, map[string][]types.Contact{
				"Friends": {person("Ravi", "Kumar", "Chennai", "TamilNadu")},
			}, "Friends")
			require.NoError(t, s.SaveCatalog(before))
			saved, err := os.ReadFile(s.Path)
			require.NoError(t, err)

			c := addressbook.NewCatalog()
			require.NoError(t, s.LoadCatalog(c))
			require.NoError(t, tt.load(c))

			err = s.SaveCatalog(c)
			require.ErrorIs(t, err, ErrMalformedLine)
			assert.Contains(t, err.Error(), tt.detail)

			b, gerr := c.GetBook("Friends")
			require.NoError(t, gerr)
			assert.ErrorIs(t, s.SaveBook(b), ErrMalformedLine)

			// The previous file is untouched and still loads.
			after, err := os.ReadFile(s.Path)
			require.NoError(t, err)
			assert.Equal(t, string(saved), string(after))
			require.NoError(t, s.LoadCatalog(addressbook.NewCatalog()))
		})
	}
}

func TestSave_RejectsLineBreakInBookName(t *testing.T) {
	s := newStore(t)
	c := catalogWith(t, nil, "Two\nLines")

	err := s.SaveCatalog(c)
	assert.ErrorIs(t, err, ErrMalformedLine)
	_, statErr := os.Stat(s.Path)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}

func TestRoundTrip_TrailingWhitespaceIsTrimmed(t *testing.T) {
	s := newStore(t)
	p := person("Ravi", "Kumar", "Chennai ", "TamilNadu")
	p.Address = "  12 Main Road"
	src := catalogWith(t, map[string][]types.Contact{"Friends": {p}}, "Friends")

	require.NoError(t, s.SaveCatalog(src))
	dst := addressbook.NewCatalog()
	require.NoError(t, s.LoadCatalog(dst))

	b, err := dst.GetBook("Friends")
	require.NoError(t, err)
	got := b.Contacts()[0]
	// Lines are trimmed on read, so trailing spaces are lost. Only the
	// single space after " :" is removed from the front of a value.
	assert.Equal(t, "Chennai", got.City)
	assert.Equal(t, "  12 Main Road", got.Address)
}
