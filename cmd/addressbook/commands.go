package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aanand-mishra/addressbook/internal/addressbook"
	"github.com/aanand-mishra/addressbook/internal/config"
	"github.com/aanand-mishra/addressbook/internal/export"
	"github.com/aanand-mishra/addressbook/internal/types"
)

var errUsage = errors.New("bad usage")

// app runs single commands against a loaded catalog.
type app struct {
	catalog *addressbook.Catalog
	cfg     *config.Config
	in      io.Reader
	out     io.Writer
}

// run executes one command. It reports whether the catalog changed and
// needs saving.
func (a *app) run(args []string) (bool, error) {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "books":
		return false, a.books()
	case "new-book":
		if len(rest) != 1 {
			return false, fmt.Errorf("%w: new-book <name>", errUsage)
		}
		if _, err := a.catalog.AddBook(rest[0]); err != nil {
			return false, err
		}
		fmt.Fprintf(a.out, "Address Book with name: %s is created.\n", rest[0])
		return true, nil
	case "show":
		if len(rest) != 1 {
			return false, fmt.Errorf("%w: show <book>", errUsage)
		}
		return false, a.show(rest[0])
	case "add":
		if len(rest) != 1 {
			return false, fmt.Errorf("%w: add <book>", errUsage)
		}
		return a.add(rest[0])
	case "edit":
		if len(rest) < 5 {
			return false, fmt.Errorf("%w: edit <book> <first> <last> <field> <value>", errUsage)
		}
		return a.edit(rest[0], rest[1]+" "+rest[2], rest[3], strings.Join(rest[4:], " "))
	case "delete":
		if len(rest) < 2 || len(rest) > 3 {
			return false, fmt.Errorf("%w: delete <book> <first> [last]", errUsage)
		}
		return a.delete(rest[0], strings.Join(rest[1:], " "))
	case "sort":
		if len(rest) != 2 {
			return false, fmt.Errorf("%w: sort <book> <name|city|state|zip>", errUsage)
		}
		b, err := a.catalog.GetBook(rest[0])
		if err != nil {
			return false, err
		}
		b.SortBy(rest[1])
		return true, nil
	case "search":
		if len(rest) != 2 {
			return false, fmt.Errorf("%w: search <city|state> <key>", errUsage)
		}
		return false, a.search(rest[0], rest[1])
	case "count":
		if len(rest) != 2 {
			return false, fmt.Errorf("%w: count <city|state> <key>", errUsage)
		}
		return false, a.count(rest[0], rest[1])
	case "export":
		if len(rest) != 1 {
			return false, fmt.Errorf("%w: export <csv|json|xlsx|yaml|all>", errUsage)
		}
		return false, a.export(rest[0])
	case "import":
		if len(rest) < 1 || len(rest) > 2 {
			return false, fmt.Errorf("%w: import <csv|json> [path]", errUsage)
		}
		return a.importFile(rest[0], rest[1:])
	}

	usage(a.out)
	return false, fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func (a *app) books() error {
	if a.catalog.BookCount() == 0 {
		fmt.Fprintln(a.out, "There are no Address Books to Show!!!")
		return nil
	}
	fmt.Fprintln(a.out, "Available Address Books:")
	for name, b := range a.catalog.Books() {
		fmt.Fprintf(a.out, "- %s (%d contacts)\n", name, b.Len())
	}
	return nil
}

func (a *app) show(name string) error {
	b, err := a.catalog.GetBook(name)
	if err != nil {
		return err
	}
	for view := range b.ShowContacts() {
		fmt.Fprintln(a.out, view)
	}
	return nil
}

func (a *app) add(name string) (bool, error) {
	if _, err := a.catalog.GetBook(name); err != nil {
		return false, err
	}

	fields, err := promptFields(bufio.NewReader(a.in), a.out)
	if err != nil {
		return false, err
	}
	contact, err := types.NewContact(fields)
	if err != nil {
		return false, err
	}

	if _, err := a.catalog.AddContact(name, contact); err != nil {
		return false, err
	}
	fmt.Fprintln(a.out, "Contact added successfully.")
	return true, nil
}

func (a *app) edit(book, fullName, field, value string) (bool, error) {
	b, err := a.catalog.GetBook(book)
	if err != nil {
		return false, err
	}
	edited, err := b.EditContact(fullName, field, value)
	if err != nil {
		return false, err
	}
	if !edited {
		fmt.Fprintf(a.out, "No contact named %q in %q.\n", fullName, book)
		return false, nil
	}
	fmt.Fprintln(a.out, "Contact updated.")
	return true, nil
}

func (a *app) delete(book, fullName string) (bool, error) {
	b, err := a.catalog.GetBook(book)
	if err != nil {
		return false, err
	}
	if err := b.DeleteContact(fullName); err != nil {
		return false, err
	}
	fmt.Fprintln(a.out, "Contact deleted.")
	return true, nil
}

func (a *app) search(kind, key string) error {
	k, err := addressbook.ParseIndexKind(kind)
	if err != nil {
		return err
	}

	var found []*types.Contact
	switch k {
	case addressbook.ByCity:
		found, err = a.catalog.SearchByCity(key)
	case addressbook.ByState:
		found, err = a.catalog.SearchByState(key)
	}
	if errors.Is(err, addressbook.ErrNoMatches) {
		fmt.Fprintf(a.out, "No contacts found in %s %q.\n", k, key)
		return nil
	}
	if err != nil {
		return err
	}

	for _, c := range found {
		fmt.Fprintln(a.out, c)
	}
	return nil
}

func (a *app) count(kind, key string) error {
	k, err := addressbook.ParseIndexKind(kind)
	if err != nil {
		return err
	}
	n, err := a.catalog.CountBy(k, key)
	if errors.Is(err, addressbook.ErrNoMatches) {
		fmt.Fprintf(a.out, "No contacts found in %s %q.\n", k, key)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d contact(s) in %s %q\n", n, k, key)
	return nil
}

func (a *app) export(format string) error {
	files := a.cfg.Files
	jobs := map[string]func() error{
		"csv":  func() error { return export.ToFile(files.CSV, a.catalog, export.CSV) },
		"json": func() error { return export.ToFile(files.JSON, a.catalog, export.JSON) },
		"yaml": func() error { return export.ToFile(files.YAML, a.catalog, export.YAML) },
		"xlsx": func() error { return export.XLSX(files.XLSX, a.catalog) },
	}

	formats := []string{format}
	if format == "all" {
		formats = []string{"csv", "json", "xlsx", "yaml"}
	}

	for _, f := range formats {
		job, ok := jobs[f]
		if !ok {
			return fmt.Errorf("%w: unknown export format %q", errUsage, f)
		}
		if err := job(); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Exported %s.\n", f)
	}
	return nil
}

func (a *app) importFile(format string, path []string) (bool, error) {
	var (
		read export.ImporterFunc
		src  string
	)
	switch format {
	case "csv":
		read, src = export.ImportCSV, a.cfg.Files.CSV
	case "json":
		read, src = export.ImportJSON, a.cfg.Files.JSON
	default:
		return false, fmt.Errorf("%w: unknown import format %q", errUsage, format)
	}
	if len(path) == 1 {
		src = path[0]
	}

	skipped, err := export.FromFile(src, a.catalog, read)
	if err != nil {
		return false, err
	}
	fmt.Fprintf(a.out, "Imported %s (%d duplicate(s) skipped).\n", src, skipped)
	return true, nil
}
