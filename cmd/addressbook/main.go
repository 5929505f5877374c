// main is the entry point of the addressbook command.
//
// STARTUP SEQUENCE:
//  1. Load .env (if present), then the configuration YAML file
//  2. Initialise the logger
//  3. Open the configured storage backend (text file or SQLite)
//  4. Load the stored catalog
//  5. Run one command against the catalog
//  6. Save the catalog back if the command changed it
//
// RUNNING:
//
//	go run ./cmd/addressbook --config=config/local.yaml books
//	go run ./cmd/addressbook --config=config/local.yaml add Friends < contact.txt
//	CONFIG_PATH=config/local.yaml go run ./cmd/addressbook export all
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/aanand-mishra/addressbook/internal/addressbook"
	"github.com/aanand-mishra/addressbook/internal/config"
	"github.com/aanand-mishra/addressbook/internal/storage"
	"github.com/aanand-mishra/addressbook/internal/storage/sqlite"
	"github.com/aanand-mishra/addressbook/internal/storage/textfile"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// A .env file is optional; its values feed cleanenv's env overrides.
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	args := flag.Args()
	if len(args) == 0 {
		usage(os.Stderr)
		os.Exit(2)
	}

	// ── 3. Open Storage ───────────────────────────────────────────────────
	// The rest of the program only sees the storage.Storage interface.
	store, closeStore, err := openStorage(cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	// ── 4. Load Catalog ───────────────────────────────────────────────────
	catalog := addressbook.NewCatalog()
	if err := store.LoadCatalog(catalog); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Error("failed to load address books", slog.String("error", err.Error()))
			closeStore()
			os.Exit(1)
		}
		log.Info("no stored address books yet, starting empty")
	}

	// ── 5. Run Command ────────────────────────────────────────────────────
	a := &app{catalog: catalog, cfg: cfg, in: os.Stdin, out: os.Stdout}
	changed, err := a.run(args)
	if err != nil {
		log.Error("command failed",
			slog.String("command", args[0]),
			slog.String("error", err.Error()))
		closeStore()
		os.Exit(1)
	}

	// ── 6. Save ───────────────────────────────────────────────────────────
	if changed {
		if err := store.SaveCatalog(catalog); err != nil {
			log.Error("failed to save address books", slog.String("error", err.Error()))
			closeStore()
			os.Exit(1)
		}
		log.Debug("address books saved", slog.String("backend", cfg.Storage.Backend))
	}
}

// openStorage returns the configured backend and a function releasing it.
func openStorage(cfg *config.Config) (storage.Storage, func(), error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		db, err := sqlite.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("storage initialised",
			slog.String("backend", "sqlite"),
			slog.String("path", cfg.Storage.Path))
		return db, func() { db.Close() }, nil
	default:
		slog.Info("storage initialised",
			slog.String("backend", "text"),
			slog.String("path", cfg.Files.Text))
		return textfile.New(cfg.Files.Text), func() {}, nil
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
//
// Logs go to stderr so command output on stdout stays clean.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: addressbook [--config=path] <command> [args]

commands:
  books                                  list address books
  new-book <name>                        create an address book
  show <book>                            list contacts in a book
  add <book>                             add a contact (fields read from stdin)
  edit <book> <first> <last> <field> <value>
  delete <book> <first> [last]           delete the first matching contact
  sort <book> <name|city|state|zip>      reorder a book
  search <city|state> <key>              list indexed contacts
  count <city|state> <key>               count indexed contacts
  export <csv|json|xlsx|yaml|all>        write exports to the configured paths
  import <csv|json> [path]               merge an export back in
`)
}
