// Package config handles loading and parsing application configuration.
// The config file path comes from (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every value can also be overridden by the environment variable named in
// its env:"..." tag. The parsed values are returned as a *Config pointer so
// the struct is shared by reference rather than copied everywhere.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/aanand-mishra/addressbook/internal/types"
)

// Config is the root configuration structure.
//
// env-default supplies the value when neither the YAML file nor the
// environment sets it. validate:"..." rules are checked after loading so a
// typo such as backend: "sqllite" stops the program at startup.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true" validate:"oneof=dev staging prod"`

	// Storage selects where the catalog lives between runs.
	Storage Storage `yaml:"storage"`

	// Files holds the paths of the text store and the export targets.
	Files Files `yaml:"files"`
}

// Storage holds the persistence backend settings.
type Storage struct {
	// Backend is "text" (the line-oriented contact_details.txt format)
	// or "sqlite".
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"text" validate:"oneof=text sqlite"`

	// Path is the SQLite database file, used when Backend is "sqlite".
	Path string `yaml:"sqlite_path" env:"STORAGE_PATH" env-default:"files/contacts.db" validate:"required"`
}

// Files holds file locations. Parent directories are created on write.
type Files struct {
	Text string `yaml:"text" env:"FILES_TEXT" env-default:"files/contact_details.txt" validate:"required"`
	CSV  string `yaml:"csv"  env:"FILES_CSV"  env-default:"files/contacts.csv"        validate:"required"`
	JSON string `yaml:"json" env:"FILES_JSON" env-default:"files/contacts.json"       validate:"required"`
	XLSX string `yaml:"xlsx" env:"FILES_XLSX" env-default:"files/contacts.xlsx"       validate:"required"`
	YAML string `yaml:"yaml" env:"FILES_YAML" env-default:"files/contacts.yaml"       validate:"required"`
}

// Load reads the YAML file at path, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	// cleanenv.ReadConfig parses the YAML file, then reads every env:"..."
	// tagged field from the environment and fills env-default values.
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	// types.Validate runs go-playground/validator and reports failures by
	// YAML key, e.g. "field backend must be one of [text sqlite]".
	if err := types.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad resolves the config path from CONFIG_PATH or --config, then
// loads it. Functions prefixed with "Must" may exit on failure: if this
// returns, the config is valid.
func MustLoad() *Config {
	// The flag is always registered and parsed so the remaining
	// command-line arguments are available through flag.Args().
	flags := flag.String("config", "", "Path to the configuration YAML file")
	if !flag.Parsed() {
		flag.Parse()
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}
