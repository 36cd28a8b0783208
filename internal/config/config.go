// Package config loads process defaults from the environment and the card data
// every entry point needs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"

	"github.com/peterkuimelis/tcgsim/internal/game"
)

// Defaults are the environment-provided defaults. Command-line flags override them.
type Defaults struct {
	Games       int           `env:"TCGSIM_GAMES" envDefault:"1000"`
	Seed        uint64        `env:"TCGSIM_SEED" envDefault:"42"`
	Parallelism int           `env:"TCGSIM_PARALLELISM" envDefault:"0"`
	Timeout     time.Duration `env:"TCGSIM_TIMEOUT" envDefault:"0s"`
	Decks       string        `env:"TCGSIM_DECKS"`
	Catalog     string        `env:"TCGSIM_CATALOG"`
	Port        int           `env:"TCGSIM_PORT" envDefault:"8080"`
	Lang        string        `env:"TCGSIM_LANG" envDefault:"en"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the environment defaults.
func Load() (Defaults, error) {
	var d Defaults
	err := ParseEnv(&d)
	return d, err
}

// Language parses a BCP 47 tag, falling back to English.
func Language(value string) language.Tag {
	tag, err := language.Parse(value)
	if err != nil {
		return language.English
	}
	return tag
}

// Data is the card catalog and the decks built from it.
type Data struct {
	Catalog *game.Catalog
	Decks   []*game.Deck
	Rules   game.Ruleset
}

// LoadData reads the catalog and deck files. An empty path selects the built-in data.
func LoadData(catalogPath, decksPath string) (*Data, error) {
	rules := game.DefaultRuleset()
	cat, err := game.DefaultCatalog()
	if catalogPath != "" {
		cat, err = game.LoadCatalogFile(catalogPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	var decks []*game.Deck
	switch {
	case decksPath != "":
		decks, err = game.ParseDeckFile(decksPath, cat, rules)
	case catalogPath != "":
		return nil, errors.New("a custom catalog needs a deck file")
	default:
		decks, err = game.DefaultDecks(rules)
	}
	if err != nil {
		return nil, fmt.Errorf("load decks: %w", err)
	}
	if len(decks) == 0 {
		return nil, fmt.Errorf("load decks: no decks in %s", decksPath)
	}
	return &Data{Catalog: cat, Decks: decks, Rules: rules}, nil
}

// Deck finds a deck by name, or by 1-based number when ref is numeric.
func (d *Data) Deck(ref string) (*game.Deck, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		return game.DeckByNumber(d.Decks, n)
	}
	return game.DeckByName(d.Decks, ref)
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
