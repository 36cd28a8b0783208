package game

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/decks.yaml
var builtinDecks []byte

// Deck is a validated, ordered list of catalog cards plus the energy types its
// energy zone can generate. The last element is the top of the deck.
// A Deck is never mutated after BuildDeck; games copy it into their State.
type Deck struct {
	Name        string
	Cards       []*Card
	EnergyTypes []EnergyType
}

// BuildDeck validates cards against the ruleset. Every violated constraint is
// reported in a single *InvalidDeckError.
func BuildDeck(name string, cards []*Card, energy []EnergyType, rules Ruleset) (*Deck, error) {
	var violations []string

	if len(cards) != rules.DeckSize {
		violations = append(violations, fmt.Sprintf("deck has %d cards, need exactly %d", len(cards), rules.DeckSize))
	}

	copies := make(map[string]int)
	var order []string
	basics := 0
	for i, c := range cards {
		if c == nil {
			violations = append(violations, fmt.Sprintf("card %d is nil", i))
			continue
		}
		if copies[c.Name] == 0 {
			order = append(order, c.Name)
		}
		copies[c.Name]++
		if c.Category == CategoryEnergy {
			violations = append(violations, fmt.Sprintf("%s: energy cards are supplied by the energy zone, not the deck", c.Name))
		}
		if c.IsBasic() {
			basics++
		}
	}
	for _, n := range order {
		if copies[n] > rules.MaxCopies {
			violations = append(violations, fmt.Sprintf("%d copies of %s, limit is %d", copies[n], n, rules.MaxCopies))
		}
	}
	if basics == 0 {
		violations = append(violations, "deck has no Basic Pokémon")
	}

	switch {
	case len(energy) == 0:
		violations = append(violations, "deck has no energy types")
	case len(energy) > rules.MaxEnergyTypes:
		violations = append(violations, fmt.Sprintf("deck has %d energy types, limit is %d", len(energy), rules.MaxEnergyTypes))
	}
	seen := make(map[EnergyType]bool)
	for _, e := range energy {
		if e == EnergyColorless {
			violations = append(violations, "Colorless is not a generatable energy type")
		}
		if seen[e] {
			violations = append(violations, fmt.Sprintf("energy type %s listed twice", e))
		}
		seen[e] = true
	}

	if len(violations) > 0 {
		return nil, &InvalidDeckError{Deck: name, Violations: violations}
	}
	return &Deck{
		Name:        name,
		Cards:       append([]*Card(nil), cards...),
		EnergyTypes: append([]EnergyType(nil), energy...),
	}, nil
}

// Shuffle returns a copy of the deck in an order determined only by seed.
func (d *Deck) Shuffle(seed uint64) *Deck {
	out := &Deck{
		Name:        d.Name,
		Cards:       append([]*Card(nil), d.Cards...),
		EnergyTypes: d.EnergyTypes,
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(out.Cards), func(i, j int) {
		out.Cards[i], out.Cards[j] = out.Cards[j], out.Cards[i]
	})
	return out
}

// Len returns the number of cards in the deck.
func (d *Deck) Len() int {
	return len(d.Cards)
}

// Counts returns copies per card id, for display.
func (d *Deck) Counts() map[string]int {
	m := make(map[string]int)
	for _, c := range d.Cards {
		m[c.ID]++
	}
	return m
}

// --- Deck files ---

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name   string       `yaml:"name"`
	Energy []EnergyType `yaml:"energy"`
	Cards  []CardEntry  `yaml:"cards"`
}

// CardEntry represents a card id and its count in a deck.
type CardEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// ParseDeckFile reads a YAML deck file and builds every deck in it.
func ParseDeckFile(path string, cat *Catalog, rules Ruleset) ([]*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDecks(data, cat, rules)
}

// ParseDecks builds every deck in YAML deck-file data.
func ParseDecks(data []byte, cat *Catalog, rules Ruleset) ([]*Deck, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}

	decks := make([]*Deck, 0, len(df.Decks))
	for _, entry := range df.Decks {
		var cards []*Card
		for _, ce := range entry.Cards {
			card, err := cat.Lookup(ce.ID)
			if err != nil {
				return nil, fmt.Errorf("deck %q: %w", entry.Name, err)
			}
			for i := 0; i < ce.Count; i++ {
				cards = append(cards, card)
			}
		}
		deck, err := BuildDeck(entry.Name, cards, entry.Energy, rules)
		if err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}
	return decks, nil
}

// DefaultDecks builds the built-in starter decks against the built-in catalog.
func DefaultDecks(rules Ruleset) ([]*Deck, error) {
	cat, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return ParseDecks(builtinDecks, cat, rules)
}

// DeckByNumber returns the Nth deck (1-indexed).
func DeckByNumber(decks []*Deck, n int) (*Deck, error) {
	if n < 1 || n > len(decks) {
		return nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(decks))
	}
	return decks[n-1], nil
}

// DeckByName returns the deck with the given name.
func DeckByName(decks []*Deck, name string) (*Deck, error) {
	for _, d := range decks {
		if d.Name == name {
			return d, nil
		}
	}
	names := make([]string, len(decks))
	for i, d := range decks {
		names[i] = d.Name
	}
	sort.Strings(names)
	return nil, fmt.Errorf("deck %q not found (have %v)", name, names)
}
