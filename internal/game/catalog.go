package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var builtinCatalog []byte

// Catalog is an immutable set of card definitions keyed by id.
type Catalog struct {
	cards map[string]*Card
	ids   []string // sorted
}

// catalogFile is the top-level YAML structure of a catalog file.
type catalogFile struct {
	Cards []cardEntry `yaml:"cards"`
}

type cardEntry struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Category    string        `yaml:"category"`
	Text        string        `yaml:"text"`
	HP          int           `yaml:"hp"`
	Type        EnergyType    `yaml:"type"`
	Weakness    EnergyType    `yaml:"weakness"`
	Retreat     int           `yaml:"retreat"`
	Stage       int           `yaml:"stage"`
	EvolvesFrom string        `yaml:"evolves_from"`
	Ex          bool          `yaml:"ex"`
	Attacks     []attackEntry `yaml:"attacks"`
	Ability     *abilityEntry `yaml:"ability"`
	Trainer     string        `yaml:"trainer"`
	Effects     []effectEntry `yaml:"effects"`
}

type attackEntry struct {
	Name    string        `yaml:"name"`
	Cost    []EnergyType  `yaml:"cost"`
	Damage  int           `yaml:"damage"`
	Effects []effectEntry `yaml:"effects"`
	Text    string        `yaml:"text"`
}

type abilityEntry struct {
	Name       string        `yaml:"name"`
	Trigger    string        `yaml:"trigger"`
	ActiveOnly bool          `yaml:"active_only"`
	Effects    []effectEntry `yaml:"effects"`
	Text       string        `yaml:"text"`
}

type effectEntry struct {
	ID       string     `yaml:"id"`
	Amount   int        `yaml:"amount"`
	Count    int        `yaml:"count"`
	Energy   EnergyType `yaml:"energy"`
	Duration int        `yaml:"duration"`
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return LoadCatalog(builtinCatalog)
})

// DefaultCatalog returns the built-in card set. It is parsed once per process.
func DefaultCatalog() (*Catalog, error) {
	return defaultCatalog()
}

// LoadCatalogFile reads a catalog from a YAML file.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadCatalog(data)
}

// LoadCatalog parses YAML catalog data. Any unknown effect id, energy type,
// category or evolution reference fails the whole load with a *CatalogError.
func LoadCatalog(data []byte) (*Catalog, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, &CatalogError{Reason: fmt.Sprintf("parse YAML: %v", err)}
	}
	if len(cf.Cards) == 0 {
		return nil, &CatalogError{Reason: "no cards defined"}
	}

	cat := &Catalog{cards: make(map[string]*Card, len(cf.Cards))}
	names := make(map[string]*Card)
	for _, entry := range cf.Cards {
		card, err := entry.build()
		if err != nil {
			return nil, err
		}
		if _, dup := cat.cards[card.ID]; dup {
			return nil, &CatalogError{Card: card.ID, Reason: "duplicate card id"}
		}
		cat.cards[card.ID] = card
		cat.ids = append(cat.ids, card.ID)
		if card.IsPokemon() {
			names[card.Name] = card
		}
	}

	for _, id := range cat.ids {
		card := cat.cards[id]
		if !card.IsPokemon() || card.Stage == StageBasic {
			continue
		}
		prev, ok := names[card.EvolvesFrom]
		if !ok {
			return nil, &CatalogError{Card: id, Ref: card.EvolvesFrom, Reason: "evolves from unknown Pokémon"}
		}
		if prev.Stage != card.Stage-1 {
			return nil, &CatalogError{Card: id, Ref: card.EvolvesFrom, Reason: "evolves from wrong stage"}
		}
	}

	sort.Strings(cat.ids)
	return cat, nil
}

func (e cardEntry) build() (*Card, error) {
	if e.ID == "" {
		return nil, &CatalogError{Ref: e.Name, Reason: "card without id"}
	}
	card := &Card{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Text,
	}
	if card.Name == "" {
		card.Name = e.ID
	}

	switch strings.ToLower(e.Category) {
	case "pokemon":
		card.Category = CategoryPokemon
		if e.HP <= 0 {
			return nil, &CatalogError{Card: e.ID, Reason: "Pokémon needs positive hp"}
		}
		if e.Stage < 0 || e.Stage > int(Stage2) {
			return nil, &CatalogError{Card: e.ID, Reason: fmt.Sprintf("stage %d out of range", e.Stage)}
		}
		if e.Stage > 0 && e.EvolvesFrom == "" {
			return nil, &CatalogError{Card: e.ID, Reason: "evolution without evolves_from"}
		}
		card.HP = e.HP
		card.Type = e.Type
		card.Weakness = e.Weakness
		card.RetreatCost = e.Retreat
		card.Stage = Stage(e.Stage)
		card.EvolvesFrom = e.EvolvesFrom
		card.IsEx = e.Ex
		for _, ae := range e.Attacks {
			atk, err := ae.build(e.ID)
			if err != nil {
				return nil, err
			}
			card.Attacks = append(card.Attacks, atk)
		}
		if e.Ability != nil {
			ab, err := e.Ability.build(e.ID)
			if err != nil {
				return nil, err
			}
			card.Ability = ab
		}
	case "trainer":
		card.Category = CategoryTrainer
		allowed := trainerEffects
		switch strings.ToLower(e.Trainer) {
		case "item":
			card.TrainerKind = TrainerItem
		case "supporter":
			card.TrainerKind = TrainerSupporter
		case "tool":
			card.TrainerKind = TrainerTool
			allowed = toolEffects
		default:
			return nil, &CatalogError{Card: e.ID, Ref: e.Trainer, Reason: "unknown trainer kind"}
		}
		effects, err := buildEffects(e.ID, e.Effects, allowed)
		if err != nil {
			return nil, err
		}
		card.Effects = effects
	case "energy":
		card.Category = CategoryEnergy
		card.Type = e.Type
	default:
		return nil, &CatalogError{Card: e.ID, Ref: e.Category, Reason: "unknown category"}
	}
	return card, nil
}

func (e attackEntry) build(cardID string) (Attack, error) {
	effects, err := buildEffects(cardID, e.Effects, attackEffects)
	if err != nil {
		return Attack{}, err
	}
	return Attack{
		Name:    e.Name,
		Cost:    e.Cost,
		Damage:  e.Damage,
		Effects: effects,
		Text:    e.Text,
	}, nil
}

func (e *abilityEntry) build(cardID string) (*Ability, error) {
	ab := &Ability{Name: e.Name, ActiveOnly: e.ActiveOnly, Text: e.Text}
	allowed := activatedEffects
	switch e.Trigger {
	case "once_per_turn", "":
		ab.Trigger = TriggerOncePerTurn
	case "on_play":
		ab.Trigger = TriggerOnPlay
		allowed = onPlayEffects
	case "passive":
		ab.Trigger = TriggerPassive
		allowed = passiveEffects
	default:
		return nil, &CatalogError{Card: cardID, Ref: e.Trigger, Reason: "unknown ability trigger"}
	}
	effects, err := buildEffects(cardID, e.Effects, allowed)
	if err != nil {
		return nil, err
	}
	ab.Effects = effects
	return ab, nil
}

// buildEffects resolves effect ids and rejects effects that cannot appear in this position.
// At most one effect per list may require a target choice.
func buildEffects(cardID string, entries []effectEntry, allowed map[EffectKind]bool) ([]Effect, error) {
	var effects []Effect
	targeted := 0
	for _, ee := range entries {
		kind, ok := ParseEffectKind(ee.ID)
		if !ok {
			return nil, &CatalogError{Card: cardID, Ref: ee.ID, Reason: "unknown effect"}
		}
		if !allowed[kind] {
			return nil, &CatalogError{Card: cardID, Ref: ee.ID, Reason: "effect not allowed here"}
		}
		if kind.targeting() != targetNone {
			targeted++
		}
		effects = append(effects, Effect{
			Kind:     kind,
			Amount:   ee.Amount,
			Count:    ee.Count,
			Energy:   ee.Energy,
			Duration: ee.Duration,
		})
	}
	if targeted > 1 {
		return nil, &CatalogError{Card: cardID, Reason: "more than one targeted effect"}
	}
	return effects, nil
}

// Lookup returns the card with the given id.
func (c *Catalog) Lookup(id string) (*Card, error) {
	card, ok := c.cards[id]
	if !ok {
		return nil, &CatalogError{Card: id, Reason: "unknown card"}
	}
	return card, nil
}

// MustLookup is Lookup for tests and static tables; it panics on unknown ids.
func (c *Catalog) MustLookup(id string) *Card {
	card, err := c.Lookup(id)
	if err != nil {
		panic(err)
	}
	return card
}

// Cards returns every card sorted by id.
func (c *Catalog) Cards() []*Card {
	cards := make([]*Card, len(c.ids))
	for i, id := range c.ids {
		cards[i] = c.cards[id]
	}
	return cards
}

// Len returns the number of cards in the catalog.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// IsCatalogError reports whether err is or wraps a *CatalogError.
func IsCatalogError(err error) bool {
	var ce *CatalogError
	return errors.As(err, &ce)
}
