package game

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// --- Enums ---

type EnergyType int

const (
	EnergyColorless EnergyType = iota
	EnergyGrass
	EnergyFire
	EnergyWater
	EnergyLightning
	EnergyPsychic
	EnergyFighting
	EnergyDarkness
	EnergyMetal
	EnergyDragon
)

var energyNames = [...]string{
	EnergyColorless: "Colorless",
	EnergyGrass:     "Grass",
	EnergyFire:      "Fire",
	EnergyWater:     "Water",
	EnergyLightning: "Lightning",
	EnergyPsychic:   "Psychic",
	EnergyFighting:  "Fighting",
	EnergyDarkness:  "Darkness",
	EnergyMetal:     "Metal",
	EnergyDragon:    "Dragon",
}

// EnergyTypes lists every energy type in declaration order.
func EnergyTypes() []EnergyType {
	types := make([]EnergyType, len(energyNames))
	for i := range energyNames {
		types[i] = EnergyType(i)
	}
	return types
}

func (e EnergyType) String() string {
	if e < 0 || int(e) >= len(energyNames) {
		return "Unknown"
	}
	return energyNames[e]
}

// ParseEnergyType resolves an energy name case-insensitively.
func ParseEnergyType(s string) (EnergyType, error) {
	for i, name := range energyNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return EnergyType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown energy type %q", s)
}

// Satisfies reports whether an attached energy of type e pays a cost symbol of type cost.
// Colorless in a cost is paid by anything; a typed cost only by the same type.
func (e EnergyType) Satisfies(cost EnergyType) bool {
	return cost == EnergyColorless || e == cost
}

func (e EnergyType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EnergyType) UnmarshalText(text []byte) error {
	v, err := ParseEnergyType(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func (e *EnergyType) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: energy type must be a scalar", node.Line)
	}
	v, err := ParseEnergyType(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*e = v
	return nil
}

type Category int

const (
	CategoryPokemon Category = iota
	CategoryTrainer
	CategoryEnergy
)

func (c Category) String() string {
	switch c {
	case CategoryPokemon:
		return "Pokemon"
	case CategoryTrainer:
		return "Trainer"
	case CategoryEnergy:
		return "Energy"
	default:
		return "Unknown"
	}
}

type TrainerKind int

const (
	TrainerItem TrainerKind = iota
	TrainerSupporter
	TrainerTool
)

func (k TrainerKind) String() string {
	switch k {
	case TrainerItem:
		return "Item"
	case TrainerSupporter:
		return "Supporter"
	case TrainerTool:
		return "Tool"
	default:
		return "Unknown"
	}
}

type Stage int

const (
	StageBasic Stage = iota
	Stage1
	Stage2
)

func (s Stage) String() string {
	switch s {
	case StageBasic:
		return "Basic"
	case Stage1:
		return "Stage 1"
	case Stage2:
		return "Stage 2"
	default:
		return "Unknown"
	}
}

type AbilityTrigger int

const (
	TriggerOncePerTurn AbilityTrigger = iota // activated by the owner during their action phase
	TriggerOnPlay                            // fires when the Pokémon enters play from hand
	TriggerPassive                           // applies while the Pokémon is in play
)

func (t AbilityTrigger) String() string {
	switch t {
	case TriggerOncePerTurn:
		return "once_per_turn"
	case TriggerOnPlay:
		return "on_play"
	case TriggerPassive:
		return "passive"
	default:
		return "unknown"
	}
}

// --- Card definition (static, from the catalog) ---

// Attack belongs to a Pokémon card.
type Attack struct {
	Name    string
	Cost    []EnergyType
	Damage  int
	Effects []Effect
	Text    string
}

func (a *Attack) String() string {
	return fmt.Sprintf("%s %v %d", a.Name, a.Cost, a.Damage)
}

// Ability belongs to a Pokémon card and is independent of its attacks.
type Ability struct {
	Name       string
	Trigger    AbilityTrigger
	ActiveOnly bool // usable only while the Pokémon is in the active slot
	Effects    []Effect
	Text       string
}

// Card is an immutable catalog entry. Decks and played cards share it by pointer.
type Card struct {
	ID          string
	Name        string
	Category    Category
	Description string

	// Pokémon fields
	HP          int
	Type        EnergyType
	Weakness    EnergyType // Colorless means no weakness
	RetreatCost int
	Stage       Stage
	EvolvesFrom string
	IsEx        bool
	Attacks     []Attack
	Ability     *Ability

	// Trainer fields
	TrainerKind TrainerKind
	Effects     []Effect
}

func (c *Card) String() string {
	return c.Name
}

// IsPokemon reports whether the card is a Pokémon.
func (c *Card) IsPokemon() bool {
	return c.Category == CategoryPokemon
}

// IsBasic reports whether the card is a Basic Pokémon.
func (c *Card) IsBasic() bool {
	return c.Category == CategoryPokemon && c.Stage == StageBasic
}

// IsTrainer reports whether the card is a Trainer.
func (c *Card) IsTrainer() bool {
	return c.Category == CategoryTrainer
}

// HasWeakness reports whether attacks of the given type hit this card for weakness.
func (c *Card) HasWeakness(t EnergyType) bool {
	return c.Weakness != EnergyColorless && c.Weakness == t
}
