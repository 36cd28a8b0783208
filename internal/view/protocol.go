// Package view holds the JSON shapes the MCP and web front ends send to clients.
package view

// StateView is the game state from one player's perspective.
type StateView struct {
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Turn       int        `json:"turn"`
	Phase      string     `json:"phase"`
	IsYourTurn bool       `json:"is_your_turn"`
	GoingFirst bool       `json:"going_first"`
}

// PlayerView shows one side of the board.
type PlayerView struct {
	Points       int            `json:"points"`
	HandCount    int            `json:"hand_count"`
	Hand         []string       `json:"hand,omitempty"` // card names (only for "you")
	DeckCount    int            `json:"deck_count"`
	DiscardCount int            `json:"discard_count"`
	Active       *PokemonView   `json:"active,omitempty"`
	Bench        []*PokemonView `json:"bench"` // nil entries are empty slots
	Concealed    bool           `json:"concealed,omitempty"`

	Energy          string `json:"energy,omitempty"` // this turn's generated energy
	EnergyAvailable bool   `json:"energy_available"`
	SupporterPlayed bool   `json:"supporter_played"`
	Retreated       bool   `json:"retreated"`
}

// PokemonView describes one Pokémon in play.
type PokemonView struct {
	Name     string   `json:"name"`
	ID       string   `json:"id"`
	Stage    string   `json:"stage"`
	HP       int      `json:"hp"`
	MaxHP    int      `json:"max_hp"`
	Energy   []string `json:"energy,omitempty"`
	Tool     string   `json:"tool,omitempty"`
	Status   []string `json:"status,omitempty"`
	IsEx     bool     `json:"is_ex,omitempty"`
	NewlyPut bool     `json:"played_this_turn,omitempty"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Desc  string `json:"desc"`
}

// EventView is a simplified game event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Details string `json:"details"`
}

// CardView describes a catalog card.
type CardView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Description string       `json:"description,omitempty"`
	HP          int          `json:"hp,omitempty"`
	Type        string       `json:"type,omitempty"`
	Weakness    string       `json:"weakness,omitempty"`
	RetreatCost int          `json:"retreat_cost,omitempty"`
	Stage       string       `json:"stage,omitempty"`
	EvolvesFrom string       `json:"evolves_from,omitempty"`
	IsEx        bool         `json:"is_ex,omitempty"`
	Attacks     []AttackView `json:"attacks,omitempty"`
	Ability     *AbilityView `json:"ability,omitempty"`
	TrainerKind string       `json:"trainer_kind,omitempty"`
}

type AttackView struct {
	Name   string   `json:"name"`
	Cost   []string `json:"cost"`
	Damage int      `json:"damage"`
	Text   string   `json:"text,omitempty"`
}

type AbilityView struct {
	Name    string `json:"name"`
	Trigger string `json:"trigger"`
	Text    string `json:"text,omitempty"`
}

// DeckView describes a deck and its card counts.
type DeckView struct {
	Number int            `json:"number"` // 1-based, as accepted by deck references
	Name   string         `json:"name"`
	Energy []string       `json:"energy"`
	Cards  []DeckCardView `json:"cards"`
}

type DeckCardView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}
