package game

// Ruleset holds every tunable constant of the game. The zero value is not usable; start from DefaultRuleset.
type Ruleset struct {
	DeckSize       int `json:"deck_size"`
	MaxCopies      int `json:"max_copies"` // per card name
	MaxEnergyTypes int `json:"max_energy_types"`
	OpeningHand    int `json:"opening_hand"`
	MaxMulligans   int `json:"max_mulligans"` // redraws before the game is aborted
	BenchSize      int `json:"bench_size"`
	PointsToWin    int `json:"points_to_win"`
	KnockoutPoints int `json:"knockout_points"`
	ExPoints       int `json:"ex_points"`
	EnergyPerTurn  int `json:"energy_per_turn"`
	WeaknessBonus  int `json:"weakness_bonus"`
	PoisonDamage   int `json:"poison_damage"`
	MaxTurns       int `json:"max_turns"`
}

func DefaultRuleset() Ruleset {
	return Ruleset{
		DeckSize:       20,
		MaxCopies:      2,
		MaxEnergyTypes: 3,
		OpeningHand:    5,
		MaxMulligans:   50,
		BenchSize:      3,
		PointsToWin:    3,
		KnockoutPoints: 1,
		ExPoints:       2,
		EnergyPerTurn:  1,
		WeaknessBonus:  20,
		PoisonDamage:   10,
		MaxTurns:       100,
	}
}

// KnockoutValue returns the points awarded for knocking out the given Pokémon.
func (r Ruleset) KnockoutValue(c *Card) int {
	if c.IsEx {
		return r.ExPoints
	}
	return r.KnockoutPoints
}

// Slots is the number of in-play slots per player: one active plus the bench.
func (r Ruleset) Slots() int {
	return 1 + r.BenchSize
}
