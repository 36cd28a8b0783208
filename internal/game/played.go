package game

import "fmt"

// TimedEffect is an effect attached to a PlayedCard for a bounded number of turn ends.
// Duration 0 expires at the end of the current turn, 1 at the end of the opponent's
// next turn, 2 at the end of the owner's next turn.
type TimedEffect struct {
	Effect   Effect
	Duration int
	Source   string
}

// PlayedCard is a card in an in-play slot together with everything that happened to it.
type PlayedCard struct {
	Card   *Card
	Behind []*Card // pre-evolutions, bottom first
	Tool   *Card

	Damage int
	Energy []EnergyType // in attachment order

	Poisoned  bool
	Asleep    bool
	Paralyzed bool

	PlayedThisTurn bool
	AbilityUsed    bool

	Effects []TimedEffect
}

// NewPlayedCard wraps a card entering play from hand.
func NewPlayedCard(c *Card) *PlayedCard {
	return &PlayedCard{Card: c, PlayedThisTurn: true}
}

func (pc *PlayedCard) String() string {
	return fmt.Sprintf("%s (%d/%d HP, %d energy)", pc.Card.Name, pc.RemainingHP(), pc.MaxHP(), len(pc.Energy))
}

// MaxHP is the printed HP plus any tool bonus.
func (pc *PlayedCard) MaxHP() int {
	hp := pc.Card.HP
	if pc.Tool != nil {
		for _, e := range pc.Tool.Effects {
			if e.Kind == EffectHPBonus {
				hp += e.Amount
			}
		}
	}
	return hp
}

// RemainingHP never goes below zero.
func (pc *PlayedCard) RemainingHP() int {
	return max(0, pc.MaxHP()-pc.Damage)
}

// IsKnockedOut reports whether accumulated damage reached max HP.
func (pc *PlayedCard) IsKnockedOut() bool {
	return pc.Damage >= pc.MaxHP()
}

// IsDamaged reports whether the card has any damage on it.
func (pc *PlayedCard) IsDamaged() bool {
	return pc.Damage > 0
}

// HasStatus reports whether any special condition is present.
func (pc *PlayedCard) HasStatus() bool {
	return pc.Poisoned || pc.Asleep || pc.Paralyzed
}

// Heal removes up to amount damage and returns how much was healed.
func (pc *PlayedCard) Heal(amount int) int {
	healed := min(amount, pc.Damage)
	pc.Damage -= healed
	return healed
}

// EnergyOf counts attached energy of type t; Colorless counts everything.
func (pc *PlayedCard) EnergyOf(t EnergyType) int {
	if t == EnergyColorless {
		return len(pc.Energy)
	}
	n := 0
	for _, e := range pc.Energy {
		if e == t {
			n++
		}
	}
	return n
}

// discardEnergy removes up to n energy matching t, newest first, and returns how many went.
func (pc *PlayedCard) discardEnergy(t EnergyType, n int) int {
	removed := 0
	for i := len(pc.Energy) - 1; i >= 0 && removed < n; i-- {
		if t == EnergyColorless || pc.Energy[i] == t {
			pc.Energy = append(pc.Energy[:i], pc.Energy[i+1:]...)
			removed++
		}
	}
	return removed
}

// HasEffect reports whether a timed effect of the given kind is active.
func (pc *PlayedCard) HasEffect(k EffectKind) bool {
	for _, te := range pc.Effects {
		if te.Effect.Kind == k {
			return true
		}
	}
	return false
}

// CanAttack reports whether conditions or effects prevent this card from attacking.
func (pc *PlayedCard) CanAttack() bool {
	return !pc.Asleep && !pc.Paralyzed && !pc.HasEffect(EffectCannotAttackNextTurn)
}

// CanRetreat reports whether conditions prevent this card from retreating.
func (pc *PlayedCard) CanRetreat() bool {
	return !pc.Asleep && !pc.Paralyzed
}

// clearActiveOnly drops everything that does not survive leaving the active slot.
func (pc *PlayedCard) clearActiveOnly() {
	pc.Poisoned = false
	pc.Asleep = false
	pc.Paralyzed = false
	pc.Effects = nil
}

// endOfTurn expires timed effects and clears per-turn flags.
func (pc *PlayedCard) endOfTurn() {
	kept := pc.Effects[:0]
	for _, te := range pc.Effects {
		if te.Duration > 0 {
			te.Duration--
			kept = append(kept, te)
		}
	}
	pc.Effects = kept
	pc.PlayedThisTurn = false
	pc.AbilityUsed = false
}

// cards returns every catalog card this PlayedCard holds, for discarding.
func (pc *PlayedCard) cards() []*Card {
	out := make([]*Card, 0, len(pc.Behind)+2)
	out = append(out, pc.Behind...)
	out = append(out, pc.Card)
	if pc.Tool != nil {
		out = append(out, pc.Tool)
	}
	return out
}

// CardCount is the number of catalog cards held, including pre-evolutions and the tool.
func (pc *PlayedCard) CardCount() int {
	n := 1 + len(pc.Behind)
	if pc.Tool != nil {
		n++
	}
	return n
}

// Clone returns a deep copy. Catalog cards stay shared.
func (pc *PlayedCard) Clone() *PlayedCard {
	if pc == nil {
		return nil
	}
	c := *pc
	c.Behind = append([]*Card(nil), pc.Behind...)
	c.Energy = append([]EnergyType(nil), pc.Energy...)
	c.Effects = append([]TimedEffect(nil), pc.Effects...)
	return &c
}
