package player

import (
	"math/rand/v2"

	"github.com/peterkuimelis/tcgsim/internal/game"
)

// EndTurn passes whenever it may. During setup it places the first Basic it is
// offered, and it promotes the first benched Pokémon.
type EndTurn struct{}

func (EndTurn) ChooseAction(_ *game.View, actions []game.Action) (game.Action, error) {
	if a, ok := find(actions, game.ActionEndTurn); ok {
		return a, nil
	}
	return actions[0], nil
}

// AttachAttack powers up its active Pokémon and attacks with the strongest
// affordable attack. It fills the bench during setup and otherwise passes.
type AttachAttack struct {
	rng *rand.Rand
}

func NewAttachAttack(seed uint64) *AttachAttack {
	return &AttachAttack{rng: newRand(seed)}
}

func (s *AttachAttack) ChooseAction(view *game.View, actions []game.Action) (game.Action, error) {
	if view.Phase == game.PhaseSetup {
		if a, ok := find(actions, game.ActionPlayPokemon); ok {
			return a, nil
		}
		return actions[0], nil
	}
	if actions[0].Type == game.ActionPromote {
		return actions[s.rng.IntN(len(actions))], nil
	}

	for _, a := range actions {
		if a.Type == game.ActionAttachEnergy && a.Slot == 0 {
			return a, nil
		}
	}
	if a, ok := strongestAttack(view, actions); ok {
		return a, nil
	}
	if a, ok := find(actions, game.ActionEndTurn); ok {
		return a, nil
	}
	return actions[0], nil
}

// strongestAttack returns the legal attack with the highest printed damage.
func strongestAttack(view *game.View, actions []game.Action) (game.Action, bool) {
	active := view.Self.Active()
	best, found := game.Action{}, false
	bestDamage := -1
	for _, a := range actions {
		if a.Type != game.ActionAttack || active == nil {
			continue
		}
		if d := active.Card.Attacks[a.Attack].Damage; d > bestDamage {
			best, bestDamage, found = a, d, true
		}
	}
	return best, found
}
