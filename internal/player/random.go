package player

import (
	"math/rand/v2"

	"github.com/peterkuimelis/tcgsim/internal/game"
)

// Random picks uniformly among the legal actions.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: newRand(seed)}
}

func (r *Random) ChooseAction(_ *game.View, actions []game.Action) (game.Action, error) {
	return actions[r.rng.IntN(len(actions))], nil
}

// Weights maps action types to relative selection weights. Types not listed weigh 1.
type Weights map[game.ActionType]int

// DefaultWeights favours progress over passing.
func DefaultWeights() Weights {
	return Weights{
		game.ActionPlayPokemon:  3,
		game.ActionEvolve:       5,
		game.ActionPlayTrainer:  2,
		game.ActionAttachEnergy: 4,
		game.ActionAttack:       8,
		game.ActionUseAbility:   3,
		game.ActionRetreat:      1,
		game.ActionEndTurn:      1,
	}
}

// WeightedRandom picks randomly with per-type weights. A weight of 0 excludes a
// type unless nothing else is legal.
type WeightedRandom struct {
	rng     *rand.Rand
	weights Weights
}

func NewWeightedRandom(seed uint64, w Weights) *WeightedRandom {
	return &WeightedRandom{rng: newRand(seed), weights: w}
}

func (w *WeightedRandom) ChooseAction(_ *game.View, actions []game.Action) (game.Action, error) {
	total := 0
	for _, a := range actions {
		total += w.weight(a.Type)
	}
	if total == 0 {
		return actions[w.rng.IntN(len(actions))], nil
	}
	n := w.rng.IntN(total)
	for _, a := range actions {
		n -= w.weight(a.Type)
		if n < 0 {
			return a, nil
		}
	}
	return actions[len(actions)-1], nil
}

func (w *WeightedRandom) weight(t game.ActionType) int {
	if v, ok := w.weights[t]; ok {
		return max(0, v)
	}
	return 1
}
