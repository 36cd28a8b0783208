package player

import (
	"math/rand/v2"

	"github.com/peterkuimelis/tcgsim/internal/game"
)

// WinScore dominates every non-terminal evaluation.
const WinScore = 1e6

// Evaluate scores a state from player me's side: points first, then the board
// each side has in play, then cards in hand.
func Evaluate(s *game.State, me int) float64 {
	if s.Outcome != nil {
		w, ok := s.Outcome.Winner()
		switch {
		case !ok:
			return 0
		case w == me:
			return WinScore
		default:
			return -WinScore
		}
	}
	return sideValue(s, me) - sideValue(s, game.Opponent(me))
}

func sideValue(s *game.State, p int) float64 {
	ps := s.Players[p]
	v := 1000 * float64(ps.Points)
	for slot, pc := range ps.InPlay {
		if pc == nil {
			continue
		}
		w := 1.0
		if slot == 0 {
			w = 1.5
		}
		pv := float64(pc.RemainingHP()) + 20*float64(len(pc.Energy)) + 30*float64(pc.Card.Stage)
		if pc.Tool != nil {
			pv += 10
		}
		if pc.HasStatus() {
			pv -= 20
		}
		v += w * pv
	}
	v += 5 * float64(len(ps.Hand))
	return v
}

// Value tries every legal action once in a sandbox and keeps the one with the
// best evaluation, averaged over a few samples of coin flips and hidden cards.
type Value struct {
	rng     *rand.Rand
	samples int
}

func NewValue(seed uint64) *Value {
	return &Value{rng: newRand(seed), samples: 3}
}

func (v *Value) ChooseAction(view *game.View, actions []game.Action) (game.Action, error) {
	if len(actions) == 1 {
		return actions[0], nil
	}
	r := game.NewResolverRand(v.rng)
	totals := make([]float64, len(actions))
	for i := 0; i < v.samples; i++ {
		sandbox := view.Sandbox(v.rng)
		for j, a := range actions {
			totals[j] += applyAndEvaluate(r, sandbox, a, view.Me)
		}
	}
	return actions[argmax(totals)], nil
}

// applyAndEvaluate plays a on a copy of s. A failed action scores as a loss so
// it is never preferred.
func applyAndEvaluate(r *game.Resolver, s *game.State, a game.Action, me int) float64 {
	next := s.Clone()
	if err := r.Apply(next, a); err != nil {
		return -WinScore
	}
	return Evaluate(next, me)
}

// argmax returns the first index of the largest value.
func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}
