package player

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/peterkuimelis/tcgsim/internal/game"
)

const (
	DefaultLookaheadDepth = 3
	lookaheadWidth        = 3
)

// Lookahead searches sequences of its own actions up to a fixed depth inside a
// sandbox and plays the first action of the best sequence. A sequence stops
// early when the decision passes to the opponent. Below the root only the
// most promising few actions by one-ply evaluation are expanded.
type Lookahead struct {
	rng   *rand.Rand
	depth int
}

func NewLookahead(seed uint64, depth int) *Lookahead {
	return &Lookahead{rng: newRand(seed), depth: max(1, depth)}
}

func (l *Lookahead) ChooseAction(view *game.View, actions []game.Action) (game.Action, error) {
	if len(actions) == 1 {
		return actions[0], nil
	}
	sandbox := view.Sandbox(l.rng)
	r := game.NewResolverRand(l.rng)
	scores := make([]float64, len(actions))
	for i, a := range actions {
		next := sandbox.Clone()
		if err := r.Apply(next, a); err != nil {
			scores[i] = -WinScore
			continue
		}
		scores[i] = l.search(r, next, view.Me, view.Turn, l.depth-1)
	}
	return actions[argmax(scores)], nil
}

func (l *Lookahead) search(r *game.Resolver, s *game.State, me, turn, depth int) float64 {
	actor, actions := game.LegalActions(s)
	if depth == 0 || actor != me || s.Turn != turn || len(actions) == 0 {
		return Evaluate(s, me)
	}

	type child struct {
		state *game.State
		score float64
	}
	children := make([]child, 0, len(actions))
	for _, a := range actions {
		next := s.Clone()
		if err := r.Apply(next, a); err != nil {
			continue
		}
		children = append(children, child{state: next, score: Evaluate(next, me)})
	}
	if len(children) == 0 {
		return Evaluate(s, me)
	}
	slices.SortStableFunc(children, func(a, b child) int {
		return cmp.Compare(b.score, a.score)
	})

	best := math.Inf(-1)
	for _, c := range children[:min(lookaheadWidth, len(children))] {
		best = max(best, l.search(r, c.state, me, turn, depth-1))
	}
	return best
}
