// Package player holds the automated strategies and the registry that names them.
package player

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/peterkuimelis/tcgsim/internal/game"
)

// Factory builds a fresh strategy for one game. A strategy is used by a single
// game and is not safe for concurrent use.
type Factory func(seed uint64) game.Strategy

// Info describes a registered strategy.
type Info struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type entry struct {
	info    Info
	factory Factory
}

var (
	mu       sync.RWMutex
	registry = make(map[string]entry)
)

// UnknownTypeError is returned by New for an id that was never registered.
type UnknownTypeError struct {
	ID string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown player type %q (have %v)", e.ID, Types())
}

// Register adds a strategy under id, replacing any earlier registration.
func Register(id, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[id] = entry{info: Info{ID: id, Description: description}, factory: f}
}

// Types returns every registered id in sorted order.
func Types() []string {
	mu.RLock()
	defer mu.RUnlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Describe returns id and description of every registered strategy, sorted by id.
func Describe() []Info {
	mu.RLock()
	defer mu.RUnlock()
	infos := make([]Info, 0, len(registry))
	for _, e := range registry {
		infos = append(infos, e.info)
	}
	slices.SortFunc(infos, func(a, b Info) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return infos
}

// Known reports whether id is registered.
func Known(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[id]
	return ok
}

// New builds the strategy registered under id.
func New(id string, seed uint64) (game.Strategy, error) {
	mu.RLock()
	e, ok := registry[id]
	mu.RUnlock()
	if !ok {
		return nil, &UnknownTypeError{ID: id}
	}
	return e.factory(seed), nil
}

func init() {
	Register("random", "uniform choice over the legal actions", func(seed uint64) game.Strategy {
		return NewRandom(seed)
	})
	Register("weighted_random", "random choice favouring attacks and evolutions over ending the turn", func(seed uint64) game.Strategy {
		return NewWeightedRandom(seed, DefaultWeights())
	})
	Register("attach_attack", "attaches energy to the active Pokémon and attacks whenever it can", func(seed uint64) game.Strategy {
		return NewAttachAttack(seed)
	})
	Register("end_turn", "ends the turn as soon as it is allowed", func(seed uint64) game.Strategy {
		return EndTurn{}
	})
	Register("heuristic", "priority rules: promote, evolve, develop the bench, power up, take knockouts", func(seed uint64) game.Strategy {
		return NewHeuristic(seed)
	})
	Register("value", "one-ply greedy search scored by a board value function", func(seed uint64) game.Strategy {
		return NewValue(seed)
	})
	Register("lookahead", "depth-limited search over the rest of its own turn", func(seed uint64) game.Strategy {
		return NewLookahead(seed, DefaultLookaheadDepth)
	})
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// find returns the first action of type t, if any.
func find(actions []game.Action, t game.ActionType) (game.Action, bool) {
	for _, a := range actions {
		if a.Type == t {
			return a, true
		}
	}
	return game.Action{}, false
}
