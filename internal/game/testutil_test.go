package game

import (
	"math/rand/v2"
	"testing"

	"github.com/peterkuimelis/tcgsim/internal/log"
)

// scriptStep matches an action by type and, optionally, by name. For card
// actions the name is the card's; for attacks it is the attack's.
type scriptStep struct {
	typ  ActionType
	name string
}

// ScriptedStrategy plays a fixed script of actions. A step waits until a
// matching action is legal; while it waits, the strategy ends its turn, or takes
// the first legal action when ending is not an option (setup, promotions).
type ScriptedStrategy struct {
	steps []scriptStep
	pos   int
}

func NewScriptedStrategy() *ScriptedStrategy {
	return &ScriptedStrategy{}
}

// Add appends a step and returns the strategy for chaining.
func (s *ScriptedStrategy) Add(typ ActionType, name string) *ScriptedStrategy {
	s.steps = append(s.steps, scriptStep{typ: typ, name: name})
	return s
}

// Done reports whether every scripted step was played.
func (s *ScriptedStrategy) Done() bool {
	return s.pos >= len(s.steps)
}

func (s *ScriptedStrategy) ChooseAction(view *View, actions []Action) (Action, error) {
	if s.pos < len(s.steps) {
		step := s.steps[s.pos]
		for _, a := range actions {
			if a.Type == step.typ && stepMatches(view, a, step.name) {
				s.pos++
				return a, nil
			}
		}
	}
	for _, a := range actions {
		if a.Type == ActionEndTurn {
			return a, nil
		}
	}
	return actions[0], nil
}

func stepMatches(view *View, a Action, name string) bool {
	if name == "" {
		return true
	}
	if a.Card != nil {
		return a.Card.Name == name
	}
	if a.Type == ActionAttack {
		if active := view.Self.Active(); active != nil && a.Attack < len(active.Card.Attacks) {
			return active.Card.Attacks[a.Attack].Name == name
		}
	}
	return false
}

// randomStrategy picks uniformly among the legal actions.
type randomStrategy struct {
	rng *rand.Rand
}

func newRandomStrategy(seed uint64) *randomStrategy {
	return &randomStrategy{rng: rand.New(rand.NewPCG(seed, seed+1))}
}

func (r *randomStrategy) ChooseAction(_ *View, actions []Action) (Action, error) {
	return actions[r.rng.IntN(len(actions))], nil
}

// testCard looks a card up in the built-in catalog.
func testCard(t testing.TB, id string) *Card {
	t.Helper()
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	c, err := cat.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup(%q): %v", id, err)
	}
	return c
}

// makePaddedDeck builds an unvalidated deck with topIDs on top (index 0 drawn
// first) and Tauros filler underneath, up to size cards.
func makePaddedDeck(t testing.TB, size int, energy EnergyType, topIDs ...string) *Deck {
	t.Helper()
	filler := testCard(t, "tauros")
	cards := make([]*Card, 0, size)
	for i := 0; i < size-len(topIDs); i++ {
		cards = append(cards, filler)
	}
	for i := len(topIDs) - 1; i >= 0; i-- {
		cards = append(cards, testCard(t, topIDs[i]))
	}
	return &Deck{Name: "test", Cards: cards, EnergyTypes: []EnergyType{energy}}
}

// newBattleState returns a state in P1's action phase on turn 3 with empty
// boards and ten filler cards in each deck. Tests place Pokémon with place.
func newBattleState(t testing.TB) *State {
	t.Helper()
	rules := DefaultRuleset()
	s := &State{
		Rules:     rules,
		Turn:      3,
		Current:   0,
		First:     0,
		Phase:     PhaseAction,
		SetupDone: [2]bool{true, true},
	}
	filler := testCard(t, "tauros")
	for i := range s.Players {
		deck := make([]*Card, 10)
		for j := range deck {
			deck[j] = filler
		}
		s.Players[i] = &PlayerState{
			Deck:          deck,
			InPlay:        make([]*PlayedCard, rules.Slots()),
			EnergyTypes:   []EnergyType{EnergyLightning},
			CurrentEnergy: EnergyLightning,
		}
	}
	return s
}

// place puts a card straight into a slot with the given energy attached.
func place(t testing.TB, s *State, player, slot int, id string, energy ...EnergyType) *PlayedCard {
	t.Helper()
	pc := &PlayedCard{Card: testCard(t, id), Energy: energy}
	s.Players[player].InPlay[slot] = pc
	return pc
}

// giveHand adds catalog cards to a player's hand.
func giveHand(t testing.TB, s *State, player int, ids ...string) {
	t.Helper()
	for _, id := range ids {
		s.Players[player].Hand = append(s.Players[player].Hand, testCard(t, id))
	}
}

// coins returns a coin source yielding results in order, then heads forever.
func coins(results ...bool) func() bool {
	i := 0
	return func() bool {
		if i >= len(results) {
			return true
		}
		r := results[i]
		i++
		return r
	}
}

// newTestResolver returns a resolver logging to memory with scripted coins.
func newTestResolver(results ...bool) (*Resolver, *log.MemoryLogger) {
	logger := log.NewMemoryLogger()
	r := NewResolver(1, logger)
	r.flip = coins(results...)
	return r, logger
}

// findAction returns the first legal action of typ passing match.
func findAction(t testing.TB, s *State, typ ActionType, match func(Action) bool) Action {
	t.Helper()
	_, actions := LegalActions(s)
	for _, a := range actions {
		if a.Type == typ && (match == nil || match(a)) {
			return a
		}
	}
	t.Fatalf("no legal %s action among %v", typ, actions)
	return Action{}
}

func hasAction(s *State, typ ActionType) bool {
	_, actions := LegalActions(s)
	for _, a := range actions {
		if a.Type == typ {
			return true
		}
	}
	return false
}

// runGameToCompletion plays a game with unshuffled decks and heads on every
// coin (so P1 goes first), and returns the logger for inspection.
func runGameToCompletion(t *testing.T, cfg GameConfig, a, b Strategy) (*Game, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	cfg.NoShuffle = true

	g := NewGame(cfg, a, b)
	g.Resolver.flip = coins()
	outcome := g.Run()
	if outcome.Kind == OutcomeAborted {
		t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		t.Fatalf("game aborted: %s", outcome.Reason)
	}

	t.Logf("Game result: %s", outcome)
	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
	return g, logger
}
