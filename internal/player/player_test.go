package player

import (
	"errors"
	"slices"
	"testing"

	"github.com/peterkuimelis/tcgsim/internal/game"
)

// battle returns a mid-game state on P1's turn 3 with empty boards and hands.
func battle(t *testing.T) *game.State {
	t.Helper()
	rules := game.DefaultRuleset()
	s := &game.State{
		Rules:     rules,
		Turn:      3,
		Current:   0,
		First:     0,
		Phase:     game.PhaseAction,
		SetupDone: [2]bool{true, true},
	}
	filler := card(t, "tauros")
	for i := range s.Players {
		deck := make([]*game.Card, 10)
		for j := range deck {
			deck[j] = filler
		}
		s.Players[i] = &game.PlayerState{
			Deck:          deck,
			InPlay:        make([]*game.PlayedCard, rules.Slots()),
			EnergyTypes:   []game.EnergyType{game.EnergyWater},
			CurrentEnergy: game.EnergyWater,
		}
	}
	return s
}

func card(t *testing.T, id string) *game.Card {
	t.Helper()
	cat, err := game.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	c, err := cat.Lookup(id)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	return c
}

func put(t *testing.T, s *game.State, player, slot int, id string, energy ...game.EnergyType) *game.PlayedCard {
	t.Helper()
	pc := &game.PlayedCard{Card: card(t, id), Energy: energy}
	s.Players[player].InPlay[slot] = pc
	return pc
}

func choose(t *testing.T, st game.Strategy, s *game.State) game.Action {
	t.Helper()
	actor, actions := game.LegalActions(s)
	if len(actions) == 0 {
		t.Fatal("no legal actions")
	}
	a, err := st.ChooseAction(s.ViewFor(actor), actions)
	if err != nil {
		t.Fatalf("ChooseAction: %v", err)
	}
	return a
}

func TestTypesListsBuiltins(t *testing.T) {
	types := Types()
	if !slices.IsSorted(types) {
		t.Errorf("Types not sorted: %v", types)
	}
	for _, id := range []string{"random", "weighted_random", "attach_attack", "end_turn", "heuristic", "value", "lookahead"} {
		if !slices.Contains(types, id) {
			t.Errorf("missing %q in %v", id, types)
		}
		if _, err := New(id, 1); err != nil {
			t.Errorf("New(%q): %v", id, err)
		}
	}
	if len(Describe()) != len(types) {
		t.Errorf("Describe and Types disagree")
	}
}

func TestNewUnknownType(t *testing.T) {
	_, err := New("grandmaster", 1)
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) || unknown.ID != "grandmaster" {
		t.Errorf("expected UnknownTypeError, got %v", err)
	}
	if Known("grandmaster") {
		t.Error("Known reports an unregistered id")
	}
}

func TestRegisterCustomStrategy(t *testing.T) {
	Register("test_first", "always the first action", func(uint64) game.Strategy { return firstAction{} })
	if !Known("test_first") {
		t.Fatal("registered strategy not known")
	}
	st, err := New("test_first", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := st.(firstAction); !ok {
		t.Errorf("New returned %T", st)
	}
}

type firstAction struct{}

func (firstAction) ChooseAction(_ *game.View, actions []game.Action) (game.Action, error) {
	return actions[0], nil
}

func TestEveryStrategyFinishesGames(t *testing.T) {
	decks, err := game.DefaultDecks(game.DefaultRuleset())
	if err != nil {
		t.Fatalf("DefaultDecks: %v", err)
	}
	for _, id := range Types() {
		t.Run(id, func(t *testing.T) {
			games := 4
			if id == "lookahead" && testing.Short() {
				games = 1
			}
			for seed := uint64(1); seed <= uint64(games); seed++ {
				a, _ := New(id, seed)
				b, _ := New("random", seed+100)
				g := game.NewGame(game.GameConfig{
					DeckA: decks[int(seed)%len(decks)],
					DeckB: decks[int(seed+1)%len(decks)],
					Seed:  seed,
				}, a, b)
				if out := g.Run(); out.Kind == game.OutcomeAborted {
					t.Errorf("seed %d aborted: %s", seed, out.Reason)
				}
			}
		})
	}
}

func TestStrategiesAreDeterministic(t *testing.T) {
	decks, err := game.DefaultDecks(game.DefaultRuleset())
	if err != nil {
		t.Fatalf("DefaultDecks: %v", err)
	}
	play := func() (game.GameOutcome, int) {
		a, _ := New("heuristic", 5)
		b, _ := New("value", 6)
		g := game.NewGame(game.GameConfig{DeckA: decks[0], DeckB: decks[2], Seed: 11}, a, b)
		return g.Run(), g.Actions()
	}
	out1, n1 := play()
	out2, n2 := play()
	if out1 != out2 || n1 != n2 {
		t.Errorf("same seeds differ: %s after %d vs %s after %d", out1, n1, out2, n2)
	}
}

func TestEndTurnPasses(t *testing.T) {
	s := battle(t)
	put(t, s, 0, 0, "squirtle", game.EnergyWater)
	put(t, s, 1, 0, "pikachu")
	if a := choose(t, EndTurn{}, s); a.Type != game.ActionEndTurn {
		t.Errorf("expected End Turn, got %s", a)
	}
}

func TestAttachAttack(t *testing.T) {
	s := battle(t)
	s.Players[0].EnergyAvailable = true
	put(t, s, 0, 0, "wartortle", game.EnergyWater)
	put(t, s, 0, 1, "squirtle")
	put(t, s, 1, 0, "pikachu")

	st := NewAttachAttack(1)
	a := choose(t, st, s)
	if a.Type != game.ActionAttachEnergy || a.Slot != 0 {
		t.Fatalf("expected energy on the active, got %s", a)
	}
	if err := game.NewResolver(1, nil).Apply(s, a); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	a = choose(t, st, s)
	if a.Type != game.ActionAttack || s.Players[0].Active().Card.Attacks[a.Attack].Name != "Wave Splash" {
		t.Errorf("expected Wave Splash, got %s", a.Describe(s))
	}
}

func TestHeuristicSavesBoostForTheAttack(t *testing.T) {
	s := battle(t)
	put(t, s, 0, 0, "wartortle")
	put(t, s, 1, 0, "pikachu")
	s.Players[0].Hand = []*game.Card{card(t, "giovanni")}

	h := NewHeuristic(1)
	if a := choose(t, h, s); a.Type != game.ActionEndTurn {
		t.Errorf("without an attack Giovanni should wait, got %s", a)
	}

	s.Players[0].Active().Energy = []game.EnergyType{game.EnergyWater}
	a := choose(t, h, s)
	if a.Type != game.ActionPlayTrainer || a.Card.Name != "Giovanni" {
		t.Fatalf("expected Giovanni before attacking, got %s", a)
	}
	if err := game.NewResolver(1, nil).Apply(s, a); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if a := choose(t, h, s); a.Type != game.ActionAttack {
		t.Errorf("expected the attack, got %s", a)
	}
}

func TestHeuristicPromotesAttacker(t *testing.T) {
	s := battle(t)
	put(t, s, 0, 1, "squirtle")
	ready := put(t, s, 0, 2, "wartortle", game.EnergyWater)
	ready.Damage = 50
	put(t, s, 1, 0, "pikachu")
	s.PendingPromotions = []int{0}

	a := choose(t, NewHeuristic(1), s)
	if a.Type != game.ActionPromote || a.Slot != 2 {
		t.Errorf("expected the powered Wartortle promoted, got %s", a)
	}
}

func TestHeuristicSnipesWeakestTarget(t *testing.T) {
	s := battle(t)
	put(t, s, 0, 0, "squirtle")
	put(t, s, 0, 1, "greninja")
	put(t, s, 1, 0, "pikachu")
	put(t, s, 1, 1, "squirtle").Damage = 50
	put(t, s, 1, 2, "staryu")

	a := choose(t, NewHeuristic(1), s)
	if a.Type != game.ActionUseAbility || a.Target != 1 {
		t.Errorf("expected Water Shuriken on the damaged Squirtle, got %s", a)
	}
}

func TestEvaluate(t *testing.T) {
	s := battle(t)
	put(t, s, 0, 0, "squirtle")
	put(t, s, 1, 0, "squirtle")
	if v := Evaluate(s, 0); v != 0 {
		t.Errorf("symmetric board should score 0, got %v", v)
	}

	s.Players[0].Points = 1
	s.Players[1].InPlay[1] = &game.PlayedCard{Card: card(t, "blastoise_ex")}
	if v := Evaluate(s, 0); v <= 0 {
		t.Errorf("a point should outweigh a benched Pokémon, got %v", v)
	}
	if Evaluate(s, 1) != -Evaluate(s, 0) {
		t.Error("Evaluate is not antisymmetric")
	}

	won := game.Win(1, "test")
	s.Outcome = &won
	if Evaluate(s, 1) != WinScore || Evaluate(s, 0) != -WinScore {
		t.Errorf("terminal scores wrong: %v %v", Evaluate(s, 1), Evaluate(s, 0))
	}
}

func TestSearchStrategiesTakeTheWin(t *testing.T) {
	for _, id := range []string{"value", "lookahead"} {
		t.Run(id, func(t *testing.T) {
			s := battle(t)
			put(t, s, 0, 0, "squirtle", game.EnergyWater)
			put(t, s, 0, 1, "staryu")
			put(t, s, 1, 0, "pikachu").Damage = 40

			st, err := New(id, 3)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			a := choose(t, st, s)
			if a.Type != game.ActionAttack {
				t.Errorf("expected the winning Water Gun, got %s", a)
			}
		})
	}
}

func TestWeightedRandomRespectsZeroWeights(t *testing.T) {
	s := battle(t)
	s.Players[0].EnergyAvailable = true
	put(t, s, 0, 0, "squirtle", game.EnergyWater)
	put(t, s, 1, 0, "pikachu")

	st := NewWeightedRandom(9, Weights{game.ActionEndTurn: 0, game.ActionAttachEnergy: 0})
	for i := 0; i < 50; i++ {
		if a := choose(t, st, s); a.Type != game.ActionAttack {
			t.Fatalf("draw %d picked %s", i, a)
		}
	}

	only := NewWeightedRandom(9, Weights{
		game.ActionEndTurn: 0, game.ActionAttachEnergy: 0, game.ActionAttack: 0,
	})
	if err := game.NewResolver(1, nil).Apply(s, choose(t, only, s)); err != nil {
		t.Errorf("all-zero weights must still pick a legal action: %v", err)
	}
}
