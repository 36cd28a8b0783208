package view

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/peterkuimelis/tcgsim/internal/game"
	"github.com/peterkuimelis/tcgsim/internal/log"
	"github.com/peterkuimelis/tcgsim/internal/player"
)

// midGame plays a few turns of a random game and returns it still running.
func midGame(t *testing.T) *game.Game {
	t.Helper()
	decks, err := game.DefaultDecks(game.DefaultRuleset())
	if err != nil {
		t.Fatalf("DefaultDecks: %v", err)
	}
	g := game.NewGame(game.GameConfig{DeckA: decks[0], DeckB: decks[1], Seed: 11},
		player.NewRandom(1), player.NewRandom(2))
	g.Start()
	for g.State.Outcome == nil && g.State.Turn < 3 {
		if err := g.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if g.State.Outcome != nil {
		t.Fatalf("game ended early: %v", g.State.Outcome)
	}
	return g
}

func TestBuildStateViewHidesOpponentHand(t *testing.T) {
	g := midGame(t)
	s := g.State
	sv := BuildStateView(s.ViewFor(0))

	if len(sv.You.Hand) != len(s.Players[0].Hand) || sv.You.HandCount != len(s.Players[0].Hand) {
		t.Errorf("own hand = %v, want %d cards", sv.You.Hand, len(s.Players[0].Hand))
	}
	if sv.Opponent.Hand != nil {
		t.Errorf("opponent hand leaked: %v", sv.Opponent.Hand)
	}
	if sv.Opponent.HandCount != len(s.Players[1].Hand) || sv.Opponent.DeckCount != len(s.Players[1].Deck) {
		t.Errorf("opponent counts = %d/%d", sv.Opponent.HandCount, sv.Opponent.DeckCount)
	}
	if active := s.Players[0].Active(); active == nil {
		if sv.You.Active != nil {
			t.Errorf("empty active shown as %+v", sv.You.Active)
		}
	} else if sv.You.Active == nil || sv.You.Active.Name != active.Card.Name || sv.You.Active.HP != active.RemainingHP() {
		t.Errorf("active = %+v, want %s", sv.You.Active, active)
	}
	if len(sv.You.Bench) != len(s.Players[0].InPlay)-1 {
		t.Errorf("bench has %d slots, want %d", len(sv.You.Bench), len(s.Players[0].InPlay)-1)
	}
	if sv.IsYourTurn != (s.Current == 0) {
		t.Errorf("IsYourTurn = %v with current P%d", sv.IsYourTurn, s.Current+1)
	}

	data, err := json.Marshal(sv)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"is_your_turn"`) {
		t.Errorf("unexpected json %s", data)
	}
}

func TestBuildStateViewConcealsSetup(t *testing.T) {
	decks, err := game.DefaultDecks(game.DefaultRuleset())
	if err != nil {
		t.Fatal(err)
	}
	g := game.NewGame(game.GameConfig{DeckA: decks[0], DeckB: decks[1], Seed: 3},
		player.NewRandom(1), player.NewRandom(2))
	g.Start()
	if g.State.Phase != game.PhaseSetup {
		t.Fatalf("phase after Start = %v", g.State.Phase)
	}
	sv := BuildStateView(g.State.ViewFor(0))
	if !sv.Opponent.Concealed || sv.Opponent.Active != nil || sv.Opponent.Bench != nil {
		t.Errorf("opponent board visible during setup: %+v", sv.Opponent)
	}
}

func TestActionsAreNumbered(t *testing.T) {
	g := midGame(t)
	actor, actions := game.LegalActions(g.State)
	views := Actions(g.State.ViewFor(actor), actions)
	if len(views) != len(actions) {
		t.Fatalf("got %d views for %d actions", len(views), len(actions))
	}
	for i, av := range views {
		if av.Index != i || av.Desc == "" || av.Type != actions[i].Type.String() {
			t.Errorf("view %d = %+v", i, av)
		}
	}
}

func TestCard(t *testing.T) {
	cat, err := game.DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	potion := Card(cat.MustLookup("potion"))
	if potion.Category != "Trainer" || potion.TrainerKind != "Item" || potion.HP != 0 || potion.Attacks != nil {
		t.Errorf("potion = %+v", potion)
	}
	wartortle := Card(cat.MustLookup("wartortle"))
	if wartortle.Stage != "Stage 1" || wartortle.EvolvesFrom != "Squirtle" || len(wartortle.Attacks) == 0 {
		t.Errorf("wartortle = %+v", wartortle)
	}
	if len(Cards(cat)) != cat.Len() {
		t.Error("Cards dropped entries")
	}
}

func TestDeckCountsAddUp(t *testing.T) {
	rules := game.DefaultRuleset()
	decks, err := game.DefaultDecks(rules)
	if err != nil {
		t.Fatal(err)
	}
	views := Decks(decks)
	for i, dv := range views {
		if dv.Number != i+1 || dv.Name != decks[i].Name {
			t.Errorf("deck %d = %s #%d", i, dv.Name, dv.Number)
		}
		total := 0
		for _, c := range dv.Cards {
			total += c.Count
		}
		if total != rules.DeckSize {
			t.Errorf("%s lists %d cards, want %d", dv.Name, total, rules.DeckSize)
		}
	}
}

func TestEvent(t *testing.T) {
	ev := Event(log.GameEvent{Seq: 4, Turn: 2, Phase: "Action", Player: 1, Type: log.EventDamage, Card: "Pikachu", Amount: 30, Details: "30 damage"})
	want := EventView{Seq: 4, Turn: 2, Phase: "Action", Player: 1, Type: log.EventDamage.String(), Card: "Pikachu", Amount: 30, Details: "30 damage"}
	if ev != want {
		t.Errorf("Event = %+v, want %+v", ev, want)
	}
}

func TestEventForHidesOpponentDraws(t *testing.T) {
	draw := log.NewDrawEvent(3, "Draw", 1, "Misty")
	if ev := EventFor(draw, 1); ev.Card != "Misty" {
		t.Errorf("own draw hidden: %+v", ev)
	}
	ev := EventFor(draw, 0)
	if ev.Card != "" || strings.Contains(ev.Details, "Misty") {
		t.Errorf("opponent draw leaked: %+v", ev)
	}
	place := log.NewPlaceActiveEvent(0, "Setup", 1, "Pikachu")
	if ev := EventFor(place, 0); strings.Contains(ev.Details, "Pikachu") {
		t.Errorf("setup placement leaked: %+v", ev)
	}
	if ev := EventFor(log.NewPlaceActiveEvent(4, "Action", 1, "Pikachu"), 0); ev.Card != "Pikachu" {
		t.Errorf("public placement hidden: %+v", ev)
	}
}
