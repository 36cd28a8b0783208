package view

import (
	"fmt"

	"github.com/peterkuimelis/tcgsim/internal/game"
	"github.com/peterkuimelis/tcgsim/internal/log"
)

// BuildStateView creates a StateView from a strategy's view of the game.
func BuildStateView(v *game.View) *StateView {
	return &StateView{
		You:        buildPlayer(&v.Self, true),
		Opponent:   buildPlayer(&v.Opponent, false),
		Turn:       v.Turn,
		Phase:      v.Phase.String(),
		IsYourTurn: v.Current == v.Me,
		GoingFirst: v.First == v.Me,
	}
}

func buildPlayer(pv *game.PlayerView, own bool) PlayerView {
	out := PlayerView{
		Points:          pv.Points,
		HandCount:       pv.HandCount,
		DeckCount:       pv.DeckCount,
		DiscardCount:    len(pv.Discard),
		Concealed:       pv.Concealed,
		EnergyAvailable: pv.EnergyAvailable,
		SupporterPlayed: pv.SupporterPlayed,
		Retreated:       pv.Retreated,
	}
	if pv.EnergyAvailable {
		out.Energy = pv.CurrentEnergy.String()
	}
	if own {
		for _, c := range pv.Hand {
			out.Hand = append(out.Hand, c.Name)
		}
	}
	if pv.Concealed {
		return out
	}
	for i, pc := range pv.InPlay {
		if i == 0 {
			out.Active = Pokemon(pc)
			continue
		}
		out.Bench = append(out.Bench, Pokemon(pc))
	}
	return out
}

// Pokemon describes a played card, or returns nil for an empty slot.
func Pokemon(pc *game.PlayedCard) *PokemonView {
	if pc == nil {
		return nil
	}
	pv := &PokemonView{
		Name:     pc.Card.Name,
		ID:       pc.Card.ID,
		Stage:    pc.Card.Stage.String(),
		HP:       pc.RemainingHP(),
		MaxHP:    pc.MaxHP(),
		IsEx:     pc.Card.IsEx,
		NewlyPut: pc.PlayedThisTurn,
	}
	for _, e := range pc.Energy {
		pv.Energy = append(pv.Energy, e.String())
	}
	if pc.Tool != nil {
		pv.Tool = pc.Tool.Name
	}
	if pc.Poisoned {
		pv.Status = append(pv.Status, "poisoned")
	}
	if pc.Asleep {
		pv.Status = append(pv.Status, "asleep")
	}
	if pc.Paralyzed {
		pv.Status = append(pv.Status, "paralyzed")
	}
	return pv
}

// Actions numbers the legal actions with descriptions the viewer can read.
func Actions(v *game.View, actions []game.Action) []ActionView {
	views := make([]ActionView, len(actions))
	for i, a := range actions {
		views[i] = ActionView{Index: i, Type: a.Type.String(), Desc: v.Describe(a)}
	}
	return views
}

// Event converts a logged game event.
func Event(e log.GameEvent) EventView {
	return EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Phase:   e.Phase,
		Player:  e.Player,
		Type:    e.Type.String(),
		Card:    e.Card,
		Amount:  e.Amount,
		Details: e.Details,
	}
}

// Card describes a catalog card.
func Card(c *game.Card) CardView {
	cv := CardView{
		ID:          c.ID,
		Name:        c.Name,
		Category:    c.Category.String(),
		Description: c.Description,
	}
	if c.IsTrainer() {
		cv.TrainerKind = c.TrainerKind.String()
		return cv
	}
	cv.HP = c.HP
	cv.Type = c.Type.String()
	if c.Weakness != game.EnergyColorless {
		cv.Weakness = c.Weakness.String()
	}
	cv.RetreatCost = c.RetreatCost
	cv.Stage = c.Stage.String()
	cv.EvolvesFrom = c.EvolvesFrom
	cv.IsEx = c.IsEx
	for _, a := range c.Attacks {
		av := AttackView{Name: a.Name, Cost: energyNames(a.Cost), Damage: a.Damage, Text: a.Text}
		cv.Attacks = append(cv.Attacks, av)
	}
	if c.Ability != nil {
		cv.Ability = &AbilityView{Name: c.Ability.Name, Trigger: c.Ability.Trigger.String(), Text: c.Ability.Text}
	}
	return cv
}

// Cards describes every card of a catalog.
func Cards(cat *game.Catalog) []CardView {
	cards := cat.Cards()
	views := make([]CardView, len(cards))
	for i, c := range cards {
		views[i] = Card(c)
	}
	return views
}

// Decks describes decks, numbered from 1 in list order.
func Decks(decks []*game.Deck) []DeckView {
	views := make([]DeckView, len(decks))
	for i, d := range decks {
		views[i] = Deck(i+1, d)
	}
	return views
}

// Deck describes one deck, listing cards in order of first appearance.
func Deck(number int, d *game.Deck) DeckView {
	dv := DeckView{Number: number, Name: d.Name, Energy: energyNames(d.EnergyTypes)}
	counts := d.Counts()
	seen := make(map[string]bool)
	for _, c := range d.Cards {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		dv.Cards = append(dv.Cards, DeckCardView{ID: c.ID, Name: c.Name, Count: counts[c.ID]})
	}
	return dv
}

func energyNames(types []game.EnergyType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

// EventFor converts a logged event for one player, hiding the card names of the
// opponent's draws and of their face-down setup placements.
func EventFor(e log.GameEvent, viewer int) EventView {
	ev := Event(e)
	if e.Player == viewer {
		return ev
	}
	who := fmt.Sprintf("P%d", e.Player+1)
	switch {
	case e.Type == log.EventDraw:
		ev.Card, ev.Details = "", who+" draws a card"
	case e.Type == log.EventAddToHand:
		ev.Card, ev.Details = "", who+" adds a card to their hand"
	case e.Turn == 0 && (e.Type == log.EventPlaceActive || e.Type == log.EventPlaceBench):
		ev.Card, ev.Details = "", who+" places a Pokémon face down"
	}
	return ev
}
