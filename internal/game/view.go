package game

import (
	"math/rand/v2"
	"sort"
)

// HiddenCard stands in for cards a player cannot see when a View is turned back
// into a State. It is a Trainer without effects, so it can never be played.
var HiddenCard = &Card{ID: "hidden", Name: "Hidden Card", Category: CategoryTrainer, TrainerKind: TrainerItem}

// PlayerView is one player's zones as seen by a given viewer.
type PlayerView struct {
	Hand      []*Card // nil unless this is the viewer's own hand
	HandCount int
	DeckCount int
	Discard   []*Card
	InPlay    []*PlayedCard // copies; nil while Concealed
	Concealed bool          // board placement is hidden during setup

	// DeckContents is the viewer's own remaining deck sorted by card id. A player
	// can deduce what is left in their deck but not the order.
	DeckContents []*Card

	Points          int
	EnergyTypes     []EnergyType
	CurrentEnergy   EnergyType
	EnergyAvailable bool
	DiscardedEnergy int
	SupporterPlayed bool
	Retreated       bool
	RetreatDiscount int
	TurnModifiers   []Modifier
}

// Active returns the active Pokémon, or nil.
func (pv *PlayerView) Active() *PlayedCard {
	if len(pv.InPlay) == 0 {
		return nil
	}
	return pv.InPlay[0]
}

// Bench returns occupied bench slot indices.
func (pv *PlayerView) Bench() []int {
	var slots []int
	for i := 1; i < len(pv.InPlay); i++ {
		if pv.InPlay[i] != nil {
			slots = append(slots, i)
		}
	}
	return slots
}

// View is the read-only projection of a State handed to a strategy. Concealed
// zones are reduced to counts. Mutating a View never affects the game.
type View struct {
	Me      int
	Turn    int
	Current int
	First   int
	Phase   Phase
	Rules   Ruleset

	SetupDone         [2]bool
	CheckupDone       bool
	PendingPromotions []int

	Self     PlayerView
	Opponent PlayerView
}

// ViewFor projects the state for one player: own hand visible, opponent hand
// and both decks as counts, and the opponent's board hidden until setup ends.
func (s *State) ViewFor(player int) *View {
	v := &View{
		Me:                player,
		Turn:              s.Turn,
		Current:           s.Current,
		First:             s.First,
		Phase:             s.Phase,
		Rules:             s.Rules,
		SetupDone:         s.SetupDone,
		CheckupDone:       s.CheckupDone,
		PendingPromotions: append([]int(nil), s.PendingPromotions...),
	}
	v.Self = projectPlayer(s.Players[player], true, false)
	v.Opponent = projectPlayer(s.Players[Opponent(player)], false, s.Phase == PhaseSetup)
	return v
}

func projectPlayer(p *PlayerState, own, concealBoard bool) PlayerView {
	pv := PlayerView{
		HandCount:       len(p.Hand),
		DeckCount:       len(p.Deck),
		Discard:         append([]*Card(nil), p.Discard...),
		Concealed:       concealBoard,
		Points:          p.Points,
		EnergyTypes:     append([]EnergyType(nil), p.EnergyTypes...),
		CurrentEnergy:   p.CurrentEnergy,
		EnergyAvailable: p.EnergyAvailable,
		DiscardedEnergy: p.DiscardedEnergy,
		SupporterPlayed: p.SupporterPlayed,
		Retreated:       p.Retreated,
		RetreatDiscount: p.RetreatDiscount,
		TurnModifiers:   append([]Modifier(nil), p.TurnModifiers...),
	}
	if own {
		pv.Hand = append([]*Card(nil), p.Hand...)
		pv.DeckContents = append([]*Card(nil), p.Deck...)
		sort.SliceStable(pv.DeckContents, func(i, j int) bool {
			return pv.DeckContents[i].ID < pv.DeckContents[j].ID
		})
	}
	if !concealBoard {
		pv.InPlay = make([]*PlayedCard, len(p.InPlay))
		for i, pc := range p.InPlay {
			pv.InPlay[i] = pc.Clone()
		}
	}
	return pv
}

// Player returns the view of an absolute player index.
func (v *View) Player(p int) *PlayerView {
	if p == v.Me {
		return &v.Self
	}
	return &v.Opponent
}

// Sandbox rebuilds a playable State from the view. Concealed cards become
// HiddenCard placeholders and the viewer's deck order is randomized with rng, so search
// strategies can run a Resolver forward without seeing anything they should not.
// The viewer's own legal actions are the same in the sandbox as in the real game.
func (v *View) Sandbox(rng *rand.Rand) *State {
	s := &State{
		Rules:             v.Rules,
		Turn:              v.Turn,
		Current:           v.Current,
		First:             v.First,
		Phase:             v.Phase,
		SetupDone:         v.SetupDone,
		CheckupDone:       v.CheckupDone,
		PendingPromotions: append([]int(nil), v.PendingPromotions...),
	}
	s.Players[v.Me] = v.Self.materialize(v.Rules)
	s.Players[Opponent(v.Me)] = v.Opponent.materialize(v.Rules)
	for _, p := range s.Players {
		rng.Shuffle(len(p.Deck), func(i, j int) {
			p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
		})
	}
	return s
}

func (pv *PlayerView) materialize(rules Ruleset) *PlayerState {
	p := &PlayerState{
		Discard:         append([]*Card(nil), pv.Discard...),
		InPlay:          make([]*PlayedCard, rules.Slots()),
		Points:          pv.Points,
		EnergyTypes:     append([]EnergyType(nil), pv.EnergyTypes...),
		CurrentEnergy:   pv.CurrentEnergy,
		EnergyAvailable: pv.EnergyAvailable,
		DiscardedEnergy: pv.DiscardedEnergy,
		SupporterPlayed: pv.SupporterPlayed,
		Retreated:       pv.Retreated,
		RetreatDiscount: pv.RetreatDiscount,
		TurnModifiers:   append([]Modifier(nil), pv.TurnModifiers...),
	}
	if pv.Hand != nil {
		p.Hand = append([]*Card(nil), pv.Hand...)
	} else {
		p.Hand = placeholders(pv.HandCount)
	}
	if pv.DeckContents != nil {
		p.Deck = append([]*Card(nil), pv.DeckContents...)
	} else {
		p.Deck = placeholders(pv.DeckCount)
	}
	for i, pc := range pv.InPlay {
		if i < len(p.InPlay) {
			p.InPlay[i] = pc.Clone()
		}
	}
	return p
}

func placeholders(n int) []*Card {
	cards := make([]*Card, n)
	for i := range cards {
		cards[i] = HiddenCard
	}
	return cards
}
