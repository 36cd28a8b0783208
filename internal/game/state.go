package game

// Phase is the position of a game in its turn state machine.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseTurnStart
	PhaseAction
	PhaseTurnEnd
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseTurnStart:
		return "Turn Start"
	case PhaseAction:
		return "Action Phase"
	case PhaseTurnEnd:
		return "Turn End"
	case PhaseTerminal:
		return "Terminal"
	default:
		return "Unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Modifier is a damage adjustment registered for the rest of a turn.
type Modifier struct {
	Flat    int
	Percent int // 0 means no multiplier
	Source  string
}

// PlayerState represents one player's zones and per-turn counters.
type PlayerState struct {
	Deck    []*Card // top of deck is last element (pop from end)
	Hand    []*Card
	Discard []*Card
	InPlay  []*PlayedCard // slot 0 is active, the rest is the bench; empty slots are nil

	Points int

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
func (p *PlayerState) Active() *PlayedCard {
	if len(p.InPlay) == 0 {
		return nil
	}
	return p.InPlay[0]
}

// Bench returns the occupied bench slot indices.
func (p *PlayerState) Bench() []int {
	var slots []int
	for i := 1; i < len(p.InPlay); i++ {
		if p.InPlay[i] != nil {
			slots = append(slots, i)
		}
	}
	return slots
}

// FreeBenchSlot returns the first empty bench slot, or -1.
func (p *PlayerState) FreeBenchSlot() int {
	for i := 1; i < len(p.InPlay); i++ {
		if p.InPlay[i] == nil {
			return i
		}
	}
	return -1
}

// HasPokemon reports whether anything is in play.
func (p *PlayerState) HasPokemon() bool {
	for _, pc := range p.InPlay {
		if pc != nil {
			return true
		}
	}
	return false
}

// InPlayCount counts occupied slots.
func (p *PlayerState) InPlayCount() int {
	n := 0
	for _, pc := range p.InPlay {
		if pc != nil {
			n++
		}
	}
	return n
}

// DrawCard removes the top card from the deck and adds it to the hand.
// Returns nil if the deck is empty.
func (p *PlayerState) DrawCard() *Card {
	if len(p.Deck) == 0 {
		return nil
	}
	card := p.Deck[len(p.Deck)-1]
	p.Deck = p.Deck[:len(p.Deck)-1]
	p.Hand = append(p.Hand, card)
	return card
}

// removeFromHand removes and returns the card at index i.
func (p *PlayerState) removeFromHand(i int) *Card {
	card := p.Hand[i]
	p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
	return card
}

// CardCount is deck + hand + discard + every card held in play.
func (p *PlayerState) CardCount() int {
	n := len(p.Deck) + len(p.Hand) + len(p.Discard)
	for _, pc := range p.InPlay {
		if pc != nil {
			n += pc.CardCount()
		}
	}
	return n
}

func (p *PlayerState) clone() *PlayerState {
	c := *p
	c.Deck = append([]*Card(nil), p.Deck...)
	c.Hand = append([]*Card(nil), p.Hand...)
	c.Discard = append([]*Card(nil), p.Discard...)
	c.InPlay = make([]*PlayedCard, len(p.InPlay))
	for i, pc := range p.InPlay {
		c.InPlay[i] = pc.Clone()
	}
	c.EnergyTypes = append([]EnergyType(nil), p.EnergyTypes...)
	c.TurnModifiers = append([]Modifier(nil), p.TurnModifiers...)
	return &c
}

// State is the complete mutable snapshot of one game.
type State struct {
	Players [2]*PlayerState
	Rules   Ruleset

	Turn    int // 0 during setup, then 1, 2, ...
	Current int // player whose decision it is outside of promotions
	First   int // player who took turn 1
	Phase   Phase

	SetupDone         [2]bool
	CheckupDone       bool
	PendingPromotions []int // players that must promote before play continues

	Outcome *GameOutcome
}

// NewState creates an empty two-player state with unshuffled decks and empty hands.
// Resolver.Setup turns it into a playable game.
func NewState(deckA, deckB *Deck, rules Ruleset) *State {
	s := &State{Rules: rules}
	for i, d := range []*Deck{deckA, deckB} {
		s.Players[i] = &PlayerState{
			Deck:        append([]*Card(nil), d.Cards...),
			InPlay:      make([]*PlayedCard, rules.Slots()),
			EnergyTypes: append([]EnergyType(nil), d.EnergyTypes...),
		}
	}
	return s
}

// Opponent returns the other player index.
func Opponent(p int) int {
	return 1 - p
}

// IsTerminal reports whether the game has an outcome.
func (s *State) IsTerminal() bool {
	return s.Outcome != nil
}

// CardCount returns the conserved card total for a player.
func (s *State) CardCount(player int) int {
	return s.Players[player].CardCount()
}

// IsFirstTurnOf reports whether the current turn is the given player's first turn.
func (s *State) IsFirstTurnOf(player int) bool {
	if player == s.First {
		return s.Turn == 1
	}
	return s.Turn == 2
}

// Clone returns a deep copy sharing only immutable catalog cards.
func (s *State) Clone() *State {
	c := *s
	for i, p := range s.Players {
		c.Players[i] = p.clone()
	}
	c.PendingPromotions = append([]int(nil), s.PendingPromotions...)
	if s.Outcome != nil {
		o := *s.Outcome
		c.Outcome = &o
	}
	return &c
}

// finish records the outcome and freezes the state.
func (s *State) finish(o GameOutcome) {
	s.Outcome = &o
	s.Phase = PhaseTerminal
	s.PendingPromotions = nil
}
