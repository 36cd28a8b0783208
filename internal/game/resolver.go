package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/peterkuimelis/tcgsim/internal/log"
)

// ErrMulliganLimit is returned by Setup when a player cannot find a Basic Pokémon.
var ErrMulliganLimit = errors.New("mulligan limit reached")

// Resolver applies actions to a State. It owns the game's random stream and
// event sink; a State carries no randomness of its own, so clones can be
// explored with a different Resolver.
type Resolver struct {
	rng     *rand.Rand
	logger  log.EventLogger
	pending []log.GameEvent
	flip    func() bool // coin override for tests
}

// NewResolver creates a resolver with a private RNG seeded from seed.
func NewResolver(seed uint64, logger log.EventLogger) *Resolver {
	if logger == nil {
		logger = log.NopLogger{}
	}
	return &Resolver{
		rng:    rand.New(rand.NewPCG(seed, seed^0xda942042e4dd58b5)),
		logger: logger,
	}
}

// NewResolverRand creates a resolver drawing from an existing RNG. Used by search
// strategies that simulate inside a sandbox.
func NewResolverRand(rng *rand.Rand) *Resolver {
	return &Resolver{rng: rng, logger: log.NopLogger{}}
}

// LegalActions is the package-level LegalActions; it exists so callers holding a
// Resolver need nothing else.
func (r *Resolver) LegalActions(s *State) (int, []Action) {
	return LegalActions(s)
}

// Setup draws opening hands from the top of each deck, reshuffling on every
// mulligan, and picks the first player with a coin flip. Decks are expected to be
// shuffled already (see Deck.Shuffle). The state is left in PhaseSetup awaiting each
// player's active and bench placement.
func (r *Resolver) Setup(s *State) error {
	for p := 0; p < 2; p++ {
		if err := r.openingHand(s, p); err != nil {
			r.commit()
			return err
		}
	}
	if r.coin() {
		s.First = 0
	} else {
		s.First = 1
	}
	s.Phase = PhaseSetup
	s.Current = 0
	r.emit(log.NewPhaseChangeEvent(0, PhaseSetup.String()))
	r.commit()
	return nil
}

func (r *Resolver) openingHand(s *State, p int) error {
	ps := s.Players[p]
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if attempt > s.Rules.MaxMulligans {
				return fmt.Errorf("player %d: %w after %d attempts", p, ErrMulliganLimit, attempt-1)
			}
			r.emit(log.NewMulliganEvent(p, attempt))
			ps.Deck = append(ps.Deck, ps.Hand...)
			ps.Hand = nil
			r.rng.Shuffle(len(ps.Deck), func(i, j int) {
				ps.Deck[i], ps.Deck[j] = ps.Deck[j], ps.Deck[i]
			})
			r.emit(log.NewShuffleEvent(0, PhaseSetup.String(), p))
		}
		for i := 0; i < s.Rules.OpeningHand; i++ {
			if ps.DrawCard() == nil {
				break
			}
		}
		for _, c := range ps.Hand {
			if c.IsBasic() {
				return nil
			}
		}
	}
}

// Apply validates a against the legal set and applies it with every derived
// effect. On error the state is unchanged.
func (r *Resolver) Apply(s *State, a Action) (err error) {
	if s.Outcome != nil {
		return &TerminatedGameError{Outcome: *s.Outcome}
	}
	actor, legal := LegalActions(s)
	if a.Actor != actor {
		return &IllegalActionError{Action: a, Reason: fmt.Sprintf("it is P%d's decision", actor+1)}
	}
	if !containsAction(legal, a) {
		return &IllegalActionError{Action: a, Reason: "not in the legal action set"}
	}

	next := s.Clone()
	r.pending = r.pending[:0]
	defer func() {
		if rec := recover(); rec != nil {
			r.pending = r.pending[:0]
			err = fmt.Errorf("resolve %s: panic: %v", a, rec)
		}
	}()
	if err := r.apply(next, a); err != nil {
		r.pending = r.pending[:0]
		return fmt.Errorf("resolve %s: %w", a, err)
	}
	r.checkWin(next)
	r.advance(next)

	*s = *next
	r.commit()
	return nil
}

func (r *Resolver) apply(s *State, a Action) error {
	switch a.Type {
	case ActionPlayPokemon:
		return r.playPokemon(s, a)
	case ActionEvolve:
		return r.evolve(s, a)
	case ActionPlayTrainer:
		return r.playTrainer(s, a)
	case ActionAttachEnergy:
		return r.attachEnergy(s, a)
	case ActionAttack:
		return r.attack(s, a)
	case ActionUseAbility:
		return r.useAbility(s, a)
	case ActionRetreat:
		return r.retreat(s, a)
	case ActionPromote:
		return r.promote(s, a)
	case ActionEndTurn:
		return r.endTurn(s, a)
	}
	return fmt.Errorf("unknown action type %d", a.Type)
}

// advance runs every automatic step until a player decision is needed or the game ends.
func (r *Resolver) advance(s *State) {
	for s.Outcome == nil && len(s.PendingPromotions) == 0 {
		switch s.Phase {
		case PhaseSetup:
			if !s.SetupDone[0] || !s.SetupDone[1] {
				return
			}
			s.Current = s.First
			s.Phase = PhaseTurnStart
		case PhaseTurnEnd:
			if !s.CheckupDone {
				r.checkup(s)
				s.CheckupDone = true
				r.checkWin(s)
				continue
			}
			s.Current = Opponent(s.Current)
			s.Phase = PhaseTurnStart
		case PhaseTurnStart:
			r.startTurn(s)
			r.checkWin(s)
		default:
			return
		}
	}
}

func (r *Resolver) startTurn(s *State) {
	s.Turn++
	s.CheckupDone = false
	if s.Turn > s.Rules.MaxTurns {
		r.emit(log.NewTieEvent(s.Turn, PhaseTurnStart.String(), "turn limit reached"))
		s.finish(Tie(fmt.Sprintf("turn limit reached (%d turns)", s.Rules.MaxTurns)))
		return
	}
	me := s.Current
	p := s.Players[me]
	p.SupporterPlayed = false
	p.Retreated = false
	p.RetreatDiscount = 0
	p.TurnModifiers = nil
	p.EnergyAvailable = false
	r.emit(log.NewTurnEvent(s.Turn, me))

	card := p.DrawCard()
	if card == nil {
		r.emit(log.NewDeckOutEvent(s.Turn, PhaseTurnStart.String(), me))
		s.finish(Loss(me, "deck out"))
		r.emit(log.NewWinEvent(s.Turn, PhaseTurnStart.String(), Opponent(me), "opponent decked out"))
		return
	}
	r.emit(log.NewDrawEvent(s.Turn, PhaseTurnStart.String(), me, card.Name))

	if s.Turn > 1 && len(p.EnergyTypes) > 0 {
		p.CurrentEnergy = p.EnergyTypes[r.rng.IntN(len(p.EnergyTypes))]
		p.EnergyAvailable = s.Rules.EnergyPerTurn > 0
		r.emit(log.NewEnergyGeneratedEvent(s.Turn, PhaseTurnStart.String(), me, p.CurrentEnergy.String()))
	}
	s.Phase = PhaseAction
}

// checkup resolves between-turn conditions for both actives, then expires effects.
func (r *Resolver) checkup(s *State) {
	phase := PhaseTurnEnd.String()
	for _, p := range []int{s.Current, Opponent(s.Current)} {
		active := s.Players[p].Active()
		if active == nil {
			continue
		}
		if active.Poisoned {
			r.damage(s, p, 0, s.Rules.PoisonDamage, "poison")
		}
		if active.Asleep {
			if r.flipCoin(s, p) {
				active.Asleep = false
				r.emit(log.NewStatusClearedEvent(s.Turn, phase, p, active.Card.Name, "Asleep"))
			}
		}
		if p == s.Current && active.Paralyzed {
			active.Paralyzed = false
			r.emit(log.NewStatusClearedEvent(s.Turn, phase, p, active.Card.Name, "Paralyzed"))
		}
	}
	r.resolveKnockouts(s)

	for _, ps := range s.Players {
		for _, pc := range ps.InPlay {
			if pc != nil {
				pc.endOfTurn()
			}
		}
	}
	cur := s.Players[s.Current]
	cur.TurnModifiers = nil
	cur.RetreatDiscount = 0
}

// checkWin ends the game when a player has enough points or the opponent has no Pokémon.
func (r *Resolver) checkWin(s *State) {
	if s.Outcome != nil || s.Phase == PhaseSetup {
		return
	}
	var reached [2]bool
	var reasons [2]string
	for p := 0; p < 2; p++ {
		switch {
		case s.Players[p].Points >= s.Rules.PointsToWin:
			reached[p] = true
			reasons[p] = fmt.Sprintf("%d points", s.Players[p].Points)
		case !s.Players[Opponent(p)].HasPokemon():
			reached[p] = true
			reasons[p] = "opponent has no Pokémon in play"
		}
	}
	phase := s.Phase.String()
	switch {
	case reached[0] && reached[1]:
		r.emit(log.NewTieEvent(s.Turn, phase, "both players met a win condition"))
		s.finish(Tie("both players met a win condition"))
	case reached[0]:
		r.emit(log.NewWinEvent(s.Turn, phase, 0, reasons[0]))
		s.finish(Win(0, reasons[0]))
	case reached[1]:
		r.emit(log.NewWinEvent(s.Turn, phase, 1, reasons[1]))
		s.finish(Win(1, reasons[1]))
	}
}

// coin flips a fair coin from the game's RNG.
func (r *Resolver) coin() bool {
	if r.flip != nil {
		return r.flip()
	}
	return r.rng.IntN(2) == 0
}

// flipCoin flips and logs on behalf of player.
func (r *Resolver) flipCoin(s *State, player int) bool {
	heads := r.coin()
	r.emit(log.NewCoinFlipEvent(s.Turn, s.Phase.String(), player, heads))
	return heads
}

func (r *Resolver) emit(e log.GameEvent) {
	r.pending = append(r.pending, e)
}

func (r *Resolver) commit() {
	for _, e := range r.pending {
		r.logger.Log(e)
	}
	r.pending = r.pending[:0]
}
