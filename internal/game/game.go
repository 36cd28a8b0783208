package game

import (
	"fmt"

	"github.com/peterkuimelis/tcgsim/internal/log"
)

// Strategy is implemented by every automated player.
type Strategy interface {
	// ChooseAction picks one of actions. The view is a private copy; a strategy
	// cannot affect the game except through its return value.
	ChooseAction(view *View, actions []Action) (Action, error)
}

// DefaultMaxActions bounds the decisions in one game. Every turn is finite, so
// hitting it means a resolver bug; the game is aborted instead of spinning.
const DefaultMaxActions = 20000

// GameConfig holds configuration for creating a new game.
type GameConfig struct {
	DeckA      *Deck
	DeckB      *Deck
	Rules      Ruleset // zero value means DefaultRuleset
	Seed       uint64
	Logger     log.EventLogger
	NoShuffle  bool // draw from the decks as given (for deterministic tests)
	MaxActions int  // 0 = DefaultMaxActions
}

// Game plays one game between two strategies.
type Game struct {
	State      *State
	Strategies [2]Strategy
	Resolver   *Resolver
	Logger     log.EventLogger

	cfg        GameConfig
	maxActions int
	actions    int
}

// NewGame creates a new game from the given config and strategies.
func NewGame(cfg GameConfig, a, b Strategy) *Game {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NopLogger{}
	}
	if cfg.Rules == (Ruleset{}) {
		cfg.Rules = DefaultRuleset()
	}
	maxActions := cfg.MaxActions
	if maxActions == 0 {
		maxActions = DefaultMaxActions
	}
	return &Game{
		Strategies: [2]Strategy{a, b},
		Resolver:   NewResolver(cfg.Seed, logger),
		Logger:     logger,
		cfg:        cfg,
		maxActions: maxActions,
	}
}

// Start shuffles the decks, deals opening hands and leaves the game at setup.
// A setup failure ends the game as Aborted rather than returning an error.
func (g *Game) Start() {
	deckA, deckB := g.cfg.DeckA, g.cfg.DeckB
	if !g.cfg.NoShuffle {
		deckA = deckA.Shuffle(g.Resolver.rng.Uint64())
		deckB = deckB.Shuffle(g.Resolver.rng.Uint64())
	}
	g.State = NewState(deckA, deckB, g.cfg.Rules)
	if err := g.Resolver.Setup(g.State); err != nil {
		g.abort(fmt.Sprintf("setup: %v", err))
	}
}

// Run plays the game to completion and returns its outcome. It never panics:
// a panic anywhere in the game becomes an Aborted outcome.
func (g *Game) Run() (outcome GameOutcome) {
	defer func() {
		if rec := recover(); rec != nil {
			g.abort(fmt.Sprintf("panic: %v", rec))
			outcome = *g.State.Outcome
		}
	}()

	if g.State == nil {
		g.Start()
	}
	for g.State.Outcome == nil {
		if err := g.Step(); err != nil {
			g.abort(err.Error())
		}
	}
	return *g.State.Outcome
}

// Step asks the deciding strategy for one action and applies it.
func (g *Game) Step() error {
	if g.State == nil {
		g.Start()
	}
	s := g.State
	actor, actions := LegalActions(s)
	if actor < 0 {
		return &TerminatedGameError{Outcome: *s.Outcome}
	}
	if len(actions) == 0 {
		return fmt.Errorf("no legal actions for P%d in %s", actor+1, s.Phase)
	}
	if g.actions >= g.maxActions {
		return fmt.Errorf("action limit %d reached", g.maxActions)
	}

	choice, err := g.Strategies[actor].ChooseAction(s.ViewFor(actor), actions)
	if err != nil {
		return fmt.Errorf("P%d strategy: %w", actor+1, err)
	}
	g.actions++
	return g.Resolver.Apply(s, choice)
}

// Actions returns how many decisions have been applied.
func (g *Game) Actions() int {
	return g.actions
}

func (g *Game) abort(reason string) {
	if g.State == nil {
		g.State = &State{}
	}
	if g.State.Outcome != nil {
		return
	}
	g.Logger.Log(log.NewAbortedEvent(g.State.Turn, g.State.Phase.String(), reason))
	g.State.finish(Aborted(reason))
}
