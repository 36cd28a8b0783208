// Package sim runs batches of independent games and aggregates their outcomes.
package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/peterkuimelis/tcgsim/internal/game"
	"github.com/peterkuimelis/tcgsim/internal/player"
)

// Config describes one batch. Decks and rules are shared read-only by every game.
type Config struct {
	DeckA     *game.Deck
	DeckB     *game.Deck
	StrategyA string
	StrategyB string
	NumGames  int
	Seed      uint64

	Parallelism int           // 0 = runtime.NumCPU()
	Timeout     time.Duration // 0 = none; games not started by then are skipped
	Rules       game.Ruleset  // zero value means DefaultRuleset
	MaxActions  int           // per game, 0 = game.DefaultMaxActions
	KeepGames   bool          // keep a GameRecord per game in Results.Records

	// Progress, if set, is called after every finished game with the number of
	// finished games. Calls are serialized.
	Progress func(done, total int)
}

// ConfigurationError rejects a batch before any game is played.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid simulation config: %s %s", e.Field, e.Reason)
}

// Validate checks everything Simulate needs before it starts.
func (c Config) Validate() error {
	switch {
	case c.NumGames <= 0:
		return &ConfigurationError{Field: "num_games", Reason: fmt.Sprintf("must be positive, got %d", c.NumGames)}
	case c.DeckA == nil:
		return &ConfigurationError{Field: "deck_a", Reason: "is required"}
	case c.DeckB == nil:
		return &ConfigurationError{Field: "deck_b", Reason: "is required"}
	case !player.Known(c.StrategyA):
		return &ConfigurationError{Field: "strategy_a", Reason: fmt.Sprintf("%q is not a player type %v", c.StrategyA, player.Types())}
	case !player.Known(c.StrategyB):
		return &ConfigurationError{Field: "strategy_b", Reason: fmt.Sprintf("%q is not a player type %v", c.StrategyB, player.Types())}
	case c.Parallelism < 0:
		return &ConfigurationError{Field: "parallelism", Reason: fmt.Sprintf("must not be negative, got %d", c.Parallelism)}
	case c.Timeout < 0:
		return &ConfigurationError{Field: "timeout", Reason: "must not be negative"}
	}
	return nil
}

// GameSeed derives the seed of game index from the batch seed. It is a pure
// function, so a game plays the same however the batch is scheduled.
func GameSeed(base uint64, index int) uint64 {
	return splitmix64(base + uint64(index)*0x9e3779b97f4a7c15)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Simulate plays cfg.NumGames games, up to cfg.Parallelism at a time, and
// returns their aggregate. Player A always sits in seat 0; who moves first is
// decided by each game's coin flip. A game that goes wrong is recorded as
// Aborted and the batch carries on. Cancelling ctx or reaching cfg.Timeout
// stops new games from starting; games already running finish.
func Simulate(ctx context.Context, cfg Config) (*Results, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Rules == (game.Ruleset{}) {
		cfg.Rules = game.DefaultRuleset()
	}
	workers := cfg.Parallelism
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	records := make([]GameRecord, cfg.NumGames)
	played := make([]bool, cfg.NumGames)
	var (
		mu   sync.Mutex
		done int
	)

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i := 0; i < cfg.NumGames; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rec, err := RunGame(cfg, i)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			records[i] = rec
			played[i] = true
			done++
			if cfg.Progress != nil {
				cfg.Progress(done, cfg.NumGames)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := NewResults()
	for i, rec := range records {
		if !played[i] {
			res.Skipped++
			continue
		}
		res.Add(rec, cfg.KeepGames)
	}
	return res, nil
}

// RunGame plays game index of the batch described by cfg. The only error is an
// unknown strategy; everything that goes wrong inside the game ends it as Aborted.
func RunGame(cfg Config, index int) (GameRecord, error) {
	seed := GameSeed(cfg.Seed, index)
	a, err := player.New(cfg.StrategyA, splitmix64(seed^1))
	if err != nil {
		return GameRecord{}, err
	}
	b, err := player.New(cfg.StrategyB, splitmix64(seed^2))
	if err != nil {
		return GameRecord{}, err
	}

	g := game.NewGame(game.GameConfig{
		DeckA:      cfg.DeckA,
		DeckB:      cfg.DeckB,
		Rules:      cfg.Rules,
		Seed:       seed,
		MaxActions: cfg.MaxActions,
	}, a, b)
	out := g.Run()
	return GameRecord{
		Index:   index,
		Seed:    seed,
		Outcome: out,
		Turns:   g.State.Turn,
		Actions: g.Actions(),
		First:   g.State.First,
	}, nil
}
