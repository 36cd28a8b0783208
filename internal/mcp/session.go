package mcp

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/peterkuimelis/tcgsim/internal/game"
	"github.com/peterkuimelis/tcgsim/internal/log"
	"github.com/peterkuimelis/tcgsim/internal/player"
	"github.com/peterkuimelis/tcgsim/internal/view"
)

// DecisionType identifies what the game is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionGameOver     DecisionType = "game_over"
)

// PendingDecision is a decision the game is waiting for, or its final state.
type PendingDecision struct {
	Type    DecisionType      `json:"type"`
	State   *view.StateView   `json:"state"`
	Actions []view.ActionView `json:"actions,omitempty"`
}

// ToolResponse is the JSON envelope returned by the game tools.
type ToolResponse struct {
	Events   []view.EventView  `json:"events"`
	State    *view.StateView   `json:"state,omitempty"`
	Pending  *PendingDecision  `json:"pending,omitempty"`
	GameOver bool              `json:"game_over"`
	Outcome  *game.GameOutcome `json:"outcome,omitempty"`
	Result   string            `json:"result,omitempty"`
	Seat     int               `json:"seat"`
	Opponent string            `json:"opponent"`
}

// SessionConfig describes a game between the agent and a built-in strategy.
type SessionConfig struct {
	AgentDeck    *game.Deck
	OpponentDeck *game.Deck
	Opponent     string // player type of the built-in opponent
	Seat         int    // 0 or 1; who moves first is decided by the coin
	Seed         uint64
	Rules        game.Ruleset
}

// GameSession holds one game the agent plays through tool calls.
type GameSession struct {
	game     *game.Game
	agent    *AgentStrategy
	seat     int
	opponent string

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision
	done           chan struct{}
	closeOnce      sync.Once

	events *eventBuffer

	mu       sync.Mutex
	gameOver bool
	outcome  game.GameOutcome
}

// NewGameSession starts the game in the background. The first tool response
// comes from waitForPending.
func NewGameSession(cfg SessionConfig) (*GameSession, error) {
	if cfg.Seat != 0 && cfg.Seat != 1 {
		return nil, fmt.Errorf("seat must be 0 or 1, got %d", cfg.Seat)
	}
	if cfg.AgentDeck == nil || cfg.OpponentDeck == nil {
		return nil, fmt.Errorf("both decks are required")
	}
	opp, err := player.New(cfg.Opponent, cfg.Seed^0x5bd1e995)
	if err != nil {
		return nil, err
	}

	sess := &GameSession{
		seat:      cfg.Seat,
		opponent:  cfg.Opponent,
		pendingCh: make(chan *PendingDecision, 1),
		done:      make(chan struct{}),
		events:    &eventBuffer{},
	}
	sess.agent = NewAgentStrategy(cfg.Seat, sess)

	gc := game.GameConfig{Rules: cfg.Rules, Seed: cfg.Seed, Logger: sess.events}
	var a, b game.Strategy
	if cfg.Seat == 0 {
		gc.DeckA, gc.DeckB = cfg.AgentDeck, cfg.OpponentDeck
		a, b = sess.agent, opp
	} else {
		gc.DeckA, gc.DeckB = cfg.OpponentDeck, cfg.AgentDeck
		a, b = opp, sess.agent
	}
	sess.game = game.NewGame(gc, a, b)

	go sess.run()
	return sess, nil
}

func (s *GameSession) run() {
	outcome := s.game.Run()

	s.mu.Lock()
	s.gameOver = true
	s.outcome = outcome
	s.mu.Unlock()

	final := &PendingDecision{
		Type:  DecisionGameOver,
		State: view.BuildStateView(s.game.State.ViewFor(s.seat)),
	}
	select {
	case s.pendingCh <- final:
	case <-s.done:
	}
}

// Close abandons the game. A decision the agent still owes ends it as Aborted.
func (s *GameSession) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// respond answers the pending decision with an action index.
func (s *GameSession) respond(index int) {
	s.agent.responseCh <- index
}

// waitForPending blocks until the game needs the agent again or ends, then
// builds a ToolResponse with the accumulated events and the pending decision.
func (s *GameSession) waitForPending() *ToolResponse {
	s.currentPending = <-s.pendingCh
	return s.snapshot()
}

// snapshot reports the current pending decision without waiting.
func (s *GameSession) snapshot() *ToolResponse {
	resp := &ToolResponse{
		Events:   s.drainEvents(),
		Seat:     s.seat,
		Opponent: s.opponent,
	}
	if s.currentPending != nil {
		resp.State = s.currentPending.State
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentPending != nil && s.currentPending.Type == DecisionGameOver {
		out := s.outcome
		resp.GameOver = true
		resp.Outcome = &out
		resp.Result = s.result(out)
		return resp
	}
	resp.Pending = s.currentPending
	return resp
}

func (s *GameSession) result(out game.GameOutcome) string {
	winner, ok := out.Winner()
	switch {
	case !ok:
		return out.String()
	case winner == s.seat:
		return "You won: " + out.Reason
	default:
		return "You lost: " + out.Reason
	}
}

// drainEvents returns the events logged since the last call, as the agent may see them.
func (s *GameSession) drainEvents() []view.EventView {
	events := s.events.drain()
	views := make([]view.EventView, len(events))
	for i, e := range events {
		views[i] = view.EventFor(e, s.seat)
	}
	return views
}

// eventBuffer is a log.EventLogger safe to read while the game goroutine writes.
type eventBuffer struct {
	mu      sync.Mutex
	seq     int
	all     []log.GameEvent
	pending []log.GameEvent
}

func (b *eventBuffer) Log(event log.GameEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	event.Seq = b.seq
	b.all = append(b.all, event)
	b.pending = append(b.pending, event)
}

func (b *eventBuffer) Events() []log.GameEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]log.GameEvent(nil), b.all...)
}

func (b *eventBuffer) drain() []log.GameEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.pending
	b.pending = nil
	return events
}

// respondJSON marshals a tool payload to a JSON string.
func respondJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
