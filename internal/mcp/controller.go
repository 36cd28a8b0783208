package mcp

import (
	"errors"

	"github.com/peterkuimelis/tcgsim/internal/game"
	"github.com/peterkuimelis/tcgsim/internal/view"
)

// ErrSessionClosed is returned to the game when the agent abandons it mid-decision.
var ErrSessionClosed = errors.New("session closed")

// AgentStrategy implements game.Strategy by posting each decision to the
// session's pending channel and blocking until a tool call answers it.
type AgentStrategy struct {
	seat       int
	session    *GameSession
	responseCh chan int
}

// NewAgentStrategy creates the strategy for the agent's seat.
func NewAgentStrategy(seat int, session *GameSession) *AgentStrategy {
	return &AgentStrategy{
		seat:       seat,
		session:    session,
		responseCh: make(chan int),
	}
}

// ChooseAction implements game.Strategy.
func (c *AgentStrategy) ChooseAction(v *game.View, actions []game.Action) (game.Action, error) {
	pending := &PendingDecision{
		Type:    DecisionChooseAction,
		State:   view.BuildStateView(v),
		Actions: view.Actions(v, actions),
	}
	select {
	case c.session.pendingCh <- pending:
	case <-c.session.done:
		return game.Action{}, ErrSessionClosed
	}

	select {
	case idx := <-c.responseCh:
		if idx < 0 || idx >= len(actions) {
			return actions[0], nil
		}
		return actions[idx], nil
	case <-c.session.done:
		return game.Action{}, ErrSessionClosed
	}
}
