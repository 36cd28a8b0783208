package game

import (
	"fmt"
	"strings"
)

// CatalogError reports a card definition that references something the engine does not know.
type CatalogError struct {
	Card   string // card id, empty for file-level failures
	Ref    string // the offending reference (effect id, energy name, ...)
	Reason string
}

func (e *CatalogError) Error() string {
	switch {
	case e.Card == "":
		return fmt.Sprintf("catalog: %s", e.Reason)
	case e.Ref == "":
		return fmt.Sprintf("catalog: card %q: %s", e.Card, e.Reason)
	default:
		return fmt.Sprintf("catalog: card %q: %s %q", e.Card, e.Reason, e.Ref)
	}
}

// InvalidDeckError lists every deck-building constraint a deck violates.
type InvalidDeckError struct {
	Deck       string
	Violations []string
}

func (e *InvalidDeckError) Error() string {
	return fmt.Sprintf("invalid deck %q: %s", e.Deck, strings.Join(e.Violations, "; "))
}

// IllegalActionError is returned when an action outside the legal set is applied.
// The state is left untouched.
type IllegalActionError struct {
	Action Action
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %s: %s", e.Action, e.Reason)
}

// TerminatedGameError is returned by any resolver call on a finished game.
type TerminatedGameError struct {
	Outcome GameOutcome
}

func (e *TerminatedGameError) Error() string {
	return fmt.Sprintf("game is over: %s", e.Outcome)
}
