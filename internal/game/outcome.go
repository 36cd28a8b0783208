package game

import "fmt"

type OutcomeKind int

const (
	OutcomeWin OutcomeKind = iota
	OutcomeLoss
	OutcomeTie
	OutcomeAborted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeWin:
		return "Win"
	case OutcomeLoss:
		return "Loss"
	case OutcomeTie:
		return "Tie"
	case OutcomeAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *OutcomeKind) UnmarshalText(text []byte) error {
	for c := OutcomeWin; c <= OutcomeAborted; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown outcome kind %q", text)
}

// GameOutcome classifies a finished game. Player is meaningful for Win and Loss only.
type GameOutcome struct {
	Kind   OutcomeKind `json:"kind"`
	Player int         `json:"player"`
	Reason string      `json:"reason,omitempty"`
}

func Win(player int, reason string) GameOutcome {
	return GameOutcome{Kind: OutcomeWin, Player: player, Reason: reason}
}

func Loss(player int, reason string) GameOutcome {
	return GameOutcome{Kind: OutcomeLoss, Player: player, Reason: reason}
}

func Tie(reason string) GameOutcome {
	return GameOutcome{Kind: OutcomeTie, Reason: reason}
}

func Aborted(reason string) GameOutcome {
	return GameOutcome{Kind: OutcomeAborted, Reason: reason}
}

// Winner returns the winning player for Win and Loss outcomes.
func (o GameOutcome) Winner() (int, bool) {
	switch o.Kind {
	case OutcomeWin:
		return o.Player, true
	case OutcomeLoss:
		return 1 - o.Player, true
	}
	return -1, false
}

func (o GameOutcome) String() string {
	switch o.Kind {
	case OutcomeWin, OutcomeLoss:
		return fmt.Sprintf("%s(P%d): %s", o.Kind, o.Player+1, o.Reason)
	default:
		if o.Reason == "" {
			return o.Kind.String()
		}
		return fmt.Sprintf("%s: %s", o.Kind, o.Reason)
	}
}
