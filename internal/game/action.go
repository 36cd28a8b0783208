package game

import "fmt"

// ActionType enumerates the decisions a player can make.
type ActionType int

const (
	ActionPlayPokemon ActionType = iota // Basic Pokémon from hand to an empty slot
	ActionEvolve                        // evolution card from hand onto a slot
	ActionPlayTrainer                   // Item, Supporter or Tool from hand
	ActionAttachEnergy                  // this turn's energy onto a slot
	ActionAttack
	ActionUseAbility
	ActionRetreat // active swaps with a bench slot
	ActionPromote // bench slot moves into an empty active slot
	ActionEndTurn
)

func (a ActionType) String() string {
	switch a {
	case ActionPlayPokemon:
		return "Play Pokémon"
	case ActionEvolve:
		return "Evolve"
	case ActionPlayTrainer:
		return "Play Trainer"
	case ActionAttachEnergy:
		return "Attach Energy"
	case ActionAttack:
		return "Attack"
	case ActionUseAbility:
		return "Use Ability"
	case ActionRetreat:
		return "Retreat"
	case ActionPromote:
		return "Promote"
	case ActionEndTurn:
		return "End Turn"
	default:
		return "Unknown"
	}
}

func (a ActionType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Action is one legal decision. Actions are comparable; Apply checks membership
// in the legal set with ==.
type Action struct {
	Type   ActionType
	Actor  int
	Hand   int   // hand index for card-playing actions
	Card   *Card // the card being played, if any
	Slot   int   // own slot the action is about
	Attack int   // attack index on the active Pokémon
	Target int   // slot chosen for a targeted effect, 0 when the effect needs none
}

func (a Action) String() string {
	switch a.Type {
	case ActionPlayPokemon:
		if a.Slot == 0 {
			return fmt.Sprintf("P%d plays %s as Active", a.Actor+1, a.Card.Name)
		}
		return fmt.Sprintf("P%d plays %s to Bench %d", a.Actor+1, a.Card.Name, a.Slot)
	case ActionEvolve:
		return fmt.Sprintf("P%d evolves slot %d into %s", a.Actor+1, a.Slot, a.Card.Name)
	case ActionPlayTrainer:
		if a.Card.TrainerKind == TrainerTool {
			return fmt.Sprintf("P%d attaches %s to slot %d", a.Actor+1, a.Card.Name, a.Slot)
		}
		return fmt.Sprintf("P%d plays %s (target %d)", a.Actor+1, a.Card.Name, a.Target)
	case ActionAttachEnergy:
		return fmt.Sprintf("P%d attaches energy to slot %d", a.Actor+1, a.Slot)
	case ActionAttack:
		return fmt.Sprintf("P%d attacks with attack %d (target %d)", a.Actor+1, a.Attack, a.Target)
	case ActionUseAbility:
		return fmt.Sprintf("P%d uses ability of slot %d (target %d)", a.Actor+1, a.Slot, a.Target)
	case ActionRetreat:
		return fmt.Sprintf("P%d retreats to Bench %d", a.Actor+1, a.Slot)
	case ActionPromote:
		return fmt.Sprintf("P%d promotes Bench %d", a.Actor+1, a.Slot)
	case ActionEndTurn:
		return fmt.Sprintf("P%d ends turn", a.Actor+1)
	default:
		return fmt.Sprintf("P%d %s", a.Actor+1, a.Type)
	}
}

// Describe renders the action with card, attack and target names resolved against s.
func (a Action) Describe(s *State) string {
	p := s.Players[a.Actor]
	return describe(a, p.InPlay, s.Players[Opponent(a.Actor)].InPlay, p.CurrentEnergy)
}

// Describe renders an action the viewer may take using only what the viewer sees.
func (v *View) Describe(a Action) string {
	p := v.Player(a.Actor)
	return describe(a, p.InPlay, v.Player(Opponent(a.Actor)).InPlay, p.CurrentEnergy)
}

func describe(a Action, own, opp []*PlayedCard, energy EnergyType) string {
	name := func(slots []*PlayedCard, slot int) string {
		if slot >= 0 && slot < len(slots) && slots[slot] != nil {
			return slots[slot].Card.Name
		}
		return fmt.Sprintf("slot %d", slot)
	}
	// target names the slot chosen for the first targeted effect, if any.
	target := func(effects []Effect) string {
		for _, e := range effects {
			switch e.Kind.targeting() {
			case targetNone:
				continue
			case targetOpponentAny, targetOpponentBench:
				return " on " + name(opp, a.Target)
			default:
				return " on " + name(own, a.Target)
			}
		}
		return ""
	}
	switch a.Type {
	case ActionPlayPokemon:
		if a.Slot == 0 {
			return fmt.Sprintf("Play %s as Active", a.Card.Name)
		}
		return fmt.Sprintf("Play %s to the Bench", a.Card.Name)
	case ActionEvolve:
		return fmt.Sprintf("Evolve %s into %s", name(own, a.Slot), a.Card.Name)
	case ActionPlayTrainer:
		if a.Card.TrainerKind == TrainerTool {
			return fmt.Sprintf("Attach %s to %s", a.Card.Name, name(own, a.Slot))
		}
		return "Play " + a.Card.Name + target(a.Card.Effects)
	case ActionAttachEnergy:
		return fmt.Sprintf("Attach %s energy to %s", energy, name(own, a.Slot))
	case ActionAttack:
		if len(own) > 0 && own[0] != nil && a.Attack < len(own[0].Card.Attacks) {
			atk := own[0].Card.Attacks[a.Attack]
			return fmt.Sprintf("%s uses %s", own[0].Card.Name, atk.Name) + target(atk.Effects)
		}
	case ActionUseAbility:
		if a.Slot >= 0 && a.Slot < len(own) {
			if pc := own[a.Slot]; pc != nil && pc.Card.Ability != nil {
				return fmt.Sprintf("%s uses %s", pc.Card.Name, pc.Card.Ability.Name) + target(pc.Card.Ability.Effects)
			}
		}
	case ActionRetreat:
		return fmt.Sprintf("Retreat to %s", name(own, a.Slot))
	case ActionPromote:
		return fmt.Sprintf("Promote %s", name(own, a.Slot))
	case ActionEndTurn:
		return "End turn"
	}
	return a.String()
}

func containsAction(actions []Action, a Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}
