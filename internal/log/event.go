package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventNewTurn
	EventShuffle
	EventMulligan
	EventDraw
	EventPlaceActive
	EventPlaceBench
	EventEvolve
	EventPlayTrainer
	EventAttachEnergy
	EventAttachTool
	EventEnergyGenerated
	EventAttackDeclare
	EventDamage
	EventHeal
	EventCoinFlip
	EventStatus
	EventStatusCleared
	EventAbility
	EventRetreat
	EventSwitch
	EventPromote
	EventKnockout
	EventPoints
	EventDiscardEnergy
	EventAddToHand
	EventWin
	EventTie
	EventDeckOut
	EventAborted
)

func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "PhaseChange"
	case EventNewTurn:
		return "NewTurn"
	case EventShuffle:
		return "Shuffle"
	case EventMulligan:
		return "Mulligan"
	case EventDraw:
		return "Draw"
	case EventPlaceActive:
		return "PlaceActive"
	case EventPlaceBench:
		return "PlaceBench"
	case EventEvolve:
		return "Evolve"
	case EventPlayTrainer:
		return "PlayTrainer"
	case EventAttachEnergy:
		return "AttachEnergy"
	case EventAttachTool:
		return "AttachTool"
	case EventEnergyGenerated:
		return "EnergyGenerated"
	case EventAttackDeclare:
		return "AttackDeclare"
	case EventDamage:
		return "Damage"
	case EventHeal:
		return "Heal"
	case EventCoinFlip:
		return "CoinFlip"
	case EventStatus:
		return "Status"
	case EventStatusCleared:
		return "StatusCleared"
	case EventAbility:
		return "Ability"
	case EventRetreat:
		return "Retreat"
	case EventSwitch:
		return "Switch"
	case EventPromote:
		return "Promote"
	case EventKnockout:
		return "Knockout"
	case EventPoints:
		return "Points"
	case EventDiscardEnergy:
		return "DiscardEnergy"
	case EventAddToHand:
		return "AddToHand"
	case EventWin:
		return "Win"
	case EventTie:
		return "Tie"
	case EventDeckOut:
		return "DeckOut"
	case EventAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a game.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (0 during setup)
	Phase   string    // current phase name (e.g. "Action Phase")
	Player  int       // acting or affected player (0 or 1)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Amount  int       // damage, heal, points or energy count (if applicable)
	Details string    // human-readable detail string
}
