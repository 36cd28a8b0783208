package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- NopLogger: discards everything, used for batch simulation ---

type NopLogger struct{}

func (NopLogger) Log(GameEvent)       {}
func (NopLogger) Events() []GameEvent { return nil }

// --- Formatting ---

// playerName returns "P1" or "P2" for display.
func playerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	for len(phase) < 13 {
		phase += " "
	}

	return fmt.Sprintf("T%-3d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewPhaseChangeEvent(turn int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Turn Start",
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, playerName(player)),
	}
}

func NewShuffleEvent(turn int, phase string, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventShuffle,
		Details: fmt.Sprintf("%s shuffled their deck", playerName(player)),
	}
}

func NewMulliganEvent(player int, attempt int) GameEvent {
	return GameEvent{
		Phase:   "Setup",
		Player:  player,
		Type:    EventMulligan,
		Amount:  attempt,
		Details: fmt.Sprintf("%s has no Basic Pokémon and redraws (mulligan %d)", playerName(player), attempt),
	}
}

func NewDrawEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s", playerName(player), cardName),
	}
}

func NewPlaceActiveEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlaceActive,
		Card:    cardName,
		Details: fmt.Sprintf("%s places %s as Active", playerName(player), cardName),
	}
}

func NewPlaceBenchEvent(turn int, phase string, player int, cardName string, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlaceBench,
		Card:    cardName,
		Details: fmt.Sprintf("%s places %s on Bench %d", playerName(player), cardName, slot),
	}
}

func NewEvolveEvent(turn int, phase string, player int, from, to string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEvolve,
		Card:    to,
		Details: fmt.Sprintf("%s evolves %s into %s", playerName(player), from, to),
	}
}

func NewPlayTrainerEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlayTrainer,
		Card:    cardName,
		Details: fmt.Sprintf("%s plays %s", playerName(player), cardName),
	}
}

func NewEnergyGeneratedEvent(turn int, phase string, player int, energy string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEnergyGenerated,
		Details: fmt.Sprintf("%s's energy zone generates %s energy", playerName(player), energy),
	}
}

func NewAttachEnergyEvent(turn int, phase string, player int, cardName string, energy string, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAttachEnergy,
		Card:    cardName,
		Amount:  count,
		Details: fmt.Sprintf("%s attaches %d %s energy to %s", playerName(player), count, energy, cardName),
	}
}

func NewAttachToolEvent(turn int, phase string, player int, toolName, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAttachTool,
		Card:    toolName,
		Details: fmt.Sprintf("%s attaches %s to %s", playerName(player), toolName, cardName),
	}
}

func NewAttackDeclareEvent(turn int, player int, attacker, attack, defender string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Action Phase",
		Player:  player,
		Type:    EventAttackDeclare,
		Card:    attacker,
		Details: fmt.Sprintf("%s's %s uses %s on %s", playerName(player), attacker, attack, defender),
	}
}

func NewDamageEvent(turn int, phase string, player int, cardName string, amount, remaining int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDamage,
		Card:    cardName,
		Amount:  amount,
		Details: fmt.Sprintf("%s's %s takes %d damage (%d HP left, %s)", playerName(player), cardName, amount, remaining, reason),
	}
}

func NewHealEvent(turn int, phase string, player int, cardName string, amount int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventHeal,
		Card:    cardName,
		Amount:  amount,
		Details: fmt.Sprintf("%s's %s heals %d damage", playerName(player), cardName, amount),
	}
}

func NewCoinFlipEvent(turn int, phase string, player int, heads bool) GameEvent {
	result, amount := "tails", 0
	if heads {
		result, amount = "heads", 1
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventCoinFlip,
		Amount:  amount,
		Details: fmt.Sprintf("%s flips a coin: %s", playerName(player), result),
	}
}

func NewStatusEvent(turn int, phase string, player int, cardName, status string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventStatus,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s is now %s", playerName(player), cardName, status),
	}
}

func NewStatusClearedEvent(turn int, phase string, player int, cardName, status string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventStatusCleared,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s is no longer %s", playerName(player), cardName, status),
	}
}

func NewAbilityEvent(turn int, phase string, player int, cardName, ability string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAbility,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s uses %s", playerName(player), cardName, ability),
	}
}

func NewRetreatEvent(turn int, phase string, player int, from, to string, paid int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventRetreat,
		Card:    from,
		Amount:  paid,
		Details: fmt.Sprintf("%s retreats %s (paid %d energy), %s is now Active", playerName(player), from, paid, to),
	}
}

func NewSwitchEvent(turn int, phase string, player int, from, to string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSwitch,
		Card:    to,
		Details: fmt.Sprintf("%s's %s is switched out for %s", playerName(player), from, to),
	}
}

func NewPromoteEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPromote,
		Card:    cardName,
		Details: fmt.Sprintf("%s promotes %s to Active", playerName(player), cardName),
	}
}

func NewKnockoutEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventKnockout,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s is knocked out", playerName(player), cardName),
	}
}

func NewPointsEvent(turn int, phase string, player int, gained, total int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPoints,
		Amount:  gained,
		Details: fmt.Sprintf("%s gains %d point(s) (%d total)", playerName(player), gained, total),
	}
}

func NewDiscardEnergyEvent(turn int, phase string, player int, cardName string, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDiscardEnergy,
		Card:    cardName,
		Amount:  count,
		Details: fmt.Sprintf("%s discards %d energy from %s", playerName(player), count, cardName),
	}
}

func NewAddToHandEvent(turn int, phase string, player int, cardName string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAddToHand,
		Card:    cardName,
		Details: fmt.Sprintf("%s is added to %s's hand (%s)", cardName, playerName(player), reason),
	}
}

func NewWinEvent(turn int, phase string, winner int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", playerName(winner), reason),
	}
}

func NewTieEvent(turn int, phase string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventTie,
		Details: fmt.Sprintf("Game ends in a tie (%s)", reason),
	}
}

func NewDeckOutEvent(turn int, phase string, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDeckOut,
		Details: fmt.Sprintf("%s must draw but their deck is empty", playerName(player)),
	}
}

func NewAbortedEvent(turn int, phase string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventAborted,
		Details: fmt.Sprintf("Game aborted: %s", reason),
	}
}
