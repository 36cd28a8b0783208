package player

import (
	"math/rand/v2"

	"github.com/peterkuimelis/tcgsim/internal/game"
)

// Heuristic plays by fixed priorities, in the order a sensible player develops a
// turn: evolve, fill the bench, play trainers and abilities, attach energy,
// retreat a stuck active, then attack, preferring attacks that knock out.
type Heuristic struct {
	rng *rand.Rand
}

func NewHeuristic(seed uint64) *Heuristic {
	return &Heuristic{rng: newRand(seed)}
}

func (h *Heuristic) ChooseAction(view *game.View, actions []game.Action) (game.Action, error) {
	if view.Phase == game.PhaseSetup {
		return h.setup(view, actions), nil
	}
	if actions[0].Type == game.ActionPromote {
		return bestPromotion(view, actions), nil
	}

	steps := []func(*game.View, []game.Action) (game.Action, bool){
		h.evolve,
		h.bench,
		h.trainer,
		h.ability,
		h.attach,
		h.retreat,
		h.boost,
		h.attack,
	}
	for _, step := range steps {
		if a, ok := step(view, actions); ok {
			return a, nil
		}
	}
	if a, ok := find(actions, game.ActionEndTurn); ok {
		return a, nil
	}
	return actions[0], nil
}

// setup puts the sturdiest Basic in the active slot and benches the rest.
func (h *Heuristic) setup(view *game.View, actions []game.Action) game.Action {
	best, found := game.Action{}, false
	for _, a := range actions {
		if a.Type != game.ActionPlayPokemon {
			continue
		}
		if !found || a.Card.HP > best.Card.HP {
			best, found = a, true
		}
	}
	if found {
		return best
	}
	return actions[0]
}

func (h *Heuristic) evolve(view *game.View, actions []game.Action) (game.Action, bool) {
	best, found := game.Action{}, false
	for _, a := range actions {
		if a.Type != game.ActionEvolve {
			continue
		}
		if !found || a.Slot == 0 || a.Card.HP > best.Card.HP && best.Slot != 0 {
			best, found = a, true
		}
	}
	return best, found
}

func (h *Heuristic) bench(view *game.View, actions []game.Action) (game.Action, bool) {
	return find(actions, game.ActionPlayPokemon)
}

func (h *Heuristic) trainer(view *game.View, actions []game.Action) (game.Action, bool) {
	best, found := game.Action{}, false
	bestScore := 0
	for _, a := range actions {
		if a.Type != game.ActionPlayTrainer {
			continue
		}
		score, ok := trainerScore(view, a)
		if ok && (!found || score > bestScore) {
			best, bestScore, found = a, score, true
		}
	}
	return best, found
}

// trainerScore rates a trainer play. Boosts wait for the attack and switching
// waits for a reason to leave the active slot.
func trainerScore(view *game.View, a game.Action) (int, bool) {
	if a.Card.TrainerKind == game.TrainerTool {
		if a.Slot == 0 {
			return 2, true
		}
		return 1, true
	}
	score := 1
	for _, e := range a.Card.Effects {
		switch e.Kind {
		case game.EffectDamageBoost, game.EffectMultiply:
			return 0, false
		case game.EffectSwitchSelf, game.EffectRetreatDiscount:
			if !wantsToLeaveActive(view) {
				return 0, false
			}
		case game.EffectHealTarget:
			if pc := view.Self.InPlay[a.Target]; pc != nil {
				score += pc.Damage
			}
		case game.EffectSwitchOpponent:
			opp := view.Opponent.Active()
			pc := view.Opponent.InPlay[a.Target]
			if opp == nil || pc == nil || pc.RemainingHP() >= opp.RemainingHP() {
				return 0, false
			}
			score += opp.RemainingHP() - pc.RemainingHP()
		}
	}
	return score, true
}

func (h *Heuristic) ability(view *game.View, actions []game.Action) (game.Action, bool) {
	best, found := game.Action{}, false
	for _, a := range actions {
		if a.Type != game.ActionUseAbility {
			continue
		}
		if !found || targetHP(view, a.Target) < targetHP(view, best.Target) {
			best, found = a, true
		}
	}
	return best, found
}

// targetHP is the remaining HP of an opponent slot, large when empty.
func targetHP(view *game.View, slot int) int {
	if slot < len(view.Opponent.InPlay) {
		if pc := view.Opponent.InPlay[slot]; pc != nil {
			return pc.RemainingHP()
		}
	}
	return 1 << 20
}

// attach feeds the active until its strongest attack is paid for, then the
// benched Pokémon closest to attacking.
func (h *Heuristic) attach(view *game.View, actions []game.Action) (game.Action, bool) {
	best, found := game.Action{}, false
	bestMissing := 0
	for _, a := range actions {
		if a.Type != game.ActionAttachEnergy {
			continue
		}
		pc := view.Self.InPlay[a.Slot]
		missing := missingForStrongest(pc)
		if missing == 0 {
			continue
		}
		if a.Slot == 0 {
			return a, true
		}
		if !found || missing < bestMissing {
			best, bestMissing, found = a, missing, true
		}
	}
	if found {
		return best, true
	}
	for _, a := range actions {
		if a.Type == game.ActionAttachEnergy && a.Slot == 0 {
			return a, true
		}
	}
	return game.Action{}, false
}

func missingForStrongest(pc *game.PlayedCard) int {
	if pc == nil || len(pc.Card.Attacks) == 0 {
		return 0
	}
	strongest := pc.Card.Attacks[0]
	for _, atk := range pc.Card.Attacks[1:] {
		if atk.Damage > strongest.Damage {
			strongest = atk
		}
	}
	if game.CostSatisfied(pc.Energy, strongest.Cost) {
		return 0
	}
	return max(1, game.MissingEnergy(pc.Energy, strongest.Cost))
}

func (h *Heuristic) retreat(view *game.View, actions []game.Action) (game.Action, bool) {
	if !wantsToLeaveActive(view) {
		return game.Action{}, false
	}
	for _, a := range actions {
		if a.Type == game.ActionRetreat && canAttackNow(view.Self.InPlay[a.Slot]) {
			return a, true
		}
	}
	return game.Action{}, false
}

// wantsToLeaveActive reports whether the active cannot attack this turn while a
// benched Pokémon could.
func wantsToLeaveActive(view *game.View) bool {
	active := view.Self.Active()
	if active == nil || canAttackNow(active) {
		return false
	}
	for _, slot := range view.Self.Bench() {
		if canAttackNow(view.Self.InPlay[slot]) {
			return true
		}
	}
	return false
}

func canAttackNow(pc *game.PlayedCard) bool {
	if pc == nil || !pc.CanAttack() {
		return false
	}
	for _, atk := range pc.Card.Attacks {
		if game.CostSatisfied(pc.Energy, atk.Cost) {
			return true
		}
	}
	return false
}

// boost plays damage boosts once an attack is available.
func (h *Heuristic) boost(view *game.View, actions []game.Action) (game.Action, bool) {
	if _, ok := find(actions, game.ActionAttack); !ok {
		return game.Action{}, false
	}
	for _, a := range actions {
		if a.Type != game.ActionPlayTrainer {
			continue
		}
		for _, e := range a.Card.Effects {
			if e.Kind == game.EffectDamageBoost || e.Kind == game.EffectMultiply {
				return a, true
			}
		}
	}
	return game.Action{}, false
}

func (h *Heuristic) attack(view *game.View, actions []game.Action) (game.Action, bool) {
	if _, ok := find(actions, game.ActionAttack); !ok {
		return game.Action{}, false
	}
	sandbox := view.Sandbox(h.rng)
	best, found := game.Action{}, false
	bestScore := 0.0
	for _, a := range actions {
		if a.Type != game.ActionAttack {
			continue
		}
		score := scoreAttack(sandbox, view.Me, a)
		if !found || score > bestScore {
			best, bestScore, found = a, score, true
		}
	}
	return best, found
}

// scoreAttack estimates an attack's value: expected damage to the defender,
// plus the knockout value when the damage is certain to knock out.
func scoreAttack(s *game.State, me int, a game.Action) float64 {
	self := s.Players[me]
	opp := s.Players[game.Opponent(me)]
	attacker := self.Active()
	defender := opp.Active()
	atk := &attacker.Card.Attacks[a.Attack]

	sure, expected := estimateBase(atk, defender)
	dealt := game.AttackDamage(s, me, attacker, defender, int(expected))
	score := float64(min(dealt, defender.RemainingHP()))
	if game.AttackDamage(s, me, attacker, defender, sure) >= defender.RemainingHP() {
		score += 1000 * float64(s.Rules.KnockoutValue(defender.Card))
	}
	for _, e := range atk.Effects {
		switch e.Kind {
		case game.EffectSnipe:
			if pc := opp.InPlay[a.Target]; pc != nil {
				score += float64(min(e.Amount, pc.RemainingHP()))
				if e.Amount >= pc.RemainingHP() {
					score += 1000 * float64(s.Rules.KnockoutValue(pc.Card))
				}
			}
		case game.EffectRecoil:
			score -= float64(e.Amount) / 2
		case game.EffectDiscardEnergySelf:
			score -= 10 * float64(max(1, e.Count))
		}
	}
	return score
}

// estimateBase returns the base damage an attack is sure to deal and its
// expectation over coin flips.
func estimateBase(atk *game.Attack, defender *game.PlayedCard) (sure int, expected float64) {
	sure = atk.Damage
	expected = float64(atk.Damage)
	for _, e := range atk.Effects {
		switch e.Kind {
		case game.EffectCoinBonus:
			expected += float64(e.Amount) / 2
		case game.EffectCoinOrNothing:
			sure = 0
			expected /= 2
		case game.EffectFlipDamage:
			sure = 0
			expected = float64(e.Amount*max(1, e.Count)) / 2
		case game.EffectFlipUntilTailsDamage:
			sure = 0
			expected = float64(e.Amount)
		case game.EffectExtraIfDamaged:
			if defender.IsDamaged() {
				sure += e.Amount
				expected += float64(e.Amount)
			}
		}
	}
	return sure, expected
}

// bestPromotion brings up the benched Pokémon that can attack soonest, breaking
// ties on remaining HP.
func bestPromotion(view *game.View, actions []game.Action) game.Action {
	p := view.Player(actions[0].Actor)
	best := actions[0]
	bestKey := [2]int{-1, -1}
	for _, a := range actions {
		pc := p.InPlay[a.Slot]
		if pc == nil {
			continue
		}
		ready := 0
		if canAttackNow(pc) {
			ready = 1
		}
		key := [2]int{ready, pc.RemainingHP()}
		if key[0] > bestKey[0] || key[0] == bestKey[0] && key[1] > bestKey[1] {
			best, bestKey = a, key
		}
	}
	return best
}
