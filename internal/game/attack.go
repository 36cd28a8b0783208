package game

import (
	"fmt"

	"github.com/peterkuimelis/tcgsim/internal/log"
)

// maxFlips bounds flip-until-tails loops.
const maxFlips = 32

// attack resolves one attack of the active Pokémon and ends the action phase.
// Order: base-damage effects (coin flips), modifiers, damage to the defender,
// tool reactions, remaining effects, knockouts.
func (r *Resolver) attack(s *State, a Action) error {
	me := a.Actor
	opp := Opponent(me)
	attacker := s.Players[me].Active()
	defender := s.Players[opp].Active()
	if attacker == nil || defender == nil {
		return fmt.Errorf("attack needs both active Pokémon")
	}
	if a.Attack < 0 || a.Attack >= len(attacker.Card.Attacks) {
		return fmt.Errorf("%s has no attack %d", attacker.Card.Name, a.Attack)
	}
	atk := &attacker.Card.Attacks[a.Attack]
	if !CostSatisfied(attacker.Energy, atk.Cost) {
		return fmt.Errorf("%s: energy cost not met", atk.Name)
	}
	r.emit(log.NewAttackDeclareEvent(s.Turn, me, attacker.Card.Name, atk.Name, defender.Card.Name))

	base, ok := r.baseDamage(s, me, atk, defender)
	if !ok {
		r.endActionPhase(s)
		return nil
	}

	if dmg := AttackDamage(s, me, attacker, defender, base); dmg > 0 {
		r.damage(s, opp, 0, dmg, atk.Name)
		if defender.Tool != nil {
			for _, e := range defender.Tool.Effects {
				if e.Kind == EffectRetaliate {
					r.damage(s, me, 0, e.Amount, defender.Tool.Name)
				}
			}
		}
	}

	ctx := effectCtx{player: me, source: 0, target: a.Target, name: atk.Name}
	for _, e := range atk.Effects {
		if !e.Kind.preDamage() {
			r.resolveEffect(s, ctx, e)
		}
	}

	r.resolveKnockouts(s)
	r.endActionPhase(s)
	return nil
}

// baseDamage applies the base-damage effects in declaration order. It returns
// false when a coin cancelled the attack.
func (r *Resolver) baseDamage(s *State, me int, atk *Attack, defender *PlayedCard) (int, bool) {
	base := atk.Damage
	for _, e := range atk.Effects {
		switch e.Kind {
		case EffectCoinBonus:
			if r.flipCoin(s, me) {
				base += e.Amount
			}
		case EffectCoinOrNothing:
			if !r.flipCoin(s, me) {
				return 0, false
			}
		case EffectFlipDamage:
			heads := 0
			for i := 0; i < max(1, e.Count); i++ {
				if r.flipCoin(s, me) {
					heads++
				}
			}
			base = e.Amount * heads
		case EffectFlipUntilTailsDamage:
			heads := 0
			for heads < maxFlips && r.flipCoin(s, me) {
				heads++
			}
			base = e.Amount * heads
		case EffectExtraIfDamaged:
			if defender.IsDamaged() {
				base += e.Amount
			}
		}
	}
	return base, true
}

// AttackDamage applies modifiers to base damage. Modifiers apply only when base is
// positive. All flat modifiers (turn boosts in the order they were played,
// weakness, then the defender's reductions) are summed first; percent multipliers
// follow in the order they were played. The result is never negative.
func AttackDamage(s *State, attacker int, atk, def *PlayedCard, base int) int {
	if base <= 0 {
		return 0
	}
	flat := 0
	var percents []int
	for _, m := range s.Players[attacker].TurnModifiers {
		flat += m.Flat
		if m.Percent > 0 {
			percents = append(percents, m.Percent)
		}
	}
	if def.Card.HasWeakness(atk.Card.Type) {
		flat += s.Rules.WeaknessBonus
	}
	for _, te := range def.Effects {
		if te.Effect.Kind == EffectDamageReduction {
			flat -= te.Effect.Amount
		}
	}
	if ab := def.Card.Ability; ab != nil && ab.Trigger == TriggerPassive {
		for _, e := range ab.Effects {
			if e.Kind == EffectDamageReduction {
				flat -= e.Amount
			}
		}
	}

	dmg := base + flat
	for _, pct := range percents {
		dmg = dmg * pct / 100
	}
	return max(0, dmg)
}

// damage puts damage on a slot. Knockouts are resolved separately.
func (r *Resolver) damage(s *State, player, slot, amount int, reason string) {
	pc := s.Players[player].InPlay[slot]
	if pc == nil || amount <= 0 {
		return
	}
	pc.Damage += amount
	r.emit(log.NewDamageEvent(s.Turn, s.Phase.String(), player, pc.Card.Name, amount, pc.RemainingHP(), reason))
}

// resolveKnockouts discards every Pokémon whose damage reached its HP, awards
// points to the other player, and queues promotions for emptied active slots.
func (r *Resolver) resolveKnockouts(s *State) {
	phase := s.Phase.String()
	for p := 0; p < 2; p++ {
		ps := s.Players[p]
		for slot, pc := range ps.InPlay {
			if pc == nil || !pc.IsKnockedOut() {
				continue
			}
			ps.InPlay[slot] = nil
			ps.Discard = append(ps.Discard, pc.cards()...)
			ps.DiscardedEnergy += len(pc.Energy)
			r.emit(log.NewKnockoutEvent(s.Turn, phase, p, pc.Card.Name))

			scorer := s.Players[Opponent(p)]
			pts := s.Rules.KnockoutValue(pc.Card)
			scorer.Points += pts
			r.emit(log.NewPointsEvent(s.Turn, phase, Opponent(p), pts, scorer.Points))
		}
		if ps.Active() == nil && len(ps.Bench()) > 0 && !pendingFor(s, p) {
			s.PendingPromotions = append(s.PendingPromotions, p)
		}
	}
}

func pendingFor(s *State, player int) bool {
	for _, p := range s.PendingPromotions {
		if p == player {
			return true
		}
	}
	return false
}
