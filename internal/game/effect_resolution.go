package game

import (
	"github.com/peterkuimelis/tcgsim/internal/log"
)

// effectCtx carries who is resolving an effect list and from where.
type effectCtx struct {
	player int
	source int // slot of the Pokémon whose attack or ability this is, -1 for trainers
	target int // chosen slot for the targeted effect
	name   string
}

func (r *Resolver) resolveEffects(s *State, ctx effectCtx, effects []Effect) {
	for _, e := range effects {
		r.resolveEffect(s, ctx, e)
	}
}

// resolveEffect interprets one effect. Effects whose subject is gone (an empty
// slot, a target that is no longer valid) do nothing.
func (r *Resolver) resolveEffect(s *State, ctx effectCtx, e Effect) {
	me := ctx.player
	oppIdx := Opponent(me)
	p := s.Players[me]
	opp := s.Players[oppIdx]
	phase := s.Phase.String()

	var source *PlayedCard
	if ctx.source >= 0 {
		source = p.InPlay[ctx.source]
	}

	switch e.Kind {
	case EffectHealSelf:
		r.heal(s, me, source, e.Amount)
	case EffectHealActive:
		r.heal(s, me, p.Active(), e.Amount)
	case EffectHealTarget:
		if validTarget(s, me, e, ctx.target) {
			r.heal(s, me, p.InPlay[ctx.target], e.Amount)
		}
	case EffectHealAll:
		for _, pc := range p.InPlay {
			r.heal(s, me, pc, e.Amount)
		}

	case EffectDraw:
		for i := 0; i < max(1, e.Count); i++ {
			card := p.DrawCard()
			if card == nil {
				break
			}
			r.emit(log.NewDrawEvent(s.Turn, phase, me, card.Name))
		}
	case EffectSearchBasic:
		var basics []int
		for i, c := range p.Deck {
			if c.IsBasic() {
				basics = append(basics, i)
			}
		}
		if len(basics) == 0 {
			return
		}
		i := basics[r.rng.IntN(len(basics))]
		card := p.Deck[i]
		p.Deck = append(p.Deck[:i:i], p.Deck[i+1:]...)
		p.Hand = append(p.Hand, card)
		r.emit(log.NewAddToHandEvent(s.Turn, phase, me, card.Name, ctx.name))
		r.shuffleDeck(s, me)

	case EffectPoison:
		if d := opp.Active(); d != nil && !d.Poisoned {
			d.Poisoned = true
			r.emit(log.NewStatusEvent(s.Turn, phase, oppIdx, d.Card.Name, "Poisoned"))
		}
	case EffectSleep:
		if d := opp.Active(); d != nil && !d.Asleep {
			d.Asleep = true
			r.emit(log.NewStatusEvent(s.Turn, phase, oppIdx, d.Card.Name, "Asleep"))
		}
	case EffectParalyzeOnHeads:
		if d := opp.Active(); d != nil && r.flipCoin(s, me) {
			d.Paralyzed = true
			r.emit(log.NewStatusEvent(s.Turn, phase, oppIdx, d.Card.Name, "Paralyzed"))
		}

	case EffectDiscardEnergySelf:
		if source == nil {
			return
		}
		n := e.Count
		if n <= 0 {
			n = len(source.Energy)
		}
		if removed := source.discardEnergy(e.Energy, n); removed > 0 {
			p.DiscardedEnergy += removed
			r.emit(log.NewDiscardEnergyEvent(s.Turn, phase, me, source.Card.Name, removed))
		}
	case EffectRecoil:
		if source != nil {
			r.damage(s, me, ctx.source, e.Amount, "recoil")
		}
	case EffectBenchDamageAll:
		for _, slot := range opp.Bench() {
			r.damage(s, oppIdx, slot, e.Amount, ctx.name)
		}
	case EffectSnipe:
		if validTarget(s, me, e, ctx.target) {
			r.damage(s, oppIdx, ctx.target, e.Amount, ctx.name)
		}

	case EffectAttachEnergyBench:
		if validTarget(s, me, e, ctx.target) {
			r.attachGenerated(s, me, p.InPlay[ctx.target], e.Energy, max(1, e.Count))
		}
	case EffectAttachEnergyActive:
		r.attachGenerated(s, me, p.Active(), e.Energy, max(1, e.Count))
	case EffectFlipAttachEnergy:
		if !validTarget(s, me, e, ctx.target) {
			return
		}
		heads := 0
		for heads < maxFlips && r.flipCoin(s, me) {
			heads++
		}
		r.attachGenerated(s, me, p.InPlay[ctx.target], e.Energy, heads)

	case EffectDamageReduction:
		if source != nil {
			source.Effects = append(source.Effects, TimedEffect{Effect: e, Duration: durationOr(e, 1), Source: ctx.name})
		}
	case EffectCannotAttackNextTurn:
		if source != nil {
			source.Effects = append(source.Effects, TimedEffect{Effect: e, Duration: durationOr(e, 2), Source: ctx.name})
		}

	case EffectDamageBoost:
		p.TurnModifiers = append(p.TurnModifiers, Modifier{Flat: e.Amount, Source: ctx.name})
	case EffectMultiply:
		pct := e.Amount
		if pct <= 0 {
			pct = 200
		}
		p.TurnModifiers = append(p.TurnModifiers, Modifier{Percent: pct, Source: ctx.name})
	case EffectRetreatDiscount:
		p.RetreatDiscount += e.Amount

	case EffectSwitchOpponent:
		if validTarget(s, me, e, ctx.target) {
			r.switchActive(s, oppIdx, ctx.target)
		}
	case EffectSwitchSelf:
		if validTarget(s, me, e, ctx.target) {
			r.switchActive(s, me, ctx.target)
		}
	case EffectShuffleHandDraw:
		opp.Deck = append(opp.Deck, opp.Hand...)
		opp.Hand = nil
		r.shuffleDeck(s, oppIdx)
		for i := 0; i < e.Count; i++ {
			card := opp.DrawCard()
			if card == nil {
				break
			}
			r.emit(log.NewDrawEvent(s.Turn, phase, oppIdx, card.Name))
		}

	case EffectHPBonus, EffectRetaliate:
		// Tool effects are read where they apply.
	}
}

func durationOr(e Effect, def int) int {
	if e.Duration > 0 {
		return e.Duration
	}
	return def
}

func (r *Resolver) heal(s *State, player int, pc *PlayedCard, amount int) {
	if pc == nil {
		return
	}
	if healed := pc.Heal(amount); healed > 0 {
		r.emit(log.NewHealEvent(s.Turn, s.Phase.String(), player, pc.Card.Name, healed))
	}
}

// attachGenerated attaches energy created by an effect rather than the energy zone.
func (r *Resolver) attachGenerated(s *State, player int, pc *PlayedCard, t EnergyType, n int) {
	if pc == nil || n <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		pc.Energy = append(pc.Energy, t)
	}
	r.emit(log.NewAttachEnergyEvent(s.Turn, s.Phase.String(), player, pc.Card.Name, t.String(), n))
}

// switchActive swaps a player's active Pokémon with a benched one.
func (r *Resolver) switchActive(s *State, player, slot int) {
	p := s.Players[player]
	old, next := p.InPlay[0], p.InPlay[slot]
	if next == nil {
		return
	}
	if old != nil {
		old.clearActiveOnly()
	}
	p.InPlay[0], p.InPlay[slot] = next, old
	from := "empty"
	if old != nil {
		from = old.Card.Name
	}
	r.emit(log.NewSwitchEvent(s.Turn, s.Phase.String(), player, from, next.Card.Name))
}

func (r *Resolver) shuffleDeck(s *State, player int) {
	deck := s.Players[player].Deck
	r.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	r.emit(log.NewShuffleEvent(s.Turn, s.Phase.String(), player))
}
