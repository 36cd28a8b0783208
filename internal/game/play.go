package game

import (
	"fmt"

	"github.com/peterkuimelis/tcgsim/internal/log"
)

// playPokemon puts a Basic Pokémon from hand into an empty slot.
func (r *Resolver) playPokemon(s *State, a Action) error {
	p := s.Players[a.Actor]
	if p.InPlay[a.Slot] != nil {
		return fmt.Errorf("slot %d is occupied", a.Slot)
	}
	card := p.removeFromHand(a.Hand)
	pc := NewPlayedCard(card)
	p.InPlay[a.Slot] = pc

	phase := s.Phase.String()
	if a.Slot == 0 {
		r.emit(log.NewPlaceActiveEvent(s.Turn, phase, a.Actor, card.Name))
	} else {
		r.emit(log.NewPlaceBenchEvent(s.Turn, phase, a.Actor, card.Name, a.Slot))
	}

	if s.Phase == PhaseSetup {
		pc.PlayedThisTurn = false
		return nil
	}
	r.onPlay(s, a.Actor, a.Slot)
	return nil
}

// evolve places an evolution card on top of the Pokémon in a slot.
// Damage and energy carry over; special conditions and timed effects do not.
func (r *Resolver) evolve(s *State, a Action) error {
	p := s.Players[a.Actor]
	pc := p.InPlay[a.Slot]
	if pc == nil {
		return fmt.Errorf("no Pokémon in slot %d", a.Slot)
	}
	card := p.removeFromHand(a.Hand)
	from := pc.Card.Name
	pc.Behind = append(pc.Behind, pc.Card)
	pc.Card = card
	pc.PlayedThisTurn = true
	pc.clearActiveOnly()

	r.emit(log.NewEvolveEvent(s.Turn, s.Phase.String(), a.Actor, from, card.Name))
	r.onPlay(s, a.Actor, a.Slot)
	return nil
}

// onPlay fires an OnPlay ability of the Pokémon that just entered the slot.
func (r *Resolver) onPlay(s *State, player, slot int) {
	pc := s.Players[player].InPlay[slot]
	ab := pc.Card.Ability
	if ab == nil || ab.Trigger != TriggerOnPlay {
		return
	}
	r.emit(log.NewAbilityEvent(s.Turn, s.Phase.String(), player, pc.Card.Name, ab.Name))
	r.resolveEffects(s, effectCtx{player: player, source: slot, name: ab.Name}, ab.Effects)
	r.resolveKnockouts(s)
}

// playTrainer resolves an Item or Supporter, or attaches a Tool.
func (r *Resolver) playTrainer(s *State, a Action) error {
	p := s.Players[a.Actor]
	card := p.removeFromHand(a.Hand)
	phase := s.Phase.String()

	if card.TrainerKind == TrainerTool {
		pc := p.InPlay[a.Slot]
		if pc == nil || pc.Tool != nil {
			return fmt.Errorf("cannot attach %s to slot %d", card.Name, a.Slot)
		}
		pc.Tool = card
		r.emit(log.NewAttachToolEvent(s.Turn, phase, a.Actor, card.Name, pc.Card.Name))
		return nil
	}

	r.emit(log.NewPlayTrainerEvent(s.Turn, phase, a.Actor, card.Name))
	if card.TrainerKind == TrainerSupporter {
		p.SupporterPlayed = true
	}
	r.resolveEffects(s, effectCtx{player: a.Actor, source: -1, target: a.Target, name: card.Name}, card.Effects)
	p.Discard = append(p.Discard, card)
	r.resolveKnockouts(s)
	return nil
}

// attachEnergy moves the turn's generated energy onto a slot.
func (r *Resolver) attachEnergy(s *State, a Action) error {
	p := s.Players[a.Actor]
	pc := p.InPlay[a.Slot]
	if pc == nil {
		return fmt.Errorf("no Pokémon in slot %d", a.Slot)
	}
	pc.Energy = append(pc.Energy, p.CurrentEnergy)
	p.EnergyAvailable = false
	r.emit(log.NewAttachEnergyEvent(s.Turn, s.Phase.String(), a.Actor, pc.Card.Name, p.CurrentEnergy.String(), 1))
	return nil
}

func (r *Resolver) useAbility(s *State, a Action) error {
	p := s.Players[a.Actor]
	pc := p.InPlay[a.Slot]
	if pc == nil || pc.Card.Ability == nil {
		return fmt.Errorf("no ability in slot %d", a.Slot)
	}
	ab := pc.Card.Ability
	pc.AbilityUsed = true
	r.emit(log.NewAbilityEvent(s.Turn, s.Phase.String(), a.Actor, pc.Card.Name, ab.Name))
	r.resolveEffects(s, effectCtx{player: a.Actor, source: a.Slot, target: a.Target, name: ab.Name}, ab.Effects)
	r.resolveKnockouts(s)
	return nil
}

// retreat pays the retreat cost from the active Pokémon, swaps it with a
// benched one, and ends the action phase.
func (r *Resolver) retreat(s *State, a Action) error {
	p := s.Players[a.Actor]
	active := p.Active()
	bench := p.InPlay[a.Slot]
	if active == nil || bench == nil || a.Slot == 0 {
		return fmt.Errorf("cannot retreat to slot %d", a.Slot)
	}
	cost := effectiveRetreatCost(p, active)
	paid := active.discardEnergy(EnergyColorless, cost)
	if paid < cost {
		return fmt.Errorf("retreat cost %d, only %d energy attached", cost, paid)
	}
	p.DiscardedEnergy += paid
	active.clearActiveOnly()
	p.InPlay[0], p.InPlay[a.Slot] = bench, active
	p.Retreated = true

	r.emit(log.NewRetreatEvent(s.Turn, s.Phase.String(), a.Actor, active.Card.Name, bench.Card.Name, paid))
	r.endActionPhase(s)
	return nil
}

// promote fills an empty active slot from the bench after a knockout.
func (r *Resolver) promote(s *State, a Action) error {
	p := s.Players[a.Actor]
	if p.InPlay[0] != nil {
		return fmt.Errorf("active slot is occupied")
	}
	pc := p.InPlay[a.Slot]
	if pc == nil || a.Slot == 0 {
		return fmt.Errorf("no Pokémon in bench slot %d", a.Slot)
	}
	p.InPlay[0], p.InPlay[a.Slot] = pc, nil
	s.PendingPromotions = s.PendingPromotions[1:]
	r.emit(log.NewPromoteEvent(s.Turn, s.Phase.String(), a.Actor, pc.Card.Name))
	return nil
}

// endTurn confirms setup placement, or ends the action phase.
func (r *Resolver) endTurn(s *State, a Action) error {
	if s.Phase == PhaseSetup {
		s.SetupDone[a.Actor] = true
		if other := Opponent(a.Actor); !s.SetupDone[other] {
			s.Current = other
		}
		return nil
	}
	r.endActionPhase(s)
	return nil
}

func (r *Resolver) endActionPhase(s *State) {
	s.Phase = PhaseTurnEnd
	s.CheckupDone = false
	r.emit(log.NewPhaseChangeEvent(s.Turn, PhaseTurnEnd.String()))
}
