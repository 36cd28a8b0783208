package game

// LegalActions returns the player who must decide next and every action they may take.
// The set is recomputed from scratch on each call; a terminal state has no actor.
func LegalActions(s *State) (int, []Action) {
	if s.Outcome != nil {
		return -1, nil
	}
	if len(s.PendingPromotions) > 0 {
		p := s.PendingPromotions[0]
		var actions []Action
		for _, slot := range s.Players[p].Bench() {
			actions = append(actions, Action{Type: ActionPromote, Actor: p, Slot: slot})
		}
		return p, actions
	}
	switch s.Phase {
	case PhaseSetup:
		return s.Current, setupActions(s)
	case PhaseAction:
		return s.Current, actionPhaseActions(s)
	}
	return s.Current, nil
}

func setupActions(s *State) []Action {
	me := s.Current
	p := s.Players[me]
	var actions []Action

	slot := 0
	if p.Active() != nil {
		slot = p.FreeBenchSlot()
	}
	if slot >= 0 {
		seen := make(map[*Card]bool)
		for i, c := range p.Hand {
			if !c.IsBasic() || seen[c] {
				continue
			}
			seen[c] = true
			actions = append(actions, Action{Type: ActionPlayPokemon, Actor: me, Hand: i, Card: c, Slot: slot})
		}
	}
	if p.Active() != nil {
		actions = append(actions, Action{Type: ActionEndTurn, Actor: me})
	}
	return actions
}

func actionPhaseActions(s *State) []Action {
	me := s.Current
	p := s.Players[me]
	opp := s.Players[Opponent(me)]
	var actions []Action

	// Cards from hand. Identical cards produce identical outcomes, so only the first copy is offered.
	seen := make(map[*Card]bool)
	for i, c := range p.Hand {
		if seen[c] {
			continue
		}
		seen[c] = true
		switch {
		case c.IsBasic():
			if free := p.FreeBenchSlot(); free > 0 {
				actions = append(actions, Action{Type: ActionPlayPokemon, Actor: me, Hand: i, Card: c, Slot: free})
			}
		case c.IsPokemon():
			if s.IsFirstTurnOf(me) {
				continue
			}
			for slot, pc := range p.InPlay {
				if pc != nil && !pc.PlayedThisTurn && pc.Card.Name == c.EvolvesFrom {
					actions = append(actions, Action{Type: ActionEvolve, Actor: me, Hand: i, Card: c, Slot: slot})
				}
			}
		case c.IsTrainer():
			actions = append(actions, trainerActions(s, me, i, c)...)
		}
	}

	if p.EnergyAvailable {
		for slot, pc := range p.InPlay {
			if pc != nil {
				actions = append(actions, Action{Type: ActionAttachEnergy, Actor: me, Slot: slot})
			}
		}
	}

	for slot, pc := range p.InPlay {
		if pc == nil || pc.AbilityUsed || pc.Card.Ability == nil {
			continue
		}
		ab := pc.Card.Ability
		if ab.Trigger != TriggerOncePerTurn || (ab.ActiveOnly && slot != 0) {
			continue
		}
		if !effectsUsable(s, me, ab.Effects, slot) {
			continue
		}
		targets, ok := effectTargets(s, me, ab.Effects, true)
		if !ok {
			continue
		}
		for _, t := range targets {
			actions = append(actions, Action{Type: ActionUseAbility, Actor: me, Slot: slot, Target: t})
		}
	}

	active := p.Active()
	if active != nil && !p.Retreated && active.CanRetreat() && len(active.Energy) >= effectiveRetreatCost(p, active) {
		for _, slot := range p.Bench() {
			actions = append(actions, Action{Type: ActionRetreat, Actor: me, Slot: slot})
		}
	}

	// The player going first may not attack on turn 1.
	if active != nil && opp.Active() != nil && s.Turn > 1 && active.CanAttack() {
		for i, atk := range active.Card.Attacks {
			if !CostSatisfied(active.Energy, atk.Cost) {
				continue
			}
			targets, _ := effectTargets(s, me, atk.Effects, false)
			for _, t := range targets {
				actions = append(actions, Action{Type: ActionAttack, Actor: me, Attack: i, Target: t})
			}
		}
	}

	actions = append(actions, Action{Type: ActionEndTurn, Actor: me})
	return actions
}

func trainerActions(s *State, me, hand int, c *Card) []Action {
	p := s.Players[me]
	if c.TrainerKind == TrainerSupporter && p.SupporterPlayed {
		return nil
	}
	var actions []Action
	if c.TrainerKind == TrainerTool {
		for slot, pc := range p.InPlay {
			if pc != nil && pc.Tool == nil {
				actions = append(actions, Action{Type: ActionPlayTrainer, Actor: me, Hand: hand, Card: c, Slot: slot})
			}
		}
		return actions
	}
	if len(c.Effects) == 0 || !effectsUsable(s, me, c.Effects, -1) {
		return nil
	}
	targets, ok := effectTargets(s, me, c.Effects, true)
	if !ok {
		return nil
	}
	for _, t := range targets {
		actions = append(actions, Action{Type: ActionPlayTrainer, Actor: me, Hand: hand, Card: c, Target: t})
	}
	return actions
}

// effectTargets lists the slots a player may choose for the single targeted effect in
// effects. Effects without a target yield {0}. When nothing is targetable, a required
// target makes the whole card unusable; otherwise the effect simply fizzles.
func effectTargets(s *State, me int, effects []Effect, required bool) ([]int, bool) {
	for _, e := range effects {
		if e.Kind.targeting() == targetNone {
			continue
		}
		targets := targetCandidates(s, me, e)
		if len(targets) == 0 {
			if required {
				return nil, false
			}
			return []int{0}, true
		}
		return targets, true
	}
	return []int{0}, true
}

func targetCandidates(s *State, me int, e Effect) []int {
	p := s.Players[me]
	opp := s.Players[Opponent(me)]
	var out []int
	switch e.Kind.targeting() {
	case targetOwnDamaged:
		for slot, pc := range p.InPlay {
			if pc != nil && pc.IsDamaged() {
				out = append(out, slot)
			}
		}
	case targetOwnBench:
		out = p.Bench()
	case targetOwnOfType:
		for slot, pc := range p.InPlay {
			if pc != nil && pc.Card.Type == e.Energy {
				out = append(out, slot)
			}
		}
	case targetOpponentAny:
		for slot, pc := range opp.InPlay {
			if pc != nil {
				out = append(out, slot)
			}
		}
	case targetOpponentBench:
		out = opp.Bench()
	}
	return out
}

// validTarget re-checks a chosen slot at resolution time.
func validTarget(s *State, me int, e Effect, slot int) bool {
	for _, t := range targetCandidates(s, me, e) {
		if t == slot {
			return true
		}
	}
	return false
}

// effectsUsable reports whether at least one effect would change something.
// source is the slot of the Pokémon using the effects, -1 for trainers.
func effectsUsable(s *State, me int, effects []Effect, source int) bool {
	p := s.Players[me]
	opp := s.Players[Opponent(me)]
	active := p.Active()
	oppActive := opp.Active()
	anyDamaged := func() bool {
		for _, pc := range p.InPlay {
			if pc != nil && pc.IsDamaged() {
				return true
			}
		}
		return false
	}

	for _, e := range effects {
		switch e.Kind {
		case EffectHealSelf:
			if source >= 0 && p.InPlay[source] != nil && p.InPlay[source].IsDamaged() {
				return true
			}
		case EffectHealActive:
			if active != nil && active.IsDamaged() {
				return true
			}
		case EffectHealTarget, EffectHealAll:
			if anyDamaged() {
				return true
			}
		case EffectDraw, EffectSearchBasic:
			// Deck contents are hidden from their owner too; only the count decides.
			if len(p.Deck) > 0 {
				return true
			}
		case EffectPoison:
			if oppActive != nil && !oppActive.Poisoned {
				return true
			}
		case EffectSleep:
			if oppActive != nil && !oppActive.Asleep {
				return true
			}
		case EffectSnipe, EffectShuffleHandDraw, EffectDamageBoost, EffectMultiply:
			return true
		case EffectAttachEnergyActive:
			if active != nil {
				return true
			}
		case EffectAttachEnergyBench:
			if len(p.Bench()) > 0 {
				return true
			}
		case EffectFlipAttachEnergy:
			if len(targetCandidates(s, me, e)) > 0 {
				return true
			}
		case EffectSwitchOpponent:
			if oppActive != nil && len(opp.Bench()) > 0 {
				return true
			}
		case EffectSwitchSelf:
			if active != nil && len(p.Bench()) > 0 {
				return true
			}
		case EffectRetreatDiscount:
			if active != nil && !p.Retreated && effectiveRetreatCost(p, active) > 0 {
				return true
			}
		default:
			return true
		}
	}
	return false
}
