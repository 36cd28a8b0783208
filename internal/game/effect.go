package game

import (
	"fmt"
	"sort"
)

// EffectKind is the closed set of card effects the resolver knows how to apply.
// Adding an effect means adding a kind here, its catalog id, and a case in resolveEffect.
type EffectKind int

const (
	// Healing and card flow
	EffectHealSelf   EffectKind = iota // heal Amount from the source Pokémon
	EffectHealActive                   // heal Amount from the player's active Pokémon
	EffectHealTarget                   // heal Amount from a chosen damaged Pokémon of the player
	EffectHealAll                      // heal Amount from each of the player's Pokémon
	EffectDraw                         // draw Count cards
	EffectSearchBasic                  // put a random Basic Pokémon from the deck into hand

	// Base damage adjustments, resolved before modifiers
	EffectCoinBonus            // flip a coin, heads adds Amount
	EffectCoinOrNothing        // flip a coin, tails cancels the attack
	EffectFlipDamage           // flip Count coins, Amount per heads replaces base damage
	EffectFlipUntilTailsDamage // flip until tails, Amount per heads replaces base damage
	EffectExtraIfDamaged       // add Amount if the defender already has damage

	// Conditions on the defending active Pokémon
	EffectPoison
	EffectSleep
	EffectParalyzeOnHeads

	// Side effects of an attack
	EffectDiscardEnergySelf // discard Count energy (of Energy, Colorless for any) from the source
	EffectRecoil            // source takes Amount damage
	EffectBenchDamageAll    // Amount to each of the opponent's benched Pokémon
	EffectSnipe             // Amount to a chosen opponent Pokémon
	EffectAttachEnergyBench // attach Count Energy to a chosen benched Pokémon of the player
	EffectAttachEnergyActive
	EffectFlipAttachEnergy // flip until tails, attach one Energy per heads to a chosen Pokémon of that type
	EffectDamageReduction  // source takes Amount less damage (next opponent turn, or always when passive)
	EffectCannotAttackNextTurn

	// Turn-scoped player effects
	EffectDamageBoost    // flat +Amount to this turn's attacks
	EffectMultiply       // Amount percent multiplier to this turn's attacks
	EffectRetreatDiscount

	// Board manipulation
	EffectSwitchOpponent  // swap the opponent's active with a chosen benched Pokémon
	EffectSwitchSelf      // swap the player's active with a chosen benched Pokémon
	EffectShuffleHandDraw // opponent shuffles hand into deck and draws Count

	// Tools
	EffectHPBonus
	EffectRetaliate
)

var effectIDs = map[string]EffectKind{
	"heal_self":               EffectHealSelf,
	"heal_active":             EffectHealActive,
	"heal_target":             EffectHealTarget,
	"heal_all":                EffectHealAll,
	"draw":                    EffectDraw,
	"search_basic":            EffectSearchBasic,
	"coin_bonus":              EffectCoinBonus,
	"coin_or_nothing":         EffectCoinOrNothing,
	"flip_damage":             EffectFlipDamage,
	"flip_until_tails_damage": EffectFlipUntilTailsDamage,
	"extra_if_damaged":        EffectExtraIfDamaged,
	"poison":                  EffectPoison,
	"sleep":                   EffectSleep,
	"paralyze_on_heads":       EffectParalyzeOnHeads,
	"discard_energy_self":     EffectDiscardEnergySelf,
	"recoil":                  EffectRecoil,
	"bench_damage_all":        EffectBenchDamageAll,
	"snipe":                   EffectSnipe,
	"attach_energy_bench":     EffectAttachEnergyBench,
	"attach_energy_active":    EffectAttachEnergyActive,
	"flip_attach_energy":      EffectFlipAttachEnergy,
	"damage_reduction":        EffectDamageReduction,
	"cannot_attack_next_turn": EffectCannotAttackNextTurn,
	"damage_boost":            EffectDamageBoost,
	"multiply":                EffectMultiply,
	"retreat_discount":        EffectRetreatDiscount,
	"switch_opponent":         EffectSwitchOpponent,
	"switch_self":             EffectSwitchSelf,
	"shuffle_hand_draw":       EffectShuffleHandDraw,
	"hp_bonus":                EffectHPBonus,
	"retaliate":               EffectRetaliate,
}

// EffectIDs returns every known effect id, sorted.
func EffectIDs() []string {
	ids := make([]string, 0, len(effectIDs))
	for id := range effectIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParseEffectKind resolves a catalog effect id.
func ParseEffectKind(id string) (EffectKind, bool) {
	k, ok := effectIDs[id]
	return k, ok
}

func (k EffectKind) String() string {
	for id, kind := range effectIDs {
		if kind == k {
			return id
		}
	}
	return fmt.Sprintf("effect(%d)", int(k))
}

// Effect is one parameterized effect instance attached to an attack, ability or trainer.
type Effect struct {
	Kind     EffectKind
	Amount   int
	Count    int
	Energy   EnergyType
	Duration int
}

func (e Effect) String() string {
	return fmt.Sprintf("%s(%d)", e.Kind, e.Amount)
}

// targetKind says what an effect needs the player to choose.
type targetKind int

const (
	targetNone targetKind = iota
	targetOwnDamaged
	targetOwnBench
	targetOwnOfType
	targetOpponentAny
	targetOpponentBench
)

func (k EffectKind) targeting() targetKind {
	switch k {
	case EffectHealTarget:
		return targetOwnDamaged
	case EffectAttachEnergyBench, EffectSwitchSelf:
		return targetOwnBench
	case EffectFlipAttachEnergy:
		return targetOwnOfType
	case EffectSnipe:
		return targetOpponentAny
	case EffectSwitchOpponent:
		return targetOpponentBench
	default:
		return targetNone
	}
}

// preDamage reports whether the effect adjusts an attack's base damage.
func (k EffectKind) preDamage() bool {
	switch k {
	case EffectCoinBonus, EffectCoinOrNothing, EffectFlipDamage, EffectFlipUntilTailsDamage, EffectExtraIfDamaged:
		return true
	}
	return false
}

var (
	trainerEffects = kindSet(EffectHealActive, EffectHealTarget, EffectHealAll, EffectDraw, EffectSearchBasic,
		EffectFlipAttachEnergy, EffectDamageBoost, EffectMultiply, EffectRetreatDiscount,
		EffectSwitchOpponent, EffectSwitchSelf, EffectShuffleHandDraw)
	toolEffects    = kindSet(EffectHPBonus, EffectRetaliate)
	passiveEffects = kindSet(EffectDamageReduction)
	onPlayEffects  = kindSet(EffectHealAll, EffectHealActive, EffectDraw, EffectSearchBasic, EffectPoison,
		EffectSleep, EffectBenchDamageAll, EffectAttachEnergyActive)
	// Ability effects that are only meaningful inside an attack are excluded here.
	activatedEffects = kindSet(EffectHealSelf, EffectHealActive, EffectHealTarget, EffectHealAll, EffectDraw,
		EffectSearchBasic, EffectPoison, EffectSleep, EffectSnipe, EffectAttachEnergyActive,
		EffectAttachEnergyBench, EffectFlipAttachEnergy, EffectSwitchOpponent, EffectSwitchSelf)
	attackEffects = func() map[EffectKind]bool {
		m := kindSet()
		for _, k := range effectIDs {
			m[k] = true
		}
		for k := range toolEffects {
			delete(m, k)
		}
		for _, k := range []EffectKind{EffectShuffleHandDraw, EffectRetreatDiscount, EffectDamageBoost, EffectMultiply} {
			delete(m, k)
		}
		return m
	}()
)

func kindSet(kinds ...EffectKind) map[EffectKind]bool {
	m := make(map[EffectKind]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}
