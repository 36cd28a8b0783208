package game

// CostSatisfied reports whether attached energy pays cost: every typed symbol
// needs an energy of that type, and Colorless symbols take whatever is left.
func CostSatisfied(attached, cost []EnergyType) bool {
	if len(attached) < len(cost) {
		return false
	}
	pool := make(map[EnergyType]int, len(attached))
	for _, e := range attached {
		pool[e]++
	}
	colorless := 0
	for _, c := range cost {
		if c == EnergyColorless {
			colorless++
			continue
		}
		if pool[c] == 0 {
			return false
		}
		pool[c]--
	}
	left := 0
	for _, n := range pool {
		left += n
	}
	return left >= colorless
}

// MissingEnergy returns how many more energy units of any kind would be needed to
// pay cost, ignoring type. Strategies use it to rank attachment targets.
func MissingEnergy(attached, cost []EnergyType) int {
	return max(0, len(cost)-len(attached))
}

// effectiveRetreatCost applies the turn's retreat discount.
func effectiveRetreatCost(p *PlayerState, pc *PlayedCard) int {
	return max(0, pc.Card.RetreatCost-p.RetreatDiscount)
}
