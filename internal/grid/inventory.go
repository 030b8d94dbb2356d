package grid

// Inventory is the colony's shared stock of consumable resources. Wood
// gates plan placement; Food grows when the farm growth pass harvests a
// mature built Farm. Nothing in the core consumes Food.
type Inventory struct {
	Wood int32
	Food float64
}

// CanAfford reports whether the inventory can cover a wood debit of cost
// (cost may be negative, representing a refund, which is always
// affordable).
func (inv *Inventory) CanAfford(cost int32) bool {
	return cost <= 0 || inv.Wood >= cost
}
