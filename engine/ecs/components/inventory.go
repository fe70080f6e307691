package components

// ItemStack is a quantity of one item defName carried or stored together.
type ItemStack struct {
	DefName       string
	Quantity      uint32
	HandsRequired uint8 // 1 or 2
}

// Inventory is a colonist's carrying state: up to two hand slots plus a
// backpack. A 2-handed item occupies both hand slots and can never be
// stowed; a 1-handed item may be stowed to free a hand.
type Inventory struct {
	LeftHand  *ItemStack
	RightHand *ItemStack
	Backpack  []ItemStack

	BackpackCapacity uint32
}

// NewInventory returns an Inventory with the given backpack capacity.
func NewInventory(capacity uint32) Inventory {
	return Inventory{BackpackCapacity: capacity}
}

// HandsFree reports how many of the two hand slots are empty.
func (inv *Inventory) HandsFree() int {
	free := 0
	if inv.LeftHand == nil {
		free++
	}
	if inv.RightHand == nil {
		free++
	}
	return free
}

// PickUp places stack into a free hand. A 2-handed stack requires both
// hands free and occupies them both. Returns false if there isn't room.
func (inv *Inventory) PickUp(stack ItemStack) bool {
	if stack.HandsRequired >= 2 {
		if inv.LeftHand != nil || inv.RightHand != nil {
			return false
		}
		s := stack
		// Both hands share one stack so PutDown/CountOf see it once.
		inv.LeftHand, inv.RightHand = &s, &s
		return true
	}
	if inv.LeftHand == nil {
		s := stack
		inv.LeftHand = &s
		return true
	}
	if inv.RightHand == nil {
		s := stack
		inv.RightHand = &s
		return true
	}
	return false
}

// PutDown clears both hands and returns whatever was held, for dropping or
// handing off to a destination (storage, a crafting station's input).
func (inv *Inventory) PutDown() []ItemStack {
	var held []ItemStack
	if inv.LeftHand != nil {
		held = append(held, *inv.LeftHand)
	}
	if inv.RightHand != nil && inv.RightHand != inv.LeftHand {
		held = append(held, *inv.RightHand)
	}
	inv.LeftHand, inv.RightHand = nil, nil
	return held
}

// StowToBackpack moves a 1-handed item from a hand slot into the backpack,
// freeing that hand. Returns false for a 2-handed item (it can never be
// stowed) or if the backpack lacks room.
func (inv *Inventory) StowToBackpack(fromLeftHand bool) bool {
	var slot **ItemStack
	if fromLeftHand {
		slot = &inv.LeftHand
	} else {
		slot = &inv.RightHand
	}
	stack := *slot
	if stack == nil || stack.HandsRequired >= 2 {
		return false
	}
	if inv.backpackUsed()+stack.Quantity > inv.BackpackCapacity {
		return false
	}
	inv.Backpack = append(inv.Backpack, *stack)
	*slot = nil
	return true
}

// TakeFromBackpack moves quantity units of defName from the backpack into
// a free hand. Returns false if not enough is stored or no hand is free.
func (inv *Inventory) TakeFromBackpack(defName string, quantity uint32) bool {
	for i := range inv.Backpack {
		s := &inv.Backpack[i]
		if s.DefName != defName || s.Quantity < quantity {
			continue
		}
		if !inv.PickUp(ItemStack{DefName: defName, Quantity: quantity, HandsRequired: 1}) {
			return false
		}
		s.Quantity -= quantity
		if s.Quantity == 0 {
			inv.Backpack = append(inv.Backpack[:i], inv.Backpack[i+1:]...)
		}
		return true
	}
	return false
}

// CountOf returns how many units of defName the inventory holds across
// hands and backpack.
func (inv *Inventory) CountOf(defName string) uint32 {
	var n uint32
	if inv.LeftHand != nil && inv.LeftHand.DefName == defName {
		n += inv.LeftHand.Quantity
	}
	if inv.RightHand != nil && inv.RightHand != inv.LeftHand && inv.RightHand.DefName == defName {
		n += inv.RightHand.Quantity
	}
	for _, s := range inv.Backpack {
		if s.DefName == defName {
			n += s.Quantity
		}
	}
	return n
}

// Consume removes quantity units of defName, draining hands before the
// backpack. Returns the number actually removed (may be less than asked).
func (inv *Inventory) Consume(defName string, quantity uint32) uint32 {
	removed := uint32(0)
	takeFromHand := func(slot **ItemStack) {
		s := *slot
		if s == nil || s.DefName != defName || removed >= quantity {
			return
		}
		take := quantity - removed
		if take > s.Quantity {
			take = s.Quantity
		}
		s.Quantity -= take
		removed += take
		if s.Quantity == 0 {
			*slot = nil
		}
	}
	twoHanded := inv.LeftHand != nil && inv.LeftHand == inv.RightHand
	takeFromHand(&inv.LeftHand)
	if twoHanded {
		inv.RightHand = inv.LeftHand
	} else {
		takeFromHand(&inv.RightHand)
	}
	for i := 0; i < len(inv.Backpack) && removed < quantity; {
		s := &inv.Backpack[i]
		if s.DefName != defName {
			i++
			continue
		}
		take := quantity - removed
		if take > s.Quantity {
			take = s.Quantity
		}
		s.Quantity -= take
		removed += take
		if s.Quantity == 0 {
			inv.Backpack = append(inv.Backpack[:i], inv.Backpack[i+1:]...)
		} else {
			i++
		}
	}
	return removed
}

// HeldStack returns whichever hand stack is present (left preferred), or
// nil when both hands are empty.
func (inv *Inventory) HeldStack() *ItemStack {
	if inv.LeftHand != nil {
		return inv.LeftHand
	}
	return inv.RightHand
}

func (inv *Inventory) backpackUsed() uint32 {
	var used uint32
	for _, s := range inv.Backpack {
		used += s.Quantity
	}
	return used
}
