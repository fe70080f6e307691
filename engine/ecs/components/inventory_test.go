package components

import "testing"

func TestPickUpOneHandedFillsHands(t *testing.T) {
	inv := NewInventory(10)
	if !inv.PickUp(ItemStack{DefName: "Berry", Quantity: 1, HandsRequired: 1}) {
		t.Fatal("first pickup failed")
	}
	if !inv.PickUp(ItemStack{DefName: "Stick", Quantity: 1, HandsRequired: 1}) {
		t.Fatal("second pickup failed")
	}
	if inv.HandsFree() != 0 {
		t.Fatalf("hands free = %d, want 0", inv.HandsFree())
	}
	if inv.PickUp(ItemStack{DefName: "Stone", Quantity: 1, HandsRequired: 1}) {
		t.Fatal("third pickup should fail with both hands full")
	}
}

func TestPickUpTwoHandedNeedsBothHands(t *testing.T) {
	inv := NewInventory(10)
	inv.PickUp(ItemStack{DefName: "Berry", Quantity: 1, HandsRequired: 1})
	if inv.PickUp(ItemStack{DefName: "Log", Quantity: 1, HandsRequired: 2}) {
		t.Fatal("two-handed pickup should fail with one hand occupied")
	}

	inv = NewInventory(10)
	if !inv.PickUp(ItemStack{DefName: "Log", Quantity: 1, HandsRequired: 2}) {
		t.Fatal("two-handed pickup failed with empty hands")
	}
	if inv.HandsFree() != 0 {
		t.Fatal("two-handed item should occupy both hands")
	}
	if got := inv.CountOf("Log"); got != 1 {
		t.Fatalf("CountOf(Log) = %d, want 1 (not double-counted)", got)
	}
}

func TestStowToBackpackRejectsTwoHanded(t *testing.T) {
	inv := NewInventory(10)
	inv.PickUp(ItemStack{DefName: "Log", Quantity: 1, HandsRequired: 2})
	if inv.StowToBackpack(true) || inv.StowToBackpack(false) {
		t.Fatal("a two-handed item must never stow")
	}

	inv = NewInventory(10)
	inv.PickUp(ItemStack{DefName: "Berry", Quantity: 1, HandsRequired: 1})
	if !inv.StowToBackpack(true) {
		t.Fatal("one-handed stow failed")
	}
	if inv.HandsFree() != 2 {
		t.Fatal("stow did not free the hand")
	}
	if got := inv.CountOf("Berry"); got != 1 {
		t.Fatalf("CountOf after stow = %d, want 1", got)
	}
}

func TestStowRespectsBackpackCapacity(t *testing.T) {
	inv := NewInventory(2)
	inv.Backpack = append(inv.Backpack, ItemStack{DefName: "Stone", Quantity: 2, HandsRequired: 1})
	inv.PickUp(ItemStack{DefName: "Berry", Quantity: 1, HandsRequired: 1})
	if inv.StowToBackpack(true) {
		t.Fatal("stow should fail when the backpack is full")
	}
}

func TestConsumeDrainsHandsThenBackpack(t *testing.T) {
	inv := NewInventory(10)
	inv.PickUp(ItemStack{DefName: "Berry", Quantity: 2, HandsRequired: 1})
	inv.Backpack = append(inv.Backpack, ItemStack{DefName: "Berry", Quantity: 3, HandsRequired: 1})

	if got := inv.Consume("Berry", 4); got != 4 {
		t.Fatalf("consumed %d, want 4", got)
	}
	if got := inv.CountOf("Berry"); got != 1 {
		t.Fatalf("remaining = %d, want 1", got)
	}
	if inv.LeftHand != nil {
		t.Fatal("hand stack should be gone after being drained first")
	}

	// Over-consume returns what was actually removed.
	if got := inv.Consume("Berry", 5); got != 1 {
		t.Fatalf("over-consume removed %d, want 1", got)
	}
	if len(inv.Backpack) != 0 {
		t.Fatal("empty stacks must be dropped from the backpack")
	}
}

func TestTakeFromBackpack(t *testing.T) {
	inv := NewInventory(10)
	inv.Backpack = append(inv.Backpack, ItemStack{DefName: "Stick", Quantity: 3, HandsRequired: 1})

	if !inv.TakeFromBackpack("Stick", 2) {
		t.Fatal("take failed")
	}
	if inv.HeldStack() == nil || inv.HeldStack().Quantity != 2 {
		t.Fatal("taken stack not in hand")
	}
	if inv.Backpack[0].Quantity != 1 {
		t.Fatalf("backpack remainder = %d, want 1", inv.Backpack[0].Quantity)
	}
	if inv.TakeFromBackpack("Stick", 5) {
		t.Fatal("taking more than stored should fail")
	}
}
