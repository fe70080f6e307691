package components

import "github.com/vev-studio/worldcore/engine/assets"

// StoragePriority ranks how eagerly haulers prefer a storage container when
// several accept the same item.
type StoragePriority uint8

const (
	PriorityLow StoragePriority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// StorageRule is one acceptance rule on a storage container: either a
// wildcard ("*") accepting an entire category, or a specific item defName.
type StorageRule struct {
	DefName  string // "*" matches by Category instead
	Category assets.Category
	Priority StoragePriority
}

// Accepts reports whether the rule admits an item with the given defName
// and category: an exact defName match, or a wildcard match on category.
func (r StorageRule) Accepts(defName string, category assets.Category) bool {
	if r.DefName == "*" {
		return r.Category == category
	}
	return r.DefName == defName
}

// StorageConfiguration is a container entity's acceptance policy: which
// items/categories it takes, at what priority, and how many slots remain.
type StorageConfiguration struct {
	Rules       []StorageRule
	MaxCapacity int
}

// AcceptsItem reports whether any rule admits the item, and if so returns
// the highest matching priority.
func (s StorageConfiguration) AcceptsItem(defName string, category assets.Category) (StoragePriority, bool) {
	accepted := false
	best := PriorityLow
	for _, r := range s.Rules {
		if r.Accepts(defName, category) {
			if !accepted || r.Priority > best {
				best = r.Priority
			}
			accepted = true
		}
	}
	return best, accepted
}
