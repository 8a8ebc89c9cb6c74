package items

import (
	"sync"
)

// ItemType categorizes an item template.
type ItemType string

const (
	TypeWeapon     ItemType = "Weapon"
	TypeArmor      ItemType = "Armor"
	TypeConsumable ItemType = "Consumable"
	TypeKey        ItemType = "Key"
	TypeJunk       ItemType = "Junk"
	TypeQuest      ItemType = "Quest"
)

// Template is a static item definition loaded from data files.
type Template struct {
	ID          string
	Name        string
	Description string
	Type        ItemType
	Value       int
}

// Item is a concrete item instance. Quest rewards and delivery packages carry
// generated names and descriptions distinct from their template.
type Item struct {
	InstanceID  string `json:"instance_id"`
	TemplateID  string `json:"template_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        ItemType `json:"type"`
	Value       int    `json:"value"`
	Quantity    int    `json:"quantity"`
}

// Inventory is the narrow container surface the quest system needs: adding
// reward items and counting held items by template for fetch objectives.
type Inventory struct {
	mu    sync.RWMutex
	items []*Item
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{items: make([]*Item, 0)}
}

// AddItem places an item into the inventory. Items with the same template ID
// stack.
func (inv *Inventory) AddItem(item *Item, quantity int) {
	if item == nil {
		return
	}
	if quantity < 1 {
		quantity = 1
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	for _, held := range inv.items {
		if held.TemplateID == item.TemplateID && held.Name == item.Name {
			held.Quantity += quantity
			return
		}
	}
	item.Quantity = quantity
	inv.items = append(inv.items, item)
}

// CountByTemplate returns how many items of the given template are held.
func (inv *Inventory) CountByTemplate(templateID string) int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	total := 0
	for _, held := range inv.items {
		if held.TemplateID == templateID {
			total += held.Quantity
		}
	}
	return total
}

// CountByName returns how many items with the given display name are held.
// Procedural fetch items are matched by their generated name.
func (inv *Inventory) CountByName(name string) int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	total := 0
	for _, held := range inv.items {
		if held.Name == name {
			total += held.Quantity
		}
	}
	return total
}

// RemoveByTemplate removes up to quantity items of the given template,
// returning the number actually removed.
func (inv *Inventory) RemoveByTemplate(templateID string, quantity int) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	removed := 0
	kept := inv.items[:0]
	for _, held := range inv.items {
		if held.TemplateID == templateID && removed < quantity {
			take := min(held.Quantity, quantity-removed)
			removed += take
			held.Quantity -= take
			if held.Quantity > 0 {
				kept = append(kept, held)
			}
			continue
		}
		kept = append(kept, held)
	}
	inv.items = kept
	return removed
}

// Items returns a copy of the held item list.
func (inv *Inventory) Items() []*Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	out := make([]*Item, len(inv.items))
	copy(out, inv.items)
	return out
}
