package item

import "math"

// Type identifies an item category.
type Type string

// Item type constants.
const (
	TypeWeapon    Type = "weapon"
	TypeArmor     Type = "armor"
	TypePotion    Type = "potion"
	TypeFood      Type = "food"
	TypeAccessory Type = "accessory"
	TypeMaterial  Type = "material"
	TypeGold      Type = "gold"
)

// maxStack is the per-type stack cap. Gold is unbounded.
var maxStack = map[Type]int{
	TypeWeapon:    1,
	TypeArmor:     1,
	TypePotion:    64,
	TypeFood:      64,
	TypeAccessory: 1,
	TypeMaterial:  99,
	TypeGold:      math.MaxInt,
}

// validTypes is the set of valid item types.
var validTypes = map[Type]bool{
	TypeWeapon:    true,
	TypeArmor:     true,
	TypePotion:    true,
	TypeFood:      true,
	TypeAccessory: true,
	TypeMaterial:  true,
	TypeGold:      true,
}

// Valid reports whether t is a known item type.
func (t Type) Valid() bool {
	return validTypes[t]
}

// MaxStack returns the stack cap for the type.
//
// Postcondition: returns math.MaxInt for gold, 0 for unknown types.
func (t Type) MaxStack() int {
	return maxStack[t]
}

// Stackable reports whether instances of the type can hold more than one unit.
func (t Type) Stackable() bool {
	return maxStack[t] > 1
}
