// Package refdata holds the static game tables: items, monsters,
// dungeons, recipes, quests, achievements, consumables and reward
// schedules. Everything here is immutable at runtime; services read
// these tables and never mutate them.
package refdata

// Item rarity tiers, lowest to highest.
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Item types.
const (
	TypeMaterial   = "material"
	TypeFood       = "food"
	TypeConsumable = "consumable"
	TypeWeapon     = "weapon"
	TypeArmor      = "armor"
	TypeAccessory  = "accessory"
	TypePet        = "pet"
	TypeSpecial    = "special"
)

// Item is one catalog entry. Stat fields are zero for item types that
// do not carry them.
type Item struct {
	Name    string
	Type    string
	Value   int64
	Rarity  string
	Attack  int
	Defense int
	MaxHP   int
	Heal    int
}

// Equippable reports whether the item goes into a gear slot.
func (i Item) Equippable() bool {
	switch i.Type {
	case TypeWeapon, TypeArmor, TypeAccessory, TypePet:
		return true
	}
	return false
}

// Slot returns the equipment slot this item belongs to, or "".
func (i Item) Slot() string {
	switch i.Type {
	case TypeWeapon:
		return "weapon"
	case TypeArmor:
		return "armor"
	case TypeAccessory:
		return "accessory"
	case TypePet:
		return "pet"
	}
	return ""
}

// Items is the full item catalog, keyed by display name.
var Items = map[string]Item{
	// Materials
	"Wood":         {Name: "Wood", Type: TypeMaterial, Value: 2, Rarity: RarityCommon},
	"Stone":        {Name: "Stone", Type: TypeMaterial, Value: 3, Rarity: RarityCommon},
	"Iron Ore":     {Name: "Iron Ore", Type: TypeMaterial, Value: 5, Rarity: RarityUncommon},
	"Gold Ore":     {Name: "Gold Ore", Type: TypeMaterial, Value: 15, Rarity: RarityRare},
	"Mithril Ore":  {Name: "Mithril Ore", Type: TypeMaterial, Value: 50, Rarity: RarityEpic},
	"Dragon Scale": {Name: "Dragon Scale", Type: TypeMaterial, Value: 100, Rarity: RarityLegendary},

	// Food
	"Apple": {Name: "Apple", Type: TypeFood, Value: 5, Heal: 10, Rarity: RarityCommon},
	"Fish":  {Name: "Fish", Type: TypeFood, Value: 8, Heal: 20, Rarity: RarityCommon},

	// Potions
	"Health Potion":         {Name: "Health Potion", Type: TypeConsumable, Value: 50, Heal: 50, Rarity: RarityUncommon},
	"Greater Health Potion": {Name: "Greater Health Potion", Type: TypeConsumable, Value: 150, Heal: 150, Rarity: RarityRare},
	"Mana Potion":           {Name: "Mana Potion", Type: TypeConsumable, Value: 75, Rarity: RarityUncommon},
	"Strength Potion":       {Name: "Strength Potion", Type: TypeConsumable, Value: 100, Rarity: RarityRare},

	// Weapons
	"Wooden Sword":  {Name: "Wooden Sword", Type: TypeWeapon, Value: 10, Attack: 10, Rarity: RarityCommon},
	"Iron Sword":    {Name: "Iron Sword", Type: TypeWeapon, Value: 100, Attack: 25, Rarity: RarityUncommon},
	"Steel Sword":   {Name: "Steel Sword", Type: TypeWeapon, Value: 250, Attack: 40, Rarity: RarityRare},
	"Mithril Sword": {Name: "Mithril Sword", Type: TypeWeapon, Value: 750, Attack: 65, Rarity: RarityEpic},
	"Dragon Slayer": {Name: "Dragon Slayer", Type: TypeWeapon, Value: 2000, Attack: 100, Rarity: RarityLegendary},

	// Armor
	"Cloth Armor":   {Name: "Cloth Armor", Type: TypeArmor, Value: 8, Defense: 5, Rarity: RarityCommon},
	"Leather Armor": {Name: "Leather Armor", Type: TypeArmor, Value: 80, Defense: 15, Rarity: RarityUncommon},
	"Iron Armor":    {Name: "Iron Armor", Type: TypeArmor, Value: 200, Defense: 25, Rarity: RarityRare},
	"Mithril Armor": {Name: "Mithril Armor", Type: TypeArmor, Value: 600, Defense: 40, Rarity: RarityEpic},
	"Dragon Armor":  {Name: "Dragon Armor", Type: TypeArmor, Value: 1500, Defense: 60, Rarity: RarityLegendary},

	// Accessories
	"Ring of Strength": {Name: "Ring of Strength", Type: TypeAccessory, Value: 300, Attack: 10, Rarity: RarityRare},
	"Ring of Defense":  {Name: "Ring of Defense", Type: TypeAccessory, Value: 300, Defense: 10, Rarity: RarityRare},
	"Amulet of Health": {Name: "Amulet of Health", Type: TypeAccessory, Value: 500, MaxHP: 50, Rarity: RarityEpic},

	// Pets
	"Wolf Pup":         {Name: "Wolf Pup", Type: TypePet, Value: 1000, Attack: 5, Rarity: RarityRare},
	"Dragon Hatchling": {Name: "Dragon Hatchling", Type: TypePet, Value: 5000, Attack: 15, Defense: 10, Rarity: RarityLegendary},

	// Special
	"Teleport Scroll":    {Name: "Teleport Scroll", Type: TypeSpecial, Value: 200, Rarity: RarityUncommon},
	"Resurrection Stone": {Name: "Resurrection Stone", Type: TypeSpecial, Value: 1000, Rarity: RarityEpic},
	"Lucky Charm":        {Name: "Lucky Charm", Type: TypeSpecial, Value: 500, Rarity: RarityRare},
}

// ItemByName looks up an item in the catalog.
func ItemByName(name string) (Item, bool) {
	it, ok := Items[name]
	return it, ok
}

// KnownItem reports whether the name exists in the item catalog or the
// consumable table. Some consumables are shop-only and have no entry
// in Items.
func KnownItem(name string) bool {
	if _, ok := Items[name]; ok {
		return true
	}
	_, ok := Consumables[name]
	return ok
}

// SellValue is what the shop pays when a player sells an item, half
// the catalog value rounded down.
func SellValue(it Item) int64 {
	return it.Value / 2
}
