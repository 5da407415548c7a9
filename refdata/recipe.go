package refdata

// Recipe crafts one Result item from gold plus materials. The gold and
// materials are consumed before the success roll; a failed roll does
// not refund them.
type Recipe struct {
	ID          string
	Result      string
	Category    string
	Level       int
	Materials   map[string]int
	Gold        int64
	XP          int
	SuccessRate float64
}

// Equipment reports whether the recipe produces gear.
func (r Recipe) Equipment() bool {
	switch r.Category {
	case TypeWeapon, TypeArmor, TypeAccessory:
		return true
	}
	return false
}

// Recipes keyed by recipe ID.
var Recipes = map[string]Recipe{
	// Weapons
	"iron_sword": {ID: "iron_sword", Result: "Iron Sword", Category: TypeWeapon, Level: 3,
		Materials: map[string]int{"Iron Ore": 3, "Wood": 2}, Gold: 50, XP: 25, SuccessRate: 0.9},
	"steel_sword": {ID: "steel_sword", Result: "Steel Sword", Category: TypeWeapon, Level: 8,
		Materials: map[string]int{"Iron Ore": 5, "Stone": 3, "Gold Ore": 1}, Gold: 150, XP: 50, SuccessRate: 0.8},
	"mithril_sword": {ID: "mithril_sword", Result: "Mithril Sword", Category: TypeWeapon, Level: 15,
		Materials: map[string]int{"Mithril Ore": 3, "Gold Ore": 2, "Dragon Scale": 1}, Gold: 500, XP: 100, SuccessRate: 0.7},
	"dragon_slayer": {ID: "dragon_slayer", Result: "Dragon Slayer", Category: TypeWeapon, Level: 20,
		Materials: map[string]int{"Dragon Scale": 5, "Mithril Ore": 3, "Resurrection Stone": 1}, Gold: 1500, XP: 200, SuccessRate: 0.5},

	// Armor
	"leather_armor": {ID: "leather_armor", Result: "Leather Armor", Category: TypeArmor, Level: 2,
		Materials: map[string]int{"Wood": 4, "Stone": 2}, Gold: 30, XP: 20, SuccessRate: 0.95},
	"iron_armor": {ID: "iron_armor", Result: "Iron Armor", Category: TypeArmor, Level: 6,
		Materials: map[string]int{"Iron Ore": 6, "Stone": 4}, Gold: 120, XP: 40, SuccessRate: 0.85},
	"mithril_armor": {ID: "mithril_armor", Result: "Mithril Armor", Category: TypeArmor, Level: 12,
		Materials: map[string]int{"Mithril Ore": 4, "Gold Ore": 3, "Iron Ore": 5}, Gold: 400, XP: 80, SuccessRate: 0.75},
	"dragon_armor": {ID: "dragon_armor", Result: "Dragon Armor", Category: TypeArmor, Level: 18,
		Materials: map[string]int{"Dragon Scale": 8, "Mithril Ore": 2, "Gold Ore": 3}, Gold: 1000, XP: 150, SuccessRate: 0.6},

	// Accessories
	"ring_of_strength": {ID: "ring_of_strength", Result: "Ring of Strength", Category: TypeAccessory, Level: 10,
		Materials: map[string]int{"Gold Ore": 3, "Iron Ore": 2, "Stone": 5}, Gold: 200, XP: 60, SuccessRate: 0.8},
	"ring_of_defense": {ID: "ring_of_defense", Result: "Ring of Defense", Category: TypeAccessory, Level: 10,
		Materials: map[string]int{"Gold Ore": 3, "Stone": 8, "Iron Ore": 2}, Gold: 200, XP: 60, SuccessRate: 0.8},
	"amulet_of_health": {ID: "amulet_of_health", Result: "Amulet of Health", Category: TypeAccessory, Level: 15,
		Materials: map[string]int{"Mithril Ore": 2, "Gold Ore": 4, "Dragon Scale": 1}, Gold: 400, XP: 100, SuccessRate: 0.7},

	// Consumables
	"health_potion": {ID: "health_potion", Result: "Health Potion", Category: TypeConsumable, Level: 1,
		Materials: map[string]int{"Apple": 2, "Fish": 1}, Gold: 20, XP: 10, SuccessRate: 0.95},
	"greater_health_potion": {ID: "greater_health_potion", Result: "Greater Health Potion", Category: TypeConsumable, Level: 8,
		Materials: map[string]int{"Health Potion": 3, "Gold Ore": 1, "Apple": 5}, Gold: 100, XP: 40, SuccessRate: 0.85},
	"mana_potion": {ID: "mana_potion", Result: "Mana Potion", Category: TypeConsumable, Level: 5,
		Materials: map[string]int{"Fish": 3, "Stone": 2, "Apple": 1}, Gold: 50, XP: 25, SuccessRate: 0.9},
	"strength_potion": {ID: "strength_potion", Result: "Strength Potion", Category: TypeConsumable, Level: 12,
		Materials: map[string]int{"Mana Potion": 2, "Iron Ore": 3, "Gold Ore": 1}, Gold: 150, XP: 60, SuccessRate: 0.8},

	// Special
	"teleport_scroll": {ID: "teleport_scroll", Result: "Teleport Scroll", Category: TypeSpecial, Level: 10,
		Materials: map[string]int{"Mana Potion": 1, "Gold Ore": 2, "Stone": 5}, Gold: 150, XP: 50, SuccessRate: 0.8},
	"lucky_charm": {ID: "lucky_charm", Result: "Lucky Charm", Category: TypeSpecial, Level: 15,
		Materials: map[string]int{"Gold Ore": 5, "Mithril Ore": 1, "Dragon Scale": 1}, Gold: 400, XP: 80, SuccessRate: 0.7},
	"resurrection_stone": {ID: "resurrection_stone", Result: "Resurrection Stone", Category: TypeSpecial, Level: 20,
		Materials: map[string]int{"Dragon Scale": 3, "Mithril Ore": 5, "Lucky Charm": 1}, Gold: 800, XP: 150, SuccessRate: 0.5},
}
