package refdata

import "time"

// EffectKind enumerates what a consumable does when used. Each
// consumable carries exactly one effect; compound items (heal plus a
// buff) list the extra effect separately.
type EffectKind = int

const (
	EffectHeal           EffectKind = iota + 1 // restore Amount HP, or all HP when Full
	EffectReduceCooldown                       // shorten every running cooldown by Duration
	EffectResetCooldowns                       // clear every running cooldown
	EffectStatBonus                            // flat Stat bonus of Amount for Duration
	EffectStatMultiplier                       // Stat multiplied by Factor for Duration
	EffectCure                                 // remove negative effects
	EffectRevive                               // restore a downed player to full HP
)

// Buffable stats.
const (
	StatAttack  = "attack"
	StatDefense = "defense"
	StatLuck    = "luck"
	StatXP      = "xp"
)

// Effect is one consumable outcome.
type Effect struct {
	Kind     EffectKind
	Amount   int
	Full     bool
	Duration time.Duration
	Stat     string
	Factor   float64
}

// Consumable is a usable item. UseCooldown guards spamming of the
// stronger items; zero means no per-item cooldown.
type Consumable struct {
	Name        string
	Description string
	Rarity      string
	Price       int64
	Effects     []Effect
	UseCooldown time.Duration
	AutoRevive  bool
}

// Consumables keyed by item name. Names overlapping the main item
// catalog (potions, scrolls) are the same physical item; this table
// adds their use semantics.
var Consumables = map[string]Consumable{
	"Apple": {
		Name: "Apple", Description: "Restores 10 HP", Rarity: RarityCommon, Price: 5,
		Effects: []Effect{{Kind: EffectHeal, Amount: 10}},
	},
	"Fish": {
		Name: "Fish", Description: "Restores 20 HP", Rarity: RarityCommon, Price: 8,
		Effects: []Effect{{Kind: EffectHeal, Amount: 20}},
	},
	"Health Potion": {
		Name: "Health Potion", Description: "Restores 50 HP instantly", Rarity: RarityCommon, Price: 100,
		Effects: []Effect{{Kind: EffectHeal, Amount: 50}},
	},
	"Greater Health Potion": {
		Name: "Greater Health Potion", Description: "Restores 150 HP instantly", Rarity: RarityRare, Price: 300,
		Effects: []Effect{{Kind: EffectHeal, Amount: 150}},
	},
	"Full Health Potion": {
		Name: "Full Health Potion", Description: "Restores all HP instantly", Rarity: RarityEpic, Price: 800,
		Effects:     []Effect{{Kind: EffectHeal, Full: true}},
		UseCooldown: 5 * time.Minute,
	},
	"Mana Potion": {
		Name: "Mana Potion", Description: "Reduces all cooldowns by 30 minutes", Rarity: RarityUncommon, Price: 200,
		Effects:     []Effect{{Kind: EffectReduceCooldown, Duration: 30 * time.Minute}},
		UseCooldown: 10 * time.Minute,
	},
	"Energy Drink": {
		Name: "Energy Drink", Description: "Instantly resets all cooldowns", Rarity: RarityRare, Price: 500,
		Effects:     []Effect{{Kind: EffectResetCooldowns}},
		UseCooldown: 30 * time.Minute,
	},
	"Strength Potion": {
		Name: "Strength Potion", Description: "Attack +50% for 1 hour", Rarity: RarityRare, Price: 400,
		Effects: []Effect{{Kind: EffectStatMultiplier, Stat: StatAttack, Factor: 1.5, Duration: time.Hour}},
	},
	"Defense Potion": {
		Name: "Defense Potion", Description: "Defense +50% for 1 hour", Rarity: RarityRare, Price: 400,
		Effects: []Effect{{Kind: EffectStatMultiplier, Stat: StatDefense, Factor: 1.5, Duration: time.Hour}},
	},
	"Luck Potion": {
		Name: "Luck Potion", Description: "Drop and crit rates +25% for 2 hours", Rarity: RarityEpic, Price: 600,
		Effects: []Effect{{Kind: EffectStatMultiplier, Stat: StatLuck, Factor: 1.25, Duration: 2 * time.Hour}},
	},
	"XP Potion": {
		Name: "XP Potion", Description: "XP gain doubled for 30 minutes", Rarity: RarityEpic, Price: 800,
		Effects: []Effect{{Kind: EffectStatMultiplier, Stat: StatXP, Factor: 2.0, Duration: 30 * time.Minute}},
	},
	"Bread": {
		Name: "Bread", Description: "Restores 25 HP", Rarity: RarityCommon, Price: 20,
		Effects: []Effect{{Kind: EffectHeal, Amount: 25}},
	},
	"Grilled Steak": {
		Name: "Grilled Steak", Description: "Restores 80 HP and attack +10 for 30 minutes", Rarity: RarityUncommon, Price: 150,
		Effects: []Effect{
			{Kind: EffectHeal, Amount: 80},
			{Kind: EffectStatBonus, Stat: StatAttack, Amount: 10, Duration: 30 * time.Minute},
		},
	},
	"Phoenix Feather": {
		Name: "Phoenix Feather", Description: "Revives a fallen player with full HP", Rarity: RarityLegendary, Price: 2000,
		Effects:    []Effect{{Kind: EffectRevive}},
		AutoRevive: true,
	},
	"Antidote": {
		Name: "Antidote", Description: "Cures poison and negative effects", Rarity: RarityUncommon, Price: 80,
		Effects: []Effect{{Kind: EffectCure}},
	},
}
