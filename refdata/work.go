package refdata

// WorkJob is one random work shift. Gold is rolled in [GoldMin,
// GoldMax]; each listed material drops independently with
// MaterialChance at quantity 1..MaterialMaxQty.
type WorkJob struct {
	Name        string
	Description string
	GoldMin     int64
	GoldMax     int64
	Materials   []string
}

// Work drop odds shared by every job.
const (
	WorkMaterialChance = 0.7
	WorkMaterialMinQty = 1
	WorkMaterialMaxQty = 3
)

// WorkJobs is the shift pool.
var WorkJobs = []WorkJob{
	{Name: "Mining", Description: "You mine the caves and strike mineral veins", GoldMin: 15, GoldMax: 25, Materials: []string{"Stone", "Iron Ore"}},
	{Name: "Woodcutting", Description: "You fell trees in the forest", GoldMin: 10, GoldMax: 20, Materials: []string{"Wood"}},
	{Name: "Fishing", Description: "You fish a quiet lake", GoldMin: 12, GoldMax: 22, Materials: []string{"Fish"}},
	{Name: "Farming", Description: "You tend the fields and bring in the harvest", GoldMin: 8, GoldMax: 18, Materials: []string{"Apple", "Wood"}},
	{Name: "Blacksmithing", Description: "You help the smith forge tools", GoldMin: 20, GoldMax: 30, Materials: []string{"Iron Ore", "Stone"}},
}

// AdventureSite is one exploration destination. Risk is the failure
// probability; a failed run deals 5..15 damage instead of paying out.
type AdventureSite struct {
	Name        string
	Description string
	XPMin       int
	XPMax       int
	GoldMin     int64
	GoldMax     int64
	Risk        float64
}

// Damage range for a failed adventure.
const (
	AdventureFailDmgMin = 5
	AdventureFailDmgMax = 15
)

// AdventureSites is the destination pool.
var AdventureSites = []AdventureSite{
	{Name: "Mysterious Cave", Description: "You explore the depths of a mysterious cave", XPMin: 20, XPMax: 40, GoldMin: 10, GoldMax: 30, Risk: 0.1},
	{Name: "Ancient Ruins", Description: "You pick through ancient ruins full of treasure", XPMin: 30, XPMax: 50, GoldMin: 20, GoldMax: 40, Risk: 0.15},
	{Name: "Enchanted Forest", Description: "You walk a forest thick with magic", XPMin: 25, XPMax: 45, GoldMin: 15, GoldMax: 35, Risk: 0.12},
	{Name: "Mountain Peak", Description: "You climb to the summit and take in the view", XPMin: 35, XPMax: 55, GoldMin: 25, GoldMax: 45, Risk: 0.2},
	{Name: "Desert Oasis", Description: "You find a hidden oasis deep in the desert", XPMin: 40, XPMax: 60, GoldMin: 30, GoldMax: 50, Risk: 0.18},
}
