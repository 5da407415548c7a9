package refdata

import "math/rand"

// Drop is one possible item drop with its probability.
type Drop struct {
	Item   string
	Chance float64
}

// Monster is one bestiary entry. Gold is rolled uniformly in
// [GoldMin, GoldMax].
type Monster struct {
	Name    string
	HP      int
	Attack  int
	Defense int
	XP      int
	GoldMin int64
	GoldMax int64
	Level   int
	Rarity  string
	Drops   []Drop
}

// Monsters is the bestiary, keyed by name.
var Monsters = map[string]Monster{
	"Goblin": {Name: "Goblin", HP: 30, Attack: 8, Defense: 2, XP: 15, GoldMin: 5, GoldMax: 15, Level: 1, Rarity: RarityCommon,
		Drops: []Drop{{"Wood", 0.6}, {"Apple", 0.4}}},
	"Wolf": {Name: "Wolf", HP: 40, Attack: 12, Defense: 3, XP: 20, GoldMin: 8, GoldMax: 18, Level: 2, Rarity: RarityCommon,
		Drops: []Drop{{"Wood", 0.5}, {"Fish", 0.3}}},
	"Orc": {Name: "Orc", HP: 50, Attack: 15, Defense: 4, XP: 25, GoldMin: 10, GoldMax: 25, Level: 3, Rarity: RarityCommon,
		Drops: []Drop{{"Stone", 0.7}, {"Fish", 0.4}, {"Iron Ore", 0.1}}},
	"Skeleton": {Name: "Skeleton", HP: 45, Attack: 10, Defense: 6, XP: 22, GoldMin: 8, GoldMax: 20, Level: 3, Rarity: RarityCommon,
		Drops: []Drop{{"Stone", 0.6}, {"Iron Ore", 0.2}}},
	"Troll": {Name: "Troll", HP: 80, Attack: 20, Defense: 8, XP: 40, GoldMin: 20, GoldMax: 40, Level: 6, Rarity: RarityUncommon,
		Drops: []Drop{{"Stone", 0.8}, {"Iron Ore", 0.3}, {"Health Potion", 0.1}}},
	"Dark Elf": {Name: "Dark Elf", HP: 70, Attack: 25, Defense: 5, XP: 45, GoldMin: 25, GoldMax: 45, Level: 7, Rarity: RarityUncommon,
		Drops: []Drop{{"Iron Ore", 0.4}, {"Mana Potion", 0.2}, {"Gold Ore", 0.05}}},
	"Minotaur": {Name: "Minotaur", HP: 100, Attack: 30, Defense: 12, XP: 60, GoldMin: 30, GoldMax: 60, Level: 8, Rarity: RarityUncommon,
		Drops: []Drop{{"Iron Ore", 0.5}, {"Gold Ore", 0.1}, {"Strength Potion", 0.05}}},
	"Wyvern": {Name: "Wyvern", HP: 150, Attack: 35, Defense: 15, XP: 80, GoldMin: 50, GoldMax: 100, Level: 12, Rarity: RarityRare,
		Drops: []Drop{{"Gold Ore", 0.3}, {"Dragon Scale", 0.05}, {"Greater Health Potion", 0.1}}},
	"Lich": {Name: "Lich", HP: 120, Attack: 40, Defense: 10, XP: 90, GoldMin: 60, GoldMax: 120, Level: 13, Rarity: RarityRare,
		Drops: []Drop{{"Mithril Ore", 0.1}, {"Mana Potion", 0.3}, {"Teleport Scroll", 0.05}}},
	"Demon": {Name: "Demon", HP: 180, Attack: 45, Defense: 20, XP: 100, GoldMin: 80, GoldMax: 150, Level: 14, Rarity: RarityRare,
		Drops: []Drop{{"Mithril Ore", 0.15}, {"Dragon Scale", 0.08}, {"Lucky Charm", 0.03}}},
	"Dragon": {Name: "Dragon", HP: 300, Attack: 60, Defense: 30, XP: 200, GoldMin: 150, GoldMax: 300, Level: 18, Rarity: RarityEpic,
		Drops: []Drop{{"Dragon Scale", 0.5}, {"Mithril Ore", 0.2}, {"Dragon Hatchling", 0.01}}},
	"Ancient Golem": {Name: "Ancient Golem", HP: 400, Attack: 50, Defense: 50, XP: 250, GoldMin: 200, GoldMax: 400, Level: 20, Rarity: RarityEpic,
		Drops: []Drop{{"Mithril Ore", 0.3}, {"Resurrection Stone", 0.02}, {"Amulet of Health", 0.01}}},
	"Shadow Dragon": {Name: "Shadow Dragon", HP: 1000, Attack: 80, Defense: 40, XP: 500, GoldMin: 500, GoldMax: 1000, Level: 25, Rarity: RarityLegendary,
		Drops: []Drop{{"Dragon Scale", 0.8}, {"Dragon Slayer", 0.05}, {"Dragon Armor", 0.03}}},
	"Demon Lord": {Name: "Demon Lord", HP: 1200, Attack: 90, Defense: 35, XP: 600, GoldMin: 600, GoldMax: 1200, Level: 28, Rarity: RarityLegendary,
		Drops: []Drop{{"Mithril Ore", 0.5}, {"Resurrection Stone", 0.1}, {"Ring of Strength", 0.02}}},
	"Titan": {Name: "Titan", HP: 1500, Attack: 100, Defense: 60, XP: 800, GoldMin: 800, GoldMax: 1500, Level: 30, Rarity: RarityLegendary,
		Drops: []Drop{{"Dragon Scale", 0.6}, {"Mithril Armor", 0.03}, {"Amulet of Health", 0.02}}},
}

// monsterNames holds a stable iteration order for random selection.
var monsterNames = []string{
	"Goblin", "Wolf", "Orc", "Skeleton",
	"Troll", "Dark Elf", "Minotaur",
	"Wyvern", "Lich", "Demon",
	"Dragon", "Ancient Golem",
	"Shadow Dragon", "Demon Lord", "Titan",
}

// RandomMonsterFor picks a monster whose level is within
// [playerLevel-3, playerLevel+2]. Falls back to Goblin when the band
// is empty.
func RandomMonsterFor(rng *rand.Rand, playerLevel int) Monster {
	low := playerLevel - 3
	if low < 1 {
		low = 1
	}
	high := playerLevel + 2

	var pool []Monster
	for _, name := range monsterNames {
		m := Monsters[name]
		if m.Level >= low && m.Level <= high {
			pool = append(pool, m)
		}
	}
	if len(pool) == 0 {
		return Monsters["Goblin"]
	}
	return pool[rng.Intn(len(pool))]
}

// DungeonReward is the aggregate payout for clearing a dungeon.
type DungeonReward struct {
	GoldMin int64
	GoldMax int64
	XP      int
	Drops   []Drop
}

// Dungeon is a multi-floor run: regular floors draw from Monsters,
// the final floor is the boss.
type Dungeon struct {
	Name     string
	MinLevel int
	MaxLevel int
	Floors   int
	Monsters []string
	Boss     string
	Reward   DungeonReward
}

// BossMonster builds the boss encounter for a dungeon. Named bosses
// that exist in the bestiary are used directly; synthetic bosses scale
// from the dungeon's strongest regular monster.
func (d Dungeon) BossMonster() Monster {
	if m, ok := Monsters[d.Boss]; ok {
		return m
	}
	base := Monsters[d.Monsters[len(d.Monsters)-1]]
	return Monster{
		Name:    d.Boss,
		HP:      base.HP * 2,
		Attack:  base.Attack + base.Attack/2,
		Defense: base.Defense + base.Defense/2,
		XP:      base.XP * 2,
		GoldMin: base.GoldMin * 2,
		GoldMax: base.GoldMax * 2,
		Level:   base.Level + 2,
		Rarity:  base.Rarity,
		Drops:   base.Drops,
	}
}

// Dungeons keyed by name.
var Dungeons = map[string]Dungeon{
	"Goblin Cave": {
		Name: "Goblin Cave", MinLevel: 3, MaxLevel: 8, Floors: 3,
		Monsters: []string{"Goblin", "Wolf", "Orc"}, Boss: "Troll",
		Reward: DungeonReward{GoldMin: 100, GoldMax: 200, XP: 150,
			Drops: []Drop{{"Iron Sword", 0.1}, {"Leather Armor", 0.1}, {"Health Potion", 0.3}}},
	},
	"Skeleton Crypt": {
		Name: "Skeleton Crypt", MinLevel: 8, MaxLevel: 15, Floors: 5,
		Monsters: []string{"Skeleton", "Dark Elf", "Lich"}, Boss: "Ancient Lich",
		Reward: DungeonReward{GoldMin: 200, GoldMax: 400, XP: 300,
			Drops: []Drop{{"Steel Sword", 0.08}, {"Iron Armor", 0.08}, {"Mana Potion", 0.2}}},
	},
	"Dragon Lair": {
		Name: "Dragon Lair", MinLevel: 15, MaxLevel: 25, Floors: 7,
		Monsters: []string{"Wyvern", "Demon", "Dragon"}, Boss: "Ancient Dragon",
		Reward: DungeonReward{GoldMin: 500, GoldMax: 1000, XP: 600,
			Drops: []Drop{{"Mithril Sword", 0.05}, {"Mithril Armor", 0.05}, {"Dragon Scale", 0.3}}},
	},
	"Demon Realm": {
		Name: "Demon Realm", MinLevel: 20, MaxLevel: 30, Floors: 10,
		Monsters: []string{"Demon", "Demon Lord"}, Boss: "Demon King",
		Reward: DungeonReward{GoldMin: 800, GoldMax: 1500, XP: 1000,
			Drops: []Drop{{"Dragon Slayer", 0.03}, {"Dragon Armor", 0.03}, {"Resurrection Stone", 0.05}}},
	},
}
