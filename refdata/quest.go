package refdata

// Quest categories.
const (
	QuestMain        = "main"
	QuestDaily       = "daily"
	QuestWeekly      = "weekly"
	QuestSide        = "side"
	QuestAchievement = "achievement"
)

// ObjectiveKind enumerates what an objective counts.
type ObjectiveKind = int

const (
	ObjHuntMonsters      ObjectiveKind = iota + 1 // any monster killed
	ObjKillMonster                                // a specific monster (Target)
	ObjKillBoss                                   // any boss
	ObjCompleteDungeon                            // dungeon cleared
	ObjCompleteAdventure                          // adventure succeeded
	ObjWorkCount                                  // work shifts
	ObjCraftItems                                 // any craft success
	ObjCraftEquipment                             // weapon/armor/accessory craft success
	ObjJoinGuild                                  // joined or created a guild
	ObjReachLevel                                 // character level milestone
	ObjTotalGoldEarned                            // cumulative gold income
	ObjCollectItem                                // a specific item obtained (Target)
)

// Objective is one quest goal. Key identifies the objective inside a
// quest's progress map and must be unique within the quest. Target
// names a monster or item for the kinds that need one.
type Objective struct {
	Key    string
	Kind   ObjectiveKind
	Target string
	Count  int
}

// Reward is a quest or challenge payout.
type Reward struct {
	XP    int
	Gold  int64
	Gems  int64
	Items map[string]int
}

// Quest is one quest definition. Main quests chain through NextQuest;
// daily and weekly quests become available again each reset window.
type Quest struct {
	ID            string
	Name          string
	Description   string
	Type          string
	RequiredLevel int
	Prereqs       []string
	Objectives    []Objective
	Reward        Reward
	NextQuest     string
}

// Repeatable reports whether completion only blocks the quest until
// the next daily or weekly reset.
func (q Quest) Repeatable() bool {
	return q.Type == QuestDaily || q.Type == QuestWeekly
}

// Quests keyed by quest ID.
var Quests = map[string]Quest{
	// Main story chain
	"first_hunt": {
		ID: "first_hunt", Name: "First Hunt", Description: "Hunt a monster for the first time",
		Type: QuestMain, RequiredLevel: 1,
		Objectives: []Objective{{Key: "hunt_monsters", Kind: ObjHuntMonsters, Count: 1}},
		Reward:     Reward{XP: 50, Gold: 100, Items: map[string]int{"Health Potion": 2}},
		NextQuest:  "goblin_slayer",
	},
	"goblin_slayer": {
		ID: "goblin_slayer", Name: "Goblin Slayer", Description: "Slay 5 goblins to protect the village",
		Type: QuestMain, RequiredLevel: 2, Prereqs: []string{"first_hunt"},
		Objectives: []Objective{{Key: "kill_goblin", Kind: ObjKillMonster, Target: "Goblin", Count: 5}},
		Reward:     Reward{XP: 100, Gold: 200, Items: map[string]int{"Iron Sword": 1}},
		NextQuest:  "dungeon_explorer",
	},
	"dungeon_explorer": {
		ID: "dungeon_explorer", Name: "Dungeon Explorer", Description: "Clear your first dungeon",
		Type: QuestMain, RequiredLevel: 5, Prereqs: []string{"goblin_slayer"},
		Objectives: []Objective{{Key: "complete_dungeon", Kind: ObjCompleteDungeon, Count: 1}},
		Reward:     Reward{XP: 300, Gold: 500, Items: map[string]int{"Steel Sword": 1, "Leather Armor": 1}},
		NextQuest:  "guild_member",
	},
	"guild_member": {
		ID: "guild_member", Name: "Guild Member", Description: "Join a guild or found your own",
		Type: QuestMain, RequiredLevel: 8, Prereqs: []string{"dungeon_explorer"},
		Objectives: []Objective{{Key: "join_guild", Kind: ObjJoinGuild, Count: 1}},
		Reward:     Reward{XP: 200, Gold: 300, Items: map[string]int{"Ring of Strength": 1}},
		NextQuest:  "dragon_hunter",
	},
	"dragon_hunter": {
		ID: "dragon_hunter", Name: "Dragon Hunter", Description: "Defeat your first dragon",
		Type: QuestMain, RequiredLevel: 15, Prereqs: []string{"guild_member"},
		Objectives: []Objective{{Key: "kill_dragon", Kind: ObjKillMonster, Target: "Dragon", Count: 1}},
		Reward:     Reward{XP: 1000, Gold: 2000, Items: map[string]int{"Dragon Slayer": 1, "Dragon Scale": 5}},
	},

	// Dailies
	"daily_hunter": {
		ID: "daily_hunter", Name: "Daily Hunter", Description: "Hunt 3 monsters today",
		Type: QuestDaily, RequiredLevel: 1,
		Objectives: []Objective{{Key: "hunt_monsters", Kind: ObjHuntMonsters, Count: 3}},
		Reward:     Reward{XP: 75, Gold: 150, Items: map[string]int{"Health Potion": 1}},
	},
	"daily_worker": {
		ID: "daily_worker", Name: "Daily Worker", Description: "Work 2 shifts today",
		Type: QuestDaily, RequiredLevel: 1,
		Objectives: []Objective{{Key: "work_count", Kind: ObjWorkCount, Count: 2}},
		Reward:     Reward{XP: 50, Gold: 100, Items: map[string]int{"Apple": 2}},
	},
	"daily_crafter": {
		ID: "daily_crafter", Name: "Daily Crafter", Description: "Craft 1 item today",
		Type: QuestDaily, RequiredLevel: 3,
		Objectives: []Objective{{Key: "craft_items", Kind: ObjCraftItems, Count: 1}},
		Reward:     Reward{XP: 100, Gold: 200, Items: map[string]int{"Iron Ore": 2}},
	},

	// Weeklies
	"weekly_dungeon": {
		ID: "weekly_dungeon", Name: "Weekly Dungeon", Description: "Clear 3 dungeons this week",
		Type: QuestWeekly, RequiredLevel: 5,
		Objectives: []Objective{{Key: "complete_dungeon", Kind: ObjCompleteDungeon, Count: 3}},
		Reward:     Reward{XP: 500, Gold: 1000, Items: map[string]int{"Greater Health Potion": 3, "Gold Ore": 2}},
	},
	"weekly_boss": {
		ID: "weekly_boss", Name: "Weekly Boss", Description: "Defeat 2 bosses this week",
		Type: QuestWeekly, RequiredLevel: 10,
		Objectives: []Objective{{Key: "kill_boss", Kind: ObjKillBoss, Count: 2}},
		Reward:     Reward{XP: 800, Gold: 1500, Items: map[string]int{"Mithril Ore": 1, "Lucky Charm": 1}},
	},

	// Side quests
	"material_collector": {
		ID: "material_collector", Name: "Material Collector", Description: "Gather 50 Wood and 30 Stone",
		Type: QuestSide, RequiredLevel: 3,
		Objectives: []Objective{
			{Key: "collect_wood", Kind: ObjCollectItem, Target: "Wood", Count: 50},
			{Key: "collect_stone", Kind: ObjCollectItem, Target: "Stone", Count: 30},
		},
		Reward: Reward{XP: 200, Gold: 400, Items: map[string]int{"Iron Ore": 5}},
	},
	"equipment_master": {
		ID: "equipment_master", Name: "Equipment Master", Description: "Craft 10 pieces of equipment",
		Type: QuestSide, RequiredLevel: 8,
		Objectives: []Objective{{Key: "craft_equipment", Kind: ObjCraftEquipment, Count: 10}},
		Reward:     Reward{XP: 500, Gold: 1000, Items: map[string]int{"Mithril Ore": 3, "Ring of Defense": 1}},
	},
	"monster_encyclopedia": {
		ID: "monster_encyclopedia", Name: "Monster Encyclopedia", Description: "Slay at least one of every common monster",
		Type: QuestSide, RequiredLevel: 10,
		Objectives: []Objective{
			{Key: "kill_goblin", Kind: ObjKillMonster, Target: "Goblin", Count: 1},
			{Key: "kill_wolf", Kind: ObjKillMonster, Target: "Wolf", Count: 1},
			{Key: "kill_orc", Kind: ObjKillMonster, Target: "Orc", Count: 1},
			{Key: "kill_skeleton", Kind: ObjKillMonster, Target: "Skeleton", Count: 1},
			{Key: "kill_troll", Kind: ObjKillMonster, Target: "Troll", Count: 1},
			{Key: "kill_dark_elf", Kind: ObjKillMonster, Target: "Dark Elf", Count: 1},
			{Key: "kill_minotaur", Kind: ObjKillMonster, Target: "Minotaur", Count: 1},
			{Key: "kill_wyvern", Kind: ObjKillMonster, Target: "Wyvern", Count: 1},
			{Key: "kill_lich", Kind: ObjKillMonster, Target: "Lich", Count: 1},
			{Key: "kill_demon", Kind: ObjKillMonster, Target: "Demon", Count: 1},
		},
		Reward: Reward{XP: 1000, Gold: 2000, Items: map[string]int{"Amulet of Health": 1, "Wolf Pup": 1}},
	},

	// Milestone quests
	"level_master": {
		ID: "level_master", Name: "Level Master", Description: "Reach level 20",
		Type: QuestAchievement, RequiredLevel: 1,
		Objectives: []Objective{{Key: "reach_level", Kind: ObjReachLevel, Count: 20}},
		Reward:     Reward{XP: 2000, Gold: 5000, Items: map[string]int{"Dragon Hatchling": 1, "Resurrection Stone": 1}},
	},
	"gold_collector": {
		ID: "gold_collector", Name: "Gold Collector", Description: "Earn 10,000 gold in total",
		Type: QuestAchievement, RequiredLevel: 5,
		Objectives: []Objective{{Key: "total_gold_earned", Kind: ObjTotalGoldEarned, Count: 10000}},
		Reward:     Reward{XP: 500, Gold: 2000, Items: map[string]int{"Lucky Charm": 1}},
	},
}
