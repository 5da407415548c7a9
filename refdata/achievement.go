package refdata

// AchievementType names the player counter an achievement watches.
type AchievementType = string

const (
	AchLevel      AchievementType = "level"
	AchKills      AchievementType = "kills"
	AchBosses     AchievementType = "bosses"
	AchGoldEarned AchievementType = "gold_earned"
	AchCrafted    AchievementType = "crafted"
	AchHunts      AchievementType = "hunts"
	AchQuests     AchievementType = "quests"
	AchDungeons   AchievementType = "dungeons"
	AchCollection AchievementType = "collection"
	AchSurvival   AchievementType = "survival"
)

// Achievement unlocks once the watched counter reaches Requirement.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Type        AchievementType
	Requirement int64
	Gold        int64
	Gems        int64
}

// Achievements in display order.
var Achievements = []Achievement{
	{ID: "level_5", Name: "First Steps", Description: "Reach level 5", Type: AchLevel, Requirement: 5, Gold: 500, Gems: 10},
	{ID: "level_10", Name: "Rising Star", Description: "Reach level 10", Type: AchLevel, Requirement: 10, Gold: 1000, Gems: 25},
	{ID: "level_25", Name: "Champion", Description: "Reach level 25", Type: AchLevel, Requirement: 25, Gold: 2500, Gems: 50},

	{ID: "first_kill", Name: "First Blood", Description: "Kill your first monster", Type: AchKills, Requirement: 1, Gold: 100, Gems: 5},
	{ID: "monster_hunter", Name: "Monster Hunter", Description: "Kill 100 monsters", Type: AchKills, Requirement: 100, Gold: 1500, Gems: 30},
	{ID: "monster_slayer", Name: "Monster Slayer", Description: "Kill 500 monsters", Type: AchKills, Requirement: 500, Gold: 5000, Gems: 100},

	{ID: "first_boss", Name: "Boss Killer", Description: "Defeat your first boss", Type: AchBosses, Requirement: 1, Gold: 1000, Gems: 20},
	{ID: "boss_hunter", Name: "Boss Hunter", Description: "Defeat 10 bosses", Type: AchBosses, Requirement: 10, Gold: 3000, Gems: 75},

	{ID: "rich_1k", Name: "Getting Rich", Description: "Earn 1,000 total gold", Type: AchGoldEarned, Requirement: 1000, Gold: 200, Gems: 10},
	{ID: "rich_10k", Name: "Wealthy", Description: "Earn 10,000 total gold", Type: AchGoldEarned, Requirement: 10000, Gold: 1000, Gems: 50},
	{ID: "rich_100k", Name: "Millionaire", Description: "Earn 100,000 total gold", Type: AchGoldEarned, Requirement: 100000, Gold: 5000, Gems: 200},

	{ID: "first_craft", Name: "First Craft", Description: "Craft your first item", Type: AchCrafted, Requirement: 1, Gold: 200, Gems: 5},
	{ID: "crafter", Name: "Skilled Crafter", Description: "Craft 50 items", Type: AchCrafted, Requirement: 50, Gold: 2000, Gems: 40},

	{ID: "hunter_10", Name: "Hunter", Description: "Complete 10 hunts", Type: AchHunts, Requirement: 10, Gold: 300, Gems: 15},
	{ID: "hunter_100", Name: "Master Hunter", Description: "Complete 100 hunts", Type: AchHunts, Requirement: 100, Gold: 2000, Gems: 60},

	{ID: "first_quest", Name: "Quest Starter", Description: "Complete your first quest", Type: AchQuests, Requirement: 1, Gold: 300, Gems: 10},
	{ID: "quest_master", Name: "Quest Master", Description: "Complete 25 quests", Type: AchQuests, Requirement: 25, Gold: 3000, Gems: 80},

	{ID: "first_dungeon", Name: "Dungeon Explorer", Description: "Clear your first dungeon", Type: AchDungeons, Requirement: 1, Gold: 500, Gems: 15},
	{ID: "dungeon_master", Name: "Dungeon Master", Description: "Clear 20 dungeons", Type: AchDungeons, Requirement: 20, Gold: 4000, Gems: 100},

	{ID: "collector", Name: "Collector", Description: "Hold 50 different items at once", Type: AchCollection, Requirement: 50, Gold: 2000, Gems: 50},
	{ID: "survivor", Name: "Survivor", Description: "Survive 10 battles below 10% HP", Type: AchSurvival, Requirement: 10, Gold: 1500, Gems: 35},
}
