package refdata

// DailyReward is the payout for one streak day.
type DailyReward struct {
	Day   int
	Gold  int64
	Gems  int64
	Items map[string]int
}

// DailyRewards covers streak days 1 through 30. Streaks longer than
// the table wrap by capping at the final entry.
var DailyRewards = []DailyReward{
	{Day: 1, Gold: 100, Gems: 5},
	{Day: 2, Gold: 150, Gems: 5, Items: map[string]int{"Health Potion": 1}},
	{Day: 3, Gold: 200, Gems: 10},
	{Day: 4, Gold: 250, Gems: 10, Items: map[string]int{"Iron Ore": 2}},
	{Day: 5, Gold: 300, Gems: 15, Items: map[string]int{"Gold Ore": 1}},
	{Day: 6, Gold: 400, Gems: 20, Items: map[string]int{"Health Potion": 2, "Mana Potion": 1}},
	{Day: 7, Gold: 500, Gems: 25, Items: map[string]int{"Greater Health Potion": 1}},
	{Day: 8, Gold: 200, Gems: 10},
	{Day: 9, Gold: 250, Gems: 15, Items: map[string]int{"Iron Ore": 2}},
	{Day: 10, Gold: 300, Gems: 15, Items: map[string]int{"Health Potion": 2}},
	{Day: 11, Gold: 350, Gems: 20, Items: map[string]int{"Gold Ore": 2}},
	{Day: 12, Gold: 400, Gems: 25, Items: map[string]int{"Mana Potion": 2}},
	{Day: 13, Gold: 500, Gems: 30, Items: map[string]int{"Lucky Charm": 1}},
	{Day: 14, Gold: 750, Gems: 50, Items: map[string]int{"Mithril Ore": 1}},
	{Day: 15, Gold: 300, Gems: 15},
	{Day: 16, Gold: 400, Gems: 20, Items: map[string]int{"Mithril Ore": 1}},
	{Day: 17, Gold: 500, Gems: 25, Items: map[string]int{"Health Potion": 3}},
	{Day: 18, Gold: 600, Gems: 30, Items: map[string]int{"Gold Ore": 3}},
	{Day: 19, Gold: 700, Gems: 35, Items: map[string]int{"Teleport Scroll": 1}},
	{Day: 20, Gold: 800, Gems: 40, Items: map[string]int{"Mithril Ore": 1}},
	{Day: 21, Gold: 1000, Gems: 75, Items: map[string]int{"Greater Health Potion": 2, "Lucky Charm": 1}},
	{Day: 22, Gold: 400, Gems: 20},
	{Day: 23, Gold: 500, Gems: 25, Items: map[string]int{"Mithril Ore": 1}},
	{Day: 24, Gold: 600, Gems: 30, Items: map[string]int{"Mana Potion": 3}},
	{Day: 25, Gold: 700, Gems: 35, Items: map[string]int{"Gold Ore": 4}},
	{Day: 26, Gold: 800, Gems: 40, Items: map[string]int{"Greater Health Potion": 2}},
	{Day: 27, Gold: 900, Gems: 45, Items: map[string]int{"Dragon Scale": 1}},
	{Day: 28, Gold: 1500, Gems: 100, Items: map[string]int{"Resurrection Stone": 1}},
	{Day: 29, Gold: 1000, Gems: 50, Items: map[string]int{"Mithril Ore": 2}},
	{Day: 30, Gold: 2000, Gems: 150, Items: map[string]int{"Dragon Scale": 2, "Resurrection Stone": 1}},
}

// RewardForStreak returns the table entry for a streak day, capping at
// the final entry.
func RewardForStreak(day int) DailyReward {
	if day < 1 {
		day = 1
	}
	if day > len(DailyRewards) {
		day = len(DailyRewards)
	}
	return DailyRewards[day-1]
}

// LoginBonus is the level-tier top-up granted alongside the streak
// reward.
type LoginBonus struct {
	Tier string
	Gold int64
	Gems int64
	XP   int
}

// LoginBonusFor returns the tier bonus for a player level.
func LoginBonusFor(level int) LoginBonus {
	switch {
	case level <= 10:
		return LoginBonus{Tier: "newbie", Gold: 50, Gems: 2, XP: 25}
	case level <= 25:
		return LoginBonus{Tier: "regular", Gold: 100, Gems: 5, XP: 50}
	case level <= 50:
		return LoginBonus{Tier: "veteran", Gold: 200, Gems: 10, XP: 100}
	default:
		return LoginBonus{Tier: "elite", Gold: 300, Gems: 15, XP: 150}
	}
}

// ChallengeKind names the activity a daily challenge counts.
type ChallengeKind = string

const (
	ChallengeHunt      ChallengeKind = "hunt"
	ChallengeQuest     ChallengeKind = "quest"
	ChallengeCraft     ChallengeKind = "craft"
	ChallengeGold      ChallengeKind = "gold"
	ChallengeAdventure ChallengeKind = "adventure"
)

// Challenge is one daily challenge definition.
type Challenge struct {
	ID          string
	Name        string
	Description string
	Kind        ChallengeKind
	Requirement int
	Reward      Reward
}

// Challenges is the pool daily challenge sets are drawn from.
var Challenges = []Challenge{
	{ID: "hunt_monsters", Name: "Monster Hunter", Description: "Hunt 5 monsters", Kind: ChallengeHunt, Requirement: 5,
		Reward: Reward{Gold: 200, Gems: 10, XP: 100}},
	{ID: "complete_quests", Name: "Quest Master", Description: "Complete 2 quests", Kind: ChallengeQuest, Requirement: 2,
		Reward: Reward{Gold: 300, Gems: 15, XP: 150}},
	{ID: "craft_items", Name: "Master Crafter", Description: "Craft 3 items", Kind: ChallengeCraft, Requirement: 3,
		Reward: Reward{Gold: 250, Gems: 12, XP: 125}},
	{ID: "earn_gold", Name: "Gold Digger", Description: "Earn 1000 gold", Kind: ChallengeGold, Requirement: 1000,
		Reward: Reward{Gold: 500, Gems: 20, XP: 200}},
	{ID: "adventure_time", Name: "Explorer", Description: "Complete 3 adventures", Kind: ChallengeAdventure, Requirement: 3,
		Reward: Reward{Gold: 300, Gems: 15, XP: 150}},
}

// ChallengeByID looks a challenge up in the pool.
func ChallengeByID(id string) (Challenge, bool) {
	for _, c := range Challenges {
		if c.ID == id {
			return c, true
		}
	}
	return Challenge{}, false
}
