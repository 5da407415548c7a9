package model

import (
	"time"

	"gorm.io/datatypes"
)

// Equipment slot names. Each slot holds an item name or "" when empty.
const (
	SlotWeapon    = "weapon"
	SlotArmor     = "armor"
	SlotAccessory = "accessory"
	SlotPet       = "pet"
)

// Starter defaults. These are discarded instead of returned to the
// inventory when replaced by a crafted or dropped item.
const (
	StarterWeapon = "Wooden Sword"
	StarterArmor  = "Cloth Armor"
)

// Player is the central persistent aggregate. The chat layer addresses
// players by ExternalID (an opaque stable identifier); everything else
// keys on the numeric primary key.
type Player struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID string `gorm:"uniqueIndex;size:64;not null" json:"external_id"`
	AccountID  *int64 `gorm:"index:idx_player_account" json:"account_id"`
	Name       string `gorm:"size:32;not null" json:"name"`

	// Vitals.
	Level   int   `gorm:"default:1" json:"level"`
	XP      int64 `gorm:"default:0" json:"xp"`
	HP      int   `gorm:"default:100" json:"hp"`
	MaxHP   int   `gorm:"default:100" json:"max_hp"`
	Attack  int   `gorm:"default:10" json:"attack"`
	Defense int   `gorm:"default:5" json:"defense"`
	Gold    int64 `gorm:"default:100" json:"gold"`
	Gems    int64 `gorm:"default:0" json:"gems"`

	// Equipment slots hold item names; empty string means the slot is free.
	Weapon    string `gorm:"size:64;default:'Wooden Sword'" json:"weapon"`
	Armor     string `gorm:"size:64;default:'Cloth Armor'" json:"armor"`
	Accessory string `gorm:"size:64" json:"accessory"`
	Pet       string `gorm:"size:64" json:"pet"`

	// Cooldown stamps. Nil means the action was never performed.
	// These are the authoritative cooldown state; the cache layer only
	// mirrors them for fast reads.
	LastHunt      *time.Time `json:"last_hunt"`
	LastAdventure *time.Time `json:"last_adventure"`
	LastWork      *time.Time `json:"last_work"`
	LastDaily     *time.Time `json:"last_daily"`
	LastDungeon   *time.Time `json:"last_dungeon"`

	// Guild linkage. Rank is meaningful only while GuildID is set.
	GuildID   *int64 `gorm:"index:idx_player_guild" json:"guild_id"`
	GuildRank int    `gorm:"default:0" json:"guild_rank"`

	// Lifetime counters. Monotonically increasing; feed achievements
	// and quest objectives.
	TotalHunts      int64 `gorm:"default:0" json:"total_hunts"`
	TotalAdventures int64 `gorm:"default:0" json:"total_adventures"`
	TotalDungeons   int64 `gorm:"default:0" json:"total_dungeons"`
	TotalDuels      int64 `gorm:"default:0" json:"total_duels"`
	MonstersKilled  int64 `gorm:"default:0" json:"monsters_killed"`
	BossesKilled    int64 `gorm:"default:0" json:"bosses_killed"`
	GoldEarned      int64 `gorm:"default:0" json:"gold_earned"`
	ItemsCrafted    int64 `gorm:"default:0" json:"items_crafted"`
	QuestsCompleted int64 `gorm:"default:0" json:"quests_completed"`
	LowHPSurvivals  int64 `gorm:"default:0" json:"low_hp_survivals"`

	// Timed buffs from consumables: []Buff, pruned lazily.
	Buffs datatypes.JSON `json:"buffs"`

	// Daily reward streak and per-day challenge state.
	DailyStreak       int            `gorm:"default:0" json:"daily_streak"`
	ChallengeDate     *time.Time     `json:"challenge_date"`
	ChallengeSet      datatypes.JSON `json:"challenge_set"`      // []string of challenge IDs drawn today
	ChallengeProgress datatypes.JSON `json:"challenge_progress"` // map[challengeID]int
	ChallengesDone    datatypes.JSON `json:"challenges_done"`    // []string completed today

	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	LastActive time.Time `gorm:"autoUpdateTime" json:"last_active"`
}

// Buff is one temporary stat modifier, stored in Player.Buffs.
type Buff struct {
	Kind      string    `json:"kind"` // see game/consumable effect kinds
	Value     float64   `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
	Source    string    `json:"source"`
}

// EquippedIn returns the item name held in the named slot.
func (p *Player) EquippedIn(slot string) string {
	switch slot {
	case SlotWeapon:
		return p.Weapon
	case SlotArmor:
		return p.Armor
	case SlotAccessory:
		return p.Accessory
	case SlotPet:
		return p.Pet
	}
	return ""
}
