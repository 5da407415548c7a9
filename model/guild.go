package model

import "time"

// GuildRank orders membership ranks; higher values dominate lower ones.
type GuildRank = int

const (
	GuildRankMember  GuildRank = 1
	GuildRankOfficer GuildRank = 2
	GuildRankLeader  GuildRank = 3
)

// Guild is a named, tagged player group with its own leveling curve
// and treasury. Perk percentages grow additively with guild level and
// are uncapped.
type Guild struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"uniqueIndex;size:32;not null" json:"name"`
	Tag         string `gorm:"uniqueIndex;size:5;not null" json:"tag"`
	Description string `gorm:"size:200" json:"description"`

	Level      int   `gorm:"default:1" json:"level"`
	XP         int64 `gorm:"default:0" json:"xp"`
	MaxMembers int   `gorm:"default:20" json:"max_members"`
	Treasury   int64 `gorm:"default:0" json:"treasury"`
	MinLevel   int   `gorm:"default:1" json:"min_level"`

	LeaderID int64 `gorm:"not null" json:"leader_id"`

	// Perks, as fractional bonuses (0.05 = +5%).
	XPBonus      float64 `gorm:"default:0" json:"xp_bonus"`
	GoldBonus    float64 `gorm:"default:0" json:"gold_bonus"`
	ShopDiscount float64 `gorm:"default:0" json:"shop_discount"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GuildMember links a player to a guild with a rank and a personal
// contribution counter.
type GuildMember struct {
	GuildID      int64     `gorm:"primaryKey" json:"guild_id"`
	PlayerID     int64     `gorm:"primaryKey;index:idx_member_player" json:"player_id"`
	Rank         int       `gorm:"default:1" json:"rank"`
	Contribution int64     `gorm:"default:0" json:"contribution"`
	JoinedAt     time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// ContributionReceipt makes guild contributions idempotent. The player
// debit and the guild credit are separate writes; a retry with the same
// receipt ID must not credit the guild twice.
type ContributionReceipt struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	GuildID   int64     `gorm:"index:idx_receipt_guild;not null" json:"guild_id"`
	PlayerID  int64     `gorm:"not null" json:"player_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Credited  bool      `gorm:"default:false" json:"credited"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
