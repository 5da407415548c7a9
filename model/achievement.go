package model

import "time"

// PlayerAchievement is one unlocked achievement. The unique index makes
// the unlock append-once: a duplicate insert fails instead of granting
// the reward a second time.
type PlayerAchievement struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID      int64     `gorm:"uniqueIndex:idx_player_achievement;not null" json:"player_id"`
	AchievementID string    `gorm:"uniqueIndex:idx_player_achievement;size:64;not null" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}
