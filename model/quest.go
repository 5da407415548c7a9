package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuestProgress is one active quest instance owned by a player.
// Progress maps objective keys to their clamped counters.
type QuestProgress struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID  int64          `gorm:"uniqueIndex:idx_player_quest;not null" json:"player_id"`
	QuestID   string         `gorm:"uniqueIndex:idx_player_quest;size:64;not null" json:"quest_id"`
	Progress  datatypes.JSON `json:"progress"` // map[objectiveKey]int
	StartedAt time.Time      `gorm:"autoCreateTime" json:"started_at"`
}

// QuestCompletion records a finished quest. For non-repeatable quests
// the row is permanent; for daily/weekly quests CompletedAt is compared
// against the current reset window to decide availability.
type QuestCompletion struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID    int64     `gorm:"uniqueIndex:idx_player_done;not null" json:"player_id"`
	QuestID     string    `gorm:"uniqueIndex:idx_player_done;size:64;not null" json:"quest_id"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
}
