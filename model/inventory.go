package model

import "time"

// InventoryItem is one stack in a player's bag: item name → count.
// A row only exists while Qty > 0; mutations that drive Qty to zero
// must delete the row rather than leave an empty stack behind.
type InventoryItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PlayerID  int64     `gorm:"uniqueIndex:idx_player_item;not null" json:"player_id"`
	ItemName  string    `gorm:"uniqueIndex:idx_player_item;size:64;not null" json:"item_name"`
	Qty       int       `gorm:"not null" json:"qty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
