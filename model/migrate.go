package model

import "gorm.io/gorm"

// allModels lists every model to be auto-migrated.
var allModels = []interface{}{
	&Account{},
	&Player{},
	&InventoryItem{},
	&QuestProgress{},
	&QuestCompletion{},
	&PlayerAchievement{},
	&Guild{},
	&GuildMember{},
	&ContributionReceipt{},
	&ActionLog{},
}

// AutoMigrate creates or updates all tables in the given database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(allModels...)
}
