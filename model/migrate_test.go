package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestAutoMigrateCreatesTables(t *testing.T) {
	db := openTestDB(t)

	for _, m := range allModels {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error, "table for %T", m)
		require.Zero(t, count)
	}
}

func TestPlayerDefaults(t *testing.T) {
	db := openTestDB(t)

	p := Player{ExternalID: "ext-1", Name: "Arden"}
	require.NoError(t, db.Create(&p).Error)

	var got Player
	require.NoError(t, db.First(&got, p.ID).Error)
	require.Equal(t, 1, got.Level)
	require.Equal(t, 100, got.HP)
	require.Equal(t, 100, got.MaxHP)
	require.Equal(t, 10, got.Attack)
	require.Equal(t, 5, got.Defense)
	require.Equal(t, int64(100), got.Gold)
	require.Equal(t, StarterWeapon, got.Weapon)
	require.Equal(t, StarterArmor, got.Armor)
	require.Nil(t, got.LastHunt)
}

func TestPlayerExternalIDUnique(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&Player{ExternalID: "dup", Name: "a"}).Error)
	err := db.Create(&Player{ExternalID: "dup", Name: "b"}).Error
	require.Error(t, err)
}

func TestInventoryUniquePerItem(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&InventoryItem{PlayerID: 1, ItemName: "Iron Ore", Qty: 3}).Error)
	err := db.Create(&InventoryItem{PlayerID: 1, ItemName: "Iron Ore", Qty: 1}).Error
	require.Error(t, err)

	require.NoError(t, db.Create(&InventoryItem{PlayerID: 2, ItemName: "Iron Ore", Qty: 1}).Error)
}

func TestAchievementUnlockOnce(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&PlayerAchievement{PlayerID: 1, AchievementID: "first_blood"}).Error)
	err := db.Create(&PlayerAchievement{PlayerID: 1, AchievementID: "first_blood"}).Error
	require.Error(t, err)
}

func TestGuildNameAndTagUnique(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&Guild{Name: "Ravens", Tag: "RVN", LeaderID: 1, MaxMembers: 20, Level: 1}).Error)
	require.Error(t, db.Create(&Guild{Name: "Ravens", Tag: "XYZ", LeaderID: 2}).Error)
	require.Error(t, db.Create(&Guild{Name: "Other", Tag: "RVN", LeaderID: 2}).Error)
}

func TestQuestCompletionWindow(t *testing.T) {
	db := openTestDB(t)

	done := QuestCompletion{PlayerID: 1, QuestID: "daily_hunt", CompletedAt: time.Now().Add(-48 * time.Hour)}
	require.NoError(t, db.Create(&done).Error)

	var got QuestCompletion
	require.NoError(t, db.Where("player_id = ? AND quest_id = ?", 1, "daily_hunt").First(&got).Error)
	require.True(t, got.CompletedAt.Before(time.Now().Add(-24*time.Hour)))
}
