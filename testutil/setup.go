package testutil

import (
	"testing"

	"github.com/chatrpg/engine/cache"
	"github.com/chatrpg/engine/config"
	dbadapter "github.com/chatrpg/engine/db"
	"github.com/chatrpg/engine/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB creates an in-memory database and runs AutoMigrate. It
// requires no external services and is safe for parallel tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbadapter.Open(config.DatabaseConfig{
		Mode: dbadapter.ModeMemory,
	})
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	return db
}

// SetupTestCache creates an in-process cache (no Redis required).
func SetupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewCache(cache.CacheConfig{})
	require.NoError(t, err, "SetupTestCache: NewCache")
	return c
}

// SeedPlayer inserts a player with sane defaults and returns it.
func SeedPlayer(t *testing.T, db *gorm.DB, externalID, name string) *model.Player {
	t.Helper()
	p := &model.Player{
		ExternalID: externalID,
		Name:       name,
		Level:      1,
		HP:         100, MaxHP: 100,
		Attack: 10, Defense: 5,
		Gold:   100,
		Weapon: model.StarterWeapon,
		Armor:  model.StarterArmor,
	}
	require.NoError(t, db.Create(p).Error, "SeedPlayer")
	return p
}
