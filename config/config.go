package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Game     GameConfig     `mapstructure:"game"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port     int      `mapstructure:"port"`
	Debug    bool     `mapstructure:"debug"`
	AdminKey string   `mapstructure:"admin_key"`
	AdminIPs []string `mapstructure:"admin_ips"`
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // memory | sqlite | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

// GameConfig tunes the progression and economy rules.
type GameConfig struct {
	// Cooldown intervals per timed action, in minutes.
	HuntCooldownMin      int `mapstructure:"hunt_cooldown_min"`
	AdventureCooldownMin int `mapstructure:"adventure_cooldown_min"`
	WorkCooldownMin      int `mapstructure:"work_cooldown_min"`
	DailyCooldownMin     int `mapstructure:"daily_cooldown_min"`
	DungeonCooldownMin   int `mapstructure:"dungeon_cooldown_min"`

	// Per-level stat growth.
	LevelUpHPBonus      int `mapstructure:"level_up_hp_bonus"`
	LevelUpAttackBonus  int `mapstructure:"level_up_attack_bonus"`
	LevelUpDefenseBonus int `mapstructure:"level_up_defense_bonus"`

	// Combat tuning.
	CombatVariance       int     `mapstructure:"combat_variance"`
	CombatCritChance     float64 `mapstructure:"combat_crit_chance"`
	CombatCritMultiplier float64 `mapstructure:"combat_crit_multiplier"`

	// Guild economy.
	GuildCreationFee   int64 `mapstructure:"guild_creation_fee"`
	GuildCreationLevel int   `mapstructure:"guild_creation_level"`

	// Daily rewards.
	DailyStreakCap     int `mapstructure:"daily_streak_cap"`
	DailyChallengeSize int `mapstructure:"daily_challenge_size"`
}

type SecurityConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTLH        time.Duration `mapstructure:"jwt_ttl_h"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config populated with the built-in defaults only.
// Used by tests and by callers that run without a config file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./data/game.db")
	v.SetDefault("database.mysql_max_open", 50)
	v.SetDefault("database.mysql_max_idle", 10)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("game.hunt_cooldown_min", 5)
	v.SetDefault("game.adventure_cooldown_min", 30)
	v.SetDefault("game.work_cooldown_min", 60)
	v.SetDefault("game.daily_cooldown_min", 1440)
	v.SetDefault("game.dungeon_cooldown_min", 120)
	v.SetDefault("game.level_up_hp_bonus", 10)
	v.SetDefault("game.level_up_attack_bonus", 2)
	v.SetDefault("game.level_up_defense_bonus", 1)
	v.SetDefault("game.combat_variance", 2)
	v.SetDefault("game.combat_crit_chance", 0.1)
	v.SetDefault("game.combat_crit_multiplier", 1.5)
	v.SetDefault("game.guild_creation_fee", 1000)
	v.SetDefault("game.guild_creation_level", 5)
	v.SetDefault("game.daily_streak_cap", 30)
	v.SetDefault("game.daily_challenge_size", 5)
	v.SetDefault("security.jwt_ttl_h", "72h")
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)
}
