package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Cron       CronConfig       `mapstructure:"cron"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Sweeper    SweeperConfig    `mapstructure:"sweeper"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CronConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Sweep   string `mapstructure:"sweep"`
}

// ScoringConfig carries the quota bounds and bonus constants as named
// configuration rather than magic numbers inside the calculators.
type ScoringConfig struct {
	MinQuota        float64 `mapstructure:"min_quota"`
	MaxQuota        float64 `mapstructure:"max_quota"`
	GoalDiffBonus   float64 `mapstructure:"goal_diff_bonus"`
	ExactScoreBonus float64 `mapstructure:"exact_score_bonus"`
	MaxTotalPoints  float64 `mapstructure:"max_total_points"`
	MinFavoriteProb float64 `mapstructure:"min_favorite_prob"`
}

type SettlementConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	TxTimeout   time.Duration `mapstructure:"tx_timeout"`
}

type SweeperConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	BatchSize int  `mapstructure:"batch_size"`
}

type CacheConfig struct {
	Enabled   bool  `mapstructure:"enabled"`
	ScanCount int64 `mapstructure:"scan_count"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.sweep", "@every 2m")

	v.SetDefault("scoring.min_quota", 2)
	v.SetDefault("scoring.max_quota", 6)
	v.SetDefault("scoring.goal_diff_bonus", 1)
	v.SetDefault("scoring.exact_score_bonus", 3)
	v.SetDefault("scoring.max_total_points", 10)
	v.SetDefault("scoring.min_favorite_prob", 0.65)

	v.SetDefault("settlement.max_attempts", 3)
	v.SetDefault("settlement.retry_delay", "200ms")
	v.SetDefault("settlement.tx_timeout", "15s")

	v.SetDefault("sweeper.enabled", true)
	v.SetDefault("sweeper.batch_size", 50)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.scan_count", 200)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
