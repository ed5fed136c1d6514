package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort       string        `mapstructure:"SERVER_PORT"`
	RedisUrl         string        `mapstructure:"REDIS_URL"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	MongoUri         string        `mapstructure:"MONGO_URI"`
	MongoDatabase    string        `mapstructure:"MONGO_DATABASE"`
	IsLocalCors      bool          `mapstructure:"LOCAL_CORS"`
	SnapshotTTL      time.Duration `mapstructure:"SNAPSHOT_TTL"`
	SessionTTL       time.Duration `mapstructure:"SESSION_TTL"`
	BoardVariant     string        `mapstructure:"BOARD_VARIANT"`
	KingPromotion    bool          `mapstructure:"KING_PROMOTION"`
	OpponentSeed     int64         `mapstructure:"OPPONENT_SEED"`
	PageLimitPlayers int           `mapstructure:"PAGE_LIMIT_PLAYERS"`
	// Storage is "mongo" (Redis + MongoDB) or "memory" for runs without databases.
	Storage string `mapstructure:"STORAGE"`
}

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

var defaults = map[string]any{
	"SERVER_PORT":        ":8080",
	"REDIS_URL":          "localhost:6379",
	"REDIS_PASSWORD":     "",
	"MONGO_URI":          "mongodb://localhost:27017",
	"MONGO_DATABASE":     "checkers",
	"LOCAL_CORS":         false,
	"SNAPSHOT_TTL":       "24h",
	"SESSION_TTL":        "10h",
	"BOARD_VARIANT":      "standard",
	"KING_PROMOTION":     false,
	"OPPONENT_SEED":      0,
	"PAGE_LIMIT_PLAYERS": 20,
	"STORAGE":            StorageMongo,
}

// Setup reads cfgPath (env format) and the process environment. A missing
// file is fine as long as the environment carries what is needed.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigFile(cfgPath)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Storage != StorageMongo && cfg.Storage != StorageMemory {
		return nil, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}

	return &cfg, nil
}
