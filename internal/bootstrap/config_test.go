package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=:9090\nREDIS_URL=redis:6379\nKING_PROMOTION=true\nSNAPSHOT_TTL=90m\nBOARD_VARIANT=reduced\nOPPONENT_SEED=17\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Setup(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerPort)
	assert.Equal(t, "redis:6379", cfg.RedisUrl)
	assert.True(t, cfg.KingPromotion)
	assert.Equal(t, 90*time.Minute, cfg.SnapshotTTL)
	assert.Equal(t, "reduced", cfg.BoardVariant)
	assert.Equal(t, int64(17), cfg.OpponentSeed)
	assert.Equal(t, "checkers", cfg.MongoDatabase)
	assert.Equal(t, 10*time.Hour, cfg.SessionTTL)
}

func TestSetupWithoutFileUsesEnvironment(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("PAGE_LIMIT_PLAYERS", "5")

	cfg, err := Setup(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoUri)
	assert.Equal(t, 5, cfg.PageLimitPlayers)
	assert.Equal(t, ":8080", cfg.ServerPort)
	assert.Equal(t, "standard", cfg.BoardVariant)
	assert.False(t, cfg.KingPromotion)
	assert.Equal(t, StorageMongo, cfg.Storage)
}

func TestSetupRejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE", "sqlite")

	_, err := Setup(filepath.Join(t.TempDir(), "missing.env"))

	assert.Error(t, err)
}
