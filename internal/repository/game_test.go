package repo

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"checkers_backend/internal/bootstrap"
	"checkers_backend/internal/checkers"
)

// recordingHook answers every command itself and keeps its arguments, so no
// server is dialed.
type recordingHook struct {
	cmds [][]any
}

func (h *recordingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *recordingHook) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		h.cmds = append(h.cmds, cmd.Args())
		return nil
	}
}

func (h *recordingHook) ProcessPipelineHook(_ redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			h.cmds = append(h.cmds, cmd.Args())
		}
		return nil
	}
}

func TestSaveSnapshotRefreshesMoveLogTTL(t *testing.T) {
	hook := &recordingHook{}
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	client.AddHook(hook)
	defer client.Close()

	cfg := bootstrap.Config{SnapshotTTL: 90 * time.Minute}
	g := NewGameRepository(cfg, zap.NewNop().Sugar(), client, nil)

	e, err := checkers.NewGame(checkers.VariantReduced, checkers.Black, checkers.Rules{})
	require.NoError(t, err)
	require.NoError(t, g.SaveSnapshot(context.Background(), "g1", e.Snapshot()))

	var names []string
	keys := map[string]any{}
	for _, args := range hook.cmds {
		name := args[0].(string)
		names = append(names, name)
		if len(args) > 1 {
			keys[name] = args[1]
		}
	}
	assert.Equal(t, []string{"multi", "set", "expire", "exec"}, names)
	assert.Equal(t, snapshotKey("g1"), keys["set"])
	assert.Equal(t, movesKey("g1"), keys["expire"])
}
