package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"checkers_backend/internal/checkers"
)

func TestPlayGameTerminates(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		for _, promotion := range []bool{false, true} {
			human := checkers.Color(seed % 2)
			e, err := checkers.NewGame(checkers.VariantStandard, human, checkers.Rules{Promotion: promotion})
			require.NoError(t, err)

			res := playGame(e, checkers.NewRandomPolicy(rand.New(rand.NewSource(seed))), 1000)

			assert.LessOrEqual(t, res.turns, 1000)
			assert.GreaterOrEqual(t, res.steps, res.turns)
			if res.finished {
				s := e.State()
				loser := res.winner.Opponent()
				stuck := !checkers.HasAnyMove(e.Board(), loser)
				assert.True(t, s.Remaining(loser) == 0 || stuck, "seed %d: loser still has pieces and moves", seed)
			}
		}
	}
}

func TestPlayGameReducedOpponentWins(t *testing.T) {
	e, err := checkers.NewGame(checkers.VariantReduced, checkers.Black, checkers.Rules{})
	require.NoError(t, err)

	res := playGame(e, checkers.NewRandomPolicy(rand.New(rand.NewSource(1))), 10)

	require.True(t, res.finished)
	assert.Equal(t, checkers.White, res.winner)
	assert.Equal(t, 1, res.turns)
	assert.Equal(t, 2, res.steps)
}

func TestNewLoggerSkipsDebug(t *testing.T) {
	logger := NewLogger()

	assert.False(t, logger.Desugar().Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Desugar().Core().Enabled(zap.InfoLevel))
}
