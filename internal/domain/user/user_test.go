package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithResult(t *testing.T) {
	var s UserStatistic

	s = s.WithResult(false, 12)
	assert.Equal(t, UserStatistic{Losses: 1, AverageMoves: 12}, s)

	s = s.WithResult(true, 6)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 2, s.Games())
	assert.InDelta(t, 9.0, s.AverageMoves, 1e-9)
}
