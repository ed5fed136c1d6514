package checkers

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cell(row, col int) Cell { return Cell{Row: row, Col: col} }

func TestSelectRejectsOutOfTurn(t *testing.T) {
	e, err := NewGame(VariantStandard, Black, Rules{})
	require.NoError(t, err)
	require.Equal(t, White, e.Turn())

	before := e.State()
	res := e.Select(cell(5, 2))

	assert.False(t, res.Applied)
	assert.Equal(t, before, res.State)
	assert.Nil(t, res.State.Selected)
}

func TestSelectRejectsEnemyAndEmpty(t *testing.T) {
	e, err := NewGame(VariantStandard, White, Rules{})
	require.NoError(t, err)

	assert.False(t, e.Select(cell(2, 1)).Applied, "enemy piece")
	assert.False(t, e.Select(cell(4, 1)).Applied, "empty cell")
	_, selected := e.Selected()
	assert.False(t, selected)
}

func TestSelectComputesAndTogglesSelection(t *testing.T) {
	e, err := NewGame(VariantStandard, White, Rules{})
	require.NoError(t, err)

	res := e.Select(cell(5, 2))
	require.True(t, res.Applied)
	require.NotNil(t, res.State.Selected)
	assert.Equal(t, cell(5, 2), res.State.Selected.Cell)
	assert.ElementsMatch(t, []Cell{cell(4, 1), cell(4, 3)}, res.State.Simple)
	assert.Empty(t, res.State.Captures)

	res = e.Select(cell(5, 0))
	require.True(t, res.Applied)
	assert.Equal(t, cell(5, 0), res.State.Selected.Cell)
	assert.Equal(t, []Cell{cell(4, 1)}, res.State.Simple)

	res = e.Select(cell(5, 0))
	require.True(t, res.Applied)
	assert.Nil(t, res.State.Selected)
	assert.Empty(t, res.State.Simple)
}

func TestSimpleMoveAdvancesTurn(t *testing.T) {
	e, err := NewGame(VariantStandard, White, Rules{})
	require.NoError(t, err)
	moving := pieceAt(t, e.board, 5, 2)

	require.True(t, e.Select(cell(5, 2)).Applied)
	res := e.MoveTo(cell(4, 3))

	require.True(t, res.Applied)
	assert.Equal(t, 1, res.State.TurnCount)
	assert.Equal(t, Black, res.State.Turn)
	assert.Nil(t, res.State.Selected)
	assert.Empty(t, res.State.Simple)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, Step{Piece: moving.ID, Color: White, From: cell(5, 2), To: cell(4, 3), Captured: NoPiece}, res.Steps[0])

	moved, ok := e.board.Piece(moving.ID)
	require.True(t, ok)
	assert.Equal(t, cell(4, 3), moved.Cell)
	assert.Nil(t, res.State.Winner)
}

func TestMoveToIllegalTargetIsIgnored(t *testing.T) {
	e, err := NewGame(VariantStandard, White, Rules{})
	require.NoError(t, err)

	assert.False(t, e.MoveTo(cell(4, 3)).Applied, "no selection")

	require.True(t, e.Select(cell(5, 2)).Applied)
	before := e.State()
	for _, target := range []Cell{cell(3, 4), cell(5, 2), cell(6, 1), cell(-1, 0), cell(4, 2)} {
		res := e.MoveTo(target)
		assert.False(t, res.Applied, "target %v", target)
		assert.Equal(t, before, res.State)
	}
}

func TestCaptureRemovesVictim(t *testing.T) {
	b := boardWith(t, White, man(5, 2, White), man(4, 3, Black), man(0, 7, Black))
	e := NewEngine(b, Rules{})
	victim := pieceAt(t, b, 4, 3)

	res := e.Select(cell(5, 2))
	require.True(t, res.Applied)
	require.Len(t, res.State.Captures, 1)
	assert.Equal(t, cell(3, 4), res.State.Captures[0].Landing)
	assert.Equal(t, victim.ID, res.State.Captures[0].Captured)
	assert.Empty(t, res.State.Simple)

	res = e.MoveTo(cell(3, 4))
	require.True(t, res.Applied)
	assert.Equal(t, 1, res.State.BlackRemaining)
	assert.Equal(t, 1, res.State.WhiteRemaining)
	_, stillThere := res.State.PieceAt(cell(4, 3))
	assert.False(t, stillThere)
	mover, ok := res.State.PieceAt(cell(3, 4))
	require.True(t, ok)
	assert.Equal(t, White, mover.Color)
	require.Len(t, res.Steps, 1)
	assert.True(t, res.Steps[0].IsCapture())
	assert.Equal(t, victim.ID, res.Steps[0].Captured)
	assert.Equal(t, Black, res.State.Turn)
	assert.Equal(t, 1, res.State.TurnCount)
}

func TestChainCaptureKeepsTurn(t *testing.T) {
	b := boardWith(t, White,
		man(5, 0, White),
		man(4, 1, Black),
		man(2, 3, Black),
		man(0, 7, Black),
	)
	e := NewEngine(b, Rules{})
	jumper := pieceAt(t, b, 5, 0)

	require.True(t, e.Select(cell(5, 0)).Applied)
	res := e.MoveTo(cell(3, 2))

	require.True(t, res.Applied)
	require.NotNil(t, res.State.Selected)
	assert.Equal(t, jumper.ID, res.State.Selected.ID)
	assert.Equal(t, White, res.State.Turn)
	assert.Equal(t, 0, res.State.TurnCount)
	assert.True(t, res.State.ChainInProgress)
	assert.Equal(t, []Cell{cell(1, 4)}, landings(res.State.Moves()))
	assert.Empty(t, res.State.Simple)

	// the chain cannot be abandoned
	assert.False(t, e.Select(cell(3, 2)).Applied)
	assert.False(t, e.MoveTo(cell(2, 1)).Applied)

	res = e.MoveTo(cell(1, 4))
	require.True(t, res.Applied)
	assert.False(t, res.State.ChainInProgress)
	assert.Nil(t, res.State.Selected)
	assert.Equal(t, Black, res.State.Turn)
	assert.Equal(t, 1, res.State.TurnCount)
	assert.Equal(t, 1, res.State.BlackRemaining)
}

func TestLastCaptureDeclaresWinner(t *testing.T) {
	b := boardWith(t, White, man(5, 2, White), man(4, 3, Black))
	e := NewEngine(b, Rules{})

	require.True(t, e.Select(cell(5, 2)).Applied)
	res := e.MoveTo(cell(3, 4))

	require.True(t, res.Applied)
	require.NotNil(t, res.State.Winner)
	assert.Equal(t, White, *res.State.Winner)
	assert.Equal(t, 0, res.State.BlackRemaining)

	w, ok := e.Winner()
	assert.True(t, ok)
	assert.Equal(t, White, w)
	assert.False(t, e.Select(cell(3, 4)).Applied)
	assert.False(t, e.OpponentMove(NewRandomPolicy(rand.New(rand.NewSource(1)))).Applied)
}

func TestNoWinnerWhilePiecesRemain(t *testing.T) {
	e, err := NewGame(VariantStandard, White, Rules{})
	require.NoError(t, err)

	_, ok := e.Winner()
	assert.False(t, ok)
	assert.Nil(t, e.State().Winner)
}

func TestStalematedSideLoses(t *testing.T) {
	b := boardWith(t, White,
		man(0, 1, Black),
		man(1, 0, White),
		man(1, 2, White),
		man(2, 3, White),
		man(6, 1, White),
	)
	e := NewEngine(b, Rules{})

	require.True(t, e.Select(cell(6, 1)).Applied)
	res := e.MoveTo(cell(5, 0))

	require.True(t, res.Applied)
	require.NotNil(t, res.State.Winner)
	assert.Equal(t, White, *res.State.Winner)
	assert.Equal(t, 1, res.State.BlackRemaining)
}

func TestPromotionIsOffByDefault(t *testing.T) {
	b := boardWith(t, White, man(1, 2, White), man(2, 7, Black))
	e := NewEngine(b, Rules{})

	require.True(t, e.Select(cell(1, 2)).Applied)
	res := e.MoveTo(cell(0, 1))

	require.True(t, res.Applied)
	p, ok := res.State.PieceAt(cell(0, 1))
	require.True(t, ok)
	assert.False(t, p.King)
	assert.False(t, res.Steps[0].Crowned)
}

func TestPromotionOnFarRow(t *testing.T) {
	b := boardWith(t, White, man(1, 2, White), man(2, 7, Black))
	e := NewEngine(b, Rules{Promotion: true})

	require.True(t, e.Select(cell(1, 2)).Applied)
	res := e.MoveTo(cell(0, 1))

	require.True(t, res.Applied)
	p, ok := res.State.PieceAt(cell(0, 1))
	require.True(t, ok)
	assert.True(t, p.King)
	assert.True(t, res.Steps[0].Crowned)
}

func TestPromotionDuringChainContinuesAsKing(t *testing.T) {
	// after jumping onto row 0 the new king can go on backwards
	b := boardWith(t, White,
		man(2, 3, White),
		man(1, 2, Black),
		man(1, 0, Black),
		man(4, 5, Black),
	)
	e := NewEngine(b, Rules{Promotion: true})

	require.True(t, e.Select(cell(2, 3)).Applied)
	res := e.MoveTo(cell(0, 1))

	require.True(t, res.Applied)
	assert.True(t, res.Steps[0].Crowned)
	assert.True(t, res.State.ChainInProgress)
	assert.Equal(t, []Cell{cell(5, 6), cell(6, 7)}, landings(res.State.Moves()))
}

func TestOpponentMovePlaysForOpponent(t *testing.T) {
	e, err := NewGame(VariantStandard, White, Rules{})
	require.NoError(t, err)
	policy := NewRandomPolicy(rand.New(rand.NewSource(42)))

	assert.False(t, e.OpponentMove(policy).Applied, "not the opponent's turn")

	require.True(t, e.Select(cell(5, 2)).Applied)
	require.True(t, e.MoveTo(cell(4, 3)).Applied)

	res := e.OpponentMove(policy)
	require.True(t, res.Applied)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, Black, res.Steps[0].Color)
	assert.Equal(t, White, res.State.Turn)
	assert.Equal(t, 2, res.State.TurnCount)
	assert.Nil(t, res.State.Selected)
}

func TestOpponentTakesForcedCapture(t *testing.T) {
	b := boardWith(t, White,
		man(3, 2, Black),
		man(0, 7, Black),
		man(4, 3, White),
		man(6, 7, White),
	)
	e := NewEngine(b, Rules{})
	require.True(t, e.Select(cell(6, 7)).Applied)
	require.True(t, e.MoveTo(cell(5, 6)).Applied)

	res := e.OpponentMove(NewRandomPolicy(rand.New(rand.NewSource(3))))

	require.True(t, res.Applied)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, cell(3, 2), res.Steps[0].From)
	assert.Equal(t, cell(5, 4), res.Steps[0].To)
	assert.True(t, res.Steps[0].IsCapture())
	assert.Equal(t, 1, res.State.WhiteRemaining)
}

func TestOpponentPlaysWholeChain(t *testing.T) {
	b := boardWith(t, White,
		man(0, 1, Black),
		man(1, 2, White),
		man(3, 4, White),
		man(7, 0, White),
	)
	e := NewEngine(b, Rules{})
	require.True(t, e.Select(cell(7, 0)).Applied)
	require.True(t, e.MoveTo(cell(6, 1)).Applied)

	res := e.OpponentMove(NewRandomPolicy(rand.New(rand.NewSource(5))))

	require.True(t, res.Applied)
	require.Len(t, res.Steps, 2)
	assert.Equal(t, cell(2, 3), res.Steps[0].To)
	assert.Equal(t, cell(4, 5), res.Steps[1].To)
	assert.Equal(t, 1, res.State.WhiteRemaining)
	assert.Equal(t, White, res.State.Turn)
	assert.Equal(t, 2, res.State.TurnCount)
}

func TestOpponentWithoutMovesLoses(t *testing.T) {
	// turn advance already catches this; the engine is assembled by hand to
	// reach the opponent's own check
	b := boardWith(t, White, man(7, 0, Black), man(4, 1, White))
	e := &Engine{board: b, human: White, turn: Black, turnCount: 9, selected: NoPiece}

	res := e.OpponentMove(NewRandomPolicy(rand.New(rand.NewSource(1))))

	require.True(t, res.Applied)
	assert.Empty(t, res.Steps)
	require.NotNil(t, res.State.Winner)
	assert.Equal(t, White, *res.State.Winner)
}

// playOut drives both sides with random policies and checks the turn
// invariants after every command.
func playOut(t *testing.T, e *Engine, rng *rand.Rand, maxTurns int) {
	t.Helper()
	policy := NewRandomPolicy(rng)

	for e.TurnCount() < maxTurns {
		if _, over := e.Winner(); over {
			return
		}
		turn, count := e.Turn(), e.TurnCount()

		if turn == e.Human() {
			id, _, ok := policy.PickPiece(e.board, turn)
			require.True(t, ok, "human side has no move but no winner was declared")
			p, _ := e.board.Piece(id)
			require.True(t, e.Select(p.Cell).Applied)
			for {
				sel, _ := e.Selected()
				target, ok := policy.PickTarget(e.Pending())
				require.True(t, ok)
				before := e.State().Remaining(turn.Opponent())
				res := e.MoveTo(target)
				require.True(t, res.Applied)
				if res.Steps[0].IsCapture() {
					assert.Equal(t, before-1, res.State.Remaining(turn.Opponent()))
				}
				if !res.State.ChainInProgress {
					break
				}
				assert.Equal(t, sel.ID, res.State.Selected.ID)
				assert.Equal(t, turn, res.State.Turn)
				assert.Equal(t, count, res.State.TurnCount)
			}
		} else {
			require.True(t, e.OpponentMove(policy).Applied)
		}

		s := e.State()
		if s.Winner == nil || s.TurnCount != count {
			assert.Equal(t, count+1, s.TurnCount)
			assert.Equal(t, turn.Opponent(), s.Turn)
		}
		checkBoardInvariants(t, s)
	}
}

func checkBoardInvariants(t *testing.T, s State) {
	t.Helper()
	seen := map[Cell]bool{}
	counts := map[Color]int{}
	for _, p := range s.Pieces {
		assert.True(t, p.Cell.InBounds())
		assert.True(t, p.Cell.IsDark())
		assert.False(t, seen[p.Cell], "two pieces on %v", p.Cell)
		seen[p.Cell] = true
		counts[p.Color]++
	}
	assert.Equal(t, counts[White], s.WhiteRemaining)
	assert.Equal(t, counts[Black], s.BlackRemaining)
	if s.Winner != nil {
		loser := s.Winner.Opponent()
		if s.Remaining(loser) > 0 {
			assert.Equal(t, loser, s.Turn, "only the side to move can lose by stalemate")
		}
	}
}

func TestRandomGamesKeepInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		human := Color(rng.Intn(2))
		e, err := NewGame(VariantStandard, human, Rules{Promotion: seed%2 == 0})
		require.NoError(t, err)

		playOut(t, e, rng, 400)
	}
}
