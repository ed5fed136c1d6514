package checkers

import "math/rand"

// Policy chooses the opponent's moves.
type Policy interface {
	// PickPiece returns the first piece of color c, in board order, that has
	// a legal move, together with its moves. ok is false when c cannot move.
	PickPiece(b *Board, c Color) (id PieceID, moves Moves, ok bool)
	// PickTarget picks a destination among m. Captures take precedence.
	PickTarget(m Moves) (Cell, bool)
}

// RandomPolicy picks uniformly among the legal destinations of the first
// movable piece. The random source is injected so games can be replayed.
type RandomPolicy struct {
	rng *rand.Rand
}

func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	return &RandomPolicy{rng: rng}
}

func (r *RandomPolicy) PickPiece(b *Board, c Color) (PieceID, Moves, bool) {
	for _, p := range b.PiecesOf(c) {
		m := GenerateMoves(b, p)
		if !m.Empty() {
			return p.ID, m, true
		}
	}
	return NoPiece, Moves{}, false
}

func (r *RandomPolicy) PickTarget(m Moves) (Cell, bool) {
	if len(m.Captures) > 0 {
		return m.Captures[r.rng.Intn(len(m.Captures))].Landing, true
	}
	if len(m.Simple) > 0 {
		return m.Simple[r.rng.Intn(len(m.Simple))], true
	}
	return Cell{}, false
}
