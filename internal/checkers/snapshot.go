package checkers

import "fmt"

// Snapshot is the persistable form of an Engine. Derived data (pending
// moves) is not stored; Restore recomputes it.
type Snapshot struct {
	Pieces         []Piece  `json:"pieces"`
	Selected       *PieceID `json:"selected,omitempty"`
	HumanWhite     bool     `json:"human_white"`
	Turn           Color    `json:"turn"`
	TurnCount      int      `json:"turn_count"`
	WhiteRemaining int      `json:"white_remaining"`
	BlackRemaining int      `json:"black_remaining"`
	Chain          bool     `json:"chain,omitempty"`
	Winner         *Color   `json:"winner,omitempty"`
}

func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Pieces:         e.board.Pieces(),
		HumanWhite:     e.human == White,
		Turn:           e.turn,
		TurnCount:      e.turnCount,
		WhiteRemaining: e.board.Remaining(White),
		BlackRemaining: e.board.Remaining(Black),
		Chain:          e.chain,
	}
	if e.selected != NoPiece {
		id := e.selected
		s.Selected = &id
	}
	if e.winner != nil {
		w := *e.winner
		s.Winner = &w
	}
	return s
}

// Restore rebuilds an engine from s. A snapshot that breaks a board
// invariant is refused with ErrInvalidSnapshot; nothing is repaired. The
// winner is recomputed from the position and must equal the recorded one,
// so a won position without a recorded winner is refused too.
func Restore(s Snapshot, rules Rules) (*Engine, error) {
	human := Black
	if s.HumanWhite {
		human = White
	}
	b := NewBoard(human)

	ids := make(map[PieceID]bool, len(s.Pieces))
	for _, p := range s.Pieces {
		if !p.Cell.InBounds() {
			return nil, invalid("piece %d out of bounds at %v", p.ID, p.Cell)
		}
		if !p.Cell.IsDark() {
			return nil, invalid("piece %d on light square %v", p.ID, p.Cell)
		}
		if p.ID < 0 || ids[p.ID] {
			return nil, invalid("bad or duplicate piece id %d", p.ID)
		}
		if !p.Color.Valid() {
			return nil, invalid("piece %d has unknown color %d", p.ID, p.Color)
		}
		if b.IsOccupied(p.Cell) {
			return nil, invalid("two pieces on %v", p.Cell)
		}
		ids[p.ID] = true
		b.pieces = append(b.pieces, p)
		b.remaining[p.Color]++
		if p.ID >= b.nextID {
			b.nextID = p.ID + 1
		}
	}
	if b.remaining[White] != s.WhiteRemaining || b.remaining[Black] != s.BlackRemaining {
		return nil, invalid("counts %d/%d do not match pieces %d/%d",
			s.WhiteRemaining, s.BlackRemaining, b.remaining[White], b.remaining[Black])
	}
	if s.TurnCount < 0 {
		return nil, invalid("negative turn count %d", s.TurnCount)
	}
	if !s.Turn.Valid() {
		return nil, invalid("unknown turn color %d", s.Turn)
	}

	e := &Engine{
		board:     b,
		rules:     rules,
		human:     human,
		turn:      s.Turn,
		turnCount: s.TurnCount,
		selected:  NoPiece,
	}
	e.checkWinner()
	switch {
	case e.winner == nil && s.Winner != nil:
		return nil, invalid("recorded winner %v but the game is not over", *s.Winner)
	case e.winner != nil && s.Winner == nil:
		return nil, invalid("position is won by %v but no winner is recorded", *e.winner)
	case e.winner != nil && *e.winner != *s.Winner:
		return nil, invalid("recorded winner %v, position is won by %v", *s.Winner, *e.winner)
	case e.winner != nil && (s.Selected != nil || s.Chain):
		return nil, invalid("selection in a finished game")
	}

	if s.Selected != nil {
		p, ok := b.Piece(*s.Selected)
		if !ok {
			return nil, invalid("selected piece %d is not on the board", *s.Selected)
		}
		if p.Color != s.Turn {
			return nil, invalid("selected piece %d does not belong to the side to move", p.ID)
		}
		e.selectPiece(p)
		if s.Chain {
			if !e.pending.HasCaptures() {
				return nil, invalid("chain capture without a capture for piece %d", p.ID)
			}
			e.chain = true
		}
	} else if s.Chain {
		return nil, invalid("chain capture without a selection")
	}
	return e, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
}
