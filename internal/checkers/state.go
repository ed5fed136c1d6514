package checkers

// State is an immutable view of the engine after a command. Hosts render
// from it and diff consecutive states instead of subscribing to changes.
type State struct {
	Pieces          []Piece   `json:"pieces"`
	Turn            Color     `json:"turn"`
	HumanColor      Color     `json:"human_color"`
	TurnCount       int       `json:"turn_count"`
	WhiteRemaining  int       `json:"white_remaining"`
	BlackRemaining  int       `json:"black_remaining"`
	Selected        *Piece    `json:"selected,omitempty"`
	Simple          []Cell    `json:"simple"`
	Captures        []Capture `json:"captures"`
	ChainInProgress bool      `json:"chain_in_progress"`
	Winner          *Color    `json:"winner,omitempty"`
}

func (e *Engine) State() State {
	s := State{
		Pieces:          e.board.Pieces(),
		Turn:            e.turn,
		HumanColor:      e.human,
		TurnCount:       e.turnCount,
		WhiteRemaining:  e.board.Remaining(White),
		BlackRemaining:  e.board.Remaining(Black),
		Simple:          []Cell{},
		Captures:        []Capture{},
		ChainInProgress: e.chain,
	}
	if p, ok := e.Selected(); ok {
		s.Selected = &p
		pending := copyMoves(e.pending)
		if pending.Simple != nil {
			s.Simple = pending.Simple
		}
		if pending.Captures != nil {
			s.Captures = pending.Captures
		}
	}
	if w, ok := e.Winner(); ok {
		s.Winner = &w
	}
	return s
}

func (s State) Remaining(c Color) int {
	if c == White {
		return s.WhiteRemaining
	}
	return s.BlackRemaining
}

// PieceAt looks a piece up by cell in the state's piece list.
func (s State) PieceAt(cell Cell) (Piece, bool) {
	for _, p := range s.Pieces {
		if p.Cell == cell {
			return p, true
		}
	}
	return Piece{}, false
}

// Moves returns the pending destinations of the current selection.
func (s State) Moves() Moves {
	return Moves{Simple: s.Simple, Captures: s.Captures}
}
