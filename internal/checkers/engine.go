package checkers

// Rules holds the optional rule extensions.
type Rules struct {
	// Promotion crowns a man that lands on its far row.
	Promotion bool
}

// Step is one applied relocation. A chain capture produces one Step per jump.
type Step struct {
	Piece      PieceID `json:"piece"`
	Color      Color   `json:"color"`
	From       Cell    `json:"from"`
	To         Cell    `json:"to"`
	Captured   PieceID `json:"captured"`
	CapturedAt *Cell   `json:"captured_at,omitempty"`
	Crowned    bool    `json:"crowned,omitempty"`
}

func (s Step) IsCapture() bool {
	return s.Captured != NoPiece
}

// Result is returned by every command. Applied is false when the command
// was rejected; State then equals the state before the call.
type Result struct {
	Applied bool   `json:"applied"`
	State   State  `json:"state"`
	Steps   []Step `json:"steps,omitempty"`
}

// Engine drives one game between the human side, which sits at the bottom
// of the board, and the opponent side. It is not safe for concurrent use.
type Engine struct {
	board     *Board
	rules     Rules
	human     Color
	turn      Color
	turnCount int
	selected  PieceID
	pending   Moves
	chain     bool
	winner    *Color
}

// NewEngine starts a game on b. The human plays b.Bottom() and White moves
// first.
func NewEngine(b *Board, rules Rules) *Engine {
	e := &Engine{
		board:    b,
		rules:    rules,
		human:    b.Bottom(),
		turn:     White,
		selected: NoPiece,
	}
	e.checkWinner()
	return e
}

func NewGame(v Variant, human Color, rules Rules) (*Engine, error) {
	b, err := NewVariantBoard(v, human)
	if err != nil {
		return nil, err
	}
	return NewEngine(b, rules), nil
}

func (e *Engine) Human() Color      { return e.human }
func (e *Engine) Opponent() Color   { return e.human.Opponent() }
func (e *Engine) Turn() Color       { return e.turn }
func (e *Engine) TurnCount() int    { return e.turnCount }
func (e *Engine) ChainActive() bool { return e.chain }

// Board returns a copy of the current board.
func (e *Engine) Board() *Board {
	return e.board.Clone()
}

func (e *Engine) Winner() (Color, bool) {
	if e.winner == nil {
		return White, false
	}
	return *e.winner, true
}

func (e *Engine) Selected() (Piece, bool) {
	if e.selected == NoPiece {
		return Piece{}, false
	}
	return e.board.Piece(e.selected)
}

func (e *Engine) Pending() Moves {
	return copyMoves(e.pending)
}

// Select handles a human click on a piece. Selecting the already selected
// piece clears the selection. Out-of-turn clicks, empty cells, enemy pieces
// and any selection change during a chain capture are ignored.
func (e *Engine) Select(cell Cell) Result {
	if e.winner != nil || e.turn != e.human || e.chain {
		return e.reject()
	}
	p, ok := e.board.At(cell)
	if !ok || p.Color != e.human {
		return e.reject()
	}
	if p.ID == e.selected {
		e.clearSelection()
		return e.accept(nil)
	}
	e.selectPiece(p)
	return e.accept(nil)
}

// MoveTo moves the human's selected piece to target if target is one of
// its pending destinations.
func (e *Engine) MoveTo(target Cell) Result {
	if e.winner != nil || e.turn != e.human {
		return e.reject()
	}
	step, ok := e.apply(target)
	if !ok {
		return e.reject()
	}
	return e.accept([]Step{step})
}

// OpponentMove plays the opponent's whole turn with policy, chain captures
// included. An opponent without any legal move loses.
func (e *Engine) OpponentMove(policy Policy) Result {
	opp := e.human.Opponent()
	if e.winner != nil || e.turn != opp {
		return e.reject()
	}
	if !e.chain {
		id, moves, ok := policy.PickPiece(e.board, opp)
		if !ok {
			e.declare(e.human)
			return e.accept(nil)
		}
		e.selected = id
		e.pending = moves
	}

	var steps []Step
	for {
		target, ok := policy.PickTarget(e.pending)
		if !ok {
			break
		}
		step, ok := e.apply(target)
		if !ok {
			break
		}
		steps = append(steps, step)
		if !e.chain {
			break
		}
	}
	if len(steps) == 0 {
		return e.reject()
	}
	return e.accept(steps)
}

func (e *Engine) selectPiece(p Piece) {
	e.selected = p.ID
	e.pending = GenerateMoves(e.board, p)
}

func (e *Engine) clearSelection() {
	e.selected = NoPiece
	e.pending = Moves{}
	e.chain = false
}

// apply performs a validated relocation of the selected piece. A capture
// that leaves another capture available keeps the piece selected and the
// turn with the same side.
func (e *Engine) apply(target Cell) (Step, bool) {
	p, ok := e.Selected()
	if !ok {
		return Step{}, false
	}
	step := Step{Piece: p.ID, Color: p.Color, From: p.Cell, To: target, Captured: NoPiece}

	capture, isCapture := e.pending.CaptureAt(target)
	if !isCapture && !e.pending.IsSimple(target) {
		return Step{}, false
	}
	if isCapture {
		if _, err := e.board.Remove(capture.Captured); err != nil {
			return Step{}, false
		}
		at := capture.CapturedAt
		step.Captured = capture.Captured
		step.CapturedAt = &at
	}
	if err := e.board.Move(p.ID, target); err != nil {
		return Step{}, false
	}
	step.Crowned = e.promote(p.ID)

	if isCapture {
		moved, _ := e.board.Piece(p.ID)
		next := GenerateMoves(e.board, moved)
		if next.HasCaptures() {
			e.pending = Moves{Captures: next.Captures}
			e.chain = true
			return step, true
		}
	}
	e.advanceTurn()
	return step, true
}

func (e *Engine) promote(id PieceID) bool {
	if !e.rules.Promotion {
		return false
	}
	p, ok := e.board.Piece(id)
	if !ok || p.King || p.Cell.Row != e.board.FarRow(p.Color) {
		return false
	}
	return e.board.Crown(id) == nil
}

func (e *Engine) advanceTurn() {
	e.clearSelection()
	e.turnCount++
	e.turn = e.turn.Opponent()
	e.checkWinner()
}

// checkWinner declares a winner when a side has no pieces left, or when the
// side to move cannot move at all.
func (e *Engine) checkWinner() {
	if e.winner != nil {
		return
	}
	switch {
	case e.board.Remaining(Black) == 0:
		e.declare(White)
	case e.board.Remaining(White) == 0:
		e.declare(Black)
	case !HasAnyMove(e.board, e.turn):
		e.declare(e.turn.Opponent())
	}
}

func (e *Engine) declare(c Color) {
	e.clearSelection()
	e.winner = &c
}

func (e *Engine) reject() Result {
	return Result{Applied: false, State: e.State()}
}

func (e *Engine) accept(steps []Step) Result {
	return Result{Applied: true, State: e.State(), Steps: steps}
}

func copyMoves(m Moves) Moves {
	var out Moves
	if len(m.Simple) > 0 {
		out.Simple = append([]Cell(nil), m.Simple...)
	}
	if len(m.Captures) > 0 {
		out.Captures = append([]Capture(nil), m.Captures...)
	}
	return out
}
