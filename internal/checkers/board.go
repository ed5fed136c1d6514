package checkers

import "fmt"

// Board owns the live pieces. Pieces keep setup order, which is also the
// traversal order used by the opponent policy.
type Board struct {
	pieces    []Piece
	bottom    Color
	remaining [2]int
	nextID    PieceID
}

// NewBoard builds an empty board where bottom is the color that starts on
// the lower rows and advances toward row 0.
func NewBoard(bottom Color) *Board {
	return &Board{bottom: bottom}
}

// Place adds a new piece and counts it as remaining for its color.
func (b *Board) Place(cell Cell, color Color, king bool) (Piece, error) {
	if !color.Valid() {
		return Piece{}, fmt.Errorf("%w: %d", ErrUnknownColor, int(color))
	}
	if !cell.InBounds() {
		return Piece{}, fmt.Errorf("%w: %v", ErrOutOfBounds, cell)
	}
	if b.IsOccupied(cell) {
		return Piece{}, fmt.Errorf("%w: %v", ErrCellOccupied, cell)
	}
	p := Piece{ID: b.nextID, Cell: cell, Color: color, King: king}
	b.nextID++
	b.pieces = append(b.pieces, p)
	b.remaining[color]++
	return p, nil
}

func (b *Board) Bottom() Color {
	return b.bottom
}

// TowardTop reports whether pieces of color c advance toward row 0.
func (b *Board) TowardTop(c Color) bool {
	return c == b.bottom
}

// FarRow is the row on which a man of color c would be promoted.
func (b *Board) FarRow(c Color) int {
	if b.TowardTop(c) {
		return 0
	}
	return BoardSize - 1
}

func (b *Board) Pieces() []Piece {
	out := make([]Piece, len(b.pieces))
	copy(out, b.pieces)
	return out
}

func (b *Board) PiecesOf(c Color) []Piece {
	var out []Piece
	for _, p := range b.pieces {
		if p.Color == c {
			out = append(out, p)
		}
	}
	return out
}

func (b *Board) Piece(id PieceID) (Piece, bool) {
	i := b.index(id)
	if i < 0 {
		return Piece{}, false
	}
	return b.pieces[i], true
}

func (b *Board) At(cell Cell) (Piece, bool) {
	for _, p := range b.pieces {
		if p.Cell == cell {
			return p, true
		}
	}
	return Piece{}, false
}

func (b *Board) IsOccupied(cell Cell) bool {
	_, ok := b.At(cell)
	return ok
}

// IsEnemy reports whether cell holds a piece not of color c.
func (b *Board) IsEnemy(cell Cell, c Color) bool {
	p, ok := b.At(cell)
	return ok && p.Color != c
}

func (b *Board) Remaining(c Color) int {
	return b.remaining[c]
}

// Move relocates a piece in place; its ID is preserved.
func (b *Board) Move(id PieceID, to Cell) error {
	i := b.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNoSuchPiece, id)
	}
	if !to.InBounds() {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, to)
	}
	if occupant, ok := b.At(to); ok && occupant.ID != id {
		return fmt.Errorf("%w: %v", ErrCellOccupied, to)
	}
	b.pieces[i].Cell = to
	return nil
}

func (b *Board) Crown(id PieceID) error {
	i := b.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNoSuchPiece, id)
	}
	b.pieces[i].King = true
	return nil
}

// Remove takes a captured piece off the board and decrements its color's
// remaining count.
func (b *Board) Remove(id PieceID) (Piece, error) {
	i := b.index(id)
	if i < 0 {
		return Piece{}, fmt.Errorf("%w: %d", ErrNoSuchPiece, id)
	}
	p := b.pieces[i]
	b.pieces = append(b.pieces[:i], b.pieces[i+1:]...)
	b.remaining[p.Color]--
	return p, nil
}

func (b *Board) Clone() *Board {
	return &Board{
		pieces:    b.Pieces(),
		bottom:    b.bottom,
		remaining: b.remaining,
		nextID:    b.nextID,
	}
}

func (b *Board) index(id PieceID) int {
	for i, p := range b.pieces {
		if p.ID == id {
			return i
		}
	}
	return -1
}
