package checkers

import (
	"fmt"
	"strings"
)

const BoardSize = 8

type Color int

const (
	White Color = iota
	Black
)

func (c Color) Valid() bool {
	return c == White || c == Black
}

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q", string(text))
	}
	return nil
}

// Cell is a board coordinate. Row 0 is the top edge, which is the
// opponent's home side.
type Cell struct {
	Row int `json:"row" bson:"row"`
	Col int `json:"col" bson:"col"`
}

func (c Cell) InBounds() bool {
	return c.Row >= 0 && c.Row < BoardSize && c.Col >= 0 && c.Col < BoardSize
}

// IsDark reports whether the cell is a playable square.
func (c Cell) IsDark() bool {
	return (c.Row+c.Col)%2 == 1
}

func (c Cell) Step(d Direction) Cell {
	return Cell{Row: c.Row + d.DRow, Col: c.Col + d.DCol}
}

// String renders the cell in algebraic form, a8 being the top-left corner.
func (c Cell) String() string {
	if !c.InBounds() {
		return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+c.Col, BoardSize-c.Row)
}

type Direction struct {
	DRow int
	DCol int
}

var (
	upLeft    = Direction{DRow: -1, DCol: -1}
	upRight   = Direction{DRow: -1, DCol: 1}
	downLeft  = Direction{DRow: 1, DCol: -1}
	downRight = Direction{DRow: 1, DCol: 1}

	upward    = []Direction{upLeft, upRight}
	downward  = []Direction{downLeft, downRight}
	diagonals = []Direction{upLeft, upRight, downLeft, downRight}
)

// PieceID is stable for the whole game: moving a piece keeps its ID and
// captured IDs are never reused.
type PieceID int

const NoPiece PieceID = -1

type Piece struct {
	ID    PieceID `json:"id"`
	Cell  Cell    `json:"cell"`
	Color Color   `json:"color"`
	King  bool    `json:"king"`
}

func (p Piece) IsWhite() bool {
	return p.Color == White
}

// MoveDirections returns the simple-move offsets. A man moves toward the
// opponent's side only: rows decrease when towardTop is set.
func (p Piece) MoveDirections(towardTop bool) []Direction {
	if p.King {
		return diagonals
	}
	if towardTop {
		return upward
	}
	return downward
}

// CaptureDirections returns the offsets probed for an adjacent enemy. They
// follow the same diagonals as MoveDirections.
func (p Piece) CaptureDirections(towardTop bool) []Direction {
	return p.MoveDirections(towardTop)
}

// Range is how far along a diagonal the piece may look for something to jump.
func (p Piece) Range() int {
	if p.King {
		return BoardSize
	}
	return 1
}
