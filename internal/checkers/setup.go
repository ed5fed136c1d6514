package checkers

import "fmt"

type Variant string

const (
	VariantStandard Variant = "standard"
	VariantReduced  Variant = "reduced"
)

const homeRows = 3

// NewStandardBoard lays out twelve pieces per side on the dark squares of
// the three home rows. The top side is placed first, so its pieces get the
// lower IDs.
func NewStandardBoard(bottom Color) *Board {
	b := NewBoard(bottom)
	top := bottom.Opponent()
	for row := 0; row < homeRows; row++ {
		fillRow(b, row, top)
	}
	for row := BoardSize - homeRows; row < BoardSize; row++ {
		fillRow(b, row, bottom)
	}
	return b
}

func fillRow(b *Board, row int, c Color) {
	for step := 0; step < BoardSize; step += 2 {
		col := step
		if row%2 == 0 {
			col++
		}
		// cells are dark and distinct by construction
		_, _ = b.Place(Cell{Row: row, Col: col}, c, false)
	}
}

// NewReducedBoard is the small test layout: two bottom pieces facing a
// single top piece.
func NewReducedBoard(bottom Color) *Board {
	b := NewBoard(bottom)
	_, _ = b.Place(Cell{Row: 6, Col: 1}, bottom, false)
	_, _ = b.Place(Cell{Row: 4, Col: 1}, bottom, false)
	_, _ = b.Place(Cell{Row: 3, Col: 0}, bottom.Opponent(), false)
	return b
}

func NewVariantBoard(v Variant, bottom Color) (*Board, error) {
	switch v {
	case VariantStandard, "":
		return NewStandardBoard(bottom), nil
	case VariantReduced:
		return NewReducedBoard(bottom), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, string(v))
	}
}
