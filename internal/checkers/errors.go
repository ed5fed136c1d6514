package checkers

import "errors"

var (
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrNoSuchPiece     = errors.New("no such piece")
	ErrCellOccupied    = errors.New("cell occupied")
	ErrOutOfBounds     = errors.New("cell out of bounds")
	ErrUnknownVariant  = errors.New("unknown board variant")
	ErrUnknownColor    = errors.New("unknown color")
)
