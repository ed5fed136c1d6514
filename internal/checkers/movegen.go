package checkers

// Capture is one way to jump: land on Landing, removing Captured.
type Capture struct {
	Landing    Cell    `json:"landing"`
	Captured   PieceID `json:"captured"`
	CapturedAt Cell    `json:"captured_at"`
}

// Moves are the legal destinations of a single piece. When Captures is not
// empty Simple is always empty.
type Moves struct {
	Simple   []Cell    `json:"simple"`
	Captures []Capture `json:"captures"`
}

func (m Moves) Empty() bool {
	return len(m.Simple) == 0 && len(m.Captures) == 0
}

func (m Moves) HasCaptures() bool {
	return len(m.Captures) > 0
}

func (m Moves) CaptureAt(landing Cell) (Capture, bool) {
	for _, c := range m.Captures {
		if c.Landing == landing {
			return c, true
		}
	}
	return Capture{}, false
}

func (m Moves) IsSimple(target Cell) bool {
	for _, c := range m.Simple {
		if c == target {
			return true
		}
	}
	return false
}

// GenerateMoves computes the legal destinations of p on b. Direction sets
// come from the side p logically belongs to, not from whose turn it is, so
// the same call answers for either player's pieces.
func GenerateMoves(b *Board, p Piece) Moves {
	towardTop := b.TowardTop(p.Color)

	var m Moves
	m.Captures = generateCaptures(b, p, towardTop)
	if len(m.Captures) > 0 {
		return m
	}
	for _, d := range p.MoveDirections(towardTop) {
		target := p.Cell.Step(d)
		if target.InBounds() && !b.IsOccupied(target) {
			m.Simple = append(m.Simple, target)
		}
	}
	return m
}

// generateCaptures walks each capture diagonal up to the piece's range. The
// first occupied cell ends the ray: if it is an enemy, every empty cell
// directly beyond it (up to the next piece or the edge) is a landing. A man
// has range 1, so it only ever sees the adjacent cell and the one past it.
func generateCaptures(b *Board, p Piece, towardTop bool) []Capture {
	var out []Capture
	for _, d := range p.CaptureDirections(towardTop) {
		probe := p.Cell
		for dist := 1; dist <= p.Range(); dist++ {
			probe = probe.Step(d)
			if !probe.InBounds() {
				break
			}
			victim, ok := b.At(probe)
			if !ok {
				continue
			}
			if victim.Color != p.Color {
				out = append(out, landingsBeyond(b, p, victim, d)...)
			}
			break
		}
	}
	return out
}

func landingsBeyond(b *Board, p, victim Piece, d Direction) []Capture {
	var out []Capture
	landing := victim.Cell
	for dist := 1; dist <= p.Range(); dist++ {
		landing = landing.Step(d)
		if !landing.InBounds() || b.IsOccupied(landing) {
			break
		}
		out = append(out, Capture{Landing: landing, Captured: victim.ID, CapturedAt: victim.Cell})
	}
	return out
}

// HasAnyMove reports whether any piece of color c can move or capture.
func HasAnyMove(b *Board, c Color) bool {
	for _, p := range b.PiecesOf(c) {
		if !GenerateMoves(b, p).Empty() {
			return true
		}
	}
	return false
}
