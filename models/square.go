package models

// Square is one cell of the board.
type Square struct {
	IsMine     bool
	IsRevealed bool
	IsFlagged  bool
	Numeral    int // count of mines among the up to 8 neighbors
}

// symbol is the single character used by Board.String.
func (s Square) symbol() byte {
	switch {
	case s.IsFlagged:
		return '>'
	case !s.IsRevealed:
		return '-'
	case s.IsMine:
		return 'X'
	case s.Numeral > 0:
		return byte('0' + s.Numeral)
	default:
		return ' '
	}
}
