package models

import (
	"fmt"
	"strings"
)

// Rand is the random source used for mine placement.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// neighborOffsets enumerates the 3x3 neighborhood without the center,
// dx outer and dy inner. Cascade and chord results follow this order.
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Board is a rectangular minesweeper grid stored row-major.
type Board struct {
	width       int
	height      int
	numMines    int
	squares     []Square
	isPopulated bool
}

// New returns an unpopulated board of default squares.
func New(width, height int) *Board {
	return &Board{
		width:   width,
		height:  height,
		squares: make([]Square, width*height),
	}
}

// NewPopulated returns a board with numMines placed by rng and numerals computed.
func NewPopulated(width, height, numMines int, rng Rand) (*Board, error) {
	b := New(width, height)
	if err := b.PopulateMines(rng, numMines); err != nil {
		return nil, err
	}
	return b, nil
}

// NewPopulatedAround is NewPopulated with keepClear guaranteed mine free.
func NewPopulatedAround(width, height, numMines int, rng Rand, keepClear Coordinate) (*Board, error) {
	b := New(width, height)
	if err := b.PopulateMinesAround(rng, numMines, &keepClear); err != nil {
		return nil, err
	}
	return b, nil
}

// NewWithMines returns a populated board with mines exactly at the given coordinates.
func NewWithMines(width, height int, mines ...Coordinate) (*Board, error) {
	b := New(width, height)
	for _, c := range mines {
		if !b.inBounds(c.X, c.Y) {
			return nil, fmt.Errorf("%w: mine at %s", ErrInvalidCoordinates, c)
		}
		idx := b.index(c.X, c.Y)
		if !b.squares[idx].IsMine {
			b.squares[idx].IsMine = true
			b.numMines++
		}
	}
	b.isPopulated = true
	b.PopulateNumerals()
	return b, nil
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// NumMines is the mine count requested at population time.
func (b *Board) NumMines() int { return b.numMines }

// IsPopulated reports whether mines have been placed.
func (b *Board) IsPopulated() bool { return b.isPopulated }

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Board) index(x, y int) int {
	return y*b.width + x
}

func (b *Board) indexToCoordinate(idx int) (Coordinate, error) {
	if idx < 0 || idx >= len(b.squares) {
		return Coordinate{}, fmt.Errorf("%w: %d", ErrIndexOutOfBounds, idx)
	}
	return Coordinate{X: idx % b.width, Y: idx / b.width}, nil
}

// Square returns a snapshot of the square at (x, y).
func (b *Board) Square(x, y int) (Square, error) {
	if !b.inBounds(x, y) {
		return Square{}, fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinates, x, y)
	}
	return b.squares[b.index(x, y)], nil
}

// PopulateMines places numMines mines anywhere on the board.
func (b *Board) PopulateMines(rng Rand, numMines int) error {
	return b.PopulateMinesAround(rng, numMines, nil)
}

// PopulateMinesAround places numMines mines at uniformly random squares,
// never on keepClear when it is set, and then computes every numeral.
//
// Squares are drawn from the full index range [0, W*H) until the requested
// count is reached; a draw that lands on an existing mine or on keepClear is
// thrown away. When keepClear is set one square is unavailable, so asking for
// every square to be a mine fails instead of looping forever.
//
// Populating a board that already has mines replaces the old layout. Reveal
// and flag state is left alone.
func (b *Board) PopulateMinesAround(rng Rand, numMines int, keepClear *Coordinate) error {
	capacity := len(b.squares)
	if keepClear != nil {
		if !b.inBounds(keepClear.X, keepClear.Y) {
			return fmt.Errorf("%w: keep clear %s", ErrInvalidCoordinates, keepClear)
		}
		capacity--
	}
	if numMines < 0 || numMines > capacity {
		return fmt.Errorf("%w: %d mines on %dx%d board", ErrExcessiveMines, numMines, b.width, b.height)
	}

	for i := range b.squares {
		b.squares[i].IsMine = false
		b.squares[i].Numeral = 0
	}
	for placed := 0; placed < numMines; {
		idx := rng.IntN(len(b.squares))
		if b.squares[idx].IsMine {
			continue
		}
		if keepClear != nil {
			c, err := b.indexToCoordinate(idx)
			if err != nil {
				return err
			}
			if c == *keepClear {
				continue
			}
		}
		b.squares[idx].IsMine = true
		placed++
	}

	b.numMines = numMines
	b.isPopulated = true
	b.PopulateNumerals()
	return nil
}

// PopulateNumerals sets every square's numeral to the number of mines among
// its in-grid neighbors. Placement calls it already; calling it again is harmless.
func (b *Board) PopulateNumerals() {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.squares[b.index(x, y)].Numeral = b.minedNeighborCount(x, y)
		}
	}
}

func (b *Board) minedNeighborCount(x, y int) int {
	n := 0
	for _, off := range neighborOffsets {
		if sq, ok := b.neighbor(x+off[0], y+off[1]); ok && sq.IsMine {
			n++
		}
	}
	return n
}

func (b *Board) flaggedNeighborCount(x, y int) int {
	n := 0
	for _, off := range neighborOffsets {
		if sq, ok := b.neighbor(x+off[0], y+off[1]); ok && sq.IsFlagged {
			n++
		}
	}
	return n
}

// neighbor is the protected lookup: off-grid coordinates are simply absent.
func (b *Board) neighbor(x, y int) (Square, bool) {
	if !b.inBounds(x, y) {
		return Square{}, false
	}
	return b.squares[b.index(x, y)], true
}

// NumFlags counts flagged squares.
func (b *Board) NumFlags() int {
	n := 0
	for _, sq := range b.squares {
		if sq.IsFlagged {
			n++
		}
	}
	return n
}

// Reset replaces every square with a default one. The board becomes unpopulated.
func (b *Board) Reset() {
	b.squares = make([]Square, b.width*b.height)
	b.numMines = 0
	b.isPopulated = false
}

// ResetExisting clears reveal and flag state but keeps the mine layout.
func (b *Board) ResetExisting() {
	for i := range b.squares {
		b.squares[i].IsRevealed = false
		b.squares[i].IsFlagged = false
	}
}

// FlagAllMines flags every mine and unflags everything else. It is meant for
// display after a win, not as a player action.
func (b *Board) FlagAllMines() {
	for i := range b.squares {
		b.squares[i].IsFlagged = b.squares[i].IsMine
	}
}

// String dumps the board one row per line, three characters per square.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			sb.WriteByte(' ')
			sb.WriteByte(b.squares[b.index(x, y)].symbol())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
