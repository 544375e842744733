package game

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/dimaq12/mines/models"
)

// numeralColors follow the classic palette, indexed by numeral.
var numeralColors = [9]tcell.Color{
	tcell.ColorDefault,
	tcell.ColorBlue,
	tcell.ColorGreen,
	tcell.ColorRed,
	tcell.ColorNavy,
	tcell.ColorMaroon,
	tcell.ColorTeal,
	tcell.ColorPurple,
	tcell.ColorGray,
}

type palette struct {
	hidden   tcell.Color
	revealed tcell.Color
	text     tcell.Color
}

var (
	darkPalette  = palette{hidden: tcell.ColorDarkGray, revealed: tcell.ColorBlack, text: tcell.ColorWhite}
	lightPalette = palette{hidden: tcell.ColorSilver, revealed: tcell.ColorWhite, text: tcell.ColorBlack}
)

// Renderer draws a session onto a tview table, one cell per square
// (table row = y, table column = x), plus a one-line status bar.
type Renderer struct {
	boardTable *tview.Table
	status     *tview.TextView
	colors     palette
}

func NewRenderer(darkMode bool) *Renderer {
	r := &Renderer{
		boardTable: tview.NewTable(),
		status:     tview.NewTextView(),
	}
	r.SetDarkMode(darkMode)
	return r
}

func (r *Renderer) SetDarkMode(dark bool) {
	if dark {
		r.colors = darkPalette
	} else {
		r.colors = lightPalette
	}
}

// DrawBoard redraws every square. The table is cleared first so a change of
// difficulty does not leave stale cells behind.
func (r *Renderer) DrawBoard(s *Session) {
	row, col := r.boardTable.GetSelection()
	r.boardTable.Clear()

	board := s.Board()
	for y := 0; y < board.Height(); y++ {
		for x := 0; x < board.Width(); x++ {
			r.RenderCell(s, x, y)
		}
	}

	r.boardTable.SetSelectable(true, true)
	r.boardTable.Select(min(row, board.Height()-1), min(col, board.Width()-1))
}

// RenderCell draws the square at (x, y).
func (r *Renderer) RenderCell(s *Session, x, y int) {
	sq, err := s.Board().Square(x, y)
	if err != nil {
		return
	}
	detonated, hasDetonated := s.Detonated()
	text, fg := cellText(sq, s.State(), hasDetonated && detonated.Matches(x, y))

	bg := r.colors.hidden
	if sq.IsRevealed {
		bg = r.colors.revealed
	}
	if fg == tcell.ColorDefault {
		fg = r.colors.text
	}

	r.boardTable.SetCell(y, x, tview.NewTableCell(text).
		SetAlign(tview.AlignCenter).
		SetTextColor(fg).
		SetBackgroundColor(bg))
}

// cellText decides what a square shows. Mines are only uncovered once the
// game is lost; a lost game also marks flags that were wrong.
func cellText(sq models.Square, state State, detonated bool) (string, tcell.Color) {
	lost := state == EndedLoss
	switch {
	case detonated:
		return "@", tcell.ColorRed
	case sq.IsFlagged && lost && !sq.IsMine:
		return "x", tcell.ColorRed
	case sq.IsFlagged:
		return "F", tcell.ColorYellow
	case sq.IsMine && (sq.IsRevealed || lost):
		return "*", tcell.ColorDefault
	case !sq.IsRevealed:
		return ".", tcell.ColorDefault
	case sq.Numeral == 0:
		return " ", tcell.ColorDefault
	default:
		return strconv.Itoa(sq.Numeral), numeralColors[sq.Numeral]
	}
}

// DrawStatus writes the mine counter and clock, then the state, best time
// and win count when known.
func (r *Renderer) DrawStatus(s *Session, best, record string) {
	line := fmt.Sprintf(" Mines: %d  Time: %.1fs  %s, %s",
		s.MinesRemaining(), s.Elapsed().Seconds(), s.Difficulty(), s.State())
	if best != "" {
		line += "  Best: " + best
	}
	if record != "" {
		line += "  Won: " + record
	}
	r.status.SetText(line)
}
