package uttt

import "errors"

var (
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	ErrInvalidBoardSize  = errors.New("board must have exactly 9 cells")
)

// winLines holds the eight three-in-a-row lines in the order they are
// checked: row i then column i for i in 0..2, then the two diagonals.
var winLines = [8][3]int{
	{0, 1, 2},
	{0, 3, 6},
	{3, 4, 5},
	{1, 4, 7},
	{6, 7, 8},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// WinnerOfSquare returns the mark holding a three-in-a-row on a 3x3 board
// given as 9 cells in row-major order, or MarkEmpty if there is none. It is
// used both for sub-boards and for the meta-board (the nine outcomes as one
// flat board). It returns ErrInvalidBoardSize if cells does not have
// exactly 9 elements.
func WinnerOfSquare(cells []Mark) (Mark, error) {
	if len(cells) != 9 {
		return MarkEmpty, ErrInvalidBoardSize
	}

	for _, line := range winLines {
		a, b, c := cells[line[0]], cells[line[1]], cells[line[2]]
		if a != MarkEmpty && a == b && b == c {
			return a, nil
		}
	}

	return MarkEmpty, nil
}
