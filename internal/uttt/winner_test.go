package uttt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinnerOfSquare_WinningLines(t *testing.T) {
	lines := map[string][3]int{
		"top row":       {0, 1, 2},
		"middle row":    {3, 4, 5},
		"bottom row":    {6, 7, 8},
		"left column":   {0, 3, 6},
		"middle column": {1, 4, 7},
		"right column":  {2, 5, 8},
		"main diagonal": {0, 4, 8},
		"anti diagonal": {2, 4, 6},
	}

	for name, line := range lines {
		t.Run("Returns X for "+name, func(t *testing.T) {
			// Given: a board where X holds the line
			cells := make([]Mark, 9)
			for _, index := range line {
				cells[index] = MarkX
			}

			// When: checking for a winner
			winner, err := WinnerOfSquare(cells)

			// Then: X should win
			require.NoError(t, err)
			assert.Equal(t, MarkX, winner)
		})

		t.Run("Returns O for "+name, func(t *testing.T) {
			// Given: a board where O holds the line
			cells := make([]Mark, 9)
			for _, index := range line {
				cells[index] = MarkO
			}

			// When: checking for a winner
			winner, err := WinnerOfSquare(cells)

			// Then: O should win
			require.NoError(t, err)
			assert.Equal(t, MarkO, winner)
		})
	}
}

func TestWinnerOfSquare_NoWinner(t *testing.T) {
	t.Run("Returns MarkEmpty for an empty board", func(t *testing.T) {
		// Given: nine empty cells
		cells := make([]Mark, 9)

		// When: checking for a winner
		winner, err := WinnerOfSquare(cells)

		// Then: there should be no winner
		require.NoError(t, err)
		assert.Equal(t, MarkEmpty, winner)
	})

	t.Run("Returns MarkEmpty for a full drawn board", func(t *testing.T) {
		// Given: a full board with no three-in-a-row
		cells := []Mark{
			MarkX, MarkX, MarkO,
			MarkO, MarkO, MarkX,
			MarkX, MarkX, MarkO,
		}

		// When: checking for a winner
		winner, err := WinnerOfSquare(cells)

		// Then: there should be no winner
		require.NoError(t, err)
		assert.Equal(t, MarkEmpty, winner)
	})
}

func TestWinnerOfSquare_InvalidSize(t *testing.T) {
	t.Run("Fails with 8 cells", func(t *testing.T) {
		// Given: a board one cell short
		cells := make([]Mark, 8)

		// When: checking for a winner
		_, err := WinnerOfSquare(cells)

		// Then: it should report the invalid size
		assert.ErrorIs(t, err, ErrInvalidBoardSize)
	})

	t.Run("Fails with 10 cells", func(t *testing.T) {
		// Given: a board one cell too long
		cells := make([]Mark, 10)

		// When: checking for a winner
		_, err := WinnerOfSquare(cells)

		// Then: it should report the invalid size
		assert.ErrorIs(t, err, ErrInvalidBoardSize)
	})
}
