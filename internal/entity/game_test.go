package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/apperror"
	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/uttt"
)

// newOngoingGame returns a two-player game ready to accept turns.
func newOngoingGame(t *testing.T) *Game {
	t.Helper()

	game := NewGame("game-1", PrivateType)
	game.Status = StatusOngoing
	game.Players = []*Player{
		{ID: "p1", Mark: uttt.MarkX, GameID: game.ID},
		{ID: "p2", Mark: uttt.MarkO, GameID: game.ID},
	}

	return game
}

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when game status is finished", func(t *testing.T) {
		game := &Game{Status: StatusFinished}
		assert.True(t, game.IsFinished())
	})

	t.Run("IsOngoing returns true when game status is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}
		assert.True(t, game.IsOngoing())
	})

	t.Run("IsWaiting returns true when game status is waiting", func(t *testing.T) {
		game := &Game{Status: StatusWaiting}
		assert.True(t, game.IsWaiting())
	})
}

func TestGame_ConfirmOngoingState(t *testing.T) {
	t.Run("Returns nil when game is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}
		assert.NoError(t, game.ConfirmOngoingState())
	})

	t.Run("Returns ErrGameIsNotStarted when game is waiting", func(t *testing.T) {
		game := &Game{Status: StatusWaiting}
		assert.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameIsNotStarted)
	})

	t.Run("Returns ErrGameFinished when game is finished", func(t *testing.T) {
		game := &Game{Status: StatusFinished}
		assert.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		game := &Game{Status: "unknown"}
		err := game.ConfirmOngoingState()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown game status")
	})
}

func TestGame_ApplyTurn(t *testing.T) {
	t.Run("Rejects a turn before the game has started", func(t *testing.T) {
		// Given: a game still waiting for its second player
		game := NewGame("game-1", PublicType)

		// When: X tries to move
		err := game.ApplyTurn(uttt.MarkX, 4, 4)

		// Then: the turn is rejected
		assert.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Rejects a move out of turn", func(t *testing.T) {
		// Given: an ongoing game with X to move
		game := newOngoingGame(t)

		// When: O moves first
		err := game.ApplyTurn(uttt.MarkO, 4, 4)

		// Then: the turn is rejected and nothing was recorded
		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Empty(t, game.Moves)
	})

	t.Run("Rejects a move outside the forced sub-board", func(t *testing.T) {
		// Given: X has played (4,1), forcing O into sub-board 1
		game := newOngoingGame(t)
		require.NoError(t, game.ApplyTurn(uttt.MarkX, 4, 1))

		// When: O plays in sub-board 7 instead
		err := game.ApplyTurn(uttt.MarkO, 7, 0)

		// Then: the turn is rejected
		assert.ErrorIs(t, err, apperror.ErrNotForcedSquare)
		assert.Len(t, game.Moves, 1)
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		// Given: X on (4,4), O forced into sub-board 4
		game := newOngoingGame(t)
		require.NoError(t, game.ApplyTurn(uttt.MarkX, 4, 4))

		// When: O targets the same cell
		err := game.ApplyTurn(uttt.MarkO, 4, 4)

		// Then: the turn is rejected
		assert.ErrorIs(t, err, apperror.ErrCellNotPlayable)
	})

	t.Run("A legal move is recorded and passes the turn", func(t *testing.T) {
		// Given: an ongoing game
		game := newOngoingGame(t)

		// When: X opens and O answers inside the forced sub-board
		require.NoError(t, game.ApplyTurn(uttt.MarkX, 4, 1))
		require.NoError(t, game.ApplyTurn(uttt.MarkO, 1, 5))

		// Then: both moves are on record and X is to move again
		assert.Equal(t, []uttt.Move{{Super: 4, Sub: 1}, {Super: 1, Sub: 5}}, game.Moves)

		state, err := game.State()
		require.NoError(t, err)
		assert.Equal(t, uttt.MarkX, state.Turn())
		assert.Equal(t, StatusOngoing, game.Status)
	})

	t.Run("Winning the meta-board finishes the game", func(t *testing.T) {
		// Given: an ongoing game
		game := newOngoingGame(t)

		// When: X wins sub-boards 3, 4 and 5 under forced-square play
		playMetaWin(t, game)

		// Then: the game is finished with X as winner, and further turns fail
		state, err := game.State()
		require.NoError(t, err)
		require.Equal(t, uttt.MarkX, state.Outcomes()[3])
		require.Equal(t, uttt.MarkX, state.Outcomes()[4])
		require.Equal(t, uttt.MarkX, state.Outcomes()[5])

		assert.Equal(t, StatusFinished, game.Status)
		assert.Equal(t, string(uttt.MarkX), game.Winner)
		assert.ErrorIs(t, game.ApplyTurn(uttt.MarkO, 1, 1), apperror.ErrGameFinished)
	})
}

func TestGame_UndoTurn(t *testing.T) {
	t.Run("Rejects undo with no moves played", func(t *testing.T) {
		game := newOngoingGame(t)

		assert.ErrorIs(t, game.UndoTurn(), apperror.ErrNothingToUndo)
	})

	t.Run("Undo removes the last move and returns the turn", func(t *testing.T) {
		// Given: two moves played
		game := newOngoingGame(t)
		require.NoError(t, game.ApplyTurn(uttt.MarkX, 4, 1))
		require.NoError(t, game.ApplyTurn(uttt.MarkO, 1, 5))

		// When: undoing the last move
		require.NoError(t, game.UndoTurn())

		// Then: only X's move remains and O is to move again
		assert.Equal(t, []uttt.Move{{Super: 4, Sub: 1}}, game.Moves)

		state, err := game.State()
		require.NoError(t, err)
		assert.Equal(t, uttt.MarkO, state.Turn())
	})

	t.Run("Undo leaves the live state and a reloaded copy in agreement", func(t *testing.T) {
		// Given: a game whose last move was played unconstrained
		game := newOngoingGame(t)
		playMoves(t, game, metaWinSequence[:17]) // ends with the unconstrained X (5,1)

		// When: undoing it and round-tripping the game through JSON
		require.NoError(t, game.UndoTurn())

		raw, err := json.Marshal(game)
		require.NoError(t, err)

		var restored Game
		require.NoError(t, json.Unmarshal(raw, &restored))

		// Then: both states report the same forced square — here
		// unconstrained, since the latest remaining move sent play into the
		// already decided sub-board 3
		liveState, err := game.State()
		require.NoError(t, err)
		restoredState, err := restored.State()
		require.NoError(t, err)

		liveForced, liveConstrained := liveState.ForcedSquare()
		restoredForced, restoredConstrained := restoredState.ForcedSquare()
		assert.Equal(t, restoredConstrained, liveConstrained)
		assert.Equal(t, restoredForced, liveForced)
		assert.False(t, liveConstrained)
	})

	t.Run("Undoing a game-ending move reopens the game", func(t *testing.T) {
		// Given: a finished game (X won the meta top row)
		game := newOngoingGame(t)
		playMetaWin(t, game)
		require.Equal(t, StatusFinished, game.Status)
		require.Equal(t, string(uttt.MarkX), game.Winner)

		// When: the winning move is undone
		require.NoError(t, game.UndoTurn())

		// Then: the game is ongoing again with no winner
		assert.Equal(t, StatusOngoing, game.Status)
		assert.Empty(t, game.Winner)
	})
}

func TestGame_JSONRoundTrip(t *testing.T) {
	t.Run("A stored game replays to the same engine state", func(t *testing.T) {
		// Given: a game with a few moves
		game := newOngoingGame(t)
		require.NoError(t, game.ApplyTurn(uttt.MarkX, 4, 1))
		require.NoError(t, game.ApplyTurn(uttt.MarkO, 1, 5))

		originalState, err := game.State()
		require.NoError(t, err)

		// When: marshalling and unmarshalling it
		raw, err := json.Marshal(game)
		require.NoError(t, err)

		var restored Game
		require.NoError(t, json.Unmarshal(raw, &restored))

		// Then: the replayed state matches the original
		restoredState, err := restored.State()
		require.NoError(t, err)
		assert.Equal(t, originalState.Board(), restoredState.Board())
		assert.Equal(t, originalState.Turn(), restoredState.Turn())
		assert.Equal(t, game.Moves, restored.Moves)
	})
}

type sessionMove struct {
	mark       uttt.Mark
	super, sub int
}

// metaWinSequence drives X to win sub-boards 3, 4 and 5 — the middle row
// of the meta-board — finishing the game. Every move honors the
// forced-square rule; O answers with cells that never complete a line.
var metaWinSequence = []sessionMove{
	{uttt.MarkX, 3, 0}, {uttt.MarkO, 0, 3},
	{uttt.MarkX, 3, 1}, {uttt.MarkO, 1, 3},
	{uttt.MarkX, 3, 2}, // X wins sub-board 3
	{uttt.MarkO, 2, 4},
	{uttt.MarkX, 4, 0}, {uttt.MarkO, 0, 4},
	{uttt.MarkX, 4, 1}, {uttt.MarkO, 1, 4},
	{uttt.MarkX, 4, 2}, // X wins sub-board 4
	{uttt.MarkO, 2, 5},
	{uttt.MarkX, 5, 0}, {uttt.MarkO, 0, 6},
	{uttt.MarkX, 6, 5}, {uttt.MarkO, 5, 3},
	{uttt.MarkX, 5, 1}, // unconstrained: sub-board 3 is already decided
	{uttt.MarkO, 1, 6},
	{uttt.MarkX, 6, 7}, {uttt.MarkO, 7, 5},
	{uttt.MarkX, 5, 2}, // X wins sub-board 5 and the meta-board
}

func playMoves(t *testing.T, game *Game, moves []sessionMove) {
	t.Helper()

	for _, move := range moves {
		require.NoError(t, game.ApplyTurn(move.mark, move.super, move.sub))
	}
}

func playMetaWin(t *testing.T, game *Game) {
	t.Helper()

	playMoves(t, game, metaWinSequence)
}
