package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrNotForcedSquare   = errors.New("move is outside the forced sub-board")
	ErrCellNotPlayable   = errors.New("cell is occupied or its sub-board is decided")
	ErrNothingToUndo     = errors.New("no moves to undo")
	ErrGameAlreadyExists = errors.New("game already exists")
)
