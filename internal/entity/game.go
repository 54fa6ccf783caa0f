package entity

import (
	"errors"
	"fmt"

	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/apperror"
	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/uttt"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	// PlayerTie marks a drawn game in the Winner field.
	PlayerTie = "-"
)

const (
	PublicType  = "public"
	PrivateType = "private"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game is one hosted Ultimate Tic-Tac-Toe session. The move list is the
// authoritative persisted state; the engine state is rebuilt from it by
// replay, so a Game survives a JSON round-trip through storage intact.
type Game struct {
	ID      string      `json:"id"`
	Status  string      `json:"status"`
	Winner  string      `json:"winner,omitempty"`
	Type    string      `json:"type,omitempty"`
	Players []*Player   `json:"players,omitempty"`
	Moves   []uttt.Move `json:"moves"`

	state *uttt.GameState
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Status: StatusWaiting,
		Type:   gameType,
	}
}

// State returns the replayed engine state for this game's move list,
// rebuilding it on first use after construction or unmarshalling.
func (that *Game) State() (*uttt.GameState, error) {
	if that.state != nil {
		return that.state, nil
	}

	state, err := uttt.NewGameStateFromMoves(that.Moves)
	if err != nil {
		return nil, fmt.Errorf("failed to replay game %s: %w", that.ID, err)
	}

	that.state = state

	return state, nil
}

// Snapshot returns an independent copy of the engine state for rendering.
func (that *Game) Snapshot() (uttt.Snapshot, error) {
	state, err := that.State()
	if err != nil {
		return uttt.Snapshot{}, err
	}
	return state.Snapshot(), nil
}

// ApplyTurn validates and plays one move for the given mark. It enforces
// the full legality contract the engine leaves to its callers: the game
// must be ongoing, the mark must own the turn, the move must be inside the
// forced sub-board when one is in force, and the cell must be playable.
func (that *Game) ApplyTurn(mark uttt.Mark, superSquare, subSquare int) error {
	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	state, err := that.State()
	if err != nil {
		return err
	}

	if state.Turn() != mark {
		return apperror.ErrNotYourTurn
	}

	if forced, constrained := state.ForcedSquare(); constrained && superSquare != forced {
		return fmt.Errorf("%w: must play in sub-board %d", apperror.ErrNotForcedSquare, forced)
	}

	if !state.IsPlayable(superSquare, subSquare) {
		return fmt.Errorf("%w: square %d cell %d", apperror.ErrCellNotPlayable, superSquare, subSquare)
	}

	if err = state.PlaceMarker(superSquare, subSquare); err != nil {
		return fmt.Errorf("failed to place marker: %w", err)
	}

	that.Moves = state.Moves()
	that.refreshOutcome(state)

	return nil
}

// UndoTurn takes back the most recent move and rolls the session status
// back to ongoing if the move had finished the game.
//
// The move list is the persisted truth, so after the undo the engine state
// is rebuilt by replaying it: the engine's own undo derives the forced
// square from the undone move's super square, which a replay of the
// shortened history cannot reproduce, and a reloaded copy of the game must
// agree with the live one.
func (that *Game) UndoTurn() error {
	if len(that.Moves) == 0 {
		return apperror.ErrNothingToUndo
	}

	state, err := that.State()
	if err != nil {
		return err
	}

	state.UndoLastMove()
	that.Moves = state.Moves()

	replayed, err := uttt.NewGameStateFromMoves(that.Moves)
	if err != nil {
		return fmt.Errorf("failed to replay game %s: %w", that.ID, err)
	}

	that.state = replayed
	that.refreshOutcome(replayed)

	return nil
}

// refreshOutcome derives Status and Winner from the engine: the game ends
// when the meta-board is won or no legal move remains (a draw).
func (that *Game) refreshOutcome(state *uttt.GameState) {
	switch winner := state.Winner(); {
	case winner != uttt.MarkEmpty:
		that.Winner = string(winner)
		that.Status = StatusFinished
	case !state.MovesAvailable():
		that.Winner = PlayerTie
		that.Status = StatusFinished
	default:
		that.Winner = ""
		that.Status = StatusOngoing
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}
