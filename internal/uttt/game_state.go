// Package uttt implements the rules engine for Ultimate Tic-Tac-Toe: a
// meta-board of nine 3x3 sub-boards where each move dictates which sub-board
// the opponent must play in next. The package owns board state, move
// legality, turn order, win detection at both levels, and move history with
// undo. It performs no I/O and holds no locks; a GameState instance must be
// owned by a single goroutine at a time.
//
// Squares are numbered left to right, top to bottom, so index = row*3+col
// both for the meta-board (super squares) and within each sub-board
// (sub squares).
package uttt

// Mark is the content of a single cell: empty, X or O.
type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

// Other returns the opposing mark. MarkEmpty has no opponent and maps to
// itself.
func (m Mark) Other() Mark {
	switch m {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return MarkEmpty
	}
}

// Move is one placement, identified by the sub-board it was made in and the
// cell within that sub-board.
type Move struct {
	Super int `json:"super"`
	Sub   int `json:"sub"`
}

// Snapshot is an independent copy of the observable game state. Mutating a
// Snapshot never affects the GameState it was taken from.
type Snapshot struct {
	Board    [9][9]Mark
	Outcomes [9]Mark
	Turn     Mark
	Moves    []Move

	// Forced is the sub-board the player to move must play in; valid only
	// when Constrained is true.
	Forced      int
	Constrained bool
}

// centerSquare is the nominal forced square of a fresh game; it only takes
// effect once the first move makes the board non-empty.
const centerSquare = 4

// GameState is the authoritative state of one game: the 9x9 board, the
// per-sub-board outcomes, whose turn it is, the nominal forced square and
// the move history. Mutation happens only through PlaceMarker and
// UndoLastMove; a reset is performed by discarding the instance and calling
// NewGameState again.
type GameState struct {
	board    [9][9]Mark
	outcomes [9]Mark
	turn     Mark
	forced   int
	history  []Move
	observer func(Snapshot)
}

// NewGameState returns a fresh game: empty board, X to move, nominal forced
// square at the center.
func NewGameState() *GameState {
	return &GameState{
		turn:   MarkX,
		forced: centerSquare,
	}
}

// NewGameStateFromMoves rebuilds a game by replaying moves in order from a
// fresh state. It returns ErrInvalidCoordinate if any move is out of range.
func NewGameStateFromMoves(moves []Move) (*GameState, error) {
	state := NewGameState()
	for _, move := range moves {
		if err := state.PlaceMarker(move.Super, move.Sub); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// SetObserver registers the single downstream consumer notified,
// synchronously, after every accepted PlaceMarker and UndoLastMove.
// A later call replaces the previous observer; nil unregisters it.
func (that *GameState) SetObserver(observer func(Snapshot)) {
	that.observer = observer
}

// Turn returns the mark of the player to move.
func (that *GameState) Turn() Mark {
	return that.turn
}

// Board returns a copy of the full board, indexed [superSquare][subSquare].
func (that *GameState) Board() [9][9]Mark {
	return that.board
}

// Outcomes returns a copy of the nine sub-board outcomes. Treated as a flat
// board of marks, it is the meta-board that decides the overall game.
func (that *GameState) Outcomes() [9]Mark {
	return that.outcomes
}

// Moves returns a copy of the move history in play order. Its length always
// equals the number of marks on the board.
func (that *GameState) Moves() []Move {
	moves := make([]Move, len(that.history))
	copy(moves, that.history)
	return moves
}

// Snapshot returns an independent copy of the observable state.
func (that *GameState) Snapshot() Snapshot {
	forced, constrained := that.ForcedSquare()
	return Snapshot{
		Board:       that.board,
		Outcomes:    that.outcomes,
		Turn:        that.turn,
		Moves:       that.Moves(),
		Forced:      forced,
		Constrained: constrained,
	}
}

// ForcedSquare reports which sub-board the player to move must play in.
// The second result is false when the move is unconstrained: the board is
// empty, or the nominal forced sub-board is already decided, or it is
// completely full.
func (that *GameState) ForcedSquare() (int, bool) {
	if len(that.history) == 0 ||
		that.outcomes[that.forced] != MarkEmpty ||
		that.isSubBoardFull(that.forced) {
		return 0, false
	}
	return that.forced, true
}

// IsPlayable reports whether the given cell can receive a mark: it is empty
// and its sub-board is undecided. Negative coordinates are the caller's
// "no selection" sentinel and report false; coordinates past the board do
// too. IsPlayable deliberately does NOT check the forced square — full
// legality is the composition
//
//	IsPlayable(s, t) && (s == forced || !constrained)
//
// with forced, constrained := ForcedSquare().
func (that *GameState) IsPlayable(superSquare, subSquare int) bool {
	if superSquare < 0 || superSquare > 8 || subSquare < 0 || subSquare > 8 {
		return false
	}
	return that.board[superSquare][subSquare] == MarkEmpty &&
		that.outcomes[superSquare] == MarkEmpty
}

// MovesAvailable reports whether any playable cell remains anywhere on the
// board. When it is false and the meta-board is undecided, the game is a
// draw.
func (that *GameState) MovesAvailable() bool {
	for superSquare := 0; superSquare < 9; superSquare++ {
		for subSquare := 0; subSquare < 9; subSquare++ {
			if that.IsPlayable(superSquare, subSquare) {
				return true
			}
		}
	}
	return false
}

// Winner returns the meta-board winner: the nine sub-board outcomes treated
// as one flat board. MarkEmpty means nobody has won yet.
func (that *GameState) Winner() Mark {
	winner, _ := WinnerOfSquare(that.outcomes[:])
	return winner
}

// PlaceMarker writes the current turn's mark into the given cell, appends
// the move to history, makes subSquare the new nominal forced square, flips
// the turn, recomputes that sub-board's outcome and notifies the observer.
//
// Placing on an occupied cell is a silent no-op: a last-line guard against
// double placement, not a substitute for caller-side validation. The forced
// square and terminality are intentionally NOT checked here; callers
// compose legality from ForcedSquare, IsPlayable, Winner and MovesAvailable
// before mutating.
func (that *GameState) PlaceMarker(superSquare, subSquare int) error {
	if superSquare < 0 || superSquare > 8 || subSquare < 0 || subSquare > 8 {
		return ErrInvalidCoordinate
	}

	if that.board[superSquare][subSquare] != MarkEmpty {
		return nil
	}

	that.history = append(that.history, Move{Super: superSquare, Sub: subSquare})
	that.board[superSquare][subSquare] = that.turn
	that.forced = subSquare
	that.turn = that.turn.Other()

	winner, _ := WinnerOfSquare(that.board[superSquare][:])
	that.outcomes[superSquare] = winner

	that.notify()

	return nil
}

// UndoLastMove pops the most recent move, clears its cell, flips the turn
// back, recomputes all nine outcomes from scratch and notifies the
// observer. With empty history it is a silent no-op.
//
// The nominal forced square is reset to the superSquare of the undone move,
// matching the original engine's behavior; this does not mirror
// PlaceMarker, which derives it from the subSquare, so a place/undo pair is
// not guaranteed to restore the previous forced square.
func (that *GameState) UndoLastMove() {
	if len(that.history) == 0 {
		return
	}

	lastMove := that.history[len(that.history)-1]
	that.history = that.history[:len(that.history)-1]

	that.board[lastMove.Super][lastMove.Sub] = MarkEmpty
	that.forced = lastMove.Super
	that.turn = that.turn.Other()

	// Recomputing every sub-board costs 81 cells and avoids incremental
	// bookkeeping bugs.
	for superSquare := 0; superSquare < 9; superSquare++ {
		winner, _ := WinnerOfSquare(that.board[superSquare][:])
		that.outcomes[superSquare] = winner
	}

	that.notify()
}

func (that *GameState) isSubBoardFull(superSquare int) bool {
	for _, cell := range that.board[superSquare] {
		if cell == MarkEmpty {
			return false
		}
	}
	return true
}

func (that *GameState) notify() {
	if that.observer != nil {
		that.observer(that.Snapshot())
	}
}
