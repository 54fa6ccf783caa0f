package websocket

import (
	"encoding/json"

	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/entity"
)

// Message is one WebSocket exchange: an action name and its payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries the request/response body for every action.
type Payload struct {
	Player   *entity.Player `json:"player,omitempty"`
	Game     *GameView      `json:"game,omitempty"`
	GameID   string         `json:"game_id,omitempty"`
	GameType string         `json:"game_type,omitempty"`
	Move     *MovePayload   `json:"move,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// MovePayload addresses one cell: the sub-board and the cell within it.
type MovePayload struct {
	Super int `json:"super"`
	Sub   int `json:"sub"`
}

// GameView is the render-ready projection of a game pushed to clients
// after every accepted mutation.
type GameView struct {
	ID       string       `json:"id"`
	Status   string       `json:"status"`
	Winner   string       `json:"winner,omitempty"`
	Turn     string       `json:"turn,omitempty"`
	Board    [9][9]string `json:"board"`
	Outcomes [9]string    `json:"outcomes"`

	// Forced is nil when the next player may play in any sub-board.
	Forced *int `json:"forced,omitempty"`

	Players []*entity.Player `json:"players,omitempty"`
}

// newGameView projects a game and its engine snapshot for the wire.
func newGameView(game *entity.Game) (*GameView, error) {
	snapshot, err := game.Snapshot()
	if err != nil {
		return nil, err
	}

	view := &GameView{
		ID:      game.ID,
		Status:  game.Status,
		Winner:  game.Winner,
		Players: game.Players,
	}

	if !game.IsFinished() {
		view.Turn = string(snapshot.Turn)
	}

	for superSquare, subBoard := range snapshot.Board {
		for subSquare, cell := range subBoard {
			view.Board[superSquare][subSquare] = string(cell)
		}
	}
	for index, outcome := range snapshot.Outcomes {
		view.Outcomes[index] = string(outcome)
	}

	if snapshot.Constrained {
		forced := snapshot.Forced
		view.Forced = &forced
	}

	return view, nil
}
