package entity

import "github.com/Sahir1234/ultimate-tic-tac-toe/internal/uttt"

type Player struct {
	ID     string    `json:"id"`
	Mark   uttt.Mark `json:"mark,omitempty"`
	GameID string    `json:"game_id,omitempty"`
}
