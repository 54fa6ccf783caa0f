package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/entity"
	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/repository"
	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/uttt"
)

type gameResponse struct {
	ID       string      `json:"id"`
	Status   string      `json:"status"`
	Winner   string      `json:"winner,omitempty"`
	Turn     string      `json:"turn,omitempty"`
	Moves    []uttt.Move `json:"moves"`
	Outcomes [9]string   `json:"outcomes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	game, err := that.games.GetGameByID(r.Context(), gameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		that.handleGetArchivedGame(w, r, gameID)
		return
	}

	if err != nil {
		that.logger.Error("failed to get game", "game_id", gameID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})

		return
	}

	snapshot, err := game.Snapshot()
	if err != nil {
		that.logger.Error("failed to build snapshot", "game_id", gameID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})

		return
	}

	response := gameResponse{
		ID:     game.ID,
		Status: game.Status,
		Winner: game.Winner,
		Moves:  snapshot.Moves,
	}

	if !game.IsFinished() {
		response.Turn = string(snapshot.Turn)
	}

	for index, outcome := range snapshot.Outcomes {
		response.Outcomes[index] = string(outcome)
	}

	writeJSON(w, http.StatusOK, response)
}

// handleGetArchivedGame serves finished games. A finished game leaves live
// storage for the archive, so the result has to stay reachable from there.
func (that *Server) handleGetArchivedGame(w http.ResponseWriter, r *http.Request, gameID string) {
	archived, err := that.archive.GetByID(r.Context(), gameID)
	if errors.Is(err, repository.ErrArchivedGameNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "game not found"})
		return
	}

	if err != nil {
		that.logger.Error("failed to get archived game", "game_id", gameID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})

		return
	}

	state, err := uttt.NewGameStateFromMoves(archived.Moves)
	if err != nil {
		that.logger.Error("failed to replay archived game", "game_id", gameID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})

		return
	}

	response := gameResponse{
		ID:     archived.ID,
		Status: entity.StatusFinished,
		Winner: archived.Winner,
		Moves:  archived.Moves,
	}

	for index, outcome := range state.Outcomes() {
		response.Outcomes[index] = string(outcome)
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
