package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/entity"
	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/repository/storage"
	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/uttt"
)

var ErrArchivedGameNotFound = errors.New("archived game not found")

// ArchivedGame is the durable record of a finished game.
type ArchivedGame struct {
	ID         string      `json:"id"`
	Winner     string      `json:"winner"`
	MoveCount  int         `json:"move_count"`
	Moves      []uttt.Move `json:"moves"`
	FinishedAt time.Time   `json:"finished_at"`
}

type ArchiveRepository interface {
	Save(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*ArchivedGame, error)
}

type dbArchive struct {
	storage *storage.Storage
}

func NewArchiveRepository(store *storage.Storage) ArchiveRepository {
	return &dbArchive{
		storage: store,
	}
}

func (that *dbArchive) Save(ctx context.Context, game *entity.Game) error {
	movesJSON, err := json.Marshal(game.Moves)
	if err != nil {
		return fmt.Errorf("could not marshal moves: %w", err)
	}

	query := `INSERT OR REPLACE INTO archived_games (id, winner, move_count, moves, finished_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err = that.storage.Connection.ExecContext(ctx, query,
		game.ID, game.Winner, len(game.Moves), string(movesJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}

	return nil
}

func (that *dbArchive) GetByID(ctx context.Context, id string) (*ArchivedGame, error) {
	query := `SELECT id, winner, move_count, moves, finished_at FROM archived_games WHERE id = ?`

	var (
		archived   ArchivedGame
		movesJSON  string
		finishedAt string
	)

	row := that.storage.Connection.QueryRowContext(ctx, query, id)
	err := row.Scan(&archived.ID, &archived.Winner, &archived.MoveCount, &movesJSON, &finishedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArchivedGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get archived game by ID: %w", err)
	}

	if err = json.Unmarshal([]byte(movesJSON), &archived.Moves); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
	}

	archived.FinishedAt, err = time.Parse(time.RFC3339, finishedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse finished_at: %w", err)
	}

	return &archived, nil
}
