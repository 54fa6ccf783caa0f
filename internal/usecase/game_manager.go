package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/apperror"
	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/entity"
	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/uttt"
)

var ErrPlayerNotInGame = errors.New("player is not in a game")

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type archiveRepo interface {
	Save(ctx context.Context, game *entity.Game) error
}

// GameManager owns the session lifecycle: creating and joining games,
// playing and undoing turns, resetting, and archiving finished games.
type GameManager struct {
	logger      *slog.Logger
	playerRepo  playerRepo
	gameRepo    gameRepo
	archiveRepo archiveRepo
}

func NewGameManager(logger *slog.Logger, players playerRepo, games gameRepo, archive archiveRepo) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		playerRepo:  players,
		gameRepo:    games,
		archiveRepo: archive,
	}
}

// GetOrCreatePlayer returns the player with the given ID, minting a new
// anonymous player when the ID is empty.
func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player := &entity.Player{ID: uuid.NewString()}
		if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// GetOrCreateGame returns the player's current game, or creates a new one
// with the player seated as X, waiting for an opponent.
func (that *GameManager) GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID != "" {
		game, gameErr := that.gameRepo.GetByID(ctx, player.GameID)
		if gameErr != nil {
			return nil, fmt.Errorf("failed to get game by id: %w", gameErr)
		}
		return game, nil
	}

	game := entity.NewGame(uuid.NewString(), gameType)

	player.GameID = game.ID
	player.Mark = uttt.MarkX
	game.Players = append(game.Players, player)

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "game_id", game.ID, "player_id", player.ID)

	return game, nil
}

// ConnectToGame seats the player as O in an existing game and starts it.
func (that *GameManager) ConnectToGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	existingGame, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == existingGame.ID {
		return existingGame, nil
	}

	if len(existingGame.Players) == 2 {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameAlreadyExists, gameID)
	}

	player.GameID = existingGame.ID
	player.Mark = uttt.MarkO
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player by id: %w", err)
	}

	existingGame.Status = entity.StatusOngoing
	existingGame.Players = append(existingGame.Players, player)
	if err = that.gameRepo.CreateOrUpdate(ctx, existingGame); err != nil {
		return nil, fmt.Errorf("failed to update game by id: %w", err)
	}

	that.logger.Info("player joined game", "game_id", existingGame.ID, "player_id", player.ID)

	return existingGame, nil
}

// GetGameByPlayerID returns the live game the player is seated in.
func (that *GameManager) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, ErrPlayerNotInGame
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// GetGameByID returns a live game for spectating.
func (that *GameManager) GetGameByID(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// MakeTurn plays one move for the player. A move that finishes the game
// archives it and removes the live session.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, superSquare, subSquare int) (*entity.Game, error) {
	player, game, err := that.playerAndGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	that.observeState(game)

	if err = game.ApplyTurn(player.Mark, superSquare, subSquare); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsFinished() {
		that.finishGame(ctx, game)
		return game, nil
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// UndoTurn takes back the last move played in the player's game.
func (that *GameManager) UndoTurn(ctx context.Context, playerID string) (*entity.Game, error) {
	_, game, err := that.playerAndGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	that.observeState(game)

	if err = game.UndoTurn(); err != nil {
		return game, fmt.Errorf("failed to undo turn: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// ResetGame discards the current board and starts a fresh one with the
// same players and marks. The old game entity is replaced wholesale; there
// is no in-place clear.
func (that *GameManager) ResetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	_, game, err := that.playerAndGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	freshGame := entity.NewGame(game.ID, game.Type)
	freshGame.Players = game.Players
	if len(freshGame.Players) == 2 {
		freshGame.Status = entity.StatusOngoing
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, freshGame); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Info("game reset", "game_id", freshGame.ID)

	return freshGame, nil
}

func (that *GameManager) playerAndGame(ctx context.Context, playerID string) (*entity.Player, *entity.Game, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, nil, ErrPlayerNotInGame
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return player, game, nil
}

// observeState hooks the engine's mutation notification so every accepted
// placement or undo leaves a trace in the logs.
func (that *GameManager) observeState(game *entity.Game) {
	state, err := game.State()
	if err != nil {
		return
	}

	state.SetObserver(func(snapshot uttt.Snapshot) {
		that.logger.Debug("board updated",
			"game_id", game.ID, "move_count", len(snapshot.Moves), "turn", snapshot.Turn)
	})
}

// finishGame archives the finished game, releases both seats and deletes
// the live session. A player still pointing at the deleted game could
// never join or create another one. Failures are logged, not returned:
// the turn itself already succeeded.
func (that *GameManager) finishGame(ctx context.Context, game *entity.Game) {
	if err := that.archiveRepo.Save(ctx, game); err != nil {
		that.logger.Error("failed to archive game", "game_id", game.ID, "error", err)
	}

	for _, player := range game.Players {
		player.Mark = uttt.MarkEmpty
		player.GameID = ""
		if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			that.logger.Error("failed to release player", "player_id", player.ID, "error", err)
		}
	}

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		that.logger.Error("failed to delete finished game", "game_id", game.ID, "error", err)
	}

	that.logger.Info("game finished", "game_id", game.ID, "winner", game.Winner)
}
