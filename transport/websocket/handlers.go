package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/apperror"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	playerID := ""
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.uGame.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new player")
	}

	that.registerConnection(player.ID, conn)

	payloadResp := Payload{Player: player}

	if player.GameID != "" {
		game, gameErr := that.uGame.GetGameByPlayerID(ctx, player.ID)
		if gameErr != nil {
			log.Error("failed to get game", "game_id", player.GameID, "error", gameErr)
			return that.sendErrorResponse(conn, msg.Action, "failed to get the game")
		}

		if payloadResp.Game, err = newGameView(game); err != nil {
			return fmt.Errorf("failed to build game view: %w", err)
		}
	}

	if err = that.sendMessage(conn, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("player connected", "player_id", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleNewGame")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, "player is required")
	}

	game, err := that.uGame.GetOrCreateGame(ctx, payloadReq.Player.ID, payloadReq.GameType)
	if err != nil {
		log.Error("failed to create or get game", "player_id", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new game")
	}

	that.registerConnection(payloadReq.Player.ID, conn)

	view, err := newGameView(game)
	if err != nil {
		return fmt.Errorf("failed to build game view: %w", err)
	}

	if err = that.sendMessage(conn, msg.Action, Payload{Player: payloadReq.Player, Game: view}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("game ready", "game_id", game.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleJoinGame")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil || payloadReq.GameID == "" {
		return that.sendErrorResponse(conn, msg.Action, "player and game_id are required")
	}

	game, err := that.uGame.ConnectToGame(ctx, payloadReq.GameID, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to join game", "game_id", payloadReq.GameID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to join the game")
	}

	that.registerConnection(payloadReq.Player.ID, conn)
	that.broadcastGame(msg.Action, game)

	log.Info("player joined", "game_id", game.ID, "player_id", payloadReq.Player.ID)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleGameTurn")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil || payloadReq.Move == nil {
		return that.sendErrorResponse(conn, msg.Action, "player and move are required")
	}

	game, err := that.uGame.MakeTurn(ctx, payloadReq.Player.ID, payloadReq.Move.Super, payloadReq.Move.Sub)
	if err != nil {
		if isRuleViolation(err) {
			return that.sendErrorResponse(conn, msg.Action, err.Error())
		}

		log.Error("failed to make turn", "player_id", payloadReq.Player.ID, "error", err)

		return that.sendErrorResponse(conn, msg.Action, "failed to make turn")
	}

	that.broadcastGame(msg.Action, game)

	return nil
}

func (that *Server) handleGameUndo(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleGameUndo")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, "player is required")
	}

	game, err := that.uGame.UndoTurn(ctx, payloadReq.Player.ID)
	if err != nil {
		if isRuleViolation(err) {
			return that.sendErrorResponse(conn, msg.Action, err.Error())
		}

		log.Error("failed to undo turn", "player_id", payloadReq.Player.ID, "error", err)

		return that.sendErrorResponse(conn, msg.Action, "failed to undo turn")
	}

	that.broadcastGame(msg.Action, game)

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleGameReset")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == nil {
		return that.sendErrorResponse(conn, msg.Action, "player is required")
	}

	game, err := that.uGame.ResetGame(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to reset game", "player_id", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to reset game")
	}

	that.broadcastGame(msg.Action, game)

	return nil
}

// isRuleViolation separates expected gameplay rejections, reported to the
// client verbatim, from infrastructure failures.
func isRuleViolation(err error) bool {
	return errors.Is(err, apperror.ErrNotYourTurn) ||
		errors.Is(err, apperror.ErrNotForcedSquare) ||
		errors.Is(err, apperror.ErrCellNotPlayable) ||
		errors.Is(err, apperror.ErrNothingToUndo) ||
		errors.Is(err, apperror.ErrGameIsNotStarted) ||
		errors.Is(err, apperror.ErrGameFinished)
}
