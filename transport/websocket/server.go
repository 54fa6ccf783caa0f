package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/entity"
)

type uGame interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)
	GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	ConnectToGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, superSquare, subSquare int) (*entity.Game, error)
	UndoTurn(ctx context.Context, playerID string) (*entity.Game, error)
	ResetGame(ctx context.Context, playerID string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, message *Message, conn *websocket.Conn) error

type Server struct {
	logger *slog.Logger
	uGame  uGame

	upgrader websocket.Upgrader

	connectionsMutex sync.Mutex
	connections      map[string]*websocket.Conn

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameUseCase uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  gameUseCase,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		connections: make(map[string]*websocket.Conn),
		handlers:    make(map[string]handlerFunc),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["game:new"] = server.handleNewGame
	server.handlers["game:join"] = server.handleJoinGame
	server.handlers["game:turn"] = server.handleGameTurn
	server.handlers["game:undo"] = server.handleGameUndo
	server.handlers["game:reset"] = server.handleGameReset

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("remote", r.RemoteAddr)

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer func() {
		that.dropConnection(conn)
		_ = conn.Close()
	}()

	for {
		var message Message
		if err = conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("connection closed unexpectedly", "error", err)
			}
			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			_ = that.sendErrorResponse(conn, message.Action, "unknown action")
			continue
		}

		if err = handler(ctx, &message, conn); err != nil {
			log.Error("handler failed", "action", message.Action, "error", err)
		}
	}
}

// registerConnection binds a player ID to its socket so game updates can
// be pushed to both seats.
func (that *Server) registerConnection(playerID string, conn *websocket.Conn) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	that.connections[playerID] = conn
}

func (that *Server) dropConnection(conn *websocket.Conn) {
	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for playerID, existing := range that.connections {
		if existing == conn {
			delete(that.connections, playerID)
		}
	}
}

// broadcastGame pushes the updated game view to every seated player with a
// live connection.
func (that *Server) broadcastGame(action string, game *entity.Game) {
	view, err := newGameView(game)
	if err != nil {
		that.logger.Error("failed to build game view", "game_id", game.ID, "error", err)
		return
	}

	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for _, player := range game.Players {
		conn, ok := that.connections[player.ID]
		if !ok {
			continue
		}

		payload := Payload{Player: player, Game: view}
		if err = writeMessage(conn, action, payload); err != nil {
			that.logger.Error("failed to push game update", "player_id", player.ID, "error", err)
		}
	}
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload Payload) error {
	return writeMessage(conn, action, payload)
}

func (that *Server) sendErrorResponse(conn *websocket.Conn, action, message string) error {
	return writeMessage(conn, action, Payload{Error: message})
}

func writeMessage(conn *websocket.Conn, action string, payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
