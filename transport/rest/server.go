package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/entity"
	"github.com/Sahir1234/ultimate-tic-tac-toe/internal/repository"
)

type gameReader interface {
	GetGameByID(ctx context.Context, gameID string) (*entity.Game, error)
}

type archiveReader interface {
	GetByID(ctx context.Context, id string) (*repository.ArchivedGame, error)
}

type Server struct {
	logger  *slog.Logger
	games   gameReader
	archive archiveReader
}

func New(logger *slog.Logger, games gameReader, archive archiveReader) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		games:   games,
		archive: archive,
	}
}

// Router builds the HTTP routes: a health check and a read-only game
// snapshot for spectating, served from live storage with an archive
// fallback for finished games.
func (that *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Get("/ping", that.handlePing)
	router.Get("/games/{gameID}", that.handleGetGame)

	return router
}

// Start - starts the HTTP server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
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
