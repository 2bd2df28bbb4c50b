package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	Place(ctx context.Context, id string, cell int) (*entity.Game, bool, error)
	Reset(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
}

type Server struct {
	logger   *slog.Logger
	games    gameUseCase
	glyphs   config.Glyphs
	gatherer prometheus.Gatherer
}

func New(logger *slog.Logger, games gameUseCase, glyphs config.Glyphs, gatherer prometheus.Gatherer) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		games:    games,
		glyphs:   glyphs,
		gatherer: gatherer,
	}
}

// Handler - returns the routes of the HTTP API.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", that.handlePing)
	mux.Handle("GET /metrics", promhttp.HandlerFor(that.gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /games", that.handleCreateGame)
	mux.HandleFunc("GET /games/{id}", that.handleGetGame)
	mux.HandleFunc("DELETE /games/{id}", that.handleDeleteGame)
	mux.HandleFunc("GET /games/{id}/board", that.handleRenderBoard)
	mux.HandleFunc("POST /games/{id}/cells/{cell}", that.handlePlace)
	mux.HandleFunc("POST /games/{id}/reset", that.handleReset)

	return mux
}

// Start - serves the HTTP API until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
