package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type mockGames struct {
	mock.Mock
}

func (m *mockGames) CreateGame(ctx context.Context) (*entity.Game, error) {
	args := m.Called(ctx)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGames) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	args := m.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGames) Place(ctx context.Context, id string, cell int) (*entity.Game, bool, error) {
	args := m.Called(ctx, id, cell)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Bool(1), args.Error(2)
}

func (m *mockGames) Reset(ctx context.Context, id string) (*entity.Game, error) {
	args := m.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGames) DeleteGame(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type decodedResponse struct {
	Game   *entity.Game `json:"game"`
	Placed *bool        `json:"placed"`
	Error  string       `json:"error"`
}

func newTestServer(t *testing.T) (*httptest.Server, *mockGames) {
	t.Helper()

	games := &mockGames{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"}))

	server := New(logger, games, config.Glyphs{MarkA: "X", MarkB: "O"}, registry)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return ts, games
}

func doRequest(t *testing.T, method, url string) (*http.Response, decodedResponse) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body decodedResponse
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}

	return resp, body
}

func TestServer_Ping(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestServer_Metrics(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "test_total")
}

func TestServer_Games(t *testing.T) {
	t.Run("POST /games creates a game", func(t *testing.T) {
		// Given: a use case that creates a game
		ts, games := newTestServer(t)
		games.On("CreateGame", mock.Anything).Return(entity.NewGame("g1"), nil).Once()

		// When: posting to /games
		resp, body := doRequest(t, http.MethodPost, ts.URL+"/games")

		// Then: the new game is returned
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, entity.NewGame("g1"), body.Game)
	})

	t.Run("GET /games/{id} returns 404 for an unknown game", func(t *testing.T) {
		ts, games := newTestServer(t)
		games.On("GetGame", mock.Anything, "nope").Return(nil, apperror.ErrGameNotFound).Once()

		resp, body := doRequest(t, http.MethodGet, ts.URL+"/games/nope")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body.Error, "game not found")
	})

	t.Run("POST /games/{id}/cells/{cell} places a mark", func(t *testing.T) {
		// Given: a use case that accepts the move
		ts, games := newTestServer(t)

		game := entity.NewGame("g1")
		game.Board[4] = entity.MarkA
		game.Turn = entity.MarkB
		game.Started = true
		games.On("Place", mock.Anything, "g1", 4).Return(game, true, nil).Once()

		// When: posting the move
		resp, body := doRequest(t, http.MethodPost, ts.URL+"/games/g1/cells/4")

		// Then: the game and the placed flag are returned
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, body.Placed)
		assert.True(t, *body.Placed)
		assert.Equal(t, game, body.Game)
	})

	t.Run("POST /games/{id}/cells/{cell} reports an ignored move", func(t *testing.T) {
		ts, games := newTestServer(t)
		games.On("Place", mock.Anything, "g1", 4).Return(entity.NewGame("g1"), false, nil).Once()

		resp, body := doRequest(t, http.MethodPost, ts.URL+"/games/g1/cells/4")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, body.Placed)
		assert.False(t, *body.Placed)
	})

	t.Run("POST /games/{id}/cells/{cell} rejects a non numeric cell", func(t *testing.T) {
		ts, games := newTestServer(t)

		resp, body := doRequest(t, http.MethodPost, ts.URL+"/games/g1/cells/center")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body.Error, "invalid cell index")
		games.AssertNotCalled(t, "Place", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("POST /games/{id}/cells/{cell} rejects an out of range cell", func(t *testing.T) {
		ts, games := newTestServer(t)
		games.On("Place", mock.Anything, "g1", 12).Return(nil, false, apperror.ErrInvalidCell).Once()

		resp, _ := doRequest(t, http.MethodPost, ts.URL+"/games/g1/cells/12")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("POST /games/{id}/reset resets the game", func(t *testing.T) {
		ts, games := newTestServer(t)
		games.On("Reset", mock.Anything, "g1").Return(entity.NewGame("g1"), nil).Once()

		resp, body := doRequest(t, http.MethodPost, ts.URL+"/games/g1/reset")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, entity.NewGame("g1"), body.Game)
	})

	t.Run("DELETE /games/{id} deletes the game", func(t *testing.T) {
		ts, games := newTestServer(t)
		games.On("DeleteGame", mock.Anything, "g1").Return(nil).Once()

		resp, _ := doRequest(t, http.MethodDelete, ts.URL+"/games/g1")

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		games.AssertExpectations(t)
	})
}

func TestServer_RenderBoard(t *testing.T) {
	glyphs := config.Glyphs{MarkA: "X", MarkB: "O"}
	server := New(slog.New(slog.NewTextHandler(io.Discard, nil)), &mockGames{}, glyphs, prometheus.NewRegistry())

	t.Run("New game", func(t *testing.T) {
		board := server.renderBoard(entity.NewGame("g1"))

		assert.Equal(t, ""+
			" 0 | 1 | 2 \n"+
			"---+---+---\n"+
			" 3 | 4 | 5 \n"+
			"---+---+---\n"+
			" 6 | 7 | 8 \n"+
			"\n"+
			"Click any square to start the game\n", board)
	})

	t.Run("Game in progress", func(t *testing.T) {
		game := entity.NewGame("g1")
		game.Board[4] = entity.MarkA
		game.Turn = entity.MarkB
		game.Started = true

		board := server.renderBoard(game)

		assert.Contains(t, board, " 3 | X | 5 \n")
		assert.Contains(t, board, "Next player: O\n")
	})

	t.Run("Won game marks the winning line", func(t *testing.T) {
		line := entity.Line{0, 1, 2}
		game := &entity.Game{
			Board: entity.Board{
				entity.MarkA, entity.MarkA, entity.MarkA,
				entity.MarkB, entity.MarkB, entity.Empty,
				entity.Empty, entity.Empty, entity.Empty,
			},
			Turn:        entity.MarkA,
			Status:      entity.StatusWon,
			Winner:      entity.MarkA,
			WinningLine: &line,
			Started:     true,
		}

		board := server.renderBoard(game)

		assert.Contains(t, board, "*X |*X |*X \n")
		assert.Contains(t, board, "Game Over! Player X wins!\n")
	})

	t.Run("Draw", func(t *testing.T) {
		game := &entity.Game{Status: entity.StatusDraw, Started: true}

		assert.Contains(t, server.renderBoard(game), "Draw! It's a draw!\n")
	})

	t.Run("GET /games/{id}/board serves plain text", func(t *testing.T) {
		ts, games := newTestServer(t)
		games.On("GetGame", mock.Anything, "g1").Return(entity.NewGame("g1"), nil).Once()

		resp, err := http.Get(ts.URL + "/games/g1/board")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Contains(t, string(body), "Click any square to start the game")
	})
}
