package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type mockGameRepo struct {
	mock.Mock
}

func (m *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := m.Called(ctx, id)

	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) IncGamesCreated() {
	m.Called()
}

func (m *mockMetrics) ObservePlacement(placed bool, game *entity.Game) {
	m.Called(placed, game)
}

func (m *mockMetrics) IncResets() {
	m.Called()
}

// memoryGameRepo keeps games in a map, for tests that play several moves.
type memoryGameRepo struct {
	games map[string]entity.Game
}

func newMemoryGameRepo() *memoryGameRepo {
	return &memoryGameRepo{games: make(map[string]entity.Game)}
}

func (m *memoryGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	m.games[game.ID] = *game
	return nil
}

func (m *memoryGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	game, ok := m.games[id]
	if !ok {
		return nil, errGameNotFound
	}
	return &game, nil
}

func (m *memoryGameRepo) DeleteByID(_ context.Context, id string) error {
	delete(m.games, id)
	return nil
}
