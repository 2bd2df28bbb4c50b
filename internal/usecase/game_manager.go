package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type metrics interface {
	IncGamesCreated()
	ObservePlacement(placed bool, game *entity.Game)
	IncResets()
}

// GameManager runs one engine per stored game. Calls for the same game id are
// serialized, so a place or a reset never interleaves with another one.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	metrics  metrics

	locksMutex sync.Mutex
	locks      map[string]*gameLock
}

type gameLock struct {
	sync.Mutex
	refs int
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, metrics metrics) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		metrics:  metrics,
		locks:    make(map[string]*gameLock),
	}
}

func (that *GameManager) CreateGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.metrics.IncGamesCreated()
	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// Place - places the current player's mark on the cell of the game. The returned flag is
// false when the engine ignored the move.
func (that *GameManager) Place(ctx context.Context, id string, cell int) (*entity.Game, bool, error) {
	log := that.logger.With("method", "Place", "gameID", id, "cell", cell)

	unlock := that.lock(id)
	defer unlock()

	engine, err := that.loadEngine(ctx, id)
	if err != nil {
		return nil, false, err
	}

	result, err := engine.Place(cell)
	if err != nil {
		return nil, false, fmt.Errorf("failed to place: %w", err)
	}

	game := engine.Snapshot()
	that.metrics.ObservePlacement(result.Placed, &game)

	if !result.Placed {
		log.Debug("placement ignored", "status", game.Status.String())
		return &game, false, nil
	}

	if err = that.updateGame(ctx, &game); err != nil {
		return nil, false, err
	}

	if game.IsFinished() {
		log.Info("game finished", "status", game.Status.String(), "winner", game.Winner.String())
	}

	return &game, true, nil
}

func (that *GameManager) Reset(ctx context.Context, id string) (*entity.Game, error) {
	unlock := that.lock(id)
	defer unlock()

	engine, err := that.loadEngine(ctx, id)
	if err != nil {
		return nil, err
	}

	engine.Reset()

	game := engine.Snapshot()
	if err = that.updateGame(ctx, &game); err != nil {
		return nil, err
	}

	that.metrics.IncResets()
	that.logger.Info("game reset", "gameID", id)

	return &game, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

func (that *GameManager) loadEngine(ctx context.Context, id string) (*tictactoe.Engine, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	engine, err := tictactoe.Restore(*game)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", id, err)
	}

	return engine, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

// lock - takes the lock of one game id. Locks are dropped once nobody holds or waits on them.
func (that *GameManager) lock(id string) func() {
	that.locksMutex.Lock()
	l, ok := that.locks[id]
	if !ok {
		l = &gameLock{}
		that.locks[id] = l
	}
	l.refs++
	that.locksMutex.Unlock()

	l.Lock()

	return func() {
		l.Unlock()

		that.locksMutex.Lock()
		l.refs--
		if l.refs == 0 {
			delete(that.locks, id)
		}
		that.locksMutex.Unlock()
	}
}
