package tictactoe

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Result is what a placement leaves behind for the caller to render.
type Result struct {
	Placed      bool
	Status      entity.Status
	Winner      entity.Mark
	WinningLine *entity.Line
}

// Engine owns one board. Status, winner and winning line are only ever written by
// evaluate, so they cannot drift from the board.
type Engine struct {
	mu    sync.Mutex
	state entity.Game
}

func NewEngine() *Engine {
	return &Engine{state: *entity.NewGame("")}
}

// Restore - rebuilds an engine from a stored snapshot. Derived fields are recomputed from
// the board, the snapshot is rejected if the board could not come from real play.
func Restore(snapshot entity.Game) (*Engine, error) {
	if err := validateBoard(snapshot.Board, snapshot.Turn); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptedState, err)
	}

	engine := &Engine{state: entity.Game{
		ID:    snapshot.ID,
		Board: snapshot.Board,
		Turn:  snapshot.Turn,
	}}
	engine.evaluate()

	// only a successful placement starts a game, so a non-empty board always is one
	engine.state.Started = engine.state.Board.Count(entity.Empty) < entity.BoardSize

	return engine, nil
}

// Place - puts the current player's mark on the cell. Moves on an occupied cell or on a
// finished game are ignored, only an index outside the board is an error.
func (that *Engine) Place(cell int) (Result, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if cell < 0 || cell >= entity.BoardSize {
		return that.result(false), fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if !that.state.IsInProgress() || that.state.Board[cell] != entity.Empty {
		return that.result(false), nil
	}

	that.state.Started = true
	that.state.Board[cell] = that.state.Turn
	that.evaluate()

	if that.state.IsInProgress() {
		that.state.Turn = that.state.Turn.Opponent()
	}

	return that.result(true), nil
}

// Reset - brings the engine back to its initial state. The game id is kept.
func (that *Engine) Reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.state = *entity.NewGame(that.state.ID)
}

func (that *Engine) Board() entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state.Board
}

func (that *Engine) CurrentTurn() entity.Mark {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state.Turn
}

func (that *Engine) Status() entity.Status {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state.Status
}

// Winner - returns Empty unless the game is won.
func (that *Engine) Winner() entity.Mark {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state.Winner
}

func (that *Engine) WinningLine() (entity.Line, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.state.WinningLine == nil {
		return entity.Line{}, false
	}
	return *that.state.WinningLine, true
}

func (that *Engine) IsStarted() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state.Started
}

// Snapshot - returns a copy of the whole state.
func (that *Engine) Snapshot() entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.copyState()
}

func (that *Engine) copyState() entity.Game {
	snapshot := that.state
	if that.state.WinningLine != nil {
		line := *that.state.WinningLine
		snapshot.WinningLine = &line
	}
	return snapshot
}

// evaluate - must be called with the lock held.
func (that *Engine) evaluate() {
	outcome := that.state.Board.Evaluate()

	that.state.Status = outcome.Status
	that.state.Winner = outcome.Winner
	that.state.WinningLine = outcome.Line
}

func (that *Engine) result(placed bool) Result {
	snapshot := that.copyState()

	return Result{
		Placed:      placed,
		Status:      snapshot.Status,
		Winner:      snapshot.Winner,
		WinningLine: snapshot.WinningLine,
	}
}

func validateBoard(board entity.Board, turn entity.Mark) error {
	for i, cell := range board {
		if !cell.IsValid() {
			return fmt.Errorf("cell %d: %w", i, entity.ErrUnknownMark)
		}
	}

	if turn != entity.MarkA && turn != entity.MarkB {
		return fmt.Errorf("turn %d: %w", turn, entity.ErrUnknownMark)
	}

	countA, countB := board.Count(entity.MarkA), board.Count(entity.MarkB)
	if diff := countA - countB; diff != 0 && diff != 1 {
		return fmt.Errorf("impossible mark counts %d and %d", countA, countB)
	}

	outcome := board.Evaluate()
	switch outcome.Status {
	case entity.StatusWon:
		// the winner made the last move
		if (outcome.Winner == entity.MarkA) != (countA > countB) {
			return fmt.Errorf("winner %q did not make the last move", outcome.Winner)
		}
		return nil
	case entity.StatusDraw:
		return nil
	}

	expected := entity.MarkA
	if countA > countB {
		expected = entity.MarkB
	}

	if turn != expected {
		return fmt.Errorf("turn %q does not match the board", turn)
	}

	return nil
}
