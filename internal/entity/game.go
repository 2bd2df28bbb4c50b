package entity

import (
	"errors"
	"fmt"
)

const BoardSize = 9

var (
	ErrUnknownMark   = errors.New("unknown mark")
	ErrUnknownStatus = errors.New("unknown game status")

	// WinLines is evaluated in this order: rows top to bottom, columns left to right,
	// then the main and the anti diagonal. The first full line wins.
	WinLines = [8]Line{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Mark is the content of a cell. The engine only knows two players, how they are drawn
// is up to whoever renders the board.
type Mark uint8

const (
	Empty Mark = iota
	MarkA
	MarkB
)

func (that Mark) String() string {
	switch that {
	case MarkA:
		return "a"
	case MarkB:
		return "b"
	default:
		return ""
	}
}

// Opponent - returns the other player's mark. Empty has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case MarkA:
		return MarkB
	case MarkB:
		return MarkA
	default:
		return Empty
	}
}

func (that Mark) IsValid() bool {
	return that <= MarkB
}

func (that Mark) MarshalText() ([]byte, error) {
	if !that.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMark, that)
	}
	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*that = Empty
	case "a":
		*that = MarkA
	case "b":
		*that = MarkB
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMark, text)
	}
	return nil
}

type Status uint8

const (
	StatusInProgress Status = iota
	StatusWon
	StatusDraw
)

func (that Status) String() string {
	switch that {
	case StatusInProgress:
		return "in_progress"
	case StatusWon:
		return "won"
	case StatusDraw:
		return "draw"
	default:
		return "unknown"
	}
}

func (that Status) MarshalText() ([]byte, error) {
	if that > StatusDraw {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, that)
	}
	return []byte(that.String()), nil
}

func (that *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "in_progress":
		*that = StatusInProgress
	case "won":
		*that = StatusWon
	case "draw":
		*that = StatusDraw
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStatus, text)
	}
	return nil
}

// Line is a triple of cell indexes.
type Line [3]int

func (that Line) Contains(cell int) bool {
	return that[0] == cell || that[1] == cell || that[2] == cell
}

// Board is laid out row by row: index = row*3 + col.
type Board [BoardSize]Mark

func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}
	return true
}

// Count - returns the number of cells holding the given mark.
func (that *Board) Count(mark Mark) int {
	n := 0
	for _, cell := range that {
		if cell == mark {
			n++
		}
	}
	return n
}

// Outcome is the terminal-state verdict for a board.
type Outcome struct {
	Status Status
	Winner Mark
	Line   *Line
}

// Evaluate - checks the board for a finished line, then for a full board.
func (that *Board) Evaluate() Outcome {
	for _, line := range WinLines {
		a, b, c := that[line[0]], that[line[1]], that[line[2]]
		if a != Empty && a == b && b == c {
			won := line
			return Outcome{Status: StatusWon, Winner: a, Line: &won}
		}
	}

	// the game continues until all the squares are filled
	if that.IsFull() {
		return Outcome{Status: StatusDraw}
	}

	return Outcome{Status: StatusInProgress}
}

// Game is a snapshot of one engine, as stored and as sent to clients.
type Game struct {
	ID          string `json:"id,omitempty"`
	Board       Board  `json:"board"`
	Turn        Mark   `json:"turn"`
	Status      Status `json:"status"`
	Winner      Mark   `json:"winner"`
	WinningLine *Line  `json:"winning_line,omitempty"`
	Started     bool   `json:"started"`
}

// NewGame - returns the initial state: empty board, MarkA to move.
func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		Board:  Board{},
		Turn:   MarkA,
		Status: StatusInProgress,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Game) IsWon() bool {
	return that.Status == StatusWon
}

func (that *Game) IsDraw() bool {
	return that.Status == StatusDraw
}
