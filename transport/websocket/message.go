package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	actionGameNew   = "game:new"
	actionGameState = "game:state"
	actionGamePlace = "game:place"
	actionGameReset = "game:reset"
)

// Message is one frame in either direction: an action name and its payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload carries the arguments of an action. Cell is a pointer so that a missing
// cell is told apart from cell 0.
type RequestPayload struct {
	GameID string `json:"game_id,omitempty"`
	Cell   *int   `json:"cell,omitempty"`
}

type ResponsePayload struct {
	Game   *entity.Game `json:"game,omitempty"`
	Placed *bool        `json:"placed,omitempty"`
	Error  string       `json:"error,omitempty"`
}
