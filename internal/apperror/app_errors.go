package apperror

import "errors"

var (
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrCorruptedState  = errors.New("corrupted game state")
	ErrGameNotFound    = errors.New("game not found")
	ErrEmptyGameID     = errors.New("game id is empty")
	ErrUnknownAction   = errors.New("unknown action")
	ErrMissingArgument = errors.New("missing argument")
)
