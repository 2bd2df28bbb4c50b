package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	game, err := that.games.CreateGame(ctx)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new game")
	}

	log.Info("game created", "gameID", game.ID)

	return that.sendMessage(conn, msg.Action, ResponsePayload{Game: game})
}

func (that *Server) handleGameState(ctx context.Context, conn *connection, msg *Message) error {
	payloadReq, err := that.parseRequest(conn, msg)
	if err != nil || payloadReq == nil {
		return err
	}

	game, err := that.games.GetGame(ctx, payloadReq.GameID)
	if err != nil {
		return that.sendUseCaseError(conn, msg.Action, payloadReq.GameID, err)
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Game: game})
}

func (that *Server) handlePlace(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handlePlace")

	payloadReq, err := that.parseRequest(conn, msg)
	if err != nil || payloadReq == nil {
		return err
	}

	if payloadReq.Cell == nil {
		log.Error("Cell is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "cell is required")
	}

	game, placed, err := that.games.Place(ctx, payloadReq.GameID, *payloadReq.Cell)
	if err != nil {
		return that.sendUseCaseError(conn, msg.Action, payloadReq.GameID, err)
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Game: game, Placed: &placed})
}

func (that *Server) handleReset(ctx context.Context, conn *connection, msg *Message) error {
	payloadReq, err := that.parseRequest(conn, msg)
	if err != nil || payloadReq == nil {
		return err
	}

	game, err := that.games.Reset(ctx, payloadReq.GameID)
	if err != nil {
		return that.sendUseCaseError(conn, msg.Action, payloadReq.GameID, err)
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Game: game})
}

// parseRequest - decodes the payload and checks the game id. A nil payload with a nil error
// means the client already got an error response.
func (that *Server) parseRequest(conn *connection, msg *Message) (*RequestPayload, error) {
	var payloadReq RequestPayload

	if len(msg.Payload) == 0 {
		return nil, that.sendErrorResponse(conn, msg.Action, "payload is required")
	}

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		if sendErr := that.sendErrorResponse(conn, msg.Action, "malformed payload"); sendErr != nil {
			return nil, sendErr
		}
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.GameID == "" {
		return nil, that.sendErrorResponse(conn, msg.Action, "game_id is required")
	}

	return &payloadReq, nil
}

func (that *Server) sendUseCaseError(conn *connection, action, gameID string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound), errors.Is(err, apperror.ErrInvalidCell):
		return that.sendErrorResponse(conn, action, err.Error())
	default:
		that.logger.Error("use case failed", "action", action, "gameID", gameID, "error", err)
		return that.sendErrorResponse(conn, action, fmt.Sprintf("game %s: internal error", gameID))
	}
}

func (that *Server) sendMessage(conn *connection, action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.writeJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(conn *connection, action, errorMsg string) error {
	if err := that.sendMessage(conn, action, ResponsePayload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
