package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type gameResponse struct {
	Game   *entity.Game `json:"game"`
	Placed *bool        `json:"placed,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, "handleCreateGame", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, gameResponse{Game: game})
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "handleGetGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, "handleDeleteGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	cell, err := strconv.Atoi(r.PathValue("cell"))
	if err != nil {
		that.writeError(w, "handlePlace", fmt.Errorf("%w: %q", apperror.ErrInvalidCell, r.PathValue("cell")))
		return
	}

	game, placed, err := that.games.Place(r.Context(), r.PathValue("id"), cell)
	if err != nil {
		that.writeError(w, "handlePlace", err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game, Placed: &placed})
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.Reset(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "handleReset", err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *Server) handleRenderBoard(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "handleRenderBoard", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write([]byte(that.renderBoard(game))); err != nil {
		that.logger.Error("failed to write board", "error", err)
	}
}

// renderBoard - draws the board with the configured glyphs, free cells show their index.
func (that *Server) renderBoard(game *entity.Game) string {
	var sb strings.Builder

	for row := range 3 {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}

		cells := make([]string, 0, 3)
		for col := range 3 {
			idx := row*3 + col

			cell := that.glyph(game.Board[idx])
			if game.Board[idx] == entity.Empty {
				cell = strconv.Itoa(idx)
			}

			if game.WinningLine != nil && game.WinningLine.Contains(idx) {
				cell = "*" + cell
			} else {
				cell = " " + cell
			}

			cells = append(cells, cell+" ")
		}

		sb.WriteString(strings.Join(cells, "|"))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(that.statusLine(game))
	sb.WriteString("\n")

	return sb.String()
}

func (that *Server) statusLine(game *entity.Game) string {
	switch {
	case game.IsWon():
		return fmt.Sprintf("Game Over! Player %s wins!", that.glyph(game.Winner))
	case game.IsDraw():
		return "Draw! It's a draw!"
	case !game.Started:
		return "Click any square to start the game"
	default:
		return "Next player: " + that.glyph(game.Turn)
	}
}

func (that *Server) glyph(mark entity.Mark) string {
	switch mark {
	case entity.MarkA:
		return that.glyphs.MarkA
	case entity.MarkB:
		return that.glyphs.MarkB
	default:
		return " "
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *Server) writeError(w http.ResponseWriter, method string, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidCell):
		status = http.StatusBadRequest
	default:
		that.logger.Error("request failed", "method", method, "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}
